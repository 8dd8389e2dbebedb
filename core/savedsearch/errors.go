package savedsearch

import (
	"errors"
	"fmt"
	"strings"
)

var ErrEmptyName = errors.New("name is required")

type NotFoundError struct {
	ID string
}

func (err NotFoundError) Error() string {
	return fmt.Sprintf("could not find saved search %q", err.ID)
}

type InvalidError struct {
	Err error
}

func (err InvalidError) Error() string {
	return fmt.Sprintf("invalid saved search: %s", err.Err)
}

func (err InvalidError) Unwrap() error {
	return err.Err
}

type StoreError struct {
	Op  string
	Key string
	Err error
}

func (err StoreError) Error() string {
	var s strings.Builder
	s.WriteString("saved search store error: ")
	if err.Op != "" {
		s.WriteString(err.Op + ": ")
	}
	if err.Key != "" {
		s.WriteString("key '" + err.Key + "': ")
	}
	s.WriteString(err.Err.Error())
	return s.String()
}

func (err StoreError) Unwrap() error {
	return err.Err
}
