package savedsearch

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/goto/salt/log"
	"github.com/goto/sieve/core/validator"
	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Service keeps the saved search list in memory and writes the whole list
// back to the Store on every change.
type Service struct {
	store  Store
	logger log.Logger
	now    func() time.Time
	newID  func() string

	mu       sync.RWMutex
	searches []SavedSearch

	opCounter metric.Int64Counter
}

type ServiceOption func(*Service)

func ServiceWithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

func ServiceWithIDGenerator(newID func() string) ServiceOption {
	return func(s *Service) {
		s.newID = newID
	}
}

// NewService loads the persisted list from store. An unreadable or
// corrupt list is logged and treated as empty.
func NewService(ctx context.Context, store Store, logger log.Logger, opts ...ServiceOption) *Service {
	opCounter, err := otel.Meter("github.com/goto/sieve/core/savedsearch").
		Int64Counter("sieve.savedsearch.operation")
	if err != nil {
		otel.Handle(err)
	}

	s := &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
		newID: func() string {
			return ulid.Make().String()
		},
		opCounter: opCounter,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.searches = s.read(ctx)
	return s
}

func (s *Service) read(ctx context.Context) []SavedSearch {
	data, err := s.store.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			s.logger.Warn("failed to read saved searches, starting empty", "key", StorageKey, "err", err)
		}
		return nil
	}

	var searches []SavedSearch
	if err := json.Unmarshal(data, &searches); err != nil {
		s.logger.Warn("failed to decode saved searches, starting empty", "key", StorageKey, "err", err)
		return nil
	}
	return searches
}

// Save validates ss, assigns an id and creation time and persists it. When
// ss carries the id of an existing entry, that entry is replaced.
func (s *Service) Save(ctx context.Context, ss SavedSearch) (saved SavedSearch, err error) {
	defer func() {
		s.instrumentOp(ctx, "Save", err)
	}()

	ss = ss.clone()
	ss.Name = strings.TrimSpace(ss.Name)
	if ss.Name == "" {
		return SavedSearch{}, InvalidError{Err: ErrEmptyName}
	}
	if err := validator.ValidateStruct(ss); err != nil {
		return SavedSearch{}, InvalidError{Err: err}
	}

	if ss.ID == "" {
		ss.ID = s.newID()
	}
	ss.CreatedAt = s.now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]SavedSearch, 0, len(s.searches)+1)
	for _, existing := range s.searches {
		if existing.ID == ss.ID {
			continue
		}
		if ss.IsDefault {
			existing.IsDefault = false
		}
		next = append(next, existing)
	}
	next = append(next, ss)

	if err := s.write(ctx, next); err != nil {
		return SavedSearch{}, err
	}
	s.searches = next

	return ss.clone(), nil
}

// Delete removes the saved search with id.
func (s *Service) Delete(ctx context.Context, id string) (err error) {
	defer func() {
		s.instrumentOp(ctx, "Delete", err)
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]SavedSearch, 0, len(s.searches))
	for _, existing := range s.searches {
		if existing.ID != id {
			next = append(next, existing)
		}
	}
	if len(next) == len(s.searches) {
		return NotFoundError{ID: id}
	}

	if err := s.write(ctx, next); err != nil {
		return err
	}
	s.searches = next
	return nil
}

// List returns every saved search in creation order.
func (s *Service) List() []SavedSearch {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]SavedSearch, 0, len(s.searches))
	for _, ss := range s.searches {
		list = append(list, ss.clone())
	}
	return list
}

func (s *Service) Load(id string) (SavedSearch, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ss := range s.searches {
		if ss.ID == id {
			return ss.clone(), true
		}
	}
	return SavedSearch{}, false
}

// Default returns the saved search flagged as default, if any.
func (s *Service) Default() (SavedSearch, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ss := range s.searches {
		if ss.IsDefault {
			return ss.clone(), true
		}
	}
	return SavedSearch{}, false
}

func (s *Service) write(ctx context.Context, searches []SavedSearch) error {
	data, err := json.Marshal(searches)
	if err != nil {
		return StoreError{Op: "encode", Key: StorageKey, Err: err}
	}
	if err := s.store.Set(ctx, StorageKey, data); err != nil {
		s.logger.Error("failed to persist saved searches", "key", StorageKey, "err", err)
		return StoreError{Op: "set", Key: StorageKey, Err: err}
	}
	return nil
}

func (s *Service) instrumentOp(ctx context.Context, op string, err error) {
	if s.opCounter == nil {
		return
	}
	s.opCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("sieve.savedsearch_operation", op),
		attribute.Bool("operation.success", err == nil),
	))
}
