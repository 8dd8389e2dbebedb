package savedsearch

import (
	"time"

	"github.com/goto/sieve/core/filter"
	"github.com/goto/sieve/core/sorting"
)

// SavedSearch is a named query profile that can be re-applied to a list view.
type SavedSearch struct {
	ID          string          `json:"id"`
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description,omitempty"`
	Query       string          `json:"query"`
	Filters     []filter.Filter `json:"filters" validate:"dive"`
	Sort        *sorting.Config `json:"sort,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	IsDefault   bool            `json:"is_default,omitempty"`
}

func (s SavedSearch) clone() SavedSearch {
	c := s
	if s.Filters != nil {
		c.Filters = make([]filter.Filter, len(s.Filters))
		copy(c.Filters, s.Filters)
	}
	if s.Sort != nil {
		srt := *s.Sort
		c.Sort = &srt
	}
	return c
}
