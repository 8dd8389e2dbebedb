package search

import (
	"github.com/goto/sieve/core/record"
	"github.com/goto/sieve/core/validator"
)

const (
	DefaultThreshold = 0.3
	DefaultLimit     = 50
)

// Options tunes how a query is matched against record fields.
type Options struct {
	// Fuzzy enables Levenshtein scoring when a field does not contain the query.
	Fuzzy bool `json:"fuzzy" yaml:"fuzzy" mapstructure:"fuzzy" default:"true"`

	CaseSensitive bool `json:"case_sensitive" yaml:"case_sensitive" mapstructure:"case_sensitive" default:"false"`

	// ExactMatch only accepts fields equal to the query.
	ExactMatch bool `json:"exact_match" yaml:"exact_match" mapstructure:"exact_match" default:"false"`

	// Fields is an optional allow-list of dotted field paths.
	Fields []string `json:"fields" yaml:"fields" mapstructure:"fields"`

	// Limit caps the number of ranked results, zero means unlimited.
	Limit uint `json:"limit" yaml:"limit" mapstructure:"limit" default:"50"`

	// Threshold is the minimum field score for a field to count as a match.
	Threshold float64 `json:"threshold" yaml:"threshold" mapstructure:"threshold" default:"0.3" validate:"gte=0,lte=1"`
}

func DefaultOptions() Options {
	return Options{
		Fuzzy:     true,
		Limit:     DefaultLimit,
		Threshold: DefaultThreshold,
	}
}

func (o Options) Validate() error {
	return validator.ValidateStruct(o)
}

// Result is a record that matched a query along with how it matched.
type Result struct {
	Item       record.Record     `json:"item"`
	Score      float64           `json:"score"`
	Matches    []string          `json:"matches"`
	Highlights map[string]string `json:"highlights"`
}
