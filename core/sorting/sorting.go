package sorting

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goto/sieve/core/record"
	"github.com/goto/sieve/core/validator"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Direction string

const (
	DirectionAsc  Direction = "asc"
	DirectionDesc Direction = "desc"
)

// Config orders records by a single field.
type Config struct {
	Field     string    `json:"field" yaml:"field" validate:"required"`
	Direction Direction `json:"direction" yaml:"direction" validate:"required,oneof=asc desc"`
}

func (c Config) Validate() error {
	return validator.ValidateStruct(c)
}

type entry struct {
	rec record.Record
	key interface{}
}

type options struct {
	schema    record.Schema
	fieldType record.FieldType
}

type Option func(*options)

// WithSchema reads the declared type of the sort field from schema. Date
// fields then order chronologically whatever their representation and
// number fields accept numeric strings. Values that cannot be read as the
// declared type sort with the missing ones.
func WithSchema(schema record.Schema) Option {
	return func(o *options) {
		o.schema = schema
	}
}

// Sort returns a new slice with records ordered by cfg. The sort is stable
// and records without a value for the field always come last, whatever the
// direction.
func Sort(records []record.Record, cfg Config, opts ...Option) []record.Record {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if spec, ok := o.schema.Lookup(cfg.Field); ok {
		o.fieldType = spec.Type
	}

	entries := make([]entry, len(records))
	for i, r := range records {
		entries[i] = entry{rec: r, key: sortKey(record.Value(r, cfg.Field), o.fieldType)}
	}

	col := collate.New(language.English)
	desc := cfg.Direction == DirectionDesc
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].key, entries[j].key
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}

		c := compare(col, a, b)
		if desc {
			c = -c
		}
		return c < 0
	})

	sorted := make([]record.Record, len(entries))
	for i, e := range entries {
		sorted[i] = e.rec
	}
	return sorted
}

// compare dispatches on the runtime type of both values and falls back to
// comparing their text.
func compare(col *collate.Collator, a, b interface{}) int {
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		return col.CompareString(as, bs)
	}

	an, aok := record.Number(a)
	bn, bok := record.Number(b)
	if aok && bok {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		}
		return 0
	}

	at, aok := a.(time.Time)
	bt, bok := b.(time.Time)
	if aok && bok {
		return at.Compare(bt)
	}

	return col.CompareString(record.Stringify(a), record.Stringify(b))
}

// sortKey converts v to the declared field type. A nil key sorts last.
func sortKey(v interface{}, typ record.FieldType) interface{} {
	switch typ {
	case record.FieldTypeDate:
		if t, ok := record.Time(v); ok {
			return t
		}
		return nil
	case record.FieldTypeNumber:
		if n, ok := record.Number(v); ok && !math.IsNaN(n) {
			return n
		}
		if s, ok := v.(string); ok {
			if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsNaN(n) {
				return n
			}
		}
		return nil
	}
	return v
}
