package filter

import (
	"regexp"
	"strings"

	"github.com/goto/salt/log"
	"github.com/goto/sieve/core/record"
)

// Engine narrows a fixed record collection with structured filters.
type Engine struct {
	records []record.Record
	logger  log.Logger
}

type EngineOption func(*Engine)

func WithLogger(logger log.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

func NewEngine(records []record.Record, opts ...EngineOption) *Engine {
	e := &Engine{
		records: records,
		logger:  log.NewNoop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply returns the records for which every filter holds.
func (e *Engine) Apply(filters []Filter) []record.Record {
	return apply(e.records, filters, e.logger)
}

// Apply returns the subset of records for which every filter holds. An
// empty filter list returns records unchanged.
func Apply(records []record.Record, filters []Filter) []record.Record {
	return apply(records, filters, log.NewNoop())
}

func apply(records []record.Record, filters []Filter, logger log.Logger) []record.Record {
	if len(filters) == 0 {
		return records
	}

	predicates := make([]predicate, 0, len(filters))
	for _, f := range filters {
		predicates = append(predicates, compile(f, logger))
	}

	matched := make([]record.Record, 0, len(records))
	for _, r := range records {
		if matchAll(r, filters, predicates) {
			matched = append(matched, r)
		}
	}
	return matched
}

func matchAll(r record.Record, filters []Filter, predicates []predicate) bool {
	for i, f := range filters {
		v, _ := record.Lookup(r, f.Field)
		if !predicates[i](v) {
			return false
		}
	}
	return true
}

// predicate reports whether a field value satisfies a filter. A missing
// field is passed as nil.
type predicate func(v interface{}) bool

func never(interface{}) bool { return false }

func compile(f Filter, logger log.Logger) predicate {
	switch f.Operator {
	case OperatorEquals:
		return func(v interface{}) bool { return equal(v, f.Value) }

	case OperatorContains:
		return stringPredicate(f.Value, strings.Contains)
	case OperatorStartsWith:
		return stringPredicate(f.Value, strings.HasPrefix)
	case OperatorEndsWith:
		return stringPredicate(f.Value, strings.HasSuffix)

	case OperatorGT:
		return numberPredicate(f.Value, func(a, b float64) bool { return a > b })
	case OperatorLT:
		return numberPredicate(f.Value, func(a, b float64) bool { return a < b })
	case OperatorGTE:
		return numberPredicate(f.Value, func(a, b float64) bool { return a >= b })
	case OperatorLTE:
		return numberPredicate(f.Value, func(a, b float64) bool { return a <= b })

	case OperatorBetween:
		bounds, ok := toList(f.Value)
		if !ok || len(bounds) != 2 {
			return never
		}
		lo, okLo := toNumber(bounds[0])
		hi, okHi := toNumber(bounds[1])
		if !okLo || !okHi {
			return never
		}
		return func(v interface{}) bool {
			n, ok := toNumber(v)
			return ok && n >= lo && n <= hi
		}

	case OperatorIn, OperatorNotIn:
		list, ok := toList(f.Value)
		if !ok {
			return never
		}
		in := func(v interface{}) bool {
			for _, item := range list {
				if equal(v, item) {
					return true
				}
			}
			return false
		}
		if f.Operator == OperatorIn {
			return in
		}
		return func(v interface{}) bool { return !in(v) }

	case OperatorBefore, OperatorAfter:
		ref, ok := toDate(f.Value)
		if !ok {
			return never
		}
		return func(v interface{}) bool {
			d, ok := toDate(v)
			if !ok {
				return false
			}
			if f.Operator == OperatorBefore {
				return d.Before(ref)
			}
			return d.After(ref)
		}

	case OperatorRegex:
		re, err := regexp.Compile("(?i)" + record.Stringify(f.Value))
		if err != nil {
			logger.Warn("invalid regex filter", "field", f.Field, "pattern", f.Value, "err", err)
			return never
		}
		return func(v interface{}) bool {
			if v == nil {
				return false
			}
			return re.MatchString(record.Stringify(v))
		}
	}

	logger.Warn("unknown filter operator", "field", f.Field, "operator", f.Operator)
	return never
}

func stringPredicate(value interface{}, match func(s, substr string) bool) predicate {
	needle := strings.ToLower(record.Stringify(value))
	return func(v interface{}) bool {
		if v == nil {
			return false
		}
		return match(strings.ToLower(record.Stringify(v)), needle)
	}
}

func numberPredicate(value interface{}, cmp func(a, b float64) bool) predicate {
	ref, ok := toNumber(value)
	if !ok {
		return never
	}
	return func(v interface{}) bool {
		n, ok := toNumber(v)
		return ok && cmp(n, ref)
	}
}
