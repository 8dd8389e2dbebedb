package filter

import (
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/goto/sieve/core/record"
)

// toNumber coerces v for numeric comparison. Missing values, blank and
// non-numeric strings are not numbers.
func toNumber(v interface{}) (float64, bool) {
	if n, ok := record.Number(v); ok {
		return n, !math.IsNaN(n)
	}

	switch tv := v.(type) {
	case string:
		s := strings.TrimSpace(tv)
		if s == "" {
			return 0, false
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(n) {
			return 0, false
		}
		return n, true
	case bool:
		if tv {
			return 1, true
		}
		return 0, true
	case time.Time:
		return float64(tv.UnixMilli()), true
	}
	return 0, false
}

// toDate coerces v to a point in time. Numbers are epoch milliseconds and
// zoneless strings are UTC.
func toDate(v interface{}) (time.Time, bool) {
	return record.Time(v)
}

// toList returns the elements of a slice or array value.
func toList(v interface{}) ([]interface{}, bool) {
	if v == nil {
		return nil, false
	}
	if l, ok := v.([]interface{}); ok {
		return l, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	l := make([]interface{}, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		l[i] = rv.Index(i).Interface()
	}
	return l, true
}

// equal compares a field value with a filter value. Numbers compare by
// value regardless of their Go type and a missing value equals nothing.
func equal(a, b interface{}) bool {
	if a == nil || b == nil {
		return false
	}
	if an, ok := record.Number(a); ok {
		bn, ok := record.Number(b)
		return ok && an == bn
	}
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		return ok && at.Equal(bt)
	}
	return reflect.DeepEqual(a, b)
}
