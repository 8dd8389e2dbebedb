package record

import (
	"math"
	"strings"
	"time"

	"github.com/golang-module/carbon/v2"
)

// Time coerces v to a point in time. Strings without a zone are read as
// UTC so the result does not depend on the host's local zone. Numbers are
// epoch milliseconds.
func Time(v interface{}) (time.Time, bool) {
	switch tv := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return tv, !tv.IsZero()
	case string:
		return parseTime(tv)
	}

	n, ok := Number(v)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return time.Time{}, false
	}
	c := carbon.CreateFromTimestampMilli(int64(n), carbon.UTC)
	if c.Error != nil {
		return time.Time{}, false
	}
	return c.ToStdTime(), true
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	c := carbon.Parse(s, carbon.UTC)
	if c.Error != nil || c.IsInvalid() {
		c = carbon.ParseByLayout(s, time.RFC3339Nano, carbon.UTC)
	}
	if c.Error != nil || c.IsInvalid() {
		return time.Time{}, false
	}
	return c.ToStdTime(), true
}
