package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// DateFormat is the calendar-date layout used everywhere in the system.
// Comparisons are always done on YYYY-MM-DD strings, never on timestamps,
// so timezone skew cannot shift a date across a boundary.
const DateFormat = "2006-01-02"

// NormalizeDate reduces any supported date representation to YYYY-MM-DD.
// Accepts plain YYYY-MM-DD and RFC3339 timestamps (the form Postgres drivers
// and JSON clients tend to hand back for date columns).
func NormalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateFormat, s); err == nil {
		return t.Format(DateFormat), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(DateFormat), nil
	}
	return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
}

// DateList is an ordered set of YYYY-MM-DD dates stored as a native
// Postgres array column on the parent row. It is a denormalized cache of
// the per-date child records; every reconciliation path keeps it in sync.
type DateList []string

// Value serializes the list as a Postgres array literal.
func (d DateList) Value() (driver.Value, error) {
	if len(d) == 0 {
		return "{}", nil
	}
	return "{" + strings.Join(d, ",") + "}", nil
}

// Scan parses a Postgres array literal back into the list.
func (d *DateList) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*d = nil
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into DateList", src)
	}

	raw = strings.Trim(raw, "{}")
	if raw == "" {
		*d = DateList{}
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make(DateList, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `"`)
		if p != "" {
			out = append(out, p)
		}
	}
	*d = out
	return nil
}

// Contains reports whether date is in the list, by exact string equality.
func (d DateList) Contains(date string) bool {
	for _, v := range d {
		if v == date {
			return true
		}
	}
	return false
}

// Subtract returns a new list with every date in remove taken out.
// Removal is by exact string equality, never by index.
func (d DateList) Subtract(remove []string) DateList {
	drop := make(map[string]struct{}, len(remove))
	for _, r := range remove {
		drop[r] = struct{}{}
	}
	out := make(DateList, 0, len(d))
	for _, v := range d {
		if _, gone := drop[v]; !gone {
			out = append(out, v)
		}
	}
	return out
}

// Intersect returns the dates present in both lists, preserving d's order.
func (d DateList) Intersect(other []string) DateList {
	keep := make(map[string]struct{}, len(other))
	for _, o := range other {
		keep[o] = struct{}{}
	}
	out := DateList{}
	for _, v := range d {
		if _, ok := keep[v]; ok {
			out = append(out, v)
		}
	}
	return out
}
