package refjson

import (
	"strconv"
	"strings"
	"time"
)

// Record is a resolved object node. Its accessors probe a list of field-name
// aliases so that a single declarative table per entity replaces the legacy
// backend's inconsistent casings (customerID / customerId / CustomerId / ...).
// Matching is case-insensitive on the field name.
type Record map[string]any

// AsRecord converts a resolved node into a Record when it is an object.
func AsRecord(node any) (Record, bool) {
	obj, ok := node.(map[string]any)
	if !ok {
		return nil, false
	}
	return Record(obj), ok
}

func (r Record) lookup(names ...string) (any, bool) {
	for _, name := range names {
		if v, ok := r[name]; ok {
			return v, true
		}
	}
	for k, v := range r {
		for _, name := range names {
			if strings.EqualFold(k, name) {
				return v, true
			}
		}
	}
	return nil, false
}

// String returns the first matching field coerced to a string. Numeric values
// are formatted; anything else yields "".
func (r Record) String(names ...string) string {
	v, ok := r.lookup(names...)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

// Has reports whether any of the aliases is present with a non-empty value.
func (r Record) Has(names ...string) bool {
	v, ok := r.lookup(names...)
	if !ok {
		return false
	}
	if s, isStr := v.(string); isStr {
		return s != ""
	}
	return v != nil
}

// Record returns a nested object field as a Record.
func (r Record) Record(names ...string) (Record, bool) {
	v, ok := r.lookup(names...)
	if !ok {
		return nil, false
	}
	return AsRecord(v)
}

// Slice returns a nested array field.
func (r Record) Slice(names ...string) []any {
	v, ok := r.lookup(names...)
	if !ok {
		return nil
	}
	s, _ := v.([]any)
	return s
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Time parses the first matching field as a timestamp. The backend emits
// RFC3339 with and without zone offsets, and bare dates.
func (r Record) Time(names ...string) *time.Time {
	raw := r.String(names...)
	if raw == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}
