package backend

import (
	"encoding/json"
	"strconv"
)

// Record is one entity instance as the backend returns it.
type Record map[string]any

// ID returns the backend identifier formatted as a path segment.
func (r Record) ID() string {
	return r.String("id")
}

// String formats a scalar attribute for display. Missing keys, nulls and
// nested values render as "".
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}

// Find returns the record whose ID equals id.
func Find(records []Record, id string) (Record, bool) {
	for _, r := range records {
		if r.ID() == id {
			return r, true
		}
	}
	return nil, false
}
