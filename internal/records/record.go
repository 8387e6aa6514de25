// Package records holds imported datasets: ordered attribute-keyed rows.
package records

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Record is a single imported row. Keys keep the order they were first set in.
type Record struct {
	keys   []string
	values map[string]any
}

// New builds a record from alternating key, value pairs.
func New(pairs ...any) Record {
	var r Record
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Set(fmt.Sprint(pairs[i]), pairs[i+1])
	}
	return r
}

// Set stores value under key, appending key on first use.
func (r *Record) Set(key string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the raw value under key.
func (r Record) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// String returns the value under key rendered as text, or "" when absent.
func (r Record) String(key string) string {
	v, ok := r.values[key]
	if !ok {
		return ""
	}
	return ValueString(v)
}

// Keys returns a copy of the record keys in insertion order.
func (r Record) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Len returns the number of attributes.
func (r Record) Len() int {
	return len(r.keys)
}

// Map returns the values keyed by attribute.
func (r Record) Map() map[string]any {
	out := make(map[string]any, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// MarshalJSON writes the record as an object keeping key order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.values[key])
		if err != nil {
			return nil, fmt.Errorf("marshal %q: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ValueString renders an imported value for comparison and display.
func ValueString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case fmt.Stringer:
		return val.String()
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

// Union returns the keys of all records in first-seen order.
func Union(rs []Record) []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, r := range rs {
		for _, k := range r.keys {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	return keys
}
