package domain

import "strings"

// RawRow is one parsed line of an uploaded file, keyed by header.
// Keys keep the order in which they were first set.
type RawRow struct {
	keys   []string
	values map[string]string
}

// NewRawRow creates an empty row.
func NewRawRow() *RawRow {
	return &RawRow{values: make(map[string]string)}
}

// RawRowFrom zips headers and values into a row. Missing values become empty strings.
func RawRowFrom(headers, values []string) *RawRow {
	row := NewRawRow()
	for i, h := range headers {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		row.Set(h, v)
	}
	return row
}

// Set stores a value. Setting an existing key keeps its original position.
func (r *RawRow) Set(key, value string) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value stored under the exact key.
func (r *RawRow) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the header keys in insertion order.
func (r *RawRow) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of columns.
func (r *RawRow) Len() int {
	return len(r.keys)
}

// Lookup finds a column by name ignoring case and treating '_' and ' ' as equal.
// The first matching key in insertion order wins.
func (r *RawRow) Lookup(name string) (string, bool) {
	want := normalizeHeader(name)
	for _, k := range r.keys {
		if normalizeHeader(k) == want {
			return r.values[k], true
		}
	}
	return "", false
}

func normalizeHeader(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(strings.ToLower(s), "_", " "))
}
