package models

import "strings"

// FieldID is the store's identifier key. Clients cannot set it.
const FieldID = "_id"

// Document is a schema-less record body as stored in a collection. The store
// identifier is never one of its keys.
type Document map[string]any

// Record pairs a stored body with its store-assigned identifier.
type Record struct {
	ID   string
	Data Document
}

// Clone returns a shallow copy.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Without returns a copy of d minus the given keys.
func (d Document) Without(keys ...string) Document {
	out := d.Clone()
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// HasNonEmpty reports whether key is present with a usable value: not nil and,
// for strings, not blank.
func (d Document) HasNonEmpty(key string) bool {
	v, ok := d[key]
	if !ok || v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}
