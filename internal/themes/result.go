// Package themes models theme-extraction output and converts it into
// deterministic JSON for persistence.
package themes

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Result is the structured output of one theme-extraction run: an ordered
// sequence of named stages. It is produced once per run and never mutated
// after production.
type Result struct {
	Stages []Stage
}

// Add appends a stage, preserving production order.
func (r *Result) Add(name string, value Value) {
	r.Stages = append(r.Stages, Stage{Name: name, Value: value})
}

// Stage is one named entry of a Result.
type Stage struct {
	Name  string
	Value Value
}

// Value is the closed set of stage output shapes the engine may report:
// Table, Label, or Raw. Tagging the variant at production time removes any
// need for runtime introspection during serialization.
type Value interface {
	serialize() any
}

// Table is tabular stage output: ordered columns and rows of cells aligned
// with those columns. Rows may carry fewer cells than columns; missing
// trailing cells are simply absent from the serialized row.
type Table struct {
	Columns []string
	Rows    [][]any
}

func (t *Table) serialize() any {
	records := make([]*Object, 0, len(t.Rows))
	for _, row := range t.Rows {
		obj := NewObject()
		for i, column := range t.Columns {
			if i < len(row) {
				obj.Set(column, row[i])
			}
		}
		records = append(records, obj)
	}
	return records
}

// Label is an enumeration-like value carrying the enumeration type name and
// the member name. It serializes to its string representation.
type Label struct {
	Enum string
	Name string
}

func (l Label) String() string {
	if l.Enum == "" {
		return l.Name
	}
	return l.Enum + "." + l.Name
}

// MarshalJSON lets Labels appear inside table cells and raw values without
// losing their string form.
func (l Label) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

func (l Label) serialize() any {
	return l.String()
}

// Raw passes an already JSON-representable value through unchanged.
type Raw struct {
	Value any
}

func (r Raw) serialize() any {
	return r.Value
}

// Object is a JSON object that preserves key insertion order when marshalled.
// Serialized results and table rows use it so output key order is
// deterministic and matches production order.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject creates an empty ordered object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Set assigns a key, appending it to the key order on first assignment.
func (o *Object) Set(key string, value any) *Object {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
	return o
}

// Get returns the value for key and whether it is present.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Keys returns the key order. The returned slice must not be modified.
func (o *Object) Keys() []string {
	return o.keys
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return len(o.keys)
}

// MarshalJSON writes keys in insertion order with HTML escaping disabled.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		kb, err := encodeValue(key)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", key, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')

		vb, err := encodeValue(o.values[key])
		if err != nil {
			return nil, fmt.Errorf("marshal value for %q: %w", key, err)
		}
		buf.Write(vb)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encodeValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
