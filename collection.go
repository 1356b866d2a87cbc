// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package entity

import (
	"bytes"
	"iter"
	"slices"

	"github.com/spf13/cast"
)

// CollectionSchema describes a collection type: a name and the registered
// type every item is constructed as.
type CollectionSchema struct {
	name     string
	nested   string
	registry *Registry
}

// Name returns the type name.
func (cs *CollectionSchema) Name() string {
	return cs.name
}

// Nested returns the declared item type name.
func (cs *CollectionSchema) Nested() string {
	return cs.nested
}

// Empty returns a collection without items.
func (cs *CollectionSchema) Empty() *Collection {
	return &Collection{
		schema: cs,
		items:  make(map[any]Model),
	}
}

// New constructs a collection from payload. Every element is built by the
// nested type, so a collection never holds raw mappings.
//
// Accepted payloads: nil, JSON arrays and objects (string, []byte,
// json.RawMessage), slices and arrays, maps, another [*Collection] (keys
// are kept) and a [Slicer].
//
// Example:
//
//	points, err := reg.MustDefineCollection("Points", "Point").New(`[{"x":1,"y":2}]`)
func (cs *CollectionSchema) New(payload any) (*Collection, error) {
	entries, err := collectionEntries(cs.name, payload)
	if err != nil {
		return nil, err
	}

	c := cs.Empty()
	for _, en := range entries {
		item, err := cs.makeNestedItem(en.value)
		if err != nil {
			return nil, err
		}
		c.put(en.key, item)
	}

	return c, nil
}

// Make is [CollectionSchema.New] returning the [Model] interface.
func (cs *CollectionSchema) Make(payload any) (Model, error) {
	c, err := cs.New(payload)
	if err != nil {
		return nil, err
	}

	return c, nil
}

// makeNestedItem builds one item through the nested type's entry point.
func (cs *CollectionSchema) makeNestedItem(value any) (Model, error) {
	t := cs.registry.lookup(cs.nested)
	if t == nil {
		return nil, &InvalidNestedTypeError{Collection: cs.name, Nested: cs.nested, Reason: "is not registered"}
	}
	if !t.isModel() {
		return nil, &InvalidNestedTypeError{Collection: cs.name, Nested: cs.nested, Reason: "is not an entity or collection type"}
	}

	return t.make(value)
}

// Collection is an ordered sequence of items of one nested type, addressable
// by int or string key. Removing items can leave gaps in the int keys.
//
// A Collection is not safe for concurrent use.
type Collection struct {
	schema *CollectionSchema

	keys  []any
	items map[any]Model
	next  int
}

// Schema returns the schema the collection was built from.
func (c *Collection) Schema() *CollectionSchema {
	return c.schema
}

// TypeName returns the registered name of the collection type.
func (c *Collection) TypeName() string {
	if c.schema == nil {
		return ""
	}
	return c.schema.name
}

// Len returns the number of items.
func (c *Collection) Len() int {
	return len(c.keys)
}

// Has reports whether an item is stored under key.
func (c *Collection) Has(key any) bool {
	k, err := normalizeKey(key)
	if err != nil {
		return false
	}
	_, ok := c.items[k]
	return ok
}

// Get returns the item stored under key.
func (c *Collection) Get(key any) (Model, bool) {
	k, err := normalizeKey(key)
	if err != nil {
		return nil, false
	}
	m, ok := c.items[k]
	return m, ok
}

// Set builds value as the nested type and stores it under key. A nil key
// appends.
func (c *Collection) Set(key, value any) error {
	item, err := c.schema.makeNestedItem(value)
	if err != nil {
		return err
	}
	if key == nil {
		c.put(c.next, item)
		return nil
	}

	k, err := normalizeKey(key)
	if err != nil {
		return err
	}
	c.put(k, item)

	return nil
}

// Unset removes the item stored under key.
func (c *Collection) Unset(key any) {
	k, err := normalizeKey(key)
	if err != nil {
		return
	}
	c.remove(k)
}

// Push appends values in order.
func (c *Collection) Push(values ...any) error {
	for _, v := range values {
		if err := c.Set(nil, v); err != nil {
			return err
		}
	}
	return nil
}

// Pop removes and returns the last item, or nil if the collection is empty.
func (c *Collection) Pop() Model {
	if len(c.keys) == 0 {
		return nil
	}

	k := c.keys[len(c.keys)-1]
	m := c.items[k]
	c.remove(k)
	c.resetNext()

	return m
}

// Shift removes and returns the first item, or nil if the collection is
// empty. Int keys are renumbered from zero.
func (c *Collection) Shift() Model {
	if len(c.keys) == 0 {
		return nil
	}

	k := c.keys[0]
	m := c.items[k]
	c.remove(k)
	c.reindex(nil)

	return m
}

// Prepend builds value as the nested type and puts it first. Without a key
// the int keys are renumbered; with a key, any item already stored under it
// is replaced.
func (c *Collection) Prepend(value any, key ...any) error {
	item, err := c.schema.makeNestedItem(value)
	if err != nil {
		return err
	}

	if len(key) == 0 || key[0] == nil {
		c.reindex(item)
		return nil
	}

	k, err := normalizeKey(key[0])
	if err != nil {
		return err
	}
	c.remove(k)
	c.keys = slices.Insert(c.keys, 0, k)
	c.items[k] = item
	if i, ok := k.(int); ok && i >= c.next {
		c.next = i + 1
	}

	return nil
}

// Pull removes and returns the item stored under key. If there is none the
// collection is left unchanged and fallback is returned.
func (c *Collection) Pull(key any, fallback Model) Model {
	k, err := normalizeKey(key)
	if err != nil {
		return fallback
	}
	m, ok := c.items[k]
	if !ok {
		return fallback
	}
	c.remove(k)

	return m
}

// Reverse returns a new collection with the items in reverse order. Keys
// are kept.
func (c *Collection) Reverse() *Collection {
	out := c.schema.Empty()
	for _, k := range slices.Backward(c.keys) {
		out.put(k, cloneModel(c.items[k]))
	}
	return out
}

// Values returns a new collection with the same items keyed 0..n-1.
func (c *Collection) Values() *Collection {
	out := c.schema.Empty()
	for i, k := range c.keys {
		out.put(i, cloneModel(c.items[k]))
	}
	return out
}

// Clone returns a deep copy.
func (c *Collection) Clone() *Collection {
	out := c.schema.Empty()
	for _, k := range c.keys {
		out.put(k, cloneModel(c.items[k]))
	}
	out.next = c.next
	return out
}

// Keys returns the keys in order. Each key is an int or a string.
func (c *Collection) Keys() []any {
	return slices.Clone(c.keys)
}

// Items returns the items in order.
func (c *Collection) Items() []Model {
	out := make([]Model, len(c.keys))
	for i, k := range c.keys {
		out[i] = c.items[k]
	}
	return out
}

// All returns an iterator over keys and items in order.
//
// Example:
//
//	for key, item := range points.All() {
//	    fmt.Println(key, item)
//	}
func (c *Collection) All() iter.Seq2[any, Model] {
	return func(yield func(any, Model) bool) {
		for _, k := range c.keys {
			if !yield(k, c.items[k]) {
				return
			}
		}
	}
}

// First returns the first item.
func (c *Collection) First() (Model, bool) {
	if len(c.keys) == 0 {
		return nil, false
	}
	return c.items[c.keys[0]], true
}

// Last returns the last item.
func (c *Collection) Last() (Model, bool) {
	if len(c.keys) == 0 {
		return nil, false
	}
	return c.items[c.keys[len(c.keys)-1]], true
}

// Plain implements [Model]. It returns []any when the keys are 0..n-1 in
// order and map[string]any otherwise.
func (c *Collection) Plain() (any, error) {
	if c.sequential() {
		return c.ToSlice()
	}

	m := make(map[string]any, len(c.keys))
	for _, k := range c.keys {
		v, err := c.items[k].Plain()
		if err != nil {
			return nil, err
		}
		m[cast.ToString(k)] = v
	}

	return m, nil
}

// ToSlice returns the flattened items in order, dropping keys.
func (c *Collection) ToSlice() ([]any, error) {
	out := make([]any, len(c.keys))
	for i, k := range c.keys {
		v, err := c.items[k].Plain()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}

// ToJSON encodes the collection as a JSON array when the keys are 0..n-1
// in order, and as an object in key order otherwise.
func (c *Collection) ToJSON(opts ...JSONOption) ([]byte, error) {
	cfg := newJSONConfig(opts)

	var buf bytes.Buffer
	if err := c.writeJSON(&buf, cfg); err != nil {
		return nil, err
	}

	return finishJSON(buf.Bytes(), cfg)
}

// MarshalJSON implements [json.Marshaler].
func (c *Collection) MarshalJSON() ([]byte, error) {
	return c.ToJSON()
}

// UnmarshalJSON implements [json.Unmarshaler]. The receiver must have been
// created by a [CollectionSchema]; its items are replaced.
func (c *Collection) UnmarshalJSON(data []byte) error {
	if c.schema == nil {
		return ErrNoSchema
	}

	fresh, err := c.schema.New(data)
	if err != nil {
		return err
	}
	*c = *fresh

	return nil
}

// String returns the JSON encoding, or an empty string if it fails.
func (c *Collection) String() string {
	b, err := c.ToJSON()
	if err != nil {
		return ""
	}
	return string(b)
}

func (c *Collection) writeJSON(buf *bytes.Buffer, cfg *jsonConfig) error {
	seq := c.sequential()
	if seq {
		buf.WriteByte('[')
	} else {
		buf.WriteByte('{')
	}

	for i, k := range c.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if !seq {
			if err := encodeJSON(buf, cast.ToString(k), cfg); err != nil {
				return err
			}
			buf.WriteByte(':')
		}
		if err := writeJSONValue(buf, c.items[k], cfg); err != nil {
			return err
		}
	}

	if seq {
		buf.WriteByte(']')
	} else {
		buf.WriteByte('}')
	}

	return nil
}

// sequential reports whether the keys are exactly 0..n-1 in order.
func (c *Collection) sequential() bool {
	for i, k := range c.keys {
		if n, ok := k.(int); !ok || n != i {
			return false
		}
	}
	return true
}

func (c *Collection) put(key any, item Model) {
	if _, ok := c.items[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.items[key] = item
	if i, ok := key.(int); ok && i >= c.next {
		c.next = i + 1
	}
}

func (c *Collection) remove(key any) {
	if _, ok := c.items[key]; !ok {
		return
	}
	delete(c.items, key)
	c.keys = slices.DeleteFunc(c.keys, func(k any) bool { return k == key })
}

// resetNext sets the append position after the largest int key.
func (c *Collection) resetNext() {
	c.next = 0
	for _, k := range c.keys {
		if i, ok := k.(int); ok && i >= c.next {
			c.next = i + 1
		}
	}
}

// reindex renumbers int keys from zero in order, after lead when it is
// not nil. String keys are kept.
func (c *Collection) reindex(lead Model) {
	keys := make([]any, 0, len(c.keys)+1)
	items := make(map[any]Model, len(c.items)+1)
	n := 0
	if lead != nil {
		keys = append(keys, 0)
		items[0] = lead
		n++
	}
	for _, k := range c.keys {
		m := c.items[k]
		if _, ok := k.(int); ok {
			k = n
			n++
		}
		keys = append(keys, k)
		items[k] = m
	}
	c.keys = keys
	c.items = items
	c.next = n
}

func cloneModel(m Model) Model {
	switch x := m.(type) {
	case *Entity:
		return x.Clone()
	case *Collection:
		return x.Clone()
	}
	return m
}
