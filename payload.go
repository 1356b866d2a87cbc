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
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"

	"rivaas.dev/entity/codec"
)

// Mapper is implemented by foreign values that can present themselves as a
// plain mapping. [google.golang.org/protobuf/types/known/structpb.Struct]
// satisfies it.
type Mapper interface {
	AsMap() map[string]any
}

// Slicer is implemented by foreign values that can present themselves as a
// plain sequence. [google.golang.org/protobuf/types/known/structpb.ListValue]
// satisfies it.
type Slicer interface {
	AsSlice() []any
}

// field is one attribute of an entity payload.
type field struct {
	key   string
	value any
}

// entry is one item of a collection payload.
type entry struct {
	key   any
	value any
}

// entityFields normalizes an entity payload into ordered fields.
func entityFields(typeName string, payload any) ([]field, error) {
	fail := func(err error) ([]field, error) {
		return nil, &PayloadError{Type: typeName, Err: err}
	}

	switch p := payload.(type) {
	case nil:
		return nil, nil
	case string:
		fields, err := decodeObject([]byte(p))
		if err != nil {
			return fail(err)
		}
		return fields, nil
	case []byte:
		fields, err := decodeObject(p)
		if err != nil {
			return fail(err)
		}
		return fields, nil
	case json.RawMessage:
		fields, err := decodeObject(p)
		if err != nil {
			return fail(err)
		}
		return fields, nil
	case *Entity:
		if p == nil {
			return nil, nil
		}
		return p.plainFields()
	case Model:
		v, err := p.Plain()
		if err != nil {
			return nil, err
		}
		m, ok := v.(map[string]any)
		if !ok {
			return fail(fmt.Errorf("%s has a sequence form, not a mapping", p.TypeName()))
		}
		return sortedFields(m), nil
	case codec.Ordered:
		fields := make([]field, len(p))
		for i, pair := range p {
			fields[i] = field{key: pair.Key, value: pair.Value}
		}
		return fields, nil
	case Mapper:
		return sortedFields(p.AsMap()), nil
	case map[string]any:
		return sortedFields(p), nil
	}

	rv := reflect.ValueOf(payload)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k, err := cast.ToStringE(iter.Key().Interface())
			if err != nil {
				return fail(fmt.Errorf("map key: %w", err))
			}
			m[k] = iter.Value().Interface()
		}
		return sortedFields(m), nil

	case reflect.Struct:
		m, err := structToMap(rv.Interface())
		if err != nil {
			return fail(err)
		}
		return sortedFields(m), nil
	}

	return fail(fmt.Errorf("unsupported payload type %T", payload))
}

// structToMap decodes a struct into a mapping keyed by json tag names.
func structToMap(v any) (map[string]any, error) {
	var out map[string]any
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &out,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(v); err != nil {
		return nil, fmt.Errorf("decode %T: %w", v, err)
	}

	return out, nil
}

func sortedFields(m map[string]any) []field {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	fields := make([]field, len(keys))
	for i, k := range keys {
		fields[i] = field{key: k, value: m[k]}
	}

	return fields
}

// decodeObject decodes a JSON object keeping its key order. Empty input and
// the null literal decode to no fields.
func decodeObject(data []byte) ([]field, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, expectEOF(dec)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", tok)
	}

	var fields []field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("invalid object key %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("value of %q: %w", key, err)
		}
		fields = append(fields, field{key: key, value: v})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	return fields, expectEOF(dec)
}

// decodeEntries decodes a JSON array or object into collection entries in
// document order.
func decodeEntries(data []byte) ([]entry, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, expectEOF(dec)
	}

	var entries []entry
	switch tok {
	case json.Delim('['):
		for i := 0; dec.More(); i++ {
			var v any
			if err := dec.Decode(&v); err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			entries = append(entries, entry{key: i, value: v})
		}
	case json.Delim('{'):
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			k, ok := tok.(string)
			if !ok {
				return nil, fmt.Errorf("invalid object key %v", tok)
			}
			var v any
			if err := dec.Decode(&v); err != nil {
				return nil, fmt.Errorf("item %q: %w", k, err)
			}
			key, _ := normalizeKey(k)
			entries = append(entries, entry{key: key, value: v})
		}
	default:
		return nil, fmt.Errorf("expected JSON array or object, got %v", tok)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	return entries, expectEOF(dec)
}

func expectEOF(dec *json.Decoder) error {
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after top-level value")
	}
	return nil
}

// collectionEntries normalizes a collection payload into ordered entries.
func collectionEntries(typeName string, payload any) ([]entry, error) {
	fail := func(err error) ([]entry, error) {
		return nil, &PayloadError{Type: typeName, Err: err}
	}

	switch p := payload.(type) {
	case nil:
		return nil, nil
	case string:
		entries, err := decodeEntries([]byte(p))
		if err != nil {
			return fail(err)
		}
		return entries, nil
	case []byte:
		entries, err := decodeEntries(p)
		if err != nil {
			return fail(err)
		}
		return entries, nil
	case json.RawMessage:
		entries, err := decodeEntries(p)
		if err != nil {
			return fail(err)
		}
		return entries, nil
	case *Collection:
		if p == nil {
			return nil, nil
		}
		entries := make([]entry, 0, len(p.keys))
		for _, k := range p.keys {
			entries = append(entries, entry{key: k, value: p.items[k]})
		}
		return entries, nil
	case Slicer:
		return sequenceEntries(p.AsSlice()), nil
	case []any:
		return sequenceEntries(p), nil
	case codec.Ordered:
		entries := make([]entry, 0, len(p))
		for _, pair := range p {
			key, err := normalizeKey(pair.Key)
			if err != nil {
				return fail(err)
			}
			entries = append(entries, entry{key: key, value: pair.Value})
		}
		return entries, nil
	case *Entity, Mapper:
		return fail(fmt.Errorf("a single record is not a collection payload"))
	}

	rv := reflect.ValueOf(payload)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		entries := make([]entry, rv.Len())
		for i := range rv.Len() {
			entries[i] = entry{key: i, value: rv.Index(i).Interface()}
		}
		return entries, nil

	case reflect.Map:
		entries := make([]entry, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key, err := normalizeKey(iter.Key().Interface())
			if err != nil {
				return fail(err)
			}
			entries = append(entries, entry{key: key, value: iter.Value().Interface()})
		}
		slices.SortStableFunc(entries, func(a, b entry) int {
			return compareKeys(a.key, b.key)
		})
		return entries, nil
	}

	return fail(fmt.Errorf("unsupported payload type %T", payload))
}

func sequenceEntries(items []any) []entry {
	entries := make([]entry, len(items))
	for i, v := range items {
		entries[i] = entry{key: i, value: v}
	}
	return entries
}

// normalizeKey maps a collection key to int or string. Canonical integer
// strings become ints, booleans become 0 or 1 and floats are truncated.
func normalizeKey(k any) (any, error) {
	switch x := k.(type) {
	case int:
		return x, nil
	case string:
		if i, err := strconv.Atoi(x); err == nil && strconv.Itoa(i) == x {
			return i, nil
		}
		return x, nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case float32, float64:
		f := cast.ToFloat64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKey, k)
		}
		return int(f), nil
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		i, err := cast.ToIntE(x)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
		return i, nil
	}

	return nil, fmt.Errorf("%w: %T", ErrInvalidKey, k)
}

// compareKeys orders int keys numerically before string keys.
func compareKeys(a, b any) int {
	ai, aInt := a.(int)
	bi, bInt := b.(int)
	switch {
	case aInt && bInt:
		return cmp.Compare(ai, bi)
	case aInt:
		return -1
	case bInt:
		return 1
	}

	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

// clonePlain deep-copies plain maps and slices.
func clonePlain(v any) any {
	switch x := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, val := range x {
			m[k] = clonePlain(val)
		}
		return m
	case Object:
		m := make(Object, len(x))
		for k, val := range x {
			m[k] = clonePlain(val)
		}
		return m
	case []any:
		s := make([]any, len(x))
		for i, val := range x {
			s[i] = clonePlain(val)
		}
		return s
	}

	return v
}
