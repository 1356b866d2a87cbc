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

package codec

// Pair is one key of a top-level mapping.
type Pair struct {
	Key   string
	Value any
}

// Ordered is a top-level mapping in document order. Nested mappings stay
// map[string]any.
type Ordered []Pair

// AsMap returns the pairs as a map. Later duplicates win.
func (o Ordered) AsMap() map[string]any {
	m := make(map[string]any, len(o))
	for _, p := range o {
		m[p.Key] = p.Value
	}
	return m
}

// Keys returns the keys in document order.
func (o Ordered) Keys() []string {
	keys := make([]string, len(o))
	for i, p := range o {
		keys[i] = p.Key
	}
	return keys
}

// OrderedDecoder is implemented by decoders that keep the key order of a
// top-level mapping. A mapping decodes to [Ordered]. Any other document
// decodes as Decode into *any would.
type OrderedDecoder interface {
	DecodeOrdered(data []byte) (any, error)
}

// DecodeOrdered decodes data with the decoder registered for t. Decoders
// implementing [OrderedDecoder] keep top-level key order.
func DecodeOrdered(t Type, data []byte) (any, error) {
	dec, err := GetDecoder(t)
	if err != nil {
		return nil, err
	}
	if od, ok := dec.(OrderedDecoder); ok {
		return od.DecodeOrdered(data)
	}

	var v any
	if err := dec.Decode(data, &v); err != nil {
		return nil, err
	}

	return v, nil
}
