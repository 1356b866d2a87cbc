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
	"fmt"

	"rivaas.dev/entity/codec"
)

// Unmarshal decodes data with the codec registered for format and
// constructs the registered type name from the result. Codecs implementing
// [codec.OrderedDecoder] keep the document's key order.
//
// Example:
//
//	m, err := reg.Unmarshal("Point", codec.TypeYAML, []byte("x: 1\ny: 2\n"))
func (r *Registry) Unmarshal(name string, format codec.Type, data []byte) (Model, error) {
	dec, err := codec.GetDecoder(format)
	if err != nil {
		return nil, err
	}

	var plain any
	if od, ok := dec.(codec.OrderedDecoder); ok {
		plain, err = od.DecodeOrdered(data)
	} else {
		err = dec.Decode(data, &plain)
	}
	if err != nil {
		return nil, &PayloadError{Type: name, Err: fmt.Errorf("decode %s: %w", format, err)}
	}

	return r.Make(name, plain)
}

// Marshal encodes a model with the codec registered for format. JSON
// output keeps attribute order; other formats encode the flattened form.
func Marshal(m Model, format codec.Type) ([]byte, error) {
	enc, err := codec.GetEncoder(format)
	if err != nil {
		return nil, err
	}
	if format == codec.TypeJSON {
		return enc.Encode(m)
	}

	plain, err := m.Plain()
	if err != nil {
		return nil, err
	}

	b, err := enc.Encode(plain)
	if err != nil {
		return nil, fmt.Errorf("encode %s as %s: %w", m.TypeName(), format, err)
	}

	return b, nil
}
