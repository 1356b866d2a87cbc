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

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
)

// TypeMsgPack is a constant representing the "msgpack" encoding type.
const TypeMsgPack Type = "msgpack"

func init() {
	RegisterEncoder(TypeMsgPack, MsgPackCodec{})
	RegisterDecoder(TypeMsgPack, MsgPackCodec{})
}

// MsgPackCodec encodes and decodes MessagePack. Map keys are written in
// sorted order and struct fields use their json tag.
type MsgPackCodec struct{}

// Encode encodes v as MessagePack.
func (MsgPackCodec) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decode decodes MessagePack into the value pointed to by v. Maps decode as
// map[string]any.
func (MsgPackCodec) Decode(data []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")

	return dec.Decode(v)
}
