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
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// TypeProto is a constant representing the "proto" encoding type: the
// binary wire form of a google.protobuf.Value.
const TypeProto Type = "proto"

func init() {
	RegisterEncoder(TypeProto, ProtoCodec{})
	RegisterDecoder(TypeProto, ProtoCodec{})
}

// ProtoCodec encodes plain values as a google.protobuf.Value. Numbers
// decode as float64, like JSON.
type ProtoCodec struct {
	// Unmarshal holds the options used by Decode.
	Unmarshal proto.UnmarshalOptions
}

// Encode encodes v. A [proto.Message] is marshaled as is; any other value
// is first normalized through JSON so that every JSON-encodable value is
// accepted.
func (ProtoCodec) Encode(v any) ([]byte, error) {
	if m, ok := v.(proto.Message); ok {
		return proto.Marshal(m)
	}

	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("proto: normalize %T: %w", v, err)
	}
	var plain any
	if err := json.Unmarshal(b, &plain); err != nil {
		return nil, fmt.Errorf("proto: normalize %T: %w", v, err)
	}

	pv, err := structpb.NewValue(plain)
	if err != nil {
		return nil, err
	}

	return proto.Marshal(pv)
}

// Decode decodes a google.protobuf.Value into v, which must be *any,
// *map[string]any, *[]any or a [proto.Message].
func (c ProtoCodec) Decode(data []byte, v any) error {
	if m, ok := v.(proto.Message); ok {
		return c.Unmarshal.Unmarshal(data, m)
	}

	var pv structpb.Value
	if err := c.Unmarshal.Unmarshal(data, &pv); err != nil {
		return err
	}

	switch target := v.(type) {
	case *any:
		*target = pv.AsInterface()
	case *map[string]any:
		s := pv.GetStructValue()
		if s == nil {
			return fmt.Errorf("proto: value is not a struct")
		}
		*target = s.AsMap()
	case *[]any:
		l := pv.GetListValue()
		if l == nil {
			return fmt.Errorf("proto: value is not a list")
		}
		*target = l.AsSlice()
	default:
		return fmt.Errorf("proto: cannot decode into %T", v)
	}

	return nil
}
