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
	"fmt"

	"github.com/goccy/go-yaml"
)

// TypeYAML is a constant representing the "yaml" encoding type.
const TypeYAML Type = "yaml"

func init() {
	RegisterEncoder(TypeYAML, YAMLCodec{})
	RegisterDecoder(TypeYAML, YAMLCodec{})
}

// YAMLCodec encodes and decodes YAML documents.
type YAMLCodec struct{}

// Encode encodes v as YAML.
func (YAMLCodec) Encode(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

// Decode decodes YAML into the value pointed to by v. Mappings decode as
// map[string]any.
func (YAMLCodec) Decode(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

// DecodeOrdered decodes a YAML document keeping the key order of a top-level
// mapping. Merge keys are expanded in place.
func (YAMLCodec) DecodeOrdered(data []byte) (any, error) {
	var v any
	if err := yaml.UnmarshalWithOptions(data, &v, yaml.UseOrderedMap()); err != nil {
		return nil, err
	}

	if ms, ok := v.(yaml.MapSlice); ok {
		o := make(Ordered, 0, len(ms))
		for _, item := range ms {
			o = append(o, Pair{Key: yamlKey(item.Key), Value: plainYAML(item.Value)})
		}
		return o, nil
	}

	return plainYAML(v), nil
}

// plainYAML turns nested ordered mappings back into map[string]any.
func plainYAML(v any) any {
	switch x := v.(type) {
	case yaml.MapSlice:
		m := make(map[string]any, len(x))
		for _, item := range x {
			m[yamlKey(item.Key)] = plainYAML(item.Value)
		}
		return m
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = plainYAML(e)
		}
		return out
	}

	return v
}

func yamlKey(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprint(k)
}
