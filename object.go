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

// Object is the result of the "object" cast: a generic structured value
// whose nested JSON objects are Objects as well. Arrays stay []any.
type Object map[string]any

// Get returns the value stored under key, or nil.
func (o Object) Get(key string) any {
	return o[key]
}

// Object returns the nested Object stored under key.
func (o Object) Object(key string) (Object, bool) {
	v, ok := o[key].(Object)
	return v, ok
}

// toObject decodes raw into an Object.
func toObject(raw any) (any, error) {
	v, err := decodeJSONValue(raw)
	if err != nil {
		return nil, err
	}

	return objectify(v), nil
}

// objectify converts every map[string]any in v into an Object.
func objectify(v any) any {
	switch x := v.(type) {
	case map[string]any:
		o := make(Object, len(x))
		for k, val := range x {
			o[k] = objectify(val)
		}
		return o
	case Object:
		o := make(Object, len(x))
		for k, val := range x {
			o[k] = objectify(val)
		}
		return o
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = objectify(val)
		}
		return out
	}

	return v
}
