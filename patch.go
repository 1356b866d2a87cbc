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
	"time"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
)

// Patch deep-merges a partial payload into the entity. Nested mappings are
// merged key by key; every other value replaces the current one. Each key
// of payload is then written through [Entity.Set].
//
// Example:
//
//	err := user.Patch(`{"settings": {"theme": "dark"}}`)
func (e *Entity) Patch(payload any) error {
	fields, err := entityFields(e.TypeName(), payload)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}

	current, err := e.ToMap()
	if err != nil {
		return err
	}

	src := make(map[string]any, len(fields))
	for _, f := range fields {
		v, err := plainValue(f.value)
		if err != nil {
			return err
		}
		src[f.key] = v
	}

	if err := mergo.Merge(&current, src, mergo.WithOverride); err != nil {
		return fmt.Errorf("patch %s: %w", e.TypeName(), err)
	}

	for _, f := range fields {
		if err := e.Set(f.key, current[f.key]); err != nil {
			return err
		}
	}

	return nil
}

// Decode copies the attributes into out, which must be a pointer to a
// struct or map. Struct fields are matched by their json tag. Typed values
// such as [time.Time] are decoded as is; nested models are flattened.
//
// Example:
//
//	var p struct {
//	    X int `json:"x"`
//	    Y int `json:"y"`
//	}
//	err := point.Decode(&p)
func (e *Entity) Decode(out any) error {
	m := make(map[string]any, len(e.keys))
	for _, k := range e.keys {
		v, err := e.Get(k)
		if err != nil {
			return err
		}
		switch x := v.(type) {
		case Model:
			if v, err = x.Plain(); err != nil {
				return err
			}
		case Object:
			v = map[string]any(x)
		}
		m[k] = v
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339),
			mapstructure.TextUnmarshallerHookFunc(),
		),
	})
	if err != nil {
		return fmt.Errorf("decode %s: %w", e.TypeName(), err)
	}
	if err := dec.Decode(m); err != nil {
		return fmt.Errorf("decode %s: %w", e.TypeName(), err)
	}

	return nil
}
