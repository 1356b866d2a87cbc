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

	"github.com/spf13/cast"
)

// Attr reads an attribute through [Entity.Get] and returns it as type T.
// Values that are not already a T are converted with the common scalar,
// slice, map and time conversions. A nil value yields the zero T.
//
// Example:
//
//	x, err := entity.Attr[int](point, "x")
//	born, err := entity.Attr[time.Time](user, "born_at")
func Attr[T any](e *Entity, name string) (T, error) {
	v, _, err := attr[T](e, name)
	return v, err
}

// AttrOr is like [Attr] but returns defaultVal when the attribute cannot be
// read, is nil or cannot be converted. T is inferred from defaultVal.
//
// Example:
//
//	limit := entity.AttrOr(query, "limit", 20)
func AttrOr[T any](e *Entity, name string, defaultVal T) T {
	v, ok, err := attr[T](e, name)
	if err != nil || !ok {
		return defaultVal
	}

	return v
}

// attr reports whether the attribute held a non-nil value.
func attr[T any](e *Entity, name string) (T, bool, error) {
	var zero T

	v, err := e.Get(name)
	if err != nil {
		return zero, false, err
	}
	if v == nil {
		return zero, false, nil
	}
	if result, ok := v.(T); ok {
		return result, true, nil
	}
	if o, ok := v.(Object); ok {
		v = map[string]any(o)
	}

	result, err := convertToType[T](v)
	if err != nil {
		return zero, false, fmt.Errorf("%w: attribute %q of %s: %w", ErrInvalidCast, name, e.TypeName(), err)
	}

	return result, true, nil
}

// convertToType converts val to T with the cast library.
func convertToType[T any](val any) (T, error) {
	var zero T
	var (
		result any
		err    error
	)

	switch any(zero).(type) {
	case string:
		result, err = cast.ToStringE(val)
	case int:
		result, err = cast.ToIntE(val)
	case int64:
		result, err = cast.ToInt64E(val)
	case int32:
		result, err = cast.ToInt32E(val)
	case uint:
		result, err = cast.ToUintE(val)
	case uint64:
		result, err = cast.ToUint64E(val)
	case float64:
		result, err = cast.ToFloat64E(val)
	case float32:
		result, err = cast.ToFloat32E(val)
	case bool:
		result, err = cast.ToBoolE(val)
	case []string:
		result, err = cast.ToStringSliceE(val)
	case []int:
		result, err = cast.ToIntSliceE(val)
	case []any:
		result, err = cast.ToSliceE(val)
	case map[string]any:
		result, err = cast.ToStringMapE(val)
	case map[string]string:
		result, err = cast.ToStringMapStringE(val)
	case time.Duration:
		result, err = cast.ToDurationE(val)
	case time.Time:
		result, err = cast.ToTimeE(val)
	default:
		return zero, fmt.Errorf("no conversion from %T to %T", val, zero)
	}
	if err != nil {
		return zero, err
	}

	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("no conversion from %T to %T", val, zero)
	}

	return typed, nil
}
