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
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// castGet converts a raw stored value to its typed presentation.
// Nil is never cast, except by registered collection names.
func (s *Schema) castGet(attr string, c Cast, raw any) (any, error) {
	if raw == nil && c.Kind != CastNamed {
		return nil, nil
	}

	var (
		v   any
		err error
	)

	switch c.Kind {
	case CastInt:
		v, err = toInt(raw)
	case CastFloat:
		v, err = toFloat(raw)
	case CastDecimal:
		v, err = toDecimal(raw, c.Precision)
	case CastString:
		v, err = cast.ToStringE(raw)
	case CastBool:
		v, err = toBool(raw)
	case CastObject:
		v, err = toObject(raw)
	case CastArray, CastCollection:
		v, err = decodeJSONValue(raw)
	case CastDate, CastDateTime, CastCustomDateTime, CastTimestamp:
		if isBlank(raw) {
			return nil, nil
		}
		v, err = s.castDate(c, raw)
	case CastUUID:
		v, err = toUUID(raw)
	case CastNamed:
		v, err = s.registry.castNamedGet(c.Target, raw)
	default:
		return raw, nil
	}

	if err != nil {
		return nil, &CastError{Type: s.name, Attribute: attr, Cast: c.Tag, Value: raw, Err: err}
	}

	return v, nil
}

// castDate handles the read side of the date family.
func (s *Schema) castDate(c Cast, raw any) (any, error) {
	t, err := s.registry.asDateTime(raw, s.layoutFor(c))
	if err != nil {
		return nil, err
	}

	switch c.Kind {
	case CastDate:
		return startOfDay(t), nil
	case CastTimestamp:
		return t.Unix(), nil
	default:
		return t, nil
	}
}

// castSet normalizes a value into its storable form before it is written.
func (s *Schema) castSet(attr string, c Cast, value any) (any, error) {
	switch {
	case c.IsDate():
		if !truthy(value) {
			return value, nil
		}
		layout := s.layoutFor(c)
		t, err := s.registry.asDateTime(value, layout)
		if err != nil {
			return nil, &CastError{Type: s.name, Attribute: attr, Cast: c.Tag, Value: value, Err: err}
		}
		if c.Kind == CastDate {
			t = startOfDay(t)
		}
		return t.Format(layout), nil

	case c.IsJSON():
		if value == nil {
			return nil, nil
		}
		b, err := json.Marshal(value)
		if err != nil {
			return nil, &EncodingError{Type: s.name, Attribute: attr, Err: err}
		}
		return string(b), nil

	case c.Kind == CastNamed:
		v, err := s.registry.castNamedSet(c.Target, value)
		if err != nil {
			return nil, &CastError{Type: s.name, Attribute: attr, Cast: c.Tag, Value: value, Err: err}
		}
		return v, nil
	}

	return value, nil
}

// layoutFor returns the declared layout of a custom datetime cast, or the
// registry default.
func (s *Schema) layoutFor(c Cast) string {
	if c.Kind == CastCustomDateTime {
		return c.Layout
	}
	return s.registry.cfg.dateFormat
}

// toInt coerces numeric values and numeric strings to int.
// Fractional values are truncated toward zero.
func toInt(v any) (int, error) {
	switch x := v.(type) {
	case string:
		return parseIntString(x)
	case json.Number:
		return parseIntString(x.String())
	case float64:
		return floatToInt(x)
	case float32:
		return floatToInt(float64(x))
	}

	return cast.ToIntE(v)
}

func parseIntString(s string) (int, error) {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return int(i), nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", s)
	}

	return floatToInt(f)
}

func floatToInt(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("cannot represent %v as integer", f)
	}
	if f < math.MinInt || f >= math.MaxInt {
		return 0, fmt.Errorf("%v overflows int", f)
	}

	return int(math.Trunc(f)), nil
}

// toFloat coerces to float64, mapping the JSON-unsafe literals "Infinity",
// "-Infinity" and "NaN" to their IEEE values.
func toFloat(v any) (float64, error) {
	if s, ok := v.(string); ok {
		switch strings.TrimSpace(s) {
		case "Infinity":
			return math.Inf(1), nil
		case "-Infinity":
			return math.Inf(-1), nil
		case "NaN":
			return math.NaN(), nil
		}
		return cast.ToFloat64E(strings.TrimSpace(s))
	}

	return cast.ToFloat64E(v)
}

// toDecimal formats the numeric value with exactly precision fractional
// digits. Rounding starts from the shortest decimal form of the value, with
// halves rounded away from zero. The result stays a string.
func toDecimal(v any, precision int) (string, error) {
	f, err := toFloat(v)
	if err != nil {
		return "", err
	}

	r, ok := new(big.Rat).SetString(strconv.FormatFloat(f, 'f', -1, 64))
	if !ok {
		return strconv.FormatFloat(f, 'f', precision, 64), nil
	}

	return r.FloatString(precision), nil
}

// toBool coerces to bool. Strings that are not boolean literals follow the
// loose rule: empty and "0" are false, anything else is true.
func toBool(v any) (bool, error) {
	if s, ok := v.(string); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, nil
		}
		return s != "" && s != "0", nil
	}

	return cast.ToBoolE(v)
}

func toUUID(v any) (uuid.UUID, error) {
	switch x := v.(type) {
	case uuid.UUID:
		return x, nil
	case []byte:
		if len(x) == 16 {
			return uuid.FromBytes(x)
		}
		return uuid.ParseBytes(x)
	}

	s, err := cast.ToStringE(v)
	if err != nil {
		return uuid.Nil, err
	}

	return uuid.Parse(s)
}

// decodeJSONValue decodes a JSON string into plain maps and slices. Values
// that are already structured pass through.
func decodeJSONValue(v any) (any, error) {
	var data []byte
	switch x := v.(type) {
	case string:
		data = []byte(x)
	case []byte:
		data = x
	case json.RawMessage:
		data = x
	default:
		return v, nil
	}

	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// truthy reports whether v would pass a loose boolean test.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != "" && x != "0"
	case time.Time:
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Slice, reflect.Map:
		return rv.Len() > 0
	case reflect.Ptr, reflect.Interface:
		return !rv.IsNil()
	}

	return true
}

// isBlank reports whether v is an empty or whitespace-only string.
func isBlank(v any) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}
