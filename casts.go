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
	"strconv"
	"strings"
)

// CastKind identifies the conversion family of a cast tag.
type CastKind int

const (
	// CastNone passes the raw value through unchanged.
	CastNone CastKind = iota
	CastInt
	CastFloat
	CastDecimal
	CastString
	CastBool
	CastObject
	CastArray
	CastCollection
	CastDate
	CastDateTime
	CastCustomDateTime
	CastTimestamp
	CastUUID

	// CastNamed refers to a registered entity, collection or caster.
	CastNamed
)

// String returns the canonical tag of the kind.
func (k CastKind) String() string {
	switch k {
	case CastInt:
		return "int"
	case CastFloat:
		return "float"
	case CastDecimal:
		return "decimal"
	case CastString:
		return "string"
	case CastBool:
		return "bool"
	case CastObject:
		return "object"
	case CastArray:
		return "array"
	case CastCollection:
		return "collection"
	case CastDate:
		return "date"
	case CastDateTime:
		return "datetime"
	case CastCustomDateTime:
		return "custom_datetime"
	case CastTimestamp:
		return "timestamp"
	case CastUUID:
		return "uuid"
	case CastNamed:
		return "named"
	default:
		return "none"
	}
}

// builtinCasts maps lower-cased tags to their kind.
var builtinCasts = map[string]CastKind{
	"int":        CastInt,
	"integer":    CastInt,
	"real":       CastFloat,
	"float":      CastFloat,
	"double":     CastFloat,
	"string":     CastString,
	"bool":       CastBool,
	"boolean":    CastBool,
	"object":     CastObject,
	"array":      CastArray,
	"json":       CastArray,
	"collection": CastCollection,
	"date":       CastDate,
	"datetime":   CastDateTime,
	"timestamp":  CastTimestamp,
	"uuid":       CastUUID,
}

// Cast is a parsed cast specifier.
type Cast struct {
	Tag       string   // Tag as declared
	Kind      CastKind // Conversion family
	Layout    string   // Go time layout for CastCustomDateTime
	Precision int      // Fractional digits for CastDecimal
	Target    string   // Type name for CastNamed
}

// ParseCast parses a cast tag such as "int", "decimal:2",
// "datetime:2006-01-02" or the name of a registered type.
// Tags that are not built-in parse as [CastNamed]; whether the name resolves
// is decided at read time.
func ParseCast(tag string) (Cast, error) {
	trimmed := strings.TrimSpace(tag)
	if trimmed == "" {
		return Cast{}, fmt.Errorf("%w: empty cast tag", ErrInvalidCast)
	}

	c := Cast{Tag: trimmed}

	name, arg, hasArg := strings.Cut(trimmed, ":")
	lower := strings.ToLower(name)

	if hasArg {
		switch lower {
		case "decimal":
			n, err := strconv.Atoi(strings.TrimSpace(arg))
			if err != nil || n < 0 {
				return Cast{}, fmt.Errorf("%w: decimal precision %q", ErrInvalidCast, arg)
			}
			c.Kind = CastDecimal
			c.Precision = n
			return c, nil
		case "date", "datetime":
			if arg == "" {
				return Cast{}, fmt.Errorf("%w: empty layout in %q", ErrInvalidCast, trimmed)
			}
			c.Kind = CastCustomDateTime
			c.Layout = arg
			return c, nil
		}
	}

	if kind, ok := builtinCasts[strings.ToLower(trimmed)]; ok {
		c.Kind = kind
		return c, nil
	}

	c.Kind = CastNamed
	c.Target = trimmed
	return c, nil
}

// isBuiltinTag reports whether name collides with a built-in cast tag.
func isBuiltinTag(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	if _, ok := builtinCasts[lower]; ok {
		return true
	}
	return lower == "decimal"
}

// IsDate reports whether the cast yields a time value on read.
func (c Cast) IsDate() bool {
	return c.Kind == CastDate || c.Kind == CastDateTime || c.Kind == CastCustomDateTime
}

// IsJSON reports whether the cast stores its value JSON-encoded.
func (c Cast) IsJSON() bool {
	return c.Kind == CastArray || c.Kind == CastObject || c.Kind == CastCollection
}
