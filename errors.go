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
	"errors"
	"fmt"
)

// Static errors for entity operations.
var (
	ErrNotDefinedProperty = errors.New("property not defined")
	ErrInvalidNestedType  = errors.New("invalid nested type")
	ErrEncoding           = errors.New("unable to encode attribute")
	ErrInvalidPayload     = errors.New("invalid payload")
	ErrInvalidCast        = errors.New("invalid cast")
	ErrInvalidKey         = errors.New("invalid collection key")
	ErrInvalidTypeName    = errors.New("invalid type name")
	ErrDuplicateType      = errors.New("type already defined")
	ErrReservedTypeName   = errors.New("type name is a built-in cast")
	ErrUnknownType        = errors.New("unknown type")
	ErrNoSchema           = errors.New("entity has no schema")
)

// NotDefinedPropertyError is returned when strict mode is enabled and an
// attribute has no slot, cast, accessor or mutator.
//
// Use [errors.As] to inspect it:
//
//	var nd *entity.NotDefinedPropertyError
//	if errors.As(err, &nd) {
//	    fmt.Printf("%s has no attribute %q\n", nd.Type, nd.Attribute)
//	}
type NotDefinedPropertyError struct {
	Type      string // Owning entity type
	Attribute string // Attribute that was accessed
	Write     bool   // True when the access was a write
}

// Error returns a formatted error message.
func (e *NotDefinedPropertyError) Error() string {
	op := "read"
	if e.Write {
		op = "write"
	}

	return fmt.Sprintf("entity %s: cannot %s attribute %q: %v", e.Type, op, e.Attribute, ErrNotDefinedProperty)
}

// Unwrap returns [ErrNotDefinedProperty].
func (e *NotDefinedPropertyError) Unwrap() error {
	return ErrNotDefinedProperty
}

// Code returns a machine-readable error code.
func (e *NotDefinedPropertyError) Code() string {
	return "not_defined_property"
}

// InvalidNestedTypeError is returned when a collection's nested item type is
// not registered or is not an entity or collection type.
type InvalidNestedTypeError struct {
	Collection string // Collection type that declared the nested type
	Nested     string // Declared nested type name
	Reason     string
}

// Error returns a formatted error message.
func (e *InvalidNestedTypeError) Error() string {
	return fmt.Sprintf("collection %s: nested type %q %s", e.Collection, e.Nested, e.Reason)
}

// Unwrap returns [ErrInvalidNestedType].
func (e *InvalidNestedTypeError) Unwrap() error {
	return ErrInvalidNestedType
}

// Code returns a machine-readable error code.
func (e *InvalidNestedTypeError) Code() string {
	return "invalid_nested_type"
}

// EncodingError is returned when a JSON-castable attribute cannot be encoded.
type EncodingError struct {
	Type      string // Owning entity type
	Attribute string // Attribute being written
	Err       error  // Underlying encoder error
}

// Error returns a formatted error message.
func (e *EncodingError) Error() string {
	return fmt.Sprintf("unable to encode attribute %q for entity %s to JSON: %v", e.Attribute, e.Type, e.Err)
}

// Unwrap returns the underlying encoder error.
func (e *EncodingError) Unwrap() error {
	return e.Err
}

// Is reports whether target is [ErrEncoding].
func (e *EncodingError) Is(target error) bool {
	return target == ErrEncoding
}

// Code returns a machine-readable error code.
func (e *EncodingError) Code() string {
	return "encoding_error"
}

// CastError is returned when a raw value cannot be coerced by its cast.
type CastError struct {
	Type      string // Owning entity type
	Attribute string
	Cast      string // Cast tag as declared
	Value     any    // Raw value that failed
	Err       error
}

// Error returns a formatted error message.
func (e *CastError) Error() string {
	return fmt.Sprintf("entity %s: cannot cast attribute %q (%T) to %s: %v", e.Type, e.Attribute, e.Value, e.Cast, e.Err)
}

// Unwrap returns the underlying conversion error.
func (e *CastError) Unwrap() error {
	return e.Err
}

// Code returns a machine-readable error code.
func (e *CastError) Code() string {
	return "cast_error"
}

// PayloadError is returned when construction input is malformed or of an
// unsupported shape.
type PayloadError struct {
	Type string // Type being constructed
	Err  error
}

// Error returns a formatted error message.
func (e *PayloadError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Type, ErrInvalidPayload, e.Err)
}

// Unwrap returns both [ErrInvalidPayload] and the underlying cause.
func (e *PayloadError) Unwrap() []error {
	return []error{ErrInvalidPayload, e.Err}
}

// Code returns a machine-readable error code.
func (e *PayloadError) Code() string {
	return "invalid_payload"
}
