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
	"testing"
)

// TestRegistry creates a Registry configured for testing. Dates use the
// default format in UTC unless opts override them.
//
// Example:
//
//	func TestMyFeature(t *testing.T) {
//	    reg := entity.TestRegistry(t)
//	    point := reg.MustDefine("Point", entity.WithAttributes("x", "y"))
//	}
func TestRegistry(t *testing.T, opts ...Option) *Registry {
	t.Helper()

	r, err := NewRegistry(opts...)
	if err != nil {
		t.Fatalf("TestRegistry: failed to create registry: %v", err)
	}

	return r
}

// TestEntity defines a throwaway type on a fresh registry and builds an
// entity from payload. It fails the test on any error.
//
// Example:
//
//	e := entity.TestEntity(t, `{"x": "1"}`, entity.WithCast("x", "int"))
func TestEntity(t *testing.T, payload any, opts ...DefineOption) *Entity {
	t.Helper()

	s, err := TestRegistry(t).Define("TestEntity", opts...)
	if err != nil {
		t.Fatalf("TestEntity: failed to define type: %v", err)
	}
	e, err := s.New(payload)
	if err != nil {
		t.Fatalf("TestEntity: failed to build entity: %v", err)
	}

	return e
}
