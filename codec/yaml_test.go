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

//go:build !integration

package codec

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

// YAMLCodecTestSuite is a test suite for the YAMLCodec type.
type YAMLCodecTestSuite struct {
	suite.Suite
	codec YAMLCodec
}

func (s *YAMLCodecTestSuite) SetupTest() {
	s.codec = YAMLCodec{}
}

func TestYAMLCodecTestSuite(t *testing.T) {
	suite.Run(t, new(YAMLCodecTestSuite))
}

func (s *YAMLCodecTestSuite) TestRegistration() {
	encoder, err := GetEncoder(TypeYAML)
	s.Require().NoError(err)
	s.Assert().IsType(YAMLCodec{}, encoder)

	decoder, err := GetDecoder(TypeYAML)
	s.Require().NoError(err)
	s.Assert().IsType(YAMLCodec{}, decoder)
}

func (s *YAMLCodecTestSuite) TestEncode() {
	b, err := s.codec.Encode(map[string]any{"foo": "bar", "num": 42, "nested": map[string]any{"key": "value"}})
	s.Require().NoError(err)
	s.Assert().Contains(string(b), "foo: bar")
	s.Assert().Contains(string(b), "num: 42")
	s.Assert().Contains(string(b), "nested:")
	s.Assert().Contains(string(b), "  key: value")
}

func (s *YAMLCodecTestSuite) TestDecode_Sequence() {
	var v any
	s.Require().NoError(s.codec.Decode([]byte("- x: 1\n- x: 2\n"), &v))

	items, ok := v.([]any)
	s.Require().True(ok, "decoded %T", v)
	s.Assert().Len(items, 2)
	s.Assert().IsType(map[string]any{}, items[0])
}

func (s *YAMLCodecTestSuite) TestDecode_Invalid() {
	var v any
	s.Assert().Error(s.codec.Decode([]byte("x: [1"), &v))
}

func (s *YAMLCodecTestSuite) TestDecodeOrdered() {
	v, err := s.codec.DecodeOrdered([]byte("zeta: 1\n1: one\nalpha:\n  b: 2\n  a: 1\nlist:\n  - k: v\n"))
	s.Require().NoError(err)

	o, ok := v.(Ordered)
	s.Require().True(ok, "decoded %T", v)
	s.Assert().Equal([]string{"zeta", "1", "alpha", "list"}, o.Keys())

	m := o.AsMap()
	s.Assert().Equal("one", m["1"])
	s.Assert().IsType(map[string]any{}, m["alpha"], "nested mappings stay plain maps")
	items, ok := m["list"].([]any)
	s.Require().True(ok)
	s.Assert().IsType(map[string]any{}, items[0])
}

func (s *YAMLCodecTestSuite) TestDecodeOrdered_Sequence() {
	v, err := s.codec.DecodeOrdered([]byte("- x: 1\n- x: 2\n"))
	s.Require().NoError(err)

	items, ok := v.([]any)
	s.Require().True(ok, "decoded %T", v)
	s.Assert().Len(items, 2)
	s.Assert().IsType(map[string]any{}, items[0])
}
