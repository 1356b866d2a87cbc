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

// JSONCodecTestSuite is a test suite for the JSONCodec type.
type JSONCodecTestSuite struct {
	suite.Suite
	codec JSONCodec
}

func (s *JSONCodecTestSuite) SetupTest() {
	s.codec = JSONCodec{}
}

func TestJSONCodecTestSuite(t *testing.T) {
	suite.Run(t, new(JSONCodecTestSuite))
}

func (s *JSONCodecTestSuite) TestRegistration() {
	encoder, err := GetEncoder(TypeJSON)
	s.Require().NoError(err)
	s.Assert().IsType(JSONCodec{}, encoder)

	decoder, err := GetDecoder(TypeJSON)
	s.Require().NoError(err)
	s.Assert().IsType(JSONCodec{}, decoder)
}

func (s *JSONCodecTestSuite) TestRoundTrip() {
	b, err := s.codec.Encode(map[string]any{"b": 1, "a": []any{"x"}})
	s.Require().NoError(err)
	s.Assert().JSONEq(`{"a":["x"],"b":1}`, string(b))

	var v any
	s.Require().NoError(s.codec.Decode(b, &v))
	s.Assert().Equal(map[string]any{"a": []any{"x"}, "b": float64(1)}, v)
}

func (s *JSONCodecTestSuite) TestDecode_Invalid() {
	var v any
	s.Assert().Error(s.codec.Decode([]byte(`{"a":`), &v))
}

func (s *JSONCodecTestSuite) TestEncode_Error() {
	_, err := s.codec.Encode(make(chan int))
	s.Assert().Error(err)
}

func (s *JSONCodecTestSuite) TestDecodeOrdered() {
	v, err := s.codec.DecodeOrdered([]byte(` {"b": 1, "a": {"y": 2, "x": 1}} `))
	s.Require().NoError(err)

	o, ok := v.(Ordered)
	s.Require().True(ok, "decoded %T", v)
	s.Assert().Equal([]string{"b", "a"}, o.Keys())
	s.Assert().Equal(map[string]any{"y": float64(2), "x": float64(1)}, o[1].Value)

	v, err = s.codec.DecodeOrdered([]byte(`[1, 2]`))
	s.Require().NoError(err)
	s.Assert().Equal([]any{float64(1), float64(2)}, v)

	v, err = s.codec.DecodeOrdered([]byte(`{}`))
	s.Require().NoError(err)
	s.Assert().Equal(Ordered{}, v)

	_, err = s.codec.DecodeOrdered([]byte(`{"a": 1} {"b": 2}`))
	s.Assert().Error(err)

	_, err = s.codec.DecodeOrdered([]byte(`{"a": 1`))
	s.Assert().Error(err)
}
