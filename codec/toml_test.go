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

// TOMLCodecTestSuite is a test suite for the TOMLCodec type.
type TOMLCodecTestSuite struct {
	suite.Suite
	codec TOMLCodec
}

func (s *TOMLCodecTestSuite) SetupTest() {
	s.codec = TOMLCodec{}
}

func TestTOMLCodecTestSuite(t *testing.T) {
	suite.Run(t, new(TOMLCodecTestSuite))
}

func (s *TOMLCodecTestSuite) TestRegistration() {
	encoder, err := GetEncoder(TypeTOML)
	s.Require().NoError(err)
	s.Assert().IsType(TOMLCodec{}, encoder)

	decoder, err := GetDecoder(TypeTOML)
	s.Require().NoError(err)
	s.Assert().IsType(TOMLCodec{}, decoder)
}

func (s *TOMLCodecTestSuite) TestRoundTrip() {
	b, err := s.codec.Encode(map[string]any{"name": "a", "port": 8080})
	s.Require().NoError(err)
	s.Assert().Contains(string(b), `name = "a"`)
	s.Assert().Contains(string(b), "port = 8080")

	var v any
	s.Require().NoError(s.codec.Decode(b, &v))
	s.Assert().Equal(map[string]any{"name": "a", "port": int64(8080)}, v)
}

func (s *TOMLCodecTestSuite) TestEncode_TopLevelSequence() {
	_, err := s.codec.Encode([]any{map[string]any{"x": 1}})
	s.Assert().Error(err)
}

func (s *TOMLCodecTestSuite) TestDecode_Invalid() {
	var v any
	s.Assert().Error(s.codec.Decode([]byte("x = "), &v))
}

func (s *TOMLCodecTestSuite) TestDecodeOrdered() {
	v, err := s.codec.DecodeOrdered([]byte("zeta = 1\nalpha = 'a'\n\n[table]\ny = 2\nx = 1\n\n[[rows]]\nn = 1\n\n[[rows]]\nn = 2\n"))
	s.Require().NoError(err)

	o, ok := v.(Ordered)
	s.Require().True(ok, "decoded %T", v)
	s.Assert().Equal([]string{"zeta", "alpha", "table", "rows"}, o.Keys())
	s.Assert().Equal(map[string]any{"y": int64(2), "x": int64(1)}, o.AsMap()["table"])
	s.Assert().Len(o.AsMap()["rows"], 2)
}
