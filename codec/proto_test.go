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
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// ProtoCodecTestSuite is a test suite for the ProtoCodec type.
type ProtoCodecTestSuite struct {
	suite.Suite
	codec ProtoCodec
}

func (s *ProtoCodecTestSuite) SetupTest() {
	s.codec = ProtoCodec{}
}

func TestProtoCodecTestSuite(t *testing.T) {
	suite.Run(t, new(ProtoCodecTestSuite))
}

func (s *ProtoCodecTestSuite) TestRegistration() {
	encoder, err := GetEncoder(TypeProto)
	s.Require().NoError(err)
	s.Assert().IsType(ProtoCodec{}, encoder)

	decoder, err := GetDecoder(TypeProto)
	s.Require().NoError(err)
	s.Assert().IsType(ProtoCodec{}, decoder)
}

func (s *ProtoCodecTestSuite) TestRoundTrip_Plain() {
	in := map[string]any{"x": 1, "tags": []string{"a"}, "nested": map[string]any{"ok": true}}

	b, err := s.codec.Encode(in)
	s.Require().NoError(err)

	var v any
	s.Require().NoError(s.codec.Decode(b, &v))
	s.Assert().Equal(map[string]any{
		"x":      float64(1),
		"tags":   []any{"a"},
		"nested": map[string]any{"ok": true},
	}, v)

	var m map[string]any
	s.Require().NoError(s.codec.Decode(b, &m))
	s.Assert().Equal(v, m)

	var l []any
	s.Assert().Error(s.codec.Decode(b, &l), "a struct is not a list")
}

func (s *ProtoCodecTestSuite) TestRoundTrip_List() {
	b, err := s.codec.Encode([]any{1, "a"})
	s.Require().NoError(err)

	var l []any
	s.Require().NoError(s.codec.Decode(b, &l))
	s.Assert().Equal([]any{float64(1), "a"}, l)

	var m map[string]any
	s.Assert().Error(s.codec.Decode(b, &m), "a list is not a struct")
}

func (s *ProtoCodecTestSuite) TestMessagePassthrough() {
	msg, err := structpb.NewStruct(map[string]any{"k": "v"})
	s.Require().NoError(err)

	b, err := s.codec.Encode(msg)
	s.Require().NoError(err)

	var out structpb.Struct
	s.Require().NoError(s.codec.Decode(b, &out))
	s.Assert().True(proto.Equal(msg, &out))
}

func (s *ProtoCodecTestSuite) TestDecode_Errors() {
	var v any
	s.Assert().Error(s.codec.Decode([]byte{0xff, 0xff}, &v))

	b, err := s.codec.Encode(map[string]any{"k": "v"})
	s.Require().NoError(err)
	var n int
	s.Assert().Error(s.codec.Decode(b, &n))
}

func (s *ProtoCodecTestSuite) TestEncode_Error() {
	_, err := s.codec.Encode(make(chan int))
	s.Assert().Error(err)
}
