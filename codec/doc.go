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

// Package codec converts entity payloads between wire formats and plain Go
// values (maps, slices and scalars).
//
// The package defines [Encoder] and [Decoder] interfaces and a registry of
// implementations keyed by [Type]. Entities are built from decoded plain
// values and encoded from their flattened form.
//
// # Built-in Codecs
//
//   - JSON: encoding/json
//   - YAML: github.com/goccy/go-yaml
//   - TOML: github.com/BurntSushi/toml (top-level tables only)
//   - MessagePack: github.com/vmihailenco/msgpack/v5
//   - Proto: google.protobuf.Value in binary wire form
//
// # Custom Codecs
//
// Register custom codecs using [RegisterEncoder] and [RegisterDecoder]:
//
//	type MyCodec struct{}
//
//	func (c MyCodec) Encode(v any) ([]byte, error) {
//	    // Custom encoding logic
//	    return data, nil
//	}
//
//	func (c MyCodec) Decode(data []byte, v any) error {
//	    // Custom decoding logic
//	    return nil
//	}
//
//	codec.RegisterEncoder(codec.Type("myformat"), MyCodec{})
//	codec.RegisterDecoder(codec.Type("myformat"), MyCodec{})
package codec
