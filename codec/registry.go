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

package codec

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrNotFound is returned when no codec is registered for a type.
var ErrNotFound = errors.New("codec not found")

// registry holds the registered encoders and decoders.
type registry struct {
	mu       sync.RWMutex
	encoders map[Type]Encoder
	decoders map[Type]Decoder
}

var codecs = &registry{
	encoders: make(map[Type]Encoder),
	decoders: make(map[Type]Decoder),
}

// RegisterEncoder registers an encoder for the given type, replacing any
// previous one.
func RegisterEncoder(name Type, encoder Encoder) {
	codecs.mu.Lock()
	defer codecs.mu.Unlock()
	codecs.encoders[name] = encoder
}

// RegisterDecoder registers a decoder for the given type, replacing any
// previous one.
func RegisterDecoder(name Type, decoder Decoder) {
	codecs.mu.Lock()
	defer codecs.mu.Unlock()
	codecs.decoders[name] = decoder
}

// GetEncoder retrieves the registered encoder for the given type.
func GetEncoder(name Type) (Encoder, error) {
	codecs.mu.RLock()
	defer codecs.mu.RUnlock()

	encoder, exists := codecs.encoders[name]
	if !exists {
		return nil, fmt.Errorf("%w: encoder for type %s", ErrNotFound, name)
	}

	return encoder, nil
}

// GetDecoder retrieves the registered decoder for the given type.
func GetDecoder(name Type) (Decoder, error) {
	codecs.mu.RLock()
	defer codecs.mu.RUnlock()

	decoder, exists := codecs.decoders[name]
	if !exists {
		return nil, fmt.Errorf("%w: decoder for type %s", ErrNotFound, name)
	}

	return decoder, nil
}

// Types returns the types with a registered decoder, sorted.
func Types() []Type {
	codecs.mu.RLock()
	defer codecs.mu.RUnlock()

	types := make([]Type, 0, len(codecs.decoders))
	for t := range codecs.decoders {
		types = append(types, t)
	}
	slices.Sort(types)

	return types
}
