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
	"context"
	"log/slog"
)

// Events provides hooks for observability without coupling.
type Events struct {
	// AttributeRead is called after an attribute was read successfully.
	AttributeRead func(typeName, attribute string)

	// AttributeWritten is called after an attribute was stored.
	AttributeWritten func(typeName, attribute string)

	// UndefinedAttribute is called when strict mode rejects an access.
	UndefinedAttribute func(typeName, attribute string, write bool)
}

// LogEvents returns [Events] that log to logger. Reads and writes are logged
// at debug level, rejected accesses at warn level.
//
// Example:
//
//	reg := entity.MustNewRegistry(
//	    entity.WithEvents(entity.LogEvents(slog.Default())),
//	)
func LogEvents(logger *slog.Logger) Events {
	if logger == nil {
		logger = slog.Default()
	}
	ctx := context.Background()

	return Events{
		AttributeRead: func(typeName, attribute string) {
			logger.LogAttrs(ctx, slog.LevelDebug, "attribute read",
				slog.String("type", typeName),
				slog.String("attribute", attribute),
			)
		},
		AttributeWritten: func(typeName, attribute string) {
			logger.LogAttrs(ctx, slog.LevelDebug, "attribute written",
				slog.String("type", typeName),
				slog.String("attribute", attribute),
			)
		},
		UndefinedAttribute: func(typeName, attribute string, write bool) {
			op := "read"
			if write {
				op = "write"
			}
			logger.LogAttrs(ctx, slog.LevelWarn, "undefined attribute",
				slog.String("type", typeName),
				slog.String("attribute", attribute),
				slog.String("op", op),
			)
		},
	}
}

func (e Events) read(typeName, attribute string) {
	if e.AttributeRead != nil {
		e.AttributeRead(typeName, attribute)
	}
}

func (e Events) written(typeName, attribute string) {
	if e.AttributeWritten != nil {
		e.AttributeWritten(typeName, attribute)
	}
}

func (e Events) undefined(typeName, attribute string, write bool) {
	if e.UndefinedAttribute != nil {
		e.UndefinedAttribute(typeName, attribute, write)
	}
}
