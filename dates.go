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
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// calendarDate matches bare dates such as 2024-3-5 or 2024-03-15.
var calendarDate = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)

// asDateTime converts v to a time in the registry location.
//
// Precedence:
//  1. time.Time values are returned unchanged
//  2. numbers and numeric strings are Unix timestamps
//  3. YYYY-M-D strings are calendar dates at midnight
//  4. strings in layout
//  5. anything cast can parse leniently
func (r *Registry) asDateTime(v any, layout string) (time.Time, error) {
	loc := r.cfg.location

	switch x := v.(type) {
	case time.Time:
		return x, nil
	case *time.Time:
		if x != nil {
			return *x, nil
		}
		return time.Time{}, fmt.Errorf("nil time")
	case json.Number:
		return r.asDateTime(x.String(), layout)
	case string:
		return parseDateString(strings.TrimSpace(x), layout, loc)
	}

	if sec, ok := numericSeconds(v); ok {
		return fromUnix(sec, loc), nil
	}

	return cast.ToTimeInDefaultLocationE(v, loc)
}

func parseDateString(s, layout string, loc *time.Location) (time.Time, error) {
	if isNumeric(s) {
		f, _ := strconv.ParseFloat(s, 64)
		return fromUnix(f, loc), nil
	}

	if m := calendarDate.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return time.Time{}, fmt.Errorf("invalid calendar date %q", s)
		}
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc), nil
	}

	if t, err := time.ParseInLocation(layout, s, loc); err == nil {
		return t, nil
	}

	t, err := cast.ToTimeInDefaultLocationE(s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse time %q with layout %q: %w", s, layout, err)
	}

	return t, nil
}

// numericSeconds extracts seconds from integer and float kinds.
func numericSeconds(v any) (float64, bool) {
	switch x := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		f, err := cast.ToFloat64E(x)
		return f, err == nil
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}

	return 0, false
}

func fromUnix(sec float64, loc *time.Location) time.Time {
	whole, frac := math.Modf(sec)
	return time.Unix(int64(whole), int64(frac*1e9)).In(loc)
}

// isNumeric reports whether s is a decimal number literal.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}

	switch c := s[0]; {
	case c >= '0' && c <= '9', c == '-', c == '+', c == '.':
	default:
		return false
	}

	f, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.IsInf(f, 0) && !math.IsNaN(f)
}

// startOfDay truncates t to midnight in its own location.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
