/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package materialize

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rulego/colframe/stype"
)

// Value is one materialized cell: either Null or a Go value whose type is
// fixed by the logical type.
//
//	bool      -> bool
//	int       -> int64
//	real      -> float64
//	str       -> string
//	time      -> time.Time (UTC)
//	duration  -> time.Duration
//	obj       -> the stored reference
type Value struct {
	ltype stype.LType
	v     any
	valid bool
}

// Null is the missing value
var Null = Value{}

func newValue(lt stype.LType, v any) Value {
	return Value{ltype: lt, v: v, valid: true}
}

// IsNull reports whether the cell is missing
func (v Value) IsNull() bool { return !v.valid }

// LType returns the logical type; Mu for Null
func (v Value) LType() stype.LType { return v.ltype }

// Interface returns the Go value, nil for Null
func (v Value) Interface() any { return v.v }

func (v Value) Bool() (bool, bool) {
	b, ok := v.v.(bool)
	return b, ok && v.valid
}

func (v Value) Int() (int64, bool) {
	i, ok := v.v.(int64)
	return i, ok && v.valid
}

func (v Value) Float() (float64, bool) {
	f, ok := v.v.(float64)
	return f, ok && v.valid
}

func (v Value) Str() (string, bool) {
	s, ok := v.v.(string)
	return s, ok && v.valid
}

func (v Value) Time() (time.Time, bool) {
	t, ok := v.v.(time.Time)
	return t, ok && v.valid
}

func (v Value) Duration() (time.Duration, bool) {
	d, ok := v.v.(time.Duration)
	return d, ok && v.valid
}

// String formats the value for display, "NA" for Null.
func (v Value) String() string {
	return Format(v)
}

// Format renders v the way printers show it.
func Format(v Value) string {
	if v.IsNull() {
		return "NA"
	}
	switch x := v.v.(type) {
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return x
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case time.Duration:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}
