/*
 * Copyright 2024 The RuleGo Authors.
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

// Package cast coerces loosely typed cell values into the Go types that
// column builders encode. A nil cell (or a nil pointer) is reported as
// missing rather than converted, so callers can write the null sentinel.
package cast

import (
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/spf13/cast"
)

// IsNull reports whether x represents a missing cell
func IsNull(x any) bool {
	if x == nil {
		return true
	}
	v := reflect.ValueOf(x)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return v.IsNil()
	}
	return false
}

// ToInt64 converts x to int64. ok is false for a null cell.
func ToInt64(x any) (v int64, ok bool, err error) {
	if IsNull(x) {
		return 0, false, nil
	}
	switch f := x.(type) {
	case float32:
		if f != float32(math.Trunc(float64(f))) {
			return 0, false, fmt.Errorf("cannot convert %v to an integer without loss", f)
		}
	case float64:
		if f != math.Trunc(f) {
			return 0, false, fmt.Errorf("cannot convert %v to an integer without loss", f)
		}
	}
	v, err = cast.ToInt64E(x)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

// ToIntN converts x to a signed integer that fits in bits and is not the
// reserved minimum value of that width.
func ToIntN(x any, bits int) (v int64, ok bool, err error) {
	v, ok, err = ToInt64(x)
	if err != nil || !ok {
		return v, ok, err
	}
	lo := -(int64(1) << (bits - 1))
	hi := (int64(1) << (bits - 1)) - 1
	if bits == 64 {
		lo, hi = math.MinInt64, math.MaxInt64
	}
	if v <= lo || v > hi {
		return 0, false, fmt.Errorf("value %d does not fit in a %d-bit column", v, bits)
	}
	return v, true, nil
}

// ToFloat64 converts x to float64. ok is false for a null cell.
func ToFloat64(x any) (v float64, ok bool, err error) {
	if IsNull(x) {
		return 0, false, nil
	}
	v, err = cast.ToFloat64E(x)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

// ToBool converts x to bool. ok is false for a null cell.
func ToBool(x any) (v bool, ok bool, err error) {
	if IsNull(x) {
		return false, false, nil
	}
	v, err = cast.ToBoolE(x)
	if err != nil {
		return false, false, err
	}
	return v, true, nil
}

// ToString converts x to string. ok is false for a null cell.
func ToString(x any) (v string, ok bool, err error) {
	if IsNull(x) {
		return "", false, nil
	}
	v, err = cast.ToStringE(x)
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// ToTime converts x to a UTC time. ok is false for a null cell.
func ToTime(x any) (v time.Time, ok bool, err error) {
	if IsNull(x) {
		return time.Time{}, false, nil
	}
	v, err = cast.ToTimeE(x)
	if err != nil {
		return time.Time{}, false, err
	}
	return v.UTC(), true, nil
}

// ToDuration converts x to a duration. ok is false for a null cell.
func ToDuration(x any) (v time.Duration, ok bool, err error) {
	if IsNull(x) {
		return 0, false, nil
	}
	v, err = cast.ToDurationE(x)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}
