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

package reflectutil

import (
	"fmt"
	"reflect"
)

// SliceValue 返回 x 持有的切片，会跟随非空指针
func SliceValue(x any) (reflect.Value, bool) {
	v := reflect.ValueOf(x)
	for v.IsValid() && v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	if !v.IsValid() || v.Kind() != reflect.Slice {
		return reflect.Value{}, false
	}
	return v, true
}

// IsNestedSlice reports whether v is a slice of slices
func IsNestedSlice(v reflect.Value) bool {
	return v.IsValid() && v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Slice
}

// SafeIndex 安全地获取切片元素，越界时返回错误而不是 panic
func SafeIndex(v reflect.Value, i int) (reflect.Value, error) {
	if !v.IsValid() {
		return reflect.Value{}, fmt.Errorf("invalid value")
	}
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return reflect.Value{}, fmt.Errorf("value is not a slice, got %v", v.Kind())
	}
	if i < 0 || i >= v.Len() {
		return reflect.Value{}, fmt.Errorf("index %d out of range [0, %d)", i, v.Len())
	}
	return v.Index(i), nil
}
