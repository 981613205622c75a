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
	"reflect"
	"strings"
	"testing"
)

// TestSliceValue 测试切片识别，包括指针
func TestSliceValue(t *testing.T) {
	rows := [][]int{{1, 2}, {3, 4}}
	var nilPtr *[][]int

	tests := []struct {
		name  string
		input any
		ok    bool
		len   int
	}{
		{"slice", rows, true, 2},
		{"pointer", &rows, true, 2},
		{"pointer to pointer", func() any { p := &rows; return &p }(), true, 2},
		{"nil slice", []float64(nil), true, 0},
		{"nil pointer", nilPtr, false, 0},
		{"nil", nil, false, 0},
		{"array", [2]int{1, 2}, false, 0},
		{"string", "abc", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := SliceValue(tt.input)
			if ok != tt.ok {
				t.Fatalf("SliceValue(%T) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && v.Len() != tt.len {
				t.Errorf("len = %d, want %d", v.Len(), tt.len)
			}
		})
	}
}

// TestIsNestedSlice 测试嵌套切片判断
func TestIsNestedSlice(t *testing.T) {
	if !IsNestedSlice(reflect.ValueOf([][]string{})) {
		t.Error("[][]string should be nested")
	}
	if !IsNestedSlice(reflect.ValueOf([][]any{{1}})) {
		t.Error("[][]any should be nested")
	}
	if IsNestedSlice(reflect.ValueOf([]any{[]int{1}})) {
		t.Error("[]any holding slices is not a nested slice type")
	}
	if IsNestedSlice(reflect.Value{}) {
		t.Error("invalid value should not be nested")
	}
}

// TestSafeIndex 测试越界和类型错误
func TestSafeIndex(t *testing.T) {
	v := reflect.ValueOf([]int{10, 20, 30})

	got, err := SafeIndex(v, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Int() != 30 {
		t.Errorf("SafeIndex(v, 2) = %d, want 30", got.Int())
	}

	for _, i := range []int{-1, 3} {
		if _, err := SafeIndex(v, i); err == nil || !strings.Contains(err.Error(), "out of range") {
			t.Errorf("SafeIndex(v, %d) error = %v, want out of range", i, err)
		}
	}

	if _, err := SafeIndex(reflect.ValueOf(42), 0); err == nil {
		t.Error("expected error for non-slice value")
	}
	if _, err := SafeIndex(reflect.Value{}, 0); err == nil || err.Error() != "invalid value" {
		t.Errorf("expected invalid value error, got %v", err)
	}
}
