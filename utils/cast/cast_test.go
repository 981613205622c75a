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

package cast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsNull(t *testing.T) {
	var p *int
	var s []int
	assert.True(t, IsNull(nil))
	assert.True(t, IsNull(p))
	assert.True(t, IsNull(s))
	assert.False(t, IsNull(0))
	assert.False(t, IsNull(""))
}

func TestToInt64(t *testing.T) {
	tests := []struct {
		name   string
		input  interface{}
		expect int64
		ok     bool
		hasErr bool
	}{
		{"int", 123, 123, true, false},
		{"int8", int8(-5), -5, true, false},
		{"uint32", uint32(7), 7, true, false},
		{"whole float", 4.0, 4, true, false},
		{"fractional float", 4.5, 0, false, true},
		{"string", "123", 123, true, false},
		{"invalid string", "abc", 0, false, true},
		{"nil", nil, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := ToInt64(tt.input)
			assert.Equal(t, tt.hasErr, err != nil, "err = %v", err)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expect, got)
		})
	}
}

func TestToIntN(t *testing.T) {
	_, _, err := ToIntN(127, 8)
	assert.NoError(t, err)
	_, _, err = ToIntN(128, 8)
	assert.Error(t, err)
	// the minimum value is reserved for null
	_, _, err = ToIntN(-128, 8)
	assert.Error(t, err)
	v, ok, err := ToIntN(-32767, 16)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(-32767), v)
}

func TestToOthers(t *testing.T) {
	f, ok, err := ToFloat64("2.5")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2.5, f)

	b, ok, err := ToBool("true")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, b)

	s, ok, err := ToString(12)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "12", s)

	_, ok, err = ToString(nil)
	assert.NoError(t, err)
	assert.False(t, ok)

	tm, ok, err := ToTime("2024-01-02T03:04:05Z")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), tm)

	d, ok, err := ToDuration("1500ms")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1500*time.Millisecond, d)
}
