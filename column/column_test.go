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

package column

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/colframe/errs"
	"github.com/rulego/colframe/stype"
)

func strp(s string) *string { return &s }

func TestNewValidatesLength(t *testing.T) {
	_, err := New(stype.Int32, 3, make([]byte, 12), nil)
	require.NoError(t, err)

	_, err = New(stype.Int32, 3, make([]byte, 11), nil)
	assert.True(t, errs.Is(err, errs.ErrorTypeInvalidColumn))

	_, err = New(stype.Dec32, 1, make([]byte, 4), nil)
	assert.True(t, errs.Is(err, errs.ErrorTypeInvalidColumn), "decimal without meta")

	_, err = New(stype.Dec32, 1, make([]byte, 4), DecimalMeta{Scale: -1})
	assert.True(t, errs.Is(err, errs.ErrorTypeInvalidColumn))

	_, err = New(stype.Int8, 1, make([]byte, 1), DecimalMeta{Scale: 2})
	assert.True(t, errs.Is(err, errs.ErrorTypeInvalidColumn), "meta of the wrong family")

	_, err = New(stype.Object, 0, nil, nil)
	assert.Error(t, err)
}

func TestNewRejectsOverflowingRowCount(t *testing.T) {
	_, err := New(stype.Int32, 1<<62, nil, nil)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrorTypeInvalidColumn))
	assert.Contains(t, err.Error(), "overflows")

	_, err = New(stype.Float64, math.MaxInt/8+1, nil, nil)
	assert.True(t, errs.Is(err, errs.ErrorTypeInvalidColumn))

	_, err = New(stype.Str64, 1<<61, nil, VarcharMeta{})
	assert.True(t, errs.Is(err, errs.ErrorTypeInvalidColumn))

	_, err = New(stype.Str32, 1, make([]byte, 4), VarcharMeta{OffOff: math.MaxInt64 - 3})
	assert.True(t, errs.Is(err, errs.ErrorTypeInvalidColumn), "offset array past the buffer")
}

func TestFromStringsLayout(t *testing.T) {
	col, err := FromStrings(stype.Str32, []*string{strp("ab"), nil, strp(""), strp("cde")})
	require.NoError(t, err)

	meta := col.Meta().(VarcharMeta)
	assert.Equal(t, int64(8), meta.OffOff)
	assert.Equal(t, 4, col.NRows())
	assert.Equal(t, "abcde", string(col.Bytes()[:5]))

	offsets := make([]int32, 4)
	for i := range offsets {
		offsets[i] = int32(binary.LittleEndian.Uint32(col.Bytes()[meta.OffOff+int64(4*i):]))
	}
	// null row keeps the previous end, negated
	assert.Equal(t, []int32{3, -3, 3, 6}, offsets)
}

func TestFromStringsRejectsCorruptOffsets(t *testing.T) {
	data := make([]byte, 8+4)
	binary.LittleEndian.PutUint32(data[8:], 100)
	_, err := New(stype.Str32, 1, data, VarcharMeta{OffOff: 8})
	assert.True(t, errs.Is(err, errs.ErrorTypeInvalidColumn))

	_, err = New(stype.Str32, 1, data, VarcharMeta{OffOff: 6})
	assert.True(t, errs.Is(err, errs.ErrorTypeInvalidColumn))
}

func TestFromValues(t *testing.T) {
	tests := []struct {
		name  string
		st    stype.SType
		vals  []any
		meta  Meta
		width int
	}{
		{"bool", stype.Bool8, []any{true, false, nil}, nil, 1},
		{"int16", stype.Int16, []any{int16(1), nil, "7"}, nil, 2},
		{"int64", stype.Int64, []any{1, 2, 3}, nil, 8},
		{"float32", stype.Float32, []any{1.5, nil}, nil, 4},
		{"decimal", stype.Dec32, []any{1.25, nil, decimal.RequireFromString("-3.1")}, DecimalMeta{Scale: 2}, 4},
		{"date", stype.Date32, []any{time.Unix(0, 0), nil}, nil, 4},
		{"time", stype.Time32, []any{time.Second, nil}, nil, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, err := FromValues(tt.st, tt.vals, tt.meta)
			require.NoError(t, err)
			assert.Equal(t, len(tt.vals), col.NRows())
			assert.Len(t, col.Bytes(), len(tt.vals)*tt.width)
			assert.Equal(t, tt.st, col.SType())
		})
	}
}

func TestFromValuesEncodesSentinel(t *testing.T) {
	col, err := FromValues(stype.Int32, []any{nil, 5}, nil)
	require.NoError(t, err)
	naInt32 := stype.NAInt32
	assert.Equal(t, uint32(naInt32), binary.LittleEndian.Uint32(col.Bytes()))
	assert.Equal(t, uint32(5), binary.LittleEndian.Uint32(col.Bytes()[4:]))

	col, err = FromValues(stype.Dec16, []any{12.345}, DecimalMeta{Scale: 2})
	require.NoError(t, err)
	assert.Equal(t, int16(1235), int16(binary.LittleEndian.Uint16(col.Bytes())))
}

func TestFromValuesErrors(t *testing.T) {
	_, err := FromValues(stype.Int8, []any{1, 300}, nil)
	require.Error(t, err)
	var e *errs.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, 1, e.Index)

	_, err = FromValues(stype.Month16, []any{1}, nil)
	assert.True(t, errs.Is(err, errs.ErrorTypeNotImplemented))

	_, err = FromValues(stype.Enum8, []any{"x"}, EnumMeta{Levels: []string{"a"}})
	assert.True(t, errs.Is(err, errs.ErrorTypeInvalidColumn))
}

func TestFromValuesEnumDerivesLevels(t *testing.T) {
	col, err := FromValues(stype.Enum8, []any{"b", "a", nil, "b"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, col.Meta().(EnumMeta).Levels)
	assert.Equal(t, []byte{0, 1, 0xFF, 0}, col.Bytes())
}

func TestInferSType(t *testing.T) {
	assert.Equal(t, stype.Bool8, InferSType([]any{nil, nil}))
	assert.Equal(t, stype.Int64, InferSType([]any{nil, 3}))
	assert.Equal(t, stype.Int32, InferSType([]any{int32(3)}))
	assert.Equal(t, stype.Float64, InferSType([]any{2.5}))
	assert.Equal(t, stype.Str32, InferSType([]any{"x"}))
	assert.Equal(t, stype.DateEpoch64, InferSType([]any{time.Now()}))
	assert.Equal(t, stype.Time32, InferSType([]any{time.Minute}))
	assert.Equal(t, stype.Object, InferSType([]any{struct{}{}}))
}

func TestExternalClose(t *testing.T) {
	calls := 0
	col, err := NewExternal(stype.Int8, 2, []byte{1, 2}, nil, "mem://x", func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.True(t, col.External())
	assert.Equal(t, "mem://x", col.Source())
	assert.Contains(t, col.String(), "mem://x")

	require.NoError(t, col.Close())
	require.NoError(t, col.Close())
	assert.Equal(t, 1, calls)

	heap := FromObjects([]any{1})
	assert.NoError(t, heap.Close())
	assert.False(t, heap.External())
}
