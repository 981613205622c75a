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
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rulego/colframe/errs"
	"github.com/rulego/colframe/stype"
	"github.com/rulego/colframe/utils/cast"
)

const msPerDay = int64(24 * time.Hour / time.Millisecond)

// InferSType picks a storage type for values from the first non-null one.
// A column of nulls only is boolean.
func InferSType(values []any) stype.SType {
	for _, v := range values {
		if cast.IsNull(v) {
			continue
		}
		switch v.(type) {
		case bool, *bool:
			return stype.Bool8
		case int8, *int8:
			return stype.Int8
		case int16, *int16:
			return stype.Int16
		case int32, *int32:
			return stype.Int32
		case int, int64, uint, uint8, uint16, uint32, uint64, *int, *int64:
			return stype.Int64
		case float32, *float32:
			return stype.Float32
		case float64, *float64, decimal.Decimal:
			return stype.Float64
		case string, *string:
			return stype.Str32
		case time.Time, *time.Time:
			return stype.DateEpoch64
		case time.Duration:
			return stype.Time32
		default:
			return stype.Object
		}
	}
	return stype.Bool8
}

// FromValues encodes values as a column of type st. Null cells (nil or nil
// pointers) are written as the type's sentinel. meta is required for
// decimal columns; for enum columns a nil meta derives the levels from the
// values in first-seen order.
func FromValues(st stype.SType, values []any, meta Meta) (*Column, error) {
	info := stype.Lookup(st)
	n := len(values)

	switch info.Family {
	case stype.FamilyVoid:
		return New(st, n, nil, nil)
	case stype.FamilyObject:
		return FromObjects(values), nil
	case stype.FamilyVarString:
		strs := make([]*string, n)
		for i, v := range values {
			s, ok, err := cast.ToString(v)
			if err != nil {
				return nil, cellError(st, i, err)
			}
			if ok {
				strs[i] = &s
			}
		}
		return FromStrings(st, strs)
	case stype.FamilyEnum:
		return fromEnumValues(st, values, meta)
	case stype.FamilyFixedString:
		return nil, errs.CreateNotImplementedError(st.String(), int(st))
	}

	width := info.Width
	data := make([]byte, n*width)
	for i, v := range values {
		bits, err := encodeCell(st, info, v, meta)
		if err != nil {
			return nil, cellError(st, i, err)
		}
		putBits(data[i*width:], width, bits)
	}
	return New(st, n, data, meta)
}

func encodeCell(st stype.SType, info stype.Info, v any, meta Meta) (uint64, error) {
	na := info.Sentinel.Bits
	switch info.Family {
	case stype.FamilyBool:
		b, ok, err := cast.ToBool(v)
		if err != nil || !ok {
			return na, err
		}
		if b {
			return 1, nil
		}
		return 0, nil
	case stype.FamilyInt:
		x, ok, err := cast.ToIntN(v, info.Width*8)
		if err != nil || !ok {
			return na, err
		}
		return uint64(x), nil
	case stype.FamilyFloat:
		f, ok, err := cast.ToFloat64(v)
		if err != nil || !ok {
			return na, err
		}
		if st == stype.Float32 {
			return uint64(math.Float32bits(float32(f))), nil
		}
		return math.Float64bits(f), nil
	case stype.FamilyDecimal:
		m, _ := meta.(DecimalMeta)
		x, ok, err := decimalMantissa(v, m.Scale, info.Width*8)
		if err != nil || !ok {
			return na, err
		}
		return uint64(x), nil
	case stype.FamilyTemporal:
		x, ok, err := temporalValue(st, v)
		if err != nil || !ok {
			return na, err
		}
		if _, _, err := cast.ToIntN(x, info.Width*8); err != nil {
			return na, err
		}
		return uint64(x), nil
	}
	return na, errs.CreateNotImplementedError(st.String(), int(st))
}

// decimalMantissa scales v by 10^scale and rounds half away from zero.
func decimalMantissa(v any, scale, bits int) (int64, bool, error) {
	if cast.IsNull(v) {
		return 0, false, nil
	}
	var m decimal.Decimal
	if d, ok := v.(decimal.Decimal); ok {
		m = d
	} else {
		f, _, err := cast.ToFloat64(v)
		if err != nil {
			return 0, false, err
		}
		m = decimal.NewFromFloat(f)
	}
	mantissa := m.Shift(int32(scale)).Round(0)
	if !mantissa.IsInteger() || mantissa.Abs().GreaterThan(decimal.New(math.MaxInt64, 0)) {
		return 0, false, errs.CreateInvalidColumnError("decimal", "value %s overflows at scale %d", m, scale)
	}
	return cast.ToIntN(mantissa.IntPart(), bits)
}

func temporalValue(st stype.SType, v any) (int64, bool, error) {
	switch st {
	case stype.DateEpoch64:
		t, ok, err := cast.ToTime(v)
		if err != nil || !ok {
			return 0, ok, err
		}
		return t.UnixMilli(), true, nil
	case stype.Date32:
		t, ok, err := cast.ToTime(v)
		if err != nil || !ok {
			return 0, ok, err
		}
		ms := t.UnixMilli()
		days := ms / msPerDay
		if ms%msPerDay < 0 {
			days--
		}
		return days, true, nil
	case stype.Time32:
		d, ok, err := cast.ToDuration(v)
		if err != nil || !ok {
			return 0, ok, err
		}
		return d.Milliseconds(), true, nil
	}
	return 0, false, errs.CreateNotImplementedError(st.String(), int(st))
}

// FromStrings encodes strs as a variable-width string column. A nil entry
// is a null row. Offsets are 1-based running lengths; a null row stores the
// previous row's end negated so that the next row can still find its start.
func FromStrings(st stype.SType, strs []*string) (*Column, error) {
	width := stype.Lookup(st).Width
	if stype.Lookup(st).Family != stype.FamilyVarString {
		return nil, errs.CreateInvalidColumnError(st.String(), "not a variable-width string type")
	}

	var chars []byte
	offsets := make([]int64, len(strs))
	end := int64(1)
	for i, s := range strs {
		if s == nil {
			offsets[i] = -end
			continue
		}
		chars = append(chars, *s...)
		end = int64(len(chars)) + 1
		offsets[i] = end
	}
	if width == 4 && end > math.MaxInt32 {
		return nil, errs.CreateInvalidColumnError(st.String(), "character buffer of %d bytes exceeds 32-bit offsets", len(chars))
	}

	offoff := (int64(len(chars)) + 7) &^ 7
	data := make([]byte, offoff+int64(len(strs)*width))
	copy(data, chars)
	for i := int64(len(chars)); i < offoff; i++ {
		data[i] = 0xFF
	}
	for i, off := range offsets {
		putBits(data[offoff+int64(i*width):], width, uint64(off))
	}
	return New(st, len(strs), data, VarcharMeta{OffOff: offoff})
}

func fromEnumValues(st stype.SType, values []any, meta Meta) (*Column, error) {
	info := stype.Lookup(st)
	m, _ := meta.(EnumMeta)
	levels := append([]string(nil), m.Levels...)
	index := make(map[string]uint64, len(levels))
	for i, l := range levels {
		index[l] = uint64(i)
	}
	derive := len(levels) == 0

	data := make([]byte, len(values)*info.Width)
	for i, v := range values {
		s, ok, err := cast.ToString(v)
		if err != nil {
			return nil, cellError(st, i, err)
		}
		code := info.Sentinel.Bits
		if ok {
			c, found := index[s]
			if !found {
				if !derive {
					return nil, cellError(st, i, errs.CreateInvalidColumnError(st.String(), "value %q is not a level", s))
				}
				c = uint64(len(levels))
				levels = append(levels, s)
				index[s] = c
			}
			code = c
		}
		if ok && code >= info.Sentinel.Bits {
			return nil, cellError(st, i, errs.CreateInvalidColumnError(st.String(), "too many levels for %d-byte codes", info.Width))
		}
		putBits(data[i*info.Width:], info.Width, code)
	}
	return New(st, len(values), data, EnumMeta{Levels: levels})
}

func putBits(dst []byte, width int, bits uint64) {
	switch width {
	case 1:
		dst[0] = byte(bits)
	case 2:
		binary.LittleEndian.PutUint16(dst, uint16(bits))
	case 4:
		binary.LittleEndian.PutUint32(dst, uint32(bits))
	case 8:
		binary.LittleEndian.PutUint64(dst, bits)
	}
}

func cellError(st stype.SType, row int, err error) error {
	if e, ok := err.(*errs.Error); ok {
		e.Index = row
		return e
	}
	e := errs.CreateInvalidColumnError(st.String(), "cannot encode cell: %v", err)
	e.Index = row
	return e
}
