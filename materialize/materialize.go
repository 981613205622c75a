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
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rulego/colframe/column"
	"github.com/rulego/colframe/errs"
	"github.com/rulego/colframe/stype"
)

type handler func(c *column.Column, row int) (Value, error)

// handlers is indexed by storage type. Every stype has exactly one entry.
var handlers = [...]handler{
	stype.Void:        notImplemented,
	stype.Bool8:       boolValue,
	stype.Int8:        intValue,
	stype.Int16:       intValue,
	stype.Int32:       intValue,
	stype.Int64:       intValue,
	stype.Float32:     float32Value,
	stype.Float64:     float64Value,
	stype.Dec16:       decimalValue,
	stype.Dec32:       decimalValue,
	stype.Dec64:       decimalValue,
	stype.Str32:       varcharValue,
	stype.Str64:       varcharValue,
	stype.StrFixed:    notImplemented,
	stype.Enum8:       enumValue,
	stype.Enum16:      enumValue,
	stype.Enum32:      enumValue,
	stype.DateEpoch64: epochValue,
	stype.DatePrtmn64: notImplemented,
	stype.Time32:      timeOfDayValue,
	stype.Date32:      dateValue,
	stype.Month16:     notImplemented,
	stype.Object:      objectValue,
}

// A storage type appended to the enumeration without a handler fails to compile here.
var (
	_ [len(handlers) - int(stype.NumSTypes)]struct{}
	_ [int(stype.NumSTypes) - len(handlers)]struct{}
)

func init() {
	for st, h := range handlers {
		if h == nil {
			panic(fmt.Sprintf("materialize: no handler for stype %s", stype.SType(st)))
		}
	}
}

// Get materializes row of c. Rows outside [0, NRows) are a bounds error;
// storage types without a decoder return a not-implemented error.
func Get(c *column.Column, row int) (Value, error) {
	if row < 0 || row >= c.NRows() {
		return Null, errs.CreateBoundsError(c.SType().String(), row, c.NRows())
	}
	return handlers[c.SType()](c, row)
}

// Implemented reports whether values of st can be materialized.
func Implemented(st stype.SType) bool {
	switch st {
	case stype.Void, stype.StrFixed, stype.DatePrtmn64, stype.Month16:
		return false
	}
	return st.Valid()
}

// Decimal returns the exact value of a decimal cell. ok is false for Null.
func Decimal(c *column.Column, row int) (d decimal.Decimal, ok bool, err error) {
	if c.SType().Info().Family != stype.FamilyDecimal {
		return decimal.Zero, false, errs.CreateInvalidColumnError(c.SType().String(), "not a decimal column")
	}
	if row < 0 || row >= c.NRows() {
		return decimal.Zero, false, errs.CreateBoundsError(c.SType().String(), row, c.NRows())
	}
	x, null := readSigned(c, row)
	if null {
		return decimal.Zero, false, nil
	}
	scale := c.Meta().(column.DecimalMeta).Scale
	return decimal.New(x, -int32(scale)), true, nil
}

// Column formats up to limit leading rows of c, limit < 0 means all rows.
func Column(c *column.Column, limit int) ([]string, error) {
	n := c.NRows()
	if limit >= 0 && limit < n {
		n = limit
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		v, err := Get(c, i)
		if err != nil {
			return nil, err
		}
		out[i] = Format(v)
	}
	return out, nil
}

func notImplemented(c *column.Column, _ int) (Value, error) {
	return Null, errs.CreateNotImplementedError(c.SType().String(), int(c.SType()))
}

// readSigned reads a signed integer at the column's width and reports
// whether it equals the sentinel of that width.
func readSigned(c *column.Column, row int) (int64, bool) {
	data := c.Bytes()
	var x int64
	switch c.SType().Width() {
	case 1:
		x = int64(int8(data[row]))
		return x, x == int64(stype.NAInt8)
	case 2:
		x = int64(int16(binary.LittleEndian.Uint16(data[row*2:])))
		return x, x == int64(stype.NAInt16)
	case 4:
		x = int64(int32(binary.LittleEndian.Uint32(data[row*4:])))
		return x, x == int64(stype.NAInt32)
	default:
		x = int64(binary.LittleEndian.Uint64(data[row*8:]))
		return x, x == stype.NAInt64
	}
}

func readUnsigned(c *column.Column, row int) uint64 {
	data := c.Bytes()
	switch c.SType().Width() {
	case 1:
		return uint64(data[row])
	case 2:
		return uint64(binary.LittleEndian.Uint16(data[row*2:]))
	case 4:
		return uint64(binary.LittleEndian.Uint32(data[row*4:]))
	default:
		return binary.LittleEndian.Uint64(data[row*8:])
	}
}

func boolValue(c *column.Column, row int) (Value, error) {
	switch int8(c.Bytes()[row]) {
	case 0:
		return newValue(stype.Boolean, false), nil
	case 1:
		return newValue(stype.Boolean, true), nil
	default:
		return Null, nil
	}
}

func intValue(c *column.Column, row int) (Value, error) {
	x, null := readSigned(c, row)
	if null {
		return Null, nil
	}
	return newValue(stype.Integer, x), nil
}

func float32Value(c *column.Column, row int) (Value, error) {
	bits := binary.LittleEndian.Uint32(c.Bytes()[row*4:])
	if bits == stype.NAFloat32Bits {
		return Null, nil
	}
	return newValue(stype.Real, float64(math.Float32frombits(bits))), nil
}

func float64Value(c *column.Column, row int) (Value, error) {
	bits := binary.LittleEndian.Uint64(c.Bytes()[row*8:])
	if bits == stype.NAFloat64Bits {
		return Null, nil
	}
	return newValue(stype.Real, math.Float64frombits(bits)), nil
}

// decimalValue divides the mantissa by 10^scale in float64 for every width,
// so equal decimals of different widths materialize identically.
func decimalValue(c *column.Column, row int) (Value, error) {
	x, null := readSigned(c, row)
	if null {
		return Null, nil
	}
	scale := c.Meta().(column.DecimalMeta).Scale
	return newValue(stype.Real, float64(x)/math.Pow10(scale)), nil
}

// varcharValue decodes one row of an offset-array string column. Offsets are
// 1-based running ends; a negative offset marks a null row and its absolute
// value is still the end of the previous non-null row.
func varcharValue(c *column.Column, row int) (Value, error) {
	width := c.SType().Width()
	data := c.Bytes()
	offOff := c.Meta().(column.VarcharMeta).OffOff
	offsets := data[offOff:]

	end := offsetAt(offsets, width, row)
	if end < 0 {
		return Null, nil
	}
	var start int64
	if row > 0 {
		prev := offsetAt(offsets, width, row-1)
		if prev < 0 {
			prev = -prev
		}
		start = prev - 1
	}
	length := end - 1 - start
	if start < 0 || length < 0 || start+length > offOff {
		return Null, errs.CreateInvalidColumnError(c.SType().String(), "corrupt offsets at row %d", row)
	}
	return newValue(stype.String, string(data[start:start+length])), nil
}

func offsetAt(offsets []byte, width, row int) int64 {
	if width == 4 {
		return int64(int32(binary.LittleEndian.Uint32(offsets[row*4:])))
	}
	return int64(binary.LittleEndian.Uint64(offsets[row*8:]))
}

func enumValue(c *column.Column, row int) (Value, error) {
	code := readUnsigned(c, row)
	if code == c.SType().Info().Sentinel.Bits {
		return Null, nil
	}
	levels := c.Meta().(column.EnumMeta).Levels
	if code >= uint64(len(levels)) {
		return Null, errs.CreateInvalidColumnError(c.SType().String(), "code %d has no level (%d levels) at row %d", code, len(levels), row)
	}
	return newValue(stype.String, levels[code]), nil
}

func epochValue(c *column.Column, row int) (Value, error) {
	ms, null := readSigned(c, row)
	if null {
		return Null, nil
	}
	return newValue(stype.Datetime, time.UnixMilli(ms).UTC()), nil
}

func dateValue(c *column.Column, row int) (Value, error) {
	days, null := readSigned(c, row)
	if null {
		return Null, nil
	}
	return newValue(stype.Datetime, time.Unix(days*86400, 0).UTC()), nil
}

func timeOfDayValue(c *column.Column, row int) (Value, error) {
	ms, null := readSigned(c, row)
	if null {
		return Null, nil
	}
	return newValue(stype.Duration, time.Duration(ms)*time.Millisecond), nil
}

// objectValue hands back the stored reference; the column keeps ownership.
func objectValue(c *column.Column, row int) (Value, error) {
	obj := c.Objects()[row]
	if obj == nil {
		return Null, nil
	}
	return newValue(stype.ObjectL, obj), nil
}
