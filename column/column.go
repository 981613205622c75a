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

// Package column implements the typed, read-only column handle: a byte
// buffer whose layout is fixed by the column's storage type, plus the small
// metadata record that some storage types need to interpret it.
package column

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/rulego/colframe/errs"
	"github.com/rulego/colframe/stype"
)

// Meta is the per-stype metadata record of a column.
type Meta interface {
	family() stype.Family
}

// DecimalMeta holds the decimal scale: value = mantissa / 10^Scale.
type DecimalMeta struct {
	Scale int
}

func (DecimalMeta) family() stype.Family { return stype.FamilyDecimal }

// VarcharMeta locates the offset array inside the buffer.
type VarcharMeta struct {
	OffOff int64
}

func (VarcharMeta) family() stype.Family { return stype.FamilyVarString }

// EnumMeta is the level dictionary referenced by enum codes.
type EnumMeta struct {
	Levels []string
}

func (EnumMeta) family() stype.Family { return stype.FamilyEnum }

// Column is a typed handle over a contiguous byte buffer. The buffer is
// either owned by the column or borrowed from an external provider, in
// which case Close returns it. A column never changes after construction.
type Column struct {
	stype   stype.SType
	nrows   int
	data    []byte
	meta    Meta
	objects []any

	source  string
	release func() error
	once    sync.Once
	relErr  error
}

// New wraps data as a column of type st with nrows rows. The buffer length
// and the metadata are validated against the storage type.
func New(st stype.SType, nrows int, data []byte, meta Meta) (*Column, error) {
	if !st.Valid() {
		return nil, errs.CreateInvalidColumnError(st.String(), "unknown storage type")
	}
	if st == stype.Object {
		return nil, errs.CreateInvalidColumnError(st.String(), "object columns are built with FromObjects")
	}
	c := &Column{stype: st, nrows: nrows, data: data, meta: meta}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewExternal wraps a byte range owned by a storage provider. source names
// the provider (usually a file path); release is called once by Close.
func NewExternal(st stype.SType, nrows int, data []byte, meta Meta, source string, release func() error) (*Column, error) {
	c, err := New(st, nrows, data, meta)
	if err != nil {
		return nil, err
	}
	c.source = source
	c.release = release
	return c, nil
}

// FromObjects builds an Object column that references values without copying them.
func FromObjects(values []any) *Column {
	return &Column{stype: stype.Object, nrows: len(values), objects: values}
}

func (c *Column) validate() error {
	info := c.stype.Info()
	name := c.stype.String()
	if c.nrows < 0 {
		return errs.CreateInvalidColumnError(name, "negative row count %d", c.nrows)
	}
	if info.Width > 0 && c.nrows > math.MaxInt/info.Width {
		return errs.CreateInvalidColumnError(name, "row count %d overflows a buffer of %d-byte cells", c.nrows, info.Width)
	}
	if c.meta != nil && c.meta.family() != info.Family {
		return errs.CreateInvalidColumnError(name, "metadata %T does not belong to a %s column", c.meta, info.Family)
	}

	switch info.Family {
	case stype.FamilyVoid:
		if len(c.data) != 0 {
			return errs.CreateInvalidColumnError(name, "void column carries %d bytes", len(c.data))
		}
		return nil
	case stype.FamilyVarString:
		return c.validateVarchar(info.Width)
	case stype.FamilyFixedString:
		if c.nrows > 0 && len(c.data)%c.nrows != 0 {
			return errs.CreateInvalidColumnError(name, "buffer of %d bytes is not a multiple of %d rows", len(c.data), c.nrows)
		}
		return nil
	case stype.FamilyDecimal:
		m, ok := c.meta.(DecimalMeta)
		if !ok {
			return errs.CreateInvalidColumnError(name, "decimal column requires DecimalMeta")
		}
		if m.Scale < 0 {
			return errs.CreateInvalidColumnError(name, "negative decimal scale %d", m.Scale)
		}
	case stype.FamilyEnum:
		if _, ok := c.meta.(EnumMeta); !ok {
			return errs.CreateInvalidColumnError(name, "enum column requires EnumMeta")
		}
	}

	if want := c.nrows * info.Width; len(c.data) != want {
		return errs.CreateInvalidColumnError(name, "expected %d bytes for %d rows, got %d", want, c.nrows, len(c.data))
	}
	return nil
}

func (c *Column) validateVarchar(width int) error {
	name := c.stype.String()
	m, ok := c.meta.(VarcharMeta)
	if !ok {
		return errs.CreateInvalidColumnError(name, "string column requires VarcharMeta")
	}
	if m.OffOff < 0 || m.OffOff%int64(width) != 0 {
		return errs.CreateInvalidColumnError(name, "offset array at %d is not aligned to %d bytes", m.OffOff, width)
	}
	if m.OffOff > int64(len(c.data)) {
		return errs.CreateInvalidColumnError(name, "offset array at %d is past the %d-byte buffer", m.OffOff, len(c.data))
	}
	if want := m.OffOff + int64(c.nrows*width); int64(len(c.data)) != want {
		return errs.CreateInvalidColumnError(name, "expected %d bytes (offsets at %d), got %d", want, m.OffOff, len(c.data))
	}
	if c.nrows == 0 {
		return nil
	}
	last := readOffset(c.data[m.OffOff:], width, c.nrows-1)
	if last < 0 {
		last = -last
	}
	if last < 1 || last-1 > m.OffOff {
		return errs.CreateInvalidColumnError(name, "last offset %d overruns character buffer of %d bytes", last, m.OffOff)
	}
	return nil
}

func readOffset(offsets []byte, width, row int) int64 {
	if width == 4 {
		return int64(int32(binary.LittleEndian.Uint32(offsets[row*4:])))
	}
	return int64(binary.LittleEndian.Uint64(offsets[row*8:]))
}

// SType returns the storage type
func (c *Column) SType() stype.SType { return c.stype }

// LType returns the logical type
func (c *Column) LType() stype.LType { return c.stype.LType() }

// NRows returns the number of rows
func (c *Column) NRows() int { return c.nrows }

// Bytes returns the raw buffer. It must be treated as read-only; values are
// read through the materialize package, not by reinterpreting these bytes.
func (c *Column) Bytes() []byte { return c.data }

// Meta returns the metadata record, nil for types that need none.
func (c *Column) Meta() Meta { return c.meta }

// Objects returns the references stored in an Object column.
func (c *Column) Objects() []any { return c.objects }

// Source returns the external provider name, empty for heap columns.
func (c *Column) Source() string { return c.source }

// External reports whether the buffer is borrowed from a storage provider.
func (c *Column) External() bool { return c.release != nil }

// Close releases an externally provided buffer. It is safe to call more
// than once and is a no-op for heap columns.
func (c *Column) Close() error {
	if c.release == nil {
		return nil
	}
	c.once.Do(func() {
		c.relErr = c.release()
		c.data = nil
	})
	return c.relErr
}

func (c *Column) String() string {
	src := ""
	if c.source != "" {
		src = ", " + c.source
	}
	return fmt.Sprintf("Column(%s, %d rows, %s%s)", c.stype, c.nrows, humanize.Bytes(uint64(len(c.data))), src)
}
