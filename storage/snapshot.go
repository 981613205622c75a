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

package storage

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"

	"github.com/rulego/colframe/column"
	"github.com/rulego/colframe/errs"
	"github.com/rulego/colframe/stype"
	"github.com/rulego/colframe/utils/compress"
)

const (
	snapshotMagic   = "CFS1"
	snapshotVersion = 1

	flagSnappy uint8 = 1 << 0
)

// snapshotHeader is the fixed little-endian prefix of a column snapshot.
// Enum levels (uint32 length + bytes each) and the payload follow it.
type snapshotHeader struct {
	Magic   [4]byte
	Version uint16
	SType   uint8
	Flags   uint8
	NRows   uint64
	Param   int64 // decimal scale or varchar offset-array position
	RawLen  uint64
	PayLen  uint64
	NLevels uint32
}

var headerSize = binary.Size(snapshotHeader{})

// Snapshot describes a snapshot file without loading its payload
type Snapshot struct {
	SType      stype.SType
	NRows      int
	Compressed bool
	RawLen     int64
	StoredLen  int64
	Levels     []string

	param int64
}

// Meta returns the column metadata recorded in the snapshot
func (s *Snapshot) Meta() column.Meta {
	switch s.SType.Info().Family {
	case stype.FamilyDecimal:
		return column.DecimalMeta{Scale: int(s.param)}
	case stype.FamilyVarString:
		return column.VarcharMeta{OffOff: s.param}
	case stype.FamilyEnum:
		return column.EnumMeta{Levels: s.Levels}
	default:
		return nil
	}
}

// WriteColumn writes col to path, replacing any existing file.
func WriteColumn(path string, col *column.Column, opts ...Option) error {
	o := newOptions(opts)
	if col.SType() == stype.Object {
		return errs.CreateInvalidColumnError(col.SType().String(), "object columns cannot be written to storage")
	}
	hdr := snapshotHeader{
		Version: snapshotVersion,
		SType:   uint8(col.SType()),
		NRows:   uint64(col.NRows()),
		RawLen:  uint64(len(col.Bytes())),
	}
	copy(hdr.Magic[:], snapshotMagic)

	var levels []string
	switch m := col.Meta().(type) {
	case column.DecimalMeta:
		hdr.Param = int64(m.Scale)
	case column.VarcharMeta:
		hdr.Param = m.OffOff
	case column.EnumMeta:
		levels = m.Levels
	}
	hdr.NLevels = uint32(len(levels))

	payload := col.Bytes()
	if o.compress {
		payload = compress.Encode(payload)
		hdr.Flags |= flagSnappy
	}
	hdr.PayLen = uint64(len(payload))

	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, hdr)
	for _, level := range levels {
		_ = binary.Write(&buf, binary.LittleEndian, uint32(len(level)))
		buf.WriteString(level)
	}

	f, err := Open(path, ModeOverwrite, opts...)
	if err != nil {
		return err
	}
	if _, err := f.OS().Write(buf.Bytes()); err != nil {
		_ = f.Close()
		return errs.CreateStorageError("write", path, ErrWrite, errors.Wrap(err, "write header"))
	}
	if _, err := f.OS().Write(payload); err != nil {
		_ = f.Close()
		return errs.CreateStorageError("write", path, ErrWrite, errors.Wrap(err, "write payload"))
	}
	o.log.Debug("wrote %s: %s, %d payload bytes, ratio %.2f", path, col.SType(), len(payload),
		compress.Ratio(int64(hdr.RawLen), int64(hdr.PayLen)))
	return f.Close()
}

// ReadColumn loads the column stored at path. Uncompressed payloads are
// memory-mapped when mmap is enabled; the returned column then owns the
// mapping and must be closed.
func ReadColumn(path string, opts ...Option) (*column.Column, error) {
	o := newOptions(opts)
	f, err := Open(path, ModeRead, opts...)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if o.useMmap {
		m, err := Map(f, false)
		if err != nil {
			return nil, err
		}
		snap, off, err := parseSnapshot(path, m.Bytes())
		if err != nil {
			_ = m.Close()
			return nil, err
		}
		stored := m.Bytes()[off : off+int(snap.StoredLen)]
		if snap.Compressed {
			defer m.Close()
			return decodeColumn(path, snap, stored)
		}
		col, err := column.NewExternal(snap.SType, snap.NRows, stored, snap.Meta(), path, m.Close)
		if err != nil {
			_ = m.Close()
			return nil, err
		}
		return col, nil
	}

	size, err := f.Size()
	if err != nil {
		return nil, err
	}
	data := make([]byte, size)
	if _, err := io.ReadFull(f.OS(), data); err != nil {
		return nil, errs.CreateStorageError("read", path, ErrRead, errors.Wrapf(err, "read %d bytes", size))
	}
	snap, off, err := parseSnapshot(path, data)
	if err != nil {
		return nil, err
	}
	return decodeColumn(path, snap, data[off:off+int(snap.StoredLen)])
}

// Inspect reads the header of the snapshot at path.
func Inspect(path string, opts ...Option) (*Snapshot, error) {
	f, err := Open(path, ModeRead, opts...)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	size, err := f.Size()
	if err != nil {
		return nil, err
	}
	data := make([]byte, size)
	if _, err := io.ReadFull(f.OS(), data); err != nil {
		return nil, errs.CreateStorageError("read", path, ErrRead, errors.Wrapf(err, "read %d bytes", size))
	}
	snap, _, err := parseSnapshot(path, data)
	return snap, err
}

// decodeColumn copies or decompresses stored into a heap-backed column
func decodeColumn(path string, snap *Snapshot, stored []byte) (*column.Column, error) {
	var raw []byte
	if snap.Compressed {
		var err error
		if raw, err = compress.Decode(stored, snap.RawLen); err != nil {
			return nil, corrupt(path, err)
		}
	} else {
		raw = append([]byte(nil), stored...)
	}
	if int64(len(raw)) != snap.RawLen {
		return nil, corrupt(path, errors.Errorf("payload has %d bytes, header says %d", len(raw), snap.RawLen))
	}
	return column.New(snap.SType, snap.NRows, raw, snap.Meta())
}

func parseSnapshot(path string, b []byte) (*Snapshot, int, error) {
	if len(b) < headerSize {
		return nil, 0, corrupt(path, errors.Errorf("file has %d bytes, header needs %d", len(b), headerSize))
	}
	var hdr snapshotHeader
	if err := binary.Read(bytes.NewReader(b[:headerSize]), binary.LittleEndian, &hdr); err != nil {
		return nil, 0, corrupt(path, errors.WithStack(err))
	}
	if string(hdr.Magic[:]) != snapshotMagic {
		return nil, 0, corrupt(path, errors.Errorf("bad magic %q", hdr.Magic[:]))
	}
	if hdr.Version != snapshotVersion {
		return nil, 0, corrupt(path, errors.Errorf("unsupported version %d", hdr.Version))
	}
	st := stype.SType(hdr.SType)
	if !st.Valid() || st == stype.Object {
		return nil, 0, corrupt(path, errors.Errorf("bad storage type %d", hdr.SType))
	}
	if hdr.NRows > math.MaxInt || hdr.RawLen > math.MaxInt || hdr.PayLen > math.MaxInt {
		return nil, 0, corrupt(path, errors.Errorf("lengths out of range: %d rows, %d raw bytes, %d stored bytes", hdr.NRows, hdr.RawLen, hdr.PayLen))
	}
	if width := uint64(st.Width()); width > 0 && hdr.NRows > hdr.RawLen/width {
		return nil, 0, corrupt(path, errors.Errorf("%d rows of %d bytes do not fit a %d-byte payload", hdr.NRows, width, hdr.RawLen))
	}

	off := headerSize
	var levels []string
	for i := uint32(0); i < hdr.NLevels; i++ {
		if off+4 > len(b) {
			return nil, 0, corrupt(path, errors.Errorf("truncated level %d", i))
		}
		n := int(binary.LittleEndian.Uint32(b[off:]))
		off += 4
		if off+n > len(b) {
			return nil, 0, corrupt(path, errors.Errorf("truncated level %d", i))
		}
		levels = append(levels, string(b[off:off+n]))
		off += n
	}
	if uint64(len(b)-off) < hdr.PayLen {
		return nil, 0, corrupt(path, errors.Errorf("payload has %d bytes, header says %d", len(b)-off, hdr.PayLen))
	}
	snap := &Snapshot{
		SType:      st,
		NRows:      int(hdr.NRows),
		Compressed: hdr.Flags&flagSnappy != 0,
		RawLen:     int64(hdr.RawLen),
		StoredLen:  int64(hdr.PayLen),
		Levels:     levels,
		param:      hdr.Param,
	}
	return snap, off, nil
}

func corrupt(path string, cause error) error {
	return errs.CreateStorageError("read", path, ErrCorruptSnapshot, cause)
}
