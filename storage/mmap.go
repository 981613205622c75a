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
	"sync"

	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"

	"github.com/rulego/colframe/errs"
)

// Mapping is a memory-mapped view of a whole file. The view stays valid
// after the file is closed, until Close.
type Mapping struct {
	data mmap.MMap
	name string
	once sync.Once
	err  error
}

// Map maps the current extent of f. An empty file yields an empty mapping.
func Map(f *File, writable bool) (*Mapping, error) {
	size, err := f.Size()
	if err != nil {
		return nil, err
	}
	m := &Mapping{name: f.Name()}
	if size == 0 {
		return m, nil
	}
	prot := mmap.RDONLY
	if writable {
		prot = mmap.RDWR
	}
	data, err := mmap.Map(f.OS(), prot, 0)
	if err != nil {
		return nil, errs.CreateStorageError("mmap", f.Name(), ErrMap, errors.Wrapf(err, "map %d bytes", size))
	}
	m.data = data
	f.log.Debug("mapped %s (%d bytes, writable=%v)", f.Name(), size, writable)
	return m, nil
}

// Bytes returns the mapped bytes
func (m *Mapping) Bytes() []byte { return m.data }

func (m *Mapping) Len() int { return len(m.data) }

// Flush writes changes of a writable mapping back to the file
func (m *Mapping) Flush() error {
	if m.data == nil {
		return nil
	}
	if err := m.data.Flush(); err != nil {
		return errs.CreateStorageError("flush", m.name, ErrMap, errors.WithStack(err))
	}
	return nil
}

// Close unmaps the view. Later calls return the first result.
func (m *Mapping) Close() error {
	m.once.Do(func() {
		if m.data == nil {
			return
		}
		if err := m.data.Unmap(); err != nil {
			m.err = errs.CreateStorageError("unmap", m.name, ErrMap, errors.WithStack(err))
		}
		m.data = nil
	})
	return m.err
}
