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
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/rulego/colframe/errs"
	"github.com/rulego/colframe/logger"
)

// Mode is the access intent of Open
type Mode int

const (
	// ModeRead opens an existing file read-only
	ModeRead Mode = iota
	// ModeReadWrite opens an existing file for reading and writing
	ModeReadWrite
	// ModeOverwrite creates the file or truncates it to zero length
	ModeOverwrite
)

func (m Mode) String() string {
	switch m {
	case ModeRead:
		return "read"
	case ModeReadWrite:
		return "read-write"
	case ModeOverwrite:
		return "overwrite"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

var (
	ErrOpenRead        = errors.New("cannot open file for reading")
	ErrOpenReadWrite   = errors.New("cannot open file for reading and writing")
	ErrOpenOverwrite   = errors.New("cannot create or truncate file")
	ErrIsDirectory     = errors.New("path is a directory")
	ErrStat            = errors.New("cannot stat file")
	ErrResize          = errors.New("cannot resize file")
	ErrRemove          = errors.New("cannot remove file")
	ErrClose           = errors.New("cannot close file")
	ErrMap             = errors.New("cannot memory-map file")
	ErrWrite           = errors.New("cannot write file")
	ErrRead            = errors.New("cannot read file")
	ErrCorruptSnapshot = errors.New("corrupt column snapshot")
)

func (m Mode) flags() int {
	switch m {
	case ModeReadWrite:
		return os.O_RDWR
	case ModeOverwrite:
		return os.O_RDWR | os.O_CREATE | os.O_TRUNC
	default:
		return os.O_RDONLY
	}
}

func (m Mode) openError() error {
	switch m {
	case ModeReadWrite:
		return ErrOpenReadWrite
	case ModeOverwrite:
		return ErrOpenOverwrite
	default:
		return ErrOpenRead
	}
}

// cachedSize holds the file size once it is known
type cachedSize struct {
	n     int64
	valid bool
}

// File is an open file whose size is cached until the next Resize.
// A File is not safe for concurrent use.
type File struct {
	f    *os.File
	name string
	mode Mode
	size cachedSize
	log  logger.Logger

	statCalls int
}

// Open opens path with the given access intent. Directories are rejected.
func Open(path string, mode Mode, opts ...Option) (*File, error) {
	o := newOptions(opts)
	f, err := os.OpenFile(path, mode.flags(), o.perm)
	if err != nil {
		return nil, errs.CreateStorageError("open", path, mode.openError(), errors.Wrapf(err, "open %s", mode))
	}
	file := &File{f: f, name: path, mode: mode, log: o.log}
	if err := file.AssertNotDir(); err != nil {
		_ = f.Close()
		return nil, err
	}
	o.log.Debug("opened %s (%s)", path, mode)
	return file, nil
}

func (f *File) Name() string { return f.name }

func (f *File) Mode() Mode { return f.mode }

func (f *File) stat() (os.FileInfo, error) {
	f.statCalls++
	info, err := f.f.Stat()
	if err != nil {
		return nil, errs.CreateStorageError("stat", f.name, ErrStat, errors.WithStack(err))
	}
	f.size = cachedSize{n: info.Size(), valid: true}
	return info, nil
}

// Size returns the file size, touching the filesystem only when no size
// is cached.
func (f *File) Size() (int64, error) {
	if f.size.valid {
		return f.size.n, nil
	}
	if _, err := f.stat(); err != nil {
		return 0, err
	}
	return f.size.n, nil
}

// Resize truncates or extends the file to n bytes. The cached size is
// replaced by n.
func (f *File) Resize(n int64) error {
	f.size = cachedSize{}
	if err := f.f.Truncate(n); err != nil {
		return errs.CreateStorageError("resize", f.name, ErrResize, errors.Wrapf(err, "truncate to %d", n))
	}
	f.size = cachedSize{n: n, valid: true}
	return nil
}

// AssertNotDir fails with ErrIsDirectory when the file is a directory.
func (f *File) AssertNotDir() error {
	info, err := f.stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return errs.CreateStorageError("open", f.name, ErrIsDirectory, nil)
	}
	return nil
}

// OS returns the underlying file
func (f *File) OS() *os.File { return f.f }

func (f *File) Close() error {
	if err := f.f.Close(); err != nil {
		return errs.CreateStorageError("close", f.name, ErrClose, errors.WithStack(err))
	}
	return nil
}

// SizeOf returns the size of path without opening it.
func SizeOf(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, errs.CreateStorageError("stat", path, ErrStat, errors.WithStack(err))
	}
	if info.IsDir() {
		return 0, errs.CreateStorageError("stat", path, ErrIsDirectory, nil)
	}
	return info.Size(), nil
}

// RemovePolicy decides what a failed Remove does
type RemovePolicy int

const (
	// RemoveMustSucceed returns the failure as a storage error
	RemoveMustSucceed RemovePolicy = iota
	// RemoveBestEffort logs the failure and returns nil
	RemoveBestEffort
)

// Remove deletes path according to policy.
func Remove(path string, policy RemovePolicy, opts ...Option) error {
	err := os.Remove(path)
	if err == nil {
		return nil
	}
	if policy == RemoveBestEffort {
		newOptions(opts).log.Warn("unable to remove file %s: %v", path, err)
		return nil
	}
	return errs.CreateStorageError("remove", path, ErrRemove, errors.WithStack(err))
}
