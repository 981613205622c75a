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

// Package frame provides Frame, an ordered set of equally long named columns.
package frame

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tidwall/btree"

	"github.com/rulego/colframe/column"
	"github.com/rulego/colframe/errs"
)

// Frame is an existing tabular object: named columns in a fixed order.
// Names may repeat; lookups by name return the first position.
type Frame struct {
	id    uuid.UUID
	names []string
	cols  []*column.Column
	nrows int
	index btree.Map[string, []int]
}

// Anonymous marks a frame whose column names must be ignored by the
// evaluator, e.g. when its columns are appended as a nameless batch.
type Anonymous struct {
	Frame *Frame
}

// New builds a frame. names and cols must have the same length and every
// column the same row count.
func New(names []string, cols []*column.Column) (*Frame, error) {
	if len(names) != len(cols) {
		return nil, errs.CreateShapeError("frame", "%d names for %d columns", len(names), len(cols))
	}
	f := &Frame{
		id:    uuid.New(),
		names: append([]string(nil), names...),
		cols:  append([]*column.Column(nil), cols...),
	}
	for i, c := range cols {
		if c == nil {
			return nil, errs.CreateInvalidColumnError(names[i], "nil column at position %d", i)
		}
		if i == 0 {
			f.nrows = c.NRows()
		} else if c.NRows() != f.nrows {
			return nil, errs.CreateShapeError(names[i], "column has %d rows, frame has %d", c.NRows(), f.nrows)
		}
		pos, _ := f.index.Get(names[i])
		f.index.Set(names[i], append(pos, i))
	}
	return f, nil
}

// MustNew is New that panics on error; meant for tests and fixtures.
func MustNew(names []string, cols []*column.Column) *Frame {
	f, err := New(names, cols)
	if err != nil {
		panic(err)
	}
	return f
}

// ID returns the frame identity, unique per constructed frame.
func (f *Frame) ID() uuid.UUID { return f.id }

func (f *Frame) NRows() int { return f.nrows }

func (f *Frame) NCols() int { return len(f.cols) }

func (f *Frame) Name(i int) string { return f.names[i] }

func (f *Frame) Column(i int) *column.Column { return f.cols[i] }

// Names returns a copy of the column names in stored order.
func (f *Frame) Names() []string {
	return append([]string(nil), f.names...)
}

// Columns returns the columns in stored order. The slice is a copy, the
// columns are shared.
func (f *Frame) Columns() []*column.Column {
	return append([]*column.Column(nil), f.cols...)
}

// ColIndex returns the first position of name.
func (f *Frame) ColIndex(name string) (int, bool) {
	pos, ok := f.index.Get(name)
	if !ok {
		return -1, false
	}
	return pos[0], true
}

// Positions returns every position holding name, in stored order.
func (f *Frame) Positions(name string) []int {
	pos, _ := f.index.Get(name)
	return append([]int(nil), pos...)
}

// Anonymous wraps f so that its names are ignored on evaluation.
func (f *Frame) Anonymous() Anonymous {
	return Anonymous{Frame: f}
}

// Close releases externally backed columns.
func (f *Frame) Close() error {
	var first error
	for _, c := range f.cols {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (f *Frame) String() string {
	return fmt.Sprintf("Frame(%s, %d rows x %d cols)", f.id.String()[:8], f.nrows, len(f.cols))
}
