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

package eval

import (
	"github.com/rulego/colframe/column"
	"github.com/rulego/colframe/errs"
)

// Entry is one selected column: the column itself, its display name and the
// origin index of the frame it came from.
type Entry struct {
	Column *column.Column
	Name   string
	Frame  int
}

// Workframe is the ordered output of evaluating a head. Order is selection
// order; names may repeat and are told apart by Frame.
type Workframe struct {
	entries []Entry
}

func NewWorkframe(capacity int) *Workframe {
	return &Workframe{entries: make([]Entry, 0, capacity)}
}

// Add appends a column. The column is shared, not copied.
func (w *Workframe) Add(col *column.Column, name string, frame int) {
	w.entries = append(w.entries, Entry{Column: col, Name: name, Frame: frame})
}

// Append adds every entry of other after the entries of w.
func (w *Workframe) Append(other *Workframe) {
	w.entries = append(w.entries, other.entries...)
}

func (w *Workframe) Len() int { return len(w.entries) }

func (w *Workframe) Entry(i int) Entry { return w.entries[i] }

// Entries returns a copy of the entries in order
func (w *Workframe) Entries() []Entry {
	return append([]Entry(nil), w.entries...)
}

func (w *Workframe) Names() []string {
	out := make([]string, len(w.entries))
	for i, e := range w.entries {
		out[i] = e.Name
	}
	return out
}

func (w *Workframe) Columns() []*column.Column {
	out := make([]*column.Column, len(w.entries))
	for i, e := range w.entries {
		out[i] = e.Column
	}
	return out
}

// NRows returns the common row count, 0 for an empty workframe. Columns of
// different lengths are a shape error.
func (w *Workframe) NRows() (int, error) {
	if len(w.entries) == 0 {
		return 0, nil
	}
	n := w.entries[0].Column.NRows()
	for _, e := range w.entries[1:] {
		if e.Column.NRows() != n {
			return 0, errs.CreateShapeError(e.Name, "column has %d rows, workframe has %d", e.Column.NRows(), n)
		}
	}
	return n, nil
}

// Find returns the position of the first entry called name. frame < 0
// matches any origin.
func (w *Workframe) Find(name string, frame int) (int, bool) {
	for i, e := range w.entries {
		if e.Name == name && (frame < 0 || e.Frame == frame) {
			return i, true
		}
	}
	return -1, false
}

// Rename replaces names found in mapping. Names absent from mapping are kept.
func (w *Workframe) Rename(mapping map[string]string) {
	if len(mapping) == 0 {
		return
	}
	for i := range w.entries {
		if to, ok := mapping[w.entries[i].Name]; ok {
			w.entries[i].Name = to
		}
	}
}
