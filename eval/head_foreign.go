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
	"github.com/rulego/colframe/frame"
	"github.com/rulego/colframe/stype"
)

// Labeled is a table from outside the engine: named columns of plain Go
// values.
type Labeled interface {
	ColumnNames() []string
	ColumnValues(i int) []any
}

// Indexed is implemented by labeled tables that carry a row index.
// A nil IndexValues means no index.
type Indexed interface {
	IndexName() string
	IndexValues() []any
}

// LabeledTable is a ready-made Labeled and Indexed value.
type LabeledTable struct {
	Names      []string
	Values     [][]any
	IndexLabel string
	Index      []any
}

func (t *LabeledTable) ColumnNames() []string { return t.Names }

func (t *LabeledTable) ColumnValues(i int) []any { return t.Values[i] }

func (t *LabeledTable) IndexName() string { return t.IndexLabel }

func (t *LabeledTable) IndexValues() []any { return t.Index }

// ForeignLabeled wraps a Labeled source with the index policy chosen at
// classification.
type ForeignLabeled struct {
	src    Labeled
	policy IndexPolicy
}

func recognizeLabeled(src any, o *classifyOptions) (Head, bool, error) {
	l, ok := src.(Labeled)
	if !ok {
		return nil, false, nil
	}
	return &ForeignLabeled{src: l, policy: o.indexPolicy}, true, nil
}

func (h *ForeignLabeled) Kind() Kind { return KindForeignLabeled }

func (h *ForeignLabeled) Policy() IndexPolicy { return h.policy }

type labeledData struct {
	names  []string
	values [][]any
	nrows  int
}

// collect gathers names and values, the index first when demoted, and
// checks that every column has the same length. No column is built.
func (h *ForeignLabeled) collect(indexColumnName string) (*labeledData, error) {
	d := &labeledData{nrows: -1}
	if ix, ok := h.src.(Indexed); ok && h.policy == IndexDemote {
		if vals := ix.IndexValues(); vals != nil {
			name := ix.IndexName()
			if name == "" {
				name = indexColumnName
			}
			d.names = append(d.names, name)
			d.values = append(d.values, vals)
		}
	}
	names := h.src.ColumnNames()
	if t, ok := h.src.(*LabeledTable); ok && len(t.Values) != len(names) {
		return nil, errs.CreateShapeError("foreign", "%d column names for %d value columns", len(names), len(t.Values))
	}
	for i, name := range names {
		vals, err := columnValues(h.src, i, name)
		if err != nil {
			return nil, err
		}
		d.names = append(d.names, name)
		d.values = append(d.values, vals)
	}
	for i, vals := range d.values {
		if d.nrows < 0 {
			d.nrows = len(vals)
		} else if len(vals) != d.nrows {
			return nil, errs.CreateShapeError(d.names[i], "column has %d values, expected %d", len(vals), d.nrows)
		}
	}
	if d.nrows < 0 {
		d.nrows = 0
	}
	return d, nil
}

// columnValues reads column i of a foreign table. A source that names more
// columns than it holds panics in ColumnValues; that becomes a shape error.
func columnValues(src Labeled, i int, name string) (vals []any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errs.CreateShapeError(name, "column %d has no values: %v", i, r)
		}
	}()
	return src.ColumnValues(i), nil
}

func (d *labeledData) toFrame() (*frame.Frame, error) {
	cols := make([]*column.Column, len(d.values))
	for i, vals := range d.values {
		var err error
		if cols[i], err = buildInferred(stype.Void, vals); err != nil {
			return nil, err
		}
	}
	return frame.New(d.names, cols)
}

func (h *ForeignLabeled) EvaluateN(args Args, ctx *EvalContext) (*Workframe, error) {
	d, err := h.collect(ctx.Config().IndexColumnName)
	if err != nil {
		return nil, err
	}
	f, err := d.toFrame()
	if err != nil {
		return nil, err
	}
	return selectAll(ctx, f, false, false, args), nil
}

func (h *ForeignLabeled) EvaluateJ(args Args, ctx *EvalContext) (*Workframe, error) {
	d, err := h.collect(ctx.Config().IndexColumnName)
	if err != nil {
		return nil, err
	}
	if err := checkPrimaryRows(ctx, "foreign", d.nrows); err != nil {
		return nil, err
	}
	f, err := d.toFrame()
	if err != nil {
		return nil, err
	}
	return selectAll(ctx, f, true, false, args), nil
}

func (h *ForeignLabeled) EvaluateF(ctx *EvalContext, fnID string) (*Workframe, error) {
	return applyFrameFunction(ctx, fnID)
}

func (h *ForeignLabeled) sealed() {}
