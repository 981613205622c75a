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
	"fmt"
	"math"
	"reflect"

	"github.com/rulego/colframe/column"
	"github.com/rulego/colframe/errs"
	"github.com/rulego/colframe/frame"
	"github.com/rulego/colframe/stype"
	"github.com/rulego/colframe/utils/reflectutil"
)

// Layout is the memory order of a flat matrix buffer
type Layout int

const (
	RowMajor Layout = iota
	ColMajor
)

func (l Layout) String() string {
	if l == ColMajor {
		return "col-major"
	}
	return "row-major"
}

// Dense is a flat matrix buffer. Strides are in elements; both zero means
// packed row-major.
type Dense struct {
	Data      any
	Rows      int
	Cols      int
	RowStride int
	ColStride int
}

// Matrix wraps a two-dimensional homogeneous array: either a slice of row
// slices or a Dense buffer. Columns are named prefix+index on evaluation.
type Matrix struct {
	data       reflect.Value
	nested     bool
	rows, cols int
	layout     Layout
	rowStride  int
	colStride  int
	elem       stype.SType // Void: infer per column
}

func recognizeMatrix(src any, _ *classifyOptions) (Head, bool, error) {
	switch d := src.(type) {
	case *Dense:
		if d == nil {
			return nil, false, nil
		}
		m, err := newDenseMatrix(*d)
		return m, true, err
	case Dense:
		m, err := newDenseMatrix(d)
		return m, true, err
	}
	v, ok := reflectutil.SliceValue(src)
	if !ok || !reflectutil.IsNestedSlice(v) {
		return nil, false, nil
	}
	m := &Matrix{
		data:   v,
		nested: true,
		rows:   v.Len(),
		layout: RowMajor,
		elem:   elemSType(v.Type().Elem().Elem()),
	}
	if m.rows > 0 {
		m.cols = v.Index(0).Len()
	}
	return m, true, nil
}

func newDenseMatrix(d Dense) (*Matrix, error) {
	v, ok := reflectutil.SliceValue(d.Data)
	if !ok {
		return nil, errs.CreateShapeError("matrix", "dense data must be a slice, got %T", d.Data)
	}
	if d.Rows < 0 || d.Cols < 0 {
		return nil, errs.CreateShapeError("matrix", "negative dimensions %dx%d", d.Rows, d.Cols)
	}
	m := &Matrix{
		data: v,
		rows: d.Rows,
		cols: d.Cols,
		elem: elemSType(v.Type().Elem()),
	}
	rs, cs := d.RowStride, d.ColStride
	switch {
	case rs == 0 && cs == 0:
		m.layout, m.rowStride, m.colStride = RowMajor, d.Cols, 1
	case cs == 1 && rs == d.Cols:
		m.layout, m.rowStride, m.colStride = RowMajor, rs, cs
	case rs == 1 && cs == d.Rows:
		m.layout, m.rowStride, m.colStride = ColMajor, rs, cs
	default:
		return nil, errs.CreateShapeError("matrix", "unsupported strides (%d, %d) for %dx%d", rs, cs, d.Rows, d.Cols)
	}
	if d.Cols > 0 && d.Rows > math.MaxInt/d.Cols {
		return nil, errs.CreateShapeError("matrix", "%dx%d elements overflow", d.Rows, d.Cols)
	}
	if need := d.Rows * d.Cols; v.Len() < need {
		return nil, errs.CreateShapeError("matrix", "dense data has %d elements, %dx%d needs %d", v.Len(), d.Rows, d.Cols, need)
	}
	return m, nil
}

// elemSType maps a Go element type to a column type. Interface elements
// are inferred per column from the values.
func elemSType(t reflect.Type) stype.SType {
	switch t.Kind() {
	case reflect.Bool:
		return stype.Bool8
	case reflect.Int8:
		return stype.Int8
	case reflect.Int16, reflect.Uint8:
		return stype.Int16
	case reflect.Int32, reflect.Uint16:
		return stype.Int32
	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint32, reflect.Uint64:
		return stype.Int64
	case reflect.Float32:
		return stype.Float32
	case reflect.Float64:
		return stype.Float64
	case reflect.String:
		return stype.Str32
	case reflect.Interface:
		return stype.Void
	default:
		return stype.Object
	}
}

func (m *Matrix) Kind() Kind { return KindMatrix }

// Shape returns rows and columns
func (m *Matrix) Shape() (int, int) { return m.rows, m.cols }

func (m *Matrix) Layout() Layout { return m.layout }

func (m *Matrix) at(i, j int) (any, error) {
	if !m.nested {
		return m.data.Index(i*m.rowStride + j*m.colStride).Interface(), nil
	}
	row, err := reflectutil.SafeIndex(m.data, i)
	if err != nil {
		return nil, errs.CreateShapeError("matrix", "row %d: %v", i, err)
	}
	elem, err := reflectutil.SafeIndex(row, j)
	if err != nil {
		return nil, errs.CreateShapeError("matrix", "row %d: %v", i, err)
	}
	return elem.Interface(), nil
}

// checkRagged verifies every nested row has the same length
func (m *Matrix) checkRagged() error {
	if !m.nested {
		return nil
	}
	for i := 0; i < m.rows; i++ {
		if n := m.data.Index(i).Len(); n != m.cols {
			return errs.CreateShapeError("matrix", "row %d has %d elements, expected %d", i, n, m.cols)
		}
	}
	return nil
}

func (m *Matrix) toFrame(prefix string) (*frame.Frame, error) {
	names := make([]string, m.cols)
	cols := make([]*column.Column, m.cols)
	values := make([]any, m.rows)
	for j := 0; j < m.cols; j++ {
		for i := 0; i < m.rows; i++ {
			v, err := m.at(i, j)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		names[j] = fmt.Sprintf("%s%d", prefix, j)
		var err error
		if cols[j], err = buildInferred(m.elem, values); err != nil {
			return nil, err
		}
	}
	return frame.New(names, cols)
}

func (m *Matrix) EvaluateN(args Args, ctx *EvalContext) (*Workframe, error) {
	if err := m.checkRagged(); err != nil {
		return nil, err
	}
	f, err := m.toFrame(ctx.Config().MatrixColumnPrefix)
	if err != nil {
		return nil, err
	}
	return selectAll(ctx, f, false, false, args), nil
}

func (m *Matrix) EvaluateJ(args Args, ctx *EvalContext) (*Workframe, error) {
	if err := m.checkRagged(); err != nil {
		return nil, err
	}
	if err := checkPrimaryRows(ctx, "matrix", m.rows); err != nil {
		return nil, err
	}
	f, err := m.toFrame(ctx.Config().MatrixColumnPrefix)
	if err != nil {
		return nil, err
	}
	return selectAll(ctx, f, true, false, args), nil
}

func (m *Matrix) EvaluateF(ctx *EvalContext, fnID string) (*Workframe, error) {
	return applyFrameFunction(ctx, fnID)
}

func (m *Matrix) sealed() {}
