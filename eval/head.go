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
	"strings"

	"github.com/rulego/colframe/column"
	"github.com/rulego/colframe/config"
	"github.com/rulego/colframe/errs"
	"github.com/rulego/colframe/frame"
	"github.com/rulego/colframe/stype"
)

// Kind identifies a head variant
type Kind int

const (
	KindTableRef Kind = iota
	KindMatrix
	KindForeignLabeled
)

func (k Kind) String() string {
	switch k {
	case KindTableRef:
		return "table"
	case KindMatrix:
		return "matrix"
	case KindForeignLabeled:
		return "foreign"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Args are the arguments shared by all evaluation entry points.
type Args struct {
	// Rename maps produced names to new ones; unmapped names are kept.
	Rename map[string]string
	// Function is the frame function id used by ProtocolFrameFn.
	Function string
}

// Head is the classified form of a value that denotes a whole tabular
// source. The set of variants is closed: TableRef, Matrix, ForeignLabeled.
type Head interface {
	Kind() Kind
	// EvaluateN selects the source's columns.
	EvaluateN(args Args, ctx *EvalContext) (*Workframe, error)
	// EvaluateJ uses the source as an expression operand; its row count
	// must match the primary frame.
	EvaluateJ(args Args, ctx *EvalContext) (*Workframe, error)
	// EvaluateF applies frame function fnID to the primary frame.
	EvaluateF(ctx *EvalContext, fnID string) (*Workframe, error)

	sealed()
}

// IndexPolicy tells a foreign labeled head what to do with a row index
type IndexPolicy int

const (
	// IndexDemote turns the index into the first column
	IndexDemote IndexPolicy = iota
	// IndexDrop discards the index
	IndexDrop
)

// ParseIndexPolicy accepts "drop" and "demote" (case-insensitive).
func ParseIndexPolicy(s string) (IndexPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "demote":
		return IndexDemote, nil
	case "drop":
		return IndexDrop, nil
	default:
		return IndexDemote, fmt.Errorf("invalid index policy %q", s)
	}
}

type classifyOptions struct {
	indexPolicy IndexPolicy
}

// ClassifyOption configures Classify
type ClassifyOption func(*classifyOptions)

func WithIndexPolicy(p IndexPolicy) ClassifyOption {
	return func(o *classifyOptions) { o.indexPolicy = p }
}

// UsingConfig takes classification settings from an eval config section.
// An invalid policy string leaves the default.
func UsingConfig(cfg config.EvalConfig) ClassifyOption {
	return func(o *classifyOptions) {
		if p, err := ParseIndexPolicy(cfg.IndexPolicy); err == nil {
			o.indexPolicy = p
		}
	}
}

// recognizer reports whether src belongs to its variant. A recognized but
// unusable source returns an error.
type recognizer func(src any, o *classifyOptions) (Head, bool, error)

// recognizers in priority order
var recognizers = []recognizer{
	recognizeTable,
	recognizeMatrix,
	recognizeLabeled,
}

// Classify wraps src in the first head variant that recognizes it.
// Classification does not build any column.
func Classify(src any, opts ...ClassifyOption) (Head, error) {
	o := &classifyOptions{indexPolicy: IndexDemote}
	for _, opt := range opts {
		opt(o)
	}
	for _, rec := range recognizers {
		h, ok, err := rec(src, o)
		if err != nil {
			return nil, err
		}
		if ok {
			return h, nil
		}
	}
	return nil, errs.CreateClassificationError(src)
}

// buildColumn is the single place heads fabricate columns.
var buildColumn = column.FromValues

// buildInferred builds one synthesized column. A Void st is replaced by the
// type inferred from values; object columns keep their own copy of values.
func buildInferred(st stype.SType, values []any) (*column.Column, error) {
	if st == stype.Void {
		st = column.InferSType(values)
	}
	if st == stype.Object {
		values = append([]any(nil), values...)
	}
	return buildColumn(st, values, nil)
}

// selectAll registers f in ctx and returns its columns in stored order.
func selectAll(ctx *EvalContext, f *frame.Frame, scoped, ignoreNames bool, args Args) *Workframe {
	origin := ctx.AddFrame(f, scoped)
	wf := NewWorkframe(f.NCols())
	for i := 0; i < f.NCols(); i++ {
		name := f.Name(i)
		if ignoreNames {
			name = ""
		}
		wf.Add(f.Column(i), name, origin)
	}
	wf.Rename(args.Rename)
	return wf
}

func checkPrimaryRows(ctx *EvalContext, source string, nrows int) error {
	if want := ctx.Primary().NRows(); nrows != want {
		return errs.CreateShapeError(source, "source has %d rows, primary frame has %d", nrows, want)
	}
	return nil
}

// applyFrameFunction is the shared EvaluateF: wrapped data is ignored and
// the function sees the primary frame at origin 0.
func applyFrameFunction(ctx *EvalContext, fnID string) (*Workframe, error) {
	fn, ok := ctx.Functions().Get(fnID)
	if !ok {
		return nil, errs.CreateUnknownFunctionError(fnID)
	}
	return fn(ctx, 0)
}
