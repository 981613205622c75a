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
	"github.com/rulego/colframe/frame"
)

// TableRef wraps an existing frame. With ignoreNames the frame's columns
// are produced without names and the frame is not name-resolvable.
type TableRef struct {
	frame       *frame.Frame
	ignoreNames bool
}

func recognizeTable(src any, _ *classifyOptions) (Head, bool, error) {
	switch v := src.(type) {
	case *frame.Frame:
		if v == nil {
			return nil, false, nil
		}
		return &TableRef{frame: v}, true, nil
	case frame.Anonymous:
		if v.Frame == nil {
			return nil, false, nil
		}
		return &TableRef{frame: v.Frame, ignoreNames: true}, true, nil
	case *frame.Anonymous:
		if v == nil || v.Frame == nil {
			return nil, false, nil
		}
		return &TableRef{frame: v.Frame, ignoreNames: true}, true, nil
	}
	return nil, false, nil
}

func (t *TableRef) Kind() Kind { return KindTableRef }

func (t *TableRef) Frame() *frame.Frame { return t.frame }

func (t *TableRef) IgnoreNames() bool { return t.ignoreNames }

func (t *TableRef) EvaluateN(args Args, ctx *EvalContext) (*Workframe, error) {
	return selectAll(ctx, t.frame, false, t.ignoreNames, args), nil
}

func (t *TableRef) EvaluateJ(args Args, ctx *EvalContext) (*Workframe, error) {
	if err := checkPrimaryRows(ctx, "table", t.frame.NRows()); err != nil {
		return nil, err
	}
	return selectAll(ctx, t.frame, !t.ignoreNames, t.ignoreNames, args), nil
}

func (t *TableRef) EvaluateF(ctx *EvalContext, fnID string) (*Workframe, error) {
	return applyFrameFunction(ctx, fnID)
}

func (t *TableRef) sealed() {}
