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
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/colframe/column"
	"github.com/rulego/colframe/errs"
	"github.com/rulego/colframe/frame"
	"github.com/rulego/colframe/logger"
	"github.com/rulego/colframe/stype"
)

func TestEvalContextDefaults(t *testing.T) {
	ctx := NewEvalContext(nil)
	require.NotNil(t, ctx.Primary())
	assert.Equal(t, 0, ctx.Primary().NCols())
	assert.Equal(t, 1, ctx.NFrames())
	assert.Same(t, DefaultFrameFunctions(), ctx.Functions())
	assert.Equal(t, "C", ctx.Config().MatrixColumnPrefix)
	assert.Nil(t, ctx.GroupBy())
	assert.Nil(t, ctx.Join())
}

func TestEvalContextLookupOrder(t *testing.T) {
	primary := frame.MustNew([]string{"a", "k"}, []*column.Column{
		mustCol(t, stype.Int64, 1),
		mustCol(t, stype.Int64, 2),
	})
	joined := frame.MustNew([]string{"k", "z"}, []*column.Column{
		mustCol(t, stype.Int64, 3),
		mustCol(t, stype.Int64, 4),
	})
	ctx := newCtx(primary)
	hidden := ctx.AddFrame(joined, false)
	assert.Equal(t, 1, hidden)
	_, _, ok := ctx.Lookup("z")
	assert.False(t, ok)

	scoped := ctx.AddFrame(joined, true)
	assert.Equal(t, 2, scoped)

	origin, col, ok := ctx.Lookup("k")
	require.True(t, ok)
	assert.Equal(t, 0, origin, "primary wins")
	assert.Equal(t, 1, col)

	origin, col, ok = ctx.Lookup("z")
	require.True(t, ok)
	assert.Equal(t, 2, origin)
	assert.Equal(t, 1, col)

	_, _, ok = ctx.Lookup("missing")
	assert.False(t, ok)
}

func TestEvalContextRunAndReset(t *testing.T) {
	type groupState struct{ keys []string }
	gs := &groupState{keys: []string{"a"}}
	primary := abcFrame(t, 2)
	ctx := newCtx(primary, WithGroupBy(gs), WithJoin("join"))

	h, err := Classify(primary)
	require.NoError(t, err)

	wf, err := ctx.Run(h, ProtocolNames, Args{Rename: map[string]string{"b": "bee"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "bee", "c"}, wf.Names())

	wf, err = ctx.Run(h, ProtocolFrameFn, Args{Function: "LAST", Rename: map[string]string{"c": "sea"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"sea"}, wf.Names())
	assert.Equal(t, "c", primary.Name(2), "renaming leaves the frame alone")

	require.Len(t, ctx.Workframes(), 2)
	assert.Equal(t, 2, ctx.NFrames())

	_, err = ctx.Run(h, Protocol(9), Args{})
	assert.Error(t, err)

	ctx.Reset()
	assert.Empty(t, ctx.Workframes())
	assert.Equal(t, 1, ctx.NFrames())
	assert.Same(t, primary, ctx.Primary())
	assert.Same(t, gs, ctx.GroupBy())
	assert.Equal(t, "join", ctx.Join())
}

func TestEvalContextLogsRegistration(t *testing.T) {
	var buf bytes.Buffer
	ctx := NewEvalContext(nil, WithLogger(logger.NewLogger(logger.DEBUG, &buf)))
	ctx.AddFrame(abcFrame(t, 1), true)
	assert.Contains(t, buf.String(), "[eval] registered Frame(")
	assert.Contains(t, buf.String(), "as origin 1 (scoped=true)")
}

func TestProtocolString(t *testing.T) {
	assert.Equal(t, "names", ProtocolNames.String())
	assert.Equal(t, "expr", ProtocolExpr.String())
	assert.Equal(t, "frame_fn", ProtocolFrameFn.String())
	assert.Equal(t, "protocol(7)", Protocol(7).String())
	assert.Equal(t, "matrix", KindMatrix.String())
}

func TestWorkframe(t *testing.T) {
	c2 := mustCol(t, stype.Int64, 1, 2)
	c3 := mustCol(t, stype.Int64, 1, 2, 3)

	wf := NewWorkframe(0)
	n, err := wf.NRows()
	require.NoError(t, err)
	assert.Zero(t, n)

	wf.Add(c2, "x", 0)
	wf.Add(c2, "x", 1)
	other := NewWorkframe(1)
	other.Add(c2, "y", 1)
	wf.Append(other)

	assert.Equal(t, 3, wf.Len())
	assert.Equal(t, []string{"x", "x", "y"}, wf.Names())
	assert.Equal(t, []*column.Column{c2, c2, c2}, wf.Columns())
	n, err = wf.NRows()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	i, ok := wf.Find("x", 1)
	require.True(t, ok)
	assert.Equal(t, 1, i)
	i, ok = wf.Find("x", -1)
	require.True(t, ok)
	assert.Equal(t, 0, i)
	_, ok = wf.Find("y", 0)
	assert.False(t, ok)

	entries := wf.Entries()
	entries[0].Name = "changed"
	assert.Equal(t, "x", wf.Entry(0).Name, "Entries returns a copy")

	wf.Rename(map[string]string{"x": "x1", "nope": "z"})
	assert.Equal(t, []string{"x1", "x1", "y"}, wf.Names())

	wf.Add(c3, "long", 2)
	_, err = wf.NRows()
	assert.True(t, errs.Is(err, errs.ErrorTypeShape))
}

func TestFrameFunctions(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	primary := frame.MustNew(
		[]string{"id", "name", "score", "when", "ok"},
		[]*column.Column{
			mustCol(t, stype.Int64, 1, 2),
			mustCol(t, stype.Str32, "a", "b"),
			mustCol(t, stype.Float64, 0.5, 1.5),
			mustCol(t, stype.DateEpoch64, ts, ts),
			mustCol(t, stype.Bool8, true, false),
		},
	)
	ctx := newCtx(primary)

	tests := []struct {
		id   string
		want []string
	}{
		{"all", []string{"id", "name", "score", "when", "ok"}},
		{"first", []string{"id"}},
		{"last", []string{"ok"}},
		{"numeric", []string{"id", "score", "ok"}},
		{"str", []string{"name"}},
		{"temporal", []string{"when"}},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			h, err := Classify(primary)
			require.NoError(t, err)
			wf, err := h.EvaluateF(ctx, tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, wf.Names())
			for _, e := range wf.Entries() {
				assert.Equal(t, 0, e.Frame)
			}
		})
	}

	empty := newCtx(nil)
	h, err := Classify(primary)
	require.NoError(t, err)
	wf, err := h.EvaluateF(empty, "first")
	require.NoError(t, err)
	assert.Zero(t, wf.Len())
}

func TestFrameFunctionRegistry(t *testing.T) {
	r := NewFrameFunctionRegistry()
	assert.Equal(t, []string{"all", "first", "last", "numeric", "str", "temporal"}, r.List())

	assert.Error(t, r.Register("ALL", selectAllFn), "ids are case-insensitive")
	require.NoError(t, r.RegisterPredicate("Wide", `stype in ["int64", "float64"] && index > 0`))
	assert.Error(t, r.RegisterPredicate("bad", `ltype +`))
	assert.Error(t, r.RegisterPredicate("notbool", `index`))

	primary := frame.MustNew(
		[]string{"a", "b", "c"},
		[]*column.Column{
			mustCol(t, stype.Int64, 1),
			mustCol(t, stype.Float64, 1),
			mustCol(t, stype.Int32, 1),
		},
	)
	ctx := newCtx(primary, WithFunctions(r))
	h, err := Classify(primary)
	require.NoError(t, err)
	wf, err := h.EvaluateF(ctx, "wide")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, wf.Names())

	assert.True(t, r.Unregister("WIDE"))
	assert.False(t, r.Unregister("wide"))
	_, err = h.EvaluateF(ctx, "wide")
	assert.True(t, errs.Is(err, errs.ErrorTypeUnknownFunction))

	_, ok := DefaultFrameFunctions().Get("wide")
	assert.False(t, ok, "local registrations stay local")
}

func TestGlobalFrameFunctions(t *testing.T) {
	require.NoError(t, RegisterPredicate("named_x", `name startsWith "x"`))
	defer UnregisterFrameFunction("named_x")
	require.NoError(t, RegisterFrameFunction("none", func(ctx *EvalContext, origin int) (*Workframe, error) {
		return NewWorkframe(0), nil
	}))
	defer UnregisterFrameFunction("none")

	primary := frame.MustNew([]string{"xa", "b", "xc"}, []*column.Column{
		mustCol(t, stype.Int64, 1),
		mustCol(t, stype.Int64, 1),
		mustCol(t, stype.Int64, 1),
	})
	ctx := newCtx(primary)
	h, err := Classify(primary)
	require.NoError(t, err)

	wf, err := ctx.Run(h, ProtocolFrameFn, Args{Function: "named_x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"xa", "xc"}, wf.Names())

	wf, err = ctx.Run(h, ProtocolFrameFn, Args{Function: "none"})
	require.NoError(t, err)
	assert.Zero(t, wf.Len())
}
