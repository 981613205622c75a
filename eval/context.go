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

	"github.com/rulego/colframe/config"
	"github.com/rulego/colframe/frame"
	"github.com/rulego/colframe/logger"
)

// Protocol selects which head entry point an evaluation uses
type Protocol int

const (
	// ProtocolNames the head selects columns by name/position
	ProtocolNames Protocol = iota
	// ProtocolExpr the head is an operand of a general expression
	ProtocolExpr
	// ProtocolFrameFn the head denotes a function of the primary frame
	ProtocolFrameFn
)

func (p Protocol) String() string {
	switch p {
	case ProtocolNames:
		return "names"
	case ProtocolExpr:
		return "expr"
	case ProtocolFrameFn:
		return "frame_fn"
	default:
		return fmt.Sprintf("protocol(%d)", int(p))
	}
}

type scopeFrame struct {
	frame  *frame.Frame
	scoped bool
}

// EvalContext is the state of one evaluation chain: the primary frame
// (origin 0), frames registered by heads during the chain, opaque
// group/join state and the workframes produced so far.
//
// An EvalContext serves one chain at a time and is not safe for concurrent use.
type EvalContext struct {
	frames    []scopeFrame
	groupBy   any
	join      any
	results   []*Workframe
	functions *FrameFunctionRegistry
	cfg       config.EvalConfig
	log       logger.Logger
}

// Option configures an EvalContext
type Option func(*EvalContext)

// WithGroupBy attaches grouping state. It is passed through untouched.
func WithGroupBy(state any) Option {
	return func(c *EvalContext) { c.groupBy = state }
}

// WithJoin attaches join state. It is passed through untouched.
func WithJoin(state any) Option {
	return func(c *EvalContext) { c.join = state }
}

func WithLogger(l logger.Logger) Option {
	return func(c *EvalContext) { c.log = l }
}

func WithConfig(cfg config.EvalConfig) Option {
	return func(c *EvalContext) { c.cfg = cfg }
}

// WithFunctions replaces the frame function registry (default: the global one).
func WithFunctions(r *FrameFunctionRegistry) Option {
	return func(c *EvalContext) { c.functions = r }
}

// NewEvalContext starts a chain over primary. A nil primary is treated as
// an empty frame.
func NewEvalContext(primary *frame.Frame, opts ...Option) *EvalContext {
	if primary == nil {
		primary = frame.MustNew(nil, nil)
	}
	c := &EvalContext{
		frames:    []scopeFrame{{frame: primary, scoped: true}},
		functions: DefaultFrameFunctions(),
		cfg:       config.DefaultEval(),
		log:       logger.GetDefault(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.Named("eval")
	return c
}

// Primary returns the frame at origin 0
func (c *EvalContext) Primary() *frame.Frame { return c.frames[0].frame }

// AddFrame registers f and returns its origin index. Registering the same
// frame again yields a new index. A scoped frame takes part in Lookup.
func (c *EvalContext) AddFrame(f *frame.Frame, scoped bool) int {
	c.frames = append(c.frames, scopeFrame{frame: f, scoped: scoped})
	idx := len(c.frames) - 1
	c.log.Debug("registered %s as origin %d (scoped=%v)", f, idx, scoped)
	return idx
}

// Frame returns the frame registered at origin index i
func (c *EvalContext) Frame(i int) *frame.Frame { return c.frames[i].frame }

// NFrames returns the number of registered frames, the primary included
func (c *EvalContext) NFrames() int { return len(c.frames) }

// Lookup resolves name against the primary frame, then against scoped
// frames in registration order.
func (c *EvalContext) Lookup(name string) (origin, col int, ok bool) {
	for i, sf := range c.frames {
		if !sf.scoped {
			continue
		}
		if j, found := sf.frame.ColIndex(name); found {
			return i, j, true
		}
	}
	return -1, -1, false
}

func (c *EvalContext) GroupBy() any { return c.groupBy }

func (c *EvalContext) Join() any { return c.join }

func (c *EvalContext) Config() config.EvalConfig { return c.cfg }

func (c *EvalContext) Functions() *FrameFunctionRegistry { return c.functions }

// Accumulate records a workframe produced in this chain
func (c *EvalContext) Accumulate(w *Workframe) {
	c.results = append(c.results, w)
}

// Workframes returns the workframes accumulated so far, in order
func (c *EvalContext) Workframes() []*Workframe {
	return append([]*Workframe(nil), c.results...)
}

// Reset begins a new independent chain: registered frames and accumulated
// workframes are dropped; primary and group/join state stay.
func (c *EvalContext) Reset() {
	c.frames = c.frames[:1]
	c.results = nil
}

// Run evaluates h with protocol p and accumulates the result. args.Function
// names the frame function for ProtocolFrameFn.
func (c *EvalContext) Run(h Head, p Protocol, args Args) (*Workframe, error) {
	var (
		wf  *Workframe
		err error
	)
	switch p {
	case ProtocolNames:
		wf, err = h.EvaluateN(args, c)
	case ProtocolExpr:
		wf, err = h.EvaluateJ(args, c)
	case ProtocolFrameFn:
		wf, err = h.EvaluateF(c, args.Function)
		if err == nil {
			wf.Rename(args.Rename)
		}
	default:
		return nil, fmt.Errorf("unknown evaluation protocol %d", int(p))
	}
	if err != nil {
		return nil, err
	}
	c.Accumulate(wf)
	return wf, nil
}
