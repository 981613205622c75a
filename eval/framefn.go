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
	"sort"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// FrameFunc transforms the frame registered at origin into a workframe.
type FrameFunc func(ctx *EvalContext, origin int) (*Workframe, error)

// ColumnInfo describes one column to a predicate expression.
type ColumnInfo struct {
	Name  string `expr:"name"`
	SType string `expr:"stype"`
	Code  string `expr:"code"`
	LType string `expr:"ltype"`
	Index int    `expr:"index"`
	NRows int    `expr:"nrows"`
}

// FrameFunctionRegistry maps case-insensitive ids to frame functions
type FrameFunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]FrameFunc
}

// built-in predicates over ColumnInfo
var builtinPredicates = map[string]string{
	"numeric":  `ltype in ["bool", "int", "real"]`,
	"str":      `ltype == "str"`,
	"temporal": `ltype in ["time", "duration"]`,
}

var globalFrameFunctions = NewFrameFunctionRegistry()

// NewFrameFunctionRegistry returns a registry holding the built-ins:
// all, first, last, numeric, str and temporal.
func NewFrameFunctionRegistry() *FrameFunctionRegistry {
	r := &FrameFunctionRegistry{functions: make(map[string]FrameFunc)}
	_ = r.Register("all", selectAllFn)
	_ = r.Register("first", selectOneFn(func(n int) int { return 0 }))
	_ = r.Register("last", selectOneFn(func(n int) int { return n - 1 }))
	for id, expression := range builtinPredicates {
		if err := r.RegisterPredicate(id, expression); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds fn under id. An id can be registered once.
func (r *FrameFunctionRegistry) Register(id string, fn FrameFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id = strings.ToLower(id)
	if _, exists := r.functions[id]; exists {
		return fmt.Errorf("frame function %s already registered", id)
	}
	r.functions[id] = fn
	return nil
}

// Get returns the function registered under id
func (r *FrameFunctionRegistry) Get(id string) (FrameFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, exists := r.functions[strings.ToLower(id)]
	return fn, exists
}

// Unregister removes id and reports whether it was present
func (r *FrameFunctionRegistry) Unregister(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	id = strings.ToLower(id)
	if _, exists := r.functions[id]; !exists {
		return false
	}
	delete(r.functions, id)
	return true
}

// List returns the registered ids, sorted
func (r *FrameFunctionRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.functions))
	for id := range r.functions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RegisterPredicate registers a function selecting, in stored order, the
// columns for which expression is true. The expression sees the fields of
// ColumnInfo by their lower-case names.
func (r *FrameFunctionRegistry) RegisterPredicate(id, expression string) error {
	program, err := expr.Compile(expression, expr.Env(ColumnInfo{}), expr.AsBool())
	if err != nil {
		return fmt.Errorf("compile predicate %s: %w", id, err)
	}
	return r.Register(id, predicateFn(program))
}

func DefaultFrameFunctions() *FrameFunctionRegistry {
	return globalFrameFunctions
}

func RegisterFrameFunction(id string, fn FrameFunc) error {
	return globalFrameFunctions.Register(id, fn)
}

func RegisterPredicate(id, expression string) error {
	return globalFrameFunctions.RegisterPredicate(id, expression)
}

func UnregisterFrameFunction(id string) bool {
	return globalFrameFunctions.Unregister(id)
}

func selectAllFn(ctx *EvalContext, origin int) (*Workframe, error) {
	f := ctx.Frame(origin)
	wf := NewWorkframe(f.NCols())
	for i := 0; i < f.NCols(); i++ {
		wf.Add(f.Column(i), f.Name(i), origin)
	}
	return wf, nil
}

func selectOneFn(pick func(ncols int) int) FrameFunc {
	return func(ctx *EvalContext, origin int) (*Workframe, error) {
		f := ctx.Frame(origin)
		wf := NewWorkframe(1)
		if f.NCols() == 0 {
			return wf, nil
		}
		i := pick(f.NCols())
		wf.Add(f.Column(i), f.Name(i), origin)
		return wf, nil
	}
}

func predicateFn(program *vm.Program) FrameFunc {
	return func(ctx *EvalContext, origin int) (*Workframe, error) {
		f := ctx.Frame(origin)
		wf := NewWorkframe(f.NCols())
		for i := 0; i < f.NCols(); i++ {
			c := f.Column(i)
			info := ColumnInfo{
				Name:  f.Name(i),
				SType: c.SType().Info().Name,
				Code:  c.SType().Info().Code,
				LType: c.LType().String(),
				Index: i,
				NRows: c.NRows(),
			}
			out, err := expr.Run(program, info)
			if err != nil {
				return nil, fmt.Errorf("predicate on column %q: %w", info.Name, err)
			}
			if keep, _ := out.(bool); keep {
				wf.Add(c, info.Name, origin)
			}
		}
		return wf, nil
	}
}
