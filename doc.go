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

/*
Package colframe is the evaluation core of a columnar data frame engine.

Columns are typed byte buffers; frames are named, equally long collections of
columns. Expression heads turn frames, matrices and labeled foreign tables
into workframes under one of three evaluation protocols.

# Packages

• stype - storage and logical type registry, sentinel patterns
• column - column buffers and builders
• materialize - per-row value extraction, dispatched by storage type
• frame - named column collections
• eval - expression heads, evaluation context, workframes, frame functions
• storage - file provider, memory mapping, column snapshots
• stats - column summaries
• config, logger, errs - configuration, logging and typed errors

# Getting started

Evaluate a frame by names, then by a frame function:

	package main

	import (
		"fmt"

		"github.com/rulego/colframe/column"
		"github.com/rulego/colframe/eval"
		"github.com/rulego/colframe/frame"
		"github.com/rulego/colframe/materialize"
		"github.com/rulego/colframe/stype"
	)

	func main() {
		ids, _ := column.FromValues(stype.Int32, []any{1, 2, nil}, nil)
		names, _ := column.FromValues(stype.Str32, []any{"a", "b", "c"}, nil)
		f := frame.MustNew([]string{"id", "name"}, []*column.Column{ids, names})

		ctx := eval.NewEvalContext(f)
		head, err := eval.Classify(f)
		if err != nil {
			panic(err)
		}
		wf, err := ctx.Run(head, eval.ProtocolFrameFn, eval.Args{Function: "numeric"})
		if err != nil {
			panic(err)
		}
		for i, c := range wf.Columns() {
			cells, _ := materialize.Column(c, -1)
			fmt.Println(wf.Names()[i], cells) // id [1 2 NA]
		}
	}

# Snapshots

A column is written to disk with storage.WriteColumn and read back with
storage.ReadColumn. Uncompressed snapshots are memory mapped on read; the
returned column releases the mapping on Close.

	_ = storage.WriteColumn("ids.col", ids, storage.WithCompression(true))
	c, err := storage.ReadColumn("ids.col")

# Frame functions

Custom frame functions select columns by an expression over column metadata:

	_ = eval.RegisterPredicate("wide", `stype in ["int64", "float64"]`)

# Logging

Components log through logger.Logger; the default writes to stderr at INFO.

	logger.SetDefault(logger.NewLogger(logger.DEBUG, os.Stderr))

The colframe command in cmd/colframe writes, prints and summarizes snapshot
files from the shell.
*/
package colframe
