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
Package eval turns values that denote whole tables into ordered columns.

A source value is first classified into a Head. The variants are tried in
a fixed priority order:

	TableRef        an existing *frame.Frame, or frame.Anonymous to drop names
	Matrix          [][]T rows, or a flat Dense buffer with strides
	ForeignLabeled  anything implementing Labeled, optionally Indexed

Classification never builds columns. A Head is then evaluated under one of
three protocols:

	EvaluateN  select the source's columns
	EvaluateJ  use the source as an expression operand; its row count must
	           match the primary frame and is checked before any column is built
	EvaluateF  ignore the source and apply a frame function to the primary frame

Every evaluation registers the frame it selects from in the EvalContext and
tags each Workframe entry with that origin index. Column order is always
the source's own order.

Frame functions live in a FrameFunctionRegistry. Besides all, first and
last, predicates written in expr-lang select columns by descriptor:

	eval.RegisterPredicate("wide", `stype in ["int64", "float64"]`)
*/
package eval
