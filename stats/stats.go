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

// Package stats computes per-column summary statistics through the
// materializer.
package stats

import (
	"fmt"
	"strings"

	hll "github.com/axiomhq/hyperloglog"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/rulego/colframe/column"
	"github.com/rulego/colframe/materialize"
	"github.com/rulego/colframe/stype"
)

// ColumnStats summarizes one column. Min, Max and Mean are set only for
// boolean, integer and real columns with at least one non-null row.
type ColumnStats struct {
	SType     stype.SType
	NRows     int
	NullCount int
	HasRange  bool
	Min       float64
	Max       float64
	Mean      float64
	// Distinct is the approximate number of distinct non-null values.
	Distinct uint64
}

func numeric(lt stype.LType) bool {
	return lt == stype.Boolean || lt == stype.Integer || lt == stype.Real
}

// Compute scans every row of c.
func Compute(c *column.Column) (*ColumnStats, error) {
	st := &ColumnStats{SType: c.SType(), NRows: c.NRows()}
	sk := hll.New()
	isDecimal := c.SType().Info().Family == stype.FamilyDecimal
	var (
		sum    float64
		decSum decimal.Decimal
		count  int
	)
	for row := 0; row < c.NRows(); row++ {
		v, err := materialize.Get(c, row)
		if err != nil {
			return nil, err
		}
		if v.IsNull() {
			st.NullCount++
			continue
		}
		sk.Insert([]byte(materialize.Format(v)))
		if !numeric(v.LType()) {
			continue
		}
		x := asFloat(v)
		if !st.HasRange {
			st.Min, st.Max, st.HasRange = x, x, true
		} else if x < st.Min {
			st.Min = x
		} else if x > st.Max {
			st.Max = x
		}
		count++
		if isDecimal {
			d, _, err := materialize.Decimal(c, row)
			if err != nil {
				return nil, err
			}
			decSum = decSum.Add(d)
		} else {
			sum += x
		}
	}
	if count > 0 {
		if isDecimal {
			st.Mean = decSum.Div(decimal.NewFromInt(int64(count))).InexactFloat64()
		} else {
			st.Mean = sum / float64(count)
		}
	}
	st.Distinct = sk.Estimate()
	return st, nil
}

func asFloat(v materialize.Value) float64 {
	if b, ok := v.Bool(); ok {
		if b {
			return 1
		}
		return 0
	}
	if i, ok := v.Int(); ok {
		return float64(i)
	}
	f, _ := v.Float()
	return f
}

func (s *ColumnStats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s rows, %s nulls, ~%s distinct",
		s.SType, humanize.Comma(int64(s.NRows)), humanize.Comma(int64(s.NullCount)), humanize.Comma(int64(s.Distinct)))
	if s.HasRange {
		fmt.Fprintf(&b, ", min %g, max %g, mean %g", s.Min, s.Max, s.Mean)
	}
	return b.String()
}
