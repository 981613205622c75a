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

package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rulego/colframe/column"
	"github.com/rulego/colframe/config"
	"github.com/rulego/colframe/eval"
	"github.com/rulego/colframe/frame"
	"github.com/rulego/colframe/logger"
	"github.com/rulego/colframe/materialize"
	"github.com/rulego/colframe/stats"
	"github.com/rulego/colframe/storage"
	"github.com/rulego/colframe/stype"
	"github.com/rulego/colframe/utils/table"
)

// Action holds the state shared by one command invocation.
type Action struct {
	cmd *cobra.Command
	cfg config.Config
	log logger.Logger
	out io.Writer
}

func newAction(cmd *cobra.Command) (*Action, error) {
	cfg := config.Default()
	if path := getString(cmd, "config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if level := getString(cmd, "log-level"); level != "" {
		cfg.Log.Level = level
	}
	log, err := cfg.NewLogger()
	if err != nil {
		return nil, err
	}
	return &Action{cmd: cmd, cfg: cfg, log: log, out: cmd.OutOrStdout()}, nil
}

func (a *Action) storageOptions() []storage.Option {
	return append(storage.ConfigOptions(a.cfg.Storage), storage.WithLogger(a.log))
}

func getString(cmd *cobra.Command, name string) string {
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(err) // unknown flag name
	}
	return value
}

func getInt(cmd *cobra.Command, name string) int {
	value, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic(err)
	}
	return value
}

func parseSType(s string) (stype.SType, error) {
	if st, ok := stype.ParseName(strings.ToLower(s)); ok {
		return st, nil
	}
	if st, ok := stype.ParseCode(s); ok {
		return st, nil
	}
	return 0, errors.Errorf("unknown storage type %q", s)
}

func listSTypes(cmd *cobra.Command, _ []string) error {
	a, err := newAction(cmd)
	if err != nil {
		return err
	}
	headers := []string{"code", "name", "width", "family", "ltype", "sentinel"}
	var rows [][]string
	for _, st := range stype.All() {
		info := st.Info()
		width := strconv.Itoa(info.Width)
		if info.VarWidth {
			width += "+"
		}
		na := "-"
		if info.Sentinel.Present {
			na = fmt.Sprintf("%#x", info.Sentinel.Bits)
		}
		rows = append(rows, []string{info.Code, info.Name, width, info.Family.String(), info.LType.String(), na})
	}
	table.Render(a.out, headers, rows)
	return nil
}

func listFunctions(cmd *cobra.Command, _ []string) error {
	a, err := newAction(cmd)
	if err != nil {
		return err
	}
	for _, id := range eval.DefaultFrameFunctions().List() {
		fmt.Fprintln(a.out, id)
	}
	return nil
}

func putColumn(cmd *cobra.Command, args []string) error {
	a, err := newAction(cmd)
	if err != nil {
		return err
	}
	st, err := parseSType(getString(cmd, "stype"))
	if err != nil {
		return err
	}
	col, err := buildFromArgs(st, args[1:], getString(cmd, "na"), getInt(cmd, "scale"))
	if err != nil {
		return err
	}
	path := args[0]
	if err := storage.WriteColumn(path, col, a.storageOptions()...); err != nil {
		return err
	}
	size, err := storage.SizeOf(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "wrote %s rows of %s to %s (%s)\n",
		humanize.Comma(int64(col.NRows())), st.Info().Name, path, humanize.Bytes(uint64(size)))
	return nil
}

// buildFromArgs encodes command line tokens; na marks a missing value.
func buildFromArgs(st stype.SType, tokens []string, na string, scale int) (*column.Column, error) {
	info := st.Info()
	if info.Family == stype.FamilyVarString {
		strs := make([]*string, len(tokens))
		for i := range tokens {
			if tokens[i] != na {
				strs[i] = &tokens[i]
			}
		}
		return column.FromStrings(st, strs)
	}
	values := make([]any, len(tokens))
	for i, tok := range tokens {
		if tok == na {
			continue
		}
		values[i] = tok
		if info.Family == stype.FamilyDecimal {
			d, err := decimal.NewFromString(tok)
			if err != nil {
				return nil, errors.Wrapf(err, "row %d", i)
			}
			values[i] = d
		}
	}
	var meta column.Meta
	if info.Family == stype.FamilyDecimal {
		meta = column.DecimalMeta{Scale: scale}
	}
	return column.FromValues(st, values, meta)
}

// loadFrame reads each snapshot as a column named after its file.
func (a *Action) loadFrame(paths []string) (*frame.Frame, error) {
	names := make([]string, 0, len(paths))
	cols := make([]*column.Column, 0, len(paths))
	closeAll := func() {
		for _, c := range cols {
			_ = c.Close()
		}
	}
	for _, path := range paths {
		c, err := storage.ReadColumn(path, a.storageOptions()...)
		if err != nil {
			closeAll()
			return nil, err
		}
		base := filepath.Base(path)
		names = append(names, strings.TrimSuffix(base, filepath.Ext(base)))
		cols = append(cols, c)
	}
	f, err := frame.New(names, cols)
	if err != nil {
		closeAll()
		return nil, err
	}
	return f, nil
}

func catColumns(cmd *cobra.Command, args []string) error {
	a, err := newAction(cmd)
	if err != nil {
		return err
	}
	f, err := a.loadFrame(args)
	if err != nil {
		return err
	}
	defer f.Close()

	ctx := eval.NewEvalContext(f, eval.WithLogger(a.log), eval.WithConfig(a.cfg.Eval))
	head, err := eval.Classify(f, eval.UsingConfig(a.cfg.Eval))
	if err != nil {
		return err
	}
	protocol, evalArgs := eval.ProtocolNames, eval.Args{}
	if fn := getString(cmd, "fn"); fn != "" {
		protocol, evalArgs.Function = eval.ProtocolFrameFn, fn
	}
	wf, err := ctx.Run(head, protocol, evalArgs)
	if err != nil {
		return err
	}

	limit := getInt(cmd, "limit")
	columns := make([][]string, 0, wf.Len())
	for _, c := range wf.Columns() {
		cells, err := materialize.Column(c, limit)
		if err != nil {
			return err
		}
		columns = append(columns, cells)
	}
	table.Render(a.out, wf.Names(), table.FromColumns(columns))
	return nil
}

func columnStats(cmd *cobra.Command, args []string) error {
	a, err := newAction(cmd)
	if err != nil {
		return err
	}
	headers := []string{"file", "stype", "rows", "nulls", "distinct", "min", "max", "mean", "size"}
	var rows [][]string
	for _, path := range args {
		row, err := a.statsRow(path)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}
	table.Render(a.out, headers, rows)
	return nil
}

func (a *Action) statsRow(path string) ([]string, error) {
	c, err := storage.ReadColumn(path, a.storageOptions()...)
	if err != nil {
		return nil, err
	}
	defer c.Close()
	s, err := stats.Compute(c)
	if err != nil {
		return nil, errors.Wrapf(err, "stats %s", path)
	}
	size, err := storage.SizeOf(path)
	if err != nil {
		return nil, err
	}
	minV, maxV, mean := "-", "-", "-"
	if s.HasRange {
		minV = strconv.FormatFloat(s.Min, 'g', -1, 64)
		maxV = strconv.FormatFloat(s.Max, 'g', -1, 64)
		mean = strconv.FormatFloat(s.Mean, 'g', -1, 64)
	}
	return []string{
		filepath.Base(path),
		s.SType.Info().Name,
		humanize.Comma(int64(s.NRows)),
		humanize.Comma(int64(s.NullCount)),
		humanize.Comma(int64(s.Distinct)),
		minV, maxV, mean,
		humanize.Bytes(uint64(size)),
	}, nil
}
