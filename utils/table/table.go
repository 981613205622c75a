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

package table

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// minWidth is the narrowest a column is drawn
const minWidth = 4

// Render writes an ASCII table. Columns keep the order of headers; rows
// shorter than headers are padded with empty cells.
func Render(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = max(minWidth, utf8.RuneCountInString(h))
	}
	for _, row := range rows {
		for i := 0; i < len(headers) && i < len(row); i++ {
			widths[i] = max(widths[i], utf8.RuneCountInString(row[i]))
		}
	}

	PrintBorder(w, widths)
	printRow(w, widths, headers)
	PrintBorder(w, widths)
	for _, row := range rows {
		printRow(w, widths, row)
	}
	PrintBorder(w, widths)
	fmt.Fprintf(w, "(%d rows)\n", len(rows))
}

// FromColumns turns column-major cells into rows. Missing cells are empty.
func FromColumns(columns [][]string) [][]string {
	n := 0
	for _, c := range columns {
		n = max(n, len(c))
	}
	rows := make([][]string, n)
	for r := range rows {
		rows[r] = make([]string, len(columns))
		for c, col := range columns {
			if r < len(col) {
				rows[r][c] = col[r]
			}
		}
	}
	return rows
}

func printRow(w io.Writer, widths []int, cells []string) {
	var b strings.Builder
	b.WriteString("|")
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		b.WriteString(" ")
		b.WriteString(cell)
		b.WriteString(strings.Repeat(" ", width-utf8.RuneCountInString(cell)))
		b.WriteString(" |")
	}
	b.WriteString("\n")
	io.WriteString(w, b.String())
}

// PrintBorder writes a +----+ line for the given column widths
func PrintBorder(w io.Writer, widths []int) {
	var b strings.Builder
	b.WriteString("+")
	for _, width := range widths {
		b.WriteString(strings.Repeat("-", width+2))
		b.WriteString("+")
	}
	b.WriteString("\n")
	io.WriteString(w, b.String())
}
