// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package util

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// TablePrinter is useful for printing tables to the terminal.
type TablePrinter struct {
	widths []uint
	rows   [][]string
}

// NewTablePrinter constructs a new table with given dimensions.
func NewTablePrinter(width uint, height uint) *TablePrinter {
	widths := make([]uint, width)
	rows := make([][]string, height)
	// Construct the table
	for i := uint(0); i < height; i++ {
		rows[i] = make([]string, width)
	}

	return &TablePrinter{widths, rows}
}

// Set the contents of a given cell in this table
func (p *TablePrinter) Set(col uint, row uint, val string) {
	p.widths[col] = max(p.widths[col], uint(len(val)))
	p.rows[row][col] = val
}

// SetRow sets the contents of an entire row in this table
func (p *TablePrinter) SetRow(row uint, vals ...string) {
	if len(vals) != len(p.widths) {
		panic("incorrect number of columns")
	}
	// Update column widths
	for i := 0; i < len(p.widths); i++ {
		p.widths[i] = max(p.widths[i], uint(len(vals[i])))
	}
	// Done
	p.rows[row] = vals
}

// SetMaxWidth puts an upper bound on the width of any column.
func (p *TablePrinter) SetMaxWidth(m uint) {
	for i := 0; i < len(p.widths); i++ {
		p.widths[i] = min(p.widths[i], m)
	}
}

// FitTerminal bounds the width of columns so that, when standard output is a
// terminal, each row fits on a single line.  Otherwise, this has no effect.
func (p *TablePrinter) FitTerminal() {
	fd := int(os.Stdout.Fd())
	//
	if len(p.widths) == 0 || !term.IsTerminal(fd) {
		return
	}
	//
	if width, _, err := term.GetSize(fd); err == nil {
		// Each column is padded by three characters
		available := max(width/len(p.widths)-3, 1)
		p.SetMaxWidth(uint(available))
	}
}

// Print the table to standard output.
func (p *TablePrinter) Print() {
	p.Write(os.Stdout)
}

// Write the table to a given writer.
func (p *TablePrinter) Write(w io.Writer) {
	for i := 0; i < len(p.rows); i++ {
		row := p.rows[i]
		for j, col := range row {
			jth := col
			jth_width := p.widths[j]

			if uint(len(col)) > jth_width {
				jth = col[0:jth_width]
			}

			fmt.Fprintf(w, " %*s |", jth_width, jth)
		}

		fmt.Fprintln(w)
	}
}
