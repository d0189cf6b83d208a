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
package sexp

import "fmt"

// Span identifies a contiguous range of characters in a source text, by index
// rather than by substring, so the enclosing line can be recovered for error
// reports.
type Span struct {
	// Index of the first character.
	start int
	// Index one past the last character.
	end int
}

// NewSpan constructs a span covering [start, end).
func NewSpan(start int, end int) Span {
	if start > end {
		panic("invalid span")
	}

	return Span{start, end}
}

// Start returns the index of the first character of this span.
func (p Span) Start() int {
	return p.start
}

// Length returns the number of characters covered by this span.
func (p Span) Length() int {
	return p.end - p.start
}

// Line is a single physical line of a source text, along with its number
// (counting from 1).
type Line struct {
	text   []rune
	span   Span
	number int
}

// String returns the contents of this line, without its terminator.
func (p *Line) String() string {
	return string(p.text[p.span.start:p.span.end])
}

// Number returns the line number, counting from 1.
func (p *Line) Number() int {
	return p.number
}

// Start returns the index of the first character of this line.
func (p *Line) Start() int {
	return p.span.start
}

// Length returns the number of characters in this line.
func (p *Line) Length() int {
	return p.span.Length()
}

// SourceMap records the span from which each parsed term originated, so errors
// found while translating a term can point back into the problem file.
type SourceMap[T comparable] struct {
	spans map[T]Span
}

// NewSourceMap constructs an empty source map.
func NewSourceMap[T comparable]() *SourceMap[T] {
	return &SourceMap[T]{make(map[T]Span)}
}

// Has determines whether a span is recorded for a given term.
func (p *SourceMap[T]) Has(item T) bool {
	_, ok := p.spans[item]
	return ok
}

// Put records the span of a given term.  Each term can be recorded only once.
func (p *SourceMap[T]) Put(item T, span Span) {
	if _, ok := p.spans[item]; ok {
		panic(fmt.Sprintf("duplicate source map entry: %v", any(item)))
	}
	//
	p.spans[item] = span
}

// Get returns the span recorded for a given term, and panics if there is none.
func (p *SourceMap[T]) Get(item T) Span {
	if s, ok := p.spans[item]; ok {
		return s
	}
	//
	panic(fmt.Sprintf("missing source map entry: %v", any(item)))
}

// Determine the line enclosing the start of a span.  A span starting beyond the
// end of the text is placed on the last line.
func findEnclosingLine(text []rune, span Span) Line {
	var (
		num   = 1
		start = 0
	)
	//
	for i := 0; i < len(text) && i < span.start; i++ {
		if text[i] == '\n' {
			num++
			start = i + 1
		}
	}
	//
	end := start
	for end < len(text) && text[end] != '\n' {
		end++
	}
	//
	return Line{text, Span{start, end}, num}
}
