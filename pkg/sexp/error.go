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

import (
	"fmt"
)

// SyntaxError is a structured error which retains the index into the original
// string where an error occurred, along with an error message.
type SyntaxError struct {
	// Name of enclosing file
	filename string
	// Text of enclosing file
	text []rune
	// Byte index into string being parsed where error arose.
	span Span
	// Error message being reported
	msg string
}

// NewSyntaxError simply constructs a new syntax error.
func NewSyntaxError(filename string, text []rune, span Span, msg string) *SyntaxError {
	return &SyntaxError{filename, text, span, msg}
}

// Filename returns the name of the file in which this error arose.
func (p *SyntaxError) Filename() string {
	return p.filename
}

// Span returns the span of the original text on which this error is reported.
func (p *SyntaxError) Span() Span {
	return p.span
}

// Message returns the message to be reported.
func (p *SyntaxError) Message() string {
	return p.msg
}

// Line returns the first line enclosing this error.
func (p *SyntaxError) Line() Line {
	return findEnclosingLine(p.text, p.span)
}

// Error implements the error interface.  Errors are reported in the usual
// "file:line:column: message" form.
func (p *SyntaxError) Error() string {
	line := p.Line()
	col := p.span.start - line.Start() + 1
	//
	if p.filename == "" {
		return fmt.Sprintf("%d:%d: %s", line.Number(), col, p.msg)
	}
	//
	return fmt.Sprintf("%s:%d:%d: %s", p.filename, line.Number(), col, p.msg)
}
