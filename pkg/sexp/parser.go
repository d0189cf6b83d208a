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

import "unicode"

// Parser represents a parser in the process of parsing a given string into one
// or more S-expressions.
type Parser struct {
	// File being parsed
	srcfile *SourceFile
	// Text being parsed
	text []rune
	// Determine current position within text
	index int
	// Mapping from constructed S-Expressions to their spans in the original text.
	srcmap *SourceMap[SExp]
}

// NewParser constructs a new instance of Parser
func NewParser(srcfile *SourceFile) *Parser {
	text := srcfile.Contents()
	//
	return &Parser{
		srcfile: srcfile,
		text:    text,
		index:   0,
		srcmap:  NewSourceMap[SExp](),
	}
}

// SourceMap returns the source map maintained for terms constructed by this
// parser.
func (p *Parser) SourceMap() *SourceMap[SExp] {
	return p.srcmap
}

// Parse a given string into an S-Expression, or produce an error.  Observe
// that nil is returned (without an error) when the end of the input is
// reached.
func (p *Parser) Parse() (SExp, error) {
	start := p.skipWhitespace()
	token := p.next()
	//
	if token == nil {
		return nil, nil
	} else if len(token) == 1 && token[0] == ')' {
		p.index-- // backup
		return nil, p.error("unexpected end-of-list")
	} else if len(token) == 1 && token[0] == '(' {
		var elements []SExp

		for c := p.lookahead(); c != ')'; c = p.lookahead() {
			if c == 0 {
				return nil, p.error("unexpected end-of-file")
			}
			// Parse next element
			element, err := p.Parse()
			if err != nil {
				return nil, err
			}
			// Continue around!
			elements = append(elements, element)
		}
		// Consume right-brace
		p.next()
		// Done
		return p.register(&List{elements}, start), nil
	}
	//
	return p.register(&Symbol{string(token)}, start), nil
}

// Record the span of a freshly constructed term.
func (p *Parser) register(term SExp, start int) SExp {
	p.srcmap.Put(term, NewSpan(start, p.index))
	return term
}

// next extracts the next token from a given string.
func (p *Parser) next() []rune {
	index := p.skipWhitespace()
	//
	if index == len(p.text) {
		return nil
	}
	//
	switch p.text[index] {
	case '(', ')':
		// List begin / end
		p.index = p.index + 1
		return p.text[index:p.index]
	}
	// Symbol
	return p.parseSymbol()
}

// lookahead skips any whitespace or comments and returns the next
// character, or 0 at the end of the input.
func (p *Parser) lookahead() rune {
	if index := p.skipWhitespace(); index < len(p.text) {
		return p.text[index]
	}
	//
	return 0
}

// skipWhitespace advances past any whitespace and comments, returning the
// resulting position.
func (p *Parser) skipWhitespace() int {
	for p.index < len(p.text) {
		c := p.text[p.index]
		//
		if c == ';' {
			p.skipComment()
		} else if unicode.IsSpace(c) {
			p.index++
		} else {
			break
		}
	}
	//
	return p.index
}

func (p *Parser) parseSymbol() []rune {
	// Parse token
	i := len(p.text)

	for j := p.index; j < i; j++ {
		c := p.text[j]
		if c == '(' || c == ')' || c == ';' || unicode.IsSpace(c) {
			i = j
			break
		}
	}
	// Reached end of token
	token := p.text[p.index:i]
	p.index = i

	return token
}

func (p *Parser) skipComment() {
	for p.index < len(p.text) && p.text[p.index] != '\n' {
		p.index++
	}
}

// Construct a parser error at the current position in the input stream.
func (p *Parser) error(msg string) *SyntaxError {
	end := min(p.index+1, len(p.text))
	return p.srcfile.Error(NewSpan(p.index, max(end, p.index)), msg)
}
