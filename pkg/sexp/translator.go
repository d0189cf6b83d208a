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

// SymbolRule is a symbol translator is responsible for converting a symbol
// into an expression type T.  It indicates whether or not it applies to the
// given symbol, and reports an error if it does apply but the symbol is
// malformed.
type SymbolRule[T comparable] func(string) (T, bool, error)

// ListRule is a list translator is responsible converting a list with a given
// sequence of zero or more arguments into an expression type T.  Observe that
// the arguments are not translated, hence the rule is responsible for doing
// this (if appropriate).
type ListRule[T comparable] func(*List) (T, error)

// RecursiveRule is a recursive translator is a wrapper for translating lists whose
// elements can be built by recursively reusing the enclosing
// translator.
type RecursiveRule[T comparable] func(string, []T) (T, error)

// ===================================================================
// Translator
// ===================================================================

// Translator is a generic mechanism for translating S-Expressions into a structured
// form.
type Translator[T comparable] struct {
	srcfile *SourceFile
	srcmap  *SourceMap[SExp]
	lists   map[string]ListRule[T]
	symbols []SymbolRule[T]
}

// NewTranslator constructs a new Translator instance for a given source file
// and its source map (as produced by parsing).
func NewTranslator[T comparable](srcfile *SourceFile, srcmap *SourceMap[SExp]) *Translator[T] {
	return &Translator[T]{
		srcfile: srcfile,
		srcmap:  srcmap,
		lists:   make(map[string]ListRule[T]),
		symbols: make([]SymbolRule[T], 0),
	}
}

// ===================================================================
// Public
// ===================================================================

// Translate a given S-Expression into a given structured representation T.
func (p *Translator[T]) Translate(sexp SExp) (T, error) {
	switch e := sexp.(type) {
	case *List:
		return p.translateList(e)
	case *Symbol:
		return p.translateSymbol(e)
	}
	// Should be unreachable.
	panic("invalid S-Expression")
}

// TranslateAll translates a given array of S-Expressions, stopping at the
// first error.
func (p *Translator[T]) TranslateAll(sexps []SExp) ([]T, error) {
	var (
		terms = make([]T, len(sexps))
		err   error
	)
	//
	for i, s := range sexps {
		if terms[i], err = p.Translate(s); err != nil {
			return nil, err
		}
	}
	//
	return terms, nil
}

// AddListRule adds a new list translator to this expression translator.
func (p *Translator[T]) AddListRule(name string, t ListRule[T]) {
	p.lists[name] = t
}

// AddRecursiveRule adds a new list translator to this expression translator.
func (p *Translator[T]) AddRecursiveRule(name string, t RecursiveRule[T]) {
	// Construct a recursive list translator as a wrapper around a generic list translator.
	p.lists[name] = func(l *List) (T, error) {
		var empty T
		// Translate arguments
		args, err := p.TranslateAll(l.Elements[1:])
		if err != nil {
			return empty, err
		}
		// Apply rule
		term, err := t(name, args)
		if err != nil {
			return empty, p.wrap(l, err)
		}
		//
		return term, nil
	}
}

// AddSymbolRule adds a new symbol translator to this expression translator.
func (p *Translator[T]) AddSymbolRule(t SymbolRule[T]) {
	p.symbols = append(p.symbols, t)
}

// SyntaxError constructs a syntax error for a given S-Expression, using the
// span recorded for it during parsing (where available).
func (p *Translator[T]) SyntaxError(node SExp, msg string) *SyntaxError {
	var span = NewSpan(0, 0)
	//
	if p.srcmap != nil && p.srcmap.Has(node) {
		span = p.srcmap.Get(node)
	}
	//
	return p.srcfile.Error(span, msg)
}

// ===================================================================
// Private
// ===================================================================

func (p *Translator[T]) translateSymbol(s *Symbol) (T, error) {
	var empty T
	//
	for _, rule := range p.symbols {
		term, ok, err := rule(s.Value)
		if err != nil {
			return empty, p.wrap(s, err)
		} else if ok {
			return term, nil
		}
	}
	//
	return empty, p.SyntaxError(s, fmt.Sprintf("unknown symbol \"%s\"", s.Value))
}

// Translate a list of S-Expressions into a unary, binary or n-ary
// expression of some kind.  This type of expression is determined by
// the first element of the list.
func (p *Translator[T]) translateList(l *List) (T, error) {
	var empty T
	// Sanity check this list makes sense
	if len(l.Elements) == 0 || !l.Elements[0].IsSymbol() {
		return empty, p.SyntaxError(l, "invalid list")
	}
	// Lookup appropriate translator
	if t, ok := p.lists[l.Head()]; ok {
		return t(l)
	}
	//
	return empty, p.SyntaxError(l, fmt.Sprintf("unknown list \"%s\"", l.Head()))
}

// Attach position information to an error arising from a rule, unless it
// already carries some.
func (p *Translator[T]) wrap(node SExp, err error) error {
	if _, ok := err.(*SyntaxError); ok {
		return err
	}
	//
	return p.SyntaxError(node, err.Error())
}
