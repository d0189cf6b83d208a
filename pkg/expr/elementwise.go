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
package expr

import (
	"math"

	"github.com/consensys/go-dgp/pkg/sexp"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// unary captures the state common to elementwise functions of a single
// argument.
type unary struct {
	atom
	kind Kind
	fn   func(float64) float64
}

func newUnary(kind Kind, arg Expr, fn func(float64) float64) unary {
	return unary{atom{[]Expr{arg}, arg.Shape()}, kind, fn}
}

// Kind implementation for the Expr interface.
func (p *unary) Kind() Kind { return p.kind }

// Eval implementation for the Expr interface.
func (p *unary) Eval(env Env) (*mat.Dense, error) {
	val, err := p.args[0].Eval(env)
	if err != nil {
		return nil, err
	}
	//
	return mapEntries(val, p.fn), nil
}

// Lisp implementation for the Expr interface.
func (p *unary) Lisp() sexp.SExp { return lispOf(p.kind, p.args) }

// Exp represents the elementwise exponential of an expression.
type Exp struct{ unary }

// NewExp constructs the elementwise exponential of an expression.
func NewExp(arg Expr) *Exp {
	return &Exp{newUnary(KindExp, arg, math.Exp)}
}

// Copy implementation for the Expr interface.
func (p *Exp) Copy(args []Expr) Expr {
	checkArity(KindExp, args, 1)
	return NewExp(args[0])
}

// Log represents the elementwise natural logarithm of an expression.
type Log struct{ unary }

// NewLog constructs the elementwise natural logarithm of an expression.
func NewLog(arg Expr) *Log {
	return &Log{newUnary(KindLog, arg, math.Log)}
}

// Copy implementation for the Expr interface.
func (p *Log) Copy(args []Expr) Expr {
	checkArity(KindLog, args, 1)
	return NewLog(args[0])
}

// OneMinus represents the elementwise function 1-x.
type OneMinus struct{ unary }

// NewOneMinus constructs 1-x for a given expression x.
func NewOneMinus(arg Expr) *OneMinus {
	return &OneMinus{newUnary(KindOneMinus, arg, func(x float64) float64 { return 1 - x })}
}

// Copy implementation for the Expr interface.
func (p *OneMinus) Copy(args []Expr) Expr {
	checkArity(KindOneMinus, args, 1)
	return NewOneMinus(args[0])
}

// ============================================================================
// Power
// ============================================================================

// Power represents an expression raised elementwise to a constant power.
type Power struct {
	unary
	exponent float64
}

// NewPower constructs x^p for a given expression x and constant exponent p.
func NewPower(arg Expr, p float64) *Power {
	return &Power{newUnary(KindPower, arg, func(x float64) float64 { return math.Pow(x, p) }), p}
}

// Exponent returns the (constant) exponent of this power.
func (p *Power) Exponent() float64 { return p.exponent }

// Copy implementation for the Expr interface.
func (p *Power) Copy(args []Expr) Expr {
	checkArity(KindPower, args, 1)
	return NewPower(args[0], p.exponent)
}

// Lisp implementation for the Expr interface.
func (p *Power) Lisp() sexp.SExp { return lispOf(KindPower, p.args, p.exponent) }

// ============================================================================
// Maximum / Minimum
// ============================================================================

// Maximum represents the elementwise maximum of one or more expressions.
type Maximum struct{ atom }

// NewMaximum constructs the elementwise maximum of one or more expressions.
func NewMaximum(args ...Expr) *Maximum {
	checkNonEmpty(KindMaximum, args)
	return &Maximum{atom{args, broadcastArgs(KindMaximum, args)}}
}

// Kind implementation for the Expr interface.
func (p *Maximum) Kind() Kind { return KindMaximum }

// Eval implementation for the Expr interface.
func (p *Maximum) Eval(env Env) (*mat.Dense, error) {
	vals, err := p.evalArgs(env)
	if err != nil {
		return nil, err
	}
	//
	return elementwise(p.shape, vals, floats.Max), nil
}

// Copy implementation for the Expr interface.
func (p *Maximum) Copy(args []Expr) Expr { return NewMaximum(args...) }

// Lisp implementation for the Expr interface.
func (p *Maximum) Lisp() sexp.SExp { return lispOf(KindMaximum, p.args) }

// Minimum represents the elementwise minimum of one or more expressions.
type Minimum struct{ atom }

// NewMinimum constructs the elementwise minimum of one or more expressions.
func NewMinimum(args ...Expr) *Minimum {
	checkNonEmpty(KindMinimum, args)
	return &Minimum{atom{args, broadcastArgs(KindMinimum, args)}}
}

// Kind implementation for the Expr interface.
func (p *Minimum) Kind() Kind { return KindMinimum }

// Eval implementation for the Expr interface.
func (p *Minimum) Eval(env Env) (*mat.Dense, error) {
	vals, err := p.evalArgs(env)
	if err != nil {
		return nil, err
	}
	//
	return elementwise(p.shape, vals, floats.Min), nil
}

// Copy implementation for the Expr interface.
func (p *Minimum) Copy(args []Expr) Expr { return NewMinimum(args...) }

// Lisp implementation for the Expr interface.
func (p *Minimum) Lisp() sexp.SExp { return lispOf(KindMinimum, p.args) }
