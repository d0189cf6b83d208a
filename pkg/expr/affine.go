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
	"github.com/consensys/go-dgp/pkg/sexp"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ============================================================================
// Add
// ============================================================================

// Add represents the elementwise sum of one or more expressions.
type Add struct{ atom }

// NewAdd constructs the sum of one or more expressions.
func NewAdd(args ...Expr) *Add {
	checkNonEmpty(KindAdd, args)
	return &Add{atom{args, broadcastArgs(KindAdd, args)}}
}

// Kind implementation for the Expr interface.
func (p *Add) Kind() Kind { return KindAdd }

// Eval implementation for the Expr interface.
func (p *Add) Eval(env Env) (*mat.Dense, error) {
	vals, err := p.evalArgs(env)
	if err != nil {
		return nil, err
	}
	//
	return elementwise(p.shape, vals, floats.Sum), nil
}

// Copy implementation for the Expr interface.
func (p *Add) Copy(args []Expr) Expr { return NewAdd(args...) }

// Lisp implementation for the Expr interface.
func (p *Add) Lisp() sexp.SExp { return lispOf(KindAdd, p.args) }

// ============================================================================
// Neg
// ============================================================================

// Neg represents the elementwise negation of an expression.
type Neg struct{ atom }

// NewNeg constructs the negation of an expression.
func NewNeg(arg Expr) *Neg {
	return &Neg{atom{[]Expr{arg}, arg.Shape()}}
}

// Kind implementation for the Expr interface.
func (p *Neg) Kind() Kind { return KindNeg }

// Eval implementation for the Expr interface.
func (p *Neg) Eval(env Env) (*mat.Dense, error) {
	val, err := p.args[0].Eval(env)
	if err != nil {
		return nil, err
	}
	//
	return mapEntries(val, func(x float64) float64 { return -x }), nil
}

// Copy implementation for the Expr interface.
func (p *Neg) Copy(args []Expr) Expr {
	checkArity(KindNeg, args, 1)
	return NewNeg(args[0])
}

// Lisp implementation for the Expr interface.
func (p *Neg) Lisp() sexp.SExp { return lispOf(KindNeg, p.args) }

// ============================================================================
// Multiply
// ============================================================================

// Multiply represents the elementwise product of one or more expressions.
type Multiply struct{ atom }

// NewMultiply constructs the elementwise product of one or more expressions.
func NewMultiply(args ...Expr) *Multiply {
	checkNonEmpty(KindMultiply, args)
	return &Multiply{atom{args, broadcastArgs(KindMultiply, args)}}
}

// Kind implementation for the Expr interface.
func (p *Multiply) Kind() Kind { return KindMultiply }

// Eval implementation for the Expr interface.
func (p *Multiply) Eval(env Env) (*mat.Dense, error) {
	vals, err := p.evalArgs(env)
	if err != nil {
		return nil, err
	}
	//
	return elementwise(p.shape, vals, product), nil
}

// Copy implementation for the Expr interface.
func (p *Multiply) Copy(args []Expr) Expr { return NewMultiply(args...) }

// Lisp implementation for the Expr interface.
func (p *Multiply) Lisp() sexp.SExp { return lispOf(KindMultiply, p.args) }

// ============================================================================
// Div
// ============================================================================

// Div represents the elementwise division of one expression by another.
type Div struct{ atom }

// NewDiv constructs the elementwise division of a numerator by a denominator.
func NewDiv(num Expr, den Expr) *Div {
	args := []Expr{num, den}
	return &Div{atom{args, broadcastArgs(KindDiv, args)}}
}

// Kind implementation for the Expr interface.
func (p *Div) Kind() Kind { return KindDiv }

// Eval implementation for the Expr interface.
func (p *Div) Eval(env Env) (*mat.Dense, error) {
	vals, err := p.evalArgs(env)
	if err != nil {
		return nil, err
	}
	//
	return elementwise(p.shape, vals, func(xs []float64) float64 { return xs[0] / xs[1] }), nil
}

// Copy implementation for the Expr interface.
func (p *Div) Copy(args []Expr) Expr {
	checkArity(KindDiv, args, 2)
	return NewDiv(args[0], args[1])
}

// Lisp implementation for the Expr interface.
func (p *Div) Lisp() sexp.SExp { return lispOf(KindDiv, p.args) }

// ============================================================================
// MatMul
// ============================================================================

// MatMul represents the matrix product of two expressions.
type MatMul struct{ atom }

// NewMatMul constructs the matrix product of two expressions, where the
// number of columns of the left operand must match the number of rows of the
// right operand.
func NewMatMul(lhs Expr, rhs Expr) *MatMul {
	return &MatMul{atom{[]Expr{lhs, rhs}, matMulShape(KindMatMul, lhs, rhs)}}
}

// Kind implementation for the Expr interface.
func (p *MatMul) Kind() Kind { return KindMatMul }

// Eval implementation for the Expr interface.
func (p *MatMul) Eval(env Env) (*mat.Dense, error) {
	var res mat.Dense
	//
	vals, err := p.evalArgs(env)
	if err != nil {
		return nil, err
	}
	//
	res.Mul(vals[0], vals[1])
	//
	return &res, nil
}

// Copy implementation for the Expr interface.
func (p *MatMul) Copy(args []Expr) Expr {
	checkArity(KindMatMul, args, 2)
	return NewMatMul(args[0], args[1])
}

// Lisp implementation for the Expr interface.
func (p *MatMul) Lisp() sexp.SExp { return lispOf(KindMatMul, p.args) }

func matMulShape(kind Kind, lhs Expr, rhs Expr) Shape {
	l, r := lhs.Shape(), rhs.Shape()
	//
	if l.Cols != r.Rows {
		panic(shapeError("incompatible shapes %s and %s for %s", l, r, kind))
	}
	//
	return Shape{l.Rows, r.Cols}
}

// ============================================================================
// Sum
// ============================================================================

// Sum represents the sum of all entries of an expression.
type Sum struct{ atom }

// NewSum constructs the sum of all entries of an expression.
func NewSum(arg Expr) *Sum {
	return &Sum{atom{[]Expr{arg}, Scalar}}
}

// Kind implementation for the Expr interface.
func (p *Sum) Kind() Kind { return KindSum }

// Eval implementation for the Expr interface.
func (p *Sum) Eval(env Env) (*mat.Dense, error) {
	val, err := p.args[0].Eval(env)
	if err != nil {
		return nil, err
	}
	//
	return mat.NewDense(1, 1, []float64{mat.Sum(val)}), nil
}

// Copy implementation for the Expr interface.
func (p *Sum) Copy(args []Expr) Expr {
	checkArity(KindSum, args, 1)
	return NewSum(args[0])
}

// Lisp implementation for the Expr interface.
func (p *Sum) Lisp() sexp.SExp { return lispOf(KindSum, p.args) }

// ============================================================================
// Trace
// ============================================================================

// Trace represents the sum of the diagonal entries of a square matrix.
type Trace struct{ atom }

// NewTrace constructs the trace of a square matrix expression.
func NewTrace(arg Expr) *Trace {
	checkSquare(KindTrace, arg)
	return &Trace{atom{[]Expr{arg}, Scalar}}
}

// Kind implementation for the Expr interface.
func (p *Trace) Kind() Kind { return KindTrace }

// Eval implementation for the Expr interface.
func (p *Trace) Eval(env Env) (*mat.Dense, error) {
	val, err := p.args[0].Eval(env)
	if err != nil {
		return nil, err
	}
	//
	return mat.NewDense(1, 1, []float64{mat.Trace(val)}), nil
}

// Copy implementation for the Expr interface.
func (p *Trace) Copy(args []Expr) Expr {
	checkArity(KindTrace, args, 1)
	return NewTrace(args[0])
}

// Lisp implementation for the Expr interface.
func (p *Trace) Lisp() sexp.SExp { return lispOf(KindTrace, p.args) }

func checkSquare(kind Kind, arg Expr) {
	if !arg.Shape().IsSquare() {
		panic(shapeError("%s expects a square matrix, got %s", kind, arg.Shape()))
	}
}

// ============================================================================
// Diag
// ============================================================================

// Diag represents the diagonal of a square matrix, as a column vector.
type Diag struct{ atom }

// NewDiag constructs the diagonal of a square matrix expression.
func NewDiag(arg Expr) *Diag {
	checkSquare(KindDiag, arg)
	return &Diag{atom{[]Expr{arg}, Vector(arg.Shape().Rows)}}
}

// Kind implementation for the Expr interface.
func (p *Diag) Kind() Kind { return KindDiag }

// Eval implementation for the Expr interface.
func (p *Diag) Eval(env Env) (*mat.Dense, error) {
	val, err := p.args[0].Eval(env)
	if err != nil {
		return nil, err
	}
	//
	n := int(p.shape.Rows)
	res := mat.NewDense(n, 1, nil)
	//
	for i := 0; i < n; i++ {
		res.Set(i, 0, val.At(i, i))
	}
	//
	return res, nil
}

// Copy implementation for the Expr interface.
func (p *Diag) Copy(args []Expr) Expr {
	checkArity(KindDiag, args, 1)
	return NewDiag(args[0])
}

// Lisp implementation for the Expr interface.
func (p *Diag) Lisp() sexp.SExp { return lispOf(KindDiag, p.args) }

// ============================================================================
// Cumsum
// ============================================================================

// Cumsum represents the cumulative sum down each column of an expression.
type Cumsum struct{ atom }

// NewCumsum constructs the cumulative sum of an expression.
func NewCumsum(arg Expr) *Cumsum {
	return &Cumsum{atom{[]Expr{arg}, arg.Shape()}}
}

// Kind implementation for the Expr interface.
func (p *Cumsum) Kind() Kind { return KindCumsum }

// Eval implementation for the Expr interface.
func (p *Cumsum) Eval(env Env) (*mat.Dense, error) {
	val, err := p.args[0].Eval(env)
	if err != nil {
		return nil, err
	}
	//
	r, c := val.Dims()
	res := mat.NewDense(r, c, nil)
	//
	for j := 0; j < c; j++ {
		var acc float64
		//
		for i := 0; i < r; i++ {
			acc += val.At(i, j)
			res.Set(i, j, acc)
		}
	}
	//
	return res, nil
}

// Copy implementation for the Expr interface.
func (p *Cumsum) Copy(args []Expr) Expr {
	checkArity(KindCumsum, args, 1)
	return NewCumsum(args[0])
}

// Lisp implementation for the Expr interface.
func (p *Cumsum) Lisp() sexp.SExp { return lispOf(KindCumsum, p.args) }
