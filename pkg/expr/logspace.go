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

// LogAddExp represents the elementwise log of the sum of exponentials of its
// arguments, i.e. log(exp(x_1) + ... + exp(x_n)).  Scalar arguments are
// broadcast.
type LogAddExp struct{ atom }

// NewLogAddExp constructs the elementwise log-add-exp of one or more
// expressions.
func NewLogAddExp(args ...Expr) *LogAddExp {
	checkNonEmpty(KindLogAddExp, args)
	//
	shape := broadcastArgs(KindLogAddExp, args)
	return &LogAddExp{atom{args, shape}}
}

// Kind implementation for the Expr interface.
func (p *LogAddExp) Kind() Kind { return KindLogAddExp }

// Eval implementation for the Expr interface.
func (p *LogAddExp) Eval(env Env) (*mat.Dense, error) {
	vals, err := p.evalArgs(env)
	if err != nil {
		return nil, err
	}
	//
	return elementwise(p.shape, vals, logSumExp), nil
}

// Copy implementation for the Expr interface.
func (p *LogAddExp) Copy(args []Expr) Expr { return NewLogAddExp(args...) }

// Lisp implementation for the Expr interface.
func (p *LogAddExp) Lisp() sexp.SExp { return lispOf(KindLogAddExp, p.args) }

// LogSumExp represents the log of the sum of the exponentials of all entries
// of an expression.
type LogSumExp struct{ atom }

// NewLogSumExp constructs the log-sum-exp of all entries of an expression.
func NewLogSumExp(arg Expr) *LogSumExp {
	return &LogSumExp{atom{[]Expr{arg}, Scalar}}
}

// Kind implementation for the Expr interface.
func (p *LogSumExp) Kind() Kind { return KindLogSumExp }

// Eval implementation for the Expr interface.
func (p *LogSumExp) Eval(env Env) (*mat.Dense, error) {
	val, err := p.args[0].Eval(env)
	if err != nil {
		return nil, err
	}
	//
	return mat.NewDense(1, 1, []float64{logSumExp(Entries(val))}), nil
}

// Copy implementation for the Expr interface.
func (p *LogSumExp) Copy(args []Expr) Expr {
	checkArity(KindLogSumExp, args, 1)
	return NewLogSumExp(args[0])
}

// Lisp implementation for the Expr interface.
func (p *LogSumExp) Lisp() sexp.SExp { return lispOf(KindLogSumExp, p.args) }

// LogMatMul represents the matrix product of two matrices in log space.  That
// is, entry (i,j) is log(sum_k exp(A[i,k] + B[k,j])), which is log(exp(A) @
// exp(B)) computed without leaving log space.
type LogMatMul struct{ atom }

// NewLogMatMul constructs the log-space product of two matrix expressions.
func NewLogMatMul(lhs Expr, rhs Expr) *LogMatMul {
	shape := matMulShape(KindLogMatMul, lhs, rhs)
	return &LogMatMul{atom{[]Expr{lhs, rhs}, shape}}
}

// Kind implementation for the Expr interface.
func (p *LogMatMul) Kind() Kind { return KindLogMatMul }

// Eval implementation for the Expr interface.
func (p *LogMatMul) Eval(env Env) (*mat.Dense, error) {
	vals, err := p.evalArgs(env)
	if err != nil {
		return nil, err
	}
	//
	var (
		lhs, rhs = vals[0], vals[1]
		_, n     = lhs.Dims()
		res      = mat.NewDense(int(p.shape.Rows), int(p.shape.Cols), nil)
		terms    = make([]float64, n)
	)
	//
	for i := 0; i < int(p.shape.Rows); i++ {
		for j := 0; j < int(p.shape.Cols); j++ {
			for k := 0; k < n; k++ {
				terms[k] = lhs.At(i, k) + rhs.At(k, j)
			}
			//
			res.Set(i, j, logSumExp(terms))
		}
	}
	//
	return res, nil
}

// Copy implementation for the Expr interface.
func (p *LogMatMul) Copy(args []Expr) Expr {
	checkArity(KindLogMatMul, args, 2)
	return NewLogMatMul(args[0], args[1])
}

// Lisp implementation for the Expr interface.
func (p *LogMatMul) Lisp() sexp.SExp { return lispOf(KindLogMatMul, p.args) }

// LogSumLargest represents the log of the sum of the exponentials of the k
// largest entries of an expression.
type LogSumLargest struct {
	atom
	k uint
}

// NewLogSumLargest constructs the log-sum-largest of an expression, where 1 <=
// k <= size.
func NewLogSumLargest(arg Expr, k uint) *LogSumLargest {
	checkCount(KindLogSumLargest, arg, k)
	return &LogSumLargest{atom{[]Expr{arg}, Scalar}, k}
}

// Count returns the number of entries summed.
func (e *LogSumLargest) Count() uint { return e.k }

// Kind implementation for the Expr interface.
func (e *LogSumLargest) Kind() Kind { return KindLogSumLargest }

// Eval implementation for the Expr interface.
func (e *LogSumLargest) Eval(env Env) (*mat.Dense, error) {
	val, err := e.args[0].Eval(env)
	if err != nil {
		return nil, err
	}
	//
	return mat.NewDense(1, 1, []float64{logSumLargest(Entries(val), e.k)}), nil
}

// Copy implementation for the Expr interface.
func (e *LogSumLargest) Copy(args []Expr) Expr {
	checkArity(KindLogSumLargest, args, 1)
	return NewLogSumLargest(args[0], e.k)
}

// Lisp implementation for the Expr interface.
func (e *LogSumLargest) Lisp() sexp.SExp { return lispOf(KindLogSumLargest, e.args, float64(e.k)) }

// Log-sum-exp over an array which tolerates entries of -Inf (i.e. log(0)).
// Only when every entry is -Inf is the result -Inf.
func logSumExp(xs []float64) float64 {
	if floats.Max(xs) == math.Inf(-1) {
		return math.Inf(-1)
	}
	//
	return floats.LogSumExp(xs)
}
