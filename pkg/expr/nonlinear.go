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
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ============================================================================
// GeoMean
// ============================================================================

// GeoMean represents the weighted geometric mean of the entries of an
// expression, i.e. prod_i x_i^(w_i / sum(w)).
type GeoMean struct {
	atom
	weights []float64
}

// NewGeoMean constructs the weighted geometric mean of the entries of an
// expression.  If no weights are given, every entry is weighted equally.
// Otherwise there must be one non-negative weight per entry, and at least one
// weight must be positive.
func NewGeoMean(arg Expr, weights ...float64) *GeoMean {
	n := int(arg.Shape().Size())
	//
	if len(weights) == 0 {
		weights = Entries(Fill(Vector(uint(n)), 1))
	} else if len(weights) != n {
		panic(parameterError("geo-mean expects %d weights, got %d", n, len(weights)))
	}
	//
	for _, w := range weights {
		if w < 0 {
			panic(parameterError("geo-mean weights must be non-negative"))
		}
	}
	//
	if floats.Sum(weights) <= 0 {
		panic(parameterError("geo-mean weights must not all be zero"))
	}
	//
	return &GeoMean{atom{[]Expr{arg}, Scalar}, append([]float64(nil), weights...)}
}

// Weights returns the weights of this geometric mean.  The result must not be
// modified.
func (p *GeoMean) Weights() []float64 { return p.weights }

// Kind implementation for the Expr interface.
func (p *GeoMean) Kind() Kind { return KindGeoMean }

// Eval implementation for the Expr interface.
func (p *GeoMean) Eval(env Env) (*mat.Dense, error) {
	val, err := p.args[0].Eval(env)
	if err != nil {
		return nil, err
	}
	//
	var (
		total  = floats.Sum(p.weights)
		result = 1.0
	)
	//
	for i, x := range Entries(val) {
		result *= math.Pow(x, p.weights[i]/total)
	}
	//
	return mat.NewDense(1, 1, []float64{result}), nil
}

// Copy implementation for the Expr interface.
func (p *GeoMean) Copy(args []Expr) Expr {
	checkArity(KindGeoMean, args, 1)
	return NewGeoMean(args[0], p.weights...)
}

// Lisp implementation for the Expr interface.
func (p *GeoMean) Lisp() sexp.SExp { return lispOf(KindGeoMean, p.args, p.weights...) }

// ============================================================================
// EyeMinusInv
// ============================================================================

// EyeMinusInv represents the matrix function (I - X)^-1 of a square matrix X.
type EyeMinusInv struct{ atom }

// NewEyeMinusInv constructs (I - X)^-1 for a given square matrix expression X.
func NewEyeMinusInv(arg Expr) *EyeMinusInv {
	checkSquare(KindEyeMinusInv, arg)
	return &EyeMinusInv{atom{[]Expr{arg}, arg.Shape()}}
}

// Kind implementation for the Expr interface.
func (p *EyeMinusInv) Kind() Kind { return KindEyeMinusInv }

// Eval implementation for the Expr interface.
func (p *EyeMinusInv) Eval(env Env) (*mat.Dense, error) {
	var res mat.Dense
	//
	val, err := p.args[0].Eval(env)
	if err != nil {
		return nil, err
	}
	//
	n, _ := val.Dims()
	eyeMinus := mat.NewDense(n, n, nil)
	//
	for i := 0; i < n; i++ {
		eyeMinus.Set(i, i, 1)
	}
	//
	eyeMinus.Sub(eyeMinus, val)
	//
	if err := res.Inverse(eyeMinus); err != nil {
		return nil, errors.Wrap(err, "evaluating eye-minus-inv")
	}
	//
	return &res, nil
}

// Copy implementation for the Expr interface.
func (p *EyeMinusInv) Copy(args []Expr) Expr {
	checkArity(KindEyeMinusInv, args, 1)
	return NewEyeMinusInv(args[0])
}

// Lisp implementation for the Expr interface.
func (p *EyeMinusInv) Lisp() sexp.SExp { return lispOf(KindEyeMinusInv, p.args) }

// ============================================================================
// Pnorm
// ============================================================================

// Pnorm represents the p-norm of the entries of an expression, for a finite
// positive p.
type Pnorm struct {
	atom
	p float64
}

// NewPnorm constructs the p-norm of the entries of an expression.
func NewPnorm(arg Expr, p float64) *Pnorm {
	if p <= 0 || math.IsInf(p, 0) || math.IsNaN(p) {
		panic(parameterError("pnorm expects a finite positive order, got %v", p))
	}
	//
	return &Pnorm{atom{[]Expr{arg}, Scalar}, p}
}

// Order returns the order p of this norm.
func (e *Pnorm) Order() float64 { return e.p }

// Kind implementation for the Expr interface.
func (e *Pnorm) Kind() Kind { return KindPnorm }

// Eval implementation for the Expr interface.
func (e *Pnorm) Eval(env Env) (*mat.Dense, error) {
	val, err := e.args[0].Eval(env)
	if err != nil {
		return nil, err
	}
	//
	return mat.NewDense(1, 1, []float64{pnorm(Entries(val), e.p)}), nil
}

// Copy implementation for the Expr interface.
func (e *Pnorm) Copy(args []Expr) Expr {
	checkArity(KindPnorm, args, 1)
	return NewPnorm(args[0], e.p)
}

// Lisp implementation for the Expr interface.
func (e *Pnorm) Lisp() sexp.SExp { return lispOf(KindPnorm, e.args, e.p) }

// ============================================================================
// SumLargest / SumSmallest
// ============================================================================

// SumLargest represents the sum of the k largest entries of an expression.
type SumLargest struct {
	atom
	k uint
}

// NewSumLargest constructs the sum of the k largest entries of an expression,
// where 1 <= k <= size.
func NewSumLargest(arg Expr, k uint) *SumLargest {
	checkCount(KindSumLargest, arg, k)
	return &SumLargest{atom{[]Expr{arg}, Scalar}, k}
}

// Count returns the number of entries summed.
func (e *SumLargest) Count() uint { return e.k }

// Kind implementation for the Expr interface.
func (e *SumLargest) Kind() Kind { return KindSumLargest }

// Eval implementation for the Expr interface.
func (e *SumLargest) Eval(env Env) (*mat.Dense, error) {
	val, err := e.args[0].Eval(env)
	if err != nil {
		return nil, err
	}
	//
	return mat.NewDense(1, 1, []float64{sumLargest(Entries(val), e.k)}), nil
}

// Copy implementation for the Expr interface.
func (e *SumLargest) Copy(args []Expr) Expr {
	checkArity(KindSumLargest, args, 1)
	return NewSumLargest(args[0], e.k)
}

// Lisp implementation for the Expr interface.
func (e *SumLargest) Lisp() sexp.SExp { return lispOf(KindSumLargest, e.args, float64(e.k)) }

// SumSmallest represents the sum of the k smallest entries of an expression.
type SumSmallest struct {
	atom
	k uint
}

// NewSumSmallest constructs the sum of the k smallest entries of an
// expression, where 1 <= k <= size.
func NewSumSmallest(arg Expr, k uint) *SumSmallest {
	checkCount(KindSumSmallest, arg, k)
	return &SumSmallest{atom{[]Expr{arg}, Scalar}, k}
}

// Count returns the number of entries summed.
func (e *SumSmallest) Count() uint { return e.k }

// Kind implementation for the Expr interface.
func (e *SumSmallest) Kind() Kind { return KindSumSmallest }

// Eval implementation for the Expr interface.
func (e *SumSmallest) Eval(env Env) (*mat.Dense, error) {
	val, err := e.args[0].Eval(env)
	if err != nil {
		return nil, err
	}
	//
	return mat.NewDense(1, 1, []float64{sumSmallest(Entries(val), e.k)}), nil
}

// Copy implementation for the Expr interface.
func (e *SumSmallest) Copy(args []Expr) Expr {
	checkArity(KindSumSmallest, args, 1)
	return NewSumSmallest(args[0], e.k)
}

// Lisp implementation for the Expr interface.
func (e *SumSmallest) Lisp() sexp.SExp { return lispOf(KindSumSmallest, e.args, float64(e.k)) }

func checkCount(kind Kind, arg Expr, k uint) {
	if k == 0 || k > arg.Shape().Size() {
		panic(parameterError("%s expects 1 <= k <= %d, got %d", kind, arg.Shape().Size(), k))
	}
}
