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
	"gonum.org/v1/gonum/mat"
)

// Constant represents a fixed (scalar, vector or matrix) value.
type Constant struct {
	value *mat.Dense
	shape Shape
}

// NOTE: This is used for compile time type checking if the given type
// satisfies the given interface.
var _ Expr = (*Constant)(nil)

// NewConstant constructs a constant holding a copy of the given value.
func NewConstant(value mat.Matrix) *Constant {
	r, c := value.Dims()
	//
	return &Constant{mat.DenseCopyOf(value), Shape{uint(r), uint(c)}}
}

// NewScalar constructs a scalar constant.
func NewScalar(v float64) *Constant {
	return &Constant{mat.NewDense(1, 1, []float64{v}), Scalar}
}

// NewFilled constructs a constant of a given shape whose entries all hold the
// same value.
func NewFilled(shape Shape, v float64) *Constant {
	return &Constant{Fill(shape, v), shape}
}

// Kind implementation for the Expr interface.
func (c *Constant) Kind() Kind { return KindConstant }

// Args implementation for the Expr interface.
func (c *Constant) Args() []Expr { return nil }

// Shape implementation for the Expr interface.
func (c *Constant) Shape() Shape { return c.shape }

// Value returns the value of this constant.  The result must not be modified.
func (c *Constant) Value() *mat.Dense { return c.value }

// ScalarValue returns the value of this constant when it is a scalar.
func (c *Constant) ScalarValue() (float64, bool) {
	if c.shape.IsScalar() {
		return c.value.At(0, 0), true
	}
	//
	return 0, false
}

// IsPositive determines whether every entry of this constant is strictly
// positive.
func (c *Constant) IsPositive() bool {
	for _, v := range Entries(c.value) {
		if v <= 0 {
			return false
		}
	}
	//
	return true
}

// Eval implementation for the Expr interface.
func (c *Constant) Eval(Env) (*mat.Dense, error) { return c.value, nil }

// Copy implementation for the Expr interface.
func (c *Constant) Copy([]Expr) Expr { return c }

// Lisp implementation for the Expr interface.  Scalars are written as
// numbers, and everything else as a (matrix ...) literal.
func (c *Constant) Lisp() sexp.SExp {
	if v, ok := c.ScalarValue(); ok {
		return sexp.NewNumber(v)
	}
	//
	rows := []sexp.SExp{sexp.NewSymbol("matrix")}
	//
	for i := 0; i < int(c.shape.Rows); i++ {
		row := make([]sexp.SExp, c.shape.Cols)
		for j := range row {
			row[j] = sexp.NewNumber(c.value.At(i, j))
		}
		//
		rows = append(rows, sexp.NewList(row...))
	}
	//
	return sexp.NewList(rows...)
}
