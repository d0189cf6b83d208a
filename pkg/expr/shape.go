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

import "fmt"

// Shape captures the dimensions of an expression.  Scalars are 1x1 and
// vectors are column vectors (n x 1).
type Shape struct {
	Rows uint
	Cols uint
}

// Scalar is the shape of a scalar expression.
var Scalar = Shape{1, 1}

// Vector returns the shape of a column vector with n entries.
func Vector(n uint) Shape {
	return Shape{n, 1}
}

// Matrix returns the shape of an m x n matrix.
func Matrix(m, n uint) Shape {
	return Shape{m, n}
}

// IsScalar determines whether this shape describes a single value.
func (s Shape) IsScalar() bool {
	return s.Rows == 1 && s.Cols == 1
}

// IsSquare determines whether this shape has as many rows as columns.
func (s Shape) IsSquare() bool {
	return s.Rows == s.Cols
}

// Size returns the number of entries in an expression of this shape.
func (s Shape) Size() uint {
	return s.Rows * s.Cols
}

func (s Shape) String() string {
	return fmt.Sprintf("%dx%d", s.Rows, s.Cols)
}

// ShapeError is the panic value raised when constructing an expression whose
// arguments have incompatible shapes.
type ShapeError struct {
	msg string
}

func (e *ShapeError) Error() string {
	return e.msg
}

func shapeError(format string, args ...any) *ShapeError {
	return &ShapeError{fmt.Sprintf(format, args...)}
}

// Broadcast determines the shape resulting from combining a set of operands
// elementwise.  Scalars combine with anything, otherwise all shapes must
// match.
func Broadcast(shapes ...Shape) (Shape, bool) {
	var result = Scalar
	//
	for _, s := range shapes {
		if s.IsScalar() {
			continue
		} else if result.IsScalar() {
			result = s
		} else if result != s {
			return Shape{}, false
		}
	}
	//
	return result, true
}

func broadcastArgs(kind Kind, args []Expr) Shape {
	shapes := make([]Shape, len(args))
	//
	for i, arg := range args {
		shapes[i] = arg.Shape()
	}
	//
	shape, ok := Broadcast(shapes...)
	if !ok {
		panic(shapeError("incompatible shapes %v for %s", shapes, kind))
	}
	//
	return shape
}

// ParameterError is the panic value raised when constructing an expression
// with an invalid constant parameter (e.g. a non-positive norm order).
type ParameterError struct {
	msg string
}

func (e *ParameterError) Error() string {
	return e.msg
}

func parameterError(format string, args ...any) *ParameterError {
	return &ParameterError{fmt.Sprintf(format, args...)}
}
