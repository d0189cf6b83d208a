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
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Entries returns the entries of a matrix in row-major order.
func Entries(m mat.Matrix) []float64 {
	var (
		r, c = m.Dims()
		data = make([]float64, 0, r*c)
	)
	//
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			data = append(data, m.At(i, j))
		}
	}
	//
	return data
}

// NewDense constructs a matrix of a given shape from entries given in
// row-major order.  If data is nil, a zero matrix is returned.
func NewDense(shape Shape, data []float64) *mat.Dense {
	return mat.NewDense(int(shape.Rows), int(shape.Cols), data)
}

// Fill constructs a matrix of the given shape with every entry set to v.
func Fill(shape Shape, v float64) *mat.Dense {
	data := make([]float64, shape.Size())
	//
	for i := range data {
		data[i] = v
	}
	//
	return NewDense(shape, data)
}

// Read the (i,j)th entry of a value which may be a broadcast scalar.
func entryAt(m *mat.Dense, i, j int) float64 {
	if r, c := m.Dims(); r == 1 && c == 1 {
		return m.At(0, 0)
	}
	//
	return m.At(i, j)
}

// Combine a set of values elementwise into a value of the given shape, where
// scalar values are broadcast.
func elementwise(shape Shape, vals []*mat.Dense, fn func([]float64) float64) *mat.Dense {
	var (
		r, c = int(shape.Rows), int(shape.Cols)
		res  = mat.NewDense(r, c, nil)
		xs   = make([]float64, len(vals))
	)
	//
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			for k, v := range vals {
				xs[k] = entryAt(v, i, j)
			}
			//
			res.Set(i, j, fn(xs))
		}
	}
	//
	return res
}

// Apply a unary function to every entry of a given value.
func mapEntries(m *mat.Dense, fn func(float64) float64) *mat.Dense {
	var res mat.Dense
	//
	res.Apply(func(_, _ int, v float64) float64 { return fn(v) }, m)
	//
	return &res
}

func product(xs []float64) float64 {
	p := 1.0
	//
	for _, x := range xs {
		p *= x
	}
	//
	return p
}

// Sum of the k largest entries of a given array.
func sumLargest(xs []float64, k uint) float64 {
	sorted := sortedCopy(xs)
	return floats.Sum(sorted[len(sorted)-int(k):])
}

// Sum of the k smallest entries of a given array.
func sumSmallest(xs []float64, k uint) float64 {
	sorted := sortedCopy(xs)
	return floats.Sum(sorted[:k])
}

// Log of the sum of the exponentials of the k largest entries of a given
// array.  Since exp is increasing these are exactly the k largest exponentials.
func logSumLargest(xs []float64, k uint) float64 {
	sorted := sortedCopy(xs)
	return logSumExp(sorted[len(sorted)-int(k):])
}

func sortedCopy(xs []float64) []float64 {
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	//
	return sorted
}

func pnorm(xs []float64, p float64) float64 {
	var sum float64
	//
	for _, x := range xs {
		sum += math.Pow(math.Abs(x), p)
	}
	//
	return math.Pow(sum, 1/p)
}

// Determine the sign of a constant value: +1 if all entries are non-negative,
// -1 if all entries are non-positive and 0 otherwise.  The zero matrix is
// considered non-negative.
func signOf(m *mat.Dense) int {
	var pos, neg bool
	//
	for _, v := range Entries(m) {
		pos = pos || v > 0
		neg = neg || v < 0
	}
	//
	switch {
	case !neg:
		return 1
	case !pos:
		return -1
	default:
		return 0
	}
}
