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
package solver

import (
	"github.com/consensys/go-dgp/pkg/expr"
	"gonum.org/v1/gonum/mat"
)

// Layout of the variables of a problem within a flat vector, with each
// variable occupying a contiguous block of entries in row-major order.
type layout struct {
	vars    []*expr.Variable
	offsets []int
	size    int
}

func newLayout(vars []*expr.Variable) *layout {
	var (
		offsets = make([]int, len(vars))
		size    int
	)
	//
	for i, v := range vars {
		offsets[i] = size
		size += int(v.Shape().Size())
	}
	//
	return &layout{vars, offsets, size}
}

// Construct an environment viewing a given flat vector.  The environment
// aliases the vector, so it must not outlive it.
func (l *layout) env(z []float64) expr.Env {
	env := make(expr.Env, len(l.vars))
	//
	for i, v := range l.vars {
		var (
			shape = v.Shape()
			start = l.offsets[i]
			end   = start + int(shape.Size())
		)
		//
		env[v.ID()] = mat.NewDense(int(shape.Rows), int(shape.Cols), z[start:end:end])
	}
	//
	return env
}

// Extract the values of all variables from a flat vector, as copies.
func (l *layout) values(z []float64) map[expr.VarID]*mat.Dense {
	values := make(map[expr.VarID]*mat.Dense, len(l.vars))
	//
	for id, val := range l.env(z) {
		values[id] = mat.DenseCopyOf(val)
	}
	//
	return values
}
