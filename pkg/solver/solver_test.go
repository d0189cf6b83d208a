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
	"math"
	"testing"

	"github.com/consensys/go-dgp/pkg/expr"
	"github.com/consensys/go-dgp/pkg/problem"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-4

func Test_Solve_Unconstrained(t *testing.T) {
	x := expr.NewVariable("x", expr.Scalar)
	// exp(x) + exp(-x) is minimised at zero
	p := problem.New(expr.NewAdd(expr.NewExp(x), expr.NewExp(expr.NewNeg(x))))
	//
	sol := check_Solve(t, p, 2)
	assert.InDelta(t, 0, sol.PrimalVars[x.ID()].At(0, 0), tolerance)
}

func Test_Solve_Inequality(t *testing.T) {
	x := expr.NewVariable("x", expr.Scalar)
	c := problem.NewInequality(expr.NewScalar(1), x)
	p := problem.New(expr.NewExp(x), c)
	//
	sol := check_Solve(t, p, math.E)
	assert.InDelta(t, 1, sol.PrimalVars[x.ID()].At(0, 0), tolerance)
	// multiplier of an active bound matches the gradient of the objective
	require.Contains(t, sol.DualVars, c.ID())
	assert.InDelta(t, math.E, sol.DualVars[c.ID()].At(0, 0), 1e-2)
}

func Test_Solve_Equality(t *testing.T) {
	x := expr.NewVariable("x", expr.Scalar)
	y := expr.NewVariable("y", expr.Scalar)
	// minimise exp(x) + exp(y) on the line x + y = 0
	p := problem.New(expr.NewAdd(expr.NewExp(x), expr.NewExp(y)),
		problem.NewEquality(expr.NewAdd(x, y), expr.NewScalar(0)))
	//
	sol := check_Solve(t, p, 2)
	assert.InDelta(t, 0, sol.PrimalVars[x.ID()].At(0, 0), tolerance)
	assert.InDelta(t, 0, sol.PrimalVars[y.ID()].At(0, 0), tolerance)
}

func Test_Solve_Vector(t *testing.T) {
	x := expr.NewVariable("x", expr.Vector(2))
	c := problem.NewInequality(expr.NewConstant(expr.NewDense(expr.Vector(2), []float64{1, 2})), x)
	p := problem.New(expr.NewSum(expr.NewExp(x)), c)
	//
	sol := check_Solve(t, p, math.E+math.Exp(2))
	assert.InDelta(t, 1, sol.PrimalVars[x.ID()].At(0, 0), tolerance)
	assert.InDelta(t, 2, sol.PrimalVars[x.ID()].At(1, 0), tolerance)
	assert.Equal(t, 2, sol.DualVars[c.ID()].RawMatrix().Rows)
}

func Test_Solve_Infeasible(t *testing.T) {
	x := expr.NewVariable("x", expr.Scalar)
	p := problem.New(x, problem.NewInequality(x, expr.NewScalar(1)), problem.NewInequality(expr.NewScalar(2), x))
	//
	sol, err := New(DefaultConfig()).Solve(p)
	require.NoError(t, err)
	assert.Equal(t, problem.Infeasible, sol.Status)
	assert.True(t, math.IsInf(sol.OptVal, 1))
	assert.Empty(t, sol.PrimalVars)
}

func Test_Solve_NotDCP(t *testing.T) {
	x := expr.NewVariable("x", expr.Scalar)
	// minimising a concave function
	p := problem.New(expr.NewLog(x))
	//
	s := New(DefaultConfig())
	assert.False(t, s.Accepts(p))
	//
	_, err := s.Solve(p)
	assert.True(t, errors.Is(err, ErrNotDCP))
}

func Test_Lagrangian_GradientNorm(t *testing.T) {
	x := expr.NewVariable("x", expr.Scalar)
	// smooth objective at its minimum
	smooth := newLagrangian(problem.New(expr.NewAdd(expr.NewExp(x), expr.NewExp(expr.NewNeg(x)))), 10)
	assert.InDelta(t, 0, smooth.gradientNorm([]float64{0}), 1e-8)
	// kink of max(x, 2x - 1) at x = 1
	kinked := expr.NewMaximum(x, expr.NewAdd(expr.NewMultiply(expr.NewScalar(2), x), expr.NewScalar(-1)))
	lag := newLagrangian(problem.New(kinked), 10)
	assert.InDelta(t, 1.5, lag.gradientNorm([]float64{1}), 1e-6)
	// no variables
	empty := newLagrangian(problem.New(expr.NewScalar(1)), 10)
	assert.Equal(t, 0.0, empty.gradientNorm(nil))
}

func Test_Layout(t *testing.T) {
	x := expr.NewVariable("x", expr.Scalar)
	y := expr.NewVariable("y", expr.Matrix(2, 2))
	l := newLayout([]*expr.Variable{x, y})
	//
	require.Equal(t, 5, l.size)
	//
	z := []float64{1, 2, 3, 4, 5}
	env := l.env(z)
	assert.Equal(t, 1.0, env[x.ID()].At(0, 0))
	assert.Equal(t, 3.0, env[y.ID()].At(0, 1))
	assert.Equal(t, 4.0, env[y.ID()].At(1, 0))
	// values are copies
	vals := l.values(z)
	z[4] = 0
	assert.Equal(t, 5.0, vals[y.ID()].At(1, 1))
	assert.Equal(t, 0.0, env[y.ID()].At(1, 1))
}

func check_Solve(t *testing.T, p *problem.Problem, optval float64) *problem.Solution {
	t.Helper()
	//
	sol, err := New(DefaultConfig()).Solve(p)
	require.NoError(t, err)
	require.True(t, sol.Status.SolutionPresent(), "unexpected status %s", sol.Status)
	assert.InDelta(t, optval, sol.OptVal, tolerance)
	//
	return sol
}
