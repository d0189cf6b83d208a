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
package gp2dcp

import (
	"math"
	"testing"

	"github.com/consensys/go-dgp/pkg/expr"
	"github.com/consensys/go-dgp/pkg/problem"
	"github.com/consensys/go-dgp/pkg/reduction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

const tolerance = 1e-9

// Positive variables, and the values at which rules are checked.
var (
	x  = expr.NewPositiveVariable("x", expr.Vector(3))
	y  = expr.NewPositiveVariable("y", expr.Vector(3))
	v  = expr.NewPositiveVariable("v", expr.Vector(2))
	s  = expr.NewPositiveVariable("s", expr.Scalar)
	X  = expr.NewPositiveVariable("X", expr.Matrix(2, 2))
	xs = expr.Env{
		x.ID(): column(0.5, 2, 3),
		y.ID(): column(1.5, 0.25, 4),
		v.ID(): column(2, 5),
		s.ID(): column(0.3),
		X.ID(): mat.NewDense(2, 2, []float64{0.1, 0.2, 0.3, 0.4}),
	}
)

func Test_Rule_01(t *testing.T) {
	check_Rule(t, expr.NewConstant(column(2, 3)), xs)
}

func Test_Rule_02(t *testing.T) {
	check_Rule(t, expr.NewAdd(x, y, expr.NewScalar(2)), xs)
}

func Test_Rule_03(t *testing.T) {
	check_Rule(t, expr.NewAdd(x), xs)
}

func Test_Rule_04(t *testing.T) {
	check_Rule(t, expr.NewMultiply(x, y, expr.NewScalar(3)), xs)
}

func Test_Rule_05(t *testing.T) {
	check_Rule(t, expr.NewDiv(x, y), xs)
}

func Test_Rule_06(t *testing.T) {
	check_Rule(t, expr.NewMatMul(X, v), xs)
}

func Test_Rule_07(t *testing.T) {
	check_Rule(t, expr.NewExp(x), xs)
}

func Test_Rule_08(t *testing.T) {
	// log(x) is only positive for x > 1
	env := expr.Env{x.ID(): column(1.5, 2, 3)}
	check_Rule(t, expr.NewLog(x), env)
}

func Test_Rule_09(t *testing.T) {
	check_Rule(t, expr.NewPower(x, -1.5), xs)
}

func Test_Rule_10(t *testing.T) {
	check_Rule(t, expr.NewGeoMean(x, 1, 2, 3), xs)
}

func Test_Rule_11(t *testing.T) {
	check_Rule(t, expr.NewGeoMean(X), xs)
}

func Test_Rule_12(t *testing.T) {
	check_Rule(t, expr.NewOneMinus(s), xs)
}

func Test_Rule_13(t *testing.T) {
	check_Rule(t, expr.NewPnorm(x, 3), xs)
}

func Test_Rule_14(t *testing.T) {
	check_Rule(t, expr.NewPnorm(x, 0.5), xs)
}

func Test_Rule_15(t *testing.T) {
	check_Rule(t, expr.NewSumLargest(x, 2), xs)
}

func Test_Rule_16(t *testing.T) {
	check_Rule(t, expr.NewTrace(X), xs)
}

func Test_Rule_17(t *testing.T) {
	check_Rule(t, expr.NewSum(X), xs)
}

func Test_Rule_18(t *testing.T) {
	// a posynomial
	e := expr.NewAdd(expr.NewMultiply(expr.NewScalar(3), expr.NewPower(s, 0.4)), expr.NewDiv(expr.NewScalar(2), s))
	check_Rule(t, e, xs)
}

func Test_Rule_Maximum(t *testing.T) {
	e := expr.NewMaximum(x, y, expr.NewScalar(1))
	canon, constraints := rewrite(t, e)
	// result is a fresh variable bounding every argument
	tvar, ok := canon.(*expr.Variable)
	require.True(t, ok)
	require.Len(t, constraints, 3)
	//
	for _, c := range constraints {
		assert.Same(t, tvar, c.Rhs())
		assert.True(t, c.IsDCP())
	}
	// feasible, and tight, at log(max(x, y, 1))
	env := logEnv(xs)
	env[tvar.ID()] = column(math.Log(1.5), math.Log(2), math.Log(4))
	//
	for _, c := range constraints {
		violation, err := c.Violation(env)
		require.NoError(t, err)
		assert.Zero(t, violation)
	}
	//
	env[tvar.ID()] = column(math.Log(1.5), math.Log(2), math.Log(3.9))
	violation, err := constraints[1].Violation(env)
	require.NoError(t, err)
	assert.Greater(t, violation, 0.0)
}

func Test_Rule_EyeMinusInv(t *testing.T) {
	var inv mat.Dense
	//
	canon, constraints := rewrite(t, expr.NewEyeMinusInv(X))
	yvar, ok := canon.(*expr.Variable)
	require.True(t, ok)
	require.Len(t, constraints, 1)
	assert.True(t, constraints[0].IsDCP())
	// (I - X)^-1 satisfies the constraint with equality
	eyeMinus := mat.NewDense(2, 2, []float64{0.9, -0.2, -0.3, 0.6})
	require.NoError(t, inv.Inverse(eyeMinus))
	//
	env := logEnv(xs)
	env[yvar.ID()] = logOf(&inv)
	//
	residual, err := constraints[0].Residual(env)
	require.NoError(t, err)
	//
	for _, r := range expr.Entries(residual) {
		assert.InDelta(t, 0, r, tolerance)
	}
	// whilst anything smaller does not
	inv.Scale(0.99, &inv)
	env[yvar.ID()] = logOf(&inv)
	//
	violation, err := constraints[0].Violation(env)
	require.NoError(t, err)
	assert.Greater(t, violation, 0.0)
}

func Test_Rule_Unsupported(t *testing.T) {
	registry := NewRegistry()
	//
	for _, e := range []expr.Expr{expr.NewMinimum(x, y), expr.NewSumSmallest(x, 2), expr.NewCumsum(x)} {
		_, err := registry.Lookup(e.Kind())
		assert.ErrorIs(t, err, ErrUnsupportedAtomKind)
		assert.Contains(t, err.Error(), e.Kind().String())
	}
	// variables are never handled by the registry itself
	_, err := registry.Lookup(expr.KindVariable)
	assert.ErrorIs(t, err, ErrUnsupportedAtomKind)
}

func Test_Registry_Register(t *testing.T) {
	registry := NewRegistry()
	//
	assert.Panics(t, func() { registry.Register(expr.KindVariable, reduction.PassThrough) })
	// cumsum(x) => log(cumsum(exp(u)))
	registry.Register(expr.KindCumsum, func(_ expr.Expr, args []expr.Expr) (expr.Expr, []*problem.Constraint) {
		return expr.NewLog(expr.NewCumsum(expr.NewExp(args[0]))), nil
	})
	//
	rule, err := registry.Lookup(expr.KindCumsum)
	require.NoError(t, err)
	assert.NotNil(t, rule)
}

// Check a rule is value preserving, and maps log-log curvature to curvature.
func check_Rule(t *testing.T, e expr.Expr, env expr.Env) {
	t.Helper()
	//
	canon, constraints := rewrite(t, e)
	assert.Empty(t, constraints)
	// curvature
	check_Curvature(t, expr.LogLogCurvatureOf(e), expr.CurvatureOf(canon))
	// value
	expected, err := e.Eval(env)
	require.NoError(t, err)
	//
	actual, err := canon.Eval(logEnv(env))
	require.NoError(t, err)
	//
	assert.Equal(t, e.Shape(), canon.Shape())
	//
	want, got := expr.Entries(expected), expr.Entries(actual)
	for i := range want {
		assert.InDelta(t, want[i], math.Exp(got[i]), tolerance*math.Max(1, want[i]), "entry %d", i)
	}
}

func check_Curvature(t *testing.T, loglog expr.Curvature, curvature expr.Curvature) {
	t.Helper()
	//
	switch loglog {
	case expr.ConstantCurvature:
		assert.True(t, curvature.IsConstant(), "expected constant, got %s", curvature)
	case expr.AffineCurvature:
		assert.True(t, curvature.IsAffine(), "expected affine, got %s", curvature)
	case expr.ConvexCurvature:
		assert.True(t, curvature.IsConvex(), "expected convex, got %s", curvature)
	case expr.ConcaveCurvature:
		assert.True(t, curvature.IsConcave(), "expected concave, got %s", curvature)
	default:
		t.Errorf("expression is not log-log curved")
	}
}

func rewrite(t *testing.T, e expr.Expr) (expr.Expr, []*problem.Constraint) {
	t.Helper()
	//
	cache := NewVariableCache(NewRegistry())
	//
	canon, constraints, err := reduction.NewCanonicalization("test", cache).CanonicalizeTree(e)
	require.NoError(t, err)
	//
	return canon, constraints
}

func logEnv(env expr.Env) expr.Env {
	res := make(expr.Env)
	//
	for id, val := range env {
		res[id] = logOf(val)
	}
	//
	return res
}

func logOf(m *mat.Dense) *mat.Dense {
	var res mat.Dense
	res.Apply(func(_, _ int, v float64) float64 { return math.Log(v) }, m)
	//
	return &res
}

func column(vals ...float64) *mat.Dense {
	return mat.NewDense(len(vals), 1, vals)
}
