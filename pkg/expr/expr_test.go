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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

const delta = 1e-9

// ============================================================================
// Evaluation
// ============================================================================

func Test_Eval_Add(t *testing.T) {
	x := NewPositiveVariable("x", Vector(2))
	e := NewAdd(x, NewScalar(1))
	checkEval(t, e, Env{x.ID(): vec(1, 2)}, 2, 3)
}

func Test_Eval_MultiplyDiv(t *testing.T) {
	x := NewPositiveVariable("x", Scalar)
	y := NewPositiveVariable("y", Scalar)
	env := Env{x.ID(): vec(3), y.ID(): vec(4)}
	//
	checkEval(t, NewMultiply(x, y, NewScalar(2)), env, 24)
	checkEval(t, NewDiv(x, y), env, 0.75)
}

func Test_Eval_MatMul(t *testing.T) {
	a := NewConstant(mat.NewDense(2, 2, []float64{1, 2, 3, 4}))
	x := NewPositiveVariable("x", Vector(2))
	e := NewMatMul(a, x)
	//
	assert.Equal(t, Vector(2), e.Shape())
	checkEval(t, e, Env{x.ID(): vec(1, 1)}, 3, 7)
}

func Test_Eval_Power(t *testing.T) {
	x := NewPositiveVariable("x", Scalar)
	checkEval(t, NewPower(x, 0.5), Env{x.ID(): vec(9)}, 3)
	checkEval(t, NewPower(x, -1), Env{x.ID(): vec(4)}, 0.25)
}

func Test_Eval_MaxMin(t *testing.T) {
	x := NewPositiveVariable("x", Vector(3))
	env := Env{x.ID(): vec(1, 5, 3)}
	//
	checkEval(t, NewMaximum(x, NewScalar(2)), env, 2, 5, 3)
	checkEval(t, NewMinimum(x, NewScalar(2)), env, 1, 2, 2)
}

func Test_Eval_GeoMean(t *testing.T) {
	x := NewPositiveVariable("x", Vector(2))
	env := Env{x.ID(): vec(2, 8)}
	//
	checkEval(t, NewGeoMean(x), env, 4)
	checkEval(t, NewGeoMean(x, 1, 2), env, math.Pow(2, 1.0/3)*math.Pow(8, 2.0/3))
}

func Test_Eval_EyeMinusInv(t *testing.T) {
	x := NewPositiveVariable("X", Matrix(2, 2))
	env := Env{x.ID(): mat.NewDense(2, 2, []float64{0.5, 0, 0, 0.75})}
	checkEval(t, NewEyeMinusInv(x), env, 2, 0, 0, 4)
}

func Test_Eval_Reductions(t *testing.T) {
	x := NewPositiveVariable("x", Vector(4))
	env := Env{x.ID(): vec(1, 4, 2, 3)}
	//
	checkEval(t, NewSum(x), env, 10)
	checkEval(t, NewSumLargest(x, 2), env, 7)
	checkEval(t, NewSumSmallest(x, 2), env, 3)
	checkEval(t, NewPnorm(x, 2), env, math.Sqrt(30))
	checkEval(t, NewCumsum(x), env, 1, 5, 7, 10)
}

func Test_Eval_TraceDiag(t *testing.T) {
	x := NewPositiveVariable("X", Matrix(2, 2))
	env := Env{x.ID(): mat.NewDense(2, 2, []float64{1, 2, 3, 4})}
	//
	checkEval(t, NewTrace(x), env, 5)
	checkEval(t, NewDiag(x), env, 1, 4)
}

func Test_Eval_LogSpace(t *testing.T) {
	x := NewVariable("x", Vector(2))
	y := NewVariable("y", Vector(2))
	env := Env{x.ID(): vec(math.Log(2), math.Log(3)), y.ID(): vec(math.Log(5), math.Log(7))}
	//
	checkEval(t, NewLogAddExp(x, y), env, math.Log(7), math.Log(10))
	checkEval(t, NewLogSumExp(x), env, math.Log(5))
	checkEval(t, NewLogSumLargest(NewAdd(x, y), 1), env, math.Log(21))
}

func Test_Eval_LogMatMul(t *testing.T) {
	var (
		a   = mat.NewDense(2, 2, []float64{1, 2, 3, 4})
		b   = mat.NewDense(2, 1, []float64{5, 6})
		lhs = NewConstant(logOf(a))
		rhs = NewConstant(logOf(b))
		e   = NewLogMatMul(lhs, rhs)
	)
	//
	checkEval(t, e, nil, math.Log(17), math.Log(39))
}

func Test_Eval_LogAddExp_NegInf(t *testing.T) {
	e := NewLogAddExp(NewScalar(math.Inf(-1)), NewScalar(math.Log(3)))
	checkEval(t, e, nil, math.Log(3))
	//
	e = NewLogAddExp(NewScalar(math.Inf(-1)), NewScalar(math.Inf(-1)))
	val, err := e.Eval(nil)
	require.NoError(t, err)
	assert.True(t, math.IsInf(val.At(0, 0), -1))
}

func Test_Eval_NoValue(t *testing.T) {
	x := NewPositiveVariable("x", Scalar)
	_, err := NewExp(x).Eval(nil)
	assert.ErrorIs(t, err, ErrNoValue)
}

func Test_Eval_InstalledValue(t *testing.T) {
	x := NewPositiveVariable("x", Scalar)
	require.NoError(t, x.SetValue(vec(2)))
	//
	v, err := Value(NewAdd(x, NewPower(x, -1)))
	require.NoError(t, err)
	assert.InDelta(t, 2.5, v, delta)
	// environment takes precedence
	checkEval(t, x, Env{x.ID(): vec(3)}, 3)
	//
	x.ClearValue()
	assert.Nil(t, x.Value())
}

func Test_SetValue_WrongShape(t *testing.T) {
	x := NewPositiveVariable("x", Vector(2))
	assert.Error(t, x.SetValue(vec(1, 2, 3)))
}

// ============================================================================
// Shapes
// ============================================================================

func Test_Shape_Broadcast(t *testing.T) {
	s, ok := Broadcast(Scalar, Vector(3), Scalar)
	assert.True(t, ok)
	assert.Equal(t, Vector(3), s)
	//
	_, ok = Broadcast(Vector(3), Vector(2))
	assert.False(t, ok)
}

func Test_Shape_Panics(t *testing.T) {
	x := NewVariable("x", Vector(3))
	y := NewVariable("y", Vector(2))
	//
	assert.Panics(t, func() { NewAdd(x, y) })
	assert.Panics(t, func() { NewMatMul(x, y) })
	assert.Panics(t, func() { NewTrace(x) })
	assert.Panics(t, func() { NewMaximum() })
	assert.Panics(t, func() { NewSumLargest(x, 4) })
	assert.Panics(t, func() { NewPnorm(x, 0) })
	assert.Panics(t, func() { NewGeoMean(x, 1, 2) })
}

// ============================================================================
// Structure
// ============================================================================

func Test_Lisp(t *testing.T) {
	x := NewPositiveVariable("x", Scalar)
	y := NewPositiveVariable("y", Scalar)
	//
	assert.Equal(t, "(+ x (^ y -1))", String(NewAdd(x, NewPower(y, -1))))
	assert.Equal(t, "(sum-largest (* x 2) 1)", String(NewSumLargest(NewMultiply(x, NewScalar(2)), 1)))
	assert.Equal(t, "(matrix (1 2) (3 4))", String(NewConstant(mat.NewDense(2, 2, []float64{1, 2, 3, 4}))))
}

func Test_Copy_PreservesParameters(t *testing.T) {
	x := NewPositiveVariable("x", Vector(3))
	y := NewPositiveVariable("y", Vector(3))
	//
	for _, e := range []Expr{NewPower(x, 2.5), NewPnorm(x, 3), NewSumLargest(x, 2), NewGeoMean(x, 1, 2, 3)} {
		c := e.Copy([]Expr{y})
		assert.Equal(t, e.Kind(), c.Kind())
		assert.Equal(t, String(e), String(c.Copy([]Expr{x})))
		assert.Same(t, y, c.Args()[0])
	}
}

func Test_Variables(t *testing.T) {
	x := NewPositiveVariable("x", Scalar)
	y := NewPositiveVariable("y", Scalar)
	e := NewAdd(NewMultiply(y, x), NewPower(y, 2), x)
	//
	vars := Variables(e)
	require.Len(t, vars, 2)
	assert.Same(t, y, vars[0])
	assert.Same(t, x, vars[1])
}

func Test_KindOf(t *testing.T) {
	for k := Kind(0); k < NumKinds; k++ {
		kind, ok := KindOf(k.String())
		assert.True(t, ok)
		assert.Equal(t, k, kind)
	}
	//
	_, ok := KindOf("sqrt")
	assert.False(t, ok)
}

// ============================================================================
// Helpers
// ============================================================================

func checkEval(t *testing.T, e Expr, env Env, expected ...float64) {
	t.Helper()
	//
	val, err := e.Eval(env)
	require.NoError(t, err)
	//
	actual := Entries(val)
	require.Len(t, actual, len(expected))
	//
	for i := range expected {
		assert.InDelta(t, expected[i], actual[i], delta, "entry %d", i)
	}
}

func vec(xs ...float64) *mat.Dense {
	return mat.NewDense(len(xs), 1, xs)
}

func logOf(m *mat.Dense) *mat.Dense {
	return mapEntries(m, math.Log)
}
