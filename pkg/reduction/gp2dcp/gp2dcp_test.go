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
	"strings"
	"testing"

	"github.com/consensys/go-dgp/pkg/expr"
	"github.com/consensys/go-dgp/pkg/problem"
	"github.com/consensys/go-dgp/pkg/sexp"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

const example = `
(variable x positive)
(variable y positive)
(variable z positive)
(minimize (+ (* 3 (^ x 0.4) (^ y 0.2) (^ z -1.4)) (* 2 x y)))
(subject-to (== (* 3 (^ x 0.4) (^ y 0.2) (^ z -1.4)) 4))`

func Test_Apply_Example(t *testing.T) {
	p := parse(t, example)
	//
	q, _, err := New().Apply(p)
	require.NoError(t, err)
	//
	monomial := "(+ " + num(math.Log(3)) + " (* 0.4 x) (* 0.2 y) (* -1.4 z))"
	check_Problem(t, q,
		"(variable x)",
		"(variable y)",
		"(variable z)",
		"(minimize (log-add-exp "+monomial+" (+ "+num(math.Log(2))+" x y)))",
		"(subject-to (== "+monomial+" "+num(math.Log(4))+"))")
	// objective is a log-sum-exp of affine forms, constraint is affine
	assert.True(t, q.IsDCP())
	assert.Equal(t, expr.KindLogAddExp, q.Objective().Kind())
	//
	for _, arg := range q.Objective().Args() {
		assert.Equal(t, expr.AffineCurvature, expr.CurvatureOf(arg))
	}
	//
	require.Len(t, q.Constraints(), 1)
	assert.Equal(t, problem.Equal, q.Constraints()[0].Relation())
	assert.Equal(t, expr.AffineCurvature, expr.CurvatureOf(q.Constraints()[0].Expr()))
}

func Test_Invert_Example(t *testing.T) {
	p := parse(t, example)
	vars := p.Variables()
	//
	q, data, err := New().Apply(p)
	require.NoError(t, err)
	// x = y = 1, and 3 z^-1.4 = 4
	sol := problem.NewSolution(problem.Optimal, 0)
	sol.PrimalVars[vars[0].ID()] = scalar(0)
	sol.PrimalVars[vars[1].ID()] = scalar(0)
	sol.PrimalVars[vars[2].ID()] = scalar(math.Log(0.75) / 1.4)
	//
	res, err := New().Invert(sol, data)
	require.NoError(t, err)
	assert.Equal(t, problem.Optimal, res.Status)
	assert.InDelta(t, 1, res.PrimalVars[vars[0].ID()].At(0, 0), tolerance)
	assert.InDelta(t, 1, res.PrimalVars[vars[1].ID()].At(0, 0), tolerance)
	assert.InDelta(t, math.Pow(0.75, 1/1.4), res.PrimalVars[vars[2].ID()].At(0, 0), tolerance)
	// recovered from the original objective: 3 z^-1.4 + 2 = 4 + 2
	assert.InDelta(t, 6, res.OptVal, tolerance)
	// original constraint holds
	violation, err := p.Constraints()[0].Violation(expr.Env(res.PrimalVars))
	require.NoError(t, err)
	assert.InDelta(t, 0, violation, tolerance)
	// original problem retains no solution
	for _, v := range vars {
		assert.Nil(t, v.Value())
	}
	//
	assert.Nil(t, p.Solution())
	// the rewritten problem is independent of the original
	assert.NotSame(t, p.Objective(), q.Objective())
}

func Test_Apply_IdentitySharing(t *testing.T) {
	p := parse(t, `
(variable x positive)
(variable y positive)
(minimize (+ (* x y) (/ x y) (^ x 2)))
(subject-to (<= (* x x) 4) (== (* x y) 2) (<= 1 y))`)
	//
	q, data, err := New().Apply(p)
	require.NoError(t, err)
	// one log-space variable per original, with the same identifier
	orig, vars := p.Variables(), q.Variables()
	require.Len(t, vars, len(orig))
	//
	cache := data.(*InverseData).Cache()
	assert.Equal(t, len(orig), cache.Len())
	assert.Same(t, p, data.(*InverseData).Original())
	//
	for i := range orig {
		assert.Equal(t, orig[i].ID(), vars[i].ID())
		assert.Equal(t, orig[i].Shape(), vars[i].Shape())
		assert.False(t, vars[i].IsPositive())
		assert.NotSame(t, orig[i], vars[i])
		//
		u, ok := cache.Variable(orig[i].ID())
		require.True(t, ok)
		assert.Same(t, vars[i], u)
	}
	// every occurrence is the same object
	var exprs []expr.Expr
	//
	exprs = append(exprs, q.Objective())
	for _, c := range q.Constraints() {
		exprs = append(exprs, c.Lhs(), c.Rhs())
	}
	//
	for _, e := range exprs {
		expr.Walk(e, func(node expr.Expr) {
			if v, ok := node.(*expr.Variable); ok {
				u, _ := cache.Variable(v.ID())
				assert.Same(t, u, v)
			}
		})
	}
}

func Test_Apply_RestoresArgs(t *testing.T) {
	p := parse(t, `
(variable x positive)
(variable y positive)
(minimize (+ x y))
(subject-to (<= (* x x) 4) (== (* x y) 2))`)
	//
	before := snapshot(p)
	//
	_, _, err := New().Apply(p)
	require.NoError(t, err)
	assert.Equal(t, before, snapshot(p))
	//
	for _, c := range p.Constraints() {
		require.Len(t, c.Args(), 1)
		assert.Same(t, c.Expr(), c.Args()[0])
	}
}

func Test_Apply_Unsupported(t *testing.T) {
	inputs := []string{
		"(variable x positive)\n(variable y positive)\n(minimize (+ x y))\n(subject-to (<= 1 (min x y)))",
		"(variable x 3 positive)\n(minimize (sum x))\n(subject-to (<= 1 (sum-smallest x 2)))",
		"(variable x 3 positive)\n(minimize (sum (cumsum x)))",
	}
	//
	for _, input := range inputs {
		p := parse(t, input)
		require.True(t, p.IsDGP(), input)
		//
		before := snapshot(p)
		//
		q, data, err := New().Apply(p)
		assert.ErrorIs(t, err, ErrUnsupportedAtomKind)
		assert.Nil(t, q)
		assert.Nil(t, data)
		// constraints are restored even on failure
		assert.Equal(t, before, snapshot(p))
	}
}

func Test_Apply_DisciplineViolation(t *testing.T) {
	p := parse(t, `
(variable x positive)
(variable y)
(minimize (+ x y))
(subject-to (== (+ x 1) 2) (<= 1 x))`)
	//
	before := snapshot(p)
	reduction := New()
	//
	assert.False(t, reduction.Accepts(p))
	//
	q, data, err := reduction.Apply(p)
	assert.ErrorIs(t, err, ErrDisciplineViolation)
	assert.Nil(t, q)
	assert.Nil(t, data)
	assert.Equal(t, before, snapshot(p))
	// objective and first constraint
	var discipline *DisciplineError
	require.True(t, errors.As(err, &discipline))
	assert.Len(t, discipline.Violations(), 2)
}

func Test_Invert_Consumed(t *testing.T) {
	p := parse(t, "(variable x positive)\n(minimize x)\n(subject-to (<= 2 x))")
	reduction := New()
	//
	_, data, err := reduction.Apply(p)
	require.NoError(t, err)
	//
	sol := problem.NewSolution(problem.Optimal, math.Log(2))
	sol.PrimalVars[p.Variables()[0].ID()] = scalar(math.Log(2))
	//
	res, err := reduction.Invert(sol, data)
	require.NoError(t, err)
	assert.InDelta(t, 2, res.OptVal, tolerance)
	//
	_, err = reduction.Invert(sol, data)
	assert.ErrorIs(t, err, ErrInverseDataConsumed)
	//
	_, err = reduction.Invert(sol, "junk")
	assert.ErrorIs(t, err, ErrInvalidInverseData)
}

func Test_Invert_InfeasibleUnbounded(t *testing.T) {
	statuses := []problem.Status{problem.Infeasible, problem.InfeasibleInaccurate, problem.Unbounded,
		problem.UnboundedInaccurate}
	//
	for _, status := range statuses {
		p := parse(t, "(variable x positive)\n(minimize x)\n(subject-to (<= x 1) (<= 2 x))")
		//
		_, data, err := New().Apply(p)
		require.NoError(t, err)
		//
		res, err := New().Invert(problem.NewSolution(status, 2), data)
		require.NoError(t, err)
		assert.Equal(t, status, res.Status)
		assert.InDelta(t, math.Exp(2), res.OptVal, tolerance)
		assert.Nil(t, p.Variables()[0].Value())
	}
	// log-space values at infinity map to zero and infinity
	p := parse(t, "(variable x positive)\n(minimize x)")
	_, data, err := New().Apply(p)
	require.NoError(t, err)
	//
	res, err := New().Invert(problem.NewSolution(problem.Unbounded, math.Inf(-1)), data)
	require.NoError(t, err)
	assert.Zero(t, res.OptVal)
}

func Test_Invert_OtherStatus(t *testing.T) {
	p := parse(t, "(variable x positive)\n(minimize x)")
	//
	_, data, err := New().Apply(p)
	require.NoError(t, err)
	//
	res, err := New().Invert(problem.NewSolution(problem.SolverError, 1.5), data)
	require.NoError(t, err)
	assert.Equal(t, problem.SolverError, res.Status)
	assert.Equal(t, 1.5, res.OptVal)
}

func Test_Invert_DualsPassThrough(t *testing.T) {
	p := parse(t, "(variable x positive)\n(minimize x)\n(subject-to (<= 2 x))")
	//
	q, data, err := New().Apply(p)
	require.NoError(t, err)
	//
	dual := scalar(0.75)
	sol := problem.NewSolution(problem.Optimal, math.Log(2))
	sol.PrimalVars[p.Variables()[0].ID()] = scalar(math.Log(2))
	sol.DualVars[q.Constraints()[0].ID()] = dual
	//
	res, err := New().Invert(sol, data)
	require.NoError(t, err)
	assert.Same(t, dual, res.DualVars[p.Constraints()[0].ID()])
}

// ============================================================================
// Helpers
// ============================================================================

// What a constraint exposes to rewriting.
type constraintView struct {
	lhs, rhs expr.Expr
	args     []expr.Expr
}

func snapshot(p *problem.Problem) []constraintView {
	var views []constraintView
	//
	for _, c := range p.Constraints() {
		views = append(views, constraintView{c.Lhs(), c.Rhs(), append([]expr.Expr(nil), c.Args()...)})
	}
	//
	return views
}

func parse(t *testing.T, text string) *problem.Problem {
	t.Helper()
	//
	p, err := problem.Parse("test.gp", text)
	require.NoError(t, err)
	//
	return p
}

func check_Problem(t *testing.T, p *problem.Problem, expected ...string) {
	t.Helper()
	//
	want := strings.Join(expected, "\n") + "\n"
	if diff := cmp.Diff(want, p.String()); diff != "" {
		t.Errorf("unexpected problem (-want +got):\n%s", diff)
	}
}

func num(v float64) string {
	return sexp.NewNumber(v).String()
}

func scalar(v float64) *mat.Dense {
	return mat.NewDense(1, 1, []float64{v})
}
