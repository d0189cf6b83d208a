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

	"github.com/consensys/go-dgp/pkg/problem"
	"github.com/consensys/go-dgp/pkg/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const solverTolerance = 1e-4

func Test_Solve_01(t *testing.T) {
	p := check_Solve(t, `
(variable x positive)
(minimize (+ x (^ x -1)))`, 2)
	//
	assert.InDelta(t, 1, p.Variables()[0].Value().At(0, 0), solverTolerance)
}

func Test_Solve_02(t *testing.T) {
	p := check_Solve(t, `
(variable x positive)
(variable y positive)
(minimize (* x y))
(subject-to (<= 2 x) (<= 3 y))`, 6)
	//
	vars := p.Variables()
	assert.InDelta(t, 2, vars[0].Value().At(0, 0), solverTolerance)
	assert.InDelta(t, 3, vars[1].Value().At(0, 0), solverTolerance)
}

func Test_Solve_03(t *testing.T) {
	p := check_Solve(t, `
(variable x positive)
(variable y positive)
(minimize (+ x y))
(subject-to (== (* x y) 4))`, 4)
	//
	vars := p.Variables()
	assert.InDelta(t, 2, vars[0].Value().At(0, 0), solverTolerance)
	assert.InDelta(t, 2, vars[1].Value().At(0, 0), solverTolerance)
}

func Test_Solve_SumLargest(t *testing.T) {
	p := parse(t, `
(variable x 3 positive)
(minimize (sum-largest x 2))
(subject-to (>= x (vector 1 2 3)))`)
	//
	sol := solve(t, p)
	require.True(t, sol.Status.SolutionPresent(), "unexpected status %s", sol.Status)
	assert.InDelta(t, 5, sol.OptVal, 1e-3)
	//
	x := sol.PrimalVars[p.Variables()[0].ID()]
	assert.InDelta(t, 2, x.At(1, 0), 1e-3)
	assert.InDelta(t, 3, x.At(2, 0), 1e-3)
}

func Test_Solve_Maximum(t *testing.T) {
	p := parse(t, `
(variable x positive)
(variable y positive)
(minimize (max x y))
(subject-to (>= (* x y) 4))`)
	//
	sol := solve(t, p)
	require.True(t, sol.Status.SolutionPresent(), "unexpected status %s", sol.Status)
	assert.InDelta(t, 2, sol.OptVal, 1e-3)
	//
	vars := p.Variables()
	assert.InDelta(t, 2, sol.PrimalVars[vars[0].ID()].At(0, 0), 1e-3)
	assert.InDelta(t, 2, sol.PrimalVars[vars[1].ID()].At(0, 0), 1e-3)
	// auxiliary epigraph variable is not reported
	assert.Len(t, sol.PrimalVars, 2)
}

func Test_Solve_KinkNotOptimal(t *testing.T) {
	// optimum lies on a kink of the rewritten objective, where the inner
	// minimisation cannot certify stationarity
	p := parse(t, `
(variable x 3 positive)
(minimize (sum-largest x 2))
(subject-to (>= (geo-mean x) 2))`)
	//
	sol := solve(t, p)
	assert.NotEqual(t, problem.Optimal, sol.Status)
	//
	if sol.Status.SolutionPresent() {
		assert.GreaterOrEqual(t, sol.OptVal, 4-1e-3)
	}
}

func Test_Solve_Infeasible(t *testing.T) {
	p := parse(t, `
(variable x positive)
(minimize x)
(subject-to (<= x 1) (<= 2 x))`)
	//
	sol := solve(t, p)
	assert.Equal(t, problem.Infeasible, sol.Status)
	assert.True(t, math.IsInf(sol.OptVal, 1))
	assert.Nil(t, p.Solution())
}

func check_Solve(t *testing.T, text string, optval float64) *problem.Problem {
	t.Helper()
	//
	p := parse(t, text)
	sol := solve(t, p)
	require.True(t, sol.Status.SolutionPresent(), "unexpected status %s", sol.Status)
	assert.InDelta(t, optval, sol.OptVal, solverTolerance)
	// original problem now carries the recovered point
	require.NoError(t, p.Unpack(sol))
	//
	value, err := p.Value()
	require.NoError(t, err)
	assert.InDelta(t, optval, value, solverTolerance)
	//
	return p
}

func solve(t *testing.T, p *problem.Problem) *problem.Solution {
	t.Helper()
	//
	reduction := New()
	require.True(t, reduction.Accepts(p))
	//
	q, data, err := reduction.Apply(p)
	require.NoError(t, err)
	//
	s := solver.New(solver.DefaultConfig())
	require.True(t, s.Accepts(q))
	//
	sol, err := s.Solve(q)
	require.NoError(t, err)
	//
	res, err := reduction.Invert(sol, data)
	require.NoError(t, err)
	//
	return res
}
