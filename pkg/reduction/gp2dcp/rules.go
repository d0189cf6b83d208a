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

	"github.com/consensys/go-dgp/pkg/expr"
	"github.com/consensys/go-dgp/pkg/problem"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Each rule below rewrites a node f(x_1, ..., x_n), given arguments u_i which
// already represent log(x_i), into an expression equal to log(f(x_1, ...,
// x_n)).

// c => log(c)
func constantRule(node expr.Expr, _ []expr.Expr) (expr.Expr, []*problem.Constraint) {
	var res mat.Dense
	//
	res.Apply(func(_, _ int, v float64) float64 { return math.Log(v) }, node.(*expr.Constant).Value())
	//
	return expr.NewConstant(&res), nil
}

// x + y => log(exp(u) + exp(v))
func addRule(_ expr.Expr, args []expr.Expr) (expr.Expr, []*problem.Constraint) {
	if len(args) == 1 {
		return args[0], nil
	}
	//
	return expr.NewLogAddExp(args...), nil
}

// x * y => u + v
func multiplyRule(_ expr.Expr, args []expr.Expr) (expr.Expr, []*problem.Constraint) {
	return expr.NewAdd(args...), nil
}

// x / y => u - v
func divRule(_ expr.Expr, args []expr.Expr) (expr.Expr, []*problem.Constraint) {
	return expr.NewAdd(args[0], expr.NewNeg(args[1])), nil
}

// X @ Y => log(exp(U) @ exp(V))
func matMulRule(_ expr.Expr, args []expr.Expr) (expr.Expr, []*problem.Constraint) {
	return expr.NewLogMatMul(args[0], args[1]), nil
}

// x^p => p * u
func powerRule(node expr.Expr, args []expr.Expr) (expr.Expr, []*problem.Constraint) {
	p := node.(*expr.Power).Exponent()
	//
	return expr.NewMultiply(expr.NewScalar(p), args[0]), nil
}

// geo_mean(x, w) => sum((w / sum(w)) * u)
func geoMeanRule(node expr.Expr, args []expr.Expr) (expr.Expr, []*problem.Constraint) {
	var (
		weights = node.(*expr.GeoMean).Weights()
		scaled  = make([]float64, len(weights))
	)
	//
	floats.ScaleTo(scaled, 1/floats.Sum(weights), weights)
	//
	w := expr.NewConstant(expr.NewDense(args[0].Shape(), scaled))
	//
	return expr.NewSum(expr.NewMultiply(w, args[0])), nil
}

// 1 - x => log(1 - exp(u))
func oneMinusRule(_ expr.Expr, args []expr.Expr) (expr.Expr, []*problem.Constraint) {
	one := expr.NewScalar(1)
	//
	return expr.NewLog(expr.NewAdd(one, expr.NewNeg(expr.NewExp(args[0])))), nil
}

// (I - X)^-1 => Y, where log(exp(Y) @ exp(U) + I) <= Y.  That is, Y >= I + Y X
// in the original space.
func eyeMinusInvRule(node expr.Expr, args []expr.Expr) (expr.Expr, []*problem.Constraint) {
	var (
		shape = node.Shape()
		n     = int(shape.Rows)
		y     = expr.NewVariable("", shape)
		logI  = mat.NewDense(n, n, nil)
	)
	//
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				logI.Set(i, j, math.Inf(-1))
			}
		}
	}
	//
	lhs := expr.NewLogAddExp(expr.NewLogMatMul(y, args[0]), expr.NewConstant(logI))
	//
	return y, []*problem.Constraint{problem.NewInequality(lhs, y)}
}

// pnorm(x, p) => (1/p) * log(sum(exp(p * u)))
func pnormRule(node expr.Expr, args []expr.Expr) (expr.Expr, []*problem.Constraint) {
	p := node.(*expr.Pnorm).Order()
	lse := expr.NewLogSumExp(expr.NewMultiply(expr.NewScalar(p), args[0]))
	//
	return expr.NewMultiply(expr.NewScalar(1/p), lse), nil
}

// sum_largest(x, k) => log(sum of k largest exp(u))
func sumLargestRule(node expr.Expr, args []expr.Expr) (expr.Expr, []*problem.Constraint) {
	k := node.(*expr.SumLargest).Count()
	//
	return expr.NewLogSumLargest(args[0], k), nil
}

// trace(X) => log(sum(exp(diag(U))))
func traceRule(_ expr.Expr, args []expr.Expr) (expr.Expr, []*problem.Constraint) {
	return expr.NewLogSumExp(expr.NewDiag(args[0])), nil
}

// sum(x) => log(sum(exp(u)))
func sumRule(_ expr.Expr, args []expr.Expr) (expr.Expr, []*problem.Constraint) {
	return expr.NewLogSumExp(args[0]), nil
}
