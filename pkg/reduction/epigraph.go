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
package reduction

import (
	"github.com/consensys/go-dgp/pkg/expr"
	"github.com/consensys/go-dgp/pkg/problem"
)

// NewEpigraph constructs the canonicalization which replaces every max(a, b,
// ...) by a fresh variable bounded below by each argument.  This is exact for
// disciplined convex programs, where max only ever appears in a position that
// is minimised, and leaves a smooth problem behind.
func NewEpigraph() *Canonicalization {
	return NewCanonicalization("epigraph", RuleMap{expr.KindMaximum: Epigraph})
}

// Epigraph rewrites max(a, b, ...) into a fresh variable t, with auxiliary
// constraints a <= t, b <= t, ...
func Epigraph(node expr.Expr, args []expr.Expr) (expr.Expr, []*problem.Constraint) {
	var (
		t           = expr.NewVariable("", node.Shape())
		constraints = make([]*problem.Constraint, len(args))
	)
	//
	for i, arg := range args {
		constraints[i] = problem.NewInequality(arg, t)
	}
	//
	return t, constraints
}
