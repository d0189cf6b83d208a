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
	"github.com/consensys/go-dgp/pkg/expr"
	"github.com/consensys/go-dgp/pkg/problem"
)

// Install the (lhs, rhs) pair of every constraint of a problem as its
// arguments, so that both sides are rewritten separately.  The returned
// function restores the original arguments, and must always be called.
func restructure(p *problem.Problem) (restore func()) {
	var (
		constraints = p.Constraints()
		saved       = make([][]expr.Expr, len(constraints))
	)
	//
	for i, c := range constraints {
		saved[i] = c.SetArgs([]expr.Expr{c.Lhs(), c.Rhs()})
	}
	//
	return func() {
		for i, c := range constraints {
			c.SetArgs(saved[i])
		}
	}
}
