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
	"fmt"

	"github.com/consensys/go-dgp/pkg/expr"
	"github.com/consensys/go-dgp/pkg/problem"
	"github.com/consensys/go-dgp/pkg/reduction"
)

// VariableCache substitutes each positive variable x with an unconstrained
// variable u = log(x) sharing its identifier.  Every occurrence of the same
// variable is substituted by the same log-space variable.  A cache is layered
// over a set of rules, and intercepts only variables; all other kinds are
// delegated.
type VariableCache struct {
	rules reduction.Rules
	vars  map[expr.VarID]*expr.Variable
	order []*expr.Variable
}

// NewVariableCache constructs an empty cache layered over a given set of
// rules.
func NewVariableCache(rules reduction.Rules) *VariableCache {
	return &VariableCache{rules, make(map[expr.VarID]*expr.Variable), nil}
}

// Lookup implementation for the reduction.Rules interface.
func (c *VariableCache) Lookup(kind expr.Kind) (reduction.Rule, error) {
	if kind == expr.KindVariable {
		return c.Substitute, nil
	}
	//
	return c.rules.Lookup(kind)
}

// Substitute is the rule applied to variables.  It returns the log-space
// variable for a given variable, creating it on first use.
func (c *VariableCache) Substitute(node expr.Expr, _ []expr.Expr) (expr.Expr, []*problem.Constraint) {
	v := node.(*expr.Variable)
	//
	if u, ok := c.vars[v.ID()]; ok {
		if u.Shape() != v.Shape() {
			panic(fmt.Sprintf("variable %s has shapes %s and %s", v.Name(), u.Shape(), v.Shape()))
		}
		//
		return u, nil
	}
	//
	u := expr.NewVariableWithID(v.ID(), v.Name(), v.Shape())
	c.vars[v.ID()] = u
	c.order = append(c.order, u)
	//
	return u, nil
}

// Variable returns the log-space variable substituted for a given variable
// identifier, if any.
func (c *VariableCache) Variable(id expr.VarID) (*expr.Variable, bool) {
	u, ok := c.vars[id]
	return u, ok
}

// Variables returns the log-space variables created by this cache, in order of
// creation.  The returned slice must not be modified.
func (c *VariableCache) Variables() []*expr.Variable { return c.order }

// Len returns the number of variables substituted so far.
func (c *VariableCache) Len() int { return len(c.order) }
