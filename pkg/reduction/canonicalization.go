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

// Rule rewrites a single expression node, given its already rewritten
// arguments.  A rule returns the rewritten node along with zero or more
// auxiliary constraints which must be added to the rewritten problem.
type Rule func(node expr.Expr, args []expr.Expr) (expr.Expr, []*problem.Constraint)

// Rules determines the rule to apply for a given kind of node.
type Rules interface {
	// Lookup the rule for a given kind of node, or fail if there is none.
	Lookup(expr.Kind) (Rule, error)
}

// RuleMap is a table of rules keyed by kind.  Kinds which are absent from the
// table are copied through unchanged (over their rewritten arguments).
type RuleMap map[expr.Kind]Rule

// Lookup implementation for the Rules interface.
func (m RuleMap) Lookup(kind expr.Kind) (Rule, error) {
	if rule, ok := m[kind]; ok {
		return rule, nil
	}
	//
	return PassThrough, nil
}

// PassThrough is the rule which rebuilds a node of the same kind over its
// rewritten arguments, adding no constraints.
func PassThrough(node expr.Expr, args []expr.Expr) (expr.Expr, []*problem.Constraint) {
	return node.Copy(args), nil
}

// Canonicalization is a reduction which rewrites a problem bottom-up using a
// given set of rules.  Every node of the objective and of every constraint is
// rewritten, with constraints being rebuilt over their rewritten arguments.
// Auxiliary constraints produced by rules precede the constraint which gave
// rise to them.
type Canonicalization struct {
	name  string
	rules Rules
}

// CanonInverseData records what is needed to map a solution of a canonicalised
// problem back onto the original.
type CanonInverseData struct {
	// Shapes of the variables in the original problem.
	VarShapes map[expr.VarID]expr.Shape
	// Maps each original constraint to the constraint rewritten from it.
	ConsMap map[problem.ConstraintID]problem.ConstraintID
}

// NewCanonicalization constructs a canonicalization using a given set of
// rules.
func NewCanonicalization(name string, rules Rules) *Canonicalization {
	return &Canonicalization{name, rules}
}

// Name implementation for the Reduction interface.
func (c *Canonicalization) Name() string { return c.name }

// Accepts implementation for the Reduction interface.
func (c *Canonicalization) Accepts(*problem.Problem) bool { return true }

// Apply implementation for the Reduction interface.  The inverse data
// returned is a *CanonInverseData.
func (c *Canonicalization) Apply(p *problem.Problem) (*problem.Problem, InverseData, error) {
	inverse := &CanonInverseData{
		VarShapes: make(map[expr.VarID]expr.Shape),
		ConsMap:   make(map[problem.ConstraintID]problem.ConstraintID),
	}
	//
	for _, v := range p.Variables() {
		inverse.VarShapes[v.ID()] = v.Shape()
	}
	//
	objective, constraints, err := c.CanonicalizeTree(p.Objective())
	if err != nil {
		return nil, nil, err
	}
	//
	for _, con := range p.Constraints() {
		canon, aux, err := c.CanonicalizeConstraint(con)
		if err != nil {
			return nil, nil, err
		}
		//
		constraints = append(constraints, aux...)
		constraints = append(constraints, canon)
		inverse.ConsMap[con.ID()] = canon.ID()
	}
	//
	return problem.New(objective, constraints...), inverse, nil
}

// Invert implementation for the Reduction interface.  Only primal values of
// the original variables are retained, and dual values are renamed back to
// the original constraints.
func (c *Canonicalization) Invert(sol *problem.Solution, data InverseData) (*problem.Solution, error) {
	inverse, ok := data.(*CanonInverseData)
	if !ok {
		return nil, ErrInvalidInverseData
	}
	//
	result := problem.NewSolution(sol.Status, sol.OptVal)
	//
	for id := range inverse.VarShapes {
		if val, ok := sol.PrimalVars[id]; ok {
			result.PrimalVars[id] = val
		}
	}
	//
	for orig, canon := range inverse.ConsMap {
		if val, ok := sol.DualVars[canon]; ok {
			result.DualVars[orig] = val
		}
	}
	//
	for k, v := range sol.Attr {
		result.Attr[k] = v
	}
	//
	return result, nil
}

// CanonicalizeConstraint rewrites the arguments of a constraint, and rebuilds
// it over the result.  Auxiliary constraints arising from the rewrite are
// returned separately.
func (c *Canonicalization) CanonicalizeConstraint(con *problem.Constraint) (*problem.Constraint,
	[]*problem.Constraint, error) {
	var (
		args        = make([]expr.Expr, len(con.Args()))
		constraints []*problem.Constraint
	)
	//
	for i, arg := range con.Args() {
		canon, aux, err := c.CanonicalizeTree(arg)
		if err != nil {
			return nil, nil, err
		}
		//
		args[i] = canon
		constraints = append(constraints, aux...)
	}
	//
	return con.Copy(args), constraints, nil
}

// CanonicalizeTree rewrites an expression bottom-up, returning the rewritten
// expression along with any auxiliary constraints produced.
func (c *Canonicalization) CanonicalizeTree(e expr.Expr) (expr.Expr, []*problem.Constraint, error) {
	var (
		args        = make([]expr.Expr, len(e.Args()))
		constraints []*problem.Constraint
	)
	//
	for i, arg := range e.Args() {
		canon, aux, err := c.CanonicalizeTree(arg)
		if err != nil {
			return nil, nil, err
		}
		//
		args[i] = canon
		constraints = append(constraints, aux...)
	}
	//
	rule, err := c.rules.Lookup(e.Kind())
	if err != nil {
		return nil, nil, err
	}
	//
	canon, aux := rule(e, args)
	//
	return canon, append(constraints, aux...), nil
}
