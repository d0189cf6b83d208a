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
package problem

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/consensys/go-dgp/pkg/expr"
	"github.com/consensys/go-dgp/pkg/sexp"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Problem represents the minimisation of a scalar objective subject to an
// ordered sequence of constraints.
type Problem struct {
	objective   expr.Expr
	constraints []*Constraint
	solution    *Solution
}

// New constructs a problem minimising a given (scalar) objective subject to
// zero or more constraints.
func New(objective expr.Expr, constraints ...*Constraint) *Problem {
	if !objective.Shape().IsScalar() {
		panic(fmt.Sprintf("objective of shape %s is not scalar", objective.Shape()))
	}
	//
	return &Problem{objective, constraints, nil}
}

// Objective returns the objective of this problem.
func (p *Problem) Objective() expr.Expr { return p.objective }

// Constraints returns the constraints of this problem.  The returned slice
// must not be modified.
func (p *Problem) Constraints() []*Constraint { return p.constraints }

// Variables returns the distinct variables of this problem, ordered by
// identifier.
func (p *Problem) Variables() []*expr.Variable {
	exprs := []expr.Expr{p.objective}
	//
	for _, c := range p.constraints {
		exprs = append(exprs, c.Lhs(), c.Rhs())
	}
	//
	vars := expr.Variables(exprs...)
	slices.SortFunc(vars, func(a, b *expr.Variable) int { return cmp.Compare(a.ID(), b.ID()) })
	//
	return vars
}

// CheckDCP checks whether this problem follows the rules of disciplined convex
// programming, reporting every violation found.
func (p *Problem) CheckDCP() error {
	var err error
	//
	if c := expr.CurvatureOf(p.objective); !c.IsConvex() {
		err = errors.Errorf("objective %s is %s, not convex", expr.String(p.objective), c)
	}
	//
	for _, c := range p.constraints {
		if !c.IsDCP() {
			err = multierr.Append(err, errors.Errorf("constraint %s is not DCP", c))
		}
	}
	//
	return err
}

// IsDCP checks whether this problem follows the rules of disciplined convex
// programming.
func (p *Problem) IsDCP() bool { return p.CheckDCP() == nil }

// CheckDGP checks whether this problem follows the rules of disciplined
// geometric programming, reporting every violation found.
func (p *Problem) CheckDGP() error {
	var err error
	//
	if c := expr.LogLogCurvatureOf(p.objective); !c.IsConvex() {
		err = errors.Errorf("objective %s is log-log %s, not log-log convex", expr.String(p.objective), c)
	}
	//
	for _, c := range p.constraints {
		if !c.IsDGP() {
			err = multierr.Append(err, errors.Errorf("constraint %s is not DGP", c))
		}
	}
	//
	return err
}

// IsDGP checks whether this problem follows the rules of disciplined geometric
// programming.
func (p *Problem) IsDGP() bool { return p.CheckDGP() == nil }

// Unpack installs the values of a solution into this problem.  Primal values
// are installed on the variables, and dual values on the constraints, of this
// problem (entries for anything else are ignored).
func (p *Problem) Unpack(sol *Solution) error {
	for _, v := range p.Variables() {
		if val, ok := sol.PrimalVars[v.ID()]; ok {
			if err := v.SetValue(val); err != nil {
				return err
			}
		}
	}
	//
	for _, c := range p.constraints {
		if val, ok := sol.DualVars[c.ID()]; ok {
			c.dual = val
		}
	}
	//
	p.solution = sol
	//
	return nil
}

// Value evaluates the objective of this problem using the values installed on
// its variables.
func (p *Problem) Value() (float64, error) {
	val, err := expr.Value(p.objective)
	if err != nil {
		return 0, errors.WithMessage(err, "evaluating objective")
	}
	//
	return val, nil
}

// Solution returns the solution most recently unpacked into this problem, or
// nil.
func (p *Problem) Solution() *Solution { return p.solution }

// ClearSolution removes all values installed on this problem by Unpack.
func (p *Problem) ClearSolution() {
	for _, v := range p.Variables() {
		v.ClearValue()
	}
	//
	for _, c := range p.constraints {
		c.dual = nil
	}
	//
	p.solution = nil
}

// Lisp converts this problem into a sequence of S-Expressions, in the same
// format accepted by Parse.
func (p *Problem) Lisp() []sexp.SExp {
	var decls []sexp.SExp
	//
	for _, v := range p.Variables() {
		decls = append(decls, declarationOf(v))
	}
	//
	decls = append(decls, sexp.NewList(sexp.NewSymbol("minimize"), p.objective.Lisp()))
	//
	if len(p.constraints) > 0 {
		elements := []sexp.SExp{sexp.NewSymbol("subject-to")}
		//
		for _, c := range p.constraints {
			elements = append(elements, c.Lisp())
		}
		//
		decls = append(decls, sexp.NewList(elements...))
	}
	//
	return decls
}

func (p *Problem) String() string {
	var builder strings.Builder
	//
	for _, decl := range p.Lisp() {
		builder.WriteString(decl.String())
		builder.WriteString("\n")
	}
	//
	return builder.String()
}

func declarationOf(v *expr.Variable) sexp.SExp {
	elements := []sexp.SExp{sexp.NewSymbol("variable"), sexp.NewSymbol(v.Name())}
	shape := v.Shape()
	//
	switch {
	case shape.IsScalar():
	case shape.Cols == 1:
		elements = append(elements, sexp.NewNumber(float64(shape.Rows)))
	default:
		elements = append(elements, sexp.NewNumber(float64(shape.Rows)), sexp.NewNumber(float64(shape.Cols)))
	}
	//
	if v.IsPositive() {
		elements = append(elements, sexp.NewSymbol("positive"))
	}
	//
	return sexp.NewList(elements...)
}
