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
	"fmt"
	"math"
	"sync/atomic"

	"github.com/consensys/go-dgp/pkg/expr"
	"github.com/consensys/go-dgp/pkg/sexp"
	"gonum.org/v1/gonum/mat"
)

// ConstraintID is the stable identifier of a constraint.
type ConstraintID uint64

// Source of fresh constraint identifiers.
var lastConstraintID atomic.Uint64

// Relation identifies how the two sides of a constraint are related.
type Relation uint8

const (
	// Equal requires both sides to coincide (elementwise).
	Equal Relation = iota
	// LessEqual requires the left-hand side to be at most the right-hand side
	// (elementwise).
	LessEqual
)

func (r Relation) String() string {
	if r == Equal {
		return "=="
	}
	//
	return "<="
}

// Constraint relates two expressions (lhs and rhs) of compatible shape.  Every
// constraint also exposes a canonical difference form lhs + neg(rhs), related
// to zero.  By default, the argument list of a constraint (i.e. what a generic
// rewrite sees) is the singleton difference.  This can be temporarily replaced
// using SetArgs(), for example to rewrite each side independently.
type Constraint struct {
	id       ConstraintID
	relation Relation
	lhs      expr.Expr
	rhs      expr.Expr
	diff     expr.Expr
	args     []expr.Expr
	dual     *mat.Dense
}

// NewEquality constructs a constraint lhs == rhs.
func NewEquality(lhs expr.Expr, rhs expr.Expr) *Constraint {
	return newConstraint(Equal, lhs, rhs)
}

// NewInequality constructs a constraint lhs <= rhs.
func NewInequality(lhs expr.Expr, rhs expr.Expr) *Constraint {
	return newConstraint(LessEqual, lhs, rhs)
}

func newConstraint(relation Relation, lhs expr.Expr, rhs expr.Expr) *Constraint {
	diff := expr.NewAdd(lhs, expr.NewNeg(rhs))
	id := ConstraintID(lastConstraintID.Add(1))
	//
	return &Constraint{id, relation, lhs, rhs, diff, []expr.Expr{diff}, nil}
}

// ID returns the identifier of this constraint.
func (c *Constraint) ID() ConstraintID { return c.id }

// Relation returns the relation of this constraint.
func (c *Constraint) Relation() Relation { return c.relation }

// Lhs returns the left-hand side of this constraint.
func (c *Constraint) Lhs() expr.Expr { return c.lhs }

// Rhs returns the right-hand side of this constraint.
func (c *Constraint) Rhs() expr.Expr { return c.rhs }

// Expr returns the canonical difference lhs + neg(rhs) of this constraint.
func (c *Constraint) Expr() expr.Expr { return c.diff }

// Shape returns the shape of this constraint.
func (c *Constraint) Shape() expr.Shape { return c.diff.Shape() }

// Args returns the current argument list of this constraint.
func (c *Constraint) Args() []expr.Expr { return c.args }

// SetArgs replaces the argument list of this constraint, returning the
// previous one.
func (c *Constraint) SetArgs(args []expr.Expr) []expr.Expr {
	old := c.args
	c.args = args
	//
	return old
}

// Copy constructs a fresh constraint with the same relation as this one over
// a given argument list.  A single argument is related to zero, whilst two
// arguments are taken as the left- and right-hand sides.
func (c *Constraint) Copy(args []expr.Expr) *Constraint {
	switch len(args) {
	case 1:
		return newConstraint(c.relation, args[0], expr.NewFilled(args[0].Shape(), 0))
	case 2:
		return newConstraint(c.relation, args[0], args[1])
	default:
		panic(fmt.Sprintf("constraint expects one or two arguments, got %d", len(args)))
	}
}

// Residual evaluates the difference lhs - rhs of this constraint in a given
// environment.
func (c *Constraint) Residual(env expr.Env) (*mat.Dense, error) {
	return c.diff.Eval(env)
}

// Violation determines how far this constraint is from being satisfied in a
// given environment, as the largest violation across all entries.  A value of
// zero indicates the constraint holds.
func (c *Constraint) Violation(env expr.Env) (float64, error) {
	residual, err := c.Residual(env)
	if err != nil {
		return 0, err
	}
	//
	var worst float64
	//
	for _, r := range expr.Entries(residual) {
		if c.relation == Equal {
			r = math.Abs(r)
		}
		//
		worst = max(worst, r)
	}
	//
	return worst, nil
}

// DualValue returns the dual value installed on this constraint, or nil if
// there is none.
func (c *Constraint) DualValue() *mat.Dense { return c.dual }

// IsDCP checks whether this constraint follows the rules of disciplined convex
// programming.
func (c *Constraint) IsDCP() bool {
	curvature := expr.CurvatureOf(c.diff)
	//
	if c.relation == Equal {
		return curvature.IsAffine()
	}
	//
	return curvature.IsConvex()
}

// IsDGP checks whether this constraint follows the rules of disciplined
// geometric programming.  That is, either a log-log affine equality or a
// log-log convex expression bounded above by a log-log concave expression.
func (c *Constraint) IsDGP() bool {
	lhs := expr.LogLogCurvatureOf(c.lhs)
	rhs := expr.LogLogCurvatureOf(c.rhs)
	//
	if c.relation == Equal {
		return lhs.IsAffine() && rhs.IsAffine()
	}
	//
	return lhs.IsConvex() && rhs.IsConcave()
}

// Lisp converts this constraint into an S-Expression.
func (c *Constraint) Lisp() sexp.SExp {
	return sexp.NewList(sexp.NewSymbol(c.relation.String()), c.lhs.Lisp(), c.rhs.Lisp())
}

func (c *Constraint) String() string {
	return c.Lisp().String()
}
