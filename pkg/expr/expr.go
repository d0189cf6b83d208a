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
	"github.com/consensys/go-dgp/pkg/sexp"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrNoValue is returned when evaluating an expression which refers to a
// variable for which no value is available.
var ErrNoValue = errors.New("variable has no value")

// Expr represents a node in an expression graph.  Every node has a kind, an
// ordered (and possibly empty) list of argument expressions and a shape.
// Nodes are immutable once constructed, with the exception of the value slot
// of a variable.
type Expr interface {
	// Kind identifies the type of this node.
	Kind() Kind
	// Args returns the argument expressions of this node.  Leaves have no
	// arguments.  The returned slice must not be modified.
	Args() []Expr
	// Shape returns the dimensions of this expression.
	Shape() Shape
	// Eval evaluates this expression using the given environment to supply
	// variable values.  The result must not be modified by the caller.
	Eval(Env) (*mat.Dense, error)
	// Copy constructs a node of the same kind (and with the same parameters)
	// as this one, but over the given arguments.  Leaves return themselves.
	Copy([]Expr) Expr
	// Lisp converts this expression into an S-Expression, for example so it
	// can be printed.
	Lisp() sexp.SExp
}

// Env maps variable identifiers to their values, and is used to evaluate
// expressions at a given point.
type Env map[VarID]*mat.Dense

// String renders a given expression as a string.
func String(e Expr) string {
	return e.Lisp().String()
}

// Value evaluates a given scalar expression using the values installed on its
// variables.
func Value(e Expr) (float64, error) {
	if !e.Shape().IsScalar() {
		return 0, errors.Errorf("expression of shape %s is not scalar", e.Shape())
	}
	//
	val, err := e.Eval(nil)
	if err != nil {
		return 0, err
	}
	//
	return val.At(0, 0), nil
}

// Variables returns the distinct variables (by identifier) occurring within a
// given expression, in order of first occurrence.
func Variables(exprs ...Expr) []*Variable {
	var (
		seen = make(map[VarID]bool)
		vars []*Variable
	)
	//
	for _, e := range exprs {
		Walk(e, func(node Expr) {
			if v, ok := node.(*Variable); ok && !seen[v.ID()] {
				seen[v.ID()] = true
				vars = append(vars, v)
			}
		})
	}
	//
	return vars
}

// Walk visits every node of an expression in depth-first (pre-order) order.
// Nodes which are shared are visited once per occurrence.
func Walk(e Expr, visit func(Expr)) {
	visit(e)
	//
	for _, arg := range e.Args() {
		Walk(arg, visit)
	}
}

// atom captures the state common to all non-leaf expressions.
type atom struct {
	args  []Expr
	shape Shape
}

// Args implementation for the Expr interface.
func (a *atom) Args() []Expr { return a.args }

// Shape implementation for the Expr interface.
func (a *atom) Shape() Shape { return a.shape }

// Evaluate the arguments of a node.
func (a *atom) evalArgs(env Env) ([]*mat.Dense, error) {
	var (
		vals = make([]*mat.Dense, len(a.args))
		err  error
	)
	//
	for i, arg := range a.args {
		if vals[i], err = arg.Eval(env); err != nil {
			return nil, err
		}
	}
	//
	return vals, nil
}

func lispOf(kind Kind, args []Expr, params ...float64) sexp.SExp {
	elements := make([]sexp.SExp, 0, 1+len(args)+len(params))
	elements = append(elements, sexp.NewSymbol(kind.String()))
	//
	for _, arg := range args {
		elements = append(elements, arg.Lisp())
	}
	//
	for _, p := range params {
		elements = append(elements, sexp.NewNumber(p))
	}
	//
	return sexp.NewList(elements...)
}

func checkArity(kind Kind, args []Expr, n int) {
	if len(args) != n {
		panic(shapeError("%s expects %d argument(s), got %d", kind, n, len(args)))
	}
}

func checkNonEmpty(kind Kind, args []Expr) {
	if len(args) == 0 {
		panic(shapeError("%s expects at least one argument", kind))
	}
}
