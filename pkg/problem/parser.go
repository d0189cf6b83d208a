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
	"strconv"

	"github.com/consensys/go-dgp/pkg/expr"
	"github.com/consensys/go-dgp/pkg/sexp"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Parse a problem from a given source text.  The text consists of variable
// declarations, followed by exactly one objective and any number of
// constraint blocks:
//
//	(variable x positive)
//	(variable X 2 2 positive)
//	(minimize (+ x (/ 1 x)))
//	(subject-to (<= x 10) (== (* x y) 4))
//
// Variables must be declared before they are used.
func Parse(filename string, text string) (*Problem, error) {
	srcfile := sexp.NewSourceFile(filename, []byte(text))
	//
	terms, srcmap, err := srcfile.ParseAll()
	if err != nil {
		return nil, err
	}
	//
	p := &parser{
		srcfile:   srcfile,
		variables: make(map[string]*expr.Variable),
	}
	p.translator = newExprTranslator(srcfile, srcmap, p.variables)
	//
	for _, term := range terms {
		if err := p.parseDeclaration(term); err != nil {
			return nil, err
		}
	}
	//
	if p.objective == nil {
		return nil, srcfile.Error(sexp.NewSpan(0, 0), "missing objective")
	}
	//
	return New(p.objective, p.constraints...), nil
}

type parser struct {
	srcfile     *sexp.SourceFile
	translator  *sexp.Translator[expr.Expr]
	variables   map[string]*expr.Variable
	objective   expr.Expr
	constraints []*Constraint
}

func (p *parser) parseDeclaration(term sexp.SExp) error {
	list, ok := term.(*sexp.List)
	if !ok || list.Len() == 0 {
		return p.translator.SyntaxError(term, "unknown declaration")
	}
	//
	switch list.Head() {
	case "variable":
		return p.parseVariable(list)
	case "minimize":
		return p.parseObjective(list)
	case "subject-to":
		return p.parseConstraints(list)
	default:
		return p.translator.SyntaxError(term, "unknown declaration")
	}
}

// (variable NAME [ROWS [COLS]] [positive])
func (p *parser) parseVariable(list *sexp.List) error {
	var (
		dims     []uint
		positive bool
		elements = list.Elements[1:]
	)
	//
	if len(elements) == 0 || !elements[0].IsSymbol() {
		return p.translator.SyntaxError(list, "invalid variable declaration")
	}
	//
	name := elements[0].String()
	if _, ok := p.variables[name]; ok {
		return p.translator.SyntaxError(elements[0], fmt.Sprintf("variable %s already declared", name))
	} else if _, ok := expr.KindOf(name); ok || name == "positive" {
		return p.translator.SyntaxError(elements[0], fmt.Sprintf("invalid variable name %s", name))
	}
	//
	for _, e := range elements[1:] {
		if e.String() == "positive" && !positive {
			positive = true
			continue
		}
		//
		n, err := strconv.ParseUint(e.String(), 10, 32)
		if err != nil || n == 0 || positive || len(dims) == 2 {
			return p.translator.SyntaxError(e, "invalid variable dimension")
		}
		//
		dims = append(dims, uint(n))
	}
	//
	shape := expr.Scalar
	//
	switch len(dims) {
	case 1:
		shape = expr.Vector(dims[0])
	case 2:
		shape = expr.Matrix(dims[0], dims[1])
	}
	//
	if positive {
		p.variables[name] = expr.NewPositiveVariable(name, shape)
	} else {
		p.variables[name] = expr.NewVariable(name, shape)
	}
	//
	return nil
}

// (minimize EXPR)
func (p *parser) parseObjective(list *sexp.List) error {
	if list.Len() != 2 {
		return p.translator.SyntaxError(list, "invalid objective")
	} else if p.objective != nil {
		return p.translator.SyntaxError(list, "duplicate objective")
	}
	//
	objective, err := p.translator.Translate(list.Get(1))
	if err != nil {
		return err
	} else if !objective.Shape().IsScalar() {
		return p.translator.SyntaxError(list.Get(1), fmt.Sprintf("objective of shape %s is not scalar",
			objective.Shape()))
	}
	//
	p.objective = objective
	//
	return nil
}

// (subject-to CONSTRAINT*)
func (p *parser) parseConstraints(list *sexp.List) error {
	for _, e := range list.Elements[1:] {
		c, err := p.parseConstraint(e)
		if err != nil {
			return err
		}
		//
		p.constraints = append(p.constraints, c)
	}
	//
	return nil
}

// (== LHS RHS) | (<= LHS RHS) | (>= LHS RHS)
func (p *parser) parseConstraint(term sexp.SExp) (*Constraint, error) {
	list, ok := term.(*sexp.List)
	if !ok || list.Len() != 3 || !isRelation(list.Head()) {
		return nil, p.translator.SyntaxError(term, "invalid constraint")
	}
	//
	args, err := p.translator.TranslateAll(list.Elements[1:])
	if err != nil {
		return nil, err
	}
	//
	c, err := construct(func() *Constraint {
		switch list.Head() {
		case "==":
			return NewEquality(args[0], args[1])
		case "<=":
			return NewInequality(args[0], args[1])
		default:
			return NewInequality(args[1], args[0])
		}
	})
	//
	if err != nil {
		return nil, p.translator.SyntaxError(term, err.Error())
	}
	//
	return c, nil
}

func isRelation(symbol string) bool {
	return symbol == "==" || symbol == "<=" || symbol == ">="
}

// ============================================================================
// Expressions
// ============================================================================

func newExprTranslator(srcfile *sexp.SourceFile, srcmap *sexp.SourceMap[sexp.SExp],
	variables map[string]*expr.Variable) *sexp.Translator[expr.Expr] {
	t := sexp.NewTranslator[expr.Expr](srcfile, srcmap)
	// Leaves
	t.AddSymbolRule(func(s string) (expr.Expr, bool, error) {
		if v, ok := variables[s]; ok {
			return v, true, nil
		}
		//
		return nil, false, nil
	})
	t.AddSymbolRule(func(s string) (expr.Expr, bool, error) {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return expr.NewScalar(v), true, nil
		}
		//
		return nil, false, nil
	})
	t.AddListRule("vector", func(l *sexp.List) (expr.Expr, error) {
		row, err := numbers(l.Elements[1:])
		if err != nil {
			return nil, err
		}
		//
		return expr.NewConstant(mat.NewDense(len(row), 1, row)), nil
	})
	t.AddListRule("matrix", translateMatrix)
	// Atoms
	t.AddRecursiveRule(expr.KindAdd.String(), nary(func(args []expr.Expr) expr.Expr { return expr.NewAdd(args...) }))
	t.AddRecursiveRule(expr.KindMultiply.String(),
		nary(func(args []expr.Expr) expr.Expr { return expr.NewMultiply(args...) }))
	t.AddRecursiveRule(expr.KindMaximum.String(),
		nary(func(args []expr.Expr) expr.Expr { return expr.NewMaximum(args...) }))
	t.AddRecursiveRule(expr.KindMinimum.String(),
		nary(func(args []expr.Expr) expr.Expr { return expr.NewMinimum(args...) }))
	t.AddRecursiveRule(expr.KindLogAddExp.String(),
		nary(func(args []expr.Expr) expr.Expr { return expr.NewLogAddExp(args...) }))
	t.AddRecursiveRule(expr.KindDiv.String(), binary(func(l, r expr.Expr) expr.Expr { return expr.NewDiv(l, r) }))
	t.AddRecursiveRule(expr.KindMatMul.String(), binary(func(l, r expr.Expr) expr.Expr { return expr.NewMatMul(l, r) }))
	t.AddRecursiveRule(expr.KindLogMatMul.String(),
		binary(func(l, r expr.Expr) expr.Expr { return expr.NewLogMatMul(l, r) }))
	t.AddRecursiveRule(expr.KindExp.String(), unary(func(e expr.Expr) expr.Expr { return expr.NewExp(e) }))
	t.AddRecursiveRule(expr.KindLog.String(), unary(func(e expr.Expr) expr.Expr { return expr.NewLog(e) }))
	t.AddRecursiveRule(expr.KindOneMinus.String(), unary(func(e expr.Expr) expr.Expr { return expr.NewOneMinus(e) }))
	t.AddRecursiveRule(expr.KindEyeMinusInv.String(),
		unary(func(e expr.Expr) expr.Expr { return expr.NewEyeMinusInv(e) }))
	t.AddRecursiveRule(expr.KindCumsum.String(), unary(func(e expr.Expr) expr.Expr { return expr.NewCumsum(e) }))
	t.AddRecursiveRule(expr.KindTrace.String(), unary(func(e expr.Expr) expr.Expr { return expr.NewTrace(e) }))
	t.AddRecursiveRule(expr.KindSum.String(), unary(func(e expr.Expr) expr.Expr { return expr.NewSum(e) }))
	t.AddRecursiveRule(expr.KindNeg.String(), unary(func(e expr.Expr) expr.Expr { return expr.NewNeg(e) }))
	t.AddRecursiveRule(expr.KindDiag.String(), unary(func(e expr.Expr) expr.Expr { return expr.NewDiag(e) }))
	t.AddRecursiveRule(expr.KindLogSumExp.String(), unary(func(e expr.Expr) expr.Expr { return expr.NewLogSumExp(e) }))
	t.AddRecursiveRule(expr.KindPower.String(),
		withParam(func(e expr.Expr, p float64) expr.Expr { return expr.NewPower(e, p) }))
	t.AddRecursiveRule(expr.KindPnorm.String(),
		withParam(func(e expr.Expr, p float64) expr.Expr { return expr.NewPnorm(e, p) }))
	t.AddRecursiveRule(expr.KindSumLargest.String(),
		withCount(func(e expr.Expr, k uint) expr.Expr { return expr.NewSumLargest(e, k) }))
	t.AddRecursiveRule(expr.KindSumSmallest.String(),
		withCount(func(e expr.Expr, k uint) expr.Expr { return expr.NewSumSmallest(e, k) }))
	t.AddRecursiveRule(expr.KindLogSumLargest.String(),
		withCount(func(e expr.Expr, k uint) expr.Expr { return expr.NewLogSumLargest(e, k) }))
	t.AddRecursiveRule(expr.KindGeoMean.String(), translateGeoMean)
	//
	return t
}

func nary(fn func([]expr.Expr) expr.Expr) sexp.RecursiveRule[expr.Expr] {
	return func(name string, args []expr.Expr) (expr.Expr, error) {
		if len(args) == 0 {
			return nil, errors.Errorf("%s expects at least one argument", name)
		}
		//
		return construct(func() expr.Expr { return fn(args) })
	}
}

func binary(fn func(expr.Expr, expr.Expr) expr.Expr) sexp.RecursiveRule[expr.Expr] {
	return func(name string, args []expr.Expr) (expr.Expr, error) {
		if len(args) != 2 {
			return nil, errors.Errorf("%s expects two arguments", name)
		}
		//
		return construct(func() expr.Expr { return fn(args[0], args[1]) })
	}
}

func unary(fn func(expr.Expr) expr.Expr) sexp.RecursiveRule[expr.Expr] {
	return func(name string, args []expr.Expr) (expr.Expr, error) {
		if len(args) != 1 {
			return nil, errors.Errorf("%s expects one argument", name)
		}
		//
		return construct(func() expr.Expr { return fn(args[0]) })
	}
}

func withParam(fn func(expr.Expr, float64) expr.Expr) sexp.RecursiveRule[expr.Expr] {
	return func(name string, args []expr.Expr) (expr.Expr, error) {
		if len(args) != 2 {
			return nil, errors.Errorf("%s expects an argument and a parameter", name)
		}
		//
		param, err := parameter(name, args[1])
		if err != nil {
			return nil, err
		}
		//
		return construct(func() expr.Expr { return fn(args[0], param) })
	}
}

func withCount(fn func(expr.Expr, uint) expr.Expr) sexp.RecursiveRule[expr.Expr] {
	return withParam(func(e expr.Expr, k float64) expr.Expr {
		if k < 1 || k != float64(uint(k)) {
			panic(&countError{k})
		}
		//
		return fn(e, uint(k))
	})
}

// (geo-mean X W*)
func translateGeoMean(name string, args []expr.Expr) (expr.Expr, error) {
	if len(args) == 0 {
		return nil, errors.Errorf("%s expects at least one argument", name)
	}
	//
	weights := make([]float64, len(args)-1)
	//
	for i, arg := range args[1:] {
		w, err := parameter(name, arg)
		if err != nil {
			return nil, err
		}
		//
		weights[i] = w
	}
	//
	return construct(func() expr.Expr { return expr.NewGeoMean(args[0], weights...) })
}

// (matrix (ROW) (ROW) ...)
func translateMatrix(l *sexp.List) (expr.Expr, error) {
	var data []float64
	//
	rows := l.Elements[1:]
	if len(rows) == 0 {
		return nil, errors.New("empty matrix")
	}
	//
	cols := -1
	//
	for _, r := range rows {
		row, ok := r.(*sexp.List)
		if !ok {
			return nil, errors.New("matrix row must be a list")
		}
		//
		vals, err := numbers(row.Elements)
		if err != nil {
			return nil, err
		} else if cols != -1 && len(vals) != cols {
			return nil, errors.New("matrix rows have different lengths")
		}
		//
		cols = len(vals)
		data = append(data, vals...)
	}
	//
	return expr.NewConstant(mat.NewDense(len(rows), cols, data)), nil
}

func numbers(elements []sexp.SExp) ([]float64, error) {
	if len(elements) == 0 {
		return nil, errors.New("empty literal")
	}
	//
	vals := make([]float64, len(elements))
	//
	for i, e := range elements {
		s, ok := e.(*sexp.Symbol)
		if !ok {
			return nil, errors.Errorf("expected number, found %s", e)
		}
		//
		v, ok := s.Float()
		if !ok {
			return nil, errors.Errorf("expected number, found %s", e)
		}
		//
		vals[i] = v
	}
	//
	return vals, nil
}

// Extract a numeric parameter, which must be given as a literal.
func parameter(name string, arg expr.Expr) (float64, error) {
	if c, ok := arg.(*expr.Constant); ok {
		if v, ok := c.ScalarValue(); ok {
			return v, nil
		}
	}
	//
	return 0, errors.Errorf("%s expects a numeric parameter, found %s", name, expr.String(arg))
}

type countError struct {
	k float64
}

func (e *countError) Error() string {
	return fmt.Sprintf("expected positive integer count, found %v", e.k)
}

// Construct something whose constructor reports invalid arguments by
// panicking, converting such panics into errors.
func construct[T any](fn func() T) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch e := r.(type) {
			case *expr.ShapeError:
				err = e
			case *expr.ParameterError:
				err = e
			case *countError:
				err = e
			default:
				panic(r)
			}
		}
	}()
	//
	return fn(), nil
}
