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
	"fmt"
	"sync/atomic"

	"github.com/consensys/go-dgp/pkg/sexp"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// VarID is the stable identifier of a decision variable.  Two variable nodes
// with the same identifier denote the same decision variable.
type VarID uint64

// Source of fresh variable identifiers.
var lastVarID atomic.Uint64

// Variable represents a decision variable.  A variable may be declared
// positive, which is required of every variable in a log-log convex program.
// Variables additionally carry a value slot, used when unpacking a solution
// into a problem.
type Variable struct {
	id       VarID
	name     string
	shape    Shape
	positive bool
	value    *mat.Dense
}

// NOTE: This is used for compile time type checking if the given type
// satisfies the given interface.
var _ Expr = (*Variable)(nil)

// NewVariable constructs a fresh (unconstrained) variable of a given shape.
// If the name is empty, a name is derived from the identifier.
func NewVariable(name string, shape Shape) *Variable {
	return &Variable{VarID(lastVarID.Add(1)), name, shape, false, nil}
}

// NewPositiveVariable constructs a fresh variable of a given shape which is
// restricted to strictly positive values.
func NewPositiveVariable(name string, shape Shape) *Variable {
	return &Variable{VarID(lastVarID.Add(1)), name, shape, true, nil}
}

// NewVariableWithID constructs an unconstrained variable which shares the
// identifier of an existing variable.
func NewVariableWithID(id VarID, name string, shape Shape) *Variable {
	return &Variable{id, name, shape, false, nil}
}

// ID returns the identifier of this variable.
func (v *Variable) ID() VarID { return v.id }

// Name returns the name of this variable.
func (v *Variable) Name() string {
	if v.name == "" {
		return fmt.Sprintf("var%d", v.id)
	}
	//
	return v.name
}

// IsPositive determines whether this variable is restricted to positive
// values.
func (v *Variable) IsPositive() bool { return v.positive }

// Value returns the value installed on this variable, or nil if there is
// none.
func (v *Variable) Value() *mat.Dense { return v.value }

// SetValue installs a copy of a given value on this variable.
func (v *Variable) SetValue(value mat.Matrix) error {
	r, c := value.Dims()
	//
	if uint(r) != v.shape.Rows || uint(c) != v.shape.Cols {
		return errors.Errorf("value of shape %dx%d for variable %s of shape %s", r, c, v.Name(), v.shape)
	}
	//
	v.value = mat.DenseCopyOf(value)
	//
	return nil
}

// ClearValue removes any value installed on this variable.
func (v *Variable) ClearValue() { v.value = nil }

// Kind implementation for the Expr interface.
func (v *Variable) Kind() Kind { return KindVariable }

// Args implementation for the Expr interface.
func (v *Variable) Args() []Expr { return nil }

// Shape implementation for the Expr interface.
func (v *Variable) Shape() Shape { return v.shape }

// Eval implementation for the Expr interface.  The environment takes
// precedence over any installed value.
func (v *Variable) Eval(env Env) (*mat.Dense, error) {
	if val, ok := env[v.id]; ok {
		return val, nil
	} else if v.value != nil {
		return v.value, nil
	}
	//
	return nil, errors.Wrapf(ErrNoValue, "%s", v.Name())
}

// Copy implementation for the Expr interface.
func (v *Variable) Copy([]Expr) Expr { return v }

// Lisp implementation for the Expr interface.
func (v *Variable) Lisp() sexp.SExp { return sexp.NewSymbol(v.Name()) }
