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
	"github.com/consensys/go-dgp/pkg/expr"
	"gonum.org/v1/gonum/mat"
)

// Status reports the outcome of attempting to solve a problem.
type Status uint8

const (
	// Optimal indicates an optimal solution was found.
	Optimal Status = iota
	// OptimalInaccurate indicates a solution was found, but to reduced accuracy.
	OptimalInaccurate
	// Infeasible indicates the problem has no feasible point.
	Infeasible
	// InfeasibleInaccurate indicates the problem appears to be infeasible.
	InfeasibleInaccurate
	// Unbounded indicates the objective is unbounded below.
	Unbounded
	// UnboundedInaccurate indicates the objective appears unbounded below.
	UnboundedInaccurate
	// SolverError indicates the solver failed.
	SolverError
)

var statusNames = []string{
	"optimal",
	"optimal_inaccurate",
	"infeasible",
	"infeasible_inaccurate",
	"unbounded",
	"unbounded_inaccurate",
	"solver_error",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	//
	return "unknown"
}

// SolutionPresent checks whether a status indicates primal values are
// available.
func (s Status) SolutionPresent() bool {
	return s == Optimal || s == OptimalInaccurate
}

// InfeasibleOrUnbounded checks whether a status indicates that no optimal
// point exists.
func (s Status) InfeasibleOrUnbounded() bool {
	switch s {
	case Infeasible, InfeasibleInaccurate, Unbounded, UnboundedInaccurate:
		return true
	default:
		return false
	}
}

// Solution captures the result of solving a problem, with primal values keyed
// by variable identifier and dual values keyed by constraint identifier.
type Solution struct {
	Status     Status
	OptVal     float64
	PrimalVars map[expr.VarID]*mat.Dense
	DualVars   map[ConstraintID]*mat.Dense
	Attr       map[string]any
}

// NewSolution constructs an empty solution with a given status and optimal
// value.
func NewSolution(status Status, optval float64) *Solution {
	return &Solution{
		Status:     status,
		OptVal:     optval,
		PrimalVars: make(map[expr.VarID]*mat.Dense),
		DualVars:   make(map[ConstraintID]*mat.Dense),
		Attr:       make(map[string]any),
	}
}
