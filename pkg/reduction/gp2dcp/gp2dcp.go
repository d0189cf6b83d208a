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
	"math"

	"github.com/consensys/go-dgp/pkg/problem"
	"github.com/consensys/go-dgp/pkg/reduction"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// Gp2Dcp reduces a log-log convex (DGP) problem to an equivalent convex (DCP)
// problem, by substituting every positive variable x with u = log(x) and
// rewriting every expression f into one equal to log(f).  Solutions of the
// reduced problem are mapped back by exponentiation.
type Gp2Dcp struct {
	registry *Registry
}

// InverseData is the record produced by applying a Gp2Dcp reduction.  It can
// be used to invert exactly one solution.
type InverseData struct {
	canon    *reduction.Canonicalization
	data     reduction.InverseData
	original *problem.Problem
	cache    *VariableCache
	consumed bool
}

// Original returns the problem from which this record was produced.
func (d *InverseData) Original() *problem.Problem { return d.original }

// Cache returns the variable substitutions made when this record was produced.
func (d *InverseData) Cache() *VariableCache { return d.cache }

// New constructs a reduction using the standard rewrite rules.
func New() *Gp2Dcp {
	return &Gp2Dcp{NewRegistry()}
}

// NewWithRegistry constructs a reduction using a given set of rewrite rules.
func NewWithRegistry(registry *Registry) *Gp2Dcp {
	return &Gp2Dcp{registry}
}

// Name implementation for the reduction.Reduction interface.
func (g *Gp2Dcp) Name() string { return "gp2dcp" }

// Accepts implementation for the reduction.Reduction interface.  This holds
// for any log-log convex problem.
func (g *Gp2Dcp) Accepts(p *problem.Problem) bool {
	return p.IsDGP()
}

// Apply implementation for the reduction.Reduction interface.  The given
// problem is left unchanged, even when this fails.
func (g *Gp2Dcp) Apply(p *problem.Problem) (*problem.Problem, reduction.InverseData, error) {
	if err := p.CheckDGP(); err != nil {
		return nil, nil, &DisciplineError{err}
	}
	//
	restore := restructure(p)
	defer restore()
	//
	var (
		cache = NewVariableCache(g.registry)
		canon = reduction.NewCanonicalization(g.Name(), cache)
	)
	//
	q, data, err := canon.Apply(p)
	if err != nil {
		return nil, nil, err
	}
	//
	log.Debugf("gp2dcp: substituted %d variable(s), added %d auxiliary constraint(s)",
		cache.Len(), len(q.Constraints())-len(p.Constraints()))
	//
	return q, &InverseData{canon, data, p, cache, false}, nil
}

// Invert implementation for the reduction.Reduction interface.  Primal values
// are exponentiated.  When a solution is present, the optimal value is
// recomputed from the original problem.  When the problem is infeasible or
// unbounded, the optimal value is exponentiated.  Dual values are passed
// through unchanged.
func (g *Gp2Dcp) Invert(sol *problem.Solution, data reduction.InverseData) (*problem.Solution, error) {
	inverse, ok := data.(*InverseData)
	if !ok {
		return nil, ErrInvalidInverseData
	} else if inverse.consumed {
		return nil, ErrInverseDataConsumed
	}
	//
	inverse.consumed = true
	//
	res, err := inverse.canon.Invert(sol, inverse.data)
	if err != nil {
		return nil, err
	}
	//
	for id, val := range res.PrimalVars {
		var x mat.Dense
		//
		x.Apply(func(_, _ int, v float64) float64 { return math.Exp(v) }, val)
		res.PrimalVars[id] = &x
	}
	//
	switch {
	case res.Status.SolutionPresent():
		if res.OptVal, err = recoverValue(inverse.original, res); err != nil {
			return nil, err
		}
	case res.Status.InfeasibleOrUnbounded():
		res.OptVal = math.Exp(res.OptVal)
	}
	//
	return res, nil
}

// Evaluate the objective of the original problem at a given solution, leaving
// no values installed on it afterwards.
func recoverValue(p *problem.Problem, sol *problem.Solution) (float64, error) {
	defer p.ClearSolution()
	//
	if err := p.Unpack(sol); err != nil {
		return 0, err
	}
	//
	return p.Value()
}
