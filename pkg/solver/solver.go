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
package solver

import (
	"math"
	"slices"

	"github.com/consensys/go-dgp/pkg/expr"
	"github.com/consensys/go-dgp/pkg/problem"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// ErrNotDCP is returned when attempting to solve a problem which does not
// follow the rules of disciplined convex programming.
var ErrNotDCP = errors.New("problem is not DCP")

// Solver is a small reference solver for convex problems, based on an
// augmented Lagrangian method.  Each inner minimisation uses BFGS, with
// gradients obtained by central differences.  This is suitable for the modest
// problems arising in tests and from the command line, rather than for
// performance.
type Solver struct {
	config Config
}

// New constructs a solver with a given configuration.
func New(config Config) *Solver {
	return &Solver{config}
}

// Accepts determines whether a given problem can be solved.
func (s *Solver) Accepts(p *problem.Problem) bool {
	return p.IsDCP()
}

// Solve a given convex problem.  Primal values are keyed by variable, and dual
// values (the final multiplier estimates) by constraint.  The optimal value is
// +Inf for infeasible problems, and -Inf for unbounded problems.
func (s *Solver) Solve(p *problem.Problem) (*problem.Solution, error) {
	if err := p.CheckDCP(); err != nil {
		return nil, errors.Wrap(ErrNotDCP, err.Error())
	}
	//
	var (
		lag       = newLagrangian(p, s.config.InitialPenalty)
		z         = make([]float64, lag.layout.size)
		prevF     = math.Inf(1)
		prevViol  = math.Inf(1)
		iteration uint
	)
	//
	for iteration = 1; iteration <= s.config.MaxIterations; iteration++ {
		z = s.minimise(lag, z)
		//
		f, viol, err := lag.evaluate(z)
		if err != nil {
			return nil, err
		}
		//
		log.Debugf("solver: iteration %d, objective %g, violation %g, penalty %g", iteration, f, viol,
			lag.penalty)
		//
		switch {
		case f < s.config.UnboundedThreshold:
			return lag.solution(problem.Unbounded, math.Inf(-1), z, iteration), nil
		case viol <= s.config.Tolerance && math.Abs(f-prevF) <= math.Sqrt(s.config.Tolerance)*(1+math.Abs(f)):
			if g := lag.gradientNorm(z); g > s.config.GradientTolerance*(1+math.Abs(f)) {
				log.Debugf("solver: stalled with gradient norm %g", g)
				return lag.solution(problem.OptimalInaccurate, f, z, iteration), nil
			}
			//
			return lag.solution(problem.Optimal, f, z, iteration), nil
		}
		//
		if err := lag.updateMultipliers(z); err != nil {
			return nil, err
		}
		//
		if viol > 0.25*prevViol {
			lag.penalty = math.Min(10*lag.penalty, s.config.MaxPenalty)
		}
		//
		prevF, prevViol = f, viol
	}
	//
	f, viol, err := lag.evaluate(z)
	if err != nil {
		return nil, err
	} else if viol <= math.Sqrt(s.config.Tolerance) {
		return lag.solution(problem.OptimalInaccurate, f, z, iteration-1), nil
	}
	//
	return lag.solution(problem.Infeasible, math.Inf(1), z, iteration-1), nil
}

// Run an inner minimisation of the augmented Lagrangian from a given starting
// point.
func (s *Solver) minimise(lag *lagrangian, z0 []float64) []float64 {
	if len(z0) == 0 {
		return z0
	}
	//
	prob := optimize.Problem{
		Func: lag.value,
		Grad: func(grad []float64, z []float64) {
			fd.Gradient(grad, lag.value, z, &fd.Settings{Formula: fd.Central})
		},
	}
	//
	settings := &optimize.Settings{
		GradientThreshold: s.config.Tolerance / 10,
		MajorIterations:   int(s.config.MaxInnerIterations),
	}
	// A failed line search still reports the best point found.
	result, err := optimize.Minimize(prob, z0, settings, &optimize.BFGS{})
	if result == nil {
		log.Debugf("solver: inner minimisation failed: %v", err)
		return z0
	} else if err != nil {
		log.Debugf("solver: inner minimisation stopped: %v", err)
	}
	//
	if math.IsNaN(result.F) || result.F > lag.value(z0) {
		return z0
	}
	//
	return result.X
}

// ============================================================================
// Augmented Lagrangian
// ============================================================================

type lagrangian struct {
	problem     *problem.Problem
	layout      *layout
	multipliers [][]float64
	penalty     float64
}

func newLagrangian(p *problem.Problem, penalty float64) *lagrangian {
	multipliers := make([][]float64, len(p.Constraints()))
	//
	for i, c := range p.Constraints() {
		multipliers[i] = make([]float64, c.Shape().Size())
	}
	//
	return &lagrangian{p, newLayout(p.Variables()), multipliers, penalty}
}

// Value of the augmented Lagrangian at a given point.  Points at which the
// problem cannot be evaluated have value +Inf.
func (l *lagrangian) value(z []float64) float64 {
	env := l.layout.env(z)
	//
	f, err := l.problem.Objective().Eval(env)
	if err != nil {
		return math.Inf(1)
	}
	//
	total := f.At(0, 0)
	//
	for i, c := range l.problem.Constraints() {
		residual, err := c.Residual(env)
		if err != nil {
			return math.Inf(1)
		}
		//
		for j, r := range expr.Entries(residual) {
			total += l.term(c.Relation(), l.multipliers[i][j], r)
		}
	}
	//
	if math.IsNaN(total) {
		return math.Inf(1)
	}
	//
	return total
}

// Largest component of the gradient of the augmented Lagrangian at a given
// point.
func (l *lagrangian) gradientNorm(z []float64) float64 {
	if len(z) == 0 {
		return 0
	}
	//
	grad := fd.Gradient(nil, l.value, z, &fd.Settings{Formula: fd.Central})
	//
	return floats.Norm(grad, math.Inf(1))
}

// Contribution of a single residual to the augmented Lagrangian.
func (l *lagrangian) term(relation problem.Relation, multiplier float64, r float64) float64 {
	if relation == problem.Equal {
		return multiplier*r + 0.5*l.penalty*r*r
	}
	//
	shifted := math.Max(0, multiplier/l.penalty+r)
	//
	return 0.5 * l.penalty * (shifted*shifted - (multiplier/l.penalty)*(multiplier/l.penalty))
}

// Evaluate the objective and the largest constraint violation at a given
// point.
func (l *lagrangian) evaluate(z []float64) (float64, float64, error) {
	var (
		env         = l.layout.env(z)
		constraints = l.problem.Constraints()
		violations  = make([]float64, len(constraints)+1)
	)
	//
	f, err := l.problem.Objective().Eval(env)
	if err != nil {
		return 0, 0, err
	}
	//
	for i, c := range constraints {
		if violations[i+1], err = c.Violation(env); err != nil {
			return 0, 0, err
		}
	}
	//
	viol := floats.Max(violations)
	if math.IsNaN(viol) {
		viol = math.Inf(1)
	}
	//
	return f.At(0, 0), viol, nil
}

func (l *lagrangian) updateMultipliers(z []float64) error {
	env := l.layout.env(z)
	//
	for i, c := range l.problem.Constraints() {
		residual, err := c.Residual(env)
		if err != nil {
			return err
		}
		//
		for j, r := range expr.Entries(residual) {
			if c.Relation() == problem.Equal {
				l.multipliers[i][j] += l.penalty * r
			} else {
				l.multipliers[i][j] = math.Max(0, l.multipliers[i][j]+l.penalty*r)
			}
		}
	}
	//
	return nil
}

func (l *lagrangian) solution(status problem.Status, optval float64, z []float64, iterations uint) *problem.Solution {
	sol := problem.NewSolution(status, optval)
	//
	if status.SolutionPresent() {
		sol.PrimalVars = l.layout.values(z)
		//
		for i, c := range l.problem.Constraints() {
			shape := c.Shape()
			sol.DualVars[c.ID()] = mat.NewDense(int(shape.Rows), int(shape.Cols), slices.Clone(l.multipliers[i]))
		}
	}
	//
	sol.Attr["iterations"] = iterations
	sol.Attr["penalty"] = l.penalty
	//
	return sol
}
