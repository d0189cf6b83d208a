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
	"fmt"
	"strings"

	"github.com/consensys/go-dgp/pkg/problem"
	"github.com/pkg/errors"
)

// ErrInvalidInverseData is returned when attempting to invert a solution using
// inverse data which was not produced by the reduction in question.
var ErrInvalidInverseData = errors.New("invalid inverse data")

// InverseData is the opaque record produced by applying a reduction, which is
// subsequently required to invert solutions of the reduced problem.
type InverseData any

// Reduction represents a transformation from one problem into an equivalent
// problem, along with the means to map solutions of the latter back into
// solutions of the former.
type Reduction interface {
	// Name returns a short descriptive name for this reduction.
	Name() string
	// Accepts determines whether this reduction can be applied to a given
	// problem.
	Accepts(*problem.Problem) bool
	// Apply this reduction to a given problem, producing an equivalent problem
	// and the data needed to invert its solutions.
	Apply(*problem.Problem) (*problem.Problem, InverseData, error)
	// Invert maps a solution of a reduced problem back into a solution of the
	// original problem, using the inverse data from the corresponding Apply.
	Invert(*problem.Solution, InverseData) (*problem.Solution, error)
}

// ============================================================================
// Chain
// ============================================================================

// Chain composes a sequence of reductions.  Reductions are applied in order,
// and solutions are inverted in the reverse order.
type Chain struct {
	reductions []Reduction
}

// NewChain constructs a chain from zero or more reductions.
func NewChain(reductions ...Reduction) *Chain {
	return &Chain{reductions}
}

// Name implementation for the Reduction interface.
func (c *Chain) Name() string {
	names := make([]string, len(c.reductions))
	//
	for i, r := range c.reductions {
		names[i] = r.Name()
	}
	//
	return fmt.Sprintf("chain(%s)", strings.Join(names, ","))
}

// Accepts implementation for the Reduction interface.  A chain accepts a
// problem when its first reduction does (an empty chain accepts everything).
func (c *Chain) Accepts(p *problem.Problem) bool {
	return len(c.reductions) == 0 || c.reductions[0].Accepts(p)
}

// Apply implementation for the Reduction interface.
func (c *Chain) Apply(p *problem.Problem) (*problem.Problem, InverseData, error) {
	var (
		inverses = make(chainInverseData, len(c.reductions))
		err      error
	)
	//
	for i, r := range c.reductions {
		if p, inverses[i], err = r.Apply(p); err != nil {
			return nil, nil, errors.WithMessage(err, r.Name())
		}
	}
	//
	return p, inverses, nil
}

// Invert implementation for the Reduction interface.
func (c *Chain) Invert(sol *problem.Solution, data InverseData) (*problem.Solution, error) {
	inverses, ok := data.(chainInverseData)
	if !ok || len(inverses) != len(c.reductions) {
		return nil, ErrInvalidInverseData
	}
	//
	for i := len(c.reductions) - 1; i >= 0; i-- {
		var err error
		//
		if sol, err = c.reductions[i].Invert(sol, inverses[i]); err != nil {
			return nil, errors.WithMessage(err, c.reductions[i].Name())
		}
	}
	//
	return sol, nil
}

type chainInverseData []InverseData
