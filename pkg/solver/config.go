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

// Config determines the behaviour of the solver.
type Config struct {
	// Tolerance on constraint violation for a solution to be optimal.
	Tolerance float64
	// GradientTolerance bounds the gradient of the augmented Lagrangian at a
	// solution reported as optimal.  Points where the inner minimisation
	// stalled (e.g. at a kink of a nonsmooth objective) fail this test.
	GradientTolerance float64
	// MaxIterations bounds the number of outer (multiplier update) iterations.
	MaxIterations uint
	// MaxInnerIterations bounds the number of iterations of each inner
	// minimisation.
	MaxInnerIterations uint
	// InitialPenalty is the initial weight of the quadratic penalty.
	InitialPenalty float64
	// MaxPenalty caps the weight of the quadratic penalty.
	MaxPenalty float64
	// UnboundedThreshold is the objective value below which a problem is
	// considered unbounded.
	UnboundedThreshold float64
}

// DefaultConfig returns the default solver configuration.
func DefaultConfig() Config {
	return Config{
		Tolerance:          1e-8,
		GradientTolerance:  1e-5,
		MaxIterations:      50,
		MaxInnerIterations: 1000,
		InitialPenalty:     10,
		MaxPenalty:         1e8,
		UnboundedThreshold: -1e10,
	}
}
