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
	"fmt"

	"github.com/consensys/go-dgp/pkg/reduction"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

var (
	// ErrDisciplineViolation is reported when attempting to reduce a problem
	// which is not log-log convex.
	ErrDisciplineViolation = errors.New("problem is not DGP")
	// ErrUnsupportedAtomKind is reported when a problem contains an atom for
	// which there is no rewrite rule.
	ErrUnsupportedAtomKind = errors.New("unsupported atom kind")
	// ErrInverseDataConsumed is reported when inverse data is used more than
	// once.
	ErrInverseDataConsumed = errors.New("inverse data already consumed")
	// ErrInvalidInverseData is reported when inverting with inverse data not
	// produced by this reduction.
	ErrInvalidInverseData = reduction.ErrInvalidInverseData
)

// DisciplineError reports the reasons a problem failed the log-log convexity
// check.  It matches ErrDisciplineViolation under errors.Is.
type DisciplineError struct {
	cause error
}

// Violations returns each individual violation found.
func (e *DisciplineError) Violations() []error {
	return multierr.Errors(e.cause)
}

func (e *DisciplineError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDisciplineViolation, e.cause)
}

// Unwrap exposes both the sentinel and the underlying violations.
func (e *DisciplineError) Unwrap() []error {
	return []error{ErrDisciplineViolation, e.cause}
}
