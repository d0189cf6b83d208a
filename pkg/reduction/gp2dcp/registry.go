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
	"github.com/consensys/go-dgp/pkg/expr"
	"github.com/consensys/go-dgp/pkg/reduction"
	"github.com/pkg/errors"
)

// Registry maps each supported kind of atom to the rule which rewrites it
// into log space.  Variables have no rule here, since they are always handled
// by a VariableCache.
type Registry struct {
	rules map[expr.Kind]reduction.Rule
}

// NewRegistry constructs a registry holding the standard rewrite rules.
func NewRegistry() *Registry {
	r := &Registry{make(map[expr.Kind]reduction.Rule)}
	//
	r.Register(expr.KindConstant, constantRule)
	r.Register(expr.KindAdd, addRule)
	r.Register(expr.KindMultiply, multiplyRule)
	r.Register(expr.KindDiv, divRule)
	r.Register(expr.KindMatMul, matMulRule)
	r.Register(expr.KindExp, reduction.PassThrough)
	r.Register(expr.KindLog, reduction.PassThrough)
	r.Register(expr.KindPower, powerRule)
	r.Register(expr.KindMaximum, reduction.Epigraph)
	r.Register(expr.KindGeoMean, geoMeanRule)
	r.Register(expr.KindOneMinus, oneMinusRule)
	r.Register(expr.KindEyeMinusInv, eyeMinusInvRule)
	r.Register(expr.KindPnorm, pnormRule)
	r.Register(expr.KindSumLargest, sumLargestRule)
	r.Register(expr.KindTrace, traceRule)
	r.Register(expr.KindSum, sumRule)
	//
	return r
}

// Register a rule for a given kind, replacing any existing rule.  Variables
// cannot be registered.
func (r *Registry) Register(kind expr.Kind, rule reduction.Rule) {
	if kind == expr.KindVariable {
		panic("variables are handled by the substitution cache")
	}
	//
	r.rules[kind] = rule
}

// Lookup implementation for the reduction.Rules interface.  Fails with
// ErrUnsupportedAtomKind for any kind without a rule.
func (r *Registry) Lookup(kind expr.Kind) (reduction.Rule, error) {
	if rule, ok := r.rules[kind]; ok {
		return rule, nil
	}
	//
	return nil, errors.Wrapf(ErrUnsupportedAtomKind, "%s", kind)
}
