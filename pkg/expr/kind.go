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

import "fmt"

// Kind identifies the type of an expression node.  The set of kinds is
// closed: every node constructed by this package reports exactly one of the
// kinds below, and rewrite rules are keyed by kind.
type Kind uint8

const (
	// KindConstant is a (positive, for log-log programs) constant value.
	KindConstant Kind = iota
	// KindVariable is a decision variable.
	KindVariable
	// KindAdd is the sum of one or more expressions (with scalar broadcasting).
	KindAdd
	// KindMultiply is the elementwise product of one or more expressions.
	KindMultiply
	// KindDiv is the elementwise division of two expressions.
	KindDiv
	// KindMatMul is the matrix product of two expressions.
	KindMatMul
	// KindPower raises an expression elementwise to a constant power.
	KindPower
	// KindExp is the elementwise exponential.
	KindExp
	// KindLog is the elementwise natural logarithm.
	KindLog
	// KindMaximum is the elementwise maximum of one or more expressions.
	KindMaximum
	// KindMinimum is the elementwise minimum of one or more expressions.
	KindMinimum
	// KindGeoMean is the weighted geometric mean of the entries of an expression.
	KindGeoMean
	// KindOneMinus is the elementwise function 1-x.
	KindOneMinus
	// KindEyeMinusInv is the matrix function (I-X)^-1.
	KindEyeMinusInv
	// KindPnorm is the p-norm of the entries of an expression.
	KindPnorm
	// KindSumLargest is the sum of the k largest entries of an expression.
	KindSumLargest
	// KindSumSmallest is the sum of the k smallest entries of an expression.
	KindSumSmallest
	// KindCumsum is the cumulative sum down the columns of an expression.
	KindCumsum
	// KindTrace is the trace of a square matrix.
	KindTrace
	// KindSum is the sum of all entries of an expression.
	KindSum
	// KindNeg is elementwise negation.
	KindNeg
	// KindDiag extracts the diagonal of a square matrix as a column vector.
	KindDiag
	// KindLogAddExp is the elementwise log(exp(a_1) + ... + exp(a_n)).
	KindLogAddExp
	// KindLogSumExp is log of the sum of exps of all entries of an expression.
	KindLogSumExp
	// KindLogMatMul is the matrix product carried out in log space, i.e. entry
	// (i,j) is log(sum_k exp(A_ik + B_kj)).
	KindLogMatMul
	// KindLogSumLargest is log of the sum of the k largest exps of the entries
	// of an expression.
	KindLogSumLargest
	// NumKinds is the number of expression kinds.
	NumKinds
)

var kindNames = [NumKinds]string{
	KindConstant:      "constant",
	KindVariable:      "variable",
	KindAdd:           "+",
	KindMultiply:      "*",
	KindDiv:           "/",
	KindMatMul:        "@",
	KindPower:         "^",
	KindExp:           "exp",
	KindLog:           "log",
	KindMaximum:       "max",
	KindMinimum:       "min",
	KindGeoMean:       "geo-mean",
	KindOneMinus:      "one-minus",
	KindEyeMinusInv:   "eye-minus-inv",
	KindPnorm:         "pnorm",
	KindSumLargest:    "sum-largest",
	KindSumSmallest:   "sum-smallest",
	KindCumsum:        "cumsum",
	KindTrace:         "trace",
	KindSum:           "sum",
	KindNeg:           "neg",
	KindDiag:          "diag",
	KindLogAddExp:     "log-add-exp",
	KindLogSumExp:     "log-sum-exp",
	KindLogMatMul:     "log-matmul",
	KindLogSumLargest: "log-sum-largest",
}

// String returns the symbol used to write nodes of this kind as S-expressions.
func (k Kind) String() string {
	if k < NumKinds {
		return kindNames[k]
	}
	//
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// KindOf looks up a kind by its S-expression symbol.
func KindOf(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	//
	return 0, false
}
