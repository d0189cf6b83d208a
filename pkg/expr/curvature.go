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

// Curvature classifies an expression as constant, affine, convex or concave
// (or unknown).  The same classification is used both for ordinary curvature
// and for log-log curvature, where it describes the curvature of log(f(exp(u)))
// in u.
type Curvature uint8

const (
	// UnknownCurvature indicates the curvature could not be established.
	UnknownCurvature Curvature = iota
	// ConstantCurvature indicates an expression which has no variables.
	ConstantCurvature
	// AffineCurvature indicates an expression which is both convex and concave.
	AffineCurvature
	// ConvexCurvature indicates a convex expression.
	ConvexCurvature
	// ConcaveCurvature indicates a concave expression.
	ConcaveCurvature
)

// IsConstant checks whether this curvature is constant.
func (c Curvature) IsConstant() bool { return c == ConstantCurvature }

// IsAffine checks whether this curvature is affine (or constant).
func (c Curvature) IsAffine() bool { return c == ConstantCurvature || c == AffineCurvature }

// IsConvex checks whether this curvature is convex (or affine).
func (c Curvature) IsConvex() bool { return c.IsAffine() || c == ConvexCurvature }

// IsConcave checks whether this curvature is concave (or affine).
func (c Curvature) IsConcave() bool { return c.IsAffine() || c == ConcaveCurvature }

func (c Curvature) String() string {
	switch c {
	case ConstantCurvature:
		return "constant"
	case AffineCurvature:
		return "affine"
	case ConvexCurvature:
		return "convex"
	case ConcaveCurvature:
		return "concave"
	default:
		return "unknown"
	}
}

func (c Curvature) negate() Curvature {
	switch c {
	case ConvexCurvature:
		return ConcaveCurvature
	case ConcaveCurvature:
		return ConvexCurvature
	default:
		return c
	}
}

// Monotonicity describes how a function varies in one of its arguments.
type Monotonicity uint8

const (
	// Increasing in the given argument.
	Increasing Monotonicity = iota
	// Decreasing in the given argument.
	Decreasing
	// Nonmonotone in the given argument.
	Nonmonotone
)

// CurvatureOf determines the curvature of an expression using the standard
// composition rules of disciplined convex programming.
func CurvatureOf(e Expr) Curvature {
	switch e.Kind() {
	case KindConstant:
		return ConstantCurvature
	case KindVariable:
		return AffineCurvature
	case KindMultiply, KindMatMul:
		return scaledCurvature(e.Args(), nil)
	case KindDiv:
		return scaledCurvature(e.Args()[:1], e.Args()[1])
	case KindPower:
		return powerCurvature(e.(*Power).Exponent(), e.Args()[0])
	case KindPnorm:
		if e.(*Pnorm).Order() >= 1 {
			return compose(ConvexCurvature, Nonmonotone, e.Args(), CurvatureOf)
		}
		//
		return compose(ConcaveCurvature, Increasing, e.Args(), CurvatureOf)
	case KindAdd, KindSum, KindTrace, KindDiag, KindCumsum:
		return compose(AffineCurvature, Increasing, e.Args(), CurvatureOf)
	case KindNeg, KindOneMinus:
		return compose(AffineCurvature, Decreasing, e.Args(), CurvatureOf)
	case KindExp, KindMaximum, KindSumLargest, KindLogAddExp, KindLogSumExp, KindLogMatMul,
		KindLogSumLargest:
		return compose(ConvexCurvature, Increasing, e.Args(), CurvatureOf)
	case KindLog, KindMinimum, KindGeoMean, KindSumSmallest:
		return compose(ConcaveCurvature, Increasing, e.Args(), CurvatureOf)
	default:
		return UnknownCurvature
	}
}

// LogLogCurvatureOf determines the log-log curvature of an expression using
// the composition rules of disciplined geometric programming.  Constants are
// only recognised when all their entries are positive, and variables only when
// they are declared positive.
func LogLogCurvatureOf(e Expr) Curvature {
	switch e.Kind() {
	case KindConstant:
		if e.(*Constant).IsPositive() {
			return ConstantCurvature
		}
		//
		return UnknownCurvature
	case KindVariable:
		if e.(*Variable).IsPositive() {
			return AffineCurvature
		}
		//
		return UnknownCurvature
	case KindMultiply, KindGeoMean:
		return compose(AffineCurvature, Increasing, e.Args(), LogLogCurvatureOf)
	case KindDiv:
		num := compose(AffineCurvature, Increasing, e.Args()[:1], LogLogCurvatureOf)
		den := compose(AffineCurvature, Decreasing, e.Args()[1:], LogLogCurvatureOf)
		//
		return join(num, den)
	case KindPower:
		return logLogPowerCurvature(e.(*Power).Exponent(), e.Args()[0])
	case KindAdd, KindMatMul, KindExp, KindMaximum, KindEyeMinusInv, KindPnorm, KindSumLargest,
		KindCumsum, KindTrace, KindSum:
		return compose(ConvexCurvature, Increasing, e.Args(), LogLogCurvatureOf)
	case KindLog, KindMinimum, KindSumSmallest:
		return compose(ConcaveCurvature, Increasing, e.Args(), LogLogCurvatureOf)
	case KindOneMinus:
		return compose(ConcaveCurvature, Decreasing, e.Args(), LogLogCurvatureOf)
	default:
		return UnknownCurvature
	}
}

// Apply the composition rule for a function of given curvature and (uniform)
// monotonicity over a set of arguments.
func compose(fn Curvature, mono Monotonicity, args []Expr, curvatureOf func(Expr) Curvature) Curvature {
	var (
		constant = true
		convex   = fn.IsConvex()
		concave  = fn.IsConcave()
	)
	//
	for _, arg := range args {
		c := curvatureOf(arg)
		constant = constant && c.IsConstant()
		//
		if c.IsAffine() {
			continue
		}
		//
		switch mono {
		case Increasing:
			convex = convex && c.IsConvex()
			concave = concave && c.IsConcave()
		case Decreasing:
			convex = convex && c.IsConcave()
			concave = concave && c.IsConvex()
		default:
			convex, concave = false, false
		}
	}
	//
	switch {
	case constant:
		return ConstantCurvature
	case convex && concave:
		return AffineCurvature
	case convex:
		return ConvexCurvature
	case concave:
		return ConcaveCurvature
	default:
		return UnknownCurvature
	}
}

// Combine the curvatures of two terms which are added together.
func join(lhs Curvature, rhs Curvature) Curvature {
	switch {
	case lhs == UnknownCurvature || rhs == UnknownCurvature:
		return UnknownCurvature
	case lhs.IsConstant() && rhs.IsConstant():
		return ConstantCurvature
	case lhs.IsAffine() && rhs.IsAffine():
		return AffineCurvature
	case lhs.IsConvex() && rhs.IsConvex():
		return ConvexCurvature
	case lhs.IsConcave() && rhs.IsConcave():
		return ConcaveCurvature
	default:
		return UnknownCurvature
	}
}

// Determine the curvature of a product where all but (at most) one factor is
// constant.  An optional constant denominator scales the product as well.
func scaledCurvature(factors []Expr, den Expr) Curvature {
	var (
		sign     = 1
		variable Expr
	)
	//
	if den != nil {
		if !CurvatureOf(den).IsConstant() {
			return UnknownCurvature
		}
		//
		sign = constantSign(den)
	}
	//
	for _, arg := range factors {
		c := CurvatureOf(arg)
		//
		switch {
		case c.IsConstant():
			sign *= constantSign(arg)
		case variable != nil:
			// product of two non-constant terms
			return UnknownCurvature
		default:
			variable = arg
		}
	}
	//
	if variable == nil {
		return ConstantCurvature
	}
	//
	c := CurvatureOf(variable)
	//
	switch {
	case c.IsAffine():
		return AffineCurvature
	case sign > 0:
		return c
	case sign < 0:
		return c.negate()
	default:
		return UnknownCurvature
	}
}

// Determine the sign of a constant expression.
func constantSign(e Expr) int {
	val, err := e.Eval(nil)
	if err != nil {
		return 0
	}
	//
	return signOf(val)
}

func powerCurvature(p float64, arg Expr) Curvature {
	switch {
	case p == 0:
		return ConstantCurvature
	case p == 1:
		return CurvatureOf(arg)
	case p > 0 && p < 1:
		return compose(ConcaveCurvature, Increasing, []Expr{arg}, CurvatureOf)
	case p > 1:
		return compose(ConvexCurvature, Nonmonotone, []Expr{arg}, CurvatureOf)
	default:
		return compose(ConvexCurvature, Decreasing, []Expr{arg}, CurvatureOf)
	}
}

func logLogPowerCurvature(p float64, arg Expr) Curvature {
	switch {
	case LogLogCurvatureOf(arg) == UnknownCurvature:
		return UnknownCurvature
	case p == 0:
		return ConstantCurvature
	case p > 0:
		return compose(AffineCurvature, Increasing, []Expr{arg}, LogLogCurvatureOf)
	default:
		return compose(AffineCurvature, Decreasing, []Expr{arg}, LogLogCurvatureOf)
	}
}
