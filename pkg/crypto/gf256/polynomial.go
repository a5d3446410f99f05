// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-recovery.
//
// go-recovery is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package gf256

// Point is an (x, y) evaluation of a polynomial over GF(2^8).
type Point struct {
	X byte
	Y byte
}

// Eval evaluates the polynomial with the given coefficients at x using
// Horner's method. coefficients[0] is the constant term. Addition in
// GF(2^8) is XOR.
func Eval(coefficients []byte, x byte) byte {
	if len(coefficients) == 0 {
		return 0
	}
	result := coefficients[len(coefficients)-1]
	for i := len(coefficients) - 2; i >= 0; i-- {
		result = Mul(result, x) ^ coefficients[i]
	}
	return result
}

// InterpolateAtZero computes the Lagrange interpolation of the polynomial
// passing through the given points, evaluated at x=0. This recovers the
// constant term of the polynomial.
//
// For each point i the Lagrange basis at zero is
//
//	l_i(0) = Π_{j≠i} x_j / Π_{j≠i} (x_i ⊕ x_j)
//
// and the result is the XOR-sum of y_i * l_i(0). Two points sharing an
// x-coordinate make a denominator factor zero and the interpolation fails
// with ErrDivisionByZero.
func InterpolateAtZero(points []Point) (byte, error) {
	var result byte
	for i := range points {
		numerator := byte(1)
		denominator := byte(1)
		for j := range points {
			if i == j {
				continue
			}
			numerator = Mul(numerator, points[j].X)
			denominator = Mul(denominator, points[i].X^points[j].X)
		}
		basis, err := Div(numerator, denominator)
		if err != nil {
			return 0, err
		}
		result ^= Mul(points[i].Y, basis)
	}
	return result, nil
}
