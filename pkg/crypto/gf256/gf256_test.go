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

import (
	"errors"
	"testing"
)

// TestMulIdentities verifies the multiplicative identity and the
// absorbing property of zero.
func TestMulIdentities(t *testing.T) {
	for a := 0; a < 256; a++ {
		if got := Mul(byte(a), 1); got != byte(a) {
			t.Errorf("Mul(%d, 1) = %d, want %d", a, got, a)
		}
		if got := Mul(1, byte(a)); got != byte(a) {
			t.Errorf("Mul(1, %d) = %d, want %d", a, got, a)
		}
		if got := Mul(byte(a), 0); got != 0 {
			t.Errorf("Mul(%d, 0) = %d, want 0", a, got)
		}
	}
}

// TestMulMatchesSlow checks the table-based multiplication against the
// bitwise reference implementation over the full field.
func TestMulMatchesSlow(t *testing.T) {
	for a := 0; a < 256; a++ {
		for b := 0; b < 256; b++ {
			want := mulSlow(byte(a), byte(b))
			if got := Mul(byte(a), byte(b)); got != want {
				t.Fatalf("Mul(%d, %d) = %d, want %d", a, b, got, want)
			}
		}
	}
}

// TestMulCommutative spot-checks commutativity.
func TestMulCommutative(t *testing.T) {
	pairs := [][2]byte{{3, 7}, {0x53, 0xCA}, {255, 2}, {16, 16}, {0x1B, 0x80}}
	for _, p := range pairs {
		if Mul(p[0], p[1]) != Mul(p[1], p[0]) {
			t.Errorf("Mul(%d, %d) != Mul(%d, %d)", p[0], p[1], p[1], p[0])
		}
	}
}

// TestDivInvertsMul verifies that division undoes multiplication for
// every pair of field elements with a non-zero divisor.
func TestDivInvertsMul(t *testing.T) {
	for a := 0; a < 256; a++ {
		for b := 1; b < 256; b++ {
			product := Mul(byte(a), byte(b))
			got, err := Div(product, byte(b))
			if err != nil {
				t.Fatalf("Div(%d, %d) returned error: %v", product, b, err)
			}
			if got != byte(a) {
				t.Fatalf("Div(Mul(%d, %d), %d) = %d, want %d", a, b, b, got, a)
			}
		}
	}
}

func TestDivByZero(t *testing.T) {
	if _, err := Div(5, 0); !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("Div(5, 0) error = %v, want ErrDivisionByZero", err)
	}
	if _, err := Inverse(0); !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("Inverse(0) error = %v, want ErrDivisionByZero", err)
	}
}

func TestInverse(t *testing.T) {
	for a := 1; a < 256; a++ {
		inv, err := Inverse(byte(a))
		if err != nil {
			t.Fatalf("Inverse(%d) returned error: %v", a, err)
		}
		if got := Mul(byte(a), inv); got != 1 {
			t.Fatalf("Mul(%d, Inverse(%d)) = %d, want 1", a, a, got)
		}
	}
}

// evalNaive evaluates a polynomial by direct exponentiation, as a
// reference for Horner's method.
func evalNaive(coefficients []byte, x byte) byte {
	var result byte
	for i, c := range coefficients {
		term := c
		for j := 0; j < i; j++ {
			term = Mul(term, x)
		}
		result ^= term
	}
	return result
}

func TestEval(t *testing.T) {
	tests := []struct {
		name         string
		coefficients []byte
	}{
		{"empty", nil},
		{"constant", []byte{42}},
		{"linear", []byte{7, 3}},
		{"quadratic", []byte{0xA5, 0x5A, 0xFF}},
		{"degree 9", []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for x := 0; x < 256; x++ {
				want := evalNaive(tt.coefficients, byte(x))
				if got := Eval(tt.coefficients, byte(x)); got != want {
					t.Fatalf("Eval(%v, %d) = %d, want %d", tt.coefficients, x, got, want)
				}
			}
		})
	}
}

// TestEvalConstantTerm verifies that evaluating at x=0 yields the
// constant term, the property Shamir splitting relies on.
func TestEvalConstantTerm(t *testing.T) {
	coefficients := []byte{0xC3, 0x11, 0x94, 0x7E}
	if got := Eval(coefficients, 0); got != 0xC3 {
		t.Errorf("Eval(coeffs, 0) = %d, want %d", got, 0xC3)
	}
}

// TestInterpolateAtZero checks that interpolation over threshold-many
// evaluations of a polynomial recovers its constant term.
func TestInterpolateAtZero(t *testing.T) {
	tests := []struct {
		name         string
		coefficients []byte
		xs           []byte
	}{
		{"two points of a line", []byte{99, 13}, []byte{1, 2}},
		{"three points of a quadratic", []byte{0x5C, 0x21, 0xE0}, []byte{1, 2, 3}},
		{"non-contiguous x values", []byte{7, 88, 200}, []byte{5, 77, 254}},
		{"five points of a quartic", []byte{1, 2, 3, 4, 5}, []byte{10, 20, 30, 40, 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points := make([]Point, len(tt.xs))
			for i, x := range tt.xs {
				points[i] = Point{X: x, Y: Eval(tt.coefficients, x)}
			}
			got, err := InterpolateAtZero(points)
			if err != nil {
				t.Fatalf("InterpolateAtZero returned error: %v", err)
			}
			if got != tt.coefficients[0] {
				t.Errorf("InterpolateAtZero = %d, want constant term %d", got, tt.coefficients[0])
			}
		})
	}
}

func TestInterpolateDuplicateX(t *testing.T) {
	points := []Point{{X: 1, Y: 10}, {X: 2, Y: 20}, {X: 1, Y: 30}}
	if _, err := InterpolateAtZero(points); !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("InterpolateAtZero with duplicate x error = %v, want ErrDivisionByZero", err)
	}
}

func BenchmarkMul(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Mul(byte(i), byte(i>>8))
	}
}
