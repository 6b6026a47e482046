// Package testutil provides reusable test helper functions for the CMA benchmark tests.
package testutil

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance = 1e-10

	// StrategyTolerance is the relative tolerance allowed between two
	// update strategies that differ only in summation order or fusing.
	StrategyTolerance = 1e-9
)

// AssertComplexInDelta verifies |expected - actual| <= delta component-wise.
func AssertComplexInDelta(t *testing.T, expected, actual complex128, delta float64, msgAndArgs ...any) bool {
	t.Helper()
	okRe := assert.InDelta(t, real(expected), real(actual), delta, msgAndArgs...)
	okIm := assert.InDelta(t, imag(expected), imag(actual), delta, msgAndArgs...)
	return okRe && okIm
}

// AssertComplexSlicesClose verifies two slices have equal length and every
// element agrees within tolerance relative to the larger magnitude. Elements
// smaller than DefaultTolerance in magnitude are compared absolutely.
func AssertComplexSlicesClose(t *testing.T, expected, actual []complex128, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if !assert.Len(t, actual, len(expected), msgAndArgs...) {
		return false
	}
	for i := range expected {
		diff := cmplx.Abs(expected[i] - actual[i])
		scale := math.Max(cmplx.Abs(expected[i]), cmplx.Abs(actual[i]))
		if scale < DefaultTolerance {
			scale = 1
		}
		if diff/scale > tolerance {
			return assert.Fail(t, "slices differ",
				"element %d: expected %v, actual %v (relative error %e > %e)",
				i, expected[i], actual[i], diff/scale, tolerance)
		}
	}
	return true
}

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf(t *testing.T, s []complex128, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if cmplx.IsNaN(v) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if cmplx.IsInf(v) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertAllZero verifies every element is exactly zero.
func AssertAllZero(t *testing.T, s []complex128, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if v != 0 {
			return assert.Fail(t, "non-zero element", "s[%d]=%v", i, v)
		}
	}
	return true
}

// AssertRelativeError verifies that the relative error between actual and expected is within tolerance.
func AssertRelativeError(t *testing.T, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
	}
	relError := math.Abs(actual-expected) / math.Abs(expected)
	return assert.LessOrEqual(t, relError, tolerance,
		"relative error %e exceeds tolerance %e (expected=%f, actual=%f)",
		relError, tolerance, expected, actual)
}

// Ones returns n samples of value v.
func Ones(n int, v complex128) []complex128 {
	s := make([]complex128, n)
	for i := range s {
		s[i] = v
	}
	return s
}
