package verify

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-cma-bench/internal/bench"
	"github.com/tphakala/go-cma-bench/internal/equalizer"
	"github.com/tphakala/go-cma-bench/internal/results"
	"github.com/tphakala/go-cma-bench/internal/signal"
	"github.com/tphakala/go-cma-bench/internal/simdops"
	"github.com/tphakala/go-cma-bench/internal/testutil"
)

const (
	testTaps  = 16
	testModes = 4
	testMu    = 1e-4
)

var testSingleMu = complex(0.0000162, 0.0000018)

func testInputs() *bench.Inputs {
	g := signal.NewSeeded(42)
	return &bench.Inputs{
		NTaps:    testTaps,
		NModes:   testModes,
		SingleX:  signal.Ramp(testTaps),
		SingleMu: testSingleMu,
		Multi:    signal.GenerateMultiMode(g, testTaps, testModes, 1.0, 1.0),
		Mu:       testMu,
	}
}

func runOnce(t *testing.T, in *bench.Inputs) *bench.Result {
	t.Helper()
	d, err := bench.NewDriver(bench.DefaultKernels(4, simdops.Vector()), bench.Options{Iterations: 0, Repeats: 1})
	require.NoError(t, err)
	res, err := d.Run(in)
	require.NoError(t, err)
	return res
}

func TestCompare_Identical(t *testing.T) {
	a := []complex128{1 + 2i, -3 + 0.5i, 0}
	c := Compare("same", a, a, DefaultTolerance)
	assert.True(t, c.OK)
	assert.Zero(t, c.MaxAbs)
	assert.Zero(t, c.MaxRel)
	assert.Equal(t, 3, c.Len)
}

func TestCompare_ReportsWorstElement(t *testing.T) {
	want := []complex128{3 + 4i, 1, 1}
	got := []complex128{3 + 4i, 1 + 0.5i, 1.1}
	c := Compare("diff", want, got, 1e-3)

	assert.False(t, c.OK)
	assert.Equal(t, 1, c.WorstIndex)
	assert.InDelta(t, 0.5, c.MaxAbs, 1e-15)
	// Largest reference magnitude is |3+4i| = 5.
	assert.InDelta(t, 0.1, c.MaxRel, 1e-15)
	assert.Contains(t, c.String(), "FAIL")
}

func TestCompare_WithinTolerance(t *testing.T) {
	want := []complex128{1, 2, 4}
	got := []complex128{1, 2, 4 + 1e-12i}
	c := Compare("close", want, got, DefaultTolerance)
	assert.True(t, c.OK)
	assert.Equal(t, 2, c.WorstIndex)
}

func TestCompare_LengthMismatch(t *testing.T) {
	c := Compare("short", make([]complex128, 4), make([]complex128, 3), DefaultTolerance)
	assert.False(t, c.OK)
	assert.Contains(t, c.Reason, "length 3, want 4")
}

func TestCompare_Empty(t *testing.T) {
	c := Compare("empty", nil, nil, DefaultTolerance)
	assert.True(t, c.OK)
	assert.Equal(t, -1, c.WorstIndex)
}

func TestCompare_NaN(t *testing.T) {
	want := []complex128{1, 1}
	got := []complex128{1, complex(math.NaN(), 0)}
	c := Compare("nan", want, got, DefaultTolerance)
	assert.False(t, c.OK)
	assert.Equal(t, "NaN in result", c.Reason)
}

func TestCompare_ZeroReferenceUsesAbsoluteError(t *testing.T) {
	c := Compare("zero", make([]complex128, 2), []complex128{0, 1e-12}, DefaultTolerance)
	assert.True(t, c.OK)
	assert.InDelta(t, 1e-12, c.MaxRel, 1e-24)
}

func TestExpectedSingle(t *testing.T) {
	x := signal.Ramp(testTaps)
	h := ExpectedSingle(x, testTaps, testSingleMu)
	require.Len(t, h, testTaps)
	for k := range h {
		testutil.AssertComplexInDelta(t, testSingleMu*complex(real(x[k]), -imag(x[k])), h[k], 0)
	}
}

func TestExpectedMulti_MatchesSequential(t *testing.T) {
	in := testInputs()
	h := equalizer.NewMultiState(testTaps, testModes)
	equalizer.Sequential{}.UpdateMulti(h, in.Multi.X, in.Multi.OutEq, in.Multi.R, testTaps, testModes, testMu)

	want := ExpectedMulti(in.Multi.X, in.Multi.OutEq, in.Multi.R, testTaps, testModes, testMu)
	testutil.AssertComplexSlicesClose(t, want, h, testutil.DefaultTolerance)
}

// rowMajorReference rebuilds the multi-mode state the way the result file
// rows are read back: row idx = m + n*nModes holds the filter feeding output
// m from input n, tap by tap, with h += mu*(R-|y|^2)*y*conj(x[tap][n]).
func rowMajorReference(x, outEq []complex128, r []float64, nTaps, nModes int, mu float64) [][]complex128 {
	rows := make([][]complex128, nModes*nModes)
	for i := range rows {
		rows[i] = make([]complex128, nTaps)
	}
	for n := range nModes {
		for m := range nModes {
			y := outEq[m]
			prod := complex(r[m]-(real(y)*real(y)+imag(y)*imag(y)), 0) * y
			idx := m + n*nModes
			for tap := range nTaps {
				xv := x[tap*nModes+n]
				rows[idx][tap] += complex(mu, 0) * prod * complex(real(xv), -imag(xv))
			}
		}
	}
	return rows
}

func TestWrittenMultiState_RowsFollowOutputWithinInput(t *testing.T) {
	dir := t.TempDir()
	in := testInputs()
	res := runOnce(t, in)
	rep := results.NewWriter(dir, nil).WriteAll(results.NewSet(in, res))
	require.NoError(t, rep.Err())

	rows := rowMajorReference(in.Multi.X, in.Multi.OutEq, in.Multi.R, testTaps, testModes, testMu)
	for _, v := range []bench.Variant{bench.MultiSequential, bench.MultiBroadcast} {
		got, err := results.ReadComplex(filepath.Join(dir, results.StateFile(v)))
		require.NoError(t, err)
		require.Len(t, got, testModes*testModes*testTaps)
		for idx, want := range rows {
			testutil.AssertComplexSlicesClose(t, want, got[idx*testTaps:(idx+1)*testTaps], testutil.StrategyTolerance, "%s row %d", v, idx)
		}
	}
}

func TestCheckResult_Passes(t *testing.T) {
	in := testInputs()
	cs := CheckResult(in, runOnce(t, in), DefaultTolerance)
	require.Len(t, cs, 6)
	for _, c := range cs {
		assert.True(t, c.OK, c.String())
	}
	assert.True(t, Passed(cs))
}

func TestCheckResult_DetectsCorruptState(t *testing.T) {
	in := testInputs()
	res := runOnce(t, in)
	res.States[bench.MultiBroadcast][5] += 1

	cs := CheckResult(in, res, DefaultTolerance)
	assert.False(t, Passed(cs))

	failed := 0
	for _, c := range cs {
		if !c.OK {
			failed++
		}
	}
	// Loop vs broadcast and broadcast vs closed form.
	assert.Equal(t, 2, failed)
}

func TestCheckDir_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := testInputs()
	res := runOnce(t, in)
	rep := results.NewWriter(dir, nil).WriteAll(results.NewSet(in, res))
	require.NoError(t, rep.Err())

	cs, err := CheckDir(dir, Params{
		NTaps:    testTaps,
		NModes:   testModes,
		SingleMu: testSingleMu,
		Mu:       testMu,
		Radius:   1.0,
	}, DefaultTolerance)
	require.NoError(t, err)
	assert.True(t, Passed(cs))
}

func TestCheckDir_MissingState(t *testing.T) {
	dir := t.TempDir()
	in := testInputs()
	res := runOnce(t, in)
	rep := results.NewWriter(dir, nil).WriteAll(results.NewSet(in, res))
	require.NoError(t, rep.Err())
	require.NoError(t, os.Remove(filepath.Join(dir, results.FileMultiLoop)))

	_, err := CheckDir(dir, Params{NTaps: testTaps, NModes: testModes, Mu: testMu, Radius: 1}, DefaultTolerance)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadInputs_WrongShape(t *testing.T) {
	dir := t.TempDir()
	in := testInputs()
	res := runOnce(t, in)
	rep := results.NewWriter(dir, nil).WriteAll(results.NewSet(in, res))
	require.NoError(t, rep.Err())

	_, err := LoadInputs(dir, Params{NTaps: 2 * testTaps, NModes: testModes, Radius: 1})
	assert.ErrorIs(t, err, equalizer.ErrSizeMismatch)
}
