package results

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-cma-bench/internal/bench"
	"github.com/tphakala/go-cma-bench/internal/signal"
)

func testSet() Set {
	g := signal.NewSeeded(42)
	in := signal.GenerateMultiMode(g, 16, 4, 1.0, 1.0)

	var s Set
	s.MultiInput = in.X
	s.MultiOutEq = in.OutEq
	for i, v := range bench.Variants {
		n := 16
		if v.Multi() {
			n = 4 * 4 * 16
		}
		s.States[v] = make([]complex128, n)
		g.Fill(s.States[v], 1e-4*float64(i+1))
	}
	s.Timing = bench.TimingSample{
		Elapsed:    [bench.NumVariants]time.Duration{1500 * time.Microsecond, 750 * time.Microsecond, 12 * time.Millisecond, 4 * time.Millisecond},
		Iterations: 10000,
	}
	return s
}

func TestWriteAll_WritesEveryFile(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, nil)
	s := testSet()

	rep := w.WriteAll(s)
	require.NoError(t, rep.Err())
	assert.ElementsMatch(t, []string{
		FileMultiInput, FileMultiOutEq,
		FileSingleLoop, FileSingleBroad, FileMultiLoop, FileMultiBroad,
		FileTiming,
	}, rep.Written)

	got, err := ReadComplex(filepath.Join(dir, FileMultiInput))
	require.NoError(t, err)
	assert.Equal(t, s.MultiInput, got, "19 significant digits reproduce float64 exactly")

	got, err = ReadComplex(filepath.Join(dir, FileMultiBroad))
	require.NoError(t, err)
	assert.Equal(t, s.States[bench.MultiBroadcast], got)

	timing, err := ReadTiming(filepath.Join(dir, FileTiming))
	require.NoError(t, err)
	assert.Equal(t, s.Timing, timing)
}

func TestWriteAll_ContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	// A directory where a file should go makes that one target fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, FileMultiOutEq), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, FileSingleLoop), 0o755))

	rep := NewWriter(dir, nil).WriteAll(testSet())

	require.Error(t, rep.Err())
	assert.Len(t, rep.Failed, 2)
	assert.Contains(t, rep.Failed, FileMultiOutEq)
	assert.Contains(t, rep.Failed, FileSingleLoop)
	assert.Len(t, rep.Written, 5)
	assert.Contains(t, rep.Err().Error(), FileMultiOutEq)
	assert.Contains(t, rep.Err().Error(), FileSingleLoop)

	_, err := os.Stat(filepath.Join(dir, FileTiming))
	require.NoError(t, err, "timing is written after earlier failures")
}

func TestWriteAll_MissingDirectory(t *testing.T) {
	rep := NewWriter(filepath.Join(t.TempDir(), "absent"), nil).WriteAll(testSet())
	assert.Empty(t, rep.Written)
	assert.Len(t, rep.Failed, 7)
}

func TestEncodeComplex_Format(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeComplex(&buf, []complex128{1.62e-5 - 1.8e-6i, 0}))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "1.620000000000000075e-05 -1.799999999999999919e-06", lines[0])
	assert.Equal(t, "0.000000000000000000e+00 0.000000000000000000e+00", lines[1])
}

func TestEncodeTiming_Format(t *testing.T) {
	var buf bytes.Buffer
	ts := bench.TimingSample{Iterations: 10000}
	ts.Elapsed[bench.SingleSequential] = 1500 * time.Microsecond
	ts.Elapsed[bench.MultiBroadcast] = 2 * time.Second

	require.NoError(t, EncodeTiming(&buf, ts))
	assert.Equal(t, "0.0015000000\n0.0000000000\n0.0000000000\n2.0000000000\n10000\n", buf.String())
}

func TestDecodeComplex_Malformed(t *testing.T) {
	_, err := DecodeComplex(strings.NewReader("1.0 2.0\n3.0\n"))
	require.ErrorIs(t, err, ErrMalformed)
	assert.Contains(t, err.Error(), "line 2")

	_, err = DecodeComplex(strings.NewReader("1.0 abc\n"))
	require.ErrorIs(t, err, ErrMalformed)

	got, err := DecodeComplex(strings.NewReader("\n1 2\n\n-3 4\n"))
	require.NoError(t, err)
	assert.Equal(t, []complex128{1 + 2i, -3 + 4i}, got)
}

func TestDecodeTiming_Malformed(t *testing.T) {
	_, err := DecodeTiming(strings.NewReader("0.1\n0.2\n0.3\n10\n"))
	require.ErrorIs(t, err, ErrMalformed)

	_, err = DecodeTiming(strings.NewReader("0.1\n0.2\n0.3\n0.4\nten\n"))
	require.ErrorIs(t, err, ErrMalformed)
}

func TestReadComplex_MissingFile(t *testing.T) {
	_, err := ReadComplex(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open")
}
