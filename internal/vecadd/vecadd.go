// Package vecadd is the element-wise int32 vector add that accompanies the
// equalizer benchmark as a minimal kernel smoke test.
package vecadd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Default operands: 1..8 and 10..80 in steps of 10.
const (
	DefaultLen   = 8
	OutputFile   = "vecadd_output.txt"
	defaultAStep = 1
	defaultBStep = 10
	outputPerm   = 0o644
)

// ErrLengthMismatch is returned when operands differ in length.
var ErrLengthMismatch = errors.New("vecadd: length mismatch")

// DefaultOperands returns the two reference vectors.
func DefaultOperands() (a, b []int32) {
	a = make([]int32, DefaultLen)
	b = make([]int32, DefaultLen)
	for i := range DefaultLen {
		a[i] = int32((i + 1) * defaultAStep)
		b[i] = int32((i + 1) * defaultBStep)
	}
	return a, b
}

// Add writes a[i]+b[i] into dst. Lengths must match.
func Add(dst, a, b []int32) error {
	if len(a) != len(b) || len(dst) != len(a) {
		return fmt.Errorf("%w: dst=%d a=%d b=%d", ErrLengthMismatch, len(dst), len(a), len(b))
	}
	for i := range dst {
		dst[i] = a[i] + b[i]
	}
	return nil
}

// Mismatch is one element where a result disagrees with the reference sum.
type Mismatch struct {
	Index int
	Got   int32
	Want  int32
}

// Verify recomputes a+b element by element and returns every disagreement
// with c.
func Verify(a, b, c []int32) ([]Mismatch, error) {
	if len(a) != len(b) || len(c) != len(a) {
		return nil, fmt.Errorf("%w: a=%d b=%d c=%d", ErrLengthMismatch, len(a), len(b), len(c))
	}
	var bad []Mismatch
	for i := range c {
		if want := a[i] + b[i]; c[i] != want {
			bad = append(bad, Mismatch{Index: i, Got: c[i], Want: want})
		}
	}
	return bad, nil
}

// Print writes one "a + b = c" line per element.
func Print(w io.Writer, a, b, c []int32) error {
	for i := range c {
		if _, err := fmt.Fprintf(w, "%d + %d = %d\n", a[i], b[i], c[i]); err != nil {
			return err
		}
	}
	return nil
}

// Encode writes one value per line.
func Encode(w io.Writer, c []int32) error {
	bw := bufio.NewWriter(w)
	var buf []byte
	for _, v := range c {
		buf = strconv.AppendInt(buf[:0], int64(v), 10)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Decode reads values written by Encode.
func Decode(r io.Reader) ([]int32, error) {
	var out []int32
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		v, err := strconv.ParseInt(sc.Text(), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, int32(v))
	}
	return out, sc.Err()
}

// WriteFile writes c to path with Encode.
func WriteFile(path string, c []int32) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outputPerm)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return Encode(f, c)
}

// ReadFile loads a file written by WriteFile.
func ReadFile(path string) ([]int32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return Decode(f)
}
