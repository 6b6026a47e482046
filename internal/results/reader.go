package results

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tphakala/go-cma-bench/internal/bench"
)

// ErrMalformed indicates a result file that does not follow the text format.
var ErrMalformed = errors.New("results: malformed file")

// ReadComplex loads a file written by Writer.WriteComplex.
func ReadComplex(path string) ([]complex128, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	data, err := DecodeComplex(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

// DecodeComplex parses "re im" lines. Blank lines are skipped.
func DecodeComplex(r io.Reader) ([]complex128, error) {
	var data []complex128
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: line %d: want 2 fields, got %d", ErrMalformed, line, len(fields))
		}
		re, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformed, line, err)
		}
		im, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformed, line, err)
		}
		data = append(data, complex(re, im))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return data, nil
}

// ReadTiming loads a file written by Writer.WriteTiming.
func ReadTiming(path string) (bench.TimingSample, error) {
	f, err := os.Open(path)
	if err != nil {
		return bench.TimingSample{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	t, err := DecodeTiming(f)
	if err != nil {
		return bench.TimingSample{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// DecodeTiming parses four elapsed-second lines and an iteration count.
func DecodeTiming(r io.Reader) (bench.TimingSample, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if text := strings.TrimSpace(sc.Text()); text != "" {
			lines = append(lines, text)
		}
	}
	if err := sc.Err(); err != nil {
		return bench.TimingSample{}, err
	}
	if len(lines) != timingFileLines {
		return bench.TimingSample{}, fmt.Errorf("%w: want %d lines, got %d", ErrMalformed, timingFileLines, len(lines))
	}

	var t bench.TimingSample
	for i, v := range bench.Variants {
		sec, err := strconv.ParseFloat(lines[i], 64)
		if err != nil {
			return bench.TimingSample{}, fmt.Errorf("%w: line %d: %w", ErrMalformed, i+1, err)
		}
		t.Elapsed[v] = time.Duration(math.Round(sec * float64(time.Second)))
	}
	n, err := strconv.Atoi(lines[len(lines)-1])
	if err != nil {
		return bench.TimingSample{}, fmt.Errorf("%w: iteration count: %w", ErrMalformed, err)
	}
	t.Iterations = n
	return t, nil
}
