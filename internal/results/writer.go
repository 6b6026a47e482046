// Package results persists and reloads benchmark artifacts: the generated
// inputs, the captured equalizer states and the timing summary as plain text,
// plus optional Prometheus textfile metrics, an I/Q WAV capture of the
// multi-mode input and a JSON run manifest.
package results

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/tphakala/go-cma-bench/internal/bench"
)

// Writer writes result files into one directory. The directory must exist.
type Writer struct {
	dir string
	log *slog.Logger
}

// NewWriter returns a Writer for dir. A nil logger discards.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Writer{dir: dir, log: logger}
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Path returns the full path of a result file.
func (w *Writer) Path(name string) string {
	return filepath.Join(w.dir, name)
}

// Set is everything one run persists.
type Set struct {
	MultiInput []complex128
	MultiOutEq []complex128
	States     [bench.NumVariants][]complex128
	Timing     bench.TimingSample
}

// NewSet collects a Set from driver inputs and result.
func NewSet(in *bench.Inputs, res *bench.Result) Set {
	return Set{
		MultiInput: in.Multi.X,
		MultiOutEq: in.Multi.OutEq,
		States:     res.States,
		Timing:     res.Timing,
	}
}

// StateFile returns the result file name for a variant.
func StateFile(v bench.Variant) string {
	switch v {
	case bench.SingleSequential:
		return FileSingleLoop
	case bench.SingleBroadcast:
		return FileSingleBroad
	case bench.MultiSequential:
		return FileMultiLoop
	default:
		return FileMultiBroad
	}
}

// Report lists the outcome of WriteAll per file.
type Report struct {
	Written []string
	Failed  map[string]error
}

// Err joins every failure, or returns nil.
func (r *Report) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	names := slices.Sorted(maps.Keys(r.Failed))
	errs := make([]error, 0, len(names))
	for _, name := range names {
		errs = append(errs, r.Failed[name])
	}
	return errors.Join(errs...)
}

// Record adds the outcome of writing name.
func (r *Report) Record(name string, err error) {
	if err == nil {
		r.Written = append(r.Written, name)
		return
	}
	if r.Failed == nil {
		r.Failed = make(map[string]error)
	}
	r.Failed[name] = err
}

type complexTarget struct {
	name string
	data []complex128
}

// WriteAll writes every file of the set. A failure on one file is logged and
// recorded; the remaining files are still written.
func (w *Writer) WriteAll(s Set) *Report {
	rep := &Report{}

	targets := []complexTarget{
		{FileMultiInput, s.MultiInput},
		{FileMultiOutEq, s.MultiOutEq},
	}
	for _, v := range bench.Variants {
		targets = append(targets, complexTarget{StateFile(v), s.States[v]})
	}

	for _, t := range targets {
		err := w.WriteComplex(t.name, t.data)
		w.logResult(t.name, err)
		rep.Record(t.name, err)
	}

	err := w.WriteTiming(FileTiming, s.Timing)
	w.logResult(FileTiming, err)
	rep.Record(FileTiming, err)

	return rep
}

func (w *Writer) logResult(name string, err error) {
	if err != nil {
		w.log.Error("failed to write result file", "file", w.Path(name), "error", err)
		return
	}
	w.log.Debug("wrote result file", "file", w.Path(name))
}

// WriteComplex writes one "re im" pair per line.
func (w *Writer) WriteComplex(name string, data []complex128) error {
	return w.create(name, func(bw *bufio.Writer) error {
		return EncodeComplex(bw, data)
	})
}

// WriteTiming writes the four elapsed times in seconds followed by the
// iteration count.
func (w *Writer) WriteTiming(name string, t bench.TimingSample) error {
	return w.create(name, func(bw *bufio.Writer) error {
		return EncodeTiming(bw, t)
	})
}

func (w *Writer) create(name string, fill func(*bufio.Writer) error) (err error) {
	path := w.Path(name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", name, cerr)
		}
	}()

	bw := bufio.NewWriterSize(f, writerBufferSize)
	if err := fill(bw); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", name, err)
	}
	return nil
}

// EncodeComplex writes data as text, one "re im" pair per line.
func EncodeComplex(w io.Writer, data []complex128) error {
	line := make([]byte, 0, 64)
	for _, v := range data {
		line = strconv.AppendFloat(line[:0], real(v), 'e', complexDigits, 64)
		line = append(line, ' ')
		line = strconv.AppendFloat(line, imag(v), 'e', complexDigits, 64)
		line = append(line, '\n')
		if _, err := w.Write(line); err != nil {
			return err
		}
	}
	return nil
}

// EncodeTiming writes a timing sample as text.
func EncodeTiming(w io.Writer, t bench.TimingSample) error {
	line := make([]byte, 0, 32)
	for _, v := range bench.Variants {
		line = strconv.AppendFloat(line[:0], t.Get(v).Seconds(), 'f', timingDigits, 64)
		line = append(line, '\n')
		if _, err := w.Write(line); err != nil {
			return err
		}
	}
	_, err := w.Write(strconv.AppendInt(line[:0], int64(t.Iterations), 10))
	if err != nil {
		return err
	}
	_, err = w.Write([]byte{'\n'})
	return err
}
