// Package bench runs the CMA update strategies against each other. Every
// variant is timed over a batch of back-to-back updates on its own state,
// then run once more on a fresh state to capture the result compared across
// strategies.
package bench

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/tphakala/go-cma-bench/internal/equalizer"
	"github.com/tphakala/go-cma-bench/internal/signal"
	"github.com/tphakala/go-cma-bench/internal/simdops"
)

// Errors returned by the driver.
var (
	ErrMissingKernel  = errors.New("bench: missing kernel")
	ErrInvalidOptions = errors.New("bench: invalid options")
)

// Kernels names the four pluggable update implementations. Any engine
// satisfying the equalizer contracts can be substituted.
type Kernels struct {
	SingleSequential equalizer.SingleModeKernel
	SingleBroadcast  equalizer.SingleModeKernel
	MultiSequential  equalizer.MultiModeKernel
	MultiBroadcast   equalizer.MultiModeKernel
}

// DefaultKernels wires the Sequential strategy and a Broadcast strategy of
// the given lane width and operation table.
func DefaultKernels(width int, ops *simdops.Ops) Kernels {
	return Kernels{
		SingleSequential: equalizer.Sequential{},
		SingleBroadcast:  equalizer.NewBroadcast(width, ops),
		MultiSequential:  equalizer.Sequential{},
		MultiBroadcast:   equalizer.NewBroadcast(width, ops),
	}
}

// Validate reports the first missing kernel. A nil function or pointer
// wrapped in the interface counts as missing.
func (k Kernels) Validate() error {
	switch {
	case isNil(k.SingleSequential):
		return fmt.Errorf("%w: %s", ErrMissingKernel, SingleSequential)
	case isNil(k.SingleBroadcast):
		return fmt.Errorf("%w: %s", ErrMissingKernel, SingleBroadcast)
	case isNil(k.MultiSequential):
		return fmt.Errorf("%w: %s", ErrMissingKernel, MultiSequential)
	case isNil(k.MultiBroadcast):
		return fmt.Errorf("%w: %s", ErrMissingKernel, MultiBroadcast)
	}
	return nil
}

func isNil(kernel any) bool {
	if kernel == nil {
		return true
	}
	v := reflect.ValueOf(kernel)
	switch v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}

// Inputs are the read-only buffers shared by every variant of one run.
type Inputs struct {
	NTaps  int
	NModes int

	// SingleX is the single-mode input window and SingleMu its increment.
	SingleX  []complex128
	SingleMu complex128

	// Multi holds the multi-mode window, outputs and radii; Mu is its step size.
	Multi signal.MultiModeInputs
	Mu    float64
}

// Check validates buffer sizes against NTaps and NModes.
func (in *Inputs) Check() error {
	if in.NTaps < 0 {
		return fmt.Errorf("single-mode inputs: %w: negative tap count %d", equalizer.ErrSizeMismatch, in.NTaps)
	}
	if len(in.SingleX) < in.NTaps {
		return fmt.Errorf("single-mode inputs: %w: input has %d samples, need %d",
			equalizer.ErrSizeMismatch, len(in.SingleX), in.NTaps)
	}
	if err := equalizer.CheckMultiInputs(in.Multi.X, in.Multi.OutEq, in.Multi.R, in.NTaps, in.NModes); err != nil {
		return fmt.Errorf("multi-mode inputs: %w", err)
	}
	return nil
}

// Options configure a Driver.
type Options struct {
	// Iterations is the number of updates per timed batch.
	Iterations int

	// Repeats is the number of timed batches per variant; the reported
	// elapsed time is their mean.
	Repeats int

	// Logger receives one debug record per batch. Nil discards.
	Logger *slog.Logger
}

// Driver times and captures the four variants.
type Driver struct {
	kernels Kernels
	opts    Options
	log     *slog.Logger
}

// NewDriver validates kernels and options.
func NewDriver(k Kernels, opts Options) (*Driver, error) {
	if err := k.Validate(); err != nil {
		return nil, err
	}
	if opts.Iterations < 0 {
		return nil, fmt.Errorf("%w: iterations must be non-negative, got %d", ErrInvalidOptions, opts.Iterations)
	}
	if opts.Repeats < 1 {
		return nil, fmt.Errorf("%w: repeats must be at least 1, got %d", ErrInvalidOptions, opts.Repeats)
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Driver{kernels: k, opts: opts, log: log}, nil
}

// Run times every variant and captures one update from zero state per
// variant. Timing and capture use separately allocated states.
func (d *Driver) Run(in *Inputs) (*Result, error) {
	if err := in.Check(); err != nil {
		return nil, err
	}

	res := &Result{
		Timing: TimingSample{Iterations: d.opts.Iterations},
	}

	for _, v := range Variants {
		batches := make([]float64, d.opts.Repeats)
		for i := range batches {
			elapsed := d.timeBatch(v, in)
			batches[i] = float64(elapsed)
			d.log.Debug("timed batch",
				"variant", v.String(),
				"batch", i,
				"iterations", d.opts.Iterations,
				"elapsed", elapsed)
		}
		res.Summary.Batches[v] = batches
		res.Summary.Mean[v] = time.Duration(stat.Mean(batches, nil))
		if len(batches) >= minStdDevSamples {
			res.Summary.StdDev[v] = time.Duration(stat.StdDev(batches, nil))
		}
		res.Timing.Elapsed[v] = res.Summary.Mean[v]
	}

	for _, v := range Variants {
		h := d.newState(v, in)
		d.apply(v, in)(h)
		res.States[v] = h
		d.log.Debug("captured reference state", "variant", v.String(), "coefficients", len(h))
	}

	return res, nil
}

func (d *Driver) newState(v Variant, in *Inputs) []complex128 {
	if v.Multi() {
		return equalizer.NewMultiState(in.NTaps, in.NModes)
	}
	return equalizer.NewSingleState(in.NTaps)
}

// apply binds the kernel for v to the inputs, so the timed loop makes a
// single indirect call per update.
func (d *Driver) apply(v Variant, in *Inputs) func(h []complex128) {
	var single equalizer.SingleModeKernel
	var multi equalizer.MultiModeKernel
	switch v {
	case SingleSequential:
		single = d.kernels.SingleSequential
	case SingleBroadcast:
		single = d.kernels.SingleBroadcast
	case MultiSequential:
		multi = d.kernels.MultiSequential
	default:
		multi = d.kernels.MultiBroadcast
	}

	if single != nil {
		x, nTaps, mu := in.SingleX, in.NTaps, in.SingleMu
		return func(h []complex128) {
			single.UpdateSingle(h, x, nTaps, mu)
		}
	}
	x, outEq, r := in.Multi.X, in.Multi.OutEq, in.Multi.R
	nTaps, nModes, mu := in.NTaps, in.NModes, in.Mu
	return func(h []complex128) {
		multi.UpdateMulti(h, x, outEq, r, nTaps, nModes, mu)
	}
}

// timeBatch runs Iterations updates on a fresh state and returns the
// monotonic elapsed time.
func (d *Driver) timeBatch(v Variant, in *Inputs) time.Duration {
	h := d.newState(v, in)
	step := d.apply(v, in)
	n := d.opts.Iterations

	start := time.Now()
	for range n {
		step(h)
	}
	return time.Since(start)
}
