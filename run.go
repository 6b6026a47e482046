package cmabench

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tphakala/go-cma-bench/internal/bench"
	"github.com/tphakala/go-cma-bench/internal/results"
	"github.com/tphakala/go-cma-bench/internal/signal"
	"github.com/tphakala/go-cma-bench/internal/simdops"
	"github.com/tphakala/go-cma-bench/internal/verify"
)

// Timing is one variant's measured cost.
type Timing struct {
	// Variant is "<mode>_<strategy>", e.g. "multimode_broadcast".
	Variant string

	// Elapsed is the mean batch time over all repeats.
	Elapsed time.Duration

	// StdDev is the spread of batch times, zero for a single repeat.
	StdDev time.Duration

	// PerUpdate is Elapsed divided by the iteration count.
	PerUpdate time.Duration
}

// Check is the outcome of one verification comparison.
type Check struct {
	Name   string
	MaxAbs float64
	MaxRel float64
	OK     bool
	Detail string
}

// Report summarises a run.
type Report struct {
	// RunID is set when a manifest was written.
	RunID string

	Iterations    int
	Timings       [bench.NumVariants]Timing
	SingleSpeedup float64
	MultiSpeedup  float64

	// Lanes names the lane operation table and SIMD the host instruction set.
	Lanes string
	SIMD  string

	Checks []Check

	// Written lists result files in write order; Failed maps file names to
	// their write error.
	Written []string
	Failed  map[string]error
}

// Passed reports whether every verification check succeeded.
func (r *Report) Passed() bool {
	for _, c := range r.Checks {
		if !c.OK {
			return false
		}
	}
	return true
}

// NewInputs generates the driver inputs for cfg: the deterministic
// single-mode ramp and a seeded multi-mode window with its outputs.
func NewInputs(cfg *Config) *bench.Inputs {
	g := signal.NewSeeded(cfg.Seed)
	return &bench.Inputs{
		NTaps:    cfg.NTaps,
		NModes:   cfg.NModes,
		SingleX:  signal.Ramp(cfg.NTaps),
		SingleMu: cfg.SingleMu(),
		Multi:    signal.GenerateMultiMode(g, cfg.NTaps, cfg.NModes, cfg.Sigma, cfg.Radius),
		Mu:       cfg.Mu,
	}
}

// Run generates inputs, times and captures every variant, verifies the
// captured states and writes the result files.
//
// A file that cannot be written is logged and skipped. When the run itself
// completes, the Report is returned together with any write or verification
// failures joined into the error.
func Run(cfg Config, logger *slog.Logger) (*Report, error) {
	started := time.Now()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ops := simdops.For(cfg.EnableSIMD)
	driver, err := bench.NewDriver(bench.DefaultKernels(cfg.Width, ops), bench.Options{
		Iterations: cfg.Iterations,
		Repeats:    cfg.Repeats,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create driver: %w", err)
	}

	in := NewInputs(&cfg)
	logger.Info("starting benchmark",
		"taps", cfg.NTaps,
		"modes", cfg.NModes,
		"iterations", cfg.Iterations,
		"repeats", cfg.Repeats,
		"width", cfg.Width,
		"lanes", ops.Name,
		"simd", simdops.Info())

	res, err := driver.Run(in)
	if err != nil {
		return nil, fmt.Errorf("benchmark failed: %w", err)
	}

	comparisons := verify.CheckResult(in, res, cfg.Tolerance)
	for _, c := range comparisons {
		if c.OK {
			logger.Debug("verification passed", "check", c.Name, "max_rel", c.MaxRel)
		} else {
			logger.Error("verification failed", "check", c.Name, "max_abs", c.MaxAbs, "max_rel", c.MaxRel, "reason", c.Reason)
		}
	}

	w := results.NewWriter(cfg.OutputDir, logger)
	written := w.WriteAll(results.NewSet(in, res))
	if cfg.Metrics {
		written.Record(results.FileMetrics, w.WriteMetrics(results.FileMetrics, res.Timing))
	}
	if cfg.IQWAV {
		written.Record(results.FileIQWAV, w.WriteIQ(results.FileIQWAV, in.Multi.X, cfg.IQRate))
	}

	rep := newReport(res, comparisons, ops)
	if cfg.Manifest {
		m := results.NewManifest(started, cfg, results.DetectHost(ops))
		m.SetResult(res)
		m.Checks = comparisons
		m.Duration = time.Since(started).String()
		m.SetReport(written)
		written.Record(results.FileManifest, w.WriteManifest(results.FileManifest, m))
		rep.RunID = m.RunID
	}
	rep.Written = written.Written
	rep.Failed = written.Failed

	logger.Info("benchmark complete",
		"singlemode_speedup", rep.SingleSpeedup,
		"multimode_speedup", rep.MultiSpeedup,
		"verified", rep.Passed(),
		"files", len(rep.Written),
		"failed", len(rep.Failed),
		"elapsed", time.Since(started))

	var verr error
	if !rep.Passed() {
		verr = ErrVerification
	}
	return rep, errors.Join(written.Err(), verr)
}

func newReport(res *bench.Result, comparisons []verify.Comparison, ops *simdops.Ops) *Report {
	t := res.Timing
	rep := &Report{
		Iterations:    t.Iterations,
		SingleSpeedup: t.Speedup(bench.ModeSingle),
		MultiSpeedup:  t.Speedup(bench.ModeMulti),
		Lanes:         ops.Name,
		SIMD:          simdops.Info(),
	}
	for _, v := range bench.Variants {
		rep.Timings[v] = Timing{
			Variant:   v.String(),
			Elapsed:   t.Get(v),
			StdDev:    res.Summary.StdDev[v],
			PerUpdate: t.PerUpdate(v),
		}
	}
	rep.Checks = toChecks(comparisons)
	return rep
}

func toChecks(comparisons []verify.Comparison) []Check {
	checks := make([]Check, 0, len(comparisons))
	for _, c := range comparisons {
		checks = append(checks, Check{
			Name:   c.Name,
			MaxAbs: c.MaxAbs,
			MaxRel: c.MaxRel,
			OK:     c.OK,
			Detail: c.String(),
		})
	}
	return checks
}

// VerifyDir re-reads the result files of a previous run made with cfg and
// checks them. It returns ErrVerification when any check fails.
func VerifyDir(cfg Config) ([]Check, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	comparisons, err := verify.CheckDir(cfg.OutputDir, verify.Params{
		NTaps:    cfg.NTaps,
		NModes:   cfg.NModes,
		SingleMu: cfg.SingleMu(),
		Mu:       cfg.Mu,
		Radius:   cfg.Radius,
	}, cfg.Tolerance)
	if err != nil {
		return nil, err
	}
	checks := toChecks(comparisons)
	if !verify.Passed(comparisons) {
		return checks, ErrVerification
	}
	return checks, nil
}
