package main

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"runtime/pprof"
	"slices"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	cmabench "github.com/tphakala/go-cma-bench"
)

// options holds every command-line flag. Flags left unset fall back to the
// config file, then to the built-in defaults.
type options struct {
	configPath string
	outDir     string
	iterations int
	repeats    int
	taps       int
	modes      int
	width      int
	seed       uint32
	mu         float64
	noSIMD     bool
	metrics    bool
	iqWAV      bool
	manifest   bool
	verbose    bool
	cpuProfile string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	def := cmabench.DefaultConfig()

	root := &cobra.Command{
		Use:   "cmabench",
		Short: "Benchmark and verify CMA equalizer weight-update strategies",
		Long: `cmabench times a tap-sequential and a lane-broadcast implementation of the
Constant Modulus Algorithm weight update, for a single-mode filter and a
multi-mode filter bank, checks that both produce the same coefficients and
writes inputs, outputs and timings as text files.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBench(cmd, opts)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	f.StringVarP(&opts.outDir, "out", "o", def.OutputDir, "Result directory")
	f.IntVar(&opts.taps, "taps", def.NTaps, "Filter length in taps")
	f.IntVar(&opts.modes, "modes", def.NModes, "Number of modes")
	f.Float64Var(&opts.mu, "mu", def.Mu, "Multi-mode step size")

	rf := root.Flags()
	rf.IntVarP(&opts.iterations, "iterations", "n", def.Iterations, "Updates per timed batch")
	rf.IntVar(&opts.repeats, "repeats", def.Repeats, "Timed batches per variant")
	rf.IntVar(&opts.width, "width", def.Width, "Broadcast lane width")
	rf.Uint32Var(&opts.seed, "seed", def.Seed, "Input generator seed")
	rf.BoolVar(&opts.noSIMD, "no-simd", false, "Use pure Go lane operations")
	rf.BoolVar(&opts.metrics, "metrics", false, "Write a Prometheus textfile of the timings")
	rf.BoolVar(&opts.iqWAV, "iq-wav", false, "Write the multi-mode input as an I/Q WAV")
	rf.BoolVar(&opts.manifest, "manifest", false, "Write a JSON run manifest")
	rf.BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output")
	rf.StringVar(&opts.cpuProfile, "cpuprofile", "", "Write CPU profile to file (for PGO)")

	root.AddCommand(newVerifyCmd(opts))
	return root
}

func newVerifyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Re-check the result files of a previous run",
		Long: `verify reads the inputs and captured states from the result directory and
checks that both strategies agree and match the closed-form update from a zero
state. Taps, modes and step sizes must match the run that wrote the files.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			checks, err := cmabench.VerifyDir(cfg)
			printChecks(cmd.OutOrStdout(), checks)
			return err
		},
	}
}

// resolveConfig layers defaults, the optional config file and explicitly set
// flags, in that order.
func resolveConfig(cmd *cobra.Command, opts *options) (cmabench.Config, error) {
	cfg := cmabench.DefaultConfig()
	if opts.configPath != "" {
		var err error
		if cfg, err = cmabench.LoadConfig(opts.configPath); err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Lookup(name) != nil && flags.Changed(name) {
			apply()
		}
	}
	set("out", func() { cfg.OutputDir = opts.outDir })
	set("taps", func() { cfg.NTaps = opts.taps })
	set("modes", func() { cfg.NModes = opts.modes })
	set("mu", func() { cfg.Mu = opts.mu })
	set("iterations", func() { cfg.Iterations = opts.iterations })
	set("repeats", func() { cfg.Repeats = opts.repeats })
	set("width", func() { cfg.Width = opts.width })
	set("seed", func() { cfg.Seed = opts.seed })
	set("no-simd", func() { cfg.EnableSIMD = !opts.noSIMD })
	set("metrics", func() { cfg.Metrics = opts.metrics })
	set("iq-wav", func() { cfg.IQWAV = opts.iqWAV })
	set("manifest", func() { cfg.Manifest = opts.manifest })

	return cfg, cfg.Validate()
}

// newLogger writes text records, or JSON when w is a redirected file.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelWarn}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	if f, ok := w.(*os.File); ok && !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func runBench(cmd *cobra.Command, opts *options) error {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}

	// Start CPU profiling if requested (for PGO)
	if opts.cpuProfile != "" {
		f, err := os.Create(opts.cpuProfile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	if err := os.MkdirAll(cfg.OutputDir, dirPerm); err != nil {
		return fmt.Errorf("failed to create result directory: %w", err)
	}

	rep, err := cmabench.Run(cfg, newLogger(cmd.ErrOrStderr(), opts.verbose))
	if rep != nil {
		printReport(cmd.OutOrStdout(), cfg, rep)
	}
	return err
}

func printReport(w io.Writer, cfg cmabench.Config, rep *cmabench.Report) {
	fmt.Fprintf(w, "CMA benchmark: %d taps, %d modes, %d iterations (lanes: %s, %s)\n",
		cfg.NTaps, cfg.NModes, rep.Iterations, rep.Lanes, rep.SIMD)
	fmt.Fprintf(w, "%-*s %*s %*s\n",
		variantColumnWidth, "variant",
		timingColumnWidth, "batch (s)",
		timingColumnWidth, "per update")
	for _, t := range rep.Timings {
		fmt.Fprintf(w, "%-*s %*.10f %*s\n",
			variantColumnWidth, t.Variant,
			timingColumnWidth, t.Elapsed.Seconds(),
			timingColumnWidth, t.PerUpdate)
	}
	fmt.Fprintf(w, "speedup: singlemode %.2fx, multimode %.2fx\n", rep.SingleSpeedup, rep.MultiSpeedup)

	printChecks(w, rep.Checks)

	fmt.Fprintf(w, "wrote %d files to %s\n", len(rep.Written), cfg.OutputDir)
	for _, name := range slices.Sorted(maps.Keys(rep.Failed)) {
		fmt.Fprintf(w, "  failed %s: %v\n", name, rep.Failed[name])
	}
	if rep.RunID != "" {
		fmt.Fprintf(w, "run id: %s\n", rep.RunID)
	}
}

func printChecks(w io.Writer, checks []cmabench.Check) {
	for _, c := range checks {
		fmt.Fprintln(w, c.Detail)
	}
}
