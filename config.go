package cmabench

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tphakala/go-cma-bench/internal/results"
)

// Common errors returned by the harness.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid benchmark configuration")

	// ErrVerification indicates the strategies disagree or differ from the
	// closed-form update.
	ErrVerification = errors.New("strategy verification failed")
)

// Config holds benchmark configuration. Field names in YAML files use the
// tags below; unknown keys are rejected.
type Config struct {
	// OutputDir receives the result files. It must exist.
	OutputDir string `yaml:"output_dir" json:"output_dir"`

	// NTaps is the filter length and NModes the number of modes. The
	// multi-mode state holds NModes*NModes*NTaps coefficients.
	NTaps  int `yaml:"taps" json:"taps"`
	NModes int `yaml:"modes" json:"modes"`

	// Mu is the multi-mode step size and Radius the CMA target radius of
	// every mode.
	Mu     float64 `yaml:"mu" json:"mu"`
	Radius float64 `yaml:"radius" json:"radius"`

	// SingleMuRe and SingleMuIm form the complex single-mode increment.
	SingleMuRe float64 `yaml:"single_mu_re" json:"single_mu_re"`
	SingleMuIm float64 `yaml:"single_mu_im" json:"single_mu_im"`

	// Seed initialises the input generator. Seed 0 behaves like seed 1.
	Seed uint32 `yaml:"seed" json:"seed"`

	// Sigma is the standard deviation of each component of the generated
	// multi-mode input.
	Sigma float64 `yaml:"sigma" json:"sigma"`

	// Iterations is the number of updates per timed batch. Zero skips timing
	// but still captures and verifies.
	Iterations int `yaml:"iterations" json:"iterations"`

	// Repeats is the number of timed batches per variant.
	Repeats int `yaml:"repeats" json:"repeats"`

	// Width is the broadcast lane width.
	Width int `yaml:"width" json:"width"`

	// EnableSIMD selects the vector lane operations when true.
	// Set to false to force the pure Go lanes.
	EnableSIMD bool `yaml:"simd" json:"simd"`

	// Tolerance is the relative tolerance used by verification.
	Tolerance float64 `yaml:"tolerance" json:"tolerance"`

	// Metrics writes a Prometheus textfile of the timings.
	Metrics bool `yaml:"metrics" json:"metrics"`

	// IQWAV writes the multi-mode input as a stereo I/Q WAV at IQRate.
	IQWAV  bool `yaml:"iq_wav" json:"iq_wav"`
	IQRate int  `yaml:"iq_rate" json:"iq_rate"`

	// Manifest writes a JSON description of the run.
	Manifest bool `yaml:"manifest" json:"manifest"`
}

// DefaultConfig returns the fixed benchmark configuration.
func DefaultConfig() Config {
	return Config{
		OutputDir:  results.DefaultDir,
		NTaps:      defaultTaps,
		NModes:     defaultModes,
		Mu:         defaultMu,
		Radius:     defaultRadius,
		SingleMuRe: defaultSingleMuRe,
		SingleMuIm: defaultSingleMuIm,
		Seed:       defaultSeed,
		Sigma:      defaultSigma,
		Iterations: defaultIterations,
		Repeats:    defaultRepeats,
		Width:      defaultWidth,
		EnableSIMD: true,
		Tolerance:  defaultTolerance,
		IQRate:     results.DefaultIQRate,
	}
}

// SingleMu returns the complex single-mode increment.
func (c *Config) SingleMu() complex128 {
	return complex(c.SingleMuRe, c.SingleMuIm)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("%w: output directory must be set", ErrInvalidConfig)
	}

	if c.NTaps < 1 || c.NTaps > maxTaps {
		return fmt.Errorf("%w: taps must be 1-%d, got %d", ErrInvalidConfig, maxTaps, c.NTaps)
	}

	if c.NModes < 1 || c.NModes > maxModes {
		return fmt.Errorf("%w: modes must be 1-%d, got %d", ErrInvalidConfig, maxModes, c.NModes)
	}

	if !finite(c.Mu) || !finite(c.SingleMuRe) || !finite(c.SingleMuIm) {
		return fmt.Errorf("%w: step sizes must be finite", ErrInvalidConfig)
	}

	if !finite(c.Radius) || c.Radius < 0 {
		return fmt.Errorf("%w: radius must be finite and non-negative", ErrInvalidConfig)
	}

	if !finite(c.Sigma) || c.Sigma < 0 {
		return fmt.Errorf("%w: sigma must be finite and non-negative", ErrInvalidConfig)
	}

	if c.Iterations < 0 || c.Iterations > maxIterations {
		return fmt.Errorf("%w: iterations must be 0-%d, got %d", ErrInvalidConfig, maxIterations, c.Iterations)
	}

	if c.Repeats < 1 || c.Repeats > maxRepeats {
		return fmt.Errorf("%w: repeats must be 1-%d, got %d", ErrInvalidConfig, maxRepeats, c.Repeats)
	}

	if c.Width < 1 || c.Width > maxWidth {
		return fmt.Errorf("%w: width must be 1-%d, got %d", ErrInvalidConfig, maxWidth, c.Width)
	}

	if !finite(c.Tolerance) || c.Tolerance <= 0 {
		return fmt.Errorf("%w: tolerance must be positive", ErrInvalidConfig)
	}

	if c.IQWAV && c.IQRate <= 0 {
		return fmt.Errorf("%w: I/Q sample rate must be positive", ErrInvalidConfig)
	}

	return nil
}

// LoadConfig reads a YAML file over DefaultConfig. Keys absent from the file
// keep their default and an empty file yields the defaults. The result is not validated.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to open config: %w", err)
	}
	defer func() { _ = f.Close() }()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	return cfg, nil
}
