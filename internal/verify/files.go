package verify

import (
	"fmt"
	"path/filepath"

	"github.com/tphakala/go-cma-bench/internal/bench"
	"github.com/tphakala/go-cma-bench/internal/results"
	"github.com/tphakala/go-cma-bench/internal/signal"
)

// Params are the run parameters not recorded in the result files.
type Params struct {
	NTaps    int
	NModes   int
	SingleMu complex128
	Mu       float64
	Radius   float64
}

// LoadInputs rebuilds the driver inputs of a previous run from dir. The
// single-mode window is the deterministic ramp; the multi-mode window and
// outputs are read back from their files.
func LoadInputs(dir string, p Params) (*bench.Inputs, error) {
	x, err := results.ReadComplex(filepath.Join(dir, results.FileMultiInput))
	if err != nil {
		return nil, err
	}
	outEq, err := results.ReadComplex(filepath.Join(dir, results.FileMultiOutEq))
	if err != nil {
		return nil, err
	}
	r := make([]float64, p.NModes)
	for i := range r {
		r[i] = p.Radius
	}
	in := &bench.Inputs{
		NTaps:    p.NTaps,
		NModes:   p.NModes,
		SingleX:  signal.Ramp(p.NTaps),
		SingleMu: p.SingleMu,
		Multi:    signal.MultiModeInputs{X: x, OutEq: outEq, R: r},
		Mu:       p.Mu,
	}
	if err := in.Check(); err != nil {
		return nil, fmt.Errorf("inputs in %s: %w", dir, err)
	}
	return in, nil
}

// LoadStates reads the four captured state files from dir.
func LoadStates(dir string) ([bench.NumVariants][]complex128, error) {
	var states [bench.NumVariants][]complex128
	for _, v := range bench.Variants {
		s, err := results.ReadComplex(filepath.Join(dir, results.StateFile(v)))
		if err != nil {
			return states, err
		}
		states[v] = s
	}
	return states, nil
}

// CheckDir verifies the result files of a previous run in dir.
func CheckDir(dir string, p Params, tolerance float64) ([]Comparison, error) {
	in, err := LoadInputs(dir, p)
	if err != nil {
		return nil, err
	}
	states, err := LoadStates(dir)
	if err != nil {
		return nil, err
	}
	return CheckStates(in, states, tolerance), nil
}
