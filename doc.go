// Package cmabench benchmarks two strategies of the Constant Modulus
// Algorithm (CMA) blind equalizer weight update used in coherent optical
// receivers.
//
// A tap-sequential strategy and a lane-broadcast strategy are run for a
// single-mode filter and for a multi-mode bank of nModes x nModes
// cross-coupled filters. The harness times both, captures one update from a
// zero state, proves the strategies agree and writes everything to flat text
// files for external checkers.
//
// # Quick Start
//
//	cfg := cmabench.DefaultConfig()
//	cfg.OutputDir = "data"
//	rep, err := cmabench.Run(cfg, slog.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("multi-mode speedup: %.2fx\n", rep.MultiSpeedup)
//
// # Update Rules
//
// Single-mode, with a precomputed complex increment mu:
//
//	h[k] += mu * conj(x[k])
//
// Multi-mode, with the CMA error of output mode m:
//
//	e[m] = y[m] * (|y[m]|^2 - R[m])
//	h[m][m'][k] -= mu * e[m] * conj(x[k][m'])
//
// The multi-mode input window is tap-major (x[k*nModes+m']). The state holds
// one filter per (m, m') pair, grouped by input mode
// (h[(m'*nModes+m)*nTaps+k]), so result-file row m + m'*nModes is the filter
// feeding output m from input m'.
//
// # Determinism
//
// Inputs come from a generator that reproduces the glibc rand() stream, so a
// given seed produces the same multi-mode window on every platform and in any
// C program that calls srand with that seed.
//
// # Output Files
//
// Complex buffers are written as one "re im" pair per line in %.18e notation.
// The timing file holds four elapsed times in seconds with ten decimals, in
// the order single-mode loop, single-mode broadcast, multi-mode loop,
// multi-mode broadcast, followed by the iteration count. Optional artifacts
// are a Prometheus textfile, a 16-bit I/Q WAV of the multi-mode input and a
// JSON manifest.
//
// # Thread Safety
//
// Run is single-threaded. Concurrent runs must use distinct output
// directories.
package cmabench
