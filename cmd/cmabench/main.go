// Command cmabench times the sequential and broadcast CMA weight updates,
// verifies they agree and writes the inputs, captured states and timings to a
// result directory.
//
// Usage:
//
//	cmabench                          # fixed benchmark, results in ./data
//	cmabench --out results -n 100000  # more iterations, custom directory
//	cmabench --config bench.yaml      # YAML overrides, flags win
//	cmabench --no-simd --width 8      # pure Go lanes, eight taps per lane
//	cmabench verify --out results     # re-check a previous run
package main

import (
	"log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}
