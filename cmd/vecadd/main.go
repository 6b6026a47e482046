// Command vecadd adds two int32 vectors, prints each sum, writes the result
// one value per line and checks it against a scalar recomputation.
//
// Usage:
//
//	vecadd                 # writes ./vecadd_output.txt
//	vecadd -out data       # writes data/vecadd_output.txt
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/tphakala/go-cma-bench/internal/vecadd"
)

var errMismatch = errors.New("vecadd: result differs from reference")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("vecadd", flag.ContinueOnError)
	outDir := fs.String("out", ".", "Directory for "+vecadd.OutputFile)
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, b := vecadd.DefaultOperands()
	c := make([]int32, len(a))
	if err := vecadd.Add(c, a, b); err != nil {
		return err
	}
	if err := vecadd.Print(stdout, a, b, c); err != nil {
		return err
	}

	path := filepath.Join(*outDir, vecadd.OutputFile)
	if err := vecadd.WriteFile(path, c); err != nil {
		return err
	}

	// Verify the file contents.
	written, err := vecadd.ReadFile(path)
	if err != nil {
		return err
	}
	bad, err := vecadd.Verify(a, b, written)
	if err != nil {
		return err
	}
	for _, m := range bad {
		fmt.Fprintf(stdout, "mismatch at %d: got %d, want %d\n", m.Index, m.Got, m.Want)
	}
	if len(bad) > 0 {
		return fmt.Errorf("%w: %d of %d elements", errMismatch, len(bad), len(c))
	}
	fmt.Fprintf(stdout, "verified %d elements\n", len(c))
	return nil
}
