// Command iqinspect summarises an I/Q WAV written by cmabench --iq-wav.
//
// Usage:
//
//	iqinspect data/cma_multimode_input_iq.wav
//	iqinspect -txt iq.txt data/cma_multimode_input_iq.wav   # also dump as "re im" text
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/tphakala/go-cma-bench/internal/results"
)

const requiredArgs = 1

var errUsage = errors.New("usage: iqinspect [options] capture.wav")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// summary is the per-capture statistics printed by iqinspect.
type summary struct {
	Samples     int
	SampleRate  int
	BitDepth    int
	Duration    time.Duration
	MeanI       float64
	MeanQ       float64
	StdDevI     float64
	StdDevQ     float64
	Correlation float64
	MeanPower   float64
	PeakMag     float64
}

func summarize(c *results.IQCapture) summary {
	n := len(c.Samples)
	s := summary{Samples: n, SampleRate: c.SampleRate, BitDepth: c.BitDepth}
	if c.SampleRate > 0 {
		s.Duration = time.Duration(float64(n) / float64(c.SampleRate) * float64(time.Second))
	}
	if n == 0 {
		return s
	}

	i := make([]float64, n)
	q := make([]float64, n)
	for k, v := range c.Samples {
		i[k] = real(v)
		q[k] = imag(v)
	}
	s.MeanI, s.StdDevI = stat.MeanStdDev(i, nil)
	s.MeanQ, s.StdDevQ = stat.MeanStdDev(q, nil)
	if n > 1 {
		s.Correlation = stat.Correlation(i, q, nil)
	}

	power := make([]float64, n)
	vecmath.Power(power, i, q)
	s.MeanPower = floats.Sum(power) / float64(n)

	mag := make([]float64, n)
	vecmath.Magnitude(mag, i, q)
	s.PeakMag = floats.Max(mag)
	return s
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("iqinspect", flag.ContinueOnError)
	txtPath := fs.String("txt", "", "Also write the samples as \"re im\" text to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < requiredArgs {
		return errUsage
	}

	c, err := results.ReadIQWAV(fs.Arg(0))
	if err != nil {
		return err
	}

	s := summarize(c)
	fmt.Fprintf(stdout, "File:        %s\n", fs.Arg(0))
	fmt.Fprintf(stdout, "Format:      %d Hz, %d-bit I/Q\n", s.SampleRate, s.BitDepth)
	fmt.Fprintf(stdout, "Samples:     %d (%v)\n", s.Samples, s.Duration)
	fmt.Fprintf(stdout, "I mean/std:  %+.6f / %.6f\n", s.MeanI, s.StdDevI)
	fmt.Fprintf(stdout, "Q mean/std:  %+.6f / %.6f\n", s.MeanQ, s.StdDevQ)
	fmt.Fprintf(stdout, "I/Q corr:    %+.6f\n", s.Correlation)
	fmt.Fprintf(stdout, "Mean power:  %.6f\n", s.MeanPower)
	fmt.Fprintf(stdout, "Peak |x|:    %.6f\n", s.PeakMag)

	if *txtPath != "" {
		f, err := os.Create(*txtPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", *txtPath, err)
		}
		if err := results.EncodeComplex(f, c.Samples); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Wrote %s\n", *txtPath)
	}
	return nil
}
