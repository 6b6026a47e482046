package results

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sys/cpu"

	"github.com/tphakala/go-cma-bench/internal/bench"
	"github.com/tphakala/go-cma-bench/internal/simdops"
)

// HostInfo describes the machine a run was timed on.
type HostInfo struct {
	GOOS      string   `json:"goos"`
	GOARCH    string   `json:"goarch"`
	NumCPU    int      `json:"num_cpu"`
	GoVersion string   `json:"go_version"`
	SIMD      string   `json:"simd"`
	LaneOps   string   `json:"lane_ops"`
	Features  []string `json:"features,omitempty"`
}

// DetectHost collects HostInfo for the lane table in use.
func DetectHost(ops *simdops.Ops) HostInfo {
	h := HostInfo{
		GOOS:      runtime.GOOS,
		GOARCH:    runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
		GoVersion: runtime.Version(),
		SIMD:      simdops.Info(),
	}
	if ops != nil {
		h.LaneOps = ops.Name
	}

	flags := []struct {
		name string
		ok   bool
	}{
		{"sse2", cpu.X86.HasSSE2},
		{"sse4.2", cpu.X86.HasSSE42},
		{"avx", cpu.X86.HasAVX},
		{"avx2", cpu.X86.HasAVX2},
		{"fma", cpu.X86.HasFMA},
		{"avx512f", cpu.X86.HasAVX512F},
		{"asimd", cpu.ARM64.HasASIMD},
		{"sve", cpu.ARM64.HasSVE},
	}
	for _, f := range flags {
		if f.ok {
			h.Features = append(h.Features, f.name)
		}
	}
	return h
}

// VariantTiming is one variant's timing in the manifest.
type VariantTiming struct {
	Variant       string  `json:"variant"`
	Seconds       float64 `json:"seconds"`
	StdDevSeconds float64 `json:"stddev_seconds"`
	NsPerUpdate   float64 `json:"ns_per_update"`
}

// Manifest records what a run did and produced.
type Manifest struct {
	RunID      string             `json:"run_id"`
	StartedAt  time.Time          `json:"started_at"`
	Duration   string             `json:"duration"`
	Config     any                `json:"config"`
	Host       HostInfo           `json:"host"`
	Iterations int                `json:"iterations"`
	Timing     []VariantTiming    `json:"timing"`
	Speedup    map[string]float64 `json:"speedup"`
	Checks     any                `json:"checks,omitempty"`
	Files      []string           `json:"files"`
	Failed     map[string]string  `json:"failed,omitempty"`
}

// NewManifest starts a manifest with a fresh run id.
func NewManifest(started time.Time, config any, host HostInfo) *Manifest {
	return &Manifest{
		RunID:     uuid.NewString(),
		StartedAt: started,
		Config:    config,
		Host:      host,
		Speedup:   make(map[string]float64),
	}
}

// SetResult fills the timing section from a driver result.
func (m *Manifest) SetResult(res *bench.Result) {
	t := res.Timing
	m.Iterations = t.Iterations
	m.Timing = m.Timing[:0]
	for _, v := range bench.Variants {
		vt := VariantTiming{
			Variant:       v.String(),
			Seconds:       t.Get(v).Seconds(),
			StdDevSeconds: res.Summary.StdDev[v].Seconds(),
		}
		if t.Iterations > 0 {
			vt.NsPerUpdate = float64(t.Get(v).Nanoseconds()) / float64(t.Iterations)
		}
		m.Timing = append(m.Timing, vt)
	}
	m.Speedup[bench.ModeSingle] = t.Speedup(bench.ModeSingle)
	m.Speedup[bench.ModeMulti] = t.Speedup(bench.ModeMulti)
}

// SetReport records written and failed files.
func (m *Manifest) SetReport(rep *Report) {
	m.Files = append(m.Files, rep.Written...)
	for name, err := range rep.Failed {
		if m.Failed == nil {
			m.Failed = make(map[string]string)
		}
		m.Failed[name] = err.Error()
	}
}

// WriteManifest writes m as indented JSON to name inside the writer directory.
func (w *Writer) WriteManifest(name string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		err = fmt.Errorf("failed to encode manifest: %w", err)
		w.logResult(name, err)
		return err
	}
	data = append(data, '\n')
	if err := os.WriteFile(w.Path(name), data, filePerm); err != nil {
		err = fmt.Errorf("failed to write manifest: %w", err)
		w.logResult(name, err)
		return err
	}
	w.logResult(name, nil)
	return nil
}
