package cmabench

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-cma-bench/internal/results"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.OutputDir = t.TempDir()
	cfg.Iterations = 50
	return cfg
}

var coreFiles = []string{
	results.FileMultiInput,
	results.FileMultiOutEq,
	results.FileSingleLoop,
	results.FileSingleBroad,
	results.FileMultiLoop,
	results.FileMultiBroad,
	results.FileTiming,
}

func TestRun_WritesAndVerifies(t *testing.T) {
	cfg := testConfig(t)
	rep, err := Run(cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, rep)

	assert.True(t, rep.Passed())
	assert.Len(t, rep.Checks, 6)
	assert.ElementsMatch(t, coreFiles, rep.Written)
	assert.Empty(t, rep.Failed)
	assert.Empty(t, rep.RunID)
	assert.Equal(t, 50, rep.Iterations)

	names := make([]string, 0, len(rep.Timings))
	for _, tm := range rep.Timings {
		names = append(names, tm.Variant)
	}
	assert.Equal(t, []string{
		"singlemode_loop", "singlemode_broadcast", "multimode_loop", "multimode_broadcast",
	}, names)

	for _, name := range coreFiles {
		assert.FileExists(t, filepath.Join(cfg.OutputDir, name))
	}

	timing, err := results.ReadTiming(filepath.Join(cfg.OutputDir, results.FileTiming))
	require.NoError(t, err)
	assert.Equal(t, 50, timing.Iterations)

	state, err := results.ReadComplex(filepath.Join(cfg.OutputDir, results.FileMultiLoop))
	require.NoError(t, err)
	assert.Len(t, state, cfg.NModes*cfg.NModes*cfg.NTaps)
}

func TestRun_Deterministic(t *testing.T) {
	a := testConfig(t)
	b := testConfig(t)
	b.EnableSIMD = false
	b.Width = 3

	_, err := Run(a, nil)
	require.NoError(t, err)
	_, err = Run(b, nil)
	require.NoError(t, err)

	for _, name := range []string{results.FileMultiInput, results.FileMultiOutEq, results.FileSingleLoop, results.FileMultiLoop} {
		da, err := os.ReadFile(filepath.Join(a.OutputDir, name))
		require.NoError(t, err)
		db, err := os.ReadFile(filepath.Join(b.OutputDir, name))
		require.NoError(t, err)
		assert.Equal(t, da, db, name)
	}
}

func TestRun_SeedChangesInput(t *testing.T) {
	a := testConfig(t)
	b := testConfig(t)
	b.Seed = 7

	_, err := Run(a, nil)
	require.NoError(t, err)
	_, err = Run(b, nil)
	require.NoError(t, err)

	da, err := os.ReadFile(filepath.Join(a.OutputDir, results.FileMultiInput))
	require.NoError(t, err)
	db, err := os.ReadFile(filepath.Join(b.OutputDir, results.FileMultiInput))
	require.NoError(t, err)
	assert.NotEqual(t, da, db)
}

func TestRun_OptionalArtifacts(t *testing.T) {
	cfg := testConfig(t)
	cfg.Metrics = true
	cfg.IQWAV = true
	cfg.Manifest = true

	rep, err := Run(cfg, nil)
	require.NoError(t, err)

	assert.Contains(t, rep.Written, results.FileMetrics)
	assert.Contains(t, rep.Written, results.FileIQWAV)
	assert.Contains(t, rep.Written, results.FileManifest)
	_, err = uuid.Parse(rep.RunID)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, results.FileManifest))
	require.NoError(t, err)
	var m results.Manifest
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, rep.RunID, m.RunID)
	assert.Len(t, m.Timing, 4)
	// The manifest lists the files written before it.
	assert.Subset(t, m.Files, coreFiles)
	assert.Contains(t, m.Files, results.FileIQWAV)
}

func TestRun_MissingOutputDir(t *testing.T) {
	cfg := testConfig(t)
	cfg.OutputDir = filepath.Join(cfg.OutputDir, "missing")

	rep, err := Run(cfg, nil)
	require.Error(t, err)
	require.NotNil(t, rep)

	assert.Len(t, rep.Failed, len(coreFiles))
	assert.Empty(t, rep.Written)
	// Verification is independent of persistence.
	assert.True(t, rep.Passed())
	assert.NotErrorIs(t, err, ErrVerification)
}

func TestRun_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.NModes = 0
	rep, err := Run(cfg, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Nil(t, rep)
}

func TestRun_ZeroIterations(t *testing.T) {
	cfg := testConfig(t)
	cfg.Iterations = 0
	rep, err := Run(cfg, nil)
	require.NoError(t, err)
	assert.True(t, rep.Passed())
	for _, tm := range rep.Timings {
		assert.Zero(t, tm.PerUpdate)
	}
}

func TestRun_Logs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := Run(testConfig(t), logger)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "starting benchmark")
	assert.Contains(t, out, "benchmark complete")
	assert.Contains(t, out, "wrote result file")
	assert.Contains(t, out, "verification passed")
}

func TestVerifyDir(t *testing.T) {
	cfg := testConfig(t)
	_, err := Run(cfg, nil)
	require.NoError(t, err)

	checks, err := VerifyDir(cfg)
	require.NoError(t, err)
	assert.Len(t, checks, 6)

	// A different step size no longer matches the closed form.
	cfg.Mu *= 2
	checks, err = VerifyDir(cfg)
	assert.ErrorIs(t, err, ErrVerification)
	require.Len(t, checks, 6)
	assert.True(t, checks[0].OK, checks[0].Detail)
	assert.True(t, checks[1].OK, checks[1].Detail)
}

func TestVerifyDir_MissingFiles(t *testing.T) {
	cfg := testConfig(t)
	_, err := VerifyDir(cfg)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
