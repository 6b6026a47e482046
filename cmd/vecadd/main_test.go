package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-cma-bench/internal/vecadd"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	require.NoError(t, run([]string{"-out", dir}, &out))

	assert.Contains(t, out.String(), "1 + 10 = 11\n")
	assert.Contains(t, out.String(), "8 + 80 = 88\n")
	assert.Contains(t, out.String(), "verified 8 elements")

	got, err := vecadd.ReadFile(filepath.Join(dir, vecadd.OutputFile))
	require.NoError(t, err)
	assert.Equal(t, []int32{11, 22, 33, 44, 55, 66, 77, 88}, got)
}

func TestRun_MissingDir(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"-out", filepath.Join(t.TempDir(), "missing")}, &out)
	assert.Error(t, err)
}

func TestRun_BadFlag(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, run([]string{"-bogus"}, &out))
}
