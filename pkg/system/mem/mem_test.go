//go:build linux

package mem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ja7ad/hashload/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMeminfo(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "meminfo")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("MEMINFO", path)
}

func TestField_Override(t *testing.T) {
	writeMeminfo(t, "MemTotal:       16303228 kB\nMemFree:         1021732 kB\nMemAvailable:    8165920 kB\n")

	total, err := Total()
	require.NoError(t, err)
	assert.Equal(t, types.Bytes(16303228*1024), total)

	avail, err := Available()
	require.NoError(t, err)
	assert.Equal(t, types.Bytes(8165920*1024), avail)
}

func TestField_Missing(t *testing.T) {
	writeMeminfo(t, "MemTotal:       16303228 kB\n")

	_, err := Available()
	require.ErrorIs(t, err, ErrNoMemInfo)
}

func TestField_Malformed(t *testing.T) {
	writeMeminfo(t, "MemAvailable: lots kB\n")

	_, err := Available()
	require.ErrorIs(t, err, ErrNoMemInfo)
}

func TestField_NoFile(t *testing.T) {
	t.Setenv("MEMINFO", filepath.Join(t.TempDir(), "absent"))

	_, err := Available()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoMemInfo)
}

func TestField_RealProc(t *testing.T) {
	if _, err := os.Stat("/proc/meminfo"); err != nil {
		t.Skip("/proc/meminfo not present")
	}
	t.Setenv("MEMINFO", "")

	total, err := Total()
	require.NoError(t, err)
	assert.Greater(t, total.Uint64(), uint64(0))
}
