package params

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sample returns a snapshot that differs from the defaults in every group,
// including an active histogram, so round-trip failures can't hide behind
// default values.
func sample() Params {
	p := Default()
	p.ControlPeriod = 2.5
	p.ConcurrencyMax = 128
	p.LatTargetPct = 0.99
	p.LatTarget = 0.150
	p.RpsTarget = 2000
	p.RpsMax = 4000
	p.MemFrac = 0.5
	p.ChunkPages = 16
	p.FileFrac = 0.4
	p.FileSizeMean = 4096
	p.FileWriteFrac = 0.25
	p.AnonSizeRatio = 1.1
	p.AnonWriteFrac = 0.6
	p.SleepMean = 0.005
	p.CPURatio = 1.5
	p.LogBps = 2048
	p.FakeCPULoad = true
	p.AccDistSlots = 32
	p.LatPid = PidParams{Kp: 0.3, Ki: 0.02, Kd: 0.005}
	p.RpsPid = PidParams{Kp: 0.7, Ki: 0.001, Kd: 0.1}
	p.AnonHistogram = []uint64{3, 1, 0, 7, 2}
	return p
}

func TestLoad_EmptyDocumentIsDefault(t *testing.T) {
	p, err := Load([]byte("{}"))
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
}

func TestRoundTrip(t *testing.T) {
	p := sample()
	got, err := Load(Save(p))
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestRoundTrip_FileFracClamped(t *testing.T) {
	p := sample()
	p.FileFrac = 0.0001
	got, err := Load(Save(p))
	require.NoError(t, err)

	assert.Equal(t, FileFracMin, got.FileFrac)
	// everything else passes through
	p.FileFrac = FileFracMin
	assert.Equal(t, p, got)
}

func TestLoad_FileFracFloor(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{-1, FileFracMin},
		{0, FileFracMin},
		{0.0005, FileFracMin},
		{FileFracMin, FileFracMin},
		{0.25, 0.25},
		{1.0, 1.0},
	}
	for i, tc := range cases {
		t.Run(fmt.Sprintf("case_%d_%v", i, tc.in), func(t *testing.T) {
			doc := fmt.Sprintf(`{"file_frac": %v}`, tc.in)
			p, err := Load([]byte(doc))
			require.NoError(t, err)
			assert.Equal(t, tc.want, p.FileFrac)
		})
	}
}

func TestLoad_ForwardCompat(t *testing.T) {
	t.Run("partial document keeps defaults elsewhere", func(t *testing.T) {
		p, err := Load([]byte(`{"rps_max": 100, "lat_pid": {"kp": 0.9}}`))
		require.NoError(t, err)

		assert.Equal(t, uint32(100), p.RpsMax)
		assert.Equal(t, 0.9, p.LatPid.Kp)
		// nested partials overlay too
		assert.Equal(t, 0.01, p.LatPid.Ki)
		assert.Equal(t, 0.01, p.LatPid.Kd)

		want := Default()
		want.RpsMax = 100
		want.LatPid.Kp = 0.9
		assert.Equal(t, want, p)
	})

	t.Run("unknown keys ignored", func(t *testing.T) {
		p, err := Load([]byte(`{"mem_frac": 0.5, "future_knob": [1, 2], "nested": {"a": true}}`))
		require.NoError(t, err)
		want := Default()
		want.MemFrac = 0.5
		assert.Equal(t, want, p)
	})
}

func TestLoad_PermissiveRanges(t *testing.T) {
	// out-of-unit proportions load verbatim; only file_frac has a rule
	p, err := Load([]byte(`{"mem_frac": 3.5, "lat_target_pct": -0.2, "file_write_frac": 2.0}`))
	require.NoError(t, err)
	assert.Equal(t, 3.5, p.MemFrac)
	assert.Equal(t, -0.2, p.LatTargetPct)
	assert.Equal(t, 2.0, p.FileWriteFrac)
}

func TestLoad_HistogramPassThrough(t *testing.T) {
	doc := `{
		"anon_histogram": [3, 1, 0, 7],
		"anon_size_ratio": 9.9,
		"anon_size_stdev_ratio": 8.8,
		"anon_addr_stdev_ratio": 7.7
	}`
	p, err := Load([]byte(doc))
	require.NoError(t, err)

	assert.True(t, p.HistogramActive())
	// inert for the engine, but never stripped by the store
	assert.Equal(t, 9.9, p.AnonSizeRatio)
	assert.Equal(t, 8.8, p.AnonSizeStdevRatio)
	assert.Equal(t, 7.7, p.AnonAddrStdevRatio)

	got, err := Load(Save(p))
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestLoad_NullHistogramMeansEmpty(t *testing.T) {
	p, err := Load([]byte(`{"anon_histogram": null}`))
	require.NoError(t, err)
	require.NotNil(t, p.AnonHistogram)
	assert.Empty(t, p.AnonHistogram)
	assert.Equal(t, Default(), p)
}

func TestLoad_Malformed(t *testing.T) {
	t.Run("syntax error", func(t *testing.T) {
		_, err := Load([]byte(`{"control_period": `))
		require.Error(t, err)
		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Empty(t, pe.Field)
	})

	t.Run("type mismatch", func(t *testing.T) {
		_, err := Load([]byte(`{"concurrency_max": "many"}`))
		require.Error(t, err)
		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "concurrency_max", pe.Field)
	})

	t.Run("negative histogram weight", func(t *testing.T) {
		_, err := Load([]byte(`{"anon_histogram": [1, -2]}`))
		var pe *ParseError
		require.ErrorAs(t, err, &pe)
	})

	t.Run("not json at all", func(t *testing.T) {
		_, err := Load([]byte("control_period = 1.0\n"))
		var pe *ParseError
		require.ErrorAs(t, err, &pe)
	})
}

func TestSave_Deterministic(t *testing.T) {
	p := sample()
	a, b := Save(p), Save(p)
	require.True(t, bytes.Equal(a, b), "same value must serialize byte-identically")

	// save -> load -> save is also stable
	q, err := Load(a)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a, Save(q)))
}

func TestSave_Preamble(t *testing.T) {
	out := string(Save(Default()))

	require.True(t, strings.HasPrefix(out, "//\n// hashload runtime parameters\n"))
	assert.Contains(t, out, "file_frac: Page cache proportion of memory footprint")
	assert.Contains(t, out, "anon_histogram: List of ints")

	// every line up to the JSON body is a comment
	body := strings.Index(out, "{")
	require.Greater(t, body, 0)
	for _, line := range strings.Split(strings.TrimRight(out[:body], "\n"), "\n") {
		assert.True(t, strings.HasPrefix(line, "//"), "preamble line %q", line)
	}
}

func TestStripComments(t *testing.T) {
	doc := "// header\n  // indented comment\n{\n  \"rps_max\": 7\n}\n"
	p, err := Load([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, uint32(7), p.RpsMax)
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.json")

	p := sample()
	require.NoError(t, p.SaveFile(path))

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)

	// I/O failure, not a parse failure
	var pe *ParseError
	assert.False(t, errors.As(err, &pe))
}
