package params

import "math"

// PidParams holds the gain coefficients for one PID controller instance.
// The store only carries the gains; the update equations belong to the
// consuming controller.
type PidParams struct {
	Kp float64 `json:"kp"`
	Ki float64 `json:"ki"`
	Kd float64 `json:"kd"`
}

// FileFracMin is the hard floor applied to Params.FileFrac on every load.
// A zero page-cache share is undefined for the access distribution math, so
// the floor is enforced silently instead of rejecting the document.
const FileFracMin = 0.001

// Params is one configuration snapshot for the workload engine.
// Units:
//   - durations: seconds
//   - sizes: bytes (ChunkPages is in pages)
//   - _frac fields: proportion of some other value, conventionally <= 1.0
//   - _ratio fields: scale factor, may exceed 1.0
//
// Params is a pure value type: no hidden state, comparable field-wise, and
// never mutated after construction. A reload produces a replacement value.
// The store floors FileFrac and otherwise accepts out-of-range numbers
// verbatim; what is operationally safe is the engine's call.
type Params struct {
	ControlPeriod       float64   `json:"control_period"`
	ConcurrencyMax      uint32    `json:"concurrency_max"`
	LatTargetPct        float64   `json:"lat_target_pct"`
	LatTarget           float64   `json:"lat_target"`
	RpsTarget           uint32    `json:"rps_target"`
	RpsMax              uint32    `json:"rps_max"`
	MemFrac             float64   `json:"mem_frac"`
	ChunkPages          int       `json:"chunk_pages"`
	FileFrac            float64   `json:"file_frac"`
	FileSizeMean        int       `json:"file_size_mean"`
	FileSizeStdevRatio  float64   `json:"file_size_stdev_ratio"`
	FileAddrStdevRatio  float64   `json:"file_addr_stdev_ratio"`
	FileAddrRpsBaseFrac float64   `json:"file_addr_rps_base_frac"`
	FileWriteFrac       float64   `json:"file_write_frac"`
	AnonSizeRatio       float64   `json:"anon_size_ratio"`
	AnonSizeStdevRatio  float64   `json:"anon_size_stdev_ratio"`
	AnonAddrStdevRatio  float64   `json:"anon_addr_stdev_ratio"`
	AnonAddrRpsBaseFrac float64   `json:"anon_addr_rps_base_frac"`
	AnonWriteFrac       float64   `json:"anon_write_frac"`
	SleepMean           float64   `json:"sleep_mean"`
	SleepStdevRatio     float64   `json:"sleep_stdev_ratio"`
	CPURatio            float64   `json:"cpu_ratio"`
	LogBps              uint64    `json:"log_bps"`
	FakeCPULoad         bool      `json:"fake_cpu_load"`
	AccDistSlots        int       `json:"acc_dist_slots"`
	LatPid              PidParams `json:"lat_pid"`
	RpsPid              PidParams `json:"rps_pid"`
	AnonHistogram       []uint64  `json:"anon_histogram"`
}

// Default returns the compiled-in baseline. Deterministic, never fails.
func Default() Params {
	return Params{
		ControlPeriod:       1.0,
		ConcurrencyMax:      65536,
		LatTargetPct:        0.95,
		LatTarget:           0.075,
		RpsTarget:           65536,
		RpsMax:              0,
		MemFrac:             0.80,
		ChunkPages:          25,
		FileFrac:            0.25,
		FileSizeMean:        1258291,
		FileSizeStdevRatio:  0.45,
		FileAddrStdevRatio:  0.215,
		FileAddrRpsBaseFrac: 0.5,
		FileWriteFrac:       0.0,
		AnonSizeRatio:       2.3,
		AnonSizeStdevRatio:  0.45,
		AnonAddrStdevRatio:  0.235,
		AnonAddrRpsBaseFrac: 0.5,
		AnonWriteFrac:       0.3,
		SleepMean:           0.020,
		SleepStdevRatio:     0.33,
		CPURatio:            0.93,
		LogBps:              1100794,
		FakeCPULoad:         false,
		AccDistSlots:        0,
		LatPid:              PidParams{Kp: 0.1, Ki: 0.01, Kd: 0.01},
		RpsPid:              PidParams{Kp: 0.25, Ki: 0.01, Kd: 0.01},
		AnonHistogram:       []uint64{},
	}
}

// LogPadding returns the number of log padding bytes to emit per request so
// that the log write rate reaches LogBps at RpsMax. Zero when RpsMax is 0
// (footprint scaling by RPS disabled).
func (p Params) LogPadding() uint64 {
	if p.RpsMax == 0 {
		return 0
	}
	return uint64(math.Round(float64(p.LogBps) / float64(p.RpsMax)))
}

// HistogramActive reports whether anonymous accesses are driven by the
// weight histogram. When true the engine ignores AnonSizeRatio,
// AnonSizeStdevRatio and AnonAddrStdevRatio; the store still round-trips
// them untouched.
func (p Params) HistogramActive() bool {
	return len(p.AnonHistogram) > 0
}

// loaded normalizes a freshly constructed snapshot. Every construction path
// other than Default's literals goes through here exactly once. prev carries
// the snapshot being replaced on a hot reload (nil otherwise); current
// policy does not consult it, but the signature keeps that option open for
// reload-time policy such as rate-limited transitions.
func (p *Params) loaded(prev *Params) error {
	p.FileFrac = math.Max(p.FileFrac, FileFracMin)
	if p.AnonHistogram == nil {
		// an explicit null means the same as an absent histogram
		p.AnonHistogram = []uint64{}
	}
	return nil
}
