package params

import (
	"bytes"
	"encoding/json"
	"os"
)

// paramsDoc is written ahead of the JSON body on every save so that a
// hand-edited document always carries current field semantics. Lines
// starting with // are stripped before parsing on load.
const paramsDoc = `//
// hashload runtime parameters
//
// All parameters can be updated while running and will be applied on the
// next control period.
//
// hashload keeps calculating hashes of different parts of the testfiles and
// anonymous memory using concurrent worker threads. The access addresses and
// sizes are determined using truncated normal distributions which gradually
// transform to uniform distributions as their standard deviations increase.
//
// All durations are in seconds and memory sizes in bytes. A _frac field
// should be <= 1.0 and specifies a sub-proportion of some other value. A
// _ratio field is similar but may be greater than 1.0.
//
// The concurrency level is modulated using two PID controllers to target the
// specified latency and RPS so that neither is exceeded. The total number of
// concurrent workers is limited by concurrency_max.
//
// Anonymous memory accesses can be specified in two different ways:
// 1) Anonymous memory total and access sizes can be configured to be
//    proportional to file access sizes.
// 2) A histogram from which the memory access pattern will be sampled can
//    be passed in.
//
// The total footprint for file accesses is scaled between
// file_addr_rps_base_frac and 1.0 linearly if the current RPS is lower than
// rps_max. If rps_max is 0, access footprint scaling is disabled. Anon
// footprint is scaled the same way between anon_addr_rps_base_frac and 1.0.
//
// Worker threads sleep according to the sleep duration distribution and
// their CPU consumption can be scaled up and down using cpu_ratio.
//
//  control_period: PID control period, best left alone
//  concurrency_max: Maximum number of worker threads
//  lat_target_pct: Latency target percentile
//  lat_target: Latency target
//  rps_target: Request-per-second target
//  rps_max: Reference maximum RPS, used to scale the amount of used memory
//  chunk_pages: Memory access chunk size in pages
//  mem_frac: Memory footprint scaling factor - [0.0, 1.0]
//  file_frac: Page cache proportion of memory footprint - [0.0, 1.0]
//  file_size_mean: File access size average
//  file_size_stdev_ratio: Standard deviation of file access sizes
//  file_addr_stdev_ratio: Standard deviation of file access addresses
//  file_addr_rps_base_frac: Memory scaling starting point for file accesses
//  file_write_frac: The proportion of writes in file accesses
//  anon_size_ratio: Anon access size average - 1.0 means equal to file accesses (ignored if anon_histogram is provided)
//  anon_size_stdev_ratio: Standard deviation of anon access sizes (ignored if anon_histogram is provided)
//  anon_addr_stdev_ratio: Standard deviation of anon access addresses (ignored if anon_histogram is provided)
//  anon_addr_rps_base_frac: Memory scaling starting point for anon accesses
//  anon_write_frac: The proportion of writes in anon accesses
//  anon_histogram: List of ints where the index of each element represents
//    a memory access chunk (see chunk_pages) and the value is the weight
//    which determines how frequently that chunk is accessed
//  sleep_mean: Worker sleep duration average
//  sleep_stdev_ratio: Standard deviation of sleep duration distribution
//  cpu_ratio: CPU usage scaling - 1.0 hashes the same number of bytes as accessed
//  log_bps: Log write bps at rps_max
//  fake_cpu_load: Sleep for equivalent durations instead of calculating hashes
//  acc_dist_slots: Access distribution report slots - 0 disables
//  lat_pid: PID controller parameters for latency convergence
//  rps_pid: PID controller parameters for RPS convergence
//
`

// Load parses a persisted parameter document. Fields absent from the
// document keep their Default values and unknown keys are ignored, so old
// stores read newer documents and vice versa. The only enforced range rule
// is the FileFracMin floor. A syntax error or a type mismatch yields a
// *ParseError and no partial Params.
func Load(data []byte) (Params, error) {
	return load(data, nil)
}

func load(data []byte, prev *Params) (Params, error) {
	p := Default()
	if err := json.Unmarshal(stripComments(data), &p); err != nil {
		return Params{}, newParseError(err)
	}
	if err := p.loaded(prev); err != nil {
		return Params{}, err
	}
	return p, nil
}

// Save serializes p as the commented document format: the fixed paramsDoc
// preamble followed by indented JSON with stable field order. Saving equal
// values produces byte-identical output.
func Save(p Params) []byte {
	body, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		// a Params value contains nothing the encoder can reject
		panic(err)
	}
	var out bytes.Buffer
	out.WriteString(paramsDoc)
	out.Write(body)
	out.WriteByte('\n')
	return out.Bytes()
}

// LoadFile reads and parses the document at path. I/O errors pass through
// unchanged; only decode failures are reported as *ParseError.
func LoadFile(path string) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Params{}, err
	}
	return Load(data)
}

// SaveFile writes the Save output for p to path.
func (p Params) SaveFile(path string) error {
	return os.WriteFile(path, Save(p), 0o644)
}

// stripComments drops every line whose first non-blank characters are //.
// Comments are only recognized at line granularity, which keeps the rest of
// the document plain JSON.
func stripComments(data []byte) []byte {
	var out bytes.Buffer
	for line := range bytes.Lines(data) {
		if bytes.HasPrefix(bytes.TrimSpace(line), []byte("//")) {
			continue
		}
		out.Write(line)
	}
	return out.Bytes()
}
