//go:build linux

// Package mem reads memory figures from /proc/meminfo. The parameter
// store's mem_frac scales the memory available to the workload, so tooling
// needs MemAvailable/MemTotal to translate fractions into concrete bytes.
package mem

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/ja7ad/hashload/pkg/types"
)

// meminfoPath returns the meminfo file to read. The MEMINFO env var
// overrides the default, which keeps tests hermetic.
func meminfoPath() string {
	if p := os.Getenv("MEMINFO"); p != "" {
		return p
	}
	return "/proc/meminfo"
}

// Available returns MemAvailable in bytes.
func Available() (types.Bytes, error) {
	return field("MemAvailable:")
}

// Total returns MemTotal in bytes.
func Total() (types.Bytes, error) {
	return field("MemTotal:")
}

// field scans meminfo for key and converts its kB figure to bytes.
// meminfo values are always reported in kB regardless of magnitude.
func field(key string) (types.Bytes, error) {
	f, err := os.Open(meminfoPath())
	if err != nil {
		return 0, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, key) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			break
		}
		kb, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			break
		}
		return types.Bytes(kb * 1024), nil
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	return 0, ErrNoMemInfo
}
