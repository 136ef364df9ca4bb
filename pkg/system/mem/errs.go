//go:build linux

package mem

import "errors"

// ErrNoMemInfo indicates that meminfo was readable but the requested field
// was absent or malformed.
var ErrNoMemInfo = errors.New("mem: missing or malformed meminfo field")
