//go:build aix || android || darwin || dragonfly || freebsd || hurd || illumos || linux || netbsd || openbsd || solaris

package compiler

import (
	"errors"

	"golang.org/x/sys/unix"
)

// isTransientStartError reports start failures worth retrying. ETXTBSY shows
// up when the compiler binary was just written and another process still
// holds it open for writing.
func isTransientStartError(err error) bool {
	return errors.Is(err, unix.ETXTBSY)
}
