//go:build aix || android || darwin || dragonfly || freebsd || hurd || illumos || linux || netbsd || openbsd || solaris

package process

import (
	"errors"

	"golang.org/x/sys/unix"
)

type unixKiller struct {
	logger Logger
	cmd    Commander
}

func newKiller(logger Logger, cmd Commander) killer {
	return &unixKiller{
		logger: logger,
		cmd:    cmd,
	}
}

func (pk *unixKiller) getPID() int {
	// a negative PID addresses the whole process group set up by
	// setProcessGroup
	return pk.cmd.Process().Pid * -1
}

func (pk *unixKiller) Terminate() {
	if pk.cmd.Process() == nil {
		return
	}

	err := unix.Kill(pk.getPID(), unix.SIGTERM)
	if err != nil && !errors.Is(err, unix.ESRCH) {
		pk.logger.Warn("Failed to terminate process:", err)

		// try to kill right-after
		pk.ForceKill()
	}
}

func (pk *unixKiller) ForceKill() {
	if pk.cmd.Process() == nil {
		return
	}

	err := unix.Kill(pk.getPID(), unix.SIGKILL)
	if err != nil && !errors.Is(err, unix.ESRCH) {
		pk.logger.Warn("Failed to force-kill:", err)
	}
}
