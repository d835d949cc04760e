package process

import (
	"os/exec"
	"strconv"
)

type windowsKiller struct {
	logger Logger
	cmd    Commander
}

func newKiller(logger Logger, cmd Commander) killer {
	return &windowsKiller{
		logger: logger,
		cmd:    cmd,
	}
}

// Terminate sends taskkill for the compiler and its children. It is forced
// with `/F` because console processes usually ignore the polite request.
func (pk *windowsKiller) Terminate() {
	if pk.cmd.Process() == nil {
		return
	}

	err := taskKill(pk.cmd.Process().Pid)
	if err != nil {
		pk.logger.Warn("Failed to terminate process:", err)

		pk.ForceKill()
	}
}

func (pk *windowsKiller) ForceKill() {
	if pk.cmd.Process() == nil {
		return
	}

	err := pk.cmd.Process().Kill()
	if err != nil {
		pk.logger.Warn("Failed to force-kill:", err)
	}
}

func taskKill(pid int) error {
	return exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}
