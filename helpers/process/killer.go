package process

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrProcessNotStarted is returned when we try to stop a compiler process
// that was never started (still nil).
var ErrProcessNotStarted = errors.New("process not started yet")

//go:generate mockery --name=killer --inpackage
type killer interface {
	Terminate()
	ForceKill()
}

var newProcessKiller = newKiller

//go:generate mockery --name=KillWaiter --inpackage
type KillWaiter interface {
	KillAndWait(command Commander, waitCh chan error) error
}

type KillProcessError struct {
	pid int
}

func (k *KillProcessError) Error() string {
	return fmt.Sprintf("failed to kill process PID=%d, likely process is dormant", k.pid)
}

func (k *KillProcessError) Is(err error) bool {
	_, ok := err.(*KillProcessError)

	return ok
}

type osKillWait struct {
	logger Logger

	gracefulKillTimeout time.Duration
	forceKillTimeout    time.Duration
}

func NewOSKillWait(logger Logger, gracefulKillTimeout, forceKillTimeout time.Duration) KillWaiter {
	return &osKillWait{
		logger:              logger,
		gracefulKillTimeout: gracefulKillTimeout,
		forceKillTimeout:    forceKillTimeout,
	}
}

// KillAndWait asks the process group to terminate and waits for waitCh. Once
// the graceful timeout passes the group is force-killed, and if waitCh still
// stays silent after the force timeout a KillProcessError is returned.
func (kw *osKillWait) KillAndWait(command Commander, waitCh chan error) error {
	process := command.Process()
	if process == nil {
		return ErrProcessNotStarted
	}

	log := kw.logger.WithFields(logrus.Fields{
		"PID": process.Pid,
	})

	processKiller := newProcessKiller(log, command)
	processKiller.Terminate()

	graceful := time.NewTimer(kw.gracefulKillTimeout)
	defer graceful.Stop()

	select {
	case err := <-waitCh:
		return err
	case <-graceful.C:
	}

	log.Warn("Compiler did not exit after termination request, force-killing")
	processKiller.ForceKill()

	force := time.NewTimer(kw.forceKillTimeout)
	defer force.Stop()

	select {
	case err := <-waitCh:
		return err
	case <-force.C:
		return &KillProcessError{pid: process.Pid}
	}
}
