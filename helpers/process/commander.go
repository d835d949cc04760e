package process

import (
	"io"
	"os"
	"os/exec"
)

// Commander is the part of exec.Cmd the compiler needs to run and stop a
// child process.
//
//go:generate mockery --name=Commander --inpackage
type Commander interface {
	Start() error
	Wait() error
	Process() *os.Process
}

type CommandOptions struct {
	Dir string
	Env []string

	Stdout io.Writer
	Stderr io.Writer
}

type osCmd struct {
	internal *exec.Cmd
	options  CommandOptions
}

// NewOSCmd creates a new implementation of Commander using the os.Cmd from
// os/exec. The process is started in its own process group so that it can be
// terminated together with anything it spawns.
func NewOSCmd(executable string, args []string, options CommandOptions) Commander {
	c := exec.Command(executable, args...)
	c.Dir = options.Dir
	c.Env = options.Env
	c.Stdout = options.Stdout
	c.Stderr = options.Stderr

	return &osCmd{
		internal: c,
		options:  options,
	}
}

func (c *osCmd) Start() error {
	setProcessGroup(c.internal)

	return c.internal.Start()
}

func (c *osCmd) Wait() error {
	return c.internal.Wait()
}

func (c *osCmd) Process() *os.Process {
	return c.internal.Process
}
