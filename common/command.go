package common

import (
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	clihelpers "gitlab.com/gitlab-org/golang-cli-helpers"
)

// Commander executes the command with the cli.Context.
//
//go:generate mockery --name=Commander --inpackage
type Commander interface {
	Execute(c *cli.Context)
}

var (
	commandsLock sync.Mutex
	commands     = make(map[string]cli.Command)
)

// NewCommand constructs a command with the given name, usage, and flags. Flags
// declared through struct tags on data are appended to the explicit ones.
func NewCommand(name, usage string, data Commander, flags ...cli.Flag) cli.Command {
	return cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "[ROOT]",
		Action:    data.Execute,
		Flags:     append(flags, clihelpers.GetFlagsFromStruct(data)...),
	}
}

// RegisterCommand adds a command to the set returned by GetCommands.
// Registering the same name twice is a programming error.
func RegisterCommand(name, usage string, data Commander, flags ...cli.Flag) {
	commandsLock.Lock()
	defer commandsLock.Unlock()

	if _, ok := commands[name]; ok {
		logrus.Panicln("Command", name, "is already registered")
	}

	commands[name] = NewCommand(name, usage, data, flags...)
}

// GetCommands returns all registered commands sorted by name.
func GetCommands() []cli.Command {
	commandsLock.Lock()
	defer commandsLock.Unlock()

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]cli.Command, 0, len(names))
	for _, name := range names {
		result = append(result, commands[name])
	}

	return result
}
