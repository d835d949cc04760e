package cli_helpers

import (
	"strings"

	"github.com/urfave/cli"
)

var helpAndVersionFlags = map[string]struct{}{
	"help":    {},
	"h":       {},
	"version": {},
	"v":       {},
}

// WithDefaultCommand returns args with the command name inserted when args
// do not name a command of app, so that `buildshaders ROOT --flag` runs that
// command. Leading global flags of app stay in front of the inserted name.
// Help and version requests are left untouched.
func WithDefaultCommand(app *cli.App, name string, args []string) []string {
	if len(args) == 0 {
		return args
	}

	valueFlags := globalFlags(app)

	// the first element is the program name
	for i := 1; i < len(args); i++ {
		arg := args[i]

		if arg == "-" || !strings.HasPrefix(arg, "-") {
			if app.Command(arg) != nil || arg == "help" || arg == "h" {
				return args
			}
			return insertArg(args, i, name)
		}

		flagName, _, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if _, ok := helpAndVersionFlags[flagName]; ok {
			return args
		}

		takesValue, global := valueFlags[flagName]
		if !global {
			return insertArg(args, i, name)
		}

		if takesValue && !hasValue {
			i++
		}
	}

	return insertArg(args, len(args), name)
}

// globalFlags maps every name of the flags of app to whether the flag takes a
// value.
func globalFlags(app *cli.App) map[string]bool {
	flags := make(map[string]bool)

	for _, f := range app.Flags {
		takesValue := true
		switch f.(type) {
		case cli.BoolFlag, *cli.BoolFlag, cli.BoolTFlag, *cli.BoolTFlag:
			takesValue = false
		}

		for _, name := range strings.Split(f.GetName(), ",") {
			flags[strings.TrimSpace(name)] = takesValue
		}
	}

	return flags
}

func insertArg(args []string, i int, arg string) []string {
	result := make([]string, 0, len(args)+1)
	result = append(result, args[:i]...)
	result = append(result, arg)

	return append(result, args[i:]...)
}
