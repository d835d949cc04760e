package cli_helpers

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// WarnOnBool logs a warning when args contain a bare "true" or "false".
// urfave/cli only accepts booleans as --flag=true, so "--flag true" turns the
// value into a positional argument, which for buildshaders would become the
// shader root.
func WarnOnBool(args []string) {
	if len(args) < 2 {
		return
	}

	// the first element is the program name
	for idx, a := range args[1:] {
		arg := strings.ToLower(a)
		if arg != "true" && arg != "false" {
			continue
		}

		supposedFlag := "--key"
		if idx > 0 {
			supposedFlag = args[idx]
		}

		logrus.Warningf("boolean parameters must be passed in the command line with %s=%s", supposedFlag, arg)
		logrus.Warningln("parameters after this may be ignored")
		return
	}
}
