package cli_helpers

import (
	"os"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"gitlab.com/gitlab-org/buildshaders/common"
)

// LogRuntimePlatform logs the platform and version before any command runs,
// then calls the previously configured app.Before.
func LogRuntimePlatform(app *cli.App) {
	appBefore := app.Before
	app.Before = func(c *cli.Context) error {
		fields := logrus.Fields{
			"os":       runtime.GOOS,
			"arch":     runtime.GOARCH,
			"version":  common.AppVersion.Version,
			"revision": common.AppVersion.Revision,
			"pid":      os.Getpid(),
		}

		logrus.WithFields(fields).Debug("Runtime platform")

		if appBefore != nil {
			return appBefore(c)
		}
		return nil
	}
}
