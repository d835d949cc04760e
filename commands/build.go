package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"gitlab.com/gitlab-org/buildshaders/common"
	"gitlab.com/gitlab-org/buildshaders/driver"
	"gitlab.com/gitlab-org/buildshaders/helpers/prometheus"
)

//nolint:lll
type BuildCommand struct {
	configOptions

	MetricsFile string `long:"metrics-file" description:"Write Prometheus metrics of the build to this file, in text exposition format"`
}

// buildContext is cancelled on SIGINT or SIGTERM, and after the configured
// timeout.
func buildContext(config *common.BuildConfig) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	if config.Timeout <= 0 {
		return ctx, stop
	}

	ctx, cancel := context.WithTimeout(ctx, config.TimeoutDuration())
	return ctx, func() {
		cancel()
		stop()
	}
}

// addLogHook adds hook to the standard logger and returns a function removing
// it again.
func addLogHook(hook logrus.Hook) func() {
	logger := logrus.StandardLogger()

	oldHooks := make(logrus.LevelHooks)
	for level, hooks := range logger.Hooks {
		oldHooks[level] = append([]logrus.Hook(nil), hooks...)
	}

	logger.AddHook(hook)

	return func() {
		logger.ReplaceHooks(oldHooks)
	}
}

func (c *BuildCommand) Execute(cliCtx *cli.Context) {
	logHook := prometheus.NewLogHook()
	if c.MetricsFile != "" {
		defer addLogHook(logHook)()
	}

	collector := prometheus.NewBuildCollector()

	setup, err := c.setup(cliCtx, driver.WithResultHandler(collector.RecordResult))
	if err != nil {
		logrus.WithError(err).Fatalln("Failed to set up the build")
	}

	if err := setup.compiler.Resolve(); err != nil {
		logrus.WithError(err).Fatalln("Shader compiler not found")
	}

	entries, err := setup.walk()
	if err != nil {
		logrus.WithError(err).Fatalln("Failed to walk shader root")
	}

	ctx, cancel := buildContext(setup.config)
	defer cancel()

	logrus.WithField("root", setup.root).Infoln("Building")

	summary, err := setup.driver.Build(ctx, setup.root, entries)
	if err != nil {
		logrus.WithError(err).Fatalln("Failed to prepare the build")
	}

	printSummary(c.output(), summary)

	if c.MetricsFile != "" {
		err := prometheus.WriteTextfile(c.MetricsFile, collector, logHook, common.AppVersion.NewMetricsCollector())
		if err != nil {
			logrus.WithError(err).Errorln("Failed to write metrics")
		}
	}

	if ctx.Err() != nil {
		logrus.WithError(context.Cause(ctx)).Fatalln("Build aborted")
	}

	if err := summary.Err(); err != nil {
		logrus.Fatalln("Build failed:", summary)
	}
}

func init() {
	common.RegisterCommand("build", "Compile all shaders below ROOT (default: shaders)", &BuildCommand{})
}
