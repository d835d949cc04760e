package main

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"gitlab.com/gitlab-org/buildshaders/common"
	cli_helpers "gitlab.com/gitlab-org/buildshaders/helpers/cli"
	"gitlab.com/gitlab-org/buildshaders/log"

	_ "gitlab.com/gitlab-org/buildshaders/commands"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			// log panics forces exit
			if _, ok := r.(*logrus.Entry); ok {
				os.Exit(1)
			}
			panic(r)
		}
	}()

	app := cli.NewApp()
	app.Name = filepath.Base(os.Args[0])
	app.Usage = "build SPIR-V shaders with glslangValidator"
	app.Version = common.AppVersion.ShortLine()
	cli.VersionPrinter = common.AppVersion.Printer
	app.Commands = common.GetCommands()
	app.CommandNotFound = func(context *cli.Context, command string) {
		logrus.Fatalln("Command", command, "not found.")
	}

	cli_helpers.LogRuntimePlatform(app)
	cli_helpers.WarnOnBool(os.Args)

	log.ConfigureLogging(app)

	// `buildshaders [ROOT] [flags]` runs the build command
	args := cli_helpers.WithDefaultCommand(app, "build", os.Args)

	if err := app.Run(args); err != nil {
		logrus.Fatal(err)
	}
}
