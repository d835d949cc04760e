package commands

import (
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"gitlab.com/gitlab-org/buildshaders/common"
)

type ListCommand struct {
	configOptions
}

func (c *ListCommand) Execute(cliCtx *cli.Context) {
	setup, err := c.setup(cliCtx)
	if err != nil {
		logrus.WithError(err).Fatalln("Failed to set up")
	}

	entries, err := setup.walk()
	if err != nil {
		logrus.WithError(err).Fatalln("Failed to walk shader root")
	}

	jobs, err := setup.driver.Plan(setup.root, entries)
	if err != nil {
		logrus.WithError(err).Fatalln("Failed to plan jobs")
	}

	printPlan(c.output(), jobs)
}

func init() {
	common.RegisterCommand("list", "List the shaders below ROOT and their outputs without compiling", &ListCommand{})
}
