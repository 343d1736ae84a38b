package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli"
)

const serviceName = "DirGuardian"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "dir-guardian"
	app.Usage = "watch a folder and keep timestamped backups of changed files"
	app.UsageText = "dir-guardian [--config FILE] <command>"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "config, c",
			Value:  "config.yaml",
			Usage:  "path to the YAML configuration",
			EnvVar: "DIR_GUARDIAN_CONFIG",
		},
	}
	app.Action = run
	app.Commands = []cli.Command{
		{
			Name:   "run",
			Usage:  "watch and back up until stopped (default)",
			Action: run,
		},
		{
			Name:   "sweep",
			Usage:  "delete backups older than the retention window and exit",
			Action: sweep,
		},
		{
			Name:   "check",
			Usage:  "validate the configuration and exit",
			Action: check,
		},
		{
			Name:   "list",
			Usage:  "list backup artifacts",
			Action: list,
		},
	}
	return app
}

func configPath(c *cli.Context) string {
	if p := c.GlobalString("config"); p != "" {
		return p
	}
	return c.String("config")
}

func run(c *cli.Context) error {
	path := configPath(c)
	if isWindowsService() {
		return runService(serviceName, path)
	}
	if err := runForeground(path); err != nil {
		return cli.NewExitError(fmt.Sprintf("dir-guardian: %v", err), 1)
	}
	return nil
}
