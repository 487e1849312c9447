package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/dutchcoders/log4shell-scanner/app"
	"github.com/dutchcoders/log4shell-scanner/build"
	"github.com/fatih/color"
	logging "github.com/op/go-logging"

	cli "github.com/urfave/cli/v2"
)

var log = logging.MustGetLogger("log4shell/cmd")

var globalFlags = []cli.Flag{
	&cli.StringSliceFlag{
		Name:  "exclude",
		Usage: "exclude the following file paths (glob)",
		Value: cli.NewStringSlice(),
	},
	&cli.StringSliceFlag{
		Name:  "allow",
		Usage: "extra known-good md5 hashes",
		Value: cli.NewStringSlice(),
	},
	&cli.StringFlag{
		Name:  "logfile",
		Usage: "output to following file path (string)",
		Value: "./log4shell.log",
	},
	&cli.StringFlag{
		Name:  "config",
		Usage: "scan profile (yaml) with filenames, extensions, excludes and allows",
	},
	&cli.IntFlag{
		Name:  "max-depth",
		Usage: "maximum archive nesting depth",
		Value: 32,
	},
	&cli.BoolFlag{
		Name:  "disable-color",
		Usage: "disable color output",
	},
	&cli.BoolFlag{
		Name:  "verbose",
		Usage: "enable verbose mode",
	},
	&cli.BoolFlag{
		Name:  "debug",
		Usage: "enable debug mode",
	},
}

type Cmd struct {
	*cli.App
}

func ScanAction(c *cli.Context) error {
	options := []app.OptionFn{}

	if !c.Bool("debug") {
	} else if fn, err := app.Debug(); err != nil {
	} else {
		options = append(options, fn)
	}

	if !c.Bool("verbose") {
	} else if fn, err := app.Verbose(); err != nil {
	} else {
		options = append(options, fn)
	}

	if !c.Bool("disable-color") {
	} else if fn, err := app.DisableColor(); err != nil {
	} else {
		options = append(options, fn)
	}

	if profile := c.String("config"); len(profile) == 0 {
	} else if fn, err := app.ProfileFile(profile); err != nil {
		ec := cli.NewExitError(color.RedString("[!] Could not load profile: %s", err.Error()), 1)
		return ec
	} else {
		options = append(options, fn)
	}

	if exclude := c.StringSlice("exclude"); len(exclude) == 0 {
	} else if fn, err := app.ExcludeList(exclude); err != nil {
		ec := cli.NewExitError(color.RedString("[!] Could not set exclude list: %s", err.Error()), 1)
		return ec
	} else {
		options = append(options, fn)
	}

	if allowList := c.StringSlice("allow"); len(allowList) == 0 {
	} else if fn, err := app.AllowList(allowList); err != nil {
		ec := cli.NewExitError(color.RedString("[!] Could not set allow list: %s", err.Error()), 1)
		return ec
	} else {
		options = append(options, fn)
	}

	if logfile := c.String("logfile"); len(logfile) == 0 {
	} else if fn, err := app.LogFile(logfile); err != nil {
		ec := cli.NewExitError(color.RedString("[!] Could not set logfile: %s", err.Error()), 1)
		return ec
	} else {
		options = append(options, fn)
	}

	if fn, err := app.MaxDepth(c.Int("max-depth")); err != nil {
		ec := cli.NewExitError(color.RedString("[!] Could not set max depth: %s", err.Error()), 1)
		return ec
	} else {
		options = append(options, fn)
	}

	if args := c.Args(); !args.Present() {
	} else if fn, err := app.TargetPaths(args.Slice()); err != nil {
		ec := cli.NewExitError(color.RedString("[!] Could not set paths: %s", err.Error()), 1)
		return ec
	} else {
		options = append(options, fn)
	}

	b, err := app.New(options...)
	if err != nil {
		ec := cli.NewExitError(color.RedString("[!] Error: %s", err.Error()), 1)
		return ec
	}

	if err := b.Scan(c); errors.Is(err, app.ErrAborted) {
		return cli.NewExitError("", 130)
	} else if err != nil {
		ec := cli.NewExitError(color.RedString("[!] Error during scan: %s", err.Error()), 1)
		return ec
	}

	return nil
}

func New() *Cmd {
	app := cli.NewApp()
	app.Name = "log4shell-scanner"
	app.Description = `This application will scan the filesystem recursively, both on disk and through nested java archives, to detect JndiManager.class files vulnerable to Log4Shell (CVE-2021-44228).`
	app.ArgsUsage = "[PATH...]"
	app.Flags = globalFlags
	app.Commands = []*cli.Command{
		{
			Name:   "scan",
			Action: ScanAction,
		},
	}

	app.Version = fmt.Sprintf("%s (build on %s)", build.ReleaseTag, build.BuildDate)
	app.Before = func(c *cli.Context) error {
		fmt.Println("log4shell-scanner")
		fmt.Println("http://github.com/dutchcoders/log4shell-scanner")
		fmt.Println("--------------------------------------")

		backend := logging.NewLogBackend(os.Stderr, "", 0)
		formatter := logging.NewBackendFormatter(backend, logging.MustStringFormatter(
			`%{time:2006-01-02 15:04:05.000} %{level:.4s} %{module} %{message}`,
		))

		leveled := logging.AddModuleLevel(formatter)
		leveled.SetLevel(logging.ERROR, "")

		logging.SetBackend(leveled)

		return nil
	}

	app.Action = ScanAction
	return &Cmd{
		App: app,
	}
}
