package main

import (
	"context"
	"io"
	"os"

	"github.com/AiLing2416/deblang-switch/command"
	"github.com/AiLing2416/deblang-switch/command/setlocale"
	"github.com/AiLing2416/deblang-switch/config"
	"github.com/AiLing2416/deblang-switch/utils/display"
	"github.com/spf13/cobra"
)

var runSetLocale = func(app context.Context, in io.Reader) error { return setlocale.Run(app, in) }

func NewCommand(app *command.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "deblang-switch",
		Short:         "Switch the system locale of a Debian-family host",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if err := config.Manager().TryLoadConfigFile(app.ConfigFile); err != nil {
				return err
			}
			display.Setup()
			return display.SetVerbosity(app.Verbosity)
		},
		RunE: func(*cobra.Command, []string) error {
			return runSetLocale(app, os.Stdin)
		},
	}

	app.Register(cmd)

	return cmd
}
