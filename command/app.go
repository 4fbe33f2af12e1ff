package command

import (
	"context"

	"github.com/spf13/cobra"
)

type App struct {
	context.Context

	// Global flags.
	ConfigFile string // -c, --config
	Verbosity  int    // -v, --verbosity
}

func (app *App) Register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&app.ConfigFile, "config", "c", "", "Configuration file")
	cobra.CheckErr(cmd.MarkPersistentFlagFilename("config", "cfg", "ini"))

	cmd.PersistentFlags().IntVarP(&app.Verbosity, "verbosity", "v", 0, "Verbosity level (0-3)")
}
