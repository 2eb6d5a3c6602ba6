package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

const appName = "tref"

// app holds state shared by every subcommand.
type app struct {
	verbose bool
}

func main() {
	root := newRootCommand()
	root.SilenceErrors = true
	root.SilenceUsage = true

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   appName,
		Short: "Check and convert TREF labeled-tree documents",
		Long: appName + " reads TREF forests (and imports Markdown, HTML, text, CSV,\n" +
			"DOCX and PDF outlines) and prints, checks or converts them.",
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(a.newCheckCommand())
	root.AddCommand(a.newFmtCommand())
	root.AddCommand(a.newWalkCommand())
	root.AddCommand(a.newFindCommand())
	root.AddCommand(a.newImportCommand())
	root.AddCommand(a.newExportCommand())
	root.AddCommand(a.newWatchCommand())
	return root
}

// logger writes text records to the command's stderr. Only warnings are
// shown unless --verbose is set.
func (a *app) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
