package main

import (
	"github.com/dgallion1/tref/internal/doctree"
	"github.com/spf13/cobra"
)

func (a *app) newExportCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Print the nested JSON or YAML view of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := doctree.ParseFormat(format)
			if err != nil {
				return err
			}
			f, err := a.load(cmd, args[0], false)
			if err != nil {
				return err
			}
			return doctree.Encode(cmd.OutOrStdout(), view, doctree.FromForest(f))
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")
	return cmd
}
