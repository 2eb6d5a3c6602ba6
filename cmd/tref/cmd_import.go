package main

import (
	"bytes"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/dgallion1/tref/internal/importer"
	"github.com/dgallion1/tref/internal/tref"
	"github.com/spf13/cobra"
)

func (a *app) newImportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Convert a document outline to TREF",
		Long: "Convert a document outline to TREF. Supported extensions: " +
			strings.Join(slices.Sorted(maps.Keys(importer.SupportedExtensions)), " "),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.load(cmd, args[0], false)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if _, err := tref.Serialize(f, &buf); err != nil {
				return err
			}
			if output == "" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s -> %s (%d trees, %d nodes)\n",
				styleOK.Render("imported"), args[0], output, f.Len(), nodeCount(f))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write TREF to this file instead of stdout")
	return cmd
}
