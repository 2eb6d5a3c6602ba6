package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/dgallion1/tref/internal/tref"
	"github.com/spf13/cobra"
)

func (a *app) newFmtCommand() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "fmt <file>",
		Short: "Rewrite a TREF document in canonical form",
		Long: "Parse a TREF document and print it back with comments and blank\n" +
			"lines removed and depth markers normalized.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if write && path == stdinName {
				return fmt.Errorf("--write needs a file, not stdin")
			}

			r, err := open(cmd, path)
			if err != nil {
				return err
			}
			f, err := tref.ParseSimple(r, tref.WithLogger(a.logger(cmd)))
			r.Close()
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			var buf bytes.Buffer
			if _, err := tref.Serialize(f, &buf); err != nil {
				return err
			}
			if !write {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}

			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, buf.Bytes(), info.Mode().Perm()); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			a.logger(cmd).Debug("formatted", "file", path, "bytes", buf.Len())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to the file")
	return cmd
}
