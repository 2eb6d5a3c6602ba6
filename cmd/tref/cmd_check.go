package main

import (
	"fmt"

	"github.com/dgallion1/tref/internal/forest"
	"github.com/dgallion1/tref/internal/tref"
	"github.com/spf13/cobra"
)

func (a *app) newCheckCommand() *cobra.Command {
	var dialect string

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Validate TREF documents",
		Long: "Validate TREF documents. Use - to read standard input.\n\n" +
			"With --dialect kv every node must hold a key=value pair.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dialect != "simple" && dialect != "kv" {
				return fmt.Errorf("unknown dialect %q (want simple or kv)", dialect)
			}
			failed := 0
			for _, path := range args {
				if !a.check(cmd, path, dialect) {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dialect, "dialect", "simple", "node content dialect: simple or kv")
	return cmd
}

// check parses one file and prints a status line. It reports success.
func (a *app) check(cmd *cobra.Command, path, dialect string) bool {
	out := cmd.OutOrStdout()
	trees, nodes, err := a.parseCounts(cmd, path, dialect)
	if err != nil {
		fmt.Fprintf(out, "%s %s: %v\n", styleErr.Render("FAIL"), path, err)
		return false
	}
	fmt.Fprintf(out, "%s %s (%d trees, %d nodes)\n", styleOK.Render("ok"), path, trees, nodes)
	return true
}

func (a *app) parseCounts(cmd *cobra.Command, path, dialect string) (trees, nodes int, err error) {
	r, err := open(cmd, path)
	if err != nil {
		return 0, 0, err
	}
	defer r.Close()

	log := a.logger(cmd).With("file", path)
	if dialect == "kv" {
		f, err := tref.Parse[forest.Pair](r, forest.KeyValueDialect{}, tref.WithLogger(log))
		if err != nil {
			return 0, 0, err
		}
		return f.Len(), nodeCount(f), nil
	}
	f, err := tref.ParseSimple(r, tref.WithLogger(log))
	if err != nil {
		return 0, 0, err
	}
	return f.Len(), nodeCount(f), nil
}
