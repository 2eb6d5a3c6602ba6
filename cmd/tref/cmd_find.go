package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) newFindCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "find <file> <tree> <content>...",
		Short: "Print the position of the node at a content path",
		Long: "Resolve a path of node contents, starting at the root, and print\n" +
			"the position of the node it names.",
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.load(cmd, args[0], false)
			if err != nil {
				return err
			}
			path := args[2:]
			pos, err := f.Find(args[1], path...)
			if err != nil {
				return fmt.Errorf("%s: %s: %w", args[1], strings.Join(path, " / "), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), pos)
			return nil
		},
	}
}
