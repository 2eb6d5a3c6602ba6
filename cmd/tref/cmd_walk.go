package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dgallion1/tref/internal/forest"
	"github.com/spf13/cobra"
)

func (a *app) newWalkCommand() *cobra.Command {
	var (
		order  string
		treeID string
		levels bool
	)

	cmd := &cobra.Command{
		Use:   "walk <file>",
		Short: "Print the nodes of each tree in a traversal order",
		Long: "Print the nodes of each tree in a traversal order, indented by depth.\n\n" +
			"Orders: " + orderList(),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := forest.ParseOrder(order)
			if err != nil {
				return err
			}
			f, err := a.load(cmd, args[0], levels)
			if err != nil {
				return err
			}
			if treeID != "" {
				if _, ok := f.Tree(treeID); !ok {
					return fmt.Errorf("%s: %w", treeID, forest.ErrTreeNotFound)
				}
			}

			out := cmd.OutOrStdout()
			for id, t := range f.All() {
				if treeID != "" && id != treeID {
					continue
				}
				header := styleTree.Render("[" + id + "]")
				if idx, ok := t.Levels(); ok {
					header += stylePos.Render(fmt.Sprintf(" %d levels", idx.Len()))
				}
				fmt.Fprintln(out, header)

				seq, err := t.Walk(o)
				if err != nil {
					return err
				}
				for pos, n := range seq {
					fmt.Fprintf(out, "%s%s %s\n",
						strings.Repeat("  ", n.Depth),
						stylePos.Render("#"+strconv.Itoa(pos)),
						t.Dialect().Render(n.Content))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&order, "order", "o", string(forest.OrderPreOrder), "traversal order")
	cmd.Flags().StringVarP(&treeID, "tree", "t", "", "only walk this tree")
	cmd.Flags().BoolVar(&levels, "levels", false, "build the level index before walking")
	return cmd
}

func orderList() string {
	names := make([]string, 0, len(forest.Orders()))
	for _, o := range forest.Orders() {
		names = append(names, string(o))
	}
	return strings.Join(names, ", ")
}
