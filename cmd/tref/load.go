package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dgallion1/tref/internal/forest"
	"github.com/dgallion1/tref/internal/importer"
	"github.com/dgallion1/tref/internal/tref"
	"github.com/spf13/cobra"
)

// stdinName selects standard input, read as TREF.
const stdinName = "-"

// open returns the reader for path, or the command's stdin for "-".
func open(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == stdinName {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// load reads path into a forest, importing non-TREF files by extension.
// With levels set every tree carries a fresh level index.
func (a *app) load(cmd *cobra.Command, path string, levels bool) (*forest.Forest[string], error) {
	log := a.logger(cmd).With("file", path)

	r, err := open(cmd, path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	opts := []tref.Option{tref.WithLogger(log)}
	if levels {
		opts = append(opts, tref.WithLevels())
	}
	if path == stdinName {
		return tref.ParseSimple(r, opts...)
	}

	imp, err := importer.ForFile(path)
	if err != nil {
		return nil, err
	}
	if p, ok := imp.(*importer.TrefImporter); ok {
		p.Options = opts
	}
	f, err := imp.Import(r, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if levels {
		for _, t := range f.All() {
			if _, ok := t.Levels(); !ok {
				t.RebuildLevels()
			}
		}
	}
	log.Debug("loaded", "trees", f.Len())
	return f, nil
}

// nodeCount sums the arena sizes of every tree.
func nodeCount[T any](f *forest.Forest[T]) int {
	n := 0
	for _, t := range f.All() {
		n += t.Len()
	}
	return n
}
