package importer

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dgallion1/tref/internal/forest"
)

// CSVImporter reads each row as a path below the root: the first cell is
// a child of the root, the second a child of the first, and so on. Rows
// sharing a prefix share the nodes for it. An empty cell ends the row.
type CSVImporter struct {
	SkipHeader bool
}

func (p *CSVImporter) Import(r io.Reader, filename string) (*forest.Forest[string], error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if p.SkipHeader && len(records) > 0 {
		records = records[1:]
	}

	f := forest.NewSimple()
	tree, err := f.NewTree(TreeID(filename))
	if err != nil {
		return nil, err
	}
	rootTitle := Normalize(TreeID(filename))
	if _, err := tree.SetRoot(rootTitle); err != nil {
		return nil, err
	}

	for i, row := range records {
		path := []string{rootTitle}
		parent := 0
		for _, cell := range row {
			cell = Normalize(cell)
			if cell == "" {
				break
			}
			path = append(path, cell)
			if pos, ok := tree.Find(path...); ok {
				parent = pos
				continue
			}
			pos, err := tree.Link(cell, parent)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i+1, err)
			}
			parent = pos
		}
	}
	return f, nil
}
