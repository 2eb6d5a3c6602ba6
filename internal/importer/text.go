package importer

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/tref/internal/forest"
)

// TextImporter reads an indented outline. Each tab or pair of spaces of
// indentation nests a line one level deeper; unindented lines hang off the
// root, which is named after the file. Blank lines are skipped.
type TextImporter struct{}

func (p *TextImporter) Import(r io.Reader, filename string) (*forest.Forest[string], error) {
	f := forest.NewSimple()
	out, err := newOutline(f, filename, TreeID(filename))
	if err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if _, _, err := out.add(indentLevel(line)+1, line); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return f, nil
}

// indentLevel counts leading tabs and space pairs.
func indentLevel(line string) int {
	level, spaces := 0, 0
	for _, r := range line {
		switch r {
		case '\t':
			level++
			spaces = 0
		case ' ':
			spaces++
			if spaces == 2 {
				level++
				spaces = 0
			}
		default:
			return level
		}
	}
	return level
}
