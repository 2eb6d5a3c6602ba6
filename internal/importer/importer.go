package importer

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/tref/internal/forest"
	"github.com/dgallion1/tref/internal/tref"
)

// Importer converts raw document bytes into a forest of string trees.
type Importer interface {
	Import(r io.Reader, filename string) (*forest.Forest[string], error)
}

// SupportedExtensions lists file extensions that can be imported.
var SupportedExtensions = map[string]bool{
	".tref":     true,
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate importer for a filename.
func ForFile(filename string) (Importer, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".tref":
		return &TrefImporter{}, nil
	case ".txt":
		return &TextImporter{}, nil
	case ".md", ".markdown":
		return &MarkdownImporter{}, nil
	case ".csv":
		return &CSVImporter{SkipHeader: true}, nil
	case ".html", ".htm":
		return &HTMLImporter{}, nil
	case ".pdf":
		return &PDFImporter{}, nil
	case ".docx":
		return &DOCXImporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// TreeID derives a tree id from a filename: the base name without its
// extension, with characters the header grammar forbids removed.
func TreeID(filename string) string {
	base := filepath.Base(filename)
	id := strings.TrimSuffix(base, filepath.Ext(base))
	id = strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', '\r', '\n':
			return -1
		}
		return r
	}, id)
	if Normalize(id) == "" || id == "." {
		return "document"
	}
	return id
}

// Normalize folds text into a single line usable as node content.
// Leading '+' characters are dropped since node content may not start with
// one. It returns "" when nothing is left.
func Normalize(text string) string {
	s := strings.Join(strings.Fields(text), " ")
	return strings.TrimLeft(s, "+ ")
}

// outline builds one tree from leveled headings. Level 0 is the root;
// a heading nests under the nearest open heading with a lower level.
type outline struct {
	tree  *forest.Tree[string]
	stack tref.NodeStack
}

func newOutline(f *forest.Forest[string], filename, title string) (*outline, error) {
	tree, err := f.NewTree(TreeID(filename))
	if err != nil {
		return nil, err
	}
	if title = Normalize(title); title == "" {
		title = TreeID(filename)
	}
	root, err := tree.SetRoot(title)
	if err != nil {
		return nil, fmt.Errorf("set root: %w", err)
	}
	o := &outline{tree: tree}
	o.stack.Push(0, root)
	return o, nil
}

// add places text at level and returns its position. Empty text is
// skipped and reported with ok false.
func (o *outline) add(level int, text string) (pos int, ok bool, err error) {
	text = Normalize(text)
	if text == "" {
		return 0, false, nil
	}
	if level < 1 {
		level = 1
	}
	parentLevel, parent, found := o.stack.PopParent(level)
	if !found {
		return 0, false, fmt.Errorf("no parent for level %d", level)
	}
	pos, err = o.tree.Link(text, parent)
	if err != nil {
		return 0, false, err
	}
	o.stack.Push(parentLevel, parent)
	o.stack.Push(level, pos)
	return pos, true, nil
}
