package doctree

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dgallion1/tref/internal/forest"
	"gopkg.in/yaml.v3"
)

// DocTree is the nested view of one tree.
type DocTree struct {
	ID   string   `json:"id" yaml:"id"`
	Root *DocNode `json:"root,omitempty" yaml:"root,omitempty"`
}

// DocNode is a recursive node of the nested view.
type DocNode struct {
	Content  string     `json:"content" yaml:"content"`
	Depth    int        `json:"depth" yaml:"depth"`
	Position int        `json:"position" yaml:"position"`
	Children []*DocNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// FromTree builds the nested view of the nodes reachable from the root.
func FromTree[T any](id string, t *forest.Tree[T]) *DocTree {
	view := &DocTree{ID: id}
	byPos := make(map[int]*DocNode)
	for pos, n := range t.PreOrder() {
		node := &DocNode{
			Content:  t.Dialect().Render(n.Content),
			Depth:    n.Depth,
			Position: pos,
		}
		byPos[pos] = node
		parent, ok := n.Parent()
		if !ok {
			view.Root = node
			continue
		}
		// Pre-order visits parents first.
		if p := byPos[parent]; p != nil {
			p.Children = append(p.Children, node)
		}
	}
	return view
}

// FromForest builds views for every tree in forest order.
func FromForest[T any](f *forest.Forest[T]) []*DocTree {
	views := make([]*DocTree, 0, f.Len())
	for id, t := range f.All() {
		views = append(views, FromTree(id, t))
	}
	return views
}

// Format names an encoding of the nested view.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatYAML:
		return Format(s), nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported format %q", s)
}

// ContentType returns the HTTP content type for the format.
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Encode writes views to w in the given format.
func Encode(w io.Writer, format Format, views []*DocTree) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(views); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported format %q", format)
}
