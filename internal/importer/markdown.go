package importer

import (
	"fmt"
	"io"

	"github.com/dgallion1/tref/internal/forest"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownImporter turns ATX and setext headings into a tree. Paragraphs
// and other blocks are not imported.
type MarkdownImporter struct{}

func (p *MarkdownImporter) Import(r io.Reader, filename string) (*forest.Forest[string], error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	f := forest.NewSimple()
	out, err := newOutline(f, filename, TreeID(filename))
	if err != nil {
		return nil, err
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		heading, ok := n.(*ast.Heading)
		if !ok {
			continue
		}
		if _, _, err := out.add(heading.Level, inlineText(heading, src)); err != nil {
			return nil, fmt.Errorf("heading %q: %w", inlineText(heading, src), err)
		}
	}
	return f, nil
}

// inlineText collects the text segments below n.
func inlineText(n ast.Node, src []byte) string {
	var buf []byte
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf = append(buf, t.Value(src)...)
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf = append(buf, ' ')
			}
			continue
		}
		buf = append(buf, inlineText(c, src)...)
	}
	return string(buf)
}
