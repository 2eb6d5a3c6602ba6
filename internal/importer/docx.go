package importer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dgallion1/tref/internal/forest"
	"github.com/fumiama/go-docx"
)

// DOCXImporter turns paragraphs styled Heading1..Heading6 into a tree.
type DOCXImporter struct{}

func (p *DOCXImporter) Import(r io.Reader, filename string) (*forest.Forest[string], error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "tref-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	f := forest.NewSimple()
	out, err := newOutline(f, filename, TreeID(filename))
	if err != nil {
		return nil, err
	}
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		level := docxHeadingLevel(para)
		if level == 0 {
			continue
		}
		if _, _, err := out.add(level, docxParagraphText(para)); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if len(style) == len("heading1") && strings.HasPrefix(style, "heading") {
		if d := style[len(style)-1]; d >= '1' && d <= '6' {
			return int(d - '0')
		}
	}
	return 0
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
