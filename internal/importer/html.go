package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/tref/internal/forest"
	"golang.org/x/net/html"
)

// HTMLImporter turns h1..h6 elements into a tree. The <title> element, when
// present, becomes the root.
type HTMLImporter struct{}

func (p *HTMLImporter) Import(r io.Reader, filename string) (*forest.Forest[string], error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	f := forest.NewSimple()
	out, err := newOutline(f, filename, findTitle(doc))
	if err != nil {
		return nil, err
	}

	var walkErr error
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if walkErr != nil {
			return
		}
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				_, _, walkErr = out.add(level, textContent(n))
				return
			}
			switch n.Data {
			case "script", "style", "nav", "footer", "head":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}
	if walkErr != nil {
		return nil, walkErr
	}
	return f, nil
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
