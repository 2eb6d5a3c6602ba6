package statement

import (
	"strings"
)

// DepthMarker is repeated once per depth level in front of node content.
const DepthMarker = "+ "

// CommentMarker starts a comment line.
const CommentMarker = "#"

// Kind tags the outcome of classifying one line.
type Kind int

const (
	Invalid Kind = iota
	TreeID
	Node
	Comment
	Blank
)

func (k Kind) String() string {
	switch k {
	case TreeID:
		return "tree-id"
	case Node:
		return "node"
	case Comment:
		return "comment"
	case Blank:
		return "blank"
	}
	return "invalid"
}

// Statement is one classified line. TreeID is set for tree-id lines,
// Content and Depth for node lines.
type Statement struct {
	Kind    Kind
	TreeID  string
	Content string
	Depth   int
}

// Classify turns one line into a Statement. It never fails: lines matching
// none of the grammar rules come back as Invalid.
func Classify(line string) Statement {
	line = strings.TrimSuffix(line, "\r")
	if strings.ContainsAny(line, "\r\n") {
		return Statement{Kind: Invalid}
	}

	if content, depth, ok := splitNode(line); ok {
		return Statement{Kind: Node, Content: content, Depth: depth}
	}
	if id, ok := splitTreeID(line); ok {
		return Statement{Kind: TreeID, TreeID: id}
	}
	if strings.HasPrefix(line, CommentMarker) {
		return Statement{Kind: Comment}
	}
	if strings.TrimSpace(line) == "" {
		return Statement{Kind: Blank}
	}
	return Statement{Kind: Invalid}
}

// splitNode counts leading depth markers. At least one marker is required,
// followed by content that does not start with a marker character.
func splitNode(line string) (string, int, bool) {
	depth := 0
	rest := line
	for strings.HasPrefix(rest, DepthMarker) {
		rest = rest[len(DepthMarker):]
		depth++
	}
	if depth == 0 || !startsContent(rest) {
		return "", 0, false
	}
	return rest, depth, true
}

// startsContent reports whether s is non-empty and its first byte is
// neither '+' nor ' '.
func startsContent(s string) bool {
	return s != "" && s[0] != '+' && s[0] != ' '
}

func splitTreeID(line string) (string, bool) {
	if len(line) < 3 || line[0] != '[' || line[len(line)-1] != ']' {
		return "", false
	}
	id := line[1 : len(line)-1]
	if strings.ContainsAny(id, "[]") {
		return "", false
	}
	return id, true
}

// FormatTreeID renders a tree-id line without a trailing newline.
func FormatTreeID(id string) string {
	return "[" + id + "]"
}

// FormatNode renders a node line: depth markers followed by content.
func FormatNode(content string, depth int) string {
	return strings.Repeat(DepthMarker, depth) + content
}

// ValidContent reports whether content survives a FormatNode/Classify round
// trip unchanged at any depth.
func ValidContent(content string) bool {
	if !startsContent(content) {
		return false
	}
	return !strings.ContainsAny(content, "\r\n")
}
