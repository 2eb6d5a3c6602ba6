package tref

import (
	"bufio"
	"errors"
	"io"
	"log/slog"

	"github.com/dgallion1/tref/internal/forest"
	"github.com/dgallion1/tref/internal/statement"
)

// MaxLineSize bounds a single line of input.
const MaxLineSize = 1 << 20

// Option configures Parse.
type Option func(*options)

type options struct {
	levels bool
	logger *slog.Logger
}

// WithLevels builds a level index for every tree while parsing.
func WithLevels() Option {
	return func(o *options) { o.levels = true }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Parse reads a TREF document into a new forest. Content is handed to d.
// The first failure aborts the parse; no partial forest is returned.
func Parse[T any](r io.Reader, d forest.Dialect[T], opts ...Option) (*forest.Forest[T], error) {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	p := &parser[T]{
		forest: forest.New(d),
		opts:   o,
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		if err := p.statement(line, statement.Classify(scanner.Text())); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Line: line + 1, Message: "could not read line", Err: err}
	}
	p.commitLevels()

	o.logger.Debug("parsed forest", "lines", line, "trees", p.forest.Len())
	return p.forest, nil
}

// ParseSimple parses with plain string content.
func ParseSimple(r io.Reader, opts ...Option) (*forest.Forest[string], error) {
	return Parse[string](r, forest.SimpleDialect{}, opts...)
}

type parser[T any] struct {
	forest *forest.Forest[T]
	opts   options

	tree      *forest.Tree[T]
	stack     NodeStack
	prevDepth int
	levels    *forest.LevelIndex
}

func (p *parser[T]) statement(line int, st statement.Statement) error {
	switch st.Kind {
	case statement.Invalid:
		return &ParseError{Line: line, Message: "invalid statement"}
	case statement.TreeID:
		return p.header(line, st.TreeID)
	case statement.Node:
		return p.node(line, st.Content, st.Depth)
	}
	return nil
}

func (p *parser[T]) header(line int, id string) error {
	p.commitLevels()

	tree, err := p.forest.NewTree(id)
	if err != nil {
		if errors.Is(err, forest.ErrTreeExists) {
			return &ParseError{Line: line, Message: "duplicate tree id", Err: err}
		}
		return &ParseError{Line: line, Message: "invalid tree id", Err: err}
	}
	p.tree = tree
	p.stack.Reset()
	p.prevDepth = 0
	if p.opts.levels {
		p.levels = &forest.LevelIndex{}
	}
	p.opts.logger.Debug("tree declared", "tree", id, "line", line)
	return nil
}

func (p *parser[T]) node(line int, content string, depth int) error {
	if depth > p.prevDepth+1 {
		return &ParseError{Line: line, Message: "invalid node depth"}
	}

	var pos int
	if depth == 1 {
		if p.stack.Len() > 0 {
			return &ParseError{Line: line, Message: "multiple root nodes in the same tree"}
		}
		if p.tree == nil {
			return &ParseError{Line: line, Message: "root node without a tree id"}
		}
		root, err := p.tree.SetRoot(content)
		if err != nil {
			return &ParseError{Line: line, Message: "root node content rejected", Err: err}
		}
		pos = root
	} else {
		parentDepth, parent, ok := p.stack.PopParent(depth)
		if !ok || p.tree == nil {
			return &ParseError{Line: line, Message: "could not find a parent node"}
		}
		child, err := p.tree.Link(content, parent)
		if err != nil {
			return &ParseError{Line: line, Message: "node content rejected", Err: err}
		}
		p.stack.Push(parentDepth, parent)
		pos = child
	}
	p.stack.Push(depth, pos)
	p.prevDepth = depth

	if p.levels != nil {
		if err := p.levels.Add(depth, pos); err != nil {
			return &ParseError{Line: line, Message: "invalid node depth", Err: err}
		}
	}
	return nil
}

// commitLevels attaches the index built for the current tree. Link drops
// any attached index, so this runs only once the tree is complete.
func (p *parser[T]) commitLevels() {
	if p.tree != nil && p.levels != nil {
		p.tree.SetLevels(p.levels)
	}
	p.levels = nil
}
