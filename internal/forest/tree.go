package forest

import (
	"fmt"
	"slices"

	"github.com/dgallion1/tref/internal/statement"
)

const noParent = -1

// Node is one arena entry. Relatives are referenced by arena position,
// never by pointer.
type Node[T any] struct {
	Content T
	Depth   int

	parent   int
	slot     int
	children []int
}

// Parent returns the parent's position. The root has no parent.
func (n *Node[T]) Parent() (int, bool) {
	if n.parent == noParent {
		return 0, false
	}
	return n.parent, true
}

// Slot returns the offset of this node inside its parent's children.
func (n *Node[T]) Slot() (int, bool) {
	if n.parent == noParent {
		return 0, false
	}
	return n.slot, true
}

// Children returns the child positions in document order. The slice is
// owned by the tree and must not be modified.
func (n *Node[T]) Children() []int {
	return n.children
}

// Tree is an arena of nodes. Position 0 is the root once one exists.
// Positions are stable: unlinking never renumbers nodes.
//
// A Tree is not safe for concurrent use.
type Tree[T any] struct {
	dialect Dialect[T]
	nodes   []Node[T]
	levels  *LevelIndex
}

// NewTree returns an empty tree using d for node content.
func NewTree[T any](d Dialect[T]) *Tree[T] {
	return &Tree[T]{dialect: d}
}

// Dialect returns the content dialect of the tree.
func (t *Tree[T]) Dialect() Dialect[T] {
	return t.dialect
}

// Len returns the arena size, including unlinked nodes.
func (t *Tree[T]) Len() int {
	return len(t.nodes)
}

// Node returns the node at pos.
func (t *Tree[T]) Node(pos int) (*Node[T], bool) {
	if pos < 0 || pos >= len(t.nodes) {
		return nil, false
	}
	return &t.nodes[pos], true
}

// Root returns the root node, if any.
func (t *Tree[T]) Root() (*Node[T], bool) {
	return t.Node(0)
}

// Render returns the dialect rendering of the node at pos.
func (t *Tree[T]) Render(pos int) (string, bool) {
	n, ok := t.Node(pos)
	if !ok {
		return "", false
	}
	return t.dialect.Render(n.Content), true
}

// SetRoot parses raw and stores it as the root. The tree must be empty.
func (t *Tree[T]) SetRoot(raw string) (int, error) {
	if len(t.nodes) > 0 {
		return 0, ErrRootExists
	}
	content, err := t.parse(raw)
	if err != nil {
		return 0, err
	}
	t.nodes = append(t.nodes, Node[T]{
		Content: content,
		Depth:   1,
		parent:  noParent,
		slot:    noParent,
	})
	t.levels = nil
	return 0, nil
}

// Link parses raw and appends it as the last child of parent. It returns
// the new node's position. On error the tree is unchanged.
func (t *Tree[T]) Link(raw string, parent int) (int, error) {
	if parent < 0 || parent >= len(t.nodes) {
		return 0, fmt.Errorf("link under %d: %w", parent, ErrPositionOutOfRange)
	}
	content, err := t.parse(raw)
	if err != nil {
		return 0, err
	}

	pos := len(t.nodes)
	p := &t.nodes[parent]
	t.nodes = append(t.nodes, Node[T]{
		Content: content,
		Depth:   p.Depth + 1,
		parent:  parent,
		slot:    len(p.children),
	})
	// append may have moved the arena; re-take the parent.
	p = &t.nodes[parent]
	p.children = append(p.children, pos)
	t.levels = nil
	return pos, nil
}

// parse runs raw through the dialect and checks that the rendering can be
// written back as a single node line.
func (t *Tree[T]) parse(raw string) (T, error) {
	content, err := t.dialect.Parse(raw)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %w", ErrContentRejected, err)
	}
	if rendered := t.dialect.Render(content); !statement.ValidContent(rendered) {
		var zero T
		return zero, fmt.Errorf("%w: %q is not representable on one line", ErrContentRejected, rendered)
	}
	return content, nil
}

// Unlink detaches the node at pos from its parent. The arena slot stays
// allocated but is no longer reachable from the root. Later siblings have
// their slots shifted down by one.
func (t *Tree[T]) Unlink(pos int) error {
	if pos < 0 || pos >= len(t.nodes) {
		return fmt.Errorf("unlink %d: %w", pos, ErrPositionOutOfRange)
	}
	if pos == 0 {
		return ErrUnlinkRoot
	}
	n := &t.nodes[pos]
	if n.parent < 0 || n.parent >= len(t.nodes) {
		return fmt.Errorf("unlink %d: %w", pos, ErrDetached)
	}
	p := &t.nodes[n.parent]
	if n.slot < 0 || n.slot >= len(p.children) || p.children[n.slot] != pos {
		return fmt.Errorf("unlink %d: %w", pos, ErrDetached)
	}

	p.children = slices.Delete(p.children, n.slot, n.slot+1)
	for i := n.slot; i < len(p.children); i++ {
		t.nodes[p.children[i]].slot = i
	}
	n.parent = noParent
	n.slot = noParent
	t.levels = nil
	return nil
}

// Find walks from the root matching rendered content against each path
// segment. The first matching child wins.
func (t *Tree[T]) Find(path ...string) (int, bool) {
	if len(path) == 0 || len(t.nodes) == 0 {
		return 0, false
	}
	if t.dialect.Render(t.nodes[0].Content) != path[0] {
		return 0, false
	}
	current := 0
	for _, segment := range path[1:] {
		next, ok := t.findChild(current, segment)
		if !ok {
			return 0, false
		}
		current = next
	}
	return current, true
}

func (t *Tree[T]) findChild(parent int, content string) (int, bool) {
	for _, c := range t.nodes[parent].children {
		if c < 0 || c >= len(t.nodes) {
			continue
		}
		if t.dialect.Render(t.nodes[c].Content) == content {
			return c, true
		}
	}
	return 0, false
}

// Path returns the rendered contents from the root down to pos. It fails
// for positions that are not reachable from the root.
func (t *Tree[T]) Path(pos int) ([]string, bool) {
	if pos < 0 || pos >= len(t.nodes) {
		return nil, false
	}
	var path []string
	for {
		n := &t.nodes[pos]
		path = append(path, t.dialect.Render(n.Content))
		if pos == 0 {
			break
		}
		if n.parent == noParent {
			return nil, false
		}
		pos = n.parent
	}
	slices.Reverse(path)
	return path, true
}

// Levels returns the tree's level index, if one is attached.
func (t *Tree[T]) Levels() (*LevelIndex, bool) {
	return t.levels, t.levels != nil
}

// SetLevels attaches a level index. The caller vouches that idx matches
// the current structure; any later Link or Unlink drops it again.
func (t *Tree[T]) SetLevels(idx *LevelIndex) {
	t.levels = idx
}

// RebuildLevels recomputes the level index from the nodes reachable from
// the root and attaches it.
func (t *Tree[T]) RebuildLevels() *LevelIndex {
	idx := &LevelIndex{}
	for pos, n := range t.bfsQueue() {
		// Depths of reachable nodes are contiguous, so Add cannot fail.
		_ = idx.Add(n.Depth, pos)
	}
	t.levels = idx
	return idx
}
