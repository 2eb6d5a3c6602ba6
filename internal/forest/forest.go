package forest

import (
	"fmt"
	"iter"
	"slices"

	"github.com/dgallion1/tref/internal/statement"
)

// Forest maps tree ids to trees. Iteration follows the order in which trees
// were added.
//
// A Forest is not safe for concurrent use.
type Forest[T any] struct {
	dialect Dialect[T]
	trees   map[string]*Tree[T]
	order   []string
}

// New returns an empty forest whose trees use d for node content.
func New[T any](d Dialect[T]) *Forest[T] {
	return &Forest[T]{
		dialect: d,
		trees:   make(map[string]*Tree[T]),
	}
}

// NewSimple returns an empty forest of plain string content.
func NewSimple() *Forest[string] {
	return New[string](SimpleDialect{})
}

// Dialect returns the content dialect shared by the forest's trees.
func (f *Forest[T]) Dialect() Dialect[T] {
	return f.dialect
}

// NewTree registers an empty tree under id.
func (f *Forest[T]) NewTree(id string) (*Tree[T], error) {
	if st := statement.Classify(statement.FormatTreeID(id)); st.Kind != statement.TreeID || st.TreeID != id {
		return nil, fmt.Errorf("invalid tree id %q", id)
	}
	if _, ok := f.trees[id]; ok {
		return nil, fmt.Errorf("%s: %w", id, ErrTreeExists)
	}
	t := NewTree(f.dialect)
	f.trees[id] = t
	f.order = append(f.order, id)
	return t, nil
}

// Tree returns the tree registered under id.
func (f *Forest[T]) Tree(id string) (*Tree[T], bool) {
	t, ok := f.trees[id]
	return t, ok
}

// Len returns the number of trees.
func (f *Forest[T]) Len() int {
	return len(f.order)
}

// IDs returns the tree ids in insertion order.
func (f *Forest[T]) IDs() []string {
	return slices.Clone(f.order)
}

// All yields every tree with its id, in insertion order.
func (f *Forest[T]) All() iter.Seq2[string, *Tree[T]] {
	return func(yield func(string, *Tree[T]) bool) {
		for _, id := range f.order {
			if !yield(id, f.trees[id]) {
				return
			}
		}
	}
}

// RemoveTree drops the tree registered under id.
func (f *Forest[T]) RemoveTree(id string) error {
	if _, ok := f.trees[id]; !ok {
		return fmt.Errorf("%s: %w", id, ErrTreeNotFound)
	}
	delete(f.trees, id)
	f.order = slices.DeleteFunc(f.order, func(s string) bool { return s == id })
	return nil
}

// Levels returns the level index of the tree under id, if it has one.
func (f *Forest[T]) Levels(id string) (*LevelIndex, bool) {
	t, ok := f.trees[id]
	if !ok {
		return nil, false
	}
	return t.Levels()
}

func (f *Forest[T]) lookup(id string) (*Tree[T], error) {
	t, ok := f.trees[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrTreeNotFound)
	}
	return t, nil
}

// SetRoot sets the root of the tree under id.
func (f *Forest[T]) SetRoot(id, raw string) (int, error) {
	t, err := f.lookup(id)
	if err != nil {
		return 0, err
	}
	return t.SetRoot(raw)
}

// Link appends raw as the last child of parent in the tree under id.
func (f *Forest[T]) Link(id string, parent int, raw string) (int, error) {
	t, err := f.lookup(id)
	if err != nil {
		return 0, err
	}
	return t.Link(raw, parent)
}

// Unlink detaches pos from its parent in the tree under id.
func (f *Forest[T]) Unlink(id string, pos int) error {
	t, err := f.lookup(id)
	if err != nil {
		return err
	}
	return t.Unlink(pos)
}

// Find resolves a content path in the tree under id.
func (f *Forest[T]) Find(id string, path ...string) (int, error) {
	t, err := f.lookup(id)
	if err != nil {
		return 0, err
	}
	pos, ok := t.Find(path...)
	if !ok {
		return 0, ErrNotFound
	}
	return pos, nil
}
