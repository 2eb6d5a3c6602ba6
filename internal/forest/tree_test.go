package forest

import (
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSample links the programmatic scenario:
//
//	root_node
//	  node_1
//	    node_1_1
//	    node_1_2
//	  node_2
//	  node_3
//	    node_3_1
func buildSample(t *testing.T) *Tree[string] {
	t.Helper()
	tree := NewTree[string](SimpleDialect{})
	root, err := tree.SetRoot("root_node")
	require.NoError(t, err)
	require.Equal(t, 0, root)

	n1 := mustLink(t, tree, "node_1", root)
	mustLink(t, tree, "node_2", root)
	n3 := mustLink(t, tree, "node_3", root)
	mustLink(t, tree, "node_3_1", n3)
	mustLink(t, tree, "node_1_1", n1)
	mustLink(t, tree, "node_1_2", n1)
	return tree
}

func mustLink(t *testing.T, tree *Tree[string], raw string, parent int) int {
	t.Helper()
	pos, err := tree.Link(raw, parent)
	require.NoError(t, err)
	return pos
}

func contents[T any](tree *Tree[T], seq iter.Seq2[int, *Node[T]]) []string {
	var out []string
	for _, n := range seq {
		out = append(out, tree.Dialect().Render(n.Content))
	}
	return out
}

func TestTree_SetRoot(t *testing.T) {
	tree := NewTree[string](SimpleDialect{})
	_, ok := tree.Root()
	assert.False(t, ok)

	pos, err := tree.SetRoot("root")
	require.NoError(t, err)
	assert.Equal(t, 0, pos)

	root, ok := tree.Root()
	require.True(t, ok)
	assert.Equal(t, 1, root.Depth)
	_, hasParent := root.Parent()
	assert.False(t, hasParent)

	_, err = tree.SetRoot("again")
	assert.ErrorIs(t, err, ErrRootExists)
	assert.Equal(t, 1, tree.Len())
}

func TestTree_LinkBookkeeping(t *testing.T) {
	tree := buildSample(t)
	require.Equal(t, 7, tree.Len())

	root, _ := tree.Root()
	assert.Equal(t, []int{1, 2, 3}, root.Children())

	n11, ok := tree.Node(5)
	require.True(t, ok)
	assert.Equal(t, "node_1_1", n11.Content)
	assert.Equal(t, 3, n11.Depth)
	parent, _ := n11.Parent()
	assert.Equal(t, 1, parent)
	slot, _ := n11.Slot()
	assert.Equal(t, 0, slot)

	n12, _ := tree.Node(6)
	slot, _ = n12.Slot()
	assert.Equal(t, 1, slot)
}

func TestTree_LinkErrors(t *testing.T) {
	tree := buildSample(t)

	_, err := tree.Link("x", 42)
	assert.ErrorIs(t, err, ErrPositionOutOfRange)
	_, err = tree.Link("x", -1)
	assert.ErrorIs(t, err, ErrPositionOutOfRange)
	_, err = tree.Link("two\nlines", 0)
	assert.ErrorIs(t, err, ErrContentRejected)
	_, err = tree.Link("+ nested", 0)
	assert.ErrorIs(t, err, ErrContentRejected)
	_, err = tree.Link("+5", 0)
	assert.ErrorIs(t, err, ErrContentRejected)
	_, err = tree.Link(" padded", 0)
	assert.ErrorIs(t, err, ErrContentRejected)

	assert.Equal(t, 7, tree.Len())
	root, _ := tree.Root()
	assert.Len(t, root.Children(), 3)
}

func TestTree_LinkOnEmptyTree(t *testing.T) {
	tree := NewTree[string](SimpleDialect{})
	_, err := tree.Link("orphan", 0)
	assert.ErrorIs(t, err, ErrPositionOutOfRange)
}

func TestTree_KeyValueDialectRejects(t *testing.T) {
	tree := NewTree[Pair](KeyValueDialect{})
	_, err := tree.SetRoot("no separator")
	require.ErrorIs(t, err, ErrContentRejected)
	assert.Equal(t, 0, tree.Len())

	_, err = tree.SetRoot("name = config")
	require.NoError(t, err)
	root, _ := tree.Root()
	assert.Equal(t, Pair{Key: "name", Value: "config"}, root.Content)

	pos, err := tree.Link("port=8080", 0)
	require.NoError(t, err)
	got, _ := tree.Render(pos)
	assert.Equal(t, "port=8080", got)

	_, err = tree.Link("=value", 0)
	assert.ErrorIs(t, err, ErrContentRejected)
}

func TestTree_Unlink(t *testing.T) {
	tree := buildSample(t)

	require.NoError(t, tree.Unlink(1))

	root, _ := tree.Root()
	assert.Equal(t, []int{2, 3}, root.Children())
	for _, pos := range []int{2, 3} {
		n, _ := tree.Node(pos)
		slot, _ := n.Slot()
		assert.Equal(t, pos-2, slot, "slot of %d", pos)
	}
	// Arena slot is retained.
	assert.Equal(t, 7, tree.Len())

	assert.ErrorIs(t, tree.Unlink(1), ErrDetached)
	assert.ErrorIs(t, tree.Unlink(0), ErrUnlinkRoot)
	assert.ErrorIs(t, tree.Unlink(99), ErrPositionOutOfRange)

	// Remaining siblings can still be unlinked after the renumbering.
	require.NoError(t, tree.Unlink(3))
	assert.Equal(t, []int{2}, root.Children())
}

func TestTree_UnlinkHidesSubtree(t *testing.T) {
	tree := buildSample(t)
	require.NoError(t, tree.Unlink(1))

	hidden := map[int]bool{1: true, 5: true, 6: true}
	walks := map[string]iter.Seq2[int, *Node[string]]{
		"bfs":                tree.BFS(),
		"bfs-reverse":        tree.BFSReverse(),
		"pre-order":          tree.PreOrder(),
		"pre-order-reverse":  tree.PreOrderReverse(),
		"post-order":         tree.PostOrder(),
		"post-order-reverse": tree.PostOrderReverse(),
	}
	for name, seq := range walks {
		t.Run(name, func(t *testing.T) {
			count := 0
			for pos := range seq {
				assert.False(t, hidden[pos], "position %d yielded", pos)
				count++
			}
			assert.Equal(t, 4, count)
		})
	}

	_, ok := tree.Find("root_node", "node_1")
	assert.False(t, ok)
	_, ok = tree.Find("root_node", "node_1", "node_1_1")
	assert.False(t, ok)
	_, ok = tree.Path(5)
	assert.False(t, ok)
}

func TestTree_Find(t *testing.T) {
	tree := buildSample(t)

	tests := []struct {
		name string
		path []string
		want int
		ok   bool
	}{
		{"root", []string{"root_node"}, 0, true},
		{"child", []string{"root_node", "node_3"}, 3, true},
		{"grandchild", []string{"root_node", "node_1", "node_1_2"}, 6, true},
		{"wrong root", []string{"other"}, 0, false},
		{"missing leaf", []string{"root_node", "node_2", "x"}, 0, false},
		{"empty path", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tree.Find(tt.path...)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestTree_FindFirstMatchWins(t *testing.T) {
	tree := NewTree[string](SimpleDialect{})
	_, err := tree.SetRoot("r")
	require.NoError(t, err)
	first := mustLink(t, tree, "dup", 0)
	mustLink(t, tree, "dup", 0)

	got, ok := tree.Find("r", "dup")
	require.True(t, ok)
	assert.Equal(t, first, got)
}

func TestTree_Path(t *testing.T) {
	tree := buildSample(t)
	path, ok := tree.Path(6)
	require.True(t, ok)
	assert.Equal(t, []string{"root_node", "node_1", "node_1_2"}, path)

	_, ok = tree.Path(-1)
	assert.False(t, ok)
}
