package forest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTree_TraversalOrders(t *testing.T) {
	tree := buildSample(t)

	tests := []struct {
		order Order
		want  []string
	}{
		{OrderSequential, []string{"root_node", "node_1", "node_2", "node_3", "node_3_1", "node_1_1", "node_1_2"}},
		{OrderSequentialReverse, []string{"node_1_2", "node_1_1", "node_3_1", "node_3", "node_2", "node_1", "root_node"}},
		{OrderBFS, []string{"root_node", "node_1", "node_2", "node_3", "node_1_1", "node_1_2", "node_3_1"}},
		{OrderBFSReverse, []string{"node_1_1", "node_1_2", "node_3_1", "node_1", "node_2", "node_3", "root_node"}},
		{OrderPreOrder, []string{"root_node", "node_1", "node_1_1", "node_1_2", "node_2", "node_3", "node_3_1"}},
		{OrderPreOrderReverse, []string{"root_node", "node_3", "node_3_1", "node_2", "node_1", "node_1_2", "node_1_1"}},
		{OrderPostOrder, []string{"node_1_1", "node_1_2", "node_1", "node_2", "node_3_1", "node_3", "root_node"}},
		{OrderPostOrderReverse, []string{"node_3_1", "node_3", "node_2", "node_1_2", "node_1_1", "node_1", "root_node"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			seq, err := tree.Walk(tt.order)
			require.NoError(t, err)
			assert.Equal(t, tt.want, contents(tree, seq))
		})
	}
}

func TestTree_WalkUnknownOrder(t *testing.T) {
	tree := buildSample(t)
	_, err := tree.Walk("sideways")
	assert.Error(t, err)

	_, err = ParseOrder("sideways")
	assert.Error(t, err)
	o, err := ParseOrder("post-order")
	require.NoError(t, err)
	assert.Equal(t, OrderPostOrder, o)
}

func TestTree_EmptyTreeTraversals(t *testing.T) {
	tree := NewTree[string](SimpleDialect{})
	for _, o := range Orders() {
		seq, err := tree.Walk(o)
		require.NoError(t, err)
		assert.Empty(t, contents(tree, seq), "order %s", o)
	}
}

func TestTree_LevelIndexMatchesQueue(t *testing.T) {
	tree := buildSample(t)
	queued := contents(tree, tree.BFS())
	queuedReverse := contents(tree, tree.BFSReverse())

	idx := tree.RebuildLevels()
	require.Equal(t, 3, idx.Len())
	level, ok := idx.Level(3)
	require.True(t, ok)
	assert.Equal(t, []int{5, 6, 4}, level.Positions)

	assert.Equal(t, queued, contents(tree, tree.BFS()))
	assert.Equal(t, queuedReverse, contents(tree, tree.BFSReverse()))
}

func TestTree_BFSPrefersLevelIndex(t *testing.T) {
	tree := buildSample(t)

	// A deliberately partial index shows which strategy ran.
	idx := &LevelIndex{}
	require.NoError(t, idx.Add(1, 0))
	require.NoError(t, idx.Add(2, 3))
	tree.SetLevels(idx)

	assert.Equal(t, []string{"root_node", "node_3"}, contents(tree, tree.BFS()))
	assert.Equal(t, []string{"node_3", "root_node"}, contents(tree, tree.BFSReverse()))
}

func TestTree_MutationDropsLevelIndex(t *testing.T) {
	tree := buildSample(t)
	tree.RebuildLevels()

	_, err := tree.Link("node_2_1", 2)
	require.NoError(t, err)
	_, ok := tree.Levels()
	assert.False(t, ok)

	tree.RebuildLevels()
	require.NoError(t, tree.Unlink(2))
	_, ok = tree.Levels()
	assert.False(t, ok)

	// Queue fallback sees the current structure.
	assert.Equal(t, []string{"root_node", "node_1", "node_3", "node_1_1", "node_1_2", "node_3_1"}, contents(tree, tree.BFS()))
}

func TestTree_StaleIndexStopsQuietly(t *testing.T) {
	tree := buildSample(t)
	idx := &LevelIndex{}
	require.NoError(t, idx.Add(1, 0))
	require.NoError(t, idx.Add(2, 40))
	require.NoError(t, idx.Add(2, 1))
	tree.SetLevels(idx)

	assert.Equal(t, []string{"root_node"}, contents(tree, tree.BFS()))
}

func TestTree_TraversalStopsEarly(t *testing.T) {
	tree := buildSample(t)
	for _, o := range Orders() {
		seq, err := tree.Walk(o)
		require.NoError(t, err)
		count := 0
		for range seq {
			count++
			if count == 2 {
				break
			}
		}
		assert.Equal(t, 2, count, "order %s", o)
	}
}

func TestTree_PostOrderReverseIsReversedPreOrder(t *testing.T) {
	tree := buildSample(t)
	pre := contents(tree, tree.PreOrder())
	post := contents(tree, tree.PostOrderReverse())
	for i := range pre {
		assert.Equal(t, pre[i], post[len(post)-1-i])
	}
}

func TestLevelIndex_Add(t *testing.T) {
	idx := &LevelIndex{}
	assert.Error(t, idx.Add(2, 1))
	assert.Error(t, idx.Add(0, 1))
	require.NoError(t, idx.Add(1, 0))
	require.NoError(t, idx.Add(2, 1))
	require.NoError(t, idx.Add(2, 2))
	assert.Error(t, idx.Add(4, 3))

	level, ok := idx.Level(2)
	require.True(t, ok)
	assert.Equal(t, Level{Depth: 2, Positions: []int{1, 2}}, level)
	_, ok = idx.Level(3)
	assert.False(t, ok)
}
