package forest

import (
	"fmt"
	"iter"
)

// Order names one of the traversal sequences of a tree.
type Order string

const (
	OrderSequential        Order = "sequential"
	OrderSequentialReverse Order = "sequential-reverse"
	OrderBFS               Order = "bfs"
	OrderBFSReverse        Order = "bfs-reverse"
	OrderPreOrder          Order = "pre-order"
	OrderPreOrderReverse   Order = "pre-order-reverse"
	OrderPostOrder         Order = "post-order"
	OrderPostOrderReverse  Order = "post-order-reverse"
)

// Orders lists every supported traversal order.
func Orders() []Order {
	return []Order{
		OrderSequential, OrderSequentialReverse,
		OrderBFS, OrderBFSReverse,
		OrderPreOrder, OrderPreOrderReverse,
		OrderPostOrder, OrderPostOrderReverse,
	}
}

// ParseOrder validates an order name.
func ParseOrder(s string) (Order, error) {
	for _, o := range Orders() {
		if string(o) == s {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown traversal order %q", s)
}

// Walk returns the traversal for o.
func (t *Tree[T]) Walk(o Order) (iter.Seq2[int, *Node[T]], error) {
	switch o {
	case OrderSequential:
		return t.Sequential(), nil
	case OrderSequentialReverse:
		return t.SequentialReverse(), nil
	case OrderBFS:
		return t.BFS(), nil
	case OrderBFSReverse:
		return t.BFSReverse(), nil
	case OrderPreOrder:
		return t.PreOrder(), nil
	case OrderPreOrderReverse:
		return t.PreOrderReverse(), nil
	case OrderPostOrder:
		return t.PostOrder(), nil
	case OrderPostOrderReverse:
		return t.PostOrderReverse(), nil
	}
	return nil, fmt.Errorf("unknown traversal order %q", o)
}

// All traversals yield (position, node) pairs, never mutate the tree and
// stop quietly when they meet a position outside the arena. Mutating the
// tree while a traversal is in progress is not supported.

// Sequential yields nodes in arena order, ignoring structure. Unlinked
// nodes are included.
func (t *Tree[T]) Sequential() iter.Seq2[int, *Node[T]] {
	return t.sequential(false)
}

// SequentialReverse yields nodes in reverse arena order.
func (t *Tree[T]) SequentialReverse() iter.Seq2[int, *Node[T]] {
	return t.sequential(true)
}

// BFS yields nodes level by level, left to right. The level index is used
// when attached; otherwise children are discovered through a queue.
func (t *Tree[T]) BFS() iter.Seq2[int, *Node[T]] {
	return t.breadthFirst(false)
}

// BFSReverse yields the deepest level first, each level left to right.
func (t *Tree[T]) BFSReverse() iter.Seq2[int, *Node[T]] {
	return t.breadthFirst(true)
}

// PreOrder yields each node before its children, first child first.
// On a freshly parsed tree this matches Sequential.
func (t *Tree[T]) PreOrder() iter.Seq2[int, *Node[T]] {
	return t.depthFirst(false, false)
}

// PreOrderReverse yields each node before its children, last child first.
func (t *Tree[T]) PreOrderReverse() iter.Seq2[int, *Node[T]] {
	return t.depthFirst(false, true)
}

// PostOrder yields each node after its children, first child first.
func (t *Tree[T]) PostOrder() iter.Seq2[int, *Node[T]] {
	return t.depthFirst(true, false)
}

// PostOrderReverse yields each node after its children, last child first.
func (t *Tree[T]) PostOrderReverse() iter.Seq2[int, *Node[T]] {
	return t.depthFirst(true, true)
}

func (t *Tree[T]) sequential(reverse bool) iter.Seq2[int, *Node[T]] {
	return func(yield func(int, *Node[T]) bool) {
		size := len(t.nodes)
		for i := range size {
			pos := i
			if reverse {
				pos = size - 1 - i
			}
			n, ok := t.Node(pos)
			if !ok || !yield(pos, n) {
				return
			}
		}
	}
}

func (t *Tree[T]) breadthFirst(reverse bool) iter.Seq2[int, *Node[T]] {
	return func(yield func(int, *Node[T]) bool) {
		idx := t.levels
		if idx == nil {
			if !reverse {
				t.bfsQueue()(yield)
				return
			}
			idx = &LevelIndex{}
			for pos, n := range t.bfsQueue() {
				_ = idx.Add(n.Depth, pos)
			}
		}
		t.levelWalk(idx, reverse)(yield)
	}
}

// bfsQueue discovers children through a FIFO queue starting at the root.
func (t *Tree[T]) bfsQueue() iter.Seq2[int, *Node[T]] {
	return func(yield func(int, *Node[T]) bool) {
		if len(t.nodes) == 0 {
			return
		}
		queue := []int{0}
		for head := 0; head < len(queue); head++ {
			pos := queue[head]
			n, ok := t.Node(pos)
			if !ok || !yield(pos, n) {
				return
			}
			queue = append(queue, n.children...)
		}
	}
}

// levelWalk reads positions straight from a level index.
func (t *Tree[T]) levelWalk(idx *LevelIndex, reverse bool) iter.Seq2[int, *Node[T]] {
	return func(yield func(int, *Node[T]) bool) {
		levels := idx.Levels()
		for i := range levels {
			level := levels[i]
			if reverse {
				level = levels[len(levels)-1-i]
			}
			for _, pos := range level.Positions {
				n, ok := t.Node(pos)
				if !ok || !yield(pos, n) {
					return
				}
			}
		}
	}
}

type frame struct {
	pos       int
	scheduled bool
}

// depthFirst walks with an explicit stack. For post-order a node is pushed
// back with scheduled set before its children and yielded when popped
// again. mirror visits the last child first.
func (t *Tree[T]) depthFirst(post, mirror bool) iter.Seq2[int, *Node[T]] {
	return func(yield func(int, *Node[T]) bool) {
		if len(t.nodes) == 0 {
			return
		}
		stack := []frame{{pos: 0}}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			n, ok := t.Node(f.pos)
			if !ok {
				return
			}
			if !post {
				if !yield(f.pos, n) {
					return
				}
				stack = pushChildren(stack, n.children, mirror)
				continue
			}
			if f.scheduled || len(n.children) == 0 {
				if !yield(f.pos, n) {
					return
				}
				continue
			}
			stack = append(stack, frame{pos: f.pos, scheduled: true})
			stack = pushChildren(stack, n.children, mirror)
		}
	}
}

// pushChildren pushes so that the child to visit next ends on top.
func pushChildren(stack []frame, children []int, mirror bool) []frame {
	if mirror {
		for _, c := range children {
			stack = append(stack, frame{pos: c})
		}
		return stack
	}
	for i := len(children) - 1; i >= 0; i-- {
		stack = append(stack, frame{pos: children[i]})
	}
	return stack
}
