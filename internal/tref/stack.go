package tref

// entry pairs a node's depth with its arena position.
type entry struct {
	depth int
	pos   int
}

// NodeStack tracks the chain of open ancestors while lines are read in
// document order. The top entry is the most recently placed node.
type NodeStack struct {
	entries []entry
}

// Push places a node on top of the stack.
func (s *NodeStack) Push(depth, pos int) {
	s.entries = append(s.entries, entry{depth: depth, pos: pos})
}

// Pop removes and returns the top entry.
func (s *NodeStack) Pop() (depth, pos int, ok bool) {
	if len(s.entries) == 0 {
		return 0, 0, false
	}
	e := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	return e.depth, e.pos, true
}

// Top returns the top entry without removing it.
func (s *NodeStack) Top() (depth, pos int, ok bool) {
	if len(s.entries) == 0 {
		return 0, 0, false
	}
	e := s.entries[len(s.entries)-1]
	return e.depth, e.pos, true
}

// PopParent discards entries until one strictly shallower than depth is
// found and returns it. The parent itself is removed too; callers put it
// back with Push before pushing the child. An empty stack means no parent.
func (s *NodeStack) PopParent(depth int) (parentDepth, parentPos int, ok bool) {
	for {
		d, p, popped := s.Pop()
		if !popped {
			return 0, 0, false
		}
		if d < depth {
			return d, p, true
		}
	}
}

// Len returns the number of entries.
func (s *NodeStack) Len() int {
	return len(s.entries)
}

// Reset empties the stack, keeping its storage.
func (s *NodeStack) Reset() {
	s.entries = s.entries[:0]
}
