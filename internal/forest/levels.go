package forest

import "fmt"

// Level lists the positions of the nodes at one depth, in discovery order.
type Level struct {
	Depth     int
	Positions []int
}

// LevelIndex groups node positions by depth so breadth-first traversal can
// read levels directly instead of walking children.
//
// The index reflects the tree at the time it was built. Tree.Link and
// Tree.Unlink drop it; use Tree.RebuildLevels to get a fresh one.
type LevelIndex struct {
	levels []Level
}

// Add appends pos to the level for depth. Depths must be discovered in
// order: depth may be at most one past the deepest level seen so far.
func (li *LevelIndex) Add(depth, pos int) error {
	switch {
	case depth < 1 || depth > len(li.levels)+1:
		return fmt.Errorf("level %d out of sequence (have %d)", depth, len(li.levels))
	case depth == len(li.levels)+1:
		li.levels = append(li.levels, Level{Depth: depth})
	}
	li.levels[depth-1].Positions = append(li.levels[depth-1].Positions, pos)
	return nil
}

// Len returns the number of levels.
func (li *LevelIndex) Len() int {
	return len(li.levels)
}

// Level returns the entry for depth.
func (li *LevelIndex) Level(depth int) (Level, bool) {
	if depth < 1 || depth > len(li.levels) {
		return Level{}, false
	}
	return li.levels[depth-1], true
}

// Levels returns all entries ordered by depth. The slice is owned by the
// index.
func (li *LevelIndex) Levels() []Level {
	return li.levels
}
