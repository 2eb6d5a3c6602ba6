package forest

import "errors"

// Errors returned by tree and forest mutation.
var (
	// ErrTreeNotFound indicates no tree is registered under the id.
	ErrTreeNotFound = errors.New("tree not found")

	// ErrTreeExists indicates the tree id is already registered.
	ErrTreeExists = errors.New("tree already exists")

	// ErrPositionOutOfRange indicates an arena position past the end of the tree.
	ErrPositionOutOfRange = errors.New("node position out of range")

	// ErrRootExists indicates SetRoot on a tree that already has a root.
	ErrRootExists = errors.New("tree already has a root")

	// ErrNoRoot indicates an operation that needs a root on an empty tree.
	ErrNoRoot = errors.New("tree has no root")

	// ErrUnlinkRoot indicates an attempt to unlink the root node.
	ErrUnlinkRoot = errors.New("root node cannot be unlinked")

	// ErrDetached indicates a node whose parent bookkeeping does not point back at it.
	ErrDetached = errors.New("node is not linked to its parent")

	// ErrContentRejected indicates the dialect refused the raw content.
	ErrContentRejected = errors.New("content rejected")

	// ErrNotFound indicates a path lookup that did not resolve.
	ErrNotFound = errors.New("node not found")
)
