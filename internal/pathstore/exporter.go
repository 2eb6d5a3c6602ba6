package pathstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgallion1/tref/internal/forest"
)

// ErrRootMissing reports that the exported root key could not be read back.
var ErrRootMissing = errors.New("exported root not found")

// Exporter writes the reachable nodes of a tree to pathstore under
// <prefix>/<tree slug>/<node slug>/..., one key per node, and links each
// child key to its parent key.
type Exporter struct {
	client  *Client
	prefix  string
	log     *slog.Logger
	retries int
	backoff func(attempt int) time.Duration
}

func NewExporter(client *Client, prefix string, log *slog.Logger) *Exporter {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Exporter{
		client:  client,
		prefix:  strings.Trim(prefix, "/"),
		log:     log,
		retries: MaxRetries,
		backoff: Backoff,
	}
}

// NodeValue is the stored value of one exported node.
type NodeValue struct {
	Tree     string   `json:"tree"`
	Content  string   `json:"content"`
	Depth    int      `json:"depth"`
	Position int      `json:"position"`
	Children int      `json:"children"`
	Path     []string `json:"path"`
}

// Result summarizes one export.
type Result struct {
	Tree  string `json:"tree"`
	Root  string `json:"root_key"`
	Nodes int    `json:"nodes"`
	Links int    `json:"links"`
}

// Export replaces everything under the tree's key with the current tree.
func (e *Exporter) Export(ctx context.Context, id string, t *forest.Tree[string]) (Result, error) {
	if t.Len() == 0 {
		return Result{}, fmt.Errorf("export %s: %w", id, forest.ErrNoRoot)
	}
	treeKey := e.join(Slugify(id))
	if treeKey == e.join("") {
		treeKey = e.join("tree")
	}
	log := e.log.With("tree", id, "key", treeKey)

	if err := e.retry(ctx, log, func() error { return e.client.DeleteNode(ctx, treeKey, true) }); err != nil {
		return Result{}, fmt.Errorf("clear %s: %w", treeKey, err)
	}

	res := Result{Tree: id}
	keys := make(map[int]string)
	slugs := make(map[int]slugger)
	for pos, n := range t.PreOrder() {
		content := t.Dialect().Render(n.Content)
		parent, hasParent := n.Parent()

		var key string
		if !hasParent {
			key = treeKey + "/" + slugger{}.next(content)
			res.Root = key
		} else {
			if slugs[parent] == nil {
				slugs[parent] = slugger{}
			}
			key = keys[parent] + "/" + slugs[parent].next(content)
		}
		keys[pos] = key

		path, _ := t.Path(pos)
		value := NodeValue{
			Tree:     id,
			Content:  content,
			Depth:    n.Depth,
			Position: pos,
			Children: len(n.Children()),
			Path:     path,
		}
		req := NodeRequest{Value: value, MergeMode: "replace", Source: "tref"}
		if err := e.retry(ctx, log, func() error { return e.client.PutNode(ctx, key, req) }); err != nil {
			return res, fmt.Errorf("put %s: %w", key, err)
		}
		res.Nodes++

		if hasParent {
			link := LinkRequest{From: keys[parent], To: key, Weight: 1, Summary: "child"}
			if err := e.retry(ctx, log, func() error { return e.client.PutLink(ctx, link) }); err != nil {
				return res, fmt.Errorf("link %s: %w", key, err)
			}
			res.Links++
		}
	}

	// Read the root back so a store that acknowledged writes without
	// keeping them is reported.
	var stored *NodeResponse
	err := e.retry(ctx, log, func() error {
		var err error
		stored, err = e.client.GetNode(ctx, res.Root)
		return err
	})
	if err != nil {
		return res, fmt.Errorf("verify %s: %w", res.Root, err)
	}
	if stored == nil {
		return res, fmt.Errorf("verify %s: %w", res.Root, ErrRootMissing)
	}

	log.Info("tree exported", "nodes", res.Nodes, "links", res.Links)
	return res, nil
}

func (e *Exporter) join(segment string) string {
	if e.prefix == "" {
		return segment
	}
	if segment == "" {
		return e.prefix
	}
	return e.prefix + "/" + segment
}

// retry runs op until it succeeds, fails permanently or runs out of attempts.
func (e *Exporter) retry(ctx context.Context, log *slog.Logger, op func() error) error {
	var lastErr error
	for attempt := range e.retries {
		lastErr = op()
		if lastErr == nil || !IsRetryable(lastErr) {
			return lastErr
		}
		log.Warn("retryable pathstore error", "attempt", attempt, "error", lastErr)
		if attempt == e.retries-1 {
			break
		}
		select {
		case <-time.After(e.backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}
