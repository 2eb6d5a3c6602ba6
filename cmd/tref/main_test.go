package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `# sample
[test_tree]
+ root_node
+ + child_1

+ + child_2
+ + + child_2_1
+ + child_3
`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCheck(t *testing.T) {
	good := writeFile(t, "good.tref", sampleDoc)
	bad := writeFile(t, "bad.tref", "+ orphan\n")

	out, err := run(t, "", "check", good)
	require.NoError(t, err)
	assert.Contains(t, out, "(1 trees, 5 nodes)")

	out, err = run(t, "", "check", good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 files failed")
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, "line 1")
}

func TestCheck_KeyValueDialect(t *testing.T) {
	path := writeFile(t, "conf.tref", "[conf]\n+ name=server\n+ + port=8080\n")
	_, err := run(t, "", "check", "--dialect", "kv", path)
	require.NoError(t, err)

	_, err = run(t, "", "check", "--dialect", "kv", writeFile(t, "plain.tref", sampleDoc))
	assert.Error(t, err)

	_, err = run(t, "", "check", "--dialect", "xml", path)
	assert.ErrorContains(t, err, "unknown dialect")
}

func TestFmt(t *testing.T) {
	want := "[test_tree]\n+ root_node\n+ + child_1\n+ + child_2\n+ + + child_2_1\n+ + child_3\n"

	out, err := run(t, sampleDoc, "fmt", "-")
	require.NoError(t, err)
	assert.Equal(t, want, out)

	path := writeFile(t, "doc.tref", sampleDoc)
	out, err = run(t, "", "fmt", "--write", path)
	require.NoError(t, err)
	assert.Empty(t, out)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, string(data))

	_, err = run(t, sampleDoc, "fmt", "--write", "-")
	assert.Error(t, err)
}

func TestWalk(t *testing.T) {
	path := writeFile(t, "doc.tref", sampleDoc)

	out, err := run(t, "", "walk", "--order", "bfs", path)
	require.NoError(t, err)
	assert.Contains(t, out, "[test_tree]")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	for i, want := range []string{"root_node", "child_1", "child_2", "child_3", "child_2_1"} {
		assert.True(t, strings.HasSuffix(lines[i+1], " "+want), "line %d: %q", i+1, lines[i+1])
	}

	out, err = run(t, "", "walk", "--levels", path)
	require.NoError(t, err)
	assert.Contains(t, out, "3 levels")

	_, err = run(t, "", "walk", "--order", "sideways", path)
	assert.ErrorContains(t, err, "unknown traversal order")
	_, err = run(t, "", "walk", "--tree", "other", path)
	assert.Error(t, err)
}

func TestFind(t *testing.T) {
	path := writeFile(t, "doc.tref", sampleDoc)

	out, err := run(t, "", "find", path, "test_tree", "root_node", "child_2", "child_2_1")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)

	_, err = run(t, "", "find", path, "test_tree", "root_node", "missing")
	assert.ErrorContains(t, err, "root_node / missing")
}

func TestImport(t *testing.T) {
	path := writeFile(t, "guide.md", "# Install\n\nSome text.\n\n## Linux\n\n# Usage\n")

	out, err := run(t, "", "import", path)
	require.NoError(t, err)
	assert.Equal(t, "[guide]\n+ guide\n+ + Install\n+ + + Linux\n+ + Usage\n", out)

	dest := filepath.Join(t.TempDir(), "guide.tref")
	out, err = run(t, "", "import", "-o", dest, path)
	require.NoError(t, err)
	assert.Contains(t, out, "(1 trees, 4 nodes)")
	_, err = run(t, "", "check", dest)
	require.NoError(t, err)

	_, err = run(t, "", "import", writeFile(t, "image.png", "x"))
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	path := writeFile(t, "doc.tref", sampleDoc)

	out, err := run(t, "", "export", "--format", "yaml", path)
	require.NoError(t, err)
	assert.Contains(t, out, "id: test_tree")
	assert.Contains(t, out, "content: child_2_1")

	out, err = run(t, "", "export", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "["), out)

	_, err = run(t, "", "export", "--format", "xml", path)
	assert.Error(t, err)
}

// syncBuffer is written by the watch loop and read by the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatch_RechecksOnWrite(t *testing.T) {
	path := writeFile(t, "doc.tref", sampleDoc)

	a := &app{}
	cmd := a.newWatchCommand()
	var out syncBuffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.watch(ctx, cmd, []string{path}, "simple") }()

	require.Eventually(t, func() bool { return strings.Contains(out.String(), "ok") },
		5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("+ orphan\n"), 0o644))
	require.Eventually(t, func() bool { return strings.Contains(out.String(), "FAIL") },
		5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
