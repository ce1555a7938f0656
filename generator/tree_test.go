package generator

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTree_Paths(t *testing.T) {
	tr := NewTree("demo")
	tr.AddLeaf("Cargo.toml")
	tr.Begin("bin")
	tr.Begin("demo")
	tr.AddLeaf("Cargo.toml")
	tr.Begin("src")
	tr.AddLeaf("main.rs")
	tr.End()
	tr.End()
	tr.End()

	require.True(t, tr.Balanced())
	assert.Equal(t, []string{
		"Cargo.toml",
		"bin/",
		"bin/demo/",
		"bin/demo/Cargo.toml",
		"bin/demo/src/",
		"bin/demo/src/main.rs",
	}, tr.Paths())
}

func TestTree_ReopenMerges(t *testing.T) {
	tr := NewTree("demo")
	tr.Begin("etc")
	tr.AddLeaf("logo.png")
	tr.End()
	tr.Begin("etc")
	tr.AddLeaf("logo.png")
	tr.AddLeaf("banner.png")
	tr.End()
	tr.AddLeaf(".gitignore")
	tr.AddLeaf(".gitignore")

	assert.Equal(t, []string{"etc/", "etc/logo.png", "etc/banner.png", ".gitignore"}, tr.Paths())
}

func TestTree_Balance(t *testing.T) {
	tr := NewTree("demo")
	assert.True(t, tr.Balanced())

	tr.Begin("src")
	assert.False(t, tr.Balanced())
	_, err := tr.Render()
	assert.ErrorIs(t, err, ErrUnbalancedTree)

	tr.End()
	assert.True(t, tr.Balanced())

	tr.End()
	assert.False(t, tr.Balanced(), "extra End must be remembered")
	_, err = tr.Render()
	assert.ErrorIs(t, err, ErrUnbalancedTree)
}

func TestTree_Render(t *testing.T) {
	tr := NewTree("demo")
	tr.AddLeaf("Cargo.toml")
	require.NoError(t, Within(tr, "src", func() error {
		tr.AddLeaf("main.rs")
		return nil
	}))

	out, err := tr.Render()
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "demo/")
	assert.Contains(t, lines[1], "Cargo.toml")
	assert.Contains(t, lines[2], "src/")
	assert.Contains(t, lines[3], "main.rs")
	assert.Less(t, strings.Index(lines[1], "Cargo.toml"), strings.Index(lines[3], "main.rs"),
		"nested entries are indented further")

	again, err := tr.Render()
	require.NoError(t, err)
	assert.Equal(t, out, again, "rendering is deterministic")
}

func TestWithin_BalancesOnError(t *testing.T) {
	tr := NewTree("demo")
	boom := errors.New("boom")

	err := Within(tr, "crates", func() error {
		tr.Begin("common")
		defer tr.End()
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.True(t, tr.Balanced())
}

func TestNopSink(t *testing.T) {
	var s Sink = NopSink{}
	require.NoError(t, Within(s, "x", func() error {
		s.AddLeaf("y")
		return nil
	}))
}
