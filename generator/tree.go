package generator

import (
	"errors"
	"path"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
)

// ErrUnbalancedTree is returned when a tree is rendered while branches are
// still open, or after End was called more often than Begin.
var ErrUnbalancedTree = errors.New("preview tree has unbalanced begin/end calls")

// Sink receives the planned file system layout while steps run.
// Every step writes to a Sink, whether or not a preview was requested;
// NopSink stands in when nobody is listening.
type Sink interface {
	// Begin opens a directory and makes it current.
	Begin(name string)
	// End closes the current directory and returns to its parent.
	End()
	// AddLeaf records a file (or opaque entry) in the current directory.
	AddLeaf(name string)
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) Begin(string)   {}
func (NopSink) End()           {}
func (NopSink) AddLeaf(string) {}

// Within opens name on s, runs fn, and always closes the branch again.
func Within(s Sink, name string, fn func() error) error {
	s.Begin(name)
	defer s.End()
	return fn()
}

// Node is one entry of a preview tree.
type Node struct {
	Name     string
	Dir      bool
	Children []*Node
}

func (n *Node) child(name string, dir bool) *Node {
	for _, c := range n.Children {
		if c.Name == name && c.Dir == dir {
			return c
		}
	}
	c := &Node{Name: name, Dir: dir}
	n.Children = append(n.Children, c)
	return c
}

// Tree accumulates a preview of the files a run would create.
// Entries keep insertion order; re-opening an existing directory or re-adding
// an existing file does not duplicate it, mirroring what ends up on disk.
type Tree struct {
	root     *Node
	stack    []*Node
	overflow bool
}

// NewTree creates an empty tree whose root is labelled with root.
func NewTree(root string) *Tree {
	r := &Node{Name: root, Dir: true}
	return &Tree{root: r, stack: []*Node{r}}
}

func (t *Tree) current() *Node {
	return t.stack[len(t.stack)-1]
}

func (t *Tree) Begin(name string) {
	t.stack = append(t.stack, t.current().child(name, true))
}

func (t *Tree) End() {
	if len(t.stack) == 1 {
		t.overflow = true
		return
	}
	t.stack = t.stack[:len(t.stack)-1]
}

func (t *Tree) AddLeaf(name string) {
	t.current().child(name, false)
}

// Balanced reports whether every Begin has been matched by exactly one End.
func (t *Tree) Balanced() bool {
	return !t.overflow && len(t.stack) == 1
}

// Paths lists every entry below the root in pre-order, slash separated.
// Directories carry a trailing slash.
func (t *Tree) Paths() []string {
	var out []string
	var walk func(prefix string, n *Node)
	walk = func(prefix string, n *Node) {
		for _, c := range n.Children {
			p := path.Join(prefix, c.Name)
			if c.Dir {
				out = append(out, p+"/")
				walk(p, c)
				continue
			}
			out = append(out, p)
		}
	}
	walk("", t.root)
	return out
}

var (
	treeRootStyle = lipgloss.NewStyle().Bold(true)
	treeDirStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	treeEnumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Render draws the tree. It fails with ErrUnbalancedTree while branches are open.
func (t *Tree) Render() (string, error) {
	if !t.Balanced() {
		return "", ErrUnbalancedTree
	}

	var build func(n *Node) *tree.Tree
	build = func(n *Node) *tree.Tree {
		tr := tree.Root(treeDirStyle.Render(n.Name + "/"))
		for _, c := range n.Children {
			if c.Dir {
				tr.Child(build(c))
				continue
			}
			tr.Child(c.Name)
		}
		return tr
	}

	out := build(t.root).
		RootStyle(treeRootStyle).
		EnumeratorStyle(treeEnumStyle)
	return out.String(), nil
}
