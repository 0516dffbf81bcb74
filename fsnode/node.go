// Package fsnode implements the in-memory filesystem tree model: a tagged
// variant of file and directory nodes, insertion by backslash-separated
// path, lookup, and depth-first traversal.
//
// Grounded on the teacher's Dirent/RawDirent split (dargueta-disko
// file_systems/fat/dirent.go): here too the on-disk shape (short name,
// attributes, packed timestamp) is kept separate from the serializer, which
// walks this tree read-only once planning begins.
package fsnode

import (
	"strings"

	"github.com/mkhdmenu/atarihd/dostime"
	"github.com/mkhdmenu/atarihd/hderrors"
	"github.com/mkhdmenu/atarihd/shortname"
)

// MaxDepth bounds directory nesting, per design note: depth is expected to
// be shallow and recursion is bounds-checked rather than open-ended.
const MaxDepth = 8

// Node is a tagged variant: exactly one of File or Dir is non-nil.
type Node struct {
	Name string // normalized NAME.EXT, no directory component
	Date dostime.Date
	Time dostime.Time

	File *FileNode
	Dir  *DirNode
}

// FileNode carries a file's payload.
type FileNode struct {
	Data []byte
}

// DirNode carries a directory's ordered children.
type DirNode struct {
	Children []*Node
}

// IsDir reports whether n is a directory node.
func (n *Node) IsDir() bool { return n.Dir != nil }

// NewFile constructs a file node with the given name, payload, and
// timestamp. name must already be normalized (see shortname.Normalize).
func NewFile(name string, data []byte, date dostime.Date, time dostime.Time) *Node {
	return &Node{Name: name, Date: date, Time: time, File: &FileNode{Data: data}}
}

// NewDir constructs an empty directory node.
func NewDir(name string, date dostime.Date, time dostime.Time) *Node {
	return &Node{Name: name, Date: date, Time: time, Dir: &DirNode{}}
}

// child looks up an immediate child by exact normalized name.
func (n *Node) child(name string) *Node {
	for _, c := range n.Dir.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// putChild inserts or replaces a child in-place, preserving its position in
// insertion order on replacement.
func (n *Node) putChild(newChild *Node) {
	for i, c := range n.Dir.Children {
		if c.Name == newChild.Name {
			n.Dir.Children[i] = newChild
			return
		}
	}
	n.Dir.Children = append(n.Dir.Children, newChild)
}

// Tree is the root of one partition's filesystem. The root directory itself
// is never surfaced by name.
type Tree struct {
	Root *Node
}

// NewTree creates an empty tree with a fresh, timestamp-less root directory.
func NewTree() *Tree {
	return &Tree{Root: &Node{Name: "", Dir: &DirNode{}}}
}

// splitPath splits a backslash-separated path into uppercased, normalized
// components. The final component is not required to already exist.
func splitPath(path string) ([]string, error) {
	raw := strings.Split(strings.Trim(path, `\`), `\`)
	components := make([]string, 0, len(raw))
	for _, part := range raw {
		if part == "" {
			continue
		}
		normalized, err := shortname.Normalize(part)
		if err != nil {
			return nil, err
		}
		components = append(components, normalized)
	}
	return components, nil
}

// Insert walks path from the tree root, creating intermediate directories
// as needed, and places node as the final component. Intermediate
// directories inherit node's timestamp if they must be created. If the
// final component already exists, node replaces it in-place (same position
// in the parent's child order).
func (t *Tree) Insert(path string, node *Node) error {
	components, err := splitPath(path)
	if err != nil {
		return err
	}
	if len(components) == 0 {
		return hderrors.ErrInvalidPath.WithMessage("empty path")
	}
	if len(components) > MaxDepth {
		return hderrors.ErrInvalidPath.WithMessage("path exceeds maximum directory depth: " + path)
	}

	cur := t.Root
	for _, part := range components[:len(components)-1] {
		existing := cur.child(part)
		if existing == nil {
			dir := NewDir(part, node.Date, node.Time)
			cur.putChild(dir)
			cur = dir
			continue
		}
		if !existing.IsDir() {
			return hderrors.ErrNotADirectory.WithMessage("path component is a file: " + part)
		}
		cur = existing
	}

	node.Name = components[len(components)-1]
	cur.putChild(node)
	return nil
}

// Lookup returns the node at path, or nil if no such node exists.
func (t *Tree) Lookup(path string) *Node {
	components, err := splitPath(path)
	if err != nil || len(components) == 0 {
		return nil
	}

	cur := t.Root
	for _, part := range components {
		if !cur.IsDir() {
			return nil
		}
		cur = cur.child(part)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Exists reports whether path resolves to any node in this tree.
func (t *Tree) Exists(path string) bool {
	return t.Lookup(path) != nil
}

// Visitor is called once per node encountered during Walk, with the full
// backslash-separated path (relative to the partition root) and depth
// (root's direct children are depth 0).
type Visitor func(path string, node *Node, depth int)

// Walk performs a depth-first, pre-order traversal of the tree, visiting
// children in insertion order.
func (t *Tree) Walk(visit Visitor) {
	walkChildren(t.Root, "", 0, visit)
}

func walkChildren(parent *Node, prefix string, depth int, visit Visitor) {
	if !parent.IsDir() {
		return
	}
	for _, child := range parent.Dir.Children {
		path := child.Name
		if prefix != "" {
			path = prefix + `\` + child.Name
		}
		visit(path, child, depth)
		if child.IsDir() {
			walkChildren(child, path, depth+1, visit)
		}
	}
}
