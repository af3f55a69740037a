// Package doctree is an owned, indexable arena of HTML nodes. Nodes are
// addressed by NodeID; structure changes rebuild child index lists rather
// than rewiring sibling pointers. Parsing and serialization go through
// golang.org/x/net/html.
package doctree

import (
	"strings"

	"github.com/teranos/kinlink/errors"
)

// NodeID indexes a node in its Tree. None marks absence.
type NodeID int

const None NodeID = -1

type Kind int

const (
	DocumentNode Kind = iota
	ElementNode
	TextNode
	CommentNode
	DoctypeNode
)

type Attr struct {
	Key string
	Val string
}

// Node is one arena slot. Data is the tag name, text or comment body.
type Node struct {
	Kind     Kind
	Data     string
	Attrs    []Attr
	Parent   NodeID
	Children []NodeID
}

// Tree owns every node reachable from Root. Detached nodes stay in the
// arena but are never rendered.
type Tree struct {
	nodes []Node
	Root  NodeID
}

// New returns a tree holding only a document node.
func New() *Tree {
	t := &Tree{}
	t.Root = t.add(Node{Kind: DocumentNode, Parent: None})
	return t
}

func (t *Tree) add(n Node) NodeID {
	t.nodes = append(t.nodes, n)
	return NodeID(len(t.nodes) - 1)
}

func (t *Tree) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

// Node returns the node for id, or nil when id is out of range.
func (t *Tree) Node(id NodeID) *Node {
	if !t.valid(id) {
		return nil
	}
	return &t.nodes[id]
}

// NewElement adds a detached element.
func (t *Tree) NewElement(tag string, attrs ...Attr) NodeID {
	return t.add(Node{Kind: ElementNode, Data: tag, Attrs: append([]Attr(nil), attrs...), Parent: None})
}

// NewText adds a detached text node.
func (t *Tree) NewText(text string) NodeID {
	return t.add(Node{Kind: TextNode, Data: text, Parent: None})
}

// AppendChild attaches a detached node as the last child of parent.
func (t *Tree) AppendChild(parent, child NodeID) error {
	if !t.valid(parent) || !t.valid(child) {
		return errors.Newf("append %d to %d: no such node", child, parent)
	}
	if t.nodes[child].Parent != None {
		return errors.Newf("append %d: node is still attached", child)
	}
	t.nodes[parent].Children = append(t.nodes[parent].Children, child)
	t.nodes[child].Parent = parent
	return nil
}

// Attr returns the value of the named attribute.
func (t *Tree) Attr(id NodeID, key string) (string, bool) {
	n := t.Node(id)
	if n == nil {
		return "", false
	}
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// IsElement reports whether id is an element with the given tag ("" matches any).
func (t *Tree) IsElement(id NodeID, tag string) bool {
	n := t.Node(id)
	return n != nil && n.Kind == ElementNode && (tag == "" || n.Data == tag)
}

// Find returns the first node under id, in document order and including
// id itself, that satisfies match.
func (t *Tree) Find(id NodeID, match func(NodeID, *Node) bool) NodeID {
	n := t.Node(id)
	if n == nil {
		return None
	}
	if match(id, n) {
		return id
	}
	for _, c := range n.Children {
		if found := t.Find(c, match); found != None {
			return found
		}
	}
	return None
}

// FindElement returns the first element with tag at or below id.
func (t *Tree) FindElement(id NodeID, tag string) NodeID {
	return t.Find(id, func(_ NodeID, n *Node) bool {
		return n.Kind == ElementNode && n.Data == tag
	})
}

// ChildElements lists the direct element children of id with tag ("" for any).
func (t *Tree) ChildElements(id NodeID, tag string) []NodeID {
	n := t.Node(id)
	if n == nil {
		return nil
	}
	var out []NodeID
	for _, c := range n.Children {
		if t.IsElement(c, tag) {
			out = append(out, c)
		}
	}
	return out
}

// FirstComment returns the body of the first comment at or below id that
// starts with prefix, with the prefix removed.
func (t *Tree) FirstComment(id NodeID, prefix string) (string, bool) {
	found := t.Find(id, func(_ NodeID, n *Node) bool {
		return n.Kind == CommentNode && strings.HasPrefix(n.Data, prefix)
	})
	if found == None {
		return "", false
	}
	return strings.TrimPrefix(t.nodes[found].Data, prefix), true
}

// Text returns the text content under id, with <br> read as a space and
// runs of whitespace collapsed.
func (t *Tree) Text(id NodeID) string {
	var b strings.Builder
	t.collectText(id, &b)
	return strings.Join(strings.Fields(b.String()), " ")
}

func (t *Tree) collectText(id NodeID, b *strings.Builder) {
	n := t.Node(id)
	if n == nil {
		return
	}
	switch {
	case n.Kind == TextNode:
		b.WriteString(n.Data)
	case n.Kind == ElementNode && n.Data == "br":
		b.WriteByte(' ')
	}
	for _, c := range n.Children {
		t.collectText(c, b)
	}
}

// InsertBetween places detached nodes among parent's children directly
// after left and before right. None for left means the start of the list,
// None for right means its end. The child list is rebuilt; left and right
// must be adjacent children of parent. It returns parent.
func (t *Tree) InsertBetween(parent, left, right NodeID, nodes ...NodeID) (NodeID, error) {
	p := t.Node(parent)
	if p == nil {
		return None, errors.Newf("insert into %d: no such node", parent)
	}

	at := 0
	if left != None {
		at = indexOf(p.Children, left) + 1
		if at == 0 {
			return None, errors.Newf("insert: %d is not a child of %d", left, parent)
		}
	}
	switch {
	case right == None && at != len(p.Children):
		return None, errors.Newf("insert: %d is not the last child of %d", left, parent)
	case right != None && (at >= len(p.Children) || p.Children[at] != right):
		return None, errors.Newf("insert: %d and %d are not adjacent in %d", left, right, parent)
	}
	for _, id := range nodes {
		if !t.valid(id) || t.nodes[id].Parent != None {
			return None, errors.Newf("insert: node %d is missing or attached", id)
		}
	}

	children := make([]NodeID, 0, len(p.Children)+len(nodes))
	children = append(children, p.Children[:at]...)
	children = append(children, nodes...)
	children = append(children, p.Children[at:]...)
	p.Children = children
	for _, id := range nodes {
		t.nodes[id].Parent = parent
	}
	return parent, nil
}

// Remove detaches id from its parent.
func (t *Tree) Remove(id NodeID) {
	n := t.Node(id)
	if n == nil || n.Parent == None {
		return
	}
	p := &t.nodes[n.Parent]
	if i := indexOf(p.Children, id); i >= 0 {
		p.Children = append(append([]NodeID(nil), p.Children[:i]...), p.Children[i+1:]...)
	}
	n.Parent = None
}

// Siblings returns the children of id's parent either side of it.
func (t *Tree) Siblings(id NodeID) (left, right NodeID) {
	n := t.Node(id)
	if n == nil || n.Parent == None {
		return None, None
	}
	kids := t.nodes[n.Parent].Children
	i := indexOf(kids, id)
	left, right = None, None
	if i > 0 {
		left = kids[i-1]
	}
	if i >= 0 && i+1 < len(kids) {
		right = kids[i+1]
	}
	return left, right
}

// Rewrap replaces element id with a new element of tag carrying exactly
// attrs and adopting id's children. It returns the new element.
func (t *Tree) Rewrap(id NodeID, tag string, attrs ...Attr) (NodeID, error) {
	n := t.Node(id)
	if n == nil || n.Kind != ElementNode {
		return None, errors.Newf("rewrap %d: not an element", id)
	}
	parent, kids := n.Parent, n.Children
	left, right := t.Siblings(id)

	wrapped := t.NewElement(tag, attrs...)
	t.nodes[id].Children = nil
	t.nodes[wrapped].Children = kids
	for _, c := range kids {
		t.nodes[c].Parent = wrapped
	}

	if parent == None {
		if t.Root == id {
			t.Root = wrapped
		}
		return wrapped, nil
	}
	t.Remove(id)
	if _, err := t.InsertBetween(parent, left, right, wrapped); err != nil {
		return None, err
	}
	return wrapped, nil
}

func indexOf(ids []NodeID, id NodeID) int {
	for i, c := range ids {
		if c == id {
			return i
		}
	}
	return -1
}
