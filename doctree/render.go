package doctree

import (
	"bytes"
	"io"

	"golang.org/x/net/html"

	"github.com/teranos/kinlink/errors"
)

// Render serializes the subtree at id. A document node renders its children.
func (t *Tree) Render(w io.Writer, id NodeID) error {
	n := t.toHTML(id)
	if n == nil {
		return errors.Newf("render %d: no such node", id)
	}
	if err := html.Render(w, n); err != nil {
		return errors.Wrap(err, "render document")
	}
	return nil
}

// RenderString is Render into a string.
func (t *Tree) RenderString(id NodeID) (string, error) {
	var buf bytes.Buffer
	if err := t.Render(&buf, id); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (t *Tree) toHTML(id NodeID) *html.Node {
	src := t.Node(id)
	if src == nil {
		return nil
	}
	out := &html.Node{Data: src.Data}
	switch src.Kind {
	case DocumentNode:
		out.Type = html.DocumentNode
	case ElementNode:
		out.Type = html.ElementNode
		for _, a := range src.Attrs {
			out.Attr = append(out.Attr, html.Attribute{Key: a.Key, Val: a.Val})
		}
	case TextNode:
		out.Type = html.TextNode
	case CommentNode:
		out.Type = html.CommentNode
	case DoctypeNode:
		out.Type = html.DoctypeNode
	}
	for _, c := range src.Children {
		if child := t.toHTML(c); child != nil {
			out.AppendChild(child)
		}
	}
	return out
}
