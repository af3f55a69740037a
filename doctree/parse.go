package doctree

import (
	"bytes"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/teranos/kinlink/errors"
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// implicitClose says which open elements a start tag ends, searching the
// open elements from the innermost out and stopping at a scope element.
type implicitClose struct {
	closes map[string]bool
	stops  map[string]bool
}

func tagSet(tags ...string) map[string]bool {
	m := make(map[string]bool, len(tags))
	for _, t := range tags {
		m[t] = true
	}
	return m
}

var impliedEnds = func() map[string]implicitClose {
	pScope := tagSet("button", "table", "td", "th", "caption", "object", "applet", "marquee")
	closesP := implicitClose{closes: tagSet("p"), stops: pScope}
	rules := map[string]implicitClose{
		"li":       {closes: tagSet("li", "p"), stops: tagSet("ul", "ol", "menu", "table", "td", "th")},
		"dt":       {closes: tagSet("dt", "dd", "p"), stops: tagSet("dl", "table", "td", "th")},
		"dd":       {closes: tagSet("dt", "dd", "p"), stops: tagSet("dl", "table", "td", "th")},
		"td":       {closes: tagSet("td", "th"), stops: tagSet("tr", "table")},
		"th":       {closes: tagSet("td", "th"), stops: tagSet("tr", "table")},
		"tr":       {closes: tagSet("tr", "td", "th"), stops: tagSet("table", "tbody", "thead", "tfoot")},
		"tbody":    {closes: tagSet("tbody", "thead", "tfoot", "tr", "td", "th"), stops: tagSet("table")},
		"thead":    {closes: tagSet("tbody", "thead", "tfoot", "tr", "td", "th"), stops: tagSet("table")},
		"tfoot":    {closes: tagSet("tbody", "thead", "tfoot", "tr", "td", "th"), stops: tagSet("table")},
		"option":   {closes: tagSet("option"), stops: tagSet("select", "datalist", "optgroup")},
		"optgroup": {closes: tagSet("optgroup", "option"), stops: tagSet("select")},
	}
	for _, tag := range []string{
		"address", "article", "aside", "blockquote", "details", "div", "dl",
		"fieldset", "figure", "footer", "form", "h1", "h2", "h3", "h4", "h5",
		"h6", "header", "hr", "main", "nav", "ol", "p", "pre", "section",
		"table", "ul",
	} {
		rules[tag] = closesP
	}
	return rules
}()

// closeImplied pops the elements that a start tag for tag ends, the way
// HTML closes an open p at the next block or an open li at the next li.
func (t *Tree) closeImplied(open []NodeID, tag string) []NodeID {
	rule, ok := impliedEnds[tag]
	if !ok {
		return open
	}
	cut := len(open)
	for i := len(open) - 1; i > 0; i-- {
		name := t.nodes[open[i]].Data
		if rule.closes[name] {
			cut = i
			continue
		}
		if rule.stops[name] {
			break
		}
	}
	return open[:cut]
}

// Parse reads markup into a tree as written. Unlike html.Parse it never
// synthesizes html, head or body elements, so a document without a body
// stays without one. Elements whose end tag HTML lets authors omit (p, li,
// dt, dd, td, th, tr, table sections, option) close where the next sibling
// starts. Stray end tags are dropped and unclosed elements close at end
// of input.
func Parse(r io.Reader) (*Tree, error) {
	t := New()
	z := html.NewTokenizer(r)
	open := []NodeID{t.Root}
	top := func() NodeID { return open[len(open)-1] }

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, errors.Wrap(err, "tokenize document")
			}
			return t, nil

		case html.TextToken:
			t.attach(top(), Node{Kind: TextNode, Data: string(z.Text())})

		case html.CommentToken:
			t.attach(top(), Node{Kind: CommentNode, Data: string(z.Text())})

		case html.DoctypeToken:
			t.attach(top(), Node{Kind: DoctypeNode, Data: string(z.Text())})

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			open = t.closeImplied(open, tok.Data)
			attrs := make([]Attr, 0, len(tok.Attr))
			for _, a := range tok.Attr {
				attrs = append(attrs, Attr{Key: a.Key, Val: a.Val})
			}
			id := t.attach(top(), Node{Kind: ElementNode, Data: tok.Data, Attrs: attrs})
			if tt == html.StartTagToken && !voidElements[tok.Data] {
				open = append(open, id)
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			for i := len(open) - 1; i > 0; i-- {
				if t.nodes[open[i]].Data == tag {
					open = open[:i]
					break
				}
			}
		}
	}
}

// ParseString is Parse over a string.
func ParseString(s string) (*Tree, error) {
	return Parse(strings.NewReader(s))
}

// ParseFile reads and parses the document at path.
func ParseFile(path string) (*Tree, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "read %s", path)
	}
	t, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, nil, errors.Wrapf(err, "parse %s", path)
	}
	return t, data, nil
}

func (t *Tree) attach(parent NodeID, n Node) NodeID {
	n.Parent = parent
	id := t.add(n)
	t.nodes[parent].Children = append(t.nodes[parent].Children, id)
	return id
}
