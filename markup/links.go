package markup

import (
	"strconv"
	"strings"

	"github.com/teranos/kinlink/doctree"
)

// Href schemes: tfpr for source-level records, tfpi for values, tfp for
// canonical records.
const (
	SchemeSource    = "tfpr:"
	SchemeValue     = "tfpi:"
	SchemeCanonical = "tfp:"
)

// Href returns the persistent URI for a record, or "" for kinds that are
// not linkable.
func Href(kind Kind, id int64) string {
	var prefix string
	switch kind {
	case KindPersona:
		prefix = SchemeSource + "Pa"
	case KindEventa:
		prefix = SchemeSource + "Ea"
	case KindName:
		prefix = SchemeValue + "N"
	case KindDate:
		prefix = SchemeValue + "D"
	case KindPlace:
		prefix = SchemeValue + "P"
	case KindRole:
		prefix = SchemeValue + "Ro"
	case KindIndividualPersona:
		prefix = SchemeCanonical + "I"
	case KindEventLink:
		prefix = SchemeCanonical + "E"
	default:
		return ""
	}
	return prefix + strconv.FormatInt(id, 10)
}

// RewriteLinks walks the subtree at id and turns every a or span element
// whose id attribute names a bound local symbol ("L-Pa1") into an anchor
// carrying only an href to the record. Other ids are left untouched. It
// returns the number of anchors rewritten.
func RewriteLinks(tree *doctree.Tree, id doctree.NodeID, syms *LocalIDs) (int, error) {
	n := tree.Node(id)
	if n == nil {
		return 0, nil
	}
	// the child list changes as anchors are rewrapped, so walk a copy
	kids := append([]doctree.NodeID(nil), n.Children...)

	count := 0
	for _, c := range kids {
		if !tree.IsElement(c, "") {
			continue
		}
		if href := anchorHref(tree, c, syms); href != "" {
			wrapped, err := tree.Rewrap(c, "a", doctree.Attr{Key: "href", Val: href})
			if err != nil {
				return count, err
			}
			c = wrapped
			count++
		}
		sub, err := RewriteLinks(tree, c, syms)
		count += sub
		if err != nil {
			return count, err
		}
	}
	return count, nil
}

func anchorHref(tree *doctree.Tree, id doctree.NodeID, syms *LocalIDs) string {
	if !tree.IsElement(id, "a") && !tree.IsElement(id, "span") {
		return ""
	}
	attr, ok := tree.Attr(id, "id")
	if !ok {
		return ""
	}
	local, ok := strings.CutPrefix(attr, LocalPrefix)
	if !ok {
		return ""
	}
	sym, ok := syms.Lookup(local)
	if !ok {
		return ""
	}
	return Href(sym.Kind, sym.ID)
}
