package xml

import (
	"fmt"

	"github.com/beevik/etree"
)

const (
	xmlNamespace   = "http://www.w3.org/XML/1998/namespace"
	xmlnsNamespace = "http://www.w3.org/2000/xmlns/"
)

// scope holds the prefix bindings declared on one element
type scope struct {
	parent   *scope
	bindings map[string]string
}

func (s *scope) lookup(prefix string) (string, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if uri, ok := sc.bindings[prefix]; ok {
			return uri, true
		}
	}
	switch prefix {
	case "":
		return "", true
	case "xml":
		return xmlNamespace, true
	}
	return "", false
}

func isDeclaration(attr etree.Attr) bool {
	return attr.Space == "xmlns" || (attr.Space == "" && attr.Key == "xmlns")
}

// namespaceTable records every namespace URI of a document together with the
// prefixes the document used for it, and decides the canonical prefixes.
type namespaceTable struct {
	order   []string
	aliases map[string][]string

	elemURI map[*etree.Element]string
	attrURI map[*etree.Element][]string

	attrUsed            map[string]bool
	unqualifiedElements bool

	elemPrefix map[string]string
	attrPrefix map[string]string
	taken      map[string]string
}

func newNamespaceTable() *namespaceTable {
	return &namespaceTable{
		aliases:    make(map[string][]string),
		elemURI:    make(map[*etree.Element]string),
		attrURI:    make(map[*etree.Element][]string),
		attrUsed:   make(map[string]bool),
		elemPrefix: make(map[string]string),
		attrPrefix: make(map[string]string),
		taken:      map[string]string{"xml": xmlNamespace},
	}
}

func (t *namespaceTable) note(uri, prefix string) {
	known, seen := t.aliases[uri]
	if !seen {
		t.order = append(t.order, uri)
	}
	for _, p := range known {
		if p == prefix {
			return
		}
	}
	t.aliases[uri] = append(known, prefix)
}

// collect resolves the names of el and its descendants against the
// declarations in scope.
func (t *namespaceTable) collect(el *etree.Element, parent *scope) error {
	sc := &scope{parent: parent, bindings: make(map[string]string)}

	for _, attr := range el.Attr {
		if !isDeclaration(attr) {
			continue
		}
		prefix := ""
		if attr.Space == "xmlns" {
			prefix = attr.Key
		}
		uri := attr.Value
		switch {
		case prefix == "xmlns":
			return newParseError(0, "prefix xmlns must not be declared")
		case prefix == "xml":
			if uri != xmlNamespace {
				return newParseError(0, "prefix xml bound to %q", uri)
			}
			continue
		case uri == xmlNamespace || uri == xmlnsNamespace:
			return newParseError(0, "reserved namespace %q bound to prefix %q", uri, prefix)
		case prefix != "" && uri == "":
			return newParseError(0, "prefix %s undeclared on <%s>", prefix, elementName(el))
		}
		sc.bindings[prefix] = uri
		if uri != "" {
			t.note(uri, prefix)
		}
	}

	uri, ok := sc.lookup(el.Space)
	if !ok {
		return newParseError(0, "unbound prefix %s on <%s>", el.Space, elementName(el))
	}
	t.elemURI[el] = uri
	if uri == "" {
		t.unqualifiedElements = true
	}

	uris := make([]string, len(el.Attr))
	seen := make(map[string]struct{}, len(el.Attr))
	for i, attr := range el.Attr {
		if isDeclaration(attr) {
			continue
		}
		attrURI := ""
		if attr.Space != "" {
			attrURI, ok = sc.lookup(attr.Space)
			if !ok {
				return newParseError(0, "unbound prefix %s on attribute %s:%s", attr.Space, attr.Space, attr.Key)
			}
			t.attrUsed[attrURI] = true
		}
		expanded := attrURI + " " + attr.Key
		if _, dup := seen[expanded]; dup {
			return newParseError(0, "attribute {%s}%s redefined on <%s>", attrURI, attr.Key, elementName(el))
		}
		seen[expanded] = struct{}{}
		uris[i] = attrURI
	}
	t.attrURI[el] = uris

	for _, child := range el.ChildElements() {
		if err := t.collect(child, sc); err != nil {
			return err
		}
	}
	return nil
}

func (t *namespaceTable) take(prefix, uri string) bool {
	if _, used := t.taken[prefix]; used {
		return false
	}
	t.taken[prefix] = uri
	return true
}

func (t *namespaceTable) generate(uri string) string {
	for n := 0; ; n++ {
		p := fmt.Sprintf("ns%d", n)
		if t.take(p, uri) {
			return p
		}
	}
}

// assign picks one element prefix and one attribute prefix per URI.
// First-seen aliases win; generated prefixes come last so that a second run
// over canonical output reproduces the same choices.
func (t *namespaceTable) assign() {
	defaultFree := !t.unqualifiedElements

	for _, uri := range t.order {
		for _, p := range t.aliases[uri] {
			if p == "" {
				if defaultFree {
					defaultFree = false
					t.elemPrefix[uri] = ""
					break
				}
				continue
			}
			if t.take(p, uri) {
				t.elemPrefix[uri] = p
				break
			}
		}
	}

	for _, uri := range t.order {
		p, ok := t.elemPrefix[uri]
		if !ok || p != "" || !t.attrUsed[uri] {
			continue
		}
		for _, alias := range t.aliases[uri] {
			if alias != "" && t.take(alias, uri) {
				t.attrPrefix[uri] = alias
				break
			}
		}
	}

	for _, uri := range t.order {
		p, ok := t.elemPrefix[uri]
		if !ok {
			p = t.generate(uri)
			t.elemPrefix[uri] = p
		}
		if p != "" {
			t.attrPrefix[uri] = p
			continue
		}
		if _, ok := t.attrPrefix[uri]; !ok && t.attrUsed[uri] {
			t.attrPrefix[uri] = t.generate(uri)
		}
	}
}

func (t *namespaceTable) prefixFor(uri string, attr bool) string {
	switch uri {
	case "":
		return ""
	case xmlNamespace:
		return "xml"
	}
	if attr {
		return t.attrPrefix[uri]
	}
	return t.elemPrefix[uri]
}

// rewrite renames every element and attribute to its canonical prefix,
// drops all declarations and redeclares the whole table on the root.
func (t *namespaceTable) rewrite(el *etree.Element, root bool) {
	el.Space = t.prefixFor(t.elemURI[el], false)

	uris := t.attrURI[el]
	kept := make([]etree.Attr, 0, len(el.Attr))
	for i, attr := range el.Attr {
		if isDeclaration(attr) {
			continue
		}
		attr.Space = t.prefixFor(uris[i], true)
		kept = append(kept, attr)
	}

	if root {
		el.Attr = nil
		for _, uri := range t.order {
			p := t.elemPrefix[uri]
			if p == "" {
				el.CreateAttr("xmlns", uri)
			} else {
				el.CreateAttr("xmlns:"+p, uri)
			}
			if ap, ok := t.attrPrefix[uri]; ok && ap != p {
				el.CreateAttr("xmlns:"+ap, uri)
			}
		}
		el.Attr = append(el.Attr, kept...)
	} else {
		el.Attr = kept
	}

	for _, child := range el.ChildElements() {
		t.rewrite(child, false)
	}
}

func elementName(el *etree.Element) string {
	if el.Space == "" {
		return el.Tag
	}
	return el.Space + ":" + el.Tag
}
