package xml

import (
	"bytes"
	"encoding/xml"
	"io"

	"golang.org/x/net/html/charset"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// newDecoder returns a strict decoder that understands declared charsets
func newDecoder(data []byte) *xml.Decoder {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true
	dec.CharsetReader = charset.NewReaderLabel
	return dec
}

// checkWellFormed walks the raw token stream and rejects anything a strict
// XML parser would refuse. RawToken leaves tag matching and document
// structure to the caller, so both are checked here. It returns the text
// entities declared in the internal DTD subset.
func checkWellFormed(data []byte) (map[string]string, error) {
	dec := newDecoder(data)

	var stack []xml.Name
	roots := 0
	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		line, _ := dec.InputPos()
		if err != nil {
			return nil, &ParseError{Line: line, Cause: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 {
				roots++
				if roots > 1 {
					return nil, newParseError(line, "content after root element: <%s>", qname(t.Name))
				}
			}
			if err := checkAttrs(line, t); err != nil {
				return nil, err
			}
			stack = append(stack, t.Name)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, newParseError(line, "unexpected end element </%s>", qname(t.Name))
			}
			top := stack[len(stack)-1]
			if top != t.Name {
				return nil, newParseError(line, "element <%s> closed by </%s>", qname(top), qname(t.Name))
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 && len(bytes.TrimSpace(t)) > 0 {
				return nil, newParseError(line, "text outside root element")
			}
		case xml.Directive:
			if roots == 0 && dec.Entity == nil {
				dec.Entity = internalEntities(t)
			}
		}
	}

	line, _ := dec.InputPos()
	if len(stack) > 0 {
		return nil, newParseError(line, "unclosed element <%s>", qname(stack[len(stack)-1]))
	}
	if roots == 0 {
		return nil, newParseError(line, "no root element")
	}
	return dec.Entity, nil
}

// checkAttrs rejects literal duplicates such as two xmlns:hp on one element.
// Duplicates that only collide after prefix resolution are caught later.
func checkAttrs(line int, start xml.StartElement) error {
	seen := make(map[xml.Name]struct{}, len(start.Attr))
	for _, attr := range start.Attr {
		if _, dup := seen[attr.Name]; dup {
			return newParseError(line, "attribute %s redefined on <%s>", qname(attr.Name), qname(start.Name))
		}
		seen[attr.Name] = struct{}{}
	}
	return nil
}

func qname(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
