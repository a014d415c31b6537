package xml

import (
	"bytes"
	"fmt"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// Declaration is written at the top of every canonical part.
const Declaration = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// Canonicalize parses data as an XML document and returns its canonical
// serialization. It returns a *ParseError if data is not well-formed XML.
func Canonicalize(data []byte) ([]byte, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	entities, err := checkWellFormed(data)
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	doc.ReadSettings.PreserveCData = true
	doc.ReadSettings.Entity = entities
	doc.WriteSettings.CanonicalText = true
	doc.WriteSettings.CanonicalAttrVal = true
	if err := doc.ReadFromBytes(normalizeAttrValues(data)); err != nil {
		return nil, &ParseError{Message: "read tree", Cause: err}
	}

	root := doc.Root()
	if root == nil {
		return nil, newParseError(0, "no root element")
	}

	table := newNamespaceTable()
	if err := table.collect(root, nil); err != nil {
		return nil, err
	}
	table.assign()
	table.rewrite(root, true)

	stripProlog(doc)

	body, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize document: %w", err)
	}

	out := make([]byte, 0, len(Declaration)+len(body))
	out = append(out, Declaration...)
	return append(out, body...), nil
}

// stripProlog removes the original XML declaration and the whitespace
// between top-level nodes. Comments, other processing instructions and the
// doctype are kept.
func stripProlog(doc *etree.Document) {
	kept := make([]etree.Token, 0, len(doc.Child))
	for _, tok := range doc.Child {
		switch t := tok.(type) {
		case *etree.ProcInst:
			if t.Target == "xml" {
				continue
			}
		case *etree.CharData:
			continue
		}
		kept = append(kept, tok)
	}
	doc.Child = kept
}

// probeDocument exercises every rule of the canonical form: a nested
// redeclaration, a second prefix for a known URI, a default namespace with
// a qualified attribute, and an xml: attribute.
const probeDocument = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<hh:head xmlns:hh="urn:probe:head" xmlns="urn:probe:default">
  <hh:item xmlns:hh="urn:probe:head" xmlns:h2="urn:probe:head" h2:id="1" xml:lang="ko">
    <child/>
  </hh:item>
</hh:head>`

// Probe verifies that the canonical serializer works in this build. A
// failing probe means no part can be normalized.
func Probe() error {
	first, err := Canonicalize([]byte(probeDocument))
	if err != nil {
		return fmt.Errorf("canonicalize probe document: %w", err)
	}
	second, err := Canonicalize(first)
	if err != nil {
		return fmt.Errorf("re-parse canonical probe document: %w", err)
	}
	if !bytes.Equal(first, second) {
		return fmt.Errorf("canonical form of probe document is not stable")
	}
	return nil
}
