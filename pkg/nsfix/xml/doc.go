// Package xml provides the canonical XML serializer used to normalize the XML
// parts of an HWPX container.
//
// HWPX parts are edited in the wild by raw text substitution on the ZIP
// members. Those edits leave namespace declarations duplicated on nested
// elements, bind the same URI to several prefixes, or drop declarations that
// are still in use. Canonicalize parses a part strictly into a tree and prints
// it back with one namespace discipline applied to the whole document.
//
// # Canonical form
//
// The output of Canonicalize is:
//
//   - UTF-8 encoded, without a byte order mark
//   - preceded by the declaration <?xml version="1.0" encoding="UTF-8"?> and a newline
//   - free of whitespace outside the root element
//   - declaring every namespace exactly once, on the root element, in the
//     order the URIs first appear in the input
//
// Each namespace URI keeps the first prefix the input used for it. When that
// prefix is already bound to a different URI, the next unused alias the input
// used for the URI is tried, and then a generated prefix of the form ns0, ns1.
// A default namespace stays the default unless the document also contains
// elements in no namespace. Attributes never use the default namespace, so
// attributes in the default URI get their own prefix.
//
// Literal tabs, newlines and carriage returns inside attribute values are
// normalized to spaces. Character references are kept as references.
//
// Canonical output is a fixed point: Canonicalize(Canonicalize(x)) returns
// the same bytes as Canonicalize(x).
//
// # Strictness
//
// Inputs are rejected with a *ParseError when they are not well-formed:
// unbalanced or mismatched tags, content after the root, no root at all,
// duplicate attributes, unbound prefixes, or undeclared entities. Text
// entities declared in the internal DTD subset are expanded; entities with
// markup in their value and external entities are not. Callers
// decide what to do with a rejected part; the nsfix transcoder copies it
// through unchanged.
//
// Parts that declare a non-UTF-8 encoding are decoded through
// golang.org/x/net/html/charset and written back as UTF-8.
package xml
