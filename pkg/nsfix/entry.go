package nsfix

import (
	"bytes"

	nsxml "github.com/benjaminschreck/go-nsfix/pkg/nsfix/xml"
)

// EntryKind tells how an entry's output payload was obtained
type EntryKind int

const (
	// Passthrough entries are not XML and are copied verbatim.
	Passthrough EntryKind = iota
	// Reserialized entries are XML parts replaced by their canonical form.
	Reserialized
	// KeptOriginal entries are XML parts that failed to parse and are copied verbatim.
	KeptOriginal
)

func (k EntryKind) String() string {
	switch k {
	case Passthrough:
		return "passthrough"
	case Reserialized:
		return "reserialized"
	case KeptOriginal:
		return "kept-original"
	default:
		return "unknown"
	}
}

// EntryResult is the outcome of transforming one archive entry
type EntryResult struct {
	Name    string
	Kind    EntryKind
	Payload []byte
	// Changed is set for Reserialized entries whose bytes differ from the input.
	Changed bool
	// Reason is set for KeptOriginal entries.
	Reason error
}

// canonicalizer turns XML bytes into their canonical form
type canonicalizer func([]byte) ([]byte, error)

// transformEntry classifies an entry and applies the XML transform to it.
// It never fails: parse errors degrade to KeptOriginal.
func transformEntry(name string, data []byte, canon canonicalizer) EntryResult {
	if !IsXMLPart(name) {
		return EntryResult{Name: name, Kind: Passthrough, Payload: data}
	}

	fixed, err := canon(data)
	if err != nil {
		return EntryResult{Name: name, Kind: KeptOriginal, Payload: data, Reason: err}
	}

	return EntryResult{
		Name:    name,
		Kind:    Reserialized,
		Payload: fixed,
		Changed: !bytes.Equal(fixed, data),
	}
}

// TransformPart applies the transcoder's per-entry transform to one payload
// using the canonical XML serializer.
func TransformPart(name string, data []byte) EntryResult {
	return transformEntry(name, data, nsxml.Canonicalize)
}
