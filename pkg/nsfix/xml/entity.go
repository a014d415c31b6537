package xml

import (
	"bytes"
	"regexp"
	"strings"
)

// entityDecl matches a general entity with a quoted literal value in an
// internal DTD subset. Parameter entities and external entities do not match.
var entityDecl = regexp.MustCompile(`<!ENTITY\s+([A-Za-z_:][-A-Za-z0-9._:]*)\s+(?:"([^"]*)"|'([^']*)')\s*>`)

var predefinedEntities = map[string]bool{
	"amp": true, "lt": true, "gt": true, "apos": true, "quot": true,
}

// internalEntities returns the text entities declared in a DOCTYPE
// directive. Entities whose value contains markup or further references are
// left out, so referencing them stays a parse error.
func internalEntities(directive []byte) map[string]string {
	if !bytes.HasPrefix(directive, []byte("DOCTYPE")) {
		return nil
	}

	var entities map[string]string
	for _, m := range entityDecl.FindAllSubmatch(directive, -1) {
		name := string(m[1])
		value := string(m[2])
		if m[3] != nil {
			value = string(m[3])
		}
		if predefinedEntities[name] || strings.ContainsAny(value, "<&%") {
			continue
		}
		if entities == nil {
			entities = make(map[string]string)
		}
		// The first declaration of an entity is binding.
		if _, ok := entities[name]; !ok {
			entities[name] = value
		}
	}
	return entities
}
