package xml

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternalEntities(t *testing.T) {
	got := internalEntities([]byte(`DOCTYPE r [` +
		`<!ENTITY a "one"><!ENTITY b 'two'><!ENTITY a "again">` +
		`<!ENTITY % p "param"><!ENTITY ext SYSTEM "x.ent">` +
		`<!ENTITY mk "<b/>"><!ENTITY ref "&a;"><!ENTITY lt "x">]`))
	assert.Equal(t, map[string]string{"a": "one", "b": "two"}, got)

	assert.Nil(t, internalEntities([]byte(`ELEMENT r ANY`)))
}
