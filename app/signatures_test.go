package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogClassify(t *testing.T) {
	c := NewCatalog()

	verdict, label := c.Classify("f1d630c48928096a484e4b95ccb162a0")
	assert.Equal(t, VerdictVulnerable, verdict)
	assert.Equal(t, "log4j 2.14.0 - 2.14.1", label)

	verdict, label = c.Classify("5d253e53fa993e122ff012221aa49ec3")
	assert.Equal(t, VerdictGood, verdict)
	assert.Equal(t, "log4j 2.15.0", label)

	verdict, label = c.Classify("00000000000000000000000000000000")
	assert.Equal(t, VerdictUnknown, verdict)
	assert.Equal(t, "", label)
}

func TestCatalogAllow(t *testing.T) {
	c := NewCatalog()

	c.Allow("DEADBEEFDEADBEEFDEADBEEFDEADBEEF", "allowed")

	verdict, label := c.Classify("deadbeefdeadbeefdeadbeefdeadbeef")
	assert.Equal(t, VerdictGood, verdict)
	assert.Equal(t, "allowed", label)
}

func TestCatalogAllowDoesNotOverrideBad(t *testing.T) {
	c := NewCatalog()

	// a hash present in the bad table stays vulnerable even when allowed
	c.Allow("f1d630c48928096a484e4b95ccb162a0", "allowed")

	verdict, _ := c.Classify("f1d630c48928096a484e4b95ccb162a0")
	assert.Equal(t, VerdictVulnerable, verdict)
}
