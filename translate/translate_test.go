package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	assert.NoError(SetLanguage("en-US"))
	assert.Equal("pc 0x200", From("pc %#x", 0x200))
	assert.Equal("stack overflow", From("stack overflow"))
}

func TestSetLanguage_Invalid(t *testing.T) {
	assert := assert.New(t)

	assert.Error(SetLanguage("not a language tag!"))
}
