package internal

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConcat2(t *testing.T) {
	assert := assert.New(t)

	a := map[string]int{"one": 1}
	b := map[string]int{"two": 2, "three": 3}

	all := maps.Collect(Concat2(maps.All(a), maps.All(b)))
	assert.Equal(map[string]int{"one": 1, "two": 2, "three": 3}, all)

	count := 0
	for range Concat2(maps.All(b), maps.All(a)) {
		count++
		break
	}
	assert.Equal(1, count)
}
