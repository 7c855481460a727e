package naming

import (
	"bytes"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_NamesAreUnique(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	p := NewPool(rng, []string{"Ada", "Bo", "Cy"})

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		name := p.Next()
		require.False(t, seen[name], "name %q handed out twice", name)
		seen[name] = true
	}
	assert.True(t, seen["Ada"])
	assert.True(t, seen["Bo"])
	assert.True(t, seen["Cy"])
}

func TestPool_ClaimAndReset(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	p := NewPool(rng, []string{"Ada"})
	p.Claim("Ada")
	assert.Equal(t, "Ada 2", p.Next())

	p.Reset()
	assert.Equal(t, "Ada", p.Next())
}

func TestIDGenerator(t *testing.T) {
	seeded := func() *IDGenerator {
		return NewIDGenerator(bytes.NewReader(bytes.Repeat([]byte{0xAB}, 64)))
	}
	a, b := seeded().New("desk"), seeded().New("desk")
	assert.Equal(t, a, b, "same entropy should yield the same id")
	assert.True(t, strings.HasPrefix(a, "desk-"))

	g := NewIDGenerator(nil)
	assert.NotEqual(t, g.New("worker"), g.New("worker"))
}
