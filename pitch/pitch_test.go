package pitch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromMidi(t *testing.T) {
	cases := map[uint8]string{
		60: "c",
		61: "cis",
		72: "c'",
		84: "c''",
		48: "c,",
		36: "c,,",
		69: "a",
		58: "ais,",
	}
	assert := assert.New(t)
	for note, want := range cases {
		assert.Equal(want, FromMidi(note), "midi %d", note)
	}
}

func TestClass(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("cis", Class("cis'"))
	assert.Equal("c", Class("c,,"))
	assert.Equal("b", Class("b"))
}

func TestSameClassIgnoresOctave(t *testing.T) {
	assert := assert.New(t)
	assert.True(SameClass("c'", "c,"))
	assert.True(SameClass("fis", "fis''"))
	assert.False(SameClass("c", "cis"))
}
