package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"raidtracker/internal/domain"
)

func TestParseTrailer_AmountsAndFlags(t *testing.T) {
	parts := parseTrailer("(12 blocked) (30 resisted) (glancing)")

	assert.Len(t, parts, 3)
	assert.Equal(t, domain.HitPartialBlock|domain.HitPartialResist|domain.HitGlancing, trailerMask(parts))
	assert.Equal(t, uint32(12), trailerAmount(parts, domain.HitPartialBlock))
	assert.Equal(t, uint32(30), trailerAmount(parts, domain.HitPartialResist))
	assert.Equal(t, uint32(0), trailerAmount(parts, domain.HitGlancing))
}

func TestParseTrailer_Empty(t *testing.T) {
	assert.Nil(t, parseTrailer(""))
	assert.Equal(t, uint32(0), trailerMask(nil))
}

func TestParseTrailer_Crushing(t *testing.T) {
	parts := parseTrailer("(crushing)")
	assert.Equal(t, domain.HitCrushing, trailerMask(parts))
}
