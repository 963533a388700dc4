package parser

import (
	"regexp"
	"strconv"

	"raidtracker/internal/domain"
)

// The trailer is the optional parenthesized clause after a damage
// amount, e.g. "(12 blocked) (30 resisted)" or "(glancing)".
var reTrailer = regexp.MustCompile(`\((?:(\d+) )?(blocked|resisted|absorbed|crushing|glancing)\)`)

type trailerPart struct {
	amount  uint32
	hitType uint32
}

func parseTrailer(s string) []trailerPart {
	if s == "" {
		return nil
	}
	var parts []trailerPart
	for _, m := range reTrailer.FindAllStringSubmatch(s, -1) {
		var amount uint64
		if m[1] != "" {
			amount, _ = strconv.ParseUint(m[1], 10, 32)
		}
		var hitType uint32
		switch m[2] {
		case "blocked":
			hitType = domain.HitPartialBlock
		case "resisted":
			hitType = domain.HitPartialResist
		case "absorbed":
			hitType = domain.HitPartialAbsorb
		case "crushing":
			hitType = domain.HitCrushing
		case "glancing":
			hitType = domain.HitGlancing
		}
		parts = append(parts, trailerPart{amount: uint32(amount), hitType: hitType})
	}
	return parts
}

func trailerMask(parts []trailerPart) uint32 {
	var mask uint32
	for _, part := range parts {
		mask |= part.hitType
	}
	return mask
}

func trailerAmount(parts []trailerPart, hitType uint32) uint32 {
	for _, part := range parts {
		if part.hitType == hitType {
			return part.amount
		}
	}
	return 0
}
