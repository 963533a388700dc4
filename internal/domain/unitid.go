package domain

import (
	"math/bits"

	"github.com/cespare/xxhash/v2"
)

// npcUnitPrefix reserves the high bits of the unit id space for
// non-player actors so they cannot collide with hashed player names.
const npcUnitPrefix uint64 = 0xF130000000000000

// PlayerUnitID hashes a raw player name into the 64 bit unit id space.
// Identical raw references always yield the same id within a session.
func PlayerUnitID(name string) uint64 {
	return xxhash.Sum64String(name)
}

// NpcUnitID encodes an NPC catalog id into the reserved unit id range.
func NpcUnitID(npcID uint32) uint64 {
	return npcUnitPrefix + bits.RotateLeft64(uint64(npcID), 24)
}

// NpcID reverses NpcUnitID. The second return value is false for
// player unit ids.
func NpcID(unitID uint64) (uint32, bool) {
	if !IsNpcUnitID(unitID) {
		return 0, false
	}
	return uint32(bits.RotateLeft64(unitID-npcUnitPrefix, 40)), true
}

func IsNpcUnitID(unitID uint64) bool {
	return unitID&npcUnitPrefix == npcUnitPrefix
}
