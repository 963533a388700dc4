package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlayerUnitID_Deterministic(t *testing.T) {
	assert.Equal(t, PlayerUnitID("Jaina"), PlayerUnitID("Jaina"))
	assert.NotEqual(t, PlayerUnitID("Jaina"), PlayerUnitID("Thrall"))
}

func TestNpcUnitID_RoundTrip(t *testing.T) {
	for _, npcID := range []uint32{1, 15263, 33113, 4294967295} {
		unitID := NpcUnitID(npcID)
		decoded, ok := NpcID(unitID)
		assert.True(t, ok)
		assert.Equal(t, npcID, decoded)
	}
}

func TestNpcUnitID_CarriesPrefix(t *testing.T) {
	assert.True(t, IsNpcUnitID(NpcUnitID(15263)))
}

func TestNpcID_RejectsPlayerIDs(t *testing.T) {
	for _, name := range []string{"Jaina", "Thrall", "Uther"} {
		id := PlayerUnitID(name)
		if IsNpcUnitID(id) {
			// A hash may land in the reserved range by chance; these
			// fixed names do not.
			t.Fatalf("player id %q unexpectedly carries the npc prefix", name)
		}
		_, ok := NpcID(id)
		assert.False(t, ok)
	}
}

func TestAttempt_IsKill(t *testing.T) {
	a := NewAttempt(43, 1000, false)
	assert.True(t, a.IsKill())

	a.CreaturesRequiredToDie[NpcUnitID(100)] = struct{}{}
	assert.False(t, a.IsKill())

	delete(a.CreaturesRequiredToDie, NpcUnitID(100))
	assert.True(t, a.IsKill())
}

func TestAttempt_PivotGatesKill(t *testing.T) {
	a := NewAttempt(43, 1000, true)
	assert.False(t, a.IsKill())

	a.CreaturesRequiredToDie[NpcUnitID(100)] = struct{}{}
	a.FinishPivot()

	// Finishing the pivot waives remaining death requirements.
	assert.Empty(t, a.CreaturesRequiredToDie)
	assert.True(t, a.IsKill())
}
