package tracker

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"raidtracker/internal/domain"
)

func TestApplySnapshot_SeedsNewParticipant(t *testing.T) {
	tr := New(zerolog.Nop())

	tr.ApplySnapshot(CombatantSnapshot{
		Timestamp: 1000,
		Name:      "Jaina",
		ClassID:   8,
		RaceID:    1,
		GenderID:  2,
		Guild:     &domain.Guild{Name: "Kirin Tor", RankName: "Archmage", RankIndex: 0},
		Talents:   "51|0|0",
	})

	p, ok := tr.Participant(domain.PlayerUnitID("Jaina"))
	assert.True(t, ok)
	assert.Equal(t, uint8(8), p.ClassID)
	assert.Equal(t, uint8(1), p.RaceID)
	assert.Equal(t, uint8(2), p.GenderID)
	assert.Equal(t, "Kirin Tor", p.Guild.Name)
	assert.Equal(t, "51|0|0", p.TalentsAt(1000))
}

func TestApplySnapshot_IdentityIsFirstWriteWins(t *testing.T) {
	tr := New(zerolog.Nop())

	tr.ApplySnapshot(CombatantSnapshot{Timestamp: 1000, Name: "Jaina", ClassID: 8})
	tr.ApplySnapshot(CombatantSnapshot{Timestamp: 2000, Name: "Jaina", ClassID: 5, RaceID: 1})

	p, _ := tr.Participant(domain.PlayerUnitID("Jaina"))
	assert.Equal(t, uint8(8), p.ClassID)
	assert.Equal(t, uint8(1), p.RaceID)
}

func TestApplySnapshot_AllNilGearIsDropped(t *testing.T) {
	tr := New(zerolog.Nop())

	tr.ApplySnapshot(CombatantSnapshot{
		Timestamp: 1000,
		Name:      "Jaina",
		Gear:      make([]*domain.GearItem, 19),
	})

	p, _ := tr.Participant(domain.PlayerUnitID("Jaina"))
	assert.Empty(t, p.GearSetups)
}

func TestApplySnapshot_GearHistoryAppends(t *testing.T) {
	tr := New(zerolog.Nop())

	gear := make([]*domain.GearItem, 19)
	gear[0] = &domain.GearItem{ItemID: 12345, EnchantID: 100}
	tr.ApplySnapshot(CombatantSnapshot{Timestamp: 1000, Name: "Jaina", Gear: gear})
	tr.ApplySnapshot(CombatantSnapshot{Timestamp: 2000, Name: "Jaina", Gear: gear})

	p, _ := tr.Participant(domain.PlayerUnitID("Jaina"))
	assert.Len(t, p.GearSetups, 2)
	assert.Equal(t, uint64(1000), p.GearSetups[0].Timestamp)
}
