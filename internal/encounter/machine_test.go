package encounter

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"raidtracker/internal/catalog"
	"raidtracker/internal/domain"
)

type captureCommitter struct {
	attempts []*domain.Attempt
	metaIDs  []uint32
}

func (c *captureCommitter) Commit(_ context.Context, instanceMetaID uint32, attempt *domain.Attempt) error {
	c.metaIDs = append(c.metaIDs, instanceMetaID)
	c.attempts = append(c.attempts, attempt)
	return nil
}

func uint32Ptr(v uint32) *uint32 { return &v }

func newTestMachine() (*Machine, *captureCommitter) {
	store := catalog.NewStatic(
		[]catalog.EncounterNpc{
			{NpcID: 11502, EncounterID: 10, RequiresDeath: true, CanStartEncounter: true},
			{NpcID: 700, EncounterID: 40, RequiresDeath: true, CanStartEncounter: true},
			{NpcID: 701, EncounterID: 40, RequiresDeath: true},
			{NpcID: 600, EncounterID: 30, CanStartEncounter: true},
			{NpcID: 500, EncounterID: 20, RequiresDeath: true, CanStartEncounter: true, IsPivot: true, HealthThresholdPct: uint32Ptr(10)},
			{NpcID: 501, EncounterID: 20, RequiresDeath: true},
			{NpcID: 301, EncounterID: 42, RequiresDeath: true, CanStartEncounter: true},
			{NpcID: 302, EncounterID: 42, RequiresDeath: true},
			{NpcID: 800, EncounterID: 126, RequiresDeath: true, CanStartEncounter: true},
		},
		nil, nil, nil, nil,
	)
	committer := &captureCommitter{}
	return NewMachine(7, store, committer, zerolog.Nop()), committer
}

func npcUnit(npcID uint32) domain.Unit {
	return domain.Unit{UnitID: domain.NpcUnitID(npcID)}
}

func playerUnit(name string) domain.Unit {
	return domain.Unit{UnitID: domain.PlayerUnitID(name), IsPlayer: true}
}

func combatEvent(id, ts uint64, subject domain.Unit, inCombat bool) domain.Event {
	return domain.Event{ID: id, Timestamp: ts, Subject: subject, Kind: domain.CombatState{InCombat: inCombat}}
}

func deathEvent(id, ts uint64, subject domain.Unit) domain.Event {
	return domain.Event{ID: id, Timestamp: ts, Subject: subject, Kind: domain.Death{}}
}

func TestMachine_RequiredDeathCommitsKill(t *testing.T) {
	m, committer := newTestMachine()

	m.ProcessAll(context.Background(), []domain.Event{
		combatEvent(1, 1000, npcUnit(11502), true),
		deathEvent(2, 50001, npcUnit(11502)),
	})

	assert.Len(t, committer.attempts, 1)
	attempt := committer.attempts[0]
	assert.Equal(t, uint32(10), attempt.EncounterID)
	assert.Equal(t, uint64(1000), attempt.StartTs)
	assert.Equal(t, uint64(50001), attempt.EndTs)
	assert.True(t, attempt.IsKill())
	assert.Equal(t, uint32(7), committer.metaIDs[0])
	assert.Empty(t, m.ActiveAttempts())
}

func TestMachine_LastRequiredDeathEndsTheAttempt(t *testing.T) {
	m, committer := newTestMachine()

	m.ProcessAll(context.Background(), []domain.Event{
		combatEvent(1, 0, npcUnit(700), true),
		combatEvent(2, 1000, npcUnit(701), true),
		deathEvent(3, 50000, npcUnit(700)),
		deathEvent(4, 50001, npcUnit(701)),
	})

	assert.Len(t, committer.attempts, 1)
	attempt := committer.attempts[0]
	assert.Equal(t, uint64(0), attempt.StartTs)
	assert.Equal(t, uint64(50001), attempt.EndTs)
	assert.True(t, attempt.IsKill())
}

func TestMachine_CombatEndCommitsWipe(t *testing.T) {
	m, committer := newTestMachine()

	m.ProcessAll(context.Background(), []domain.Event{
		combatEvent(1, 1000, npcUnit(11502), true),
		combatEvent(2, 30000, npcUnit(11502), false),
	})

	assert.Len(t, committer.attempts, 1)
	attempt := committer.attempts[0]
	assert.Equal(t, uint64(30000), attempt.EndTs)
	assert.False(t, attempt.IsKill())
}

func TestMachine_LookAheadDeathSuppressesCombatEnd(t *testing.T) {
	m, committer := newTestMachine()

	m.ProcessAll(context.Background(), []domain.Event{
		combatEvent(1, 1000, npcUnit(11502), true),
		combatEvent(2, 60000, npcUnit(11502), false),
		deathEvent(3, 60400, npcUnit(11502)),
	})

	assert.Len(t, committer.attempts, 1)
	attempt := committer.attempts[0]
	assert.Equal(t, uint64(60400), attempt.EndTs)
	assert.True(t, attempt.IsKill())
}

func TestMachine_LookAheadDeathIgnoredOutsideWindow(t *testing.T) {
	m, committer := newTestMachine()

	m.ProcessAll(context.Background(), []domain.Event{
		combatEvent(1, 1000, npcUnit(11502), true),
		combatEvent(2, 60000, npcUnit(11502), false),
		deathEvent(3, 61500, npcUnit(11502)),
	})

	// The exit commits a wipe, the late death finds no active attempt.
	assert.Len(t, committer.attempts, 1)
	assert.False(t, committer.attempts[0].IsKill())
	assert.Equal(t, uint64(60000), committer.attempts[0].EndTs)
}

func TestMachine_PivotHealthThresholdCommitsKill(t *testing.T) {
	m, committer := newTestMachine()

	m.ProcessAll(context.Background(), []domain.Event{
		combatEvent(1, 1000, npcUnit(500), true),
		{ID: 2, Timestamp: 20000, Subject: npcUnit(500), Kind: domain.Power{Type: domain.PowerHealth, Max: 100, Current: 50}},
		{ID: 3, Timestamp: 40000, Subject: npcUnit(500), Kind: domain.Power{Type: domain.PowerHealth, Max: 100, Current: 5}},
	})

	assert.Len(t, committer.attempts, 1)
	attempt := committer.attempts[0]
	assert.Equal(t, uint64(40000), attempt.EndTs)
	assert.True(t, attempt.IsKill())
}

func TestMachine_PivotHealthHandlesLargePools(t *testing.T) {
	m, committer := newTestMachine()

	m.ProcessAll(context.Background(), []domain.Event{
		combatEvent(1, 1000, npcUnit(500), true),
		{ID: 2, Timestamp: 20000, Subject: npcUnit(500), Kind: domain.Power{Type: domain.PowerHealth, Max: 100000000, Current: 50000000}},
	})

	assert.Empty(t, committer.attempts)
	assert.Len(t, m.ActiveAttempts(), 1)
}

func TestMachine_PivotExitEndsTheAttempt(t *testing.T) {
	m, committer := newTestMachine()

	// The pivot resetting out of combat closes the pull even with
	// another creature and a full raid still tagged infight.
	events := []domain.Event{
		combatEvent(1, 1000, npcUnit(500), true),
		combatEvent(2, 1100, npcUnit(501), true),
	}
	for i := 0; i < 10; i++ {
		events = append(events, combatEvent(uint64(3+i), uint64(1200+i*100), playerUnit(fmt.Sprintf("Raider%d", i)), true))
	}
	events = append(events, combatEvent(13, 30000, npcUnit(500), false))
	m.ProcessAll(context.Background(), events)

	assert.Len(t, committer.attempts, 1)
	attempt := committer.attempts[0]
	assert.Equal(t, uint64(30000), attempt.EndTs)
	assert.False(t, attempt.IsKill())
	assert.Empty(t, m.ActiveAttempts())
}

func TestMachine_PivotDeathWaivesRemainingRequired(t *testing.T) {
	m, committer := newTestMachine()

	// A second required creature of the pivot's encounter is still
	// alive when the pivot dies.
	m.ProcessAll(context.Background(), []domain.Event{
		combatEvent(1, 1000, npcUnit(500), true),
		combatEvent(2, 1100, npcUnit(501), true),
		deathEvent(3, 50000, npcUnit(500)),
	})

	assert.Len(t, committer.attempts, 1)
	assert.True(t, committer.attempts[0].IsKill())
}

func TestMachine_PercentTelemetryDisablesExitHeuristics(t *testing.T) {
	m, committer := newTestMachine()

	m.ProcessAll(context.Background(), []domain.Event{
		combatEvent(1, 1000, npcUnit(11502), true),
		{ID: 2, Timestamp: 2000, Subject: domain.Unit{}, Kind: domain.PercentPlayersInCombat{Percentage: 50}},
		combatEvent(3, 30000, npcUnit(11502), false),
	})
	assert.Empty(t, committer.attempts)

	m.ProcessAll(context.Background(), []domain.Event{
		{ID: 4, Timestamp: 40000, Subject: domain.Unit{}, Kind: domain.PercentPlayersInCombat{Percentage: 0}},
	})

	assert.Len(t, committer.attempts, 1)
	assert.Equal(t, uint64(40000), committer.attempts[0].EndTs)
	assert.False(t, committer.attempts[0].IsKill())
}

func TestMachine_PlayerExitCommitsKill(t *testing.T) {
	m, committer := newTestMachine()

	// Encounter 30 has no required deaths, so a drained fight counts
	// as a kill even with its creature still tagged in combat.
	m.ProcessAll(context.Background(), []domain.Event{
		combatEvent(1, 1000, npcUnit(600), true),
		combatEvent(2, 2000, playerUnit("Thrall"), true),
		combatEvent(3, 20000, playerUnit("Thrall"), false),
	})

	assert.Len(t, committer.attempts, 1)
	attempt := committer.attempts[0]
	assert.Equal(t, uint32(30), attempt.EncounterID)
	assert.Equal(t, uint64(20000), attempt.EndTs)
	assert.True(t, attempt.IsKill())
}

func TestMachine_PlayerExitCommitsWipeOnceRaidDrains(t *testing.T) {
	m, committer := newTestMachine()

	events := []domain.Event{
		combatEvent(1, 1000, npcUnit(11502), true),
	}
	for i := 0; i < 6; i++ {
		events = append(events, combatEvent(uint64(2+i), uint64(1100+i*100), playerUnit(fmt.Sprintf("Raider%d", i)), true))
	}
	// With six players infight the creature exit is not treated as a
	// combat end.
	events = append(events,
		combatEvent(8, 30000, npcUnit(11502), false),
		combatEvent(9, 31000, playerUnit("Raider0"), false),
	)
	m.ProcessAll(context.Background(), events)

	assert.Len(t, committer.attempts, 1)
	attempt := committer.attempts[0]
	assert.Equal(t, uint64(31000), attempt.EndTs)
	assert.False(t, attempt.IsKill())
}

func TestMachine_AddPhaseGraceDelaysWipeCommit(t *testing.T) {
	m, committer := newTestMachine()

	events := []domain.Event{
		combatEvent(1, 1000, npcUnit(301), true),
	}
	for i := 0; i < 6; i++ {
		events = append(events, combatEvent(uint64(2+i), uint64(1100+i*100), playerUnit(fmt.Sprintf("Raider%d", i)), true))
	}
	events = append(events,
		deathEvent(8, 50000, npcUnit(301)),
		combatEvent(9, 50001, npcUnit(301), false),
		// Inside the grace window after the add death: no commit.
		combatEvent(10, 52000, playerUnit("Raider0"), false),
	)
	m.ProcessAll(context.Background(), events)
	assert.Empty(t, committer.attempts)

	m.ProcessAll(context.Background(), []domain.Event{
		combatEvent(11, 81000, playerUnit("Raider1"), false),
	})

	assert.Len(t, committer.attempts, 1)
	attempt := committer.attempts[0]
	assert.Equal(t, uint32(42), attempt.EncounterID)
	assert.Equal(t, uint64(81000), attempt.EndTs)
	assert.False(t, attempt.IsKill())
}

func TestMachine_AddPhaseSeedsRequiredDeathsUpFront(t *testing.T) {
	m, committer := newTestMachine()

	// Only the first add has been seen, yet killing it alone must not
	// finish the encounter.
	m.ProcessAll(context.Background(), []domain.Event{
		combatEvent(1, 1000, npcUnit(301), true),
		deathEvent(2, 50000, npcUnit(301)),
	})
	assert.Empty(t, committer.attempts)

	m.ProcessAll(context.Background(), []domain.Event{
		deathEvent(3, 90000, npcUnit(302)),
	})

	assert.Len(t, committer.attempts, 1)
	assert.True(t, committer.attempts[0].IsKill())
}

func TestMachine_DamageCreditedToVictimEncounter(t *testing.T) {
	m, _ := newTestMachine()
	jaina := playerUnit("Jaina")

	m.ProcessAll(context.Background(), []domain.Event{
		combatEvent(1, 1000, npcUnit(11502), true),
		combatEvent(2, 1100, npcUnit(700), true),
		{ID: 3, Timestamp: 2000, Subject: jaina, Kind: domain.SpellDamage{Damage: domain.Damage{
			Victim:     npcUnit(11502),
			Components: []domain.DamageComponent{{Amount: 300}},
		}}},
		{ID: 4, Timestamp: 2100, Subject: jaina, Kind: domain.Threat{Threatened: npcUnit(11502), Amount: 450}},
		{ID: 5, Timestamp: 2200, Subject: jaina, Kind: domain.Threat{Threatened: npcUnit(11502), Amount: -50}},
	})

	first := m.ActiveAttempts()[10]
	second := m.ActiveAttempts()[40]
	assert.Equal(t, uint64(300), first.RankingDamage[jaina.UnitID])
	assert.Equal(t, uint64(450), first.RankingThreat[jaina.UnitID])
	assert.Empty(t, second.RankingDamage)
	assert.Empty(t, second.RankingThreat)
}

func TestMachine_HealCreditedToEveryActiveAttempt(t *testing.T) {
	m, _ := newTestMachine()
	uther := playerUnit("Uther")

	m.ProcessAll(context.Background(), []domain.Event{
		combatEvent(1, 1000, npcUnit(11502), true),
		combatEvent(2, 1100, npcUnit(700), true),
		{ID: 3, Timestamp: 2000, Subject: uther, Kind: domain.Heal{Target: playerUnit("Thrall"), Total: 800, Effective: 500}},
	})

	assert.Equal(t, uint64(500), m.ActiveAttempts()[10].RankingHeal[uther.UnitID])
	assert.Equal(t, uint64(500), m.ActiveAttempts()[40].RankingHeal[uther.UnitID])
}

func TestMachine_PetDamageCreditedToOwner(t *testing.T) {
	m, _ := newTestMachine()
	rexxar := playerUnit("Rexxar")
	pet := domain.Unit{UnitID: domain.PlayerUnitID("Bitey")}

	m.ProcessAll(context.Background(), []domain.Event{
		combatEvent(1, 1000, npcUnit(11502), true),
		{ID: 2, Timestamp: 1500, Subject: pet, Kind: domain.Summon{Owner: rexxar}},
		{ID: 3, Timestamp: 2000, Subject: pet, Kind: domain.MeleeDamage{Damage: domain.Damage{
			Victim:     npcUnit(11502),
			Components: []domain.DamageComponent{{Amount: 120}},
		}}},
	})

	attempt := m.ActiveAttempts()[10]
	assert.Equal(t, uint64(120), attempt.RankingDamage[rexxar.UnitID])
	assert.NotContains(t, attempt.RankingDamage, pet.UnitID)
}

func TestMachine_NonStarterCannotOpenAttempt(t *testing.T) {
	m, _ := newTestMachine()

	m.ProcessAll(context.Background(), []domain.Event{
		combatEvent(1, 1000, npcUnit(302), true),
	})

	assert.Empty(t, m.ActiveAttempts())
}

func TestMachine_KeeperAuraRecordedForYoggAttempt(t *testing.T) {
	m, _ := newTestMachine()

	m.ProcessAll(context.Background(), []domain.Event{
		combatEvent(1, 1000, npcUnit(800), true),
		{ID: 2, Timestamp: 2000, Subject: playerUnit("Thrall"), Kind: domain.AuraApplication{SpellID: 62670, Stacks: 1, Delta: 1}},
		{ID: 3, Timestamp: 2100, Subject: playerUnit("Thrall"), Kind: domain.AuraApplication{SpellID: 12345, Stacks: 1, Delta: 1}},
	})

	attempt := m.ActiveAttempts()[126]
	assert.Contains(t, attempt.HardModeFoundBuffs, uint32(62670))
	assert.NotContains(t, attempt.HardModeFoundBuffs, uint32(12345))
}
