// Package encounter segments the ordered event stream of an instance
// into attempts, classifies kills, aggregates per-character rankings
// and commits finished attempts.
package encounter

import (
	"context"

	"github.com/rs/zerolog"

	"raidtracker/internal/catalog"
	"raidtracker/internal/constants"
	"raidtracker/internal/domain"
)

// Prophet Skeram spawns clones of himself; the real one's death ends
// the fight no matter which copy was tagged as pivot.
const skeramNpcID = 15263

// Encounters that open with an add phase. Their attempts pre-seed the
// full required-death set on start and suppress player-exit commits
// right after a creature death.
var addPhaseEncounters = map[uint32]struct{}{
	17: {}, 22: {}, 29: {}, 42: {}, 46: {}, 54: {}, 57: {},
}

// Committer persists a terminated attempt.
type Committer interface {
	Commit(ctx context.Context, instanceMetaID uint32, attempt *domain.Attempt) error
}

// Machine runs attempt detection for one instance. Events must arrive
// in increasing id/timestamp order; all state is mutated synchronously
// during dispatch.
type Machine struct {
	instanceMetaID uint32
	catalog        catalog.Store
	committer      Committer
	logger         zerolog.Logger

	active   map[uint32]*domain.Attempt
	petOwner map[uint64]uint64

	// Once percent-in-combat telemetry is seen it is authoritative
	// for this instance and the exit heuristics stay disabled.
	percentAuthoritative bool
	prevPercent          uint32
}

func NewMachine(instanceMetaID uint32, store catalog.Store, committer Committer, logger zerolog.Logger) *Machine {
	return &Machine{
		instanceMetaID: instanceMetaID,
		catalog:        store,
		committer:      committer,
		logger:         logger.With().Uint32("instance_meta_id", instanceMetaID).Logger(),
		active:         make(map[uint32]*domain.Attempt),
		petOwner:       make(map[uint64]uint64),
	}
}

// ActiveAttempts exposes the live attempts, keyed by encounter id.
func (m *Machine) ActiveAttempts() map[uint32]*domain.Attempt {
	return m.active
}

// ProcessAll dispatches a buffered, ordered batch of events.
func (m *Machine) ProcessAll(ctx context.Context, events []domain.Event) {
	for i := range events {
		m.process(ctx, events, i)
	}
}

func (m *Machine) process(ctx context.Context, events []domain.Event, i int) {
	event := &events[i]

	if pct, ok := event.Kind.(domain.PercentPlayersInCombat); ok {
		m.percentAuthoritative = true
		if pct.Percentage == 0 && m.prevPercent > 0 {
			for encounterID, attempt := range m.active {
				delete(m.active, encounterID)
				attempt.EndTs = event.Timestamp
				m.logger.Debug().Uint32("encounter_id", encounterID).Uint64("ts", event.Timestamp).
					Msg("committing attempt, percent players in combat dropped to zero")
				m.commit(ctx, attempt)
			}
		}
		m.prevPercent = pct.Percentage
		return
	}

	if summon, ok := event.Kind.(domain.Summon); ok {
		m.petOwner[event.Subject.UnitID] = summon.Owner.UnitID
	}

	if event.Subject.IsPlayer {
		m.processPlayer(ctx, event)
	} else {
		m.processCreature(ctx, events, i)
	}

	m.processRanking(event)
}

func (m *Machine) processCreature(ctx context.Context, events []domain.Event, i int) {
	event := &events[i]
	creatureID := event.Subject.UnitID

	// Player controlled vehicles count into the infight tally of
	// every live attempt.
	if state, ok := event.Kind.(domain.CombatState); ok && m.isPlayerControlled(event.Subject) {
		for _, attempt := range m.active {
			if state.InCombat {
				attempt.InfightVehicles[creatureID] = struct{}{}
			} else {
				delete(attempt.InfightVehicles, creatureID)
			}
		}
	}

	npcID, ok := domain.NpcID(creatureID)
	if !ok {
		return
	}
	encounterNpc, ok := m.catalog.EncounterNpc(npcID)
	if !ok {
		return
	}

	switch kind := event.Kind.(type) {
	case domain.CombatState:
		if kind.InCombat {
			m.creatureEnteredCombat(event, encounterNpc)
		} else {
			m.creatureLeftCombat(ctx, events, i, encounterNpc)
		}
	case domain.Death:
		m.creatureDied(ctx, event, encounterNpc)
	case domain.Power:
		m.pivotHealthUpdate(ctx, event, encounterNpc, kind)
	}
}

func (m *Machine) creatureEnteredCombat(event *domain.Event, encounterNpc catalog.EncounterNpc) {
	creatureID := event.Subject.UnitID
	attempt, exists := m.active[encounterNpc.EncounterID]
	if !exists && !encounterNpc.CanStartEncounter {
		return
	}
	if !exists {
		attempt = domain.NewAttempt(encounterNpc.EncounterID, event.Timestamp, m.catalog.EncounterHasPivot(encounterNpc.EncounterID))
		m.active[encounterNpc.EncounterID] = attempt
		m.logger.Debug().Uint32("encounter_id", encounterNpc.EncounterID).Uint32("npc_id", encounterNpc.NpcID).
			Uint64("ts", event.Timestamp).Msg("attempt started")

		// Add-phase fights begin before their boss shows up, so the
		// required deaths are seeded from the catalog up front.
		if _, ok := addPhaseEncounters[encounterNpc.EncounterID]; ok {
			for _, requiredNpcID := range m.catalog.RequiredDeathNpcIDs(encounterNpc.EncounterID) {
				attempt.CreaturesRequiredToDie[domain.NpcUnitID(requiredNpcID)] = struct{}{}
			}
		}
	}

	if encounterNpc.RequiresDeath {
		attempt.CreaturesRequiredToDie[creatureID] = struct{}{}
	}
	attempt.CreaturesInCombat[creatureID] = struct{}{}
	if encounterNpc.IsPivot {
		attempt.SetPivot(creatureID)
	}
}

func (m *Machine) creatureLeftCombat(ctx context.Context, events []domain.Event, i int, encounterNpc catalog.EncounterNpc) {
	event := &events[i]
	creatureID := event.Subject.UnitID
	attempt, ok := m.active[encounterNpc.EncounterID]
	if !ok {
		return
	}
	delete(attempt.CreaturesInCombat, creatureID)

	emptied := len(attempt.CreaturesInCombat) == 0 &&
		len(attempt.InfightPlayers) <= constants.KillMinInfightUnits &&
		len(attempt.InfightVehicles) <= constants.KillMinInfightUnits
	// The pivot leaving combat ends the attempt on its own: a pivot
	// drop means the boss evaded or reset, even while adds and players
	// are still tagged infight. Death within the look-ahead window
	// still wins below.
	isPivot := attempt.HasPivotCreature && attempt.PivotCreature == creatureID

	_, stillRequired := attempt.CreaturesRequiredToDie[creatureID]
	deathImminent := encounterNpc.RequiresDeath && len(attempt.CreaturesRequiredToDie) > 0 &&
		stillRequired && lookAheadDeath(events, i, creatureID)

	if m.percentAuthoritative {
		return
	}
	if (emptied || isPivot) && !deathImminent {
		delete(m.active, encounterNpc.EncounterID)
		attempt.EndTs = event.Timestamp
		m.logger.Debug().Uint32("encounter_id", encounterNpc.EncounterID).Uint32("npc_id", encounterNpc.NpcID).
			Uint64("ts", event.Timestamp).Msg("committing attempt, combat ended")
		m.commit(ctx, attempt)
	}
}

func (m *Machine) creatureDied(ctx context.Context, event *domain.Event, encounterNpc catalog.EncounterNpc) {
	creatureID := event.Subject.UnitID
	attempt, ok := m.active[encounterNpc.EncounterID]
	if !ok {
		return
	}
	delete(attempt.CreaturesRequiredToDie, creatureID)
	attempt.LastCreatureDeath = event.Timestamp

	committable := false
	if (attempt.HasPivotCreature && attempt.PivotCreature == creatureID) || encounterNpc.NpcID == skeramNpcID {
		attempt.FinishPivot()
		// With live percent telemetry the combat end commits Skeram;
		// committing on death here would misread his clones.
		committable = !(m.percentAuthoritative && encounterNpc.NpcID == skeramNpcID)
	} else {
		committable = len(attempt.CreaturesRequiredToDie) == 0
	}

	if committable && len(attempt.CreaturesRequiredToDie) == 0 {
		delete(m.active, encounterNpc.EncounterID)
		attempt.EndTs = event.Timestamp
		m.logger.Debug().Uint32("encounter_id", encounterNpc.EncounterID).Uint32("npc_id", encounterNpc.NpcID).
			Uint64("ts", event.Timestamp).Msg("committing attempt, required deaths complete")
		m.commit(ctx, attempt)
	}
}

func (m *Machine) pivotHealthUpdate(ctx context.Context, event *domain.Event, encounterNpc catalog.EncounterNpc, power domain.Power) {
	if power.Type != domain.PowerHealth || !encounterNpc.IsPivot || encounterNpc.HealthThresholdPct == nil {
		return
	}
	attempt, ok := m.active[encounterNpc.EncounterID]
	if !ok || power.Max == 0 {
		return
	}
	if uint64(power.Current)*100/uint64(power.Max) > uint64(*encounterNpc.HealthThresholdPct) {
		return
	}
	attempt.FinishPivot()
	delete(m.active, encounterNpc.EncounterID)
	attempt.EndTs = event.Timestamp
	m.logger.Debug().Uint32("encounter_id", encounterNpc.EncounterID).Uint32("npc_id", encounterNpc.NpcID).
		Uint64("ts", event.Timestamp).Msg("committing attempt, pivot health threshold reached")
	m.commit(ctx, attempt)
}

func (m *Machine) processPlayer(ctx context.Context, event *domain.Event) {
	playerID := event.Subject.UnitID

	switch kind := event.Kind.(type) {
	case domain.CombatState:
		if kind.InCombat {
			for _, attempt := range m.active {
				attempt.InfightPlayers[playerID] = struct{}{}
			}
			return
		}
		for _, attempt := range m.active {
			delete(attempt.InfightPlayers, playerID)
		}
		if m.percentAuthoritative {
			return
		}
		m.commitDrainedAttempts(ctx, event.Timestamp)
	case domain.AuraApplication:
		recordHardModeBuff(m.active, kind.SpellID)
	}
}

// commitDrainedAttempts is the player-exit heuristic: once few enough
// units remain in combat, attempts close as kill or wipe.
func (m *Machine) commitDrainedAttempts(ctx context.Context, ts uint64) {
	for encounterID, attempt := range m.active {
		if _, ok := addPhaseEncounters[encounterID]; ok {
			// Inter-phase lulls look like combat ends; wait out the
			// grace window after the last creature death.
			if ts-attempt.LastCreatureDeath < constants.AddPhaseGraceMs {
				continue
			}
		}
		if len(attempt.InfightPlayers) > constants.KillMinInfightUnits || len(attempt.InfightVehicles) > constants.KillMinInfightUnits {
			continue
		}
		if len(attempt.CreaturesRequiredToDie) == 0 {
			delete(m.active, encounterID)
			attempt.EndTs = ts
			m.logger.Debug().Uint32("encounter_id", encounterID).Uint64("ts", ts).
				Msg("committing attempt as kill, players left combat")
			m.commit(ctx, attempt)
		} else if len(attempt.CreaturesInCombat) == 0 {
			delete(m.active, encounterID)
			attempt.EndTs = ts
			m.logger.Debug().Uint32("encounter_id", encounterID).Uint64("ts", ts).
				Msg("committing attempt as wipe, players left combat")
			m.commit(ctx, attempt)
		}
	}
}

func (m *Machine) commit(ctx context.Context, attempt *domain.Attempt) {
	if err := m.committer.Commit(ctx, m.instanceMetaID, attempt); err != nil {
		// Best effort: a failed commit is logged, never retried.
		m.logger.Warn().Err(err).Uint32("encounter_id", attempt.EncounterID).Msg("failed to commit attempt")
	}
}

func (m *Machine) isPlayerControlled(unit domain.Unit) bool {
	if unit.Owner != nil && unit.Owner.IsPlayer {
		return true
	}
	_, ok := m.petOwner[unit.UnitID]
	return ok
}

// ownerCharacter resolves the acting unit to the player credited for
// its output.
func (m *Machine) ownerCharacter(unit domain.Unit) (uint64, bool) {
	if unit.Owner != nil && unit.Owner.IsPlayer {
		return unit.Owner.UnitID, true
	}
	if unit.IsPlayer {
		return unit.UnitID, true
	}
	if ownerID, ok := m.petOwner[unit.UnitID]; ok {
		return ownerID, true
	}
	return 0, false
}

// lookAheadDeath scans the already buffered events for a death of the
// creature within one second of the current event.
func lookAheadDeath(events []domain.Event, i int, creatureID uint64) bool {
	current := &events[i]
	for j := i; j < len(events); j++ {
		if events[j].Timestamp > current.Timestamp+constants.LookAheadDeathMs {
			break
		}
		if _, ok := events[j].Kind.(domain.Death); ok && events[j].Subject.UnitID == creatureID {
			return true
		}
	}
	return false
}
