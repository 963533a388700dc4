// Package tracker accumulates mutable per-unit state over a parsing
// session: presence windows, the damage ledger behind effective
// healing, gear and talent history, and pet ownership.
package tracker

import (
	"github.com/rs/zerolog"

	"raidtracker/internal/domain"
)

type Tracker struct {
	participants map[uint64]*domain.Participant
	petOwner     map[uint64]uint64
	logger       zerolog.Logger
}

func New(logger zerolog.Logger) *Tracker {
	return &Tracker{
		participants: make(map[uint64]*domain.Participant),
		petOwner:     make(map[uint64]uint64),
		logger:       logger,
	}
}

// Collect registers the unit and extends its presence window.
func (t *Tracker) Collect(unit domain.Unit, rawName string, ts uint64) {
	p, ok := t.participants[unit.UnitID]
	if !ok {
		p = domain.NewParticipant(unit, rawName, ts)
		t.participants[unit.UnitID] = p
	}
	p.AddParticipationPoint(ts)
}

func (t *Tracker) Participant(unitID uint64) (*domain.Participant, bool) {
	p, ok := t.participants[unitID]
	return p, ok
}

// Participants returns every tracked unit of the session.
func (t *Tracker) Participants() []*domain.Participant {
	result := make([]*domain.Participant, 0, len(t.participants))
	for _, p := range t.participants {
		result = append(result, p)
	}
	return result
}

// AttributeDamage grows the victim's heal ledger.
func (t *Tracker) AttributeDamage(victimID uint64, damage uint32) {
	if p, ok := t.participants[victimID]; ok {
		p.AttributeDamage(damage)
	}
}

// AttributeHeal consumes from the target's ledger and returns the
// effective portion.
func (t *Tracker) AttributeHeal(targetID uint64, heal uint32) uint32 {
	if p, ok := t.participants[targetID]; ok {
		return p.AttributeHeal(heal)
	}
	return 0
}

// SetPetOwner binds a pet unit to its controlling player.
func (t *Tracker) SetPetOwner(petUnitID, ownerUnitID uint64) {
	t.petOwner[petUnitID] = ownerUnitID
}

func (t *Tracker) PetOwner(petUnitID uint64) (uint64, bool) {
	owner, ok := t.petOwner[petUnitID]
	return owner, ok
}

// SummonEvents materializes one Summon event per known pet-owner
// pair, for the post-processing merge.
func (t *Tracker) SummonEvents() []domain.Event {
	events := make([]domain.Event, 0, len(t.petOwner))
	for petID, ownerID := range t.petOwner {
		events = append(events, domain.Event{
			Subject: domain.Unit{UnitID: petID},
			Kind: domain.Summon{
				Owner: domain.Unit{UnitID: ownerID, IsPlayer: true},
			},
		})
	}
	return events
}
