package tracker

import (
	"raidtracker/internal/domain"
)

// CombatantSnapshot is the decoded full-state combatant info line.
// Zero values mean the field was absent from the line.
type CombatantSnapshot struct {
	Timestamp uint64
	Name      string
	ClassID   uint8
	RaceID    uint8
	GenderID  uint8
	Guild     *domain.Guild
	Gear      []*domain.GearItem
	Talents   string
}

// ApplySnapshot seeds or refines a participant from a combatant info
// line. Class, race, gender and guild are first-write-wins; gear and
// talents append to their histories.
func (t *Tracker) ApplySnapshot(s CombatantSnapshot) {
	unit := domain.Unit{UnitID: domain.PlayerUnitID(s.Name), IsPlayer: true}
	p, ok := t.participants[unit.UnitID]
	if !ok {
		p = domain.NewParticipant(unit, s.Name, s.Timestamp)
		t.participants[unit.UnitID] = p
	}

	if p.ClassID == 0 && s.ClassID != 0 {
		p.ClassID = s.ClassID
	}
	if p.RaceID == 0 && s.RaceID != 0 {
		p.RaceID = s.RaceID
	}
	if p.GenderID == 0 && s.GenderID != 0 {
		p.GenderID = s.GenderID
	}
	if p.Guild == nil && s.Guild != nil {
		p.Guild = s.Guild
	}

	if len(s.Gear) > 0 {
		hasItem := false
		for _, item := range s.Gear {
			if item != nil {
				hasItem = true
				break
			}
		}
		if hasItem {
			p.GearSetups = append(p.GearSetups, domain.GearSnapshot{Timestamp: s.Timestamp, Slots: s.Gear})
		}
	}

	if s.Talents != "" {
		p.RecordTalents(s.Timestamp, s.Talents)
	}
}
