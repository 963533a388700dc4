package domain

import "raidtracker/internal/constants"

// GearItem is one equipped slot of a gear snapshot. Nil entries mark
// empty or invalid slots.
type GearItem struct {
	ItemID    uint32
	EnchantID uint32
}

// GearSnapshot is the full 19 slot equipment state at a point in time.
type GearSnapshot struct {
	Timestamp uint64
	Slots     []*GearItem
}

// TalentEntry records an observed talent/specialization string.
type TalentEntry struct {
	Timestamp uint64
	Talents   string
}

// Interval is a closed [Start,End] presence window.
type Interval struct {
	Start uint64
	End   uint64
}

// Guild membership captured from a combatant snapshot.
type Guild struct {
	Name      string
	RankName  string
	RankIndex uint8
}

// Participant is the mutable per-unit aggregate of a parsing session.
// Class, race, gender and guild follow first-write-wins: the earliest
// non-empty observation sticks.
type Participant struct {
	ID            uint64
	IsPlayer      bool
	IsSelfDamage  bool
	IsMindControl bool
	Name          string

	ClassID  uint8
	RaceID   uint8
	GenderID uint8
	Guild    *Guild

	GearSetups      []GearSnapshot
	Talents         []TalentEntry
	ActiveIntervals []Interval

	FirstSeen uint64
	LastSeen  uint64

	lastSeenTalents string
	lastBrainwash   uint64
	availableHeal   uint64
}

func NewParticipant(unit Unit, name string, seen uint64) *Participant {
	return &Participant{
		ID:              unit.UnitID,
		IsPlayer:        unit.IsPlayer,
		IsSelfDamage:    unit.IsSelfDamage,
		IsMindControl:   unit.IsMindControl,
		Name:            name,
		ActiveIntervals: []Interval{{Start: seen, End: seen}},
		FirstSeen:       seen,
		LastSeen:        seen,
	}
}

// AddParticipationPoint extends the current presence interval, or
// closes it at last seen plus 30s and opens a new one when the gap
// exceeds the participation timeout.
func (p *Participant) AddParticipationPoint(now uint64) {
	if now <= p.LastSeen {
		return
	}
	last := &p.ActiveIntervals[len(p.ActiveIntervals)-1]
	if now-p.LastSeen <= constants.ParticipationTimeoutMs {
		last.End = now
	} else {
		last.End = p.LastSeen + constants.ParticipationCloseGraceMs
		p.ActiveIntervals = append(p.ActiveIntervals, Interval{Start: now, End: now})
	}
	p.LastSeen = now
}

// AttributeDamage grows the ledger that funds effective healing.
func (p *Participant) AttributeDamage(damage uint32) {
	p.availableHeal += uint64(damage)
}

// AttributeHeal consumes from the damage ledger and returns the
// effective, non-overheal portion of the heal.
func (p *Participant) AttributeHeal(heal uint32) uint32 {
	if uint64(heal) > p.availableHeal {
		effective := uint32(p.availableHeal)
		p.availableHeal = 0
		return effective
	}
	p.availableHeal -= uint64(heal)
	return heal
}

// MarkBrainwash notes an externally triggered respec. The next talent
// change is back-dated to one second before this marker.
func (p *Participant) MarkBrainwash(timestamp uint64) {
	p.lastBrainwash = timestamp
}

// RecordTalents appends a talent entry when the observed string
// differs from the last seen one. After a brainwash marker the change
// is recorded at the marker time with the previous talents preserved
// one second earlier.
func (p *Participant) RecordTalents(timestamp uint64, talents string) {
	if p.lastSeenTalents == talents {
		return
	}
	if p.lastBrainwash > 0 {
		if p.lastSeenTalents != "" {
			p.Talents = append(p.Talents, TalentEntry{Timestamp: p.lastBrainwash - 1000, Talents: p.lastSeenTalents})
		}
		p.Talents = append(p.Talents, TalentEntry{Timestamp: p.lastBrainwash, Talents: talents})
		p.lastBrainwash = 0
	} else {
		p.Talents = append(p.Talents, TalentEntry{Timestamp: timestamp, Talents: talents})
	}
	p.lastSeenTalents = talents
}

// TalentsAt returns the latest talent string recorded at or before ts.
func (p *Participant) TalentsAt(ts uint64) string {
	talents := ""
	for _, entry := range p.Talents {
		if entry.Timestamp > ts {
			break
		}
		talents = entry.Talents
	}
	return talents
}
