package encounter

import (
	"raidtracker/internal/domain"
)

// Yogg-Saron's hard mode is signalled by keeper auras on players.
var yoggKeeperAuras = map[uint32]struct{}{
	62650: {},
	62670: {},
	62671: {},
	62702: {},
}

const yoggEncounterID = 126

func recordHardModeBuff(active map[uint32]*domain.Attempt, spellID uint32) {
	if _, ok := yoggKeeperAuras[spellID]; !ok {
		return
	}
	if attempt, ok := active[yoggEncounterID]; ok {
		attempt.HardModeFoundBuffs[spellID] = struct{}{}
	}
}

// processRanking credits the event's output to the owning player.
// Damage and threat bind to the attempt whose encounter the victim
// belongs to. Healing cannot be bound when several attempts run in
// one instance, so it is credited to every live attempt; the
// over-attribution is accepted.
func (m *Machine) processRanking(event *domain.Event) {
	characterID, ok := m.ownerCharacter(event.Subject)
	if !ok {
		return
	}

	switch kind := event.Kind.(type) {
	case domain.SpellDamage:
		m.creditVictimAttempt(kind.Victim, characterID, kind.Total(), rankingDamage)
	case domain.MeleeDamage:
		m.creditVictimAttempt(kind.Victim, characterID, kind.Total(), rankingDamage)
	case domain.Heal:
		for _, attempt := range m.active {
			attempt.RankingHeal[characterID] += uint64(kind.Effective)
		}
	case domain.Threat:
		if kind.Amount > 0 {
			m.creditVictimAttempt(kind.Threatened, characterID, uint64(kind.Amount), rankingThreat)
		}
	}
}

type rankingKind int

const (
	rankingDamage rankingKind = iota
	rankingThreat
)

func (m *Machine) creditVictimAttempt(victim domain.Unit, characterID uint64, amount uint64, kind rankingKind) {
	npcID, ok := domain.NpcID(victim.UnitID)
	if !ok {
		return
	}
	encounterNpc, ok := m.catalog.EncounterNpc(npcID)
	if !ok {
		return
	}
	attempt, ok := m.active[encounterNpc.EncounterID]
	if !ok {
		return
	}
	switch kind {
	case rankingDamage:
		attempt.RankingDamage[characterID] += amount
	case rankingThreat:
		attempt.RankingThreat[characterID] += amount
	}
}
