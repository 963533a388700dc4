package encounter

import "raidtracker/internal/domain"

// Ulduar hard modes are inferred at commit time from in-combat
// signals and recorded under an alternate encounter id. Keyed by base
// encounter id, then by the number of observed buff/death knocks.
var hardModesByKnocks = map[uint32]map[int]uint32{
	// Flame Leviathan, by towers left up.
	114: {1: 146, 2: 147, 3: 148, 4: 149},
	// Freya, by elders left alive.
	122: {1: 152, 2: 153, 3: 154},
	// Yogg-Saron, by keepers assisting. Zero keepers is itself the
	// hardest variant.
	126: {0: 161, 1: 160, 2: 159, 3: 158},
}

// Single-signal hard modes: any observed buff flips the encounter.
var hardModesBySignal = map[uint32]uint32{
	121: 156, // Mimiron
	123: 155, // Thorim
	125: 157, // General Vezax
}

const (
	hodirEncounterID         = 124
	hodirHardModeEncounterID = 162
	// Hodir's hard mode is purely a speed check.
	hodirHardModeMaxMs = 120000
	hodirLeadInMs      = 2000
)

// hardModeEncounterID maps a finished attempt to its hard mode
// variant, or returns the base id unchanged.
func hardModeEncounterID(attempt *domain.Attempt) uint32 {
	knocks := len(attempt.HardModeFoundBuffs) + len(attempt.HardModeNpcsDied)

	if byKnocks, ok := hardModesByKnocks[attempt.EncounterID]; ok {
		if attempt.EncounterID != yoggEncounterID && knocks == 0 {
			return attempt.EncounterID
		}
		if id, ok := byKnocks[knocks]; ok {
			return id
		}
		return attempt.EncounterID
	}

	if id, ok := hardModesBySignal[attempt.EncounterID]; ok && len(attempt.HardModeFoundBuffs) > 0 {
		return id
	}

	if attempt.EncounterID == hodirEncounterID && attempt.Duration()-hodirLeadInMs <= hodirHardModeMaxMs {
		return hodirHardModeEncounterID
	}

	return attempt.EncounterID
}
