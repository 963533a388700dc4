package domain

// Attempt is the in-memory record of one bounded encounter pull. At
// most one live attempt exists per (instance, encounter) pair; once
// committed it is removed and never re-entered.
type Attempt struct {
	EncounterID uint32
	StartTs     uint64
	EndTs       uint64

	CreaturesInCombat      map[uint64]struct{}
	CreaturesRequiredToDie map[uint64]struct{}

	PivotCreature     uint64
	HasPivotCreature  bool
	PivotFinished     bool
	EncounterHasPivot bool

	HardModeFoundBuffs map[uint32]struct{}
	HardModeNpcsDied   map[uint32]struct{}

	InfightPlayers  map[uint64]struct{}
	InfightVehicles map[uint64]struct{}

	LastCreatureDeath uint64

	RankingDamage map[uint64]uint64
	RankingHeal   map[uint64]uint64
	RankingThreat map[uint64]uint64
}

func NewAttempt(encounterID uint32, startTs uint64, hasPivot bool) *Attempt {
	return &Attempt{
		EncounterID:            encounterID,
		StartTs:                startTs,
		EncounterHasPivot:      hasPivot,
		CreaturesInCombat:      make(map[uint64]struct{}),
		CreaturesRequiredToDie: make(map[uint64]struct{}),
		HardModeFoundBuffs:     make(map[uint32]struct{}),
		HardModeNpcsDied:       make(map[uint32]struct{}),
		InfightPlayers:         make(map[uint64]struct{}),
		InfightVehicles:        make(map[uint64]struct{}),
		RankingDamage:          make(map[uint64]uint64),
		RankingHeal:            make(map[uint64]uint64),
		RankingThreat:          make(map[uint64]uint64),
	}
}

// SetPivot designates the creature whose death or health threshold
// alone ends the attempt.
func (a *Attempt) SetPivot(creatureID uint64) {
	a.PivotCreature = creatureID
	a.HasPivotCreature = true
}

// FinishPivot clears the required set; all remaining death
// requirements are waived once the pivot is done.
func (a *Attempt) FinishPivot() {
	a.PivotFinished = true
	a.CreaturesRequiredToDie = make(map[uint64]struct{})
}

// IsKill reports whether the attempt ended in a kill: every required
// creature died and, for pivot encounters, the pivot finished.
func (a *Attempt) IsKill() bool {
	return len(a.CreaturesRequiredToDie) == 0 && (!a.EncounterHasPivot || a.PivotFinished)
}

// Duration of the attempt in milliseconds.
func (a *Attempt) Duration() uint64 {
	return a.EndTs - a.StartTs
}
