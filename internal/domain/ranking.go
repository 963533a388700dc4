package domain

import "time"

// InstanceMeta describes one recorded instance run.
type InstanceMeta struct {
	ID          uint32
	MapID       uint32
	InstanceID  uint32
	Difficulty  uint8
	StartTs     uint64
	EndTs       uint64
	LastEventID uint64
	ExpansionID uint8
}

// InstanceAttempt is the persisted form of a committed attempt.
type InstanceAttempt struct {
	ID             uint32
	InstanceMetaID uint32
	EncounterID    uint32
	StartTs        uint64
	EndTs          uint64
	IsKill         bool
}

// RankingRow is one persisted per-character amount of a kill.
type RankingRow struct {
	ID          uint32
	CharacterID uint64
	AttemptID   uint32
	Amount      uint64
}

// RankingResult is the export shape of the read path: one kill's
// contribution of one character to one encounter ranking.
type RankingResult struct {
	AttemptID     uint32
	Amount        uint64
	Duration      uint64
	DifficultyID  uint8
	CharacterSpec string
	SeasonIndex   uint8
}

// SpeedRun is a full clear of an instance, timed over all its kills.
type SpeedRun struct {
	InstanceMetaID uint32
	MapID          uint32
	Duration       uint64
	SeasonIndex    uint8
}

// SpeedKill times a single encounter kill.
type SpeedKill struct {
	AttemptID      uint32
	InstanceMetaID uint32
	EncounterID    uint32
	Duration       uint64
	SeasonIndex    uint8
}

// InstanceLoot records an epic-or-better item drop taken by a player.
type InstanceLoot struct {
	InstanceMetaID uint32
	CharacterID    uint64
	ItemID         uint32
	LootedTs       uint64
	Amount         uint32
}

// PendingLog is an uploaded combat log waiting for the processing
// pass.
type PendingLog struct {
	ID         uint32
	FileName   string
	InstanceID uint32
	UploadedAt time.Time
}
