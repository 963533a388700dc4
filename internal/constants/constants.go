package constants

import "time"

// Attempt detection thresholds. All log timestamps are milliseconds.
const (
	// Attempts at or below this length are discarded as noise.
	NoiseAttemptMaxMs = 5000
	// Commit heuristics require at most this many players and
	// vehicles still in combat.
	KillMinInfightUnits = 5
	// Player-exit commits of multi-phase encounters are suppressed
	// within this window after the last creature death.
	AddPhaseGraceMs = 30000
	// Forward window of the buffered look-ahead death scan.
	LookAheadDeathMs = 1000
)

// Participation tracking.
const (
	ParticipationTimeoutMs    = 5 * 60000
	ParticipationCloseGraceMs = 30000
)

// Season bucketing of rankings.
const (
	SeasonEpochMs = 1731470400000
	SeasonWeekMs  = 604800000
)

// Combatant snapshot validity caps.
const (
	MaxKnownItemID    = 25818
	MaxKnownEnchantID = 3000
)

const (
	ProcessInterval  = 30 * time.Second
	CacheIdleTimeout = 6 * time.Hour
	DispelCastWindow = 100
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

const (
	ShutdownTimeout = 5 * time.Second
)
