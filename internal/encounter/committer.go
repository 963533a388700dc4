package encounter

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"raidtracker/internal/constants"
	"raidtracker/internal/domain"
)

// AttemptStore is the persistence surface a commit needs.
type AttemptStore interface {
	InsertAttempt(ctx context.Context, attempt domain.InstanceAttempt) (uint32, error)
	InsertRankings(ctx context.Context, attemptID uint32, damage, heal, threat map[uint64]uint64) error
}

// DBCommitter persists terminated attempts. Commits are best effort:
// an attempt row may land without its ranking rows when a later write
// fails; the gap is reported, not masked.
type DBCommitter struct {
	store  AttemptStore
	logger zerolog.Logger
}

func NewDBCommitter(store AttemptStore, logger zerolog.Logger) *DBCommitter {
	return &DBCommitter{store: store, logger: logger}
}

func (c *DBCommitter) Commit(ctx context.Context, instanceMetaID uint32, attempt *domain.Attempt) error {
	if attempt.Duration() <= constants.NoiseAttemptMaxMs {
		c.logger.Debug().Uint32("encounter_id", attempt.EncounterID).Uint64("duration", attempt.Duration()).
			Msg("discarding attempt as noise")
		return nil
	}

	encounterID := hardModeEncounterID(attempt)
	isKill := attempt.IsKill()

	attemptID, err := c.store.InsertAttempt(ctx, domain.InstanceAttempt{
		InstanceMetaID: instanceMetaID,
		EncounterID:    encounterID,
		StartTs:        attempt.StartTs,
		EndTs:          attempt.EndTs,
		IsKill:         isKill,
	})
	if err != nil {
		return fmt.Errorf("failed to insert attempt: %w", err)
	}

	c.logger.Info().Uint32("encounter_id", encounterID).Bool("is_kill", isKill).
		Uint64("duration", attempt.Duration()).Msg("attempt committed")

	// Ranking rows are only worth keeping for kills.
	if !isKill {
		return nil
	}

	if err := c.store.InsertRankings(ctx, attemptID, attempt.RankingDamage, attempt.RankingHeal, attempt.RankingThreat); err != nil {
		return fmt.Errorf("failed to insert rankings for attempt %d: %w", attemptID, err)
	}

	attempt.RankingDamage = make(map[uint64]uint64)
	attempt.RankingHeal = make(map[uint64]uint64)
	attempt.RankingThreat = make(map[uint64]uint64)
	return nil
}
