package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"raidtracker/internal/domain"
)

type AttemptRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewAttemptRepository(sqlDB *sql.DB, logger zerolog.Logger) *AttemptRepository {
	return &AttemptRepository{
		db:     sqlDB,
		logger: logger,
	}
}

func (r *AttemptRepository) InsertAttempt(ctx context.Context, attempt domain.InstanceAttempt) (uint32, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO instance_attempt (instance_meta_id, encounter_id, start_ts, end_ts, is_kill)
		 VALUES (?, ?, ?, ?, ?)`,
		attempt.InstanceMetaID, attempt.EncounterID, attempt.StartTs, attempt.EndTs, attempt.IsKill)
	if err != nil {
		return 0, fmt.Errorf("failed to insert attempt: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read attempt id: %w", err)
	}

	r.logger.Debug().
		Int64("attempt_id", id).
		Uint32("instance_meta_id", attempt.InstanceMetaID).
		Uint32("encounter_id", attempt.EncounterID).
		Bool("is_kill", attempt.IsKill).
		Msg("attempt inserted")

	return uint32(id), nil
}

// InsertRankings flushes the three ranking maps of a kill in one
// transaction.
func (r *AttemptRepository) InsertRankings(ctx context.Context, attemptID uint32, damage, heal, threat map[uint64]uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	tables := []struct {
		name    string
		amounts map[uint64]uint64
	}{
		{RankingDamageTable, damage},
		{RankingHealTable, heal},
		{RankingThreatTable, threat},
	}
	for _, table := range tables {
		query := fmt.Sprintf("INSERT INTO %s (character_id, attempt_id, amount) VALUES (?, ?, ?)", table.name)
		for characterID, amount := range table.amounts {
			// Bit-cast: sqlite integers are signed, hashed ids are not.
			if _, err := tx.ExecContext(ctx, query, int64(characterID), attemptID, int64(amount)); err != nil {
				return fmt.Errorf("failed to insert %s row: %w", table.name, err)
			}
		}
	}

	return tx.Commit()
}

// KillAttemptsSince returns committed kill attempts with an id beyond
// the watermark, in id order.
func (r *AttemptRepository) KillAttemptsSince(ctx context.Context, lastSeenID uint32) ([]domain.InstanceAttempt, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, instance_meta_id, encounter_id, start_ts, end_ts, is_kill
		 FROM instance_attempt WHERE id > ? AND is_kill = 1 ORDER BY id`, lastSeenID)
	if err != nil {
		return nil, fmt.Errorf("failed to query kill attempts: %w", err)
	}
	defer rows.Close()

	var attempts []domain.InstanceAttempt
	for rows.Next() {
		var a domain.InstanceAttempt
		if err := rows.Scan(&a.ID, &a.InstanceMetaID, &a.EncounterID, &a.StartTs, &a.EndTs, &a.IsKill); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
