package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"raidtracker/internal/domain"
)

// Ranking metric tables share one row shape.
const (
	RankingDamageTable = "instance_ranking_damage"
	RankingHealTable   = "instance_ranking_heal"
	RankingThreatTable = "instance_ranking_threat"
)

type RankingRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewRankingRepository(sqlDB *sql.DB, logger zerolog.Logger) *RankingRepository {
	return &RankingRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// RowsSince returns ranking rows of one metric beyond the watermark,
// in id order, for the rolling caches.
func (r *RankingRepository) RowsSince(ctx context.Context, table string, lastSeenID uint32) ([]domain.RankingRow, error) {
	switch table {
	case RankingDamageTable, RankingHealTable, RankingThreatTable:
	default:
		return nil, fmt.Errorf("unknown ranking table %q", table)
	}

	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT id, character_id, attempt_id, amount FROM %s WHERE id > ? ORDER BY id`, table),
		lastSeenID)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	var result []domain.RankingRow
	for rows.Next() {
		var row domain.RankingRow
		var characterID, amount int64
		if err := rows.Scan(&row.ID, &characterID, &row.AttemptID, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		// Stored bit-cast, see ArmoryRepository.UpsertCharacter.
		row.CharacterID = uint64(characterID)
		row.Amount = uint64(amount)
		result = append(result, row)
	}
	return result, rows.Err()
}
