package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"raidtracker/internal/domain"
)

type LootRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewLootRepository(sqlDB *sql.DB, logger zerolog.Logger) *LootRepository {
	return &LootRepository{
		db:     sqlDB,
		logger: logger,
	}
}

func (r *LootRepository) Insert(ctx context.Context, loot domain.InstanceLoot) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO instance_loot (instance_meta_id, character_id, item_id, looted_ts, amount)
		 VALUES (?, ?, ?, ?, ?)`,
		loot.InstanceMetaID, int64(loot.CharacterID), loot.ItemID, loot.LootedTs, loot.Amount)
	if err != nil {
		return fmt.Errorf("failed to insert loot: %w", err)
	}

	r.logger.Debug().
		Uint32("instance_meta_id", loot.InstanceMetaID).
		Uint64("character_id", loot.CharacterID).
		Uint32("item_id", loot.ItemID).
		Msg("loot recorded")

	return nil
}
