package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"raidtracker/internal/domain"
)

type ArmoryRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewArmoryRepository(sqlDB *sql.DB, logger zerolog.Logger) *ArmoryRepository {
	return &ArmoryRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// UpsertCharacter stores the identity of a tracked player. Identity
// fields follow first-write-wins, mirroring the in-session rule.
// Character ids are stored bit-cast into sqlite's signed integer.
func (r *ArmoryRepository) UpsertCharacter(ctx context.Context, p *domain.Participant) error {
	guildName, guildRankName := "", ""
	var guildRankIndex uint8
	if p.Guild != nil {
		guildName = p.Guild.Name
		guildRankName = p.Guild.RankName
		guildRankIndex = p.Guild.RankIndex
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO armory_character (id, name, class_id, race_id, gender_id, guild_name, guild_rank_name, guild_rank_index)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   class_id = CASE WHEN armory_character.class_id = 0 THEN excluded.class_id ELSE armory_character.class_id END,
		   race_id = CASE WHEN armory_character.race_id = 0 THEN excluded.race_id ELSE armory_character.race_id END,
		   gender_id = CASE WHEN armory_character.gender_id = 0 THEN excluded.gender_id ELSE armory_character.gender_id END,
		   guild_name = CASE WHEN armory_character.guild_name = '' THEN excluded.guild_name ELSE armory_character.guild_name END,
		   guild_rank_name = CASE WHEN armory_character.guild_rank_name = '' THEN excluded.guild_rank_name ELSE armory_character.guild_rank_name END,
		   guild_rank_index = CASE WHEN armory_character.guild_name = '' THEN excluded.guild_rank_index ELSE armory_character.guild_rank_index END`,
		int64(p.ID), p.Name, p.ClassID, p.RaceID, p.GenderID, guildName, guildRankName, guildRankIndex)
	if err != nil {
		return fmt.Errorf("failed to upsert character %d: %w", p.ID, err)
	}

	for _, entry := range p.Talents {
		_, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO armory_character_history (character_id, observed_ts, talents)
			 VALUES (?, ?, ?)`,
			int64(p.ID), entry.Timestamp, entry.Talents)
		if err != nil {
			return fmt.Errorf("failed to insert character history for %d: %w", p.ID, err)
		}
	}

	return nil
}

// CharacterSpecAt looks up the character's specialization as last
// observed at or before the timestamp. An empty string means no
// build was ever recorded.
func (r *ArmoryRepository) CharacterSpecAt(ctx context.Context, characterID uint64, ts uint64) (string, error) {
	var talents string
	err := r.db.QueryRowContext(ctx,
		`SELECT talents FROM armory_character_history
		 WHERE character_id = ? AND observed_ts <= ?
		 ORDER BY observed_ts DESC LIMIT 1`,
		int64(characterID), ts).Scan(&talents)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up character spec: %w", err)
	}
	return talents, nil
}
