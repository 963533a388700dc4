// Package armory defines the character profile collaborator the
// processing pipeline consumes. Profiles live outside the core: the
// pipeline only upserts what it observed and reads back builds to tag
// rankings.
package armory

import (
	"context"

	"raidtracker/internal/domain"
)

type Store interface {
	// UpsertCharacter persists a tracked player's identity and
	// build history.
	UpsertCharacter(ctx context.Context, p *domain.Participant) error
	// CharacterSpecAt returns the character's specialization string
	// as of the given timestamp, or empty when unknown.
	CharacterSpecAt(ctx context.Context, characterID uint64, ts uint64) (string, error)
}
