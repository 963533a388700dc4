package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"raidtracker/internal/catalog"
)

type CatalogRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewCatalogRepository(sqlDB *sql.DB, logger zerolog.Logger) *CatalogRepository {
	return &CatalogRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// Load reads the static reference tables into an in-memory catalog.
// Done once at startup; the data never changes at runtime.
func (r *CatalogRepository) Load(ctx context.Context) (*catalog.Static, error) {
	encounterNpcs, err := r.loadEncounterNpcs(ctx)
	if err != nil {
		return nil, err
	}
	spells, err := r.loadSpells(ctx)
	if err != nil {
		return nil, err
	}
	npcs, err := r.loadNpcs(ctx)
	if err != nil {
		return nil, err
	}
	items, err := r.loadItems(ctx)
	if err != nil {
		return nil, err
	}
	maps, err := r.loadMaps(ctx)
	if err != nil {
		return nil, err
	}

	r.logger.Info().
		Int("encounter_npcs", len(encounterNpcs)).
		Int("spells", len(spells)).
		Int("npcs", len(npcs)).
		Int("items", len(items)).
		Int("maps", len(maps)).
		Msg("catalog loaded")

	return catalog.NewStatic(encounterNpcs, spells, npcs, items, maps), nil
}

func (r *CatalogRepository) loadEncounterNpcs(ctx context.Context) ([]catalog.EncounterNpc, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT npc_id, encounter_id, requires_death, can_start_encounter, is_pivot, health_threshold_pct
		 FROM data_encounter_npc`)
	if err != nil {
		return nil, fmt.Errorf("failed to query encounter npcs: %w", err)
	}
	defer rows.Close()

	var result []catalog.EncounterNpc
	for rows.Next() {
		var en catalog.EncounterNpc
		var threshold sql.NullInt64
		if err := rows.Scan(&en.NpcID, &en.EncounterID, &en.RequiresDeath, &en.CanStartEncounter, &en.IsPivot, &threshold); err != nil {
			return nil, fmt.Errorf("failed to scan encounter npc: %w", err)
		}
		if threshold.Valid {
			pct := uint32(threshold.Int64)
			en.HealthThresholdPct = &pct
		}
		result = append(result, en)
	}
	return result, rows.Err()
}

func (r *CatalogRepository) loadSpells(ctx context.Context) ([]catalog.Spell, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM data_spell`)
	if err != nil {
		return nil, fmt.Errorf("failed to query spells: %w", err)
	}
	defer rows.Close()

	var result []catalog.Spell
	for rows.Next() {
		var sp catalog.Spell
		if err := rows.Scan(&sp.ID, &sp.Name); err != nil {
			return nil, fmt.Errorf("failed to scan spell: %w", err)
		}
		result = append(result, sp)
	}
	return result, rows.Err()
}

func (r *CatalogRepository) loadNpcs(ctx context.Context) ([]catalog.Npc, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM data_npc`)
	if err != nil {
		return nil, fmt.Errorf("failed to query npcs: %w", err)
	}
	defer rows.Close()

	var result []catalog.Npc
	for rows.Next() {
		var n catalog.Npc
		if err := rows.Scan(&n.ID, &n.Name); err != nil {
			return nil, fmt.Errorf("failed to scan npc: %w", err)
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

func (r *CatalogRepository) loadItems(ctx context.Context) ([]catalog.Item, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, quality, name FROM data_item`)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var result []catalog.Item
	for rows.Next() {
		var it catalog.Item
		if err := rows.Scan(&it.ID, &it.Quality, &it.Name); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		result = append(result, it)
	}
	return result, rows.Err()
}

func (r *CatalogRepository) loadMaps(ctx context.Context) ([]catalog.Map, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM data_map`)
	if err != nil {
		return nil, fmt.Errorf("failed to query maps: %w", err)
	}
	defer rows.Close()

	var result []catalog.Map
	for rows.Next() {
		var m catalog.Map
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, fmt.Errorf("failed to scan map: %w", err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}
