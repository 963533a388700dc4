package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"raidtracker/internal/armory"
	"raidtracker/internal/catalog"
	"raidtracker/internal/config"
	"raidtracker/internal/constants"
	"raidtracker/internal/domain"
	"raidtracker/internal/encounter"
	"raidtracker/internal/identity"
	"raidtracker/internal/parser"
	"raidtracker/internal/repository"
	"raidtracker/internal/tracker"
)

const expansionVanilla = 1

// Processor runs the periodic pass: consume uploaded combat logs,
// refresh the rolling caches from the database watermarks, derive
// speed stats and evict idle cache entries.
type Processor struct {
	cfg       *config.Config
	catalog   catalog.Store
	instances *repository.InstanceRepository
	attempts  *repository.AttemptRepository
	rankings  *repository.RankingRepository
	loot      *repository.LootRepository
	armory    armory.Store
	logger    zerolog.Logger

	mu           sync.RWMutex
	metas        map[uint32]domain.InstanceMeta
	lastMetaID   uint32
	killAttempts map[uint32][]domain.InstanceAttempt
	attemptsByID map[uint32]domain.InstanceAttempt
	lastKillID   uint32
	// metric table -> encounter -> character -> results
	rankingCache  map[string]map[uint32]map[uint64][]domain.RankingResult
	lastRankingID map[string]uint32
	speedRuns     []domain.SpeedRun
	speedKills    []domain.SpeedKill
	speedRunSeen  map[uint32]struct{}
	speedKillSeen map[uint32]struct{}
	lastAccess    map[uint32]time.Time
}

func NewProcessor(cfg *config.Config, store catalog.Store, instances *repository.InstanceRepository, attempts *repository.AttemptRepository, rankings *repository.RankingRepository, loot *repository.LootRepository, armoryStore armory.Store, logger zerolog.Logger) *Processor {
	return &Processor{
		cfg:       cfg,
		catalog:   store,
		instances: instances,
		attempts:  attempts,
		rankings:  rankings,
		loot:      loot,
		armory:    armoryStore,
		logger:    logger,

		metas:        make(map[uint32]domain.InstanceMeta),
		killAttempts: make(map[uint32][]domain.InstanceAttempt),
		attemptsByID: make(map[uint32]domain.InstanceAttempt),
		rankingCache: map[string]map[uint32]map[uint64][]domain.RankingResult{
			repository.RankingDamageTable: {},
			repository.RankingHealTable:   {},
			repository.RankingThreatTable: {},
		},
		lastRankingID: make(map[string]uint32),
		speedRunSeen:  make(map[uint32]struct{}),
		speedKillSeen: make(map[uint32]struct{}),
		lastAccess:    make(map[uint32]time.Time),
	}
}

// Run executes passes until the context is cancelled. A pass runs to
// completion once started; cancellation is only observed between
// passes and between per-log units of work.
func (p *Processor) Run(ctx context.Context) {
	p.runPass(ctx)

	ticker := time.NewTicker(constants.ProcessInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Msg("processor stopped")
			return
		case <-ticker.C:
			p.runPass(ctx)
		}
	}
}

func (p *Processor) runPass(ctx context.Context) {
	start := time.Now()

	if err := p.processPendingLogs(ctx); err != nil {
		p.logger.Error().Err(err).Msg("failed to process pending logs")
	}
	if err := p.refreshCaches(ctx); err != nil {
		p.logger.Error().Err(err).Msg("failed to refresh caches")
	}
	p.refreshSpeedStats()
	p.evictIdle()

	p.logger.Debug().Dur("elapsed", time.Since(start)).Msg("pass finished")
}

// refreshCaches advances the in-memory caches from the database using
// monotonic id watermarks. The exclusive lock spans the database
// round-trips, matching the read-path guarantee that a reader never
// observes a half-applied refresh.
func (p *Processor) refreshCaches(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	metas, err := p.instances.MetasSince(ctx, p.lastMetaID)
	if err != nil {
		return fmt.Errorf("failed to refresh instance metas: %w", err)
	}
	for _, meta := range metas {
		p.metas[meta.ID] = meta
		p.lastMetaID = meta.ID
	}

	kills, err := p.attempts.KillAttemptsSince(ctx, p.lastKillID)
	if err != nil {
		return fmt.Errorf("failed to refresh kill attempts: %w", err)
	}
	for _, kill := range kills {
		p.killAttempts[kill.InstanceMetaID] = append(p.killAttempts[kill.InstanceMetaID], kill)
		p.attemptsByID[kill.ID] = kill
		p.lastKillID = kill.ID
		p.lastAccess[kill.InstanceMetaID] = time.Now()
	}

	g, gctx := errgroup.WithContext(ctx)
	rows := make(map[string][]domain.RankingRow, 3)
	var rowsMu sync.Mutex
	for _, table := range []string{repository.RankingDamageTable, repository.RankingHealTable, repository.RankingThreatTable} {
		table := table
		g.Go(func() error {
			fetched, err := p.rankings.RowsSince(gctx, table, p.lastRankingID[table])
			if err != nil {
				return err
			}
			rowsMu.Lock()
			rows[table] = fetched
			rowsMu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to refresh rankings: %w", err)
	}
	for table, fetched := range rows {
		for _, row := range fetched {
			p.applyRankingRow(ctx, table, row)
			p.lastRankingID[table] = row.ID
		}
	}
	return nil
}

func (p *Processor) applyRankingRow(ctx context.Context, table string, row domain.RankingRow) {
	attempt, ok := p.attemptsByID[row.AttemptID]
	if !ok {
		p.logger.Warn().
			Uint32("attempt_id", row.AttemptID).
			Str("table", table).
			Msg("ranking row references unknown attempt")
		return
	}
	meta, ok := p.metas[attempt.InstanceMetaID]
	if !ok {
		return
	}

	spec, err := p.armory.CharacterSpecAt(ctx, row.CharacterID, attempt.StartTs)
	if err != nil {
		p.logger.Warn().Err(err).Uint64("character_id", row.CharacterID).Msg("failed to look up character spec")
	}

	byEncounter := p.rankingCache[table]
	byCharacter, ok := byEncounter[attempt.EncounterID]
	if !ok {
		byCharacter = make(map[uint64][]domain.RankingResult)
		byEncounter[attempt.EncounterID] = byCharacter
	}
	byCharacter[row.CharacterID] = append(byCharacter[row.CharacterID], domain.RankingResult{
		AttemptID:     row.AttemptID,
		Amount:        row.Amount,
		Duration:      attempt.EndTs - attempt.StartTs,
		DifficultyID:  meta.Difficulty,
		CharacterSpec: spec,
		SeasonIndex:   SeasonIndex(attempt.StartTs),
	})
}

// refreshSpeedStats derives speed runs and speed kills from the kill
// attempt cache. Already derived entries are skipped, so the slices
// only ever grow.
func (p *Processor) refreshSpeedStats() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for instanceMetaID, kills := range p.killAttempts {
		meta, ok := p.metas[instanceMetaID]
		if !ok {
			continue
		}

		if _, done := p.speedRunSeen[instanceMetaID]; !done {
			if duration, full := fullClearDuration(meta.MapID, kills); full {
				p.speedRuns = append(p.speedRuns, domain.SpeedRun{
					InstanceMetaID: instanceMetaID,
					MapID:          meta.MapID,
					Duration:       duration,
					SeasonIndex:    SeasonIndex(kills[0].StartTs),
				})
				p.speedRunSeen[instanceMetaID] = struct{}{}
				p.logger.Info().
					Uint32("instance_meta_id", instanceMetaID).
					Uint32("map_id", meta.MapID).
					Uint64("duration_ms", duration).
					Msg("speed run recorded")
			}
		}

		for _, kill := range kills {
			if _, done := p.speedKillSeen[kill.ID]; done {
				continue
			}
			p.speedKills = append(p.speedKills, domain.SpeedKill{
				AttemptID:      kill.ID,
				InstanceMetaID: instanceMetaID,
				EncounterID:    kill.EncounterID,
				Duration:       kill.EndTs - kill.StartTs,
				SeasonIndex:    SeasonIndex(kill.StartTs),
			})
			p.speedKillSeen[kill.ID] = struct{}{}
		}
	}
}

// evictIdle drops per-instance attempt caches that have not been read
// or extended within the idle timeout. The watermark is not rewound,
// so evicted rows are not re-fetched.
func (p *Processor) evictIdle() {
	p.mu.Lock()
	defer p.mu.Unlock()

	cutoff := time.Now().Add(-constants.CacheIdleTimeout)
	for instanceMetaID, seen := range p.lastAccess {
		if seen.After(cutoff) {
			continue
		}
		for _, kill := range p.killAttempts[instanceMetaID] {
			delete(p.attemptsByID, kill.ID)
		}
		delete(p.killAttempts, instanceMetaID)
		delete(p.lastAccess, instanceMetaID)
		p.logger.Debug().Uint32("instance_meta_id", instanceMetaID).Msg("evicted idle attempt cache")
	}
}

func (p *Processor) processPendingLogs(ctx context.Context) error {
	logs, err := p.instances.PendingLogs(ctx)
	if err != nil {
		return err
	}

	for _, pending := range logs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := p.processLog(ctx, pending); err != nil {
			p.logger.Error().Err(err).
				Uint32("log_id", pending.ID).
				Str("file_name", pending.FileName).
				Msg("failed to process log")
			continue
		}
		if err := p.instances.MarkProcessed(ctx, pending.ID); err != nil {
			return err
		}
	}
	return nil
}

func (p *Processor) processLog(ctx context.Context, pending domain.PendingLog) error {
	sessionID, err := gonanoid.New()
	if err != nil {
		return fmt.Errorf("failed to generate session id: %w", err)
	}
	logger := p.logger.With().Str("session_id", sessionID).Uint32("log_id", pending.ID).Logger()

	file, err := os.Open(filepath.Join(p.cfg.LogStoragePath, pending.FileName))
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer file.Close()

	resolver := identity.NewResolver(p.catalog)
	tr := tracker.New(logger)
	pr := parser.New(resolver, tr, p.catalog, logger)

	// The log format carries no year; the upload date supplies it.
	events, err := pr.ParseLog(file, pending.UploadedAt.Year())
	if err != nil {
		return fmt.Errorf("failed to parse log: %w", err)
	}
	if len(events) == 0 {
		logger.Warn().Msg("log produced no events")
		return nil
	}

	meta := domain.InstanceMeta{
		InstanceID:  pending.InstanceID,
		StartTs:     events[0].Timestamp,
		EndTs:       events[len(events)-1].Timestamp,
		ExpansionID: expansionVanilla,
	}
	for _, ev := range events {
		if zone, ok := ev.Kind.(domain.InstanceMap); ok {
			meta.MapID = zone.MapID
			meta.Difficulty = zone.Difficulty
			if zone.InstanceID != 0 {
				meta.InstanceID = zone.InstanceID
			}
			break
		}
	}

	instanceMetaID, err := p.instances.InsertMeta(ctx, meta)
	if err != nil {
		return err
	}

	committer := encounter.NewDBCommitter(p.attempts, logger)
	machine := encounter.NewMachine(instanceMetaID, p.catalog, committer, logger)
	machine.ProcessAll(ctx, events)

	p.extractLoot(ctx, instanceMetaID, events)

	for _, participant := range tr.Participants() {
		if err := p.armory.UpsertCharacter(ctx, participant); err != nil {
			logger.Warn().Err(err).Uint64("character_id", participant.ID).Msg("failed to upsert character")
		}
	}

	lastEvent := events[len(events)-1]
	if err := p.instances.UpdateWatermark(ctx, instanceMetaID, lastEvent.ID, lastEvent.Timestamp); err != nil {
		return err
	}

	logger.Info().
		Uint32("instance_meta_id", instanceMetaID).
		Int("event_count", len(events)).
		Int("participant_count", len(tr.Participants())).
		Msg("log processed")
	return nil
}

// extractLoot persists epic-or-better drops taken by players.
func (p *Processor) extractLoot(ctx context.Context, instanceMetaID uint32, events []domain.Event) {
	for _, ev := range events {
		lootEvent, ok := ev.Kind.(domain.Loot)
		if !ok || !ev.Subject.IsPlayer {
			continue
		}
		item, ok := p.catalog.Item(lootEvent.ItemID)
		if !ok || item.Quality < 5 {
			continue
		}
		err := p.loot.Insert(ctx, domain.InstanceLoot{
			InstanceMetaID: instanceMetaID,
			CharacterID:    ev.Subject.UnitID,
			ItemID:         lootEvent.ItemID,
			LootedTs:       ev.Timestamp,
			Amount:         lootEvent.Amount,
		})
		if err != nil {
			p.logger.Warn().Err(err).Uint32("item_id", lootEvent.ItemID).Msg("failed to record loot")
		}
	}
}

// CharacterRankings returns the cached ranking results of a character
// on one encounter for a metric table.
func (p *Processor) CharacterRankings(table string, encounterID uint32, characterID uint64) []domain.RankingResult {
	p.mu.RLock()
	defer p.mu.RUnlock()

	byEncounter, ok := p.rankingCache[table]
	if !ok {
		return nil
	}
	results := byEncounter[encounterID][characterID]
	out := make([]domain.RankingResult, len(results))
	copy(out, results)
	return out
}

// KillAttempts returns the cached kill attempts of an instance run and
// refreshes its idle timer.
func (p *Processor) KillAttempts(instanceMetaID uint32) []domain.InstanceAttempt {
	p.mu.Lock()
	defer p.mu.Unlock()

	kills, ok := p.killAttempts[instanceMetaID]
	if !ok {
		return nil
	}
	p.lastAccess[instanceMetaID] = time.Now()
	out := make([]domain.InstanceAttempt, len(kills))
	copy(out, kills)
	return out
}

// SpeedRuns returns the derived speed run board.
func (p *Processor) SpeedRuns() []domain.SpeedRun {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]domain.SpeedRun, len(p.speedRuns))
	copy(out, p.speedRuns)
	return out
}

// SpeedKills returns the derived speed kill board.
func (p *Processor) SpeedKills() []domain.SpeedKill {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]domain.SpeedKill, len(p.speedKills))
	copy(out, p.speedKills)
	return out
}
