package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"raidtracker/internal/domain"
)

type InstanceRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewInstanceRepository(sqlDB *sql.DB, logger zerolog.Logger) *InstanceRepository {
	return &InstanceRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// MetasSince returns instance metadata rows beyond the watermark, in
// id order. The periodic pass re-queries from the last seen id, which
// makes metadata ingestion at-least-once idempotent.
func (r *InstanceRepository) MetasSince(ctx context.Context, lastSeenID uint32) ([]domain.InstanceMeta, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, map_id, instance_id, difficulty, start_ts, end_ts, last_event_id, expansion_id
		 FROM instance_meta WHERE id > ? ORDER BY id`, lastSeenID)
	if err != nil {
		return nil, fmt.Errorf("failed to query instance metas: %w", err)
	}
	defer rows.Close()

	var metas []domain.InstanceMeta
	for rows.Next() {
		var m domain.InstanceMeta
		if err := rows.Scan(&m.ID, &m.MapID, &m.InstanceID, &m.Difficulty, &m.StartTs, &m.EndTs, &m.LastEventID, &m.ExpansionID); err != nil {
			return nil, fmt.Errorf("failed to scan instance meta: %w", err)
		}
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

func (r *InstanceRepository) InsertMeta(ctx context.Context, meta domain.InstanceMeta) (uint32, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO instance_meta (map_id, instance_id, difficulty, start_ts, end_ts, last_event_id, expansion_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		meta.MapID, meta.InstanceID, meta.Difficulty, meta.StartTs, meta.EndTs, meta.LastEventID, meta.ExpansionID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert instance meta: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read instance meta id: %w", err)
	}
	return uint32(id), nil
}

// UpdateWatermark records how far into the event stream the instance
// has been processed.
func (r *InstanceRepository) UpdateWatermark(ctx context.Context, instanceMetaID uint32, lastEventID, endTs uint64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE instance_meta SET last_event_id = ?, end_ts = ? WHERE id = ?`,
		lastEventID, endTs, instanceMetaID)
	if err != nil {
		return fmt.Errorf("failed to update watermark: %w", err)
	}
	r.logger.Debug().
		Uint32("instance_meta_id", instanceMetaID).
		Uint64("last_event_id", lastEventID).
		Msg("watermark updated")
	return nil
}

// PendingLogs lists uploaded combat logs the processing pass has not
// consumed yet.
func (r *InstanceRepository) PendingLogs(ctx context.Context) ([]domain.PendingLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, file_name, instance_id, uploaded_at FROM pending_log WHERE processed_at IS NULL ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending logs: %w", err)
	}
	defer rows.Close()

	var logs []domain.PendingLog
	for rows.Next() {
		var l domain.PendingLog
		if err := rows.Scan(&l.ID, &l.FileName, &l.InstanceID, &l.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pending log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (r *InstanceRepository) MarkProcessed(ctx context.Context, logID uint32) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE pending_log SET processed_at = CURRENT_TIMESTAMP WHERE id = ?`, logID)
	if err != nil {
		return fmt.Errorf("failed to mark log processed: %w", err)
	}
	return nil
}
