package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openhrstack/speakup_app/internal/core/domain"
	portsrepo "github.com/openhrstack/speakup_app/internal/core/ports/repositories"
	"github.com/openhrstack/speakup_app/internal/models"
)

// pgxExecutor is satisfied by both *pgxpool.Pool and pgx.Tx, so history rows
// can be written standalone or inside a workflow transaction.
type pgxExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type PgxHistoryRepository struct {
	db *pgxpool.Pool
}

func newPgxHistoryRepository(db *pgxpool.Pool) portsrepo.HistoryRepositoryFacade {
	return &PgxHistoryRepository{db: db}
}

var _ portsrepo.HistoryRepositoryFacade = (*PgxHistoryRepository)(nil)

func toDomainHistory(m models.SpeakUpHistory) domain.HistoryEntry {
	return domain.HistoryEntry{
		HistoryID:  m.HistoryID,
		SpeakUpID:  m.SpeakUpID,
		StatusFrom: m.StatusFrom.String,
		StatusTo:   m.StatusTo.String,
		ActionBy:   m.ActionBy.String,
		ActorName:  m.ActorName.String,
		Remarks:    m.Remarks,
		CreatedAt:  m.CreatedAt,
	}
}

func (r *PgxHistoryRepository) FindHistory(ctx context.Context, speakUpID int64) ([]domain.HistoryEntry, error) {
	query := `
		SELECT history_id, speak_up_id, status_from, status_to, action_by, actor_name, remarks, created_at
		FROM speak_up_history
		WHERE speak_up_id = $1
		ORDER BY created_at ASC, history_id ASC`

	rows, err := r.db.Query(ctx, query, speakUpID)
	if err != nil {
		return nil, fmt.Errorf("failed to find history for speak-up %d: %w", speakUpID, err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var m models.SpeakUpHistory
		if err := rows.Scan(&m.HistoryID, &m.SpeakUpID, &m.StatusFrom, &m.StatusTo, &m.ActionBy, &m.ActorName, &m.Remarks, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entries = append(entries, toDomainHistory(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history rows: %w", err)
	}
	return entries, nil
}

func insertHistory(ctx context.Context, db pgxExecutor, entry domain.HistoryEntry) error {
	query := `
		INSERT INTO speak_up_history (speak_up_id, status_from, status_to, action_by, actor_name, remarks, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := db.Exec(ctx, query,
		entry.SpeakUpID,
		nullStr(entry.StatusFrom),
		nullStr(entry.StatusTo),
		nullStr(entry.ActionBy),
		nullStr(entry.ActorName),
		entry.Remarks,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append history for speak-up %d: %w", entry.SpeakUpID, err)
	}
	return nil
}

func (r *PgxHistoryRepository) AppendHistory(ctx context.Context, entry domain.HistoryEntry) error {
	return insertHistory(ctx, r.db, entry)
}
