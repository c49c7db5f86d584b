package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openhrstack/speakup_app/internal/core/domain"
	portsrepo "github.com/openhrstack/speakup_app/internal/core/ports/repositories"
)

type PgxLookupRepository struct {
	db *pgxpool.Pool
}

func newPgxLookupRepository(db *pgxpool.Pool) portsrepo.LookupRepositoryFacade {
	return &PgxLookupRepository{db: db}
}

var _ portsrepo.LookupRepositoryFacade = (*PgxLookupRepository)(nil)

func (r *PgxLookupRepository) findOptions(ctx context.Context, table string) ([]domain.LookupOption, error) {
	// table comes from the two fixed callers below, never from input.
	query := fmt.Sprintf(`SELECT key, value, sort_order FROM %s ORDER BY sort_order ASC, key ASC`, table)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", table, err)
	}
	defer rows.Close()

	var options []domain.LookupOption
	for rows.Next() {
		var o domain.LookupOption
		if err := rows.Scan(&o.Key, &o.Value, &o.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		options = append(options, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", table, err)
	}
	return options, nil
}

func (r *PgxLookupRepository) FindTypes(ctx context.Context) ([]domain.LookupOption, error) {
	return r.findOptions(ctx, "speak_up_types")
}

func (r *PgxLookupRepository) FindStatuses(ctx context.Context) ([]domain.LookupOption, error) {
	return r.findOptions(ctx, "speak_up_statuses")
}
