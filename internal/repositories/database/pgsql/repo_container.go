package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/openhrstack/speakup_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		SpeakUpRepo: newPgxSpeakUpRepository(dbPool),
		HistoryRepo: newPgxHistoryRepository(dbPool),
		LookupRepo:  newPgxLookupRepository(dbPool),
		UserRepo:    newPgxUserRepository(dbPool),
	}
}
