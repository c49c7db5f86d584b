package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	SpeakUpRepo SpeakUpRepositoryFacade
	HistoryRepo HistoryRepositoryFacade
	LookupRepo  LookupRepositoryFacade
	UserRepo    UserRepositoryFacade
}
