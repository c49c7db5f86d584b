package services

import (
	portsrepo "github.com/openhrstack/speakup_app/internal/core/ports/repositories"
	portssvc "github.com/openhrstack/speakup_app/internal/core/ports/services"
	"github.com/openhrstack/speakup_app/internal/platform/config"
	"github.com/openhrstack/speakup_app/internal/utils/payload"
)

// NewServiceContainer wires every service over the repository provider.
func NewServiceContainer(repos portsrepo.RepositoryProvider, sealer *payload.Sealer, cfg *config.Config) portssvc.ServiceContainer {
	return portssvc.ServiceContainer{
		SpeakUp:    NewSpeakUpService(repos.SpeakUpRepo, repos.HistoryRepo, repos.LookupRepo, repos.UserRepo, sealer, cfg.DefaultCompanyID),
		User:       NewUserService(repos.UserRepo, cfg.RefreshTokenExpiryDuration),
		Token:      NewTokenService(cfg),
		GoogleAuth: NewGoogleAuthService(cfg.GoogleClientID),
	}
}
