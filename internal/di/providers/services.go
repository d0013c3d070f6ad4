package providers

import (
	"github.com/samber/do/v2"

	"github.com/reviewdbapp/reviewdb-server/internal/auth"
	"github.com/reviewdbapp/reviewdb-server/internal/config"
	"github.com/reviewdbapp/reviewdb-server/internal/logger"
	"github.com/reviewdbapp/reviewdb-server/internal/mail"
	"github.com/reviewdbapp/reviewdb-server/internal/service"
)

// ProvideMailer provides the confirmation-code mailer.
// Without an SMTP integration the codes are written to the server log.
func ProvideMailer(i do.Injector) (mail.Mailer, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return mail.NewLogMailer(log.Logger, cfg.Mail.FromAddress), nil
}

// ProvideAuthService provides the signup and token-exchange service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	mailer := do.MustInvoke[mail.Mailer](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, mailer, log.Logger), nil
}

// ProvideUserService provides the user administration service.
func ProvideUserService(i do.Injector) (*service.UserService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewUserService(storeHandle.Store, log.Logger), nil
}

// ProvideCatalogService provides the category, genre, and title service.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCatalogService(storeHandle.Store, log.Logger), nil
}

// ProvideReviewService provides the review and comment service.
func ProvideReviewService(i do.Injector) (*service.ReviewService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewReviewService(storeHandle.Store, log.Logger), nil
}
