// Package di provides dependency injection configuration for the Ichigo server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/ichigoapp/ichigo-server/internal/config"
	"github.com/ichigoapp/ichigo-server/internal/di/providers"
	"github.com/ichigoapp/ichigo-server/internal/logger"
	"github.com/ichigoapp/ichigo-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Persistence layer
	do.Provide(injector, providers.ProvideStore)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)

	// Media layer
	do.Provide(injector, providers.ProvideMediaService)

	// Business services
	do.Provide(injector, providers.ProvideNotifier)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideSettingsService)
	do.Provide(injector, providers.ProvideAdminService)
	do.Provide(injector, providers.ProvideQuestionService)
	do.Provide(injector, providers.ProvideMessageService)
	do.Provide(injector, providers.ProvideTagService)
	do.Provide(injector, providers.ProvideTriageService)
	do.Provide(injector, providers.ProvideProfileService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*providers.MediaServiceHandle](injector)

	// Business services
	_ = do.MustInvoke[service.Notifier](injector)
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.SettingsService](injector)
	_ = do.MustInvoke[*service.AdminService](injector)
	_ = do.MustInvoke[*service.QuestionService](injector)
	_ = do.MustInvoke[*service.MessageService](injector)
	_ = do.MustInvoke[*service.TagService](injector)
	_ = do.MustInvoke[*service.TriageService](injector)
	_ = do.MustInvoke[*service.ProfileService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	// Rebuild the search index from the store when it starts empty
	providers.TriggerSearchReindexIfNeeded(injector)

	return nil
}
