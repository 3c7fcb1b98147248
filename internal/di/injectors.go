//go:build wireinject
// +build wireinject

package di

import (
	"fbconsole/internal"
	"fbconsole/internal/backend"
	"fbconsole/internal/controllers"
	"fbconsole/internal/providers"
	"fbconsole/internal/services"
	"fbconsole/internal/session"
	"fbconsole/internal/storage"
	"fbconsole/internal/structures"
	"fbconsole/internal/view"

	wire "github.com/google/wire"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {
	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewTracingProvider,
		session.NewStore,
		wire.Bind(new(providers.SessionCounter), new(session.Store)),
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		backend.NewClient,
		services.NewFeedbackService,
		session.NewZstdCompressor,
		session.NewFileManager,
		session.NewScheduler,
		storage.NewSigner,
		storage.NewLinkResolver,
		view.NewRenderer,
		controllers.NewConsoleController,
		controllers.NewDownloadController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)
	return nil, nil
}
