package internal

import (
	"net/http"

	"fbconsole/internal/controllers"
	"fbconsole/internal/providers"
	"fbconsole/internal/storage"
)

func InitRoutes(console *controllers.ConsoleController, download *controllers.DownloadController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()
	routers.Get("/{$}", http.HandlerFunc(console.Index))
	routers.Post("/delete", http.HandlerFunc(console.Delete))
	routers.Get("/api/page", http.HandlerFunc(console.PageJSON))
	routers.Get("/legacy", http.HandlerFunc(console.Legacy))
	routers.Get(storage.DownloadPath, http.HandlerFunc(download.Download))
	return routers
}
