package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"fbconsole/internal/controllers"
	"fbconsole/internal/providers"
	"fbconsole/internal/session/interfaces"
	"fbconsole/internal/structures"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type App struct {
	WebServer *http.Server
}

func NewApp(healthController *controllers.HealthController, scheduler interfaces.SchedulerInterface, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface, shutdownTracer providers.TracerShutdown) (*App, error) {
	consoleMux := http.NewServeMux()
	for _, route := range router.GetRoutes() {
		consoleMux.Handle(route.Url, route.Handler)
	}

	instrumented := otelhttp.NewHandler(providers.MetricsMiddleware(metrics, logger, consoleMux), conf.AppName)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", instrumented)

	logger.Infof(providers.TypeApp, "Starting %s against %s", conf.AppName, conf.Backend.BaseURL)

	err := scheduler.Restore()
	if err != nil {
		logger.Errorf(providers.TypeApp, "Restore error: %s", err)
	}

	app := &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: conf.Backend.Timeout + 10*time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	scheduler.Init()

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof(providers.TypeApp, "Listening HTTP clients on %s:%d", conf.WebServer.Host, conf.WebServer.Port)
		if err := app.WebServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		scheduler.Stop()
		if cerr := scheduler.Close(); cerr != nil {
			logger.Warnf(providers.TypeApp, "Session store close: %s", cerr)
		}
		return nil, fmt.Errorf("server error: %w", err)
	}

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err = app.WebServer.Shutdown(ctx); err != nil {
		return nil, err
	}

	err = scheduler.Persist()
	if err != nil {
		return nil, err
	}

	if err = scheduler.Close(); err != nil {
		logger.Warnf(providers.TypeApp, "Session store close: %s", err)
	}

	if err = shutdownTracer(ctx); err != nil {
		logger.Warnf(providers.TypeApp, "Tracer shutdown: %s", err)
	}

	logger.Infof(providers.TypeApp, "gracefully stopped")
	logger.Close()
	return app, nil
}
