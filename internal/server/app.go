// Package server wires the storage backend, upstream clients, services and
// transports together and runs them until the process is signalled.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/holidaycal/internal/httpx"
	"github.com/dmitrijs2005/holidaycal/internal/logging"
	"github.com/dmitrijs2005/holidaycal/internal/server/config"
	"github.com/dmitrijs2005/holidaycal/internal/server/httpapi"
	"github.com/dmitrijs2005/holidaycal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/holidaycal/internal/server/services"
	"github.com/dmitrijs2005/holidaycal/internal/server/upstream/countriesnow"
	"github.com/dmitrijs2005/holidaycal/internal/server/upstream/nager"

	gs "github.com/dmitrijs2005/holidaycal/internal/server/grpc"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	storage repomanager.RepositoryManager
	handler http.Handler
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {

	storage, err := repomanager.Open(ctx, repomanager.Options{
		DatabaseDSN:   c.DatabaseDSN,
		MongoURI:      c.MongoURI,
		MongoDatabase: c.MongoDatabase,
		Bootstrap:     repomanager.SeedTestUser,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	hc := httpx.NewClient(c.UpstreamTimeout)
	holidays := nager.NewClient(c.DateNagerAPIURL, hc, logger)
	stats := countriesnow.NewClient(c.CountriesNowAPIURL, hc, c.PopulationTimeout, logger)

	calendar := services.NewCalendarService(storage.Users(), storage.Events(), holidays, logger)
	countries := services.NewCountryService(holidays, stats, logger)
	export := services.NewExportService(calendar, c, logger)

	gin.SetMode(gin.ReleaseMode)
	router := httpapi.NewRouter(httpapi.Services{
		Calendar:  calendar,
		Countries: countries,
		Export:    export,
	}, logger)

	return &App{config: c, logger: logger, storage: storage, handler: router}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	srv := &http.Server{
		Addr:              app.config.HTTPAddr,
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "HTTP shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", app.config.HTTPAddr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewHealthServer(app.config.GRPCAddr, app.storage, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves HTTP (and gRPC health when an address is configured) until ctx
// is cancelled or a termination signal arrives, then closes the storage.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.storage.Backend(), "export", app.config.ExportEnabled())

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	if app.config.GRPCAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startGRPCServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.storage.Close(closeCtx); err != nil {
		app.logger.Error(closeCtx, "Storage close error", "error", err)
	}

	app.logger.Info(closeCtx, "App stopped")
}
