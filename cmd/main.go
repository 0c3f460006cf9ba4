package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auradash/internal/handlers"
	"auradash/internal/hardware"
	"auradash/internal/logger"
	"auradash/internal/notify"
	"auradash/internal/repository"
	"auradash/internal/server"
	"auradash/internal/service"

	"github.com/spf13/viper"
)

// Seed server used in mock mode so a first pass against an empty store has
// something to reconcile.
const (
	mockSeedServerName = "Main Server"
	mockSeedServerAddr = "192.168.1.100"
)

func main() {
	// init logger
	log := logger.Get(logger.InfoLevel)

	// load config.yml
	if err := loadConfig(); err != nil {
		log.Fatalw("error reading config", "err", err)
	}

	// open DB
	db, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Fatalw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(db)
	hub := notify.NewHub(log)
	transport, cfg := buildTransport(log)
	services := service.NewService(repos, transport, hub, log, cfg)
	apiHandler := handlers.NewHandler(services, hub, log)

	// background sync, paused/resumed via the lifecycle endpoints
	services.Scheduler.Start()

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(services.Scheduler, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "aura.db")
		dbPath = "aura.db"
	}
	return repository.InitDB(dbPath)
}

// buildTransport selects the real or mock hardware transport once at
// startup; the engine only ever sees the interface.
func buildTransport(log *logger.Logger) (hardware.Transport, service.Config) {
	cfg := service.Config{
		SyncInterval:       viper.GetDuration("sync.interval"),
		DiscoveryTimeout:   viper.GetDuration("discovery.timeout"),
		DiscoveryBatchSize: viper.GetInt("discovery.batch_size"),
	}

	if viper.GetBool("hardware.use_mock") {
		log.Infow("using mock hardware transport")
		cfg.SeedServerName = mockSeedServerName
		cfg.SeedServerAddr = mockSeedServerAddr
		return hardware.NewMock(), cfg
	}

	timeout := viper.GetDuration("hardware.timeout")
	return hardware.NewClient(timeout), cfg
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful
// shutdown.
func waitForShutdown(scheduler service.Scheduler, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background sync; an in-flight pass runs to completion
	scheduler.Stop()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
