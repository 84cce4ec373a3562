package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"microwave/internal/handlers"
	"microwave/internal/logger"
	"microwave/internal/repository"
	"microwave/internal/repository/db"
	"microwave/internal/server"
	"microwave/internal/service"
	"microwave/internal/ws"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

func main() {
	// init logger
	log := logger.Get(logger.InfoLevel)

	// load config.yml
	if err := loadConfig(); err != nil {
		log.Fatalw("error reading config", "err", err)
	}

	// connect to the shared state store
	rdb, err := openRedis(log)
	if err != nil {
		log.Fatalw("failed to connect to redis", "err", err)
	}
	defer func() {
		if cerr := rdb.Close(); cerr != nil {
			log.Errorw("failed to close redis client", "err", cerr)
		}
	}()

	// open the audit/user DB
	sqldb, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := sqldb.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(rdb, sqldb, repository.LockConfig{
		Name:           viper.GetString("redis.lock_name"),
		AcquireTimeout: viper.GetDuration("lock.acquire_timeout"),
		Expiry:         viper.GetDuration("lock.expiry"),
	})
	registry := ws.NewRegistry(log)
	services := service.NewService(repos, registry, service.Config{
		SigningKey: viper.GetString("auth.signing_key"),
		TokenTTL:   viper.GetDuration("auth.token_ttl"),
	}, log)
	apiHandler := handlers.NewHandler(services, registry, log)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

// openRedis connects to the shared state store holding device state and the lock.
func openRedis(log *logger.Logger) (*redis.Client, error) {
	addr := viper.GetString("redis.addr")
	if addr == "" {
		log.Infow("redis.addr not set in config; using default", "default", "localhost:6379")
		addr = "localhost:6379"
	}
	return db.NewRedisClient(db.RedisConfig{
		Addr:     addr,
		Password: viper.GetString("redis.password"),
		DB:       viper.GetInt("redis.db"),
	})
}

// openDB initializes the SQLite database holding audit events and users.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "microwave.db")
		dbPath = "microwave.db"
	}
	return db.InitDB(dbPath)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8000"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
