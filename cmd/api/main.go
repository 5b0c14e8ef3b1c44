package main

import (
	"context"
	"database/sql"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo/readpref"

	"saasbase.org/internal/auth"
	"saasbase.org/internal/config"
	"saasbase.org/internal/db"
	"saasbase.org/internal/httpapi"
	"saasbase.org/internal/obs"
	"saasbase.org/internal/org"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	cfg := config.MustLoad()

	obs.InitLogger(obs.LogOptions{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	obs.Init()
	obs.InitBuildInfo(version, commit)
	log := obs.Logger()

	signer, err := auth.NewSigner(auth.SignerConfig{
		Issuer:        cfg.Auth.Issuer,
		AccessSecret:  []byte(cfg.Auth.AccessSecret),
		RefreshSecret: []byte(cfg.Auth.RefreshSecret),
		AccessTTL:     cfg.Auth.AccessTTL,
		RefreshTTL:    cfg.Auth.RefreshTTL,
	})
	if err != nil {
		log.Fatalf("token signer: %v", err)
	}

	ctx := context.Background()

	var (
		users  auth.UserStore
		orgs   org.Store
		ready  httpapi.ReadyProbe
		closer func()
	)

	switch cfg.Storage.Driver {
	case "mongo":
		mdb, err := db.OpenMongo(ctx, cfg.Storage.DSN, cfg.Storage.Database)
		if err != nil {
			log.Fatalf("storage: %v", err)
		}
		userStore := auth.NewMongoUserStore(mdb)
		orgStore := org.NewMongoStore(mdb)
		if err := userStore.EnsureIndexes(ctx); err != nil {
			log.Fatalf("user indexes: %v", err)
		}
		if err := orgStore.EnsureIndexes(ctx); err != nil {
			log.Fatalf("organisation indexes: %v", err)
		}
		users, orgs = userStore, orgStore
		ready = httpapi.ReadyProbe{Ping: func(ctx context.Context) error {
			return mdb.Client().Ping(ctx, readpref.Primary())
		}}
		closer = func() { _ = mdb.Client().Disconnect(context.Background()) }

	case "postgres":
		pool, err := db.OpenPostgres(cfg.Storage.DSN)
		if err != nil {
			log.Fatalf("storage: %v", err)
		}
		users = auth.NewPGUserStore(pool)
		orgs = org.NewPGStore(pool)
		ready = httpapi.ReadyProbe{Ping: pingSQL(pool)}
		closer = func() { _ = pool.Close() }

	default:
		log.Warn("no storage driver configured, using in-memory stores")
		users = auth.NewMemoryUserStore()
		orgs = org.NewMemory()
		closer = func() {}
	}

	authSvc, err := auth.NewService(users, signer)
	if err != nil {
		log.Fatalf("auth service: %v", err)
	}
	orgSvc, err := org.NewService(orgs)
	if err != nil {
		log.Fatalf("organisation service: %v", err)
	}

	api := httpapi.New(httpapi.Options{
		Auth:               authSvc,
		Orgs:               orgSvc,
		Ready:              ready,
		Version:            version,
		RateLimitBurst:     cfg.RateLimit.Burst,
		RateLimitPerSecond: cfg.RateLimit.PerSecond,
	})

	addr := net.JoinHostPort(cfg.Server.Address, cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Infof("starting saasbase-api %s on %s", version, addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(shutdownCtx)
	closer()
	log.Info("stopped")
}

func pingSQL(pool *sql.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return pool.PingContext(ctx)
	}
}
