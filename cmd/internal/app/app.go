// Package app wires the chirp server runtime: config, logging, storage,
// metrics, and the auth HTTP surface.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"chirp/cmd/identity"
	"chirp/cmd/internal/auth/account"
	authapi "chirp/cmd/internal/auth/api"
	"chirp/cmd/internal/auth/token"
	"chirp/cmd/internal/upload"
	"chirp/cmd/security/password"

	"github.com/jackc/pgx/v5/pgxpool"
)

// App is the chirp server runtime. It owns the HTTP server wiring and the
// lifecycle of the DB pool.
type App struct {
	cfg Config
	log Logger

	store  identity.Store
	dbPool *pgxpool.Pool

	metrics *Metrics
	auth    *authapi.Handler
}

// New constructs a fully wired App instance from config and logger.
// A missing token signing secret is a startup error on purpose: the
// server must never fall back to a guessable key.
func New(cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel)
	}

	ctx := context.Background()

	store, dbPool, err := newStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	tokenCfg, err := token.LoadConfigFromEnv()
	if err != nil {
		closePool(dbPool)
		return nil, err
	}
	tokens, err := token.NewHS256Manager(tokenCfg)
	if err != nil {
		closePool(dbPool)
		return nil, err
	}

	hashParams, err := password.FromEnv()
	if err != nil {
		closePool(dbPool)
		return nil, err
	}

	uploader, err := newUploader(ctx, cfg, log)
	if err != nil {
		closePool(dbPool)
		return nil, err
	}

	accounts := account.NewService(log, store, tokens, uploader, hashParams)

	auth, err := authapi.NewHandler(log, authapi.LoadConfigFromEnv(), accounts, tokens, store, dbPool)
	if err != nil {
		closePool(dbPool)
		return nil, err
	}

	return &App{
		cfg:     cfg,
		log:     log,
		store:   store,
		dbPool:  dbPool,
		metrics: NewMetrics(),
		auth:    auth,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or a
// fatal server error.
func (a *App) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	registerHTTP(mux, a.log, a.cfg, a.dbPool, a.metrics, a.auth)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           WithRequestLogging(mux, a.log, a.metrics),
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       nonZeroDuration(a.cfg.ReadTimeout, 30*time.Second),
		WriteTimeout:      nonZeroDuration(a.cfg.WriteTimeout, 30*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.MaxHeaderBytes, 1<<20),
	}

	a.log.Info("server.start", "addr", a.cfg.HTTPAddr, "db_enabled", a.dbPool != nil)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("server.stop", "reason", "context_done")
	case err := <-errCh:
		a.log.Error("server.fail", "err", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server.shutdown.fail", "err", err)
		return err
	}

	closePool(a.dbPool)

	a.log.Info("server.stopped")
	return nil
}

// newStore decides between Postgres-backed persistence and the in-memory
// dev store. The pool is nil in memory mode, which also disables the
// audit log.
func newStore(ctx context.Context, cfg Config, log Logger) (identity.Store, *pgxpool.Pool, error) {
	if cfg.DatabaseURL == "" {
		log.Info("db.disabled.inmemory_store")
		return identity.NewMemoryStore(), nil, nil
	}

	pool, err := NewDBPool(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	store, err := identity.NewPostgresStore(pool)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}

	log.Info("db.enabled.postgres_store")
	return store, pool, nil
}

// newUploader wires object storage when a bucket is configured; otherwise
// image updates are rejected upstream of the store.
func newUploader(ctx context.Context, cfg Config, log Logger) (upload.Uploader, error) {
	if cfg.S3Bucket == "" {
		log.Info("upload.disabled.no_bucket")
		return upload.Disabled{}, nil
	}

	u, err := upload.NewS3Uploader(ctx, upload.S3Config{
		Region:        cfg.S3Region,
		BaseEndpoint:  cfg.S3Endpoint,
		Bucket:        cfg.S3Bucket,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		PublicBaseURL: cfg.S3PublicBaseURL,
	})
	if err != nil {
		return nil, err
	}

	log.Info("upload.enabled.s3", "bucket", cfg.S3Bucket)
	return u, nil
}

func closePool(pool *pgxpool.Pool) {
	if pool != nil {
		pool.Close()
	}
}

func nonZeroDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func nonZeroInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
