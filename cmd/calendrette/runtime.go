package main

import (
	"context"
	"database/sql"
	"fmt"

	"calendrette/internal/app"
	"calendrette/internal/domain/account"
	"calendrette/internal/domain/auth"
	"calendrette/internal/domain/period"
	"calendrette/internal/infra/config"
	idb "calendrette/internal/infra/database"
	"calendrette/internal/infra/kvstore"
	"calendrette/internal/infra/logger"
	"calendrette/internal/infra/session"
	"calendrette/internal/infra/storage"

	"github.com/sirupsen/logrus"
)

// appRuntime holds the wired services for one command invocation.
type appRuntime struct {
	cfg      *config.AppConfig
	log      *logrus.Entry
	kv       *kvstore.SQLiteStore
	db       *sql.DB
	sessions *session.Provider
	storage  *app.StorageService
	accounts *app.AccountService
}

// open loads configuration, opens the stores and waits for the stored
// session to resolve. The returned runtime must be closed.
func (o *rootOptions) open(ctx context.Context) (*appRuntime, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	logger.Init(cfg)
	mainLogger := logger.WithComponent("main")

	setupCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	rt := &appRuntime{cfg: cfg, log: mainLogger}

	rt.kv, err = kvstore.OpenSQLite(cfg.LocalStorePath)
	if err != nil {
		return nil, fmt.Errorf("could not open local store: %w", err)
	}
	mainLogger.Debugf("Local store opened at %s", cfg.LocalStorePath)

	var accountRepo account.Repository
	var remote period.Backend
	var collection period.Collection
	if cfg.DatabaseURL != "" {
		rt.db, err = idb.NewPostgresConnection(setupCtx, cfg.DatabaseURL)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("could not connect to database: %w", err)
		}
		if err := idb.EnsureSchema(setupCtx, rt.db); err != nil {
			rt.Close()
			return nil, err
		}
		accountRepo = idb.NewPostgresAccountRepository(rt.db)
		collection = idb.NewPostgresPeriodCollection(rt.db)
		mainLogger.Debug("Database connection established.")
	}

	rt.sessions = session.NewProvider(rt.kv, accountRepo, logger.WithComponent("session"))
	if collection != nil {
		remote = storage.NewRemoteBackend(collection, rt.sessions)
	}

	rt.storage = app.NewStorageService(
		storage.NewPreferenceStore(rt.kv, cfg.DefaultKind),
		storage.NewLocalBackend(rt.kv),
		remote,
		rt.sessions,
		logger.WithComponent("storage"),
	)
	rt.accounts = app.NewAccountService(accountRepo, rt.sessions, logger.WithComponent("accounts"))

	// Commands run only once the session is resolved.
	rt.sessions.Start(setupCtx)
	state, err := auth.AwaitFirst(rt.sessions).Wait(setupCtx)
	if err != nil {
		mainLogger.Warnf("Session not resolved in time, continuing signed out: %v", err)
	} else {
		mainLogger.Debugf("Session resolved: %s", state.Status)
	}

	return rt, nil
}

func (rt *appRuntime) Close() {
	if rt.sessions != nil {
		rt.sessions.Close()
	}
	if rt.db != nil {
		if err := rt.db.Close(); err != nil {
			rt.log.Warnf("Error closing database: %v", err)
		}
	}
	if rt.kv != nil {
		if err := rt.kv.Close(); err != nil {
			rt.log.Warnf("Error closing local store: %v", err)
		}
	}
}

// withRuntime opens a runtime, runs fn with a timeout-bound context, and
// closes the runtime.
func (o *rootOptions) withRuntime(ctx context.Context, fn func(ctx context.Context, rt *appRuntime) error) error {
	rt, err := o.open(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	opCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	return fn(opCtx, rt)
}
