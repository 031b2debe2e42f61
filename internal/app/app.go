package app

import (
	"fmt"
	"net/http"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	_ "modernc.org/sqlite"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/external/dbb"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/config"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/store"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/infrastructure/catalog"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/infrastructure/repository/memory"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/infrastructure/repository/sqlstore"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/interfaces/httpapi"
	idgen "github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/platform/id"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/platform/logging"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/platform/relay"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/platform/resilience"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/usecase"
)

// Runtime holds the wired services behind the HTTP server.
type Runtime struct {
	Server      *http.Server
	SyncService *usecase.LeagueSyncService
	db          *sqlx.DB
}

func NewRuntime(cfg config.Config, logger *logging.Logger) (*Runtime, error) {
	if logger == nil {
		logger = logging.Default()
	}

	tx, db, err := openStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	fetcher := relay.NewFetcher(relay.Config{
		Relays:        cfg.DBBRelays,
		DirectTimeout: cfg.DBBDirectTimeout,
		RelayTimeout:  cfg.DBBRelayTimeout,
		MaxBodyBytes:  cfg.DBBMaxBodyBytes,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.DBBRelayCircuitEnabled,
			FailureThreshold: cfg.DBBRelayCircuitFailureCount,
			OpenTimeout:      cfg.DBBRelayCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.DBBRelayCircuitHalfOpenMax,
		},
		Logger: logger,
	})
	client := dbb.NewClient(dbb.ClientConfig{
		Fetcher: fetcher,
		BaseURL: cfg.DBBBaseURL,
		Logger:  logger,
	})

	ids := idgen.NewUUIDGenerator()
	identitySvc := usecase.NewTeamIdentityService(tx, ids, nil, logger)
	syncSvc := usecase.NewLeagueSyncService(
		client,
		tx,
		identitySvc,
		ids,
		nil,
		usecase.LeagueSyncConfig{
			GameDetailInterval: cfg.SyncGameDetailInterval,
			Workers:            cfg.SyncWorkers,
		},
		logger,
	)
	catalogSvc := usecase.NewCatalogService(
		catalog.NewFileSource(os.DirFS(cfg.CatalogDir)),
		cfg.CatalogIndexTTL,
		logger,
	)

	directorySvc := usecase.NewLeagueDirectoryService(client, cfg.LeagueListingTTL, logger)

	handler := httpapi.NewHandler(syncSvc, identitySvc, catalogSvc, directorySvc, logger)
	router := httpapi.NewRouter(handler, logger, httpapi.RouterOptions{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		AdminToken:         cfg.AdminToken,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		if db != nil {
			_ = db.Close()
		}
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &Runtime{Server: server, SyncService: syncSvc, db: db}, nil
}

// Close releases the database handle, if any.
func (r *Runtime) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func openStore(cfg config.Config, logger *logging.Logger) (store.Transactor, *sqlx.DB, error) {
	if cfg.DBDriver == config.DBDriverMemory {
		logger.Warn("using in-memory store, data is lost on restart")
		return memory.NewStore(), nil, nil
	}

	dsn := cfg.DBURL
	if cfg.DBDriver == config.DBDriverPostgres {
		dsn = withLocalSSLDisabled(dsn)
	}

	db, err := otelsqlx.Open(cfg.DBDriver, dsn,
		otelsql.WithDBName(databaseName(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s database: %w", cfg.DBDriver, err)
	}
	if cfg.DBDriver == config.DBDriverSQLite {
		// SQLite allows one writer at a time.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping %s database: %w", cfg.DBDriver, err)
	}

	if cfg.DBAutoMigrate {
		if err := sqlstore.Migrate(db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		logger.Info("database migrations applied", "driver", cfg.DBDriver)
	}

	return sqlstore.NewStore(db), db, nil
}
