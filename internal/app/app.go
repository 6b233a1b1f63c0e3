package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/fantasy-draft/internal/config"
	"github.com/riskibarqy/fantasy-draft/internal/domain/draft"
	"github.com/riskibarqy/fantasy-draft/internal/domain/league"
	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	"github.com/riskibarqy/fantasy-draft/internal/domain/team"
	"github.com/riskibarqy/fantasy-draft/internal/infrastructure/account/token"
	cacherepo "github.com/riskibarqy/fantasy-draft/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/fantasy-draft/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-draft/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/fantasy-draft/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/fantasy-draft/internal/platform/cache"
	idgen "github.com/riskibarqy/fantasy-draft/internal/platform/id"
	"github.com/riskibarqy/fantasy-draft/internal/usecase"
)

type repositories struct {
	leagues league.Repository
	teams   team.Repository
	players player.Repository
	drafts  draft.Repository
}

// NewHTTPServer wires repositories, services and the HTTP router into a
// ready-to-run server. The returned closer releases the database pool and
// must be called after the server has shut down.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *slog.Logger) (*http.Server, func() error, error) {
	repos, closeDB, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		cachedPlayers := cacherepo.NewPlayerRepository(repos.players, store)
		repos.players = cachedPlayers
		repos.drafts = cacherepo.NewDraftRepository(repos.drafts, cachedPlayers)
	}

	tokens, err := token.NewService(cfg.AuthSecret, cfg.TokenTTL)
	if err != nil {
		_ = closeDB()
		return nil, nil, fmt.Errorf("build token service: %w", err)
	}

	generator := idgen.NewRandomGenerator()
	handler := httpapi.NewHandler(
		usecase.NewLeagueService(repos.leagues, repos.teams, tokens, generator),
		usecase.NewDraftService(repos.leagues, repos.teams, repos.players, repos.drafts),
		usecase.NewPlayerService(repos.players),
		usecase.NewTeamService(repos.teams, repos.players),
		usecase.NewIngestionService(repos.players, generator, cfg.IngestWorkers),
		logger,
		cfg.UploadMaxBytes,
	)
	router := httpapi.NewRouter(handler, tokens, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = closeDB()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, closeDB, nil
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *slog.Logger) (repositories, func() error, error) {
	if cfg.DBURL == "" {
		logger.Info("using in-memory repositories", "reason", "DB_URL empty")
		store := memory.NewStore()
		repos := repositories{
			leagues: memory.NewLeagueRepository(store),
			teams:   memory.NewTeamRepository(store),
			players: memory.NewPlayerRepository(store),
			drafts:  memory.NewDraftRepository(store),
		}
		return repos, func() error { return nil }, nil
	}

	db, err := connectPostgres(ctx, cfg)
	if err != nil {
		return repositories{}, nil, err
	}

	logger.Info("using postgres repositories", "database", dbNameFromURL(cfg.DBURL))
	repos := repositories{
		leagues: postgres.NewLeagueRepository(db),
		teams:   postgres.NewTeamRepository(db),
		players: postgres.NewPlayerRepository(db),
		drafts:  postgres.NewDraftRepository(db),
	}
	return repos, db.Close, nil
}

func connectPostgres(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.ConnectContext(ctx, "postgres", dbURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	return db, nil
}
