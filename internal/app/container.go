package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skill-match/internal/config"
	"skill-match/internal/database"
	"skill-match/internal/database/migration"
	dbpostgres "skill-match/internal/database/postgres"
	"skill-match/internal/domain/bias"
	"skill-match/internal/domain/mlmodel"
	"skill-match/internal/domain/ontology"
	"skill-match/internal/infrastructure/cache"
	"skill-match/internal/infrastructure/llm"
	"skill-match/internal/infrastructure/persistence/badgerstore"
	"skill-match/internal/logger"
	"skill-match/internal/repository"
	"skill-match/internal/usecase"
	"skill-match/internal/ws"
	"skill-match/migrations"

	"go.uber.org/zap"
)

type Container struct {
	Config config.Config
	Logger *zap.Logger

	DB        database.DB
	Rankings  repository.RankingRepository
	Cache     *cache.Redis
	Ontology  *ontology.Graph
	Predictor *mlmodel.Predictor
	Auditor   *bias.Auditor
	Hub       *ws.Hub

	MatchUC    *usecase.MatchUsecase
	RankingUC  *usecase.RankingUsecase
	BiasUC     *usecase.BiasUsecase
	OntologyUC *usecase.OntologyUsecase
	ModelUC    *usecase.ModelUsecase

	closers []func() error
}

func NewContainer(ctx context.Context, cfg config.Config, l *zap.Logger) (*Container, error) {
	l = logger.OrNop(l)
	c := &Container{Config: cfg, Logger: l}

	if err := c.openStore(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}

	g, err := ontology.Load(cfg.Ontology.OverrideFile)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("load ontology: %w", err)
	}
	c.Ontology = g
	st := g.Stats()
	l.Info("ontology loaded",
		zap.String("version", g.Version()),
		zap.Int("skills", st.TotalSkills),
		zap.Int("jobs", st.TotalJobs),
		zap.String("override_file", cfg.Ontology.OverrideFile),
	)

	c.Predictor = mlmodel.NewPredictor(loadSnapshot(cfg.Models.Dir, l))

	var assessor usecase.LLMAssessor
	if cfg.LLM.Enabled {
		gen, err := llm.NewGenerator(ctx, cfg.LLM.APIKey, cfg.LLM.Model)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("create llm client: %w", err)
		}
		assessor = llm.NewScorer(gen, cfg.LLM.RPS, l)
		l.Info("llm score source enabled", zap.String("model", gen.Model()), zap.Float64("rps", cfg.LLM.RPS))
	}

	c.Cache = cache.NewRedis(ctx, cfg.Redis, l)
	c.closers = append(c.closers, c.Cache.Close)

	c.Auditor = bias.NewAuditor(cfg.Bias.LogCapacity, bias.WithLogger(l))
	c.Hub = ws.NewHub(l)

	c.MatchUC = usecase.NewMatchUsecase(g, usecase.DefaultProviders(c.Predictor, assessor, cfg.LLM.Timeout), c.Cache, cfg.Redis.TTL, l).
		WithModels(c.Predictor)
	c.RankingUC = usecase.NewRankingUsecase(c.Rankings, c.MatchUC, c.Auditor, ws.NewNotifier(c.Hub), l)
	c.BiasUC = usecase.NewBiasUsecase(c.Auditor)
	c.OntologyUC = usecase.NewOntologyUsecase(g)
	c.ModelUC = usecase.NewModelUsecase(c.Predictor, cfg.Models.Dir, l)

	return c, nil
}

func (c *Container) openStore(ctx context.Context) error {
	switch c.Config.Store.Driver {
	case config.StoreDriverPostgres:
		cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		db, err := dbpostgres.Connect(cctx, c.Config.Database, c.Logger)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		c.DB = db
		c.closers = append(c.closers, db.Close)

		if _, err := Migrate(ctx, db, c.Config.Database.MigrationsDir, c.Logger); err != nil {
			return err
		}
		c.Rankings = repository.NewPostgresRankingRepository(db)
		c.Logger.Info("ranking store ready", zap.String("driver", config.StoreDriverPostgres))

	default:
		s, err := badgerstore.Open(badgerstore.Options{Dir: c.Config.Store.BadgerDir, Logger: c.Logger})
		if err != nil {
			return err
		}
		c.Rankings = s
		c.closers = append(c.closers, s.Close)
		c.Logger.Info("ranking store ready", zap.String("driver", config.StoreDriverBadger), zap.String("dir", c.Config.Store.BadgerDir))
	}
	return nil
}

func Migrate(ctx context.Context, db database.DB, dir string, l *zap.Logger) (int, error) {
	r := migration.Runner{Source: migrations.FS, Logger: l}
	if dir != "" {
		r = migration.NewDirRunner(dir, l)
	}
	applied, err := r.Run(ctx, db.SQLDB())
	if err != nil {
		return len(applied), fmt.Errorf("run migrations: %w", err)
	}
	return len(applied), nil
}

func loadSnapshot(dir string, l *zap.Logger) *mlmodel.Snapshot {
	snap, err := mlmodel.Load(dir)
	switch {
	case err == nil:
		l.Info("ml snapshot loaded", zap.String("path", mlmodel.SnapshotPath(dir)), zap.Time("trained_at", snap.TrainedAt))
		return snap
	case errors.Is(err, mlmodel.ErrNoTrainedModel):
		l.Info("no ml snapshot, using fallback scorer", zap.String("dir", dir))
	default:
		l.Warn("ml snapshot unreadable, using fallback scorer", zap.String("dir", dir), zap.Error(err))
	}
	return nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
