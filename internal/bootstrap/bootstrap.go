package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dhg/docflow/internal/config"
	"github.com/dhg/docflow/internal/core/ports"
	"github.com/dhg/docflow/internal/core/usecase"
	"github.com/dhg/docflow/internal/infrastructure/extractor"
	"github.com/dhg/docflow/internal/infrastructure/llm/claude"
	"github.com/dhg/docflow/internal/infrastructure/queue/nats"
	"github.com/dhg/docflow/internal/infrastructure/repository/postgres"
	"github.com/dhg/docflow/internal/infrastructure/resilience"
	"github.com/dhg/docflow/internal/infrastructure/storage/drive"
)

// App wires the pipeline's collaborators once; both binaries build from it.
type App struct {
	Config   config.Config
	Pipeline config.Pipeline

	Sources ports.SourceRepository
	Roots   ports.RootRepository
	Queue   ports.ClassifyQueue

	ExtractUC  *usecase.ExtractBatchUseCase
	ClassifyUC *usecase.ClassifyBatchUseCase
	PromoteUC  *usecase.PromoteUseCase
	SyncUC     *usecase.SyncUseCase
	RunAllUC   *usecase.RunAllUseCase

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	pipeline, err := config.LoadPipeline(cfg.PipelineConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load pipeline config: %w", err)
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	sources := postgres.NewSourceRepository(db)
	taxonomy := postgres.NewTaxonomyRepository(db)
	experts := postgres.NewExpertRepository(db)
	roots := postgres.NewRootRepository(db)

	executor := resilience.NewExecutor(resilience.DefaultPolicy())
	storage := drive.New(cfg.DriveBaseURL, cfg.DriveAccessToken, executor)

	llmClient := claude.New(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.ClassifyRatePerSec, executor)
	classifier := claude.NewClassifier(llmClient, pipeline.PromptPreamble, pipeline.ContentSnippetSize)

	queue, err := nats.New(cfg.NATSURL, cfg.NATSSubject)
	if err != nil {
		return nil, fmt.Errorf("init classify queue: %w", err)
	}

	extractUC := usecase.NewExtractBatchUseCase(
		sources, storage, extractor.New(storage),
		pipeline.SupportedMimeTypes, cfg.ExtractBatchSize, logger,
	)
	classifyUC := usecase.NewClassifyBatchUseCase(sources, taxonomy, classifier, cfg.ClassifyBatchSize, logger)
	promoteUC := usecase.NewPromoteUseCase(sources, experts, cfg.PromotionWindowDays, 0, logger)
	syncUC := usecase.NewSyncUseCase(roots, sources, storage, logger)

	return &App{
		Config:   cfg,
		Pipeline: pipeline,

		Sources: sources,
		Roots:   roots,
		Queue:   queue,

		ExtractUC:  extractUC,
		ClassifyUC: classifyUC,
		PromoteUC:  promoteUC,
		SyncUC:     syncUC,
		RunAllUC:   usecase.NewRunAllUseCase(extractUC, classifyUC, promoteUC),

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
