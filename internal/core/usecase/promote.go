package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dhg/docflow/internal/core/domain"
	"github.com/dhg/docflow/internal/core/ports"
	"github.com/dhg/docflow/internal/infrastructure/textnorm"
)

// PromoteUseCase copies classified, content-bearing sources into
// expert_documents. Promotion is at most once per source: sources that
// already have an expert row are skipped, not failed.
type PromoteUseCase struct {
	sources   ports.SourceRepository
	experts   ports.ExpertRepository
	window    time.Duration
	batchSize int
	logger    *slog.Logger
}

func NewPromoteUseCase(
	sources ports.SourceRepository,
	experts ports.ExpertRepository,
	windowDays int,
	batchSize int,
	logger *slog.Logger,
) *PromoteUseCase {
	if windowDays <= 0 {
		windowDays = 30
	}
	if batchSize <= 0 {
		batchSize = 200
	}
	return &PromoteUseCase{
		sources:   sources,
		experts:   experts,
		window:    time.Duration(windowDays) * 24 * time.Hour,
		batchSize: batchSize,
		logger:    logger,
	}
}

func (uc *PromoteUseCase) Run(ctx context.Context) (domain.PromotionResult, error) {
	since := time.Now().UTC().Add(-uc.window)
	candidates, err := uc.sources.ListPromotionCandidates(ctx, since, uc.batchSize)
	if err != nil {
		return domain.PromotionResult{}, fmt.Errorf("select promotion candidates: %w", err)
	}

	promoted, err := uc.experts.PromotedSourceIDs(ctx)
	if err != nil {
		return domain.PromotionResult{}, fmt.Errorf("load promoted source ids: %w", err)
	}

	var result domain.PromotionResult
	for i := range candidates {
		if ctx.Err() != nil {
			break
		}

		doc := candidates[i]
		if promoted[doc.ID] {
			result.Skipped++
			continue
		}

		if err := uc.promoteOne(ctx, &doc); err != nil {
			result.Failed++
			uc.logger.Warn("promote_item_failed", "source_id", doc.ID, "name", doc.Name, "error", err)
			continue
		}
		result.Transferred++
	}

	uc.logger.Info("promotion_done",
		"transferred", result.Transferred, "skipped", result.Skipped, "failed", result.Failed)
	return result, nil
}

func (uc *PromoteUseCase) promoteOne(ctx context.Context, doc *domain.SourceDocument) error {
	if doc.Content == nil || doc.DocumentTypeID == nil {
		return fmt.Errorf("source %s is not promotable", doc.ID)
	}

	cleaned := textnorm.Clean(*doc.Content)
	if cleaned == "" {
		return fmt.Errorf("content of %s is empty after cleaning", doc.Name)
	}

	confidence, _ := doc.Metadata.ClassificationConfidence()
	now := time.Now().UTC()

	expert := &domain.ExpertDocument{
		ID:             uuid.NewString(),
		SourceID:       doc.ID,
		DocumentTypeID: *doc.DocumentTypeID,
		RawContent:     cleaned,
		WordCount:      textnorm.WordCount(cleaned),
		Language:       textnorm.DetectLanguage(cleaned),
		Confidence:     confidence,
		Status:         domain.ExpertStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.experts.Create(ctx, expert); err != nil {
		return fmt.Errorf("insert expert document: %w", err)
	}
	return nil
}
