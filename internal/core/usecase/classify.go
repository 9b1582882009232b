package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/dhg/docflow/internal/core/domain"
	"github.com/dhg/docflow/internal/core/ports"
)

// ClassifyBatchUseCase assigns taxonomy types to extracted sources. The
// taxonomy fetch is fatal; everything after it is per-item.
type ClassifyBatchUseCase struct {
	sources    ports.SourceRepository
	taxonomy   ports.TaxonomyRepository
	classifier ports.Classifier
	batchSize  int
	logger     *slog.Logger

	stop atomic.Bool
}

func NewClassifyBatchUseCase(
	sources ports.SourceRepository,
	taxonomy ports.TaxonomyRepository,
	classifier ports.Classifier,
	batchSize int,
	logger *slog.Logger,
) *ClassifyBatchUseCase {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &ClassifyBatchUseCase{
		sources:    sources,
		taxonomy:   taxonomy,
		classifier: classifier,
		batchSize:  batchSize,
		logger:     logger,
	}
}

func (uc *ClassifyBatchUseCase) RequestStop() {
	uc.stop.Store(true)
}

func (uc *ClassifyBatchUseCase) Run(ctx context.Context) (domain.BatchResult, error) {
	uc.stop.Store(false)

	taxonomy, err := uc.loadTaxonomy(ctx)
	if err != nil {
		return domain.BatchResult{}, err
	}

	docs, err := uc.sources.ListUnclassified(ctx, uc.batchSize)
	if err != nil {
		return domain.BatchResult{}, fmt.Errorf("select unclassified sources: %w", err)
	}

	var result domain.BatchResult
	for i := range docs {
		if uc.stop.Load() || ctx.Err() != nil {
			uc.logger.Info("classification_batch_stopped", "processed", len(result.Items), "remaining", len(docs)-i)
			break
		}

		doc := docs[i]
		item := domain.ItemResult{SourceID: doc.ID, Name: doc.Name}

		classified, err := uc.classifyOne(ctx, &doc, taxonomy)
		if err != nil {
			item.Err = err
			uc.logger.Warn("classify_item_failed", "source_id", doc.ID, "name", doc.Name, "error", err)
		} else {
			item.TypeID = classified.TypeID
			item.TypeLabel = classified.TypeLabel
			item.Confidence = classified.Confidence
			item.Reasoning = classified.Reasoning
		}
		result.Record(item)
	}

	uc.logger.Info("classification_batch_done", "succeeded", result.Succeeded, "failed", result.Failed)
	return result, nil
}

// ClassifyByID handles a single queued request from the worker. An already
// classified or not-yet-extracted source is a quiet no-op so stale queue
// messages never double-write.
func (uc *ClassifyBatchUseCase) ClassifyByID(ctx context.Context, sourceID string) error {
	doc, err := uc.sources.GetByID(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("load source: %w", err)
	}
	if doc.DocumentTypeID != nil || doc.Content == nil {
		uc.logger.Debug("classify_request_skipped", "source_id", sourceID)
		return nil
	}

	taxonomy, err := uc.loadTaxonomy(ctx)
	if err != nil {
		return err
	}

	if _, err := uc.classifyOne(ctx, doc, taxonomy); err != nil {
		return err
	}
	return nil
}

func (uc *ClassifyBatchUseCase) classifyOne(ctx context.Context, doc *domain.SourceDocument, taxonomy []domain.DocumentType) (domain.ClassificationResult, error) {
	raw, err := uc.classifier.Classify(ctx, doc, taxonomy)
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("classify document: %w", err)
	}

	reconciled, err := raw.Reconcile(taxonomy)
	if err != nil {
		return domain.ClassificationResult{}, err
	}

	if err := uc.sources.SaveClassification(ctx, doc.ID, reconciled, time.Now().UTC()); err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("persist classification: %w", err)
	}
	return reconciled, nil
}

func (uc *ClassifyBatchUseCase) loadTaxonomy(ctx context.Context) ([]domain.DocumentType, error) {
	taxonomy, err := uc.taxonomy.ListTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load taxonomy: %w", err)
	}
	if len(taxonomy) == 0 {
		return nil, domain.WrapError(domain.ErrConfig, "load taxonomy", errors.New("document_types table is empty"))
	}
	return taxonomy, nil
}
