package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/dhg/docflow/internal/core/domain"
	"github.com/dhg/docflow/internal/core/ports"
)

// ExtractBatchUseCase walks unextracted sources and persists their text.
// Each item is isolated: a failed file stays unextracted and is picked up
// again on the next run.
type ExtractBatchUseCase struct {
	sources   ports.SourceRepository
	storage   ports.FileStorage
	extractor ports.TextExtractor
	mimeTypes []string
	batchSize int
	logger    *slog.Logger

	stop atomic.Bool
}

func NewExtractBatchUseCase(
	sources ports.SourceRepository,
	storage ports.FileStorage,
	extractor ports.TextExtractor,
	mimeTypes []string,
	batchSize int,
	logger *slog.Logger,
) *ExtractBatchUseCase {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &ExtractBatchUseCase{
		sources:   sources,
		storage:   storage,
		extractor: extractor,
		mimeTypes: mimeTypes,
		batchSize: batchSize,
		logger:    logger,
	}
}

// RequestStop asks a running batch to finish the current item and return.
func (uc *ExtractBatchUseCase) RequestStop() {
	uc.stop.Store(true)
}

func (uc *ExtractBatchUseCase) Run(ctx context.Context) (domain.BatchResult, error) {
	uc.stop.Store(false)

	// One probe per run; a dead token fails loudly here instead of once per
	// file inside the loop.
	if err := uc.storage.ValidateToken(ctx); err != nil {
		return domain.BatchResult{}, fmt.Errorf("validate drive token: %w", err)
	}

	docs, err := uc.sources.ListUnextracted(ctx, uc.mimeTypes, uc.batchSize)
	if err != nil {
		return domain.BatchResult{}, fmt.Errorf("select unextracted sources: %w", err)
	}

	var result domain.BatchResult
	for i := range docs {
		if uc.stop.Load() || ctx.Err() != nil {
			uc.logger.Info("extraction_batch_stopped", "processed", len(result.Items), "remaining", len(docs)-i)
			break
		}

		doc := docs[i]
		item := domain.ItemResult{SourceID: doc.ID, Name: doc.Name}

		text, err := uc.extractor.Extract(ctx, &doc)
		if err == nil {
			err = uc.sources.SaveContent(ctx, doc.ID, text)
		}
		if err != nil {
			item.Err = err
			uc.logger.Warn("extract_item_failed", "source_id", doc.ID, "name", doc.Name, "error", err)
		}
		result.Record(item)
	}

	uc.logger.Info("extraction_batch_done", "succeeded", result.Succeeded, "failed", result.Failed)
	return result, nil
}
