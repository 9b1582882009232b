package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dhg/docflow/internal/core/domain"
	"github.com/dhg/docflow/internal/core/ports"
)

// SyncUseCase walks every registered root folder and upserts discovered
// files into sources. Folders are processed from an explicit work queue
// rather than by recursion, so arbitrarily deep trees cost constant stack.
type SyncUseCase struct {
	roots   ports.RootRepository
	sources ports.SourceRepository
	storage ports.FileStorage
	logger  *slog.Logger
}

func NewSyncUseCase(
	roots ports.RootRepository,
	sources ports.SourceRepository,
	storage ports.FileStorage,
	logger *slog.Logger,
) *SyncUseCase {
	return &SyncUseCase{
		roots:   roots,
		sources: sources,
		storage: storage,
		logger:  logger,
	}
}

func (uc *SyncUseCase) Run(ctx context.Context, dryRun bool) (domain.SyncResult, error) {
	if err := uc.storage.ValidateToken(ctx); err != nil {
		return domain.SyncResult{}, fmt.Errorf("validate drive token: %w", err)
	}

	roots, err := uc.roots.List(ctx)
	if err != nil {
		return domain.SyncResult{}, fmt.Errorf("list sync roots: %w", err)
	}

	var result domain.SyncResult
	for _, root := range roots {
		if err := uc.walkFolder(ctx, root.FolderID, dryRun, &result); err != nil {
			return result, fmt.Errorf("walk root %q: %w", root.Name, err)
		}
	}

	uc.logger.Info("folder_sync_done",
		"folders", result.Folders, "discovered", result.Discovered,
		"upserted", result.Upserted, "failed", result.Failed, "dry_run", dryRun)
	return result, nil
}

func (uc *SyncUseCase) walkFolder(ctx context.Context, folderID string, dryRun bool, result *domain.SyncResult) error {
	pending := []string{folderID}

	for len(pending) > 0 {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		current := pending[0]
		pending = pending[1:]
		result.Folders++

		pageToken := ""
		for {
			files, nextToken, err := uc.storage.ListFolder(ctx, current, pageToken)
			if err != nil {
				return fmt.Errorf("list folder %s: %w", current, err)
			}

			for _, file := range files {
				if file.IsFolder() {
					pending = append(pending, file.ID)
					continue
				}

				result.Discovered++
				if dryRun {
					continue
				}
				if err := uc.sources.UpsertDriveFile(ctx, file); err != nil {
					result.Failed++
					uc.logger.Warn("sync_upsert_failed", "drive_id", file.ID, "name", file.Name, "error", err)
					continue
				}
				result.Upserted++
			}

			if nextToken == "" {
				break
			}
			pageToken = nextToken
		}
	}
	return nil
}
