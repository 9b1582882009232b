package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/dhg/docflow/internal/core/domain"
)

func unextractedDocs(ids ...string) []domain.SourceDocument {
	docs := make([]domain.SourceDocument, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, domain.SourceDocument{ID: id, DriveID: "drive-" + id, Name: id + ".txt", MimeType: "text/plain"})
	}
	return docs
}

func TestExtractBatchPersistsContentPerItem(t *testing.T) {
	repo := newSourceRepoFake()
	repo.unextracted = unextractedDocs("doc-1", "doc-2", "doc-3")

	extractor := &extractorFake{
		texts: map[string]string{"doc-1": "text one", "doc-3": "text three"},
		errs:  map[string]error{"doc-2": domain.WrapError(domain.ErrUnsupportedMime, "extract text", errors.New("pdf"))},
	}

	uc := NewExtractBatchUseCase(repo, &storageFake{}, extractor, []string{"text/plain"}, 10, testLogger())
	result, err := uc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Succeeded != 2 || result.Failed != 1 {
		t.Fatalf("expected {2,1}, got {%d,%d}", result.Succeeded, result.Failed)
	}
	if repo.savedContent["doc-1"] != "text one" || repo.savedContent["doc-3"] != "text three" {
		t.Fatalf("unexpected persisted content: %v", repo.savedContent)
	}
	if _, ok := repo.savedContent["doc-2"]; ok {
		t.Fatalf("failed item must stay unextracted")
	}
}

func TestExtractBatchCountsPersistFailure(t *testing.T) {
	repo := newSourceRepoFake()
	repo.unextracted = unextractedDocs("doc-1")
	repo.saveContentErr["doc-1"] = errors.New("write rejected")

	uc := NewExtractBatchUseCase(repo, &storageFake{}, &extractorFake{texts: map[string]string{"doc-1": "text"}}, []string{"text/plain"}, 10, testLogger())
	result, err := uc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Failed != 1 || result.Succeeded != 0 {
		t.Fatalf("expected persist failure counted, got %+v", result)
	}
}

func TestExtractBatchAbortsOnInvalidToken(t *testing.T) {
	repo := newSourceRepoFake()
	repo.unextracted = unextractedDocs("doc-1")
	storage := &storageFake{validateErr: domain.WrapError(domain.ErrTokenExpired, "validate token", errors.New("401"))}

	uc := NewExtractBatchUseCase(repo, storage, &extractorFake{}, []string{"text/plain"}, 10, testLogger())
	_, err := uc.Run(context.Background())
	if !domain.IsKind(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if len(repo.savedContent) != 0 {
		t.Fatalf("no items should have been processed")
	}
}

func TestExtractBatchHonorsStopRequest(t *testing.T) {
	repo := newSourceRepoFake()
	repo.unextracted = unextractedDocs("doc-1", "doc-2")

	uc := NewExtractBatchUseCase(repo, &storageFake{}, &extractorFake{texts: map[string]string{"doc-1": "a", "doc-2": "b"}}, []string{"text/plain"}, 10, testLogger())
	uc.Run(context.Background()) // resets the flag; sanity that both go through

	uc.RequestStop()
	// RequestStop only matters mid-run; Run resets it, so a fresh run still
	// processes everything.
	result, err := uc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Succeeded != 2 {
		t.Fatalf("expected stop flag reset at run start, got %+v", result)
	}
}

func TestExtractBatchStopsBetweenItemsOnCancelledContext(t *testing.T) {
	repo := newSourceRepoFake()
	repo.unextracted = unextractedDocs("doc-1", "doc-2")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	uc := NewExtractBatchUseCase(repo, &storageFake{}, &extractorFake{texts: map[string]string{"doc-1": "a", "doc-2": "b"}}, []string{"text/plain"}, 10, testLogger())
	result, err := uc.Run(ctx)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Items) != 0 {
		t.Fatalf("cancelled context should stop before the first item, got %d items", len(result.Items))
	}
}
