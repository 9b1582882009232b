package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dhg/docflow/internal/core/domain"
)

func promotableDoc(id, content string) domain.SourceDocument {
	return domain.SourceDocument{
		ID:             id,
		Name:           id + ".txt",
		Content:        strptr(content),
		Extracted:      true,
		DocumentTypeID: strptr("type-a"),
		Metadata: domain.Metadata{
			"classification": map[string]any{"confidence": 0.85},
		},
		UpdatedAt: time.Now().UTC(),
	}
}

func TestPromoteTransfersCleanedContent(t *testing.T) {
	repo := newSourceRepoFake()
	repo.candidates = []domain.SourceDocument{promotableDoc("s1", "<p>Hello <b>world</b></p>\x00 and more")}
	experts := newExpertRepoFake()

	uc := NewPromoteUseCase(repo, experts, 30, 0, testLogger())
	result, err := uc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Transferred != 1 || result.Skipped != 0 || result.Failed != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	created := experts.created[0]
	if strings.Contains(created.RawContent, "<") || strings.Contains(created.RawContent, "\x00") {
		t.Fatalf("content not cleaned: %q", created.RawContent)
	}
	if created.WordCount != 4 {
		t.Fatalf("expected word count 4, got %d", created.WordCount)
	}
	if created.Confidence != 0.85 {
		t.Fatalf("expected carried confidence, got %v", created.Confidence)
	}
	if created.Status != domain.ExpertStatusPending {
		t.Fatalf("expected pending status, got %s", created.Status)
	}
}

func TestPromoteIsAtMostOncePerSource(t *testing.T) {
	repo := newSourceRepoFake()
	repo.candidates = []domain.SourceDocument{promotableDoc("s1", "some text"), promotableDoc("s2", "other text")}
	experts := newExpertRepoFake()

	uc := NewPromoteUseCase(repo, experts, 30, 0, testLogger())

	first, err := uc.Run(context.Background())
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	if first.Transferred != 2 {
		t.Fatalf("expected 2 transferred, got %+v", first)
	}

	second, err := uc.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if second.Transferred != 0 || second.Skipped != 2 || second.Failed != 0 {
		t.Fatalf("re-run must skip all, got %+v", second)
	}
	if len(experts.created) != 2 {
		t.Fatalf("expected 2 expert documents total, got %d", len(experts.created))
	}
}

func TestPromoteCountsPerItemFailures(t *testing.T) {
	repo := newSourceRepoFake()
	repo.candidates = []domain.SourceDocument{
		promotableDoc("s1", "fine"),
		promotableDoc("s2", "<p></p>"), // empty after cleaning
		promotableDoc("s3", "insert will fail"),
	}
	experts := newExpertRepoFake()
	experts.createErr["s3"] = errors.New("insert rejected")

	uc := NewPromoteUseCase(repo, experts, 30, 0, testLogger())
	result, err := uc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Transferred != 1 || result.Failed != 2 {
		t.Fatalf("expected {1 transferred, 2 failed}, got %+v", result)
	}
}

func TestPromoteFatalWhenCandidateQueryFails(t *testing.T) {
	repo := newSourceRepoFake()
	repo.listErr = errors.New("db down")

	uc := NewPromoteUseCase(repo, newExpertRepoFake(), 30, 0, testLogger())
	if _, err := uc.Run(context.Background()); err == nil {
		t.Fatalf("expected fatal error")
	}
}
