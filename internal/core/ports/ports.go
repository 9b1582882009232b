package ports

import (
	"context"
	"time"

	"github.com/dhg/docflow/internal/core/domain"
)

// SourceRepository persists and reads source document state.
type SourceRepository interface {
	GetByID(ctx context.Context, id string) (*domain.SourceDocument, error)
	ListUnextracted(ctx context.Context, mimeTypes []string, limit int) ([]domain.SourceDocument, error)
	ListUnclassified(ctx context.Context, limit int) ([]domain.SourceDocument, error)
	ListPromotionCandidates(ctx context.Context, since time.Time, limit int) ([]domain.SourceDocument, error)
	SaveContent(ctx context.Context, id, content string) error
	SaveClassification(ctx context.Context, id string, result domain.ClassificationResult, classifiedAt time.Time) error
	UpsertDriveFile(ctx context.Context, file domain.DriveFile) error
}

// TaxonomyRepository reads the document-type label space.
type TaxonomyRepository interface {
	ListTypes(ctx context.Context) ([]domain.DocumentType, error)
}

// ExpertRepository persists promoted documents.
type ExpertRepository interface {
	Create(ctx context.Context, doc *domain.ExpertDocument) error
	PromotedSourceIDs(ctx context.Context) (map[string]bool, error)
}

// RootRepository manages the drive folders registered for sync.
type RootRepository interface {
	List(ctx context.Context) ([]domain.SyncRoot, error)
	Add(ctx context.Context, root *domain.SyncRoot) error
	Remove(ctx context.Context, folderID string) error
	Exists(ctx context.Context, folderID string) (bool, error)
}

// FileStorage is the token-authenticated drive API.
type FileStorage interface {
	ValidateToken(ctx context.Context) error
	GetFile(ctx context.Context, fileID string) (domain.DriveFile, error)
	Download(ctx context.Context, fileID string) ([]byte, error)
	ListFolder(ctx context.Context, folderID, pageToken string) ([]domain.DriveFile, string, error)
}

// TextExtractor converts a stored file into normalized plain text.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.SourceDocument) (string, error)
}

// Classifier calls the language model and returns a schema-validated,
// not yet reconciled result.
type Classifier interface {
	Classify(ctx context.Context, doc *domain.SourceDocument, taxonomy []domain.DocumentType) (domain.ClassificationResult, error)
}

// ClassifyQueue hands single-document classification work to the worker.
type ClassifyQueue interface {
	PublishClassifyRequested(ctx context.Context, sourceID string) error
	SubscribeClassifyRequested(ctx context.Context, handler func(context.Context, string) error) error
}
