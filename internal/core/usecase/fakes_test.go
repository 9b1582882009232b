package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dhg/docflow/internal/core/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strptr(s string) *string { return &s }

type sourceRepoFake struct {
	unextracted  []domain.SourceDocument
	unclassified []domain.SourceDocument
	candidates   []domain.SourceDocument

	listErr        error
	saveContentErr map[string]error
	saveClassErr   map[string]error
	upsertErr      error

	savedContent map[string]string
	savedClass   map[string]domain.ClassificationResult
	upserted     []domain.DriveFile
}

func newSourceRepoFake() *sourceRepoFake {
	return &sourceRepoFake{
		saveContentErr: map[string]error{},
		saveClassErr:   map[string]error{},
		savedContent:   map[string]string{},
		savedClass:     map[string]domain.ClassificationResult{},
	}
}

func (f *sourceRepoFake) GetByID(_ context.Context, id string) (*domain.SourceDocument, error) {
	for _, set := range [][]domain.SourceDocument{f.unextracted, f.unclassified, f.candidates} {
		for i := range set {
			if set[i].ID == id {
				copyDoc := set[i]
				return &copyDoc, nil
			}
		}
	}
	return nil, domain.WrapError(domain.ErrDocumentNotFound, "get source", fmt.Errorf("id %s", id))
}

func (f *sourceRepoFake) ListUnextracted(context.Context, []string, int) ([]domain.SourceDocument, error) {
	return f.unextracted, f.listErr
}

func (f *sourceRepoFake) ListUnclassified(context.Context, int) ([]domain.SourceDocument, error) {
	return f.unclassified, f.listErr
}

func (f *sourceRepoFake) ListPromotionCandidates(context.Context, time.Time, int) ([]domain.SourceDocument, error) {
	return f.candidates, f.listErr
}

func (f *sourceRepoFake) SaveContent(_ context.Context, id, content string) error {
	if err := f.saveContentErr[id]; err != nil {
		return err
	}
	f.savedContent[id] = content
	return nil
}

func (f *sourceRepoFake) SaveClassification(_ context.Context, id string, result domain.ClassificationResult, _ time.Time) error {
	if err := f.saveClassErr[id]; err != nil {
		return err
	}
	f.savedClass[id] = result
	return nil
}

func (f *sourceRepoFake) UpsertDriveFile(_ context.Context, file domain.DriveFile) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, file)
	return nil
}

type taxonomyRepoFake struct {
	types []domain.DocumentType
	err   error
}

func (f *taxonomyRepoFake) ListTypes(context.Context) ([]domain.DocumentType, error) {
	return f.types, f.err
}

type expertRepoFake struct {
	created   []*domain.ExpertDocument
	promoted  map[string]bool
	createErr map[string]error
	listErr   error
}

func newExpertRepoFake() *expertRepoFake {
	return &expertRepoFake{
		promoted:  map[string]bool{},
		createErr: map[string]error{},
	}
}

func (f *expertRepoFake) Create(_ context.Context, doc *domain.ExpertDocument) error {
	if err := f.createErr[doc.SourceID]; err != nil {
		return err
	}
	f.created = append(f.created, doc)
	f.promoted[doc.SourceID] = true
	return nil
}

func (f *expertRepoFake) PromotedSourceIDs(context.Context) (map[string]bool, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make(map[string]bool, len(f.promoted))
	for k, v := range f.promoted {
		out[k] = v
	}
	return out, nil
}

type rootRepoFake struct {
	roots []domain.SyncRoot
}

func (f *rootRepoFake) List(context.Context) ([]domain.SyncRoot, error) { return f.roots, nil }
func (f *rootRepoFake) Add(_ context.Context, root *domain.SyncRoot) error {
	f.roots = append(f.roots, *root)
	return nil
}
func (f *rootRepoFake) Remove(context.Context, string) error         { return nil }
func (f *rootRepoFake) Exists(context.Context, string) (bool, error) { return false, nil }

type listPage struct {
	files []domain.DriveFile
	next  string
}

type storageFake struct {
	validateErr error
	files       map[string][]byte
	// pages maps folderID -> pageToken -> page. "" is the first page.
	pages map[string]map[string]listPage
}

func (f *storageFake) ValidateToken(context.Context) error { return f.validateErr }

func (f *storageFake) GetFile(_ context.Context, fileID string) (domain.DriveFile, error) {
	return domain.DriveFile{ID: fileID}, nil
}

func (f *storageFake) Download(_ context.Context, fileID string) ([]byte, error) {
	raw, ok := f.files[fileID]
	if !ok {
		return nil, fmt.Errorf("no such file %s", fileID)
	}
	return raw, nil
}

func (f *storageFake) ListFolder(_ context.Context, folderID, pageToken string) ([]domain.DriveFile, string, error) {
	folder, ok := f.pages[folderID]
	if !ok {
		return nil, "", fmt.Errorf("no such folder %s", folderID)
	}
	page, ok := folder[pageToken]
	if !ok {
		return nil, "", fmt.Errorf("bad page token %q", pageToken)
	}
	return page.files, page.next, nil
}

type extractorFake struct {
	texts map[string]string
	errs  map[string]error
}

func (f *extractorFake) Extract(_ context.Context, doc *domain.SourceDocument) (string, error) {
	if err := f.errs[doc.ID]; err != nil {
		return "", err
	}
	return f.texts[doc.ID], nil
}

type classifierFake struct {
	results map[string]domain.ClassificationResult
	errs    map[string]error
	calls   int
}

func (f *classifierFake) Classify(_ context.Context, doc *domain.SourceDocument, _ []domain.DocumentType) (domain.ClassificationResult, error) {
	f.calls++
	if err := f.errs[doc.ID]; err != nil {
		return domain.ClassificationResult{}, err
	}
	return f.results[doc.ID], nil
}
