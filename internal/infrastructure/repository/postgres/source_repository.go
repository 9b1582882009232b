package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dhg/docflow/internal/core/domain"
)

const sourceColumns = "id, drive_id, name, mime_type, content, extracted, document_type_id, metadata, created_at, updated_at"

type SourceRepository struct {
	db *sql.DB
}

func NewSourceRepository(db *sql.DB) *SourceRepository {
	return &SourceRepository{db: db}
}

func (r *SourceRepository) GetByID(ctx context.Context, id string) (*domain.SourceDocument, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+sourceColumns+`
FROM sources
WHERE id = $1
`, id)

	doc, err := scanSource(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get source", fmt.Errorf("id %s", id))
		}
		return nil, err
	}
	return doc, nil
}

func (r *SourceRepository) ListUnextracted(ctx context.Context, mimeTypes []string, limit int) ([]domain.SourceDocument, error) {
	if len(mimeTypes) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(mimeTypes))
	args := make([]any, 0, len(mimeTypes)+1)
	for i, mt := range mimeTypes {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args = append(args, mt)
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
SELECT %s
FROM sources
WHERE content IS NULL AND extracted = FALSE AND mime_type IN (%s)
ORDER BY created_at
LIMIT $%d
`, sourceColumns, strings.Join(placeholders, ", "), len(mimeTypes)+1)

	return r.list(ctx, query, args...)
}

func (r *SourceRepository) ListUnclassified(ctx context.Context, limit int) ([]domain.SourceDocument, error) {
	return r.list(ctx, `
SELECT `+sourceColumns+`
FROM sources
WHERE content IS NOT NULL AND document_type_id IS NULL
ORDER BY updated_at
LIMIT $1
`, limit)
}

func (r *SourceRepository) ListPromotionCandidates(ctx context.Context, since time.Time, limit int) ([]domain.SourceDocument, error) {
	return r.list(ctx, `
SELECT `+sourceColumns+`
FROM sources
WHERE content IS NOT NULL AND document_type_id IS NOT NULL AND updated_at >= $1
ORDER BY updated_at
LIMIT $2
`, since, limit)
}

// SaveContent flags a source as extracted. The extracted guard makes re-runs
// no-ops: content is never overwritten once the flag is set.
func (r *SourceRepository) SaveContent(ctx context.Context, id, content string) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE sources
SET content = $2, extracted = TRUE, updated_at = $3
WHERE id = $1 AND extracted = FALSE
`, id, content, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save extracted content: %w", err)
	}
	return nil
}

// SaveClassification writes the type id and merges the classification block
// into the existing metadata object rather than replacing it.
func (r *SourceRepository) SaveClassification(ctx context.Context, id string, result domain.ClassificationResult, classifiedAt time.Time) error {
	patch, err := json.Marshal(result.MetadataPatch(classifiedAt))
	if err != nil {
		return fmt.Errorf("marshal classification metadata: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE sources
SET document_type_id = $2, metadata = COALESCE(metadata, '{}'::jsonb) || $3::jsonb, updated_at = $4
WHERE id = $1
`, id, result.TypeID, patch, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save classification: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return domain.WrapError(domain.ErrDocumentNotFound, "save classification", fmt.Errorf("id %s", id))
	}
	return nil
}

func (r *SourceRepository) UpsertDriveFile(ctx context.Context, file domain.DriveFile) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
INSERT INTO sources (id, drive_id, name, mime_type, metadata, created_at, updated_at)
VALUES ($1, $2, $3, $4, '{}'::jsonb, $5, $5)
ON CONFLICT (drive_id) DO UPDATE
SET name = EXCLUDED.name, mime_type = EXCLUDED.mime_type, updated_at = EXCLUDED.updated_at
`, uuid.NewString(), file.ID, file.Name, file.MimeType, now)
	if err != nil {
		return fmt.Errorf("upsert drive file: %w", err)
	}
	return nil
}

func (r *SourceRepository) list(ctx context.Context, query string, args ...any) ([]domain.SourceDocument, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}
	defer rows.Close()

	var docs []domain.SourceDocument
	for rows.Next() {
		doc, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sources: %w", err)
	}
	return docs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSource(row rowScanner) (*domain.SourceDocument, error) {
	var (
		doc         domain.SourceDocument
		content     sql.NullString
		typeID      sql.NullString
		metadataRaw []byte
	)
	err := row.Scan(
		&doc.ID, &doc.DriveID, &doc.Name, &doc.MimeType,
		&content, &doc.Extracted, &typeID, &metadataRaw,
		&doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan source: %w", err)
	}

	if content.Valid {
		doc.Content = &content.String
	}
	if typeID.Valid {
		doc.DocumentTypeID = &typeID.String
	}
	if len(metadataRaw) > 0 {
		if err := json.Unmarshal(metadataRaw, &doc.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal source metadata: %w", err)
		}
	}
	return &doc, nil
}
