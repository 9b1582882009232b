package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dhg/docflow/internal/core/domain"
)

type ExpertRepository struct {
	db *sql.DB
}

func NewExpertRepository(db *sql.DB) *ExpertRepository {
	return &ExpertRepository{db: db}
}

func (r *ExpertRepository) Create(ctx context.Context, doc *domain.ExpertDocument) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO expert_documents (
	id, source_id, document_type_id, raw_content, word_count, language, confidence, status, attempts, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
`,
		doc.ID, doc.SourceID, doc.DocumentTypeID, doc.RawContent, doc.WordCount,
		doc.Language, doc.Confidence, string(doc.Status), doc.Attempts, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert expert document: %w", err)
	}
	return nil
}

// PromotedSourceIDs returns the set of sources that already have an expert
// document. Promotion checks membership before inserting.
func (r *ExpertRepository) PromotedSourceIDs(ctx context.Context) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT source_id FROM expert_documents`)
	if err != nil {
		return nil, fmt.Errorf("query promoted source ids: %w", err)
	}
	defer rows.Close()

	promoted := make(map[string]bool)
	for rows.Next() {
		var sourceID string
		if err := rows.Scan(&sourceID); err != nil {
			return nil, fmt.Errorf("scan promoted source id: %w", err)
		}
		promoted[sourceID] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate promoted source ids: %w", err)
	}
	return promoted, nil
}
