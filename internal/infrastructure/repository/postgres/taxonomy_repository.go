package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dhg/docflow/internal/core/domain"
)

type TaxonomyRepository struct {
	db *sql.DB
}

func NewTaxonomyRepository(db *sql.DB) *TaxonomyRepository {
	return &TaxonomyRepository{db: db}
}

// ListTypes fetches the whole taxonomy. It is tens of entries; no
// pagination.
func (r *TaxonomyRepository) ListTypes(ctx context.Context) ([]domain.DocumentType, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, document_type, category, description, validation_rules
FROM document_types
ORDER BY document_type
`)
	if err != nil {
		return nil, fmt.Errorf("query document types: %w", err)
	}
	defer rows.Close()

	var types []domain.DocumentType
	for rows.Next() {
		var (
			t     domain.DocumentType
			rules []byte
		)
		if err := rows.Scan(&t.ID, &t.Label, &t.Category, &t.Description, &rules); err != nil {
			return nil, fmt.Errorf("scan document type: %w", err)
		}
		t.Rules = rules
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate document types: %w", err)
	}
	return types, nil
}
