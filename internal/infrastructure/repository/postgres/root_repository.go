package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dhg/docflow/internal/core/domain"
)

type RootRepository struct {
	db *sql.DB
}

func NewRootRepository(db *sql.DB) *RootRepository {
	return &RootRepository{db: db}
}

func (r *RootRepository) List(ctx context.Context) ([]domain.SyncRoot, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, folder_id, name, description, created_at
FROM sync_roots
ORDER BY name
`)
	if err != nil {
		return nil, fmt.Errorf("query sync roots: %w", err)
	}
	defer rows.Close()

	var roots []domain.SyncRoot
	for rows.Next() {
		var root domain.SyncRoot
		if err := rows.Scan(&root.ID, &root.FolderID, &root.Name, &root.Description, &root.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sync root: %w", err)
		}
		roots = append(roots, root)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sync roots: %w", err)
	}
	return roots, nil
}

func (r *RootRepository) Add(ctx context.Context, root *domain.SyncRoot) error {
	if root.ID == "" {
		root.ID = uuid.NewString()
	}
	if root.CreatedAt.IsZero() {
		root.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO sync_roots (id, folder_id, name, description, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (folder_id) DO UPDATE
SET name = EXCLUDED.name, description = EXCLUDED.description
`, root.ID, root.FolderID, root.Name, root.Description, root.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert sync root: %w", err)
	}
	return nil
}

func (r *RootRepository) Remove(ctx context.Context, folderID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sync_roots WHERE folder_id = $1`, folderID)
	if err != nil {
		return fmt.Errorf("delete sync root: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return domain.WrapError(domain.ErrDocumentNotFound, "remove sync root", fmt.Errorf("folder %s", folderID))
	}
	return nil
}

func (r *RootRepository) Exists(ctx context.Context, folderID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM sync_roots WHERE folder_id = $1)`, folderID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check sync root: %w", err)
	}
	return exists, nil
}
