package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dhg/docflow/internal/core/domain"
)

func newMockRootRepo(t *testing.T) (*RootRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRootRepository(db), mock
}

func TestRootRemoveMissingFolder(t *testing.T) {
	repo, mock := newMockRootRepo(t)
	mock.ExpectExec(`DELETE FROM sync_roots WHERE folder_id = \$1`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Remove(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestRootAddUpsertsOnFolderID(t *testing.T) {
	repo, mock := newMockRootRepo(t)
	mock.ExpectExec(`ON CONFLICT \(folder_id\) DO UPDATE`).
		WithArgs(sqlmock.AnyArg(), "folder-1", "Main", "primary folder", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	root := &domain.SyncRoot{FolderID: "folder-1", Name: "Main", Description: "primary folder"}
	if err := repo.Add(context.Background(), root); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if root.ID == "" || root.CreatedAt.IsZero() {
		t.Fatalf("Add() must backfill id and created_at, got %+v", root)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestRootListScansRows(t *testing.T) {
	repo, mock := newMockRootRepo(t)
	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT id, folder_id, name, description, created_at`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "folder_id", "name", "description", "created_at"}).
			AddRow("r1", "folder-1", "Archive", "", now).
			AddRow("r2", "folder-2", "Main", "primary", now))

	roots, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(roots) != 2 || roots[1].FolderID != "folder-2" {
		t.Fatalf("unexpected roots %+v", roots)
	}
}
