package db

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/pressly/goose/v3"

	"github.com/Deek-011/formbot/internal/common/db/migrations"
	"github.com/Deek-011/formbot/internal/common/logger"
)

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		t.Fatalf("read embedded dir: %v", err)
	}
	if len(entries) < 2 {
		t.Fatalf("expected at least 2 migrations, got %d", len(entries))
	}
	for _, e := range entries {
		data, err := fs.ReadFile(migrations.FS, e.Name())
		if err != nil {
			t.Fatalf("read %s: %v", e.Name(), err)
		}
		if !strings.Contains(string(data), "-- +goose Up") {
			t.Errorf("%s has no goose Up section", e.Name())
		}
	}
}

func TestMigrateDB(t *testing.T) {
	origUp, origVersion := gooseUpContext, gooseVersion
	defer func() { gooseUpContext, gooseVersion = origUp, origVersion }()

	var gotDir string
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}
	gooseVersion = func(ctx context.Context, db *sql.DB) (int64, error) { return 2, nil }

	if err := migrateDB(context.Background(), logger.NewDiscard(), nil); err != nil {
		t.Fatalf("migrateDB: %v", err)
	}
	if gotDir != "." {
		t.Errorf("dir = %q, want \".\"", gotDir)
	}
}

func TestMigrateDBPropagatesError(t *testing.T) {
	origUp := gooseUpContext
	defer func() { gooseUpContext = origUp }()

	boom := errors.New("boom")
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return boom
	}

	err := migrateDB(context.Background(), logger.NewDiscard(), nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
}
