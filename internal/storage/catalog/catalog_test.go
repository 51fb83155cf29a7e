package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"gitdeck/internal/storage/migrate"

	_ "modernc.org/sqlite"
)

func newTestCatalog(t *testing.T) (*Catalog, *sql.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open in-memory database: %v", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := migrate.Up(db); err != nil {
		t.Fatalf("migrate database: %v", err)
	}

	return New(db), db
}

func TestCatalogUpsertAndRetrieve(t *testing.T) {
	cat, _ := newTestCatalog(t)
	ctx := context.Background()

	repo, err := cat.UpsertRepo(ctx, UpsertRepoParams{
		Path:        "/tmp/repo-one",
		DisplayName: "Repo One",
		Tags:        []string{"work", "go"},
	})
	if err != nil {
		t.Fatalf("upsert repository: %v", err)
	}

	if repo.ID == 0 {
		t.Fatalf("expected persisted repository to have ID, got 0")
	}
	if repo.DisplayName != "Repo One" {
		t.Fatalf("unexpected display name: %s", repo.DisplayName)
	}
	if got := len(repo.Tags); got != 2 {
		t.Fatalf("expected 2 tags, got %d", got)
	}

	loaded, err := cat.GetRepoByPath(ctx, "/tmp/repo-one")
	if err != nil {
		t.Fatalf("get repository by path: %v", err)
	}
	if loaded.ID != repo.ID {
		t.Fatalf("expected ID %d, got %d", repo.ID, loaded.ID)
	}

	byID, err := cat.GetRepoByID(ctx, repo.ID)
	if err != nil {
		t.Fatalf("get repository by id: %v", err)
	}
	if byID.Path != "/tmp/repo-one" {
		t.Fatalf("unexpected path: %s", byID.Path)
	}

	list, err := cat.ListRepos(ctx)
	if err != nil {
		t.Fatalf("list repositories: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 repository, got %d", len(list))
	}
}

func TestCatalogUpdatePreservesLastOpened(t *testing.T) {
	cat, _ := newTestCatalog(t)
	ctx := context.Background()

	repo, err := cat.UpsertRepo(ctx, UpsertRepoParams{
		Path:        "/tmp/repo-two",
		DisplayName: "Repo Two",
	})
	if err != nil {
		t.Fatalf("upsert repository: %v", err)
	}

	markTime := time.Now().UTC().Truncate(time.Second)
	if err := cat.MarkRepoOpened(ctx, repo.ID, markTime); err != nil {
		t.Fatalf("mark repository opened: %v", err)
	}

	updated, err := cat.UpsertRepo(ctx, UpsertRepoParams{
		Path:        "/tmp/repo-two",
		DisplayName: "Repo Two v2",
	})
	if err != nil {
		t.Fatalf("upsert repository after mark: %v", err)
	}
	if updated.DisplayName != "Repo Two v2" {
		t.Fatalf("unexpected display name: %s", updated.DisplayName)
	}
	if !markTime.Equal(updated.LastOpenedAt) {
		t.Fatalf("expected last opened %v, got %v", markTime, updated.LastOpenedAt)
	}
}

func TestCatalogDelete(t *testing.T) {
	cat, _ := newTestCatalog(t)
	ctx := context.Background()

	repo, err := cat.UpsertRepo(ctx, UpsertRepoParams{Path: "/tmp/repo-delete"})
	if err != nil {
		t.Fatalf("upsert repository: %v", err)
	}

	if err := cat.DeleteRepo(ctx, repo.ID); err != nil {
		t.Fatalf("delete repository: %v", err)
	}
	if err := cat.DeleteRepo(ctx, repo.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows when deleting missing repository, got %v", err)
	}
}

func TestCatalogListFailsOnInvalidTags(t *testing.T) {
	cat, db := newTestCatalog(t)
	ctx := context.Background()

	if _, err := db.ExecContext(ctx, `
		INSERT INTO repositories (path, tags) VALUES (?, ?)
	`, "/tmp/repo-invalid", "{invalid json"); err != nil {
		t.Fatalf("insert invalid repository: %v", err)
	}

	_, err := cat.ListRepos(ctx)
	if err == nil {
		t.Fatalf("expected error when decoding invalid tags")
	}
	if !strings.Contains(err.Error(), "decode tags") {
		t.Fatalf("expected decode tags error, got %v", err)
	}
}

func TestCatalogSettings(t *testing.T) {
	cat, _ := newTestCatalog(t)
	ctx := context.Background()

	if v, err := cat.GetSetting(ctx, "theme"); err != nil || v != "" {
		t.Fatalf("unset setting = %q, %v; want empty", v, err)
	}
	if err := cat.SetSetting(ctx, "theme", "dark"); err != nil {
		t.Fatalf("set setting: %v", err)
	}
	if err := cat.SetSetting(ctx, "theme", "light"); err != nil {
		t.Fatalf("overwrite setting: %v", err)
	}
	if v, err := cat.GetSetting(ctx, "theme"); err != nil || v != "light" {
		t.Fatalf("setting = %q, %v; want light", v, err)
	}
}
