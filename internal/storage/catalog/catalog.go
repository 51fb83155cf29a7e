package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Catalog persists the registered repositories and app settings.
type Catalog struct {
	db *sql.DB
}

func New(db *sql.DB) *Catalog {
	return &Catalog{db: db}
}

type Repo struct {
	ID           int64     `json:"id"`
	Path         string    `json:"path"`
	DisplayName  string    `json:"displayName,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	LastOpenedAt time.Time `json:"lastOpenedAt,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type UpsertRepoParams struct {
	Path        string
	DisplayName string
	Tags        []string
	LastOpened  *time.Time
}

func (c *Catalog) ListRepos(ctx context.Context) ([]Repo, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, path, display_name, tags, last_opened_at, created_at, updated_at
		FROM repositories
		ORDER BY COALESCE(last_opened_at, updated_at) DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query repositories: %w", err)
	}
	defer rows.Close()

	var repos []Repo
	for rows.Next() {
		var (
			r       Repo
			display sql.NullString
			tags    sql.NullString
			last    sql.NullTime
		)
		if err := rows.Scan(&r.ID, &r.Path, &display, &tags, &last, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan repository: %w", err)
		}
		if display.Valid {
			r.DisplayName = display.String
		}
		decodedTags, err := decodeTags(tags)
		if err != nil {
			return nil, fmt.Errorf("decode tags for repository %s: %w", r.Path, err)
		}
		r.Tags = decodedTags
		if last.Valid {
			r.LastOpenedAt = last.Time
		}
		repos = append(repos, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate repositories: %w", err)
	}
	return repos, nil
}

func (c *Catalog) UpsertRepo(ctx context.Context, params UpsertRepoParams) (Repo, error) {
	tagPayload, err := encodeTags(params.Tags)
	if err != nil {
		return Repo{}, err
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO repositories (path, display_name, tags, last_opened_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			display_name = excluded.display_name,
			tags = excluded.tags,
			last_opened_at = COALESCE(excluded.last_opened_at, repositories.last_opened_at),
			updated_at = CURRENT_TIMESTAMP
	`, params.Path, nullIfEmpty(params.DisplayName), tagPayload, params.LastOpened)
	if err != nil {
		return Repo{}, fmt.Errorf("upsert repository: %w", err)
	}

	return c.GetRepoByPath(ctx, params.Path)
}

func (c *Catalog) GetRepoByPath(ctx context.Context, path string) (Repo, error) {
	return c.getRepo(ctx, `
		SELECT id, path, display_name, tags, last_opened_at, created_at, updated_at
		FROM repositories
		WHERE path = ?
	`, path)
}

// GetRepoByID retrieves a repository by numeric identifier.
func (c *Catalog) GetRepoByID(ctx context.Context, id int64) (Repo, error) {
	return c.getRepo(ctx, `
		SELECT id, path, display_name, tags, last_opened_at, created_at, updated_at
		FROM repositories
		WHERE id = ?
	`, id)
}

func (c *Catalog) getRepo(ctx context.Context, query string, arg any) (Repo, error) {
	var (
		r       Repo
		display sql.NullString
		tags    sql.NullString
		last    sql.NullTime
	)
	err := c.db.QueryRowContext(ctx, query, arg).
		Scan(&r.ID, &r.Path, &display, &tags, &last, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return Repo{}, fmt.Errorf("repository %v not found", arg)
		}
		return Repo{}, fmt.Errorf("select repository: %w", err)
	}
	if display.Valid {
		r.DisplayName = display.String
	}
	decodedTags, err := decodeTags(tags)
	if err != nil {
		return Repo{}, fmt.Errorf("decode tags: %w", err)
	}
	r.Tags = decodedTags
	if last.Valid {
		r.LastOpenedAt = last.Time
	}
	return r, nil
}

func (c *Catalog) DeleteRepo(ctx context.Context, id int64) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM repositories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete repository: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (c *Catalog) MarkRepoOpened(ctx context.Context, id int64, openedAt time.Time) error {
	res, err := c.db.ExecContext(ctx, `
		UPDATE repositories
		SET last_opened_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, openedAt, id)
	if err != nil {
		return fmt.Errorf("update last_opened_at: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetSetting returns the stored value for key, or empty string when unset.
func (c *Catalog) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := c.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("select setting %s: %w", key, err)
	}
	return value, nil
}

func (c *Catalog) SetSetting(ctx context.Context, key, value string) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return nil
}

func encodeTags(tags []string) (interface{}, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	payload, err := json.Marshal(tags)
	if err != nil {
		return nil, err
	}
	return string(payload), nil
}

func decodeTags(raw sql.NullString) ([]string, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw.String), &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
