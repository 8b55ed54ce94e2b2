package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"coto-cli/internal/model"
)

const cacheFileName = "cache.sqlite"

// The cache keeps the last fetched timeline per cotonoma so `cotos list
// --cached` works offline. Rows are keyed by server id; a position column
// preserves the server's fetch order (newest first). Unconfirmed cotos are
// never cached: without a server id they have no stable identity across runs.

func (s Store) cachePath() string {
	return filepath.Join(s.Dir, cacheFileName)
}

func (s Store) openCache(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.cachePath())
	if err != nil {
		return nil, err
	}
	// Pragmas for multi-process local usage (CLI + TUI + web on one dir).
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateCache(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateCache(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS cotos (
			cotonoma_key TEXT NOT NULL,
			id INTEGER NOT NULL,
			post_id INTEGER,
			content TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (cotonoma_key, id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_cotos_position
			ON cotos(cotonoma_key, position);`,
		`CREATE TABLE IF NOT EXISTS cotonomas (
			id INTEGER PRIMARY KEY,
			key TEXT NOT NULL,
			name TEXT NOT NULL,
			coto_count INTEGER NOT NULL,
			last_posted_at TEXT
		);`,
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// CacheCotos replaces the cached timeline for one cotonoma key ("" = root
// timeline) with the given fetch result, preserving its order.
// Replace-all per key: a fetch is authoritative for its room.
func (s Store) CacheCotos(ctx context.Context, cotonomaKey string, cotos []model.Coto) error {
	db, err := s.openCache(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	key := strings.TrimSpace(cotonomaKey)
	if _, err := tx.ExecContext(ctx, `DELETE FROM cotos WHERE cotonoma_key = ?`, key); err != nil {
		return err
	}
	for i, c := range cotos {
		if c.ID == nil {
			continue
		}
		var postID any
		if c.PostID != nil {
			postID = *c.PostID
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO cotos(cotonoma_key, id, post_id, content, position) VALUES(?, ?, ?, ?, ?)`,
			key, *c.ID, postID, c.Content, i,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// CachedCotos returns the last cached timeline for a cotonoma key in its
// original fetch order.
func (s Store) CachedCotos(ctx context.Context, cotonomaKey string) ([]model.Coto, error) {
	db, err := s.openCache(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		`SELECT id, post_id, content FROM cotos WHERE cotonoma_key = ? ORDER BY position`,
		strings.TrimSpace(cotonomaKey),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Coto{}
	for rows.Next() {
		var id int64
		var postID sql.NullInt64
		var content string
		if err := rows.Scan(&id, &postID, &content); err != nil {
			return nil, err
		}
		c := model.Coto{ID: &id, Content: content}
		if postID.Valid {
			v := postID.Int64
			c.PostID = &v
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CacheCotonomas replaces the cached room list.
func (s Store) CacheCotonomas(ctx context.Context, rooms []model.Cotonoma) error {
	db, err := s.openCache(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cotonomas`); err != nil {
		return err
	}
	for _, r := range rooms {
		var last any
		if r.LastPostedAt != nil {
			last = r.LastPostedAt.UTC().Format(time.RFC3339Nano)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO cotonomas(id, key, name, coto_count, last_posted_at) VALUES(?, ?, ?, ?, ?)`,
			r.ID, r.Key, r.Name, r.CotoCount, last,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// CachedCotonomas returns the cached room list ordered by name.
func (s Store) CachedCotonomas(ctx context.Context) ([]model.Cotonoma, error) {
	db, err := s.openCache(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		`SELECT id, key, name, coto_count, last_posted_at FROM cotonomas ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Cotonoma{}
	for rows.Next() {
		var r model.Cotonoma
		var last sql.NullString
		if err := rows.Scan(&r.ID, &r.Key, &r.Name, &r.CotoCount, &last); err != nil {
			return nil, err
		}
		if last.Valid {
			if t, err := time.Parse(time.RFC3339Nano, last.String); err == nil {
				r.LastPostedAt = &t
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
