package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const inkDBFileName = "ink.sqlite"

// InkDB persists per-slide ink snapshots across presenting sessions.
type InkDB struct {
	db *sql.DB
}

type InkEntry struct {
	Deck      string    `json:"deck"`
	Slide     int       `json:"slide"`
	Bytes     int       `json:"bytes"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type DeckSummary struct {
	Deck      string    `json:"deck"`
	Slides    int       `json:"slides"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s Store) inkPath() string {
	return filepath.Join(s.Dir, inkDBFileName)
}

func (s Store) OpenInk(ctx context.Context) (*InkDB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.inkPath())
	if err != nil {
		return nil, err
	}
	// WAL lets a browser session and a CLI listing share the file.
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
	if err := migrateInk(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &InkDB{db: db}, nil
}

func migrateInk(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			deck TEXT NOT NULL,
			slide INTEGER NOT NULL,
			png BLOB NOT NULL,
			updated_at_unixms INTEGER NOT NULL,
			PRIMARY KEY(deck, slide)
		);`,
		`INSERT OR IGNORE INTO meta(k, v) VALUES('schema_version', '1');`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func (d *InkDB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

func (d *InkDB) Save(ctx context.Context, deck string, slide int, png []byte) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO snapshots(deck, slide, png, updated_at_unixms) VALUES(?, ?, ?, ?)
		ON CONFLICT(deck, slide) DO UPDATE SET png = excluded.png, updated_at_unixms = excluded.updated_at_unixms`,
		deck, slide, png, time.Now().UnixMilli())
	return err
}

func (d *InkDB) Load(ctx context.Context, deck string) (map[int][]byte, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT slide, png FROM snapshots WHERE deck = ?`, deck)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int][]byte{}
	for rows.Next() {
		var slide int
		var png []byte
		if err := rows.Scan(&slide, &png); err != nil {
			return nil, err
		}
		out[slide] = png
	}
	return out, rows.Err()
}

func (d *InkDB) Get(ctx context.Context, deck string, slide int) ([]byte, error) {
	var png []byte
	err := d.db.QueryRowContext(ctx, `SELECT png FROM snapshots WHERE deck = ? AND slide = ?`, deck, slide).Scan(&png)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return png, err
}

func (d *InkDB) List(ctx context.Context, deck string) ([]InkEntry, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT slide, length(png), updated_at_unixms FROM snapshots
		WHERE deck = ? ORDER BY slide`, deck)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []InkEntry
	for rows.Next() {
		e := InkEntry{Deck: deck}
		var ms int64
		if err := rows.Scan(&e.Slide, &e.Bytes, &ms); err != nil {
			return nil, err
		}
		e.UpdatedAt = time.UnixMilli(ms).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

func (d *InkDB) Decks(ctx context.Context) ([]DeckSummary, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT deck, count(*), max(updated_at_unixms) FROM snapshots
		GROUP BY deck ORDER BY deck`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DeckSummary
	for rows.Next() {
		var s DeckSummary
		var ms int64
		if err := rows.Scan(&s.Deck, &s.Slides, &ms); err != nil {
			return nil, err
		}
		s.UpdatedAt = time.UnixMilli(ms).UTC()
		out = append(out, s)
	}
	return out, rows.Err()
}

// Clear drops every snapshot of a deck. Presenting sessions never call it.
func (d *InkDB) Clear(ctx context.Context, deck string) (int64, error) {
	res, err := d.db.ExecContext(ctx, `DELETE FROM snapshots WHERE deck = ?`, deck)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeckInk is an in-memory snapshot map for one deck that writes through to the database.
// Write failures are logged; the in-memory copy stays authoritative for the session.
type DeckInk struct {
	db   *InkDB
	deck string
	log  *slog.Logger

	mu    sync.Mutex
	snaps map[int][]byte
}

func (d *InkDB) Deck(ctx context.Context, deck string, log *slog.Logger) (*DeckInk, error) {
	snaps, err := d.Load(ctx, deck)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &DeckInk{db: d, deck: deck, log: log, snaps: snaps}, nil
}

func (k *DeckInk) Get(index int) ([]byte, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	b, ok := k.snaps[index]
	return b, ok
}

func (k *DeckInk) Put(index int, snapshot []byte) {
	k.mu.Lock()
	prev, had := k.snaps[index]
	unchanged := had && bytes.Equal(prev, snapshot)
	k.snaps[index] = bytes.Clone(snapshot)
	k.mu.Unlock()

	if unchanged {
		return
	}
	if err := k.db.Save(context.Background(), k.deck, index, snapshot); err != nil {
		k.log.Warn("persist ink snapshot", "deck", k.deck, "slide", index, "error", err)
	}
}
