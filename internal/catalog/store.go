package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// ErrNotFound is returned when a service id does not exist.
var ErrNotFound = errors.New("catalog: service not found")

// ─── Config ──────────────────────────────────────────────────────────────────

// Config holds live catalog store configuration.
type Config struct {
	// Path is the SQLite database file.
	Path string
	// MaxSearchResults caps Search regardless of the requested limit.
	MaxSearchResults int
}

// DefaultConfig returns the default configuration for the catalog store.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		Path:             filepath.Join(home, ".sowkit", "catalog.db"),
		MaxSearchResults: 50,
	}
}

// ─── Types ───────────────────────────────────────────────────────────────────

// ListOptions filters List.
type ListOptions struct {
	// Function restricts results to one primary function (case-insensitive).
	Function string
}

// ImportResult holds counts of an Import call.
type ImportResult struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
}

// ─── Store ───────────────────────────────────────────────────────────────────

// Store is the live service catalog backed by SQLite + FTS5.
type Store struct {
	db  *sql.DB
	cfg Config
}

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

// New opens (or creates) the catalog database at cfg.Path with WAL mode
// and runs migrations.
func New(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("catalog: database path is required")
	}
	if cfg.MaxSearchResults <= 0 {
		cfg.MaxSearchResults = DefaultConfig().MaxSearchResults
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o700); err != nil {
		return nil, fmt.Errorf("catalog: create data dir: %w", err)
	}

	db, err := openDB("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("catalog: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, cfg: cfg}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("catalog: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ─── Migrations ──────────────────────────────────────────────────────────────

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS services (
			row_id           INTEGER PRIMARY KEY AUTOINCREMENT,
			id               TEXT    NOT NULL UNIQUE,
			slug             TEXT,
			name             TEXT    NOT NULL,
			description      TEXT,
			primary_function TEXT,
			hours_low        REAL,
			hours_high       REAL,
			default_rate     REAL,
			created_at       TEXT    NOT NULL DEFAULT (datetime('now')),
			updated_at       TEXT    NOT NULL DEFAULT (datetime('now'))
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_services_slug     ON services(slug);
		CREATE INDEX IF NOT EXISTS        idx_services_function ON services(primary_function COLLATE NOCASE);

		CREATE VIRTUAL TABLE IF NOT EXISTS services_fts USING fts5(
			name,
			description,
			primary_function,
			content='services',
			content_rowid='row_id'
		);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	var name string
	err := s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='trigger' AND name='services_fts_insert'",
	).Scan(&name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	triggers := `
		CREATE TRIGGER services_fts_insert AFTER INSERT ON services BEGIN
			INSERT INTO services_fts(rowid, name, description, primary_function)
			VALUES (new.row_id, new.name, new.description, new.primary_function);
		END;

		CREATE TRIGGER services_fts_delete AFTER DELETE ON services BEGIN
			INSERT INTO services_fts(services_fts, rowid, name, description, primary_function)
			VALUES ('delete', old.row_id, old.name, old.description, old.primary_function);
		END;

		CREATE TRIGGER services_fts_update AFTER UPDATE ON services BEGIN
			INSERT INTO services_fts(services_fts, rowid, name, description, primary_function)
			VALUES ('delete', old.row_id, old.name, old.description, old.primary_function);
			INSERT INTO services_fts(rowid, name, description, primary_function)
			VALUES (new.row_id, new.name, new.description, new.primary_function);
		END;
	`
	_, err = s.db.Exec(triggers)
	return err
}

// ─── Writes ──────────────────────────────────────────────────────────────────

// Upsert inserts or replaces a service keyed by id. Entries without an id
// or slug get one derived from their name. It returns the stored id.
func (s *Store) Upsert(e Entry) (string, error) {
	id, _, err := s.upsert(s.db, e)
	return id, err
}

func (s *Store) upsert(db dbtx, e Entry) (id string, inserted bool, err error) {
	e = normalizeEntry(e)
	id = e.Key()
	if id == "" {
		id = slugify(e.Name)
	}
	if id == "" {
		return "", false, fmt.Errorf("catalog: service has no id, slug or name")
	}
	if e.Name == "" {
		e.Name = id
	}

	var exists int
	if err := db.QueryRow(`SELECT COUNT(*) FROM services WHERE id = ?`, id).Scan(&exists); err != nil {
		return "", false, fmt.Errorf("catalog: upsert %s: %w", id, err)
	}

	_, err = db.Exec(
		`INSERT INTO services (id, slug, name, description, primary_function, hours_low, hours_high, default_rate)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		     slug             = excluded.slug,
		     name             = excluded.name,
		     description      = excluded.description,
		     primary_function = excluded.primary_function,
		     hours_low        = excluded.hours_low,
		     hours_high       = excluded.hours_high,
		     default_rate     = excluded.default_rate,
		     updated_at       = datetime('now')`,
		id, nullableString(e.Slug), e.Name, nullableString(e.Description), nullableString(e.PrimaryFunction),
		numberArg(e.HoursLow), numberArg(e.HoursHigh), numberArg(e.DefaultRate),
	)
	if err != nil {
		return "", false, fmt.Errorf("catalog: upsert %s: %w", id, err)
	}
	return id, exists == 0, nil
}

// Import upserts a batch of entries in one transaction. Entries with no
// usable identifier are skipped.
func (s *Store) Import(entries []Entry) (*ImportResult, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("catalog: import: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result := &ImportResult{}
	for _, e := range entries {
		if !identifiable(normalizeEntry(e)) {
			result.Skipped++
			continue
		}
		_, inserted, err := s.upsert(tx, e)
		if err != nil {
			return nil, fmt.Errorf("catalog: import: %w", err)
		}
		if inserted {
			result.Inserted++
		} else {
			result.Updated++
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("catalog: import: commit: %w", err)
	}
	return result, nil
}

// Delete removes a service by id.
func (s *Store) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM services WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("catalog: delete %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// ─── Reads ───────────────────────────────────────────────────────────────────

const selectColumns = `id, slug, name, description, primary_function, hours_low, hours_high, default_rate`

// Get retrieves a single service by id.
func (s *Store) Get(id string) (*Entry, error) {
	var r Record
	err := s.db.QueryRow(
		`SELECT `+selectColumns+` FROM services WHERE id = ?`, id,
	).Scan(&r.ID, &r.Slug, &r.Name, &r.Description, &r.PrimaryFunction, &r.HoursLow, &r.HoursHigh, &r.DefaultRate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: get %s: %w", id, err)
	}
	entries := FromRecords([]Record{r})
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return &entries[0], nil
}

// List returns services in insertion order, optionally filtered by function.
func (s *Store) List(opts ListOptions) ([]Entry, error) {
	query := `SELECT ` + selectColumns + ` FROM services WHERE 1=1`
	var args []any

	if fn := strings.TrimSpace(opts.Function); fn != "" {
		query += " AND primary_function = ? COLLATE NOCASE"
		args = append(args, fn)
	}
	query += " ORDER BY row_id ASC"

	return s.queryEntries(query, args...)
}

// Search performs full-text search over name, description and function.
// An empty or whitespace-only query falls back to List.
func (s *Store) Search(query string, limit int) ([]Entry, error) {
	if limit <= 0 || limit > s.cfg.MaxSearchResults {
		limit = s.cfg.MaxSearchResults
	}

	ftsQuery := sanitizeFTS(query)
	if ftsQuery == "" {
		entries, err := s.List(ListOptions{})
		if err != nil {
			return nil, err
		}
		if len(entries) > limit {
			entries = entries[:limit]
		}
		return entries, nil
	}

	entries, err := s.queryEntries(
		`SELECT s.id, s.slug, s.name, s.description, s.primary_function, s.hours_low, s.hours_high, s.default_rate
		 FROM services_fts fts
		 JOIN services s ON s.row_id = fts.rowid
		 WHERE services_fts MATCH ?
		 ORDER BY fts.rank
		 LIMIT ?`,
		ftsQuery, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("catalog: search: %w", err)
	}
	return entries, nil
}

// Count returns the number of stored services.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM services`).Scan(&n); err != nil {
		return 0, fmt.Errorf("catalog: count: %w", err)
	}
	return n, nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func (s *Store) queryEntries(query string, args ...any) ([]Entry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Slug, &r.Name, &r.Description, &r.PrimaryFunction, &r.HoursLow, &r.HoursHigh, &r.DefaultRate); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return FromRecords(records), nil
}

func normalizeEntry(e Entry) Entry {
	n := Normalize([]Entry{e})
	if len(n) == 0 {
		return Entry{}
	}
	return n[0]
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// numberArg stores usable numbers and NULL for anything else; the
// enricher treats both missing and malformed values the same way.
func numberArg(n Number) any {
	if f, ok := n.Float(); ok {
		return f
	}
	return nil
}

// sanitizeFTS wraps each word in quotes for safe FTS5 queries.
// "lead routing" → `"lead" "routing"`
func sanitizeFTS(query string) string {
	var words []string
	for _, w := range strings.Fields(query) {
		w = strings.ReplaceAll(w, `"`, "")
		if w == "" {
			continue
		}
		words = append(words, `"`+w+`"`)
	}
	return strings.Join(words, " ")
}

// slugify lowercases and joins alphanumeric runs with hyphens.
func slugify(s string) string {
	var b strings.Builder
	prevHyphen := true
	for _, r := range strings.ToLower(s) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			prevHyphen = false
		case !prevHyphen:
			b.WriteByte('-')
			prevHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}
