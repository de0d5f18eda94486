package ranges

import (
	"database/sql"
	"fmt"
	"sort"

	_ "modernc.org/sqlite"
)

// SQLiteSource caches the range-rule dataset in a local SQLite file.
// Rule order matters for first-match resolution, so rows carry a
// sequence number and every query orders by it.
type SQLiteSource struct {
	db *sql.DB
}

// NewSQLiteSource opens the database at path. If the rule tables are
// missing the database is seeded from seed; opening an empty database
// without a seed source is an error, not an empty table.
func NewSQLiteSource(path string, seed Source) (*SQLiteSource, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite source requires a non-empty database path")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db at %s: %w", path, err)
	}

	var tableName string
	err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='prefix_rules'").Scan(&tableName)
	if err == sql.ErrNoRows {
		if seed == nil {
			db.Close()
			return nil, fmt.Errorf("database %s holds no range rules and no seed source was given", path)
		}
		if seedErr := seedRules(db, seed, sqliteSchema); seedErr != nil {
			db.Close()
			return nil, fmt.Errorf("failed to seed range database: %w", seedErr)
		}
	} else if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to check for existing tables in %s: %w", path, err)
	}

	return &SQLiteSource{db: db}, nil
}

func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

func (s *SQLiteSource) LoadPrefixRules() (map[string][]Rule, error) {
	return loadPrefixRules(s.db)
}

func (s *SQLiteSource) LoadGroupRules() (map[string]Group, error) {
	return loadGroupRules(s.db)
}

const sqliteSchema = `
CREATE TABLE prefix_rules (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	product TEXT NOT NULL,
	low TEXT NOT NULL,
	high TEXT NOT NULL,
	length INTEGER NOT NULL
);
CREATE TABLE group_rules (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	group_key TEXT NOT NULL,
	agency TEXT NOT NULL,
	low TEXT NOT NULL,
	high TEXT NOT NULL,
	length INTEGER NOT NULL
);
`

// seedRules copies the full rule set from src into db inside one
// transaction. Keys are inserted in sorted order so that repeated seeds
// of the same dataset produce identical row sequences.
func seedRules(db *sql.DB, src Source, schema string) error {
	prefix, err := src.LoadPrefixRules()
	if err != nil {
		return err
	}
	groups, err := src.LoadGroupRules()
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(schema); err != nil {
		return fmt.Errorf("failed to create rule tables: %w", err)
	}

	for _, product := range sortedKeys(prefix) {
		for _, r := range prefix[product] {
			if _, err := tx.Exec(
				"INSERT INTO prefix_rules (product, low, high, length) VALUES ($1, $2, $3, $4)",
				product, r.Low, r.High, r.Length,
			); err != nil {
				return fmt.Errorf("failed to insert prefix rule for %s: %w", product, err)
			}
		}
	}

	for _, key := range sortedGroupKeys(groups) {
		g := groups[key]
		for _, r := range g.Rules {
			if _, err := tx.Exec(
				"INSERT INTO group_rules (group_key, agency, low, high, length) VALUES ($1, $2, $3, $4, $5)",
				key, g.Agency, r.Low, r.High, r.Length,
			); err != nil {
				return fmt.Errorf("failed to insert group rule for %s: %w", key, err)
			}
		}
	}

	return tx.Commit()
}

func loadPrefixRules(db *sql.DB) (map[string][]Rule, error) {
	rows, err := db.Query("SELECT product, low, high, length FROM prefix_rules ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to query prefix rules: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]Rule)
	for rows.Next() {
		var product string
		var r Rule
		if err := rows.Scan(&product, &r.Low, &r.High, &r.Length); err != nil {
			return nil, err
		}
		out[product] = append(out[product], r)
	}
	return out, rows.Err()
}

func loadGroupRules(db *sql.DB) (map[string]Group, error) {
	rows, err := db.Query("SELECT group_key, agency, low, high, length FROM group_rules ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to query group rules: %w", err)
	}
	defer rows.Close()

	out := make(map[string]Group)
	for rows.Next() {
		var key, agency string
		var r Rule
		if err := rows.Scan(&key, &agency, &r.Low, &r.High, &r.Length); err != nil {
			return nil, err
		}
		g := out[key]
		g.Agency = agency
		g.Rules = append(g.Rules, r)
		out[key] = g
	}
	return out, rows.Err()
}

func sortedKeys(m map[string][]Rule) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedGroupKeys(m map[string]Group) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
