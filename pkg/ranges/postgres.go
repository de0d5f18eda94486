package ranges

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresSource keeps the range-rule dataset in Postgres, for
// deployments where several services share one rule cache.
type PostgresSource struct {
	db *sql.DB
}

// NewPostgresSource connects with dsn. If the rule tables are missing
// they are created and filled from seed; like the SQLite source, an
// empty database without a seed is a hard error.
func NewPostgresSource(dsn string, seed Source) (*PostgresSource, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres source requires a non-empty DSN")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres db: %w", err)
	}

	var exists bool
	err = db.QueryRow("SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'prefix_rules')").Scan(&exists)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to check for existing tables: %w", err)
	}
	if !exists {
		if seed == nil {
			db.Close()
			return nil, fmt.Errorf("database holds no range rules and no seed source was given")
		}
		if seedErr := seedRules(db, seed, postgresSchema); seedErr != nil {
			db.Close()
			return nil, fmt.Errorf("failed to seed range database: %w", seedErr)
		}
	}

	return &PostgresSource{db: db}, nil
}

func (s *PostgresSource) Close() error {
	return s.db.Close()
}

func (s *PostgresSource) LoadPrefixRules() (map[string][]Rule, error) {
	return loadPrefixRules(s.db)
}

func (s *PostgresSource) LoadGroupRules() (map[string]Group, error) {
	return loadGroupRules(s.db)
}

const postgresSchema = `
CREATE TABLE prefix_rules (
	seq SERIAL PRIMARY KEY,
	product TEXT NOT NULL,
	low TEXT NOT NULL,
	high TEXT NOT NULL,
	length INTEGER NOT NULL
);
CREATE TABLE group_rules (
	seq SERIAL PRIMARY KEY,
	group_key TEXT NOT NULL,
	agency TEXT NOT NULL,
	low TEXT NOT NULL,
	high TEXT NOT NULL,
	length INTEGER NOT NULL
);
`
