// Package archive keeps an optional SQLite history of publications runs.
// The build pipeline never reads it; it exists so the lab can diff what the
// site showed over time.
package archive

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/angerslab/sitegen/internal/publication"
	_ "modernc.org/sqlite"
)

// DB wraps the archive database connection.
type DB struct {
	db *sql.DB
}

// Run is one recorded pipeline run.
type Run struct {
	ID          int64     `json:"id"`
	StartedAt   time.Time `json:"started_at"`
	QueryCount  int       `json:"query_count"`
	RecordCount int       `json:"record_count"`
}

// Stats summarizes the archive contents.
type Stats struct {
	Runs          int       `json:"runs"`
	DistinctPMIDs int       `json:"distinct_pmids"`
	FirstRun      time.Time `json:"first_run,omitempty"`
	LastRun       time.Time `json:"last_run,omitempty"`
}

// Open opens or creates the archive database at the given path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating archive schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			query_count INTEGER NOT NULL,
			record_count INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS publications (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			position INTEGER NOT NULL,
			pmid TEXT NOT NULL,
			title TEXT,
			journal TEXT,
			doi TEXT,
			year TEXT,
			sort_date TEXT,
			authors_json TEXT NOT NULL,
			search_text TEXT NOT NULL,
			PRIMARY KEY (run_id, position)
		);

		CREATE INDEX IF NOT EXISTS idx_publications_pmid ON publications(pmid);
	`
	_, err := db.Exec(schema)
	return err
}

// SaveRun records one pipeline run and its records in a single transaction.
func (d *DB) SaveRun(startedAt time.Time, queryCount int, records []publication.Record) (int64, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO runs (started_at, query_count, record_count) VALUES (?, ?, ?)`,
		startedAt.UTC().Format(time.RFC3339), queryCount, len(records),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO publications
			(run_id, position, pmid, title, journal, doi, year, sort_date, authors_json, search_text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		authors, err := json.Marshal(r.Authors)
		if err != nil {
			return 0, fmt.Errorf("encoding authors for %s: %w", r.PMID, err)
		}
		if _, err := stmt.Exec(
			runID, i, r.PMID, r.Title, r.Journal, r.DOI, r.Year, r.SortDate,
			string(authors), r.SearchText(),
		); err != nil {
			return 0, fmt.Errorf("inserting %s: %w", r.PMID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// Runs returns all recorded runs, newest first.
func (d *DB) Runs() ([]Run, error) {
	rows, err := d.db.Query(
		`SELECT id, started_at, query_count, record_count FROM runs ORDER BY id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started string
		if err := rows.Scan(&run.ID, &started, &run.QueryCount, &run.RecordCount); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		run.StartedAt, _ = time.Parse(time.RFC3339, started)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LatestRecords returns the records of the most recent run in stored order.
func (d *DB) LatestRecords() ([]publication.Record, error) {
	rows, err := d.db.Query(`
		SELECT pmid, title, journal, doi, year, sort_date, authors_json
		FROM publications
		WHERE run_id = (SELECT MAX(id) FROM runs)
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []publication.Record
	for rows.Next() {
		var r publication.Record
		var authorsJSON string
		if err := rows.Scan(&r.PMID, &r.Title, &r.Journal, &r.DOI, &r.Year, &r.SortDate, &authorsJSON); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		if err := json.Unmarshal([]byte(authorsJSON), &r.Authors); err != nil {
			return nil, fmt.Errorf("decoding authors for %s: %w", r.PMID, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// ReadStats summarizes the archive.
func (d *DB) ReadStats() (*Stats, error) {
	var stats Stats
	var first, last sql.NullString

	err := d.db.QueryRow(
		`SELECT COUNT(*), MIN(started_at), MAX(started_at) FROM runs`,
	).Scan(&stats.Runs, &first, &last)
	if err != nil {
		return nil, fmt.Errorf("querying run stats: %w", err)
	}

	err = d.db.QueryRow(`SELECT COUNT(DISTINCT pmid) FROM publications`).Scan(&stats.DistinctPMIDs)
	if err != nil {
		return nil, fmt.Errorf("querying pmid stats: %w", err)
	}

	if first.Valid {
		stats.FirstRun, _ = time.Parse(time.RFC3339, first.String)
	}
	if last.Valid {
		stats.LastRun, _ = time.Parse(time.RFC3339, last.String)
	}

	return &stats, nil
}
