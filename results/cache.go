package results

import (
	"bytes"
	"database/sql"
	"encoding/gob"
	"fmt"
	"log"

	_ "modernc.org/sqlite"

	"github.com/ultraklon/ballistic-montecarlo/montecarlo"
)

// Cache persists run records in a SQLite file.
type Cache struct {
	db *sql.DB
}

// Open opens (and if needed initializes) a cache database at path.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			identifier TEXT PRIMARY KEY,
			n_inject INTEGER,
			trajectories BLOB,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS counts (
			identifier TEXT,
			edge INTEGER,
			count INTEGER,
			PRIMARY KEY (identifier, edge)
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Cache{db}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error { return c.db.Close() }

// Load fetches a cached record. ok is false when the identifier has no
// cached run.
func (c *Cache) Load(identifier string) (rec *Record, ok bool, err error) {
	rec = &Record{Identifier: identifier}

	var blob []byte
	row := c.db.QueryRow(
		"SELECT n_inject, trajectories FROM runs WHERE identifier = ?", identifier)
	if err := row.Scan(&rec.NInject, &blob); err == sql.ErrNoRows {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}

	dec := gob.NewDecoder(bytes.NewReader(blob))
	if err := dec.Decode(&rec.Trajectories); err != nil {
		return nil, false, fmt.Errorf("results: corrupt trajectory blob for %q: %w", identifier, err)
	}

	rows, err := c.db.Query(
		"SELECT count FROM counts WHERE identifier = ? ORDER BY edge", identifier)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, false, err
		}
		rec.Counts = append(rec.Counts, n)
	}
	return rec, true, rows.Err()
}

// Store writes a record, replacing any previous run with the same
// identifier.
func (c *Cache) Store(rec *Record) error {
	var blob bytes.Buffer
	if err := gob.NewEncoder(&blob).Encode(rec.Trajectories); err != nil {
		return err
	}

	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT OR REPLACE INTO runs (identifier, n_inject, trajectories) VALUES (?, ?, ?)",
		rec.Identifier, rec.NInject, blob.Bytes())
	if err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM counts WHERE identifier = ?", rec.Identifier); err != nil {
		return err
	}
	for i, n := range rec.Counts {
		_, err := tx.Exec(
			"INSERT INTO counts (identifier, edge, count) VALUES (?, ?, ?)",
			rec.Identifier, i, n)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// RunWithCache returns the cached record for identifier if one exists,
// and otherwise runs the simulation and caches the result.
func RunWithCache(
	c *Cache, sim *montecarlo.Simulation, identifier string,
	nInject int, stored montecarlo.StateSet,
) (*Record, error) {
	rec, ok, err := c.Load(identifier)
	if err != nil {
		return nil, err
	}
	if ok {
		log.Printf("results: run %q already cached, loading", identifier)
		return rec, nil
	}

	log.Printf("results: run %q not cached, simulating", identifier)
	counts, trajectories, err := sim.Run(nInject, stored)
	if err != nil {
		return nil, err
	}
	rec = NewRecord(sim, identifier, nInject, counts, trajectories)
	if err := c.Store(rec); err != nil {
		return nil, err
	}
	return rec, nil
}
