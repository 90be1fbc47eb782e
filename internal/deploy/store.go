package deploy

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store is the local deployment cache and outcome journal. It replaces the
// per-browser localStorage the companion app used: payloads fetched from the
// remote store are cached here keyed by deployment id, alongside a single
// "last deployment" pointer and a journal of every finalized outcome.
type Store struct {
	db *sql.DB
}

// OpenStore opens (and migrates) the SQLite database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS deployments (
			id TEXT PRIMARY KEY,
			player TEXT NOT NULL,
			payload TEXT NOT NULL,
			cached_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS last_deployment (
			slot INTEGER PRIMARY KEY CHECK (slot = 1),
			deployment_id TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS outcome_journal (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			deployment_id TEXT NOT NULL,
			player TEXT NOT NULL,
			status TEXT NOT NULL,
			success INTEGER,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			heading TEXT,
			recorded_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_journal_deployment ON outcome_journal(deployment_id)`,
		`CREATE INDEX IF NOT EXISTS idx_deployments_player ON deployments(player)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// PutDeployment caches a payload and moves the last-deployment pointer to it.
func (s *Store) PutDeployment(p *Payload) error {
	if err := p.Validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	if _, err := s.db.Exec(
		`INSERT INTO deployments (id, player, payload, cached_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET player=excluded.player, payload=excluded.payload, cached_at=excluded.cached_at`,
		p.ID, p.Player, string(raw), time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("cache deployment %s: %w", p.ID, err)
	}
	return s.SetLastDeploymentID(p.ID)
}

// GetDeployment loads a cached payload; (nil, nil) when absent.
func (s *Store) GetDeployment(id string) (*Payload, error) {
	var raw string
	err := s.db.QueryRow(`SELECT payload FROM deployments WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load deployment %s: %w", id, err)
	}
	var p Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("decode deployment %s: %w", id, err)
	}
	return &p, nil
}

// SetLastDeploymentID moves the last-deployment pointer.
func (s *Store) SetLastDeploymentID(id string) error {
	if _, err := s.db.Exec(
		`INSERT INTO last_deployment (slot, deployment_id) VALUES (1, ?)
		 ON CONFLICT(slot) DO UPDATE SET deployment_id=excluded.deployment_id`, id,
	); err != nil {
		return fmt.Errorf("set last deployment: %w", err)
	}
	return nil
}

// LastDeploymentID returns the last-used deployment id, empty when unset.
func (s *Store) LastDeploymentID() (string, error) {
	var id string
	err := s.db.QueryRow(`SELECT deployment_id FROM last_deployment WHERE slot = 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load last deployment: %w", err)
	}
	return id, nil
}

// OutcomeRecord is one journaled mission result.
type OutcomeRecord struct {
	DeploymentID string
	Player       string
	Status       string
	Success      *bool
	DurationMs   int64
	Heading      string
}

// AppendOutcome journals a finalized mission result.
func (s *Store) AppendOutcome(rec OutcomeRecord) error {
	var success any
	if rec.Success != nil {
		if *rec.Success {
			success = 1
		} else {
			success = 0
		}
	}
	if _, err := s.db.Exec(
		`INSERT INTO outcome_journal (deployment_id, player, status, success, duration_ms, heading)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.DeploymentID, rec.Player, rec.Status, success, rec.DurationMs, rec.Heading,
	); err != nil {
		return fmt.Errorf("journal outcome for %s: %w", rec.DeploymentID, err)
	}
	return nil
}

// OutcomesFor lists journaled outcomes for a deployment, newest first.
func (s *Store) OutcomesFor(deploymentID string) ([]OutcomeRecord, error) {
	rows, err := s.db.Query(
		`SELECT deployment_id, player, status, success, duration_ms, heading
		 FROM outcome_journal WHERE deployment_id = ? ORDER BY id DESC`, deploymentID)
	if err != nil {
		return nil, fmt.Errorf("list outcomes for %s: %w", deploymentID, err)
	}
	defer rows.Close()

	var out []OutcomeRecord
	for rows.Next() {
		var rec OutcomeRecord
		var success sql.NullInt64
		if err := rows.Scan(&rec.DeploymentID, &rec.Player, &rec.Status, &success, &rec.DurationMs, &rec.Heading); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		if success.Valid {
			v := success.Int64 != 0
			rec.Success = &v
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
