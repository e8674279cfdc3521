// Package store persists profiles, summaries, goal trees and reading lists
// in SQLite, and exports goals as markdown with YAML frontmatter.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/stefanpenner/lifeos/pkg/goal"
	"github.com/stefanpenner/lifeos/pkg/profile"
	"github.com/stefanpenner/lifeos/pkg/resources"
)

// DBName is the database file inside the data directory.
const DBName = "lifeos.db"

// Store manages the SQLite-backed user data.
type Store struct {
	Root string // e.g., ~/.local/share/lifeos
	db   *sql.DB
	now  func() time.Time
}

// NewStore opens (creating if needed) the database under root and applies
// pending migrations.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	db, err := Open(filepath.Join(root, DBName))
	if err != nil {
		return nil, err
	}
	if err := ApplyMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{Root: root, db: db, now: time.Now}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DBPath returns the path to the database file.
func (s *Store) DBPath() string {
	return filepath.Join(s.Root, DBName)
}

// ExportDir returns the default directory for markdown exports.
func (s *Store) ExportDir() string {
	return filepath.Join(s.Root, "export")
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

// SaveProfile upserts the profile. Goals are stored separately by SaveGoals
// and are not duplicated here.
func (s *Store) SaveProfile(ctx context.Context, userID string, p profile.Profile) error {
	p.Goals = nil
	return s.upsert(ctx, "user_profiles", "profile_data", userID, p)
}

// LoadProfile returns the stored profile, or nil if there is none.
func (s *Store) LoadProfile(ctx context.Context, userID string) (*profile.Profile, error) {
	var p profile.Profile
	ok, err := s.load(ctx, "user_profiles", "profile_data", userID, &p)
	if err != nil || !ok {
		return nil, err
	}
	return &p, nil
}

// SaveSummary upserts the life summary.
func (s *Store) SaveSummary(ctx context.Context, userID string, summary profile.Summary) error {
	return s.upsert(ctx, "life_summaries", "summary_data", userID, summary)
}

// LoadSummary returns the stored summary, or nil if there is none.
func (s *Store) LoadSummary(ctx context.Context, userID string) (*profile.Summary, error) {
	var summary profile.Summary
	ok, err := s.load(ctx, "life_summaries", "summary_data", userID, &summary)
	if err != nil || !ok {
		return nil, err
	}
	return &summary, nil
}

// SaveResources upserts the reading list.
func (s *Store) SaveResources(ctx context.Context, userID string, recs resources.Recommendations) error {
	return s.upsert(ctx, "resources", "resources_data", userID, recs)
}

// LoadResources returns the stored reading list, or nil if there is none.
func (s *Store) LoadResources(ctx context.Context, userID string) (*resources.Recommendations, error) {
	var recs resources.Recommendations
	ok, err := s.load(ctx, "resources", "resources_data", userID, &recs)
	if err != nil || !ok {
		return nil, err
	}
	return &recs, nil
}

// SaveGoals replaces every goal for the user in one transaction, keeping
// their order.
func (s *Store) SaveGoals(ctx context.Context, userID string, goals []goal.Goal) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin goals tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM goals WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clearing goals: %w", err)
	}
	ts := s.timestamp()
	for i, g := range goals {
		data, err := json.Marshal(g)
		if err != nil {
			return fmt.Errorf("encoding goal %s: %w", g.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO goals(id, user_id, position, goal_data, created_at) VALUES(?, ?, ?, ?, ?)`,
			g.ID, userID, i, string(data), ts); err != nil {
			return fmt.Errorf("inserting goal %s: %w", g.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit goals: %w", err)
	}
	return nil
}

// LoadGoals returns the user's goals in saved order.
func (s *Store) LoadGoals(ctx context.Context, userID string) ([]goal.Goal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, goal_data FROM goals WHERE user_id = ? ORDER BY position, created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying goals: %w", err)
	}
	defer rows.Close()

	goals := []goal.Goal{}
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scanning goal: %w", err)
		}
		var g goal.Goal
		if err := json.Unmarshal([]byte(data), &g); err != nil {
			return nil, fmt.Errorf("decoding goal %s: %w", id, err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading goals: %w", err)
	}
	return goals, nil
}

// DeleteUser removes every row belonging to the user.
func (s *Store) DeleteUser(ctx context.Context, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	for _, table := range []string{"user_profiles", "life_summaries", "goals", "resources"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("deleting from %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// upsert writes v as JSON into column of table. table and column are
// constants from this file, never user input.
func (s *Store) upsert(ctx context.Context, table, column, userID string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", table, err)
	}
	query := fmt.Sprintf(`INSERT INTO %[1]s(user_id, %[2]s, updated_at) VALUES(?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET %[2]s = excluded.%[2]s, updated_at = excluded.updated_at`, table, column)
	if _, err := s.db.ExecContext(ctx, query, userID, string(data), s.timestamp()); err != nil {
		return fmt.Errorf("saving %s: %w", table, err)
	}
	return nil
}

func (s *Store) load(ctx context.Context, table, column, userID string, v any) (bool, error) {
	var data string
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = ?`, column, table)
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("loading %s: %w", table, err)
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return false, fmt.Errorf("decoding %s: %w", table, err)
	}
	return true, nil
}
