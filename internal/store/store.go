// Package store handles SQLite persistence of the profile corpus and named segments.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/verte-zerg/segstat/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for profiles and segments.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			uid TEXT PRIMARY KEY
		);`,
		`CREATE TABLE IF NOT EXISTS profile_event_names (
			uid TEXT NOT NULL,
			event TEXT NOT NULL,
			PRIMARY KEY (uid, event)
		);`,
		`CREATE TABLE IF NOT EXISTS profile_events (
			uid TEXT NOT NULL,
			event TEXT NOT NULL,
			hour INTEGER NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (uid, event, hour)
		);`,
		`CREATE TABLE IF NOT EXISTS profile_properties (
			uid TEXT NOT NULL,
			name TEXT NOT NULL,
			value TEXT NOT NULL,
			PRIMARY KEY (uid, name, value)
		);`,
		`CREATE TABLE IF NOT EXISTS segment_members (
			segment TEXT NOT NULL,
			uid TEXT NOT NULL,
			PRIMARY KEY (segment, uid)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertProfiles stores profiles, replacing any existing data for the same UID.
func (s *Store) InsertProfiles(ctx context.Context, profiles []model.Profile) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	for _, p := range profiles {
		if p.UID == "" {
			continue
		}
		for _, stmt := range []string{
			`DELETE FROM profile_event_names WHERE uid = ?`,
			`DELETE FROM profile_events WHERE uid = ?`,
			`DELETE FROM profile_properties WHERE uid = ?`,
			`INSERT OR IGNORE INTO profiles (uid) VALUES (?)`,
		} {
			if _, err = tx.ExecContext(ctx, stmt, p.UID); err != nil {
				return err
			}
		}
		for event, hours := range p.Events {
			// An event without hourly counts is still held by the user.
			if _, err = tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO profile_event_names (uid, event) VALUES (?, ?)`,
				p.UID, event); err != nil {
				return err
			}
			for _, h := range hours {
				if _, err = tx.ExecContext(ctx,
					`INSERT INTO profile_events (uid, event, hour, count) VALUES (?, ?, ?, ?)
					 ON CONFLICT (uid, event, hour) DO UPDATE SET count = count + excluded.count`,
					p.UID, event, h.Hour, h.Count); err != nil {
					return err
				}
			}
		}
		for name, values := range p.Properties {
			for _, v := range values {
				if _, err = tx.ExecContext(ctx,
					`INSERT OR IGNORE INTO profile_properties (uid, name, value) VALUES (?, ?, ?)`,
					p.UID, name, v); err != nil {
					return err
				}
			}
		}
	}
	return tx.Commit()
}

// ListProfiles loads every stored profile ordered by UID.
func (s *Store) ListProfiles(ctx context.Context) ([]model.Profile, error) {
	byUID := map[model.UserID]*model.Profile{}
	var order []model.UserID

	rows, err := s.db.QueryContext(ctx, `SELECT uid FROM profiles ORDER BY uid`)
	if err != nil {
		return nil, err
	}
	err = scanRows(rows, func() error {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return err
		}
		id := model.UserID(uid)
		byUID[id] = &model.Profile{
			UID:        id,
			Events:     map[string][]model.HourCount{},
			Properties: map[string][]string{},
		}
		order = append(order, id)
		return nil
	})
	if err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT uid, event FROM profile_event_names ORDER BY uid, event`)
	if err != nil {
		return nil, err
	}
	err = scanRows(rows, func() error {
		var uid, event string
		if err := rows.Scan(&uid, &event); err != nil {
			return err
		}
		if p, ok := byUID[model.UserID(uid)]; ok {
			p.Events[event] = []model.HourCount{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT uid, event, hour, count FROM profile_events ORDER BY uid, event, hour`)
	if err != nil {
		return nil, err
	}
	err = scanRows(rows, func() error {
		var uid, event string
		var h model.HourCount
		if err := rows.Scan(&uid, &event, &h.Hour, &h.Count); err != nil {
			return err
		}
		if p, ok := byUID[model.UserID(uid)]; ok {
			p.Events[event] = append(p.Events[event], h)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT uid, name, value FROM profile_properties ORDER BY uid, name, value`)
	if err != nil {
		return nil, err
	}
	err = scanRows(rows, func() error {
		var uid, name, value string
		if err := rows.Scan(&uid, &name, &value); err != nil {
			return err
		}
		if p, ok := byUID[model.UserID(uid)]; ok {
			p.Properties[name] = append(p.Properties[name], value)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	profiles := make([]model.Profile, 0, len(order))
	for _, id := range order {
		profiles = append(profiles, *byUID[id])
	}
	return profiles, nil
}

// SaveSegment replaces the members of a named segment.
func (s *Store) SaveSegment(ctx context.Context, seg model.Segment) (err error) {
	if seg.Name == "" {
		return fmt.Errorf("segment name is empty")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM segment_members WHERE segment = ?`, seg.Name); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO segment_members (segment, uid) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for _, id := range seg.Users.Sorted() {
		if _, err = stmt.ExecContext(ctx, seg.Name, string(id)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadSegment returns the named segment. An unknown name is an error.
func (s *Store) LoadSegment(ctx context.Context, name string) (model.Segment, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT uid FROM segment_members WHERE segment = ?`, name)
	if err != nil {
		return model.Segment{}, err
	}
	users := model.UserSet{}
	err = scanRows(rows, func() error {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return err
		}
		users[model.UserID(uid)] = struct{}{}
		return nil
	})
	if err != nil {
		return model.Segment{}, err
	}
	if len(users) == 0 {
		return model.Segment{}, fmt.Errorf("segment %q not found", name)
	}
	return model.Segment{Name: name, Users: users}, nil
}

// SegmentSize is a named segment with its member count.
type SegmentSize struct {
	Name  string
	Users int
}

// ListSegments returns stored segments ordered by name.
func (s *Store) ListSegments(ctx context.Context) ([]SegmentSize, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT segment, COUNT(*) FROM segment_members GROUP BY segment`)
	if err != nil {
		return nil, err
	}
	var out []SegmentSize
	err = scanRows(rows, func() error {
		var seg SegmentSize
		if err := rows.Scan(&seg.Name, &seg.Users); err != nil {
			return err
		}
		out = append(out, seg)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func scanRows(rows *sql.Rows, scan func() error) error {
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	for rows.Next() {
		if err := scan(); err != nil {
			return err
		}
	}
	return rows.Err()
}
