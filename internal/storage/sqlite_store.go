package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/haneul-kim/date-spot-recommender/internal/domain"
)

// SQLiteStore persists the place catalog.
type SQLiteStore struct {
	db *sqlx.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys=ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) EnsureSchema() error {
	const createTable = `
CREATE TABLE IF NOT EXISTS places (
  place_id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  type TEXT NOT NULL,
  district TEXT NOT NULL,
  lat REAL NOT NULL DEFAULT 0,
  lon REAL NOT NULL DEFAULT 0,
  indoor INTEGER NOT NULL,
  noise INTEGER NOT NULL,
  romantic INTEGER NOT NULL,
  budget_level INTEGER NOT NULL,
  walk_score INTEGER NOT NULL,
  alcohol_available INTEGER NOT NULL,
  extrovert_friendly INTEGER NOT NULL,
  tags TEXT NOT NULL DEFAULT ''
);
`
	if _, err := s.db.Exec(createTable); err != nil {
		return err
	}
	if _, err := s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_places_district ON places(district);`); err != nil {
		return err
	}
	if _, err := s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_places_type ON places(type);`); err != nil {
		return err
	}
	return nil
}

func (s *SQLiteStore) CountPlaces() (int, error) {
	var n int
	err := s.db.Get(&n, `SELECT COUNT(*) FROM places`)
	return n, err
}

// UpsertMany seeds the catalog without duplicating by place_id.
func (s *SQLiteStore) UpsertMany(items []domain.Place) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareNamed(`
INSERT OR IGNORE INTO places
(place_id, name, type, district, lat, lon, indoor, noise, romantic, budget_level, walk_score, alcohol_available, extrovert_friendly, tags)
VALUES (:place_id, :name, :type, :district, :lat, :lon, :indoor, :noise, :romantic, :budget_level, :walk_score, :alcohol_available, :extrovert_friendly, :tags)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, p := range items {
		if p.ID == "" {
			p.ID = fmt.Sprintf("p%03d", i+1)
		}
		if _, err := stmt.Exec(p); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// AllPlaces returns the whole catalog in stable place_id order, the
// order the scoring engine uses for tie-breaking.
func (s *SQLiteStore) AllPlaces() ([]domain.Place, error) {
	var out []domain.Place
	if err := s.db.Select(&out, `SELECT * FROM places ORDER BY place_id`); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) GetPlace(id string) (domain.Place, bool, error) {
	var p domain.Place
	err := s.db.Get(&p, `SELECT * FROM places WHERE place_id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Place{}, false, nil
	}
	if err != nil {
		return domain.Place{}, false, err
	}
	return p, true, nil
}

// ListPlaces returns a page of the catalog, optionally filtering by
// district and type. The total reflects the same filters.
func (s *SQLiteStore) ListPlaces(limit, offset int, district string, placeType domain.PlaceType) ([]domain.Place, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	where := make([]string, 0, 2)
	args := make([]any, 0, 4)
	if district != "" {
		where = append(where, "district = ?")
		args = append(args, district)
	}
	if placeType != "" {
		where = append(where, "type = ?")
		args = append(args, string(placeType))
	}
	whereSQL := ""
	if len(where) > 0 {
		whereSQL = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.db.Get(&total, "SELECT COUNT(*) FROM places "+whereSQL, args...); err != nil {
		return nil, 0, err
	}

	var out []domain.Place
	query := "SELECT * FROM places " + whereSQL + " ORDER BY place_id LIMIT ? OFFSET ?"
	if err := s.db.Select(&out, query, append(args, limit, offset)...); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
