package storage

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mockhub/mockhub/internal/models"
)

type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return &SQLiteStorage{db: db}, nil
}

func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS endpoints (
			id TEXT PRIMARY KEY,
			path TEXT NOT NULL,
			response TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			uid TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			display_name TEXT NOT NULL DEFAULT '',
			photo_url TEXT NOT NULL DEFAULT '',
			provider TEXT NOT NULL,
			last_login DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		// path is deliberately not UNIQUE; duplicate paths are allowed and
		// lookup picks the newest row.
		`CREATE INDEX IF NOT EXISTS idx_endpoints_path ON endpoints(path)`,
	}

	for _, q := range queries {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// --- Endpoints ---

func (s *SQLiteStorage) CreateEndpoint(ctx context.Context, ep *models.Endpoint) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO endpoints (id, path, response, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		ep.ID, ep.Path, string(ep.Response), ep.CreatedAt, ep.UpdatedAt,
	)
	return err
}

func (s *SQLiteStorage) scanEndpoint(row interface{ Scan(...interface{}) error }) (*models.Endpoint, error) {
	var ep models.Endpoint
	var response string
	err := row.Scan(&ep.ID, &ep.Path, &response, &ep.CreatedAt, &ep.UpdatedAt)
	if err != nil {
		return nil, err
	}
	ep.Response = []byte(response)
	return &ep, nil
}

func (s *SQLiteStorage) GetEndpoint(ctx context.Context, id string) (*models.Endpoint, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, path, response, created_at, updated_at FROM endpoints WHERE id = ?`, id)
	ep, err := s.scanEndpoint(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return ep, err
}

// GetEndpointByPath returns the newest endpoint whose path matches exactly.
// Duplicate paths resolve last-write-wins.
func (s *SQLiteStorage) GetEndpointByPath(ctx context.Context, path string) (*models.Endpoint, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, path, response, created_at, updated_at FROM endpoints
		 WHERE path = ? ORDER BY created_at DESC, id DESC LIMIT 1`, path)
	ep, err := s.scanEndpoint(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return ep, err
}

func (s *SQLiteStorage) ListEndpoints(ctx context.Context) ([]models.Endpoint, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, path, response, created_at, updated_at FROM endpoints ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var endpoints []models.Endpoint
	for rows.Next() {
		ep, err := s.scanEndpoint(rows)
		if err != nil {
			return nil, err
		}
		endpoints = append(endpoints, *ep)
	}
	return endpoints, rows.Err()
}

func (s *SQLiteStorage) UpdateEndpoint(ctx context.Context, ep *models.Endpoint) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE endpoints SET path = ?, response = ?, updated_at = ? WHERE id = ?`,
		ep.Path, string(ep.Response), ep.UpdatedAt, ep.ID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLiteStorage) DeleteEndpoint(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM endpoints WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// --- Users ---

// UpsertUser inserts the profile on first sign-in and refreshes it on every
// subsequent one. Returns true when a new row was created.
func (s *SQLiteStorage) UpsertUser(ctx context.Context, u *models.User) (bool, error) {
	existing, err := s.GetUser(ctx, u.UID)
	if err != nil {
		return false, err
	}

	if existing == nil {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO users (uid, email, display_name, photo_url, provider, last_login, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			u.UID, u.Email, u.DisplayName, u.PhotoURL, u.Provider, u.LastLogin, u.CreatedAt,
		)
		return true, err
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE users SET email = ?, display_name = ?, photo_url = ?, provider = ?, last_login = ? WHERE uid = ?`,
		u.Email, u.DisplayName, u.PhotoURL, u.Provider, u.LastLogin, u.UID,
	)
	return false, err
}

func (s *SQLiteStorage) GetUser(ctx context.Context, uid string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx,
		`SELECT uid, email, display_name, photo_url, provider, last_login, created_at FROM users WHERE uid = ?`, uid,
	).Scan(&u.UID, &u.Email, &u.DisplayName, &u.PhotoURL, &u.Provider, &u.LastLogin, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// --- Stats ---

func (s *SQLiteStorage) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM endpoints`).Scan(&stats.TotalEndpoints); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&stats.TotalUsers); err != nil {
		return nil, err
	}
	return stats, nil
}
