package store

import (
	"context"

	"clientdesk/internal/models"
)

type AdminStore struct {
	db DB
}

func NewAdminStore(db DB) *AdminStore {
	return &AdminStore{db: db}
}

func (s *AdminStore) Create(ctx context.Context, tx Tx, username, passwordHash, name string) (int64, error) {
	var id int64
	err := tx.GetContext(ctx, &id, `
		INSERT INTO admins (admin_username, password_hash, admin_name)
		VALUES ($1, $2, $3)
		RETURNING admin_id
	`, username, passwordHash, name)
	return id, err
}

func (s *AdminStore) GetByUsername(ctx context.Context, username string) (models.Admin, error) {
	var row models.Admin
	err := s.db.GetContext(ctx, &row, `
		SELECT admin_id, admin_username, password_hash, admin_name, created_at
		FROM admins
		WHERE admin_username = $1
	`, username)
	return row, err
}

func (s *AdminStore) GetByID(ctx context.Context, adminID int64) (models.Admin, error) {
	var row models.Admin
	err := s.db.GetContext(ctx, &row, `
		SELECT admin_id, admin_username, password_hash, admin_name, created_at
		FROM admins
		WHERE admin_id = $1
	`, adminID)
	return row, err
}

func (s *AdminStore) GetPasswordHash(ctx context.Context, tx Getter, adminID int64) (string, error) {
	var hash string
	err := tx.GetContext(ctx, &hash, `SELECT password_hash FROM admins WHERE admin_id = $1`, adminID)
	return hash, err
}

// UpdatePasswordHash mirrors UserStore.UpdatePasswordHash for the admin
// credential space.
func (s *AdminStore) UpdatePasswordHash(ctx context.Context, tx Execer, adminID int64, currentHash, newHash string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE admins
		SET password_hash = $1
		WHERE admin_id = $2 AND password_hash = $3
	`, newHash, adminID, currentHash)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
