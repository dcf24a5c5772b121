package store

import (
	"context"

	"clientdesk/internal/models"
)

type UserStore struct {
	db DB
}

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

// UserInput is the row content for a new user. AdminID is the managing admin
// assigned at registration.
type UserInput struct {
	AdminID      int64
	Username     string
	PasswordHash string
	FullName     string
	Email        string
	Phone        string
	AddressLine1 *string
	AddressLine2 *string
	City         *string
	PostalCode   *string
	Country      *string
}

// Create inserts a user and returns the generated id. Handle uniqueness is
// enforced by the UNIQUE constraint on username; callers classify the pq
// error.
func (s *UserStore) Create(ctx context.Context, tx Tx, input UserInput) (int64, error) {
	var id int64
	err := tx.GetContext(ctx, &id, `
		INSERT INTO users (admin_id, username, password_hash, user_full_name, user_email, user_phone,
		                   user_address_line1, user_address_line2, user_city, user_postal_code, user_country)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING user_id
	`, input.AdminID, input.Username, input.PasswordHash, input.FullName, input.Email, input.Phone,
		input.AddressLine1, input.AddressLine2, input.City, input.PostalCode, input.Country)
	return id, err
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `
		SELECT user_id, admin_id, username, password_hash, user_full_name, user_email, user_phone, created_at
		FROM users
		WHERE username = $1
	`, username)
	return row, err
}

func (s *UserStore) GetByID(ctx context.Context, userID int64) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `
		SELECT user_id, admin_id, username, password_hash, user_full_name, user_email, user_phone, created_at
		FROM users
		WHERE user_id = $1
	`, userID)
	return row, err
}

// GetManaged loads a user only if they are managed by the given admin.
func (s *UserStore) GetManaged(ctx context.Context, adminID, userID int64) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `
		SELECT user_id, admin_id, username, user_full_name, user_email, user_phone, created_at
		FROM users
		WHERE admin_id = $1 AND user_id = $2
	`, adminID, userID)
	return row, err
}

// GetManagedByUsername is GetManaged keyed by handle.
func (s *UserStore) GetManagedByUsername(ctx context.Context, adminID int64, username string) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `
		SELECT user_id, admin_id, username, user_full_name, user_email, user_phone, created_at
		FROM users
		WHERE admin_id = $1 AND username = $2
	`, adminID, username)
	return row, err
}

// GetPasswordHash reads the current hash inside a rotation transaction.
func (s *UserStore) GetPasswordHash(ctx context.Context, tx Getter, userID int64) (string, error) {
	var hash string
	err := tx.GetContext(ctx, &hash, `SELECT password_hash FROM users WHERE user_id = $1`, userID)
	return hash, err
}

// UpdatePasswordHash replaces the stored hash only while it still equals the
// hash read at verification time. Zero affected rows means a concurrent
// rotation won.
func (s *UserStore) UpdatePasswordHash(ctx context.Context, tx Execer, userID int64, currentHash, newHash string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE users
		SET password_hash = $1
		WHERE user_id = $2 AND password_hash = $3
	`, newHash, userID, currentHash)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
