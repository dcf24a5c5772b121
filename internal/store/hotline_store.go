package store

import (
	"context"
	"time"

	"clientdesk/internal/models"
)

type HotlineStore struct {
	db DB
}

func NewHotlineStore(db DB) *HotlineStore {
	return &HotlineStore{db: db}
}

type HotlineMessageInput struct {
	UserID      int64
	AdminID     int64
	Content     string
	FromUser    bool
	PublishedAt time.Time
}

func (s *HotlineStore) Insert(ctx context.Context, tx Tx, input HotlineMessageInput) (models.HotlineMessage, error) {
	var row models.HotlineMessage
	err := tx.GetContext(ctx, &row, `
		INSERT INTO hotline_messages (user_id, admin_id, message_content, is_from_user, date_published, is_read)
		VALUES ($1, $2, $3, $4, $5, FALSE)
		RETURNING message_id, user_id, admin_id, message_content, is_from_user, date_published, is_read
	`, input.UserID, input.AdminID, input.Content, input.FromUser, input.PublishedAt)
	return row, err
}

// ListThread returns the whole (user, admin) thread, most recent first.
func (s *HotlineStore) ListThread(ctx context.Context, q Selecter, userID, adminID int64) ([]models.HotlineMessage, error) {
	var rows []models.HotlineMessage
	err := q.SelectContext(ctx, &rows, `
		SELECT message_id, user_id, admin_id, message_content, is_from_user, date_published, is_read
		FROM hotline_messages
		WHERE user_id = $1 AND admin_id = $2
		ORDER BY date_published DESC
	`, userID, adminID)
	return rows, err
}

// MarkRead flips unread messages authored in the given direction and reports
// how many rows changed. A reader only marks the counterpart's messages, so
// fromUser is true when an admin reads and false when a user reads.
func (s *HotlineStore) MarkRead(ctx context.Context, tx Execer, userID, adminID int64, fromUser bool) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE hotline_messages
		SET is_read = TRUE
		WHERE user_id = $1 AND admin_id = $2 AND is_from_user = $3 AND is_read = FALSE
	`, userID, adminID, fromUser)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
