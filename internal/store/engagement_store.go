package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clientdesk/internal/models"
)

type EngagementStore struct {
	db DB
}

func NewEngagementStore(db DB) *EngagementStore {
	return &EngagementStore{db: db}
}

// EngagementWithDetail is one row of the engagement/detail left join used by
// the view-services listings. Detail columns are null for engagements without
// line items.
type EngagementWithDetail struct {
	EngagementID int64     `db:"engagement_id"`
	UserID       int64     `db:"user_id"`
	Name         string    `db:"engagement_name"`
	StartDate    time.Time `db:"start_date"`
	EndDate      time.Time `db:"end_date"`
	DetailID     *int64    `db:"detail_id"`
	Content      *string   `db:"content"`
}

func (s *EngagementStore) Create(ctx context.Context, tx Tx, userID int64, name string, startDate, endDate time.Time) (int64, error) {
	var id int64
	err := tx.GetContext(ctx, &id, `
		INSERT INTO engagements (user_id, engagement_name, start_date, end_date)
		VALUES ($1, $2, $3, $4)
		RETURNING engagement_id
	`, userID, name, startDate, endDate)
	return id, err
}

// InsertDetails appends all contents in one batched statement, each row
// tagged with the engagement id.
func (s *EngagementStore) InsertDetails(ctx context.Context, tx Execer, engagementID int64, contents []string) error {
	if len(contents) == 0 {
		return nil
	}
	placeholders := make([]string, 0, len(contents))
	args := make([]any, 0, len(contents)+1)
	args = append(args, engagementID)
	for i, content := range contents {
		placeholders = append(placeholders, fmt.Sprintf("($1, $%d)", i+2))
		args = append(args, content)
	}
	query := `INSERT INTO engagement_details (engagement_id, content) VALUES ` + strings.Join(placeholders, ", ")
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// AppendDetails is InsertDetails outside a transaction; the single batched
// statement is atomic on its own.
func (s *EngagementStore) AppendDetails(ctx context.Context, engagementID int64, contents []string) error {
	return s.InsertDetails(ctx, s.db, engagementID, contents)
}

func (s *EngagementStore) GetByID(ctx context.Context, engagementID int64) (models.Engagement, error) {
	var row models.Engagement
	err := s.db.GetContext(ctx, &row, `
		SELECT engagement_id, user_id, engagement_name, start_date, end_date, created_at
		FROM engagements
		WHERE engagement_id = $1
	`, engagementID)
	return row, err
}

// GetOwner reads the owning user id inside a transaction. The owner is only
// known once the row is read, which is why payment authorization happens
// after this lookup rather than before.
func (s *EngagementStore) GetOwner(ctx context.Context, tx Getter, engagementID int64) (int64, error) {
	var userID int64
	err := tx.GetContext(ctx, &userID, `SELECT user_id FROM engagements WHERE engagement_id = $1`, engagementID)
	return userID, err
}

// DeleteDetails removes all line items of an engagement. Runs before Delete
// so the foreign key is never left dangling.
func (s *EngagementStore) DeleteDetails(ctx context.Context, tx Execer, engagementID int64) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM engagement_details WHERE engagement_id = $1`, engagementID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *EngagementStore) Delete(ctx context.Context, tx Execer, engagementID int64) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM engagements WHERE engagement_id = $1`, engagementID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *EngagementStore) ListDetails(ctx context.Context, engagementID int64) ([]models.Detail, error) {
	var rows []models.Detail
	err := s.db.SelectContext(ctx, &rows, `
		SELECT detail_id, engagement_id, content, created_at
		FROM engagement_details
		WHERE engagement_id = $1
		ORDER BY detail_id
	`, engagementID)
	return rows, err
}

func (s *EngagementStore) DeleteDetail(ctx context.Context, detailID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM engagement_details WHERE detail_id = $1`, detailID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListByUser returns every engagement of a user joined with its details,
// mirroring the view-services listings.
func (s *EngagementStore) ListByUser(ctx context.Context, userID int64) ([]EngagementWithDetail, error) {
	var rows []EngagementWithDetail
	err := s.db.SelectContext(ctx, &rows, `
		SELECT e.engagement_id, e.user_id, e.engagement_name, e.start_date, e.end_date,
		       d.detail_id, d.content
		FROM engagements e
		LEFT JOIN engagement_details d ON d.engagement_id = e.engagement_id
		WHERE e.user_id = $1
		ORDER BY e.engagement_id, d.detail_id
	`, userID)
	return rows, err
}
