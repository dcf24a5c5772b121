package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           int64     `db:"user_id" json:"user_id"`
	AdminID      *int64    `db:"admin_id" json:"admin_id,omitempty"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"user_full_name" json:"user_full_name"`
	Email        string    `db:"user_email" json:"user_email"`
	Phone        string    `db:"user_phone" json:"user_phone"`
	AddressLine1 *string   `db:"user_address_line1" json:"user_address_line1,omitempty"`
	AddressLine2 *string   `db:"user_address_line2" json:"user_address_line2,omitempty"`
	City         *string   `db:"user_city" json:"user_city,omitempty"`
	PostalCode   *string   `db:"user_postal_code" json:"user_postal_code,omitempty"`
	Country      *string   `db:"user_country" json:"user_country,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type Admin struct {
	ID           int64     `db:"admin_id" json:"admin_id"`
	Username     string    `db:"admin_username" json:"admin_username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Name         string    `db:"admin_name" json:"admin_name"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Engagement is a billable service record owned by exactly one user.
type Engagement struct {
	ID        int64     `db:"engagement_id" json:"engagement_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Name      string    `db:"engagement_name" json:"engagement_name"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Detail is a free-text line item attached to an engagement.
type Detail struct {
	ID           int64     `db:"detail_id" json:"detail_id"`
	EngagementID int64     `db:"engagement_id" json:"engagement_id"`
	Content      string    `db:"content" json:"content"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Payment is a remaining-balance ledger row. Amount starts at the requested
// billing amount and only ever decreases, never below zero.
type Payment struct {
	ID           int64           `db:"payment_id" json:"payment_id"`
	EngagementID int64           `db:"engagement_id" json:"engagement_id"`
	Amount       decimal.Decimal `db:"payment_amount" json:"payment_amount"`
	Description  string          `db:"payment_description" json:"payment_description"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// HotlineMessage is one append-only row of the thread between a user and
// their managing admin.
type HotlineMessage struct {
	ID          int64     `db:"message_id" json:"message_id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	AdminID     int64     `db:"admin_id" json:"admin_id"`
	Content     string    `db:"message_content" json:"message_content"`
	FromUser    bool      `db:"is_from_user" json:"is_from_user"`
	PublishedAt time.Time `db:"date_published" json:"date_published"`
	IsRead      bool      `db:"is_read" json:"is_read"`
}
