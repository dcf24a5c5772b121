package handlers

import (
	"encoding/json"
	"time"
)

// dateTimeLayout matches the wire format clients already send,
// e.g. "2018-06-14 12:12:56".
const dateTimeLayout = "2006-01-02 15:04:05"

func parseDateTime(raw string) (time.Time, error) {
	if t, err := time.Parse(dateTimeLayout, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

type userLoginRequest struct {
	Username string `json:"username" validate:"required,min=4,max=20"`
	Password string `json:"password" validate:"required,min=4,max=20"`
}

type userRegisterRequest struct {
	Username     string  `json:"username" validate:"required,min=4,max=20"`
	Password     string  `json:"password" validate:"required,min=4,max=20"`
	FullName     string  `json:"user_full_name" validate:"required,max=45"`
	Email        string  `json:"user_email" validate:"required,email,max=30"`
	Phone        string  `json:"user_phone" validate:"required,max=20"`
	AddressLine1 *string `json:"user_address_line1"`
	AddressLine2 *string `json:"user_address_line2"`
	City         *string `json:"user_city"`
	PostalCode   *string `json:"user_postal_code"`
	Country      *string `json:"user_country"`
}

type changePasswordRequest struct {
	Password           string `json:"password" validate:"required"`
	NewPassword        string `json:"new_password" validate:"required,min=4,max=20"`
	NewPasswordConfirm string `json:"new_password_confirm" validate:"required"`
}

type adminLoginRequest struct {
	AdminUsername string `json:"admin_username" validate:"required,min=4,max=20"`
	AdminPassword string `json:"admin_password" validate:"required,min=4,max=20"`
}

type adminRegisterRequest struct {
	AdminUsername string `json:"admin_username" validate:"required,min=4,max=20"`
	AdminPassword string `json:"admin_password" validate:"required,min=4,max=20"`
	AdminName     string `json:"admin_name" validate:"required,max=45"`
}

type detailPayload struct {
	Content string `json:"detail_content" validate:"required"`
}

type createEngagementRequest struct {
	UserID         int64           `json:"user_id" validate:"required"`
	EngagementName string          `json:"engagement_name" validate:"required,max=45"`
	StartDate      string          `json:"engagement_start_date" validate:"required"`
	EndDate        string          `json:"engagement_end_date" validate:"required"`
	Details        []detailPayload `json:"details" validate:"dive"`
}

type deleteEngagementRequest struct {
	EngagementID int64 `json:"engagement_id" validate:"required"`
}

type addDetailsRequest struct {
	EngagementID int64           `json:"engagement_id" validate:"required"`
	Details      []detailPayload `json:"details" validate:"required,min=1,dive"`
}

type deleteDetailRequest struct {
	DetailID int64 `json:"detail_id" validate:"required"`
}

type requestPaymentRequest struct {
	EngagementID       int64       `json:"engagement_id" validate:"required"`
	PaymentAmount      json.Number `json:"payment_amount" validate:"required"`
	PaymentDescription string      `json:"payment_description" validate:"max=45"`
}

type payRequest struct {
	PaymentID     int64       `json:"payment_id" validate:"required"`
	EngagementID  int64       `json:"engagement_id" validate:"required"`
	PaymentAmount json.Number `json:"payment_amount" validate:"required"`
}

type hotlinePostRequest struct {
	MessageContent string `json:"message_content" validate:"required"`
}

type adminHotlinePostRequest struct {
	UserID         int64  `json:"user_id" validate:"required"`
	MessageContent string `json:"message_content" validate:"required"`
}
