package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clientdesk/internal/services"
)

func TestPayPartialBalance(t *testing.T) {
	ledger := &stubLedger{
		applyPaymentFn: func(_ context.Context, req services.ApplyPaymentRequest) (services.PaymentResult, error) {
			assert.Equal(t, int64(42), req.UserID)
			assert.Equal(t, int64(3), req.PaymentID)
			assert.True(t, req.Amount.Equal(decimal.NewFromInt(3000)))
			return services.PaymentResult{Leftover: decimal.NewFromInt(7000)}, nil
		},
	}
	router := newTestHandler(handlerOverrides{ledger: ledger}).Routes()

	rec := doJSON(t, router, http.MethodPut, "/api/pay", userToken(t, 42), map[string]any{
		"payment_id":     3,
		"engagement_id":  9,
		"payment_amount": 3000,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeJSON(t, rec)
	assert.Contains(t, body["message"], "7000원")
	assert.Contains(t, body["message"], "대금 지급이 성공적으로 이뤄졌습니다")
}

func TestPaySettled(t *testing.T) {
	ledger := &stubLedger{
		applyPaymentFn: func(_ context.Context, _ services.ApplyPaymentRequest) (services.PaymentResult, error) {
			return services.PaymentResult{Leftover: decimal.Zero, Settled: true}, nil
		},
	}
	router := newTestHandler(handlerOverrides{ledger: ledger}).Routes()

	rec := doJSON(t, router, http.MethodPut, "/api/pay", userToken(t, 42), map[string]any{
		"payment_id":     3,
		"engagement_id":  9,
		"payment_amount": 7000,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "대금이 성공적으로 완납되었습니다. 감사합니다.", decodeJSON(t, rec)["message"])
}

func TestPayOverPayment(t *testing.T) {
	ledger := &stubLedger{
		applyPaymentFn: func(_ context.Context, _ services.ApplyPaymentRequest) (services.PaymentResult, error) {
			return services.PaymentResult{}, services.ErrOverPayment
		},
	}
	router := newTestHandler(handlerOverrides{ledger: ledger}).Routes()

	rec := doJSON(t, router, http.MethodPut, "/api/pay", userToken(t, 42), map[string]any{
		"payment_id":     3,
		"engagement_id":  9,
		"payment_amount": 10001,
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeJSON(t, rec)
	assert.Contains(t, body["user_error_message"], "내실 대금보다 많은 금액을 입력하셨습니다")
}

func TestPayForeignEngagement(t *testing.T) {
	ledger := &stubLedger{
		applyPaymentFn: func(_ context.Context, _ services.ApplyPaymentRequest) (services.PaymentResult, error) {
			return services.PaymentResult{}, services.ErrNotPaymentOwner
		},
	}
	router := newTestHandler(handlerOverrides{ledger: ledger}).Routes()

	rec := doJSON(t, router, http.MethodPut, "/api/pay", userToken(t, 42), map[string]any{
		"payment_id":     3,
		"engagement_id":  9,
		"payment_amount": 1000,
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, decodeJSON(t, rec)["user_error_message"], "요청하신 유저의 것이 아닙니다")
}

func TestPayRejectsFractionalAmount(t *testing.T) {
	ledger := &stubLedger{
		applyPaymentFn: func(_ context.Context, _ services.ApplyPaymentRequest) (services.PaymentResult, error) {
			t.Fatal("a fractional amount must never reach the service")
			return services.PaymentResult{}, nil
		},
	}
	router := newTestHandler(handlerOverrides{ledger: ledger}).Routes()

	rec := doJSON(t, router, http.MethodPut, "/api/pay", userToken(t, 42), map[string]any{
		"payment_id":     3,
		"engagement_id":  9,
		"payment_amount": 100.50,
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPayRequiresToken(t *testing.T) {
	router := newTestHandler(handlerOverrides{}).Routes()

	rec := doJSON(t, router, http.MethodPut, "/api/pay", "", map[string]any{
		"payment_id":     3,
		"engagement_id":  9,
		"payment_amount": 1000,
	})
	require.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeJSON(t, rec)
	assert.Equal(t, false, body["auth"])
	assert.Nil(t, body["token"])
}

func TestRequestPayment(t *testing.T) {
	ledger := &stubLedger{
		requestPaymentFn: func(_ context.Context, req services.RequestPaymentRequest) (int64, error) {
			assert.Equal(t, int64(7), req.AdminID)
			assert.Equal(t, int64(9), req.EngagementID)
			assert.True(t, req.Amount.Equal(decimal.NewFromInt(10000)))
			assert.Equal(t, "june retainer", req.Description)
			return 3, nil
		},
	}
	router := newTestHandler(handlerOverrides{ledger: ledger}).Routes()

	rec := doJSON(t, router, http.MethodPost, "/admin/request_payment", adminToken(t, 7), map[string]any{
		"engagement_id":       9,
		"payment_amount":      10000,
		"payment_description": "june retainer",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "해당 청구요청이 성공적으로 등록되었습니다.", decodeJSON(t, rec)["message"])
}

func TestRequestPaymentRejectsUserToken(t *testing.T) {
	router := newTestHandler(handlerOverrides{}).Routes()

	rec := doJSON(t, router, http.MethodPost, "/admin/request_payment", userToken(t, 42), map[string]any{
		"engagement_id":  9,
		"payment_amount": 10000,
	})
	require.Equal(t, http.StatusForbidden, rec.Code)
}
