package handlers

import (
	"errors"
	"net/http"
	"strconv"

	appmiddleware "clientdesk/internal/middleware"
	"clientdesk/internal/money"
	"clientdesk/internal/services"
	"clientdesk/internal/validator"
)

func (h *Handler) requestPayment(w http.ResponseWriter, r *http.Request) {
	claims, ok := appmiddleware.AdminFromContext(r.Context())
	if !ok {
		respondAuthRejected(w)
		return
	}

	var req requestPaymentRequest
	if err := decodeBody(r, &req); err != nil {
		respondClientError(w, "malformed JSON body", msgAllFieldsRequired)
		return
	}
	if err := validator.Validate(req); err != nil {
		respondClientError(w, err.Error(), msgAllFieldsRequired)
		return
	}
	amount, err := money.ParseWon(req.PaymentAmount.String())
	if err != nil {
		respondClientError(w, err.Error(), "청구 금액은 1원 이상의 정수 금액이어야 합니다.")
		return
	}

	actor := "[ADMIN]" + strconv.FormatInt(claims.AdminID, 10)
	paymentID, err := h.ledger.RequestPayment(r.Context(), services.RequestPaymentRequest{
		AdminID:      claims.AdminID,
		EngagementID: req.EngagementID,
		Amount:       amount,
		Description:  req.PaymentDescription,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEngagementNotFound):
			respondClientError(w, "engagement not found", "해당 서비스가 존재하지 않습니다.")
		case errors.Is(err, services.ErrInvalidAmount):
			respondClientError(w, "payment_amount must be positive", "청구 금액은 1원 이상이어야 합니다.")
		default:
			h.respondFailure(w, r, actor, err)
		}
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "해당 청구요청이 성공적으로 등록되었습니다.",
		"result":  map[string]any{"payment_id": paymentID},
	})
}

func (h *Handler) pay(w http.ResponseWriter, r *http.Request) {
	claims, ok := appmiddleware.UserFromContext(r.Context())
	if !ok {
		respondAuthRejected(w)
		return
	}

	var req payRequest
	if err := decodeBody(r, &req); err != nil {
		respondClientError(w, "malformed JSON body", msgAllFieldsRequired)
		return
	}
	if err := validator.Validate(req); err != nil {
		respondClientError(w, err.Error(), msgAllFieldsRequired)
		return
	}
	amount, err := money.ParseWon(req.PaymentAmount.String())
	if err != nil {
		respondClientError(w, err.Error(), "지급 금액은 1원 이상의 정수 금액이어야 합니다.")
		return
	}

	actor := "[USER]" + strconv.FormatInt(claims.UserID, 10)
	result, err := h.ledger.ApplyPayment(r.Context(), services.ApplyPaymentRequest{
		UserID:       claims.UserID,
		PaymentID:    req.PaymentID,
		EngagementID: req.EngagementID,
		Amount:       amount,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOverPayment):
			respondClientError(w, "amount exceeds remaining balance", "내실 대금보다 많은 금액을 입력하셨습니다. 대금과 같거나 적은 금액을 입력하십시오.")
		case errors.Is(err, services.ErrPaymentNotFound):
			respondClientError(w, "payment not found", "해당 청구 내역이 존재하지 않습니다.")
		case errors.Is(err, services.ErrEngagementNotFound):
			respondClientError(w, "engagement not found", "해당 서비스가 존재하지 않습니다.")
		case errors.Is(err, services.ErrNotPaymentOwner):
			respondClientError(w, "payment belongs to another user", "해당 대금 청구는 요청하신 유저의 것이 아닙니다.")
		case errors.Is(err, services.ErrInvalidAmount):
			respondClientError(w, "payment_amount must be positive", "지급 금액은 1원 이상이어야 합니다.")
		default:
			h.respondFailure(w, r, actor, err)
		}
		return
	}

	if result.Settled {
		respondJSON(w, http.StatusOK, map[string]any{
			"message": "대금이 성공적으로 완납되었습니다. 감사합니다.",
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message": money.DescribeLeftover(result.Leftover),
		"result":  map[string]any{"leftover": result.Leftover},
	})
}
