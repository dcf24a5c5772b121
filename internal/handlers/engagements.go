package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"clientdesk/internal/apperr"
	appmiddleware "clientdesk/internal/middleware"
	"clientdesk/internal/services"
	"clientdesk/internal/validator"
)

func (h *Handler) createEngagement(w http.ResponseWriter, r *http.Request) {
	claims, ok := appmiddleware.AdminFromContext(r.Context())
	if !ok {
		respondAuthRejected(w)
		return
	}

	var req createEngagementRequest
	if err := decodeBody(r, &req); err != nil {
		respondClientError(w, "malformed JSON body", msgAllFieldsRequired)
		return
	}
	if err := validator.Validate(req); err != nil {
		respondClientError(w, err.Error(), msgAllFieldsRequired)
		return
	}
	startDate, err := parseDateTime(req.StartDate)
	if err != nil {
		respondClientError(w, "engagement_start_date must be formatted as "+dateTimeLayout, "시작 날짜 형식이 올바르지 않습니다.")
		return
	}
	endDate, err := parseDateTime(req.EndDate)
	if err != nil {
		respondClientError(w, "engagement_end_date must be formatted as "+dateTimeLayout, "종료 날짜 형식이 올바르지 않습니다.")
		return
	}

	contents := make([]string, 0, len(req.Details))
	for _, d := range req.Details {
		contents = append(contents, d.Content)
	}

	actor := "[ADMIN]" + strconv.FormatInt(claims.AdminID, 10)
	engagementID, err := h.ledger.CreateEngagement(r.Context(), services.CreateEngagementRequest{
		AdminID:   claims.AdminID,
		UserID:    req.UserID,
		Name:      req.EngagementName,
		StartDate: startDate,
		EndDate:   endDate,
		Details:   contents,
	})
	if err != nil {
		if errors.Is(err, services.ErrUserNotManaged) {
			respondClientError(w, "user is not managed by this admin", "해당 유저가 존재하지 않거나 해당 관리자가 관리하는 유저가 아닙니다.")
			return
		}
		h.respondFailure(w, r, actor, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "해당 서비스가 성공적으로 추가되었습니다.",
		"result":  map[string]any{"engagement_id": engagementID},
	})
}

func (h *Handler) deleteEngagement(w http.ResponseWriter, r *http.Request) {
	claims, ok := appmiddleware.AdminFromContext(r.Context())
	if !ok {
		respondAuthRejected(w)
		return
	}

	var req deleteEngagementRequest
	if err := decodeBody(r, &req); err != nil {
		respondClientError(w, "malformed JSON body", msgAllFieldsRequired)
		return
	}
	if err := validator.Validate(req); err != nil {
		respondClientError(w, err.Error(), "engagement_id를 입력하십시오.")
		return
	}

	actor := "[ADMIN]" + strconv.FormatInt(claims.AdminID, 10)
	if err := h.ledger.DeleteEngagement(r.Context(), claims.AdminID, req.EngagementID); err != nil {
		if errors.Is(err, services.ErrEngagementNotFound) {
			respondClientError(w, "engagement not found", "해당 서비스가 존재하지 않습니다.")
			return
		}
		h.respondFailure(w, r, actor, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "성공적으로 해당 서비스를 삭제하였습니다.",
	})
}

func (h *Handler) addDetails(w http.ResponseWriter, r *http.Request) {
	claims, ok := appmiddleware.AdminFromContext(r.Context())
	if !ok {
		respondAuthRejected(w)
		return
	}

	var req addDetailsRequest
	if err := decodeBody(r, &req); err != nil {
		respondClientError(w, "malformed JSON body", msgAllFieldsRequired)
		return
	}
	if err := validator.Validate(req); err != nil {
		respondClientError(w, err.Error(), msgAllFieldsRequired)
		return
	}

	contents := make([]string, 0, len(req.Details))
	for _, d := range req.Details {
		contents = append(contents, d.Content)
	}

	actor := "[ADMIN]" + strconv.FormatInt(claims.AdminID, 10)
	if err := h.ledger.AppendDetails(r.Context(), claims.AdminID, req.EngagementID, contents); err != nil {
		if errors.Is(err, services.ErrEngagementNotFound) {
			respondClientError(w, "engagement not found", "해당 서비스가 존재하지 않습니다.")
			return
		}
		h.respondFailure(w, r, actor, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "성공적으로 서비스 정보를 추가했습니다.",
	})
}

func (h *Handler) listDetails(w http.ResponseWriter, r *http.Request) {
	claims, ok := appmiddleware.AdminFromContext(r.Context())
	if !ok {
		respondAuthRejected(w)
		return
	}
	actor := "[ADMIN]" + strconv.FormatInt(claims.AdminID, 10)

	engagementID, err := strconv.ParseInt(chi.URLParam(r, "engagement_id"), 10, 64)
	if err != nil {
		respondClientError(w, "engagement_id must be numeric", "engagement_id를 입력하십시오.")
		return
	}

	details, err := h.engagements.ListDetails(r.Context(), engagementID)
	if err != nil {
		h.respondFailure(w, r, actor, apperr.E(apperr.KindInfrastructure, "handlers.listDetails", actor, err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "성공적으로 요청하신 서비스에 해당하는 서비스 정보를 가져왔습니다.",
		"results": details,
	})
}

func (h *Handler) deleteDetail(w http.ResponseWriter, r *http.Request) {
	claims, ok := appmiddleware.AdminFromContext(r.Context())
	if !ok {
		respondAuthRejected(w)
		return
	}
	actor := "[ADMIN]" + strconv.FormatInt(claims.AdminID, 10)

	var req deleteDetailRequest
	if err := decodeBody(r, &req); err != nil {
		respondClientError(w, "malformed JSON body", msgAllFieldsRequired)
		return
	}
	if err := validator.Validate(req); err != nil {
		respondClientError(w, err.Error(), "detail_id를 입력하십시오.")
		return
	}

	affected, err := h.engagements.DeleteDetail(r.Context(), req.DetailID)
	if err != nil {
		h.respondFailure(w, r, actor, apperr.E(apperr.KindInfrastructure, "handlers.deleteDetail", actor, err))
		return
	}
	if affected == 0 {
		respondClientError(w, "detail not found", "해당 서비스 정보가 존재하지 않습니다.")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "해당 서비스 정보를 삭제했습니다.",
	})
}

func (h *Handler) userViewServices(w http.ResponseWriter, r *http.Request) {
	claims, ok := appmiddleware.UserFromContext(r.Context())
	if !ok {
		respondAuthRejected(w)
		return
	}
	actor := "[USER]" + strconv.FormatInt(claims.UserID, 10)

	rows, err := h.engagements.ListByUser(r.Context(), claims.UserID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		h.respondFailure(w, r, actor, apperr.E(apperr.KindInfrastructure, "handlers.userViewServices", actor, err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "서비스 내용을 성공적으로 불러왔습니다.",
		"results": rows,
	})
}

func (h *Handler) adminViewServices(w http.ResponseWriter, r *http.Request) {
	claims, ok := appmiddleware.AdminFromContext(r.Context())
	if !ok {
		respondAuthRejected(w)
		return
	}
	actor := "[ADMIN]" + strconv.FormatInt(claims.AdminID, 10)

	userID, err := strconv.ParseInt(chi.URLParam(r, "user_id"), 10, 64)
	if err != nil {
		respondClientError(w, "user_id must be numeric", "user_id를 입력하십시오.")
		return
	}

	if _, err := h.users.GetManaged(r.Context(), claims.AdminID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondJSON(w, http.StatusOK, map[string]any{
				"message": "해당 유저가 존재하지 않거나 해당 관리자가 관리하는 유저가 아닙니다.",
			})
			return
		}
		h.respondFailure(w, r, actor, apperr.E(apperr.KindInfrastructure, "handlers.adminViewServices", actor, err))
		return
	}

	rows, err := h.engagements.ListByUser(r.Context(), userID)
	if err != nil {
		h.respondFailure(w, r, actor, apperr.E(apperr.KindInfrastructure, "handlers.adminViewServices", actor, err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "해당 유저의 서비스정보를 성공적으로 가져왔습니다.",
		"results": rows,
	})
}
