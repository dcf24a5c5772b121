package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"clientdesk/internal/auth"
	appmiddleware "clientdesk/internal/middleware"
	"clientdesk/internal/services"
	"clientdesk/internal/validator"
	"clientdesk/internal/websocket"
)

func (h *Handler) userHotlineFetch(w http.ResponseWriter, r *http.Request) {
	claims, ok := appmiddleware.UserFromContext(r.Context())
	if !ok {
		respondAuthRejected(w)
		return
	}
	actor := "[USER]" + strconv.FormatInt(claims.UserID, 10)

	thread, err := h.hotline.ResolveForUser(r.Context(), claims.UserID)
	if err != nil {
		// A token-holding user without an assigned admin is broken
		// data, not an empty thread.
		h.respondFailure(w, r, actor, err)
		return
	}
	h.respondHotlineFetch(w, r, actor, thread, true)
}

func (h *Handler) userHotlinePost(w http.ResponseWriter, r *http.Request) {
	claims, ok := appmiddleware.UserFromContext(r.Context())
	if !ok {
		respondAuthRejected(w)
		return
	}
	actor := "[USER]" + strconv.FormatInt(claims.UserID, 10)

	var req hotlinePostRequest
	if err := decodeBody(r, &req); err != nil {
		respondClientError(w, "malformed JSON body", msgAllFieldsRequired)
		return
	}
	if err := validator.Validate(req); err != nil {
		respondClientError(w, err.Error(), msgAllFieldsRequired)
		return
	}

	thread, err := h.hotline.ResolveForUser(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, services.ErrNoAssignedAdmin) {
			respondJSON(w, http.StatusUnauthorized, map[string]any{
				"message": "잘못된 api call; 담당 관리자가 정해지지 않은 상태에서 api call을 하였습니다.",
			})
			return
		}
		h.respondFailure(w, r, actor, err)
		return
	}

	message, err := h.hotline.Post(r.Context(), thread, true, req.MessageContent)
	if err != nil {
		h.respondFailure(w, r, actor, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "핫라인 메세지를 성공적으로 등록하였습니다.",
		"results": message,
	})
}

func (h *Handler) adminHotlineFetch(w http.ResponseWriter, r *http.Request) {
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

	thread, err := h.hotline.ResolveForAdmin(r.Context(), claims.AdminID, userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondJSON(w, http.StatusOK, map[string]any{
				"message": "해당 유저가 존재하지 않거나 해당 관리자가 관리하는 유저가 아닙니다.",
			})
			return
		}
		h.respondFailure(w, r, actor, err)
		return
	}
	h.respondHotlineFetch(w, r, actor, thread, false)
}

func (h *Handler) adminHotlinePost(w http.ResponseWriter, r *http.Request) {
	claims, ok := appmiddleware.AdminFromContext(r.Context())
	if !ok {
		respondAuthRejected(w)
		return
	}
	actor := "[ADMIN]" + strconv.FormatInt(claims.AdminID, 10)

	var req adminHotlinePostRequest
	if err := decodeBody(r, &req); err != nil {
		respondClientError(w, "malformed JSON body", msgAllFieldsRequired)
		return
	}
	if err := validator.Validate(req); err != nil {
		respondClientError(w, err.Error(), "필수 항목을 모두 입력해주십시오.")
		return
	}

	thread, err := h.hotline.ResolveForAdmin(r.Context(), claims.AdminID, req.UserID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondClientError(w, "user not managed by this admin", "해당 유저가 존재하지 않거나 해당 관리자가 관리하는 유저가 아닙니다.")
			return
		}
		h.respondFailure(w, r, actor, err)
		return
	}

	message, err := h.hotline.Post(r.Context(), thread, false, req.MessageContent)
	if err != nil {
		h.respondFailure(w, r, actor, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "핫라인 메세지를 성공적으로 등록하였습니다.",
		"results": message,
	})
}

func (h *Handler) respondHotlineFetch(w http.ResponseWriter, r *http.Request, actor string, thread services.Thread, readerIsUser bool) {
	result, err := h.hotline.Fetch(r.Context(), thread, readerIsUser)
	if err != nil {
		h.respondFailure(w, r, actor, err)
		return
	}
	if len(result.Messages) == 0 {
		respondJSON(w, http.StatusOK, map[string]any{
			"message": "해당유저에게는 현재 등록 되어있는 핫라인 메세지가 없습니다.",
			"result":  []any{},
		})
		return
	}
	if result.MarkedRead > 0 {
		respondJSON(w, http.StatusOK, map[string]any{
			"message":       "핫라인메세지들을 성공적으로 불러왔고 1개 이상의 안읽은 메세지를 읽음표시하였습니다.",
			"result":        result.Messages,
			"result_update": result.MarkedRead,
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message":       "핫라인메세지들을 성공적으로 불러왔고, 이미 모든 메세지가 읽음 표시 되어있습니다. 새로운 메세지가 없습니다.",
		"result":        result.Messages,
		"result_update": int64(0),
	})
}

// userHotlineWS upgrades to a websocket delivering hotline messages
// pushed to this user. The token rides the query string because
// browser websocket clients cannot set an Authorization header.
func (h *Handler) userHotlineWS(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.ParseUserToken(h.cfg.UserSecretKey, r.URL.Query().Get("token"))
	if err != nil {
		respondAuthRejected(w)
		return
	}
	websocket.ServeWS(w, r, h.hub, websocket.UserKey(claims.UserID))
}

func (h *Handler) adminHotlineWS(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.ParseAdminToken(h.cfg.AdminSecretKey, r.URL.Query().Get("token"))
	if err != nil {
		respondAuthRejected(w)
		return
	}
	websocket.ServeWS(w, r, h.hub, websocket.AdminKey(claims.AdminID))
}
