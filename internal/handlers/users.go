package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"clientdesk/internal/apperr"
	appmiddleware "clientdesk/internal/middleware"
	"clientdesk/internal/models"
)

const msgUserNotManaged = "해당 유저가 존재하지 않거나 해당 관리자가 관리하는 유저가 아닙니다."

func (h *Handler) searchUserByID(w http.ResponseWriter, r *http.Request) {
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

	user, err := h.users.GetManaged(r.Context(), claims.AdminID, userID)
	h.respondUserSearch(w, r, actor, "handlers.searchUserByID", user, err)
}

func (h *Handler) searchUserByUsername(w http.ResponseWriter, r *http.Request) {
	claims, ok := appmiddleware.AdminFromContext(r.Context())
	if !ok {
		respondAuthRejected(w)
		return
	}
	actor := "[ADMIN]" + strconv.FormatInt(claims.AdminID, 10)

	username := chi.URLParam(r, "username")
	user, err := h.users.GetManagedByUsername(r.Context(), claims.AdminID, username)
	h.respondUserSearch(w, r, actor, "handlers.searchUserByUsername", user, err)
}

// respondUserSearch treats a miss as a normal outcome so the admin UI
// can render it without an error path. Only real failures become 500s.
func (h *Handler) respondUserSearch(w http.ResponseWriter, r *http.Request, actor, op string, user models.User, err error) {
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondJSON(w, http.StatusOK, map[string]any{"message": msgUserNotManaged})
			return
		}
		h.respondFailure(w, r, actor, apperr.E(apperr.KindInfrastructure, op, actor, err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "해당 유저를 성공적으로 불러왔습니다.",
		"result":  []models.User{user},
	})
}
