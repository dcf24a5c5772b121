package handlers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/jmoiron/sqlx"

	"clientdesk/internal/apperr"
	"clientdesk/internal/auth"
	"clientdesk/internal/db"
	appmiddleware "clientdesk/internal/middleware"
	"clientdesk/internal/store"
	"clientdesk/internal/validator"
)

const msgAllFieldsRequired = "필수 항목을 모두 입력하십시오."

var (
	errPasswordMismatch = errors.New("current password does not match")
	errSamePassword     = errors.New("new password equals current password")
	errConfirmMismatch  = errors.New("new password confirmation does not match")
	errRotationConflict = errors.New("password changed by another session")
)

func (h *Handler) userLogin(w http.ResponseWriter, r *http.Request) {
	var req userLoginRequest
	if err := decodeBody(r, &req); err != nil {
		respondClientError(w, "malformed JSON body", msgAllFieldsRequired)
		return
	}
	if err := validator.Validate(req); err != nil {
		respondClientError(w, err.Error(), "username과 password는 4~20자리이어야 합니다.")
		return
	}

	user, err := h.users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondJSON(w, http.StatusUnauthorized, map[string]any{
				"status": "해당 아이디가 존재 하지 않습니다.",
				"auth":   false,
				"token":  nil,
			})
			return
		}
		h.respondFailure(w, r, "anonymous", apperr.E(apperr.KindInfrastructure, "handlers.userLogin", "anonymous", err))
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondJSON(w, http.StatusUnauthorized, map[string]any{
			"status": "id / 비밀번호가 일치 하지 않습니다.",
			"auth":   false,
			"token":  nil,
		})
		return
	}

	token, err := auth.GenerateUserToken(h.cfg.UserSecretKey, auth.UserClaims{
		UserID:   user.ID,
		Username: user.Username,
		FullName: user.FullName,
	}, h.cfg.TokenTTL)
	if err != nil {
		h.respondFailure(w, r, "anonymous", apperr.E(apperr.KindInfrastructure, "handlers.userLogin", "anonymous", err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"auth": true, "token": token})
}

func (h *Handler) userRegister(w http.ResponseWriter, r *http.Request) {
	var req userRegisterRequest
	if err := decodeBody(r, &req); err != nil {
		respondClientError(w, "malformed JSON body", msgAllFieldsRequired)
		return
	}
	if err := validator.Validate(req); err != nil {
		respondClientError(w, err.Error(), "입력하신 파라미터 글자 숫자를 참고하세요: username(4~20), password(4~20), phone(~20), email(~30)")
		return
	}

	hash, err := auth.HashPassword(req.Password, h.cfg.BcryptCost)
	if err != nil {
		h.respondFailure(w, r, "anonymous", apperr.E(apperr.KindInfrastructure, "handlers.userRegister", "anonymous", err))
		return
	}

	var userID int64
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var txErr error
		userID, txErr = h.users.Create(r.Context(), tx, store.UserInput{
			AdminID:      h.cfg.MasterAdminID,
			Username:     req.Username,
			PasswordHash: hash,
			FullName:     req.FullName,
			Email:        req.Email,
			Phone:        req.Phone,
			AddressLine1: req.AddressLine1,
			AddressLine2: req.AddressLine2,
			City:         req.City,
			PostalCode:   req.PostalCode,
			Country:      req.Country,
		})
		if txErr != nil {
			return txErr
		}
		return h.audit.Log(r.Context(), tx, "[USER]"+strconv.FormatInt(userID, 10), "user.register", "user", strconv.FormatInt(userID, 10), req.Username)
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			respondJSON(w, http.StatusUnauthorized, map[string]any{
				"error_message": "이미 사용중인 username입니다.",
			})
			return
		}
		kind := apperr.KindInfrastructure
		if db.IsForeignKeyViolation(err) {
			kind = apperr.KindIntegrity
		}
		h.respondFailure(w, r, "anonymous", apperr.E(kind, "handlers.userRegister", "anonymous", err))
		return
	}

	token, err := auth.GenerateUserToken(h.cfg.UserSecretKey, auth.UserClaims{
		UserID:   userID,
		Username: req.Username,
		FullName: req.FullName,
	}, h.cfg.TokenTTL)
	if err != nil {
		h.respondFailure(w, r, "anonymous", apperr.E(apperr.KindInfrastructure, "handlers.userRegister", "anonymous", err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "회원가입이 완료되었습니다.",
		"auth":    true,
		"token":   token,
		"results": map[string]any{
			"user_id":        userID,
			"username":       req.Username,
			"user_full_name": req.FullName,
		},
	})
}

func (h *Handler) userChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := appmiddleware.UserFromContext(r.Context())
	if !ok {
		respondAuthRejected(w)
		return
	}

	var req changePasswordRequest
	if err := decodeBody(r, &req); err != nil {
		respondClientError(w, "malformed JSON body", msgAllFieldsRequired)
		return
	}
	if err := validator.Validate(req); err != nil {
		respondClientError(w, err.Error(), "비밀번호는 4자리 이상 20자리 이하로 설정해주세요.")
		return
	}

	actor := "[USER]" + strconv.FormatInt(claims.UserID, 10)
	err := h.rotatePassword(r.Context(), h.users, "user", claims.UserID, actor, req.Password, req.NewPassword, req.NewPasswordConfirm)
	h.respondRotation(w, r, actor, err)
}

func (h *Handler) adminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := decodeBody(r, &req); err != nil {
		respondClientError(w, "malformed JSON body", msgAllFieldsRequired)
		return
	}
	if err := validator.Validate(req); err != nil {
		respondClientError(w, err.Error(), "입력하신 파라미터 글자 숫자를 참고하세요: admin_username(4~20), password(4~20)")
		return
	}

	admin, err := h.admins.GetByUsername(r.Context(), req.AdminUsername)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondJSON(w, http.StatusUnauthorized, map[string]any{
				"status": "해당 아이디가 존재 하지 않습니다.",
				"auth":   false,
				"token":  nil,
			})
			return
		}
		h.respondFailure(w, r, "anonymous", apperr.E(apperr.KindInfrastructure, "handlers.adminLogin", "anonymous", err))
		return
	}
	if !auth.CheckPassword(admin.PasswordHash, req.AdminPassword) {
		respondJSON(w, http.StatusUnauthorized, map[string]any{
			"status": "id / 비밀번호가 일치 하지 않습니다.",
			"auth":   false,
			"token":  nil,
		})
		return
	}

	token, err := auth.GenerateAdminToken(h.cfg.AdminSecretKey, auth.AdminClaims{
		AdminID:       admin.ID,
		AdminUsername: admin.Username,
		AdminName:     admin.Name,
	}, h.cfg.TokenTTL)
	if err != nil {
		h.respondFailure(w, r, "anonymous", apperr.E(apperr.KindInfrastructure, "handlers.adminLogin", "anonymous", err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"auth": true, "token": token})
}

func (h *Handler) adminRegister(w http.ResponseWriter, r *http.Request) {
	var req adminRegisterRequest
	if err := decodeBody(r, &req); err != nil {
		respondClientError(w, "malformed JSON body", msgAllFieldsRequired)
		return
	}
	if err := validator.Validate(req); err != nil {
		respondClientError(w, err.Error(), "입력하신 파라미터 글자 숫자를 참고하세요: admin_username(4~20), admin_password(4~20)")
		return
	}

	hash, err := auth.HashPassword(req.AdminPassword, h.cfg.BcryptCost)
	if err != nil {
		h.respondFailure(w, r, "anonymous", apperr.E(apperr.KindInfrastructure, "handlers.adminRegister", "anonymous", err))
		return
	}

	var adminID int64
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var txErr error
		adminID, txErr = h.admins.Create(r.Context(), tx, req.AdminUsername, hash, req.AdminName)
		if txErr != nil {
			return txErr
		}
		return h.audit.Log(r.Context(), tx, "[ADMIN]"+strconv.FormatInt(adminID, 10), "admin.register", "admin", strconv.FormatInt(adminID, 10), req.AdminUsername)
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			respondJSON(w, http.StatusUnauthorized, map[string]any{
				"error_message": "이미 사용중인 username입니다.",
			})
			return
		}
		h.respondFailure(w, r, "anonymous", apperr.E(apperr.KindInfrastructure, "handlers.adminRegister", "anonymous", err))
		return
	}

	token, err := auth.GenerateAdminToken(h.cfg.AdminSecretKey, auth.AdminClaims{
		AdminID:       adminID,
		AdminUsername: req.AdminUsername,
		AdminName:     req.AdminName,
	}, h.cfg.TokenTTL)
	if err != nil {
		h.respondFailure(w, r, "anonymous", apperr.E(apperr.KindInfrastructure, "handlers.adminRegister", "anonymous", err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "회원가입이 완료되었습니다.",
		"auth":    true,
		"token":   token,
	})
}

func (h *Handler) adminChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := appmiddleware.AdminFromContext(r.Context())
	if !ok {
		respondAuthRejected(w)
		return
	}

	var req changePasswordRequest
	if err := decodeBody(r, &req); err != nil {
		respondClientError(w, "malformed JSON body", msgAllFieldsRequired)
		return
	}
	if err := validator.Validate(req); err != nil {
		respondClientError(w, err.Error(), "비밀번호는 4자리 이상 20자리 이하로 설정해주세요.")
		return
	}

	actor := "[ADMIN]" + strconv.FormatInt(claims.AdminID, 10)
	err := h.rotatePassword(r.Context(), h.admins, "admin", claims.AdminID, actor, req.Password, req.NewPassword, req.NewPasswordConfirm)
	h.respondRotation(w, r, actor, err)
}

// credentialRotator is the slice of a principal store the rotation
// protocol needs. Both the user and admin stores satisfy it.
type credentialRotator interface {
	GetPasswordHash(ctx context.Context, tx store.Getter, id int64) (string, error)
	UpdatePasswordHash(ctx context.Context, tx store.Execer, id int64, currentHash, newHash string) (int64, error)
}

// rotatePassword verifies the current password and swaps in the new hash.
// The update is conditioned on the hash read at the start of the
// transaction, so two sessions rotating at once cannot both win.
func (h *Handler) rotatePassword(ctx context.Context, creds credentialRotator, entityType string, id int64, actor, current, newPassword, confirm string) error {
	if newPassword != confirm {
		return errConfirmMismatch
	}
	if newPassword == current {
		return errSamePassword
	}
	return h.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		currentHash, err := creds.GetPasswordHash(ctx, tx, id)
		if err != nil {
			return apperr.E(apperr.KindInfrastructure, "handlers.rotatePassword", actor, err).WithQueryIndex(0)
		}
		if !auth.CheckPassword(currentHash, current) {
			return errPasswordMismatch
		}
		newHash, err := auth.HashPassword(newPassword, h.cfg.BcryptCost)
		if err != nil {
			return apperr.E(apperr.KindInfrastructure, "handlers.rotatePassword", actor, err)
		}
		affected, err := creds.UpdatePasswordHash(ctx, tx, id, currentHash, newHash)
		if err != nil {
			return apperr.E(apperr.KindInfrastructure, "handlers.rotatePassword", actor, err).WithQueryIndex(1)
		}
		if affected == 0 {
			return errRotationConflict
		}
		return h.audit.Log(ctx, tx, actor, "password.rotate", entityType, strconv.FormatInt(id, 10), "")
	})
}

func (h *Handler) respondRotation(w http.ResponseWriter, r *http.Request, actor string, err error) {
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, map[string]any{"message": "비밀번호가 성공적으로 변경되었습니다."})
	case errors.Is(err, errConfirmMismatch):
		respondJSON(w, http.StatusUnauthorized, map[string]any{"status": "새로운 비밀번호와 비밀번호 확인이 일치하지 않습니다."})
	case errors.Is(err, errSamePassword):
		respondJSON(w, http.StatusUnauthorized, map[string]any{"status": "새로운 비밀번호를 현재 비밀번호와 다르게 설정하세요."})
	case errors.Is(err, errPasswordMismatch):
		respondJSON(w, http.StatusUnauthorized, map[string]any{"message": "입력하신 비밀번호가 일치하지 않습니다."})
	case errors.Is(err, errRotationConflict):
		respondJSON(w, http.StatusUnauthorized, map[string]any{"status": "비밀번호가 다른 세션에서 이미 변경되었습니다. 다시 로그인해주십시오."})
	default:
		h.respondFailure(w, r, actor, err)
	}
}
