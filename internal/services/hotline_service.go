package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"clientdesk/internal/apperr"
	"clientdesk/internal/db"
	"clientdesk/internal/models"
	"clientdesk/internal/store"
	"clientdesk/internal/websocket"
)

var (
	// ErrNoAssignedAdmin marks the fatal integrity condition: an
	// authenticated user with no managing admin on record.
	ErrNoAssignedAdmin = errors.New("user has no assigned admin")
	ErrUserNotFound    = errors.New("user not found")
)

type HotlineStore interface {
	Insert(ctx context.Context, tx store.Tx, input store.HotlineMessageInput) (models.HotlineMessage, error)
	ListThread(ctx context.Context, q store.Selecter, userID, adminID int64) ([]models.HotlineMessage, error)
	MarkRead(ctx context.Context, tx store.Execer, userID, adminID int64, fromUser bool) (int64, error)
}

type HotlineUserStore interface {
	GetByID(ctx context.Context, userID int64) (models.User, error)
	GetManaged(ctx context.Context, adminID, userID int64) (models.User, error)
}

type MessageHub interface {
	BroadcastMessage(key string, event websocket.MessageEvent)
}

type HotlineService struct {
	txRunner db.TxRunner
	users    HotlineUserStore
	hotline  HotlineStore
	hub      MessageHub
	logger   *zap.Logger
}

func NewHotlineService(txRunner db.TxRunner, users HotlineUserStore, hotline HotlineStore, hub MessageHub, logger *zap.Logger) *HotlineService {
	return &HotlineService{
		txRunner: txRunner,
		users:    users,
		hotline:  hotline,
		hub:      hub,
		logger:   logger,
	}
}

// Thread identifies one (user, admin) hotline pair.
type Thread struct {
	UserID  int64
	AdminID int64
}

// FetchResult is a thread snapshot plus the number of counterpart messages
// flipped to read as a side effect of the fetch.
type FetchResult struct {
	Messages   []models.HotlineMessage
	MarkedRead int64
}

// ResolveForUser finds the thread for a user. A user with no assigned admin is
// broken data, reported distinctly from an empty thread.
func (s *HotlineService) ResolveForUser(ctx context.Context, userID int64) (Thread, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Thread{}, ErrUserNotFound
		}
		return Thread{}, apperr.E(apperr.KindInfrastructure, "hotline.ResolveForUser", userActor(userID), err)
	}
	if user.AdminID == nil {
		return Thread{}, apperr.E(apperr.KindIntegrity, "hotline.ResolveForUser", userActor(userID), ErrNoAssignedAdmin)
	}
	return Thread{UserID: userID, AdminID: *user.AdminID}, nil
}

// ResolveForAdmin finds the thread between an admin and one of their users.
func (s *HotlineService) ResolveForAdmin(ctx context.Context, adminID, userID int64) (Thread, error) {
	if _, err := s.users.GetManaged(ctx, adminID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Thread{}, ErrUserNotFound
		}
		return Thread{}, apperr.E(apperr.KindInfrastructure, "hotline.ResolveForAdmin", adminActor(adminID), err)
	}
	return Thread{UserID: userID, AdminID: adminID}, nil
}

// Fetch returns the thread newest first and, when it is non-empty, marks the
// counterpart's unread messages as read inside the same transaction.
// readerIsUser selects which direction counts as "counterpart-authored".
func (s *HotlineService) Fetch(ctx context.Context, thread Thread, readerIsUser bool) (FetchResult, error) {
	actor := userActor(thread.UserID)
	if !readerIsUser {
		actor = adminActor(thread.AdminID)
	}
	var result FetchResult
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		messages, err := s.hotline.ListThread(ctx, tx, thread.UserID, thread.AdminID)
		if err != nil {
			return apperr.E(apperr.KindInfrastructure, "hotline.Fetch", actor, err).WithQueryIndex(0)
		}
		result.Messages = messages
		if len(messages) == 0 {
			return nil
		}
		// A user reads admin-authored rows and vice versa.
		counterpartFromUser := !readerIsUser
		marked, err := s.hotline.MarkRead(ctx, tx, thread.UserID, thread.AdminID, counterpartFromUser)
		if err != nil {
			return apperr.E(apperr.KindInfrastructure, "hotline.Fetch", actor, err).WithQueryIndex(1)
		}
		result.MarkedRead = marked
		return nil
	})
	if err != nil {
		return FetchResult{}, err
	}
	return result, nil
}

// Post appends one message to the thread, stamped with the current time and
// the author's direction flag, and pushes it to the counterpart's live
// sessions.
func (s *HotlineService) Post(ctx context.Context, thread Thread, fromUser bool, content string) (models.HotlineMessage, error) {
	actor := userActor(thread.UserID)
	if !fromUser {
		actor = adminActor(thread.AdminID)
	}
	var message models.HotlineMessage
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		inserted, err := s.hotline.Insert(ctx, tx, store.HotlineMessageInput{
			UserID:      thread.UserID,
			AdminID:     thread.AdminID,
			Content:     content,
			FromUser:    fromUser,
			PublishedAt: time.Now().UTC(),
		})
		if err != nil {
			return apperr.E(apperr.KindInfrastructure, "hotline.Post", actor, err)
		}
		message = inserted
		return nil
	})
	if err != nil {
		return models.HotlineMessage{}, err
	}
	event := websocket.MessageEvent{
		MessageID:   message.ID,
		UserID:      message.UserID,
		AdminID:     message.AdminID,
		Content:     message.Content,
		FromUser:    message.FromUser,
		PublishedAt: message.PublishedAt,
	}
	if fromUser {
		s.hub.BroadcastMessage(websocket.AdminKey(thread.AdminID), event)
	} else {
		s.hub.BroadcastMessage(websocket.UserKey(thread.UserID), event)
	}
	s.logger.Info("hotline message posted",
		zap.Int64("user_id", thread.UserID),
		zap.Int64("admin_id", thread.AdminID),
		zap.Bool("from_user", fromUser),
	)
	return message, nil
}
