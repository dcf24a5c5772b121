package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
)

func TestUserStoreCreate(t *testing.T) {
	ctx := context.Background()
	tx := stubTx{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "INSERT INTO users") {
				t.Fatalf("unexpected query: %s", query)
			}
			if !strings.Contains(query, "RETURNING user_id") {
				t.Fatalf("insert must return the generated id: %s", query)
			}
			if len(args) != 11 {
				t.Fatalf("unexpected arg count: %d", len(args))
			}
			if args[0] != int64(1) || args[1] != "client-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*int64) = 42
			return nil
		},
	}
	store := NewUserStore(stubDB{})
	id, err := store.Create(ctx, tx, UserInput{
		AdminID:      1,
		Username:     "client-1",
		PasswordHash: "hash",
		FullName:     "Client One",
		Email:        "client@example.com",
		Phone:        "010-0000-0000",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 42 {
		t.Fatalf("unexpected id: %d", id)
	}
}

func TestUserStoreGetByUsername(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "WHERE username = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			if !strings.Contains(query, "password_hash") {
				t.Fatalf("login lookup must include the stored hash: %s", query)
			}
			if len(args) != 1 || args[0] != "client-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return nil
		},
	})
	if _, err := store.GetByUsername(ctx, "client-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUserStoreGetManagedScopesToAdmin(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(stubDB{
		getFn: func(_ context.Context, _ any, query string, args ...any) error {
			if !strings.Contains(query, "WHERE admin_id = $1 AND user_id = $2") {
				t.Fatalf("lookup must be scoped to the managing admin: %s", query)
			}
			if len(args) != 2 || args[0] != int64(7) || args[1] != int64(42) {
				t.Fatalf("unexpected args: %#v", args)
			}
			return sql.ErrNoRows
		},
	})
	_, err := store.GetManaged(ctx, 7, 42)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestUserStoreUpdatePasswordHashGuardsOnCurrentHash(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "WHERE user_id = $2 AND password_hash = $3") {
				t.Fatalf("update must be conditioned on the hash read earlier: %s", query)
			}
			if len(args) != 3 || args[0] != "new-hash" || args[1] != int64(42) || args[2] != "old-hash" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewUserStore(stubDB{})
	affected, err := store.UpdatePasswordHash(ctx, execer, 42, "old-hash", "new-hash")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if affected != 1 {
		t.Fatalf("unexpected affected count: %d", affected)
	}
}

func TestUserStoreUpdatePasswordHashReportsStaleHash(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, _ string, _ ...any) (sql.Result, error) {
			return stubResult{rows: 0}, nil
		},
	}
	store := NewUserStore(stubDB{})
	affected, err := store.UpdatePasswordHash(ctx, execer, 42, "stale-hash", "new-hash")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if affected != 0 {
		t.Fatalf("a stale hash must affect zero rows, got %d", affected)
	}
}
