package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
)

func TestAdminStoreCreate(t *testing.T) {
	ctx := context.Background()
	tx := stubTx{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "INSERT INTO admins") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 3 || args[0] != "manager-1" || args[1] != "hash" || args[2] != "Manager One" {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*int64) = 7
			return nil
		},
	}
	store := NewAdminStore(stubDB{})
	id, err := store.Create(ctx, tx, "manager-1", "hash", "Manager One")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 7 {
		t.Fatalf("unexpected id: %d", id)
	}
}

func TestAdminStoreGetByUsername(t *testing.T) {
	ctx := context.Background()
	store := NewAdminStore(stubDB{
		getFn: func(_ context.Context, _ any, query string, args ...any) error {
			if !strings.Contains(query, "FROM admins") || !strings.Contains(query, "WHERE admin_username = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 1 || args[0] != "manager-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return nil
		},
	})
	if _, err := store.GetByUsername(ctx, "manager-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAdminStoreUpdatePasswordHashGuardsOnCurrentHash(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "WHERE admin_id = $2 AND password_hash = $3") {
				t.Fatalf("update must be conditioned on the hash read earlier: %s", query)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewAdminStore(stubDB{})
	affected, err := store.UpdatePasswordHash(ctx, execer, 7, "old-hash", "new-hash")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if affected != 1 {
		t.Fatalf("unexpected affected count: %d", affected)
	}
}
