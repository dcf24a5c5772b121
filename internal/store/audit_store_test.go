package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
)

func TestAuditStoreLog(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO audit_logs") {
				t.Fatalf("unexpected query: %s", query)
			}
			if !strings.Contains(query, "gen_random_uuid()") {
				t.Fatalf("audit rows must get a generated id: %s", query)
			}
			if len(args) != 5 || args[0] != "[ADMIN]7" || args[1] != "engagement.create" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewAuditStore(stubDB{})
	if err := store.Log(ctx, execer, "[ADMIN]7", "engagement.create", "engagement", "9", "tax filing"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
