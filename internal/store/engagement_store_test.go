package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"
)

func TestEngagementStoreCreate(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2018, 6, 14, 12, 12, 56, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	tx := stubTx{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "INSERT INTO engagements") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 4 || args[0] != int64(42) || args[1] != "tax filing" {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*int64) = 9
			return nil
		},
	}
	store := NewEngagementStore(stubDB{})
	id, err := store.Create(ctx, tx, 42, "tax filing", start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 9 {
		t.Fatalf("unexpected id: %d", id)
	}
}

func TestEngagementStoreInsertDetailsBatchesOneStatement(t *testing.T) {
	ctx := context.Background()
	var calls int
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			calls++
			if !strings.Contains(query, "($1, $2), ($1, $3), ($1, $4)") {
				t.Fatalf("details must land in one statement: %s", query)
			}
			if len(args) != 4 || args[0] != int64(9) || args[1] != "a" || args[3] != "c" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 3}, nil
		},
	}
	store := NewEngagementStore(stubDB{})
	if err := store.InsertDetails(ctx, execer, 9, []string{"a", "b", "c"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single exec, got %d", calls)
	}
}

func TestEngagementStoreInsertDetailsSkipsEmptyInput(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, _ ...any) (sql.Result, error) {
			t.Fatalf("no statement expected for empty details, got: %s", query)
			return stubResult{}, nil
		},
	}
	store := NewEngagementStore(stubDB{})
	if err := store.InsertDetails(ctx, execer, 9, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEngagementStoreDeleteReportsMissingRow(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "DELETE FROM engagements") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 1 || args[0] != int64(9) {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 0}, nil
		},
	}
	store := NewEngagementStore(stubDB{})
	affected, err := store.Delete(ctx, execer, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if affected != 0 {
		t.Fatalf("unexpected affected count: %d", affected)
	}
}

func TestEngagementStoreListByUserJoinsDetails(t *testing.T) {
	ctx := context.Background()
	store := NewEngagementStore(stubDB{
		selectFn: func(_ context.Context, _ any, query string, args ...any) error {
			if !strings.Contains(query, "LEFT JOIN engagement_details") {
				t.Fatalf("listing must join line items: %s", query)
			}
			if len(args) != 1 || args[0] != int64(42) {
				t.Fatalf("unexpected args: %#v", args)
			}
			return nil
		},
	})
	if _, err := store.ListByUser(ctx, 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
