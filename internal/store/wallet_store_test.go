package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
)

func TestWalletStoreEnsureExists(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "ON CONFLICT (tenant_id, user_id) DO NOTHING") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 3 || args[1] != "acme" || args[2] != "user-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewWalletStore(stubDB{})
	if err := store.EnsureExists(ctx, execer, "w1", "acme", "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWalletStoreGetForUpdateLocksRow(t *testing.T) {
	ctx := context.Background()
	store := NewWalletStore(stubDB{})
	getter := stubGetter{
		getFn: func(_ context.Context, _ any, query string, args ...any) error {
			if !strings.Contains(query, "FOR UPDATE") {
				t.Fatalf("expected row lock in query: %s", query)
			}
			if len(args) != 2 || args[0] != "acme" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return nil
		},
	}
	if _, err := store.GetForUpdate(ctx, getter, "acme", "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWalletStoreUpdateBalance(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "UPDATE wallets") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 2 || args[0] != int64(250) || args[1] != "w1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewWalletStore(stubDB{})
	if err := store.UpdateBalance(ctx, execer, "w1", 250); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWalletStoreReconcileScopesTenant(t *testing.T) {
	ctx := context.Background()
	store := NewWalletStore(stubDB{
		selectFn: func(_ context.Context, _ any, query string, args ...any) error {
			if !strings.Contains(query, "LEFT JOIN token_ledger_entries") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 1 || args[0] != "acme" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return nil
		},
	})
	if _, err := store.Reconcile(ctx, "acme"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
