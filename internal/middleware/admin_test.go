package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bizos/internal/auth"
)

type stubAdminStore struct {
	isAdminFn func(ctx context.Context, userID string) (bool, error)
}

func (s stubAdminStore) IsAdmin(ctx context.Context, userID string) (bool, error) {
	return s.isAdminFn(ctx, userID)
}

func serveAdmin(t *testing.T, store AdminStore, userID string) *httptest.ResponseRecorder {
	t.Helper()
	token, err := auth.GenerateToken("secret", userID, "t1", time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	handler := Auth("secret")(RequireAdmin(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(rr, req)
	return rr
}

func TestRequireAdminAllows(t *testing.T) {
	rr := serveAdmin(t, stubAdminStore{
		isAdminFn: func(_ context.Context, userID string) (bool, error) {
			if userID != "admin-1" {
				t.Fatalf("unexpected user id: %s", userID)
			}
			return true, nil
		},
	}, "admin-1")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestRequireAdminForbidsNonAdmin(t *testing.T) {
	rr := serveAdmin(t, stubAdminStore{
		isAdminFn: func(context.Context, string) (bool, error) {
			return false, nil
		},
	}, "user-1")
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestRequireAdminStoreError(t *testing.T) {
	rr := serveAdmin(t, stubAdminStore{
		isAdminFn: func(context.Context, string) (bool, error) {
			return false, errors.New("boom")
		},
	}, "user-1")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}
