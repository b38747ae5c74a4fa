package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bizos/internal/auth"
	"bizos/internal/middleware"
	"bizos/internal/services"
	"bizos/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/lib/pq"
)

// serveAdminRoute mounts the handler under a chi route so URL parameters
// resolve, with the auth middleware applied the way the real router does.
func serveAdminRoute(t *testing.T, pattern string, handler http.HandlerFunc, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	token, err := auth.GenerateToken("secret", "admin-1", "acme", time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	router := chi.NewRouter()
	router.With(middleware.Auth("secret")).Method(method, pattern, handler)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(rr, req)
	return rr
}

func TestCreateQuestSuccess(t *testing.T) {
	var created store.QuestInput
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubWalletStore{}, stubLedgerStore{}, stubRewardStore{}, stubRedemptionStore{}, stubQuestStore{
		createFn: func(_ context.Context, _ store.Execer, input store.QuestInput) error {
			created = input
			return nil
		},
	}, stubAdminStore{}, stubAuditStore{}, stubService{})

	body := []byte(`{"tenant_id":"acme","code":"DAILY_LOGIN","title":"Daily login","reward":25,"period":"daily"}`)
	rr := serveAuthed(t, handler.CreateQuest, http.MethodPost, "/admin/quests", bytes.NewReader(body))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if created.Code != "DAILY_LOGIN" || created.Reward != 25 || !created.Active {
		t.Fatalf("unexpected quest input: %#v", created)
	}
}

func TestCreateQuestRejectsBadCode(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubWalletStore{}, stubLedgerStore{}, stubRewardStore{}, stubRedemptionStore{}, stubQuestStore{}, stubAdminStore{}, stubAuditStore{}, stubService{})
	body := []byte(`{"tenant_id":"acme","code":"daily login","title":"x","reward":25,"period":"daily"}`)
	rr := serveAuthed(t, handler.CreateQuest, http.MethodPost, "/admin/quests", bytes.NewReader(body))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestCreateQuestDuplicateCode(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubWalletStore{}, stubLedgerStore{}, stubRewardStore{}, stubRedemptionStore{}, stubQuestStore{
		createFn: func(context.Context, store.Execer, store.QuestInput) error {
			return &pq.Error{Code: "23505"}
		},
	}, stubAdminStore{}, stubAuditStore{}, stubService{})
	body := []byte(`{"tenant_id":"acme","code":"DAILY_LOGIN","title":"Daily login","reward":25,"period":"daily"}`)
	rr := serveAuthed(t, handler.CreateQuest, http.MethodPost, "/admin/quests", bytes.NewReader(body))
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}

func TestCompleteQuestMints(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubWalletStore{}, stubLedgerStore{}, stubRewardStore{}, stubRedemptionStore{}, stubQuestStore{}, stubAdminStore{}, stubAuditStore{}, stubService{
		completeQuestFn: func(_ context.Context, tenantID, userID, code string) (services.OperationResult, error) {
			if tenantID != "acme" || userID != "user-9" || code != "DAILY_LOGIN" {
				t.Fatalf("unexpected args: %s %s %s", tenantID, userID, code)
			}
			return services.OperationResult{EntryID: "e1", Delta: 25, Balance: 25}, nil
		},
	})

	body := []byte(`{"tenant_id":"acme","user_id":"user-9"}`)
	rr := serveAdminRoute(t, "/admin/quests/{code}/complete", handler.CompleteQuest, http.MethodPost, "/admin/quests/DAILY_LOGIN/complete", bytes.NewReader(body))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var payload map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["balance"] != float64(25) {
		t.Fatalf("unexpected payload: %#v", payload)
	}
}

func TestCompleteQuestNotFoundMapsTo404(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubWalletStore{}, stubLedgerStore{}, stubRewardStore{}, stubRedemptionStore{}, stubQuestStore{}, stubAdminStore{}, stubAuditStore{}, stubService{
		completeQuestFn: func(context.Context, string, string, string) (services.OperationResult, error) {
			return services.OperationResult{}, services.ErrQuestNotFound
		},
	})
	body := []byte(`{"tenant_id":"acme","user_id":"user-9"}`)
	rr := serveAdminRoute(t, "/admin/quests/{code}/complete", handler.CompleteQuest, http.MethodPost, "/admin/quests/MISSING/complete", bytes.NewReader(body))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestCreateRewardNormalizesFaceValue(t *testing.T) {
	var created store.RewardInput
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubWalletStore{}, stubLedgerStore{}, stubRewardStore{
		createFn: func(_ context.Context, _ store.Execer, input store.RewardInput) error {
			created = input
			return nil
		},
	}, stubRedemptionStore{}, stubQuestStore{}, stubAdminStore{}, stubAuditStore{}, stubService{})

	body := []byte(`{"tenant_id":"acme","name":"Voucher","points_cost":100,"stock":10,"face_value":"5.5"}`)
	rr := serveAuthed(t, handler.CreateReward, http.MethodPost, "/admin/rewards", bytes.NewReader(body))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if created.FaceValue == nil || *created.FaceValue != "5.50" {
		t.Fatalf("unexpected face value: %#v", created.FaceValue)
	}
}

func TestCreateRewardRejectsBadFaceValue(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubWalletStore{}, stubLedgerStore{}, stubRewardStore{}, stubRedemptionStore{}, stubQuestStore{}, stubAdminStore{}, stubAuditStore{}, stubService{})
	for _, value := range []string{"abc", "-5.00"} {
		body := []byte(`{"tenant_id":"acme","name":"Voucher","points_cost":100,"stock":10,"face_value":"` + value + `"}`)
		rr := serveAuthed(t, handler.CreateReward, http.MethodPost, "/admin/rewards", bytes.NewReader(body))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("face_value %q: expected 400, got %d", value, rr.Code)
		}
	}
}

func TestMintTokensDailyLimit(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubWalletStore{}, stubLedgerStore{}, stubRewardStore{}, stubRedemptionStore{}, stubQuestStore{}, stubAdminStore{}, stubAuditStore{}, stubService{
		mintFn: func(context.Context, services.MintRequest) (services.OperationResult, error) {
			return services.OperationResult{}, &services.DailyLimitError{Op: services.LimitOpMint, Limit: 500, Used: 450, Requested: 150}
		},
	})
	body := []byte(`{"tenant_id":"acme","user_id":"user-1","amount":150,"reason":"grant"}`)
	rr := serveAuthed(t, handler.MintTokens, http.MethodPost, "/admin/tokens/mint", bytes.NewReader(body))
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rr.Code)
	}
}

func TestMintTokensSuccess(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubWalletStore{}, stubLedgerStore{}, stubRewardStore{}, stubRedemptionStore{}, stubQuestStore{}, stubAdminStore{}, stubAuditStore{}, stubService{
		mintFn: func(_ context.Context, req services.MintRequest) (services.OperationResult, error) {
			if req.Amount != 100 || req.Reason != "grant" {
				t.Fatalf("unexpected request: %#v", req)
			}
			return services.OperationResult{EntryID: "e1", Delta: 100, Balance: 100}, nil
		},
	})
	body := []byte(`{"tenant_id":"acme","user_id":"user-1","amount":100,"reason":"grant"}`)
	rr := serveAuthed(t, handler.MintTokens, http.MethodPost, "/admin/tokens/mint", bytes.NewReader(body))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestBurnTokensInvalidAmount(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubWalletStore{}, stubLedgerStore{}, stubRewardStore{}, stubRedemptionStore{}, stubQuestStore{}, stubAdminStore{}, stubAuditStore{}, stubService{
		burnFn: func(context.Context, services.BurnRequest) (services.OperationResult, error) {
			return services.OperationResult{}, services.ErrInvalidAmount
		},
	})
	body := []byte(`{"tenant_id":"acme","user_id":"user-1","amount":0,"reason":"spend"}`)
	rr := serveAuthed(t, handler.BurnTokens, http.MethodPost, "/admin/tokens/burn", bytes.NewReader(body))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestUpdateRedemptionStatusFulfilled(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubWalletStore{}, stubLedgerStore{}, stubRewardStore{}, stubRedemptionStore{}, stubQuestStore{}, stubAdminStore{}, stubAuditStore{}, stubService{
		updateRedemptionStatusFn: func(_ context.Context, tenantID, actorID, redemptionID, status string) error {
			if tenantID != "acme" || actorID != "admin-1" || redemptionID != "red-1" || status != "fulfilled" {
				t.Fatalf("unexpected args: %s %s %s %s", tenantID, actorID, redemptionID, status)
			}
			return nil
		},
	})
	body := []byte(`{"tenant_id":"acme","status":"fulfilled"}`)
	rr := serveAdminRoute(t, "/admin/redemptions/{id}/status", handler.UpdateRedemptionStatus, http.MethodPost, "/admin/redemptions/red-1/status", bytes.NewReader(body))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestUpdateRedemptionStatusInvalidTransition(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubWalletStore{}, stubLedgerStore{}, stubRewardStore{}, stubRedemptionStore{}, stubQuestStore{}, stubAdminStore{}, stubAuditStore{}, stubService{
		updateRedemptionStatusFn: func(context.Context, string, string, string, string) error {
			return services.ErrInvalidTransition
		},
	})
	body := []byte(`{"tenant_id":"acme","status":"fulfilled"}`)
	rr := serveAdminRoute(t, "/admin/redemptions/{id}/status", handler.UpdateRedemptionStatus, http.MethodPost, "/admin/redemptions/red-1/status", bytes.NewReader(body))
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}

func TestListAuditLogs(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubWalletStore{}, stubLedgerStore{}, stubRewardStore{}, stubRedemptionStore{}, stubQuestStore{}, stubAdminStore{}, stubAuditStore{
		listFn: func(_ context.Context, limit, offset int) ([]store.AuditLog, error) {
			if limit != 50 || offset != 0 {
				t.Fatalf("unexpected paging: %d %d", limit, offset)
			}
			return []store.AuditLog{{ID: "a1", Action: "mint"}}, nil
		},
	}, stubService{})

	rr := serveAuthed(t, handler.ListAuditLogs, http.MethodGet, "/admin/audit", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}
