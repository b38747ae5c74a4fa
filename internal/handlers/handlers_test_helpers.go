package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bizos/internal/auth"
	"bizos/internal/config"
	"bizos/internal/middleware"
	"bizos/internal/models"
	"bizos/internal/services"
	"bizos/internal/store"
	"bizos/internal/websocket"

	"github.com/jmoiron/sqlx"
)

type fakeTxRunner struct {
	withTxFn func(ctx context.Context, fn func(*sqlx.Tx) error) error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.withTxFn != nil {
		return f.withTxFn(ctx, fn)
	}
	return fn(nil)
}

type stubUserStore struct {
	createFn     func(ctx context.Context, tx store.Execer, id, tenantID, username, email, passwordHash string) error
	getByEmailFn func(ctx context.Context, tenantID, email string) (models.User, error)
	getByIDFn    func(ctx context.Context, userID string) (models.User, error)
}

func (s stubUserStore) Create(ctx context.Context, tx store.Execer, id, tenantID, username, email, passwordHash string) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, tenantID, username, email, passwordHash)
}

func (s stubUserStore) GetByEmail(ctx context.Context, tenantID, email string) (models.User, error) {
	if s.getByEmailFn == nil {
		return models.User{}, nil
	}
	return s.getByEmailFn(ctx, tenantID, email)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	if s.getByIDFn == nil {
		return models.User{}, nil
	}
	return s.getByIDFn(ctx, userID)
}

type stubWalletStore struct {
	reconcileFn func(ctx context.Context, tenantID string) ([]store.WalletLedgerSummary, error)
}

func (s stubWalletStore) Reconcile(ctx context.Context, tenantID string) ([]store.WalletLedgerSummary, error) {
	if s.reconcileFn == nil {
		return nil, nil
	}
	return s.reconcileFn(ctx, tenantID)
}

type stubLedgerStore struct {
	listByUserFn func(ctx context.Context, tenantID, userID string, limit, offset int) ([]models.TokenLedgerEntry, error)
}

func (s stubLedgerStore) ListByUser(ctx context.Context, tenantID, userID string, limit, offset int) ([]models.TokenLedgerEntry, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, tenantID, userID, limit, offset)
}

type stubRewardStore struct {
	createFn        func(ctx context.Context, tx store.Execer, input store.RewardInput) error
	listAvailableFn func(ctx context.Context, tenantID string) ([]models.RewardItem, error)
}

func (s stubRewardStore) Create(ctx context.Context, tx store.Execer, input store.RewardInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubRewardStore) ListAvailable(ctx context.Context, tenantID string) ([]models.RewardItem, error) {
	if s.listAvailableFn == nil {
		return nil, nil
	}
	return s.listAvailableFn(ctx, tenantID)
}

type stubRedemptionStore struct {
	listByUserFn func(ctx context.Context, tenantID, userID string, limit int) ([]models.Redemption, error)
}

func (s stubRedemptionStore) ListByUser(ctx context.Context, tenantID, userID string, limit int) ([]models.Redemption, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, tenantID, userID, limit)
}

type stubQuestStore struct {
	createFn     func(ctx context.Context, tx store.Execer, input store.QuestInput) error
	listActiveFn func(ctx context.Context, tenantID string) ([]models.Quest, error)
}

func (s stubQuestStore) Create(ctx context.Context, tx store.Execer, input store.QuestInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubQuestStore) ListActive(ctx context.Context, tenantID string) ([]models.Quest, error) {
	if s.listActiveFn == nil {
		return nil, nil
	}
	return s.listActiveFn(ctx, tenantID)
}

type stubAdminStore struct {
	isAdminFn     func(ctx context.Context, userID string) (bool, error)
	createAdminFn func(ctx context.Context, tx store.Execer, userID string, createdBy *string) error
	hasAnyAdminFn func(ctx context.Context) (bool, error)
}

func (s stubAdminStore) IsAdmin(ctx context.Context, userID string) (bool, error) {
	if s.isAdminFn == nil {
		return false, nil
	}
	return s.isAdminFn(ctx, userID)
}

func (s stubAdminStore) CreateAdmin(ctx context.Context, tx store.Execer, userID string, createdBy *string) error {
	if s.createAdminFn == nil {
		return nil
	}
	return s.createAdminFn(ctx, tx, userID, createdBy)
}

func (s stubAdminStore) HasAnyAdmin(ctx context.Context) (bool, error) {
	if s.hasAnyAdminFn == nil {
		return true, nil
	}
	return s.hasAnyAdminFn(ctx)
}

type stubAuditStore struct {
	logFn  func(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
	listFn func(ctx context.Context, limit, offset int) ([]store.AuditLog, error)
}

func (s stubAuditStore) Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error {
	if s.logFn == nil {
		return nil
	}
	return s.logFn(ctx, tx, actorID, action, entityType, entityID, data)
}

func (s stubAuditStore) List(ctx context.Context, limit, offset int) ([]store.AuditLog, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, limit, offset)
}

type stubService struct {
	mintFn                   func(ctx context.Context, req services.MintRequest) (services.OperationResult, error)
	burnFn                   func(ctx context.Context, req services.BurnRequest) (services.OperationResult, error)
	getBalanceFn             func(ctx context.Context, tenantID, userID string) (int64, error)
	redeemRewardFn           func(ctx context.Context, req services.RedeemRequest) (services.RedemptionResult, error)
	completeQuestFn          func(ctx context.Context, tenantID, userID, code string) (services.OperationResult, error)
	updateRedemptionStatusFn func(ctx context.Context, tenantID, actorID, redemptionID, status string) error
}

func (s stubService) Mint(ctx context.Context, req services.MintRequest) (services.OperationResult, error) {
	if s.mintFn == nil {
		return services.OperationResult{}, nil
	}
	return s.mintFn(ctx, req)
}

func (s stubService) Burn(ctx context.Context, req services.BurnRequest) (services.OperationResult, error) {
	if s.burnFn == nil {
		return services.OperationResult{}, nil
	}
	return s.burnFn(ctx, req)
}

func (s stubService) GetBalance(ctx context.Context, tenantID, userID string) (int64, error) {
	if s.getBalanceFn == nil {
		return 0, nil
	}
	return s.getBalanceFn(ctx, tenantID, userID)
}

func (s stubService) RedeemReward(ctx context.Context, req services.RedeemRequest) (services.RedemptionResult, error) {
	if s.redeemRewardFn == nil {
		return services.RedemptionResult{}, nil
	}
	return s.redeemRewardFn(ctx, req)
}

func (s stubService) CompleteQuest(ctx context.Context, tenantID, userID, code string) (services.OperationResult, error) {
	if s.completeQuestFn == nil {
		return services.OperationResult{}, nil
	}
	return s.completeQuestFn(ctx, tenantID, userID, code)
}

func (s stubService) UpdateRedemptionStatus(ctx context.Context, tenantID, actorID, redemptionID, status string) error {
	if s.updateRedemptionStatusFn == nil {
		return nil
	}
	return s.updateRedemptionStatusFn(ctx, tenantID, actorID, redemptionID, status)
}

func newTestHandler(txRunner fakeTxRunner, users stubUserStore, wallets stubWalletStore, ledger stubLedgerStore, rewards stubRewardStore, redemptions stubRedemptionStore, quests stubQuestStore, admin stubAdminStore, audit stubAuditStore, service stubService) *Handler {
	cfg := config.Config{
		AppEnv:          "test",
		Port:            "0",
		JWTSecret:       "secret",
		TokenTTL:        time.Minute,
		AllowedOrigins:  "*",
		MaxMintPerDay:   500,
		MaxRedeemPerDay: 500,
	}
	return New(txRunner, cfg, users, wallets, ledger, rewards, redemptions, quests, admin, audit, service, websocket.NewHub())
}

func serveAuthed(t *testing.T, handler http.HandlerFunc, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	token, err := auth.GenerateToken("secret", "user-1", "acme", time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Authorization", "Bearer "+token)
	middleware.Auth("secret")(handler).ServeHTTP(rr, req)
	return rr
}
