package handlers

import (
	"context"

	"bizos/internal/models"
	"bizos/internal/services"
	"bizos/internal/store"
)

type UserStore interface {
	Create(ctx context.Context, tx store.Execer, id, tenantID, username, email, passwordHash string) error
	GetByEmail(ctx context.Context, tenantID, email string) (models.User, error)
	GetByID(ctx context.Context, userID string) (models.User, error)
}

type WalletStore interface {
	Reconcile(ctx context.Context, tenantID string) ([]store.WalletLedgerSummary, error)
}

type LedgerStore interface {
	ListByUser(ctx context.Context, tenantID, userID string, limit, offset int) ([]models.TokenLedgerEntry, error)
}

type RewardStore interface {
	Create(ctx context.Context, tx store.Execer, input store.RewardInput) error
	ListAvailable(ctx context.Context, tenantID string) ([]models.RewardItem, error)
}

type RedemptionStore interface {
	ListByUser(ctx context.Context, tenantID, userID string, limit int) ([]models.Redemption, error)
}

type QuestStore interface {
	Create(ctx context.Context, tx store.Execer, input store.QuestInput) error
	ListActive(ctx context.Context, tenantID string) ([]models.Quest, error)
}

type AdminStore interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
	CreateAdmin(ctx context.Context, tx store.Execer, userID string, createdBy *string) error
	HasAnyAdmin(ctx context.Context) (bool, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
	List(ctx context.Context, limit, offset int) ([]store.AuditLog, error)
}

type TokenService interface {
	Mint(ctx context.Context, req services.MintRequest) (services.OperationResult, error)
	Burn(ctx context.Context, req services.BurnRequest) (services.OperationResult, error)
	GetBalance(ctx context.Context, tenantID, userID string) (int64, error)
	RedeemReward(ctx context.Context, req services.RedeemRequest) (services.RedemptionResult, error)
	CompleteQuest(ctx context.Context, tenantID, userID, code string) (services.OperationResult, error)
	UpdateRedemptionStatus(ctx context.Context, tenantID, actorID, redemptionID, status string) error
}
