package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bizos/internal/db"
	"bizos/internal/models"
	"bizos/internal/store"
	"bizos/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrRewardNotFound     = errors.New("reward not found")
	ErrOutOfStock         = errors.New("reward out of stock")
	ErrQuestNotFound      = errors.New("quest not found")
	ErrRedemptionNotFound = errors.New("redemption not found")
	ErrInvalidTransition  = errors.New("invalid redemption status transition")
)

// InsufficientBalanceError carries the figures the HTTP layer needs to
// build a precise client message without re-querying state.
type InsufficientBalanceError struct {
	Balance   int64
	Requested int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: have %d, need %d", e.Balance, e.Requested)
}

const (
	LimitOpMint   = "mint"
	LimitOpRedeem = "redeem"
)

// DailyLimitError reports a mint or burn rejected by the per-day cap.
// Used is the amount already applied inside the current UTC day window.
type DailyLimitError struct {
	Op        string
	Limit     int64
	Used      int64
	Requested int64
}

func (e *DailyLimitError) Error() string {
	return fmt.Sprintf("daily %s limit exceeded: %d used + %d requested > %d", e.Op, e.Used, e.Requested, e.Limit)
}

type TokenService struct {
	txRunner    db.TxRunner
	wallets     WalletStore
	ledger      LedgerStore
	rewards     RewardStore
	redemptions RedemptionStore
	quests      QuestStore
	audit       AuditStore
	hub         WalletHub
	limits      Limits
	now         func() time.Time
}

// Limits are injected per instance rather than read from process globals
// so different deployments (and tests) can carry different caps.
type Limits struct {
	MaxMintPerDay   int64
	MaxRedeemPerDay int64
}

type WalletStore interface {
	EnsureExists(ctx context.Context, tx store.Execer, id, tenantID, userID string) error
	GetForUpdate(ctx context.Context, tx store.Getter, tenantID, userID string) (models.Wallet, error)
	Get(ctx context.Context, tenantID, userID string) (models.Wallet, error)
	UpdateBalance(ctx context.Context, tx store.Execer, walletID string, balance int64) error
}

type LedgerStore interface {
	Insert(ctx context.Context, tx store.Execer, entry store.LedgerEntryInput) error
	MintedSince(ctx context.Context, q store.Getter, tenantID, userID string, since time.Time) (int64, error)
	BurnedSince(ctx context.Context, q store.Getter, tenantID, userID string, since time.Time) (int64, error)
}

type RewardStore interface {
	GetForUpdate(ctx context.Context, tx store.Getter, tenantID, rewardID string) (models.RewardItem, error)
	DecrementStock(ctx context.Context, tx store.Execer, rewardID string) (int64, error)
}

type RedemptionStore interface {
	Insert(ctx context.Context, tx store.Execer, input store.RedemptionInput) error
	GetByID(ctx context.Context, tenantID, redemptionID string) (models.Redemption, error)
	TransitionStatus(ctx context.Context, tx store.Execer, redemptionID, from, to string) (int64, error)
}

type QuestStore interface {
	GetActiveByCode(ctx context.Context, tenantID, code string) (models.Quest, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
}

type WalletHub interface {
	BroadcastBalance(userID string, update websocket.WalletUpdate)
}

func NewTokenService(txRunner db.TxRunner, wallets WalletStore, ledger LedgerStore, rewards RewardStore, redemptions RedemptionStore, quests QuestStore, audit AuditStore, hub WalletHub, limits Limits) *TokenService {
	return &TokenService{
		txRunner:    txRunner,
		wallets:     wallets,
		ledger:      ledger,
		rewards:     rewards,
		redemptions: redemptions,
		quests:      quests,
		audit:       audit,
		hub:         hub,
		limits:      limits,
		now:         time.Now,
	}
}

type MintRequest struct {
	TenantID string
	UserID   string
	Amount   int64
	Reason   string
	RefID    *string
}

type BurnRequest struct {
	TenantID string
	UserID   string
	Amount   int64
	Reason   string
	RefID    *string
}

type OperationResult struct {
	EntryID string
	Delta   int64
	Balance int64
}

func (s *TokenService) Mint(ctx context.Context, req MintRequest) (OperationResult, error) {
	if req.Amount <= 0 {
		return OperationResult{}, ErrInvalidAmount
	}
	var result OperationResult
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		res, err := s.applyDelta(ctx, tx, req.TenantID, req.UserID, req.Amount, req.Reason, req.RefID)
		if err != nil {
			return err
		}
		result = res
		return s.auditEntry(ctx, tx, req.UserID, "mint", res, req.Reason)
	})
	if err != nil {
		return OperationResult{}, err
	}
	s.broadcast(req.TenantID, req.UserID, result.Balance)
	return result, nil
}

func (s *TokenService) Burn(ctx context.Context, req BurnRequest) (OperationResult, error) {
	if req.Amount <= 0 {
		return OperationResult{}, ErrInvalidAmount
	}
	var result OperationResult
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		res, err := s.applyDelta(ctx, tx, req.TenantID, req.UserID, -req.Amount, req.Reason, req.RefID)
		if err != nil {
			return err
		}
		result = res
		return s.auditEntry(ctx, tx, req.UserID, "burn", res, req.Reason)
	})
	if err != nil {
		return OperationResult{}, err
	}
	s.broadcast(req.TenantID, req.UserID, result.Balance)
	return result, nil
}

// GetBalance reports the wallet projection; a wallet that has never seen
// a token operation reads as zero.
func (s *TokenService) GetBalance(ctx context.Context, tenantID, userID string) (int64, error) {
	wallet, err := s.wallets.Get(ctx, tenantID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return wallet.Balance, nil
}

type RedeemRequest struct {
	TenantID string
	UserID   string
	RewardID string
}

type RedemptionResult struct {
	RedemptionID string
	RewardID     string
	RewardName   string
	PointsSpent  int64
	Balance      int64
}

// RedeemReward owns a single transaction spanning the burn, the stock
// decrement and the redemption record, so either all three happen or
// none do. Lock order is reward row first, wallet row second.
func (s *TokenService) RedeemReward(ctx context.Context, req RedeemRequest) (RedemptionResult, error) {
	var result RedemptionResult
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		reward, err := s.rewards.GetForUpdate(ctx, tx, req.TenantID, req.RewardID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrRewardNotFound
			}
			return err
		}
		if reward.Stock <= 0 {
			return ErrOutOfStock
		}
		res, err := s.applyDelta(ctx, tx, req.TenantID, req.UserID, -reward.PointsCost, "redeem:"+reward.Name, &reward.ID)
		if err != nil {
			return err
		}
		rows, err := s.rewards.DecrementStock(ctx, tx, reward.ID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrOutOfStock
		}
		redemptionID := uuid.NewString()
		if err := s.redemptions.Insert(ctx, tx, store.RedemptionInput{
			ID:          redemptionID,
			TenantID:    req.TenantID,
			UserID:      req.UserID,
			RewardID:    reward.ID,
			RewardName:  reward.Name,
			PointsSpent: reward.PointsCost,
			Status:      models.RedemptionStatusPending,
		}); err != nil {
			return err
		}
		result = RedemptionResult{
			RedemptionID: redemptionID,
			RewardID:     reward.ID,
			RewardName:   reward.Name,
			PointsSpent:  reward.PointsCost,
			Balance:      res.Balance,
		}
		data, _ := json.Marshal(map[string]any{
			"reward_id":    reward.ID,
			"points_spent": reward.PointsCost,
			"balance":      res.Balance,
		})
		return s.audit.Log(ctx, tx, req.UserID, "redeem_reward", "redemption", redemptionID, string(data))
	})
	if err != nil {
		return RedemptionResult{}, err
	}
	s.broadcast(req.TenantID, req.UserID, result.Balance)
	return result, nil
}

// CompleteQuest is the trigger surface for external completion detectors:
// it resolves the active quest and mints its reward for the user.
func (s *TokenService) CompleteQuest(ctx context.Context, tenantID, userID, code string) (OperationResult, error) {
	quest, err := s.quests.GetActiveByCode(ctx, tenantID, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return OperationResult{}, ErrQuestNotFound
		}
		return OperationResult{}, err
	}
	return s.Mint(ctx, MintRequest{
		TenantID: tenantID,
		UserID:   userID,
		Amount:   quest.Reward,
		Reason:   "quest:" + quest.Code,
		RefID:    &quest.ID,
	})
}

// UpdateRedemptionStatus applies the only transitions the state machine
// allows: pending to fulfilled, or pending to cancelled. Cancelling does
// not re-mint the burned tokens.
func (s *TokenService) UpdateRedemptionStatus(ctx context.Context, tenantID, actorID, redemptionID, status string) error {
	if status != models.RedemptionStatusFulfilled && status != models.RedemptionStatusCancelled {
		return ErrInvalidTransition
	}
	if _, err := s.redemptions.GetByID(ctx, tenantID, redemptionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRedemptionNotFound
		}
		return err
	}
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		rows, err := s.redemptions.TransitionStatus(ctx, tx, redemptionID, models.RedemptionStatusPending, status)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrInvalidTransition
		}
		data, _ := json.Marshal(map[string]string{"status": status})
		return s.audit.Log(ctx, tx, actorID, "redemption_status", "redemption", redemptionID, string(data))
	})
}

// applyDelta is the single place a wallet balance changes. It locks the
// wallet row, enforces the daily caps against read-time ledger sums, then
// dual-writes the wallet projection and the ledger entry. A rejected
// operation returns before any write, so the ledger never records it.
func (s *TokenService) applyDelta(ctx context.Context, tx *sqlx.Tx, tenantID, userID string, delta int64, reason string, refID *string) (OperationResult, error) {
	if err := s.wallets.EnsureExists(ctx, tx, uuid.NewString(), tenantID, userID); err != nil {
		return OperationResult{}, err
	}
	wallet, err := s.wallets.GetForUpdate(ctx, tx, tenantID, userID)
	if err != nil {
		return OperationResult{}, err
	}
	since := startOfDayUTC(s.now())
	if delta > 0 {
		minted, err := s.ledger.MintedSince(ctx, tx, tenantID, userID, since)
		if err != nil {
			return OperationResult{}, err
		}
		if minted+delta > s.limits.MaxMintPerDay {
			return OperationResult{}, &DailyLimitError{Op: LimitOpMint, Limit: s.limits.MaxMintPerDay, Used: minted, Requested: delta}
		}
	} else {
		amount := -delta
		burned, err := s.ledger.BurnedSince(ctx, tx, tenantID, userID, since)
		if err != nil {
			return OperationResult{}, err
		}
		if burned+amount > s.limits.MaxRedeemPerDay {
			return OperationResult{}, &DailyLimitError{Op: LimitOpRedeem, Limit: s.limits.MaxRedeemPerDay, Used: burned, Requested: amount}
		}
		if wallet.Balance < amount {
			return OperationResult{}, &InsufficientBalanceError{Balance: wallet.Balance, Requested: amount}
		}
	}
	newBalance := wallet.Balance + delta
	if err := s.wallets.UpdateBalance(ctx, tx, wallet.ID, newBalance); err != nil {
		return OperationResult{}, err
	}
	entryID := uuid.NewString()
	if err := s.ledger.Insert(ctx, tx, store.LedgerEntryInput{
		ID:       entryID,
		TenantID: tenantID,
		UserID:   userID,
		Delta:    delta,
		Reason:   reason,
		RefID:    refID,
	}); err != nil {
		return OperationResult{}, err
	}
	return OperationResult{EntryID: entryID, Delta: delta, Balance: newBalance}, nil
}

func (s *TokenService) auditEntry(ctx context.Context, tx *sqlx.Tx, actorID, action string, res OperationResult, reason string) error {
	data, _ := json.Marshal(map[string]any{
		"delta":   res.Delta,
		"reason":  reason,
		"balance": res.Balance,
	})
	return s.audit.Log(ctx, tx, actorID, action, "ledger_entry", res.EntryID, string(data))
}

func (s *TokenService) broadcast(tenantID, userID string, balance int64) {
	s.hub.BroadcastBalance(userID, websocket.WalletUpdate{
		TenantID: tenantID,
		UserID:   userID,
		Balance:  balance,
	})
}

// Daily limits use the UTC calendar day, midnight to now, not a trailing
// 24h window.
func startOfDayUTC(now time.Time) time.Time {
	utc := now.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}
