package models

import "time"

type User struct {
	ID           string    `db:"id" json:"id"`
	TenantID     string    `db:"tenant_id" json:"tenant_id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Wallet is the cached balance projection for one (tenant, user) pair.
// It is created lazily on the first token operation and mutated only by
// mint, burn and redeem; the ledger remains the source of truth.
type Wallet struct {
	ID        string    `db:"id" json:"id"`
	TenantID  string    `db:"tenant_id" json:"tenant_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Balance   int64     `db:"balance" json:"balance"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TokenLedgerEntry is append-only: positive delta = mint, negative = burn.
type TokenLedgerEntry struct {
	ID        string    `db:"id" json:"id"`
	TenantID  string    `db:"tenant_id" json:"tenant_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Delta     int64     `db:"delta" json:"delta"`
	Reason    string    `db:"reason" json:"reason"`
	RefID     *string   `db:"ref_id" json:"ref_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

const (
	QuestPeriodDaily  = "daily"
	QuestPeriodWeekly = "weekly"
	QuestPeriodOneoff = "oneoff"
)

type Quest struct {
	ID          string    `db:"id" json:"id"`
	TenantID    string    `db:"tenant_id" json:"tenant_id"`
	Code        string    `db:"code" json:"code"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Reward      int64     `db:"reward" json:"reward"`
	Period      string    `db:"period" json:"period"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type RewardItem struct {
	ID          string    `db:"id" json:"id"`
	TenantID    string    `db:"tenant_id" json:"tenant_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Sponsor     string    `db:"sponsor" json:"sponsor"`
	PointsCost  int64     `db:"points_cost" json:"points_cost"`
	Stock       int64     `db:"stock" json:"stock"`
	FaceValue   *string   `db:"face_value" json:"face_value,omitempty"`
	TermsURL    string    `db:"terms_url" json:"terms_url"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

const (
	RedemptionStatusPending   = "pending"
	RedemptionStatusFulfilled = "fulfilled"
	RedemptionStatusCancelled = "cancelled"
)

// Redemption records one successful reward redemption. reward_name is a
// snapshot taken at redemption time so later catalog edits don't rewrite
// history. Only the status field ever changes after creation.
type Redemption struct {
	ID          string    `db:"id" json:"id"`
	TenantID    string    `db:"tenant_id" json:"tenant_id"`
	UserID      string    `db:"user_id" json:"user_id"`
	RewardID    string    `db:"reward_id" json:"reward_id"`
	RewardName  string    `db:"reward_name" json:"reward_name"`
	PointsSpent int64     `db:"points_spent" json:"points_spent"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
