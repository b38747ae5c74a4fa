package store

import (
	"context"
	"time"

	"bizos/internal/models"
)

type WalletStore struct {
	db DB
}

func NewWalletStore(db DB) *WalletStore {
	return &WalletStore{db: db}
}

// EnsureExists creates the wallet row for (tenant, user) with a zero
// balance if it is missing. Safe under concurrent first operations: the
// unique (tenant_id, user_id) index resolves the race.
func (s *WalletStore) EnsureExists(ctx context.Context, tx Execer, id, tenantID, userID string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO wallets (id, tenant_id, user_id, balance)
		VALUES ($1, $2, $3, 0)
		ON CONFLICT (tenant_id, user_id) DO NOTHING
	`, id, tenantID, userID)
	return err
}

func (s *WalletStore) GetForUpdate(ctx context.Context, tx Getter, tenantID, userID string) (models.Wallet, error) {
	var row models.Wallet
	err := tx.GetContext(ctx, &row, `
		SELECT id, tenant_id, user_id, balance, created_at
		FROM wallets
		WHERE tenant_id = $1 AND user_id = $2
		FOR UPDATE
	`, tenantID, userID)
	if err != nil {
		return models.Wallet{}, err
	}
	return row, nil
}

func (s *WalletStore) Get(ctx context.Context, tenantID, userID string) (models.Wallet, error) {
	var row models.Wallet
	err := s.db.GetContext(ctx, &row, `
		SELECT id, tenant_id, user_id, balance, created_at
		FROM wallets
		WHERE tenant_id = $1 AND user_id = $2
	`, tenantID, userID)
	if err != nil {
		return models.Wallet{}, err
	}
	return row, nil
}

func (s *WalletStore) UpdateBalance(ctx context.Context, tx Execer, walletID string, balance int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE wallets
		SET balance = $1, updated_at = NOW()
		WHERE id = $2
	`, balance, walletID)
	return err
}

type WalletLedgerSummary struct {
	WalletID      string    `db:"wallet_id"`
	TenantID      string    `db:"tenant_id"`
	UserID        string    `db:"user_id"`
	StoredBalance int64     `db:"stored_balance"`
	LedgerSum     int64     `db:"ledger_sum"`
	Difference    int64     `db:"difference"`
	CreatedAt     time.Time `db:"created_at"`
}

// Reconcile compares every wallet's stored balance against the ledger sum
// for the tenant; a non-zero difference means the core invariant broke.
func (s *WalletStore) Reconcile(ctx context.Context, tenantID string) ([]WalletLedgerSummary, error) {
	var rows []WalletLedgerSummary
	err := s.db.SelectContext(ctx, &rows, `
		SELECT w.id AS wallet_id,
		       w.tenant_id,
		       w.user_id,
		       w.balance AS stored_balance,
		       COALESCE(SUM(l.delta), 0) AS ledger_sum,
		       (w.balance - COALESCE(SUM(l.delta), 0)) AS difference,
		       w.created_at
		FROM wallets w
		LEFT JOIN token_ledger_entries l
		       ON l.tenant_id = w.tenant_id AND l.user_id = w.user_id
		WHERE w.tenant_id = $1
		GROUP BY w.id, w.tenant_id, w.user_id, w.balance, w.created_at
		ORDER BY w.user_id
	`, tenantID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
