package store

import (
	"context"
	"time"

	"bizos/internal/models"
)

type LedgerStore struct {
	db DB
}

func NewLedgerStore(db DB) *LedgerStore {
	return &LedgerStore{db: db}
}

type LedgerEntryInput struct {
	ID       string
	TenantID string
	UserID   string
	Delta    int64
	Reason   string
	RefID    *string
}

// Insert appends one entry. Entries are never updated or deleted; the
// table is the audit trail and the source of truth for every balance.
func (s *LedgerStore) Insert(ctx context.Context, tx Execer, entry LedgerEntryInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO token_ledger_entries (id, tenant_id, user_id, delta, reason, ref_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, entry.ID, entry.TenantID, entry.UserID, entry.Delta, entry.Reason, entry.RefID)
	return err
}

func (s *LedgerStore) SumDeltas(ctx context.Context, q Getter, tenantID, userID string) (int64, error) {
	var sum int64
	err := q.GetContext(ctx, &sum, `
		SELECT COALESCE(SUM(delta), 0)
		FROM token_ledger_entries
		WHERE tenant_id = $1 AND user_id = $2
	`, tenantID, userID)
	return sum, err
}

// MintedSince returns the total minted (positive deltas) since the given
// instant. Computed at read time over the ledger so it can never drift
// from the entries themselves.
func (s *LedgerStore) MintedSince(ctx context.Context, q Getter, tenantID, userID string, since time.Time) (int64, error) {
	var sum int64
	err := q.GetContext(ctx, &sum, `
		SELECT COALESCE(SUM(delta), 0)
		FROM token_ledger_entries
		WHERE tenant_id = $1 AND user_id = $2 AND delta > 0 AND created_at >= $3
	`, tenantID, userID, since)
	return sum, err
}

// BurnedSince returns the total burned since the given instant, as a
// positive magnitude.
func (s *LedgerStore) BurnedSince(ctx context.Context, q Getter, tenantID, userID string, since time.Time) (int64, error) {
	var sum int64
	err := q.GetContext(ctx, &sum, `
		SELECT COALESCE(SUM(-delta), 0)
		FROM token_ledger_entries
		WHERE tenant_id = $1 AND user_id = $2 AND delta < 0 AND created_at >= $3
	`, tenantID, userID, since)
	return sum, err
}

func (s *LedgerStore) ListByUser(ctx context.Context, tenantID, userID string, limit, offset int) ([]models.TokenLedgerEntry, error) {
	var rows []models.TokenLedgerEntry
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, tenant_id, user_id, delta, reason, ref_id, created_at
		FROM token_ledger_entries
		WHERE tenant_id = $1 AND user_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, tenantID, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
