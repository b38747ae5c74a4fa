package store

import (
	"context"

	"bizos/internal/models"
)

type RewardStore struct {
	db DB
}

func NewRewardStore(db DB) *RewardStore {
	return &RewardStore{db: db}
}

type RewardInput struct {
	ID          string
	TenantID    string
	Name        string
	Description string
	Sponsor     string
	PointsCost  int64
	Stock       int64
	FaceValue   *string
	TermsURL    string
}

func (s *RewardStore) Create(ctx context.Context, tx Execer, input RewardInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO reward_items (id, tenant_id, name, description, sponsor, points_cost, stock, face_value, terms_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, input.ID, input.TenantID, input.Name, input.Description, input.Sponsor,
		input.PointsCost, input.Stock, input.FaceValue, input.TermsURL)
	return err
}

func (s *RewardStore) ListAvailable(ctx context.Context, tenantID string) ([]models.RewardItem, error) {
	var rows []models.RewardItem
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, tenant_id, name, description, sponsor, points_cost, stock, face_value, terms_url, created_at
		FROM reward_items
		WHERE tenant_id = $1 AND stock > 0
	`, tenantID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GetForUpdate locks the catalog row for the duration of a redemption so
// concurrent redemptions of the same reward serialize on the stock check.
// Tenant id is part of the lookup key; a reward from another tenant is
// indistinguishable from a missing one.
func (s *RewardStore) GetForUpdate(ctx context.Context, tx Getter, tenantID, rewardID string) (models.RewardItem, error) {
	var row models.RewardItem
	err := tx.GetContext(ctx, &row, `
		SELECT id, tenant_id, name, description, sponsor, points_cost, stock, face_value, terms_url, created_at
		FROM reward_items
		WHERE tenant_id = $1 AND id = $2
		FOR UPDATE
	`, tenantID, rewardID)
	if err != nil {
		return models.RewardItem{}, err
	}
	return row, nil
}

// DecrementStock takes one unit of stock, guarded so stock never goes
// negative even if callers race; returns the number of rows changed.
func (s *RewardStore) DecrementStock(ctx context.Context, tx Execer, rewardID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE reward_items
		SET stock = stock - 1
		WHERE id = $1 AND stock > 0
	`, rewardID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
