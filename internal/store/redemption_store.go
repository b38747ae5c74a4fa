package store

import (
	"context"

	"bizos/internal/models"
)

type RedemptionStore struct {
	db DB
}

func NewRedemptionStore(db DB) *RedemptionStore {
	return &RedemptionStore{db: db}
}

type RedemptionInput struct {
	ID          string
	TenantID    string
	UserID      string
	RewardID    string
	RewardName  string
	PointsSpent int64
	Status      string
}

func (s *RedemptionStore) Insert(ctx context.Context, tx Execer, input RedemptionInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO redemptions (id, tenant_id, user_id, reward_id, reward_name, points_spent, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, input.ID, input.TenantID, input.UserID, input.RewardID, input.RewardName,
		input.PointsSpent, input.Status)
	return err
}

func (s *RedemptionStore) ListByUser(ctx context.Context, tenantID, userID string, limit int) ([]models.Redemption, error) {
	var rows []models.Redemption
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, tenant_id, user_id, reward_id, reward_name, points_spent, status, created_at
		FROM redemptions
		WHERE tenant_id = $1 AND user_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`, tenantID, userID, limit)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *RedemptionStore) GetByID(ctx context.Context, tenantID, redemptionID string) (models.Redemption, error) {
	var row models.Redemption
	err := s.db.GetContext(ctx, &row, `
		SELECT id, tenant_id, user_id, reward_id, reward_name, points_spent, status, created_at
		FROM redemptions
		WHERE tenant_id = $1 AND id = $2
	`, tenantID, redemptionID)
	if err != nil {
		return models.Redemption{}, err
	}
	return row, nil
}

// TransitionStatus moves a redemption from one status to another, guarded
// in SQL so only the expected transition applies; returns rows changed.
func (s *RedemptionStore) TransitionStatus(ctx context.Context, tx Execer, redemptionID, from, to string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE redemptions
		SET status = $1
		WHERE id = $2 AND status = $3
	`, to, redemptionID, from)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
