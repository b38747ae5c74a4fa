package store

import (
	"context"

	"bizos/internal/models"
)

type QuestStore struct {
	db DB
}

func NewQuestStore(db DB) *QuestStore {
	return &QuestStore{db: db}
}

type QuestInput struct {
	ID          string
	TenantID    string
	Code        string
	Title       string
	Description string
	Reward      int64
	Period      string
	Active      bool
}

func (s *QuestStore) Create(ctx context.Context, tx Execer, input QuestInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO quests (id, tenant_id, code, title, description, reward, period, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, input.ID, input.TenantID, input.Code, input.Title, input.Description,
		input.Reward, input.Period, input.Active)
	return err
}

func (s *QuestStore) ListActive(ctx context.Context, tenantID string) ([]models.Quest, error) {
	var rows []models.Quest
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, tenant_id, code, title, description, reward, period, active, created_at
		FROM quests
		WHERE tenant_id = $1 AND active = TRUE
		ORDER BY code
	`, tenantID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *QuestStore) GetActiveByCode(ctx context.Context, tenantID, code string) (models.Quest, error) {
	var row models.Quest
	err := s.db.GetContext(ctx, &row, `
		SELECT id, tenant_id, code, title, description, reward, period, active, created_at
		FROM quests
		WHERE tenant_id = $1 AND code = $2 AND active = TRUE
	`, tenantID, code)
	if err != nil {
		return models.Quest{}, err
	}
	return row, nil
}
