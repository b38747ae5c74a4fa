package store

import (
	"context"

	"bizos/internal/models"
)

type UserStore struct {
	db DB
}

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, tx Execer, id, tenantID, username, email, passwordHash string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO users (id, tenant_id, username, email, password_hash)
		VALUES ($1, $2, $3, $4, $5)
	`, id, tenantID, username, email, passwordHash)
	return err
}

func (s *UserStore) GetByEmail(ctx context.Context, tenantID, email string) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, tenant_id, username, email, password_hash, created_at
		FROM users
		WHERE tenant_id = $1 AND email = $2
	`, tenantID, email)
	if err != nil {
		return models.User{}, err
	}
	return row, nil
}

func (s *UserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, tenant_id, username, email, password_hash, created_at
		FROM users
		WHERE id = $1
	`, userID)
	if err != nil {
		return models.User{}, err
	}
	return row, nil
}
