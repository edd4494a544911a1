package repositories

import (
	"context"
	"errors"
	"fmt"

	"stocksense/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	// Upsert inserts the user or, when the Google subject already exists,
	// refreshes name and email and returns the stored row.
	Upsert(ctx context.Context, user *models.User) (*models.User, error)
}

type userRepo struct {
	db DB
}

func NewUserRepository(db DB) UserRepository {
	return &userRepo{db: db}
}

const userColumns = "id, google_id, email, name, role, created_at, updated_at"

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1", userColumns)
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *userRepo) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE google_id = $1", userColumns)
	return r.scanUser(r.db.QueryRow(ctx, query, googleID))
}

func (r *userRepo) Upsert(ctx context.Context, user *models.User) (*models.User, error) {
	query := fmt.Sprintf(`
		INSERT INTO users (id, google_id, email, name, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (google_id) DO UPDATE SET email = EXCLUDED.email, name = EXCLUDED.name, updated_at = NOW()
		RETURNING %s
	`, userColumns)
	return r.scanUser(r.db.QueryRow(ctx, query, user.ID, user.GoogleID, user.Email, user.Name, user.Role))
}

func (r *userRepo) scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.GoogleID, &user.Email, &user.Name, &user.Role,
		&user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return user, nil
}
