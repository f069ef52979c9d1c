package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/arkadyv/fangate/internal/models"
	"github.com/google/uuid"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user with a generated API key
func (r *UserRepository) Create(u *models.User) error {
	u.ID = uuid.New().String()
	if u.APIKey == "" {
		u.APIKey = uuid.New().String()
	}
	u.CreatedAt = time.Now()

	_, err := r.db.Exec(`
		INSERT INTO users (id, email, name, api_key, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, u.APIKey, u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByAPIKey resolves a user from an API key
func (r *UserRepository) GetByAPIKey(key string) (*models.User, error) {
	u := &models.User{}
	var name sql.NullString

	err := r.db.QueryRow(`
		SELECT id, email, name, api_key, created_at
		FROM users WHERE api_key = ?`, key,
	).Scan(&u.ID, &u.Email, &name, &u.APIKey, &u.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if name.Valid {
		u.Name = name.String
	}
	return u, nil
}
