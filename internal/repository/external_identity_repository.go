package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/englishai-chat/auth-service/internal/domain"
	"github.com/englishai-chat/auth-service/pkg/database"
)

// externalIdentityRepository implements ExternalIdentityRepository interface
type externalIdentityRepository struct {
	db *database.Postgres
}

// NewExternalIdentityRepository creates a new external identity repository
func NewExternalIdentityRepository(db *database.Postgres) ExternalIdentityRepository {
	return &externalIdentityRepository{db: db}
}

// Create links a user to a provider account. Uniqueness of
// (provider, provider_user_id) is enforced by the database.
func (r *externalIdentityRepository) Create(ctx context.Context, identity *domain.ExternalIdentity) error {
	query := `
		INSERT INTO external_identities (id, user_id, provider, provider_user_id, email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	// Generate UUID if not provided
	if identity.ID == "" {
		identity.ID = uuid.New().String()
	}

	if identity.CreatedAt.IsZero() {
		identity.CreatedAt = time.Now()
	}

	_, err := r.db.DB.ExecContext(ctx, query,
		identity.ID,
		identity.UserID,
		identity.Provider,
		identity.ProviderUserID,
		identity.Email,
		identity.CreatedAt,
	)

	if err != nil {
		// Check for unique constraint violation (duplicate provider + provider_user_id)
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				return fmt.Errorf("external identity already exists: %w", ErrDuplicateExternalIdentity)
			}
		}
		return fmt.Errorf("failed to create external identity: %w", err)
	}

	return nil
}

// GetByProvider retrieves an external identity by provider and provider user ID
func (r *externalIdentityRepository) GetByProvider(ctx context.Context, provider, providerUserID string) (*domain.ExternalIdentity, error) {
	query := `
		SELECT id, user_id, provider, provider_user_id, email, created_at
		FROM external_identities
		WHERE provider = $1 AND provider_user_id = $2
	`

	identity := &domain.ExternalIdentity{}
	var email sql.NullString

	err := r.db.DB.QueryRowContext(ctx, query, provider, providerUserID).Scan(
		&identity.ID,
		&identity.UserID,
		&identity.Provider,
		&identity.ProviderUserID,
		&email,
		&identity.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("external identity not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get external identity: %w", err)
	}

	if email.Valid {
		identity.Email = &email.String
	}

	return identity, nil
}

// GetByUserID retrieves all external identities for a user
func (r *externalIdentityRepository) GetByUserID(ctx context.Context, userID string) ([]*domain.ExternalIdentity, error) {
	query := `
		SELECT id, user_id, provider, provider_user_id, email, created_at
		FROM external_identities
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get external identities by user id: %w", err)
	}
	defer rows.Close()

	var identities []*domain.ExternalIdentity
	for rows.Next() {
		identity := &domain.ExternalIdentity{}
		var email sql.NullString

		err := rows.Scan(
			&identity.ID,
			&identity.UserID,
			&identity.Provider,
			&identity.ProviderUserID,
			&email,
			&identity.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan external identity: %w", err)
		}

		if email.Valid {
			identity.Email = &email.String
		}

		identities = append(identities, identity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate external identities: %w", err)
	}

	return identities, nil
}
