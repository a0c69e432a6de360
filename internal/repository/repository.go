package repository

import (
	"github.com/englishai-chat/auth-service/pkg/database"
)

// Repositories holds all repository interfaces
type Repositories struct {
	User             UserRepository
	ExternalIdentity ExternalIdentityRepository
}

// NewRepositories creates all repositories
func NewRepositories(db *database.Postgres) *Repositories {
	return &Repositories{
		User:             NewUserRepository(db),
		ExternalIdentity: NewExternalIdentityRepository(db),
	}
}
