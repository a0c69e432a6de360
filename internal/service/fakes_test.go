package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/englishai-chat/auth-service/internal/domain"
	"github.com/englishai-chat/auth-service/internal/mailer"
	"github.com/englishai-chat/auth-service/internal/repository"
)

// fakeUserRepository is an in-memory UserRepository for unit tests. It
// mirrors the database behavior the real repository relies on: unique
// lower-cased emails and expiry-checked token lookups.
type fakeUserRepository struct {
	mu        sync.RWMutex
	users     map[string]*domain.User
	createErr error
	getErr    error
	updateErr error
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[string]*domain.User)}
}

func (f *fakeUserRepository) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}

	for _, existing := range f.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return fmt.Errorf("duplicate: %w", repository.ErrDuplicateEmail)
		}
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.getErr != nil {
		return nil, f.getErr
	}

	for _, user := range f.users {
		if strings.EqualFold(user.Email, email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("not found: %w", repository.ErrNotFound)
}

func (f *fakeUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.getErr != nil {
		return nil, f.getErr
	}

	user, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("not found: %w", repository.ErrNotFound)
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepository) GetByVerificationToken(_ context.Context, token string) (*domain.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, user := range f.users {
		if user.EmailVerificationToken != nil && *user.EmailVerificationToken == token &&
			user.EmailVerificationExpiresAt != nil && user.EmailVerificationExpiresAt.After(time.Now()) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("not found: %w", repository.ErrNotFound)
}

func (f *fakeUserRepository) GetByResetToken(_ context.Context, token string) (*domain.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, user := range f.users {
		if user.PasswordResetToken != nil && *user.PasswordResetToken == token &&
			user.PasswordResetExpiresAt != nil && user.PasswordResetExpiresAt.After(time.Now()) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("not found: %w", repository.ErrNotFound)
}

func (f *fakeUserRepository) Update(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateErr != nil {
		return f.updateErr
	}

	stored, ok := f.users[user.ID]
	if !ok {
		return fmt.Errorf("not found: %w", repository.ErrNotFound)
	}

	updated := *user
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = time.Now()
	f.users[user.ID] = &updated
	return nil
}

func (f *fakeUserRepository) UpdateLastLogin(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[userID]
	if !ok {
		return fmt.Errorf("not found: %w", repository.ErrNotFound)
	}
	now := time.Now()
	user.LastLoginAt = &now
	return nil
}

func (f *fakeUserRepository) count() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.users)
}

// fakeIdentityRepository is an in-memory ExternalIdentityRepository
type fakeIdentityRepository struct {
	mu         sync.RWMutex
	identities []*domain.ExternalIdentity
}

func newFakeIdentityRepository() *fakeIdentityRepository {
	return &fakeIdentityRepository{}
}

func (f *fakeIdentityRepository) Create(_ context.Context, identity *domain.ExternalIdentity) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.identities {
		if existing.Provider == identity.Provider && existing.ProviderUserID == identity.ProviderUserID {
			return fmt.Errorf("duplicate: %w", repository.ErrDuplicateExternalIdentity)
		}
	}

	if identity.ID == "" {
		identity.ID = uuid.New().String()
	}
	identity.CreatedAt = time.Now()

	stored := *identity
	f.identities = append(f.identities, &stored)
	return nil
}

func (f *fakeIdentityRepository) GetByProvider(_ context.Context, provider, providerUserID string) (*domain.ExternalIdentity, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, identity := range f.identities {
		if identity.Provider == provider && identity.ProviderUserID == providerUserID {
			copied := *identity
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("not found: %w", repository.ErrNotFound)
}

func (f *fakeIdentityRepository) GetByUserID(_ context.Context, userID string) ([]*domain.ExternalIdentity, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var result []*domain.ExternalIdentity
	for _, identity := range f.identities {
		if identity.UserID == userID {
			copied := *identity
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (f *fakeIdentityRepository) count() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.identities)
}

// fakeMailer records dispatches and returns a programmable result
type fakeMailer struct {
	mu     sync.Mutex
	result mailer.Result
	sent   []sentEmail
}

type sentEmail struct {
	to      string
	subject string
	html    string
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{result: mailer.Result{Status: mailer.StatusSent}}
}

func (f *fakeMailer) Send(_ context.Context, to, subject, html string) mailer.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentEmail{to: to, subject: subject, html: html})
	return f.result
}

func (f *fakeMailer) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func (f *fakeMailer) lastSent() sentEmail {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1]
}
