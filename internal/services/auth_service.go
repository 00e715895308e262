package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mcdur/task-management-api/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrDuplicateAccount     = errors.New("duplicate account username")
)

// PasswordHasher hashes passwords and verifies them against stored hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns nil when password matches hash.
	Compare(hash, password string) error
}

// BcryptHasher implements PasswordHasher using bcrypt.
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher creates a BcryptHasher. A zero cost uses bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{Cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToHashPassword, err)
	}
	return string(hashed), nil
}

func (h *BcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// IsBcryptHash reports whether s is already a bcrypt hash.
func IsBcryptHash(s string) bool {
	_, err := bcrypt.Cost([]byte(s))
	return err == nil
}

// Principal is an authenticated caller.
type Principal struct {
	Username string
	Roles    []models.Role
}

// HasRole reports whether any of the principal's roles satisfies required.
func (p *Principal) HasRole(required models.Role) bool {
	for _, r := range p.Roles {
		if r.Satisfies(required) {
			return true
		}
	}
	return false
}

// CredentialProvider verifies a username and password and returns the
// caller's roles.
type CredentialProvider interface {
	Verify(ctx context.Context, username, password string) (*Principal, error)
}

// Account is a directory entry. Password may be plaintext or a bcrypt hash.
type Account struct {
	Username string
	Password string
	Roles    []models.Role
}

type directoryEntry struct {
	passwordHash string
	roles        []models.Role
}

// StaticCredentialStore is a CredentialProvider over a directory fixed at
// construction. It is read-only and safe for concurrent use.
type StaticCredentialStore struct {
	hasher  PasswordHasher
	entries map[string]directoryEntry
	// dummyHash is compared for unknown usernames so that both branches cost
	// one bcrypt comparison.
	dummyHash string
}

// NewStaticCredentialStore provisions the directory, hashing any plaintext
// passwords up front.
func NewStaticCredentialStore(hasher PasswordHasher, accounts ...Account) (*StaticCredentialStore, error) {
	entries := make(map[string]directoryEntry, len(accounts))

	for _, account := range accounts {
		username := strings.TrimSpace(account.Username)
		if username == "" {
			return nil, ErrUsernameRequired
		}
		if _, exists := entries[username]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAccount, username)
		}

		hash := account.Password
		if !IsBcryptHash(hash) {
			var err error
			hash, err = hasher.Hash(account.Password)
			if err != nil {
				return nil, err
			}
		}

		entries[username] = directoryEntry{
			passwordHash: hash,
			roles:        append([]models.Role(nil), account.Roles...),
		}
	}

	dummyHash, err := hasher.Hash("unknown-account-placeholder")
	if err != nil {
		return nil, err
	}

	return &StaticCredentialStore{
		hasher:    hasher,
		entries:   entries,
		dummyHash: dummyHash,
	}, nil
}

// Verify checks the password against the stored hash.
func (s *StaticCredentialStore) Verify(_ context.Context, username, password string) (*Principal, error) {
	entry, ok := s.entries[username]
	if !ok {
		_ = s.hasher.Compare(s.dummyHash, password)
		return nil, ErrInvalidCredentials
	}

	if err := s.hasher.Compare(entry.passwordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &Principal{
		Username: username,
		Roles:    append([]models.Role(nil), entry.roles...),
	}, nil
}
