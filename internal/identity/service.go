package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials covers both unknown phone and PIN mismatch so the
	// caller cannot distinguish them and enumerate registered numbers.
	ErrInvalidCredentials = errors.New("invalid phone or PIN")
	// ErrWeakPIN indicates the PIN does not meet the minimum length.
	ErrWeakPIN = errors.New("PIN must be at least 4 digits")
)

// Service manages user lifecycle and PIN verification.
type Service struct {
	repo Repository
}

// NewService creates a new identity service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a new consumer user and stores a salted bcrypt PIN hash.
func (s *Service) Register(ctx context.Context, creds Credentials) (User, error) {
	if len(creds.PIN) < 4 {
		return User{}, ErrWeakPIN
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.PIN), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	now := time.Now().UTC()
	user := User{
		ID:          uuid.New().String(),
		Phone:       creds.Phone,
		FirstName:   creds.FirstName,
		LastName:    creds.LastName,
		KYCLevel:    DefaultKYCLevel,
		CreditLimit: DefaultCreditLimit,
		PINHash:     hash,
		Status:      StatusActive,
		UserType:    UserTypeConsumer,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}

	return user, nil
}

// Authenticate verifies phone and PIN against the stored hash.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (User, error) {
	user, err := s.repo.FindByPhone(ctx, creds.Phone)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PINHash, []byte(creds.PIN)); err != nil {
		return User{}, ErrInvalidCredentials
	}

	return user, nil
}

// Profile fetches a user by identifier.
func (s *Service) Profile(ctx context.Context, id string) (User, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateProfile applies optional profile edits.
func (s *Service) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (User, error) {
	return s.repo.UpdateProfile(ctx, id, update)
}
