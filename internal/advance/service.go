package advance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/timiwhyte01/fan-mvp/internal/identity"
	"github.com/timiwhyte01/fan-mvp/internal/token"
)

const maxTokenAttempts = 5

var (
	// ErrInvalidAmount indicates a non-positive advance amount.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrCreditLimitExceeded indicates the requested amount is above the
	// user's credit limit. The limit is checked at creation time only.
	ErrCreditLimitExceeded = errors.New("amount exceeds credit limit")
	// ErrTokenSpaceExhausted indicates token generation kept colliding.
	ErrTokenSpaceExhausted = errors.New("token space exhausted")
)

// Service owns the advance lifecycle: creation with a unique redemption
// token, listing, and the single pending→completed redemption transition.
type Service struct {
	repo  Repository
	users identity.Repository
	ttl   time.Duration
	now   func() time.Time
}

// NewService creates an advance service.
func NewService(repo Repository, users identity.Repository, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{repo: repo, users: users, ttl: ttl, now: time.Now}
}

// CreateInput captures an advance request.
type CreateInput struct {
	UserID    string
	Amount    float64
	StationID string
}

// Create validates the amount against the user's credit limit and inserts
// a pending advance. Token generation retries on collision with a bounded
// attempt count.
func (s *Service) Create(ctx context.Context, input CreateInput) (Advance, error) {
	if input.Amount <= 0 {
		return Advance{}, ErrInvalidAmount
	}

	user, err := s.users.FindByID(ctx, input.UserID)
	if err != nil {
		return Advance{}, err
	}
	if input.Amount > user.CreditLimit {
		return Advance{}, ErrCreditLimitExceeded
	}

	now := s.now().UTC()
	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		tok, err := token.Alphanumeric(TokenLength)
		if err != nil {
			return Advance{}, err
		}
		adv := Advance{
			ID:        uuid.New().String(),
			UserID:    user.ID,
			StationID: input.StationID,
			Amount:    input.Amount,
			Token:     tok,
			Status:    StatusPending,
			ExpiresAt: now.Add(s.ttl),
			CreatedAt: now,
		}
		err = s.repo.Create(ctx, adv)
		if errors.Is(err, ErrTokenExists) {
			continue
		}
		if err != nil {
			return Advance{}, err
		}
		return adv, nil
	}
	return Advance{}, ErrTokenSpaceExhausted
}

// ListByUser returns all advances for the user regardless of status.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]Advance, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Get fetches a single advance.
func (s *Service) Get(ctx context.Context, id string) (Advance, error) {
	return s.repo.FindByID(ctx, id)
}

// Redeem consumes a token at a station. Wrong token, already-completed and
// expired all surface as ErrAdvanceNotFound; the repository guarantees at
// most one concurrent caller succeeds.
func (s *Service) Redeem(ctx context.Context, tok, stationID string) (Advance, error) {
	if tok == "" || stationID == "" {
		return Advance{}, ErrAdvanceNotFound
	}
	return s.repo.Redeem(ctx, tok, stationID, s.now())
}
