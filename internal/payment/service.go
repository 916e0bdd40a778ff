package payment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/timiwhyte01/fan-mvp/internal/advance"
	"github.com/timiwhyte01/fan-mvp/internal/token"
)

const maxReferenceAttempts = 5

var (
	// ErrInvalidAmount indicates a non-positive payment amount.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrAmountExceedsAdvance indicates the payment is larger than the
	// advance it settles.
	ErrAmountExceedsAdvance = errors.New("amount exceeds advance amount")
	// ErrNotOwner indicates the advance belongs to a different user.
	ErrNotOwner = errors.New("advance does not belong to user")
	// ErrAdvanceNotCompleted indicates the advance has not been redeemed yet.
	ErrAdvanceNotCompleted = errors.New("advance not completed")
	// ErrReferenceSpaceExhausted indicates reference generation kept colliding.
	ErrReferenceSpaceExhausted = errors.New("reference space exhausted")
)

// Service records payments against redeemed advances. Ownership, advance
// status and the amount bound are enforced here rather than left to the
// boundary layer. Several payments may settle one advance.
type Service struct {
	repo     Repository
	advances *advance.Service
	now      func() time.Time
}

// NewService creates a payment service.
func NewService(repo Repository, advances *advance.Service) *Service {
	return &Service{repo: repo, advances: advances, now: time.Now}
}

// RecordInput captures a payment to record.
type RecordInput struct {
	AdvanceID string
	UserID    string
	Amount    float64
	Method    string
}

// Record validates the advance and writes a completed payment row with a
// unique PAY_ reference, retrying generation on collision.
func (s *Service) Record(ctx context.Context, input RecordInput) (Payment, error) {
	if input.Amount <= 0 {
		return Payment{}, ErrInvalidAmount
	}

	adv, err := s.advances.Get(ctx, input.AdvanceID)
	if err != nil {
		return Payment{}, err
	}
	if adv.UserID != input.UserID {
		return Payment{}, ErrNotOwner
	}
	if adv.Status != advance.StatusCompleted {
		return Payment{}, ErrAdvanceNotCompleted
	}
	if input.Amount > adv.Amount {
		return Payment{}, ErrAmountExceedsAdvance
	}

	now := s.now().UTC()
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		suffix, err := token.Alphanumeric(ReferenceSuffixLength)
		if err != nil {
			return Payment{}, err
		}
		p := Payment{
			ID:          uuid.New().String(),
			AdvanceID:   adv.ID,
			UserID:      input.UserID,
			Amount:      input.Amount,
			Method:      input.Method,
			Reference:   ReferencePrefix + suffix,
			Status:      StatusCompleted,
			ProcessedAt: now,
			CreatedAt:   now,
		}
		err = s.repo.Create(ctx, p)
		if errors.Is(err, ErrReferenceExists) {
			continue
		}
		if err != nil {
			return Payment{}, err
		}
		return p, nil
	}
	return Payment{}, ErrReferenceSpaceExhausted
}

// ListByUser returns all payments recorded for the user.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]Payment, error) {
	return s.repo.ListByUser(ctx, userID)
}
