package otp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/timiwhyte01/fan-mvp/internal/notification"
	"github.com/timiwhyte01/fan-mvp/internal/token"
)

const codeLength = 6

// Service issues and checks one-time codes. Delivery goes through the
// notifier collaborator; the code is never returned to the HTTP caller.
// Guess attempts are not rate limited, matching the reference behavior.
type Service struct {
	repo     Repository
	notifier notification.Notifier
	ttl      time.Duration
	now      func() time.Time
}

// NewService creates a one-time-code service.
func NewService(repo Repository, notifier notification.Notifier, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{repo: repo, notifier: notifier, ttl: ttl, now: time.Now}
}

// Issue persists a fresh 6-digit code for the phone and hands it to the notifier.
func (s *Service) Issue(ctx context.Context, phone, purpose string) error {
	if purpose == "" {
		purpose = PurposePhoneVerification
	}

	digits, err := token.Digits(codeLength)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	code := Code{
		ID:        uuid.New().String(),
		Phone:     phone,
		Code:      digits,
		Purpose:   purpose,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}

	if err := s.repo.Create(ctx, code); err != nil {
		return err
	}

	if s.notifier != nil {
		if err := s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindOTP,
			Destination: phone,
			Body:        fmt.Sprintf("Your verification code is %s", digits),
		}); err != nil {
			return err
		}
	}

	return nil
}

// Check consumes a matching code. It reports true exactly once per issued code.
func (s *Service) Check(ctx context.Context, phone, code string) (bool, error) {
	err := s.repo.Consume(ctx, phone, code, s.now())
	if errors.Is(err, ErrCodeNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
