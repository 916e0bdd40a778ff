package payment

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/timiwhyte01/fan-mvp/internal/advance"
	"github.com/timiwhyte01/fan-mvp/internal/identity"
)

var referencePattern = regexp.MustCompile(`^PAY_[A-Z0-9]{10}$`)

type fixture struct {
	svc      *Service
	advances *advance.Service
	user     identity.User
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	users := identity.NewMemoryRepository()
	user := identity.User{ID: uuid.New().String(), Phone: "+2348000000001", CreditLimit: 5000}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	advances := advance.NewService(advance.NewMemoryRepository(), users, 24*time.Hour)
	return fixture{svc: NewService(NewMemoryRepository(), advances), advances: advances, user: user}
}

func (f fixture) redeemedAdvance(t *testing.T, amount float64) advance.Advance {
	t.Helper()
	ctx := context.Background()
	adv, err := f.advances.Create(ctx, advance.CreateInput{UserID: f.user.ID, Amount: amount})
	if err != nil {
		t.Fatalf("create advance: %v", err)
	}
	redeemed, err := f.advances.Redeem(ctx, adv.Token, uuid.New().String())
	if err != nil {
		t.Fatalf("redeem advance: %v", err)
	}
	return redeemed
}

func TestRecordPayment(t *testing.T) {
	f := newFixture(t)
	adv := f.redeemedAdvance(t, 1000)

	p, err := f.svc.Record(context.Background(), RecordInput{
		AdvanceID: adv.ID, UserID: f.user.ID, Amount: 1000, Method: "card",
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if p.Status != StatusCompleted {
		t.Fatalf("expected completed payment, got %s", p.Status)
	}
	if !referencePattern.MatchString(p.Reference) {
		t.Fatalf("reference %q does not match PAY_[A-Z0-9]{10}", p.Reference)
	}
	if p.ProcessedAt.IsZero() {
		t.Fatalf("processed timestamp must be set")
	}
}

func TestRecordRejectsForeignAdvance(t *testing.T) {
	f := newFixture(t)
	adv := f.redeemedAdvance(t, 1000)

	if _, err := f.svc.Record(context.Background(), RecordInput{
		AdvanceID: adv.ID, UserID: uuid.New().String(), Amount: 500, Method: "card",
	}); err != ErrNotOwner {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestRecordRejectsPendingAdvance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	adv, err := f.advances.Create(ctx, advance.CreateInput{UserID: f.user.ID, Amount: 1000})
	if err != nil {
		t.Fatalf("create advance: %v", err)
	}

	if _, err := f.svc.Record(ctx, RecordInput{
		AdvanceID: adv.ID, UserID: f.user.ID, Amount: 500, Method: "card",
	}); err != ErrAdvanceNotCompleted {
		t.Fatalf("expected ErrAdvanceNotCompleted, got %v", err)
	}
}

func TestRecordRejectsBadAmounts(t *testing.T) {
	f := newFixture(t)
	adv := f.redeemedAdvance(t, 1000)
	ctx := context.Background()

	if _, err := f.svc.Record(ctx, RecordInput{AdvanceID: adv.ID, UserID: f.user.ID, Amount: 0, Method: "card"}); err != ErrInvalidAmount {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := f.svc.Record(ctx, RecordInput{AdvanceID: adv.ID, UserID: f.user.ID, Amount: 1500, Method: "card"}); err != ErrAmountExceedsAdvance {
		t.Fatalf("expected ErrAmountExceedsAdvance, got %v", err)
	}
}

func TestMultiplePaymentsPerAdvanceAllowed(t *testing.T) {
	f := newFixture(t)
	adv := f.redeemedAdvance(t, 1000)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := f.svc.Record(ctx, RecordInput{AdvanceID: adv.ID, UserID: f.user.ID, Amount: 400, Method: "cash"}); err != nil {
			t.Fatalf("payment %d: %v", i, err)
		}
	}

	payments, err := f.svc.ListByUser(ctx, f.user.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(payments) != 2 {
		t.Fatalf("expected 2 payments, got %d", len(payments))
	}
}

func TestReferencesUniqueAcrossManyPayments(t *testing.T) {
	f := newFixture(t)
	adv := f.redeemedAdvance(t, 5000)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		p, err := f.svc.Record(ctx, RecordInput{AdvanceID: adv.ID, UserID: f.user.ID, Amount: 1, Method: "card"})
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		if seen[p.Reference] {
			t.Fatalf("reference collision at iteration %d: %s", i, p.Reference)
		}
		seen[p.Reference] = true
	}
}

func TestRecordRetriesOnReferenceCollision(t *testing.T) {
	f := newFixture(t)
	adv := f.redeemedAdvance(t, 1000)

	repo := &collidingRepository{Repository: NewMemoryRepository(), failures: maxReferenceAttempts + 1}
	svc := NewService(repo, f.advances)
	if _, err := svc.Record(context.Background(), RecordInput{AdvanceID: adv.ID, UserID: f.user.ID, Amount: 100, Method: "card"}); err != ErrReferenceSpaceExhausted {
		t.Fatalf("expected ErrReferenceSpaceExhausted, got %v", err)
	}
}

type collidingRepository struct {
	Repository
	failures int
}

func (r *collidingRepository) Create(ctx context.Context, p Payment) error {
	if r.failures > 0 {
		r.failures--
		return ErrReferenceExists
	}
	return r.Repository.Create(ctx, p)
}
