package identity

import (
	"context"
	"testing"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)

	ctx := context.Background()
	user, err := svc.Register(ctx, Credentials{Phone: "+2348000000001", PIN: "1234", FirstName: "Ada", LastName: "Okafor"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if user.CreditLimit != DefaultCreditLimit {
		t.Fatalf("expected default credit limit %v, got %v", DefaultCreditLimit, user.CreditLimit)
	}
	if user.Status != StatusActive {
		t.Fatalf("expected active status, got %s", user.Status)
	}
	if string(user.PINHash) == "1234" {
		t.Fatalf("PIN stored in plaintext")
	}

	authed, err := svc.Authenticate(ctx, Credentials{Phone: user.Phone, PIN: "1234"})
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if authed.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, authed.ID)
	}

	if _, err := svc.Authenticate(ctx, Credentials{Phone: user.Phone, PIN: "9999"}); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for wrong PIN, got %v", err)
	}
}

func TestRegisterDuplicatePhone(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, Credentials{Phone: "+2348000000002", PIN: "1234", FirstName: "A", LastName: "B"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, Credentials{Phone: "+2348000000002", PIN: "5678", FirstName: "C", LastName: "D"}); err != ErrPhoneTaken {
		t.Fatalf("expected ErrPhoneTaken, got %v", err)
	}
}

func TestAuthenticateUnknownPhoneIndistinguishable(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, Credentials{Phone: "+2348000000003", PIN: "1234", FirstName: "A", LastName: "B"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, unknownErr := svc.Authenticate(ctx, Credentials{Phone: "+2348099999999", PIN: "1234"})
	_, badPINErr := svc.Authenticate(ctx, Credentials{Phone: "+2348000000003", PIN: "0000"})
	if unknownErr != ErrInvalidCredentials || badPINErr != ErrInvalidCredentials {
		t.Fatalf("login failures must be indistinguishable, got %v and %v", unknownErr, badPINErr)
	}
}

func TestRegisterWeakPIN(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	if _, err := svc.Register(context.Background(), Credentials{Phone: "+2348000000004", PIN: "12"}); err != ErrWeakPIN {
		t.Fatalf("expected ErrWeakPIN, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	user, err := svc.Register(ctx, Credentials{Phone: "+2348000000005", PIN: "1234", FirstName: "Ada", LastName: "Okafor"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	email := "ada@example.com"
	updated, err := svc.UpdateProfile(ctx, user.ID, ProfileUpdate{Email: &email})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.Email != email {
		t.Fatalf("expected email %s, got %s", email, updated.Email)
	}
	if updated.FirstName != "Ada" {
		t.Fatalf("unset fields must be preserved, got %s", updated.FirstName)
	}
}
