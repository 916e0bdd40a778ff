package identity

import "time"

const (
	// DefaultCreditLimit is the ceiling applied to newly registered users.
	DefaultCreditLimit = 5000.0
	// DefaultKYCLevel is the verification level assigned at registration.
	DefaultKYCLevel = 1

	StatusActive     = "active"
	UserTypeConsumer = "consumer"
)

// User represents a registered fuel-advance customer. Users are never
// hard-deleted; deactivation flips Status.
type User struct {
	ID          string
	Phone       string
	Email       string
	FirstName   string
	LastName    string
	KYCLevel    int
	CreditLimit float64
	PINHash     []byte
	Status      string
	UserType    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Credentials carries a registration or login attempt.
type Credentials struct {
	Phone     string
	PIN       string
	FirstName string
	LastName  string
}

// ProfileUpdate carries optional profile edits; nil fields stay untouched.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Email     *string
}
