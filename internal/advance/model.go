package advance

import "time"

const (
	// StatusPending marks an advance waiting to be redeemed at a station.
	StatusPending = "pending"
	// StatusCompleted is the terminal state reached by redemption. There is
	// no reverse transition and no other status value.
	StatusCompleted = "completed"

	// TokenLength is the size of the redemption token.
	TokenLength = 12
)

// Advance is a cash/fuel credit extended to a user, redeemable once at a
// partner station via its token. Expiry is checked lazily at redemption
// time; there is no background sweep.
type Advance struct {
	ID          string
	UserID      string
	StationID   string
	Amount      float64
	Token       string
	Status      string
	ExpiresAt   time.Time
	CreatedAt   time.Time
	CompletedAt *time.Time
}
