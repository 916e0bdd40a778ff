package payment

import "time"

const (
	// StatusCompleted is the only outcome modeled: recording a payment
	// writes a completed row. No pending/failed rail states exist.
	StatusCompleted = "completed"

	// ReferencePrefix starts every payment reference.
	ReferencePrefix = "PAY_"
	// ReferenceSuffixLength is the random part of the reference.
	ReferenceSuffixLength = 10
)

// Payment records money collected against a redeemed advance.
type Payment struct {
	ID          string
	AdvanceID   string
	UserID      string
	Amount      float64
	Method      string
	Reference   string
	Status      string
	ProcessedAt time.Time
	CreatedAt   time.Time
}
