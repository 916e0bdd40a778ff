package otp

import "time"

// PurposePhoneVerification is the default purpose tag for issued codes.
const PurposePhoneVerification = "phone_verification"

// Code is a short-lived numeric code bound to a phone number. Records are
// never deleted; consumed codes keep Verified=true.
type Code struct {
	ID        string
	Phone     string
	Code      string
	Purpose   string
	Verified  bool
	ExpiresAt time.Time
	CreatedAt time.Time
}
