package station

import "time"

const (
	StatusActive   = "active"
	StatusInactive = "inactive"

	// NearbyLimit caps the number of stations a proximity query returns.
	NearbyLimit = 10
)

// Station is a partner fuel station where advances are redeemed.
type Station struct {
	ID             string
	Name           string
	Address        string
	Latitude       float64
	Longitude      float64
	ContactPhone   string
	ContactEmail   string
	OperatingHours string
	Status         string
	CreatedAt      time.Time
}
