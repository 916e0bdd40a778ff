package station

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

const earthRadiusKm = 6371.0

// ErrInvalidCoordinates indicates latitude/longitude outside valid ranges.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// Service manages the partner station directory.
type Service struct {
	repo Repository
}

// NewService creates a station service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput captures a new partner station.
type CreateInput struct {
	Name           string
	Address        string
	Latitude       float64
	Longitude      float64
	ContactPhone   string
	ContactEmail   string
	OperatingHours string
}

// Create registers a new active station.
func (s *Service) Create(ctx context.Context, input CreateInput) (Station, error) {
	if err := validateCoordinates(input.Latitude, input.Longitude); err != nil {
		return Station{}, err
	}
	st := Station{
		ID:             uuid.New().String(),
		Name:           input.Name,
		Address:        input.Address,
		Latitude:       input.Latitude,
		Longitude:      input.Longitude,
		ContactPhone:   input.ContactPhone,
		ContactEmail:   input.ContactEmail,
		OperatingHours: input.OperatingHours,
		Status:         StatusActive,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, st); err != nil {
		return Station{}, err
	}
	return st, nil
}

// Get fetches a single station.
func (s *Service) Get(ctx context.Context, id string) (Station, error) {
	return s.repo.FindByID(ctx, id)
}

// ListActive returns all active stations.
func (s *Service) ListActive(ctx context.Context) ([]Station, error) {
	return s.repo.ListActive(ctx)
}

// FindNearby returns active stations within radiusKm of the point, nearest
// first, capped at NearbyLimit.
func (s *Service) FindNearby(ctx context.Context, lat, lon, radiusKm float64) ([]Station, error) {
	if err := validateCoordinates(lat, lon); err != nil {
		return nil, err
	}
	if radiusKm <= 0 {
		radiusKm = 10
	}

	active, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	type ranked struct {
		st       Station
		distance float64
	}
	var within []ranked
	for _, st := range active {
		d := haversineKm(lat, lon, st.Latitude, st.Longitude)
		if d <= radiusKm {
			within = append(within, ranked{st: st, distance: d})
		}
	}
	sort.Slice(within, func(i, j int) bool { return within[i].distance < within[j].distance })

	if len(within) > NearbyLimit {
		within = within[:NearbyLimit]
	}
	stations := make([]Station, 0, len(within))
	for _, r := range within {
		stations = append(stations, r.st)
	}
	return stations, nil
}

func validateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
