package station

import (
	"context"
	"fmt"
	"testing"
)

func seedStation(t *testing.T, svc *Service, name string, lat, lon float64) Station {
	t.Helper()
	st, err := svc.Create(context.Background(), CreateInput{
		Name: name, Address: "Lagos", Latitude: lat, Longitude: lon,
	})
	if err != nil {
		t.Fatalf("create station %s: %v", name, err)
	}
	return st
}

func TestCreateAndListActive(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	st := seedStation(t, svc, "Ikeja", 6.6018, 3.3515)
	if st.Status != StatusActive {
		t.Fatalf("expected active status, got %s", st.Status)
	}

	inactive := st
	inactive.ID = "00000000-0000-0000-0000-000000000001"
	inactive.Status = StatusInactive
	if err := repo.Create(ctx, inactive); err != nil {
		t.Fatalf("seed inactive: %v", err)
	}

	stations, err := svc.ListActive(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(stations) != 1 {
		t.Fatalf("expected only the active station, got %d", len(stations))
	}
}

func TestFindNearbyFiltersAndSorts(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	// Around Lagos Island; Abuja is ~500km away and must be excluded.
	near := seedStation(t, svc, "Marina", 6.4541, 3.3947)
	mid := seedStation(t, svc, "Yaba", 6.5095, 3.3711)
	seedStation(t, svc, "Abuja", 9.0765, 7.3986)

	stations, err := svc.FindNearby(ctx, 6.4550, 3.3940, 25)
	if err != nil {
		t.Fatalf("find nearby: %v", err)
	}
	if len(stations) != 2 {
		t.Fatalf("expected 2 stations within 25km, got %d", len(stations))
	}
	if stations[0].ID != near.ID || stations[1].ID != mid.ID {
		t.Fatalf("expected nearest-first ordering, got %s then %s", stations[0].Name, stations[1].Name)
	}
}

func TestFindNearbyCapsResults(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	for i := 0; i < NearbyLimit+5; i++ {
		seedStation(t, svc, fmt.Sprintf("st-%d", i), 6.45+float64(i)*0.001, 3.39)
	}

	stations, err := svc.FindNearby(ctx, 6.45, 3.39, 50)
	if err != nil {
		t.Fatalf("find nearby: %v", err)
	}
	if len(stations) != NearbyLimit {
		t.Fatalf("expected %d stations, got %d", NearbyLimit, len(stations))
	}
}

func TestFindNearbyDefaultRadius(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	seedStation(t, svc, "Close", 6.4541, 3.3947)
	seedStation(t, svc, "Far", 7.4541, 3.3947)

	stations, err := svc.FindNearby(ctx, 6.4550, 3.3940, 0)
	if err != nil {
		t.Fatalf("find nearby: %v", err)
	}
	if len(stations) != 1 || stations[0].Name != "Close" {
		t.Fatalf("default 10km radius should only include the close station, got %d", len(stations))
	}
}

func TestInvalidCoordinatesRejected(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	if _, err := svc.Create(context.Background(), CreateInput{Name: "bad", Latitude: 120, Longitude: 0}); err != ErrInvalidCoordinates {
		t.Fatalf("expected ErrInvalidCoordinates, got %v", err)
	}
	if _, err := svc.FindNearby(context.Background(), 0, 200, 10); err != ErrInvalidCoordinates {
		t.Fatalf("expected ErrInvalidCoordinates, got %v", err)
	}
}
