package station

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes station directory endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a station HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Name           string  `json:"name"`
	Address        string  `json:"address"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	ContactPhone   string  `json:"contact_phone"`
	ContactEmail   string  `json:"contact_email"`
	OperatingHours string  `json:"operating_hours"`
}

type stationResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Address        string    `json:"address"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	ContactPhone   string    `json:"contact_phone,omitempty"`
	ContactEmail   string    `json:"contact_email,omitempty"`
	OperatingHours string    `json:"operating_hours,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

func presentStation(st Station) stationResponse {
	return stationResponse{
		ID:             st.ID,
		Name:           st.Name,
		Address:        st.Address,
		Latitude:       st.Latitude,
		Longitude:      st.Longitude,
		ContactPhone:   st.ContactPhone,
		ContactEmail:   st.ContactEmail,
		OperatingHours: st.OperatingHours,
		Status:         st.Status,
		CreatedAt:      st.CreatedAt,
	}
}

func presentStations(stations []Station) []stationResponse {
	out := make([]stationResponse, 0, len(stations))
	for _, st := range stations {
		out = append(out, presentStation(st))
	}
	return out
}

// Create registers a new partner station.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Name == "" || req.Address == "" {
		return fiber.NewError(http.StatusBadRequest, "name and address are required")
	}
	st, err := h.service.Create(c.UserContext(), CreateInput{
		Name:           req.Name,
		Address:        req.Address,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		ContactPhone:   req.ContactPhone,
		ContactEmail:   req.ContactEmail,
		OperatingHours: req.OperatingHours,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidCoordinates) {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(presentStation(st))
}

// List returns all active stations.
func (h *Handler) List(c *fiber.Ctx) error {
	stations, err := h.service.ListActive(c.UserContext())
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(presentStations(stations))
}

// Nearby returns active stations within the requested radius, nearest first.
func (h *Handler) Nearby(c *fiber.Ctx) error {
	lat, err := strconv.ParseFloat(c.Query("latitude"), 64)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "latitude is required")
	}
	lon, err := strconv.ParseFloat(c.Query("longitude"), 64)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "longitude is required")
	}
	radius := 10.0
	if v := c.Query("radius"); v != "" {
		radius, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid radius")
		}
	}

	stations, err := h.service.FindNearby(c.UserContext(), lat, lon, radius)
	if err != nil {
		if errors.Is(err, ErrInvalidCoordinates) {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(presentStations(stations))
}
