package advance

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/timiwhyte01/fan-mvp/internal/identity"
)

// Handler exposes advance endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs an advance HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Amount    float64 `json:"amount"`
	StationID string  `json:"station_id"`
}

type redeemRequest struct {
	Token     string `json:"token"`
	StationID string `json:"station_id"`
}

type advanceResponse struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	StationID   string     `json:"station_id,omitempty"`
	Amount      float64    `json:"amount"`
	Token       string     `json:"token"`
	Status      string     `json:"status"`
	ExpiresAt   time.Time  `json:"expires_at"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func presentAdvance(adv Advance) advanceResponse {
	return advanceResponse{
		ID:          adv.ID,
		UserID:      adv.UserID,
		StationID:   adv.StationID,
		Amount:      adv.Amount,
		Token:       adv.Token,
		Status:      adv.Status,
		ExpiresAt:   adv.ExpiresAt,
		CreatedAt:   adv.CreatedAt,
		CompletedAt: adv.CompletedAt,
	}
}

// Create requests a new advance for the authenticated user.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	uid, _ := c.Locals("user_id").(string)

	adv, err := h.service.Create(c.UserContext(), CreateInput{
		UserID: uid, Amount: req.Amount, StationID: req.StationID,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrCreditLimitExceeded):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, identity.ErrUserNotFound):
			return fiber.NewError(http.StatusUnauthorized, "user not found")
		case errors.Is(err, ErrTokenSpaceExhausted):
			return fiber.NewError(http.StatusConflict, err.Error())
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.Status(http.StatusCreated).JSON(presentAdvance(adv))
}

// ListMine returns all advances of the authenticated user.
func (h *Handler) ListMine(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	advances, err := h.service.ListByUser(c.UserContext(), uid)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	out := make([]advanceResponse, 0, len(advances))
	for _, adv := range advances {
		out = append(out, presentAdvance(adv))
	}
	return c.Status(http.StatusOK).JSON(out)
}

// Redeem consumes a redemption token at a station.
func (h *Handler) Redeem(c *fiber.Ctx) error {
	var req redeemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	adv, err := h.service.Redeem(c.UserContext(), req.Token, req.StationID)
	if err != nil {
		if errors.Is(err, ErrAdvanceNotFound) {
			return fiber.NewError(http.StatusNotFound, "invalid or expired token")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "token redeemed",
		"advance": presentAdvance(adv),
	})
}
