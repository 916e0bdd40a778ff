package payment

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/timiwhyte01/fan-mvp/internal/advance"
)

// Handler exposes payment endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a payment HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type recordRequest struct {
	AdvanceID string  `json:"advance_id"`
	Amount    float64 `json:"amount"`
	Method    string  `json:"method"`
}

type paymentResponse struct {
	ID          string    `json:"id"`
	AdvanceID   string    `json:"advance_id"`
	UserID      string    `json:"user_id"`
	Amount      float64   `json:"amount"`
	Method      string    `json:"method"`
	Reference   string    `json:"reference"`
	Status      string    `json:"status"`
	ProcessedAt time.Time `json:"processed_at"`
	CreatedAt   time.Time `json:"created_at"`
}

func presentPayment(p Payment) paymentResponse {
	return paymentResponse{
		ID:          p.ID,
		AdvanceID:   p.AdvanceID,
		UserID:      p.UserID,
		Amount:      p.Amount,
		Method:      p.Method,
		Reference:   p.Reference,
		Status:      p.Status,
		ProcessedAt: p.ProcessedAt,
		CreatedAt:   p.CreatedAt,
	}
}

// Create records a payment against an advance owned by the caller.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req recordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	uid, _ := c.Locals("user_id").(string)

	p, err := h.service.Record(c.UserContext(), RecordInput{
		AdvanceID: req.AdvanceID, UserID: uid, Amount: req.Amount, Method: req.Method,
	})
	if err != nil {
		switch {
		case errors.Is(err, advance.ErrAdvanceNotFound):
			return fiber.NewError(http.StatusNotFound, "advance not found")
		case errors.Is(err, ErrNotOwner):
			return fiber.NewError(http.StatusForbidden, err.Error())
		case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrAmountExceedsAdvance), errors.Is(err, ErrAdvanceNotCompleted):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrReferenceSpaceExhausted):
			return fiber.NewError(http.StatusConflict, err.Error())
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.Status(http.StatusCreated).JSON(presentPayment(p))
}

// ListMine returns all payments of the authenticated user.
func (h *Handler) ListMine(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	payments, err := h.service.ListByUser(c.UserContext(), uid)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	out := make([]paymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, presentPayment(p))
	}
	return c.Status(http.StatusOK).JSON(out)
}
