package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/timiwhyte01/fan-mvp/internal/identity"
	"github.com/timiwhyte01/fan-mvp/internal/otp"
)

// Handler exposes registration, login, one-time-code and profile endpoints.
type Handler struct {
	ids    *identity.Service
	tokens *Service
	codes  *otp.Service
}

// NewHandler constructs an auth HTTP handler.
func NewHandler(ids *identity.Service, tokens *Service, codes *otp.Service) *Handler {
	return &Handler{ids: ids, tokens: tokens, codes: codes}
}

type registerRequest struct {
	Phone     string `json:"phone"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	PIN       string `json:"pin"`
}

type loginRequest struct {
	Phone string `json:"phone"`
	PIN   string `json:"pin"`
}

type userResponse struct {
	ID          string    `json:"id"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email,omitempty"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	KYCLevel    int       `json:"kyc_level"`
	CreditLimit float64   `json:"credit_limit"`
	Status      string    `json:"status"`
	UserType    string    `json:"user_type"`
	CreatedAt   time.Time `json:"created_at"`
}

type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        userResponse `json:"user"`
}

func presentUser(user identity.User) userResponse {
	return userResponse{
		ID:          user.ID,
		Phone:       user.Phone,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		KYCLevel:    user.KYCLevel,
		CreditLimit: user.CreditLimit,
		Status:      user.Status,
		UserType:    user.UserType,
		CreatedAt:   user.CreatedAt,
	}
}

// Register creates a user and returns a bearer token with the profile.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	user, err := h.ids.Register(c.UserContext(), identity.Credentials{
		Phone: req.Phone, PIN: req.PIN, FirstName: req.FirstName, LastName: req.LastName,
	})
	if err != nil {
		if errors.Is(err, identity.ErrPhoneTaken) {
			return fiber.NewError(http.StatusConflict, "phone number already registered")
		}
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	token, err := h.tokens.Issue(user)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(tokenResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresIn:   token.ExpiresIn,
		User:        presentUser(user),
	})
}

// Login verifies credentials and returns a bearer token with the profile.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	user, err := h.ids.Authenticate(c.UserContext(), identity.Credentials{Phone: req.Phone, PIN: req.PIN})
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, "incorrect phone number or PIN")
	}
	token, err := h.tokens.Issue(user)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(tokenResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresIn:   token.ExpiresIn,
		User:        presentUser(user),
	})
}

type sendCodeRequest struct {
	Phone   string `json:"phone"`
	Purpose string `json:"purpose"`
}

// SendCode issues a one-time code to the phone. The code travels through the
// notifier, never through this response.
func (h *Handler) SendCode(c *fiber.Ctx) error {
	var req sendCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Phone == "" {
		return fiber.NewError(http.StatusBadRequest, "phone is required")
	}
	if err := h.codes.Issue(c.UserContext(), req.Phone, req.Purpose); err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "code sent"})
}

type verifyCodeRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// VerifyCode checks a one-time code; a code verifies at most once.
func (h *Handler) VerifyCode(c *fiber.Ctx) error {
	var req verifyCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	ok, err := h.codes.Check(c.UserContext(), req.Phone, req.Code)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	if !ok {
		return fiber.NewError(http.StatusBadRequest, "invalid or expired code")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "code verified", "verified": true})
}

// Me returns the authenticated user's profile.
func (h *Handler) Me(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	user, err := h.ids.Profile(c.UserContext(), uid)
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, "user not found")
	}
	return c.Status(http.StatusOK).JSON(presentUser(user))
}

type updateMeRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
}

// UpdateMe applies profile edits for the authenticated user.
func (h *Handler) UpdateMe(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	var req updateMeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	user, err := h.ids.UpdateProfile(c.UserContext(), uid, identity.ProfileUpdate{
		FirstName: req.FirstName, LastName: req.LastName, Email: req.Email,
	})
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusOK).JSON(presentUser(user))
}
