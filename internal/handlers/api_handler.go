package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/message"

	"github.com/hoshichaam/authportal/internal/models"
	"github.com/hoshichaam/authportal/internal/services"
	response "github.com/hoshichaam/authportal/pkg/response"
	vld "github.com/hoshichaam/authportal/pkg/validator"
)

// APIHandler exposes the same flows as JSON for script clients that keep
// their own form state.
type APIHandler struct {
	*web
	signIn *services.SignInService
	signUp *services.SignUpService
}

func NewAPIHandler(w *web, in *services.SignInService, up *services.SignUpService) *APIHandler {
	return &APIHandler{web: w, signIn: in, signUp: up}
}

// POST /api/v1/auth/signin
func (h *APIHandler) SignIn(c *fiber.Ctx) error {
	var form models.SignInForm
	if err := c.BodyParser(&form); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	_, p := h.language(c)

	release, ok := h.enter(c)
	if !ok {
		return mapError(c, p, services.ErrBusy, "")
	}
	defer release()

	res, err := h.signIn.SignIn(c.Context(), form, upstreamCookies(c))
	if err != nil {
		debugPrintln("API SignIn: failed for", maskEmail(form.Email), "err=", err)
		return mapError(c, p, err, "Could not sign in.")
	}
	relayCookies(c, res.SetCookies)
	return response.OK(c, fiber.Map{"redirect": res.Redirect})
}

// POST /api/v1/users/check
func (h *APIHandler) CheckEmail(c *fiber.Ctx) error {
	var req models.EmailCheckRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	_, p := h.language(c)

	if fields, err := vld.ValidateStruct(req); err != nil {
		return response.ValidationError(c, fields.Messages(p))
	}

	release, ok := h.enter(c)
	if !ok {
		return mapError(c, p, services.ErrBusy, "")
	}
	defer release()

	if err := h.signUp.CheckEmail(c.Context(), req.Email); err != nil {
		return mapError(c, p, err, "")
	}
	return response.OK(c, fiber.Map{"available": true})
}

// POST /api/v1/users
func (h *APIHandler) CreateUser(c *fiber.Ctx) error {
	var form models.SignUpForm
	if err := c.BodyParser(&form); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	_, p := h.language(c)

	release, ok := h.enter(c)
	if !ok {
		return mapError(c, p, services.ErrBusy, "")
	}
	defer release()

	if err := h.signUp.Create(c.Context(), form); err != nil {
		debugPrintln("API CreateUser: failed for", maskEmail(form.Email), "err=", err)
		return mapError(c, p, err, "Could not create the account.")
	}
	return response.Created(c, fiber.Map{"email": form.Email})
}

// enter gates on the session cookie when the client sends one.
func (h *APIHandler) enter(c *fiber.Ctx) (func(), bool) {
	return h.gate.enter(c.Cookies(SessionCookie))
}

// mapper error
func mapError(c *fiber.Ctx, p *message.Printer, err error, rejectFallback string) error {
	var ve *services.ValidationError
	var rej *services.RejectedError
	switch {
	case errors.As(err, &ve):
		return response.ValidationError(c, ve.Fields.Messages(p))
	case errors.Is(err, services.ErrEmailInUse):
		return response.FieldsError(c, fiber.StatusConflict, "email already in use",
			map[string]string{"email": p.Sprintf("This address is already in use")})
	case errors.As(err, &rej):
		msg := rej.Message
		if msg == "" {
			msg = p.Sprintf(rejectFallback)
		}
		return response.Error(c, upstreamStatus(rej.Status), msg)
	case errors.Is(err, services.ErrBusy):
		return response.Error(c, fiber.StatusConflict, p.Sprintf("Your previous request is still being processed."))
	case errors.Is(err, services.ErrNetwork):
		return response.Error(c, fiber.StatusBadGateway, p.Sprintf("A network error occurred."))
	default:
		return response.Error(c, fiber.StatusInternalServerError, "internal server error")
	}
}
