package handlers

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/hoshichaam/authportal/internal/middleware"
	"github.com/hoshichaam/authportal/internal/models"
	"github.com/hoshichaam/authportal/internal/services"
	"github.com/hoshichaam/authportal/internal/views"
)

type SignInHandler struct {
	*web
	svc *services.SignInService
}

func NewSignInHandler(w *web, s *services.SignInService) *SignInHandler {
	return &SignInHandler{web: w, svc: s}
}

// GET /signin
func (h *SignInHandler) Show(c *fiber.Ctx) error {
	page := h.page(c, "Sign in")
	return views.Render(c, fiber.StatusOK, views.SignIn, page)
}

// POST /signin
func (h *SignInHandler) Submit(c *fiber.Ctx) error {
	var form models.SignInForm
	_ = c.BodyParser(&form) // body rusak = form kosong, validasi yang menolak

	page := h.page(c, "Sign in")
	page.Values["email"] = form.Email
	page.Values["password"] = form.Password
	page.Show["password"] = c.FormValue("show_password") == "1"

	if c.FormValue("action") == "toggle_password" {
		page.Show["password"] = !page.Show["password"]
		return views.Render(c, fiber.StatusOK, views.SignIn, page)
	}

	key, err := h.visitor(c)
	if err != nil {
		return err
	}
	release, ok := h.gate.enter(key)
	if !ok {
		describe(services.ErrBusy, page.Printer(), "", "").apply(&page)
		return views.Render(c, fiber.StatusConflict, views.SignIn, page)
	}
	defer release()

	debugPrintln("SIGNIN: submit for", maskEmail(form.Email))
	res, err := h.svc.SignIn(c.Context(), form, upstreamCookies(c))
	if err != nil {
		debugPrintln("SIGNIN: failed for", maskEmail(form.Email), "err=", err)
		f := describe(err, page.Printer(), "Sign-in failed", "Could not sign in.")
		f.apply(&page)
		return views.Render(c, f.status, views.SignIn, page)
	}

	relayCookies(c, res.SetCookies)
	p := page.Printer()
	notice := middleware.Notice{
		Kind:    middleware.KindSuccess,
		Title:   p.Sprintf("Signed in"),
		Message: p.Sprintf("You have signed in successfully."),
	}
	debugPrintln("SIGNIN: success", maskEmail(form.Email), "redirect=", res.Redirect)

	// notice cookie hanya dibaca oleh screen milik sendiri
	if ownScreen(res.Redirect) {
		if err := h.flash.Write(c, notice); err != nil {
			return err
		}
		return c.Redirect(res.Redirect, fiber.StatusSeeOther)
	}

	done := h.page(c, "Signed in")
	done.Notice = &notice
	done.Next = res.Redirect
	return views.Render(c, fiber.StatusOK, views.SignedIn, done)
}

// ownScreen reports whether target is served by this app and so reads the
// notice cookie.
func ownScreen(target string) bool {
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return false
	}
	switch strings.TrimSuffix(u.Path, "/") {
	case "", "/signin", "/signup":
		return true
	}
	return false
}
