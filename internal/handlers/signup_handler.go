package handlers

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/hoshichaam/authportal/internal/middleware"
	"github.com/hoshichaam/authportal/internal/models"
	"github.com/hoshichaam/authportal/internal/services"
	"github.com/hoshichaam/authportal/internal/views"
)

const wizardKey = "signup_wizard"

type SignUpHandler struct {
	*web
	svc *services.SignUpService
	now func() time.Time
}

func NewSignUpHandler(w *web, s *services.SignUpService) *SignUpHandler {
	return &SignUpHandler{web: w, svc: s, now: time.Now}
}

// ------------------ session state ------------------

// loadWizard returns the visitor's wizard, or a fresh one if there is none
// or what is stored does not decode to a live step.
func loadWizard(sess *session.Session) *services.Wizard {
	raw, _ := sess.Get(wizardKey).(string)
	if raw == "" {
		return services.NewWizard()
	}
	w := services.NewWizard()
	if err := json.Unmarshal([]byte(raw), w); err != nil {
		return services.NewWizard()
	}
	if w.Step != services.StepCredentials && w.Step != services.StepProfile {
		return services.NewWizard()
	}
	return w
}

// saveWizard stores w and releases sess; do not touch sess afterwards.
func saveWizard(sess *session.Session, w *services.Wizard) error {
	if w.Step == services.StepSubmitted {
		sess.Delete(wizardKey)
	} else {
		b, err := json.Marshal(w)
		if err != nil {
			return err
		}
		sess.Set(wizardKey, string(b))
	}
	return sess.Save()
}

// ------------------ rendering ------------------

func (h *SignUpHandler) render(c *fiber.Ctx, status int, page views.Page, w *services.Wizard) error {
	if w.Step == services.StepProfile {
		setProfileValues(&page, w.Form.Profile)
		page.Years = h.years()
		page.Months = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
		return views.Render(c, status, views.SignUpProfile, page)
	}
	setCredentialValues(&page, w.Form.Credentials)
	return views.Render(c, status, views.SignUpCredentials, page)
}

// years lists the last 100 years, newest first.
func (h *SignUpHandler) years() []int {
	latest := h.now().Year()
	out := make([]int, 0, 100)
	for y := latest; y > latest-100; y-- {
		out = append(out, y)
	}
	return out
}

func setCredentialValues(page *views.Page, in models.Credentials) {
	page.Values["email"] = in.Email
	page.Values["password"] = in.Password
	page.Values["confirm"] = in.Confirm
}

func setProfileValues(page *views.Page, in models.Profile) {
	page.Values["gender"] = string(in.Gender)
	page.Values["locale"] = in.Locale
	page.Values["birth_year"] = string(in.BirthYear)
	page.Values["birth_month"] = string(in.BirthMonth)
	page.Values["birth_day"] = string(in.BirthDay)
	page.Values["family_name"] = in.FamilyName
	page.Values["given_name"] = in.GivenName
}

// ------------------ handlers ------------------

// GET /signup
func (h *SignUpHandler) Show(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return err
	}
	w := loadWizard(sess)
	if err := saveWizard(sess, w); err != nil {
		return err
	}
	return h.render(c, fiber.StatusOK, h.page(c, "Sign up"), w)
}

// POST /signup/credentials
func (h *SignUpHandler) Credentials(c *fiber.Ctx) error {
	var in models.Credentials
	_ = c.BodyParser(&in)

	sess, err := h.sessions.Get(c)
	if err != nil {
		return err
	}
	w := loadWizard(sess)
	page := h.page(c, "Sign up")
	page.Show["password"] = c.FormValue("show_password") == "1"
	page.Show["confirm"] = c.FormValue("show_confirm") == "1"

	switch c.FormValue("action") {
	case "toggle_password", "toggle_confirm":
		field := c.FormValue("action")[len("toggle_"):]
		page.Show[field] = !page.Show[field]
		if w.Step == services.StepCredentials {
			w.Form.Credentials = in
		}
		// selama request lain jalan, wizard tidak disimpan supaya tidak saling timpa
		if release, ok := h.gate.enter(sess.ID()); ok {
			defer release()
			if err := saveWizard(sess, w); err != nil {
				return err
			}
		}
		return h.render(c, fiber.StatusOK, page, w)
	}

	release, ok := h.gate.enter(sess.ID())
	if !ok {
		describe(services.ErrBusy, page.Printer(), "", "").apply(&page)
		if w.Step == services.StepCredentials {
			w.Form.Credentials = in
		}
		if err := sess.Save(); err != nil {
			return err
		}
		return h.render(c, fiber.StatusConflict, page, w)
	}
	defer release()

	debugPrintln("SIGNUP: availability check for", maskEmail(in.Email))
	advErr := h.svc.Advance(c.Context(), w, in)
	if err := saveWizard(sess, w); err != nil {
		return err
	}
	if errors.Is(advErr, services.ErrWrongStep) {
		return c.Redirect("/signup", fiber.StatusSeeOther)
	}
	if advErr != nil {
		debugPrintln("SIGNUP: step 1 rejected", maskEmail(in.Email), "err=", advErr)
		f := describe(advErr, page.Printer(), "Error", "A network error occurred.")
		f.apply(&page)
		return h.render(c, f.status, page, w)
	}
	return c.Redirect("/signup", fiber.StatusSeeOther)
}

// POST /signup/profile
func (h *SignUpHandler) Profile(c *fiber.Ctx) error {
	var in models.Profile
	_ = c.BodyParser(&in)

	sess, err := h.sessions.Get(c)
	if err != nil {
		return err
	}
	w := loadWizard(sess)
	page := h.page(c, "Sign up")

	if c.FormValue("action") == "back" {
		_ = h.svc.Back(w, in) // dari step 1 tidak ada efek
		if err := saveWizard(sess, w); err != nil {
			return err
		}
		return c.Redirect("/signup", fiber.StatusSeeOther)
	}

	release, ok := h.gate.enter(sess.ID())
	if !ok {
		describe(services.ErrBusy, page.Printer(), "", "").apply(&page)
		if err := sess.Save(); err != nil {
			return err
		}
		return h.render(c, fiber.StatusConflict, page, w)
	}
	defer release()

	email := w.Form.Email
	subErr := h.svc.Submit(c.Context(), w, in)
	if err := saveWizard(sess, w); err != nil {
		return err
	}
	if errors.Is(subErr, services.ErrWrongStep) {
		// session habis atau step 1 belum selesai: isian step 2 tidak bisa dipakai
		p := page.Printer()
		if err := h.flash.Write(c, middleware.Notice{
			Kind:    middleware.KindInfo,
			Title:   p.Sprintf("Please start again"),
			Message: p.Sprintf("Your session has expired. Please enter your details again."),
		}); err != nil {
			return err
		}
		return c.Redirect("/signup", fiber.StatusSeeOther)
	}
	if subErr != nil {
		debugPrintln("SIGNUP: create failed", maskEmail(email), "err=", subErr)
		f := describe(subErr, page.Printer(), "Registration failed", "Could not create the account.")
		f.apply(&page)
		return h.render(c, f.status, page, w)
	}

	p := page.Printer()
	if err := h.flash.Write(c, middleware.Notice{
		Kind:    middleware.KindSuccess,
		Title:   p.Sprintf("Registered"),
		Message: p.Sprintf("Your account has been created."),
	}); err != nil {
		return err
	}
	debugPrintln("SIGNUP: account created", maskEmail(email), "step=", w.Step)
	return c.Redirect("/signin", fiber.StatusSeeOther)
}
