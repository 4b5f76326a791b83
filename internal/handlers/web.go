package handlers

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	"golang.org/x/text/message"

	"github.com/hoshichaam/authportal/internal/i18n"
	"github.com/hoshichaam/authportal/internal/middleware"
	"github.com/hoshichaam/authportal/internal/services"
	"github.com/hoshichaam/authportal/internal/views"
)

// SessionCookie holds the visitor's session key.
const SessionCookie = "ap_session"

// NewSessionStore keeps wizard state in process memory.
func NewSessionStore(ttl time.Duration, secure bool) *session.Store {
	return session.New(session.Config{
		Expiration:     ttl,
		KeyLookup:      "cookie:" + SessionCookie,
		CookieHTTPOnly: true,
		CookieSecure:   secure,
		CookieSameSite: "Lax",
		KeyGenerator:   uuid.NewString,
	})
}

// web is what the screen and API handlers share.
type web struct {
	flash    *middleware.Flash
	sessions *session.Store
	gate     *gate
}

// ------------------ helpers ------------------

func (w *web) language(c *fiber.Ctx) (string, *message.Printer) {
	explicit := strings.TrimSpace(c.Query(i18n.LangParam))
	tag := i18n.Resolve(explicit, c.Cookies(i18n.LangCookieName), c.Get(fiber.HeaderAcceptLanguage))
	if explicit != "" {
		c.Cookie(&fiber.Cookie{Name: i18n.LangCookieName, Value: tag.String(), Path: "/", SameSite: "Lax", MaxAge: 365 * 24 * 3600})
	}
	return tag.String(), i18n.Printer(tag)
}

func (w *web) page(c *fiber.Ctx, titleKey string) views.Page {
	lang, p := w.language(c)
	page := views.NewPage(lang, p)
	page.Title = page.T(titleKey)
	if n, ok := middleware.NoticeFrom(c); ok {
		page.Notice = &n
	}
	return page
}

// visitor returns the session key, creating the session cookie on first use.
func (w *web) visitor(c *fiber.Ctx) (string, error) {
	sess, err := w.sessions.Get(c)
	if err != nil {
		return "", err
	}
	id := sess.ID()
	if sess.Fresh() {
		if err := sess.Save(); err != nil {
			return "", err
		}
	}
	return id, nil
}

// upstreamCookies returns the visitor's cookies minus the ones this frontend owns.
func upstreamCookies(c *fiber.Ctx) string {
	var parts []string
	c.Request().Header.VisitAllCookie(func(k, v []byte) {
		switch name := string(k); name {
		case SessionCookie, middleware.NoticeCookie, i18n.LangCookieName:
		default:
			parts = append(parts, name+"="+string(v))
		}
	})
	return strings.Join(parts, "; ")
}

func relayCookies(c *fiber.Ctx, setCookies []string) {
	for _, sc := range setCookies {
		c.Response().Header.Add(fiber.HeaderSetCookie, sc)
	}
}

// failure is how a failed submit shows up on a screen.
type failure struct {
	status int
	fields map[string]string
	notice *middleware.Notice
}

// describe maps service errors to a screen outcome. rejectTitle and
// rejectFallback word the notice for a non-OK answer without a message.
func describe(err error, p *message.Printer, rejectTitle, rejectFallback string) failure {
	var ve *services.ValidationError
	var rej *services.RejectedError
	switch {
	case errors.As(err, &ve):
		return failure{status: fiber.StatusUnprocessableEntity, fields: ve.Fields.Messages(p)}
	case errors.Is(err, services.ErrEmailInUse):
		return failure{
			status: fiber.StatusConflict,
			fields: map[string]string{"email": p.Sprintf("This address is already in use")},
		}
	case errors.As(err, &rej):
		msg := rej.Message
		if msg == "" {
			msg = p.Sprintf(rejectFallback)
		}
		return failure{
			status: upstreamStatus(rej.Status),
			notice: &middleware.Notice{Kind: middleware.KindError, Title: p.Sprintf(rejectTitle), Message: msg},
		}
	case errors.Is(err, services.ErrBusy):
		return failure{
			status: fiber.StatusConflict,
			notice: &middleware.Notice{Kind: middleware.KindInfo, Title: p.Sprintf("Please wait"), Message: p.Sprintf("Your previous request is still being processed.")},
		}
	default:
		// ErrNetwork dan error lain: detail tidak ditampilkan ke user
		return failure{
			status: fiber.StatusBadGateway,
			notice: networkNotice(p),
		}
	}
}

func networkNotice(p *message.Printer) *middleware.Notice {
	return &middleware.Notice{Kind: middleware.KindError, Title: p.Sprintf("Error"), Message: p.Sprintf("A network error occurred.")}
}

func upstreamStatus(status int) int {
	if status < 400 || status > 599 {
		return fiber.StatusBadGateway
	}
	return status
}

func (f failure) apply(page *views.Page) {
	for k, v := range f.fields {
		page.Errors[k] = v
	}
	if f.notice != nil {
		page.Notice = f.notice
	}
}

// ------------------ debug ------------------

func isDev() bool { return strings.EqualFold(os.Getenv("APP_ENV"), "development") }

func debugPrintln(a ...any) {
	if isDev() {
		fmt.Println(a...)
	}
}

// masking helper biar log aman
func maskEmail(e string) string {
	e = strings.TrimSpace(e)
	parts := strings.Split(e, "@")
	if len(parts) != 2 {
		if len(e) > 3 {
			return e[:3] + "***"
		}
		return "***"
	}
	local, domain := parts[0], parts[1]
	if len(local) > 2 {
		local = local[:2] + "***"
	} else {
		local = local + "***"
	}
	return local + "@" + domain
}
