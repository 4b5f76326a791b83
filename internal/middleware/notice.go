package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// NoticeCookie carries one notice across a redirect.
const NoticeCookie = "ap_notice"

const noticeLocal = "notice"

// Kind classifies notice presentation.
type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindError   Kind = "error"
)

// Notice is a screen-level transient message (a toast).
type Notice struct {
	Kind    Kind   `json:"kind"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

type noticeClaims struct {
	Notice
	jwt.RegisteredClaims
}

// Flash signs notices into a short-lived cookie and reads them back once.
type Flash struct {
	secret []byte
	secure bool
	ttl    time.Duration
}

func NewFlash(secret string, secure bool) *Flash {
	return &Flash{secret: []byte(strings.TrimSpace(secret)), secure: secure, ttl: time.Minute}
}

// Sign membuat JWT HS256 berisi notice, exp=now+ttl
func (f *Flash) Sign(n Notice) (string, error) {
	now := time.Now()
	claims := noticeClaims{
		Notice: n,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(f.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(f.secret)
}

// Parse verifies a token produced by Sign.
func (f *Flash) Parse(tokenStr string) (Notice, bool) {
	claims := &noticeClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusBadRequest, "invalid notice signing method")
		}
		return f.secret, nil
	})
	if err != nil || !token.Valid {
		return Notice{}, false
	}
	switch claims.Kind {
	case KindSuccess, KindInfo, KindError:
	default:
		return Notice{}, false
	}
	if strings.TrimSpace(claims.Title) == "" && strings.TrimSpace(claims.Message) == "" {
		return Notice{}, false
	}
	return claims.Notice, true
}

// Write stores n for the next page render.
func (f *Flash) Write(c *fiber.Ctx, n Notice) error {
	tok, err := f.Sign(n)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     NoticeCookie,
		Value:    tok,
		HTTPOnly: true,
		SameSite: "Lax",
		Secure:   f.secure,
		Expires:  time.Now().Add(f.ttl),
		Path:     "/",
	})
	return nil
}

// Handler reads and clears the notice cookie, exposing it via NoticeFrom.
func (f *Flash) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Cookies(NoticeCookie))
		if raw == "" {
			return c.Next()
		}
		// hapus cookie, valid atau tidak
		c.Cookie(&fiber.Cookie{Name: NoticeCookie, Value: "", Expires: time.Unix(0, 0), HTTPOnly: true, Path: "/"})
		if n, ok := f.Parse(raw); ok {
			c.Locals(noticeLocal, n)
		}
		return c.Next()
	}
}

// NoticeFrom returns the notice read by Handler, if any.
func NoticeFrom(c *fiber.Ctx) (Notice, bool) {
	n, ok := c.Locals(noticeLocal).(Notice)
	return n, ok
}
