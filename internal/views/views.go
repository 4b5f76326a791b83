// Package views renders the sign-in and sign-up screens.
package views

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/message"

	"github.com/hoshichaam/authportal/internal/middleware"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// Page names.
const (
	SignIn            = "signin.html"
	SignUpCredentials = "signup_credentials.html"
	SignUpProfile     = "signup_profile.html"
	SignedIn          = "signed_in.html"
)

// Page is what every screen template receives.
type Page struct {
	Lang   string
	Title  string
	Notice *middleware.Notice
	Values map[string]string
	Errors map[string]string
	Show   map[string]bool // password inputs rendered as plain text
	Years  []int
	Months []int
	Next   string // where the page moves on to by itself

	printer *message.Printer
}

func NewPage(lang string, p *message.Printer) Page {
	return Page{
		Lang:    lang,
		Values:  map[string]string{},
		Errors:  map[string]string{},
		Show:    map[string]bool{},
		printer: p,
	}
}

// T translates key for the page's language.
func (p Page) T(key string, args ...any) string {
	if p.printer == nil {
		return key
	}
	return p.printer.Sprintf(key, args...)
}

// Printer is the page's message printer.
func (p Page) Printer() *message.Printer { return p.printer }

// Render executes name into a buffer first so a template error never leaves
// half a page on the wire.
func Render(c *fiber.Ctx, status int, name string, page Page) error {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, page); err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Status(status).Send(buf.Bytes())
}
