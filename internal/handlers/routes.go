package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/hoshichaam/authportal/internal/middleware"
	"github.com/hoshichaam/authportal/internal/services"
)

// Deps is everything Register needs.
type Deps struct {
	SignIn      *services.SignInService
	SignUp      *services.SignUpService
	Flash       *middleware.Flash
	Sessions    *session.Store
	CORSOrigins string
}

// Register mounts the screens and the JSON API on app.
func Register(app *fiber.App, d Deps) {
	register(app, d, &gate{})
}

func register(app *fiber.App, d Deps, g *gate) {
	w := &web{flash: d.Flash, sessions: d.Sessions, gate: g}
	signIn := NewSignInHandler(w, d.SignIn)
	signUp := NewSignUpHandler(w, d.SignUp)
	api := NewAPIHandler(w, d.SignIn, d.SignUp)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })

	// screens
	notices := d.Flash.Handler()
	app.Get("/", func(c *fiber.Ctx) error { return c.Redirect("/signin", fiber.StatusSeeOther) })
	app.Get("/signin", notices, signIn.Show)
	app.Post("/signin", notices, signIn.Submit)
	app.Get("/signup", notices, signUp.Show)
	app.Post("/signup/credentials", notices, signUp.Credentials)
	app.Post("/signup/profile", notices, signUp.Profile)

	// JSON API, cookie-aware for cross-origin clients
	origins := d.CORSOrigins
	if origins == "" || origins == "*" {
		origins = "http://localhost:3000" // credentials tidak boleh dengan wildcard
	}
	v1 := app.Group("/api/v1", cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Accept-Language",
		AllowMethods:     "POST,OPTIONS",
		AllowCredentials: true,
	}))
	v1.Post("/auth/signin", api.SignIn)
	v1.Post("/users/check", api.CheckEmail)
	v1.Post("/users", api.CreateUser)
}
