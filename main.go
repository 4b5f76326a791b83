package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/hoshichaam/authportal/internal/config"
	"github.com/hoshichaam/authportal/internal/handlers"
	"github.com/hoshichaam/authportal/internal/middleware"
	"github.com/hoshichaam/authportal/internal/services"
	myvalidator "github.com/hoshichaam/authportal/pkg/validator"
)

func main() {
	// 1) Load env + config (fail-fast kalau NOTICE_SECRET kosong)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// 2) Init dependencies
	_ = myvalidator.New() // register custom rules sekali di startup
	authClient := services.NewAuthClient(cfg.AuthBaseURL, cfg.AuthTimeout)
	signInSvc := services.NewSignInService(authClient)
	signUpSvc := services.NewSignUpService(authClient)

	secure := !cfg.IsDev()
	flash := middleware.NewFlash(cfg.NoticeSecret, secure)
	sessions := handlers.NewSessionStore(cfg.SessionTTL, secure)

	// 3) Fiber app dengan timeout & proxy aware (untuk IP akurat di balik reverse proxy)
	app := fiber.New(fiber.Config{
		AppName:      "authportal",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,

		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies: []string{
			"127.0.0.1", "::1",
			"10.0.0.0/8",
			"172.16.0.0/12",
			"192.168.0.0/16",
		},
		EnableIPValidation: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))

	// 4) Routes
	handlers.Register(app, handlers.Deps{
		SignIn:      signInSvc,
		SignUp:      signUpSvc,
		Flash:       flash,
		Sessions:    sessions,
		CORSOrigins: cfg.CORSOrigins,
	})

	// 5) Server start
	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting server on %s (auth service: %s, env: %s)", addr, cfg.AuthBaseURL, cfg.AppEnv)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(addr); err != nil {
			log.Fatalf("Server listen error: %v", err)
		}
	}()

	<-quit
	log.Println("Shutdown signal received, stopping server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully.")
}
