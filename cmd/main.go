package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/espejoinfinito/payments-service/internal/config"
	"github.com/espejoinfinito/payments-service/internal/gateway/mercadopago"
	"github.com/espejoinfinito/payments-service/internal/gateway/transbank"
	"github.com/espejoinfinito/payments-service/internal/handlers"
	"github.com/espejoinfinito/payments-service/internal/service"
)

func main() {
	cfg := config.Load()
	logger := newLogger()

	logger.Info().
		Str("transbank_env", cfg.Transbank.Environment).
		Bool("test_mode", cfg.TestMode).
		Msg("payments service starting")

	payments := service.New(logger,
		transbank.New(cfg.Transbank, logger),
		mercadopago.New(cfg.MercadoPago, logger),
	)
	paymentHandler := handlers.NewPaymentHandler(payments, cfg, logger)

	app := setupFiberApp()
	setupRoutes(app, paymentHandler)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info().Msg("payments service shutting down")
		if err := app.Shutdown(); err != nil {
			logger.Error().Err(err).Msg("shutdown error")
		}
	}()

	logger.Info().Str("port", cfg.Port).Msg("listening")
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("server start error")
	}
}

func newLogger() zerolog.Logger {
	if os.Getenv("ENVIRONMENT") == "production" {
		return log.Logger
	}
	return log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

func setupFiberApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Payments Service v1.0",
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	return app
}

func setupRoutes(app *fiber.App, h *handlers.PaymentHandler) {
	api := app.Group("/api")

	api.Get("/health", h.Health)

	payments := api.Group("/payments")
	payments.Post("/initialize", h.Initialize)
	payments.Post("/confirm", h.Confirm)
	payments.Post("/refund", h.Refund)
	payments.Get("/status/:id", h.Status)
	payments.Get("/test/transbank", h.TestTransbank)

	api.Post("/product/price", h.ProductPrice)
	api.Post("/contact", h.Contact)
}
