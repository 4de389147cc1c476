// Package api exposes the quote engine and order store over HTTP.
package api

import (
	"context"
	"time"

	"cdr.dev/slog"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/piwi3910/SailQuote/internal/engine"
	"github.com/piwi3910/SailQuote/internal/order"
)

// OrderStore is the persistence the order routes need.
type OrderStore interface {
	Ping(ctx context.Context) error
	SaveOrder(ctx context.Context, o order.Order) error
	GetOrder(ctx context.Context, id string) (*order.Order, error)
	ListOrders(ctx context.Context, limit int) ([]order.Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// Options tune the HTTP layer.
type Options struct {
	AppName        string
	RequestTimeout time.Duration // Deadline for store calls
	AccessLog      bool
}

// DefaultOptions returns the production settings.
func DefaultOptions() Options {
	return Options{
		AppName:        "SailQuote",
		RequestTimeout: 5 * time.Second,
		AccessLog:      true,
	}
}

// Server holds the dependencies shared by all handlers.
type Server struct {
	engine *engine.Engine
	orders OrderStore
	log    slog.Logger
	opts   Options
}

// New returns a Server. The engine is read-only and shared by all requests.
func New(e *engine.Engine, orders OrderStore, log slog.Logger, opts Options) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultOptions().RequestTimeout
	}
	return &Server{
		engine: e,
		orders: orders,
		log:    log.Named("api"),
		opts:   opts,
	}
}

// App builds the fiber application with every route registered.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      s.opts.AppName,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	if s.opts.AccessLog {
		app.Use(Logger())
	}

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", s.LivenessProbe)
	app.Get("/health/ready", s.ReadinessProbe)

	// ============================================================
	// Quote Routes
	// ============================================================

	app.Get("/fabrics", s.ListFabrics)
	app.Get("/rates", s.ListRates)
	app.Post("/calculate", s.Calculate)
	app.Post("/validate", s.Validate)
	app.Post("/compare", s.Compare)

	// ============================================================
	// Order Routes
	// ============================================================

	app.Post("/orders", s.CreateOrder)
	app.Get("/orders", s.ListOrders)
	app.Get("/orders/:id", s.GetOrder)
	app.Put("/orders/:id/status", s.UpdateOrderStatus)
	app.Get("/orders/:id/ticket.png", s.OrderTicket)

	return app
}

// Logger returns the request logging middleware.
func Logger() fiber.Handler {
	return logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	})
}

func (s *Server) storeContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.opts.RequestTimeout)
}
