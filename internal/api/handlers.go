package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"

	"cdr.dev/slog"
	"github.com/gofiber/fiber/v3"

	"github.com/piwi3910/SailQuote/internal/engine"
	"github.com/piwi3910/SailQuote/internal/export"
	"github.com/piwi3910/SailQuote/internal/model"
	"github.com/piwi3910/SailQuote/internal/order"
	"github.com/piwi3910/SailQuote/internal/store"
	"github.com/piwi3910/SailQuote/internal/validate"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
	minTicketSize    = 64
	maxTicketSize    = 1024
)

var errEmptyBody = errors.New("empty body")

// decodeBody unmarshals the JSON request body into v.
func decodeBody(c fiber.Ctx, v interface{}) error {
	if len(c.Body()) == 0 {
		return errEmptyBody
	}
	return json.Unmarshal(c.Body(), v)
}

func badRequest(c fiber.Ctx, err error) error {
	msg := "invalid json"
	if errors.Is(err, errEmptyBody) {
		msg = err.Error()
	}
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// ============================================================
// Health Check Handlers
// ============================================================

// LivenessProbe reports that the process is serving requests.
func (s *Server) LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

// ReadinessProbe reports whether the order store is reachable.
func (s *Server) ReadinessProbe(c fiber.Ctx) error {
	ctx, cancel := s.storeContext()
	defer cancel()

	if err := s.orders.Ping(ctx); err != nil {
		s.log.Warn(ctx, "order store not ready", slog.Error(err))
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ready"})
}

// ============================================================
// Quote Handlers
// ============================================================

// ListFabrics returns the fabric catalog.
func (s *Server) ListFabrics(c fiber.Ctx) error {
	return c.JSON(s.engine.Catalog())
}

type ratesResponse struct {
	Base       string             `json:"base"`
	Currencies []string           `json:"currencies"`
	Rates      map[string]float64 `json:"rates"`
}

// ListRates returns the supported currencies and their exchange rates.
func (s *Server) ListRates(c fiber.Ctx) error {
	rates := s.engine.Rates()
	return c.JSON(ratesResponse{
		Base:       rates.Base,
		Currencies: rates.Codes(),
		Rates:      rates.Rates,
	})
}

// Calculate prices a configuration. Configurations that cannot be computed
// are answered with 422 and the reasons.
func (s *Server) Calculate(c fiber.Ctx) error {
	var cfg model.ShadeConfiguration
	if err := decodeBody(c, &cfg); err != nil {
		return badRequest(c, err)
	}

	calc := s.engine.Calculate(cfg)
	if !calc.Valid {
		return c.Status(http.StatusUnprocessableEntity).JSON(calc)
	}
	return c.JSON(calc)
}

type validateRequest struct {
	Configuration model.ShadeConfiguration `json:"configuration"`
	Fields        map[string]string        `json:"fields"`    // Raw inputs to check, by field key
	Dismissed     map[string]string        `json:"dismissed"` // Raw inputs the user chose to keep
}

type validateResponse struct {
	Complete    bool                   `json:"complete"`
	Errors      model.ValidationErrors `json:"errors"`
	FieldErrors []*validate.FieldError `json:"fieldErrors"`
	Suggestions []validate.Suggestion  `json:"suggestions"`
}

// Validate checks raw field inputs and the configuration as a whole, and
// proposes typo corrections the user has not already dismissed.
func (s *Server) Validate(c fiber.Ctx) error {
	var req validateRequest
	if err := decodeBody(c, &req); err != nil {
		return badRequest(c, err)
	}

	errs := validate.Configuration(req.Configuration)
	resp := validateResponse{
		Complete:    !errs.HasErrors(),
		Errors:      errs,
		FieldErrors: []*validate.FieldError{},
		Suggestions: []validate.Suggestion{},
	}

	tracker := validate.NewSuggestions()
	for key, raw := range req.Dismissed {
		tracker.Keep(key, raw)
	}

	keys := make([]string, 0, len(req.Fields))
	for k := range req.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		raw := req.Fields[key]
		if fe := validate.Field(key, raw, req.Configuration); fe != nil {
			resp.FieldErrors = append(resp.FieldErrors, fe)
			continue
		}
		if sug, ok := tracker.Check(key, raw, req.Configuration); ok {
			resp.Suggestions = append(resp.Suggestions, sug)
		}
	}

	return c.JSON(resp)
}

type compareRequest struct {
	Configuration model.ShadeConfiguration    `json:"configuration"`
	Scenarios     []engine.ComparisonScenario `json:"scenarios"`
}

// Compare prices a set of alternatives side by side. Without explicit
// scenarios, the default what-if variants of the configuration are used.
func (s *Server) Compare(c fiber.Ctx) error {
	var req compareRequest
	if err := decodeBody(c, &req); err != nil {
		return badRequest(c, err)
	}

	scenarios := req.Scenarios
	if len(scenarios) == 0 {
		scenarios = s.engine.BuildDefaultScenarios(req.Configuration)
	}
	return c.JSON(s.engine.CompareScenarios(scenarios))
}

// ============================================================
// Order Handlers
// ============================================================

type orderRequest struct {
	Configuration   model.ShadeConfiguration `json:"configuration"`
	Acknowledgments order.Acknowledgments    `json:"acknowledgments"`
}

// CreateOrder recalculates the configuration server-side and stores the
// order when it is complete, priced and acknowledged.
func (s *Server) CreateOrder(c fiber.Ctx) error {
	var req orderRequest
	if err := decodeBody(c, &req); err != nil {
		return badRequest(c, err)
	}

	calc := s.engine.Calculate(req.Configuration)
	o, err := order.Build(req.Configuration, calc, s.engine.Catalog(), req.Acknowledgments)
	if err != nil {
		var invalid *order.InvalidError
		switch {
		case errors.As(err, &invalid):
			return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":  order.ErrInvalidConfiguration.Error(),
				"fields": invalid.Errors,
			})
		case errors.Is(err, order.ErrNotQuotable):
			return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":   err.Error(),
				"reasons": calc.Reasons,
			})
		case errors.Is(err, order.ErrNotAcknowledged):
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error":   err.Error(),
				"missing": req.Acknowledgments.Missing(),
			})
		}
		return err
	}

	ctx, cancel := s.storeContext()
	defer cancel()

	if err := s.orders.SaveOrder(ctx, o); err != nil {
		s.log.Error(ctx, "failed to save order", slog.F("id", o.ID), slog.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save order"})
	}
	s.log.Info(ctx, "order created",
		slog.F("id", o.ID),
		slog.F("corners", o.Configuration.Corners),
		slog.F("total", o.Price),
	)
	return c.Status(http.StatusCreated).JSON(o)
}

// ListOrders returns summaries of the most recent orders.
func (s *Server) ListOrders(c fiber.Ctx) error {
	limit := defaultListLimit
	if q := c.Query("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "limit must be a positive integer"})
		}
		limit = min(n, maxListLimit)
	}

	ctx, cancel := s.storeContext()
	defer cancel()

	orders, err := s.orders.ListOrders(ctx, limit)
	if err != nil {
		s.log.Error(ctx, "failed to list orders", slog.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list orders"})
	}
	summaries := make([]order.Summary, len(orders))
	for i, o := range orders {
		summaries[i] = o.Summary()
	}
	return c.JSON(summaries)
}

// GetOrder returns a stored order.
func (s *Server) GetOrder(c fiber.Ctx) error {
	o, err := s.lookupOrder(c)
	if err != nil {
		return err
	}
	if o == nil {
		return nil
	}
	return c.JSON(o)
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus moves an order to another fulfilment state.
func (s *Server) UpdateOrderStatus(c fiber.Ctx) error {
	var req statusRequest
	if err := decodeBody(c, &req); err != nil {
		return badRequest(c, err)
	}
	if !order.ValidStatus(req.Status) {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "unknown status"})
	}

	ctx, cancel := s.storeContext()
	defer cancel()

	id := c.Params("id")
	if err := s.orders.UpdateStatus(ctx, id, req.Status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
		}
		s.log.Error(ctx, "failed to update order", slog.F("id", id), slog.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update order"})
	}
	return c.JSON(fiber.Map{"id": id, "status": req.Status})
}

// OrderTicket renders the fulfilment QR ticket for an order as PNG.
func (s *Server) OrderTicket(c fiber.Ctx) error {
	size := export.DefaultTicketSize
	if q := c.Query("size"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < minTicketSize || n > maxTicketSize {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": "size must be between " + strconv.Itoa(minTicketSize) + " and " + strconv.Itoa(maxTicketSize),
			})
		}
		size = n
	}

	o, err := s.lookupOrder(c)
	if err != nil {
		return err
	}
	if o == nil {
		return nil
	}

	png, err := export.TicketPNG(*o, size)
	if err != nil {
		s.log.Error(context.Background(), "failed to render ticket", slog.F("id", o.ID), slog.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to render ticket"})
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

// lookupOrder loads the order named by the :id parameter. When it returns a
// nil order with a nil error, the response has already been written.
func (s *Server) lookupOrder(c fiber.Ctx) (*order.Order, error) {
	ctx, cancel := s.storeContext()
	defer cancel()

	id := c.Params("id")
	o, err := s.orders.GetOrder(ctx, id)
	if err == nil {
		return o, nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return nil, c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
	}
	s.log.Error(ctx, "failed to load order", slog.F("id", id), slog.Error(err))
	return nil, c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load order"})
}
