package server

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/url-shortener/url-shortener/internal/logging"
	"github.com/url-shortener/url-shortener/internal/shortener"
)

// Shortener is the service the HTTP handlers delegate to.
// *shortener.Service satisfies it.
type Shortener interface {
	Shorten(ctx context.Context, rawURL string) (shortener.Link, error)
	History(ctx context.Context) ([]shortener.Link, error)
	Clear(ctx context.Context) error
}

// AppOptions controls how the Fiber application is assembled.
type AppOptions struct {
	Logger  *logrus.Logger
	Service Shortener
}

const contextKeyRequestID = "_shortener_request_id"

type shortenBody struct {
	URL string `json:"url"`
}

type historyBody struct {
	Items []shortener.Link `json:"items"`
}

// NewApp builds the Fiber application exposing the shortener routes.
func NewApp(opts AppOptions) (*fiber.App, error) {
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.Service == nil {
		return nil, errors.New("shortener service is required")
	}

	app := fiber.New(fiber.Config{
		CaseSensitive: true,
	})
	app.Use(recover.New())
	app.Use(requestIDMiddleware)

	h := &handlers{logger: opts.Logger, service: opts.Service}
	app.Get("/-/healthz", h.health)
	api := app.Group("/api")
	api.Post("/shorten", h.shorten)
	api.Get("/history", h.history)
	api.Delete("/history", h.clear)

	return app, nil
}

// requestIDMiddleware 为每个请求生成 ID，并通过 X-Request-ID 回传。
func requestIDMiddleware(c fiber.Ctx) error {
	reqID := uuid.NewString()
	c.Locals(contextKeyRequestID, reqID)
	c.Set("X-Request-ID", reqID)
	return c.Next()
}

// RequestID returns the request identifier stored by the middleware.
func RequestID(c fiber.Ctx) string {
	if value := c.Locals(contextKeyRequestID); value != nil {
		if reqID, ok := value.(string); ok {
			return reqID
		}
	}
	return ""
}

type handlers struct {
	logger  *logrus.Logger
	service Shortener
}

func (h *handlers) health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *handlers) shorten(c fiber.Ctx) error {
	var body shortenBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return renderNotice(c, fiber.StatusBadRequest, shortener.Describe(shortener.ErrInvalidInput))
	}

	started := time.Now()
	fields := logging.ShortenFields("shorten", strings.TrimSpace(body.URL), RequestID(c))
	link, err := h.service.Shorten(requestContext(c), body.URL)
	fields["elapsed_ms"] = time.Since(started).Milliseconds()
	if err != nil {
		h.logger.WithFields(fields).WithError(err).Warn("shorten_failed")
		notice := shortener.Describe(err)
		status := fiber.StatusBadGateway
		if notice.Code == shortener.CodeInvalidInput {
			status = fiber.StatusBadRequest
		}
		return renderNotice(c, status, notice)
	}

	fields["alias"] = link.ID
	h.logger.WithFields(fields).Info("shorten_complete")
	return c.Status(fiber.StatusCreated).JSON(link)
}

func (h *handlers) history(c fiber.Ctx) error {
	items, err := h.service.History(requestContext(c))
	if err != nil {
		return h.renderHistoryFailure(c, "history", err)
	}
	return c.JSON(historyBody{Items: items})
}

func (h *handlers) clear(c fiber.Ctx) error {
	if err := h.service.Clear(requestContext(c)); err != nil {
		return h.renderHistoryFailure(c, "history_clear", err)
	}
	h.logger.WithFields(logrus.Fields{"action": "history_clear", "request_id": RequestID(c)}).Info("history_cleared")
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handlers) renderHistoryFailure(c fiber.Ctx, action string, err error) error {
	h.logger.WithFields(logrus.Fields{"action": action, "request_id": RequestID(c)}).
		WithError(err).
		Error("history_failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "history_unavailable",
	})
}

func renderNotice(c fiber.Ctx, status int, notice shortener.Notice) error {
	return c.Status(status).JSON(notice)
}

func requestContext(c fiber.Ctx) context.Context {
	if ctx := c.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
