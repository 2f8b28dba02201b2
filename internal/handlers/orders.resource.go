package handlers

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/joshuarp/orders-api/internal/apierr"
	"github.com/joshuarp/orders-api/internal/services"
)

// OrderResourceService is the orchestrator surface the handler depends on.
type OrderResourceService interface {
	CreateOrReplace(ctx context.Context, rawID string, headers services.ConditionalHeaders, body []byte) (services.UpsertResult, error)
	Get(ctx context.Context, rawID string) (map[string]any, error)
	Delete(ctx context.Context, rawID string) error
	List(ctx context.Context, query services.ListQuery) (services.PageDocument, error)
}

type OrderResourceHandler struct {
	service OrderResourceService
	logger  *slog.Logger
}

func NewOrderResourceHandler(service OrderResourceService, logger *slog.Logger) *OrderResourceHandler {
	return &OrderResourceHandler{service: service, logger: logger}
}

// Register mounts the order routes. writeMiddlewares run in front of the
// mutating endpoints only.
func (h *OrderResourceHandler) Register(router fiber.Router, writeMiddlewares ...fiber.Handler) {
	orders := router.Group("/orders")
	orders.Get("/", h.List)
	orders.Get("/:id", h.Get)
	extra := make([]any, len(writeMiddlewares))
	for i, m := range writeMiddlewares {
		extra[i] = m
	}
	orders.Put("/:id", h.Upsert, extra...)
	orders.Delete("/:id", h.Delete, extra...)
}

func (h *OrderResourceHandler) Upsert(c fiber.Ctx) error {
	headers := services.ConditionalHeaders{
		IfMatch:     headerValues(c, fiber.HeaderIfMatch),
		IfNoneMatch: headerValues(c, fiber.HeaderIfNoneMatch),
	}

	result, err := h.service.CreateOrReplace(c.Context(), c.Params("id"), headers, c.Body())
	if err != nil {
		return h.renderError(c, "create or replace order", err)
	}

	if result.Created {
		c.Set(fiber.HeaderLocation, c.OriginalURL())
		return c.Status(fiber.StatusCreated).JSON(result.Document)
	}
	return c.Status(fiber.StatusOK).JSON(result.Document)
}

func (h *OrderResourceHandler) Get(c fiber.Ctx) error {
	document, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.renderError(c, "get order", err)
	}
	return c.Status(fiber.StatusOK).JSON(document)
}

func (h *OrderResourceHandler) Delete(c fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return h.renderError(c, "delete order", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *OrderResourceHandler) List(c fiber.Ctx) error {
	query := services.ListQuery{
		Skip:              c.Query("skip"),
		Top:               c.Query("top"),
		MaxPageSize:       c.Query("maxPageSize"),
		Select:            c.Query("select"),
		ContinuationToken: c.Query("continuationToken"),
		RequestURI:        c.OriginalURL(),
	}

	page, err := h.service.List(c.Context(), query)
	if err != nil {
		return h.renderError(c, "list orders", err)
	}
	return c.Status(fiber.StatusOK).JSON(page)
}

func (h *OrderResourceHandler) renderError(c fiber.Ctx, operation string, err error) error {
	var apiErr *apierr.Error
	if errors.As(err, &apiErr) {
		return c.Status(apiErr.Status).JSON(apiErr)
	}

	h.logger.Error("unexpected failure", "operation", operation, "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal server error",
	})
}

// headerValues collects every occurrence of a header, splitting
// comma-separated value lists, so the resolver sees one entry per value.
func headerValues(c fiber.Ctx, key string) []string {
	var values []string
	for _, raw := range c.Request().Header.PeekAll(key) {
		for _, part := range strings.Split(string(raw), ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				values = append(values, trimmed)
			}
		}
	}
	return values
}
