package releases

import (
	"context"
	"errors"
	"strings"
	"time"

	"cardcommand/core/logger"
	"cardcommand/core/reconcile"
	"cardcommand/core/upstream"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for release products.
type Handler struct {
	service *Service
	timeout time.Duration
}

// NewHandler creates a new HTTP handler. A non-positive timeout leaves requests unbounded.
func NewHandler(service *Service, timeout time.Duration) *Handler {
	return &Handler{service: service, timeout: timeout}
}

// RegisterRoutes registers the releases routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/releases")
	group.Get("/products", h.HandleGetProducts)
	group.Get("/changes", h.HandleGetChanges)
	group.Post("/sync", h.HandleSync)
	group.Post("/archive", h.HandleArchive)
	group.Get("/archive/latest", h.HandleGetLatestArchive)
}

// HandleGetProducts returns reconciled release products.
// @Summary List Release Products
// @Description Returns release products from the TCG catalog when enabled and able to answer, otherwise from the legacy release products endpoint.
// @Tags releases
// @Produce json
// @Param fromDate query string false "Earliest release date (inclusive)"
// @Param toDate query string false "Latest release date (inclusive)"
// @Param categories query string false "Comma separated categories (e.g. 'pokemon')"
// @Param confidence query string false "confirmed, unconfirmed or rumor"
// @Param confidenceBand query string false "Confidence band"
// @Param status query string false "announced, official or released"
// @Param sourceType query string false "Source type"
// @Success 200 {object} ProductsResponse "Release products"
// @Failure 502 {object} ErrorResponse "Upstream failure"
// @Router /releases/products [get]
func (h *Handler) HandleGetProducts(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	ctx, cancel := h.context(c)
	defer cancel()

	res, err := h.service.Products(ctx, parseQuery(c))
	if err != nil {
		l.Error("Release products lookup failed", zap.Error(err))
		return upstreamFailure(c, err)
	}

	return c.JSON(ProductsResponse{
		Success: true,
		Data:    res.Products,
		Meta: ProductsMeta{
			AsOf:   res.AsOf,
			Source: res.Source,
			Count:  len(res.Products),
		},
	})
}

// HandleGetChanges returns recent release changes.
// @Summary List Release Changes
// @Description Returns the most recent detected changes to release products, newest first.
// @Tags releases
// @Produce json
// @Param limit query int false "Maximum number of changes (default 10, max 100)"
// @Param since query string false "Only changes detected at or after this time"
// @Success 200 {object} ChangesResponse "Release changes"
// @Failure 502 {object} ErrorResponse "Upstream failure"
// @Router /releases/changes [get]
func (h *Handler) HandleGetChanges(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	ctx, cancel := h.context(c)
	defer cancel()

	changes, err := h.service.Changes(ctx, c.QueryInt("limit", 0), utils.CopyString(c.Query("since")))
	if err != nil {
		l.Error("Release changes lookup failed", zap.Error(err))
		return upstreamFailure(c, err)
	}

	return c.JSON(ChangesResponse{Success: true, Data: changes})
}

// HandleSync triggers a backend release sync.
// @Summary Sync Releases
// @Description Asks the backend to refresh release data from its providers and drops cached results.
// @Tags releases
// @Produce json
// @Success 200 {object} SyncResponse "Per-category sync counts"
// @Failure 502 {object} ErrorResponse "Upstream failure"
// @Router /releases/sync [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering release sync")

	ctx, cancel := h.context(c)
	defer cancel()

	res, err := h.service.Sync(ctx)
	if err != nil {
		l.Error("Release sync failed", zap.Error(err))
		return upstreamFailure(c, err)
	}

	return c.JSON(SyncResponse{Success: true, Message: res.Message, Data: res.Counts})
}

// HandleArchive archives the current result for a query.
// @Summary Archive Release Products
// @Description Reconciles the query and stores the result as JSON in the object store.
// @Tags releases
// @Produce json
// @Param fromDate query string false "Earliest release date (inclusive)"
// @Param toDate query string false "Latest release date (inclusive)"
// @Param categories query string false "Comma separated categories"
// @Success 200 {object} ArchiveResponse "Archive receipt"
// @Failure 502 {object} ErrorResponse "Upstream or storage failure"
// @Failure 503 {object} ErrorResponse "Archive not configured"
// @Router /releases/archive [post]
func (h *Handler) HandleArchive(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	ctx, cancel := h.context(c)
	defer cancel()

	receipt, err := h.service.Archive(ctx, parseQuery(c))
	if err != nil {
		if errors.Is(err, ErrArchiveDisabled) {
			return failure(c, fiber.StatusServiceUnavailable, "ARCHIVE_DISABLED", err.Error())
		}
		l.Error("Release archive failed", zap.Error(err))
		return upstreamFailure(c, err)
	}

	l.Info("Archived release products", zap.String("key", receipt.Key), zap.Int("count", receipt.Count))
	return c.JSON(ArchiveResponse{Success: true, Data: *receipt})
}

// HandleGetLatestArchive returns the most recent archive.
// @Summary Latest Release Archive
// @Description Returns the most recently archived reconciliation result.
// @Tags releases
// @Produce json
// @Success 200 {object} LatestArchiveResponse "Archived result"
// @Failure 404 {object} ErrorResponse "Nothing archived yet"
// @Failure 503 {object} ErrorResponse "Archive not configured"
// @Router /releases/archive/latest [get]
func (h *Handler) HandleGetLatestArchive(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	ctx, cancel := h.context(c)
	defer cancel()

	doc, key, err := h.service.LatestArchive(ctx)
	switch {
	case errors.Is(err, ErrArchiveDisabled):
		return failure(c, fiber.StatusServiceUnavailable, "ARCHIVE_DISABLED", err.Error())
	case errors.Is(err, ErrNoArchive):
		return failure(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	case err != nil:
		l.Error("Release archive lookup failed", zap.Error(err))
		return failure(c, fiber.StatusBadGateway, "STORAGE_ERROR", err.Error())
	}

	return c.JSON(LatestArchiveResponse{Success: true, Key: key, Data: *doc})
}

func (h *Handler) context(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.UserContext())
	}
	return context.WithTimeout(c.UserContext(), h.timeout)
}

// parseQuery reads the release product filters from the query string.
// Values are copied out of the request buffer since a shared load may outlive the request.
func parseQuery(c *fiber.Ctx) reconcile.Query {
	query := func(key string) string {
		return utils.CopyString(c.Query(key))
	}

	var categories []string
	for _, cat := range strings.Split(query("categories"), ",") {
		if cat = strings.TrimSpace(cat); cat != "" {
			categories = append(categories, cat)
		}
	}

	return reconcile.Query{
		FromDate:       query("fromDate"),
		ToDate:         query("toDate"),
		Categories:     categories,
		Confidence:     query("confidence"),
		ConfidenceBand: query("confidenceBand"),
		Status:         query("status"),
		SourceType:     query("sourceType"),
	}
}

func upstreamFailure(c *fiber.Ctx, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return failure(c, fiber.StatusGatewayTimeout, "UPSTREAM_TIMEOUT", err.Error())
	}

	code := "UPSTREAM_ERROR"
	var apiErr *upstream.Error
	if errors.As(err, &apiErr) && apiErr.Code != "" {
		code = apiErr.Code
	}
	return failure(c, fiber.StatusBadGateway, code, err.Error())
}

func failure(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(ErrorResponse{
		Success: false,
		Error:   ErrorBody{Code: code, Message: message},
	})
}
