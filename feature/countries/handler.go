package countries

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"country-api/core/logger"
	"country-api/core/reconcile"
	"country-api/feature/countries/models"
	"country-api/feature/countries/report"
	"country-api/feature/countries/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for countries.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the countries routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/countries")
	group.Post("/refresh", h.HandleRefresh)
	group.Get("/", h.HandleList)
	// Registered before /:name so "image" is never taken for a country name
	group.Get("/image", h.HandleImage)
	group.Get("/:name", h.HandleGet)
	group.Delete("/:name", h.HandleDelete)

	app.Get("/status", h.HandleStatus)
}

// HandleRefresh fetches both sources and replaces the stored dataset.
// @Summary Refresh Countries
// @Description Fetches countries and exchange rates, reconciles them and atomically replaces the stored dataset. The summary image is regenerated afterwards.
// @Tags countries
// @Produce json
// @Success 200 {object} models.RefreshResponse
// @Failure 409 {object} models.ErrorResponse "Refresh already in progress"
// @Failure 503 {object} models.ErrorResponse "Source or storage unavailable"
// @Router /countries/refresh [post]
func (h *Handler) HandleRefresh(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Refresh requested")

	res, err := h.service.Refresh(c.Context())
	if err != nil {
		return h.fail(c, l, err)
	}

	return c.JSON(models.RefreshResponse{
		Message: "Countries refreshed successfully",
		Total:   res.Total,
	})
}

// HandleList lists the stored countries.
// @Summary List Countries
// @Description Lists stored countries, optionally filtered by region and currency and sorted by estimated GDP.
// @Tags countries
// @Produce json
// @Param region query string false "Region (exact, case-insensitive)"
// @Param currency query string false "Currency code (exact, case-insensitive)"
// @Param sort query string false "Sort order" Enums(gdp_desc)
// @Success 200 {array} models.CountryResponse
// @Failure 422 {object} models.ErrorResponse "Invalid parameters"
// @Failure 503 {object} models.ErrorResponse "Storage unavailable"
// @Router /countries [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var q ListQuery
	if err := c.QueryParser(&q); err != nil {
		return h.fail(c, l, fmt.Errorf("%w: %w", ErrInvalidRequest, err))
	}

	records, err := h.service.List(c.Context(), q)
	if err != nil {
		return h.fail(c, l, err)
	}

	return c.JSON(models.ToResponses(records))
}

// HandleImage serves the summary image.
// @Summary Summary Image
// @Description Returns the PNG summary generated by the last successful refresh.
// @Tags countries
// @Produce png
// @Success 200 {file} binary
// @Failure 404 {object} models.ErrorResponse "Summary image not found"
// @Failure 503 {object} models.ErrorResponse "Storage unavailable"
// @Router /countries/image [get]
func (h *Handler) HandleImage(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	data, err := h.service.Image(c.Context())
	if err != nil {
		return h.fail(c, l, err)
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(data)
}

// HandleGet returns one country.
// @Summary Get Country
// @Description Returns the country whose name matches exactly (case-sensitive).
// @Tags countries
// @Produce json
// @Param name path string true "Country name"
// @Success 200 {object} models.CountryResponse
// @Failure 404 {object} models.ErrorResponse "Country not found"
// @Failure 503 {object} models.ErrorResponse "Storage unavailable"
// @Router /countries/{name} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	name, err := nameParam(c)
	if err != nil {
		return h.fail(c, l, err)
	}

	rec, err := h.service.Get(c.Context(), name)
	if err != nil {
		return h.fail(c, l, err)
	}

	return c.JSON(rec.ToResponse())
}

// HandleDelete removes one country.
// @Summary Delete Country
// @Description Deletes the country whose name matches exactly (case-sensitive).
// @Tags countries
// @Produce json
// @Param name path string true "Country name"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse "Country not found"
// @Failure 503 {object} models.ErrorResponse "Storage unavailable"
// @Router /countries/{name} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	name, err := nameParam(c)
	if err != nil {
		return h.fail(c, l, err)
	}

	if err := h.service.Delete(c.Context(), name); err != nil {
		return h.fail(c, l, err)
	}

	return c.JSON(models.MessageResponse{Message: fmt.Sprintf("Country '%s' deleted successfully", name)})
}

// HandleStatus reports the size and age of the stored dataset.
// @Summary Status
// @Description Returns the number of stored countries and the last refresh timestamp.
// @Tags status
// @Produce json
// @Success 200 {object} models.StatusResponse
// @Failure 503 {object} models.ErrorResponse "Storage unavailable"
// @Router /status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	status, err := h.service.Status(c.Context())
	if err != nil {
		return h.fail(c, l, err)
	}

	resp := models.StatusResponse{TotalCountries: status.Total}
	if status.LastRefreshedAt != nil {
		at := models.FormatTime(*status.LastRefreshedAt)
		resp.LastRefreshedAt = &at
	}
	return c.JSON(resp)
}

func nameParam(c *fiber.Ctx) (string, error) {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return "", fmt.Errorf("%w: malformed name", ErrInvalidRequest)
	}
	return name, nil
}

// fail maps err to a status code and error body.
func (h *Handler) fail(c *fiber.Ctx, l *zap.Logger, err error) error {
	status, body := classify(err)
	if status >= fiber.StatusInternalServerError {
		l.Error("Request failed", zap.Int("status", status), zap.Error(err))
	} else {
		l.Debug("Request rejected", zap.Int("status", status), zap.Error(err))
	}
	return c.Status(status).JSON(body)
}

func classify(err error) (int, models.ErrorResponse) {
	var srcErr *reconcile.SourceError

	switch {
	case errors.Is(err, ErrInvalidRequest):
		details := strings.TrimPrefix(err.Error(), ErrInvalidRequest.Error()+": ")
		return fiber.StatusUnprocessableEntity, models.ErrorResponse{Error: "Validation failed", Details: details}
	case errors.Is(err, store.ErrNotFound):
		return fiber.StatusNotFound, models.ErrorResponse{Error: "Country not found"}
	case errors.Is(err, report.ErrImageNotFound):
		return fiber.StatusNotFound, models.ErrorResponse{Error: "Summary image not found"}
	case errors.Is(err, ErrRefreshInProgress):
		return fiber.StatusConflict, models.ErrorResponse{Error: "Refresh already in progress"}
	case errors.As(err, &srcErr):
		return fiber.StatusServiceUnavailable, models.ErrorResponse{
			Error:   "External data source unavailable",
			Details: "Could not fetch data from " + srcErr.Source,
		}
	case errors.Is(err, reconcile.ErrSourceUnavailable):
		return fiber.StatusServiceUnavailable, models.ErrorResponse{Error: "External data source unavailable"}
	case errors.Is(err, store.ErrStorage), errors.Is(err, report.ErrStorageUnavailable):
		return fiber.StatusServiceUnavailable, models.ErrorResponse{Error: "Storage unavailable"}
	default:
		return fiber.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"}
	}
}
