package countries

import (
	"country-api/core/reconcile"
	"country-api/feature/countries/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new Countries feature.
func NewFeature(spec reconcile.Spec, st store.Store, reporter Reporter, logger *zap.Logger) *Feature {
	svc := NewService(spec, st, reporter, logger)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "countries"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Service exposes the underlying service, e.g. for the refresh command.
func (f *Feature) Service() *Service {
	return f.service
}
