package releases

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the releases feature around an assembled service.
func NewFeature(svc *Service, requestTimeout time.Duration) *Feature {
	return &Feature{service: svc, handler: NewHandler(svc, requestTimeout)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "releases"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.service != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
