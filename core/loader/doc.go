// Package loader provides the plugin-like feature loading system.
//
// Each feature implements the Feature interface and registers its own routes when
// loaded. The Manager keeps the registry and loads enabled features in
// registration order.
//
// # Feature Interface
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// # Usage
//
//	mgr := loader.NewManager()
//	mgr.Register(releases.NewFeature(svc, logger))
//	if err := mgr.LoadAll(app); err != nil {
//	    logger.Fatal("Failed to load features", zap.Error(err))
//	}
package loader
