package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cardcommand/core/config"
	"cardcommand/core/loader"
	"cardcommand/core/logger"
	"cardcommand/core/middleware/auth"
	"cardcommand/core/middleware/rayid"
	"cardcommand/core/middleware/requestlog"
	"cardcommand/feature/releases"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "cardcommand/docs/swagger"
)

// @title CardCommand Releases API
// @version 1.0
// @description Release product reconciliation between the TCG catalog and the legacy release feed.
// @host localhost:8080
// @BasePath /

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the release products HTTP server",
	Long:  `Starts the HTTP server and loads the releases feature.`,
	RunE:  runServe,
}

func init() {
	RootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logg.Sync()
	zap.ReplaceGlobals(logg)

	deps, err := newApplication(cfg, logg)
	if err != nil {
		return err
	}
	defer deps.Close()

	app := newServer(cfg, logg, deps.service)

	errCh := make(chan error, 1)
	go func() {
		logg.Info("Starting server", zap.String("port", cfg.Server.Port))
		errCh <- app.Listen(cfg.Server.Addr())
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	logg.Info("Shutting down server...")
	return app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout)
}

// newServer builds the fiber app with middleware and features registered.
func newServer(cfg *config.Config, logg *zap.Logger, svc *releases.Service) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// Ray id first so every later log line carries it
	app.Use(rayid.New())
	app.Use(requestlog.New(logg))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey, Public: []string{"/health"}}))

	mgr := loader.NewManager()
	mgr.Register(releases.NewFeature(svc, cfg.Server.RequestTimeout()))
	if err := mgr.LoadAll(app); err != nil {
		logg.Fatal("Failed to load features", zap.Error(err))
	}

	return app
}
