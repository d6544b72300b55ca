package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"country-api/core/loader"
	"country-api/core/logger"
	"country-api/core/metrics"
	"country-api/core/middleware/rayid"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "country-api/docs/swagger"
)

// @title Country Currency & Exchange API
// @version 1.0
// @description Country metadata with USD exchange rates and estimated GDP.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the country API server",
	Long:  `Connects to the database, applies migrations and starts the HTTP server.`,
	Run: func(cmd *cobra.Command, args []string) {
		a, err := bootstrap()
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		defer a.close()
		logg := a.logger
		zap.ReplaceGlobals(logg)

		mgr := loader.NewManager(logg)
		mgr.Register(a.countriesFeature())
		mgr.Register(a.integrityFeature())

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			ReadTimeout:           a.cfg.Server.ReadTimeout(),
			WriteTimeout:          a.cfg.Server.WriteTimeout(),
		})

		// RayID first so every log line carries it
		app.Use(rayid.New())
		app.Use(recover.New())
		app.Use(cors.New(cors.Config{AllowOrigins: a.cfg.Server.AllowOrigins()}))
		app.Use(metrics.Middleware())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			start := time.Now()
			err := c.Next()
			fields := []zap.Field{
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
				zap.Int("status", c.Response().StatusCode()),
				zap.Duration("latency", time.Since(start)),
			}
			if err != nil {
				l.Error("Request error", append(fields, zap.Error(err))...)
				return err
			}
			l.Info("Request completed", fields...)
			return nil
		})

		app.Get("/metrics", metrics.Handler())
		app.Get("/swagger/*", swagger.HandlerDefault)

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		go func() {
			logg.Info("Starting server", zap.String("addr", a.cfg.Server.Addr()))
			if err := app.Listen(a.cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logg.Warn("Server shutdown incomplete", zap.Error(err))
		}
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
