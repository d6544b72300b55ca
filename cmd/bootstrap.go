package cmd

import (
	"fmt"

	"country-api/core/config"
	"country-api/core/database"
	"country-api/core/logger"
	"country-api/core/reconcile"
	"country-api/core/storage"
	"country-api/feature/countries"
	"country-api/feature/countries/report"
	"country-api/feature/countries/sources"
	"country-api/feature/countries/store"
	"country-api/feature/integrity"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app bundles the dependencies shared by the commands.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *gorm.DB
	objects storage.Client
}

// bootstrap loads configuration, builds the logger, connects to the database
// and applies pending migrations.
func bootstrap() (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database connection required: %w", err)
	}

	version, err := database.Migrate(db, cfg.Database.Driver)
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}
	logg.Info("Database ready",
		zap.String("driver", cfg.Database.Driver),
		zap.Uint("schema_version", version))

	objects, err := storage.NewClient(cfg.Storage)
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}

	return &app{cfg: cfg, logger: logg, db: db, objects: objects}, nil
}

// close releases the database pool and flushes the logger.
func (a *app) close() {
	if err := database.Close(a.db); err != nil {
		a.logger.Warn("Failed to close database", zap.Error(err))
	}
	_ = a.logger.Sync()
}

// integrityFeature wires the schema and storage checks.
func (a *app) integrityFeature() *integrity.Feature {
	return integrity.NewFeature(a.db, a.objects, a.cfg.Storage.Bucket, a.logger)
}

// countriesFeature wires the sources, store and report generator.
func (a *app) countriesFeature() *countries.Feature {
	httpClient := sources.NewHTTPClient(a.cfg.Sources.Timeout())
	spec := reconcile.Spec{
		Countries:     sources.NewCountriesClient(a.cfg.Sources.CountriesURL, httpClient, a.logger),
		Rates:         sources.NewRatesClient(a.cfg.Sources.RatesURL, httpClient, a.logger),
		FetchTimeout:  a.cfg.Sources.Timeout(),
		GDPMultiplier: a.cfg.Refresh.GDPMultiplier,
	}

	st := store.New(a.db)
	flags := report.NewHTTPFlagLoader(sources.NewHTTPClient(a.cfg.Refresh.FlagTimeout()), a.logger)
	gen := report.NewGenerator(st, report.NewPublisher(a.objects, a.cfg.Storage.Bucket), flags, a.cfg.Refresh.TopN, a.logger)

	return countries.NewFeature(spec, st, gen, a.logger)
}
