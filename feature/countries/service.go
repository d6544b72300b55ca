package countries

import (
	"context"
	"errors"
	"sync"
	"time"

	"country-api/core/metrics"
	"country-api/core/reconcile"
	"country-api/feature/countries/models"
	"country-api/feature/countries/report"
	"country-api/feature/countries/store"

	"go.uber.org/zap"
)

// ErrRefreshInProgress is returned when a refresh is requested while another one runs.
var ErrRefreshInProgress = errors.New("refresh already in progress")

// Refresh outcomes recorded in metrics.
const (
	outcomeSuccess      = "success"
	outcomeSourceError  = "source_error"
	outcomeStorageError = "storage_error"
)

// Reporter regenerates and serves the summary image.
type Reporter interface {
	Generate(ctx context.Context) error
	Image(ctx context.Context) ([]byte, error)
}

// RefreshResult describes a committed refresh.
type RefreshResult struct {
	Total       int
	Matched     int
	Unmatched   int
	RefreshedAt time.Time
}

// Service implements the countries use cases on top of the engine and the store.
type Service struct {
	spec     reconcile.Spec
	store    store.Store
	reporter Reporter
	logger   *zap.Logger

	// refreshMu admits one refresh at a time.
	refreshMu sync.Mutex
}

// NewService creates a new countries service. reporter may be nil, in which
// case no summary image is maintained.
func NewService(spec reconcile.Spec, st store.Store, reporter Reporter, logger *zap.Logger) *Service {
	return &Service{
		spec:     spec,
		store:    st,
		reporter: reporter,
		logger:   logger,
	}
}

// Refresh fetches both sources, reconciles them and installs the result as
// the new generation. On any failure the stored dataset is left untouched.
func (s *Service) Refresh(ctx context.Context) (*RefreshResult, error) {
	if !s.refreshMu.TryLock() {
		return nil, ErrRefreshInProgress
	}
	defer s.refreshMu.Unlock()

	var result *RefreshResult
	err := s.store.WithRefreshLock(ctx, func() error {
		var err error
		result, err = s.refresh(ctx)
		return err
	})
	if errors.Is(err, store.ErrLocked) {
		s.logger.Info("Refresh skipped, another process holds the refresh lock")
		return nil, ErrRefreshInProgress
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) refresh(ctx context.Context) (*RefreshResult, error) {
	start := time.Now()
	s.logger.Info("Starting refresh")

	res, err := reconcile.Run(ctx, &s.spec)
	if err != nil {
		metrics.ObserveRefresh(outcomeSourceError, time.Since(start))
		s.logger.Error("Refresh aborted, source unavailable", zap.Error(err))
		return nil, err
	}

	n, err := s.store.ReplaceAll(ctx, res.Countries)
	if err != nil {
		metrics.ObserveRefresh(outcomeStorageError, time.Since(start))
		s.logger.Error("Refresh aborted, failed to store countries", zap.Error(err))
		return nil, err
	}

	metrics.ObserveRefresh(outcomeSuccess, time.Since(start))
	metrics.SetStoredCountries(n)
	s.logger.Info("Refresh committed",
		zap.Int("total", n),
		zap.Int("matched", res.Matched),
		zap.Int("unmatched", res.Unmatched),
		zap.Time("refreshed_at", res.RefreshedAt),
		zap.Duration("duration", time.Since(start)))

	if s.reporter != nil {
		if err := s.reporter.Generate(ctx); err != nil {
			s.logger.Warn("Failed to regenerate summary image", zap.Error(err))
		}
	}

	return &RefreshResult{
		Total:       n,
		Matched:     res.Matched,
		Unmatched:   res.Unmatched,
		RefreshedAt: res.RefreshedAt,
	}, nil
}

// List returns the stored countries matching q.
func (s *Service) List(ctx context.Context, q ListQuery) ([]models.CountryRecord, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return s.store.List(ctx, q.Filter(), store.Sort(q.Sort))
}

// Get returns the country with exactly the given name.
func (s *Service) Get(ctx context.Context, name string) (*models.CountryRecord, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	return s.store.GetByName(ctx, name)
}

// Delete removes the country with exactly the given name.
func (s *Service) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := s.store.DeleteByName(ctx, name); err != nil {
		return err
	}
	s.logger.Info("Country deleted", zap.String("name", name))
	return nil
}

// Status reports the size and age of the stored dataset.
func (s *Service) Status(ctx context.Context) (*store.Status, error) {
	return s.store.Status(ctx)
}

// Image returns the last generated summary image.
func (s *Service) Image(ctx context.Context) ([]byte, error) {
	if s.reporter == nil {
		return nil, report.ErrImageNotFound
	}
	return s.reporter.Image(ctx)
}
