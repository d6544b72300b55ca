package countries

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"country-api/core/database"
	"country-api/core/reconcile"
	"country-api/feature/countries/report"
	"country-api/feature/countries/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2025, 10, 28, 3, 30, 0, 0, time.UTC)

type stubCountries struct {
	fetch func(ctx context.Context) ([]reconcile.SourceCountry, error)
}

func (s *stubCountries) FetchCountries(ctx context.Context) ([]reconcile.SourceCountry, error) {
	return s.fetch(ctx)
}

type stubRates struct {
	fetch func(ctx context.Context) ([]reconcile.Rate, error)
}

func (s *stubRates) FetchRates(ctx context.Context) ([]reconcile.Rate, error) {
	return s.fetch(ctx)
}

type stubReporter struct {
	mu        sync.Mutex
	generated int
	genErr    error
	image     []byte
	imageErr  error
}

func (r *stubReporter) Generate(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generated++
	return r.genErr
}

func (r *stubReporter) Image(context.Context) ([]byte, error) {
	return r.image, r.imageErr
}

func sampleCountries() []reconcile.SourceCountry {
	return []reconcile.SourceCountry{
		{Name: "Nigeria", Capital: "Abuja", Region: "Africa", Population: 206139589, CurrencyCode: "NGN", FlagURL: "https://flagcdn.com/w320/ng.png"},
		{Name: "Ghana", Capital: "Accra", Region: "Africa", Population: 31072940, CurrencyCode: "GHS"},
		{Name: "Côte d'Ivoire", Capital: "Yamoussoukro", Region: "Africa", Population: 26378275, CurrencyCode: "XOF"},
		{Name: "Germany", Capital: "Berlin", Region: "Europe", Population: 83240525, CurrencyCode: "EUR"},
		{Name: "Antarctica", Region: "Polar", Population: 1000},
		{Name: "Atlantis", Region: "Ocean", Population: 500, CurrencyCode: "XYZ"},
	}
}

func sampleRates() []reconcile.Rate {
	return []reconcile.Rate{
		{CurrencyCode: "NGN", Rate: 1600.5},
		{CurrencyCode: "GHS", Rate: 15.2},
		{CurrencyCode: "XOF", Rate: 600},
		{CurrencyCode: "EUR", Rate: 0.92},
	}
}

type fixture struct {
	svc       *Service
	store     *store.GormStore
	countries *stubCountries
	rates     *stubRates
	reporter  *stubReporter
}

func setupService(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	_, err = database.Migrate(db, database.DriverSQLite)
	require.NoError(t, err)

	f := &fixture{
		store: store.New(db),
		countries: &stubCountries{fetch: func(context.Context) ([]reconcile.SourceCountry, error) {
			return sampleCountries(), nil
		}},
		rates: &stubRates{fetch: func(context.Context) ([]reconcile.Rate, error) {
			return sampleRates(), nil
		}},
		reporter: &stubReporter{},
	}
	spec := reconcile.Spec{
		Countries:     f.countries,
		Rates:         f.rates,
		FetchTimeout:  time.Second,
		GDPMultiplier: 1000,
		Now:           func() time.Time { return fixedNow },
	}
	f.svc = NewService(spec, f.store, f.reporter, zap.NewNop())
	return f
}

func TestService_Refresh(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	res, err := f.svc.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, res.Total)
	assert.Equal(t, 4, res.Matched)
	assert.Equal(t, 2, res.Unmatched)
	assert.True(t, fixedNow.Equal(res.RefreshedAt))
	assert.Equal(t, 1, f.reporter.generated)

	list, err := f.svc.List(ctx, ListQuery{})
	require.NoError(t, err)
	require.Len(t, list, 6)
	assert.Equal(t, "Nigeria", list[0].Name)

	ng := list[0]
	require.NotNil(t, ng.ExchangeRate)
	require.NotNil(t, ng.EstimatedGDP)
	assert.InDelta(t, 206139589*1600.5*1000, *ng.EstimatedGDP, 1)

	for _, rec := range list {
		assert.True(t, fixedNow.Equal(rec.LastRefreshedAt), rec.Name)
		if rec.Name == "Antarctica" || rec.Name == "Atlantis" {
			assert.Nil(t, rec.ExchangeRate, rec.Name)
			assert.Nil(t, rec.EstimatedGDP, rec.Name)
		}
	}

	status, err := f.svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), status.Total)
	require.NotNil(t, status.LastRefreshedAt)
	assert.True(t, fixedNow.Equal(*status.LastRefreshedAt))
}

func TestService_Refresh_SourceFailureKeepsDataset(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	_, err := f.svc.Refresh(ctx)
	require.NoError(t, err)
	before, err := f.svc.List(ctx, ListQuery{})
	require.NoError(t, err)

	// Source B times out
	f.rates.fetch = func(ctx context.Context) ([]reconcile.Rate, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	f.svc.spec.FetchTimeout = 20 * time.Millisecond
	f.svc.spec.Now = func() time.Time { return fixedNow.Add(time.Hour) }

	_, err = f.svc.Refresh(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, reconcile.ErrSourceUnavailable)
	var srcErr *reconcile.SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, reconcile.SourceRates, srcErr.Source)

	after, err := f.svc.List(ctx, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, 1, f.reporter.generated)
}

func TestService_Refresh_InProgress(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	entered := make(chan struct{})
	release := make(chan struct{})
	f.countries.fetch = func(context.Context) ([]reconcile.SourceCountry, error) {
		close(entered)
		<-release
		return sampleCountries(), nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Refresh(ctx)
		done <- err
	}()

	<-entered
	_, err := f.svc.Refresh(ctx)
	assert.ErrorIs(t, err, ErrRefreshInProgress)

	close(release)
	require.NoError(t, <-done)

	// The lock is released once the first refresh completes
	f.countries.fetch = func(context.Context) ([]reconcile.SourceCountry, error) {
		return sampleCountries(), nil
	}
	_, err = f.svc.Refresh(ctx)
	assert.NoError(t, err)
}

// heldLockStore behaves as if another process holds the refresh lock.
type heldLockStore struct {
	*store.GormStore
}

func (heldLockStore) WithRefreshLock(context.Context, func() error) error {
	return store.ErrLocked
}

func TestService_Refresh_LockedByAnotherProcess(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	fetched := false
	f.countries.fetch = func(context.Context) ([]reconcile.SourceCountry, error) {
		fetched = true
		return sampleCountries(), nil
	}
	svc := NewService(f.svc.spec, heldLockStore{f.store}, f.reporter, zap.NewNop())

	_, err := svc.Refresh(ctx)
	assert.ErrorIs(t, err, ErrRefreshInProgress)
	assert.False(t, fetched)
	assert.Equal(t, 0, f.reporter.generated)

	status, err := f.store.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), status.Total)

	// same store, lock free
	_, err = f.svc.Refresh(ctx)
	assert.NoError(t, err)
	assert.True(t, fetched)
}

func TestService_Refresh_ReportFailureIsNotFatal(t *testing.T) {
	f := setupService(t)
	f.reporter.genErr = report.ErrStorageUnavailable

	res, err := f.svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, res.Total)
}

func TestService_Refresh_EmptyRatesMatchesNothing(t *testing.T) {
	f := setupService(t)
	f.rates.fetch = func(context.Context) ([]reconcile.Rate, error) {
		return nil, nil
	}

	res, err := f.svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Matched)
	assert.Equal(t, 6, res.Unmatched)
}

func TestService_List(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	_, err := f.svc.Refresh(ctx)
	require.NoError(t, err)

	africa, err := f.svc.List(ctx, ListQuery{Region: "africa"})
	require.NoError(t, err)
	assert.Len(t, africa, 3)

	eur, err := f.svc.List(ctx, ListQuery{Currency: "eur"})
	require.NoError(t, err)
	require.Len(t, eur, 1)
	assert.Equal(t, "Germany", eur[0].Name)

	sorted, err := f.svc.List(ctx, ListQuery{Sort: "gdp_desc"})
	require.NoError(t, err)
	require.Len(t, sorted, 6)
	assert.Equal(t, "Nigeria", sorted[0].Name)
	assert.Nil(t, sorted[4].EstimatedGDP)
	assert.Nil(t, sorted[5].EstimatedGDP)
	for i := 1; i < 4; i++ {
		assert.GreaterOrEqual(t, *sorted[i-1].EstimatedGDP, *sorted[i].EstimatedGDP)
	}

	_, err = f.svc.List(ctx, ListQuery{Sort: "population"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestService_GetAndDelete(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	_, err := f.svc.Refresh(ctx)
	require.NoError(t, err)

	rec, err := f.svc.Get(ctx, "Ghana")
	require.NoError(t, err)
	assert.Equal(t, "Accra", *rec.Capital)

	_, err = f.svc.Get(ctx, "ghana")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, f.svc.Delete(ctx, "Ghana"))
	_, err = f.svc.Get(ctx, "Ghana")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, "Ghana"), store.ErrNotFound)

	status, err := f.svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), status.Total)

	_, err = f.svc.Get(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestService_Image(t *testing.T) {
	f := setupService(t)
	f.reporter.image = []byte("png")

	data, err := f.svc.Image(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)

	svc := NewService(reconcile.Spec{}, f.store, nil, zap.NewNop())
	_, err = svc.Image(context.Background())
	assert.True(t, errors.Is(err, report.ErrImageNotFound))
}
