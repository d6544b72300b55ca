package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"country-api/core/reconcile"
	"country-api/feature/countries/models"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no country has the requested name.
	ErrNotFound = errors.New("country not found")
	// ErrStorage wraps every failure of the database backend.
	ErrStorage = errors.New("storage unavailable")
	// ErrLocked is returned when another process holds the refresh lock.
	ErrLocked = errors.New("refresh lock held by another process")
)

// Sort selects the ordering of List.
type Sort string

const (
	// SortNone keeps insertion (source) order.
	SortNone Sort = ""
	// SortGDPDesc orders by estimated GDP descending, nulls last.
	SortGDPDesc Sort = "gdp_desc"
)

// Filter restricts List. Empty fields match everything. Comparisons are
// exact but case-insensitive, through the column collation so the region and
// currency indexes stay usable.
type Filter struct {
	Region       string
	CurrencyCode string
}

// Status summarizes the stored dataset.
type Status struct {
	Total int64
	// LastRefreshedAt is nil when the store is empty.
	LastRefreshedAt *time.Time
}

// Store holds the current generation of countries.
type Store interface {
	ReplaceAll(ctx context.Context, countries []reconcile.Country) (int, error)
	List(ctx context.Context, filter Filter, sort Sort) ([]models.CountryRecord, error)
	GetByName(ctx context.Context, name string) (*models.CountryRecord, error)
	DeleteByName(ctx context.Context, name string) error
	Status(ctx context.Context) (*Status, error)
	Top(ctx context.Context, n int) ([]models.CountryRecord, error)
	Summary(ctx context.Context, n int) (*Status, []models.CountryRecord, error)
	WithRefreshLock(ctx context.Context, fn func() error) error
}

const (
	defaultBatchSize = 100
	refreshLockName  = "country_api_refresh"
)

// statusQuery reads the count and the latest timestamp in one statement so
// both come from the same generation.
const statusQuery = "SELECT last_refreshed_at, (SELECT COUNT(*) FROM countries) AS total " +
	"FROM countries ORDER BY last_refreshed_at DESC, id ASC LIMIT 1"

// GormStore implements Store on a relational database.
type GormStore struct {
	db        *gorm.DB
	batchSize int

	// writeMu makes ReplaceAll and DeleteByName mutually exclusive.
	writeMu sync.Mutex
}

// New creates a store over db. The schema must already be migrated.
func New(db *gorm.DB) *GormStore {
	return &GormStore{db: db, batchSize: defaultBatchSize}
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

// ReplaceAll installs countries as the new generation in one transaction.
// Readers see either the previous generation or the new one in full. On error
// the transaction is rolled back and the previous generation stays in place.
func (s *GormStore) ReplaceAll(ctx context.Context, countries []reconcile.Country) (int, error) {
	records := make([]models.CountryRecord, 0, len(countries))
	for _, c := range countries {
		records = append(records, models.FromReconciled(c))
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.CountryRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear countries: %w", err)
		}
		if len(records) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(&records, s.batchSize).Error; err != nil {
			return fmt.Errorf("failed to insert countries: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, storageErr("replace all", err)
	}

	return len(records), nil
}

// List returns the countries matching filter in the requested order.
// Ties are broken by id, which follows insertion order.
func (s *GormStore) List(ctx context.Context, filter Filter, sort Sort) ([]models.CountryRecord, error) {
	var out []models.CountryRecord
	if err := listQuery(s.db.WithContext(ctx), filter, sort).Find(&out).Error; err != nil {
		return nil, storageErr("list", err)
	}
	return out, nil
}

func listQuery(db *gorm.DB, filter Filter, sort Sort) *gorm.DB {
	q := db.Model(&models.CountryRecord{})
	// region and currency_code carry a case-insensitive collation
	if filter.Region != "" {
		q = q.Where("region = ?", filter.Region)
	}
	if filter.CurrencyCode != "" {
		q = q.Where("currency_code = ?", filter.CurrencyCode)
	}

	switch sort {
	case SortGDPDesc:
		return q.Order("estimated_gdp IS NULL").Order("estimated_gdp DESC").Order("id ASC")
	default:
		return q.Order("id ASC")
	}
}

// GetByName returns the country whose name equals name exactly.
func (s *GormStore) GetByName(ctx context.Context, name string) (*models.CountryRecord, error) {
	return s.findByName(s.db.WithContext(ctx), name)
}

func (s *GormStore) findByName(db *gorm.DB, name string) (*models.CountryRecord, error) {
	var rec models.CountryRecord
	err := db.Where("name = ?", name).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageErr("get by name", err)
	}
	// Guard against a case-insensitive collation on the name column
	if rec.Name != name {
		return nil, ErrNotFound
	}
	return &rec, nil
}

// DeleteByName removes the country whose name equals name exactly.
func (s *GormStore) DeleteByName(ctx context.Context, name string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := s.findByName(tx, name)
		if err != nil {
			return err
		}
		res := tx.Delete(&models.CountryRecord{}, rec.ID)
		if res.Error != nil {
			return storageErr("delete", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrStorage) {
		// begin/commit failures
		return storageErr("delete", err)
	}
	return err
}

type statusRow struct {
	LastRefreshedAt time.Time
	Total           int64
}

// Status returns the row count and the latest refresh timestamp.
func (s *GormStore) Status(ctx context.Context) (*Status, error) {
	return s.status(s.db.WithContext(ctx))
}

func (s *GormStore) status(db *gorm.DB) (*Status, error) {
	var row statusRow
	res := db.Raw(statusQuery).Find(&row)
	if res.Error != nil {
		return nil, storageErr("status", res.Error)
	}

	status := &Status{}
	if res.RowsAffected > 0 {
		at := row.LastRefreshedAt.UTC()
		status.Total = row.Total
		status.LastRefreshedAt = &at
	}
	return status, nil
}

// Top returns at most n countries with a known GDP, highest first.
func (s *GormStore) Top(ctx context.Context, n int) ([]models.CountryRecord, error) {
	return s.top(s.db.WithContext(ctx), n)
}

func (s *GormStore) top(db *gorm.DB, n int) ([]models.CountryRecord, error) {
	var out []models.CountryRecord
	err := db.
		Where("estimated_gdp IS NOT NULL").
		Order("estimated_gdp DESC").Order("id ASC").
		Limit(n).
		Find(&out).Error
	if err != nil {
		return nil, storageErr("top", err)
	}
	return out, nil
}

// Summary returns Status and Top(n) read from one snapshot, so a concurrent
// ReplaceAll cannot pair the count of one generation with the rows of another.
func (s *GormStore) Summary(ctx context.Context, n int) (*Status, []models.CountryRecord, error) {
	var (
		status *Status
		top    []models.CountryRecord
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if status, err = s.status(tx); err != nil {
			return err
		}
		top, err = s.top(tx, n)
		return err
	}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		if !errors.Is(err, ErrStorage) {
			// begin/commit failures
			err = storageErr("summary", err)
		}
		return nil, nil, err
	}
	return status, top, nil
}

// WithRefreshLock runs fn while holding a lock shared by every process using
// the same database, so a CLI refresh cannot overlap the server's. On MySQL it
// is a named lock (GET_LOCK) held on one pooled connection; other dialects run
// fn directly since SQLite databases are not shared between processes here.
// ErrLocked is returned without running fn when the lock is taken.
func (s *GormStore) WithRefreshLock(ctx context.Context, fn func() error) error {
	if s.db.Dialector.Name() != "mysql" {
		return fn()
	}

	return s.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		var acquired sql.NullInt64
		if err := conn.Raw("SELECT GET_LOCK(?, 0)", refreshLockName).Row().Scan(&acquired); err != nil {
			return storageErr("refresh lock", err)
		}
		if !acquired.Valid || acquired.Int64 != 1 {
			return ErrLocked
		}
		defer func() {
			var released sql.NullInt64
			// the lock also goes away with the session if this fails
			_ = conn.Raw("SELECT RELEASE_LOCK(?)", refreshLockName).Row().Scan(&released)
		}()

		return fn()
	})
}
