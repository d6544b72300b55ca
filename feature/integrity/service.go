package integrity

import (
	"context"

	"country-api/core/storage"
	"country-api/feature/countries/models"
	"country-api/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Report combines every check.
type Report struct {
	Status   string                `json:"status"`
	Database *checks.TableReport   `json:"database,omitempty"`
	Storage  *checks.StorageReport `json:"storage,omitempty"`
	Errors   []string              `json:"errors"`
}

// Service handles integrity checks.
type Service struct {
	db     *gorm.DB
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewService creates a new integrity service.
func NewService(db *gorm.DB, client storage.Client, bucket string, logger *zap.Logger) *Service {
	return &Service{
		db:     db,
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// CheckSchema compares the countries table with its model.
func (s *Service) CheckSchema() (*checks.TableReport, error) {
	return checks.CheckSchema(s.db, &models.CountryRecord{})
}

// CheckStorage verifies the report bucket.
func (s *Service) CheckStorage(ctx context.Context) (*checks.StorageReport, error) {
	return checks.CheckStorage(ctx, s.client, s.bucket)
}

// FixStorage creates the report bucket.
func (s *Service) FixStorage(ctx context.Context) error {
	return checks.FixStorage(ctx, s.client, s.bucket, s.logger)
}

// CheckAll runs every check. Failures are collected in the report.
func (s *Service) CheckAll(ctx context.Context) *Report {
	report := &Report{Status: checks.StatusOK, Errors: []string{}}

	if db, err := s.CheckSchema(); err != nil {
		report.Errors = append(report.Errors, "database: "+err.Error())
	} else {
		report.Database = db
		if !db.OK() {
			report.Errors = append(report.Errors, "database: schema mismatch")
		}
	}

	if st, err := s.CheckStorage(ctx); err != nil {
		report.Errors = append(report.Errors, "storage: "+err.Error())
	} else {
		report.Storage = st
		if st.Status != checks.StatusOK {
			report.Errors = append(report.Errors, "storage: bucket "+st.Bucket+" does not exist")
		}
	}

	if len(report.Errors) > 0 {
		report.Status = checks.StatusError
	}
	return report
}
