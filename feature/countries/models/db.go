package models

import (
	"time"

	"country-api/core/reconcile"
)

// CountryRecord represents the 'countries' table.
// Optional text columns are pointers so empty values are stored as NULL.
type CountryRecord struct {
	ID              uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	Name            string    `gorm:"column:name;size:100;not null;uniqueIndex"`
	Capital         *string   `gorm:"column:capital;size:100"`
	Region          *string   `gorm:"column:region;size:50"`
	Population      int64     `gorm:"column:population;not null"`
	CurrencyCode    *string   `gorm:"column:currency_code;size:10"`
	ExchangeRate    *float64  `gorm:"column:exchange_rate"`
	EstimatedGDP    *float64  `gorm:"column:estimated_gdp"`
	FlagURL         *string   `gorm:"column:flag_url;size:255"`
	LastRefreshedAt time.Time `gorm:"column:last_refreshed_at;not null"`
}

// TableName overrides the table name.
func (CountryRecord) TableName() string {
	return "countries"
}

// FromReconciled converts a reconciled country into a row.
func FromReconciled(c reconcile.Country) CountryRecord {
	return CountryRecord{
		Name:            c.Name,
		Capital:         optional(c.Capital),
		Region:          optional(c.Region),
		Population:      c.Population,
		CurrencyCode:    optional(c.CurrencyCode),
		ExchangeRate:    c.ExchangeRate,
		EstimatedGDP:    c.EstimatedGDP,
		FlagURL:         optional(c.FlagURL),
		LastRefreshedAt: c.RefreshedAt.UTC(),
	}
}

// ToReconciled converts a row back into the domain shape used by the report generator.
func (r CountryRecord) ToReconciled() reconcile.Country {
	return reconcile.Country{
		Name:         r.Name,
		Capital:      deref(r.Capital),
		Region:       deref(r.Region),
		Population:   r.Population,
		CurrencyCode: deref(r.CurrencyCode),
		ExchangeRate: r.ExchangeRate,
		EstimatedGDP: r.EstimatedGDP,
		FlagURL:      deref(r.FlagURL),
		RefreshedAt:  r.LastRefreshedAt.UTC(),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
