package report

import (
	"context"
	"fmt"
	"image"

	"country-api/feature/countries/models"
	"country-api/feature/countries/store"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Reader is the read side of the store used by the generator. Summary must
// read the status and the top countries from the same generation.
type Reader interface {
	Summary(ctx context.Context, n int) (*store.Status, []models.CountryRecord, error)
}

// Generator renders the summary from the store and publishes it.
type Generator struct {
	reader    Reader
	publisher *Publisher
	flags     FlagLoader
	topN      int
	logger    *zap.Logger
}

// NewGenerator creates a generator drawing the topN countries.
func NewGenerator(reader Reader, publisher *Publisher, flags FlagLoader, topN int, logger *zap.Logger) *Generator {
	if topN <= 0 {
		topN = 5
	}
	return &Generator{reader: reader, publisher: publisher, flags: flags, topN: topN, logger: logger}
}

// Generate re-renders the summary from the current generation and uploads it.
func (g *Generator) Generate(ctx context.Context) error {
	status, top, err := g.reader.Summary(ctx, g.topN)
	if err != nil {
		return fmt.Errorf("failed to read summary: %w", err)
	}

	summary := Summary{
		Total:       status.Total,
		RefreshedAt: status.LastRefreshedAt,
		Flags:       make([]image.Image, len(top)),
	}
	for _, rec := range top {
		summary.Top = append(summary.Top, rec.ToReconciled())
	}

	if g.flags != nil {
		eg, ectx := errgroup.WithContext(ctx)
		for i, c := range summary.Top {
			i, c := i, c
			eg.Go(func() error {
				summary.Flags[i] = g.flags.Load(ectx, c.FlagURL)
				return nil
			})
		}
		_ = eg.Wait()
	}

	data, err := Render(summary)
	if err != nil {
		return err
	}
	if err := g.publisher.Publish(ctx, data); err != nil {
		return err
	}

	g.logger.Info("Summary image published",
		zap.String("object", ObjectName),
		zap.Int("bytes", len(data)),
		zap.Int("top", len(top)))
	return nil
}

// Image returns the last published summary image.
func (g *Generator) Image(ctx context.Context) ([]byte, error) {
	return g.publisher.Fetch(ctx)
}
