package service

import (
	"context"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"

	"console/internal/entity"
	"console/pkg/casing"
)

// Placeholder is shown for counts that are pending or failed.
const Placeholder = "..."

// StatCard is one dashboard tile.
type StatCard struct {
	Slug  string
	Title string
	Value string
	Err   error
}

// Counted reports whether Value is a real count.
func (c StatCard) Counted() bool {
	return c.Err == nil && c.Value != Placeholder
}

type DashboardService interface {
	Stats(ctx context.Context, api API, slugs []string) []StatCard
}

type dashboardService struct {
	registry *entity.Registry
	log      *logrus.Logger
}

// NewDashboardService returns a new instance of DashboardService
func NewDashboardService(registry *entity.Registry, log *logrus.Logger) DashboardService {
	return &dashboardService{registry: registry, log: log}
}

// Stats counts every permitted slug concurrently, one card per slug in permission order.
// A failed count keeps its card with the placeholder value.
func (s *dashboardService) Stats(ctx context.Context, api API, slugs []string) []StatCard {
	cards := make([]StatCard, len(slugs))
	var wg conc.WaitGroup
	for i, slug := range slugs {
		cards[i] = StatCard{Slug: slug, Title: s.title(slug), Value: Placeholder}
		wg.Go(func() {
			records, err := api.List(ctx, slug)
			if err != nil {
				s.log.WithError(err).WithField("entity", slug).Warn("dashboard count unavailable")
				cards[i].Err = err
				return
			}
			cards[i].Value = strconv.Itoa(len(records))
		})
	}
	wg.Wait()
	return cards
}

func (s *dashboardService) title(slug string) string {
	if d, ok := s.registry.Describe(slug); ok {
		return d.Title
	}
	return casing.Title(slug)
}
