package scheduler

import (
	"github.com/robfig/cron/v3"
	"github.com/shop-ex/shopex-backend/internal/app/service"
	"github.com/shop-ex/shopex-backend/pkg/logger"
)

// FacetScheduler keeps the catalog facet cache warm so public facet reads
// rarely hit the aggregation query.
type FacetScheduler struct {
	cron           *cron.Cron
	catalogService service.CatalogService
}

func NewFacetScheduler(catalogService service.CatalogService) *FacetScheduler {
	return &FacetScheduler{
		cron:           cron.New(),
		catalogService: catalogService,
	}
}

// Start refreshes the facet cache every 10 minutes.
func (s *FacetScheduler) Start() error {
	_, err := s.cron.AddFunc("*/10 * * * *", func() {
		facets, err := s.catalogService.RefreshFacets()
		if err != nil {
			logger.Error("Scheduled facet refresh failed", err)
			return
		}

		logger.Info("Facet cache refreshed", map[string]interface{}{
			"categories":     len(facets.Categories),
			"sub_categories": len(facets.SubCategories),
		})
	})
	if err != nil {
		logger.Error("Failed to add cron job for facet refresh", err)
		return err
	}

	s.cron.Start()
	logger.Info("Facet scheduler started (every 10 minutes)", nil)
	return nil
}

// Stop stops the scheduler.
func (s *FacetScheduler) Stop() {
	s.cron.Stop()
	logger.Info("Facet scheduler stopped", nil)
}
