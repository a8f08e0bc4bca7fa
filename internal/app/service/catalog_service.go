package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shop-ex/shopex-backend/internal/app/model"
	"github.com/shop-ex/shopex-backend/internal/app/repository"
	"github.com/shop-ex/shopex-backend/pkg/logger"
	"github.com/shop-ex/shopex-backend/pkg/redis"
	"gorm.io/gorm"
)

const (
	facetCacheKey = "catalog:facets"
	facetCacheTTL = 10 * time.Minute

	defaultSampleSize = 6
	maxSampleSize     = 50
)

// CatalogService is the read model over the moderation state: public
// surfaces see only approved listings, seller dashboards see their own
// listings at any status, review queues see the tier they serve.
type CatalogService interface {
	ListApproved(filter repository.CatalogFilter) ([]model.Product, error)
	GetApprovedByID(id string) (*model.Product, error)
	Sample(limit int) ([]model.Product, error)
	Facets() (repository.Facets, error)
	RefreshFacets() (repository.Facets, error)
	SellerListings(email string) ([]model.Product, error)
	ReviewQueue(status model.ProductStatus) ([]model.Product, error)
	AddComment(id, authorEmail, authorName, body string) (*model.ProductComment, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
}

func NewCatalogService(productRepo repository.ProductRepository) CatalogService {
	return &catalogService{productRepo: productRepo}
}

func (s *catalogService) ListApproved(filter repository.CatalogFilter) ([]model.Product, error) {
	return s.productRepo.FindApproved(filter)
}

// GetApprovedByID serves the public detail page. Listings that are not
// approved are reported as missing.
func (s *catalogService) GetApprovedByID(id string) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if product.Status != model.StatusApproved {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *catalogService) Sample(limit int) ([]model.Product, error) {
	if limit <= 0 {
		limit = defaultSampleSize
	}
	if limit > maxSampleSize {
		limit = maxSampleSize
	}
	return s.productRepo.FindRandomApproved(limit)
}

// Facets reads through the Redis facet cache, falling back to a direct
// aggregation when the cache is cold or unavailable.
func (s *catalogService) Facets() (repository.Facets, error) {
	if payload, err := redis.GetJSON(context.Background(), facetCacheKey); err == nil {
		var facets repository.Facets
		if unmarshalErr := json.Unmarshal([]byte(payload), &facets); unmarshalErr == nil {
			return facets, nil
		}
	} else if !redis.IsNil(err) {
		logger.Warn("Facet cache read failed, falling back to database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return s.RefreshFacets()
}

// RefreshFacets recomputes the facet aggregation and repopulates the cache.
// Called by the scheduler and on cache misses.
func (s *catalogService) RefreshFacets() (repository.Facets, error) {
	facets, err := s.productRepo.ListFacets()
	if err != nil {
		return facets, err
	}

	if payload, err := json.Marshal(facets); err == nil {
		if cacheErr := redis.SetJSON(context.Background(), facetCacheKey, string(payload), facetCacheTTL); cacheErr != nil {
			logger.Warn("Facet cache write failed", map[string]interface{}{
				"error": cacheErr.Error(),
			})
		}
	}

	return facets, nil
}

func (s *catalogService) SellerListings(email string) ([]model.Product, error) {
	return s.productRepo.FindBySeller(email)
}

func (s *catalogService) ReviewQueue(status model.ProductStatus) ([]model.Product, error) {
	return s.productRepo.FindByStatus(status)
}

// AddComment appends a comment to an approved listing. Listings still in
// moderation do not accept comments and are reported as missing.
func (s *catalogService) AddComment(id, authorEmail, authorName, body string) (*model.ProductComment, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if product.Status != model.StatusApproved {
		return nil, ErrProductNotFound
	}

	comment := &model.ProductComment{
		ProductID:   id,
		AuthorEmail: authorEmail,
		AuthorName:  authorName,
		Body:        body,
	}
	if err := s.productRepo.AddComment(comment); err != nil {
		return nil, err
	}

	logger.Info("Comment added to listing", map[string]interface{}{
		"product_id": id,
		"author":     authorEmail,
	})
	return comment, nil
}
