package repository

import (
	"github.com/shop-ex/shopex-backend/internal/app/model"
	"github.com/shop-ex/shopex-backend/pkg/logger"
	"gorm.io/gorm"
)

// CatalogFilter narrows public catalog reads.
type CatalogFilter struct {
	Category    string
	SubCategory string
	Limit       int
	Offset      int
}

// Facets are the distinct category values across all listings regardless of
// moderation status.
type Facets struct {
	Categories    []string `json:"categories"`
	SubCategories []string `json:"sub_categories"`
}

type ProductRepository interface {
	Create(product *model.Product) error
	BulkCreate(products []model.Product, batchSize int) error
	FindByID(id string) (*model.Product, error)
	OwnerEmail(id string) (string, error)
	FindApproved(filter CatalogFilter) ([]model.Product, error)
	FindRandomApproved(limit int) ([]model.Product, error)
	FindBySeller(email string) ([]model.Product, error)
	FindByStatus(status model.ProductStatus) ([]model.Product, error)
	ListFacets() (Facets, error)
	UpdateStatusIf(id string, from model.ProductStatus, updates map[string]interface{}) (int64, error)
	Delete(id string) (int64, error)
	AddComment(comment *model.ProductComment) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating listing in database", map[string]interface{}{
		"product_id":   product.ID,
		"name":         product.Name,
		"seller_email": product.SellerEmail,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create listing in database", err, map[string]interface{}{
			"name":         product.Name,
			"seller_email": product.SellerEmail,
		})
		return err
	}

	logger.Debug("Listing created in database", map[string]interface{}{
		"product_id": product.ID,
		"status":     product.Status,
	})
	return nil
}

func (r *productRepository) BulkCreate(products []model.Product, batchSize int) error {
	if len(products) == 0 {
		return nil
	}

	if err := r.db.CreateInBatches(products, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create listings", err, map[string]interface{}{
			"count": len(products),
		})
		return err
	}

	logger.Info("Bulk created listings", map[string]interface{}{
		"count": len(products),
	})
	return nil
}

func (r *productRepository) FindByID(id string) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Comments").Where("id = ?", id).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// OwnerEmail resolves only the stored seller email, which is the sole
// ownership authority for a listing.
func (r *productRepository) OwnerEmail(id string) (string, error) {
	var owner string
	err := r.db.Model(&model.Product{}).
		Where("id = ?", id).
		Limit(1).
		Pluck("seller_email", &owner).Error
	if err != nil {
		return "", err
	}
	if owner == "" {
		return "", gorm.ErrRecordNotFound
	}
	return owner, nil
}

func (r *productRepository) FindApproved(filter CatalogFilter) ([]model.Product, error) {
	logger.Debug("Finding approved listings", map[string]interface{}{
		"category":     filter.Category,
		"sub_category": filter.SubCategory,
		"limit":        filter.Limit,
		"offset":       filter.Offset,
	})

	query := r.db.Where("status = ?", model.StatusApproved)

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.SubCategory != "" {
		query = query.Where("sub_category = ?", filter.SubCategory)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.Order("created_at DESC").Find(&products).Error; err != nil {
		logger.Error("Failed to find approved listings", err, nil)
		return nil, err
	}
	return products, nil
}

func (r *productRepository) FindRandomApproved(limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("status = ?", model.StatusApproved).
		Order("RANDOM()").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		logger.Error("Failed to sample approved listings", err, map[string]interface{}{
			"limit": limit,
		})
		return nil, err
	}
	return products, nil
}

func (r *productRepository) FindBySeller(email string) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("seller_email = ?", email).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		logger.Error("Failed to find listings by seller", err, map[string]interface{}{
			"seller_email": email,
		})
		return nil, err
	}
	return products, nil
}

func (r *productRepository) FindByStatus(status model.ProductStatus) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("status = ?", status).
		Order("created_at ASC").
		Find(&products).Error
	if err != nil {
		logger.Error("Failed to find listings by status", err, map[string]interface{}{
			"status": status,
		})
		return nil, err
	}
	return products, nil
}

// ListFacets aggregates distinct category values over all listings,
// approved or not.
func (r *productRepository) ListFacets() (Facets, error) {
	result := Facets{}

	if err := r.db.Model(&model.Product{}).
		Where("category IS NOT NULL AND category <> ''").
		Distinct().
		Order("category ASC").
		Pluck("category", &result.Categories).Error; err != nil {
		logger.Error("Failed to fetch distinct categories", err, nil)
		return result, err
	}

	if err := r.db.Model(&model.Product{}).
		Where("sub_category IS NOT NULL AND sub_category <> ''").
		Distinct().
		Order("sub_category ASC").
		Pluck("sub_category", &result.SubCategories).Error; err != nil {
		logger.Error("Failed to fetch distinct sub-categories", err, nil)
		return result, err
	}

	logger.Debug("Listing facets aggregated", map[string]interface{}{
		"category_count":     len(result.Categories),
		"sub_category_count": len(result.SubCategories),
	})
	return result, nil
}

// UpdateStatusIf persists a moderation transition as a single conditional
// update matching the expected current status. A losing concurrent writer
// matches zero rows instead of clobbering the winner's metadata.
func (r *productRepository) UpdateStatusIf(id string, from model.ProductStatus, updates map[string]interface{}) (int64, error) {
	logger.Debug("Applying conditional status update", map[string]interface{}{
		"product_id":  id,
		"from_status": from,
		"to_status":   updates["status"],
	})

	result := r.db.Model(&model.Product{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		logger.Error("Conditional status update failed", result.Error, map[string]interface{}{
			"product_id":  id,
			"from_status": from,
		})
		return 0, result.Error
	}

	logger.Debug("Conditional status update applied", map[string]interface{}{
		"product_id": id,
		"matched":    result.RowsAffected,
	})
	return result.RowsAffected, nil
}

func (r *productRepository) Delete(id string) (int64, error) {
	logger.Debug("Deleting listing from database", map[string]interface{}{
		"product_id": id,
	})

	result := r.db.Where("id = ?", id).Delete(&model.Product{})
	if result.Error != nil {
		logger.Error("Failed to delete listing from database", result.Error, map[string]interface{}{
			"product_id": id,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *productRepository) AddComment(comment *model.ProductComment) error {
	if err := r.db.Create(comment).Error; err != nil {
		logger.Error("Failed to add comment to listing", err, map[string]interface{}{
			"product_id": comment.ProductID,
		})
		return err
	}
	return nil
}
