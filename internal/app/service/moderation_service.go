package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shop-ex/shopex-backend/internal/app/model"
	"github.com/shop-ex/shopex-backend/internal/app/repository"
	"github.com/shop-ex/shopex-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound   = errors.New("listing not found")
	ErrStaleStatus       = errors.New("listing status changed under this request")
	ErrNothingToResubmit = errors.New("listing has no rejection to acknowledge")
	ErrSellerNotFound    = errors.New("seller account not found")
)

// MutationResult mirrors the store's conditional-update outcome so callers
// can tell a applied transition from a lost race.
type MutationResult struct {
	Matched  int64 `json:"matched"`
	Modified int64 `json:"modified"`
}

type CreateListingInput struct {
	Name        string
	Description string
	Images      []string
	Sizes       []string
	Quantity    int
	Category    string
	SubCategory string
	SellerPrice float64
	Stock       model.StockStatus
}

// ModerationService drives the listing lifecycle:
//
//	pending -> checked -> approved
//	pending -> rejected -> (resubmit) -> pending
//	checked -> adminRejected -> (resubmit) -> checked
//
// Every transition persists through one conditional update keyed on the
// current status; a concurrent reviewer losing the race gets ErrStaleStatus
// instead of overwriting the winner's review metadata.
type ModerationService interface {
	CreateListing(sellerEmail string, input CreateListingInput) (*model.Product, error)
	StaffApprove(staffEmail, id string) (*MutationResult, error)
	StaffReject(staffEmail, id, reason string) (*MutationResult, error)
	AdminApprove(adminEmail, id string) (*MutationResult, error)
	AdminReject(adminEmail, id, reason string) (*MutationResult, error)
	Resubmit(id string) (*MutationResult, error)
	DeleteListing(id string) (int64, error)
}

type moderationService struct {
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
}

func NewModerationService(
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
) ModerationService {
	return &moderationService{
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

func (s *moderationService) CreateListing(sellerEmail string, input CreateListingInput) (*model.Product, error) {
	logger.Info("Creating listing", map[string]interface{}{
		"seller_email": sellerEmail,
		"name":         input.Name,
	})

	seller, err := s.userRepo.FindByEmail(sellerEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSellerNotFound
		}
		logger.Error("Failed to load seller for listing creation", err, map[string]interface{}{
			"seller_email": sellerEmail,
		})
		return nil, err
	}

	stock := input.Stock
	if stock == "" {
		stock = model.StockIn
	}

	product := &model.Product{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		Images:      input.Images,
		Sizes:       input.Sizes,
		Quantity:    input.Quantity,
		Category:    input.Category,
		SubCategory: input.SubCategory,
		SellerPrice: input.SellerPrice,
		Price:       model.PublicPrice(input.SellerPrice),
		Stock:       stock,
		SellerName:  seller.Name,
		SellerEmail: seller.Email,
		Status:      model.StatusPending,
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	logger.Info("Listing created", map[string]interface{}{
		"product_id":   product.ID,
		"seller_email": sellerEmail,
		"price":        product.Price,
	})
	return product, nil
}

func (s *moderationService) StaffApprove(staffEmail, id string) (*MutationResult, error) {
	logger.Info("Staff clearing listing", map[string]interface{}{
		"product_id": id,
		"reviewer":   staffEmail,
	})

	return s.transition(id, model.StatusPending, map[string]interface{}{
		"status":              model.StatusChecked,
		"checked_by":          staffEmail,
		"staff_reject_reason": nil,
		"staff_rejected_by":   nil,
	})
}

func (s *moderationService) StaffReject(staffEmail, id, reason string) (*MutationResult, error) {
	logger.Info("Staff rejecting listing", map[string]interface{}{
		"product_id": id,
		"reviewer":   staffEmail,
	})

	return s.transition(id, model.StatusPending, map[string]interface{}{
		"status":              model.StatusRejected,
		"staff_reject_reason": reason,
		"staff_rejected_by":   staffEmail,
	})
}

func (s *moderationService) AdminApprove(adminEmail, id string) (*MutationResult, error) {
	logger.Info("Admin approving listing", map[string]interface{}{
		"product_id": id,
		"reviewer":   adminEmail,
	})

	return s.transition(id, model.StatusChecked, map[string]interface{}{
		"status":              model.StatusApproved,
		"approved_by":         adminEmail,
		"admin_reject_reason": nil,
		"admin_rejected_by":   nil,
	})
}

func (s *moderationService) AdminReject(adminEmail, id, reason string) (*MutationResult, error) {
	logger.Info("Admin rejecting listing", map[string]interface{}{
		"product_id": id,
		"reviewer":   adminEmail,
	})

	return s.transition(id, model.StatusChecked, map[string]interface{}{
		"status":              model.StatusAdminRejected,
		"admin_reject_reason": reason,
		"admin_rejected_by":   adminEmail,
	})
}

// Resubmit acknowledges a rejection and returns the listing to the review
// tier it was rejected from: staff rejections go back to pending, admin
// rejections re-enter at checked so staff triage is not repeated. The
// target is derived from which rejection metadata is present, never from
// caller input.
func (s *moderationService) Resubmit(id string) (*MutationResult, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	var from model.ProductStatus
	var updates map[string]interface{}

	switch {
	case product.StaffRejectReason != nil:
		from = model.StatusRejected
		updates = map[string]interface{}{
			"status":              model.StatusPending,
			"staff_reject_reason": nil,
			"staff_rejected_by":   nil,
		}
	case product.AdminRejectReason != nil:
		from = model.StatusAdminRejected
		updates = map[string]interface{}{
			"status":              model.StatusChecked,
			"admin_reject_reason": nil,
			"admin_rejected_by":   nil,
		}
	default:
		logger.Warn("Resubmit on a listing with no rejection metadata", map[string]interface{}{
			"product_id": id,
			"status":     product.Status,
		})
		return nil, ErrNothingToResubmit
	}

	logger.Info("Seller resubmitting listing", map[string]interface{}{
		"product_id":  id,
		"from_status": from,
		"to_status":   updates["status"],
	})

	return s.transition(id, from, updates)
}

func (s *moderationService) DeleteListing(id string) (int64, error) {
	deleted, err := s.productRepo.Delete(id)
	if err != nil {
		return 0, err
	}

	logger.Info("Listing deleted", map[string]interface{}{
		"product_id": id,
		"deleted":    deleted,
	})
	return deleted, nil
}

// transition runs a conditional status update and classifies a zero-row
// match as either a missing listing or a stale status.
func (s *moderationService) transition(id string, from model.ProductStatus, updates map[string]interface{}) (*MutationResult, error) {
	matched, err := s.productRepo.UpdateStatusIf(id, from, updates)
	if err != nil {
		return nil, err
	}

	if matched == 0 {
		if _, findErr := s.productRepo.FindByID(id); findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, findErr
		}
		logger.Warn("Transition lost to a concurrent update", map[string]interface{}{
			"product_id":  id,
			"from_status": from,
		})
		return nil, ErrStaleStatus
	}

	return &MutationResult{Matched: matched, Modified: matched}, nil
}
