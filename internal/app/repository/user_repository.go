package repository

import (
	"github.com/shop-ex/shopex-backend/internal/app/model"
	"github.com/shop-ex/shopex-backend/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByEmail(email string) (*model.User, error)
	FindAll() ([]model.User, error)
	UpdateProfile(email, name string, profileImage *string) (int64, error)
	SetSellerRequest(email string, status model.SellerRequestStatus, denyReason *string) (int64, error)
	ApproveSeller(email, adminEmail string) (int64, error)
	PromoteToStaff(email string) (int64, error)
	UpdateRole(email string, role model.UserRole) (int64, error)
	DeleteByEmail(email string) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	logger.Debug("Creating user in database", map[string]interface{}{
		"email": user.Email,
		"role":  user.Role,
	})

	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": user.Email,
		})
		return err
	}

	logger.Debug("User created in database", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindAll() ([]model.User, error) {
	var users []model.User
	if err := r.db.Order("created_at DESC").Find(&users).Error; err != nil {
		logger.Error("Failed to list users", err, nil)
		return nil, err
	}
	return users, nil
}

func (r *userRepository) UpdateProfile(email, name string, profileImage *string) (int64, error) {
	updates := map[string]interface{}{}
	if name != "" {
		updates["name"] = name
	}
	if profileImage != nil {
		updates["profile_image"] = *profileImage
	}
	if len(updates) == 0 {
		return 0, nil
	}

	result := r.db.Model(&model.User{}).Where("email = ?", email).Updates(updates)
	if result.Error != nil {
		logger.Error("Failed to update profile in database", result.Error, map[string]interface{}{
			"email": email,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// SetSellerRequest overwrites the seller request status. Applying after a
// denial goes through here too, wiping the previous deny reason.
func (r *userRepository) SetSellerRequest(email string, status model.SellerRequestStatus, denyReason *string) (int64, error) {
	logger.Debug("Setting seller request status", map[string]interface{}{
		"email":  email,
		"status": status,
	})

	result := r.db.Model(&model.User{}).Where("email = ?", email).Updates(map[string]interface{}{
		"seller_request": status,
		"deny_reason":    denyReason,
	})
	if result.Error != nil {
		logger.Error("Failed to set seller request status", result.Error, map[string]interface{}{
			"email":  email,
			"status": status,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ApproveSeller flips a pending applicant to an approved seller in one
// conditional update, so the role can never reach seller without the
// request reaching approved, and a losing concurrent approval is a no-op.
func (r *userRepository) ApproveSeller(email, adminEmail string) (int64, error) {
	logger.Debug("Approving seller request", map[string]interface{}{
		"email": email,
		"admin": adminEmail,
	})

	result := r.db.Model(&model.User{}).
		Where("email = ? AND seller_request = ?", email, model.SellerRequestPending).
		Updates(map[string]interface{}{
			"role":           model.RoleSeller,
			"seller_request": model.SellerRequestApproved,
			"approved_by":    adminEmail,
			"deny_reason":    nil,
		})
	if result.Error != nil {
		logger.Error("Failed to approve seller request", result.Error, map[string]interface{}{
			"email": email,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// PromoteToStaff promotes a customer to staff. The role precondition is part
// of the update so promoting a non-customer matches zero rows.
func (r *userRepository) PromoteToStaff(email string) (int64, error) {
	result := r.db.Model(&model.User{}).
		Where("email = ? AND role = ?", email, model.RoleCustomer).
		Update("role", model.RoleStaff)
	if result.Error != nil {
		logger.Error("Failed to promote user to staff", result.Error, map[string]interface{}{
			"email": email,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *userRepository) UpdateRole(email string, role model.UserRole) (int64, error) {
	result := r.db.Model(&model.User{}).Where("email = ?", email).Update("role", role)
	if result.Error != nil {
		logger.Error("Failed to update user role", result.Error, map[string]interface{}{
			"email": email,
			"role":  role,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *userRepository) DeleteByEmail(email string) (int64, error) {
	logger.Debug("Deleting user from database", map[string]interface{}{
		"email": email,
	})

	result := r.db.Where("email = ?", email).Delete(&model.User{})
	if result.Error != nil {
		logger.Error("Failed to delete user from database", result.Error, map[string]interface{}{
			"email": email,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
