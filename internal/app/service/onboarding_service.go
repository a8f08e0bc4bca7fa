package service

import (
	"context"
	"errors"

	"github.com/shop-ex/shopex-backend/internal/app/model"
	"github.com/shop-ex/shopex-backend/internal/app/repository"
	"github.com/shop-ex/shopex-backend/pkg/logger"
	"github.com/shop-ex/shopex-backend/pkg/redis"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrRequestNotPending = errors.New("no pending seller request for this user")
	ErrTargetNotCustomer = errors.New("target user is not a customer")
	ErrInvalidRole       = errors.New("invalid role")
)

// OnboardingService runs the seller onboarding path
// (customer -> pending applicant -> approved seller) and the one-shot admin
// role actions. Denial leaves only a reason behind: a denied applicant who
// reapplies goes through the same overwrite as a first-time applicant.
type OnboardingService interface {
	ApplySeller(email string) (*MutationResult, error)
	ApproveSeller(adminEmail, targetEmail string) (*MutationResult, error)
	DenySeller(adminEmail, targetEmail, reason string) (*MutationResult, error)
	MakeStaff(adminEmail, targetEmail string) (*MutationResult, error)
	AssignRole(adminEmail, targetEmail string, role model.UserRole) (*MutationResult, error)
}

type onboardingService struct {
	userRepo repository.UserRepository
}

func NewOnboardingService(userRepo repository.UserRepository) OnboardingService {
	return &onboardingService{userRepo: userRepo}
}

func (s *onboardingService) ApplySeller(email string) (*MutationResult, error) {
	logger.Info("Seller application submitted", map[string]interface{}{
		"email": email,
	})

	matched, err := s.userRepo.SetSellerRequest(email, model.SellerRequestPending, nil)
	if err != nil {
		return nil, err
	}
	if matched == 0 {
		return nil, ErrUserNotFound
	}

	s.invalidateRoleCache(email)
	return &MutationResult{Matched: matched, Modified: matched}, nil
}

func (s *onboardingService) ApproveSeller(adminEmail, targetEmail string) (*MutationResult, error) {
	logger.Info("Approving seller application", map[string]interface{}{
		"target": targetEmail,
		"admin":  adminEmail,
	})

	matched, err := s.userRepo.ApproveSeller(targetEmail, adminEmail)
	if err != nil {
		return nil, err
	}
	if matched == 0 {
		// No pending application matched: either the user is missing or
		// the request is not in the pending state.
		if _, findErr := s.userRepo.FindByEmail(targetEmail); findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, findErr
		}
		return nil, ErrRequestNotPending
	}

	s.invalidateRoleCache(targetEmail)

	logger.Info("Seller application approved", map[string]interface{}{
		"target": targetEmail,
		"admin":  adminEmail,
	})
	return &MutationResult{Matched: matched, Modified: matched}, nil
}

func (s *onboardingService) DenySeller(adminEmail, targetEmail, reason string) (*MutationResult, error) {
	logger.Info("Denying seller application", map[string]interface{}{
		"target": targetEmail,
		"admin":  adminEmail,
	})

	matched, err := s.userRepo.SetSellerRequest(targetEmail, model.SellerRequestDenied, &reason)
	if err != nil {
		return nil, err
	}
	if matched == 0 {
		return nil, ErrUserNotFound
	}

	s.invalidateRoleCache(targetEmail)
	return &MutationResult{Matched: matched, Modified: matched}, nil
}

func (s *onboardingService) MakeStaff(adminEmail, targetEmail string) (*MutationResult, error) {
	logger.Info("Promoting user to staff", map[string]interface{}{
		"target": targetEmail,
		"admin":  adminEmail,
	})

	matched, err := s.userRepo.PromoteToStaff(targetEmail)
	if err != nil {
		return nil, err
	}
	if matched == 0 {
		if _, findErr := s.userRepo.FindByEmail(targetEmail); findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, findErr
		}
		return nil, ErrTargetNotCustomer
	}

	s.invalidateRoleCache(targetEmail)
	return &MutationResult{Matched: matched, Modified: matched}, nil
}

func (s *onboardingService) AssignRole(adminEmail, targetEmail string, role model.UserRole) (*MutationResult, error) {
	switch role {
	case model.RoleCustomer, model.RoleSeller, model.RoleStaff, model.RoleAdmin:
	default:
		return nil, ErrInvalidRole
	}

	logger.Info("Assigning role", map[string]interface{}{
		"target": targetEmail,
		"role":   role,
		"admin":  adminEmail,
	})

	matched, err := s.userRepo.UpdateRole(targetEmail, role)
	if err != nil {
		return nil, err
	}
	if matched == 0 {
		return nil, ErrUserNotFound
	}

	s.invalidateRoleCache(targetEmail)
	return &MutationResult{Matched: matched, Modified: matched}, nil
}

// invalidateRoleCache drops the guard chain's cached role snapshot so the
// next request observes the new role state. Best effort.
func (s *onboardingService) invalidateRoleCache(email string) {
	if err := redis.InvalidateRole(context.Background(), email); err != nil {
		logger.Warn("Failed to invalidate role cache", map[string]interface{}{
			"email": email,
			"error": err.Error(),
		})
	}
}
