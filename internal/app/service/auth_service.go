package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/shop-ex/shopex-backend/internal/app/model"
	"github.com/shop-ex/shopex-backend/internal/app/repository"
	"github.com/shop-ex/shopex-backend/pkg/logger"
	"github.com/shop-ex/shopex-backend/pkg/util"
	"gorm.io/gorm"
)

// RoleNotDeletableError is the declined (not denied) outcome for a
// self-delete by anyone whose role is no longer customer. It is a business
// rule, not an access failure, and is reported as such.
type RoleNotDeletableError struct {
	Role model.UserRole
}

func (e *RoleNotDeletableError) Error() string {
	return fmt.Sprintf("%s accounts cannot be self-deleted", e.Role)
}

type AuthService interface {
	RegisterUser(email, name string, profileImage *string) (*model.User, bool, error)
	IssueToken(email string) (string, error)
	GetUserByEmail(email string) (*model.User, error)
	UpdateProfile(email, name string, profileImage *string) (*MutationResult, error)
	DeleteAccount(email string) (int64, error)
}

type authService struct {
	userRepo    repository.UserRepository
	jwtSecret   string
	tokenExpiry time.Duration
}

func NewAuthService(userRepo repository.UserRepository, jwtSecret string, tokenExpiry time.Duration) AuthService {
	return &authService{
		userRepo:    userRepo,
		jwtSecret:   jwtSecret,
		tokenExpiry: tokenExpiry,
	}
}

// RegisterUser stores a new identity record. Registration is idempotent:
// re-registering an existing email is a no-op success returning the stored
// record, so social-login clients can call it on every sign-in.
func (s *authService) RegisterUser(email, name string, profileImage *string) (*model.User, bool, error) {
	existing, err := s.userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"email": email,
		})
		return nil, false, err
	}
	if existing != nil {
		logger.Debug("Registration replay for existing email", map[string]interface{}{
			"email": email,
		})
		return existing, false, nil
	}

	user := &model.User{
		Email:        email,
		Name:         name,
		ProfileImage: profileImage,
		Role:         model.RoleCustomer,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, false, err
	}

	logger.Info("User registered", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
	})
	return user, true, nil
}

// IssueToken mints a 12h bearer token binding the request to an email
// claim.
func (s *authService) IssueToken(email string) (string, error) {
	token, err := util.GenerateToken(email, s.jwtSecret, s.tokenExpiry)
	if err != nil {
		logger.Error("Failed to issue token", err, map[string]interface{}{
			"email": email,
		})
		return "", err
	}

	logger.Debug("Token issued", map[string]interface{}{
		"email":  email,
		"expiry": s.tokenExpiry.String(),
	})
	return token, nil
}

func (s *authService) GetUserByEmail(email string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateProfile(email, name string, profileImage *string) (*MutationResult, error) {
	// An empty update matches the record without modifying it; only an
	// unknown email is a not-found.
	if name == "" && profileImage == nil {
		if _, err := s.userRepo.FindByEmail(email); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
		return &MutationResult{Matched: 1, Modified: 0}, nil
	}

	matched, err := s.userRepo.UpdateProfile(email, name, profileImage)
	if err != nil {
		return nil, err
	}
	if matched == 0 {
		return nil, ErrUserNotFound
	}
	return &MutationResult{Matched: matched, Modified: matched}, nil
}

// DeleteAccount removes the caller's own record. Only customers may
// self-delete; anyone holding an elevated role gets a declined result
// naming that role.
func (s *authService) DeleteAccount(email string) (int64, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}

	if user.Role != model.RoleCustomer {
		logger.Warn("Self-delete declined for elevated role", map[string]interface{}{
			"email": email,
			"role":  user.Role,
		})
		return 0, &RoleNotDeletableError{Role: user.Role}
	}

	deleted, err := s.userRepo.DeleteByEmail(email)
	if err != nil {
		return 0, err
	}

	logger.Info("Account deleted", map[string]interface{}{
		"email":   email,
		"deleted": deleted,
	})
	return deleted, nil
}
