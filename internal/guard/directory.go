package guard

import (
	"context"
	"encoding/json"

	"github.com/shop-ex/shopex-backend/internal/app/model"
	"github.com/shop-ex/shopex-backend/pkg/logger"
	"github.com/shop-ex/shopex-backend/pkg/redis"
)

// Directory resolves a caller's current role state for the store-backed
// guards.
type Directory interface {
	Snapshot(ctx context.Context, email string) (*RoleSnapshot, error)
}

// UserSource is the slice of the user repository the directory needs.
type UserSource interface {
	FindByEmail(email string) (*model.User, error)
}

// userDirectory reads through a Redis role cache before hitting the users
// table. The cache is best-effort: any Redis failure falls back to the
// database, and role mutations invalidate the key.
type userDirectory struct {
	users UserSource
}

func NewDirectory(users UserSource) Directory {
	return &userDirectory{users: users}
}

func (d *userDirectory) Snapshot(ctx context.Context, email string) (*RoleSnapshot, error) {
	if payload, err := redis.GetCachedRole(ctx, email); err == nil {
		var snapshot RoleSnapshot
		if unmarshalErr := json.Unmarshal([]byte(payload), &snapshot); unmarshalErr == nil {
			return &snapshot, nil
		}
	} else if !redis.IsNil(err) {
		logger.Warn("Role cache read failed, falling back to database", map[string]interface{}{
			"email": email,
			"error": err.Error(),
		})
	}

	user, err := d.users.FindByEmail(email)
	if err != nil {
		return nil, err
	}

	snapshot := &RoleSnapshot{
		Role:          user.Role,
		SellerRequest: user.SellerRequest,
	}

	if payload, err := json.Marshal(snapshot); err == nil {
		if cacheErr := redis.CacheRole(ctx, email, string(payload)); cacheErr != nil {
			logger.Warn("Role cache write failed", map[string]interface{}{
				"email": email,
				"error": cacheErr.Error(),
			})
		}
	}

	return snapshot, nil
}
