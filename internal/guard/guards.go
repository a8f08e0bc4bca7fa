package guard

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shop-ex/shopex-backend/internal/app/model"
	"github.com/shop-ex/shopex-backend/internal/errors"
	"gorm.io/gorm"
)

// ProductDirectory resolves listing ownership for OwnsProduct.
type ProductDirectory interface {
	OwnerEmail(id string) (string, error)
}

// selfMatch requires the token identity to equal the identity named in the
// request.
type selfMatch struct{}

// SelfMatch guards actions scoped to "my own" resource.
func SelfMatch() Guard { return selfMatch{} }

func (selfMatch) Name() string { return "self_match" }

func (selfMatch) Check(_ context.Context, rc *RequestContext) *Denial {
	if rc.CallerEmail == "" {
		return &Denial{
			Kind:    KindUnauthorized,
			Code:    errors.AuthUnauthorized,
			Message: "authentication required",
		}
	}
	if rc.TargetEmail != rc.CallerEmail {
		return forbidden(errors.AuthzIdentityMismatch, "you can only act on your own account")
	}
	return nil
}

// roleMatch requires the caller's stored role to be one of the allowed
// roles. The role comes from the user directory, never from the token.
type roleMatch struct {
	dir   Directory
	roles []model.UserRole
}

// RoleMatch guards staff-only and admin-only transitions.
func RoleMatch(dir Directory, roles ...model.UserRole) Guard {
	return roleMatch{dir: dir, roles: roles}
}

func (g roleMatch) Name() string { return "role_match" }

func (g roleMatch) Check(ctx context.Context, rc *RequestContext) *Denial {
	snapshot, denial := callerSnapshot(ctx, g.dir, rc)
	if denial != nil {
		return denial
	}
	for _, role := range g.roles {
		if snapshot.Role == role {
			return nil
		}
	}
	return forbidden(errors.AuthzRoleMismatch,
		fmt.Sprintf("requires %s role", rolesLabel(g.roles)))
}

// sellerEligible is the compound check distinguishing "has applied" from
// "is fully approved to sell": role must be seller AND the seller request
// must have reached approved.
type sellerEligible struct {
	dir Directory
}

func SellerEligible(dir Directory) Guard { return sellerEligible{dir: dir} }

func (sellerEligible) Name() string { return "seller_eligible" }

func (g sellerEligible) Check(ctx context.Context, rc *RequestContext) *Denial {
	snapshot, denial := callerSnapshot(ctx, g.dir, rc)
	if denial != nil {
		return denial
	}
	if snapshot.Role != model.RoleSeller {
		return forbidden(errors.AuthzNotEligible, "only approved sellers can do this")
	}
	if snapshot.SellerRequest == nil || *snapshot.SellerRequest != model.SellerRequestApproved {
		return forbidden(errors.AuthzNotEligible, "seller request has not been approved")
	}
	return nil
}

// ownsProduct requires the stored seller email of the listing to equal the
// caller's identity claim. A nonexistent listing is reported as a denial,
// not a not-found, so probing cannot reveal which identifiers exist.
type ownsProduct struct {
	products ProductDirectory
}

func OwnsProduct(products ProductDirectory) Guard { return ownsProduct{products: products} }

func (ownsProduct) Name() string { return "owns_product" }

func (g ownsProduct) Check(_ context.Context, rc *RequestContext) *Denial {
	if rc.CallerEmail == "" {
		return &Denial{
			Kind:    KindUnauthorized,
			Code:    errors.AuthUnauthorized,
			Message: "authentication required",
		}
	}
	owner, err := g.products.OwnerEmail(rc.ProductID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return forbidden(errors.AuthzNotOwner, "you do not own this listing")
		}
		return unavailable()
	}
	if owner != rc.CallerEmail {
		return forbidden(errors.AuthzNotOwner, "you do not own this listing")
	}
	return nil
}

// validIdentifier requires the listing identifier to be a syntactically
// valid UUID. This is the only guard that signals malformed input rather
// than an access denial.
type validIdentifier struct{}

func ValidIdentifier() Guard { return validIdentifier{} }

func (validIdentifier) Name() string { return "valid_identifier" }

func (validIdentifier) Check(_ context.Context, rc *RequestContext) *Denial {
	if _, err := uuid.Parse(rc.ProductID); err != nil {
		return &Denial{
			Kind:    KindBadRequest,
			Code:    errors.ValidationInvalidID,
			Message: "invalid listing identifier",
		}
	}
	return nil
}

// callerSnapshot resolves and memoizes the caller's role snapshot.
func callerSnapshot(ctx context.Context, dir Directory, rc *RequestContext) (*RoleSnapshot, *Denial) {
	if rc.CallerEmail == "" {
		return nil, &Denial{
			Kind:    KindUnauthorized,
			Code:    errors.AuthUnauthorized,
			Message: "authentication required",
		}
	}
	if s := rc.cachedSnapshot(); s != nil {
		return s, nil
	}
	snapshot, err := dir.Snapshot(ctx, rc.CallerEmail)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, forbidden(errors.AuthzForbidden, "unknown account")
		}
		return nil, unavailable()
	}
	rc.memoize(snapshot)
	return snapshot, nil
}

func rolesLabel(roles []model.UserRole) string {
	label := ""
	for i, role := range roles {
		if i > 0 {
			label += " or "
		}
		label += string(role)
	}
	return label
}
