package guard

import (
	"context"
	"net/http"

	"github.com/shop-ex/shopex-backend/internal/app/model"
	"github.com/shop-ex/shopex-backend/internal/errors"
)

// DenialKind classifies why a guard refused a request.
type DenialKind int

const (
	// KindUnauthorized means no usable credential was presented.
	KindUnauthorized DenialKind = iota
	// KindForbidden means the credential is fine but the caller may not do
	// this: identity mismatch, wrong role, not the owner, not eligible.
	KindForbidden
	// KindBadRequest means the request itself is malformed (bad listing
	// identifier). The only kind that is not an access decision.
	KindBadRequest
	// KindUnavailable means a guard could not reach the store; the request
	// fails retryably rather than hanging.
	KindUnavailable
)

// Denial is the typed result of a failed guard check.
type Denial struct {
	Kind    DenialKind
	Code    string // error code constant from internal/errors
	Message string
}

// Status maps a denial kind to its HTTP status.
func (d *Denial) Status() int {
	switch d.Kind {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnavailable:
		return http.StatusInternalServerError
	default:
		return http.StatusForbidden
	}
}

func forbidden(code, message string) *Denial {
	return &Denial{Kind: KindForbidden, Code: code, Message: message}
}

func unavailable() *Denial {
	return &Denial{
		Kind:    KindUnavailable,
		Code:    errors.InternalDatabaseError,
		Message: "storage temporarily unavailable, please retry",
	}
}

// RoleSnapshot is the slice of a user record the guards care about.
type RoleSnapshot struct {
	Role          model.UserRole             `json:"role"`
	SellerRequest *model.SellerRequestStatus `json:"seller_request,omitempty"`
}

// RequestContext carries the authenticated identity and the request's
// declared target through a guard chain. The caller's role snapshot is
// looked up at most once per request and memoized here.
type RequestContext struct {
	CallerEmail string // email claim of the verified token; empty if unauthenticated
	TargetEmail string // identity named by the request (query parameter)
	ProductID   string // listing identifier named by the request, if any

	snapshot *RoleSnapshot
}

func (rc *RequestContext) cachedSnapshot() *RoleSnapshot {
	return rc.snapshot
}

func (rc *RequestContext) memoize(s *RoleSnapshot) {
	rc.snapshot = s
}

// Guard is a side-effect-free predicate gating a transition. A nil return
// allows the chain to continue.
type Guard interface {
	Name() string
	Check(ctx context.Context, rc *RequestContext) *Denial
}

// Chain is an ordered guard list combined by short-circuiting AND: the
// first denial terminates evaluation. Order affects cost only, never the
// outcome, since guards do not mutate anything the other guards read.
type Chain []Guard

func (c Chain) Check(ctx context.Context, rc *RequestContext) *Denial {
	for _, g := range c {
		if denial := g.Check(ctx, rc); denial != nil {
			return denial
		}
	}
	return nil
}
