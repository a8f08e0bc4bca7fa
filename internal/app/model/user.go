package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleSeller   UserRole = "seller"
	RoleStaff    UserRole = "staff"
	RoleAdmin    UserRole = "admin"
)

// SellerRequestStatus tracks a customer's application for seller status.
// A nil pointer on User means the user never applied.
type SellerRequestStatus string

const (
	SellerRequestPending  SellerRequestStatus = "pending"
	SellerRequestApproved SellerRequestStatus = "approved"
	SellerRequestDenied   SellerRequestStatus = "denied"
)

type User struct {
	ID            uint                 `gorm:"primarykey" json:"id"`
	Email         string               `gorm:"uniqueIndex;not null" json:"email"`
	Name          string               `gorm:"not null" json:"name"`
	ProfileImage  *string              `json:"profile_image,omitempty"`
	Role          UserRole             `gorm:"type:varchar(20);default:'customer';index" json:"role"`
	SellerRequest *SellerRequestStatus `gorm:"type:varchar(20)" json:"seller_request,omitempty"`
	DenyReason    *string              `gorm:"type:text" json:"deny_reason,omitempty"`
	ApprovedBy    *string              `json:"approved_by,omitempty"` // admin email that approved seller status
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
	DeletedAt     gorm.DeletedAt       `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// SellerEligible reports whether the user is fully cleared to list products:
// role is seller and the seller request reached approved. Having applied is
// not enough.
func (u *User) SellerEligible() bool {
	return u.Role == RoleSeller &&
		u.SellerRequest != nil && *u.SellerRequest == SellerRequestApproved
}
