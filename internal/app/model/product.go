package model

import (
	"math"
	"time"

	"gorm.io/gorm"
)

// ProductStatus is the moderation state of a listing.
//
// pending       - freshly created or resubmitted after a staff rejection
// checked       - cleared by staff, waiting for an admin decision
// rejected      - rejected by staff, back with the seller
// adminRejected - rejected by admin, back with the seller
// approved      - publicly visible
type ProductStatus string

const (
	StatusPending       ProductStatus = "pending"
	StatusChecked       ProductStatus = "checked"
	StatusRejected      ProductStatus = "rejected"
	StatusAdminRejected ProductStatus = "adminRejected"
	StatusApproved      ProductStatus = "approved"
)

type StockStatus string

const (
	StockIn  StockStatus = "in-stock"
	StockOut StockStatus = "out-of-stock"
)

// PublicPriceMarkup is applied to the seller price once, at creation.
const PublicPriceMarkup = 1.10

type Product struct {
	ID          string      `gorm:"type:varchar(36);primarykey" json:"id"`
	Name        string      `gorm:"not null" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Images      []string    `gorm:"serializer:json" json:"images"`
	Sizes       []string    `gorm:"serializer:json" json:"sizes"`
	Rating      float64     `gorm:"default:0" json:"rating"`
	Quantity    int         `gorm:"default:0" json:"quantity"`
	Category    string      `gorm:"index" json:"category"`
	SubCategory string      `gorm:"index" json:"sub_category"`
	SellerPrice float64     `gorm:"not null" json:"seller_price"`
	Price       float64     `gorm:"not null" json:"price"` // seller price + markup, fixed at creation
	Stock       StockStatus `gorm:"type:varchar(20);default:'in-stock'" json:"stock"`

	// Seller identity. SellerEmail is the sole ownership authority and is
	// immutable after creation.
	SellerName  string `gorm:"not null" json:"seller_name"`
	SellerEmail string `gorm:"not null;index" json:"seller_email"`

	TotalSold int              `gorm:"default:0" json:"total_sold"`
	Comments  []ProductComment `gorm:"foreignKey:ProductID" json:"comments,omitempty"`

	Status ProductStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`

	// Review trail. At most one of the two rejection pairs is set at any
	// time; both are cleared on forward transitions.
	CheckedBy         *string `json:"checked_by,omitempty"`
	StaffRejectReason *string `gorm:"type:text" json:"staff_reject_reason,omitempty"`
	StaffRejectedBy   *string `json:"staff_rejected_by,omitempty"`
	AdminRejectReason *string `gorm:"type:text" json:"admin_reject_reason,omitempty"`
	AdminRejectedBy   *string `json:"admin_rejected_by,omitempty"`
	ApprovedBy        *string `json:"approved_by,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// PublicPrice computes the customer-facing price from a seller price,
// rounded to 2 decimals.
func PublicPrice(sellerPrice float64) float64 {
	return math.Round(sellerPrice*PublicPriceMarkup*100) / 100
}

type ProductComment struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	ProductID   string    `gorm:"type:varchar(36);not null;index" json:"product_id"`
	AuthorEmail string    `gorm:"not null" json:"author_email"`
	AuthorName  string    `json:"author_name"`
	Body        string    `gorm:"type:text;not null" json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}

func (ProductComment) TableName() string {
	return "product_comments"
}
