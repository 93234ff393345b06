package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category - Top level of the catalog hierarchy (e.g. "Vegetables")
type Category struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	Name          string        `gorm:"size:100;not null" json:"name"`
	Description   string        `json:"description"`
	SubCategories []SubCategory `gorm:"foreignKey:ParentID" json:"sub_categories,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// SubCategory - Second level; products attach here, not to the parent
type SubCategory struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	ParentID uint   `gorm:"index;not null" json:"parent_id"`
}

// Product - The Catalog
// Status: 0 = discontinued, 1 = active. IsDeleted: 0 = live, 1 = soft-deleted.
// Quantity is the denormalized sum of quantity_remaining over the product's batches.
type Product struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	Name          string     `gorm:"size:255;not null" json:"name"`
	Description   string     `json:"description"`
	SubCategoryID *uint      `gorm:"index" json:"sub_category_id"`
	Price         int64      `gorm:"not null;default:0" json:"price"`
	Unit          string     `gorm:"size:20" json:"unit"`
	Quantity      int        `gorm:"not null;default:0" json:"quantity"`
	Sold          int        `gorm:"not null;default:0" json:"sold"`
	Origin        string     `gorm:"size:100" json:"origin"`
	Status        int        `gorm:"not null;default:1" json:"status"`
	IsDeleted     int        `gorm:"not null;default:0" json:"is_deleted"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at"`

	Images         []ProductImage         `gorm:"foreignKey:ProductID" json:"images,omitempty"`
	Certifications []ProductCertification `gorm:"foreignKey:ProductID" json:"certifications,omitempty"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// ProductImage - At most one primary image per product
type ProductImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID string    `gorm:"size:36;index;not null" json:"product_id"`
	ImageURL  string    `gorm:"not null" json:"image_url"`
	IsPrimary bool      `gorm:"not null;default:false" json:"is_primary"`
	AltText   string    `json:"alt_text"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductCertification - Quality/origin certificates attached to a product
type ProductCertification struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ProductID      string    `gorm:"size:36;index;not null" json:"product_id"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	IssuedBy       string    `gorm:"size:255" json:"issued_by"`
	CertificateURL string    `json:"certificate_url"`
	CreatedAt      time.Time `json:"created_at"`
}

// ImportReceipt - A supplier delivery. TotalAmount is denormalized:
// sum(unit_cost * quantity_imported) over the receipt's batches.
type ImportReceipt struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SupplierName string    `gorm:"size:255" json:"supplier_name"`
	TotalAmount  int64     `gorm:"not null;default:0" json:"total_amount"`
	ImportDate   time.Time `json:"import_date"`
	CreatedBy    string    `gorm:"size:36" json:"created_by"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Batch - A lot of one product received under one import receipt.
// Invariant: 0 <= QuantityRemaining <= QuantityImported.
type Batch struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	ProductID         string     `gorm:"size:36;index;not null" json:"product_id"`
	ImportReceiptID   uint       `gorm:"index;not null" json:"import_receipt_id"`
	BatchCode         string     `gorm:"size:100;uniqueIndex" json:"batch_code"`
	ImportDate        time.Time  `json:"import_date"`
	ExpiryDate        *time.Time `json:"expiry_date"`
	QuantityImported  int        `gorm:"not null" json:"quantity_imported"`
	QuantityRemaining int        `gorm:"not null" json:"quantity_remaining"`
	UnitCost          int64      `gorm:"not null;default:0" json:"unit_cost"`
	Notes             string     `json:"notes"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	Documents []BatchDocument `gorm:"foreignKey:BatchID" json:"documents,omitempty"`
}

// BatchDocument - Paperwork for a batch (invoice, phytosanitary cert, ...).
// Only the URL is stored; the file itself lives in external object storage.
type BatchDocument struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	BatchID      uint      `gorm:"index;not null" json:"batch_id"`
	DocumentType string    `gorm:"size:50" json:"document_type"`
	FileURL      string    `gorm:"not null" json:"file_url"`
	CreatedAt    time.Time `json:"created_at"`
}

// Order - The Transaction Header. Never persisted without a PaymentDetail.
type Order struct {
	ID              string      `gorm:"primaryKey;size:36" json:"id"`
	UserID          string      `gorm:"size:36;index;not null" json:"user_id"`
	Status          OrderStatus `gorm:"size:20;not null" json:"status"`
	Total           int64       `gorm:"not null;default:0" json:"total"`
	DeliveryAddress string      `json:"delivery_address"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`

	Items   []OrderItem    `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Payment *PaymentDetail `gorm:"foreignKey:OrderID" json:"payment,omitempty"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// OrderItem - Price is a snapshot taken at order time, immutable afterwards
type OrderItem struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	OrderID   string `gorm:"size:36;index;not null" json:"order_id"`
	ProductID string `gorm:"size:36;not null" json:"product_id"`
	Quantity  int    `gorm:"not null" json:"quantity"`
	Price     int64  `gorm:"not null" json:"price"`
}

// PaymentDetail - Exactly one per order, created in the same transaction
type PaymentDetail struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	OrderID   string        `gorm:"size:36;uniqueIndex;not null" json:"order_id"`
	Amount    int64         `gorm:"not null;default:0" json:"amount"`
	Status    PaymentStatus `gorm:"size:20;not null" json:"status"`
	Method    string        `gorm:"size:30" json:"method"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Cart - One per user, enforced by the unique index
type Cart struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    string     `gorm:"size:36;uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// CartItem - The (cart_id, product_id) unique index backs the merge-on-add upsert:
// re-adding a product increments quantity instead of inserting a second row.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CartID    uint      `gorm:"uniqueIndex:idx_cart_product;not null" json:"cart_id"`
	ProductID string    `gorm:"size:36;uniqueIndex:idx_cart_product;not null" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
