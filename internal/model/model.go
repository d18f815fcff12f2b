package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           string `gorm:"primaryKey;size:64;not null"`
	Name         string `gorm:"size:128;not null"`
	Email        string `gorm:"size:128;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:128;not null" json:"-"`
	Role         string `gorm:"size:16;index;not null"` // user, admin
	Avatar       string `gorm:"size:256"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Product struct {
	ID          string          `gorm:"primaryKey;size:64;not null"`
	Name        string          `gorm:"size:200;index;not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock       int             `gorm:"not null"`
	Category    string          `gorm:"size:64;index"`
	Brand       string          `gorm:"size:64;index"`
	Images      []ProductImage  `gorm:"foreignKey:ProductID"`
	Rating      float64         `gorm:"not null;default:0"`
	NumReviews  int             `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ProductImage struct {
	ID        uint   `gorm:"primaryKey"`
	ProductID string `gorm:"size:64;index;not null"`
	URL       string `gorm:"size:512;not null"`
}

type Review struct {
	ID        string  `gorm:"primaryKey;size:64;not null"`
	ProductID string  `gorm:"size:64;uniqueIndex:idx_review_product_user;not null"`
	UserID    string  `gorm:"size:64;uniqueIndex:idx_review_product_user;not null"`
	UserName  string  `gorm:"size:128"`
	Rating    int     `gorm:"not null"`
	Comment   string  `gorm:"type:text"`
	Product   Product `gorm:"foreignKey:ProductID" json:"-"`
	CreatedAt time.Time
}

const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
)

// ShippingInfo is embedded into Order and carried through the checkout
// session. All fields must be non-empty before the confirm step.
type ShippingInfo struct {
	Address    string `gorm:"size:256" json:"address"`
	City       string `gorm:"size:64" json:"city"`
	State      string `gorm:"size:64" json:"state"`
	PostalCode string `gorm:"size:16" json:"postalCode"`
	Country    string `gorm:"size:64" json:"country"`
	PhoneNo    string `gorm:"size:32" json:"phoneNo"`
}

func (s ShippingInfo) Complete() bool {
	return s.Address != "" && s.City != "" && s.State != "" &&
		s.PostalCode != "" && s.Country != "" && s.PhoneNo != ""
}

type PaymentInfo struct {
	IntentID string `gorm:"size:64;index" json:"id"`
	Status   string `gorm:"size:32" json:"status"`
}

type Order struct {
	ID            string          `gorm:"primaryKey;size:64;not null"`
	UserID        string          `gorm:"size:64;index;not null"`
	Status        string          `gorm:"size:32;index;not null"` // pending, paid, shipped, delivered
	Items         []OrderItem     `gorm:"foreignKey:OrderID"`
	Shipping      ShippingInfo    `gorm:"embedded;embeddedPrefix:shipping_"`
	Payment       PaymentInfo     `gorm:"embedded;embeddedPrefix:payment_"`
	ItemsPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ShippingPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaidAt        *time.Time
	DeliveredAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type OrderItem struct {
	ID        uint            `gorm:"primaryKey"`
	OrderID   string          `gorm:"size:64;index;not null"`
	ProductID string          `gorm:"size:64;index;not null"`
	Name      string          `gorm:"size:200;not null"`
	Image     string          `gorm:"size:512"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"` // snapshot taken at add-to-cart time
	Quantity  int             `gorm:"not null"`
	CreatedAt time.Time
}
