// Package model holds the GORM persistence models. They are exported so
// cmd/gen can generate typed query code from them.
package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"type:varchar(150);uniqueIndex;not null"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	FirstName    string    `gorm:"type:varchar(150)"`
	LastName     string    `gorm:"type:varchar(150)"`
	AddressLine1 string    `gorm:"type:varchar(255)"`
	AddressLine2 string    `gorm:"type:varchar(255)"`
	City         string    `gorm:"type:varchar(100)"`
	State        string    `gorm:"type:varchar(100)"`
	Zipcode      string    `gorm:"type:varchar(20)"`
	Phone        string    `gorm:"type:varchar(32)"`
	IsActive     bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Seller          *SellerModel          `gorm:"foreignKey:UserID"`
	Authentications []AuthenticationModel `gorm:"foreignKey:UserID"`
	RefreshTokens   []RefreshTokenModel   `gorm:"foreignKey:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// SellerModel mirrors the 'sellers' table, one row per selling user.
type SellerModel struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID                uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	PaypalEmail           string    `gorm:"type:varchar(255);not null"`
	DefaultShippingMethod string    `gorm:"type:varchar(20);not null;default:'usps'"`
	DefaultShippingDetail string    `gorm:"type:varchar(255)"`
	DefaultPaymentDetail  string    `gorm:"type:varchar(255)"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// TableName explicitly sets the table name for GORM.
func (SellerModel) TableName() string {
	return "sellers"
}
