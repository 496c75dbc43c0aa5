package model

import (
	"time"

	"github.com/google/uuid"
)

// ItemCategoryModel mirrors the 'item_categories' table.
type ItemCategoryModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title       string     `gorm:"type:varchar(100);not null"`
	Description string     `gorm:"type:text"`
	ParentID    *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Parent *ItemCategoryModel `gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL"`
}

// TableName explicitly sets the table name for GORM.
func (ItemCategoryModel) TableName() string {
	return "item_categories"
}

// ItemModel mirrors the 'items' table. SellerID references users.id.
type ItemModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SellerID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CategoryID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	Condition   string    `gorm:"type:varchar(20);not null"`
	Status      string    `gorm:"type:varchar(20);not null;default:'idle';index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Seller   *UserModel         `gorm:"foreignKey:SellerID;constraint:OnDelete:CASCADE"`
	Category *ItemCategoryModel `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
}

// TableName explicitly sets the table name for GORM.
func (ItemModel) TableName() string {
	return "items"
}
