package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a purchasable catalog entry. Once a payment references it the
// row is immutable except for IsActive, which soft-hides it from matching.
//
// Uniqueness over (language, level, frequency) is deliberately not enforced;
// the matcher's first-active-match policy picks the oldest row if duplicates
// exist.
type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string          `gorm:"type:text;not null" json:"title"`
	Language    string          `gorm:"type:varchar(2);not null;index:idx_products_filter,priority:1" json:"language"`
	Gender      string          `gorm:"type:varchar(10);not null;index:idx_products_filter,priority:2" json:"gender"`
	Level       string          `gorm:"type:varchar(20);not null;index:idx_products_filter,priority:3" json:"level"`
	Frequency   int             `gorm:"not null;index:idx_products_filter,priority:4" json:"frequency"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	ArtifactRef string          `gorm:"type:text;not null" json:"artifact_ref"`
	IsActive    bool            `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (Product) TableName() string {
	return "products"
}

// GenerateID assigns a new UUID if the product has none yet.
func (p *Product) GenerateID() {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
}
