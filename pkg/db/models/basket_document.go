package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BasketDocument is the durable, per-user basket record. The item list is
// stored as a single JSONB document; merge semantics live in the aggregate,
// so every write replaces the document in full.
type BasketDocument struct {
	UserID    string           `gorm:"column:user_id;primaryKey"`
	Items     []BasketItemData `gorm:"column:items;type:jsonb;serializer:json;not null"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the goose-managed table name.
func (BasketDocument) TableName() string {
	return "basket_documents"
}

// BasketItemData is the persisted line-item shape. Field names are the wire
// contract shared with the cache entries and must stay stable.
type BasketItemData struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}
