package basket

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/basket-service/pkg/db/models"
	pkgerrors "github.com/angelmondragon/basket-service/pkg/errors"
)

// StoreRepository persists carts as JSONB documents in Postgres. It is the
// authoritative store in the default deployment and knows nothing about
// caching; that concern lives in the decorator above it.
type StoreRepository struct {
	db *gorm.DB
}

// NewStoreRepository wires the Postgres-backed repository.
func NewStoreRepository(db *gorm.DB) (*StoreRepository, error) {
	if db == nil {
		return nil, errors.New("db is required")
	}
	return &StoreRepository{db: db}, nil
}

func (r *StoreRepository) Get(ctx context.Context, userID string) (*Cart, error) {
	var doc models.BasketDocument
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "basket not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "loading basket")
	}
	return cartFromDocument(&doc), nil
}

func (r *StoreRepository) Put(ctx context.Context, cart *Cart) (*Cart, error) {
	if cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is required")
	}
	doc := documentFromCart(cart)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"items", "updated_at"}),
		}).
		Create(doc).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "storing basket")
	}
	return cartFromDocument(doc), nil
}

func (r *StoreRepository) Delete(ctx context.Context, userID string) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.BasketDocument{}).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "deleting basket")
	}
	return nil
}

func documentFromCart(cart *Cart) *models.BasketDocument {
	items := make([]models.BasketItemData, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, models.BasketItemData{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}
	return &models.BasketDocument{
		UserID: cart.UserID,
		Items:  items,
	}
}

func cartFromDocument(doc *models.BasketDocument) *Cart {
	cart := NewCart(doc.UserID)
	for _, item := range doc.Items {
		cart.Items = append(cart.Items, &CartItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}
	return cart
}
