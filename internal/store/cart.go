package store

import (
	"errors"
	"time"

	"ecoharvest-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartItemView is a cart line joined with the product's current name/price.
type CartItemView struct {
	ID        uint   `json:"id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
}

// GetOrCreateCart returns the user's cart, creating an empty one on first
// access. The unique index on user_id keeps it at one cart per user even if
// two requests race here.
func (s *Store) GetOrCreateCart(userID string) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.Where(models.Cart{UserID: userID}).FirstOrCreate(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetCart returns the user's cart and its lines with product details.
func (s *Store) GetCart(userID string) (*models.Cart, []CartItemView, error) {
	cart, err := s.GetOrCreateCart(userID)
	if err != nil {
		return nil, nil, err
	}

	var items []CartItemView
	err = s.db.Table("cart_items").
		Select("cart_items.id, cart_items.product_id, cart_items.quantity, products.name, products.price").
		Joins("LEFT JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.cart_id = ?", cart.ID).
		Order("cart_items.id asc").
		Scan(&items).Error
	if err != nil {
		return nil, nil, err
	}
	return cart, items, nil
}

// AddItem adds a product to the user's cart. If the product is already in the
// cart the quantity is added onto the existing line: the merge happens in a
// single upsert statement against the (cart_id, product_id) unique index, so
// two concurrent adds both land instead of one overwriting the other.
func (s *Store) AddItem(userID, productID string, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, invalidf("quantity must be a positive integer")
	}

	var count int64
	err := s.db.Model(&models.Product{}).
		Where("id = ? AND is_deleted = 0", productID).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNotFound
	}

	cart, err := s.GetOrCreateCart(userID)
	if err != nil {
		return nil, err
	}

	item := models.CartItem{
		CartID:    cart.ID,
		ProductID: productID,
		Quantity:  quantity,
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", quantity),
			"updated_at": time.Now(),
		}),
	}).Create(&item).Error
	if err != nil {
		return nil, err
	}

	// Re-read: on the merge path the returned struct does not reflect the
	// incremented quantity.
	var saved models.CartItem
	err = s.db.Where("cart_id = ? AND product_id = ?", cart.ID, productID).First(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// getOwnedItem loads a cart item and checks the cart belongs to userID.
func (s *Store) getOwnedItem(userID string, itemID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := s.db.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var cart models.Cart
	if err := s.db.First(&cart, item.CartID).Error; err != nil {
		return nil, err
	}
	if cart.UserID != userID {
		return nil, ErrForbidden
	}
	return &item, nil
}

// UpdateItem sets a line's quantity. Only the owning user may touch it.
func (s *Store) UpdateItem(userID string, itemID uint, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, invalidf("quantity must be a positive integer")
	}

	item, err := s.getOwnedItem(userID, itemID)
	if err != nil {
		return nil, err
	}

	err = s.db.Model(item).Updates(map[string]interface{}{
		"quantity":   quantity,
		"updated_at": time.Now(),
	}).Error
	if err != nil {
		return nil, err
	}
	item.Quantity = quantity
	return item, nil
}

// RemoveItem deletes a single line from the owning user's cart.
func (s *Store) RemoveItem(userID string, itemID uint) error {
	item, err := s.getOwnedItem(userID, itemID)
	if err != nil {
		return err
	}
	return s.db.Delete(item).Error
}

// ClearCart removes every line from the user's cart. The cart row itself
// survives; an empty cart and an absent cart look the same to callers.
func (s *Store) ClearCart(userID string) error {
	var cart models.Cart
	if err := s.db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
}
