package store

import (
	"errors"
	"time"

	"ecoharvest-api/internal/models"

	"gorm.io/gorm"
)

// OrderItemInput is one requested line at checkout. The price is looked up
// server-side; clients never set it.
type OrderItemInput struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

// CreateOrder persists the order, its items, the batch stock deduction and
// the initial payment record as one transaction. Either everything lands or
// nothing does, so an order can never exist without its payment.
func (s *Store) CreateOrder(userID string, items []OrderItemInput, deliveryAddress, paymentMethod string) (*models.Order, *models.PaymentDetail, error) {
	if len(items) == 0 {
		return nil, nil, invalidf("order has no items")
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, nil, invalidf("quantity must be a positive integer")
		}
	}
	if paymentMethod == "" {
		paymentMethod = models.PaymentMethodCOD
	}

	var order models.Order
	var payment models.PaymentDetail

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var total int64
		orderItems := make([]models.OrderItem, 0, len(items))

		for _, item := range items {
			var product models.Product
			err := lockForUpdate(tx).
				Where("id = ? AND is_deleted = 0", item.ProductID).
				First(&product).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return invalidf("product %s not found", item.ProductID)
				}
				return err
			}
			if product.Status != 1 {
				return invalidf("product %s is not available", product.Name)
			}
			if product.Quantity < item.Quantity {
				return invalidf("insufficient stock for %s", product.Name)
			}

			if err := deductStock(tx, product.ID, item.Quantity); err != nil {
				return err
			}
			err = tx.Model(&models.Product{}).
				Where("id = ?", product.ID).
				Update("sold", gorm.Expr("sold + ?", item.Quantity)).Error
			if err != nil {
				return err
			}

			total += product.Price * int64(item.Quantity)
			orderItems = append(orderItems, models.OrderItem{
				ProductID: product.ID,
				Quantity:  item.Quantity,
				Price:     product.Price,
			})
		}

		order = models.Order{
			UserID:          userID,
			Status:          models.OrderPending,
			Total:           total,
			DeliveryAddress: deliveryAddress,
			Items:           orderItems,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		payment = models.PaymentDetail{
			OrderID: order.ID,
			Amount:  total,
			Status:  models.PaymentUnpaid,
			Method:  paymentMethod,
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		return nil, nil, err
	}

	return &order, &payment, nil
}

// GetOrderDetail returns the order with its items and payment. Non-admin
// callers may only read their own orders.
func (s *Store) GetOrderDetail(orderID, requesterID string, isAdmin bool) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").Preload("Payment").
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !isAdmin && order.UserID != requesterID {
		return nil, ErrForbidden
	}
	return &order, nil
}

// ListOrders returns every order for admins, only the caller's otherwise.
func (s *Store) ListOrders(requesterID string, isAdmin bool) ([]models.Order, error) {
	q := s.db.Order("created_at desc")
	if !isAdmin {
		q = q.Where("user_id = ?", requesterID)
	}

	var orders []models.Order
	err := q.Find(&orders).Error
	return orders, err
}

// UpdateOrderStatus applies one transition of the order state machine.
// Cancelling also restores the deducted batch stock, in the same transaction.
func (s *Store) UpdateOrderStatus(orderID string, next models.OrderStatus) (*models.Order, error) {
	if !next.Valid() {
		return nil, invalidf("unknown order status %q", next)
	}

	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := lockForUpdate(tx).
			Where("id = ?", orderID).
			First(&order).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if !order.Status.CanTransitionTo(next) {
			return invalidf("cannot transition order from %q to %q", order.Status, next)
		}

		err = tx.Model(&order).Updates(map[string]interface{}{
			"status":     next,
			"updated_at": time.Now(),
		}).Error
		if err != nil {
			return err
		}
		order.Status = next

		if next == models.OrderCancelled {
			var items []models.OrderItem
			if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
				return err
			}
			for _, item := range items {
				if err := restoreStock(tx, item.ProductID, item.Quantity); err != nil {
					return err
				}
				err = tx.Model(&models.Product{}).
					Where("id = ?", item.ProductID).
					Update("sold", gorm.Expr("sold - ?", item.Quantity)).Error
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdatePaymentStatus applies one transition of the payment state machine.
// Deliberately not coupled to the order status: refunding a cancelled order
// is a business decision made by the caller, not an automatic side effect.
func (s *Store) UpdatePaymentStatus(orderID string, next models.PaymentStatus) (*models.PaymentDetail, error) {
	if !next.Valid() {
		return nil, invalidf("unknown payment status %q", next)
	}

	var payment models.PaymentDetail
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := lockForUpdate(tx).
			Where("order_id = ?", orderID).
			First(&payment).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if !payment.Status.CanTransitionTo(next) {
			return invalidf("cannot transition payment from %q to %q", payment.Status, next)
		}

		err = tx.Model(&payment).Updates(map[string]interface{}{
			"status":     next,
			"updated_at": time.Now(),
		}).Error
		if err != nil {
			return err
		}
		payment.Status = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// DeleteOrder hard-deletes an order with its items and payment. Admin-only
// cleanup path; normal flow cancels instead.
func (s *Store) DeleteOrder(orderID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", orderID).Delete(&models.Order{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Where("order_id = ?", orderID).Delete(&models.PaymentDetail{}).Error
	})
}
