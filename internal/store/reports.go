package store

import (
	"ecoharvest-api/internal/models"
)

// SalesReport summarizes order revenue. Cancelled orders are excluded.
type SalesReport struct {
	TotalRevenue int64            `json:"total_revenue"`
	TotalOrders  int64            `json:"total_orders"`
	TopSelling   []TopSellingItem `json:"top_selling"`
	RecentOrders []models.Order   `json:"recent_orders"`
}

type TopSellingItem struct {
	ProductName string `json:"product_name"`
	Sold        int    `json:"sold"`
	Revenue     int64  `json:"revenue"`
}

// GetSalesReport aggregates all-time revenue, order count, the five best
// sellers and the ten most recent orders.
func (s *Store) GetSalesReport() (*SalesReport, error) {
	var report SalesReport

	// COALESCE keeps an empty order table at 0 instead of NULL
	err := s.db.Model(&models.Order{}).
		Where("status <> ?", models.OrderCancelled).
		Select("COALESCE(SUM(total), 0)").
		Scan(&report.TotalRevenue).Error
	if err != nil {
		return nil, err
	}

	err = s.db.Model(&models.Order{}).
		Where("status <> ?", models.OrderCancelled).
		Count(&report.TotalOrders).Error
	if err != nil {
		return nil, err
	}

	err = s.db.Table("order_items").
		Select("products.name as product_name, SUM(order_items.quantity) as sold, SUM(order_items.quantity * order_items.price) as revenue").
		Joins("JOIN products ON order_items.product_id = products.id").
		Joins("JOIN orders ON order_items.order_id = orders.id").
		Where("orders.status <> ?", models.OrderCancelled).
		Group("products.name").
		Order("sold desc").
		Limit(5).
		Scan(&report.TopSelling).Error
	if err != nil {
		return nil, err
	}

	err = s.db.Order("created_at desc").Limit(10).Find(&report.RecentOrders).Error
	if err != nil {
		return nil, err
	}

	return &report, nil
}

// StockValuationRow is one product's remaining stock valued at batch cost.
type StockValuationRow struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	TotalCost   int64  `json:"total_cost"`
}

// StockValuation is the monetary value of all remaining batch stock.
type StockValuation struct {
	Rows       []StockValuationRow `json:"rows"`
	GrandTotal int64               `json:"grand_total"`
}

// GetStockValuation values every product's remaining stock at the unit cost
// of the batches it still sits in.
func (s *Store) GetStockValuation() (*StockValuation, error) {
	var rows []StockValuationRow
	err := s.db.Table("batches").
		Select("products.id as product_id, products.name as product_name, SUM(batches.quantity_remaining) as quantity, SUM(batches.quantity_remaining * batches.unit_cost) as total_cost").
		Joins("JOIN products ON batches.product_id = products.id").
		Group("products.id, products.name").
		Order("total_cost desc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	var valuation StockValuation
	valuation.Rows = rows
	for _, r := range rows {
		valuation.GrandTotal += r.TotalCost
	}
	return &valuation, nil
}
