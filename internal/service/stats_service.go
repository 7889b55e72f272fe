package service

import (
	"context"
	"sort"
	"time"

	"github.com/mercadito/backend/internal/entity"
	"github.com/mercadito/backend/internal/repository"
)

const (
	lowStockThreshold = 10
	lowStockLimit     = 10
	topProductsLimit  = 5
	salesWindowDays   = 7
)

// DailySales is one zero-filled bucket of the trailing sales window.
type DailySales struct {
	Date  string `json:"date"` // YYYY-MM-DD, local time
	Total int64  `json:"total"`
}

// ProductSales aggregates order items by their denormalized product name.
type ProductSales struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Revenue  int64  `json:"revenue"`
}

// StatusCount is the number of orders in one status.
type StatusCount struct {
	Status entity.OrderStatus `json:"status"`
	Count  int                `json:"count"`
}

// PeriodComparison compares the current 7-day window against the prior one.
type PeriodComparison struct {
	CurrentSales   int64   `json:"current_sales"`
	PreviousSales  int64   `json:"previous_sales"`
	SalesChange    float64 `json:"sales_change_pct"`
	CurrentOrders  int     `json:"current_orders"`
	PreviousOrders int     `json:"previous_orders"`
	OrdersChange   float64 `json:"orders_change_pct"`
}

// AdminStats is the dashboard payload, recomputed on every read.
type AdminStats struct {
	TotalSales       int64            `json:"total_sales"`
	TotalOrders      int              `json:"total_orders"`
	TotalUsers       int              `json:"total_users"`
	TotalProducts    int              `json:"total_products"`
	PendingOrders    int              `json:"pending_orders"`
	SalesByDate      []DailySales     `json:"sales_by_date"`
	TopProducts      []ProductSales   `json:"top_products"`
	OrdersByStatus   []StatusCount    `json:"orders_by_status"`
	LowStockProducts []entity.Product `json:"low_stock_products"`
	Comparison       PeriodComparison `json:"comparison"`
}

// StatsService aggregates orders into the admin dashboard views.
type StatsService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	profileRepo repository.ProfileRepository
}

func NewStatsService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	profileRepo repository.ProfileRepository,
) *StatsService {
	return &StatsService{orderRepo: orderRepo, productRepo: productRepo, profileRepo: profileRepo}
}

func (s *StatsService) Stats(ctx context.Context) (*AdminStats, error) {
	orders, err := s.orderRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	productCount, err := s.productRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	userCount, err := s.profileRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.productRepo.LowStock(ctx, lowStockThreshold, lowStockLimit)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	recent, err := s.orderRepo.FindSince(ctx, now.AddDate(0, 0, -2*salesWindowDays))
	if err != nil {
		return nil, err
	}

	stats := &AdminStats{
		TotalOrders:      len(orders),
		TotalUsers:       userCount,
		TotalProducts:    productCount,
		SalesByDate:      SalesByDate(orders, now),
		TopProducts:      TopProducts(orders),
		OrdersByStatus:   OrdersByStatus(orders),
		LowStockProducts: lowStock,
		Comparison:       ComparePeriods(recent, now),
	}
	for _, o := range orders {
		stats.TotalSales += o.TotalAmount
		if o.Status == entity.StatusPending {
			stats.PendingOrders++
		}
	}
	return stats, nil
}

// SalesByDate buckets order totals by creation calendar day (local time)
// over the trailing 7-day window, zero-filling days with no orders.
func SalesByDate(orders []entity.Order, now time.Time) []DailySales {
	buckets := make([]DailySales, 0, salesWindowDays)
	totals := make(map[string]int64, salesWindowDays)
	for i := salesWindowDays - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i).Format("2006-01-02")
		buckets = append(buckets, DailySales{Date: date})
		totals[date] = 0
	}

	for _, o := range orders {
		date := o.CreatedAt.Local().Format("2006-01-02")
		if _, ok := totals[date]; ok {
			totals[date] += o.TotalAmount
		}
	}

	for i := range buckets {
		buckets[i].Total = totals[buckets[i].Date]
	}
	return buckets
}

// TopProducts groups all order items by product name, sums quantity and
// revenue and keeps the five biggest earners. Name breaks revenue ties so
// the result does not depend on map iteration order.
func TopProducts(orders []entity.Order) []ProductSales {
	byName := make(map[string]*ProductSales)
	for _, o := range orders {
		for _, it := range o.Items {
			ps, ok := byName[it.ProductName]
			if !ok {
				ps = &ProductSales{Name: it.ProductName}
				byName[it.ProductName] = ps
			}
			ps.Quantity += it.Quantity
			ps.Revenue += it.PriceAtPurchase * int64(it.Quantity)
		}
	}

	top := make([]ProductSales, 0, len(byName))
	for _, ps := range byName {
		top = append(top, *ps)
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Revenue != top[j].Revenue {
			return top[i].Revenue > top[j].Revenue
		}
		return top[i].Name < top[j].Name
	})
	if len(top) > topProductsLimit {
		top = top[:topProductsLimit]
	}
	return top
}

// OrdersByStatus counts orders per status in lifecycle order, cancelled
// last. Statuses with no orders are omitted.
func OrdersByStatus(orders []entity.Order) []StatusCount {
	counts := make(map[entity.OrderStatus]int)
	for _, o := range orders {
		counts[o.Status]++
	}

	ordered := []entity.OrderStatus{
		entity.StatusPending, entity.StatusConfirmed, entity.StatusPreparing,
		entity.StatusShipped, entity.StatusDelivered, entity.StatusCancelled,
	}
	out := make([]StatusCount, 0, len(counts))
	for _, st := range ordered {
		if n, ok := counts[st]; ok {
			out = append(out, StatusCount{Status: st, Count: n})
		}
	}
	return out
}

// PercentChange returns (current-previous)/previous × 100, with a zero
// baseline mapping to +100% for any growth and 0% for no activity.
func PercentChange(previous, current int64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return float64(current-previous) / float64(previous) * 100
}

// ComparePeriods splits the trailing 14 days into two 7-day windows and
// reports the percent change in sales and order count.
func ComparePeriods(orders []entity.Order, now time.Time) PeriodComparison {
	currentStart := now.AddDate(0, 0, -salesWindowDays)
	previousStart := now.AddDate(0, 0, -2*salesWindowDays)

	var cmp PeriodComparison
	for _, o := range orders {
		switch {
		case o.CreatedAt.After(currentStart):
			cmp.CurrentSales += o.TotalAmount
			cmp.CurrentOrders++
		case o.CreatedAt.After(previousStart):
			cmp.PreviousSales += o.TotalAmount
			cmp.PreviousOrders++
		}
	}
	cmp.SalesChange = PercentChange(cmp.PreviousSales, cmp.CurrentSales)
	cmp.OrdersChange = PercentChange(int64(cmp.PreviousOrders), int64(cmp.CurrentOrders))
	return cmp
}
