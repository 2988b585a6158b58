package services

import (
	"context"

	"storefront-service/internal/domain"
	"storefront-service/internal/pkg/logger"
	"storefront-service/internal/repository"

	"golang.org/x/sync/errgroup"
)

// ReportService serves the read-only dashboard views.
type ReportService struct {
	repo repository.ReportRepository
	log  *logger.Logger
}

func NewReportService(r repository.ReportRepository, baseLog *logger.Logger) *ReportService {
	return &ReportService{repo: r, log: baseLog.With("service", "ReportService")}
}

// UsersWithOrders returns one row per (user, order). Users without orders
// do not appear.
func (s *ReportService) UsersWithOrders(ctx context.Context) ([]domain.UserOrderRow, error) {
	return s.repo.UsersWithOrders(ctx)
}

// UsersWithOrderDetails groups UsersWithOrders by user and attaches each
// order's line items.
func (s *ReportService) UsersWithOrderDetails(ctx context.Context) ([]domain.UserOrders, error) {
	var (
		rows  []domain.UserOrderRow
		items []domain.OrderProduct
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.repo.UsersWithOrders(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = s.repo.OrderProducts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error("cannot read user orders", "error", err)
		return nil, err
	}

	byOrder := make(map[uint64][]domain.OrderProduct)
	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}

	out := []domain.UserOrders{}
	index := make(map[uint64]int)
	for _, r := range rows {
		i, ok := index[r.UserID]
		if !ok {
			out = append(out, domain.UserOrders{
				UserID:    r.UserID,
				Username:  r.Username,
				FirstName: r.FirstName,
				LastName:  r.LastName,
			})
			i = len(out) - 1
			index[r.UserID] = i
		}
		orderItems := byOrder[r.OrderID]
		if orderItems == nil {
			orderItems = []domain.OrderProduct{}
		}
		out[i].Orders = append(out[i].Orders, domain.UserOrderSummary{
			OrderID: r.OrderID,
			Status:  r.Status,
			Items:   orderItems,
		})
	}
	return out, nil
}

// ProductOrders aggregates sales per product. sortColumn and sortDirection
// are checked against fixed whitelists; values outside them are ignored and
// the rows come back in store order. limit <= 0 means no cap.
func (s *ReportService) ProductOrders(ctx context.Context, sortColumn, sortDirection string, limit int) ([]domain.ProductSales, error) {
	sort := repository.NewReportSort(sortColumn, sortDirection)
	if sort == nil && (sortColumn != "" || sortDirection != "") {
		s.log.Debug("ignoring sort outside whitelist", "column", sortColumn, "direction", sortDirection)
	}
	if limit < 0 {
		limit = 0
	}
	return s.repo.ProductOrders(ctx, sort, limit)
}
