package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/appakade/pos-backend/internal/items"
	"github.com/appakade/pos-backend/internal/orders"
	"github.com/appakade/pos-backend/pkg/db/models"
	pkgerrors "github.com/appakade/pos-backend/pkg/errors"
	"github.com/appakade/pos-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CartLine is one entry of the caller's working cart: the item snapshot taken
// when the catalog was fetched, plus the requested quantity. QuantityInStock
// is the stock recorded at snapshot time, not a reservation.
type CartLine struct {
	ItemID          int64
	ItemName        string
	Price           decimal.Decimal
	QuantityInStock int
	OrderQuantity   int
}

// Result reports the committed order back to the caller.
type Result struct {
	OrderID     int64
	TotalAmount decimal.Decimal
	OrderDate   time.Time
}

// Service executes the atomic order commit.
type Service interface {
	CommitOrder(ctx context.Context, customerName string, cart []CartLine) (*Result, error)
}

type service struct {
	tx        txRunner
	itemsRepo items.Repository
	orderRepo orders.Repository
	metrics   *metrics.CheckoutMetrics
	now       func() time.Time
}

// NewService builds the checkout service. The metrics collector may be nil.
func NewService(tx txRunner, itemsRepo items.Repository, orderRepo orders.Repository, m *metrics.CheckoutMetrics) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if itemsRepo == nil {
		return nil, fmt.Errorf("items repository required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{
		tx:        tx,
		itemsRepo: itemsRepo,
		orderRepo: orderRepo,
		metrics:   m,
		now:       time.Now,
	}, nil
}

// CommitOrder converts the cart into an order header, its lines, and the
// matching stock decrements in a single transaction. Either every write
// commits or none do; a failed commit leaves no trace in any table.
func (s *service) CommitOrder(ctx context.Context, customerName string, cart []CartLine) (*Result, error) {
	customerName = strings.TrimSpace(customerName)
	if customerName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if len(cart) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	for _, line := range cart {
		if line.OrderQuantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("order quantity for %q must be positive", line.ItemName))
		}
		if !line.Price.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("price for %q must be positive", line.ItemName))
		}
	}

	total := decimal.Zero
	for _, line := range cart {
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.OrderQuantity))))
	}
	orderDate := s.now().UTC()

	start := time.Now()
	var orderID int64
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		itemsRepo := s.itemsRepo.WithTx(tx)

		order, err := orderRepo.CreateOrder(ctx, &models.Order{
			CustomerName: customerName,
			OrderDate:    orderDate,
			TotalAmount:  total,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "inserting order header")
		}
		if order.ID == 0 {
			return pkgerrors.New(pkgerrors.CodeInternal, "order insert returned no id")
		}

		lines := make([]models.OrderItem, 0, len(cart))
		for _, line := range cart {
			// validate against the caller's snapshot first so the error
			// deterministically names the first short line in cart order
			if line.QuantityInStock < line.OrderQuantity {
				return shortfall(line.ItemName, line.OrderQuantity, line.QuantityInStock)
			}
			lines = append(lines, models.OrderItem{
				OrderID:         order.ID,
				ItemID:          line.ItemID,
				ItemName:        line.ItemName,
				Quantity:        line.OrderQuantity,
				PriceAtPurchase: line.Price,
			})
		}
		if err := orderRepo.CreateOrderItems(ctx, lines); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "inserting order lines")
		}

		for _, line := range cart {
			// guarded decrement: live stock may have moved since the
			// snapshot, and it must never go negative
			affected, err := itemsRepo.DecrementStock(ctx, line.ItemID, line.OrderQuantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrementing stock")
			}
			if affected == 0 {
				return staleShortfall(ctx, itemsRepo, line)
			}
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		s.metrics.ObserveCommit("rolled_back", time.Since(start))
		s.metrics.IncFailed(failureReason(err))
		return nil, err
	}

	s.metrics.ObserveCommit("committed", time.Since(start))
	s.metrics.IncCommitted()
	return &Result{OrderID: orderID, TotalAmount: total, OrderDate: orderDate}, nil
}

func shortfall(name string, requested, available int) error {
	return pkgerrors.New(pkgerrors.CodeStockShortfall,
		fmt.Sprintf("only %d of %q available, %d requested", available, name, requested)).
		WithDetails(map[string]any{
			"item_name": name,
			"requested": requested,
			"available": available,
			"shortfall": requested - available,
		})
}

// staleShortfall reports a shortfall detected by the guarded update, reading
// the live quantity so the message matches what the register will show.
func staleShortfall(ctx context.Context, repo items.Repository, line CartLine) error {
	available := 0
	if item, err := repo.FindByID(ctx, line.ItemID); err == nil {
		available = item.QuantityInStock
	}
	return shortfall(line.ItemName, line.OrderQuantity, available)
}

func failureReason(err error) string {
	if pkgerrors.IsCode(err, pkgerrors.CodeStockShortfall) {
		return "stock_shortfall"
	}
	return "storage"
}
