/*
Package order Application Layer - Order Lifecycle Orchestration

Responsibilities of Application Layer:
1. Receive external requests (usually from Controller or the payment consumer)
2. Resolve requested lines against the item catalog
3. Call aggregate root methods to execute business operations
4. Persist through the repository inside a unit of work
5. Enrich results with best-effort user data and notify on creation

Authorization is not performed here: callers consult order.AccessPolicy first.
Read-modify-write sequences take no lock, concurrent writers to one order race and the last save wins.
*/
package order

import (
	"context"
	"time"

	"orderservice/domain/order"
	"orderservice/domain/shared"
	"orderservice/domain/user"
	"orderservice/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// enrichConcurrency bounds parallel user lookups for list results
const enrichConcurrency = 8

// ApplicationService Order application service - coordinates the order lifecycle
type ApplicationService struct {
	orderRepo order.Repository
	resolver  *order.ItemResolver
	directory user.Directory
	notifier  order.CreatedNotifier
	uow       shared.UnitOfWork
	now       func() time.Time
}

// NewApplicationService Create order application service
func NewApplicationService(
	orderRepo order.Repository,
	resolver *order.ItemResolver,
	directory user.Directory,
	notifier order.CreatedNotifier,
	uow shared.UnitOfWork,
) *ApplicationService {
	return &ApplicationService{
		orderRepo: orderRepo,
		resolver:  resolver,
		directory: directory,
		notifier:  notifier,
		uow:       uow,
		now:       time.Now,
	}
}

// Create resolves every line, persists the order, notifies and returns the enriched view.
// The payment amount is computed from the resolved lines before the order is saved.
func (s *ApplicationService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	log := logger.FromContext(ctx)
	log.Debug("Creating order", zap.String("user_id", req.UserID), zap.Int("lines", len(req.OrderItems)))

	lines, err := s.resolver.ResolveAll(ctx, toLineRequests(req.OrderItems))
	if err != nil {
		return nil, err
	}
	paymentAmount := order.TotalOf(lines)

	o, err := order.NewOrder(req.UserID, lines, s.now())
	if err != nil {
		return nil, err
	}

	err = s.uow.Execute(ctx, func(ctx context.Context) error {
		return s.orderRepo.Save(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	log.Debug("Order created", zap.String("order_id", o.ID()), zap.Int64("payment_amount", paymentAmount))

	s.notifier.NotifyCreated(ctx, order.NewCreatedEvent(o, paymentAmount))

	return s.enrich(ctx, o), nil
}

// GetByID loads one order or fails with OrderNotFound
func (s *ApplicationService) GetByID(ctx context.Context, id string) (*OrderResponse, error) {
	logger.FromContext(ctx).Debug("Getting order", zap.String("order_id", id))

	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, o), nil
}

// GetAllByIDs returns the orders that exist among ids; missing ids are dropped silently
func (s *ApplicationService) GetAllByIDs(ctx context.Context, ids []string) ([]*OrderResponse, error) {
	logger.FromContext(ctx).Debug("Getting orders by ids", zap.Int("count", len(ids)))

	orders, err := s.orderRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return s.enrichAll(ctx, orders)
}

// GetAllByStatuses parses the names case-insensitively, discarding unknown ones.
// No usable status means an empty result.
func (s *ApplicationService) GetAllByStatuses(ctx context.Context, names []string) ([]*OrderResponse, error) {
	statuses := order.ParseStatuses(names)
	logger.FromContext(ctx).Debug("Getting orders by statuses",
		zap.Strings("requested", names),
		zap.Int("recognized", len(statuses)))

	if len(statuses) == 0 {
		return []*OrderResponse{}, nil
	}

	orders, err := s.orderRepo.FindByStatuses(ctx, statuses)
	if err != nil {
		return nil, err
	}
	return s.enrichAll(ctx, orders)
}

// Update replaces the whole line list with the newly resolved lines
func (s *ApplicationService) Update(ctx context.Context, id string, req UpdateOrderRequest) (*OrderResponse, error) {
	logger.FromContext(ctx).Debug("Updating order", zap.String("order_id", id), zap.Int("lines", len(req.OrderItems)))

	var o *order.Order
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		o, err = s.orderRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		lines, err := s.resolver.ResolveAll(ctx, toLineRequests(req.OrderItems))
		if err != nil {
			return err
		}

		o.ReplaceLines(lines)
		return s.orderRepo.Save(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, o), nil
}

// ChangeStatus overwrites the status without checking the current one
func (s *ApplicationService) ChangeStatus(ctx context.Context, id string, status order.Status) (*OrderResponse, error) {
	logger.FromContext(ctx).Debug("Changing order status", zap.String("order_id", id), zap.String("status", string(status)))

	var o *order.Order
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		o, err = s.orderRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		o.ChangeStatus(status)
		return s.orderRepo.Save(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, o), nil
}

// Delete removes the order together with its lines
func (s *ApplicationService) Delete(ctx context.Context, id string) error {
	logger.FromContext(ctx).Debug("Deleting order", zap.String("order_id", id))

	return s.uow.Execute(ctx, func(ctx context.Context) error {
		if _, err := s.orderRepo.FindByID(ctx, id); err != nil {
			return err
		}
		return s.orderRepo.Remove(ctx, id)
	})
}

// enrich attaches user data when the directory knows the owner
func (s *ApplicationService) enrich(ctx context.Context, o *order.Order) *OrderResponse {
	resp := toOrderResponse(o)
	if snapshot, ok := s.directory.Fetch(ctx, o.UserID()); ok {
		resp.UserData = &snapshot
	}
	return resp
}

// enrichAll looks every owner up independently, once per order, keeping the input order
func (s *ApplicationService) enrichAll(ctx context.Context, orders []*order.Order) ([]*OrderResponse, error) {
	responses := make([]*OrderResponse, len(orders))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)
	for i, o := range orders {
		g.Go(func() error {
			responses[i] = s.enrich(gctx, o)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return responses, nil
}
