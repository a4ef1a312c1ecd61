package order

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"orderservice/domain/catalog"
	"orderservice/domain/order"
	"orderservice/domain/user"
	"orderservice/infrastructure/persistence/memory"
)

// ============================================================================
// Test doubles
// ============================================================================

type recordingNotifier struct {
	mu     sync.Mutex
	events []order.CreatedEvent
	// seen reports whether the order was already stored when the notifier ran
	seen  []bool
	store order.Repository
}

func (n *recordingNotifier) NotifyCreated(ctx context.Context, event order.CreatedEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	if n.store != nil {
		_, err := n.store.FindByID(ctx, event.OrderID)
		n.seen = append(n.seen, err == nil)
	}
}

type fakeDirectory struct {
	mu    sync.Mutex
	users map[string]user.Snapshot
	down  bool
	calls int
}

func (d *fakeDirectory) Fetch(ctx context.Context, userID string) (user.Snapshot, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	if d.down {
		return user.Snapshot{}, false
	}
	s, ok := d.users[userID]
	return s, ok
}

type fixture struct {
	svc       *ApplicationService
	orders    *memory.OrderRepository
	items     *memory.ItemRepository
	notifier  *recordingNotifier
	directory *fakeDirectory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	orders := memory.NewOrderRepository()
	items := memory.NewItemRepository(
		catalog.RebuildItem("A", "Pen", 100),
		catalog.RebuildItem("B", "Ink", 50),
		catalog.RebuildItem("C", "Paper", 10),
	)
	notifier := &recordingNotifier{store: orders}
	directory := &fakeDirectory{users: map[string]user.Snapshot{
		"u-1": {UserID: "u-1", Name: "Ann", Surname: "Lee", Email: "ann@example.com"},
	}}

	svc := NewApplicationService(orders, order.NewItemResolver(items), directory, notifier, memory.NewUnitOfWork())
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 23, 30, 0, 0, time.UTC) }

	return &fixture{svc: svc, orders: orders, items: items, notifier: notifier, directory: directory}
}

func (f *fixture) create(t *testing.T, userID string, items ...OrderItemRequest) *OrderResponse {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), CreateOrderRequest{UserID: userID, OrderItems: items})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return resp
}

// ============================================================================
// Tests
// ============================================================================

func TestCreateComputesPaymentAmountAndNotifiesAfterSave(t *testing.T) {
	f := newFixture(t)

	resp := f.create(t, "u-1",
		OrderItemRequest{ItemID: "A", Quantity: 2},
		OrderItemRequest{ItemID: "B", Quantity: 3},
	)

	if resp.Status != "CREATED" {
		t.Errorf("status = %s", resp.Status)
	}
	if resp.CreationDate != "2024-05-01" {
		t.Errorf("creation date = %s", resp.CreationDate)
	}
	if len(resp.OrderItems) != 2 || resp.OrderItems[0].Item.ID != "A" || resp.OrderItems[1].Quantity != 3 {
		t.Errorf("unexpected lines %+v", resp.OrderItems)
	}
	if resp.UserData == nil || resp.UserData.Name != "Ann" {
		t.Errorf("user data should be attached, got %+v", resp.UserData)
	}

	if len(f.notifier.events) != 1 {
		t.Fatalf("expected one notification, got %d", len(f.notifier.events))
	}
	ev := f.notifier.events[0]
	if ev.OrderID != resp.ID || ev.UserID != "u-1" || ev.PaymentAmount != 350 {
		t.Errorf("unexpected event %+v", ev)
	}
	if !f.notifier.seen[0] {
		t.Error("order must be persisted before the notification is emitted")
	}
}

func TestCreateAbortsOnMissingItem(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), CreateOrderRequest{
		UserID:     "u-1",
		OrderItems: []OrderItemRequest{{ItemID: "A", Quantity: 1}, {ItemID: "missing", Quantity: 1}},
	})

	if !errors.Is(err, catalog.ErrItemNotFound) {
		t.Fatalf("expected item not found, got %v", err)
	}
	stored, _ := f.orders.FindByStatuses(context.Background(), order.Statuses())
	if len(stored) != 0 {
		t.Error("no order may be persisted when a line cannot be resolved")
	}
	if len(f.notifier.events) != 0 {
		t.Error("no notification may be sent")
	}
}

func TestPaymentAmountIsNotRecomputed(t *testing.T) {
	f := newFixture(t)
	resp := f.create(t, "u-1", OrderItemRequest{ItemID: "A", Quantity: 1})

	// a later catalog price change affects neither the stored snapshot nor the event
	repriced := catalog.RebuildItem("A", "Pen", 999)
	_ = f.items.Save(context.Background(), &repriced)

	got, err := f.svc.GetByID(context.Background(), resp.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.OrderItems[0].Item.Price != 100 {
		t.Errorf("line snapshot price = %d, want 100", got.OrderItems[0].Item.Price)
	}
	if f.notifier.events[0].PaymentAmount != 100 {
		t.Errorf("payment amount = %d", f.notifier.events[0].PaymentAmount)
	}
}

func TestGetByIDDegradesWhenDirectoryIsDown(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, "u-1", OrderItemRequest{ItemID: "A", Quantity: 1})
	f.directory.down = true

	resp, err := f.svc.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("directory outage must not fail reads: %v", err)
	}
	if resp.UserData != nil {
		t.Error("user data should be omitted when unknown")
	}

	_, err = f.svc.GetByID(context.Background(), "missing")
	if !errors.Is(err, order.ErrOrderNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestGetAllByIDsDropsMissingAndEnrichesEach(t *testing.T) {
	f := newFixture(t)
	a := f.create(t, "u-1", OrderItemRequest{ItemID: "A", Quantity: 1})
	b := f.create(t, "u-2", OrderItemRequest{ItemID: "B", Quantity: 1})
	f.directory.calls = 0

	resp, err := f.svc.GetAllByIDs(context.Background(), []string{a.ID, "missing", b.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(resp))
	}
	if f.directory.calls != 2 {
		t.Errorf("directory calls = %d, want one per order", f.directory.calls)
	}
	for _, r := range resp {
		if (r.UserID == "u-1") != (r.UserData != nil) {
			t.Errorf("order %s: user data %+v", r.ID, r.UserData)
		}
	}
}

func TestGetAllByStatuses(t *testing.T) {
	f := newFixture(t)
	a := f.create(t, "u-1", OrderItemRequest{ItemID: "A", Quantity: 1})
	f.create(t, "u-1", OrderItemRequest{ItemID: "B", Quantity: 1})
	if _, err := f.svc.ChangeStatus(context.Background(), a.ID, order.StatusPaid); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		names []string
		want  int
	}{
		{"case insensitive", []string{"paid"}, 1},
		{"bogus names dropped", []string{"bogus", "CREATED"}, 1},
		{"both", []string{"Paid", "created"}, 2},
		{"all bogus", []string{"bogus"}, 0},
		{"empty", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := f.svc.GetAllByStatuses(context.Background(), tt.names)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(resp) != tt.want {
				t.Errorf("got %d orders, want %d", len(resp), tt.want)
			}
		})
	}
}

func TestUpdateReplacesLinesWholesale(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, "u-1",
		OrderItemRequest{ItemID: "A", Quantity: 2},
		OrderItemRequest{ItemID: "B", Quantity: 3},
	)

	resp, err := f.svc.Update(context.Background(), created.ID, UpdateOrderRequest{
		OrderItems: []OrderItemRequest{{ItemID: "C", Quantity: 5}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.OrderItems) != 1 || resp.OrderItems[0].Item.ID != "C" || resp.OrderItems[0].Quantity != 5 {
		t.Errorf("lines = %+v, want exactly C×5", resp.OrderItems)
	}

	resp, err = f.svc.Update(context.Background(), created.ID, UpdateOrderRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.OrderItems) != 0 {
		t.Error("an update may leave the order without lines")
	}
}

func TestUpdateFailures(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, "u-1", OrderItemRequest{ItemID: "A", Quantity: 2})

	_, err := f.svc.Update(context.Background(), "missing", UpdateOrderRequest{})
	if !errors.Is(err, order.ErrOrderNotFound) {
		t.Errorf("expected order not found, got %v", err)
	}

	_, err = f.svc.Update(context.Background(), created.ID, UpdateOrderRequest{
		OrderItems: []OrderItemRequest{{ItemID: "B", Quantity: 1}, {ItemID: "nope", Quantity: 1}},
	})
	if !errors.Is(err, catalog.ErrItemNotFound) {
		t.Errorf("expected item not found, got %v", err)
	}

	stored, _ := f.svc.GetByID(context.Background(), created.ID)
	if len(stored.OrderItems) != 1 || stored.OrderItems[0].Item.ID != "A" {
		t.Error("a failed update must leave the stored lines untouched")
	}
}

func TestChangeStatusOverwritesAnyStatus(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, "u-1", OrderItemRequest{ItemID: "A", Quantity: 1})
	ctx := context.Background()

	for _, st := range []order.Status{order.StatusDelivered, order.StatusCreated, order.StatusPaid, order.StatusPaid} {
		resp, err := f.svc.ChangeStatus(ctx, created.ID, st)
		if err != nil {
			t.Fatal(err)
		}
		if resp.Status != string(st) {
			t.Errorf("status = %s, want %s", resp.Status, st)
		}
	}

	_, err := f.svc.ChangeStatus(ctx, "missing", order.StatusPaid)
	if !errors.Is(err, order.ErrOrderNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, "u-1", OrderItemRequest{ItemID: "A", Quantity: 1})
	ctx := context.Background()

	if err := f.svc.Delete(ctx, created.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.GetByID(ctx, created.ID); !errors.Is(err, order.ErrOrderNotFound) {
		t.Errorf("deleted order still readable: %v", err)
	}
	if err := f.svc.Delete(ctx, created.ID); !errors.Is(err, order.ErrOrderNotFound) {
		t.Errorf("second delete: %v", err)
	}
}

// Concurrent writers are not serialized: each one reads, modifies and saves its own copy,
// and whichever save lands last decides the stored state.
func TestConcurrentWritersLastWriteWins(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, "u-1", OrderItemRequest{ItemID: "A", Quantity: 1})
	ctx := context.Background()

	statuses := []order.Status{order.StatusPaid, order.StatusCanceled, order.StatusShipped, order.StatusFailed}
	var wg sync.WaitGroup
	for _, st := range statuses {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.ChangeStatus(ctx, created.ID, st); err != nil {
				t.Errorf("ChangeStatus(%s): %v", st, err)
			}
		}()
	}
	wg.Wait()

	final, err := f.svc.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	var matched bool
	for _, st := range statuses {
		if final.Status == string(st) {
			matched = true
		}
	}
	if !matched {
		t.Errorf("final status %s should be one of the concurrent writes", final.Status)
	}
}
