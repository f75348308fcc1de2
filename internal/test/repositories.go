package test

import (
	"context"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/unimart/settlement/internal/domain/errors"
	"github.com/unimart/settlement/internal/domain/model"
)

// OrderRepositoryStub stores orders in-memory and allows tests to customize
// behaviour per method.
type OrderRepositoryStub struct {
	CreateFn                 func(context.Context, *model.Order, []model.OrderLineItem) (*model.Order, error)
	GetByIDFn                func(context.Context, int64) (*model.Order, error)
	ListItemsFn              func(context.Context, int64) ([]model.OrderLineItem, error)
	ListByCustomerFn         func(context.Context, string) ([]model.Order, error)
	UpdateStatusFn           func(context.Context, int64, int64, model.OrderStatus, model.TrackingPatch) error
	SetTrackingFn            func(context.Context, int64, int64, model.Carrier, string) error
	SelectBatchForTrackingFn func(context.Context, int) ([]model.Order, error)

	Orders map[int64]*model.Order
	Items  map[int64][]model.OrderLineItem
	Next   int64

	UpdateCalls []OrderUpdateCall
}

// OrderUpdateCall records one UpdateStatus invocation.
type OrderUpdateCall struct {
	OrderID int64
	Version int64
	Status  model.OrderStatus
	Patch   model.TrackingPatch
}

// NewOrderRepositoryStub constructs stub repository with initialized maps.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{
		Orders: make(map[int64]*model.Order),
		Items:  make(map[int64][]model.OrderLineItem),
		Next:   1,
	}
}

func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order, items []model.OrderLineItem) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order, items)
	}
	if s.Orders == nil {
		s.Orders = make(map[int64]*model.Order)
	}
	if s.Items == nil {
		s.Items = make(map[int64][]model.OrderLineItem)
	}
	if s.Next == 0 {
		s.Next = 1
	}
	created := *order
	created.ID = s.Next
	created.Version = 1
	created.CreatedAt = time.Now().UTC()
	s.Next++
	s.Orders[created.ID] = &created
	stored := make([]model.OrderLineItem, len(items))
	copy(stored, items)
	for i := range stored {
		stored[i].OrderID = created.ID
	}
	s.Items[created.ID] = stored
	result := created
	return &result, nil
}

func (s *OrderRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	if order, ok := s.Orders[id]; ok {
		copied := *order
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *OrderRepositoryStub) ListItems(ctx context.Context, orderID int64) ([]model.OrderLineItem, error) {
	if s.ListItemsFn != nil {
		return s.ListItemsFn(ctx, orderID)
	}
	return s.Items[orderID], nil
}

func (s *OrderRepositoryStub) ListByCustomer(ctx context.Context, customerID string) ([]model.Order, error) {
	if s.ListByCustomerFn != nil {
		return s.ListByCustomerFn(ctx, customerID)
	}
	var orders []model.Order
	for _, order := range s.Orders {
		if order.CustomerID == customerID {
			orders = append(orders, *order)
		}
	}
	return orders, nil
}

func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, orderID, version int64, status model.OrderStatus, patch model.TrackingPatch) error {
	s.UpdateCalls = append(s.UpdateCalls, OrderUpdateCall{OrderID: orderID, Version: version, Status: status, Patch: patch})
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, orderID, version, status, patch)
	}
	order, ok := s.Orders[orderID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if order.Version != version {
		return domainErrors.ErrVersionConflict
	}
	order.Status = status
	order.Version++
	if patch.EstimatedDeliveryAt != nil {
		order.EstimatedDeliveryAt = patch.EstimatedDeliveryAt
	}
	if patch.ActualDeliveryAt != nil {
		order.ActualDeliveryAt = patch.ActualDeliveryAt
	}
	if patch.LastTrackingUpdateAt != nil {
		order.LastTrackingUpdateAt = patch.LastTrackingUpdateAt
	}
	if patch.DeliveryNotes != nil {
		order.DeliveryNotes = *patch.DeliveryNotes
	}
	return nil
}

func (s *OrderRepositoryStub) SetTracking(ctx context.Context, orderID, version int64, carrier model.Carrier, trackingNumber string) error {
	if s.SetTrackingFn != nil {
		return s.SetTrackingFn(ctx, orderID, version, carrier, trackingNumber)
	}
	order, ok := s.Orders[orderID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if order.Version != version {
		return domainErrors.ErrVersionConflict
	}
	order.Carrier = &carrier
	order.TrackingNumber = &trackingNumber
	order.Version++
	return nil
}

func (s *OrderRepositoryStub) SelectBatchForTracking(ctx context.Context, limit int) ([]model.Order, error) {
	if s.SelectBatchForTrackingFn != nil {
		return s.SelectBatchForTrackingFn(ctx, limit)
	}
	return nil, nil
}

// LedgerRepositoryStub stores ledger entries in-memory with idempotent
// charge appends.
type LedgerRepositoryStub struct {
	AppendFn        func(context.Context, *model.LedgerEntry) (bool, error)
	HasChargeFn     func(context.Context, int64, string) (bool, error)
	MarkSettledFn   func(context.Context, uuid.UUID, string) error
	ListByOrderFn   func(context.Context, int64) ([]model.LedgerEntry, error)
	VendorBalanceFn func(context.Context, string) (*model.VendorBalance, error)

	Entries []model.LedgerEntry
}

func (s *LedgerRepositoryStub) Append(ctx context.Context, entry *model.LedgerEntry) (bool, error) {
	if s.AppendFn != nil {
		return s.AppendFn(ctx, entry)
	}
	if entry.Kind == model.LedgerKindCharge {
		for _, existing := range s.Entries {
			if existing.OrderID == entry.OrderID && existing.Kind == model.LedgerKindCharge && existing.ExternalRef == entry.ExternalRef {
				return false, nil
			}
		}
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	s.Entries = append(s.Entries, *entry)
	return true, nil
}

func (s *LedgerRepositoryStub) HasCharge(ctx context.Context, orderID int64, externalRef string) (bool, error) {
	if s.HasChargeFn != nil {
		return s.HasChargeFn(ctx, orderID, externalRef)
	}
	for _, entry := range s.Entries {
		if entry.OrderID == orderID && entry.Kind == model.LedgerKindCharge && entry.ExternalRef == externalRef {
			return true, nil
		}
	}
	return false, nil
}

func (s *LedgerRepositoryStub) MarkSettled(ctx context.Context, id uuid.UUID, externalRef string) error {
	if s.MarkSettledFn != nil {
		return s.MarkSettledFn(ctx, id, externalRef)
	}
	for i := range s.Entries {
		if s.Entries[i].ID == id {
			s.Entries[i].State = model.LedgerStateSettled
			s.Entries[i].ExternalRef = externalRef
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

func (s *LedgerRepositoryStub) ListByOrder(ctx context.Context, orderID int64) ([]model.LedgerEntry, error) {
	if s.ListByOrderFn != nil {
		return s.ListByOrderFn(ctx, orderID)
	}
	var entries []model.LedgerEntry
	for _, entry := range s.Entries {
		if entry.OrderID == orderID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (s *LedgerRepositoryStub) VendorBalance(ctx context.Context, vendorID string) (*model.VendorBalance, error) {
	if s.VendorBalanceFn != nil {
		return s.VendorBalanceFn(ctx, vendorID)
	}
	balance := &model.VendorBalance{VendorID: vendorID}
	for _, entry := range s.Entries {
		if entry.VendorID == nil || *entry.VendorID != vendorID || entry.Kind != model.LedgerKindVendorPayout {
			continue
		}
		switch entry.State {
		case model.LedgerStateSettled:
			balance.Paid += entry.Amount
		case model.LedgerStatePending:
			balance.Pending += entry.Amount
		}
	}
	return balance, nil
}

// VendorRepositoryStub stores vendor accounts in-memory.
type VendorRepositoryStub struct {
	GetFn    func(context.Context, string) (*model.VendorAccount, error)
	UpsertFn func(context.Context, *model.VendorAccount) (*model.VendorAccount, error)

	Vendors map[string]*model.VendorAccount
}

// NewVendorRepositoryStub constructs stub repository with initialized map.
func NewVendorRepositoryStub() *VendorRepositoryStub {
	return &VendorRepositoryStub{Vendors: make(map[string]*model.VendorAccount)}
}

func (s *VendorRepositoryStub) Get(ctx context.Context, id string) (*model.VendorAccount, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}
	if account, ok := s.Vendors[id]; ok {
		copied := *account
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *VendorRepositoryStub) Upsert(ctx context.Context, account *model.VendorAccount) (*model.VendorAccount, error) {
	if s.UpsertFn != nil {
		return s.UpsertFn(ctx, account)
	}
	if s.Vendors == nil {
		s.Vendors = make(map[string]*model.VendorAccount)
	}
	stored := *account
	if existing, ok := s.Vendors[account.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	stored.UpdatedAt = time.Now().UTC()
	s.Vendors[account.ID] = &stored
	result := stored
	return &result, nil
}
