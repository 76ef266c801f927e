package usecase_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"eshop/internal/domain/model"
	repo "eshop/internal/repository"

	"github.com/shopspring/decimal"
)

// memStore はtxをmutexで直列化するインメモリDB。fnがエラーなら状態を巻き戻す。
type memStore struct {
	mu sync.Mutex

	nextOrderID int64
	nextItemID  int64

	products map[int64]model.Product
	orders   map[int64]model.Order
	items    map[int64]model.OrderItem
	audits   []model.AuditLog
	adjusts  []model.InventoryAdjustment

	// tx内では読むだけ
	addresses map[int64]model.Address
	customers map[int64]model.Customer

	// 障害注入
	failRecalc error
}

func newMemStore() *memStore {
	return &memStore{
		nextOrderID: 100,
		nextItemID:  1,
		products:    map[int64]model.Product{},
		orders:      map[int64]model.Order{},
		items:       map[int64]model.OrderItem{},
		addresses:   map[int64]model.Address{},
		customers:   map[int64]model.Customer{},
	}
}

func (s *memStore) addProduct(id int64, name string, price string) {
	s.products[id] = model.Product{ID: id, Name: name, Price: decimal.RequireFromString(price), ImageURL: "/img/" + name + ".png"}
}

type memSnapshot struct {
	nextOrderID, nextItemID int64
	products                map[int64]model.Product
	orders                  map[int64]model.Order
	items                   map[int64]model.OrderItem
	audits                  []model.AuditLog
	adjusts                 []model.InventoryAdjustment
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		nextOrderID: s.nextOrderID,
		nextItemID:  s.nextItemID,
		products:    make(map[int64]model.Product, len(s.products)),
		orders:      make(map[int64]model.Order, len(s.orders)),
		items:       make(map[int64]model.OrderItem, len(s.items)),
		audits:      append([]model.AuditLog(nil), s.audits...),
		adjusts:     append([]model.InventoryAdjustment(nil), s.adjusts...),
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	for k, v := range s.orders {
		snap.orders[k] = v
	}
	for k, v := range s.items {
		snap.items[k] = v
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.nextOrderID = snap.nextOrderID
	s.nextItemID = snap.nextItemID
	s.products = snap.products
	s.orders = snap.orders
	s.items = snap.items
	s.audits = snap.audits
	s.adjusts = snap.adjusts
}

func (s *memStore) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(memRepos{s: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *memStore) pendingOrders(customerID int64) []model.Order {
	var out []model.Order
	for _, o := range s.orders {
		if o.CustomerID == customerID && o.Status == model.OrderStatusPending {
			out = append(out, o)
		}
	}
	return out
}

func (s *memStore) itemsOf(orderID int64) []model.OrderItem {
	out := []model.OrderItem{}
	for _, it := range s.items {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type memRepos struct{ s *memStore }

func (r memRepos) Orders() repo.OrderRepository         { return memOrders{r.s} }
func (r memRepos) OrderItems() repo.OrderItemRepository { return memItems{r.s} }
func (r memRepos) Products() repo.ProductRepository     { return memProducts{r.s} }
func (r memRepos) Inventory() repo.InventoryRepository  { return memInventory{r.s} }
func (r memRepos) AuditLogs() repo.AuditLogRepository   { return memAudit{r.s} }
func (r memRepos) Addresses() repo.AddressRepository    { return memAddresses{r.s} }
func (r memRepos) Customers() repo.CustomerRepository   { return memCustomers{r.s} }

// ---- orders

type memOrders struct{ s *memStore }

func (m memOrders) FindByID(ctx context.Context, id int64) (model.Order, error) {
	o, ok := m.s.orders[id]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return o, nil
}

func (m memOrders) FindByIDForUpdate(ctx context.Context, id int64) (model.Order, error) {
	return m.FindByID(ctx, id)
}

func (m memOrders) FindPendingByCustomerID(ctx context.Context, customerID int64) (model.Order, error) {
	ps := m.s.pendingOrders(customerID)
	if len(ps) == 0 {
		return model.Order{}, repo.ErrNotFound
	}
	return ps[0], nil
}

func (m memOrders) FindPendingByCustomerIDForUpdate(ctx context.Context, customerID int64) (model.Order, error) {
	return m.FindPendingByCustomerID(ctx, customerID)
}

func (m memOrders) GetOrCreatePendingByCustomerID(ctx context.Context, customerID int64) (model.Order, error) {
	if o, err := m.FindPendingByCustomerID(ctx, customerID); err == nil {
		return o, nil
	}
	m.s.nextOrderID++
	now := time.Now()
	o := model.Order{
		ID:          m.s.nextOrderID,
		CustomerID:  customerID,
		Status:      model.OrderStatusPending,
		TotalAmount: decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.s.orders[o.ID] = o
	return o, nil
}

func (m memOrders) ListByCustomerID(ctx context.Context, customerID int64, page int, limit int) ([]model.Order, int64, error) {
	var out []model.Order
	for _, o := range m.s.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, int64(len(out)), nil
}

func (m memOrders) ListByCustomerIDs(ctx context.Context, ids []int64) ([]model.Order, error) {
	panic("not used")
}

func (m memOrders) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	var out []model.Order
	for _, o := range m.s.orders {
		if f.Status != "" && string(o.Status) != f.Status {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, int64(len(out)), nil
}

func (m memOrders) ListRecent(ctx context.Context, limit int) ([]model.RecentOrder, error) {
	panic("not used")
}

func (m memOrders) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) error {
	o, ok := m.s.orders[id]
	if !ok {
		return repo.ErrNotFound
	}
	// 部分ユニークインデックス相当
	if status == model.OrderStatusPending {
		for _, p := range m.s.pendingOrders(o.CustomerID) {
			if p.ID != id {
				return repo.ErrConflict
			}
		}
	}
	o.Status = status
	m.s.orders[id] = o
	return nil
}

func (m memOrders) SetShipping(ctx context.Context, id int64, shipping model.ShippingInfo) error {
	o, ok := m.s.orders[id]
	if !ok {
		return repo.ErrNotFound
	}
	o.Shipping = shipping
	m.s.orders[id] = o
	return nil
}

func (m memOrders) RecalculateTotal(ctx context.Context, id int64) (decimal.Decimal, error) {
	if m.s.failRecalc != nil {
		return decimal.Zero, m.s.failRecalc
	}
	o, ok := m.s.orders[id]
	if !ok {
		return decimal.Zero, repo.ErrNotFound
	}
	total := decimal.Zero
	for _, it := range m.s.itemsOf(id) {
		total = total.Add(it.Subtotal())
	}
	o.TotalAmount = total
	m.s.orders[id] = o
	return total, nil
}

func (m memOrders) SalesTotal(ctx context.Context) (decimal.Decimal, error) { panic("not used") }

func (m memOrders) CountByStatus(ctx context.Context) (map[model.OrderStatus]int64, error) {
	panic("not used")
}

// ---- order items

type memItems struct{ s *memStore }

func (m memItems) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	return m.s.itemsOf(orderID), nil
}

func (m memItems) ListCartLines(ctx context.Context, orderID int64) ([]model.CartLine, error) {
	lines := []model.CartLine{}
	for _, it := range m.s.itemsOf(orderID) {
		p := m.s.products[it.ProductID]
		lines = append(lines, model.CartLine{
			ProductID: it.ProductID,
			Name:      p.Name,
			Quantity:  it.Quantity,
			Price:     it.Price,
			ImageURL:  p.ImageURL,
		})
	}
	return lines, nil
}

func (m memItems) find(orderID, productID int64) (model.OrderItem, bool) {
	for _, it := range m.s.items {
		if it.OrderID == orderID && it.ProductID == productID {
			return it, true
		}
	}
	return model.OrderItem{}, false
}

func (m memItems) UpsertAdd(ctx context.Context, orderID, productID, qty int64, price decimal.Decimal) (model.OrderItem, error) {
	if it, ok := m.find(orderID, productID); ok {
		it.Quantity += qty
		m.s.items[it.ID] = it
		return it, nil
	}
	it := model.OrderItem{ID: m.s.nextItemID, OrderID: orderID, ProductID: productID, Quantity: qty, Price: price}
	m.s.nextItemID++
	m.s.items[it.ID] = it
	return it, nil
}

func (m memItems) SetQuantity(ctx context.Context, orderID, productID, qty int64) (model.OrderItem, error) {
	it, ok := m.find(orderID, productID)
	if !ok {
		return model.OrderItem{}, repo.ErrNotFound
	}
	it.Quantity = qty
	m.s.items[it.ID] = it
	return it, nil
}

func (m memItems) Delete(ctx context.Context, orderID, productID int64) (model.OrderItem, error) {
	it, ok := m.find(orderID, productID)
	if !ok {
		return model.OrderItem{}, repo.ErrNotFound
	}
	delete(m.s.items, it.ID)
	return it, nil
}

// ---- products / inventory / audit

type memProducts struct{ s *memStore }

func (m memProducts) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	panic("not used")
}

func (m memProducts) ListFeatured(ctx context.Context, limit int) ([]model.Product, error) {
	panic("not used")
}

func (m memProducts) FindByID(ctx context.Context, id int64) (model.Product, error) {
	p, ok := m.s.products[id]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

func (m memProducts) Count(ctx context.Context) (int64, error) {
	return int64(len(m.s.products)), nil
}

func (m memProducts) Create(ctx context.Context, p model.Product) (model.Product, error) {
	p.ID = int64(len(m.s.products) + 1000)
	m.s.products[p.ID] = p
	return p, nil
}

func (m memProducts) Update(ctx context.Context, p model.Product) error {
	if _, ok := m.s.products[p.ID]; !ok {
		return repo.ErrNotFound
	}
	m.s.products[p.ID] = p
	return nil
}

func (m memProducts) SoftDelete(ctx context.Context, id int64) error {
	if _, ok := m.s.products[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.s.products, id)
	return nil
}

type memInventory struct{ s *memStore }

func (m memInventory) SetStockWithAdjustment(ctx context.Context, actorID, productID, newStock int64, reason string) (int64, error) {
	p, ok := m.s.products[productID]
	if !ok {
		return 0, repo.ErrNotFound
	}
	old := p.StockQuantity
	p.StockQuantity = newStock
	m.s.products[productID] = p
	m.s.adjusts = append(m.s.adjusts, model.InventoryAdjustment{ProductID: productID, ActorID: actorID, Delta: newStock - old, Reason: reason})
	return old, nil
}

type memAudit struct{ s *memStore }

func (m memAudit) Create(ctx context.Context, log model.AuditLog) error {
	m.s.audits = append(m.s.audits, log)
	return nil
}

func (m memAudit) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	return append([]model.AuditLog(nil), m.s.audits...), nil
}

// ---- addresses / customers

type memAddresses struct{ s *memStore }

func (m memAddresses) Create(ctx context.Context, a model.Address) (model.Address, error) {
	panic("not used")
}

func (m memAddresses) ListByCustomerID(ctx context.Context, customerID int64) ([]model.Address, error) {
	panic("not used")
}

func (m memAddresses) FindByID(ctx context.Context, id int64) (model.Address, error) {
	a, ok := m.s.addresses[id]
	if !ok {
		return model.Address{}, repo.ErrNotFound
	}
	return a, nil
}

func (m memAddresses) FindDefaultByCustomerID(ctx context.Context, customerID int64) (model.Address, error) {
	for _, a := range m.s.addresses {
		if a.CustomerID == customerID && a.IsDefault {
			return a, nil
		}
	}
	return model.Address{}, repo.ErrNotFound
}

func (m memAddresses) Update(ctx context.Context, a model.Address) error { panic("not used") }

func (m memAddresses) Delete(ctx context.Context, customerID, addressID int64) error {
	panic("not used")
}

func (m memAddresses) SetDefault(ctx context.Context, customerID, addressID int64) error {
	panic("not used")
}

type memCustomers struct{ s *memStore }

func (m memCustomers) FindByID(ctx context.Context, id int64) (model.Customer, error) {
	c, ok := m.s.customers[id]
	if !ok {
		return model.Customer{}, repo.ErrNotFound
	}
	return c, nil
}

func (m memCustomers) List(ctx context.Context, q repo.CustomerListQuery) ([]model.Customer, int64, error) {
	panic("not used")
}

func (m memCustomers) Count(ctx context.Context) (int64, error) { panic("not used") }

func (m memCustomers) SubscribeNewsletter(ctx context.Context, email string) (model.Customer, error) {
	panic("not used")
}

func (m memCustomers) UnsubscribeNewsletter(ctx context.Context, email string) error {
	panic("not used")
}

// ---- events

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.OrderStatusChanged
	err    error
}

func (p *recordingPublisher) PublishOrderStatusChanged(ctx context.Context, ev model.OrderStatusChanged) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}
