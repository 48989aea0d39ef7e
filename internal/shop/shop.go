// Package shop owns the menu catalog, the order ledger and the order draft.
// Every mutation is written through to the Store.
package shop

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"foodmaster/internal/database"
	"foodmaster/internal/events"
	"foodmaster/internal/models"
	"foodmaster/internal/stats"

	"go.uber.org/zap"
)

var (
	ErrMenuItemNotFound = errors.New("menu item not found")
	ErrOrderNotFound    = errors.New("order not found")
)

// Default store keys
const (
	DefaultMenuKey   = "food-menu-v2"
	DefaultOrdersKey = "food-orders-v2"
)

// CorruptSuffix is appended to a key to save data that could not be parsed
const CorruptSuffix = ".corrupt"

// Mutation names reported to the Recorder
const (
	OpAddItem       = "add_item"
	OpDeleteItem    = "delete_item"
	OpAddOrder      = "add_order"
	OpToggleOrder   = "toggle_order"
	OpDeleteOrder   = "delete_order"
	OpDraftChange   = "draft_change"
	OpSubmitDraft   = "submit_draft"
	OpPersistFailed = "persist_failed"
)

// Recorder receives metrics about the shop
type Recorder interface {
	RecordMutation(op string)
	ObserveDashboard(d stats.Dashboard)
}

// Config holds the store keys of the two collections
type Config struct {
	MenuKey   string
	OrdersKey string
}

// CascadeResult describes the effect of deleting a menu item
type CascadeResult struct {
	Item          models.MenuItem `json:"item"`
	OrdersTouched int             `json:"ordersTouched"`
	OrdersDropped int             `json:"ordersDropped"`
}

// DraftView is the draft with labels and totals resolved
type DraftView struct {
	Items     []stats.LineView `json:"items"`
	Total     float64          `json:"total"`
	TotalText string           `json:"totalText"`
}

// Shop represents the state of one vendor. All methods are safe for
// concurrent use.
type Shop struct {
	mu       sync.RWMutex
	catalog  Catalog
	ledger   OrderLedger
	draft    models.Draft
	degraded []string

	store     database.Store
	cfg       Config
	logger    *zap.SugaredLogger
	publisher events.Publisher
	recorder  Recorder
	newID     models.IDGenerator
	now       func() time.Time
}

// New creates an empty Shop backed by store. Call Load to read the
// persisted collections.
func New(store database.Store, cfg Config, logger *zap.SugaredLogger) *Shop {
	if cfg.MenuKey == "" {
		cfg.MenuKey = DefaultMenuKey
	}
	if cfg.OrdersKey == "" {
		cfg.OrdersKey = DefaultOrdersKey
	}

	return &Shop{
		store:     store,
		cfg:       cfg,
		logger:    logger,
		publisher: events.Nop{},
		newID:     models.NewID,
		now:       time.Now,
	}
}

func (s *Shop) SetPublisher(p events.Publisher) {
	s.publisher = p
}

func (s *Shop) SetRecorder(r Recorder) {
	s.recorder = r
}

func (s *Shop) SetIDGenerator(g models.IDGenerator) {
	s.newID = g
}

func (s *Shop) SetClock(now func() time.Time) {
	s.now = now
}

// Load reads both collections from the store. A missing slot is an empty
// collection. A slot that cannot be parsed is copied to key+CorruptSuffix,
// treated as empty and reported by Degraded; the other slot is unaffected.
func (s *Shop) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.degraded = nil

	var menu []models.MenuItem
	ok, err := s.loadSlot(ctx, s.cfg.MenuKey, &menu)
	if err != nil {
		return err
	}
	if !ok {
		menu = nil
	}

	var orders []models.Order
	ok, err = s.loadSlot(ctx, s.cfg.OrdersKey, &orders)
	if err != nil {
		return err
	}
	if !ok {
		orders = nil
	}

	s.catalog = Catalog{items: menu}
	s.ledger = OrderLedger{orders: orders}
	s.draft.Reset()
	s.observe()

	s.logger.Infow("shop loaded",
		"menu_items", s.catalog.Len(),
		"orders", s.ledger.Len(),
		"degraded", s.degraded,
	)
	return nil
}

// loadSlot decodes the slot into v. It returns false when the slot is
// missing or corrupt.
func (s *Shop) loadSlot(ctx context.Context, key string, v interface{}) (bool, error) {
	raw, err := s.store.Get(ctx, key)
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, v); err != nil {
		s.degraded = append(s.degraded, key)
		s.logger.Warnw("stored data is unreadable, starting with an empty collection",
			"key", key,
			"backup", key+CorruptSuffix,
			"error", err,
		)
		if err := s.store.Set(ctx, key+CorruptSuffix, raw); err != nil {
			s.logger.Errorw("failed to back up unreadable data", "key", key, "error", err)
		}
		return false, nil
	}

	return true, nil
}

// Degraded lists the keys that were reset at load because they could not be parsed
func (s *Shop) Degraded() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.degraded...)
}

// AddItem appends a new menu item. Negative prices are accepted.
func (s *Shop) AddItem(ctx context.Context, name string, price float64) (models.MenuItem, error) {
	if err := models.ValidateMenuItem(name, price); err != nil {
		return models.MenuItem{}, err
	}

	s.mu.Lock()
	item := models.MenuItem{
		ID:    s.uniqueID(func(id string) bool { _, ok := s.catalog.Find(id); return ok }),
		Name:  strings.TrimSpace(name),
		Price: price,
	}
	s.catalog.add(item)
	s.logger.Infow("menu item added", "id", item.ID, "name", item.Name, "price", item.Price)
	err := s.persistMenu(ctx)
	s.mutated(OpAddItem)
	s.mu.Unlock()

	s.emit(ctx, events.New(events.MenuItemAdded, item))
	return item, err
}

// DeleteItem removes a menu item and cascades: lines referencing it are
// removed from every order and orders left empty are dropped. Draft lines
// for the item are removed as well.
func (s *Shop) DeleteItem(ctx context.Context, id string) (CascadeResult, error) {
	s.mu.Lock()
	item, ok := s.catalog.Find(id)
	if !ok {
		s.mu.Unlock()
		return CascadeResult{}, fmt.Errorf("%w: %s", ErrMenuItemNotFound, id)
	}

	s.catalog.remove(id)
	touched, dropped := s.ledger.dropFood(id)
	s.draft.RemoveFood(id)

	s.logger.Infow("menu item deleted",
		"id", id,
		"orders_touched", touched,
		"orders_dropped", dropped,
	)

	err := errors.Join(s.persistMenu(ctx), s.persistOrders(ctx))
	s.mutated(OpDeleteItem)
	s.mu.Unlock()

	result := CascadeResult{Item: item, OrdersTouched: touched, OrdersDropped: dropped}
	s.emit(ctx, events.New(events.MenuItemDeleted, result))
	return result, err
}

// Menu returns a copy of the catalog in insertion order
func (s *Shop) Menu() []models.MenuItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.Items()
}

// FindItem looks up a menu item by id
func (s *Shop) FindItem(id string) (models.MenuItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.Find(id)
}

// AddOrder records a new undelivered order at the front of the ledger.
// Items may reference any food id.
func (s *Shop) AddOrder(ctx context.Context, customerName string, items []models.OrderItem) (models.Order, error) {
	if err := models.ValidateOrder(customerName, items); err != nil {
		return models.Order{}, err
	}

	s.mu.Lock()
	order := s.addOrderLocked(customerName, items)
	err := s.persistOrders(ctx)
	s.mutated(OpAddOrder)
	s.mu.Unlock()

	s.emit(ctx, events.New(events.OrderAdded, order))
	return order, err
}

func (s *Shop) addOrderLocked(customerName string, items []models.OrderItem) models.Order {
	order := models.Order{
		ID:           s.uniqueID(func(id string) bool { return s.ledger.index(id) >= 0 }),
		CustomerName: strings.TrimSpace(customerName),
		Items:        append([]models.OrderItem(nil), items...),
		Date:         s.now().UTC(),
		IsDelivered:  false,
	}
	s.ledger.prepend(order)
	s.logger.Infow("order added", "id", order.ID, "customer", order.CustomerName, "lines", len(order.Items))
	return order.Clone()
}

// ToggleDelivered flips the delivery flag of an order and returns the
// updated order. It reports false and changes nothing when the id is unknown.
func (s *Shop) ToggleDelivered(ctx context.Context, id string) (models.Order, bool, error) {
	s.mu.Lock()
	order, ok := s.ledger.toggle(id)
	if !ok {
		s.mu.Unlock()
		return models.Order{}, false, nil
	}

	s.logger.Infow("order toggled", "id", id, "delivered", order.IsDelivered)
	err := s.persistOrders(ctx)
	s.mutated(OpToggleOrder)
	s.mu.Unlock()

	s.emit(ctx, events.New(events.OrderToggled, order))
	return order, true, err
}

// DeleteOrder removes an order
func (s *Shop) DeleteOrder(ctx context.Context, id string) error {
	s.mu.Lock()
	if !s.ledger.remove(id) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}

	s.logger.Infow("order deleted", "id", id)
	err := s.persistOrders(ctx)
	s.mutated(OpDeleteOrder)
	s.mu.Unlock()

	s.emit(ctx, events.New(events.OrderDeleted, map[string]string{"id": id}))
	return err
}

// Orders returns a deep copy of the ledger, most recent first
func (s *Shop) Orders() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Orders()
}

// FindOrder looks up an order by id
func (s *Shop) FindOrder(id string) (models.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Find(id)
}

// Snapshot returns deep copies of the ledger and the catalog taken at the
// same instant.
func (s *Shop) Snapshot() ([]models.Order, []models.MenuItem) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Orders(), s.catalog.Items()
}

// Dashboard computes the headline figures
func (s *Shop) Dashboard() stats.Dashboard {
	orders, menu := s.Snapshot()
	return stats.BuildDashboard(orders, menu)
}

// OrderViews resolves every order against the catalog
func (s *Shop) OrderViews() []stats.OrderView {
	orders, menu := s.Snapshot()
	return stats.BuildOrderViews(orders, stats.NewIndex(menu))
}

// AddToDraft adds quantity of a catalog item to the draft, merging with
// an existing line for the same item.
func (s *Shop) AddToDraft(ctx context.Context, foodID string, quantity int) (DraftView, error) {
	s.mu.Lock()
	if _, ok := s.catalog.Find(foodID); !ok {
		s.mu.Unlock()
		return DraftView{}, fmt.Errorf("%w: %s", ErrMenuItemNotFound, foodID)
	}
	if err := s.draft.Add(foodID, quantity); err != nil {
		s.mu.Unlock()
		return DraftView{}, err
	}
	view := s.draftViewLocked()
	s.mutated(OpDraftChange)
	s.mu.Unlock()

	s.emit(ctx, events.New(events.DraftChanged, view))
	return view, nil
}

// RemoveDraftLine removes the draft line at index
func (s *Shop) RemoveDraftLine(ctx context.Context, index int) (DraftView, error) {
	s.mu.Lock()
	if err := s.draft.Remove(index); err != nil {
		s.mu.Unlock()
		return DraftView{}, err
	}
	view := s.draftViewLocked()
	s.mutated(OpDraftChange)
	s.mu.Unlock()

	s.emit(ctx, events.New(events.DraftChanged, view))
	return view, nil
}

// ClearDraft empties the draft
func (s *Shop) ClearDraft(ctx context.Context) DraftView {
	s.mu.Lock()
	s.draft.Reset()
	view := s.draftViewLocked()
	s.mutated(OpDraftChange)
	s.mu.Unlock()

	s.emit(ctx, events.New(events.DraftChanged, view))
	return view
}

// Draft returns the draft with labels and totals
func (s *Shop) Draft() DraftView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draftViewLocked()
}

// SubmitDraft turns the draft into an order for customerName. The draft is
// cleared only when the order is created.
func (s *Shop) SubmitDraft(ctx context.Context, customerName string) (models.Order, error) {
	s.mu.Lock()
	items := s.draft.Items()
	if err := models.ValidateOrder(customerName, items); err != nil {
		s.mu.Unlock()
		return models.Order{}, err
	}

	order := s.addOrderLocked(customerName, items)
	s.draft.Reset()
	err := s.persistOrders(ctx)
	s.mutated(OpSubmitDraft)
	draft := s.draftViewLocked()
	s.mu.Unlock()

	s.emit(ctx, events.New(events.OrderAdded, order))
	s.emit(ctx, events.New(events.DraftChanged, draft))
	return order, err
}

func (s *Shop) draftViewLocked() DraftView {
	view := stats.BuildOrderView(models.Order{Items: s.draft.Items()}, &s.catalog)
	return DraftView{
		Items:     view.Items,
		Total:     view.Total,
		TotalText: view.TotalText,
	}
}

// uniqueID draws ids until taken reports the id as free
func (s *Shop) uniqueID(taken func(string) bool) string {
	for {
		id := s.newID()
		if !taken(id) {
			return id
		}
	}
}

func (s *Shop) persistMenu(ctx context.Context) error {
	return s.persist(ctx, s.cfg.MenuKey, s.catalog.Items())
}

func (s *Shop) persistOrders(ctx context.Context) error {
	return s.persist(ctx, s.cfg.OrdersKey, s.ledger.Orders())
}

func (s *Shop) persist(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	if err := s.store.Set(ctx, key, data); err != nil {
		s.logger.Errorw("failed to persist", "key", key, "error", err)
		if s.recorder != nil {
			s.recorder.RecordMutation(OpPersistFailed)
		}
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	return nil
}

func (s *Shop) mutated(op string) {
	if s.recorder == nil {
		return
	}
	s.recorder.RecordMutation(op)
	s.observe()
}

func (s *Shop) observe() {
	if s.recorder == nil {
		return
	}
	s.recorder.ObserveDashboard(stats.BuildDashboard(s.ledger.Orders(), s.catalog.Items()))
}

func (s *Shop) emit(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warnw("failed to publish event", "type", e.Type, "error", err)
	}
}
