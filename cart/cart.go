// Package cart keeps a shopper's selection on the client until checkout.
// A Store is keyed by product id and persists the full list after every change.
package cart

import (
	"errors"
	"slices"
	"sync"

	"github.com/Kariqs/tannaro-api/models"
	"github.com/shopspring/decimal"
)

type Item = models.CartItem

var ErrEmptyCart = errors.New("cart is empty")

// Storage holds the serialized cart between sessions.
type Storage interface {
	Load() ([]Item, error)
	Save(items []Item) error
	Clear() error
}

// Store is safe for concurrent use. Listeners run synchronously after each
// successful change, outside the store's lock.
type Store struct {
	mu        sync.Mutex
	storage   Storage
	items     []Item
	listeners []func([]Item)
}

// Open loads the persisted cart. Entries with a blank id or a non-positive
// quantity are dropped.
func Open(storage Storage) (*Store, error) {
	items, err := storage.Load()
	if err != nil {
		return nil, err
	}
	items = slices.DeleteFunc(slices.Clone(items), func(it Item) bool {
		return it.ID == "" || it.Quantity < 1
	})
	return &Store{storage: storage, items: items}, nil
}

// Subscribe registers fn to receive a copy of the cart after every change.
func (s *Store) Subscribe(fn func([]Item)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// commit must be called with s.mu held and releases it.
func (s *Store) commit(next []Item) error {
	if err := s.storage.Save(next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.items = next
	snapshot := slices.Clone(next)
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(slices.Clone(snapshot))
	}
	return nil
}

// Add merges quantity into the entry for item.ID, appending a new entry when
// none exists. A quantity below 1 adds one.
func (s *Store) Add(item Item, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	s.mu.Lock()
	next := slices.Clone(s.items)
	if i := s.index(item.ID); i >= 0 {
		next[i].Quantity += quantity
	} else {
		item.Quantity = quantity
		next = append(next, item)
	}
	return s.commit(next)
}

// SetQuantity overwrites the quantity of an entry, removing it when quantity
// is zero or less. Unknown ids are ignored.
func (s *Store) SetQuantity(id string, quantity int) error {
	s.mu.Lock()
	i := s.index(id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	next := slices.Clone(s.items)
	if quantity <= 0 {
		next = slices.Delete(next, i, i+1)
	} else {
		next[i].Quantity = quantity
	}
	return s.commit(next)
}

func (s *Store) Remove(id string) error {
	s.mu.Lock()
	if s.index(id) < 0 {
		s.mu.Unlock()
		return nil
	}
	next := slices.DeleteFunc(slices.Clone(s.items), func(it Item) bool { return it.ID == id })
	return s.commit(next)
}

// Clear empties the cart and its storage.
func (s *Store) Clear() error {
	s.mu.Lock()
	if err := s.storage.Clear(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.items = nil
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn([]Item{})
	}
	return nil
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.items, func(it Item) bool { return it.ID == id })
}

func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := slices.Clone(s.items)
	if items == nil {
		items = []Item{}
	}
	return items
}

// TotalCount is the sum of quantities.
func (s *Store) TotalCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalCount(s.items)
}

// TotalValue is the sum of price times quantity.
func (s *Store) TotalValue() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return subtotal(s.items).InexactFloat64()
}

// Checkout builds the order submission payload for the current cart. The cart
// itself is left untouched until the caller clears it after a successful order.
func (s *Store) Checkout(customer models.Customer, method models.ShippingMethod, notes string) (models.CheckoutRequest, error) {
	items := s.Items()
	if len(items) == 0 {
		return models.CheckoutRequest{}, ErrEmptyCart
	}

	quote := Quote(items, method)
	lines := make([]models.CheckoutItem, 0, len(items))
	for _, it := range items {
		lines = append(lines, models.CheckoutItem{
			ProductID: it.ID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Image:     it.Image,
		})
	}

	return models.CheckoutRequest{
		Customer:       &customer,
		Items:          lines,
		Subtotal:       &quote.Subtotal,
		Shipping:       &quote.Shipping,
		Tax:            &quote.Tax,
		Total:          &quote.Total,
		ShippingMethod: quote.ShippingMethod,
		PaymentMethod:  models.PaymentCashOnDelivery,
		Notes:          notes,
	}, nil
}

func totalCount(items []Item) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func subtotal(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}

// Quote prices a list of items for a shipping zone. Unknown zones are priced
// as inside. Tax is always zero.
func Quote(items []Item, method models.ShippingMethod) models.CartQuote {
	if !method.Valid() {
		method = models.ShippingInside
	}
	sub := subtotal(items)
	shipping := decimal.NewFromFloat(method.Price())
	return models.CartQuote{
		ItemCount:      totalCount(items),
		Subtotal:       sub.InexactFloat64(),
		ShippingMethod: method,
		Shipping:       shipping.InexactFloat64(),
		Tax:            0,
		Total:          sub.Add(shipping).InexactFloat64(),
	}
}
