package repository

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/Kariqs/tannaro-api/models"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore keeps every collection in process memory. State is lost on
// restart and is not shared between instances.
type MemoryStore struct {
	*MemoryAttempts

	mu         sync.RWMutex
	orderSeq   int64
	orders     []models.Order
	products   []models.Product
	categories []models.Category
	users      []models.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{MemoryAttempts: NewMemoryAttempts()}
}

func (s *MemoryStore) EnsureIndexes(context.Context) error { return nil }

func (s *MemoryStore) Close(context.Context) error { return nil }

func containsFold(value, search string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(search))
}

// newestFirstIndexes returns the positions of the matching documents ordered
// by creation time descending, later inserts first on ties.
func newestFirstIndexes[T any](docs []T, created func(T) int64, match func(T) bool) []int {
	var idx []int
	for i := len(docs) - 1; i >= 0; i-- {
		if match(docs[i]) {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return created(docs[idx[a]]) > created(docs[idx[b]])
	})
	return idx
}

func paginate(idx []int, page Page) []int {
	if page.Limit < 1 {
		return idx
	}
	start := page.Skip()
	if start >= len(idx) {
		return nil
	}
	end := min(start+page.Limit, len(idx))
	return idx[start:end]
}

func cloneOrder(o models.Order) models.Order {
	o.Items = slices.Clone(o.Items)
	return o
}

func orderMatches(q OrderQuery, o models.Order) bool {
	if len(q.Statuses) > 0 && !slices.Contains(q.Statuses, o.Status) {
		return false
	}
	if q.Email != "" && o.Customer.Email != q.Email {
		return false
	}
	if q.Search != "" {
		c := o.Customer
		fields := []string{o.OrderNumber, c.Email, c.FirstName, c.LastName, c.Phone}
		if !slices.ContainsFunc(fields, func(f string) bool { return containsFold(f, q.Search) }) {
			return false
		}
	}
	return true
}

func orderCreated(o models.Order) int64 { return o.CreatedAt.UnixNano() }

func (s *MemoryStore) NextOrderNumber(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orderSeq++
	return s.orderSeq, nil
}

func (s *MemoryStore) InsertOrder(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.orders {
		if existing.OrderNumber == order.OrderNumber {
			return ErrDuplicate
		}
	}
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	s.orders = append(s.orders, cloneOrder(*order))
	return nil
}

func (s *MemoryStore) GetOrder(_ context.Context, id primitive.ObjectID) (models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.orders {
		if o.ID == id {
			return cloneOrder(o), nil
		}
	}
	return models.Order{}, ErrNotFound
}

func (s *MemoryStore) ListOrders(_ context.Context, q OrderQuery, page Page) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := newestFirstIndexes(s.orders, orderCreated, func(o models.Order) bool { return orderMatches(q, o) })
	orders := []models.Order{}
	for _, i := range paginate(idx, page) {
		orders = append(orders, cloneOrder(s.orders[i]))
	}
	return orders, nil
}

func (s *MemoryStore) CountOrders(_ context.Context, q OrderQuery) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, o := range s.orders {
		if orderMatches(q, o) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) SumOrderTotals(_ context.Context, q OrderQuery) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := decimal.Zero
	for _, o := range s.orders {
		if orderMatches(q, o) {
			sum = sum.Add(decimal.NewFromFloat(o.Total))
		}
	}
	return sum.InexactFloat64(), nil
}

func (s *MemoryStore) UpdateOrder(_ context.Context, id primitive.ObjectID, update OrderUpdate) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID != id {
			continue
		}
		if update.Status != nil {
			s.orders[i].Status = *update.Status
		}
		if update.Notes != nil {
			s.orders[i].Notes = *update.Notes
		}
		s.orders[i].UpdatedAt = update.UpdatedAt
		return cloneOrder(s.orders[i]), nil
	}
	return models.Order{}, ErrNotFound
}
