package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Kariqs/tannaro-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// runStoreSuite exercises the behaviour every backend must share. newStore
// returns an empty store with indexes in place.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("order numbers advance", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		first, err := store.NextOrderNumber(ctx)
		require.NoError(t, err)
		second, err := store.NextOrderNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, first+1, second)
	})

	t.Run("duplicate order number", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.InsertOrder(ctx, newOrder("ORD-000001", "a@example.com", models.OrderStatusPending, 100, time.Now())))
		err := store.InsertOrder(ctx, newOrder("ORD-000001", "b@example.com", models.OrderStatusPending, 100, time.Now()))
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("order filters", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		base := time.Now().UTC().Add(-time.Hour)

		seed := []*models.Order{
			newOrder("ORD-000001", "rahim@example.com", models.OrderStatusPending, 2060, base),
			newOrder("ORD-000002", "karim@example.com", models.OrderStatusShipped, 500, base.Add(time.Minute)),
			newOrder("ORD-000003", "rahim@example.com", models.OrderStatusCancelled, 300, base.Add(2*time.Minute)),
		}
		for _, o := range seed {
			require.NoError(t, store.InsertOrder(ctx, o))
			assert.False(t, o.ID.IsZero())
		}

		all, err := store.ListOrders(ctx, OrderQuery{}, Page{Number: 1, Limit: 50})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "ORD-000003", all[0].OrderNumber, "newest first")

		byEmail, err := store.CountOrders(ctx, OrderQuery{Email: "rahim@example.com"})
		require.NoError(t, err)
		assert.EqualValues(t, 2, byEmail)

		shipped, err := store.ListOrders(ctx, OrderQuery{Statuses: []models.OrderStatus{models.OrderStatusShipped}}, Page{})
		require.NoError(t, err)
		require.Len(t, shipped, 1)
		assert.Equal(t, "ORD-000002", shipped[0].OrderNumber)

		search, err := store.ListOrders(ctx, OrderQuery{Search: "KARIM"}, Page{})
		require.NoError(t, err)
		require.Len(t, search, 1)

		byNumber, err := store.CountOrders(ctx, OrderQuery{Search: "000003"})
		require.NoError(t, err)
		assert.EqualValues(t, 1, byNumber)

		second, err := store.ListOrders(ctx, OrderQuery{}, Page{Number: 2, Limit: 2})
		require.NoError(t, err)
		require.Len(t, second, 1)
		assert.Equal(t, "ORD-000001", second[0].OrderNumber)

		revenue, err := store.SumOrderTotals(ctx, OrderQuery{Statuses: models.RevenueStatuses})
		require.NoError(t, err)
		assert.InDelta(t, 2560, revenue, 0.001)

		none, err := store.SumOrderTotals(ctx, OrderQuery{Email: "nobody@example.com"})
		require.NoError(t, err)
		assert.Zero(t, none)
	})

	t.Run("update order", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		order := newOrder("ORD-000001", "a@example.com", models.OrderStatusPending, 100, time.Now())
		require.NoError(t, store.InsertOrder(ctx, order))

		shipped := models.OrderStatusShipped
		notes := "left with guard"
		updated, err := store.UpdateOrder(ctx, order.ID, OrderUpdate{Status: &shipped, Notes: &notes, UpdatedAt: time.Now()})
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusShipped, updated.Status)
		assert.Equal(t, notes, updated.Notes)
		assert.Equal(t, order.Total, updated.Total)

		got, err := store.GetOrder(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusShipped, got.Status)

		_, err = store.UpdateOrder(ctx, primitive.NewObjectID(), OrderUpdate{Notes: &notes})
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = store.GetOrder(ctx, primitive.NewObjectID())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("products", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		base := time.Now().UTC().Add(-time.Hour)

		products := []*models.Product{
			{Name: "Shirt", SKU: "SH-1", Price: 1000, Stock: 0, Status: models.ProductStatusActive, Category: "Men", CreatedAt: base},
			{Name: "Cap", Price: 250, Stock: 4, Status: models.ProductStatusActive, Featured: true, CreatedAt: base.Add(time.Minute)},
			{Name: "Scarf", Price: 400, Stock: 30, Status: models.ProductStatusInactive, CreatedAt: base.Add(2 * time.Minute)},
		}
		for _, p := range products {
			require.NoError(t, store.InsertProduct(ctx, p))
		}

		err := store.InsertProduct(ctx, &models.Product{Name: "Other", SKU: "SH-1", Status: models.ProductStatusActive})
		assert.ErrorIs(t, err, ErrDuplicate)

		active, err := store.ListProducts(ctx, ProductQuery{Status: models.ProductStatusActive}, 0)
		require.NoError(t, err)
		require.Len(t, active, 2)
		assert.Equal(t, "Cap", active[0].Name)

		limited, err := store.ListProducts(ctx, ProductQuery{}, 1)
		require.NoError(t, err)
		assert.Len(t, limited, 1)

		featured := true
		count, err := store.CountProducts(ctx, ProductQuery{Featured: &featured})
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)

		out, err := store.CountProducts(ctx, ProductQuery{Stock: StockOut})
		require.NoError(t, err)
		assert.EqualValues(t, 1, out)

		low, err := store.CountProducts(ctx, ProductQuery{Stock: StockLow})
		require.NoError(t, err)
		assert.EqualValues(t, 1, low)

		men, err := store.ListProducts(ctx, ProductQuery{Category: "Men"}, 0)
		require.NoError(t, err)
		require.Len(t, men, 1)

		byIDs, err := store.ListProducts(ctx, ProductQuery{IDs: []primitive.ObjectID{products[0].ID, products[2].ID}}, 0)
		require.NoError(t, err)
		assert.Len(t, byIDs, 2)

		restocked := *products[1]
		restocked.Stock = 12
		require.NoError(t, store.ReplaceProduct(ctx, restocked))
		got, err := store.GetProduct(ctx, restocked.ID)
		require.NoError(t, err)
		assert.Equal(t, 12, got.Stock)

		require.NoError(t, store.DeleteProduct(ctx, restocked.ID))
		assert.ErrorIs(t, store.DeleteProduct(ctx, restocked.ID), ErrNotFound)
		_, err = store.GetProduct(ctx, restocked.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, store.ReplaceProduct(ctx, models.Product{ID: primitive.NewObjectID()}), ErrNotFound)
	})

	t.Run("categories", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		men := &models.Category{Name: "Men", Slug: "men", Status: models.CategoryStatusActive, Products: []primitive.ObjectID{}, CreatedAt: time.Now().UTC()}
		kids := &models.Category{Name: "Kids", Slug: "kids", Status: models.CategoryStatusInactive, Products: []primitive.ObjectID{}, CreatedAt: time.Now().UTC().Add(time.Second)}
		require.NoError(t, store.InsertCategory(ctx, men))
		require.NoError(t, store.InsertCategory(ctx, kids))

		exists, err := store.CategoryExists(ctx, "Other", "men", primitive.NilObjectID)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = store.CategoryExists(ctx, "Men", "men", men.ID)
		require.NoError(t, err)
		assert.False(t, exists, "a category does not conflict with itself")

		active, err := store.ListCategories(ctx, models.CategoryStatusActive)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, "Men", active[0].Name)

		all, err := store.ListCategories(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 2)

		men.Products = []primitive.ObjectID{primitive.NewObjectID()}
		require.NoError(t, store.ReplaceCategory(ctx, *men))
		got, err := store.GetCategory(ctx, men.ID)
		require.NoError(t, err)
		assert.Len(t, got.Products, 1)

		require.NoError(t, store.DeleteCategory(ctx, kids.ID))
		_, err = store.GetCategory(ctx, kids.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("users", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		user := &models.User{Name: "Rahim Uddin", Email: "rahim@example.com", Phone: "01711", Role: models.RoleUser, CreatedAt: time.Now().UTC()}
		require.NoError(t, store.InsertUser(ctx, user))
		assert.ErrorIs(t, store.InsertUser(ctx, &models.User{Name: "Again", Email: "rahim@example.com"}), ErrDuplicate)

		found, err := store.FindUserByEmail(ctx, "rahim@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)

		_, err = store.FindUserByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrNotFound)

		found.Phone = "01999"
		require.NoError(t, store.ReplaceUser(ctx, found))
		got, err := store.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "01999", got.Phone)

		list, err := store.ListUsers(ctx, UserQuery{Search: "uddin"}, Page{Number: 1, Limit: 10})
		require.NoError(t, err)
		assert.Len(t, list, 1)

		n, err := store.CountUsers(ctx, UserQuery{Search: "nomatch"})
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("login attempts", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		for want := 1; want <= 3; want++ {
			got, err := store.HitAttempt(ctx, "ip:1", time.Minute)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
		other, err := store.HitAttempt(ctx, "ip:2", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, 1, other)

		require.NoError(t, store.ResetAttempts(ctx, "ip:1"))
		got, err := store.HitAttempt(ctx, "ip:1", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, 1, got)
	})
}

func newOrder(number, email string, status models.OrderStatus, total float64, at time.Time) *models.Order {
	return &models.Order{
		OrderNumber: number,
		Customer:    models.Customer{Email: email, FirstName: "Test", LastName: "Buyer", Phone: "01700000000", Address: "Road 1"},
		Items:       []models.OrderItem{{ProductID: "P1", Name: "Item", Price: total, Quantity: 1}},
		Subtotal:    total,
		Total:       total,
		Status:      status,
		CreatedAt:   at.UTC(),
		UpdatedAt:   at.UTC(),
	}
}
