package repository

import (
	"context"
	"slices"

	"github.com/Kariqs/tannaro-api/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func cloneProduct(p models.Product) models.Product {
	p.Images = slices.Clone(p.Images)
	if p.CompareAtPrice != nil {
		v := *p.CompareAtPrice
		p.CompareAtPrice = &v
	}
	return p
}

func productMatches(q ProductQuery, p models.Product) bool {
	if q.Status != "" && p.Status != q.Status {
		return false
	}
	if q.Category != "" && p.Category != q.Category {
		return false
	}
	if q.Featured != nil && p.Featured != *q.Featured {
		return false
	}
	if q.IDs != nil && !slices.Contains(q.IDs, p.ID) {
		return false
	}
	switch q.Stock {
	case StockOut:
		return p.Stock == 0
	case StockLow:
		return p.Stock > 0 && p.Stock < models.LowStockThreshold
	}
	return true
}

func (s *MemoryStore) skuTaken(sku string, exclude primitive.ObjectID) bool {
	if sku == "" {
		return false
	}
	return slices.ContainsFunc(s.products, func(p models.Product) bool {
		return p.SKU == sku && p.ID != exclude
	})
}

func (s *MemoryStore) ListProducts(_ context.Context, q ProductQuery, limit int) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := newestFirstIndexes(s.products,
		func(p models.Product) int64 { return p.CreatedAt.UnixNano() },
		func(p models.Product) bool { return productMatches(q, p) },
	)
	products := []models.Product{}
	for _, i := range paginate(idx, Page{Number: 1, Limit: limit}) {
		products = append(products, cloneProduct(s.products[i]))
	}
	return products, nil
}

func (s *MemoryStore) CountProducts(_ context.Context, q ProductQuery) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, p := range s.products {
		if productMatches(q, p) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) GetProduct(_ context.Context, id primitive.ObjectID) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			return cloneProduct(p), nil
		}
	}
	return models.Product{}, ErrNotFound
}

func (s *MemoryStore) InsertProduct(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.skuTaken(product.SKU, primitive.NilObjectID) {
		return ErrDuplicate
	}
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	s.products = append(s.products, cloneProduct(*product))
	return nil
}

func (s *MemoryStore) ReplaceProduct(_ context.Context, product models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.products, func(p models.Product) bool { return p.ID == product.ID })
	if i < 0 {
		return ErrNotFound
	}
	if s.skuTaken(product.SKU, product.ID) {
		return ErrDuplicate
	}
	s.products[i] = cloneProduct(product)
	return nil
}

func (s *MemoryStore) DeleteProduct(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.products, func(p models.Product) bool { return p.ID == id })
	if i < 0 {
		return ErrNotFound
	}
	s.products = slices.Delete(s.products, i, i+1)
	return nil
}

func cloneCategory(c models.Category) models.Category {
	c.Products = slices.Clone(c.Products)
	if c.Products == nil {
		c.Products = []primitive.ObjectID{}
	}
	return c
}

func (s *MemoryStore) ListCategories(_ context.Context, status string) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := newestFirstIndexes(s.categories,
		func(c models.Category) int64 { return c.CreatedAt.UnixNano() },
		func(c models.Category) bool { return status == "" || c.Status == status },
	)
	categories := []models.Category{}
	for _, i := range idx {
		categories = append(categories, cloneCategory(s.categories[i]))
	}
	return categories, nil
}

func (s *MemoryStore) GetCategory(_ context.Context, id primitive.ObjectID) (models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.categories {
		if c.ID == id {
			return cloneCategory(c), nil
		}
	}
	return models.Category{}, ErrNotFound
}

func (s *MemoryStore) categoryTaken(name, slug string, exclude primitive.ObjectID) bool {
	return slices.ContainsFunc(s.categories, func(c models.Category) bool {
		return c.ID != exclude && (c.Name == name || c.Slug == slug)
	})
}

func (s *MemoryStore) CategoryExists(_ context.Context, name, slug string, exclude primitive.ObjectID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categoryTaken(name, slug, exclude), nil
}

func (s *MemoryStore) InsertCategory(_ context.Context, category *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.categoryTaken(category.Name, category.Slug, primitive.NilObjectID) {
		return ErrDuplicate
	}
	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	s.categories = append(s.categories, cloneCategory(*category))
	return nil
}

func (s *MemoryStore) ReplaceCategory(_ context.Context, category models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.categories, func(c models.Category) bool { return c.ID == category.ID })
	if i < 0 {
		return ErrNotFound
	}
	if s.categoryTaken(category.Name, category.Slug, category.ID) {
		return ErrDuplicate
	}
	s.categories[i] = cloneCategory(category)
	return nil
}

func (s *MemoryStore) DeleteCategory(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.categories, func(c models.Category) bool { return c.ID == id })
	if i < 0 {
		return ErrNotFound
	}
	s.categories = slices.Delete(s.categories, i, i+1)
	return nil
}
