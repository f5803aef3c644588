package services

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/Kariqs/tannaro-api/models"
	"github.com/Kariqs/tannaro-api/repository"
	"github.com/Kariqs/tannaro-api/utils"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	msgDuplicateSKU      = "Product with this SKU already exists"
	msgDuplicateCategory = "Category with this name or slug already exists"
	msgInvalidCategoryID = "Invalid category ID"
)

type catalogStore interface {
	repository.ProductRepository
	repository.CategoryRepository
}

type CatalogService struct {
	store    catalogStore
	validate *validator.Validate
	log      *slog.Logger
	now      func() time.Time
}

func NewCatalogService(store catalogStore, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{
		store:    store,
		validate: utils.NewValidator(),
		log:      logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *CatalogService) dependency(op string, err error, args ...any) error {
	s.log.Error("failed to "+op, append(args, "error", err)...)
	return utils.Dependency(op, err)
}

func (s *CatalogService) checkInput(input models.ProductInput) error {
	if err := s.validate.Struct(input); err != nil {
		if fieldErrs := utils.FieldErrors(err); fieldErrs != nil {
			return utils.NewValidationError("%s", utils.DescribeFieldErrors(fieldErrs))
		}
		return utils.NewValidationError("Invalid product data")
	}
	return nil
}

type ProductListParams struct {
	// Admin lists every status, or only Status when set. Otherwise only active products are listed.
	Admin    bool
	Status   string
	Category string
	Featured bool
	Limit    int
}

func (s *CatalogService) ListProducts(ctx context.Context, params ProductListParams) ([]models.Product, error) {
	q := repository.ProductQuery{Category: params.Category}
	switch {
	case !params.Admin:
		q.Status = models.ProductStatusActive
	case params.Status != "":
		q.Status = models.ProductStatus(params.Status)
	}
	if params.Featured {
		featured := true
		q.Featured = &featured
	}

	products, err := s.store.ListProducts(ctx, q, params.Limit)
	if err != nil {
		return nil, s.dependency("fetch products", err)
	}
	return products, nil
}

func parseProductID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, &utils.NotFoundError{Entity: "Product"}
	}
	return oid, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (models.Product, error) {
	oid, err := parseProductID(id)
	if err != nil {
		return models.Product{}, err
	}
	product, err := s.store.GetProduct(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Product{}, &utils.NotFoundError{Entity: "Product"}
	}
	if err != nil {
		return models.Product{}, s.dependency("fetch product", err, "productId", id)
	}
	return product, nil
}

func applyProductInput(p *models.Product, in models.ProductInput) {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.CompareAtPrice != nil {
		if *in.CompareAtPrice > 0 {
			v := *in.CompareAtPrice
			p.CompareAtPrice = &v
		} else {
			p.CompareAtPrice = nil
		}
	}
	if in.Images != nil {
		p.Images = slices.Clone(*in.Images)
	}
	if in.SKU != nil {
		p.SKU = strings.TrimSpace(*in.SKU)
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Category != nil {
		p.Category = strings.TrimSpace(*in.Category)
	}
	if in.Status != nil && *in.Status != "" {
		p.Status = models.ProductStatus(*in.Status)
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
}

func (s *CatalogService) CreateProduct(ctx context.Context, in models.ProductInput) (models.Product, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" ||
		in.Description == nil || strings.TrimSpace(*in.Description) == "" ||
		in.Price == nil || in.Stock == nil {
		return models.Product{}, utils.NewValidationError("Missing required fields: name, description, price, and stock are required")
	}
	if *in.Price < 0 || *in.Stock < 0 {
		return models.Product{}, utils.NewValidationError("Price and stock must be non-negative numbers")
	}
	if err := s.checkInput(in); err != nil {
		return models.Product{}, err
	}

	at := s.now()
	product := models.Product{Images: []string{}, Status: models.ProductStatusActive, CreatedAt: at, UpdatedAt: at}
	applyProductInput(&product, in)

	err := s.store.InsertProduct(ctx, &product)
	if errors.Is(err, repository.ErrDuplicate) {
		return models.Product{}, utils.NewValidationError(msgDuplicateSKU)
	}
	if err != nil {
		return models.Product{}, s.dependency("create product", err)
	}
	s.log.Info("product created", "productId", product.ID.Hex(), "name", product.Name)
	return product, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in models.ProductInput) (models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	if in.Price != nil && *in.Price < 0 {
		return models.Product{}, utils.NewValidationError("Price must be a non-negative number")
	}
	if in.Stock != nil && *in.Stock < 0 {
		return models.Product{}, utils.NewValidationError("Stock must be a non-negative number")
	}
	if err := s.checkInput(in); err != nil {
		return models.Product{}, err
	}

	applyProductInput(&product, in)
	product.UpdatedAt = s.now()

	err = s.store.ReplaceProduct(ctx, product)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return models.Product{}, utils.NewValidationError(msgDuplicateSKU)
	case errors.Is(err, repository.ErrNotFound):
		return models.Product{}, &utils.NotFoundError{Entity: "Product"}
	case err != nil:
		return models.Product{}, s.dependency("update product", err, "productId", id)
	}
	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	oid, err := parseProductID(id)
	if err != nil {
		return err
	}
	err = s.store.DeleteProduct(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return &utils.NotFoundError{Entity: "Product"}
	}
	if err != nil {
		return s.dependency("delete product", err, "productId", id)
	}
	return nil
}

func parseCategoryID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, utils.NewValidationError(msgInvalidCategoryID)
	}
	return oid, nil
}

func (s *CatalogService) ListCategories(ctx context.Context, status string) ([]models.Category, error) {
	categories, err := s.store.ListCategories(ctx, status)
	if err != nil {
		return nil, s.dependency("fetch categories", err)
	}
	for i := range categories {
		categories[i].ProductCount = len(categories[i].Products)
	}
	return categories, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id string) (models.Category, error) {
	oid, err := parseCategoryID(id)
	if err != nil {
		return models.Category{}, err
	}
	category, err := s.store.GetCategory(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Category{}, &utils.NotFoundError{Entity: "Category"}
	}
	if err != nil {
		return models.Category{}, s.dependency("fetch category", err, "categoryId", id)
	}
	category.ProductCount = len(category.Products)
	return category, nil
}

func (s *CatalogService) checkCategoryInput(in models.CategoryInput) error {
	if err := s.validate.Struct(in); err != nil {
		return utils.NewValidationError("%s", utils.DescribeFieldErrors(utils.FieldErrors(err)))
	}
	return nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, in models.CategoryInput) (models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Category{}, utils.NewValidationError("Category name is required")
	}
	if err := s.checkCategoryInput(in); err != nil {
		return models.Category{}, err
	}

	slug := utils.Slugify(in.Slug)
	if slug == "" {
		slug = utils.Slugify(name)
	}

	exists, err := s.store.CategoryExists(ctx, name, slug, primitive.NilObjectID)
	if err != nil {
		return models.Category{}, s.dependency("check category", err)
	}
	if exists {
		return models.Category{}, utils.NewValidationError(msgDuplicateCategory)
	}

	at := s.now()
	category := models.Category{
		Name:      name,
		Slug:      slug,
		Products:  []primitive.ObjectID{},
		Status:    models.CategoryStatusActive,
		CreatedAt: at,
		UpdatedAt: at,
	}
	if in.Description != nil {
		category.Description = strings.TrimSpace(*in.Description)
	}
	if in.Image != nil {
		category.Image = *in.Image
	}
	if in.Status != "" {
		category.Status = in.Status
	}

	err = s.store.InsertCategory(ctx, &category)
	if errors.Is(err, repository.ErrDuplicate) {
		return models.Category{}, utils.NewValidationError(msgDuplicateCategory)
	}
	if err != nil {
		return models.Category{}, s.dependency("create category", err)
	}
	s.log.Info("category created", "categoryId", category.ID.Hex(), "slug", category.Slug)
	return category, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id string, in models.CategoryInput) (models.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return models.Category{}, err
	}
	if err := s.checkCategoryInput(in); err != nil {
		return models.Category{}, err
	}

	name := strings.TrimSpace(in.Name)
	slug := utils.Slugify(in.Slug)
	if name != "" && slug == "" {
		slug = utils.Slugify(name)
	}

	if name != "" || slug != "" {
		exists, err := s.store.CategoryExists(ctx, name, slug, category.ID)
		if err != nil {
			return models.Category{}, s.dependency("check category", err, "categoryId", id)
		}
		if exists {
			return models.Category{}, utils.NewValidationError(msgDuplicateCategory)
		}
	}

	if name != "" {
		category.Name = name
	}
	if slug != "" {
		category.Slug = slug
	}
	if in.Description != nil {
		category.Description = strings.TrimSpace(*in.Description)
	}
	if in.Image != nil {
		category.Image = *in.Image
	}
	if in.Status != "" {
		category.Status = in.Status
	}
	category.UpdatedAt = s.now()

	return category, s.saveCategory(ctx, category)
}

func (s *CatalogService) saveCategory(ctx context.Context, category models.Category) error {
	err := s.store.ReplaceCategory(ctx, category)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return utils.NewValidationError(msgDuplicateCategory)
	case errors.Is(err, repository.ErrNotFound):
		return &utils.NotFoundError{Entity: "Category"}
	case err != nil:
		return s.dependency("update category", err, "categoryId", category.ID.Hex())
	}
	return nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	oid, err := parseCategoryID(id)
	if err != nil {
		return err
	}
	err = s.store.DeleteCategory(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return &utils.NotFoundError{Entity: "Category"}
	}
	if err != nil {
		return s.dependency("delete category", err, "categoryId", id)
	}
	return nil
}

func (s *CatalogService) categoryProducts(ctx context.Context, category models.Category) (models.CategoryProducts, error) {
	result := models.CategoryProducts{
		Category:     models.CategorySummary{ID: category.ID, Name: category.Name, Slug: category.Slug},
		Products:     []models.Product{},
		ProductCount: len(category.Products),
	}
	if len(category.Products) == 0 {
		return result, nil
	}

	products, err := s.store.ListProducts(ctx, repository.ProductQuery{IDs: category.Products}, 0)
	if err != nil {
		return models.CategoryProducts{}, s.dependency("fetch category products", err, "categoryId", category.ID.Hex())
	}
	result.Products = products
	return result, nil
}

func (s *CatalogService) CategoryProducts(ctx context.Context, id string) (models.CategoryProducts, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return models.CategoryProducts{}, err
	}
	return s.categoryProducts(ctx, category)
}

// validObjectIDs keeps the well-formed ids, trimmed and deduplicated.
func validObjectIDs(ids []string) []primitive.ObjectID {
	var valid []primitive.ObjectID
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
		if err == nil && !slices.Contains(valid, oid) {
			valid = append(valid, oid)
		}
	}
	return valid
}

// AddCategoryProducts links existing products to a category. Every id must
// name a product; ids already linked are kept once.
func (s *CatalogService) AddCategoryProducts(ctx context.Context, id string, productIDs []string) (models.CategoryProducts, error) {
	if _, err := parseCategoryID(id); err != nil {
		return models.CategoryProducts{}, err
	}
	if len(productIDs) == 0 {
		return models.CategoryProducts{}, utils.NewValidationError("Product IDs array is required")
	}
	ids := validObjectIDs(productIDs)
	if len(ids) == 0 {
		return models.CategoryProducts{}, utils.NewValidationError("No valid product IDs provided")
	}

	found, err := s.store.CountProducts(ctx, repository.ProductQuery{IDs: ids})
	if err != nil {
		return models.CategoryProducts{}, s.dependency("check products", err)
	}
	if found != int64(len(ids)) {
		return models.CategoryProducts{}, &utils.NotFoundError{Entity: "Some products"}
	}

	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return models.CategoryProducts{}, err
	}
	for _, oid := range ids {
		if !slices.Contains(category.Products, oid) {
			category.Products = append(category.Products, oid)
		}
	}
	category.UpdatedAt = s.now()
	if err := s.saveCategory(ctx, category); err != nil {
		return models.CategoryProducts{}, err
	}
	return s.categoryProducts(ctx, category)
}

// RemoveCategoryProducts unlinks products from a category. Unknown ids are ignored.
func (s *CatalogService) RemoveCategoryProducts(ctx context.Context, id string, productIDs []string) (models.CategoryProducts, error) {
	if _, err := parseCategoryID(id); err != nil {
		return models.CategoryProducts{}, err
	}
	if productIDs == nil {
		return models.CategoryProducts{}, utils.NewValidationError("Product IDs are required")
	}

	var nonEmpty []string
	for _, pid := range productIDs {
		if strings.TrimSpace(pid) != "" {
			nonEmpty = append(nonEmpty, pid)
		}
	}
	if len(nonEmpty) == 0 {
		return models.CategoryProducts{}, utils.NewValidationError("No product IDs provided")
	}
	ids := validObjectIDs(nonEmpty)
	if len(ids) == 0 {
		return models.CategoryProducts{}, utils.NewValidationError("No valid product IDs provided")
	}

	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return models.CategoryProducts{}, err
	}
	category.Products = slices.DeleteFunc(category.Products, func(oid primitive.ObjectID) bool {
		return slices.Contains(ids, oid)
	})
	category.UpdatedAt = s.now()
	if err := s.saveCategory(ctx, category); err != nil {
		return models.CategoryProducts{}, err
	}
	return s.categoryProducts(ctx, category)
}
