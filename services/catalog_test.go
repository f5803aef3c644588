package services

import (
	"context"
	"testing"

	"github.com/Kariqs/tannaro-api/models"
	"github.com/Kariqs/tannaro-api/repository"
	"github.com/Kariqs/tannaro-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newCatalog() *CatalogService {
	return NewCatalogService(repository.NewMemoryStore(), nil)
}

func productInput(name string, price float64, stock int) models.ProductInput {
	return models.ProductInput{
		Name:        ptr(name),
		Description: ptr(name + " description"),
		Price:       ptr(price),
		Stock:       ptr(stock),
	}
}

func TestCreateProduct(t *testing.T) {
	svc := newCatalog()
	ctx := context.Background()

	in := productInput("Panjabi", 1500, 10)
	in.SKU = ptr("PJ-1")
	product, err := svc.CreateProduct(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, models.ProductStatusActive, product.Status)
	assert.NotNil(t, product.Images)

	_, err = svc.CreateProduct(ctx, in)
	require.Error(t, err)
	assert.Equal(t, "Product with this SKU already exists", err.Error())

	_, err = svc.CreateProduct(ctx, models.ProductInput{Name: ptr("x")})
	assert.Equal(t, "Missing required fields: name, description, price, and stock are required", err.Error())

	_, err = svc.CreateProduct(ctx, productInput("Bad", -1, 1))
	assert.Equal(t, "Price and stock must be non-negative numbers", err.Error())

	bad := productInput("Bad", 1, 1)
	bad.Status = ptr("archived")
	_, err = svc.CreateProduct(ctx, bad)
	assert.True(t, utils.IsValidation(err))
}

func TestListProductsVisibility(t *testing.T) {
	svc := newCatalog()
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, productInput("Visible", 10, 1))
	require.NoError(t, err)
	hidden := productInput("Hidden", 10, 1)
	hidden.Status = ptr("inactive")
	_, err = svc.CreateProduct(ctx, hidden)
	require.NoError(t, err)
	featured := productInput("Star", 10, 1)
	featured.Featured = ptr(true)
	_, err = svc.CreateProduct(ctx, featured)
	require.NoError(t, err)

	public, err := svc.ListProducts(ctx, ProductListParams{})
	require.NoError(t, err)
	assert.Len(t, public, 2)

	admin, err := svc.ListProducts(ctx, ProductListParams{Admin: true})
	require.NoError(t, err)
	assert.Len(t, admin, 3)

	inactive, err := svc.ListProducts(ctx, ProductListParams{Admin: true, Status: "inactive"})
	require.NoError(t, err)
	require.Len(t, inactive, 1)
	assert.Equal(t, "Hidden", inactive[0].Name)

	stars, err := svc.ListProducts(ctx, ProductListParams{Featured: true})
	require.NoError(t, err)
	require.Len(t, stars, 1)

	one, err := svc.ListProducts(ctx, ProductListParams{Admin: true, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, one, 1)
}

func TestUpdateAndDeleteProduct(t *testing.T) {
	svc := newCatalog()
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, productInput("Cap", 250, 3))
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(ctx, product.ID.Hex(), models.ProductInput{Stock: ptr(0), CompareAtPrice: ptr(300.0)})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Stock)
	assert.Equal(t, "Cap", updated.Name)
	require.NotNil(t, updated.CompareAtPrice)

	_, err = svc.UpdateProduct(ctx, product.ID.Hex(), models.ProductInput{Price: ptr(-5.0)})
	assert.Equal(t, "Price must be a non-negative number", err.Error())
	_, err = svc.UpdateProduct(ctx, product.ID.Hex(), models.ProductInput{Stock: ptr(-5)})
	assert.Equal(t, "Stock must be a non-negative number", err.Error())

	_, err = svc.GetProduct(ctx, "nope")
	assert.True(t, utils.IsNotFound(err))

	require.NoError(t, svc.DeleteProduct(ctx, product.ID.Hex()))
	assert.True(t, utils.IsNotFound(svc.DeleteProduct(ctx, product.ID.Hex())))
}

func TestCategories(t *testing.T) {
	svc := newCatalog()
	ctx := context.Background()

	men, err := svc.CreateCategory(ctx, models.CategoryInput{Name: "  Men's Wear  "})
	require.NoError(t, err)
	assert.Equal(t, "men-s-wear", men.Slug)
	assert.Equal(t, models.CategoryStatusActive, men.Status)

	_, err = svc.CreateCategory(ctx, models.CategoryInput{Name: "Other", Slug: "Men's Wear"})
	assert.Equal(t, "Category with this name or slug already exists", err.Error())

	_, err = svc.CreateCategory(ctx, models.CategoryInput{})
	assert.Equal(t, "Category name is required", err.Error())

	kids, err := svc.CreateCategory(ctx, models.CategoryInput{Name: "Kids", Status: "inactive"})
	require.NoError(t, err)

	_, err = svc.UpdateCategory(ctx, kids.ID.Hex(), models.CategoryInput{Name: "Men's Wear"})
	assert.Equal(t, "Category with this name or slug already exists", err.Error())

	renamed, err := svc.UpdateCategory(ctx, kids.ID.Hex(), models.CategoryInput{Name: "Children", Description: ptr("Ages 3-12")})
	require.NoError(t, err)
	assert.Equal(t, "children", renamed.Slug)
	assert.Equal(t, "Ages 3-12", renamed.Description)

	active, err := svc.ListCategories(ctx, models.CategoryStatusActive)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	_, err = svc.GetCategory(ctx, "bad")
	assert.Equal(t, "Invalid category ID", err.Error())
	assert.True(t, utils.IsValidation(err))

	_, err = svc.GetCategory(ctx, primitive.NewObjectID().Hex())
	assert.True(t, utils.IsNotFound(err))

	require.NoError(t, svc.DeleteCategory(ctx, kids.ID.Hex()))
	assert.True(t, utils.IsNotFound(svc.DeleteCategory(ctx, kids.ID.Hex())))
}

func TestCategoryProducts(t *testing.T) {
	svc := newCatalog()
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, models.CategoryInput{Name: "Men"})
	require.NoError(t, err)
	shirt, err := svc.CreateProduct(ctx, productInput("Shirt", 900, 2))
	require.NoError(t, err)
	hat, err := svc.CreateProduct(ctx, productInput("Cap", 200, 2))
	require.NoError(t, err)
	id := category.ID.Hex()

	_, err = svc.AddCategoryProducts(ctx, id, nil)
	assert.Equal(t, "Product IDs array is required", err.Error())
	_, err = svc.AddCategoryProducts(ctx, id, []string{"junk"})
	assert.Equal(t, "No valid product IDs provided", err.Error())
	_, err = svc.AddCategoryProducts(ctx, id, []string{shirt.ID.Hex(), primitive.NewObjectID().Hex()})
	assert.Equal(t, "Some products not found", err.Error())

	result, err := svc.AddCategoryProducts(ctx, id, []string{shirt.ID.Hex(), hat.ID.Hex(), shirt.ID.Hex()})
	require.NoError(t, err)
	assert.Equal(t, 2, result.ProductCount)
	assert.Len(t, result.Products, 2)

	again, err := svc.AddCategoryProducts(ctx, id, []string{hat.ID.Hex()})
	require.NoError(t, err)
	assert.Equal(t, 2, again.ProductCount, "already linked products are kept once")

	_, err = svc.RemoveCategoryProducts(ctx, id, nil)
	assert.Equal(t, "Product IDs are required", err.Error())
	_, err = svc.RemoveCategoryProducts(ctx, id, []string{" ", ""})
	assert.Equal(t, "No product IDs provided", err.Error())
	_, err = svc.RemoveCategoryProducts(ctx, id, []string{"junk"})
	assert.Equal(t, "No valid product IDs provided", err.Error())

	removed, err := svc.RemoveCategoryProducts(ctx, id, []string{shirt.ID.Hex()})
	require.NoError(t, err)
	assert.Equal(t, 1, removed.ProductCount)
	require.Len(t, removed.Products, 1)
	assert.Equal(t, "Cap", removed.Products[0].Name)

	listed, err := svc.CategoryProducts(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "men", listed.Category.Slug)
	assert.Len(t, listed.Products, 1)
}
