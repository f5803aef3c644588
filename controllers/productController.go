package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Kariqs/tannaro-api/models"
	"github.com/Kariqs/tannaro-api/services"
	"github.com/Kariqs/tannaro-api/utils"
	"github.com/gin-gonic/gin"
)

// Product handlers
func (c *Controller) GetProducts(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.Query("limit"))

	products, err := c.Catalog.ListProducts(ctx.Request.Context(), services.ProductListParams{
		Admin:    ctx.Query("admin") == "true",
		Status:   ctx.Query("status"),
		Category: ctx.Query("category"),
		Featured: ctx.Query("featured") == "true",
		Limit:    limit,
	})
	if err != nil {
		c.respondWithError(ctx, err, "Failed to fetch products")
		return
	}
	sendSuccess(ctx, http.StatusOK, products, gin.H{"count": len(products)})
}

func (c *Controller) GetProduct(ctx *gin.Context) {
	product, err := c.Catalog.GetProduct(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		c.respondWithError(ctx, err, "Failed to fetch product")
		return
	}
	sendSuccess(ctx, http.StatusOK, product, nil)
}

func (c *Controller) CreateProduct(ctx *gin.Context) {
	var input models.ProductInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	product, err := c.Catalog.CreateProduct(ctx.Request.Context(), input)
	if err != nil {
		c.respondWithError(ctx, err, "Failed to create product")
		return
	}
	sendSuccess(ctx, http.StatusCreated, product, gin.H{"message": "Product created successfully"})
}

func (c *Controller) UpdateProduct(ctx *gin.Context) {
	var input models.ProductInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	product, err := c.Catalog.UpdateProduct(ctx.Request.Context(), ctx.Param("id"), input)
	if err != nil {
		c.respondWithError(ctx, err, "Failed to update product")
		return
	}
	sendSuccess(ctx, http.StatusOK, product, gin.H{"message": "Product updated successfully"})
}

func (c *Controller) DeleteProduct(ctx *gin.Context) {
	if err := c.Catalog.DeleteProduct(ctx.Request.Context(), ctx.Param("id")); err != nil {
		c.respondWithError(ctx, err, "Failed to delete product")
		return
	}
	sendSuccess(ctx, http.StatusOK, nil, gin.H{"message": "Product deleted successfully"})
}

// UploadProductImage stores one image from the multipart "file" field.
func (c *Controller) UploadProductImage(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "No file provided")
		return
	}
	if err := utils.ValidateImageUpload(file); err != nil {
		c.respondWithError(ctx, err, "Failed to upload file")
		return
	}

	f, err := file.Open()
	if err != nil {
		c.respondWithError(ctx, err, "Failed to upload file")
		return
	}
	defer f.Close()

	filename := utils.UniqueImageName(file.Filename)
	url, err := c.Images.Save(ctx.Request.Context(), filename, file.Header.Get("Content-Type"), f)
	if err != nil {
		c.respondWithError(ctx, err, "Failed to upload file")
		return
	}

	c.logger().Info("image uploaded", "filename", filename, "size", file.Size)
	sendSuccess(ctx, http.StatusOK, gin.H{"url": url, "filename": filename}, nil)
}

// Category handlers
func (c *Controller) GetCategories(ctx *gin.Context) {
	categories, err := c.Catalog.ListCategories(ctx.Request.Context(), ctx.Query("status"))
	if err != nil {
		c.respondWithError(ctx, err, "Failed to fetch categories")
		return
	}
	sendSuccess(ctx, http.StatusOK, categories, gin.H{"count": len(categories)})
}

func (c *Controller) GetCategory(ctx *gin.Context) {
	category, err := c.Catalog.GetCategory(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		c.respondWithError(ctx, err, "Failed to fetch category")
		return
	}
	sendSuccess(ctx, http.StatusOK, category, nil)
}

func (c *Controller) CreateCategory(ctx *gin.Context) {
	var input models.CategoryInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	category, err := c.Catalog.CreateCategory(ctx.Request.Context(), input)
	if err != nil {
		c.respondWithError(ctx, err, "Failed to create category")
		return
	}
	sendSuccess(ctx, http.StatusCreated, category, gin.H{"message": "Category created successfully"})
}

func (c *Controller) UpdateCategory(ctx *gin.Context) {
	var input models.CategoryInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	category, err := c.Catalog.UpdateCategory(ctx.Request.Context(), ctx.Param("id"), input)
	if err != nil {
		c.respondWithError(ctx, err, "Failed to update category")
		return
	}
	sendSuccess(ctx, http.StatusOK, category, gin.H{"message": "Category updated successfully"})
}

func (c *Controller) DeleteCategory(ctx *gin.Context) {
	if err := c.Catalog.DeleteCategory(ctx.Request.Context(), ctx.Param("id")); err != nil {
		c.respondWithError(ctx, err, "Failed to delete category")
		return
	}
	sendSuccess(ctx, http.StatusOK, nil, gin.H{"message": "Category deleted successfully"})
}

func (c *Controller) GetCategoryProducts(ctx *gin.Context) {
	result, err := c.Catalog.CategoryProducts(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		c.respondWithError(ctx, err, "Failed to fetch category products")
		return
	}
	sendSuccess(ctx, http.StatusOK, result, nil)
}

func (c *Controller) AddCategoryProducts(ctx *gin.Context) {
	var body struct {
		ProductIDs []string `json:"productIds"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	result, err := c.Catalog.AddCategoryProducts(ctx.Request.Context(), ctx.Param("id"), body.ProductIDs)
	if err != nil {
		c.respondWithError(ctx, err, "Failed to add products to category")
		return
	}
	sendSuccess(ctx, http.StatusOK, result, gin.H{"message": "Products added to category successfully"})
}

// RemoveCategoryProducts reads a comma separated productIds query parameter.
func (c *Controller) RemoveCategoryProducts(ctx *gin.Context) {
	var productIDs []string
	if raw, ok := ctx.GetQuery("productIds"); ok && raw != "" {
		productIDs = strings.Split(raw, ",")
	}

	result, err := c.Catalog.RemoveCategoryProducts(ctx.Request.Context(), ctx.Param("id"), productIDs)
	if err != nil {
		c.respondWithError(ctx, err, "Failed to remove products from category")
		return
	}
	sendSuccess(ctx, http.StatusOK, result, gin.H{"message": "Products removed from category successfully"})
}
