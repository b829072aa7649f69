package handlers

import (
	"net/http"

	"food-marketplace-api/middleware"
	"food-marketplace-api/models"
	"food-marketplace-api/scope"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ── Merchant management ─────────────────────────────────────────────

type CreateMerchantRequest struct {
	Name         string `json:"name" binding:"required"`
	MerchantType string `json:"merchant_type"`
	Description  string `json:"description"`
	City         string `json:"city" binding:"required"`
}

// CreateMerchant lets a vendor create a merchant; it stays pending
// until an admin approves it
func (e *Env) CreateMerchant(c *gin.Context) {
	actor := middleware.Actor(c)
	var req CreateMerchantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	merchant := models.Merchant{
		UserID:       actor.ID,
		Name:         req.Name,
		MerchantType: req.MerchantType,
		Description:  req.Description,
		City:         req.City,
		IsOpen:       true,
		Status:       models.MerchantPending,
	}
	if err := e.DB.Create(&merchant).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create merchant"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Merchant created, pending approval", "merchant": merchant})
}

// GetMyMerchants lists the merchants owned by the logged-in vendor
func (e *Env) GetMyMerchants(c *gin.Context) {
	actor := middleware.Actor(c)
	var merchants []models.Merchant
	scope.Merchants(e.DB, actor).Preload("Categories").Find(&merchants)
	c.JSON(http.StatusOK, gin.H{"count": len(merchants), "merchants": merchants})
}

// UpdateMerchant updates merchant details (only by the owner)
func (e *Env) UpdateMerchant(c *gin.Context) {
	actor := middleware.Actor(c)
	var merchant models.Merchant
	if err := e.DB.First(&merchant, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Merchant not found"})
		return
	}
	if err := scope.AuthorizeMutation(e.DB, actor, &merchant); err != nil {
		fail(c, err)
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// Only allow safe fields; status is the admin's to change
	allowed := map[string]bool{"name": true, "merchant_type": true, "description": true, "city": true, "is_open": true}
	update := map[string]interface{}{}
	for k, v := range req {
		if allowed[k] {
			update[k] = v
		}
	}
	e.DB.Model(&merchant).Updates(update)
	c.JSON(http.StatusOK, gin.H{"message": "Merchant updated", "merchant": merchant})
}

// ── Catalog management ──────────────────────────────────────────────

type CreateCategoryRequest struct {
	MerchantID  uint   `json:"merchant_id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateCategory adds a category to one of the vendor's merchants
func (e *Env) CreateCategory(c *gin.Context) {
	actor := middleware.Actor(c)
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var merchant models.Merchant
	if err := e.DB.First(&merchant, req.MerchantID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Merchant not found"})
		return
	}
	if err := scope.AuthorizeMutation(e.DB, actor, &merchant); err != nil {
		fail(c, err)
		return
	}

	category := models.Category{
		MerchantID:  merchant.ID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := e.DB.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Category created", "category": category})
}

type CreateProductRequest struct {
	CategoryID  uint            `json:"category_id" binding:"required"`
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Unit        string          `json:"unit"`
	Stock       int             `json:"stock"`
}

// CreateProduct adds a product under one of the vendor's categories
func (e *Env) CreateProduct(c *gin.Context) {
	actor := middleware.Actor(c)
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price must not be negative"})
		return
	}

	var category models.Category
	if err := e.DB.First(&category, req.CategoryID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	if err := scope.AuthorizeMutation(e.DB, actor, &category); err != nil {
		fail(c, err)
		return
	}

	unit := req.Unit
	if unit == "" {
		unit = "pcs"
	}
	product := models.Product{
		CategoryID:  category.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Unit:        unit,
		Stock:       req.Stock,
		IsAvailable: true,
	}
	if err := e.DB.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Product created", "product": product})
}

// UpdateProduct updates a product (only by the owner)
func (e *Env) UpdateProduct(c *gin.Context) {
	actor := middleware.Actor(c)
	var product models.Product
	if err := e.DB.First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err := scope.AuthorizeMutation(e.DB, actor, &product); err != nil {
		fail(c, err)
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	allowed := map[string]bool{"name": true, "description": true, "price": true, "unit": true, "stock": true, "is_available": true}
	update := map[string]interface{}{}
	for k, v := range req {
		if allowed[k] {
			update[k] = v
		}
	}
	e.DB.Model(&product).Updates(update)
	c.JSON(http.StatusOK, gin.H{"message": "Product updated", "product": product})
}

// DeleteProduct removes a product unless an order item still
// references it
func (e *Env) DeleteProduct(c *gin.Context) {
	actor := middleware.Actor(c)
	var product models.Product
	if err := e.DB.First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err := scope.AuthorizeMutation(e.DB, actor, &product); err != nil {
		fail(c, err)
		return
	}

	var refs int64
	e.DB.Model(&models.OrderItem{}).Where("product_id = ?", product.ID).Count(&refs)
	if refs > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product is referenced by existing orders and cannot be deleted"})
		return
	}

	e.DB.Delete(&product)
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
