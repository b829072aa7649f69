package handlers

import (
	"net/http"

	"food-marketplace-api/middleware"
	"food-marketplace-api/models"
	"food-marketplace-api/scope"
	"food-marketplace-api/statemachine"

	"github.com/gin-gonic/gin"
)

// ListMerchants returns the merchants visible to the caller (public:
// approved/active only; vendors additionally see their own)
func (e *Env) ListMerchants(c *gin.Context) {
	actor := middleware.Actor(c)
	query := scope.Merchants(e.DB, actor)

	if city := c.Query("city"); city != "" {
		query = query.Where("merchants.city LIKE ?", "%"+city+"%")
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("merchants.name LIKE ?", "%"+search+"%")
	}
	if open := c.Query("open"); open == "true" {
		query = query.Where("merchants.is_open = ?", true)
	}

	var merchants []models.Merchant
	query.Find(&merchants)
	c.JSON(http.StatusOK, gin.H{
		"count":     len(merchants),
		"merchants": merchants,
	})
}

// GetMerchant returns a single merchant if visible to the caller
func (e *Env) GetMerchant(c *gin.Context) {
	actor := middleware.Actor(c)
	var merchant models.Merchant
	if err := scope.Merchants(e.DB, actor).
		Preload("Categories.Products").
		First(&merchant, "merchants.id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Merchant not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"merchant": merchant})
}

// ListProducts returns a merchant's products visible to the caller
func (e *Env) ListProducts(c *gin.Context) {
	actor := middleware.Actor(c)

	var merchant models.Merchant
	if err := scope.Merchants(e.DB, actor).
		First(&merchant, "merchants.id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Merchant not found"})
		return
	}

	query := scope.Products(e.DB, actor).Where("merchants.id = ?", merchant.ID)
	if category := c.Query("category"); category != "" {
		query = query.Where("categories.name = ?", category)
	}

	var products []models.Product
	query.Find(&products)
	c.JSON(http.StatusOK, gin.H{
		"merchant": merchant.Name,
		"count":    len(products),
		"products": products,
	})
}

// GetStateMachineInfo returns the full order state machine for
// informational purposes
func (e *Env) GetStateMachineInfo(c *gin.Context) {
	var info []gin.H
	for _, t := range statemachine.AllTransitions() {
		info = append(info, gin.H{"from": t.From, "to": t.To, "role": t.Role})
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   info,
		"terminal_states": []models.OrderStatus{models.StatusDelivered, models.StatusCancelled},
		"description":     "Marketplace Order Lifecycle State Machine",
	})
}
