package handlers

import (
	"net/http"

	"food-marketplace-api/models"

	"github.com/gin-gonic/gin"
)

// AdminListUsers returns all users, optionally filtered by role
func (e *Env) AdminListUsers(c *gin.Context) {
	var users []models.User
	query := e.DB
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	query.Find(&users)
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}

// AdminListMerchants returns all merchants regardless of status
func (e *Env) AdminListMerchants(c *gin.Context) {
	var merchants []models.Merchant
	query := e.DB.Preload("User")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	query.Find(&merchants)
	c.JSON(http.StatusOK, gin.H{"count": len(merchants), "merchants": merchants})
}

// AdminApproveMerchant moves a pending merchant to approved
func (e *Env) AdminApproveMerchant(c *gin.Context) {
	var merchant models.Merchant
	if err := e.DB.First(&merchant, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Merchant not found"})
		return
	}
	if merchant.Status != models.MerchantPending {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Merchant is not pending approval"})
		return
	}
	e.DB.Model(&merchant).Update("status", models.MerchantApproved)
	c.JSON(http.StatusOK, gin.H{"message": "Merchant approved", "merchant_id": merchant.ID})
}
