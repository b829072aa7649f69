package handlers

import (
	"net/http"
	"strconv"

	"food-marketplace-api/middleware"
	"food-marketplace-api/models"
	"food-marketplace-api/orders"
	"food-marketplace-api/statemachine"

	"github.com/gin-gonic/gin"
)

// CreateOrder places a new order (customer only)
func (e *Env) CreateOrder(c *gin.Context) {
	actor := middleware.Actor(c)
	var req orders.CreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := e.Orders.Create(actor, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// ListOrders returns the orders in the caller's scope
func (e *Env) ListOrders(c *gin.Context) {
	actor := middleware.Actor(c)
	list, err := e.Orders.List(actor)
	if err != nil {
		fail(c, err)
		return
	}

	// Dashboard summary: counts grouped by status
	summary := map[string]int{}
	for _, o := range list {
		summary[string(o.Status)]++
	}

	c.JSON(http.StatusOK, gin.H{
		"count":         len(list),
		"order_summary": summary,
		"orders":        list,
	})
}

// GetOrder returns a single order's full detail with history
func (e *Env) GetOrder(c *gin.Context) {
	actor := middleware.Actor(c)
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}
	order, err := e.Orders.Get(actor, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// UpdateOrderStatus applies a status transition. Which transitions the
// caller may perform depends on their role and enrollment on the
// order; customers can only cancel early.
func (e *Env) UpdateOrderStatus(c *gin.Context) {
	actor := middleware.Actor(c)
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, history, err := e.Orders.UpdateStatus(actor, id, req.Status)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":         "Order status updated",
		"order_id":        order.ID,
		"previous_status": history.PreviousStatus,
		"current_status":  order.Status,
		"valid_next":      statemachine.NextStatuses(order.Status),
	})
}

type AssignCourierRequest struct {
	CourierID uint `json:"courier_id" binding:"required"`
}

// AssignCourier sets the courier on an order (vendor or admin)
func (e *Env) AssignCourier(c *gin.Context) {
	actor := middleware.Actor(c)
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var req AssignCourierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := e.Orders.AssignCourier(actor, id, req.CourierID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "Courier assigned",
		"order_id":   order.ID,
		"courier_id": req.CourierID,
	})
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return uint(id), err
}
