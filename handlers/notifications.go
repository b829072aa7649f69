package handlers

import (
	"net/http"

	"food-marketplace-api/middleware"

	"github.com/gin-gonic/gin"
)

// ListNotifications returns the caller's notifications, newest first
func (e *Env) ListNotifications(c *gin.Context) {
	actor := middleware.Actor(c)
	list, err := e.Notifications.List(actor.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "notifications": list})
}

// UnreadCount returns how many of the caller's notifications are unread
func (e *Env) UnreadCount(c *gin.Context) {
	actor := middleware.Actor(c)
	count, err := e.Notifications.UnreadCount(actor.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// MarkAllRead flips is_read on all of the caller's unread notifications
func (e *Env) MarkAllRead(c *gin.Context) {
	actor := middleware.Actor(c)
	count, err := e.Notifications.MarkAllRead(actor.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked read", "affected": count})
}

// ClearAllNotifications deletes all of the caller's notifications
func (e *Env) ClearAllNotifications(c *gin.Context) {
	actor := middleware.Actor(c)
	count, err := e.Notifications.ClearAll(actor.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notifications cleared", "deleted": count})
}
