package handlers

import (
	"net/http"

	"food-marketplace-api/apperr"
	"food-marketplace-api/config"
	"food-marketplace-api/notifications"
	"food-marketplace-api/orders"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Env carries the dependencies every handler needs.
type Env struct {
	DB            *gorm.DB
	Cfg           *config.Config
	Log           *zap.Logger
	Orders        *orders.Service
	Notifications *notifications.Service
}

func New(db *gorm.DB, cfg *config.Config, log *zap.Logger) *Env {
	notifier := notifications.NewService(db, log)
	return &Env{
		DB:            db,
		Cfg:           cfg,
		Log:           log,
		Orders:        orders.NewService(db, log, notifier),
		Notifications: notifier,
	}
}

// fail maps a service error onto the HTTP response.
func fail(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.JSON(status, gin.H{"error": msg})
}
