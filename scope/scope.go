// Package scope computes per-role record visibility and authorizes
// mutations. Scoping and mutation authorization share one ownership
// resolution so they can never disagree, and a scope denial is always
// reported as NotFound so out-of-scope records leak no existence.
package scope

import (
	"food-marketplace-api/apperr"
	"food-marketplace-api/models"

	"gorm.io/gorm"
)

// Actor is the authenticated identity performing a request. The zero
// value is the anonymous actor.
type Actor struct {
	ID   uint
	Role models.UserRole
}

func (a Actor) Anonymous() bool {
	return a.ID == 0
}

// ResolveOwner walks the ownership chain of a catalog entity or order
// up to its owning vendor user ID.
func ResolveOwner(db *gorm.DB, entity any) (uint, error) {
	switch e := entity.(type) {
	case *models.Merchant:
		return e.UserID, nil
	case *models.Category:
		var merchant models.Merchant
		if err := db.First(&merchant, e.MerchantID).Error; err != nil {
			return 0, apperr.New(apperr.NotFound, "merchant not found")
		}
		return merchant.UserID, nil
	case *models.Product:
		var category models.Category
		if err := db.First(&category, e.CategoryID).Error; err != nil {
			return 0, apperr.New(apperr.NotFound, "category not found")
		}
		return ResolveOwner(db, &category)
	case *models.Order:
		var merchant models.Merchant
		if err := db.First(&merchant, e.MerchantID).Error; err != nil {
			return 0, apperr.New(apperr.NotFound, "merchant not found")
		}
		return merchant.UserID, nil
	}
	return 0, apperr.Newf(apperr.Validation, "cannot resolve owner of %T", entity)
}

// Orders narrows an order query to what actor may see: admins see
// everything, vendors their merchants' orders, customers their own,
// couriers their assigned deliveries, anyone else nothing.
func Orders(db *gorm.DB, actor Actor) *gorm.DB {
	switch actor.Role {
	case models.RoleAdmin:
		return db.Model(&models.Order{})
	case models.RoleVendor:
		return db.Model(&models.Order{}).
			Joins("JOIN merchants ON merchants.id = orders.merchant_id").
			Where("merchants.user_id = ?", actor.ID)
	case models.RoleCustomer:
		return db.Model(&models.Order{}).Where("orders.customer_id = ?", actor.ID)
	case models.RoleCourier:
		return db.Model(&models.Order{}).Where("orders.courier_id = ?", actor.ID)
	}
	return db.Model(&models.Order{}).Where("1 = 0")
}

// Merchants narrows a merchant query: admins see all, vendors their
// own regardless of status, everyone else only approved or active
// merchants.
func Merchants(db *gorm.DB, actor Actor) *gorm.DB {
	switch actor.Role {
	case models.RoleAdmin:
		return db.Model(&models.Merchant{})
	case models.RoleVendor:
		return db.Model(&models.Merchant{}).Where("merchants.user_id = ?", actor.ID)
	}
	return db.Model(&models.Merchant{}).
		Where("merchants.status IN ?", []models.MerchantStatus{models.MerchantApproved, models.MerchantActive})
}

// Products narrows a product query through the category/merchant
// chain. Non-owners only see available products of visible merchants.
func Products(db *gorm.DB, actor Actor) *gorm.DB {
	base := db.Model(&models.Product{}).
		Joins("JOIN categories ON categories.id = products.category_id").
		Joins("JOIN merchants ON merchants.id = categories.merchant_id")
	switch actor.Role {
	case models.RoleAdmin:
		return base
	case models.RoleVendor:
		return base.Where("merchants.user_id = ?", actor.ID)
	}
	return base.
		Where("merchants.status IN ?", []models.MerchantStatus{models.MerchantApproved, models.MerchantActive}).
		Where("products.is_available = ?", true)
}

// AuthorizeMutation allows admins, the owning vendor of a catalog
// entity or order, and the enrolled customer or assigned courier of an
// order. Any other actor gets NotFound, never Forbidden.
func AuthorizeMutation(db *gorm.DB, actor Actor, entity any) error {
	if actor.Anonymous() {
		return apperr.New(apperr.Unauthenticated, "authentication required")
	}
	if actor.Role == models.RoleAdmin {
		return nil
	}
	if order, ok := entity.(*models.Order); ok {
		if actor.Role == models.RoleCustomer && order.CustomerID == actor.ID {
			return nil
		}
		if actor.Role == models.RoleCourier && order.CourierID != nil && *order.CourierID == actor.ID {
			return nil
		}
	}
	owner, err := ResolveOwner(db, entity)
	if err != nil {
		return err
	}
	if actor.Role == models.RoleVendor && owner == actor.ID {
		return nil
	}
	return apperr.New(apperr.NotFound, "record not found")
}
