package scope

import (
	"testing"

	"food-marketplace-api/apperr"
	"food-marketplace-api/config"
	"food-marketplace-api/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db))
	return db
}

type fixture struct {
	admin, vendor, otherVendor, customer, otherCustomer, courier models.User

	merchant     models.Merchant // approved, owned by vendor
	hiddenShop   models.Merchant // pending, owned by otherVendor
	category     models.Category
	product      models.Product
	offSaleItem  models.Product
	order        models.Order // customer's order at merchant, courier assigned
	foreignOrder models.Order // customer's order at hiddenShop, no courier
}

func seed(t *testing.T, db *gorm.DB) *fixture {
	t.Helper()
	f := &fixture{}

	users := map[*models.User]models.UserRole{
		&f.admin: models.RoleAdmin, &f.vendor: models.RoleVendor,
		&f.otherVendor: models.RoleVendor, &f.customer: models.RoleCustomer,
		&f.otherCustomer: models.RoleCustomer, &f.courier: models.RoleCourier,
	}
	i := 0
	for u, role := range users {
		u.Name = string(role)
		u.Email = string(role) + string(rune('a'+i)) + "@test.local"
		u.PasswordHash = "x"
		u.Role = role
		u.Status = models.UserActive
		require.NoError(t, db.Create(u).Error)
		i++
	}

	f.merchant = models.Merchant{
		UserID: f.vendor.ID, Name: "Vendor Shop", City: "Dubai",
		IsOpen: true, Status: models.MerchantApproved,
	}
	require.NoError(t, db.Create(&f.merchant).Error)

	f.hiddenShop = models.Merchant{
		UserID: f.otherVendor.ID, Name: "Hidden Shop", City: "Riyadh",
		IsOpen: true, Status: models.MerchantPending,
	}
	require.NoError(t, db.Create(&f.hiddenShop).Error)

	f.category = models.Category{MerchantID: f.merchant.ID, Name: "Mains"}
	require.NoError(t, db.Create(&f.category).Error)

	f.product = models.Product{
		CategoryID: f.category.ID, Name: "Shawarma",
		Price: decimal.RequireFromString("5.00"), IsAvailable: true,
	}
	require.NoError(t, db.Create(&f.product).Error)

	f.offSaleItem = models.Product{
		CategoryID: f.category.ID, Name: "Seasonal Special",
		Price: decimal.RequireFromString("9.00"), IsAvailable: false,
	}
	require.NoError(t, db.Create(&f.offSaleItem).Error)

	f.order = models.Order{
		CustomerID: f.customer.ID, MerchantID: f.merchant.ID,
		CourierID: &f.courier.ID, Status: models.StatusPending,
		Subtotal:        decimal.RequireFromString("10.00"),
		Fee:             decimal.RequireFromString("2.00"),
		Total:           decimal.RequireFromString("12.00"),
		DeliveryAddress: "somewhere",
	}
	require.NoError(t, db.Create(&f.order).Error)

	f.foreignOrder = models.Order{
		CustomerID: f.customer.ID, MerchantID: f.hiddenShop.ID,
		Status:          models.StatusPending,
		Subtotal:        decimal.RequireFromString("3.00"),
		Fee:             decimal.RequireFromString("1.00"),
		Total:           decimal.RequireFromString("4.00"),
		DeliveryAddress: "somewhere",
	}
	require.NoError(t, db.Create(&f.foreignOrder).Error)

	return f
}

func orderIDs(t *testing.T, q *gorm.DB) []uint {
	t.Helper()
	var out []models.Order
	require.NoError(t, q.Find(&out).Error)
	ids := make([]uint, 0, len(out))
	for _, o := range out {
		ids = append(ids, o.ID)
	}
	return ids
}

func TestResolveOwnerChain(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)

	owner, err := ResolveOwner(db, &f.merchant)
	require.NoError(t, err)
	assert.Equal(t, f.vendor.ID, owner)

	owner, err = ResolveOwner(db, &f.category)
	require.NoError(t, err)
	assert.Equal(t, f.vendor.ID, owner)

	owner, err = ResolveOwner(db, &f.product)
	require.NoError(t, err)
	assert.Equal(t, f.vendor.ID, owner)

	owner, err = ResolveOwner(db, &f.order)
	require.NoError(t, err)
	assert.Equal(t, f.vendor.ID, owner)

	_, err = ResolveOwner(db, "not an entity")
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestScopedOrdersPerRole(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)

	assert.ElementsMatch(t, []uint{f.order.ID, f.foreignOrder.ID},
		orderIDs(t, Orders(db, Actor{ID: f.admin.ID, Role: models.RoleAdmin})))

	assert.ElementsMatch(t, []uint{f.order.ID},
		orderIDs(t, Orders(db, Actor{ID: f.vendor.ID, Role: models.RoleVendor})))

	assert.ElementsMatch(t, []uint{f.order.ID, f.foreignOrder.ID},
		orderIDs(t, Orders(db, Actor{ID: f.customer.ID, Role: models.RoleCustomer})))

	assert.Empty(t,
		orderIDs(t, Orders(db, Actor{ID: f.otherCustomer.ID, Role: models.RoleCustomer})))

	assert.ElementsMatch(t, []uint{f.order.ID},
		orderIDs(t, Orders(db, Actor{ID: f.courier.ID, Role: models.RoleCourier})))

	// Anonymous and unknown roles see nothing
	assert.Empty(t, orderIDs(t, Orders(db, Actor{})))
}

func TestScopedCatalogVisibility(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)
	public := Actor{}

	// The query filter and the model predicate agree
	assert.True(t, f.merchant.PubliclyVisible())
	assert.False(t, f.hiddenShop.PubliclyVisible())

	var merchants []models.Merchant
	require.NoError(t, Merchants(db, public).Find(&merchants).Error)
	require.Len(t, merchants, 1)
	assert.Equal(t, f.merchant.ID, merchants[0].ID)
	assert.True(t, merchants[0].PubliclyVisible())

	// The pending shop's owner still sees it
	merchants = nil
	require.NoError(t, Merchants(db, Actor{ID: f.otherVendor.ID, Role: models.RoleVendor}).
		Find(&merchants).Error)
	require.Len(t, merchants, 1)
	assert.Equal(t, f.hiddenShop.ID, merchants[0].ID)

	// Public product view hides unavailable products
	var products []models.Product
	require.NoError(t, Products(db, public).Find(&products).Error)
	require.Len(t, products, 1)
	assert.Equal(t, f.product.ID, products[0].ID)

	// The owning vendor sees both
	products = nil
	require.NoError(t, Products(db, Actor{ID: f.vendor.ID, Role: models.RoleVendor}).
		Find(&products).Error)
	assert.Len(t, products, 2)
}

func TestAuthorizeMutation(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)

	admin := Actor{ID: f.admin.ID, Role: models.RoleAdmin}
	vendor := Actor{ID: f.vendor.ID, Role: models.RoleVendor}
	otherVendor := Actor{ID: f.otherVendor.ID, Role: models.RoleVendor}
	customer := Actor{ID: f.customer.ID, Role: models.RoleCustomer}
	otherCustomer := Actor{ID: f.otherCustomer.ID, Role: models.RoleCustomer}
	courier := Actor{ID: f.courier.ID, Role: models.RoleCourier}

	assert.NoError(t, AuthorizeMutation(db, admin, &f.product))
	assert.NoError(t, AuthorizeMutation(db, vendor, &f.product))
	assert.NoError(t, AuthorizeMutation(db, vendor, &f.order))
	assert.NoError(t, AuthorizeMutation(db, customer, &f.order))
	assert.NoError(t, AuthorizeMutation(db, courier, &f.order))

	// Denials are reported as NotFound, never Forbidden
	err := AuthorizeMutation(db, otherVendor, &f.product)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
	err = AuthorizeMutation(db, otherCustomer, &f.order)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))

	err = AuthorizeMutation(db, Actor{}, &f.order)
	assert.Equal(t, apperr.Unauthenticated, apperr.KindOf(err))
}

// Scoping and mutation authorization must agree: an actor can mutate
// every order their scope returns.
func TestScopeAndAuthorizationAgree(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)

	actors := []Actor{
		{ID: f.vendor.ID, Role: models.RoleVendor},
		{ID: f.customer.ID, Role: models.RoleCustomer},
		{ID: f.courier.ID, Role: models.RoleCourier},
	}
	for _, actor := range actors {
		var visible []models.Order
		require.NoError(t, Orders(db, actor).Find(&visible).Error)
		for i := range visible {
			assert.NoError(t, AuthorizeMutation(db, actor, &visible[i]),
				"role %s sees order %d but may not mutate it", actor.Role, visible[i].ID)
		}
	}
}
