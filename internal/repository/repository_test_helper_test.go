package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/rishavthakurer-maker/orderwala-sub001/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

func createTestVendor(t *testing.T, db *gorm.DB) *models.Vendor {
	t.Helper()
	vendor := &models.Vendor{OwnerUserID: 900, Name: "Fresh Mart", Latitude: 19.07, Longitude: 72.87, IsActive: true}
	if err := db.Create(vendor).Error; err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}
	return vendor
}

func createTestProduct(t *testing.T, db *gorm.DB, vendorID uint, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		VendorID: vendorID,
		Name:     "Tomato",
		Unit:     "kg",
		Price:    models.NewMoneyFromInt(50),
		Stock:    stock,
		IsActive: true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func createTestOrder(t *testing.T, db *gorm.DB, vendorID uint, status models.OrderStatus) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNo:       fmt.Sprintf("OW-%s-%s", strings.ReplaceAll(t.Name(), "/", "_"), status),
		CustomerID:    7,
		VendorID:      vendorID,
		Subtotal:      models.NewMoneyFromInt(100),
		DeliveryFee:   models.NewMoneyFromInt(40),
		Total:         models.NewMoneyFromInt(140),
		Status:        status,
		PaymentMethod: "cod",
		PaymentStatus: models.PaymentStatusPending,
		Items: []models.OrderItem{
			{ProductID: 1, Name: "Tomato", UnitPrice: models.NewMoneyFromInt(50), Quantity: 2, LineTotal: models.NewMoneyFromInt(100)},
		},
		StatusHistory: []models.OrderStatusHistory{
			{Status: status, ActorRole: models.ActorCustomer},
		},
	}
	if err := NewOrderRepository(db).Create(order); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}
