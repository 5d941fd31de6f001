package main

import (
	"errors"
	"time"

	"github.com/rishavthakurer-maker/orderwala-sub001/internal/config"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/logger"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/models"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/service"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type seedProduct struct {
	Name  string
	Unit  string
	Price int64
	Stock int
}

type seedVendor struct {
	OwnerUserID uint
	Name        string
	Address     string
	Latitude    float64
	Longitude   float64
	Products    []seedProduct
}

var vendors = []seedVendor{
	{
		OwnerUserID: 500,
		Name:        "Fresh Mart",
		Address:     "14 Linking Road, Bandra West, Mumbai",
		Latitude:    19.0596,
		Longitude:   72.8295,
		Products: []seedProduct{
			{Name: "Alphonso Mango", Unit: "kg", Price: 320, Stock: 40},
			{Name: "Tomato", Unit: "kg", Price: 40, Stock: 120},
			{Name: "Toned Milk", Unit: "pcs", Price: 27, Stock: 80},
		},
	},
	{
		OwnerUserID: 501,
		Name:        "Green Basket",
		Address:     "Hill Road, Bandra West, Mumbai",
		Latitude:    19.0544,
		Longitude:   72.8347,
		Products: []seedProduct{
			{Name: "Basmati Rice", Unit: "kg", Price: 140, Stock: 60},
			{Name: "Whole Wheat Atta", Unit: "kg", Price: 55, Stock: 90},
		},
	},
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	log := logger.S()

	db, err := models.OpenDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, cfg.Database.Debug)
	if err != nil {
		log.Fatalw("seed_database_open_failed", "error", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalw("seed_database_migrate_failed", "error", err)
	}

	firstVendorID := uint(0)
	for _, item := range vendors {
		vendor, err := ensureVendor(db, item)
		if err != nil {
			log.Errorw("seed_vendor_failed", "name", item.Name, "error", err)
			continue
		}
		if firstVendorID == 0 {
			firstVendorID = vendor.ID
		}
		for _, product := range item.Products {
			if err := ensureProduct(db, vendor.ID, product); err != nil {
				log.Errorw("seed_product_failed", "vendor", vendor.Name, "product", product.Name, "error", err)
			}
		}
		log.Infow("seed_vendor_ready", "vendor_id", vendor.ID, "name", vendor.Name)
	}

	if err := ensurePromo(db); err != nil {
		log.Errorw("seed_promo_failed", "error", err)
	}

	// 本地联调用的演示令牌
	tokens := service.NewTokenService(cfg.JWT)
	demo := []service.Actor{
		{UserID: 7, Role: models.ActorCustomer},
		{UserID: 500, Role: models.ActorVendor, VendorID: firstVendorID},
		{UserID: 21, Role: models.ActorDelivery},
		{UserID: 1, Role: models.ActorAdmin},
	}
	for _, actor := range demo {
		token, expiresAt, err := tokens.Generate(actor)
		if err != nil {
			log.Errorw("seed_token_failed", "role", actor.Role, "user_id", actor.UserID, "error", err)
			continue
		}
		log.Infow("seed_demo_token", "role", actor.Role, "user_id", actor.UserID, "expires_at", expiresAt, "token", token)
	}
}

func ensureVendor(db *gorm.DB, item seedVendor) (*models.Vendor, error) {
	var existing models.Vendor
	err := db.Where("name = ?", item.Name).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	vendor := &models.Vendor{
		OwnerUserID: item.OwnerUserID,
		Name:        item.Name,
		Address:     item.Address,
		Latitude:    item.Latitude,
		Longitude:   item.Longitude,
		IsActive:    true,
	}
	if err := db.Create(vendor).Error; err != nil {
		return nil, err
	}
	return vendor, nil
}

func ensureProduct(db *gorm.DB, vendorID uint, item seedProduct) error {
	var count int64
	if err := db.Model(&models.Product{}).Where("vendor_id = ? AND name = ?", vendorID, item.Name).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return db.Create(&models.Product{
		VendorID: vendorID,
		Name:     item.Name,
		Unit:     item.Unit,
		Price:    models.NewMoneyFromInt(item.Price),
		Stock:    item.Stock,
		IsActive: true,
	}).Error
}

func ensurePromo(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.PromoCode{}).Where("code = ?", "SAVE10").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	validUntil := time.Now().AddDate(0, 3, 0)
	return db.Create(&models.PromoCode{
		Code:           "SAVE10",
		DiscountType:   models.DiscountTypePercentage,
		DiscountValue:  models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		MinOrderAmount: models.NewMoneyFromInt(100),
		MaxDiscount:    models.NewMoneyFromInt(50),
		UsageLimit:     500,
		ValidUntil:     &validUntil,
		IsActive:       true,
	}).Error
}
