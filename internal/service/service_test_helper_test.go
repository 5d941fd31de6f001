package service

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rishavthakurer-maker/orderwala-sub001/internal/models"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/queue"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// recordingNotifier 记录发布的通知
type recordingNotifier struct {
	mu     sync.Mutex
	events []queue.NotificationPayload
}

func (n *recordingNotifier) Publish(payload queue.NotificationPayload) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, payload)
	return nil
}

func (n *recordingNotifier) snapshot() []queue.NotificationPayload {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]queue.NotificationPayload, len(n.events))
	copy(out, n.events)
	return out
}

type testEnv struct {
	db          *gorm.DB
	orderRepo   *repository.GormOrderRepository
	productRepo *repository.GormProductRepository
	vendorRepo  *repository.GormVendorRepository
	promoRepo   *repository.GormPromoCodeRepository
	reviewRepo  *repository.GormReviewRepository
	notifier    *recordingNotifier
	orders      *OrderService
	delivery    *DeliveryService
	earnings    *EarningsService
	ratings     *RatingService
	promos      *PromoService
	vendor      *models.Vendor
	apple       *models.Product
	milk        *models.Product
}

func openServiceTestDB(t *testing.T) *gorm.DB {
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

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := openServiceTestDB(t)
	env := &testEnv{
		db:          db,
		orderRepo:   repository.NewOrderRepository(db),
		productRepo: repository.NewProductRepository(db),
		vendorRepo:  repository.NewVendorRepository(db),
		promoRepo:   repository.NewPromoCodeRepository(db),
		reviewRepo:  repository.NewReviewRepository(db),
		notifier:    &recordingNotifier{},
	}
	env.orders = NewOrderService(OrderServiceOptions{
		OrderRepo:   env.orderRepo,
		ProductRepo: env.productRepo,
		VendorRepo:  env.vendorRepo,
		PromoRepo:   env.promoRepo,
		CounterRepo: repository.NewCounterRepository(db),
		Notifier:    env.notifier,
		Pricing: PricingPolicy{
			DeliveryFee:           decimal.NewFromInt(40),
			FreeDeliveryThreshold: decimal.NewFromInt(199),
		},
		FallbackEarnings: decimal.NewFromInt(30),
	})
	env.delivery = NewDeliveryService(DeliveryServiceOptions{
		OrderRepo:        env.orderRepo,
		Orders:           env.orders,
		Notifier:         env.notifier,
		FallbackEarnings: decimal.NewFromInt(30),
		DefaultRadiusKM:  5,
		MaxRadiusKM:      25,
	})
	env.earnings = NewEarningsService(env.orderRepo, time.Minute)
	env.ratings = NewRatingService(env.orderRepo, env.reviewRepo, env.productRepo, env.vendorRepo, time.Minute)
	env.promos = NewPromoService(env.promoRepo)

	env.vendor = &models.Vendor{OwnerUserID: 500, Name: "Fresh Mart", Address: "Bandra West", Latitude: 19.0760, Longitude: 72.8777, IsActive: true}
	if err := db.Create(env.vendor).Error; err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}
	env.apple = env.createProduct(t, env.vendor.ID, "Apple", 100, 10)
	env.milk = env.createProduct(t, env.vendor.ID, "Milk", 50, 5)
	return env
}

func (env *testEnv) createProduct(t *testing.T, vendorID uint, name string, price int64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		VendorID: vendorID,
		Name:     name,
		Unit:     "pcs",
		Price:    models.NewMoneyFromInt(price),
		Stock:    stock,
		IsActive: true,
	}
	if err := env.db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func (env *testEnv) createPromo(t *testing.T, promo *models.PromoCode) *models.PromoCode {
	t.Helper()
	promo.IsActive = true
	if err := env.db.Create(promo).Error; err != nil {
		t.Fatalf("create promo failed: %v", err)
	}
	return promo
}

func (env *testEnv) stockOf(t *testing.T, productID uint) int {
	t.Helper()
	product, err := env.productRepo.GetByID(productID)
	if err != nil || product == nil {
		t.Fatalf("load product failed: %v", err)
	}
	return product.Stock
}

func customerActor(id uint) Actor {
	return Actor{UserID: id, Role: models.ActorCustomer}
}

func vendorActor(vendorID uint) Actor {
	return Actor{UserID: 500, Role: models.ActorVendor, VendorID: vendorID}
}

func partnerActor(id uint) Actor {
	return Actor{UserID: id, Role: models.ActorDelivery}
}

func adminActor() Actor {
	return Actor{UserID: 1, Role: models.ActorAdmin}
}

func defaultAddress() models.Address {
	return models.Address{Line: "12 Hill Road", City: "Mumbai", Pincode: "400050", Phone: "9800000000", Latitude: 19.0600, Longitude: 72.8300}
}

// placeOrder 下单 2 个苹果
func (env *testEnv) placeOrder(t *testing.T, customerID uint) *models.Order {
	t.Helper()
	order, err := env.orders.CreateOrder(CreateOrderInput{
		CustomerID:      customerID,
		VendorID:        env.vendor.ID,
		Items:           []CreateOrderItem{{ProductID: env.apple.ID, Quantity: 2}},
		PaymentMethod:   "cod",
		DeliveryAddress: defaultAddress(),
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

// advanceTo 由商家推进到目标状态（不超过 ready）
func (env *testEnv) advanceTo(t *testing.T, orderID uint, target models.OrderStatus) {
	t.Helper()
	path := []models.OrderStatus{models.OrderStatusConfirmed, models.OrderStatusPreparing, models.OrderStatusReady}
	for _, status := range path {
		if _, err := env.orders.Transition(vendorActor(env.vendor.ID), TransitionInput{OrderID: orderID, Status: status}); err != nil {
			t.Fatalf("transition to %s failed: %v", status, err)
		}
		if status == target {
			return
		}
	}
}

// deliverOrder 完整走完配送流程
func (env *testEnv) deliverOrder(t *testing.T, orderID, partnerID uint) *models.Order {
	t.Helper()
	env.advanceTo(t, orderID, models.OrderStatusReady)
	if _, err := env.delivery.Accept(partnerActor(partnerID), orderID); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	var last *models.Order
	for _, action := range []DeliveryAction{DeliveryActionPickup, DeliveryActionOnTheWay, DeliveryActionDelivered} {
		result, err := env.delivery.Advance(partnerActor(partnerID), orderID, action, "")
		if err != nil {
			t.Fatalf("advance %s failed: %v", action, err)
		}
		last = result.Order
	}
	return last
}
