package provider

import (
	"fmt"
	"time"

	"github.com/rishavthakurer-maker/orderwala-sub001/internal/authz"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/cache"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/config"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/logger"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/queue"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/repository"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/service"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	QueueClient *queue.Client

	// Repositories
	OrderRepo     repository.OrderRepository
	ProductRepo   repository.ProductRepository
	VendorRepo    repository.VendorRepository
	PromoCodeRepo repository.PromoCodeRepository
	ReviewRepo    repository.ReviewRepository
	CounterRepo   repository.CounterRepository

	// Services
	AuthzService        *authz.Service
	TokenService        *service.TokenService
	NotificationService *service.NotificationService
	PromoService        *service.PromoService
	OrderService        *service.OrderService
	DeliveryService     *service.DeliveryService
	EarningsService     *service.EarningsService
	RatingService       *service.RatingService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config, db *gorm.DB) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		DB:          db,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	if err := c.initServices(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) initRepositories() {
	c.OrderRepo = repository.NewOrderRepository(c.DB)
	c.ProductRepo = repository.NewProductRepository(c.DB)
	c.VendorRepo = repository.NewVendorRepository(c.DB)
	c.PromoCodeRepo = repository.NewPromoCodeRepository(c.DB)
	c.ReviewRepo = repository.NewReviewRepository(c.DB)
	c.CounterRepo = repository.NewCounterRepository(c.DB)
}

func (c *Container) initServices() error {
	authzService, err := authz.NewService(c.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		return err
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		return err
	}

	c.TokenService = service.NewTokenService(c.Config.JWT)
	fallbackEarnings := decimal.NewFromFloat(c.Config.Delivery.FallbackEarnings)

	c.NotificationService = service.NewNotificationService(c.QueueClient, nil)
	c.PromoService = service.NewPromoService(c.PromoCodeRepo)
	c.OrderService = service.NewOrderService(service.OrderServiceOptions{
		OrderRepo:        c.OrderRepo,
		ProductRepo:      c.ProductRepo,
		VendorRepo:       c.VendorRepo,
		PromoRepo:        c.PromoCodeRepo,
		CounterRepo:      c.CounterRepo,
		QueueClient:      c.QueueClient,
		Notifier:         c.NotificationService,
		Pricing:          service.NewPricingPolicy(c.Config.Order),
		ConfirmTimeout:   time.Duration(c.Config.Order.VendorConfirmTimeoutMinutes) * time.Minute,
		FallbackEarnings: fallbackEarnings,
	})
	c.DeliveryService = service.NewDeliveryService(service.DeliveryServiceOptions{
		OrderRepo:        c.OrderRepo,
		Orders:           c.OrderService,
		Notifier:         c.NotificationService,
		FallbackEarnings: fallbackEarnings,
		DefaultRadiusKM:  c.Config.Delivery.DefaultRadiusKM,
		MaxRadiusKM:      c.Config.Delivery.MaxRadiusKM,
	})
	c.EarningsService = service.NewEarningsService(c.OrderRepo, seconds(c.Config.Delivery.EarningsCacheSeconds))
	c.RatingService = service.NewRatingService(c.OrderRepo, c.ReviewRepo, c.ProductRepo, c.VendorRepo, seconds(c.Config.Delivery.RatingCacheSeconds))
	return nil
}

// Close 释放队列与缓存连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
		}
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}

func seconds(value int) time.Duration {
	if value <= 0 {
		return 0
	}
	return time.Duration(value) * time.Second
}
