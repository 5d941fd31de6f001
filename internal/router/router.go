package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rishavthakurer-maker/orderwala-sub001/internal/authz"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/cache"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/config"
	adminhandlers "github.com/rishavthakurer-maker/orderwala-sub001/internal/http/handlers/admin"
	deliveryhandlers "github.com/rishavthakurer-maker/orderwala-sub001/internal/http/handlers/delivery"
	publichandlers "github.com/rishavthakurer-maker/orderwala-sub001/internal/http/handlers/public"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/http/response"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/logger"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/metrics"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/provider"

	"github.com/gin-gonic/gin"
)

const apiPrefix = "/api/v1"

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	deliveryHandler := deliveryhandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "ow"
	}
	redisClient := cache.Client()
	orderCreateRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:order_create", redisPrefix),
		WindowSeconds: cfg.Security.RateLimit.OrderCreate.WindowSeconds,
		MaxRequests:   cfg.Security.RateLimit.OrderCreate.MaxRequests,
	}
	deliveryActionRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:delivery_action", redisPrefix),
		WindowSeconds: cfg.Security.RateLimit.DeliveryAction.WindowSeconds,
		MaxRequests:   cfg.Security.RateLimit.DeliveryAction.MaxRequests,
	}
	promoValidateRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:promo_validate", redisPrefix),
		WindowSeconds: cfg.Security.RateLimit.PromoValidate.WindowSeconds,
		MaxRequests:   cfg.Security.RateLimit.PromoValidate.MaxRequests,
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	if cfg.Metrics.Enabled {
		r.Use(MetricsMiddleware())
		metricsPath := strings.TrimSpace(cfg.Metrics.Path)
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
		r.GET(metricsPath, gin.WrapH(metrics.Handler()))
	}

	apiV1 := r.Group(apiPrefix)
	apiV1.Use(ActorAuthMiddleware(c.TokenService), RBACMiddleware(c.AuthzService))
	{
		// 订单（顾客 / 商家 / 骑手共用，按身份收敛）
		apiV1.POST("/orders/preview", publicHandler.PreviewOrder)
		apiV1.POST("/orders", RateLimitMiddleware(redisClient, orderCreateRule, KeyByActor), publicHandler.CreateOrder)
		apiV1.GET("/orders", publicHandler.ListOrders)
		apiV1.GET("/orders/:id", publicHandler.GetOrder)
		apiV1.GET("/orders/no/:order_no", publicHandler.GetOrderByOrderNo)
		apiV1.PATCH("/orders/:id", publicHandler.UpdateOrderStatus)
		apiV1.POST("/orders/:id/cancel", publicHandler.CancelOrder)
		apiV1.POST("/orders/:id/rating", publicHandler.RateOrder)
		apiV1.POST("/promo-codes/validate", RateLimitMiddleware(redisClient, promoValidateRule, KeyByIP), publicHandler.ValidatePromo)

		// 骑手
		delivery := apiV1.Group("/delivery")
		{
			delivery.GET("/orders/nearby", deliveryHandler.NearbyOrders)
			delivery.GET("/orders", deliveryHandler.ListOrders)
			delivery.POST("/actions", RateLimitMiddleware(redisClient, deliveryActionRule, KeyByActor), deliveryHandler.PerformAction)
			delivery.GET("/earnings", deliveryHandler.Earnings)
			delivery.GET("/earnings/daily", deliveryHandler.DailyEarnings)
			delivery.GET("/rating", deliveryHandler.Rating)
		}

		// 管理员
		admin := apiV1.Group("/admin")
		{
			admin.GET("/orders", adminHandler.AdminListOrders)
			admin.GET("/orders/:id", adminHandler.AdminGetOrder)
			admin.PATCH("/orders/:id", adminHandler.AdminUpdateOrderStatus)

			admin.GET("/authz/roles", adminHandler.ListAuthzRoles)
			admin.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
			admin.POST("/authz/policies", adminHandler.GrantAuthzPolicy)
			admin.DELETE("/authz/policies", adminHandler.RevokeAuthzPolicy)
			admin.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
				response.Success(ctx, buildPermissionCatalog(r))
			})
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type permissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

// buildPermissionCatalog 汇总可授权的接口，供管理端配置角色策略
func buildPermissionCatalog(engine *gin.Engine) []permissionCatalogItem {
	if engine == nil {
		return []permissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]permissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, apiPrefix+"/") {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, permissionCatalogItem{
			Module:     derivePermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func derivePermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 || segments[0] != "admin" {
		return segments[0]
	}
	return segments[1]
}
