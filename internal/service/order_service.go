package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rishavthakurer-maker/orderwala-sub001/internal/constants"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/logger"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/metrics"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/models"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/queue"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService 订单服务
type OrderService struct {
	orderRepo      repository.OrderRepository
	productRepo    repository.ProductRepository
	vendorRepo     repository.VendorRepository
	promoRepo      repository.PromoCodeRepository
	counterRepo    repository.CounterRepository
	queueClient    *queue.Client
	notifier       Notifier
	pricing        PricingPolicy
	confirmTimeout time.Duration
	fallbackEarn   decimal.Decimal
	now            func() time.Time
}

// OrderServiceOptions 订单服务依赖
type OrderServiceOptions struct {
	OrderRepo        repository.OrderRepository
	ProductRepo      repository.ProductRepository
	VendorRepo       repository.VendorRepository
	PromoRepo        repository.PromoCodeRepository
	CounterRepo      repository.CounterRepository
	QueueClient      *queue.Client
	Notifier         Notifier
	Pricing          PricingPolicy
	ConfirmTimeout   time.Duration
	FallbackEarnings decimal.Decimal
}

// NewOrderService 创建订单服务
func NewOrderService(opts OrderServiceOptions) *OrderService {
	return &OrderService{
		orderRepo:      opts.OrderRepo,
		productRepo:    opts.ProductRepo,
		vendorRepo:     opts.VendorRepo,
		promoRepo:      opts.PromoRepo,
		counterRepo:    opts.CounterRepo,
		queueClient:    opts.QueueClient,
		notifier:       opts.Notifier,
		pricing:        opts.Pricing,
		confirmTimeout: opts.ConfirmTimeout,
		fallbackEarn:   opts.FallbackEarnings,
		now:            time.Now,
	}
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	CustomerID      uint
	VendorID        uint
	Items           []CreateOrderItem
	PaymentMethod   string
	PromoCode       string
	DeliveryAddress models.Address
	Instructions    string
}

// CreateOrderItem 创建订单项输入
type CreateOrderItem struct {
	ProductID uint
	Quantity  int
}

// OrderPreview 订单金额预览
type OrderPreview struct {
	Subtotal    models.Money       `json:"subtotal"`
	DeliveryFee models.Money       `json:"delivery_fee"`
	Discount    models.Money       `json:"discount"`
	Total       models.Money       `json:"total"`
	Promo       *PromoQuote        `json:"promo,omitempty"`
	Items       []OrderPreviewItem `json:"items"`
}

// OrderPreviewItem 预览订单项
type OrderPreviewItem struct {
	ProductID uint         `json:"product_id"`
	Name      string       `json:"name"`
	UnitPrice models.Money `json:"unit_price"`
	Quantity  int          `json:"quantity"`
	LineTotal models.Money `json:"line_total"`
}

// orderPlan 下单计划（校验通过后的快照）
type orderPlan struct {
	Vendor      *models.Vendor
	Products    map[uint]*models.Product
	Items       []models.OrderItem
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal
	Promo       *PromoQuote
}

var paymentMethods = map[string]struct{}{
	constants.PaymentMethodCOD:    {},
	constants.PaymentMethodOnline: {},
	constants.PaymentMethodUPI:    {},
}

func normalizePaymentMethod(raw string) (string, error) {
	method := strings.ToLower(strings.TrimSpace(raw))
	if method == "" {
		return constants.PaymentMethodCOD, nil
	}
	if _, ok := paymentMethods[method]; !ok {
		return "", ErrPaymentMethodInvalid
	}
	return method, nil
}

// formatOrderNo 顺序号格式化为订单号
func formatOrderNo(seq int64) string {
	return fmt.Sprintf("%s%0*d", constants.OrderNoPrefix, constants.OrderNoDigits, seq)
}

// mergeCreateOrderItems 合并重复商品的下单项，保持首次出现的顺序
func mergeCreateOrderItems(items []CreateOrderItem) ([]CreateOrderItem, error) {
	if len(items) == 0 {
		return nil, ErrOrderItemsEmpty
	}
	merged := make([]CreateOrderItem, 0, len(items))
	indexMap := make(map[uint]int)
	for _, item := range items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			return nil, ErrOrderItemInvalid
		}
		if idx, ok := indexMap[item.ProductID]; ok {
			merged[idx].Quantity += item.Quantity
			continue
		}
		indexMap[item.ProductID] = len(merged)
		merged = append(merged, item)
	}
	return merged, nil
}

// PreviewOrder 订单金额预览，不占用库存与优惠码
func (s *OrderService) PreviewOrder(input CreateOrderInput) (*OrderPreview, error) {
	plan, err := s.buildOrderPlan(input)
	if err != nil {
		return nil, err
	}
	items := make([]OrderPreviewItem, 0, len(plan.Items))
	for _, item := range plan.Items {
		items = append(items, OrderPreviewItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal,
		})
	}
	return &OrderPreview{
		Subtotal:    models.NewMoneyFromDecimal(plan.Subtotal),
		DeliveryFee: models.NewMoneyFromDecimal(plan.DeliveryFee),
		Discount:    models.NewMoneyFromDecimal(plan.Discount),
		Total:       models.NewMoneyFromDecimal(plan.Total),
		Promo:       plan.Promo,
		Items:       items,
	}, nil
}

// CreateOrder 创建订单：校验、扣库存、占用优惠码、生成订单号在同一事务内完成
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	order, err := s.createOrder(input)
	metrics.RecordOrderOperation("create", err == nil)
	return order, err
}

func (s *OrderService) createOrder(input CreateOrderInput) (*models.Order, error) {
	if input.CustomerID == 0 {
		return nil, ErrActorNotAllowed
	}
	paymentMethod, err := normalizePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, err
	}
	plan, err := s.buildOrderPlan(input)
	if err != nil {
		return nil, err
	}

	now := s.now()
	order := &models.Order{
		CustomerID:      input.CustomerID,
		VendorID:        plan.Vendor.ID,
		Subtotal:        models.NewMoneyFromDecimal(plan.Subtotal),
		DeliveryFee:     models.NewMoneyFromDecimal(plan.DeliveryFee),
		Discount:        models.NewMoneyFromDecimal(plan.Discount),
		Total:           models.NewMoneyFromDecimal(plan.Total),
		Status:          models.OrderStatusPending,
		PaymentMethod:   paymentMethod,
		PaymentStatus:   models.PaymentStatusPending,
		DeliveryAddress: input.DeliveryAddress,
		Instructions:    strings.TrimSpace(input.Instructions),
		Items:           plan.Items,
		StatusHistory: []models.OrderStatusHistory{{
			Status:    models.OrderStatusPending,
			Note:      "Order placed",
			ActorRole: models.ActorCustomer,
			ActorID:   input.CustomerID,
			CreatedAt: now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if plan.Promo != nil {
		promoID := plan.Promo.PromoID
		order.PromoCodeID = &promoID
		order.PromoCode = plan.Promo.Code
	}

	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		for _, item := range order.Items {
			affected, err := productRepo.ReserveStock(item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				return s.insufficientStock(productRepo, plan.Products[item.ProductID], item.Quantity)
			}
		}
		if plan.Promo != nil {
			affected, err := s.promoRepo.WithTx(tx).IncrementUsage(plan.Promo.PromoID)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrPromoExhausted
			}
		}
		seq, err := s.counterRepo.WithTx(tx).Next(constants.CounterOrderNo)
		if err != nil {
			return err
		}
		order.OrderNo = formatOrderNo(seq)
		return s.orderRepo.WithTx(tx).Create(order)
	})
	if err != nil {
		if KindOf(err) != KindInternal {
			return nil, err
		}
		logger.Errorw("order_create_failed",
			"customer_id", input.CustomerID,
			"vendor_id", input.VendorID,
			"error", err,
		)
		return nil, internalError("create order failed", err)
	}

	logger.Infow("order_created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"customer_id", order.CustomerID,
		"vendor_id", order.VendorID,
		"total", order.Total.String(),
	)
	publishNotification(s.notifier, buildStatusNotification(order, now))
	s.scheduleConfirmTimeout(order)
	order.Vendor = plan.Vendor
	return order, nil
}

// insufficientStock 事务内扣减失败时读取最新库存用于提示
func (s *OrderService) insufficientStock(productRepo repository.ProductRepository, product *models.Product, requested int) error {
	stockErr := &InsufficientStockError{Requested: requested}
	if product != nil {
		stockErr.ProductID = product.ID
		stockErr.ProductName = product.Name
		stockErr.Available = product.Stock
	}
	if current, err := productRepo.GetByID(stockErr.ProductID); err == nil && current != nil {
		stockErr.Available = current.Stock
	}
	return stockErr
}

func (s *OrderService) scheduleConfirmTimeout(order *models.Order) {
	if s.confirmTimeout <= 0 || !s.queueClient.Enabled() {
		return
	}
	payload := queue.OrderConfirmTimeoutPayload{OrderID: order.ID, Version: order.Version}
	if err := s.queueClient.EnqueueOrderConfirmTimeout(payload, s.confirmTimeout); err != nil {
		logger.Errorw("order_enqueue_confirm_timeout_failed",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"error", err,
		)
	}
}

// buildOrderPlan 校验下单输入并计算金额，不修改任何数据
func (s *OrderService) buildOrderPlan(input CreateOrderInput) (*orderPlan, error) {
	if input.VendorID == 0 {
		return nil, ErrVendorNotFound
	}
	if strings.TrimSpace(input.DeliveryAddress.Line) == "" {
		return nil, ErrDeliveryAddressEmpty
	}
	items, err := mergeCreateOrderItems(input.Items)
	if err != nil {
		return nil, err
	}

	vendor, err := s.vendorRepo.GetByID(input.VendorID)
	if err != nil {
		return nil, internalError("load vendor failed", err)
	}
	if vendor == nil {
		return nil, ErrVendorNotFound
	}
	if !vendor.IsActive {
		return nil, ErrVendorInactive
	}

	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.productRepo.ListByIDs(ids)
	if err != nil {
		return nil, internalError("load products failed", err)
	}
	productMap := make(map[uint]*models.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	plan := &orderPlan{
		Vendor:   vendor,
		Products: productMap,
		Items:    make([]models.OrderItem, 0, len(items)),
		Subtotal: decimal.Zero,
	}
	for _, item := range items {
		product, ok := productMap[item.ProductID]
		if !ok {
			return nil, ErrProductNotFound
		}
		if product.VendorID != vendor.ID {
			return nil, ErrProductVendorMismatch
		}
		if !product.IsActive {
			return nil, ErrProductNotAvailable
		}
		if product.Stock < item.Quantity {
			return nil, &InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   item.Quantity,
				Available:   product.Stock,
			}
		}
		lineTotal := product.Price.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
		plan.Subtotal = plan.Subtotal.Add(lineTotal)
		plan.Items = append(plan.Items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  item.Quantity,
			Unit:      product.Unit,
			Image:     product.Image,
			LineTotal: models.NewMoneyFromDecimal(lineTotal),
		})
	}

	plan.Discount = decimal.Zero
	if code := NormalizePromoCode(input.PromoCode); code != "" {
		promo, err := s.promoRepo.GetByCode(code)
		if err != nil {
			return nil, internalError("load promo code failed", err)
		}
		quote, err := evaluatePromo(promo, plan.Subtotal, s.now())
		if err != nil {
			return nil, err
		}
		plan.Promo = quote
		plan.Discount = quote.Discount.Decimal
	}
	plan.DeliveryFee = s.pricing.DeliveryFeeFor(plan.Subtotal)
	plan.Total = orderTotal(plan.Subtotal, plan.DeliveryFee, plan.Discount)
	return plan, nil
}

// GetOrder 按操作者可见范围获取订单详情
func (s *OrderService) GetOrder(actor Actor, orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, internalError("load order failed", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !actor.CanView(order) {
		return nil, ErrOrderNotOwned
	}
	return order, nil
}

// GetOrderByNo 按订单号获取订单详情
func (s *OrderService) GetOrderByNo(actor Actor, orderNo string) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNo(orderNo)
	if err != nil {
		return nil, internalError("load order failed", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !actor.CanView(order) {
		return nil, ErrOrderNotOwned
	}
	return order, nil
}

// ListOrders 按角色限定范围分页查询订单
func (s *OrderService) ListOrders(actor Actor, filter repository.OrderListFilter) ([]models.Order, int64, error) {
	switch actor.Role {
	case models.ActorCustomer:
		filter.CustomerID = actor.UserID
	case models.ActorVendor:
		if actor.VendorID == 0 {
			return nil, 0, ErrActorNotAllowed
		}
		filter.VendorID = actor.VendorID
	case models.ActorDelivery:
		filter.DeliveryPartnerID = actor.UserID
	case models.ActorAdmin:
	default:
		return nil, 0, ErrActorNotAllowed
	}
	orders, total, err := s.orderRepo.List(filter)
	if err != nil {
		return nil, 0, internalError("list orders failed", err)
	}
	return orders, total, nil
}

// CancelIfUnconfirmed 商家超时未确认时由系统取消
func (s *OrderService) CancelIfUnconfirmed(orderID uint, version int) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, internalError("load order failed", err)
	}
	if order == nil || order.Status != models.OrderStatusPending || order.Version != version {
		return nil, nil
	}
	result, err := s.Transition(SystemActor(), TransitionInput{
		OrderID: orderID,
		Status:  models.OrderStatusCancelled,
		Reason:  "Store did not confirm the order in time",
	})
	if err != nil {
		if errors.Is(err, ErrConflict) || errors.Is(err, ErrInvalidTransition) {
			return nil, nil
		}
		return nil, err
	}
	return result.Order, nil
}
