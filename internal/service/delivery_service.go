package service

import (
	"sort"
	"strings"
	"time"

	"github.com/rishavthakurer-maker/orderwala-sub001/internal/logger"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/metrics"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/models"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/repository"

	"github.com/shopspring/decimal"
)

// DeliveryAction 骑手操作
type DeliveryAction string

const (
	DeliveryActionAccept    DeliveryAction = "accept"
	DeliveryActionPickup    DeliveryAction = "pickup"
	DeliveryActionOnTheWay  DeliveryAction = "on_the_way"
	DeliveryActionDelivered DeliveryAction = "delivered"
)

// 骑手推进动作对应的目标状态
var deliveryActionTargets = map[DeliveryAction]models.OrderStatus{
	DeliveryActionPickup:    models.OrderStatusPickedUp,
	DeliveryActionOnTheWay:  models.OrderStatusOnTheWay,
	DeliveryActionDelivered: models.OrderStatusDelivered,
}

// 附近订单展示的状态（尚未被骑手接走）
var nearbyStatuses = []models.OrderStatus{
	models.OrderStatusPending,
	models.OrderStatusConfirmed,
	models.OrderStatusPreparing,
	models.OrderStatusReady,
}

// ParseDeliveryAction 解析骑手操作
func ParseDeliveryAction(raw string) (DeliveryAction, bool) {
	action := DeliveryAction(strings.ToLower(strings.TrimSpace(raw)))
	if action == DeliveryActionAccept {
		return action, true
	}
	if _, ok := deliveryActionTargets[action]; ok {
		return action, true
	}
	return "", false
}

// DeliveryService 配送服务
type DeliveryService struct {
	orderRepo     repository.OrderRepository
	orders        *OrderService
	notifier      Notifier
	fallbackEarn  decimal.Decimal
	defaultRadius float64
	maxRadius     float64
	now           func() time.Time
}

// DeliveryServiceOptions 配送服务依赖
type DeliveryServiceOptions struct {
	OrderRepo        repository.OrderRepository
	Orders           *OrderService
	Notifier         Notifier
	FallbackEarnings decimal.Decimal
	DefaultRadiusKM  float64
	MaxRadiusKM      float64
}

// NewDeliveryService 创建配送服务
func NewDeliveryService(opts DeliveryServiceOptions) *DeliveryService {
	return &DeliveryService{
		orderRepo:     opts.OrderRepo,
		orders:        opts.Orders,
		notifier:      opts.Notifier,
		fallbackEarn:  opts.FallbackEarnings,
		defaultRadius: opts.DefaultRadiusKM,
		maxRadius:     opts.MaxRadiusKM,
		now:           time.Now,
	}
}

// DeliveryActionInput 骑手操作输入
type DeliveryActionInput struct {
	OrderID uint
	Action  DeliveryAction
	Note    string
}

// Perform 执行骑手操作：接单走抢单流程，其余走状态流转
func (s *DeliveryService) Perform(partner Actor, input DeliveryActionInput) (*models.Order, error) {
	if input.Action == DeliveryActionAccept {
		return s.Accept(partner, input.OrderID)
	}
	result, err := s.Advance(partner, input.OrderID, input.Action, input.Note)
	if err != nil {
		return nil, err
	}
	return result.Order, nil
}

// Accept 骑手接单，仅一名骑手能成功
func (s *DeliveryService) Accept(partner Actor, orderID uint) (*models.Order, error) {
	order, err := s.accept(partner, orderID)
	switch {
	case err == nil:
		metrics.RecordDeliveryAssignment("won")
	case KindOf(err) == KindConflict:
		metrics.RecordDeliveryAssignment("lost")
	default:
		metrics.RecordDeliveryAssignment("rejected")
	}
	return order, err
}

func (s *DeliveryService) accept(partner Actor, orderID uint) (*models.Order, error) {
	if partner.Role != models.ActorDelivery || partner.UserID == 0 {
		return nil, ErrActorNotAllowed
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, internalError("load order failed", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.IsAssigned() {
		return nil, ErrAlreadyAssigned
	}
	if order.Status != models.OrderStatusReady {
		return nil, ErrOrderNotReady
	}

	now := s.now()
	earnings := models.NewMoneyFromDecimal(resolveDeliveryEarnings(order.DeliveryFee, s.fallbackEarn))
	affected, err := s.orderRepo.AssignPartner(order.ID, partner.UserID, earnings, now)
	if err != nil {
		return nil, internalError("assign delivery partner failed", err)
	}
	if affected == 0 {
		// 条件更新未命中，重新读取以区分失败原因
		current, err := s.orderRepo.GetByID(order.ID)
		if err != nil {
			return nil, internalError("load order failed", err)
		}
		if current == nil {
			return nil, ErrOrderNotFound
		}
		if current.IsAssigned() {
			return nil, ErrAlreadyAssigned
		}
		return nil, ErrOrderNotReady
	}

	partnerID := partner.UserID
	order.DeliveryPartnerID = &partnerID
	order.AssignedAt = &now
	order.DeliveryEarnings = earnings
	order.Version++

	logger.Infow("delivery_order_accepted",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"partner_id", partner.UserID,
		"earnings", earnings.String(),
	)
	publishNotification(s.notifier, buildAssignmentNotification(order, now))
	return order, nil
}

// Advance 骑手推进配送状态
func (s *DeliveryService) Advance(partner Actor, orderID uint, action DeliveryAction, note string) (*TransitionResult, error) {
	if partner.Role != models.ActorDelivery || partner.UserID == 0 {
		return nil, ErrActorNotAllowed
	}
	target, ok := deliveryActionTargets[action]
	if !ok {
		return nil, ErrDeliveryActionInvalid
	}
	return s.orders.Transition(partner, TransitionInput{
		OrderID: orderID,
		Status:  target,
		Note:    note,
	})
}

// NearbyQuery 附近订单查询
type NearbyQuery struct {
	Latitude  float64
	Longitude float64
	RadiusKM  float64
}

// NearbyOrder 附近可接订单
type NearbyOrder struct {
	OrderID            uint               `json:"order_id"`
	OrderNo            string             `json:"order_no"`
	Status             models.OrderStatus `json:"status"`
	VendorID           uint               `json:"vendor_id"`
	VendorName         string             `json:"vendor_name"`
	VendorAddress      string             `json:"vendor_address"`
	DeliveryAddress    models.Address     `json:"delivery_address"`
	ItemCount          int                `json:"item_count"`
	Total              models.Money       `json:"total"`
	EstimatedEarnings  models.Money       `json:"estimated_earnings"`
	PickupDistanceKM   float64            `json:"pickup_distance_km"`
	DeliveryDistanceKM float64            `json:"delivery_distance_km"`
	TotalDistanceKM    float64            `json:"total_distance_km"`
	CreatedAt          time.Time          `json:"created_at"`
}

func (s *DeliveryService) resolveRadius(radius float64) float64 {
	if radius <= 0 {
		radius = s.defaultRadius
	}
	if s.maxRadius > 0 && radius > s.maxRadius {
		radius = s.maxRadius
	}
	return radius
}

// Nearby 列出骑手附近尚未分配的订单，按取货距离升序
func (s *DeliveryService) Nearby(query NearbyQuery) ([]NearbyOrder, error) {
	if !validCoordinate(query.Latitude, query.Longitude) {
		return nil, ErrLocationInvalid
	}
	radius := s.resolveRadius(query.RadiusKM)
	orders, err := s.orderRepo.ListUnassigned(nearbyStatuses)
	if err != nil {
		return nil, internalError("list unassigned orders failed", err)
	}

	result := make([]NearbyOrder, 0, len(orders))
	for i := range orders {
		order := &orders[i]
		if order.Vendor == nil {
			continue
		}
		pickup := haversineKM(query.Latitude, query.Longitude, order.Vendor.Latitude, order.Vendor.Longitude)
		// 半径只约束取货距离，总距离仅作预估展示
		if radius > 0 && pickup > radius {
			continue
		}
		delivery := haversineKM(order.Vendor.Latitude, order.Vendor.Longitude, order.DeliveryAddress.Latitude, order.DeliveryAddress.Longitude)
		itemCount := 0
		for _, item := range order.Items {
			itemCount += item.Quantity
		}
		result = append(result, NearbyOrder{
			OrderID:            order.ID,
			OrderNo:            order.OrderNo,
			Status:             order.Status,
			VendorID:           order.VendorID,
			VendorName:         order.Vendor.Name,
			VendorAddress:      order.Vendor.Address,
			DeliveryAddress:    order.DeliveryAddress,
			ItemCount:          itemCount,
			Total:              order.Total,
			EstimatedEarnings:  models.NewMoneyFromDecimal(resolveDeliveryEarnings(order.DeliveryFee, s.fallbackEarn)),
			PickupDistanceKM:   roundKM(pickup),
			DeliveryDistanceKM: roundKM(delivery),
			TotalDistanceKM:    roundKM(pickup + delivery),
			CreatedAt:          order.CreatedAt,
		})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].PickupDistanceKM < result[j].PickupDistanceKM
	})
	return result, nil
}

// ListAssigned 骑手名下订单，active 为 true 时仅返回配送中的订单
func (s *DeliveryService) ListAssigned(partner Actor, active bool, page, pageSize int) ([]models.Order, int64, error) {
	if partner.Role != models.ActorDelivery || partner.UserID == 0 {
		return nil, 0, ErrActorNotAllowed
	}
	filter := repository.OrderListFilter{
		Page:              page,
		PageSize:          pageSize,
		DeliveryPartnerID: partner.UserID,
	}
	if active {
		filter.Statuses = []models.OrderStatus{
			models.OrderStatusReady,
			models.OrderStatusPickedUp,
			models.OrderStatusOnTheWay,
		}
	}
	orders, total, err := s.orderRepo.List(filter)
	if err != nil {
		return nil, 0, internalError("list partner orders failed", err)
	}
	return orders, total, nil
}
