package service

import (
	"time"

	"github.com/rishavthakurer-maker/orderwala-sub001/internal/models"
)

// allowedTransitions 订单状态流转表
var allowedTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending:   {models.OrderStatusConfirmed, models.OrderStatusCancelled},
	models.OrderStatusConfirmed: {models.OrderStatusPreparing, models.OrderStatusCancelled},
	models.OrderStatusPreparing: {models.OrderStatusReady, models.OrderStatusCancelled},
	models.OrderStatusReady:     {models.OrderStatusPickedUp, models.OrderStatusCancelled},
	models.OrderStatusPickedUp:  {models.OrderStatusOnTheWay},
	models.OrderStatusOnTheWay:  {models.OrderStatusDelivered},
	models.OrderStatusDelivered: {},
	models.OrderStatusCancelled: {},
}

// 各角色可发起的目标状态，管理员不受限
var actorTargets = map[models.ActorRole][]models.OrderStatus{
	models.ActorVendor: {
		models.OrderStatusConfirmed,
		models.OrderStatusPreparing,
		models.OrderStatusReady,
		models.OrderStatusCancelled,
	},
	models.ActorDelivery: {
		models.OrderStatusPickedUp,
		models.OrderStatusOnTheWay,
		models.OrderStatusDelivered,
	},
	models.ActorCustomer: {models.OrderStatusCancelled},
	models.ActorSystem:   {models.OrderStatusCancelled},
}

// AllowedTransitions 返回指定状态允许的目标状态
func AllowedTransitions(from models.OrderStatus) []models.OrderStatus {
	targets := allowedTransitions[from]
	out := make([]models.OrderStatus, len(targets))
	copy(out, targets)
	return out
}

func isTransitionAllowed(from, to models.OrderStatus) bool {
	for _, target := range allowedTransitions[from] {
		if target == to {
			return true
		}
	}
	return false
}

// checkTransition 按流转表校验
func checkTransition(from, to models.OrderStatus) error {
	if !isTransitionAllowed(from, to) {
		return &InvalidTransitionError{From: from, To: to}
	}
	return nil
}

// authorizeTransition 校验操作者能否对该订单发起目标状态：
// 先校验归属，再按流转表校验，然后按角色收敛目标状态
func authorizeTransition(actor Actor, order *models.Order, to models.OrderStatus) error {
	if err := checkOrderActor(actor, order); err != nil {
		return err
	}
	if err := checkTransition(order.Status, to); err != nil {
		return err
	}
	if err := checkActorTarget(actor, order, to); err != nil {
		return err
	}
	// 配送阶段必须已有骑手接单，管理员也不例外
	if isDeliveryPhase(to) && !order.IsAssigned() {
		return ErrOrderUnassigned
	}
	return nil
}

func checkOrderActor(actor Actor, order *models.Order) error {
	switch actor.Role {
	case models.ActorAdmin, models.ActorSystem:
		return nil
	case models.ActorVendor:
		if !actor.IsVendorOf(order) {
			return ErrOrderNotOwned
		}
	case models.ActorCustomer:
		if !actor.IsCustomerOf(order) {
			return ErrOrderNotOwned
		}
	case models.ActorDelivery:
		if !actor.IsPartnerOf(order) {
			return ErrNotAssignedPartner
		}
	default:
		return ErrActorNotAllowed
	}
	return nil
}

func checkActorTarget(actor Actor, order *models.Order, to models.OrderStatus) error {
	if actor.Role == models.ActorAdmin {
		return nil
	}
	// 顾客仅能在商家确认前取消
	if actor.Role == models.ActorCustomer && order.Status != models.OrderStatusPending {
		return ErrActorNotAllowed
	}
	for _, target := range actorTargets[actor.Role] {
		if target == to {
			return nil
		}
	}
	return ErrActorNotAllowed
}

func isDeliveryPhase(status models.OrderStatus) bool {
	switch status {
	case models.OrderStatusPickedUp, models.OrderStatusOnTheWay, models.OrderStatusDelivered:
		return true
	}
	return false
}

// phaseUpdates 返回进入目标状态时需要写入的时间字段
func phaseUpdates(to models.OrderStatus, now time.Time) map[string]interface{} {
	updates := map[string]interface{}{
		"status": to,
	}
	switch to {
	case models.OrderStatusConfirmed:
		updates["confirmed_at"] = now
	case models.OrderStatusPreparing:
		updates["preparing_at"] = now
	case models.OrderStatusReady:
		updates["ready_at"] = now
	case models.OrderStatusPickedUp:
		updates["picked_up_at"] = now
	case models.OrderStatusOnTheWay:
		updates["on_the_way_at"] = now
	case models.OrderStatusDelivered:
		updates["delivered_at"] = now
		updates["payment_status"] = models.PaymentStatusCompleted
	case models.OrderStatusCancelled:
		updates["cancelled_at"] = now
	}
	return updates
}

// applyPhase 将流转结果同步到内存中的订单
func applyPhase(order *models.Order, to models.OrderStatus, now time.Time) {
	order.Status = to
	order.Version++
	stamp := now
	switch to {
	case models.OrderStatusConfirmed:
		order.ConfirmedAt = &stamp
	case models.OrderStatusPreparing:
		order.PreparingAt = &stamp
	case models.OrderStatusReady:
		order.ReadyAt = &stamp
	case models.OrderStatusPickedUp:
		order.PickedUpAt = &stamp
	case models.OrderStatusOnTheWay:
		order.OnTheWayAt = &stamp
	case models.OrderStatusDelivered:
		order.DeliveredAt = &stamp
		order.PaymentStatus = models.PaymentStatusCompleted
	case models.OrderStatusCancelled:
		order.CancelledAt = &stamp
	}
}
