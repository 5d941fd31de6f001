package service

import (
	"context"
	"strings"

	"github.com/rishavthakurer-maker/orderwala-sub001/internal/cache"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/logger"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/metrics"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransitionInput 状态流转输入
type TransitionInput struct {
	OrderID uint
	Status  models.OrderStatus
	Note    string
	Reason  string // 取消原因
}

// TransitionResult 状态流转结果
type TransitionResult struct {
	Order *models.Order              `json:"order"`
	Entry *models.OrderStatusHistory `json:"entry"`
}

// Transition 推进订单状态
func (s *OrderService) Transition(actor Actor, input TransitionInput) (*TransitionResult, error) {
	result, err := s.transition(actor, input)
	metrics.RecordOrderOperation("transition_"+string(input.Status), err == nil)
	return result, err
}

// CancelOrder 取消订单
func (s *OrderService) CancelOrder(actor Actor, orderID uint, reason string) (*TransitionResult, error) {
	return s.Transition(actor, TransitionInput{
		OrderID: orderID,
		Status:  models.OrderStatusCancelled,
		Reason:  reason,
	})
}

func (s *OrderService) transition(actor Actor, input TransitionInput) (*TransitionResult, error) {
	if _, ok := models.ParseOrderStatus(string(input.Status)); !ok {
		return nil, ErrStatusInvalid
	}
	order, err := s.orderRepo.GetByID(input.OrderID)
	if err != nil {
		return nil, internalError("load order failed", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	to := input.Status
	if err := authorizeTransition(actor, order, to); err != nil {
		return nil, err
	}

	now := s.now()
	from := order.Status
	updates := phaseUpdates(to, now)
	note := strings.TrimSpace(input.Note)
	reason := strings.TrimSpace(input.Reason)
	if to == models.OrderStatusCancelled {
		if reason == "" {
			reason = note
		}
		updates["cancel_reason"] = reason
		updates["cancelled_by"] = actor.Role
		if note == "" {
			note = reason
		}
	}
	var earnings decimal.Decimal
	if to == models.OrderStatusDelivered && !order.DeliveryEarnings.Positive() {
		earnings = s.deliveryEarningsFor(order)
		updates["delivery_earnings"] = models.NewMoneyFromDecimal(earnings)
	}
	entry := &models.OrderStatusHistory{
		OrderID:   order.ID,
		Status:    to,
		Note:      note,
		ActorRole: actor.Role,
		ActorID:   actor.UserID,
		CreatedAt: now,
	}

	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		affected, err := orderRepo.TransitionStatus(order.ID, from, order.Version, updates)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrOrderStale
		}
		if err := orderRepo.AppendHistory(entry); err != nil {
			return err
		}
		switch to {
		case models.OrderStatusCancelled:
			return s.releaseOrderResources(tx, order)
		case models.OrderStatusDelivered:
			return s.vendorRepo.WithTx(tx).IncrementTotalOrders(order.VendorID)
		}
		return nil
	})
	if err != nil {
		if KindOf(err) != KindInternal {
			return nil, err
		}
		logger.Errorw("order_transition_failed",
			"order_id", order.ID,
			"from", from,
			"to", to,
			"error", err,
		)
		return nil, internalError("update order status failed", err)
	}

	applyPhase(order, to, now)
	if to == models.OrderStatusCancelled {
		order.CancelReason = reason
		order.CancelledBy = actor.Role
	}
	if earnings.GreaterThan(decimal.Zero) {
		order.DeliveryEarnings = models.NewMoneyFromDecimal(earnings)
	}
	order.StatusHistory = append(order.StatusHistory, *entry)

	logger.Infow("order_status_changed",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"from", from,
		"to", to,
		"actor_role", actor.Role,
		"actor_id", actor.UserID,
	)
	publishNotification(s.notifier, buildStatusNotification(order, now))
	if to == models.OrderStatusDelivered && order.DeliveryPartnerID != nil {
		if err := cache.InvalidatePartnerEarnings(context.Background(), *order.DeliveryPartnerID, earningsCacheScopes...); err != nil {
			logger.Warnw("partner_earnings_cache_invalidate_failed", "partner_id", *order.DeliveryPartnerID, "error", err)
		}
	}
	return &TransitionResult{Order: order, Entry: entry}, nil
}

// releaseOrderResources 取消时归还库存与优惠码次数
func (s *OrderService) releaseOrderResources(tx *gorm.DB, order *models.Order) error {
	productRepo := s.productRepo.WithTx(tx)
	for _, item := range order.Items {
		if _, err := productRepo.ReleaseStock(item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	if order.PromoCodeID != nil && *order.PromoCodeID != 0 {
		if err := s.promoRepo.WithTx(tx).DecrementUsage(*order.PromoCodeID); err != nil {
			return err
		}
	}
	return nil
}

// deliveryEarningsFor 骑手收入取订单配送费，免配送费订单使用兜底金额
func (s *OrderService) deliveryEarningsFor(order *models.Order) decimal.Decimal {
	return resolveDeliveryEarnings(order.DeliveryFee, s.fallbackEarn)
}

func resolveDeliveryEarnings(fee models.Money, fallback decimal.Decimal) decimal.Decimal {
	if fee.Positive() {
		return fee.Decimal
	}
	if fallback.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return fallback.Round(2)
}
