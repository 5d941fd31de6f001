package service

import (
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/config"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PricingPolicy 配送费规则
type PricingPolicy struct {
	DeliveryFee           decimal.Decimal
	FreeDeliveryThreshold decimal.Decimal // 0 表示不减免
}

// NewPricingPolicy 从配置构建
func NewPricingPolicy(cfg config.OrderConfig) PricingPolicy {
	return PricingPolicy{
		DeliveryFee:           decimal.NewFromFloat(cfg.DeliveryFee).Round(2),
		FreeDeliveryThreshold: decimal.NewFromFloat(cfg.FreeDeliveryThreshold).Round(2),
	}
}

// DeliveryFeeFor 小计达到门槛时免配送费
func (p PricingPolicy) DeliveryFeeFor(subtotal decimal.Decimal) decimal.Decimal {
	if p.FreeDeliveryThreshold.GreaterThan(decimal.Zero) && subtotal.GreaterThanOrEqual(p.FreeDeliveryThreshold) {
		return decimal.Zero
	}
	if p.DeliveryFee.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return p.DeliveryFee
}

// computeDiscount 计算优惠金额，结果不超过小计
func computeDiscount(promo *models.PromoCode, subtotal decimal.Decimal) decimal.Decimal {
	if promo == nil || subtotal.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	var discount decimal.Decimal
	switch promo.DiscountType {
	case models.DiscountTypePercentage:
		discount = subtotal.Mul(promo.DiscountValue.Decimal).Div(hundred).Round(0)
		if promo.MaxDiscount.Positive() && discount.GreaterThan(promo.MaxDiscount.Decimal) {
			discount = promo.MaxDiscount.Decimal
		}
	case models.DiscountTypeFixed:
		discount = promo.DiscountValue.Decimal
	default:
		return decimal.Zero
	}
	if discount.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	if discount.GreaterThan(subtotal) {
		return subtotal
	}
	return discount.Round(2)
}

// orderTotal 应付 = 小计 + 配送费 - 优惠
func orderTotal(subtotal, deliveryFee, discount decimal.Decimal) decimal.Decimal {
	return subtotal.Add(deliveryFee).Sub(discount).Round(2)
}
