package service

import (
	"strings"
	"time"

	"github.com/rishavthakurer-maker/orderwala-sub001/internal/models"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/repository"

	"github.com/shopspring/decimal"
)

// PromoQuote 优惠码校验结果
type PromoQuote struct {
	PromoID       uint                `json:"-"`
	Code          string              `json:"code"`
	DiscountType  models.DiscountType `json:"discount_type"`
	DiscountValue models.Money        `json:"discount_value"`
	MaxDiscount   models.Money        `json:"max_discount"`
	Discount      models.Money        `json:"discount"`
}

// PromoService 优惠码服务
type PromoService struct {
	promoRepo repository.PromoCodeRepository
	now       func() time.Time
}

// NewPromoService 创建优惠码服务
func NewPromoService(promoRepo repository.PromoCodeRepository) *PromoService {
	return &PromoService{promoRepo: promoRepo, now: time.Now}
}

// NormalizePromoCode 统一优惠码大小写
func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate 校验优惠码并计算优惠，不占用使用次数
func (s *PromoService) Validate(code string, subtotal decimal.Decimal) (*PromoQuote, error) {
	normalized := NormalizePromoCode(code)
	if normalized == "" {
		return nil, ErrPromoInvalid
	}
	if subtotal.LessThan(decimal.Zero) {
		return nil, ErrOrderItemInvalid
	}
	promo, err := s.promoRepo.GetByCode(normalized)
	if err != nil {
		return nil, internalError("load promo code failed", err)
	}
	return evaluatePromo(promo, subtotal, s.now())
}

// evaluatePromo 依次校验：存在且启用、有效期、使用次数、门槛
func evaluatePromo(promo *models.PromoCode, subtotal decimal.Decimal, now time.Time) (*PromoQuote, error) {
	if promo == nil || !promo.IsActive || !promo.DiscountType.Valid() {
		return nil, ErrPromoNotFound
	}
	if promo.ValidFrom != nil && now.Before(*promo.ValidFrom) {
		return nil, ErrPromoNotStarted
	}
	if promo.ValidUntil != nil && now.After(*promo.ValidUntil) {
		return nil, ErrPromoHasExpired
	}
	if promo.UsageLimit > 0 && promo.UsageCount >= promo.UsageLimit {
		return nil, ErrPromoExhausted
	}
	if subtotal.LessThan(promo.MinOrderAmount.Decimal) {
		return nil, ErrPromoBelowMinimum
	}
	return &PromoQuote{
		PromoID:       promo.ID,
		Code:          promo.Code,
		DiscountType:  promo.DiscountType,
		DiscountValue: promo.DiscountValue,
		MaxDiscount:   promo.MaxDiscount,
		Discount:      models.NewMoneyFromDecimal(computeDiscount(promo, subtotal)),
	}, nil
}
