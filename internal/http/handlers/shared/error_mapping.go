package shared

import (
	"errors"

	"github.com/rishavthakurer-maker/orderwala-sub001/internal/http/response"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

// MappedError 定义业务错误到接口错误响应的映射关系。
// EchoMessage 为 true 时直接返回错误自身的文案。
type MappedError struct {
	Target      error
	Code        int
	Key         string
	EchoMessage bool
}

// RespondMappedError 按规则顺序匹配错误，未命中时使用兜底响应并记录原始错误。
func RespondMappedError(c *gin.Context, err error, rules []MappedError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if !errors.Is(err, rule.Target) {
			continue
		}
		if rule.EchoMessage {
			RespondErrorWithMsg(c, rule.Code, err.Error(), nil)
			return
		}
		RespondError(c, rule.Code, rule.Key, nil)
		return
	}
	RespondError(c, fallbackCode, fallbackKey, err)
}

// ConcatMappedErrors 合并多组映射规则。
func ConcatMappedErrors(groups ...[]MappedError) []MappedError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]MappedError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

// OrderNamedErrorRules 具名业务错误
var OrderNamedErrorRules = []MappedError{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrVendorNotFound, Code: response.CodeNotFound, Key: "error.vendor_not_found"},
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrPromoNotFound, Code: response.CodeNotFound, Key: "error.promo_not_found"},
	{Target: service.ErrVendorInactive, Code: response.CodeBadRequest, Key: "error.vendor_inactive"},
	{Target: service.ErrProductNotAvailable, Code: response.CodeBadRequest, Key: "error.product_not_available"},
	{Target: service.ErrProductVendorMismatch, Code: response.CodeBadRequest, Key: "error.product_vendor_mismatch"},
	{Target: service.ErrOrderItemsEmpty, Code: response.CodeBadRequest, Key: "error.order_items_empty"},
	{Target: service.ErrOrderItemInvalid, Code: response.CodeBadRequest, Key: "error.order_item_invalid"},
	{Target: service.ErrDeliveryAddressEmpty, Code: response.CodeBadRequest, Key: "error.delivery_address_required"},
	{Target: service.ErrPaymentMethodInvalid, Code: response.CodeBadRequest, Key: "error.payment_method_invalid"},
	{Target: service.ErrStatusInvalid, Code: response.CodeBadRequest, Key: "error.status_invalid"},
	{Target: service.ErrDeliveryActionInvalid, Code: response.CodeBadRequest, Key: "error.delivery_action_invalid"},
	{Target: service.ErrLocationInvalid, Code: response.CodeBadRequest, Key: "error.location_invalid"},
	{Target: service.ErrRatingEmpty, Code: response.CodeBadRequest, Key: "error.rating_required"},
	{Target: service.ErrRatingItemInvalid, Code: response.CodeBadRequest, Key: "error.rating_item_invalid"},
	{Target: service.ErrOrderNotDelivered, Code: response.CodeBadRequest, Key: "error.order_not_delivered"},
	{Target: service.ErrPromoInvalid, Code: response.CodeBadRequest, Key: "error.promo_invalid"},
	{Target: service.ErrAlreadyAssigned, Code: response.CodeConflict, Key: "error.order_already_assigned"},
	{Target: service.ErrOrderNotReady, Code: response.CodeConflict, Key: "error.order_not_ready"},
	{Target: service.ErrOrderStale, Code: response.CodeConflict, Key: "error.order_conflict"},
	{Target: service.ErrOrderUnassigned, Code: response.CodeConflict, Key: "error.order_unassigned"},
	{Target: service.ErrPromoExhausted, Code: response.CodeBadRequest, Key: "error.promo_usage_limit"},
	{Target: service.ErrPromoNotStarted, Code: response.CodeBadRequest, Key: "error.promo_not_started"},
	{Target: service.ErrPromoHasExpired, Code: response.CodeBadRequest, Key: "error.promo_expired"},
	{Target: service.ErrPromoBelowMinimum, Code: response.CodeBadRequest, Key: "error.promo_min_order"},
	{Target: service.ErrOrderNotOwned, Code: response.CodeForbidden, Key: "error.order_not_owned"},
	{Target: service.ErrActorNotAllowed, Code: response.CodeForbidden, Key: "error.actor_not_allowed"},
	{Target: service.ErrNotAssignedPartner, Code: response.CodeForbidden, Key: "error.order_not_assigned"},
}

// OrderKindErrorRules 按分类兜底，库存不足与非法流转回显具体文案
var OrderKindErrorRules = []MappedError{
	{Target: service.ErrInsufficientStock, Code: response.CodeBadRequest, EchoMessage: true},
	{Target: service.ErrInvalidTransition, Code: response.CodeBadRequest, EchoMessage: true},
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.not_found"},
	{Target: service.ErrValidation, Code: response.CodeBadRequest, Key: "error.bad_request"},
	{Target: service.ErrConflict, Code: response.CodeConflict, Key: "error.order_conflict"},
	{Target: service.ErrForbidden, Code: response.CodeForbidden, Key: "error.forbidden"},
	{Target: service.ErrPromoExpired, Code: response.CodeBadRequest, Key: "error.promo_expired"},
	{Target: service.ErrPromoUsageLimit, Code: response.CodeBadRequest, Key: "error.promo_usage_limit"},
	{Target: service.ErrPromoMinOrder, Code: response.CodeBadRequest, Key: "error.promo_min_order"},
}

// OrderErrorRules 订单相关接口通用映射
var OrderErrorRules = ConcatMappedErrors(OrderNamedErrorRules, OrderKindErrorRules)
