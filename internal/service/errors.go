package service

import (
	"errors"
	"fmt"

	"github.com/rishavthakurer-maker/orderwala-sub001/internal/models"
)

// ErrorKind 业务错误分类
type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindNotFound          ErrorKind = "not_found"
	KindInsufficientStock ErrorKind = "insufficient_stock"
	KindInvalidTransition ErrorKind = "invalid_transition"
	KindConflict          ErrorKind = "conflict"
	KindForbidden         ErrorKind = "forbidden"
	KindPromoExpired      ErrorKind = "promo_expired"
	KindPromoUsageLimit   ErrorKind = "promo_usage_limit"
	KindPromoMinOrder     ErrorKind = "promo_min_order"
	KindInternal          ErrorKind = "internal"
)

// Error 结构化业务错误
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is 按分类匹配；目标携带消息时同时比较消息
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

func newError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// 分类哨兵，用于 errors.Is 判定分类
var (
	ErrValidation        = &Error{Kind: KindValidation}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrInsufficientStock = &Error{Kind: KindInsufficientStock}
	ErrInvalidTransition = &Error{Kind: KindInvalidTransition}
	ErrConflict          = &Error{Kind: KindConflict}
	ErrForbidden         = &Error{Kind: KindForbidden}
	ErrPromoExpired      = &Error{Kind: KindPromoExpired}
	ErrPromoUsageLimit   = &Error{Kind: KindPromoUsageLimit}
	ErrPromoMinOrder     = &Error{Kind: KindPromoMinOrder}
	ErrInternal          = &Error{Kind: KindInternal}
)

// 具名业务错误
var (
	ErrOrderNotFound         = newError(KindNotFound, "order not found")
	ErrVendorNotFound        = newError(KindNotFound, "vendor not found")
	ErrProductNotFound       = newError(KindNotFound, "product not found")
	ErrPromoNotFound         = newError(KindNotFound, "promo code not found")
	ErrVendorInactive        = newError(KindValidation, "vendor is not accepting orders")
	ErrProductNotAvailable   = newError(KindValidation, "product is not available")
	ErrProductVendorMismatch = newError(KindValidation, "product does not belong to vendor")
	ErrOrderItemsEmpty       = newError(KindValidation, "order items are required")
	ErrOrderItemInvalid      = newError(KindValidation, "order item is invalid")
	ErrDeliveryAddressEmpty  = newError(KindValidation, "delivery address is required")
	ErrPaymentMethodInvalid  = newError(KindValidation, "payment method is invalid")
	ErrStatusInvalid         = newError(KindValidation, "status is invalid")
	ErrDeliveryActionInvalid = newError(KindValidation, "delivery action is invalid")
	ErrLocationInvalid       = newError(KindValidation, "location is invalid")
	ErrRatingEmpty           = newError(KindValidation, "rating is required")
	ErrRatingItemInvalid     = newError(KindValidation, "rated product is not part of the order")
	ErrOrderNotDelivered     = newError(KindValidation, "order is not delivered")
	ErrPromoInvalid          = newError(KindValidation, "promo code is invalid")
	ErrAlreadyAssigned       = newError(KindConflict, "already assigned")
	ErrOrderNotReady         = newError(KindConflict, "order is not ready for pickup")
	ErrOrderStale            = newError(KindConflict, "order was modified concurrently")
	ErrOrderUnassigned       = newError(KindConflict, "order has no assigned delivery partner")
	ErrPromoExhausted        = newError(KindPromoUsageLimit, "promo code usage limit reached")
	ErrPromoNotStarted       = newError(KindPromoExpired, "promo code is not active yet")
	ErrPromoHasExpired       = newError(KindPromoExpired, "promo code has expired")
	ErrPromoBelowMinimum     = newError(KindPromoMinOrder, "minimum order amount not met")
	ErrOrderNotOwned         = newError(KindForbidden, "order does not belong to the caller")
	ErrActorNotAllowed       = newError(KindForbidden, "actor is not allowed to perform this transition")
	ErrNotAssignedPartner    = newError(KindForbidden, "order is not assigned to this delivery partner")
)

// InsufficientStockError 库存不足，携带具体商品
type InsufficientStockError struct {
	ProductID   uint
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for %s: requested %d, available %d", e.ProductName, e.Requested, e.Available)
}

// Is 匹配库存不足分类
func (e *InsufficientStockError) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == KindInsufficientStock && t.Message == ""
}

// InvalidTransitionError 非法状态流转
type InvalidTransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("Cannot transition from %s to %s", e.From, e.To)
}

// Is 匹配非法流转分类
func (e *InvalidTransitionError) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == KindInvalidTransition && t.Message == ""
}

// KindOf 返回错误分类，未识别的错误视为内部错误
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var stockErr *InsufficientStockError
	if errors.As(err, &stockErr) {
		return KindInsufficientStock
	}
	var transitionErr *InvalidTransitionError
	if errors.As(err, &transitionErr) {
		return KindInvalidTransition
	}
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindInternal
}

// internalError 包装持久化层异常，不暴露具体原因
func internalError(op string, err error) error {
	return &Error{Kind: KindInternal, Message: op, Err: err}
}
