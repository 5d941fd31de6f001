package public

import (
	"strings"

	handlershared "github.com/rishavthakurer-maker/orderwala-sub001/internal/http/handlers/shared"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/http/response"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/models"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/repository"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderItemRequest 订单项请求
type OrderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	VendorID        uint               `json:"vendor_id" binding:"required"`
	Items           []OrderItemRequest `json:"items" binding:"required"`
	DeliveryAddress models.Address     `json:"delivery_address"`
	PaymentMethod   string             `json:"payment_method"`
	Instructions    string             `json:"instructions"`
	PromoCode       string             `json:"promo_code"`
}

// UpdateOrderStatusRequest 订单状态变更请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
	Reason string `json:"reason"`
}

// CancelOrderRequest 取消订单请求
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

func (req CreateOrderRequest) toInput(customerID uint) service.CreateOrderInput {
	items := make([]service.CreateOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.CreateOrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return service.CreateOrderInput{
		CustomerID:      customerID,
		VendorID:        req.VendorID,
		Items:           items,
		PaymentMethod:   req.PaymentMethod,
		PromoCode:       req.PromoCode,
		DeliveryAddress: req.DeliveryAddress,
		Instructions:    req.Instructions,
	}
}

// PreviewOrder 订单金额预览
func (h *Handler) PreviewOrder(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	preview, err := h.OrderService.PreviewOrder(req.toInput(actor.UserID))
	if err != nil {
		respondOrderCreateError(c, err)
		return
	}
	response.Success(c, preview)
}

// CreateOrder 创建订单
func (h *Handler) CreateOrder(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	order, err := h.OrderService.CreateOrder(req.toInput(actor.UserID))
	if err != nil {
		respondOrderCreateError(c, err)
		return
	}
	response.Success(c, order)
}

// ListOrders 获取订单列表（按操作者身份收敛范围）
func (h *Handler) ListOrders(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	page, pageSize := handlershared.ParsePageQuery(c)
	statuses, ok := handlershared.ParseStatusFilter(c.Query("status"))
	if !ok {
		respondError(c, response.CodeBadRequest, "error.status_invalid", nil)
		return
	}

	orders, total, err := h.OrderService.ListOrders(actor, repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		Statuses: statuses,
		OrderNo:  strings.TrimSpace(c.Query("order_no")),
	})
	if err != nil {
		respondOrderFetchError(c, err)
		return
	}

	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, orders, pagination)
}

// GetOrder 获取订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	order, err := h.OrderService.GetOrder(actor, orderID)
	if err != nil {
		respondOrderFetchError(c, err)
		return
	}
	response.Success(c, order)
}

// GetOrderByOrderNo 按订单号获取订单详情
func (h *Handler) GetOrderByOrderNo(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	orderNo := strings.TrimSpace(c.Param("order_no"))
	if orderNo == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	order, err := h.OrderService.GetOrderByNo(actor, orderNo)
	if err != nil {
		respondOrderFetchError(c, err)
		return
	}
	response.Success(c, order)
}

// UpdateOrderStatus 商家/管理员推进订单状态
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	status, valid := models.ParseOrderStatus(req.Status)
	if !valid {
		respondError(c, response.CodeBadRequest, "error.status_invalid", nil)
		return
	}

	result, err := h.OrderService.Transition(actor, service.TransitionInput{
		OrderID: orderID,
		Status:  status,
		Note:    strings.TrimSpace(req.Note),
		Reason:  strings.TrimSpace(req.Reason),
	})
	if err != nil {
		respondOrderUpdateError(c, err)
		return
	}
	response.Success(c, result)
}

// CancelOrder 取消订单
func (h *Handler) CancelOrder(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req CancelOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
	}

	result, err := h.OrderService.CancelOrder(actor, orderID, strings.TrimSpace(req.Reason))
	if err != nil {
		respondOrderUpdateError(c, err)
		return
	}
	response.Success(c, result)
}
