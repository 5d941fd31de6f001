package admin

import (
	"strconv"
	"strings"
	"time"

	handlershared "github.com/rishavthakurer-maker/orderwala-sub001/internal/http/handlers/shared"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/http/response"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/models"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/repository"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest 管理端状态变更
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
	Reason string `json:"reason"`
}

// AdminListOrders 管理端订单列表
func (h *Handler) AdminListOrders(c *gin.Context) {
	actor, ok := handlershared.GetActor(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePageQuery(c)

	statuses, ok := handlershared.ParseStatusFilter(c.Query("status"))
	if !ok {
		respondError(c, response.CodeBadRequest, "error.status_invalid", nil)
		return
	}
	createdFrom, err := parseTimeNullable(strings.TrimSpace(c.Query("created_from")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	createdTo, err := parseTimeNullable(strings.TrimSpace(c.Query("created_to")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	orders, total, err := h.OrderService.ListOrders(actor, repository.OrderListFilter{
		Page:              page,
		PageSize:          pageSize,
		CustomerID:        parseUintQuery(c, "customer_id"),
		VendorID:          parseUintQuery(c, "vendor_id"),
		DeliveryPartnerID: parseUintQuery(c, "partner_id"),
		Statuses:          statuses,
		OrderNo:           strings.TrimSpace(c.Query("order_no")),
		CreatedFrom:       createdFrom,
		CreatedTo:         createdTo,
	})
	if err != nil {
		handlershared.RespondMappedError(c, err, handlershared.OrderErrorRules, response.CodeInternal, "error.order_fetch_failed")
		return
	}
	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}

// AdminGetOrder 管理端订单详情
func (h *Handler) AdminGetOrder(c *gin.Context) {
	actor, ok := handlershared.GetActor(c)
	if !ok {
		return
	}
	orderID, ok := handlershared.ParseIDParam(c, "id", "error.order_id_invalid")
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrder(actor, orderID)
	if err != nil {
		handlershared.RespondMappedError(c, err, handlershared.OrderErrorRules, response.CodeInternal, "error.order_fetch_failed")
		return
	}
	response.Success(c, order)
}

// AdminUpdateOrderStatus 管理端强制推进或取消订单
func (h *Handler) AdminUpdateOrderStatus(c *gin.Context) {
	actor, ok := handlershared.GetActor(c)
	if !ok {
		return
	}
	orderID, ok := handlershared.ParseIDParam(c, "id", "error.order_id_invalid")
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
		handlershared.RespondMappedError(c, err, handlershared.OrderErrorRules, response.CodeInternal, "error.order_update_failed")
		return
	}
	response.Success(c, result)
}

func parseTimeNullable(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// 非法值按未过滤处理
func parseUintQuery(c *gin.Context, name string) uint {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0
	}
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(parsed)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}
