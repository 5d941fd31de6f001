package delivery

import (
	"strconv"
	"strings"

	handlershared "github.com/rishavthakurer-maker/orderwala-sub001/internal/http/handlers/shared"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/http/response"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

// ActionRequest 骑手操作请求
type ActionRequest struct {
	OrderID uint   `json:"order_id" binding:"required"`
	Action  string `json:"action" binding:"required"`
	Note    string `json:"note"`
}

// NearbyOrders 附近可接订单
func (h *Handler) NearbyOrders(c *gin.Context) {
	if _, ok := handlershared.GetActor(c); !ok {
		return
	}

	lat, latErr := strconv.ParseFloat(strings.TrimSpace(c.Query("lat")), 64)
	lng, lngErr := strconv.ParseFloat(strings.TrimSpace(c.Query("lng")), 64)
	if latErr != nil || lngErr != nil {
		handlershared.RespondError(c, response.CodeBadRequest, "error.location_invalid", nil)
		return
	}
	var radius float64
	if raw := strings.TrimSpace(c.Query("radius")); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			handlershared.RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
		radius = parsed
	}

	orders, err := h.DeliveryService.Nearby(service.NearbyQuery{
		Latitude:  lat,
		Longitude: lng,
		RadiusKM:  radius,
	})
	if err != nil {
		respondDeliveryError(c, err)
		return
	}
	response.Success(c, orders)
}

// PerformAction 接单或推进配送状态
func (h *Handler) PerformAction(c *gin.Context) {
	actor, ok := handlershared.GetActor(c)
	if !ok {
		return
	}

	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	action, valid := service.ParseDeliveryAction(req.Action)
	if !valid {
		handlershared.RespondError(c, response.CodeBadRequest, "error.delivery_action_invalid", nil)
		return
	}

	order, err := h.DeliveryService.Perform(actor, service.DeliveryActionInput{
		OrderID: req.OrderID,
		Action:  action,
		Note:    strings.TrimSpace(req.Note),
	})
	if err != nil {
		respondDeliveryError(c, err)
		return
	}
	response.Success(c, order)
}

// ListOrders 骑手名下订单
func (h *Handler) ListOrders(c *gin.Context) {
	actor, ok := handlershared.GetActor(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePageQuery(c)
	active := strings.EqualFold(strings.TrimSpace(c.Query("active")), "true")

	orders, total, err := h.DeliveryService.ListAssigned(actor, active, page, pageSize)
	if err != nil {
		respondOrderFetchError(c, err)
		return
	}
	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}

// Earnings 收入汇总
func (h *Handler) Earnings(c *gin.Context) {
	actor, ok := handlershared.GetActor(c)
	if !ok {
		return
	}
	summary, err := h.EarningsService.Summary(c.Request.Context(), actor)
	if err != nil {
		respondEarningsError(c, err)
		return
	}
	response.Success(c, summary)
}

// DailyEarnings 近 7 日按日收入
func (h *Handler) DailyEarnings(c *gin.Context) {
	actor, ok := handlershared.GetActor(c)
	if !ok {
		return
	}
	days, err := h.EarningsService.Daily(c.Request.Context(), actor)
	if err != nil {
		respondEarningsError(c, err)
		return
	}
	response.Success(c, days)
}

// Rating 骑手评分
func (h *Handler) Rating(c *gin.Context) {
	actor, ok := handlershared.GetActor(c)
	if !ok {
		return
	}
	rating, err := h.RatingService.PartnerRating(c.Request.Context(), actor.UserID)
	if err != nil {
		respondEarningsError(c, err)
		return
	}
	response.Success(c, rating)
}
