package public

import (
	"strings"

	"github.com/rishavthakurer-maker/orderwala-sub001/internal/http/response"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

// RatingItemRequest 单个商品评分
type RatingItemRequest struct {
	ProductID uint   `json:"product_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// RatingRequest 订单评价请求
type RatingRequest struct {
	ProductRating    *int                `json:"product_rating"`
	ProductFeedback  string              `json:"product_feedback"`
	Items            []RatingItemRequest `json:"items"`
	DeliveryRating   *int                `json:"delivery_rating"`
	DeliveryFeedback string              `json:"delivery_feedback"`
}

// RateOrder 顾客提交订单评价
func (h *Handler) RateOrder(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	items := make([]service.ProductRatingInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.ProductRatingInput{
			ProductID: item.ProductID,
			Rating:    item.Rating,
			Comment:   strings.TrimSpace(item.Comment),
		})
	}

	result, err := h.RatingService.RecordRating(actor, service.RatingInput{
		OrderID:          orderID,
		ProductRating:    req.ProductRating,
		ProductFeedback:  strings.TrimSpace(req.ProductFeedback),
		Items:            items,
		DeliveryRating:   req.DeliveryRating,
		DeliveryFeedback: strings.TrimSpace(req.DeliveryFeedback),
	})
	if err != nil {
		respondRatingError(c, err)
		return
	}
	response.Success(c, result)
}
