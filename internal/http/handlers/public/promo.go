package public

import (
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/http/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ValidatePromoRequest 优惠码校验请求
type ValidatePromoRequest struct {
	Code     string          `json:"code" binding:"required"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// ValidatePromo 校验优惠码并返回预计优惠
func (h *Handler) ValidatePromo(c *gin.Context) {
	if _, ok := getActor(c); !ok {
		return
	}

	var req ValidatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	quote, err := h.PromoService.Validate(req.Code, req.Subtotal)
	if err != nil {
		respondPromoValidateError(c, err)
		return
	}
	response.Success(c, quote)
}
