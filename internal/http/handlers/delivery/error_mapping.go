package delivery

import (
	handlershared "github.com/rishavthakurer-maker/orderwala-sub001/internal/http/handlers/shared"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/http/response"

	"github.com/gin-gonic/gin"
)

func respondDeliveryError(c *gin.Context, err error) {
	handlershared.RespondMappedError(c, err, handlershared.OrderErrorRules, response.CodeInternal, "error.delivery_failed")
}

func respondOrderFetchError(c *gin.Context, err error) {
	handlershared.RespondMappedError(c, err, handlershared.OrderErrorRules, response.CodeInternal, "error.order_fetch_failed")
}

func respondEarningsError(c *gin.Context, err error) {
	handlershared.RespondMappedError(c, err, handlershared.OrderErrorRules, response.CodeInternal, "error.earnings_fetch_failed")
}
