package public

import (
	handlershared "github.com/rishavthakurer-maker/orderwala-sub001/internal/http/handlers/shared"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/http/response"

	"github.com/gin-gonic/gin"
)

func respondOrderCreateError(c *gin.Context, err error) {
	handlershared.RespondMappedError(c, err, handlershared.OrderErrorRules, response.CodeInternal, "error.order_create_failed")
}

func respondOrderFetchError(c *gin.Context, err error) {
	handlershared.RespondMappedError(c, err, handlershared.OrderErrorRules, response.CodeInternal, "error.order_fetch_failed")
}

func respondOrderUpdateError(c *gin.Context, err error) {
	handlershared.RespondMappedError(c, err, handlershared.OrderErrorRules, response.CodeInternal, "error.order_update_failed")
}

func respondRatingError(c *gin.Context, err error) {
	handlershared.RespondMappedError(c, err, handlershared.OrderErrorRules, response.CodeInternal, "error.rating_failed")
}

func respondPromoValidateError(c *gin.Context, err error) {
	handlershared.RespondMappedError(c, err, handlershared.OrderErrorRules, response.CodeInternal, "error.promo_validate_failed")
}
