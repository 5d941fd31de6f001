package public

import (
	handlershared "github.com/rishavthakurer-maker/orderwala-sub001/internal/http/handlers/shared"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

func getActor(c *gin.Context) (service.Actor, bool) {
	return handlershared.GetActor(c)
}

func parseOrderID(c *gin.Context) (uint, bool) {
	return handlershared.ParseIDParam(c, "id", "error.order_id_invalid")
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}
