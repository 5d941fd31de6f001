package admin

import (
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/constants"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

func currentActorID(c *gin.Context) uint {
	value, exists := c.Get(constants.ContextKeyActor)
	if !exists {
		return 0
	}
	actor, ok := value.(service.Actor)
	if !ok {
		return 0
	}
	return actor.UserID
}
