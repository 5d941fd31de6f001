package shared

import (
	"strconv"
	"strings"

	"github.com/rishavthakurer-maker/orderwala-sub001/internal/constants"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/http/response"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/models"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

// GetActor 读取鉴权中间件写入的操作者，缺失时返回 401。
func GetActor(c *gin.Context) (service.Actor, bool) {
	value, exists := c.Get(constants.ContextKeyActor)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return service.Actor{}, false
	}
	actor, ok := value.(service.Actor)
	if !ok || actor.UserID == 0 {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return service.Actor{}, false
	}
	return actor, true
}

// ParseIDParam 解析路径中的正整数 ID。
func ParseIDParam(c *gin.Context, name, invalidKey string) (uint, bool) {
	parsed, err := strconv.ParseUint(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || parsed == 0 {
		RespondError(c, response.CodeBadRequest, invalidKey, nil)
		return 0, false
	}
	return uint(parsed), true
}

// ParsePageQuery 读取并归一化分页参数。
func ParsePageQuery(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return NormalizePagination(page, pageSize)
}

// ParseStatusFilter 解析逗号分隔的订单状态过滤条件。
func ParseStatusFilter(raw string) ([]models.OrderStatus, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	var statuses []models.OrderStatus
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		status, ok := models.ParseOrderStatus(part)
		if !ok {
			return nil, false
		}
		statuses = append(statuses, status)
	}
	return statuses, true
}
