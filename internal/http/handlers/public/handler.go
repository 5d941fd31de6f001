package public

import "github.com/rishavthakurer-maker/orderwala-sub001/internal/provider"

// Handler 订单接口处理器入口
// 说明：顾客、商家、骑手共用 /orders 资源，可见范围由业务层按操作者收敛。
type Handler struct {
	*provider.Container
}

// New 创建订单接口处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
