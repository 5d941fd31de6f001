package service

import "github.com/rishavthakurer-maker/orderwala-sub001/internal/models"

// Actor 请求发起方，入口处完成鉴权后传入核心逻辑
type Actor struct {
	UserID   uint
	Role     models.ActorRole
	VendorID uint // 仅商家角色有效
}

// SystemActor 系统任务使用的操作者
func SystemActor() Actor {
	return Actor{Role: models.ActorSystem}
}

// IsCustomerOf 是否为订单下单人
func (a Actor) IsCustomerOf(order *models.Order) bool {
	return order != nil && a.Role == models.ActorCustomer && a.UserID != 0 && order.CustomerID == a.UserID
}

// IsVendorOf 是否为订单所属商家
func (a Actor) IsVendorOf(order *models.Order) bool {
	return order != nil && a.Role == models.ActorVendor && a.VendorID != 0 && order.VendorID == a.VendorID
}

// IsPartnerOf 是否为订单配送骑手
func (a Actor) IsPartnerOf(order *models.Order) bool {
	return a.Role == models.ActorDelivery && order.AssignedTo(a.UserID)
}

// CanView 是否可查看订单
func (a Actor) CanView(order *models.Order) bool {
	switch a.Role {
	case models.ActorAdmin, models.ActorSystem:
		return true
	case models.ActorCustomer:
		return a.IsCustomerOf(order)
	case models.ActorVendor:
		return a.IsVendorOf(order)
	case models.ActorDelivery:
		return a.IsPartnerOf(order)
	}
	return false
}
