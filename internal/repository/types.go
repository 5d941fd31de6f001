package repository

import (
	"time"

	"github.com/rishavthakurer-maker/orderwala-sub001/internal/models"
)

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page              int
	PageSize          int
	CustomerID        uint
	VendorID          uint
	DeliveryPartnerID uint
	Statuses          []models.OrderStatus
	OrderNo           string
	CreatedFrom       *time.Time
	CreatedTo         *time.Time
}

// DeliveredOrderFilter 骑手已完成订单查询条件
type DeliveredOrderFilter struct {
	PartnerID     uint
	DeliveredFrom *time.Time
	DeliveredTo   *time.Time
}

// RatingAggregate 评分聚合结果
type RatingAggregate struct {
	Average float64
	Count   int64
}
