package models

import "time"

// OrderStatusHistory 订单状态流水（只追加）
type OrderStatusHistory struct {
	ID        uint        `gorm:"primarykey" json:"id"`
	OrderID   uint        `gorm:"index;not null" json:"order_id"`
	Status    OrderStatus `gorm:"type:varchar(20);not null" json:"status"`
	Note      string      `gorm:"type:varchar(500)" json:"note,omitempty"`
	ActorRole ActorRole   `gorm:"type:varchar(20);not null" json:"actor_role"`
	ActorID   uint        `json:"actor_id,omitempty"`
	CreatedAt time.Time   `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (OrderStatusHistory) TableName() string {
	return "order_status_histories"
}
