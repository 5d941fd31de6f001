package models

import "time"

// OrderItem 订单项（下单时快照商品信息）
type OrderItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                      // 主键
	OrderID   uint      `gorm:"index;not null" json:"order_id"`                            // 订单ID
	ProductID uint      `gorm:"index;not null" json:"product_id"`                          // 商品ID
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`                    // 商品名称快照
	UnitPrice Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`   // 单价快照
	Quantity  int       `gorm:"not null" json:"quantity"`                                  // 数量
	Unit      string    `gorm:"type:varchar(32)" json:"unit,omitempty"`                    // 计量单位
	Image     string    `gorm:"type:varchar(500)" json:"image,omitempty"`                  // 图片快照
	LineTotal Money     `gorm:"type:decimal(20,2);not null;default:0" json:"line_total"`   // 行小计
	CreatedAt time.Time `json:"created_at"`                                                // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
