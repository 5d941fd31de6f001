package models

import (
	"time"
)

// Address 配送地址快照
type Address struct {
	Line      string  `gorm:"type:varchar(500)" json:"line"`     // 详细地址
	City      string  `gorm:"type:varchar(120)" json:"city"`     // 城市
	Pincode   string  `gorm:"type:varchar(20)" json:"pincode"`   // 邮编
	Phone     string  `gorm:"type:varchar(32)" json:"phone"`     // 联系电话
	Latitude  float64 `gorm:"not null;default:0" json:"latitude"`  // 纬度
	Longitude float64 `gorm:"not null;default:0" json:"longitude"` // 经度
}

// Order 订单表
type Order struct {
	ID                uint          `gorm:"primarykey" json:"id"`                                             // 主键
	OrderNo           string        `gorm:"uniqueIndex;not null" json:"order_no"`                             // 订单编号
	CustomerID        uint          `gorm:"index;not null" json:"customer_id"`                                // 下单用户
	VendorID          uint          `gorm:"index;not null" json:"vendor_id"`                                  // 商家
	DeliveryPartnerID *uint         `gorm:"index" json:"delivery_partner_id,omitempty"`                       // 骑手（接单前为空）
	Subtotal          Money         `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`            // 商品小计
	DeliveryFee       Money         `gorm:"type:decimal(20,2);not null;default:0" json:"delivery_fee"`        // 配送费
	Discount          Money         `gorm:"type:decimal(20,2);not null;default:0" json:"discount"`            // 优惠金额
	Total             Money         `gorm:"type:decimal(20,2);not null;default:0" json:"total"`               // 应付金额
	Status            OrderStatus   `gorm:"type:varchar(20);index;not null" json:"status"`                    // 订单状态
	Version           int           `gorm:"not null;default:0" json:"version"`                                // 乐观锁版本
	PaymentMethod     string        `gorm:"type:varchar(20);not null" json:"payment_method"`                  // 支付方式
	PaymentStatus     PaymentStatus `gorm:"type:varchar(20);not null" json:"payment_status"`                  // 支付状态
	PromoCodeID       *uint         `gorm:"index" json:"promo_code_id,omitempty"`                             // 优惠码ID
	PromoCode         string        `gorm:"type:varchar(64)" json:"promo_code,omitempty"`                     // 优惠码
	DeliveryAddress   Address       `gorm:"embedded;embeddedPrefix:delivery_" json:"delivery_address"`        // 地址快照
	Instructions      string        `gorm:"type:text" json:"instructions,omitempty"`                          // 配送备注
	DeliveryEarnings  Money         `gorm:"type:decimal(20,2);not null;default:0" json:"delivery_earnings"`   // 骑手收入
	Rating            *int          `json:"rating,omitempty"`                                                 // 商品整体评分
	Review            string        `gorm:"type:text" json:"review,omitempty"`                                // 商品评价
	DeliveryRating    *int          `json:"delivery_rating,omitempty"`                                        // 配送评分
	DeliveryFeedback  string        `gorm:"type:text" json:"delivery_feedback,omitempty"`                     // 配送评价
	RatedAt           *time.Time    `json:"rated_at,omitempty"`                                               // 评价时间
	AssignedAt        *time.Time    `json:"assigned_at,omitempty"`                                            // 接单时间
	ConfirmedAt       *time.Time    `json:"confirmed_at,omitempty"`                                           // 商家确认时间
	PreparingAt       *time.Time    `json:"preparing_at,omitempty"`                                           // 备货时间
	ReadyAt           *time.Time    `json:"ready_at,omitempty"`                                               // 待取货时间
	PickedUpAt        *time.Time    `json:"picked_up_at,omitempty"`                                           // 取货时间
	OnTheWayAt        *time.Time    `json:"on_the_way_at,omitempty"`                                          // 配送中时间
	DeliveredAt       *time.Time    `gorm:"index" json:"delivered_at,omitempty"`                              // 送达时间
	CancelledAt       *time.Time    `json:"cancelled_at,omitempty"`                                           // 取消时间
	CancelReason      string        `gorm:"type:varchar(500)" json:"cancel_reason,omitempty"`                 // 取消原因
	CancelledBy       ActorRole     `gorm:"type:varchar(20)" json:"cancelled_by,omitempty"`                   // 取消方
	CreatedAt         time.Time     `gorm:"index" json:"created_at"`                                          // 创建时间
	UpdatedAt         time.Time     `json:"updated_at"`                                                       // 更新时间

	Items         []OrderItem          `gorm:"foreignKey:OrderID" json:"items,omitempty"`          // 订单项
	StatusHistory []OrderStatusHistory `gorm:"foreignKey:OrderID" json:"status_history,omitempty"` // 状态流水
	Vendor        *Vendor              `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`        // 商家
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// IsAssigned 是否已有骑手接单
func (o *Order) IsAssigned() bool {
	return o != nil && o.DeliveryPartnerID != nil && *o.DeliveryPartnerID != 0
}

// AssignedTo 是否由指定骑手配送
func (o *Order) AssignedTo(partnerID uint) bool {
	return o.IsAssigned() && *o.DeliveryPartnerID == partnerID
}
