package models

import (
	"time"

	"gorm.io/gorm"
)

// PromoCode 优惠码
type PromoCode struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                          // 主键
	Code           string         `gorm:"uniqueIndex;not null" json:"code"`                              // 优惠码（大写）
	DiscountType   DiscountType   `gorm:"type:varchar(20);not null" json:"discount_type"`                // percentage / fixed
	DiscountValue  Money          `gorm:"type:decimal(20,2);not null" json:"discount_value"`             // 百分比或固定金额
	MinOrderAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"min_order_amount"` // 使用门槛
	MaxDiscount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"max_discount"`     // 百分比封顶（0 表示不封顶）
	UsageLimit     int            `gorm:"not null;default:0" json:"usage_limit"`                         // 总使用上限（0 表示不限制）
	UsageCount     int            `gorm:"not null;default:0" json:"usage_count"`                         // 已使用次数
	ValidFrom      *time.Time     `gorm:"index" json:"valid_from"`                                       // 生效时间
	ValidUntil     *time.Time     `gorm:"index" json:"valid_until"`                                      // 失效时间
	IsActive       bool           `gorm:"not null;default:true" json:"is_active"`                        // 是否启用
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt      time.Time      `json:"updated_at"`                                                    // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                                // 软删除时间
}

// TableName 指定表名
func (PromoCode) TableName() string {
	return "promo_codes"
}
