package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                    // 主键
	VendorID      uint           `gorm:"index;not null" json:"vendor_id"`                         // 所属商家
	Name          string         `gorm:"type:varchar(255);not null" json:"name"`                  // 名称
	Unit          string         `gorm:"type:varchar(32)" json:"unit"`                            // 计量单位（kg/pcs）
	Image         string         `gorm:"type:varchar(500)" json:"image"`                          // 主图
	Price         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`      // 售价
	Stock         int            `gorm:"not null;default:0" json:"stock"`                         // 库存（>= 0）
	AverageRating float64        `gorm:"not null;default:0" json:"average_rating"`                // 平均评分
	TotalRatings  int            `gorm:"not null;default:0" json:"total_ratings"`                 // 评分人数
	IsActive      bool           `gorm:"default:true;index" json:"is_active"`                     // 是否上架
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                 // 创建时间
	UpdatedAt     time.Time      `json:"updated_at"`                                              // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                          // 软删除时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
