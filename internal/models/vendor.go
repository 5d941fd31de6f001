package models

import (
	"time"

	"gorm.io/gorm"
)

// Vendor 商家表
type Vendor struct {
	ID            uint           `gorm:"primarykey" json:"id"`                         // 主键
	OwnerUserID   uint           `gorm:"index;not null" json:"owner_user_id"`          // 商家账号
	Name          string         `gorm:"type:varchar(255);not null" json:"name"`       // 店铺名称
	Address       string         `gorm:"type:varchar(500)" json:"address"`             // 取货地址
	Latitude      float64        `gorm:"not null;default:0" json:"latitude"`           // 纬度
	Longitude     float64        `gorm:"not null;default:0" json:"longitude"`          // 经度
	AverageRating float64        `gorm:"not null;default:0" json:"average_rating"`     // 平均评分
	TotalRatings  int            `gorm:"not null;default:0" json:"total_ratings"`      // 评分数
	TotalOrders   int            `gorm:"not null;default:0" json:"total_orders"`       // 完成订单数
	IsActive      bool           `gorm:"default:true;index" json:"is_active"`          // 是否营业
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                      // 创建时间
	UpdatedAt     time.Time      `json:"updated_at"`                                   // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                               // 软删除时间
}

// TableName 指定表名
func (Vendor) TableName() string {
	return "vendors"
}
