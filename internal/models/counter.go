package models

// Counter 命名序列计数器
type Counter struct {
	Name  string `gorm:"primaryKey;type:varchar(64)" json:"name"`
	Value int64  `gorm:"not null;default:0" json:"value"`
}

// TableName 指定表名
func (Counter) TableName() string {
	return "counters"
}
