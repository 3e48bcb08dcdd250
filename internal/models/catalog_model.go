package models

import "time"

// CatalogModel 模型目录条目
// 由兄弟工具维护的只读目录表，本核心只查询不写入，
// 用于可用性判定时按 model_id 子串匹配
type CatalogModel struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Provider    string    `gorm:"type:varchar(100);not null;index" json:"provider"`
	ModelID     string    `gorm:"type:varchar(200);not null;index" json:"model_id"`
	DisplayName string    `gorm:"type:varchar(200)" json:"display_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName 指定表名
func (CatalogModel) TableName() string {
	return "catalog_models"
}
