package models

import "time"

// AvailabilitySource 可用性判定依据
type AvailabilitySource string

const (
	SourceCache    AvailabilitySource = "cache"    // 缓存命中
	SourceSnapshot AvailabilitySource = "snapshot" // 本地目录快照
	SourceRegistry AvailabilitySource = "registry" // 只读目录表模糊匹配
	SourceAssumed  AvailabilitySource = "assumed"  // 无证据时的乐观默认值
)

// ModelAvailability 模型可用性记录
// (provider, model_id) 组合唯一键，upsert 保持单条记录
type ModelAvailability struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Provider   string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_model_provider" json:"provider"`
	ModelID    string    `gorm:"type:varchar(200);not null;uniqueIndex:idx_model_provider" json:"model_id"`
	Available  bool      `gorm:"not null;default:false" json:"available"`
	CheckedAt  time.Time `json:"checked_at"`
	TTLSeconds int       `gorm:"not null;default:300" json:"ttl_seconds"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName 指定表名
func (ModelAvailability) TableName() string {
	return "model_availability"
}
