package models

import "time"

// ProbeLog 探测日志
// 只追加不修改，每个供应商仅保留最近 100 条（写入后裁剪）
type ProbeLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Provider   string    `gorm:"type:varchar(100);not null;index" json:"provider"`
	Action     string    `gorm:"type:varchar(50);not null" json:"action"` // probe / check / invalidate
	Result     string    `gorm:"type:varchar(50);not null" json:"result"`
	DurationMs int64     `gorm:"default:0" json:"duration_ms"`
	Details    string    `gorm:"type:text" json:"details,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName 指定表名
func (ProbeLog) TableName() string {
	return "probe_logs"
}

// ProbeLogRetention 每个供应商保留的日志条数上限
const ProbeLogRetention = 100
