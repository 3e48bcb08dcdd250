package models

import "time"

// HealthStatus 供应商健康状态枚举
type HealthStatus string

const (
	StatusUnknown     HealthStatus = "unknown"      // 初始状态，尚未探测
	StatusHealthy     HealthStatus = "healthy"      // 200
	StatusUnhealthy   HealthStatus = "unhealthy"    // 5xx 或其他异常状态码
	StatusUnreachable HealthStatus = "unreachable"  // 超时 / DNS / 连接失败
	StatusRateLimited HealthStatus = "rate_limited" // 429
	StatusKeyInvalid  HealthStatus = "key_invalid"  // 401 / 403
	StatusNoKey       HealthStatus = "no_key"       // 未找到凭证，未发起请求
)

// IsHealthy 是否为健康状态
func (s HealthStatus) IsHealthy() bool {
	return s == StatusHealthy
}

// ProviderHealth 供应商健康记录
// 每个供应商仅保留一条最新记录（按 provider 唯一键 upsert）
type ProviderHealth struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Provider     string       `gorm:"type:varchar(100);not null;uniqueIndex" json:"provider"`
	Status       HealthStatus `gorm:"type:varchar(20);not null;default:'unknown'" json:"status"`
	HTTPCode     int          `gorm:"default:0" json:"http_code"`
	LatencyMs    int64        `gorm:"default:0" json:"latency_ms"`
	ErrorMessage string       `gorm:"type:text" json:"error_message,omitempty"`
	ItemCount    int          `gorm:"default:0" json:"item_count"` // 模型列表条目数
	CheckedAt    time.Time    `json:"checked_at"`
	TTLSeconds   int          `gorm:"not null;default:300" json:"ttl_seconds"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// TableName 指定表名
func (ProviderHealth) TableName() string {
	return "provider_health"
}
