package models

import "time"

// RateLimit 供应商限流记录
// 仅在探测响应确实携带非零 limit/remaining 值时写入；
// 响应头缺失时保留既有记录不变。Reset 值各家编码不一
// （秒数 / 持续时间 / RFC3339），原样存为字符串，由调用方解析
type RateLimit struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Provider          string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"provider"`
	RequestsLimit     int64     `gorm:"default:0" json:"requests_limit"`
	RequestsRemaining int64     `gorm:"default:0" json:"requests_remaining"`
	RequestsReset     string    `gorm:"type:varchar(64)" json:"requests_reset,omitempty"`
	TokensLimit       int64     `gorm:"default:0" json:"tokens_limit"`
	TokensRemaining   int64     `gorm:"default:0" json:"tokens_remaining"`
	TokensReset       string    `gorm:"type:varchar(64)" json:"tokens_reset,omitempty"`
	CheckedAt         time.Time `json:"checked_at"`
	TTLSeconds        int       `gorm:"not null;default:60" json:"ttl_seconds"` // 限流数据更易失效，默认 60 秒
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// HasValues 是否包含任何非零限流值
func (r *RateLimit) HasValues() bool {
	return r.RequestsLimit > 0 || r.RequestsRemaining > 0 ||
		r.TokensLimit > 0 || r.TokensRemaining > 0
}

// TableName 指定表名
func (RateLimit) TableName() string {
	return "rate_limits"
}
