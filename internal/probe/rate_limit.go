package probe

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Mieluoxxx/Vegax-Route/internal/models"
	"github.com/Mieluoxxx/Vegax-Route/internal/registry"
)

// ParseRateLimitHeaders 按描述符声明的头名称提取限流值
// 各供应商对同一语义量（请求/令牌的 limit、remaining、reset）
// 使用不同的头命名，这里统一落到 RateLimit 记录的同名字段。
// 未出现任何非零 limit/remaining 值时返回 nil，调用方不写库
func ParseRateLimitHeaders(h http.Header, desc *registry.Descriptor) *models.RateLimit {
	names := desc.RateLimit

	rec := &models.RateLimit{
		Provider:          desc.ID,
		RequestsLimit:     headerInt(h, names.RequestsLimit),
		RequestsRemaining: headerInt(h, names.RequestsRemaining),
		RequestsReset:     headerString(h, names.RequestsReset),
		TokensLimit:       headerInt(h, names.TokensLimit),
		TokensRemaining:   headerInt(h, names.TokensRemaining),
		TokensReset:       headerString(h, names.TokensReset),
	}

	if !rec.HasValues() {
		return nil
	}
	return rec
}

// headerInt 读取整数头值，缺失或无法解析按 0 处理
func headerInt(h http.Header, name string) int64 {
	if name == "" {
		return 0
	}
	raw := strings.TrimSpace(h.Get(name))
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return value
}

// headerString 读取字符串头值
// reset 值各家编码不一（秒数 / 持续时间 / RFC3339），原样保留
func headerString(h http.Header, name string) string {
	if name == "" {
		return ""
	}
	return strings.TrimSpace(h.Get(name))
}
