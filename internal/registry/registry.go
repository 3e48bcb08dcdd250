package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrUnknownProvider 未知供应商
	ErrUnknownProvider = errors.New("unknown provider")
)

// AuthStyle 认证方式枚举（封闭集合）
type AuthStyle int

const (
	// BearerAuth Authorization: Bearer <key>
	BearerAuth AuthStyle = iota
	// APIKeyHeaderAuth 专用密钥头 + 版本头（如 Anthropic）
	APIKeyHeaderAuth
	// QueryParamAuth 密钥作为查询参数（如 Google）
	QueryParamAuth
)

// String 返回认证方式名称
func (a AuthStyle) String() string {
	switch a {
	case BearerAuth:
		return "bearer"
	case APIKeyHeaderAuth:
		return "api-key-header"
	case QueryParamAuth:
		return "query-param"
	default:
		return "unknown"
	}
}

// RateLimitHeaders 限流响应头名称
// 各供应商对同一语义量使用不同的头命名约定，
// 描述符里记录各自的名称，解析后统一落到 RateLimit 记录字段
type RateLimitHeaders struct {
	RequestsLimit     string
	RequestsRemaining string
	RequestsReset     string
	TokensLimit       string
	TokensRemaining   string
	TokensReset       string
}

// Descriptor 供应商静态描述符
type Descriptor struct {
	ID            string            // 供应商标识，如 "anthropic"
	BaseURL       string            // API 基础地址
	ModelsPath    string            // 轻量模型列表端点路径
	Auth          AuthStyle         // 认证方式
	QueryParam    string            // QueryParamAuth 时的参数名
	APIKeyHeader  string            // APIKeyHeaderAuth 时的密钥头名
	ExtraHeaders  map[string]string // 附加请求头（如版本头）
	KeyEnvVars    []string          // 按优先级排列的凭证环境变量名（可有多个别名）
	ModelPrefixes []string          // 模型名前缀启发式，用于从裸模型名推断供应商
	RateLimit     RateLimitHeaders  // 限流头名称
}

// ModelsURL 构建模型列表端点完整地址
func (d *Descriptor) ModelsURL() string {
	return strings.TrimRight(d.BaseURL, "/") + d.ModelsPath
}

// ==================== 注册表 ====================

// Registry 供应商注册表
// 以描述符表取代按名称的 switch/case 分发
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]*Descriptor
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{
		descriptors: make(map[string]*Descriptor),
	}
}

// Register 注册供应商描述符
// 重复注册同名供应商视为配置错误
func (r *Registry) Register(d *Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d == nil || d.ID == "" {
		return errors.New("descriptor must have an id")
	}
	if _, exists := r.descriptors[d.ID]; exists {
		return fmt.Errorf("provider %q already registered", d.ID)
	}
	r.descriptors[d.ID] = d
	return nil
}

// Get 按 ID 查找描述符
func (r *Registry) Get(id string) (*Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.descriptors[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, id)
	}
	return d, nil
}

// Has 检查供应商是否已注册
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.descriptors[strings.ToLower(strings.TrimSpace(id))]
	return ok
}

// All 返回所有描述符（按 ID 排序，保证输出稳定）
func (r *Registry) All() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Descriptor, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// InferProvider 从裸模型名推断供应商
// 按已知前缀启发式匹配，如 "claude-*" -> anthropic；
// 匹配失败返回 ErrUnknownProvider
func (r *Registry) InferProvider(modelName string) (*Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lower := strings.ToLower(strings.TrimSpace(modelName))
	if lower == "" {
		return nil, fmt.Errorf("%w: empty model name", ErrUnknownProvider)
	}

	// 遍历顺序固定，避免多个前缀命中时结果抖动
	ids := make([]string, 0, len(r.descriptors))
	for id := range r.descriptors {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		for _, prefix := range r.descriptors[id].ModelPrefixes {
			if strings.HasPrefix(lower, prefix) {
				return r.descriptors[id], nil
			}
		}
	}

	return nil, fmt.Errorf("%w: cannot infer provider for model %q", ErrUnknownProvider, modelName)
}
