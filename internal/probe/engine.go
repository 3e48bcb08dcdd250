package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/Mieluoxxx/Vegax-Route/internal/config"
	"github.com/Mieluoxxx/Vegax-Route/internal/credential"
	"github.com/Mieluoxxx/Vegax-Route/internal/models"
	"github.com/Mieluoxxx/Vegax-Route/internal/registry"
	"github.com/Mieluoxxx/Vegax-Route/internal/store"
)

// Options 单次探测选项
type Options struct {
	Force       bool // 跳过缓存，强制发起网络请求
	TTLOverride int  // 本次调用生效的 TTL 覆盖值（秒），0 表示使用默认
	Quiet       bool // 抑制信息级日志
}

// Engine 供应商探测引擎
// 每次探测都是独立的快照分类，不累积历史状态；
// 缓存有效性检查只是分类器前面的一道闸门
type Engine struct {
	repo      *store.Repository
	creds     *credential.Resolver
	registry  *registry.Registry
	client    *http.Client
	healthTTL int
	rateTTL   int

	// 可选的观测回调（serve 模式的内存统计）
	observer func(status models.HealthStatus, fromCache bool)
}

// NewEngine 创建探测引擎
func NewEngine(repo *store.Repository, creds *credential.Resolver, reg *registry.Registry, cfg *config.ProbeConfig) *Engine {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second // 默认 10 秒超时
	}

	healthTTL := cfg.HealthTTLSeconds
	if healthTTL <= 0 {
		healthTTL = 300
	}
	rateTTL := cfg.RateLimitTTLSecond
	if rateTTL <= 0 {
		rateTTL = 60
	}

	return &Engine{
		repo:      repo,
		creds:     creds,
		registry:  reg,
		client:    &http.Client{Timeout: timeout},
		healthTTL: healthTTL,
		rateTTL:   rateTTL,
	}
}

// Registry 返回引擎使用的供应商注册表
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// SetObserver 设置探测结果观测回调
func (e *Engine) SetObserver(fn func(status models.HealthStatus, fromCache bool)) {
	e.observer = fn
}

// observe 上报一次探测结果
func (e *Engine) observe(status models.HealthStatus, fromCache bool) {
	if e.observer != nil {
		e.observer(status, fromCache)
	}
}

// Probe 探测供应商健康状态
// 稳态下的主路径是缓存命中：记录仍在 TTL 内且未强制时，
// 直接返回缓存状态，零网络 IO
func (e *Engine) Probe(ctx context.Context, providerID string, opts Options) (*models.ProviderHealth, error) {
	desc, err := e.registry.Get(providerID)
	if err != nil {
		return nil, err
	}

	// 1. 缓存闸门
	if !opts.Force {
		if cached, err := e.repo.GetHealth(desc.ID); err == nil {
			ttl := store.EffectiveTTL(cached.TTLSeconds, opts.TTLOverride)
			if store.IsFresh(cached.CheckedAt, ttl, time.Now()) {
				e.observe(cached.Status, true)
				return cached, nil
			}
		}
	}

	// 2. 凭证解析；缺失则直接落库返回，不发起网络请求
	apiKey, source, err := e.creds.Resolve(desc)
	if err != nil {
		if errors.Is(err, credential.ErrNoKeyFound) {
			rec := e.newHealthRecord(desc.ID, opts)
			rec.Status = models.StatusNoKey
			rec.ErrorMessage = "no credential found for provider"
			if err := e.persist(rec, "no credential in env/secret-store/file"); err != nil {
				return nil, err
			}
			e.observe(rec.Status, false)
			return rec, nil
		}
		return nil, err
	}

	if !opts.Quiet {
		// 只记录来源，绝不记录凭证值
		log.Printf("探测 %s (凭证来源: %s)", desc.ID, source)
	}

	// 3. 发起轻量列表端点请求
	rec := e.newHealthRecord(desc.ID, opts)
	startTime := time.Now()

	req, err := e.buildRequest(ctx, desc, apiKey)
	if err != nil {
		rec.Status = models.StatusUnreachable
		rec.ErrorMessage = fmt.Sprintf("创建请求失败: %v", err)
		if perr := e.persist(rec, rec.ErrorMessage); perr != nil {
			return nil, perr
		}
		e.observe(rec.Status, false)
		return rec, nil
	}

	resp, err := e.client.Do(req)
	rec.LatencyMs = time.Since(startTime).Milliseconds()

	// 4. 分类：无响应（超时 / DNS / 连接失败）-> unreachable
	if err != nil {
		rec.Status = models.StatusUnreachable
		rec.ErrorMessage = fmt.Sprintf("请求失败: %v", err)
		if perr := e.persist(rec, rec.ErrorMessage); perr != nil {
			return nil, perr
		}
		e.observe(rec.Status, false)
		return rec, nil
	}
	defer resp.Body.Close()

	rec.HTTPCode = resp.StatusCode
	rec.Status = classifyHTTPStatus(resp.StatusCode)

	if rec.Status == models.StatusHealthy {
		rec.ItemCount = countListedItems(resp.Body)
	} else {
		rec.ErrorMessage = fmt.Sprintf("HTTP %d", resp.StatusCode)
	}

	// 5. 落库 + 探测日志（所有分类结果都持久化，失败也是一等缓存事实）
	details := fmt.Sprintf("http=%d items=%d", rec.HTTPCode, rec.ItemCount)
	if err := e.persist(rec, details); err != nil {
		return nil, err
	}

	// 6. 限流头解析；仅在出现非零值时写入
	if limits := ParseRateLimitHeaders(resp.Header, desc); limits != nil {
		limits.CheckedAt = rec.CheckedAt
		limits.TTLSeconds = e.rateTTL
		if err := e.repo.UpsertRateLimit(limits); err != nil {
			return nil, fmt.Errorf("写入限流记录失败: %w", err)
		}
	}

	e.observe(rec.Status, false)
	return rec, nil
}

// ProbeAll 探测所有已注册供应商
func (e *Engine) ProbeAll(ctx context.Context, opts Options) ([]*models.ProviderHealth, error) {
	var results []*models.ProviderHealth
	for _, desc := range e.registry.All() {
		rec, err := e.Probe(ctx, desc.ID, opts)
		if err != nil {
			return results, err
		}
		results = append(results, rec)
	}
	return results, nil
}

// ==================== 私有方法 ====================

// newHealthRecord 构建带时间戳和 TTL 的空记录
func (e *Engine) newHealthRecord(providerID string, opts Options) *models.ProviderHealth {
	ttl := e.healthTTL
	if opts.TTLOverride > 0 {
		ttl = opts.TTLOverride
	}
	return &models.ProviderHealth{
		Provider:   providerID,
		Status:     models.StatusUnknown,
		CheckedAt:  time.Now(),
		TTLSeconds: ttl,
	}
}

// buildRequest 按描述符的认证方式构建请求
func (e *Engine) buildRequest(ctx context.Context, desc *registry.Descriptor, apiKey string) (*http.Request, error) {
	checkURL := desc.ModelsURL()

	// 查询参数认证把密钥拼进 URL
	if desc.Auth == registry.QueryParamAuth {
		params := url.Values{}
		params.Set(desc.QueryParam, apiKey)
		checkURL = checkURL + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", checkURL, nil)
	if err != nil {
		return nil, err
	}

	switch desc.Auth {
	case registry.BearerAuth:
		req.Header.Set("Authorization", "Bearer "+apiKey)
	case registry.APIKeyHeaderAuth:
		req.Header.Set(desc.APIKeyHeader, apiKey)
	}

	for name, value := range desc.ExtraHeaders {
		req.Header.Set(name, value)
	}
	req.Header.Set("User-Agent", "Vegax-Route/1.0")

	return req, nil
}

// persist 落库健康记录并追加探测日志
func (e *Engine) persist(rec *models.ProviderHealth, details string) error {
	if err := e.repo.UpsertHealth(rec); err != nil {
		return fmt.Errorf("写入健康记录失败: %w", err)
	}

	entry := &models.ProbeLog{
		Provider:   rec.Provider,
		Action:     "probe",
		Result:     string(rec.Status),
		DurationMs: rec.LatencyMs,
		Details:    details,
	}
	if err := e.repo.AppendProbeLog(entry); err != nil {
		return fmt.Errorf("写入探测日志失败: %w", err)
	}

	return nil
}

// classifyHTTPStatus 把 HTTP 状态码映射到健康状态
// 无状态的快照分类，不记忆历史失败
func classifyHTTPStatus(code int) models.HealthStatus {
	switch {
	case code >= 200 && code < 300:
		return models.StatusHealthy
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return models.StatusKeyInvalid
	case code == http.StatusTooManyRequests:
		return models.StatusRateLimited
	case code >= 500 && code < 600:
		return models.StatusUnhealthy
	default:
		// 其他意外状态码一律按不健康处理
		return models.StatusUnhealthy
	}
}

// countListedItems 解析列表响应的条目数
// OpenAI 系返回 {"data": [...]}，Google 返回 {"models": [...]}
func countListedItems(body io.Reader) int {
	var payload struct {
		Data   []json.RawMessage `json:"data"`
		Models []json.RawMessage `json:"models"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return 0
	}
	if len(payload.Data) > 0 {
		return len(payload.Data)
	}
	return len(payload.Models)
}
