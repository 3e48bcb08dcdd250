package availability

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Mieluoxxx/Vegax-Route/internal/catalog"
	"github.com/Mieluoxxx/Vegax-Route/internal/models"
	"github.com/Mieluoxxx/Vegax-Route/internal/probe"
	"github.com/Mieluoxxx/Vegax-Route/internal/registry"
	"github.com/Mieluoxxx/Vegax-Route/internal/store"
)

// Result 可用性检查结果
type Result struct {
	ModelSpec string                    `json:"model_spec"` // 归一化后的 provider/model
	Provider  string                    `json:"provider"`
	ModelID   string                    `json:"model_id"`
	Status    models.HealthStatus       `json:"status"` // 供应商健康分类，原样透传
	Available bool                      `json:"available"`
	Source    models.AvailabilitySource `json:"source,omitempty"` // 判定依据
}

// OK 模型当前是否可服务
func (r *Result) OK() bool {
	return r.Status.IsHealthy() && r.Available
}

// Checker 模型可用性检查器
// 供应商健康是主导信号：供应商不健康时模型不可能可用，
// 分类原样向上传播；供应商健康时再逐级查可用性证据
type Checker struct {
	engine   *probe.Engine
	repo     *store.Repository
	registry *registry.Registry
	snapshot *catalog.Snapshot
	availTTL int
}

// NewChecker 创建可用性检查器
func NewChecker(engine *probe.Engine, repo *store.Repository, snapshot *catalog.Snapshot, availTTLSeconds int) *Checker {
	if availTTLSeconds <= 0 {
		availTTLSeconds = 300
	}
	if snapshot == nil {
		snapshot = catalog.NewSnapshot(nil)
	}
	return &Checker{
		engine:   engine,
		repo:     repo,
		registry: engine.Registry(),
		snapshot: snapshot,
		availTTL: availTTLSeconds,
	}
}

// Check 检查模型是否可服务
// modelSpec 支持 "provider/model" 和裸模型名两种写法；
// 裸名按注册表的前缀启发式推断供应商，推断失败返回 ErrUnknownProvider
func (c *Checker) Check(ctx context.Context, modelSpec string, opts probe.Options) (*Result, error) {
	// 1. 解析模型标识
	desc, modelID, err := c.parseSpec(modelSpec)
	if err != nil {
		return nil, err
	}

	result := &Result{
		ModelSpec: desc.ID + "/" + modelID,
		Provider:  desc.ID,
		ModelID:   modelID,
	}

	// 2. 供应商健康探测；不健康时分类原样传播
	health, err := c.engine.Probe(ctx, desc.ID, opts)
	if err != nil {
		return nil, err
	}
	result.Status = health.Status
	if !health.Status.IsHealthy() {
		return result, nil
	}

	// 3. 供应商健康，按优先级解析模型级可用性
	available, source := c.resolveAvailability(desc.ID, modelID, opts)
	result.Available = available
	result.Source = source

	if !opts.Quiet && source == models.SourceAssumed {
		log.Printf("模型 %s 无目录证据，按可用处理", result.ModelSpec)
	}

	// 4. 返回前写回可用性记录
	rec := &models.ModelAvailability{
		Provider:   desc.ID,
		ModelID:    modelID,
		Available:  available,
		CheckedAt:  time.Now(),
		TTLSeconds: c.availTTL,
	}
	if err := c.repo.UpsertAvailability(rec); err != nil {
		return nil, fmt.Errorf("写入可用性记录失败: %w", err)
	}

	return result, nil
}

// parseSpec 解析模型标识
func (c *Checker) parseSpec(modelSpec string) (*registry.Descriptor, string, error) {
	spec := strings.TrimSpace(modelSpec)
	if spec == "" {
		return nil, "", fmt.Errorf("%w: empty model spec", registry.ErrUnknownProvider)
	}

	// 显式 provider/model 前缀优先
	if providerID, modelID, found := strings.Cut(spec, "/"); found && c.registry.Has(providerID) {
		return mustGet(c.registry, providerID), strings.TrimSpace(modelID), nil
	}

	// 裸模型名走前缀启发式推断
	desc, err := c.registry.InferProvider(spec)
	if err != nil {
		return nil, "", err
	}
	return desc, spec, nil
}

// resolveAvailability 按优先级解析模型级可用性
// 顺序：缓存命中 -> 目录快照 -> 只读目录表子串匹配 -> 乐观默认。
// 最后一档是明确保留的策略选择：无相反证据时供应商健康视为主导信号
func (c *Checker) resolveAvailability(providerID, modelID string, opts probe.Options) (bool, models.AvailabilitySource) {
	// (a) 新鲜的可用性缓存
	if !opts.Force {
		if cached, err := c.repo.GetAvailability(providerID, modelID); err == nil {
			ttl := store.EffectiveTTL(cached.TTLSeconds, opts.TTLOverride)
			if store.IsFresh(cached.CheckedAt, ttl, time.Now()) {
				return cached.Available, models.SourceCache
			}
		}
	}

	// (b) 本地目录快照：有该供应商的数据时按成员关系判定
	if c.snapshot.HasProvider(providerID) {
		return c.snapshot.Exists(providerID, modelID), models.SourceSnapshot
	}

	// (c) 只读目录表：按 model_id 子串匹配
	if matches, err := c.repo.SearchCatalog(providerID, modelID); err == nil && len(matches) > 0 {
		return true, models.SourceRegistry
	}

	// (d) 无证据时的乐观默认值（明确的策略选择，不是疏漏）
	return true, models.SourceAssumed
}

// mustGet 已通过 Has 确认存在后的查找
func mustGet(r *registry.Registry, id string) *registry.Descriptor {
	d, _ := r.Get(id)
	return d
}
