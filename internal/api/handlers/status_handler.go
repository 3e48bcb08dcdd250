package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Mieluoxxx/Vegax-Route/internal/models"
	"github.com/Mieluoxxx/Vegax-Route/internal/probe"
	"github.com/Mieluoxxx/Vegax-Route/internal/registry"
	"github.com/Mieluoxxx/Vegax-Route/internal/stats"
	"github.com/Mieluoxxx/Vegax-Route/internal/store"
	"github.com/gin-gonic/gin"
)

// StatusHandler 状态面板处理器
// serve 模式下暴露缓存库的只读视图和按需探测入口
type StatusHandler struct {
	engine  *probe.Engine
	repo    *store.Repository
	counter *stats.ProbeCounter
}

// NewStatusHandler 创建状态处理器
func NewStatusHandler(engine *probe.Engine, repo *store.Repository, counter *stats.ProbeCounter) *StatusHandler {
	return &StatusHandler{
		engine:  engine,
		repo:    repo,
		counter: counter,
	}
}

// ProviderStatus 单个供应商的状态视图
type ProviderStatus struct {
	*models.ProviderHealth
	Fresh bool `json:"fresh"` // 记录是否仍在 TTL 内
}

// GetStatus 获取所有供应商健康记录
func (h *StatusHandler) GetStatus(c *gin.Context) {
	recs, err := h.repo.ListHealth()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	statuses := make([]ProviderStatus, 0, len(recs))
	for _, rec := range recs {
		statuses = append(statuses, ProviderStatus{
			ProviderHealth: rec,
			Fresh:          store.IsFresh(rec.CheckedAt, rec.TTLSeconds, now),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"providers": statuses,
		"total":     len(statuses),
	})
}

// RateLimitStatus 单个供应商的限流视图
type RateLimitStatus struct {
	*models.RateLimit
	Fresh bool `json:"fresh"`
}

// GetRateLimits 获取所有限流记录
func (h *StatusHandler) GetRateLimits(c *gin.Context) {
	recs, err := h.repo.ListRateLimits()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	limits := make([]RateLimitStatus, 0, len(recs))
	for _, rec := range recs {
		limits = append(limits, RateLimitStatus{
			RateLimit: rec,
			Fresh:     store.IsFresh(rec.CheckedAt, rec.TTLSeconds, now),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"rate_limits": limits,
		"total":       len(limits),
	})
}

// ProbeProvider 按需探测单个供应商
// ?force=1 跳过缓存
func (h *StatusHandler) ProbeProvider(c *gin.Context) {
	providerID := c.Param("provider")
	force := c.Query("force") == "1" || c.Query("force") == "true"

	rec, err := h.engine.Probe(c.Request.Context(), providerID, probe.Options{
		Force: force,
		Quiet: true,
	})
	if err != nil {
		if errors.Is(err, registry.ErrUnknownProvider) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rec)
}

// InvalidateProvider 清除供应商缓存
// provider 为 "all" 时清除全部
func (h *StatusHandler) InvalidateProvider(c *gin.Context) {
	providerID := c.Param("provider")

	var err error
	if providerID == "all" {
		err = h.repo.InvalidateAll()
	} else {
		if !h.engine.Registry().Has(providerID) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown provider: " + providerID})
			return
		}
		err = h.repo.Invalidate(providerID)
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"invalidated": providerID})
}

// GetStats 获取进程内探测统计
func (h *StatusHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.counter.GetStats())
}

// GetProbeLogs 获取供应商最近的探测日志
func (h *StatusHandler) GetProbeLogs(c *gin.Context) {
	providerID := c.Param("provider")

	logs, err := h.repo.ListProbeLogs(providerID, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"provider": providerID,
		"logs":     logs,
		"total":    len(logs),
	})
}
