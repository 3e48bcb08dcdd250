package stats

import (
	"sync"
	"sync/atomic"

	"github.com/Mieluoxxx/Vegax-Route/internal/models"
)

// ProbeCounter 探测计数器
// serve 模式下的内存统计，进程退出即清零；持久化的事实在
// probe_logs 表里，这里只为状态面板提供便宜的实时视图
type ProbeCounter struct {
	totalProbes int64 // 总探测数（原子操作）
	cacheHits   int64 // 缓存短路数（原子操作）

	mutex    sync.RWMutex
	byStatus map[models.HealthStatus]int64
}

// NewProbeCounter 创建探测计数器
func NewProbeCounter() *ProbeCounter {
	return &ProbeCounter{
		byStatus: make(map[models.HealthStatus]int64),
	}
}

// RecordProbe 记录一次探测结果
func (pc *ProbeCounter) RecordProbe(status models.HealthStatus) {
	atomic.AddInt64(&pc.totalProbes, 1)

	pc.mutex.Lock()
	pc.byStatus[status]++
	pc.mutex.Unlock()
}

// RecordCacheHit 记录一次缓存短路
func (pc *ProbeCounter) RecordCacheHit() {
	atomic.AddInt64(&pc.cacheHits, 1)
}

// GetTotal 获取总探测数
func (pc *ProbeCounter) GetTotal() int64 {
	return atomic.LoadInt64(&pc.totalProbes)
}

// GetStats 获取统计信息
func (pc *ProbeCounter) GetStats() ProbeStats {
	pc.mutex.RLock()
	byStatus := make(map[models.HealthStatus]int64, len(pc.byStatus))
	for status, count := range pc.byStatus {
		byStatus[status] = count
	}
	pc.mutex.RUnlock()

	return ProbeStats{
		Total:     atomic.LoadInt64(&pc.totalProbes),
		CacheHits: atomic.LoadInt64(&pc.cacheHits),
		ByStatus:  byStatus,
	}
}

// ProbeStats 探测统计信息
type ProbeStats struct {
	Total     int64                          `json:"total"`
	CacheHits int64                          `json:"cache_hits"`
	ByStatus  map[models.HealthStatus]int64 `json:"by_status"`
}
