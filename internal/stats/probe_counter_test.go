package stats

import (
	"sync"
	"testing"

	"github.com/Mieluoxxx/Vegax-Route/internal/models"
	"github.com/stretchr/testify/assert"
)

// TestProbeCounter_Record 测试基本计数
func TestProbeCounter_Record(t *testing.T) {
	pc := NewProbeCounter()

	pc.RecordProbe(models.StatusHealthy)
	pc.RecordProbe(models.StatusHealthy)
	pc.RecordProbe(models.StatusUnreachable)
	pc.RecordCacheHit()

	assert.Equal(t, int64(3), pc.GetTotal())

	stats := pc.GetStats()
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(1), stats.CacheHits)
	assert.Equal(t, int64(2), stats.ByStatus[models.StatusHealthy])
	assert.Equal(t, int64(1), stats.ByStatus[models.StatusUnreachable])
}

// TestProbeCounter_Empty 零值状态
func TestProbeCounter_Empty(t *testing.T) {
	pc := NewProbeCounter()

	stats := pc.GetStats()
	assert.Equal(t, int64(0), stats.Total)
	assert.Equal(t, int64(0), stats.CacheHits)
	assert.Empty(t, stats.ByStatus)
}

// TestProbeCounter_Concurrent 并发计数不丢
func TestProbeCounter_Concurrent(t *testing.T) {
	pc := NewProbeCounter()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				pc.RecordProbe(models.StatusHealthy)
				pc.RecordCacheHit()
			}
		}()
	}
	wg.Wait()

	stats := pc.GetStats()
	assert.Equal(t, int64(1000), stats.Total)
	assert.Equal(t, int64(1000), stats.CacheHits)
	assert.Equal(t, int64(1000), stats.ByStatus[models.StatusHealthy])
}

// TestProbeCounter_StatsIsolated 返回的快照与内部状态隔离
func TestProbeCounter_StatsIsolated(t *testing.T) {
	pc := NewProbeCounter()
	pc.RecordProbe(models.StatusHealthy)

	stats := pc.GetStats()
	stats.ByStatus[models.StatusHealthy] = 999

	assert.Equal(t, int64(1), pc.GetStats().ByStatus[models.StatusHealthy])
}
