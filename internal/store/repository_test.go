package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/Mieluoxxx/Vegax-Route/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB 创建测试数据库
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// 自动迁移
	err = db.AutoMigrate(
		&models.ProviderHealth{},
		&models.ModelAvailability{},
		&models.RateLimit{},
		&models.ProbeLog{},
		&models.CatalogModel{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// TestRepository_UpsertHealth 测试健康记录 upsert 保持单行
func TestRepository_UpsertHealth(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	first := &models.ProviderHealth{
		Provider:   "acme",
		Status:     models.StatusHealthy,
		HTTPCode:   200,
		CheckedAt:  time.Now(),
		TTLSeconds: 300,
	}
	if err := repo.UpsertHealth(first); err != nil {
		t.Fatalf("UpsertHealth() failed: %v", err)
	}

	// 第二次写同一供应商应覆盖而非新增
	second := &models.ProviderHealth{
		Provider:   "acme",
		Status:     models.StatusRateLimited,
		HTTPCode:   429,
		CheckedAt:  time.Now(),
		TTLSeconds: 300,
	}
	if err := repo.UpsertHealth(second); err != nil {
		t.Fatalf("UpsertHealth() second write failed: %v", err)
	}

	recs, err := repo.ListHealth()
	if err != nil {
		t.Fatalf("ListHealth() failed: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected exactly one row per provider, got %d", len(recs))
	}
	if recs[0].Status != models.StatusRateLimited {
		t.Errorf("status = %v, want %v", recs[0].Status, models.StatusRateLimited)
	}
	if recs[0].HTTPCode != 429 {
		t.Errorf("http_code = %v, want 429", recs[0].HTTPCode)
	}
}

// TestRepository_GetHealth_NotFound 测试记录不存在
func TestRepository_GetHealth_NotFound(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	_, err := repo.GetHealth("nonexistent")
	if err != ErrRecordNotFound {
		t.Errorf("GetHealth() error = %v, want %v", err, ErrRecordNotFound)
	}
}

// TestRepository_UpsertAvailability 测试可用性组合键 upsert
func TestRepository_UpsertAvailability(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	rec := &models.ModelAvailability{
		Provider:   "acme",
		ModelID:    "model-a",
		Available:  true,
		CheckedAt:  time.Now(),
		TTLSeconds: 300,
	}
	if err := repo.UpsertAvailability(rec); err != nil {
		t.Fatalf("UpsertAvailability() failed: %v", err)
	}

	// 同一组合键覆盖
	rec2 := &models.ModelAvailability{
		Provider:   "acme",
		ModelID:    "model-a",
		Available:  false,
		CheckedAt:  time.Now(),
		TTLSeconds: 300,
	}
	if err := repo.UpsertAvailability(rec2); err != nil {
		t.Fatalf("UpsertAvailability() second write failed: %v", err)
	}

	found, err := repo.GetAvailability("acme", "model-a")
	if err != nil {
		t.Fatalf("GetAvailability() failed: %v", err)
	}
	if found.Available {
		t.Error("availability should have been overwritten to false")
	}

	// 不同模型是另一行
	rec3 := &models.ModelAvailability{
		Provider:   "acme",
		ModelID:    "model-b",
		Available:  true,
		CheckedAt:  time.Now(),
		TTLSeconds: 300,
	}
	if err := repo.UpsertAvailability(rec3); err != nil {
		t.Fatalf("UpsertAvailability() for second model failed: %v", err)
	}
	if _, err := repo.GetAvailability("acme", "model-b"); err != nil {
		t.Errorf("GetAvailability(model-b) failed: %v", err)
	}
}

// TestRepository_UpsertRateLimit 测试限流记录 upsert
func TestRepository_UpsertRateLimit(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	rec := &models.RateLimit{
		Provider:          "acme",
		RequestsLimit:     1000,
		RequestsRemaining: 998,
		RequestsReset:     "60",
		CheckedAt:         time.Now(),
		TTLSeconds:        60,
	}
	if err := repo.UpsertRateLimit(rec); err != nil {
		t.Fatalf("UpsertRateLimit() failed: %v", err)
	}

	found, err := repo.GetRateLimit("acme")
	if err != nil {
		t.Fatalf("GetRateLimit() failed: %v", err)
	}
	if found.RequestsRemaining != 998 {
		t.Errorf("requests_remaining = %v, want 998", found.RequestsRemaining)
	}
}

// TestRepository_ProbeLogRetention 测试探测日志保留上限
func TestRepository_ProbeLogRetention(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	// 写入超过保留上限的日志
	total := models.ProbeLogRetention + 20
	for i := 0; i < total; i++ {
		entry := &models.ProbeLog{
			Provider: "acme",
			Action:   "probe",
			Result:   "healthy",
			Details:  fmt.Sprintf("entry-%d", i),
		}
		if err := repo.AppendProbeLog(entry); err != nil {
			t.Fatalf("AppendProbeLog() failed at %d: %v", i, err)
		}
	}

	logs, err := repo.ListProbeLogs("acme", 0)
	if err != nil {
		t.Fatalf("ListProbeLogs() failed: %v", err)
	}
	if len(logs) != models.ProbeLogRetention {
		t.Errorf("retained %d logs, want %d", len(logs), models.ProbeLogRetention)
	}

	// 最新的条目应还在，最旧的应被裁剪
	if logs[0].Details != fmt.Sprintf("entry-%d", total-1) {
		t.Errorf("newest entry = %s, want entry-%d", logs[0].Details, total-1)
	}
}

// TestRepository_ProbeLogRetention_PerProvider 裁剪按供应商独立
func TestRepository_ProbeLogRetention_PerProvider(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	for i := 0; i < models.ProbeLogRetention+5; i++ {
		repo.AppendProbeLog(&models.ProbeLog{Provider: "acme", Action: "probe", Result: "healthy"})
	}
	for i := 0; i < 3; i++ {
		repo.AppendProbeLog(&models.ProbeLog{Provider: "beta", Action: "probe", Result: "unhealthy"})
	}

	betaLogs, err := repo.ListProbeLogs("beta", 0)
	if err != nil {
		t.Fatalf("ListProbeLogs(beta) failed: %v", err)
	}
	if len(betaLogs) != 3 {
		t.Errorf("beta logs = %d, want 3 (must not be pruned by acme writes)", len(betaLogs))
	}
}

// TestRepository_Invalidate 测试单供应商缓存清除
func TestRepository_Invalidate(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	now := time.Now()
	repo.UpsertHealth(&models.ProviderHealth{Provider: "acme", Status: models.StatusHealthy, CheckedAt: now, TTLSeconds: 300})
	repo.UpsertHealth(&models.ProviderHealth{Provider: "beta", Status: models.StatusHealthy, CheckedAt: now, TTLSeconds: 300})
	repo.UpsertRateLimit(&models.RateLimit{Provider: "acme", RequestsLimit: 10, CheckedAt: now, TTLSeconds: 60})
	repo.UpsertAvailability(&models.ModelAvailability{Provider: "acme", ModelID: "model-a", Available: true, CheckedAt: now, TTLSeconds: 300})

	if err := repo.Invalidate("acme"); err != nil {
		t.Fatalf("Invalidate() failed: %v", err)
	}

	if _, err := repo.GetHealth("acme"); err != ErrRecordNotFound {
		t.Errorf("acme health should be gone, got err = %v", err)
	}
	if _, err := repo.GetRateLimit("acme"); err != ErrRecordNotFound {
		t.Errorf("acme rate limit should be gone, got err = %v", err)
	}
	if _, err := repo.GetAvailability("acme", "model-a"); err != ErrRecordNotFound {
		t.Errorf("acme availability should be gone, got err = %v", err)
	}

	// 其他供应商不受影响
	if _, err := repo.GetHealth("beta"); err != nil {
		t.Errorf("beta health should survive, got err = %v", err)
	}
}

// TestRepository_InvalidateAll 测试全量缓存清除
func TestRepository_InvalidateAll(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	now := time.Now()
	repo.UpsertHealth(&models.ProviderHealth{Provider: "acme", Status: models.StatusHealthy, CheckedAt: now, TTLSeconds: 300})
	repo.UpsertHealth(&models.ProviderHealth{Provider: "beta", Status: models.StatusHealthy, CheckedAt: now, TTLSeconds: 300})

	if err := repo.InvalidateAll(); err != nil {
		t.Fatalf("InvalidateAll() failed: %v", err)
	}

	recs, err := repo.ListHealth()
	if err != nil {
		t.Fatalf("ListHealth() failed: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("expected empty table, got %d rows", len(recs))
	}
}

// TestRepository_SearchCatalog 测试目录表子串匹配
func TestRepository_SearchCatalog(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	// 目录表由兄弟工具维护，测试里直接插入
	db.Create(&models.CatalogModel{Provider: "acme", ModelID: "model-alpha-20250101"})
	db.Create(&models.CatalogModel{Provider: "acme", ModelID: "model-beta-20250101"})
	db.Create(&models.CatalogModel{Provider: "other", ModelID: "model-alpha-20250101"})

	matches, err := repo.SearchCatalog("acme", "model-alpha")
	if err != nil {
		t.Fatalf("SearchCatalog() failed: %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("matches = %d, want 1", len(matches))
	}

	none, err := repo.SearchCatalog("acme", "missing-model")
	if err != nil {
		t.Fatalf("SearchCatalog() failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("matches = %d, want 0", len(none))
	}
}
