package store

import (
	"errors"

	"github.com/Mieluoxxx/Vegax-Route/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrRecordNotFound 记录不存在
	ErrRecordNotFound = errors.New("record not found")
)

// Repository 缓存存储数据访问层
// 所有表都是按主键 upsert 的最新值表，多进程并发写采用
// 最后写入者胜出，不加锁——健康数据是建议性的，在下一个
// TTL 边界自愈，丢失一次更新最多造成一次多余探测
type Repository struct {
	db *gorm.DB
}

// NewRepository 创建 Repository 实例
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ==================== 健康记录 ====================

// UpsertHealth 写入供应商健康记录（按 provider 唯一键）
func (r *Repository) UpsertHealth(rec *models.ProviderHealth) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "provider"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "http_code", "latency_ms", "error_message",
			"item_count", "checked_at", "ttl_seconds", "updated_at",
		}),
	}).Create(rec).Error
}

// GetHealth 按供应商查找健康记录
func (r *Repository) GetHealth(provider string) (*models.ProviderHealth, error) {
	var rec models.ProviderHealth
	err := r.db.Where("provider = ?", provider).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// ListHealth 列出所有健康记录（按供应商名排序）
func (r *Repository) ListHealth() ([]*models.ProviderHealth, error) {
	var recs []*models.ProviderHealth
	err := r.db.Order("provider asc").Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// ==================== 缓存失效 ====================

// Invalidate 清除单个供应商的全部缓存行
// 健康、可用性、限流三张表整体清除；探测日志保留作为审计痕迹
func (r *Repository) Invalidate(provider string) error {
	if err := r.db.Where("provider = ?", provider).Delete(&models.ProviderHealth{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("provider = ?", provider).Delete(&models.ModelAvailability{}).Error; err != nil {
		return err
	}
	return r.db.Where("provider = ?", provider).Delete(&models.RateLimit{}).Error
}

// InvalidateAll 清除所有供应商的缓存行
func (r *Repository) InvalidateAll() error {
	if err := r.db.Where("1 = 1").Delete(&models.ProviderHealth{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("1 = 1").Delete(&models.ModelAvailability{}).Error; err != nil {
		return err
	}
	return r.db.Where("1 = 1").Delete(&models.RateLimit{}).Error
}
