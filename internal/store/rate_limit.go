package store

import (
	"errors"

	"github.com/Mieluoxxx/Vegax-Route/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertRateLimit 写入限流记录（按 provider 唯一键）
// 调用方只在响应确实携带非零限流值时调用；
// 头缺失的探测不会触碰既有记录
func (r *Repository) UpsertRateLimit(rec *models.RateLimit) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "provider"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"requests_limit", "requests_remaining", "requests_reset",
			"tokens_limit", "tokens_remaining", "tokens_reset",
			"checked_at", "ttl_seconds", "updated_at",
		}),
	}).Create(rec).Error
}

// GetRateLimit 按供应商查找限流记录
func (r *Repository) GetRateLimit(provider string) (*models.RateLimit, error) {
	var rec models.RateLimit
	err := r.db.Where("provider = ?", provider).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// ListRateLimits 列出所有限流记录（按供应商名排序）
func (r *Repository) ListRateLimits() ([]*models.RateLimit, error) {
	var recs []*models.RateLimit
	err := r.db.Order("provider asc").Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}
