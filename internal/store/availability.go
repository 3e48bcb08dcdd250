package store

import (
	"errors"

	"github.com/Mieluoxxx/Vegax-Route/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertAvailability 写入模型可用性记录（按 provider + model_id 组合键）
func (r *Repository) UpsertAvailability(rec *models.ModelAvailability) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "provider"}, {Name: "model_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"available", "checked_at", "ttl_seconds", "updated_at",
		}),
	}).Create(rec).Error
}

// GetAvailability 查找模型可用性记录
func (r *Repository) GetAvailability(provider, modelID string) (*models.ModelAvailability, error) {
	var rec models.ModelAvailability
	err := r.db.Where("provider = ? AND model_id = ?", provider, modelID).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &rec, nil
}
