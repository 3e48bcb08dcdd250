package store

import (
	"github.com/Mieluoxxx/Vegax-Route/internal/models"
)

// SearchCatalog 在只读目录表中按子串匹配模型
// 目录表由兄弟工具刷新，本核心只读不写
func (r *Repository) SearchCatalog(provider, modelID string) ([]*models.CatalogModel, error) {
	var recs []*models.CatalogModel
	err := r.db.Where("provider = ? AND model_id LIKE ?", provider, "%"+modelID+"%").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// CountCatalog 统计某供应商在目录表中的条目数
func (r *Repository) CountCatalog(provider string) (int64, error) {
	var count int64
	err := r.db.Model(&models.CatalogModel{}).
		Where("provider = ?", provider).
		Count(&count).Error
	return count, err
}
