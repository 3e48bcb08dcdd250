package store

import (
	"github.com/Mieluoxxx/Vegax-Route/internal/models"
)

// AppendProbeLog 追加探测日志并裁剪超限的旧条目
// 日志只追加不修改，每个供应商保留最近 models.ProbeLogRetention 条
func (r *Repository) AppendProbeLog(entry *models.ProbeLog) error {
	if err := r.db.Create(entry).Error; err != nil {
		return err
	}
	return r.pruneProbeLogs(entry.Provider)
}

// pruneProbeLogs 删除该供应商保留上限之外的旧日志
func (r *Repository) pruneProbeLogs(provider string) error {
	// 找到第 N 新一条的 ID，删除比它更旧的所有行
	var keepIDs []uint
	err := r.db.Model(&models.ProbeLog{}).
		Where("provider = ?", provider).
		Order("id desc").
		Limit(models.ProbeLogRetention).
		Pluck("id", &keepIDs).Error
	if err != nil {
		return err
	}
	if len(keepIDs) < models.ProbeLogRetention {
		return nil
	}

	threshold := keepIDs[len(keepIDs)-1]
	return r.db.Where("provider = ? AND id < ?", provider, threshold).
		Delete(&models.ProbeLog{}).Error
}

// ListProbeLogs 列出某供应商最近的探测日志（新的在前）
func (r *Repository) ListProbeLogs(provider string, limit int) ([]*models.ProbeLog, error) {
	if limit <= 0 || limit > models.ProbeLogRetention {
		limit = models.ProbeLogRetention
	}

	var logs []*models.ProbeLog
	err := r.db.Where("provider = ?", provider).
		Order("id desc").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
