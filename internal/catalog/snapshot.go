package catalog

import (
	"encoding/json"
	"os"
	"strings"
)

// Entry 快照中的单个模型条目
type Entry struct {
	ID       string `json:"id"`
	Provider string `json:"provider"`
}

// Snapshot 本地模型目录快照
// 由兄弟工具定期刷新的只读 JSON 文档，本核心只消费不维护。
// 文件缺失不是错误——快照只是可用性判定的一条证据来源
type Snapshot struct {
	byProvider map[string]map[string]bool
}

// snapshotFile 快照文件的持久化格式
type snapshotFile struct {
	Models []Entry `json:"models"`
}

// LoadSnapshot 从文件加载目录快照
// 文件不存在或无法解析时返回空快照（无证据，而非错误）
func LoadSnapshot(path string) *Snapshot {
	snap := &Snapshot{byProvider: make(map[string]map[string]bool)}

	if path == "" {
		return snap
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return snap
	}

	var file snapshotFile
	if err := json.Unmarshal(data, &file); err != nil {
		return snap
	}

	for _, entry := range file.Models {
		provider := strings.ToLower(strings.TrimSpace(entry.Provider))
		modelID := strings.TrimSpace(entry.ID)
		if provider == "" || modelID == "" {
			continue
		}
		if snap.byProvider[provider] == nil {
			snap.byProvider[provider] = make(map[string]bool)
		}
		snap.byProvider[provider][modelID] = true
	}

	return snap
}

// NewSnapshot 从条目列表构建快照（测试用）
func NewSnapshot(entries []Entry) *Snapshot {
	snap := &Snapshot{byProvider: make(map[string]map[string]bool)}
	for _, entry := range entries {
		provider := strings.ToLower(strings.TrimSpace(entry.Provider))
		if snap.byProvider[provider] == nil {
			snap.byProvider[provider] = make(map[string]bool)
		}
		snap.byProvider[provider][entry.ID] = true
	}
	return snap
}

// HasProvider 快照中是否有该供应商的数据
// 没有数据意味着"无证据"，调用方应继续尝试其他来源
func (s *Snapshot) HasProvider(provider string) bool {
	models, ok := s.byProvider[strings.ToLower(provider)]
	return ok && len(models) > 0
}

// Exists 查询模型是否在快照中
func (s *Snapshot) Exists(provider, modelID string) bool {
	models, ok := s.byProvider[strings.ToLower(provider)]
	if !ok {
		return false
	}
	return models[strings.TrimSpace(modelID)]
}
