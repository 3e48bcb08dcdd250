package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadSnapshot 测试从文件加载快照
func TestLoadSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.json")
	content := `{
		"models": [
			{"id": "model-alpha", "provider": "acme"},
			{"id": "model-beta", "provider": "ACME"},
			{"id": "other-model", "provider": "beta"}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	snap := LoadSnapshot(path)

	assert.True(t, snap.HasProvider("acme"))
	assert.True(t, snap.HasProvider("Acme")) // 不区分大小写
	assert.True(t, snap.Exists("acme", "model-alpha"))
	assert.True(t, snap.Exists("acme", "model-beta")) // 供应商名归一化
	assert.False(t, snap.Exists("acme", "missing"))
	assert.True(t, snap.Exists("beta", "other-model"))
}

// TestLoadSnapshot_Missing 文件缺失返回空快照而非错误
func TestLoadSnapshot_Missing(t *testing.T) {
	snap := LoadSnapshot("/nonexistent/path/models.json")
	assert.False(t, snap.HasProvider("acme"))

	snap = LoadSnapshot("")
	assert.False(t, snap.HasProvider("acme"))
}

// TestLoadSnapshot_Unparsable 无法解析的文件按空快照处理
func TestLoadSnapshot_Unparsable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))

	snap := LoadSnapshot(path)
	assert.False(t, snap.HasProvider("acme"))
}

// TestLoadSnapshot_SkipsInvalidEntries 空字段条目被跳过
func TestLoadSnapshot_SkipsInvalidEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.json")
	content := `{"models": [{"id": "", "provider": "acme"}, {"id": "m1", "provider": ""}, {"id": "m2", "provider": "acme"}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	snap := LoadSnapshot(path)
	assert.True(t, snap.Exists("acme", "m2"))
	assert.False(t, snap.Exists("acme", ""))
}

// TestSnapshot_HasProvider 无数据供应商视为无证据
func TestSnapshot_HasProvider(t *testing.T) {
	snap := NewSnapshot([]Entry{{ID: "m1", Provider: "acme"}})

	assert.True(t, snap.HasProvider("acme"))
	assert.False(t, snap.HasProvider("unknown"))
	assert.False(t, snap.Exists("unknown", "m1"))
}
