package tier

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadConfig_MissingFile 文件缺失回退到内置默认配置
func TestLoadConfig_MissingFile(t *testing.T) {
	config, err := LoadConfig("/nonexistent/tiers.yaml")
	require.NoError(t, err)

	spec, ok := config.Lookup("sonnet", false)
	assert.True(t, ok)
	assert.NotEmpty(t, spec.Primary)

	config, err = LoadConfig("")
	require.NoError(t, err)
	_, ok = config.Lookup("opus", false)
	assert.True(t, ok)
}

// TestLoadConfig_CustomFile 自定义配置文件
func TestLoadConfig_CustomFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiers.yaml")
	content := `
tiers:
  fast:
    primary: acme/model-quick
    fallback: beta/model-cheap
  best:
    primary: acme/model-big
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	spec, ok := config.Lookup("fast", false)
	require.True(t, ok)
	assert.Equal(t, "acme/model-quick", spec.Primary)
	assert.Equal(t, "beta/model-cheap", spec.Fallback)

	spec, ok = config.Lookup("best", false)
	require.True(t, ok)
	assert.Empty(t, spec.Fallback)

	// 文件只覆盖了 direct 表，gateway 表回填默认值
	_, ok = config.Lookup("sonnet", true)
	assert.True(t, ok)
}

// TestLoadConfig_InvalidYAML 无法解析的文件是错误
func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiers.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tiers: [broken"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

// TestConfig_Lookup_GatewayMode 网关模式查另一套表
func TestConfig_Lookup_GatewayMode(t *testing.T) {
	config := DefaultConfig()

	direct, ok := config.Lookup("sonnet", false)
	require.True(t, ok)
	gateway, ok := config.Lookup("sonnet", true)
	require.True(t, ok)

	assert.NotEqual(t, direct.Primary, gateway.Primary)

	_, ok = config.Lookup("nonexistent", false)
	assert.False(t, ok)
}
