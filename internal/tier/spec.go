package tier

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Spec 单个层级的候选配置
// primary 失败才会尝试 fallback，两者都是 "provider/model" 写法
type Spec struct {
	Primary  string `yaml:"primary"`
	Fallback string `yaml:"fallback,omitempty"`
}

// Table 层级名到候选配置的映射
type Table map[string]Spec

// Config 层级配置文件
// direct 与 gateway 两套表；使用哪套在进程启动时决定一次，
// 不随单次调用切换
type Config struct {
	Tiers        Table `yaml:"tiers"`
	GatewayTiers Table `yaml:"gateway_tiers"`
}

// LoadConfig 加载层级配置
// 文件不存在时回退到内置默认配置；存在但无法解析是错误
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("读取层级配置失败: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("解析层级配置失败: %w", err)
	}

	// 文件可以只覆盖其中一套表
	defaults := DefaultConfig()
	if len(config.Tiers) == 0 {
		config.Tiers = defaults.Tiers
	}
	if len(config.GatewayTiers) == 0 {
		config.GatewayTiers = defaults.GatewayTiers
	}

	return &config, nil
}

// Lookup 查找层级候选配置
func (c *Config) Lookup(tierName string, gatewayMode bool) (Spec, bool) {
	table := c.Tiers
	if gatewayMode {
		table = c.GatewayTiers
	}
	spec, ok := table[tierName]
	return spec, ok
}

// DefaultConfig 内置默认层级表
func DefaultConfig() *Config {
	return &Config{
		Tiers: Table{
			"opus": {
				Primary:  "anthropic/claude-opus-4-1",
				Fallback: "openai/o3",
			},
			"sonnet": {
				Primary:  "anthropic/claude-sonnet-4-5",
				Fallback: "openai/gpt-4o",
			},
			"haiku": {
				Primary:  "anthropic/claude-3-5-haiku",
				Fallback: "google/gemini-2.0-flash",
			},
		},
		// 网关模式：所有层级经聚合代理路由
		GatewayTiers: Table{
			"opus": {
				Primary:  "openrouter/anthropic/claude-opus-4.1",
				Fallback: "openrouter/openai/o3",
			},
			"sonnet": {
				Primary:  "openrouter/anthropic/claude-sonnet-4.5",
				Fallback: "openrouter/openai/gpt-4o",
			},
			"haiku": {
				Primary:  "openrouter/anthropic/claude-3.5-haiku",
				Fallback: "openrouter/google/gemini-2.0-flash",
			},
		},
	}
}
