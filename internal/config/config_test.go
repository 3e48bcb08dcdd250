package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestLoadConfig_Defaults 默认配置
func TestLoadConfig_Defaults(t *testing.T) {
	os.Unsetenv("VEGAX_DB_PATH")
	os.Unsetenv("VEGAX_GATEWAY_MODE")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.Probe.Timeout != 10*time.Second {
		t.Errorf("probe timeout = %v, want 10s", config.Probe.Timeout)
	}
	if config.Probe.HealthTTLSeconds != 300 {
		t.Errorf("health TTL = %d, want 300", config.Probe.HealthTTLSeconds)
	}
	if config.Probe.RateLimitTTLSecond != 60 {
		t.Errorf("rate limit TTL = %d, want 60", config.Probe.RateLimitTTLSecond)
	}
	if config.Server.Port != 8090 {
		t.Errorf("server port = %d, want 8090", config.Server.Port)
	}
}

// TestLoadConfig_EnvOverrides 环境变量覆盖
func TestLoadConfig_EnvOverrides(t *testing.T) {
	os.Setenv("VEGAX_DB_PATH", "/tmp/custom.db")
	os.Setenv("VEGAX_TIERS_PATH", "/tmp/tiers.yaml")
	os.Setenv("VEGAX_CHAIN_CMD", "/usr/local/bin/chain-tool")
	os.Setenv("VEGAX_SERVER_PORT", "9999")
	defer func() {
		os.Unsetenv("VEGAX_DB_PATH")
		os.Unsetenv("VEGAX_TIERS_PATH")
		os.Unsetenv("VEGAX_CHAIN_CMD")
		os.Unsetenv("VEGAX_SERVER_PORT")
	}()

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.Database.Path != "/tmp/custom.db" {
		t.Errorf("db path = %s, want /tmp/custom.db", config.Database.Path)
	}
	if config.Tier.SpecPath != "/tmp/tiers.yaml" {
		t.Errorf("tiers path = %s, want /tmp/tiers.yaml", config.Tier.SpecPath)
	}
	if config.Tier.ChainCommand != "/usr/local/bin/chain-tool" {
		t.Errorf("chain command = %s", config.Tier.ChainCommand)
	}
	if config.Server.Port != 9999 {
		t.Errorf("server port = %d, want 9999", config.Server.Port)
	}
}

// TestLoadConfig_GatewayModeEnv 网关模式的环境变量开关
func TestLoadConfig_GatewayModeEnv(t *testing.T) {
	os.Setenv("VEGAX_GATEWAY_MODE", "1")
	defer os.Unsetenv("VEGAX_GATEWAY_MODE")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if !config.Tier.GatewayMode {
		t.Error("gateway mode should be enabled via env")
	}

	os.Setenv("VEGAX_GATEWAY_MODE", "0")
	config, _ = LoadConfig()
	if config.Tier.GatewayMode {
		t.Error("gateway mode should be disabled via env")
	}
}

// TestLoadConfig_GatewayModeDiscoveryFile 发现缓存文件存在即启用网关模式
func TestLoadConfig_GatewayModeDiscoveryFile(t *testing.T) {
	os.Unsetenv("VEGAX_GATEWAY_MODE")

	// 默认发现缓存路径在 ~/.vegax 下，测试里不创建它，
	// 只验证文件缺失时保持直连模式
	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if _, statErr := os.Stat(config.Tier.DiscoveryCachePath); os.IsNotExist(statErr) {
		if config.Tier.GatewayMode {
			t.Error("gateway mode should stay off without a discovery cache file")
		}
	}

	// 路径默认落在用户目录的 .vegax 下
	if filepath.Base(config.Tier.DiscoveryCachePath) != "gateway-discovery.json" {
		t.Errorf("unexpected discovery cache path: %s", config.Tier.DiscoveryCachePath)
	}
}
