package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`              // 数据库文件路径
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大生命周期
}

// ProbeConfig 探测配置
type ProbeConfig struct {
	Timeout            time.Duration `mapstructure:"timeout"`              // 单次探测超时，默认 10 秒
	HealthTTLSeconds   int           `mapstructure:"health_ttl"`           // 健康记录 TTL，默认 300 秒
	AvailTTLSeconds    int           `mapstructure:"availability_ttl"`     // 可用性记录 TTL，默认 300 秒
	RateLimitTTLSecond int           `mapstructure:"rate_limit_ttl"`       // 限流记录 TTL，默认 60 秒（更易失效）
}

// CredentialConfig 凭证配置
type CredentialConfig struct {
	SecretStorePath string `mapstructure:"secret_store_path"` // 加密密钥库文件
	PlaintextPath   string `mapstructure:"plaintext_path"`    // 明文兜底文件（NAME=value）
}

// TierConfig 层级配置
type TierConfig struct {
	SpecPath          string `mapstructure:"spec_path"`           // tiers.yaml 路径，空则使用内置默认
	DiscoveryCachePath string `mapstructure:"discovery_cache_path"` // 兄弟工具的网关发现缓存文件
	GatewayMode       bool   `mapstructure:"gateway_mode"`        // 进程启动时决定一次，不在运行中复查
	ChainCommand      string `mapstructure:"chain_command"`       // 外部兜底链解析器命令
}

// CatalogConfig 模型目录配置
type CatalogConfig struct {
	SnapshotPath string `mapstructure:"snapshot_path"` // 只读目录快照 JSON（由兄弟工具刷新）
}

// ServerConfig serve 模式配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// Config 应用配置
type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Probe      ProbeConfig      `mapstructure:"probe"`
	Credential CredentialConfig `mapstructure:"credential"`
	Tier       TierConfig       `mapstructure:"tier"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Server     ServerConfig     `mapstructure:"server"`
}

// LoadConfig 加载配置（默认值 + 环境变量覆盖）
func LoadConfig() (*Config, error) {
	home, _ := os.UserHomeDir()
	dataDir := filepath.Join(home, ".vegax")

	config := &Config{
		Database: DatabaseConfig{
			Path:            filepath.Join(dataDir, "vegax.db"),
			MaxOpenConns:    4,
			MaxIdleConns:    2,
			ConnMaxLifetime: time.Hour,
		},
		Probe: ProbeConfig{
			Timeout:            10 * time.Second,
			HealthTTLSeconds:   300,
			AvailTTLSeconds:    300,
			RateLimitTTLSecond: 60,
		},
		Credential: CredentialConfig{
			SecretStorePath: filepath.Join(dataDir, "secrets.json"),
			PlaintextPath:   filepath.Join(dataDir, "credentials.env"),
		},
		Tier: TierConfig{
			SpecPath:           filepath.Join(dataDir, "tiers.yaml"),
			DiscoveryCachePath: filepath.Join(dataDir, "gateway-discovery.json"),
		},
		Catalog: CatalogConfig{
			SnapshotPath: filepath.Join(dataDir, "catalog-snapshot.json"),
		},
		Server: ServerConfig{
			Port: 8090,
		},
	}

	// 支持环境变量覆盖
	if dbPath := os.Getenv("VEGAX_DB_PATH"); dbPath != "" {
		config.Database.Path = dbPath
	}
	if specPath := os.Getenv("VEGAX_TIERS_PATH"); specPath != "" {
		config.Tier.SpecPath = specPath
	}
	if snapPath := os.Getenv("VEGAX_CATALOG_SNAPSHOT"); snapPath != "" {
		config.Catalog.SnapshotPath = snapPath
	}
	if chainCmd := os.Getenv("VEGAX_CHAIN_CMD"); chainCmd != "" {
		config.Tier.ChainCommand = chainCmd
	}
	if port := os.Getenv("VEGAX_SERVER_PORT"); port != "" {
		var p int
		if _, err := fmt.Sscanf(port, "%d", &p); err == nil {
			config.Server.Port = p
		}
	}

	// 网关模式：兄弟工具的发现缓存文件存在即启用。
	// 该判定只在进程启动时做一次，本核心不负责验证缓存内容
	switch os.Getenv("VEGAX_GATEWAY_MODE") {
	case "1", "true":
		config.Tier.GatewayMode = true
	case "0", "false":
		config.Tier.GatewayMode = false
	default:
		if _, err := os.Stat(config.Tier.DiscoveryCachePath); err == nil {
			config.Tier.GatewayMode = true
		}
	}

	return config, nil
}
