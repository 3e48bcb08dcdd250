package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
)

// MasterKeyEnv 主密钥环境变量名
const MasterKeyEnv = "VEGAX_MASTER_KEY"

var (
	// ErrMissingMasterKey 缺少主密钥
	ErrMissingMasterKey = errors.New("missing VEGAX_MASTER_KEY environment variable")
	// ErrInvalidMasterKey 主密钥格式错误
	ErrInvalidMasterKey = errors.New("invalid VEGAX_MASTER_KEY: must be 32 bytes (Base64 encoded)")
)

// LoadMasterKey 从环境变量加载密钥库主密钥
func LoadMasterKey() ([]byte, error) {
	keyStr := os.Getenv(MasterKeyEnv)
	if keyStr == "" {
		return nil, ErrMissingMasterKey
	}

	key, err := base64.StdEncoding.DecodeString(keyStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", MasterKeyEnv, err)
	}

	if len(key) != 32 {
		return nil, fmt.Errorf("%w: got %d bytes, expected 32", ErrInvalidMasterKey, len(key))
	}

	return key, nil
}

// GenerateMasterKey 生成新的主密钥（用于初始化密钥库）
// 返回 Base64 编码的密钥字符串
func GenerateMasterKey() (string, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("failed to generate master key: %w", err)
	}

	return base64.StdEncoding.EncodeToString(key), nil
}
