package credential

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/Mieluoxxx/Vegax-Route/internal/crypto"
	"github.com/Mieluoxxx/Vegax-Route/internal/registry"
)

var (
	// ErrNoKeyFound 未找到凭证
	// 注意这是正常的业务结果（映射到退出码 3），不应中断整个进程
	ErrNoKeyFound = errors.New("no api key found")
)

// Source 凭证来源
// 只记录来源和成败，凭证值本身绝不写入日志或标准输出
type Source string

const (
	SourceEnv         Source = "env"          // 环境变量
	SourceSecretStore Source = "secret-store" // 加密密钥库
	SourceFile        Source = "file"         // 明文兜底文件
	SourceNone        Source = ""
)

// Resolver 凭证解析器
// 按 环境变量 -> 加密密钥库 -> 明文文件 的固定顺序解析，先命中先返回
type Resolver struct {
	secretStorePath string
	plaintextPath   string

	// 可注入的查找函数，便于测试
	lookupEnv func(string) (string, bool)
	loadKey   func() ([]byte, error)
}

// NewResolver 创建凭证解析器
func NewResolver(secretStorePath, plaintextPath string) *Resolver {
	return &Resolver{
		secretStorePath: secretStorePath,
		plaintextPath:   plaintextPath,
		lookupEnv:       os.LookupEnv,
		loadKey:         crypto.LoadMasterKey,
	}
}

// WithEnvLookup 替换环境变量查找函数（测试用）
func (r *Resolver) WithEnvLookup(fn func(string) (string, bool)) *Resolver {
	r.lookupEnv = fn
	return r
}

// WithMasterKey 直接注入主密钥（测试用）
func (r *Resolver) WithMasterKey(key []byte) *Resolver {
	r.loadKey = func() ([]byte, error) { return key, nil }
	return r
}

// Resolve 解析供应商凭证
// 返回凭证值与命中的来源；全部未命中返回 ErrNoKeyFound
func (r *Resolver) Resolve(d *registry.Descriptor) (string, Source, error) {
	if d == nil || len(d.KeyEnvVars) == 0 {
		return "", SourceNone, ErrNoKeyFound
	}

	// 1. 环境变量：一个供应商可接受多个变量别名，按声明顺序尝试
	for _, name := range d.KeyEnvVars {
		if value, ok := r.lookupEnv(name); ok && value != "" {
			return value, SourceEnv, nil
		}
	}

	// 2. 加密密钥库：按同样的变量名查找
	for _, name := range d.KeyEnvVars {
		if value, ok := r.lookupSecretStore(name); ok {
			return value, SourceSecretStore, nil
		}
	}

	// 3. 明文兜底文件
	for _, name := range d.KeyEnvVars {
		if value, ok := r.lookupPlaintextFile(name); ok {
			return value, SourceFile, nil
		}
	}

	return "", SourceNone, ErrNoKeyFound
}

// lookupSecretStore 从加密密钥库查找
// 密钥库是 varName -> AES-256-GCM 密文 的 JSON 文件；
// 文件缺失、主密钥缺失或解密失败都视为未命中，继续下一个来源
func (r *Resolver) lookupSecretStore(name string) (string, bool) {
	if r.secretStorePath == "" {
		return "", false
	}

	data, err := os.ReadFile(r.secretStorePath)
	if err != nil {
		return "", false
	}

	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return "", false
	}

	ciphertext, ok := entries[name]
	if !ok || ciphertext == "" {
		return "", false
	}

	key, err := r.loadKey()
	if err != nil {
		return "", false
	}

	value, err := crypto.OpenValue(ciphertext, key)
	if err != nil || value == "" {
		return "", false
	}

	return value, true
}

// lookupPlaintextFile 从明文兜底文件查找
// 支持 NAME=value 和 export NAME=value 两种行格式
func (r *Resolver) lookupPlaintextFile(name string) (string, bool) {
	if r.plaintextPath == "" {
		return "", false
	}

	f, err := os.Open(r.plaintextPath)
	if err != nil {
		return "", false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		line = strings.TrimSpace(line)

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		if strings.TrimSpace(key) != name {
			continue
		}

		value = strings.TrimSpace(value)
		value = strings.Trim(value, `"'`)
		if value != "" {
			return value, true
		}
	}

	return "", false
}
