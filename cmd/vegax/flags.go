package main

import (
	"fmt"
	"strconv"
	"strings"
)

// commonFlags 所有子命令共享的标志
type commonFlags struct {
	force   bool   // 跳过缓存
	quiet   bool   // 抑制信息输出
	jsonOut bool   // JSON 输出
	ttl     int    // 本次调用的 TTL 覆盖值（秒）
	agent   string // 透传给外部链解析器
	all     bool   // probe --all
}

// parseFlags 解析标志与位置参数
func parseFlags(args []string) ([]string, commonFlags, error) {
	var flags commonFlags
	var positional []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--force", "-f":
			flags.force = true
		case "--quiet", "-q":
			flags.quiet = true
		case "--json":
			flags.jsonOut = true
		case "--all":
			flags.all = true
		case "--ttl":
			i++
			if i >= len(args) {
				return nil, flags, fmt.Errorf("--ttl requires a value in seconds")
			}
			ttl, err := strconv.Atoi(args[i])
			if err != nil || ttl <= 0 {
				return nil, flags, fmt.Errorf("--ttl requires a positive integer, got %q", args[i])
			}
			flags.ttl = ttl
		case "--agent":
			i++
			if i >= len(args) {
				return nil, flags, fmt.Errorf("--agent requires a value")
			}
			flags.agent = args[i]
		default:
			if strings.HasPrefix(args[i], "-") {
				return nil, flags, fmt.Errorf("unknown flag: %s", args[i])
			}
			positional = append(positional, args[i])
		}
	}

	return positional, flags, nil
}
