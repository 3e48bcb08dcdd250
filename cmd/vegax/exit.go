package main

import "github.com/Mieluoxxx/Vegax-Route/internal/models"

// 自动化调用方依赖的固定退出码契约
const (
	ExitOK           = 0 // 可用 / 健康
	ExitUnavailable  = 1 // 不可用 / 错误 / 层级耗尽
	ExitRateLimited  = 2 // 限流
	ExitNoCredential = 3 // 凭证无效或缺失
)

// exitCodeFor 把健康分类映射到退出码
// 内部始终传递完整分类，只在进程边界这一处收敛为退出码
func exitCodeFor(status models.HealthStatus) int {
	switch status {
	case models.StatusHealthy:
		return ExitOK
	case models.StatusRateLimited:
		return ExitRateLimited
	case models.StatusKeyInvalid, models.StatusNoKey:
		return ExitNoCredential
	default:
		// unhealthy / unreachable / unknown
		return ExitUnavailable
	}
}
