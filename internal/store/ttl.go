package store

import "time"

// IsFresh 判断缓存行是否仍在 TTL 内
// 规则：now - checkedAt < ttlSeconds；
// checkedAt 为零值或 ttlSeconds 非正值一律视为已过期。
// 行损坏时宁可多探测一次，也不能给出虚假的新鲜度
func IsFresh(checkedAt time.Time, ttlSeconds int, now time.Time) bool {
	if checkedAt.IsZero() || ttlSeconds <= 0 {
		return false
	}
	if checkedAt.After(now) {
		// 时钟回拨或脏数据，同样按过期处理
		return false
	}
	return now.Sub(checkedAt) < time.Duration(ttlSeconds)*time.Second
}

// EffectiveTTL 计算本次调用生效的 TTL
// overrideSeconds > 0 时覆盖记录自带的 TTL（仅对本次调用生效）
func EffectiveTTL(recordTTL, overrideSeconds int) int {
	if overrideSeconds > 0 {
		return overrideSeconds
	}
	return recordTTL
}
