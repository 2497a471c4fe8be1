package sharelink

import "time"

// TTL 限时链接的有效期，同时也是每次签发下载 URL 的有效期
const TTL = 600 * time.Second

// ExpiresAt 返回链接的过期时间点，永久链接返回 false
func ExpiresAt(createdAt time.Time, permanent bool) (time.Time, bool) {
	if permanent {
		return time.Time{}, false
	}
	return createdAt.Add(TTL), true
}

// IsExpired 判断链接在 now 时刻是否已过期，恰好到达过期时间点即视为过期
func IsExpired(createdAt time.Time, permanent bool, now time.Time) bool {
	expiry, ok := ExpiresAt(createdAt, permanent)
	if !ok {
		return false
	}
	return !now.Before(expiry)
}

// State 链接在某一时刻的状态
type State string

const (
	StatePermanent State = "permanent"
	StateActive    State = "active"
	StateExpired   State = "expired"
)

// Status 汇总链接状态，供列表展示使用
type Status struct {
	State     State      `json:"state"`
	Permanent bool       `json:"permanent"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// StatusOf 根据 token 与创建时间计算链接状态
func StatusOf(token string, createdAt time.Time, now time.Time) Status {
	permanent := Decode(token)
	expiry, ok := ExpiresAt(createdAt, permanent)
	if !ok {
		return Status{State: StatePermanent, Permanent: true}
	}
	state := StateActive
	if IsExpired(createdAt, permanent, now) {
		state = StateExpired
	}
	return Status{State: state, ExpiresAt: &expiry}
}
