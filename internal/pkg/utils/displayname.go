package utils

import "strings"

// Profile 用于展示名解析的身份信息
type Profile struct {
	FullName *string
	Nickname *string
	Username string
}

// ResolveDisplayName 按 全名 > 昵称 > 用户名 的顺序取第一个非空值
func ResolveDisplayName(p Profile) string {
	for _, v := range []*string{p.FullName, p.Nickname} {
		if v != nil && strings.TrimSpace(*v) != "" {
			return strings.TrimSpace(*v)
		}
	}
	return p.Username
}
