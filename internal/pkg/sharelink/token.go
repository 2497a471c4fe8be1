// Package sharelink 定义分享链接 token 的编码规则与有效期计算。
// 这里的函数都是纯函数，不依赖数据库或存储。
package sharelink

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
)

// PermanentPrefix 永久链接 token 的前缀标记
const PermanentPrefix = "perma_"

// randomBytes 随机部分的字节数，18 字节即 144 位熵，编码后为 24 个 URL 安全字符
const randomBytes = 18

// NewRandomID 生成 token 的随机部分
func NewRandomID() (string, error) {
	buf := make([]byte, randomBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("生成随机 token 失败: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Encode 按是否永久拼接 token
func Encode(randomID string, permanent bool) string {
	if permanent {
		return PermanentPrefix + randomID
	}
	return randomID
}

// Decode 判断 token 是否为永久链接。
// 只做前缀判断，空串或不带前缀的 token 一律视为限时链接。
func Decode(token string) bool {
	return strings.HasPrefix(token, PermanentPrefix)
}

// NewToken 生成一个新的分享 token
func NewToken(permanent bool) (string, error) {
	id, err := NewRandomID()
	if err != nil {
		return "", err
	}
	return Encode(id, permanent), nil
}

// URL 拼接对外访问地址，baseURL 来自配置
func URL(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/share/" + token
}
