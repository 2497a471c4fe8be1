package xerr

import (
	"errors"
	"fmt"
	"net/http"
)

// 错误类别。所有返回给调用方的业务错误都归属于其中之一
var (
	ErrNotFound     = errors.New("资源不存在")
	ErrExpired      = errors.New("访问已过期")
	ErrInvalidState = errors.New("操作前置条件不满足")
	ErrUnavailable  = errors.New("依赖服务不可用")
)

// kindError 是归属于某个错误类别的具体错误
type kindError struct {
	kind error
	code int
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

func newKind(kind error, code int, msg string) error {
	return &kindError{kind: kind, code: code, msg: msg}
}

var (
	// 通用错误
	ErrInternalServer = errors.New("服务器内部错误")

	// 客户端请求错误
	ErrInvalidParams    = errors.New("无效的请求参数")
	ErrValidationFailed = errors.New("参数验证失败")
	ErrFileTooLarge     = errors.New("上传文件过大，超出限制")
	ErrFileNameInvalid  = errors.New("文件名包含非法字符")

	// 认证与授权错误
	ErrUnauthorized       = errors.New("用户未授权")
	ErrTokenInvalid       = errors.New("认证 Token 无效或已过期")
	ErrInvalidCredentials = errors.New("用户名或密码不正确")

	// 资源未找到。归属权不匹配与真正不存在使用同一个错误，避免泄露他人资源是否存在
	ErrUserNotFound  = newKind(ErrNotFound, UserNotFoundCode, "用户不存在")
	ErrFileNotFound  = newKind(ErrNotFound, FileNotFoundCode, "文件不存在")
	ErrShareNotFound = newKind(ErrNotFound, ShareNotFoundCode, "分享链接不存在")

	// 已过期
	ErrShareExpired = newKind(ErrExpired, ShareExpiredCode, "分享链接已过期")

	// 业务逻辑冲突
	ErrUserAlreadyExists  = newKind(ErrInvalidState, UserAlreadyExistsCode, "该用户名已被注册")
	ErrEmailAlreadyExists = newKind(ErrInvalidState, EmailAlreadyExistsCode, "邮箱已被注册")
	ErrRecipientMissing   = newKind(ErrInvalidState, RecipientMissingCode, "请先为分享链接填写收件人邮箱")
	ErrOwnerEmailMissing  = newKind(ErrInvalidState, OwnerEmailMissingCode, "账号缺少邮箱，无法发送邮件")

	// 数据库与外部服务错误
	ErrDatabaseError      = newKind(ErrUnavailable, DatabaseErrorCode, "数据库操作失败")
	ErrStorageError       = newKind(ErrUnavailable, StorageErrorCode, "存储服务操作失败")
	ErrEmailError         = newKind(ErrUnavailable, EmailErrorCode, "邮件发送失败")
	ErrEmailNotConfigured = newKind(ErrUnavailable, EmailNotConfiguredCode, "邮件服务未配置")
)

// Wrap 将下游错误归类到 kind，保留原始错误链
// kind 可以是类别哨兵或具体错误，例如 Wrap(ErrStorageError, "生成签名URL失败", err)
func Wrap(kind error, msg string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%s: %w", msg, kind)
	}
	return fmt.Errorf("%s: %w: %w", msg, kind, cause)
}

// KindOf 返回错误所属类别，无法归类时返回 nil
func KindOf(err error) error {
	for _, kind := range []error{ErrNotFound, ErrExpired, ErrInvalidState, ErrUnavailable} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// StatusOf 将错误映射为 HTTP 状态码与业务码
func StatusOf(err error) (int, int) {
	var ke *kindError
	code := 0
	if errors.As(err, &ke) {
		code = ke.code
	}

	switch {
	case errors.Is(err, ErrInvalidParams), errors.Is(err, ErrValidationFailed),
		errors.Is(err, ErrFileTooLarge), errors.Is(err, ErrFileNameInvalid):
		return http.StatusBadRequest, InvalidParamsCode
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized, InvalidCredentialsCode
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrTokenInvalid):
		return http.StatusUnauthorized, UnauthorizedCode
	}

	switch KindOf(err) {
	case ErrNotFound:
		return http.StatusNotFound, orDefault(code, NotFoundCode)
	case ErrExpired:
		return http.StatusGone, orDefault(code, ShareExpiredCode)
	case ErrInvalidState:
		return http.StatusConflict, orDefault(code, InvalidStateCode)
	case ErrUnavailable:
		return http.StatusServiceUnavailable, orDefault(code, UnavailableCode)
	}
	return http.StatusInternalServerError, InternalServerErrorCode
}

func orDefault(code, def int) int {
	if code == 0 {
		return def
	}
	return code
}
