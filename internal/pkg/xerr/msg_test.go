package xerr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"share not found", ErrShareNotFound, ErrNotFound},
		{"file not found wrapped", Wrap(ErrFileNotFound, "查询文件", nil), ErrNotFound},
		{"expired", ErrShareExpired, ErrExpired},
		{"recipient missing", ErrRecipientMissing, ErrInvalidState},
		{"storage failure", Wrap(ErrStorageError, "生成签名URL失败", cause), ErrUnavailable},
		{"plain error", cause, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := errors.New("smtp: 421")
	err := Wrap(ErrEmailError, "发送分享邮件失败", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrEmailError)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "发送分享邮件失败")
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"share not found", ErrShareNotFound, http.StatusNotFound, ShareNotFoundCode},
		{"generic not found", Wrap(ErrNotFound, "x", nil), http.StatusNotFound, NotFoundCode},
		{"expired", ErrShareExpired, http.StatusGone, ShareExpiredCode},
		{"invalid state", ErrRecipientMissing, http.StatusConflict, RecipientMissingCode},
		{"storage", Wrap(ErrStorageError, "x", errors.New("boom")), http.StatusServiceUnavailable, StorageErrorCode},
		{"email not configured", ErrEmailNotConfigured, http.StatusServiceUnavailable, EmailNotConfiguredCode},
		{"invalid params", ErrInvalidParams, http.StatusBadRequest, InvalidParamsCode},
		{"credentials", ErrInvalidCredentials, http.StatusUnauthorized, InvalidCredentialsCode},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, InternalServerErrorCode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := StatusOf(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestPublicMessage_HidesCause(t *testing.T) {
	err := Wrap(ErrStorageError, "生成签名URL失败", errors.New("secret-endpoint:9000 refused"))
	assert.Equal(t, ErrStorageError.Error(), publicMessage(err))
	assert.Equal(t, ErrInternalServer.Error(), publicMessage(errors.New("boom")))
}
