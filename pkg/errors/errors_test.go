package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/koopa0/system-design/paddle-arena/pkg/errors"
)

func TestAppError_Is(t *testing.T) {
	wrapped := fmt.Errorf("load: %w", apperrors.ErrInvalidConfig.WithDetails("port out of range"))

	assert.ErrorIs(t, wrapped, apperrors.ErrInvalidConfig)
	// 只比較錯誤碼：同為 INVALID_INPUT 的預定義錯誤也相等
	assert.ErrorIs(t, wrapped, apperrors.ErrInvalidStatField)
	assert.NotErrorIs(t, wrapped, apperrors.ErrInvalidToken)
}

func TestAppError_WithDetailsCopies(t *testing.T) {
	detailed := apperrors.ErrInvalidToken.WithDetails("token expired")

	assert.Equal(t, "token expired", detailed.Details)
	assert.Empty(t, apperrors.ErrInvalidToken.Details)
	assert.Equal(t, apperrors.ErrInvalidToken.Code, detailed.Code)
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := apperrors.Wrap(cause, apperrors.ErrCodeUnavailable, "record match")

	assert.ErrorIs(t, err, cause)
	assert.True(t, apperrors.IsUnavailable(err))
	assert.Equal(t, "[SERVICE_UNAVAILABLE] record match: connection refused", err.Error())
}

func TestCodeHelpers(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		unauthorized bool
		invalid      bool
		unavailable  bool
	}{
		{name: "missing token", err: apperrors.ErrMissingToken, unauthorized: true},
		{name: "bad stat field", err: apperrors.ErrInvalidStatField, invalid: true},
		{name: "store down", err: apperrors.ErrStoreUnavailable, unavailable: true},
		{name: "plain error", err: errors.New("x")},
		{name: "nil", err: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.unauthorized, apperrors.IsUnauthorized(tt.err))
			assert.Equal(t, tt.invalid, apperrors.IsInvalidInput(tt.err))
			assert.Equal(t, tt.unavailable, apperrors.IsUnavailable(tt.err))
		})
	}
}
