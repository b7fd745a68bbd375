package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	t.Run("无内部错误", func(t *testing.T) {
		err := New(ErrCodeRoomNotFound, "房型不存在")
		assert.Equal(t, "[40410] 房型不存在", err.Error())
	})

	t.Run("带内部错误", func(t *testing.T) {
		err := Wrap(fmt.Errorf("connection refused"), "查询房型失败")
		assert.Equal(t, "[50000] 查询房型失败: connection refused", err.Error())
	})
}

func TestAppError_Is(t *testing.T) {
	base := New(ErrCodeConcurrentUpdate, "库存更新冲突")

	derived := base.WithErr(fmt.Errorf("deadlock"))
	assert.True(t, errors.Is(derived, base), "WithErr派生的错误应匹配原错误")

	wrapped := fmt.Errorf("步骤失败: %w", derived)
	assert.True(t, errors.Is(wrapped, base), "多层包装后仍应匹配")

	other := New(ErrCodeInsufficientCapacity, "可售房量不足")
	assert.False(t, errors.Is(derived, other))
}

func TestGetAppError(t *testing.T) {
	appErr := GetAppError(fmt.Errorf("outer: %w", ErrForbidden))
	assert.Equal(t, ErrCodeForbidden, appErr.Code)

	plain := GetAppError(fmt.Errorf("boom"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.EqualError(t, plain.Unwrap(), "boom")
}

func TestHasCode(t *testing.T) {
	assert.True(t, HasCode(fmt.Errorf("x: %w", ErrInvalidParams), ErrCodeInvalidParams))
	assert.False(t, HasCode(fmt.Errorf("x"), ErrCodeInvalidParams))
}
