package pricing

import (
	apperrors "github.com/xiebiao/lodging/pkg/errors"
)

var (
	// ErrStalePrice 提交的价格与当前基础价不一致
	ErrStalePrice = apperrors.New(apperrors.ErrCodeStalePrice, "价格已变动，请刷新后重试")

	// ErrDuplicateLock 已存在未过期的锁价
	ErrDuplicateLock = apperrors.New(apperrors.ErrCodeDuplicateLock, "该房型已有有效锁价")

	// ErrLockNotFound 锁价不存在或已过期
	ErrLockNotFound = apperrors.New(apperrors.ErrCodeLockNotFound, "锁价不存在或已过期")

	// ErrNotLockOwner 不是锁价持有人
	ErrNotLockOwner = apperrors.New(apperrors.ErrCodeNotLockOwner, "只能取消自己的锁价")
)
