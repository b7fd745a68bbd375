package room

import (
	apperrors "github.com/xiebiao/lodging/pkg/errors"
)

var (
	// ErrRoomNotFound 房型不存在
	ErrRoomNotFound = apperrors.New(apperrors.ErrCodeRoomNotFound, "房型不存在")

	// ErrCapacity 调整后可售房量越界（小于0或超过总房量）
	ErrCapacity = apperrors.New(apperrors.ErrCodeInsufficientCapacity, "可售房量不足")

	// ErrConcurrentUpdate 存储层并发冲突（死锁、锁等待超时），可重试
	ErrConcurrentUpdate = apperrors.New(apperrors.ErrCodeConcurrentUpdate, "房量更新冲突，请重试")

	// ErrRoomUnavailable 房型已下架
	ErrRoomUnavailable = apperrors.New(apperrors.ErrCodeRoomUnavailable, "房型暂不可售")

	// ErrInvalidRoom 房型参数不合法
	ErrInvalidRoom = apperrors.New(apperrors.ErrCodeInvalidParams, "房型名称不能为空，基础价须大于0，周末加价不能为负，总房量至少为1")

	// ErrInvalidDeal 特价参数不合法
	ErrInvalidDeal = apperrors.New(apperrors.ErrCodeInvalidParams, "特价折扣须在1-90之间且有效期晚于当前时间")
)
