package booking

import (
	apperrors "github.com/xiebiao/lodging/pkg/errors"
)

var (
	// ErrBookingNotFound 预订不存在
	ErrBookingNotFound = apperrors.New(apperrors.ErrCodeBookingNotFound, "预订不存在")

	// ErrIllegalTransition 状态流转非法
	ErrIllegalTransition = apperrors.New(apperrors.ErrCodeIllegalTransition, "当前状态不允许该操作")

	// ErrPriceMismatch 提交的单价与有效价格不一致
	ErrPriceMismatch = apperrors.New(apperrors.ErrCodePriceMismatch, "房价与当前有效价格不一致")

	// ErrInsufficientCapacity 可售房量不足
	ErrInsufficientCapacity = apperrors.New(apperrors.ErrCodeInsufficientCapacity, "可售房量不足")

	// ErrRoomMismatch 房型不属于该酒店
	ErrRoomMismatch = apperrors.New(apperrors.ErrCodeRoomMismatch, "房型不属于该酒店")

	// ErrInvalidDateRange 入住离店日期非法
	ErrInvalidDateRange = apperrors.New(apperrors.ErrCodeInvalidDateRange, "离店日期必须晚于入住日期")

	// ErrDuplicateCode 预订号冲突
	ErrDuplicateCode = apperrors.New(apperrors.ErrCodeDuplicateEntry, "预订号重复")

	// ErrStatusChanged 条件更新时状态已被其他请求修改
	ErrStatusChanged = apperrors.New(apperrors.ErrCodeConcurrentUpdate, "预订状态已变化，请刷新后重试")

	// ErrInvalidPayment 支付金额非法
	ErrInvalidPayment = apperrors.New(apperrors.ErrCodeInvalidPayment, "支付金额必须大于0")

	// ErrInvalidLines 预订明细为空或数量非法
	ErrInvalidLines = apperrors.New(apperrors.ErrCodeInvalidParams, "至少预订一个房型，且每行数量至少为1")
)
