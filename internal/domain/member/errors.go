package member

import (
	apperrors "github.com/xiebiao/lodging/pkg/errors"
)

var (
	// ErrMemberNotFound 会员不存在
	ErrMemberNotFound = apperrors.New(apperrors.ErrCodeMemberNotFound, "会员不存在")

	// ErrEmailDuplicate 邮箱已注册
	ErrEmailDuplicate = apperrors.New(apperrors.ErrCodeEmailDuplicate, "邮箱已被注册")

	// ErrWeakPassword 密码强度不足
	ErrWeakPassword = apperrors.New(apperrors.ErrCodeWeakPassword, "密码强度不足（需8-20位，包含字母和数字）")

	// ErrInvalidRole 角色不允许自助注册
	ErrInvalidRole = apperrors.New(apperrors.ErrCodeInvalidParams, "只能注册为GUEST或HOST")

	// ErrMemberSuspended 会员已停用
	ErrMemberSuspended = apperrors.New(apperrors.ErrCodeMemberSuspended, "会员已停用")
)
