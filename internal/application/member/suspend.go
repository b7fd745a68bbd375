package member

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/lodging/internal/domain/member"
	apperrors "github.com/xiebiao/lodging/pkg/errors"
)

// SetStatusUseCase 管理员停用或恢复会员
type SetStatusUseCase struct {
	repo   member.Repository
	logger *zap.Logger
}

// NewSetStatusUseCase 创建用例
func NewSetStatusUseCase(repo member.Repository, logger *zap.Logger) *SetStatusUseCase {
	return &SetStatusUseCase{repo: repo, logger: logger}
}

// Execute 设置会员状态，管理员不能停用自己
func (uc *SetStatusUseCase) Execute(ctx context.Context, actor member.Actor, memberID uint, suspend bool) (*MemberInfo, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	if suspend && actor.MemberID == memberID {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "不能停用自己")
	}

	m, err := uc.repo.FindByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	if suspend {
		m.Suspend()
	} else {
		m.Activate()
	}
	if err := uc.repo.Update(ctx, m); err != nil {
		return nil, err
	}

	uc.logger.Info("member status changed",
		zap.Uint("member_id", m.ID),
		zap.String("status", string(m.Status)),
		zap.Uint("operator", actor.MemberID),
	)
	return toMemberInfo(m), nil
}

// GetProfileUseCase 查询当前会员
type GetProfileUseCase struct {
	repo member.Repository
}

// NewGetProfileUseCase 创建用例
func NewGetProfileUseCase(repo member.Repository) *GetProfileUseCase {
	return &GetProfileUseCase{repo: repo}
}

// Execute 返回会员信息
func (uc *GetProfileUseCase) Execute(ctx context.Context, memberID uint) (*MemberInfo, error) {
	m, err := uc.repo.FindByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return toMemberInfo(m), nil
}

// ActiveMember 加载会员并确认未被停用
// 锁价和预订前调用，Token中的身份不反映停用状态
func ActiveMember(ctx context.Context, repo member.Repository, memberID uint) (*member.Member, error) {
	m, err := repo.FindByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if m.IsSuspended() {
		return nil, member.ErrMemberSuspended
	}
	return m, nil
}
