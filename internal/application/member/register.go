package member

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/lodging/internal/domain/member"
)

// RegisterUseCase 会员注册用例
// 自助注册只允许GUEST和HOST，管理员由运维初始化
type RegisterUseCase struct {
	memberService member.Service
	logger        *zap.Logger
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(memberService member.Service, logger *zap.Logger) *RegisterUseCase {
	return &RegisterUseCase{
		memberService: memberService,
		logger:        logger,
	}
}

// Execute 执行注册
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*MemberInfo, error) {
	role := req.Role
	if role == "" {
		role = member.RoleGuest
	}
	if role == member.RoleAdmin {
		return nil, member.ErrInvalidRole
	}

	m, err := uc.memberService.Register(ctx, req.Email, req.Password, req.Nickname, role)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("member registered", zap.Uint("member_id", m.ID), zap.String("role", string(m.Role)))
	return toMemberInfo(m), nil
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string
	Password string
	Nickname string
	Role     member.Role // 为空时按GUEST注册
}

// MemberInfo 会员信息，不含密码
type MemberInfo struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

func toMemberInfo(m *member.Member) *MemberInfo {
	return &MemberInfo{
		ID:       m.ID,
		Email:    m.Email,
		Nickname: m.Nickname,
		Role:     string(m.Role),
		Status:   string(m.Status),
	}
}
