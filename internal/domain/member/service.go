package member

import (
	"context"
	"errors"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/lodging/pkg/errors"
)

var (
	emailPattern  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	letterPattern = regexp.MustCompile(`[a-zA-Z]`)
	digitPattern  = regexp.MustCompile(`[0-9]`)
)

// Service 会员领域服务
// 负责密码哈希与校验，不处理HTTP与Token
type Service interface {
	Register(ctx context.Context, email, password, nickname string, role Role) (*Member, error)
	Login(ctx context.Context, email, password string) (*Member, error)
	ValidatePassword(hashedPassword, plainPassword string) error
}

type service struct {
	repo Repository
	cost int
}

// NewService 创建会员服务，cost为bcrypt代价（<=0时使用默认值）
func NewService(repo Repository, cost int) Service {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &service{repo: repo, cost: cost}
}

// Register 注册
// 业务规则：
// 1. 邮箱格式、密码强度、昵称长度校验
// 2. 只能注册为GUEST或HOST，ADMIN由运维开通
// 3. 邮箱唯一性由存储层唯一索引保证
func (s *service) Register(ctx context.Context, email, password, nickname string, role Role) (*Member, error) {
	if !emailPattern.MatchString(email) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "邮箱格式不正确")
	}

	if err := validatePasswordStrength(password); err != nil {
		return nil, err
	}

	if len(nickname) < 2 || len(nickname) > 50 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "昵称长度应为2-50个字符")
	}

	if role == "" {
		role = RoleGuest
	}
	if role != RoleGuest && role != RoleHost {
		return nil, ErrInvalidRole
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, apperrors.Wrap(err, "密码加密失败")
	}

	m := NewMember(email, string(hashed), nickname, role)
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	return m, nil
}

// Login 校验邮箱与密码
// 邮箱不存在和密码错误返回同一个错误，避免暴露账号是否存在
func (s *service) Login(ctx context.Context, email, password string) (*Member, error) {
	m, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, err
	}

	if err := s.ValidatePassword(m.Password, password); err != nil {
		return nil, err
	}

	if m.IsSuspended() {
		return nil, ErrMemberSuspended
	}

	return m, nil
}

// ValidatePassword 比对明文密码与哈希
func (s *service) ValidatePassword(hashedPassword, plainPassword string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return apperrors.ErrInvalidPassword
		}
		return apperrors.Wrap(err, "密码验证失败")
	}
	return nil
}

// validatePasswordStrength 8-20位，必须同时包含字母和数字
func validatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 20 {
		return ErrWeakPassword
	}
	if !letterPattern.MatchString(password) || !digitPattern.MatchString(password) {
		return ErrWeakPassword
	}
	return nil
}
