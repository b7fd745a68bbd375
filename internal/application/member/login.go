package member

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/lodging/internal/domain/member"
	"github.com/xiebiao/lodging/pkg/jwt"
)

// SessionStore 会话存储，redis.SessionStore和memory.SessionStore都实现了它
type SessionStore interface {
	SaveSession(ctx context.Context, memberID uint, data map[string]interface{}, ttl time.Duration) error
	DeleteSession(ctx context.Context, memberID uint) error
	AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error
	IsInBlacklist(ctx context.Context, token string) (bool, error)
}

// sessionTTL 会话有效期与Refresh Token一致
const sessionTTL = 7 * 24 * time.Hour

// LoginUseCase 会员登录用例
// 1. 验证邮箱密码，停用会员不能登录
// 2. 生成携带角色的JWT Token对
// 3. 保存会话
type LoginUseCase struct {
	memberService member.Service
	jwtManager    *jwt.Manager
	sessions      SessionStore
	logger        *zap.Logger
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(
	memberService member.Service,
	jwtManager *jwt.Manager,
	sessions SessionStore,
	logger *zap.Logger,
) *LoginUseCase {
	return &LoginUseCase{
		memberService: memberService,
		jwtManager:    jwtManager,
		sessions:      sessions,
		logger:        logger,
	}
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	m, err := uc.memberService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	tokenPair, err := uc.jwtManager.GenerateToken(m.ID, m.Email, string(m.Role))
	if err != nil {
		return nil, err
	}

	sessionData := map[string]interface{}{
		"member_id": m.ID,
		"email":     m.Email,
		"role":      string(m.Role),
		"login_at":  time.Now().Unix(),
		"ip":        req.ClientIP,
	}
	// 会话保存失败不影响登录
	if err := uc.sessions.SaveSession(ctx, m.ID, sessionData, sessionTTL); err != nil {
		uc.logger.Warn("save session failed", zap.Uint("member_id", m.ID), zap.Error(err))
	}

	return &LoginResponse{
		Member:       *toMemberInfo(m),
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

// LogoutUseCase 会员登出用例
type LogoutUseCase struct {
	sessions   SessionStore
	jwtManager *jwt.Manager
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(sessions SessionStore, jwtManager *jwt.Manager) *LogoutUseCase {
	return &LogoutUseCase{sessions: sessions, jwtManager: jwtManager}
}

// Execute 删除会话并把Access Token加入黑名单，黑名单有效期等于Token有效期
func (uc *LogoutUseCase) Execute(ctx context.Context, memberID uint, accessToken string) error {
	if err := uc.sessions.DeleteSession(ctx, memberID); err != nil {
		return err
	}
	return uc.sessions.AddToBlacklist(ctx, accessToken, uc.jwtManager.AccessTokenTTL())
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string
	Password string
	ClientIP string
}

// LoginResponse 登录响应
type LoginResponse struct {
	Member       MemberInfo `json:"member"`
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	ExpiresIn    int64      `json:"expires_in"` // Access Token过期时间（秒）
}
