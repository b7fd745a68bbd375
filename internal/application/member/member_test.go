package member_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	appmember "github.com/xiebiao/lodging/internal/application/member"
	"github.com/xiebiao/lodging/internal/domain/member"
	"github.com/xiebiao/lodging/internal/infrastructure/persistence/memory"
	apperrors "github.com/xiebiao/lodging/pkg/errors"
	"github.com/xiebiao/lodging/pkg/jwt"
)

func TestRegisterLoginLogout(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewMemberRepository()
	sessions := memory.NewSessionStore()
	service := member.NewService(repo, bcrypt.MinCost)
	jwtManager := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)

	register := appmember.NewRegisterUseCase(service, zap.NewNop())
	login := appmember.NewLoginUseCase(service, jwtManager, sessions, zap.NewNop())
	logout := appmember.NewLogoutUseCase(sessions, jwtManager)

	t.Run("默认注册为住客", func(t *testing.T) {
		info, err := register.Execute(ctx, appmember.RegisterRequest{
			Email: "guest@example.com", Password: "password123", Nickname: "小王",
		})
		require.NoError(t, err)
		assert.Equal(t, "GUEST", info.Role)
		assert.Equal(t, "ACTIVE", info.Status)
	})

	t.Run("不能自助注册管理员", func(t *testing.T) {
		_, err := register.Execute(ctx, appmember.RegisterRequest{
			Email: "root@example.com", Password: "password123", Role: member.RoleAdmin,
		})
		assert.ErrorIs(t, err, member.ErrInvalidRole)
	})

	var accessToken string
	t.Run("登录签发携带角色的Token", func(t *testing.T) {
		resp, err := login.Execute(ctx, appmember.LoginRequest{Email: "guest@example.com", Password: "password123"})
		require.NoError(t, err)
		assert.Equal(t, int64(3600), resp.ExpiresIn)

		claims, err := jwtManager.ParseToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, resp.Member.ID, claims.MemberID)
		assert.Equal(t, "GUEST", claims.Role)
		accessToken = resp.AccessToken
	})

	t.Run("密码错误", func(t *testing.T) {
		_, err := login.Execute(ctx, appmember.LoginRequest{Email: "guest@example.com", Password: "wrong-pass1"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
	})

	t.Run("登出后Token进入黑名单", func(t *testing.T) {
		m, err := repo.FindByEmail(ctx, "guest@example.com")
		require.NoError(t, err)
		require.NoError(t, logout.Execute(ctx, m.ID, accessToken))

		ok, err := sessions.IsInBlacklist(ctx, accessToken)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestSetStatus(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewMemberRepository()
	uc := appmember.NewSetStatusUseCase(repo, zap.NewNop())

	admin := member.NewMember("admin@example.com", "hashed", "admin", member.RoleAdmin)
	guest := member.NewMember("guest@example.com", "hashed", "guest", member.RoleGuest)
	require.NoError(t, repo.Create(ctx, admin))
	require.NoError(t, repo.Create(ctx, guest))

	adminActor := member.Actor{MemberID: admin.ID, Role: member.RoleAdmin}

	t.Run("非管理员无权操作", func(t *testing.T) {
		_, err := uc.Execute(ctx, member.Actor{MemberID: guest.ID, Role: member.RoleGuest}, admin.ID, true)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("管理员不能停用自己", func(t *testing.T) {
		_, err := uc.Execute(ctx, adminActor, admin.ID, true)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidParams))
	})

	t.Run("停用后ActiveMember拒绝", func(t *testing.T) {
		info, err := uc.Execute(ctx, adminActor, guest.ID, true)
		require.NoError(t, err)
		assert.Equal(t, "SUSPENDED", info.Status)

		_, err = appmember.ActiveMember(ctx, repo, guest.ID)
		assert.ErrorIs(t, err, member.ErrMemberSuspended)
	})

	t.Run("恢复", func(t *testing.T) {
		_, err := uc.Execute(ctx, adminActor, guest.ID, false)
		require.NoError(t, err)

		m, err := appmember.ActiveMember(ctx, repo, guest.ID)
		require.NoError(t, err)
		assert.Equal(t, guest.ID, m.ID)
	})
}
