package member

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/lodging/pkg/errors"
)

type stubRepo struct {
	mu      sync.Mutex
	byEmail map[string]*Member
	nextID  uint
}

func newStubRepo() *stubRepo {
	return &stubRepo{byEmail: make(map[string]*Member)}
}

func (r *stubRepo) Create(ctx context.Context, m *Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[m.Email]; ok {
		return ErrEmailDuplicate
	}
	r.nextID++
	m.ID = r.nextID
	r.byEmail[m.Email] = m
	return nil
}

func (r *stubRepo) FindByID(ctx context.Context, id uint) (*Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.byEmail {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, ErrMemberNotFound
}

func (r *stubRepo) FindByEmail(ctx context.Context, email string) (*Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.byEmail[email]; ok {
		return m, nil
	}
	return nil, ErrMemberNotFound
}

func (r *stubRepo) Update(ctx context.Context, m *Member) error {
	return nil
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newStubRepo(), bcrypt.MinCost)

	t.Run("默认注册为住客", func(t *testing.T) {
		m, err := svc.Register(ctx, "guest@example.com", "password123", "小王", "")
		require.NoError(t, err)
		assert.NotZero(t, m.ID)
		assert.Equal(t, RoleGuest, m.Role)
		assert.Equal(t, StatusActive, m.Status)
		assert.NotEqual(t, "password123", m.Password, "密码必须以哈希存储")
	})

	t.Run("可以注册为酒店经营者", func(t *testing.T) {
		m, err := svc.Register(ctx, "host@example.com", "password123", "老板", RoleHost)
		require.NoError(t, err)
		assert.Equal(t, RoleHost, m.Role)
	})

	t.Run("不能自助注册管理员", func(t *testing.T) {
		_, err := svc.Register(ctx, "admin@example.com", "password123", "管理员", RoleAdmin)
		assert.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("邮箱重复", func(t *testing.T) {
		_, err := svc.Register(ctx, "guest@example.com", "password456", "小李", RoleGuest)
		assert.ErrorIs(t, err, ErrEmailDuplicate)
	})

	t.Run("参数校验", func(t *testing.T) {
		_, err := svc.Register(ctx, "not-an-email", "password123", "小王", RoleGuest)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidParams))

		_, err = svc.Register(ctx, "weak@example.com", "onlyletters", "小王", RoleGuest)
		assert.ErrorIs(t, err, ErrWeakPassword)

		_, err = svc.Register(ctx, "short@example.com", "password123", "x", RoleGuest)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidParams))
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	repo := newStubRepo()
	svc := NewService(repo, bcrypt.MinCost)

	registered, err := svc.Register(ctx, "guest@example.com", "password123", "小王", RoleGuest)
	require.NoError(t, err)

	t.Run("登录成功", func(t *testing.T) {
		m, err := svc.Login(ctx, "guest@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, m.ID)
	})

	t.Run("密码错误", func(t *testing.T) {
		_, err := svc.Login(ctx, "guest@example.com", "wrongpass1")
		assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
	})

	t.Run("邮箱不存在与密码错误返回相同错误", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "password123")
		assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
	})

	t.Run("停用会员不能登录", func(t *testing.T) {
		registered.Suspend()
		defer registered.Activate()

		_, err := svc.Login(ctx, "guest@example.com", "password123")
		assert.ErrorIs(t, err, ErrMemberSuspended)
	})
}
