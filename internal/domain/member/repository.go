package member

import (
	"context"
)

// Repository 会员仓储接口
type Repository interface {
	// Create 创建会员，邮箱重复返回ErrEmailDuplicate
	Create(ctx context.Context, m *Member) error

	// FindByID 不存在返回ErrMemberNotFound
	FindByID(ctx context.Context, id uint) (*Member, error)

	// FindByEmail 不存在返回ErrMemberNotFound
	FindByEmail(ctx context.Context, email string) (*Member, error)

	// Update 更新昵称、角色、状态
	Update(ctx context.Context, m *Member) error
}
