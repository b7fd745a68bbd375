package memory

import (
	"context"
	"sync"

	"github.com/xiebiao/lodging/internal/domain/member"
)

// MemberRepository 会员仓储内存实现
type MemberRepository struct {
	mu      sync.RWMutex
	members map[uint]member.Member
	byEmail map[string]uint
	nextID  uint
}

// NewMemberRepository 创建会员仓储
func NewMemberRepository() *MemberRepository {
	return &MemberRepository{
		members: make(map[uint]member.Member),
		byEmail: make(map[string]uint),
	}
}

// Create 创建会员
func (r *MemberRepository) Create(ctx context.Context, m *member.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[m.Email]; ok {
		return member.ErrEmailDuplicate
	}

	r.nextID++
	m.ID = r.nextID
	r.members[m.ID] = *m
	r.byEmail[m.Email] = m.ID

	id, email := m.ID, m.Email
	recordUndo(ctx, "member.create", func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.members, id)
		delete(r.byEmail, email)
	})
	return nil
}

// FindByID 根据ID查找会员
func (r *MemberRepository) FindByID(ctx context.Context, id uint) (*member.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.members[id]
	if !ok {
		return nil, member.ErrMemberNotFound
	}
	return &m, nil
}

// FindByEmail 根据邮箱查找会员
func (r *MemberRepository) FindByEmail(ctx context.Context, email string) (*member.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, member.ErrMemberNotFound
	}
	m := r.members[id]
	return &m, nil
}

// Update 更新会员
func (r *MemberRepository) Update(ctx context.Context, m *member.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.members[m.ID]
	if !ok {
		return member.ErrMemberNotFound
	}
	r.members[m.ID] = *m

	recordUndo(ctx, "member.update", func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.members[prev.ID] = prev
	})
	return nil
}
