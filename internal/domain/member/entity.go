package member

import (
	"time"
)

// Role 会员角色
type Role string

const (
	RoleGuest Role = "GUEST" // 住客
	RoleHost  Role = "HOST"  // 酒店经营者
	RoleAdmin Role = "ADMIN" // 平台管理员
)

// IsValid 是否为已知角色
func (r Role) IsValid() bool {
	switch r {
	case RoleGuest, RoleHost, RoleAdmin:
		return true
	}
	return false
}

// Status 会员状态
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusSuspended Status = "SUSPENDED"
)

// Member 会员实体（聚合根）
// Password保存bcrypt哈希，不提供读取明文的方法
type Member struct {
	ID        uint
	Email     string
	Password  string
	Nickname  string
	Role      Role
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewMember 创建会员，hashedPassword必须已经过bcrypt处理
func NewMember(email, hashedPassword, nickname string, role Role) *Member {
	now := time.Now()
	return &Member{
		Email:     email,
		Password:  hashedPassword,
		Nickname:  nickname,
		Role:      role,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAdmin 是否管理员
func (m *Member) IsAdmin() bool {
	return m.Role == RoleAdmin
}

// IsSuspended 是否已停用
func (m *Member) IsSuspended() bool {
	return m.Status == StatusSuspended
}

// Suspend 停用会员，停用后不能锁价和预订
func (m *Member) Suspend() {
	m.Status = StatusSuspended
	m.UpdatedAt = time.Now()
}

// Activate 恢复会员
func (m *Member) Activate() {
	m.Status = StatusActive
	m.UpdatedAt = time.Now()
}

// Actor 发起操作的会员身份，来自Token
// 角色用于授权；是否停用以库中状态为准，需要时由用例回查
type Actor struct {
	MemberID uint
	Role     Role
}

// IsAdmin 是否管理员
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
