package hotel

import (
	"time"
)

// Status 酒店状态
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// Hotel 酒店实体
// 房型库存属于Room聚合，酒店只负责归属与经营状态
type Hotel struct {
	ID        uint
	OwnerID   uint // 经营者会员ID
	Name      string
	City      string
	Address   string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewHotel 创建酒店
func NewHotel(ownerID uint, name, city, address string) *Hotel {
	now := time.Now()
	return &Hotel{
		OwnerID:   ownerID,
		Name:      name,
		City:      city,
		Address:   address,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsOwnedBy 是否由指定会员经营
func (h *Hotel) IsOwnedBy(memberID uint) bool {
	return h.OwnerID == memberID
}

// IsActive 是否在营业
func (h *Hotel) IsActive() bool {
	return h.Status == StatusActive
}
