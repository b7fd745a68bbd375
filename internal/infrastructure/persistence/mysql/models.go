package mysql

import (
	"time"
)

// MemberModel GORM会员模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/member/entity.go是领域实体，不依赖GORM
// 3. Repository负责两者之间的转换
type MemberModel struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string    `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Nickname  string    `gorm:"size:50;not null;comment:昵称"`
	Role      string    `gorm:"size:16;not null;default:GUEST;comment:角色"`
	Status    string    `gorm:"size:16;not null;default:ACTIVE;comment:状态"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (MemberModel) TableName() string {
	return "members"
}

// HotelModel GORM酒店模型
type HotelModel struct {
	ID        uint      `gorm:"primaryKey"`
	OwnerID   uint      `gorm:"index;not null;comment:经营者会员ID"`
	Name      string    `gorm:"size:200;not null;comment:酒店名称"`
	City      string    `gorm:"index;size:100;not null;comment:城市"`
	Address   string    `gorm:"size:500;comment:地址"`
	Status    string    `gorm:"size:16;not null;default:ACTIVE;comment:状态"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (HotelModel) TableName() string {
	return "hotels"
}

// RoomModel GORM房型模型
// 设计说明:
// 1. 价格使用int64存储最小货币单位
// 2. available_rooms只通过条件UPDATE修改，保证0 <= available <= total
// 3. 特价字段平铺在房型表上，deal_active + deal_valid_until判断是否生效
type RoomModel struct {
	ID                  uint       `gorm:"primaryKey"`
	HotelID             uint       `gorm:"index;not null;comment:酒店ID"`
	RoomType            string     `gorm:"size:100;not null;comment:房型名称"`
	BasePrice           int64      `gorm:"not null;comment:基础价(分/晚)"`
	WeekendSurcharge    int64      `gorm:"not null;default:0;comment:周末加价(分/晚)"`
	TotalRooms          int        `gorm:"not null;comment:总房量"`
	AvailableRooms      int        `gorm:"not null;comment:可售房量"`
	Status              string     `gorm:"size:16;not null;default:ACTIVE;comment:状态"`
	DealActive          bool       `gorm:"index:idx_deal;not null;default:false;comment:特价开关"`
	DealDiscountPercent int        `gorm:"not null;default:0;comment:特价折扣(%)"`
	DealPrice           int64      `gorm:"not null;default:0;comment:特价(分/晚)"`
	DealValidUntil      *time.Time `gorm:"index:idx_deal;comment:特价截止时间"`
	CreatedAt           time.Time  `gorm:"comment:创建时间"`
	UpdatedAt           time.Time  `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (RoomModel) TableName() string {
	return "rooms"
}

// RoomInventoryLogModel 房量变更流水（只追加）
type RoomInventoryLogModel struct {
	ID        uint      `gorm:"primaryKey"`
	RoomID    uint      `gorm:"index;not null;comment:房型ID"`
	Delta     int       `gorm:"not null;comment:变化量"`
	Reason    string    `gorm:"size:64;not null;comment:原因"`
	CreatedAt time.Time `gorm:"index;comment:创建时间"`
}

// TableName 指定表名
func (RoomInventoryLogModel) TableName() string {
	return "room_inventory_logs"
}

// BookingModel GORM预订模型
// 教学要点:
// 1. 与BookingLineModel是一对多关系
// 2. BookingCode有唯一索引(业务主键)
// 3. 费用明细平铺保存，创建后不再修改
type BookingModel struct {
	ID          uint               `gorm:"primaryKey"`
	BookingCode string             `gorm:"uniqueIndex;size:32;not null;comment:预订号"`
	GuestID     uint               `gorm:"index;not null;comment:住客会员ID"`
	HotelID     uint               `gorm:"index;not null;comment:酒店ID"`
	CheckIn     time.Time          `gorm:"index:idx_stay;not null;comment:入住日期"`
	CheckOut    time.Time          `gorm:"index:idx_stay;not null;comment:离店日期"`
	Nights      int                `gorm:"not null;comment:晚数"`
	Lines       []BookingLineModel `gorm:"foreignKey:BookingID"`

	Subtotal         int64 `gorm:"not null;comment:房费小计"`
	WeekendSurcharge int64 `gorm:"not null;default:0;comment:周末加价"`
	EarlyCheckInFee  int64 `gorm:"not null;default:0;comment:提前入住费"`
	LateCheckOutFee  int64 `gorm:"not null;default:0;comment:延迟退房费"`
	Taxes            int64 `gorm:"not null;default:0;comment:税费"`
	ServiceFee       int64 `gorm:"not null;default:0;comment:服务费"`
	Discount         int64 `gorm:"not null;default:0;comment:折扣"`
	TotalPrice       int64 `gorm:"not null;comment:总价"`

	EarlyCheckIn    bool   `gorm:"not null;default:false"`
	LateCheckOut    bool   `gorm:"not null;default:false"`
	SpecialRequests string `gorm:"type:text;comment:特殊要求"`

	BookingStatus string `gorm:"index;size:16;not null;comment:预订状态"`
	PaymentStatus string `gorm:"size:16;not null;comment:支付状态"`
	PaidAmount    int64  `gorm:"not null;default:0;comment:已支付金额"`

	CancellationDate   *time.Time `gorm:"comment:取消时间"`
	CancellationReason string     `gorm:"size:500;comment:取消原因"`
	RefundAmount       int64      `gorm:"not null;default:0;comment:退款金额"`

	Version int `gorm:"not null;default:0;comment:乐观锁版本号"`

	CreatedAt time.Time `gorm:"index;comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BookingModel) TableName() string {
	return "bookings"
}

// BookingLineModel GORM预订明细模型
// 记录下单时的单价快照和价格来源
type BookingLineModel struct {
	ID            uint   `gorm:"primaryKey"`
	BookingID     uint   `gorm:"index;not null;comment:预订ID"`
	RoomID        uint   `gorm:"index;not null;comment:房型ID"`
	RoomType      string `gorm:"size:100;not null;comment:房型名称快照"`
	Quantity      int    `gorm:"not null;comment:间数"`
	PricePerNight int64  `gorm:"not null;comment:下单时单价(分/晚)"`
	PriceSource   string `gorm:"size:8;not null;comment:价格来源"`
}

// TableName 指定表名
func (BookingLineModel) TableName() string {
	return "booking_lines"
}
