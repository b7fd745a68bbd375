package dto

// LockPriceRequest 锁价请求
// Price是客户端当前看到的基础价，必须与服务端一致
type LockPriceRequest struct {
	RoomID uint  `json:"room_id" binding:"required"`
	Price  int64 `json:"price" binding:"required,gt=0"`
}
