package pricing

import (
	"context"

	"github.com/xiebiao/lodging/internal/domain/pricing"
)

// GetEffectivePriceUseCase 查询会员在某房型上的有效价格
type GetEffectivePriceUseCase struct {
	resolver *pricing.Resolver
}

// NewGetEffectivePriceUseCase 创建用例
func NewGetEffectivePriceUseCase(resolver *pricing.Resolver) *GetEffectivePriceUseCase {
	return &GetEffectivePriceUseCase{resolver: resolver}
}

// EffectivePriceResponse 有效价格
type EffectivePriceResponse struct {
	RoomID uint   `json:"room_id"`
	Price  int64  `json:"price"`
	Source string `json:"source"`
	LockID string `json:"lock_id,omitempty"`
}

// Execute 解析有效价格
func (uc *GetEffectivePriceUseCase) Execute(ctx context.Context, memberID, roomID uint) (*EffectivePriceResponse, error) {
	p, err := uc.resolver.ResolveEffectivePrice(ctx, memberID, roomID)
	if err != nil {
		return nil, err
	}
	return &EffectivePriceResponse{
		RoomID: p.RoomID,
		Price:  p.Price,
		Source: string(p.Source),
		LockID: p.LockID,
	}, nil
}
