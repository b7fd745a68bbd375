package hotel

import (
	apperrors "github.com/xiebiao/lodging/pkg/errors"
)

var (
	// ErrHotelNotFound 酒店不存在
	ErrHotelNotFound = apperrors.New(apperrors.ErrCodeHotelNotFound, "酒店不存在")

	// ErrInvalidHotel 酒店信息不完整
	ErrInvalidHotel = apperrors.New(apperrors.ErrCodeInvalidParams, "酒店名称和城市不能为空")
)
