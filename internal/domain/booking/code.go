package booking

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// GenerateCode 生成预订号
// 格式：BK + Unix秒 + 6位随机数，例如BK1735776000042517
// 唯一性由存储层唯一索引兜底，冲突时调用方重新生成
func GenerateCode(now time.Time) string {
	return fmt.Sprintf("BK%d%06d", now.Unix(), rand.IntN(1000000))
}
