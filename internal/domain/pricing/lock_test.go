package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewPriceLock(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	lock := NewPriceLock(7, 3, 100000, 0, now)
	assert.NotEmpty(t, lock.ID)
	assert.Equal(t, now.Add(30*time.Minute), lock.ExpiresAt, "默认有效期30分钟")
	assert.True(t, lock.IsHeldBy(7))
	assert.False(t, lock.IsHeldBy(8))

	other := NewPriceLock(7, 3, 100000, time.Minute, now)
	assert.NotEqual(t, lock.ID, other.ID)
}

func TestPriceLock_IsExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	lock := NewPriceLock(1, 1, 100000, 30*time.Minute, now)

	assert.False(t, lock.IsExpired(now.Add(29*time.Minute)))
	assert.True(t, lock.IsExpired(now.Add(30*time.Minute)), "到期时刻即视为过期")
	assert.True(t, lock.IsExpired(now.Add(31*time.Minute)))
}
