package saga

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaga_Execute_Success(t *testing.T) {
	executed := make([]string, 0)

	s := NewSaga(5 * time.Second)
	s.AddStep("扣减房量",
		func(ctx context.Context) error {
			executed = append(executed, "扣减房量")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "恢复房量")
			return nil
		},
	)
	s.AddStep("保存预订",
		func(ctx context.Context) error {
			executed = append(executed, "保存预订")
			return nil
		},
		nil,
	)

	require.NoError(t, s.Execute(context.Background()))
	assert.Equal(t, []string{"扣减房量", "保存预订"}, executed)
	assert.Equal(t, 2, s.Len())
}

func TestSaga_Execute_FailureAndCompensate(t *testing.T) {
	executed := make([]string, 0)
	errPersist := errors.New("预订号冲突")

	s := NewSaga(5 * time.Second)
	s.AddStep("扣减房型A",
		func(ctx context.Context) error {
			executed = append(executed, "扣减房型A")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "恢复房型A")
			return nil
		},
	)
	s.AddStep("扣减房型B",
		func(ctx context.Context) error {
			executed = append(executed, "扣减房型B")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "恢复房型B")
			return nil
		},
	)
	s.AddStep("保存预订",
		func(ctx context.Context) error {
			executed = append(executed, "保存预订")
			return errPersist
		},
		func(ctx context.Context) error {
			executed = append(executed, "删除预订")
			return nil
		},
	)

	err := s.Execute(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errPersist, "原始错误应保留在错误链上")

	expected := []string{"扣减房型A", "扣减房型B", "保存预订", "恢复房型B", "恢复房型A"}
	assert.Equal(t, expected, executed)
	assert.Equal(t, 0, s.Len())
}

func TestSaga_Execute_Timeout(t *testing.T) {
	executed := make([]string, 0)

	s := NewSaga(50 * time.Millisecond)
	s.AddStep("快速步骤",
		func(ctx context.Context) error {
			executed = append(executed, "快速步骤")
			return nil
		},
		func(ctx context.Context) error {
			require.NoError(t, ctx.Err(), "补偿不应继承已超时的context")
			executed = append(executed, "快速步骤补偿")
			return nil
		},
	)
	s.AddStep("慢速步骤",
		func(ctx context.Context) error {
			select {
			case <-time.After(time.Second):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
		nil,
	)

	err := s.Execute(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, []string{"快速步骤", "快速步骤补偿"}, executed)
}

func TestSaga_RecordAndRollback(t *testing.T) {
	t.Run("逆序回滚并汇总补偿错误", func(t *testing.T) {
		order := make([]int, 0)
		s := NewSaga(0)
		s.Record("第一步", func(ctx context.Context) error {
			order = append(order, 1)
			return nil
		})
		s.Record("第二步", func(ctx context.Context) error {
			order = append(order, 2)
			return errors.New("补偿失败")
		})
		s.Record("无补偿", nil)

		err := s.Rollback(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "第二步")
		assert.Equal(t, []int{2, 1}, order, "即使某个补偿失败也要继续执行其余补偿")
	})

	t.Run("回滚后清空登记", func(t *testing.T) {
		count := 0
		s := NewSaga(0)
		s.Record("一次", func(ctx context.Context) error {
			count++
			return nil
		})

		require.NoError(t, s.Rollback(context.Background()))
		require.NoError(t, s.Rollback(context.Background()))
		assert.Equal(t, 1, count)
	})
}

func TestSaga_Context(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))

	s := NewSaga(0)
	ctx := WithSaga(context.Background(), s)
	assert.Same(t, s, FromContext(ctx))
}
