package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDo_SuccessFirstTry(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_SuccessAfterRetries(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("临时故障")
		}
		return nil
	},
		WithMaxRetries(3),
		WithInitialDelay(time.Millisecond),
	)

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_AllRetriesExhausted(t *testing.T) {
	calls := 0
	boom := errors.New("一直失败")
	err := Do(context.Background(), func() error {
		calls++
		return boom
	},
		WithMaxRetries(2),
		WithInitialDelay(time.Millisecond),
	)

	assert.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls) // 首次 + 2 次重试
}

func TestDo_RetryIfRejects(t *testing.T) {
	// 被判定为不可重试的错误直接返回，不再消耗重试次数
	calls := 0
	fatal := errors.New("配额耗尽")
	err := Do(context.Background(), func() error {
		calls++
		return fatal
	},
		WithMaxRetries(5),
		WithInitialDelay(time.Millisecond),
		WithRetryIf(func(err error) bool { return !errors.Is(err, fatal) }),
	)

	assert.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, func() error {
		calls++
		return errors.New("失败")
	},
		WithMaxRetries(3),
		WithInitialDelay(50*time.Millisecond),
	)

	assert.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls) // 取消后不再重试
}

func TestDo_NilFunction(t *testing.T) {
	err := Do(context.Background(), nil)
	assert.Error(t, err)
}

func TestCalculateDelay(t *testing.T) {
	tests := []struct {
		name    string
		attempt int
		want    time.Duration
	}{
		{name: "第一次重试用初始延迟", attempt: 1, want: time.Second},
		{name: "第二次重试翻倍", attempt: 2, want: 2 * time.Second},
		{name: "第三次重试再翻倍", attempt: 3, want: 4 * time.Second},
		{name: "超过上限被封顶", attempt: 10, want: 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateDelay(tt.attempt, time.Second, 30*time.Second, 2.0)
			assert.Equal(t, tt.want, got)
		})
	}
}
