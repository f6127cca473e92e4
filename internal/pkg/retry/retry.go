package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// ErrRetryable 标记可重试的上游错误（过载、限流等瞬时失败）
// 上游客户端通过 errors.Is 链接该哨兵错误来声明可重试
var ErrRetryable = errors.New("retryable upstream error")

// Policy 有界指数退避策略（带抖动）
type Policy struct {
	MaxAttempts int           // 总尝试次数（含首次）
	BaseDelay   time.Duration // 首次重试前的基础等待
	MaxDelay    time.Duration // 单次等待上限
}

// DefaultPolicy 默认策略：3次尝试，500ms起步，8s封顶
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    8 * time.Second,
	}
}

// Do 执行 fn，仅在错误链包含 ErrRetryable 时重试
// 非可重试错误立即返回；context 取消时返回 ctx.Err()
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 1
	}

	var err error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.backoff(attempt)):
			}
		}

		err = fn(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrRetryable) {
			return err
		}
	}
	return err
}

// backoff 第 attempt 次重试前的等待时间：base * 2^(attempt-1) 加满幅抖动
func (p Policy) backoff(attempt int) time.Duration {
	delay := p.BaseDelay << (attempt - 1)
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	if delay <= 0 {
		return 0
	}
	// 抖动取 [delay/2, delay)，避免并发请求同步重试
	half := delay / 2
	return half + time.Duration(rand.Int63n(int64(half)+1))
}
