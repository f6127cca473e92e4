package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDo(t *testing.T) {
	fastPolicy := Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
	}

	Convey("retry.Do 仅对可重试错误退避重试", t, func() {
		ctx := context.Background()

		Convey("成功时只执行一次", func() {
			calls := 0
			err := Do(ctx, fastPolicy, func(ctx context.Context) error {
				calls++
				return nil
			})
			So(err, ShouldBeNil)
			So(calls, ShouldEqual, 1)
		})

		Convey("可重试错误最多尝试 MaxAttempts 次", func() {
			calls := 0
			upstream := fmt.Errorf("model overloaded: %w", ErrRetryable)
			err := Do(ctx, fastPolicy, func(ctx context.Context) error {
				calls++
				return upstream
			})
			So(err, ShouldNotBeNil)
			So(errors.Is(err, ErrRetryable), ShouldBeTrue)
			So(calls, ShouldEqual, 3)
		})

		Convey("瞬时失败后恢复则返回成功", func() {
			calls := 0
			err := Do(ctx, fastPolicy, func(ctx context.Context) error {
				calls++
				if calls < 2 {
					return fmt.Errorf("throttled: %w", ErrRetryable)
				}
				return nil
			})
			So(err, ShouldBeNil)
			So(calls, ShouldEqual, 2)
		})

		Convey("非可重试错误立即返回", func() {
			calls := 0
			fatal := errors.New("invalid request")
			err := Do(ctx, fastPolicy, func(ctx context.Context) error {
				calls++
				return fatal
			})
			So(err, ShouldEqual, fatal)
			So(calls, ShouldEqual, 1)
		})

		Convey("context 取消时停止重试", func() {
			cancelled, cancel := context.WithCancel(ctx)
			calls := 0
			err := Do(cancelled, fastPolicy, func(ctx context.Context) error {
				calls++
				cancel()
				return fmt.Errorf("overloaded: %w", ErrRetryable)
			})
			So(err, ShouldEqual, context.Canceled)
			So(calls, ShouldEqual, 1)
		})
	})
}
