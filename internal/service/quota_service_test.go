package service

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestQuotaGuard_Admit(t *testing.T) {
	Convey("Admit 先递增后判断", t, func() {
		ctx := context.Background()
		store := newFakeQuotaStore()
		guard := NewQuotaGuard(store, 5)

		Convey("上限内的请求依次放行", func() {
			for i := int64(1); i <= 5; i++ {
				count, err := guard.Admit(ctx, "sess-1")
				So(err, ShouldBeNil)
				So(count, ShouldEqual, i)
			}
		})

		Convey("超过上限的请求被拒绝", func() {
			for i := 0; i < 5; i++ {
				_, err := guard.Admit(ctx, "sess-1")
				So(err, ShouldBeNil)
			}

			count, err := guard.Admit(ctx, "sess-1")
			So(err, ShouldEqual, ErrQuotaExceeded)
			So(count, ShouldEqual, 6)
		})

		Convey("被拒绝的请求也已计数", func() {
			for i := 0; i < 7; i++ {
				_, _ = guard.Admit(ctx, "sess-1")
			}
			count, err := store.Count(ctx, "sess-1")
			So(err, ShouldBeNil)
			So(count, ShouldEqual, 7)
		})

		Convey("不同会话的计数互不影响", func() {
			for i := 0; i < 5; i++ {
				_, _ = guard.Admit(ctx, "sess-1")
			}
			_, err := guard.Admit(ctx, "sess-2")
			So(err, ShouldBeNil)
		})
	})
}

func TestQuotaGuard_Remaining(t *testing.T) {
	Convey("Remaining 查询剩余额度且不计数", t, func() {
		ctx := context.Background()
		store := newFakeQuotaStore()
		guard := NewQuotaGuard(store, 5)

		Convey("新会话剩余额度等于上限", func() {
			remaining, err := guard.Remaining(ctx, "fresh")
			So(err, ShouldBeNil)
			So(remaining, ShouldEqual, 5)

			count, _ := store.Count(ctx, "fresh")
			So(count, ShouldEqual, 0)
		})

		Convey("超额后剩余额度不为负", func() {
			for i := 0; i < 8; i++ {
				_, _ = guard.Admit(ctx, "sess-1")
			}
			remaining, err := guard.Remaining(ctx, "sess-1")
			So(err, ShouldBeNil)
			So(remaining, ShouldEqual, 0)
		})
	})
}
