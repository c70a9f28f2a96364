package service

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func newAuthFixture() (*AuthService, *fakeUserRepo) {
	users := newFakeUserRepo()
	return NewAuthService(users, "test-secret", time.Hour), users
}

func TestAuthService_Register(t *testing.T) {
	Convey("Register 用户注册", t, func() {
		ctx := context.Background()
		svc, _ := newAuthFixture()

		Convey("注册成功返回用户，带默认简介和头像", func() {
			user, err := svc.Register(ctx, "alice", "alice@example.com", "Str0ng!pass", "Alice")
			So(err, ShouldBeNil)
			So(user.ID, ShouldNotBeEmpty)
			So(user.Bio, ShouldEqual, defaultBio)
			So(user.Avatar, ShouldContainSubstring, "Alice")
			// 密码已加密
			So(user.Password, ShouldNotEqual, "Str0ng!pass")
		})

		Convey("弱密码被拒绝", func() {
			for _, pwd := range []string{"short1!", "alllowercase1!", "NOLOWER1!", "NoDigits!", "NoSpecial1"} {
				_, err := svc.Register(ctx, "alice", "alice@example.com", pwd, "Alice")
				So(err, ShouldEqual, ErrWeakPassword)
			}
		})

		Convey("用户名重复返回 ErrUserAlreadyExists", func() {
			_, err := svc.Register(ctx, "alice", "alice@example.com", "Str0ng!pass", "Alice")
			So(err, ShouldBeNil)
			_, err = svc.Register(ctx, "alice", "other@example.com", "Str0ng!pass", "Alice 2")
			So(err, ShouldEqual, ErrUserAlreadyExists)
		})

		Convey("邮箱重复返回 ErrEmailTaken", func() {
			_, err := svc.Register(ctx, "alice", "alice@example.com", "Str0ng!pass", "Alice")
			So(err, ShouldBeNil)
			_, err = svc.Register(ctx, "alice2", "alice@example.com", "Str0ng!pass", "Alice 2")
			So(err, ShouldEqual, ErrEmailTaken)
		})

		Convey("显示名称缺省时使用用户名", func() {
			user, err := svc.Register(ctx, "bob", "bob@example.com", "Str0ng!pass", "")
			So(err, ShouldBeNil)
			So(user.Name, ShouldEqual, "bob")
		})
	})
}

func TestAuthService_Login(t *testing.T) {
	Convey("Login 用户登录", t, func() {
		ctx := context.Background()
		svc, users := newAuthFixture()
		registered, _ := svc.Register(ctx, "alice", "alice@example.com", "Str0ng!pass", "Alice")

		Convey("登录成功返回 Token 并更新最后登录时间", func() {
			result, err := svc.Login(ctx, "alice", "Str0ng!pass")
			So(err, ShouldBeNil)
			So(result.AccessToken, ShouldNotBeEmpty)
			So(result.TokenType, ShouldEqual, "Bearer")
			So(result.User.ID, ShouldEqual, registered.ID)
			So(users.users[registered.ID].LastLoginAt, ShouldNotBeNil)
		})

		Convey("密码错误返回 ErrInvalidPassword", func() {
			_, err := svc.Login(ctx, "alice", "wrong-password")
			So(err, ShouldEqual, ErrInvalidPassword)
		})

		Convey("用户不存在返回 ErrUserNotFound", func() {
			_, err := svc.Login(ctx, "nobody", "Str0ng!pass")
			So(err, ShouldEqual, ErrUserNotFound)
		})

		Convey("登录后的 Token 能通过校验", func() {
			result, _ := svc.Login(ctx, "alice", "Str0ng!pass")
			user, err := svc.ValidateToken(result.AccessToken)
			So(err, ShouldBeNil)
			So(user.Username, ShouldEqual, "alice")
		})
	})
}

func TestAuthService_UpdateProfile(t *testing.T) {
	Convey("UpdateProfile 更新资料", t, func() {
		ctx := context.Background()
		svc, _ := newAuthFixture()
		alice, _ := svc.Register(ctx, "alice", "alice@example.com", "Str0ng!pass", "Alice")
		_, _ = svc.Register(ctx, "bob", "bob@example.com", "Str0ng!pass", "Bob")

		Convey("更新成功返回新资料", func() {
			user, err := svc.UpdateProfile(ctx, alice.ID, "alice_new", "Alice N", "hello")
			So(err, ShouldBeNil)
			So(user.Username, ShouldEqual, "alice_new")
			So(user.Bio, ShouldEqual, "hello")
		})

		Convey("改成已被占用的用户名返回 ErrUserAlreadyExists", func() {
			_, err := svc.UpdateProfile(ctx, alice.ID, "bob", "Alice", "")
			So(err, ShouldEqual, ErrUserAlreadyExists)
		})

		Convey("用户不存在返回 ErrUserNotFound", func() {
			_, err := svc.UpdateProfile(ctx, "missing", "x", "y", "")
			So(err, ShouldEqual, ErrUserNotFound)
		})
	})
}
