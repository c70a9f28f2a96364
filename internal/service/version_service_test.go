package service

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"pomelo/internal/model/bot"
)

func newVersionFixture() (*VersionService, *fakeChatbotRepo, *fakeVersionRepo) {
	chatbots := newFakeChatbotRepo()
	versions := &fakeVersionRepo{}
	return NewVersionService(chatbots, versions), chatbots, versions
}

func TestVersionService_Append(t *testing.T) {
	Convey("Append 追加版本并移动当前指针", t, func() {
		ctx := context.Background()
		svc, chatbots, _ := newVersionFixture()
		_ = chatbots.Create(ctx, &bot.Chatbot{ID: "bot-1", UserID: "alice", Author: bot.AuthorUser})

		Convey("首个版本序号为 1", func() {
			v, err := svc.Append(ctx, "bot-1", "翻译助手", "You are a translator.", "alice", "")
			So(err, ShouldBeNil)
			So(v.VersionNumber, ShouldEqual, 1)
			So(v.ChatbotID, ShouldEqual, "bot-1")
			So(v.ModifiedBy, ShouldEqual, "alice")
		})

		Convey("连续编辑序号递增无空洞", func() {
			for i, prompt := range []string{"v1", "v2", "v3"} {
				v, err := svc.Append(ctx, "bot-1", "翻译助手", prompt, "alice", "")
				So(err, ShouldBeNil)
				So(v.VersionNumber, ShouldEqual, i+1)
			}

			versions, err := svc.List(ctx, "bot-1")
			So(err, ShouldBeNil)
			So(len(versions), ShouldEqual, 3)
			// 最新在前
			So(versions[0].VersionNumber, ShouldEqual, 3)
			So(versions[2].VersionNumber, ShouldEqual, 1)
		})

		Convey("指针总是跟随最新版本", func() {
			_, err := svc.Append(ctx, "bot-1", "翻译助手", "v1", "alice", "")
			So(err, ShouldBeNil)
			v2, err := svc.Append(ctx, "bot-1", "翻译助手改", "v2", "alice", "")
			So(err, ShouldBeNil)

			chatbot, err := chatbots.FindByID(ctx, "bot-1")
			So(err, ShouldBeNil)
			So(chatbot.CurrentVersionID, ShouldEqual, v2.ID)
			So(chatbot.CurrentVersionNumber, ShouldEqual, 2)
			So(chatbot.Name, ShouldEqual, "翻译助手改")
			So(chatbot.Prompt, ShouldEqual, "v2")
		})

		Convey("机器人不存在返回 ErrChatbotNotFound", func() {
			_, err := svc.Append(ctx, "missing", "x", "y", "alice", "")
			So(err, ShouldEqual, ErrChatbotNotFound)
		})
	})
}

func TestVersionService_Revert(t *testing.T) {
	Convey("Revert 把指针移回历史版本", t, func() {
		ctx := context.Background()
		svc, chatbots, _ := newVersionFixture()
		_ = chatbots.Create(ctx, &bot.Chatbot{ID: "bot-1", UserID: "alice", Author: bot.AuthorUser})

		v1, _ := svc.Append(ctx, "bot-1", "助手", "You are helpful", "alice", "")
		v2, _ := svc.Append(ctx, "bot-1", "海盗助手", "You are a pirate", "alice", "")

		Convey("回退后指针指向历史版本，日志不变", func() {
			got, err := svc.Revert(ctx, "bot-1", v1.ID, "alice")
			So(err, ShouldBeNil)
			So(got.ID, ShouldEqual, v1.ID)

			chatbot, _ := chatbots.FindByID(ctx, "bot-1")
			So(chatbot.CurrentVersionID, ShouldEqual, v1.ID)
			So(chatbot.CurrentVersionNumber, ShouldEqual, 1)
			So(chatbot.Prompt, ShouldEqual, "You are helpful")

			versions, _ := svc.List(ctx, "bot-1")
			So(len(versions), ShouldEqual, 2)
		})

		Convey("回退后再编辑，新版本接着最大序号", func() {
			_, err := svc.Revert(ctx, "bot-1", v1.ID, "alice")
			So(err, ShouldBeNil)

			v3, err := svc.Append(ctx, "bot-1", "助手", "You are concise", "alice", "")
			So(err, ShouldBeNil)
			So(v3.VersionNumber, ShouldEqual, 3)
		})

		Convey("目标已是当前版本时为幂等空操作", func() {
			got, err := svc.Revert(ctx, "bot-1", v2.ID, "alice")
			So(err, ShouldBeNil)
			So(got.ID, ShouldEqual, v2.ID)

			chatbot, _ := chatbots.FindByID(ctx, "bot-1")
			So(chatbot.CurrentVersionID, ShouldEqual, v2.ID)
		})

		Convey("版本不属于该机器人返回 ErrVersionNotFound", func() {
			_ = chatbots.Create(ctx, &bot.Chatbot{ID: "bot-2", UserID: "alice", Author: bot.AuthorUser})
			other, _ := svc.Append(ctx, "bot-2", "别的机器人", "other", "alice", "")

			_, err := svc.Revert(ctx, "bot-1", other.ID, "alice")
			So(err, ShouldEqual, ErrVersionNotFound)
		})

		Convey("非所有者回退返回 ErrChatbotNotFound", func() {
			_, err := svc.Revert(ctx, "bot-1", v1.ID, "mallory")
			So(err, ShouldEqual, ErrChatbotNotFound)
		})

		Convey("机器人不存在返回 ErrChatbotNotFound", func() {
			_, err := svc.Revert(ctx, "missing", v1.ID, "alice")
			So(err, ShouldEqual, ErrChatbotNotFound)
		})
	})
}
