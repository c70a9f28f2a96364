package service

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"pomelo/internal/model/bot"
	"pomelo/internal/pkg/chatctx"
)

func newChatFixture(reply string) (*ChatService, *fakeChatbotRepo, *fakeTurnRepo, *fakeCompleter, *fakeQuotaStore) {
	chatbots := newFakeChatbotRepo()
	turns := &fakeTurnRepo{}
	completer := &fakeCompleter{reply: reply}
	store := newFakeQuotaStore()
	svc := NewChatService(chatbots, turns, completer, NewQuotaGuard(store, 5))
	return svc, chatbots, turns, completer, store
}

func TestChatService_Chat(t *testing.T) {
	Convey("Chat 编排一次完整的对话交换", t, func() {
		ctx := context.Background()
		svc, chatbots, turns, completer, _ := newChatFixture("你好！")
		_ = chatbots.Create(ctx, &bot.Chatbot{
			ID: "bot-1", UserID: "alice", Author: bot.AuthorUser,
			Prompt: "You are helpful",
		})

		Convey("成功时持久化轮次并返回回复", func() {
			turn, err := svc.Chat(ctx, "bot-1", "alice", "你好", "sk-test", "openai/gpt-4")
			So(err, ShouldBeNil)
			So(turn.Response, ShouldEqual, "你好！")
			So(len(turns.turns), ShouldEqual, 1)
			So(turns.turns[0].Query, ShouldEqual, "你好")
		})

		Convey("上下文用当前提示词和全部历史装配", func() {
			_, _ = svc.Chat(ctx, "bot-1", "alice", "第一问", "sk-test", "")
			_, _ = svc.Chat(ctx, "bot-1", "alice", "第二问", "sk-test", "")

			// 第二次调用：system + 一轮历史 + 新问题 = 4 条
			So(len(completer.lastMsgs), ShouldEqual, 4)
			So(completer.lastMsgs[0].Role, ShouldEqual, chatctx.RoleSystem)
			So(completer.lastMsgs[0].Content, ShouldEqual, "You are helpful")
			So(completer.lastMsgs[1].Content, ShouldEqual, "第一问")
			So(completer.lastMsgs[2].Role, ShouldEqual, chatctx.RoleAssistant)
			So(completer.lastMsgs[3].Content, ShouldEqual, "第二问")
		})

		Convey("回退提示词后的对话使用回退后的提示词", func() {
			chatbot := chatbots.bots["bot-1"]
			chatbot.Prompt = "You are a pirate"
			_, _ = svc.Chat(ctx, "bot-1", "alice", "hi", "sk-test", "")
			So(completer.lastMsgs[0].Content, ShouldEqual, "You are a pirate")

			chatbot.Prompt = "You are helpful"
			_, _ = svc.Chat(ctx, "bot-1", "alice", "hi again", "sk-test", "")
			So(completer.lastMsgs[0].Content, ShouldEqual, "You are helpful")
		})

		Convey("补全失败时不落任何数据", func() {
			completer.err = errCompleterDown
			_, err := svc.Chat(ctx, "bot-1", "alice", "你好", "sk-test", "")
			So(errors.Is(err, ErrCompletionFailed), ShouldBeTrue)
			So(len(turns.turns), ShouldEqual, 0)
		})

		Convey("缺少 API key 直接拒绝", func() {
			_, err := svc.Chat(ctx, "bot-1", "alice", "你好", "", "")
			So(err, ShouldEqual, ErrMissingAPIKey)
			So(completer.calls, ShouldEqual, 0)
		})

		Convey("机器人不存在返回 ErrChatbotNotFound", func() {
			_, err := svc.Chat(ctx, "missing", "alice", "你好", "sk-test", "")
			So(err, ShouldEqual, ErrChatbotNotFound)
		})
	})
}

func TestChatService_Authorization(t *testing.T) {
	Convey("访问控制：所有者、公开、系统三者满足其一", t, func() {
		ctx := context.Background()
		svc, chatbots, _, _, _ := newChatFixture("ok")

		_ = chatbots.Create(ctx, &bot.Chatbot{ID: "private", UserID: "alice", Author: bot.AuthorUser})
		_ = chatbots.Create(ctx, &bot.Chatbot{ID: "shared", UserID: "alice", Author: bot.AuthorUser, Public: true})
		_ = chatbots.Create(ctx, &bot.Chatbot{ID: "builtin", UserID: "admin", Author: bot.AuthorSystem})

		Convey("所有者可以访问私有机器人", func() {
			_, err := svc.Chat(ctx, "private", "alice", "hi", "sk", "")
			So(err, ShouldBeNil)
		})

		Convey("其他用户不能访问私有机器人", func() {
			_, err := svc.Chat(ctx, "private", "bob", "hi", "sk", "")
			So(err, ShouldEqual, ErrForbidden)
		})

		Convey("任何用户可以访问公开机器人", func() {
			_, err := svc.Chat(ctx, "shared", "bob", "hi", "sk", "")
			So(err, ShouldBeNil)
		})

		Convey("任何用户可以访问系统机器人", func() {
			_, err := svc.Chat(ctx, "builtin", "bob", "hi", "sk", "")
			So(err, ShouldBeNil)
		})

		Convey("公开机器人的历史不跨用户共享", func() {
			_, _ = svc.Chat(ctx, "shared", "alice", "alice 的问题", "sk", "")
			_, turns, err := svc.History(ctx, "shared", "bob")
			So(err, ShouldBeNil)
			So(len(turns), ShouldEqual, 0)
		})
	})
}

func TestChatService_AnonymousChat(t *testing.T) {
	Convey("AnonymousChat 匿名试用", t, func() {
		ctx := context.Background()
		svc, _, turnRepo, completer, store := newChatFixture("回复")

		Convey("历史由客户端携带，返回追加后的历史", func() {
			history := []chatctx.Exchange{{Query: "之前的问题", Response: "之前的回复"}}
			response, updated, err := svc.AnonymousChat(ctx, "sess-1", history, "新问题", "sk-test", "")
			So(err, ShouldBeNil)
			So(response, ShouldEqual, "回复")
			So(len(updated), ShouldEqual, 2)
			So(updated[1].Query, ShouldEqual, "新问题")

			// 匿名对话不落库
			So(len(turnRepo.turns), ShouldEqual, 0)

			// system + 一轮历史 + 新问题
			So(len(completer.lastMsgs), ShouldEqual, 4)
			So(completer.lastMsgs[0].Role, ShouldEqual, chatctx.RoleSystem)
		})

		Convey("超出额度的请求在调用补全前被拒绝", func() {
			for i := 0; i < 5; i++ {
				_, _, err := svc.AnonymousChat(ctx, "sess-1", nil, "q", "sk-test", "")
				So(err, ShouldBeNil)
			}
			So(completer.calls, ShouldEqual, 5)

			_, _, err := svc.AnonymousChat(ctx, "sess-1", nil, "q", "sk-test", "")
			So(err, ShouldEqual, ErrQuotaExceeded)
			So(completer.calls, ShouldEqual, 5)
		})

		Convey("补全失败的请求也消耗额度", func() {
			completer.err = errCompleterDown
			_, _, err := svc.AnonymousChat(ctx, "sess-1", nil, "q", "sk-test", "")
			So(errors.Is(err, ErrCompletionFailed), ShouldBeTrue)

			count, _ := store.Count(ctx, "sess-1")
			So(count, ShouldEqual, 1)
		})
	})
}

func TestChatService_ClearHistory(t *testing.T) {
	Convey("ClearHistory 清空历史并返回删除条数", t, func() {
		ctx := context.Background()
		svc, chatbots, _, _, _ := newChatFixture("ok")
		_ = chatbots.Create(ctx, &bot.Chatbot{ID: "bot-1", UserID: "alice", Author: bot.AuthorUser})

		_, _ = svc.Chat(ctx, "bot-1", "alice", "q1", "sk", "")
		_, _ = svc.Chat(ctx, "bot-1", "alice", "q2", "sk", "")

		Convey("返回实际删除的条数", func() {
			deleted, err := svc.ClearHistory(ctx, "bot-1", "alice")
			So(err, ShouldBeNil)
			So(deleted, ShouldEqual, 2)
		})

		Convey("重复清空幂等，第二次删除 0 条", func() {
			_, _ = svc.ClearHistory(ctx, "bot-1", "alice")
			deleted, err := svc.ClearHistory(ctx, "bot-1", "alice")
			So(err, ShouldBeNil)
			So(deleted, ShouldEqual, 0)
		})

		Convey("只清空当前用户的历史", func() {
			_, _ = svc.Chat(ctx, "bot-1", "alice", "q3", "sk", "")
			deleted, err := svc.ClearHistory(ctx, "bot-1", "bob")
			So(err, ShouldBeNil)
			So(deleted, ShouldEqual, 0)

			_, turns, _ := svc.History(ctx, "bot-1", "alice")
			So(len(turns), ShouldEqual, 3)
		})
	})
}
