package chatctx

import (
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestAssemble(t *testing.T) {
	Convey("Assemble 能把提示词、历史和新提问装配成有序消息序列", t, func() {
		Convey("没有历史时输出 system + user 两条", func() {
			msgs := Assemble("You are helpful", nil, "hi")
			So(msgs, ShouldHaveLength, 2)
			So(msgs[0].Role, ShouldEqual, RoleSystem)
			So(msgs[0].Content, ShouldEqual, "You are helpful")
			So(msgs[1].Role, ShouldEqual, RoleUser)
			So(msgs[1].Content, ShouldEqual, "hi")
		})

		Convey("每个历史交换展开为 user/assistant 两条，保持时间顺序", func() {
			history := []Exchange{
				{Query: "q1", Response: "a1"},
				{Query: "q2", Response: "a2"},
			}
			msgs := Assemble("prompt", history, "q3")

			So(msgs, ShouldHaveLength, 6)
			So(msgs[1].Role, ShouldEqual, RoleUser)
			So(msgs[1].Content, ShouldEqual, "q1")
			So(msgs[2].Role, ShouldEqual, RoleAssistant)
			So(msgs[2].Content, ShouldEqual, "a1")
			So(msgs[3].Content, ShouldEqual, "q2")
			So(msgs[4].Content, ShouldEqual, "a2")
			So(msgs[5].Role, ShouldEqual, RoleUser)
			So(msgs[5].Content, ShouldEqual, "q3")
		})

		Convey("N 个历史交换总是产出 2N+2 条消息", func() {
			for _, n := range []int{0, 1, 5, 50} {
				history := make([]Exchange, n)
				for i := range history {
					history[i] = Exchange{
						Query:    fmt.Sprintf("q%d", i),
						Response: fmt.Sprintf("a%d", i),
					}
				}
				msgs := Assemble("p", history, "new")
				So(msgs, ShouldHaveLength, 2*n+2)
				So(msgs[0].Role, ShouldEqual, RoleSystem)
				So(msgs[len(msgs)-1].Role, ShouldEqual, RoleUser)
				So(msgs[len(msgs)-1].Content, ShouldEqual, "new")
			}
		})

		Convey("空回复的历史交换原样保留，不做去重或截断", func() {
			history := []Exchange{{Query: "q", Response: ""}, {Query: "q", Response: ""}}
			msgs := Assemble("p", history, "q")
			So(msgs, ShouldHaveLength, 6)
			So(msgs[2].Content, ShouldBeEmpty)
		})
	})
}
