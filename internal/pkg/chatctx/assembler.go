package chatctx

// Assemble 把当前提示词、历史交换和新提问装配成有序消息序列
//
// 输出固定为：1条 system + 每个历史交换2条（user、assistant，按时间顺序）
// + 1条新的 user 提问，共 2N+2 条。不重排、不去重、不截断；
// 历史过长导致的上下文超限由调用方负责约束
func Assemble(prompt string, history []Exchange, query string) []Message {
	messages := make([]Message, 0, 2*len(history)+2)
	messages = append(messages, Message{Role: RoleSystem, Content: prompt})
	for _, ex := range history {
		messages = append(messages,
			Message{Role: RoleUser, Content: ex.Query},
			Message{Role: RoleAssistant, Content: ex.Response},
		)
	}
	messages = append(messages, Message{Role: RoleUser, Content: query})
	return messages
}
