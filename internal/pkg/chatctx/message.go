package chatctx

// Role 消息角色
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message 发送给补全服务的一条消息
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Exchange 一次历史交换（提问 + 回复），装配的输入形态
// 认证路径下来自持久化的 Turn，匿名路径下由客户端直接提供
type Exchange struct {
	Query    string `json:"user_query"`
	Response string `json:"response"`
}
