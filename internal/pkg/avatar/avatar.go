package avatar

import "net/url"

// 头像由外部服务按名称确定性渲染，这里只负责拼URL
const (
	botAvatarAPI  = "https://robohash.org"
	userAvatarAPI = "https://ui-avatars.com/api"
)

// ForBot 根据机器人名称生成头像URL
func ForBot(name string) string {
	return botAvatarAPI + "/" + url.PathEscape(name)
}

// ForUser 根据用户显示名称生成头像URL
func ForUser(name string) string {
	return userAvatarAPI + "/?name=" + url.QueryEscape(name)
}
