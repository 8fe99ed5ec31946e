package public

import "github.com/tijara-next/internal/provider"

// Handler 采集端接口处理器入口
// 说明：该处理器服务于可信的订单采集端（对话收单的调用面）。
type Handler struct {
	*provider.Container
}

// New 创建采集端处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
