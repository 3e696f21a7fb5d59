package models

// APIResponse 通用API响应
type APIResponse struct {
	Code    int         `json:"code" example:"0"`
	Message string      `json:"message" example:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// PreviewResponse 回复预览响应
type PreviewResponse struct {
	Code    int           `json:"code" example:"0"`
	Message string        `json:"message" example:"success"`
	Data    ComposedReply `json:"data"`
}

// RunResponse 手动触发执行的响应
type RunResponse struct {
	Code    int    `json:"code" example:"0"`
	Message string `json:"message" example:"success"`
	Data    struct {
		Outcome     string         `json:"outcome" example:"printed"`
		Reply       *ComposedReply `json:"reply,omitempty"`
		ReplyPostID string         `json:"reply_post_id,omitempty" example:"1850000000000000000"`
	} `json:"data"`
}
