package services

import (
	"context"

	"pokedex_bot/models"
)

// SearchPage 一次搜索的结果
type SearchPage struct {
	Hits               []models.Post
	RateLimitRemaining int // 响应头缺失时为 -1
}

// Account 当前登录账号的信息
type Account struct {
	ScreenName     string `json:"screen_name"`
	Name           string `json:"name"`
	StatusesCount  int    `json:"statuses_count"`
	FollowersCount int    `json:"followers_count"`
}

// Platform 社交平台接口，所有网络调用都经过这里
type Platform interface {
	// 按关键词搜索帖子
	Search(ctx context.Context, query string, limit int) (*SearchPage, error)

	// 上传图片，返回 media id
	UploadMedia(ctx context.Context, filename string, data []byte) (string, error)

	// 回复指定帖子，返回新帖子 id
	PostReply(ctx context.Context, text, replyToID string, mediaIDs []string) (string, error)

	// 点赞，点过赞的帖子不会再被回复
	Favorite(ctx context.Context, postID string) error

	// 校验凭证
	VerifyCredentials(ctx context.Context) (*Account, error)
}

// KnowledgeBase 图鉴查询接口
type KnowledgeBase interface {
	AllNames(lang models.Language, randomOrder bool) []string
	LocalizedNames() []string
	Entry(name string, lang models.Language) (*models.KnowledgeEntry, error)
}

// PageObserver 接收每一页搜索的诊断信息
type PageObserver interface {
	ObservePage(stats models.PageStats)
}

// RejectionObserver 可选，接收候选帖子被拒绝的原因
type RejectionObserver interface {
	ObserveRejection(reason string)
}

// RunObserver 接收每次运行的结果
type RunObserver interface {
	ObserveRun(outcome string, err error)
}
