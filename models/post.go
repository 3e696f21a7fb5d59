package models

// Post 搜索返回的一条帖子，核心逻辑只读不写
type Post struct {
	ID                string   `json:"id"`
	Text              string   `json:"text"`
	Lang              string   `json:"lang"`
	AuthorHandle      string   `json:"author_handle"`
	FavoriteCount     int      `json:"favorite_count"`
	RetweetCount      int      `json:"retweet_count"`
	InReplyToHandle   string   `json:"in_reply_to_handle,omitempty"` // 不是回复时为空
	MentionedHandles  []string `json:"mentioned_handles,omitempty"`
	Favorited         bool     `json:"favorited"`
	PossiblySensitive bool     `json:"possibly_sensitive"`
	QuotedStatusID    string   `json:"quoted_status_id,omitempty"` // 不是引用时为空
	IsRetweet         bool     `json:"is_retweet"`
}

// Match 搜索驱动找到的候选帖子及命中的名字
type Match struct {
	Post        Post   `json:"post"`
	MatchedName string `json:"matched_name"`
}

// PageStats 每一页搜索的诊断信息
type PageStats struct {
	Query              string `json:"query"`
	BatchSize          int    `json:"batch_size"`
	Hits               int    `json:"hits"`
	RateLimitRemaining int    `json:"rate_limit_remaining"` // 响应头缺失时为 -1
}

// ComposedReply 拟好的回复
type ComposedReply struct {
	Text         string   `json:"text"`
	IncludeMedia bool     `json:"include_media"`
	MediaPath    string   `json:"media_path,omitempty"`
	InReplyToID  string   `json:"in_reply_to_id,omitempty"`
	Name         string   `json:"name"`
	Language     Language `json:"language"`
	EntryID      int      `json:"entry_id"`
}
