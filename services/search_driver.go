package services

import (
	"context"
	"fmt"
	"strings"

	"pokedex_bot/logger"
	"pokedex_bot/models"
	"pokedex_bot/utils"
)

// AttributionPolicy 正文同时命中多个名字时选哪一个
type AttributionPolicy string

const (
	// AttributionLast 按批次顺序最后一个命中的名字
	AttributionLast AttributionPolicy = "last"
	// AttributionFirst 按批次顺序第一个命中的名字
	AttributionFirst AttributionPolicy = "first"
	// AttributionLongest 最长的名字，长度相同时取批次中靠前的
	AttributionLongest AttributionPolicy = "longest"
)

const (
	DefaultBatchSize   = 15
	DefaultResultLimit = 50
)

// ParseAttributionPolicy 解析配置中的策略名，空字符串为 last
func ParseAttributionPolicy(s string) (AttributionPolicy, error) {
	switch p := AttributionPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return AttributionLast, nil
	case AttributionLast, AttributionFirst, AttributionLongest:
		return p, nil
	default:
		return "", fmt.Errorf("未知的名字归属策略: %q", s)
	}
}

// Attribute 在正文（已小写）里找出命中的名字，没有命中时返回 false
func (p AttributionPolicy) Attribute(body string, batch []string) (string, bool) {
	found := ""
	ok := false
	for _, name := range batch {
		if name == "" || !strings.Contains(body, strings.ToLower(name)) {
			continue
		}
		switch p {
		case AttributionFirst:
			return name, true
		case AttributionLongest:
			if !ok || utils.RuneLen(name) > utils.RuneLen(found) {
				found = name
			}
		default:
			found = name
		}
		ok = true
	}
	return found, ok
}

// SearchDriver 分批搜索名字，返回第一条可以回复的帖子
type SearchDriver struct {
	platform    Platform
	filter      *CandidateFilter
	policy      AttributionPolicy
	batchSize   int
	resultLimit int
	observer    PageObserver
}

// SearchDriverOption 搜索驱动的可选配置
type SearchDriverOption func(*SearchDriver)

// WithBatchSize 每批名字数量
func WithBatchSize(n int) SearchDriverOption {
	return func(d *SearchDriver) {
		if n > 0 {
			d.batchSize = n
		}
	}
}

// WithResultLimit 每次搜索最多返回的帖子数
func WithResultLimit(n int) SearchDriverOption {
	return func(d *SearchDriver) {
		if n > 0 {
			d.resultLimit = n
		}
	}
}

// WithAttributionPolicy 多个名字命中时的归属策略
func WithAttributionPolicy(p AttributionPolicy) SearchDriverOption {
	return func(d *SearchDriver) {
		if p != "" {
			d.policy = p
		}
	}
}

// WithPageObserver 接收每页诊断信息
func WithPageObserver(o PageObserver) SearchDriverOption {
	return func(d *SearchDriver) { d.observer = o }
}

// NewSearchDriver 创建搜索驱动
func NewSearchDriver(platform Platform, filter *CandidateFilter, opts ...SearchDriverOption) *SearchDriver {
	d := &SearchDriver{
		platform:    platform,
		filter:      filter,
		policy:      AttributionLast,
		batchSize:   DefaultBatchSize,
		resultLimit: DefaultResultLimit,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// FindCandidate 分批搜索 names，返回第一条命中且通过过滤的帖子
//
// 每批搜索一次，无论有无结果偏移量都前进一批；
// 所有批次都没有结果时返回 (nil, nil)，网络错误原样返回。
func (d *SearchDriver) FindCandidate(ctx context.Context, names []string) (*models.Match, error) {
	for offset := 0; offset < len(names); offset += d.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := min(offset+d.batchSize, len(names))
		batch := names[offset:end]
		query := strings.Join(batch, " OR ")
		logger.Debug("搜索名字", "names", strings.Join(batch, ", "), "offset", offset)

		page, err := d.platform.Search(ctx, query, d.resultLimit)
		if err != nil {
			return nil, err
		}

		stats := models.PageStats{
			Query:              query,
			BatchSize:          len(batch),
			Hits:               len(page.Hits),
			RateLimitRemaining: page.RateLimitRemaining,
		}
		logger.Info("搜索完成", "hits", stats.Hits, "rate_limit_remaining", stats.RateLimitRemaining)
		if d.observer != nil {
			d.observer.ObservePage(stats)
		}

		for i := range page.Hits {
			post := &page.Hits[i]
			body := utils.StripMentions(strings.ToLower(post.Text))
			name, ok := d.policy.Attribute(body, batch)
			if !ok {
				continue
			}
			if eligible, reason := d.filter.Evaluate(post, name); !eligible {
				logger.Debug("跳过帖子", "post_id", post.ID, "name", name, "reason", reason)
				if ro, ok := d.observer.(RejectionObserver); ok {
					ro.ObserveRejection(reason)
				}
				continue
			}
			logger.Info("找到候选帖子",
				"post_id", post.ID,
				"author", post.AuthorHandle,
				"lang", post.Lang,
				"name", name,
				"text", strings.ReplaceAll(post.Text, "\n", " "))
			return &models.Match{Post: *post, MatchedName: name}, nil
		}
	}

	logger.Warn("没有找到提到这些名字的帖子", "names", len(names))
	return nil, nil
}
