package services

import (
	"regexp"
	"strings"

	"pokedex_bot/models"
	"pokedex_bot/utils"
)

// 自动发布过期时间的提醒机器人，正文形如 "until 13:00:00AM"
var timeOfDayPattern = regexp.MustCompile(`(?i)\d+:\d+:\d+`)

// 拒绝原因，用于日志和指标
const (
	RejectFavorited          = "favorited"
	RejectRetweet            = "retweet"
	RejectManualRetweet      = "manual_retweet"
	RejectUnsupportedLang    = "unsupported_lang"
	RejectQuote              = "quote"
	RejectRetweeted          = "retweeted"
	RejectTooManyFavorites   = "too_many_favorites"
	RejectSensitive          = "sensitive"
	RejectAuthorHasName      = "author_has_name"
	RejectAuthorBannedWord   = "author_banned_word"
	RejectMentionHasName     = "mention_has_name"
	RejectReplyTargetHasName = "reply_target_has_name"
	RejectTimeOfDay          = "time_of_day"
	RejectOwnPost            = "own_post"
)

// FilterConfig 候选帖子过滤配置
type FilterConfig struct {
	SupportedLanguages []models.Language
	BannedWords        []string
	OwnHandle          string
	MaxFavorites       int
}

type predicate struct {
	reason string
	pass   func(post *models.Post, matchedName string) bool
}

// CandidateFilter 判断帖子是否可以回复，评估过程没有副作用
type CandidateFilter struct {
	languages      map[string]bool
	bannedWords    []string
	ownHandle      string
	maxFavorites   int
	localizedNames []string
	predicates     []predicate
}

// NewCandidateFilter 创建过滤器，localizedNames 为图鉴中所有语言的全部名字
func NewCandidateFilter(cfg FilterConfig, localizedNames []string) *CandidateFilter {
	f := &CandidateFilter{
		languages:      make(map[string]bool, len(cfg.SupportedLanguages)),
		bannedWords:    utils.LowerAll(cfg.BannedWords),
		ownHandle:      strings.ToLower(strings.TrimPrefix(cfg.OwnHandle, "@")),
		maxFavorites:   cfg.MaxFavorites,
		localizedNames: utils.LowerAll(utils.DeduplicateSlice(localizedNames)),
	}
	for _, l := range cfg.SupportedLanguages {
		f.languages[string(l)] = true
	}

	f.predicates = []predicate{
		{RejectFavorited, func(p *models.Post, _ string) bool { return !p.Favorited }},
		{RejectRetweet, func(p *models.Post, _ string) bool { return !p.IsRetweet }},
		{RejectManualRetweet, func(p *models.Post, _ string) bool {
			return !strings.HasPrefix(strings.ToLower(p.Text), "rt ")
		}},
		{RejectUnsupportedLang, func(p *models.Post, _ string) bool { return f.languages[p.Lang] }},
		{RejectQuote, func(p *models.Post, _ string) bool { return p.QuotedStatusID == "" }},
		{RejectRetweeted, func(p *models.Post, _ string) bool { return p.RetweetCount == 0 }},
		{RejectTooManyFavorites, func(p *models.Post, _ string) bool { return p.FavoriteCount <= f.maxFavorites }},
		{RejectSensitive, func(p *models.Post, _ string) bool { return !p.PossiblySensitive }},
		{RejectAuthorHasName, func(p *models.Post, name string) bool {
			return !utils.ContainsFold(p.AuthorHandle, name)
		}},
		{RejectAuthorBannedWord, func(p *models.Post, _ string) bool {
			return !utils.ContainsAnyFold(p.AuthorHandle, f.bannedWords)
		}},
		{RejectMentionHasName, func(p *models.Post, _ string) bool {
			for _, h := range p.MentionedHandles {
				if utils.ContainsAnyFold(h, f.localizedNames) {
					return false
				}
			}
			return true
		}},
		{RejectReplyTargetHasName, func(p *models.Post, name string) bool {
			return !utils.ContainsFold(p.InReplyToHandle, name)
		}},
		{RejectTimeOfDay, func(p *models.Post, _ string) bool { return !timeOfDayPattern.MatchString(p.Text) }},
		{RejectOwnPost, func(p *models.Post, _ string) bool {
			return f.ownHandle == "" || !strings.EqualFold(strings.TrimPrefix(p.AuthorHandle, "@"), f.ownHandle)
		}},
	}
	return f
}

// Evaluate 依次检查所有条件，返回是否通过以及第一个未通过的条件
func (f *CandidateFilter) Evaluate(post *models.Post, matchedName string) (bool, string) {
	for _, pred := range f.predicates {
		if !pred.pass(post, matchedName) {
			return false, pred.reason
		}
	}
	return true, ""
}

// IsEligible 帖子是否可以回复
func (f *CandidateFilter) IsEligible(post *models.Post, matchedName string) bool {
	ok, _ := f.Evaluate(post, matchedName)
	return ok
}
