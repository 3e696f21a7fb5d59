package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"pokedex_bot/logger"
	"pokedex_bot/models"
)

// ErrRunInProgress 上一次运行还没有结束
var ErrRunInProgress = errors.New("run already in progress")

// Outcome 一次运行的结果
type Outcome string

const (
	OutcomePosted      Outcome = "posted"
	OutcomePrinted     Outcome = "printed"
	OutcomeNoCandidate Outcome = "no_candidate"
	OutcomeLookupMiss  Outcome = "lookup_miss"
	OutcomeFitFailure  Outcome = "fit_failure"
)

// ManualOverride 跳过搜索，直接为指定用户、名字和语言拼装回复
type ManualOverride struct {
	Handle string
	Name   string
	Lang   models.Language
}

// ParseManualOverride 解析 "handle,name,lang"
func ParseManualOverride(s string) (*ManualOverride, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("手动模式需要 handle,name,lang 三个参数: %q", s)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
		if parts[i] == "" {
			return nil, fmt.Errorf("手动模式参数不能为空: %q", s)
		}
	}
	lang, ok := models.ParseLanguage(parts[2])
	if !ok {
		return nil, fmt.Errorf("不支持的语言: %q", parts[2])
	}
	return &ManualOverride{Handle: parts[0], Name: parts[1], Lang: lang}, nil
}

// RunOptions 单次运行的参数
type RunOptions struct {
	DryRun bool
	Manual *ManualOverride
}

// RunResult 单次运行的结果
type RunResult struct {
	Outcome     Outcome               `json:"outcome"`
	Match       *models.Match         `json:"match,omitempty"`
	Reply       *models.ComposedReply `json:"reply,omitempty"`
	ReplyPostID string                `json:"reply_post_id,omitempty"`
	Duration    time.Duration         `json:"duration"`
}

// ReplyBotConfig 机器人配置
type ReplyBotConfig struct {
	SearchLanguage models.Language
	Output         io.Writer // 试运行和手动模式的输出，默认 stdout
}

// ReplyBot 搜索、拼装并发布回复，同一时间只允许一次运行
type ReplyBot struct {
	kb       KnowledgeBase
	platform Platform
	driver   *SearchDriver
	composer *Composer
	media    *MediaPreparer
	observer RunObserver
	cfg      ReplyBotConfig

	mu sync.Mutex
}

// NewReplyBot 创建机器人，media 和 observer 可以为 nil
func NewReplyBot(kb KnowledgeBase, platform Platform, driver *SearchDriver, composer *Composer,
	media *MediaPreparer, observer RunObserver, cfg ReplyBotConfig) *ReplyBot {
	if cfg.SearchLanguage == "" {
		cfg.SearchLanguage = models.DefaultLanguage
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if media == nil {
		media = NewMediaPreparer(0)
	}
	return &ReplyBot{
		kb:       kb,
		platform: platform,
		driver:   driver,
		composer: composer,
		media:    media,
		observer: observer,
		cfg:      cfg,
	}
}

// Run 执行一轮：搜索候选帖子、拼装回复、发布并点赞
//
// 找不到帖子、查不到条目、放不下文字都属于本轮安静结束，返回 nil 错误；
// 网络错误直接返回，不重试。ctx 取消后不会再产生任何副作用。
func (b *ReplyBot) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	if !b.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer b.mu.Unlock()

	start := time.Now()
	res, err := b.run(ctx, opts)
	if res != nil {
		res.Duration = time.Since(start)
	}

	if b.observer != nil {
		outcome := ""
		if res != nil {
			outcome = string(res.Outcome)
		}
		b.observer.ObserveRun(outcome, err)
	}
	if err != nil {
		logger.Error("运行失败", "error", err, "cost", time.Since(start).String())
		return res, err
	}
	logger.Info("运行结束", "outcome", res.Outcome, "dry_run", opts.DryRun, "cost", time.Since(start).String())
	return res, nil
}

func (b *ReplyBot) run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	if opts.Manual != nil {
		return b.runManual(ctx, opts.Manual)
	}

	names := b.kb.AllNames(b.cfg.SearchLanguage, true)
	match, err := b.driver.FindCandidate(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("搜索候选帖子失败: %w", err)
	}
	if match == nil {
		logger.Info("本轮没有可以回复的帖子", "error", ErrNoCandidateFound)
		return &RunResult{Outcome: OutcomeNoCandidate}, nil
	}
	logger.Info("准备回复", "url", StatusURL(match.Post.ID), "author", match.Post.AuthorHandle,
		"lang", match.Post.Lang, "name", match.MatchedName)

	res := &RunResult{Match: match}
	lang, ok := models.ParseLanguage(match.Post.Lang)
	if !ok {
		logger.Info("帖子语言不受支持", "lang", match.Post.Lang)
		res.Outcome = OutcomeLookupMiss
		return res, nil
	}

	reply, outcome := b.compose(match.Post.AuthorHandle, match.MatchedName, lang)
	if reply == nil {
		res.Outcome = outcome
		return res, nil
	}
	reply.InReplyToID = match.Post.ID
	res.Reply = reply

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.DryRun {
		logger.Info("试运行，不发布任何内容")
		b.print(reply)
		res.Outcome = OutcomePrinted
		return res, nil
	}

	postID, err := b.publish(ctx, reply)
	if err != nil {
		return res, err
	}
	res.ReplyPostID = postID
	res.Outcome = OutcomePosted
	return res, nil
}

func (b *ReplyBot) runManual(ctx context.Context, m *ManualOverride) (*RunResult, error) {
	logger.Info("手动模式，跳过搜索", "handle", m.Handle, "name", m.Name, "lang", m.Lang)
	res := &RunResult{}
	reply, outcome := b.compose(m.Handle, m.Name, m.Lang)
	if reply == nil {
		res.Outcome = outcome
		return res, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.print(reply)
	res.Reply = reply
	res.Outcome = OutcomePrinted
	return res, nil
}

// Preview 手动模式的只读版本，不加运行锁，不输出
func (b *ReplyBot) Preview(m *ManualOverride) (*models.ComposedReply, error) {
	return b.composer.Compose(m.Handle, m.Name, m.Lang)
}

func (b *ReplyBot) compose(handle, name string, lang models.Language) (*models.ComposedReply, Outcome) {
	reply, err := b.composer.Compose(handle, name, lang)
	switch {
	case err == nil:
		logger.Info("回复已拼装", "text", reply.Text, "include_media", reply.IncludeMedia)
		return reply, ""
	case errors.Is(err, ErrFitFailure):
		logger.Info("放不下任何句子，本轮不回复", "error", err)
		return nil, OutcomeFitFailure
	default:
		logger.Info("图鉴中查不到，本轮不回复", "error", err)
		return nil, OutcomeLookupMiss
	}
}

func (b *ReplyBot) print(reply *models.ComposedReply) {
	fmt.Fprintln(b.cfg.Output, reply.Text)
	if reply.IncludeMedia {
		fmt.Fprintln(b.cfg.Output, reply.MediaPath)
	}
}

func (b *ReplyBot) publish(ctx context.Context, reply *models.ComposedReply) (string, error) {
	var mediaIDs []string
	if reply.IncludeMedia {
		mediaID, err := b.uploadMedia(ctx, reply.MediaPath)
		if err != nil {
			return "", err
		}
		if mediaID != "" {
			mediaIDs = append(mediaIDs, mediaID)
		} else {
			reply.IncludeMedia = false
		}
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	postID, err := b.platform.PostReply(ctx, reply.Text, reply.InReplyToID, mediaIDs)
	if err != nil {
		return "", fmt.Errorf("发布回复失败: %w", err)
	}
	logger.Info("回复已发布", "url", StatusURL(postID), "in_reply_to", reply.InReplyToID, "media", len(mediaIDs))

	// 点过赞的帖子不会再被回复
	if err := ctx.Err(); err != nil {
		return postID, err
	}
	if err := b.platform.Favorite(ctx, reply.InReplyToID); err != nil {
		return postID, fmt.Errorf("点赞失败: %w", err)
	}
	logger.Debug("已点赞", "post_id", reply.InReplyToID)
	return postID, nil
}

// uploadMedia 图片读取失败时只记录警告，回复按纯文本发布
func (b *ReplyBot) uploadMedia(ctx context.Context, path string) (string, error) {
	filename, data, err := b.media.Prepare(path)
	if err != nil {
		logger.Warn("图片不可用，改为纯文本回复", "path", path, "error", err)
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	logger.Debug("上传图片", "path", path)
	mediaID, err := b.platform.UploadMedia(ctx, filename, data)
	if err != nil {
		return "", fmt.Errorf("上传图片失败: %w", err)
	}
	return mediaID, nil
}
