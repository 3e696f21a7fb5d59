package services

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"

	"pokedex_bot/logger"
	"pokedex_bot/models"
	"pokedex_bot/utils"
)

const (
	DefaultMaxLength           = 280
	DefaultMediaURLLength      = 24
	DefaultPicturePathTemplate = "pokemon-sugimori/{id}.png"
)

// ComposerConfig 回复拼装配置
type ComposerConfig struct {
	MaxLength           int
	MediaURLLength      int // 附带图片时图片链接占用的字数
	PicturePathTemplate string
}

// Composer 根据图鉴条目拼装回复
type Composer struct {
	kb  KnowledgeBase
	cfg ComposerConfig

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewComposer 创建 Composer，rng 为 nil 时使用随机种子
func NewComposer(kb KnowledgeBase, cfg ComposerConfig, rng *rand.Rand) *Composer {
	if cfg.MaxLength <= 0 {
		cfg.MaxLength = DefaultMaxLength
	}
	if cfg.MediaURLLength < 0 {
		cfg.MediaURLLength = 0
	}
	if cfg.PicturePathTemplate == "" {
		cfg.PicturePathTemplate = DefaultPicturePathTemplate
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Composer{kb: kb, cfg: cfg, rng: rng}
}

// Mention 返回 "@handle"，已有 @ 时不重复添加
func Mention(handle string) string {
	if strings.HasPrefix(handle, "@") {
		return handle
	}
	return "@" + handle
}

// ReplyTemplate 回复模板，{optional} 和 {text} 留给句子拟合
func ReplyTemplate(recipientHandle, name string) string {
	return Mention(recipientHandle) + " " + utils.Bold(name) + "{optional}: {text}"
}

// MediaPath 图片路径，由条目编号填入模板
func (c *Composer) MediaPath(id int) string {
	return utils.FillTemplate(c.cfg.PicturePathTemplate, map[string]string{"id": strconv.Itoa(id)})
}

// Compose 为 recipientHandle 拼装关于 targetName 的回复
//
// 先按扣掉图片链接后的字数拟合，成功则附带图片；
// 否则按完整字数拟合并去掉图片。两次都失败返回 ErrFitFailure。
func (c *Composer) Compose(recipientHandle, targetName string, lang models.Language) (*models.ComposedReply, error) {
	entry, err := c.kb.Entry(targetName, lang)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupMiss, err)
	}
	name, _ := entry.Name(lang)
	flavors := entry.FlavorTexts[lang]
	if len(flavors) == 0 {
		return nil, fmt.Errorf("%w: %q 没有 %s 描述", ErrLookupMiss, targetName, lang)
	}

	optional := ""
	if genus := entry.Genus[lang]; genus != "" {
		optional = ", " + utils.Italic(genus)
	}
	flavor := c.pickFlavor(flavors)
	logger.Debug("拼装图鉴回复", "name", name, "lang", lang, "flavor_texts", len(flavors))

	template := ReplyTemplate(recipientHandle, name)
	reply := &models.ComposedReply{
		Name:     name,
		Language: lang,
		EntryID:  entry.ID,
	}

	mediaBudget := c.cfg.MaxLength - c.cfg.MediaURLLength
	if text, ok := FitSentences(template, optional, flavor.Text, mediaBudget); ok {
		reply.Text = text
		reply.IncludeMedia = true
		reply.MediaPath = c.MediaPath(entry.ID)
		logger.Debug("可以附带图片", "length", utils.RuneLen(text))
		return reply, nil
	}

	logger.Debug("附带图片时放不下任何句子，去掉图片")
	text, ok := FitSentences(template, optional, flavor.Text, c.cfg.MaxLength)
	if !ok {
		return nil, fmt.Errorf("%w: %q (%s)", ErrFitFailure, name, lang)
	}
	reply.Text = text
	return reply, nil
}

func (c *Composer) pickFlavor(flavors []models.FlavorText) models.FlavorText {
	c.rngMu.Lock()
	defer c.rngMu.Unlock()
	return flavors[c.rng.IntN(len(flavors))]
}

// IsQuietFailure 可在本轮内安静结束的错误
func IsQuietFailure(err error) bool {
	return errors.Is(err, ErrLookupMiss) || errors.Is(err, ErrFitFailure) || errors.Is(err, ErrNoCandidateFound)
}
