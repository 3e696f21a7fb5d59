package services

import (
	"pokedex_bot/logger"
	"pokedex_bot/utils"
)

// FitResult 句子拟合的结果
type FitResult struct {
	Text             string
	SentencesUsed    int
	SentencesTotal   int
	OptionalIncluded bool
	Length           int
}

// FitSentences 在 maxLength 码位以内，用尽量多的句子填充模板
//
// template 必须包含 {optional} 和 {text} 两个占位符。
// 句子组合按数量从多到少枚举，同样数量按下标字典序；
// 每个组合先尝试带 optional，再尝试不带。结果总以句号结尾。
// 没有任何组合（包括空组合）能放下时返回 ("", false)。
func FitSentences(template, optional, text string, maxLength int) (string, bool) {
	res, ok := FitSentencesDetailed(template, optional, text, maxLength)
	if !ok {
		return "", false
	}
	return res.Text, true
}

// FitSentencesDetailed 同 FitSentences，额外返回用了几句、是否带了 optional
func FitSentencesDetailed(template, optional, text string, maxLength int) (*FitResult, bool) {
	sentences := utils.SplitSentences(text)
	total := len(sentences)

	for size := total; size >= 0; size-- {
		for _, combo := range utils.Combinations(total, size) {
			body := utils.JoinSentences(utils.Pick(sentences, combo))
			for _, opt := range []string{optional, ""} {
				fitted := utils.EnsureFullStop(utils.FillTemplate(template, map[string]string{
					"optional": opt,
					"text":     body,
				}))
				length := utils.RuneLen(fitted)
				if length > maxLength {
					continue
				}
				res := &FitResult{
					Text:             fitted,
					SentencesUsed:    size,
					SentencesTotal:   total,
					OptionalIncluded: opt != "",
					Length:           length,
				}
				logger.Debug("句子拟合成功",
					"sentences", size,
					"total", total,
					"length", length,
					"max_length", maxLength,
					"optional", opt)
				return res, true
			}
		}
	}

	logger.Warn("没有句子能放进字数限制", "text", text, "max_length", maxLength)
	return nil, false
}
