package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// SentenceDelimiter 图鉴描述的句子分隔符
const SentenceDelimiter = ". "

var mentionPattern = regexp.MustCompile(`@\w+`)

// DeduplicateSlice 去重字符串切片，保留首次出现的顺序
func DeduplicateSlice(input []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(input))

	for _, val := range input {
		val = strings.TrimSpace(val)
		if val != "" && !seen[val] {
			result = append(result, val)
			seen[val] = true
		}
	}

	return result
}

// LowerAll 将切片中的字符串全部转为小写
func LowerAll(input []string) []string {
	out := make([]string, 0, len(input))
	for _, s := range input {
		out = append(out, strings.ToLower(s))
	}
	return out
}

// RuneLen 按码位计算字符串长度，平台的字数限制按码位计
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// ContainsFold 忽略大小写判断 s 是否包含 substr，substr 为空时返回 false
func ContainsFold(s, substr string) bool {
	if substr == "" {
		return false
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// ContainsAnyFold 忽略大小写判断 s 是否包含 words 中的任意一个
func ContainsAnyFold(s string, words []string) bool {
	lower := strings.ToLower(s)
	for _, w := range words {
		if w != "" && strings.Contains(lower, strings.ToLower(w)) {
			return true
		}
	}
	return false
}

// StripMentions 移除文本中的 @用户名，用于只在正文里匹配名字
func StripMentions(text string) string {
	return mentionPattern.ReplaceAllString(text, " ")
}

// SplitSentences 按 ". " 拆分句子；空字符串得到一个空句子
func SplitSentences(text string) []string {
	return strings.Split(text, SentenceDelimiter)
}

// JoinSentences 用 ". " 重新拼接句子
func JoinSentences(sentences []string) string {
	return strings.Join(sentences, SentenceDelimiter)
}

// HasFullStop 判断文本是否以句号结尾（包括全角句号）
func HasFullStop(text string) bool {
	return strings.HasSuffix(text, ".") || strings.HasSuffix(text, "。")
}

// EnsureFullStop 文本不以句号结尾时补一个 "."
func EnsureFullStop(text string) string {
	if HasFullStop(text) {
		return text
	}
	return text + "."
}

// Combinations 按字典序枚举从 n 个下标中取 k 个的全部组合
// Combinations(3, 2) == [[0 1] [0 2] [1 2]]
func Combinations(n, k int) [][]int {
	if k < 0 || k > n {
		return nil
	}
	if k == 0 {
		return [][]int{{}}
	}

	var result [][]int
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		combo := make([]int, k)
		copy(combo, idx)
		result = append(result, combo)

		// 找到最右边还能右移的位置
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return result
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// Pick 按下标取出元素，保持下标顺序
func Pick(items []string, indexes []int) []string {
	out := make([]string, 0, len(indexes))
	for _, i := range indexes {
		out = append(out, items[i])
	}
	return out
}

// FillTemplate 一次性替换模板中的占位符，替换进去的内容不会再次展开
func FillTemplate(template string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
