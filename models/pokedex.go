package models

import "strings"

// Language 支持的语言代码，封闭枚举
type Language string

const (
	LangGerman   Language = "de"
	LangEnglish  Language = "en"
	LangSpanish  Language = "es"
	LangFrench   Language = "fr"
	LangItalian  Language = "it"
	LangJapanese Language = "ja"
	LangKorean   Language = "ko"
	LangChinese  Language = "zh"
)

// DefaultLanguage 每个条目必须具备的语言
const DefaultLanguage = LangEnglish

// AllLanguages 全部支持的语言，按代码排序
var AllLanguages = []Language{
	LangGerman, LangEnglish, LangSpanish, LangFrench,
	LangItalian, LangJapanese, LangKorean, LangChinese,
}

// ParseLanguage 解析语言代码，"und" 等未知代码返回 false
func ParseLanguage(code string) (Language, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, l := range AllLanguages {
		if string(l) == code {
			return l, true
		}
	}
	return "", false
}

// FlavorText 一条图鉴描述及其出处版本
type FlavorText struct {
	Text       string   `json:"text"`
	VersionIDs []string `json:"version_ids"`
}

// KnowledgeEntry 图鉴中的一条记录
type KnowledgeEntry struct {
	ID          int                       `json:"id"`
	Names       map[Language]string       `json:"names"`
	Genus       map[Language]string       `json:"genus"`
	FlavorTexts map[Language][]FlavorText `json:"flavor_texts"`
	Height      int                       `json:"height,omitempty"` // 分米
	Weight      int                       `json:"weight,omitempty"` // 百克
}

// Name 返回指定语言的名字
func (e *KnowledgeEntry) Name(lang Language) (string, bool) {
	name, ok := e.Names[lang]
	return name, ok && name != ""
}

// HasName 判断任意语言的名字是否与 name 相同
func (e *KnowledgeEntry) HasName(name string) bool {
	for _, n := range e.Names {
		if n == name {
			return true
		}
	}
	return false
}
