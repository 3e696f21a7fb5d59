package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"sync"

	"pokedex_bot/models"
)

var (
	// ErrEntryNotFound 图鉴中没有该名字
	ErrEntryNotFound = errors.New("pokedex entry not found")
	// ErrLanguageMissing 条目缺少指定语言的名字或描述
	ErrLanguageMissing = errors.New("pokedex entry has no data for language")
)

// Pokedex 启动时加载一次的只读图鉴
type Pokedex struct {
	entries []models.KnowledgeEntry
	byName  map[string]int // 名字（任意语言） -> entries 下标
	byLower map[string]int

	rngMu sync.Mutex
	rng   *rand.Rand
}

// LoadPokedex 从 JSON 文件加载图鉴并校验
func LoadPokedex(path string) (*Pokedex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取图鉴文件失败: %w", err)
	}
	var entries []models.KnowledgeEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("解析图鉴文件失败: %w", err)
	}
	return NewPokedex(entries)
}

// NewPokedex 校验条目并建立名字索引
func NewPokedex(entries []models.KnowledgeEntry) (*Pokedex, error) {
	if err := ValidateEntries(entries); err != nil {
		return nil, err
	}

	p := &Pokedex{
		entries: entries,
		byName:  make(map[string]int),
		byLower: make(map[string]int),
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for i, e := range entries {
		for _, lang := range models.AllLanguages {
			name, ok := e.Name(lang)
			if !ok {
				continue
			}
			if _, exists := p.byName[name]; !exists {
				p.byName[name] = i
			}
			lower := strings.ToLower(name)
			if _, exists := p.byLower[lower]; !exists {
				p.byLower[lower] = i
			}
		}
	}
	return p, nil
}

// ValidateEntries 校验：编号唯一、必须有英文名、语言代码必须受支持
func ValidateEntries(entries []models.KnowledgeEntry) error {
	seen := make(map[int]bool, len(entries))
	for _, e := range entries {
		if seen[e.ID] {
			return fmt.Errorf("图鉴编号重复: %d", e.ID)
		}
		seen[e.ID] = true

		if _, ok := e.Name(models.DefaultLanguage); !ok {
			return fmt.Errorf("图鉴条目 %d 缺少 %s 名字", e.ID, models.DefaultLanguage)
		}
		for lang := range e.Names {
			if err := checkLanguage(e.ID, "names", lang); err != nil {
				return err
			}
		}
		for lang := range e.Genus {
			if err := checkLanguage(e.ID, "genus", lang); err != nil {
				return err
			}
		}
		for lang := range e.FlavorTexts {
			if err := checkLanguage(e.ID, "flavor_texts", lang); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkLanguage(id int, field string, lang models.Language) error {
	if parsed, ok := models.ParseLanguage(string(lang)); !ok || parsed != lang {
		return fmt.Errorf("图鉴条目 %d 的 %s 使用了不支持的语言: %q", id, field, lang)
	}
	return nil
}

// SetRand 注入随机源，测试时固定种子
func (p *Pokedex) SetRand(r *rand.Rand) {
	p.rngMu.Lock()
	defer p.rngMu.Unlock()
	p.rng = r
}

// Len 条目数量
func (p *Pokedex) Len() int {
	return len(p.entries)
}

// AllNames 返回指定语言的全部名字，randomOrder 为 true 时打乱顺序
func (p *Pokedex) AllNames(lang models.Language, randomOrder bool) []string {
	names := make([]string, 0, len(p.entries))
	for i := range p.entries {
		if name, ok := p.entries[i].Name(lang); ok {
			names = append(names, name)
		}
	}
	if randomOrder {
		p.rngMu.Lock()
		p.rng.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })
		p.rngMu.Unlock()
	}
	return names
}

// LocalizedNames 返回所有语言的全部名字（去重）
func (p *Pokedex) LocalizedNames() []string {
	names := make([]string, 0, len(p.byName))
	for i := range p.entries {
		for _, lang := range models.AllLanguages {
			if name, ok := p.entries[i].Name(lang); ok {
				names = append(names, name)
			}
		}
	}
	return dedupe(names)
}

// Lookup 按任意语言的名字查找条目，先精确匹配再忽略大小写
func (p *Pokedex) Lookup(name string) (*models.KnowledgeEntry, error) {
	if i, ok := p.byName[name]; ok {
		return &p.entries[i], nil
	}
	if i, ok := p.byLower[strings.ToLower(strings.TrimSpace(name))]; ok {
		return &p.entries[i], nil
	}
	return nil, fmt.Errorf("%w: %q", ErrEntryNotFound, name)
}

// Entry 查找条目并确认该语言有名字和描述
func (p *Pokedex) Entry(name string, lang models.Language) (*models.KnowledgeEntry, error) {
	e, err := p.Lookup(name)
	if err != nil {
		return nil, err
	}
	if _, ok := e.Name(lang); !ok {
		return nil, fmt.Errorf("%w: %q (%s)", ErrLanguageMissing, name, lang)
	}
	if len(e.FlavorTexts[lang]) == 0 {
		return nil, fmt.Errorf("%w: %q (%s) has no flavor text", ErrLanguageMissing, name, lang)
	}
	return e, nil
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
