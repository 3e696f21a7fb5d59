package repository

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"pokedex_bot/logger"
	"pokedex_bot/models"
)

// veekun 数据集中用到的文件
const (
	veekunPokemonFile      = "pokemon.csv"
	veekunSpeciesNamesFile = "pokemon_species_names.csv"
	veekunFlavorTextFile   = "pokemon_species_flavor_text.csv"
	veekunLanguagesFile    = "languages.csv"

	// DefaultMaxSpeciesID 第一世代
	DefaultMaxSpeciesID = 151
)

// ImportOptions 生成图鉴的选项
type ImportOptions struct {
	MaxID     int               // 只导入编号不超过 MaxID 的条目，0 表示 151
	Languages []models.Language // 只保留这些语言，为空表示全部支持的语言
}

type csvRow map[string]string

func (r csvRow) intField(key string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(r[key]))
	if err != nil {
		return 0, fmt.Errorf("字段 %s 不是整数: %q", key, r[key])
	}
	return v, nil
}

// ImportVeekun 从 veekun/pokedex 的 CSV 文件生成图鉴条目
//
// 同一语言下文字相同的描述会合并，版本号追加到 VersionIDs。
// 同一语言代码对应多个 veekun 语言时（如 ja-Hrkt 和 roomaji），名字取先出现的。
func ImportVeekun(dir string, opts ImportOptions) ([]models.KnowledgeEntry, error) {
	if opts.MaxID <= 0 {
		opts.MaxID = DefaultMaxSpeciesID
	}
	if len(opts.Languages) == 0 {
		opts.Languages = models.AllLanguages
	}
	wanted := make(map[models.Language]bool, len(opts.Languages))
	for _, l := range opts.Languages {
		wanted[l] = true
	}

	languages, err := loadVeekunLanguages(filepath.Join(dir, veekunLanguagesFile), wanted)
	if err != nil {
		return nil, err
	}

	pokemon, err := readCSV(filepath.Join(dir, veekunPokemonFile))
	if err != nil {
		return nil, err
	}
	entries := make([]models.KnowledgeEntry, 0, opts.MaxID)
	index := make(map[int]int) // species id -> entries 下标
	for _, row := range pokemon {
		id, err := row.intField("id")
		if err != nil {
			return nil, err
		}
		if id > opts.MaxID {
			continue
		}
		speciesID := id
		if row["species_id"] != "" {
			if speciesID, err = row.intField("species_id"); err != nil {
				return nil, err
			}
		}
		if _, ok := index[speciesID]; ok {
			continue
		}
		height, _ := row.intField("height")
		weight, _ := row.intField("weight")
		index[speciesID] = len(entries)
		entries = append(entries, models.KnowledgeEntry{
			ID:          id,
			Names:       make(map[models.Language]string),
			Genus:       make(map[models.Language]string),
			FlavorTexts: make(map[models.Language][]models.FlavorText),
			Height:      height,
			Weight:      weight,
		})
	}

	names, err := readCSV(filepath.Join(dir, veekunSpeciesNamesFile))
	if err != nil {
		return nil, err
	}
	for _, row := range names {
		e, lang, ok, err := resolve(row, "pokemon_species_id", "local_language_id", entries, index, languages)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if _, exists := e.Names[lang]; !exists && row["name"] != "" {
			e.Names[lang] = row["name"]
		}
		if _, exists := e.Genus[lang]; !exists && row["genus"] != "" {
			e.Genus[lang] = row["genus"]
		}
	}

	flavors, err := readCSV(filepath.Join(dir, veekunFlavorTextFile))
	if err != nil {
		return nil, err
	}
	for _, row := range flavors {
		e, lang, ok, err := resolve(row, "species_id", "language_id", entries, index, languages)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		addFlavorText(e, lang, normalizeFlavorText(row["flavor_text"]), row["version_id"])
	}

	for i := range entries {
		logger.Debug("导入图鉴条目", "id", entries[i].ID, "name", entries[i].Names[models.LangEnglish],
			"languages", len(entries[i].Names))
	}
	if err := ValidateEntries(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func resolve(row csvRow, speciesKey, langKey string, entries []models.KnowledgeEntry, index map[int]int,
	languages map[int]models.Language) (*models.KnowledgeEntry, models.Language, bool, error) {
	speciesID, err := row.intField(speciesKey)
	if err != nil {
		return nil, "", false, err
	}
	i, ok := index[speciesID]
	if !ok {
		return nil, "", false, nil
	}
	langID, err := row.intField(langKey)
	if err != nil {
		return nil, "", false, err
	}
	lang, ok := languages[langID]
	if !ok {
		return nil, "", false, nil
	}
	return &entries[i], lang, true, nil
}

func addFlavorText(e *models.KnowledgeEntry, lang models.Language, text, versionID string) {
	if text == "" {
		return
	}
	list := e.FlavorTexts[lang]
	for i := range list {
		if list[i].Text == text {
			list[i].VersionIDs = append(list[i].VersionIDs, versionID)
			return
		}
	}
	e.FlavorTexts[lang] = append(list, models.FlavorText{Text: text, VersionIDs: []string{versionID}})
}

// normalizeFlavorText 游戏内的换行和换页符替换为空格
func normalizeFlavorText(s string) string {
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\f", " ", "\u00ad", "").Replace(s)
	return strings.TrimSpace(s)
}

func loadVeekunLanguages(path string, wanted map[models.Language]bool) (map[int]models.Language, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	out := make(map[int]models.Language)
	for _, row := range rows {
		id, err := row.intField("id")
		if err != nil {
			return nil, err
		}
		lang, ok := models.ParseLanguage(row["iso639"])
		if !ok || !wanted[lang] {
			continue
		}
		out[id] = lang
	}
	return out, nil
}

func readCSV(path string) ([]csvRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开 %s 失败: %w", filepath.Base(path), err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("读取 %s 表头失败: %w", filepath.Base(path), err)
	}

	var rows []csvRow
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("读取 %s 失败: %w", filepath.Base(path), err)
		}
		row := make(csvRow, len(header))
		for i, key := range header {
			if i < len(record) {
				row[key] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WritePokedex 将图鉴写成 JSON 文件
func WritePokedex(path string, entries []models.KnowledgeEntry) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("序列化图鉴失败: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建目录失败: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("写入图鉴文件失败: %w", err)
	}
	return nil
}
