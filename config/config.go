package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrCredentialMissing 缺少平台凭证，进程必须在任何网络请求之前退出
var ErrCredentialMissing = errors.New("credential missing")

// 凭证对应的环境变量名
const (
	EnvConsumerKey    = "TWITTER_CONSUMER_KEY"
	EnvConsumerSecret = "TWITTER_CONSUMER_SECRET"
	EnvAccessToken    = "TWITTER_ACCESS_TOKEN"
	EnvAccessSecret   = "TWITTER_ACCESS_SECRET"
)

// Credentials 平台的四个不透明令牌，只从环境变量读取
type Credentials struct {
	ConsumerKey    string `yaml:"-"`
	ConsumerSecret string `yaml:"-"`
	AccessToken    string `yaml:"-"`
	AccessSecret   string `yaml:"-"`
}

// Validate 检查四个令牌是否齐全
func (c Credentials) Validate() error {
	var missing []string
	if c.ConsumerKey == "" {
		missing = append(missing, EnvConsumerKey)
	}
	if c.ConsumerSecret == "" {
		missing = append(missing, EnvConsumerSecret)
	}
	if c.AccessToken == "" {
		missing = append(missing, EnvAccessToken)
	}
	if c.AccessSecret == "" {
		missing = append(missing, EnvAccessSecret)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrCredentialMissing, strings.Join(missing, ", "))
	}
	return nil
}

type Config struct {
	Server struct {
		Enabled bool   `yaml:"enabled"`
		Host    string `yaml:"host"`
		Port    int    `yaml:"port"`
		Addr    string `yaml:"-"` // 不从配置文件读取，而是在加载后计算
	} `yaml:"server"`
	Twitter struct {
		AccountName   string      `yaml:"account_name"`    // 机器人自己的账号，用于避免自我回复
		APIBaseURL    string      `yaml:"api_base_url"`    // REST API 地址
		UploadBaseURL string      `yaml:"upload_base_url"` // 媒体上传地址
		TimeoutSec    int         `yaml:"timeout_sec"`     // 请求超时，单位：秒
		Credentials   Credentials `yaml:"-"`
	} `yaml:"twitter"`
	Bot struct {
		MaxLength         int      `yaml:"max_length"`         // 回复的最大字符数
		MediaURLLength    int      `yaml:"media_url_length"`   // 附带图片时预留的字符数，负数表示不预留
		BatchSize         int      `yaml:"batch_size"`         // 每次搜索的名字数量
		ResultLimit       int      `yaml:"result_limit"`       // 每次搜索返回的最大结果数
		AttributionPolicy string   `yaml:"attribution_policy"` // 多个名字同时命中时的取舍：last|first|longest
		RandomSeed        int64    `yaml:"random_seed"`        // 0 表示使用当前时间
		SearchLanguage    string   `yaml:"search_language"`    // 搜索关键字使用的语言
		Languages         []string `yaml:"languages"`          // 支持回复的语言
		BannedWords       []string `yaml:"banned_words"`       // 作者账号中出现即跳过
		MaxFavorites      int      `yaml:"max_favorites"`      // 允许的最大点赞数
	} `yaml:"bot"`
	Pokedex struct {
		DataPath            string `yaml:"data_path"`             // 图鉴 JSON 文件
		PicturePathTemplate string `yaml:"picture_path_template"` // 图片路径模板，{id} 为占位符
		MaxImageWidth       int    `yaml:"max_image_width"`       // 上传前图片的最大宽度
	} `yaml:"pokedex"`
	Scheduler struct {
		IntervalMin      int    `yaml:"interval_min"`       // 执行间隔（分钟）
		Cron             string `yaml:"cron"`               // cron 表达式，设置后优先于 interval_min
		CheckIntervalSec int    `yaml:"check_interval_sec"` // 调度器检查间隔（秒）
		DryRun           bool   `yaml:"dry_run"`            // 定时任务只打印不发布
	} `yaml:"scheduler"`
	Log struct {
		Level    string `yaml:"level"`
		Format   string `yaml:"format"`
		Output   string `yaml:"output"`
		FilePath string `yaml:"file_path"`
	} `yaml:"log"`
}

// Load 加载配置：先读 .env，再读 yaml 文件，最后用环境变量覆盖敏感信息
func Load(path string) *Config {
	// 首先尝试加载.env文件中的环境变量
	_ = godotenv.Load() // 忽略错误，如果.env文件不存在，继续使用系统环境变量

	var cfg Config

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Printf("Error loading %s: %v, falling back to environment variables", path, err)
			return loadFromEnv()
		}
		log.Printf("Loading configuration from %s", path)
		applyEnv(&cfg)
		applyDefaults(&cfg)
		return &cfg
	}

	// 如果配置文件不存在，则完全从环境变量加载配置
	return loadFromEnv()
}

func loadFromEnv() *Config {
	var cfg Config

	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
			cfg.Server.Enabled = true
		}
	}
	cfg.Twitter.AccountName = getenv("TWITTER_ACCOUNT_NAME", "")
	cfg.Pokedex.DataPath = getenv("POKEDEX_DATA_PATH", "")
	cfg.Log.Level = getenv("LOG_LEVEL", "")

	applyEnv(&cfg)
	applyDefaults(&cfg)

	log.Println("配置从环境变量加载，部分配置可能缺失")
	return &cfg
}

// applyEnv 从环境变量中加载凭证
func applyEnv(cfg *Config) {
	cfg.Twitter.Credentials = Credentials{
		ConsumerKey:    strings.TrimSpace(os.Getenv(EnvConsumerKey)),
		ConsumerSecret: strings.TrimSpace(os.Getenv(EnvConsumerSecret)),
		AccessToken:    strings.TrimSpace(os.Getenv(EnvAccessToken)),
		AccessSecret:   strings.TrimSpace(os.Getenv(EnvAccessSecret)),
	}
	if name := os.Getenv("TWITTER_ACCOUNT_NAME"); name != "" {
		cfg.Twitter.AccountName = name
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	cfg.Server.Addr = fmt.Sprintf(":%d", cfg.Server.Port)

	if cfg.Twitter.AccountName == "" {
		cfg.Twitter.AccountName = "yourpokedex"
	}
	if cfg.Twitter.APIBaseURL == "" {
		cfg.Twitter.APIBaseURL = "https://api.twitter.com/1.1"
	}
	if cfg.Twitter.UploadBaseURL == "" {
		cfg.Twitter.UploadBaseURL = "https://upload.twitter.com/1.1"
	}
	if cfg.Twitter.TimeoutSec <= 0 {
		cfg.Twitter.TimeoutSec = 30
	}

	if cfg.Bot.MaxLength <= 0 {
		cfg.Bot.MaxLength = 280
	}
	// 负数表示附带图片时不预留字符
	switch {
	case cfg.Bot.MediaURLLength == 0:
		cfg.Bot.MediaURLLength = 24
	case cfg.Bot.MediaURLLength < 0:
		cfg.Bot.MediaURLLength = 0
	}
	if cfg.Bot.BatchSize <= 0 {
		cfg.Bot.BatchSize = 15
	}
	if cfg.Bot.ResultLimit <= 0 {
		cfg.Bot.ResultLimit = 50
	}
	if cfg.Bot.AttributionPolicy == "" {
		cfg.Bot.AttributionPolicy = "last"
	}
	if cfg.Bot.SearchLanguage == "" {
		cfg.Bot.SearchLanguage = "en"
	}
	if len(cfg.Bot.Languages) == 0 {
		cfg.Bot.Languages = []string{"de", "en", "es", "fr", "it", "ja", "ko", "zh"}
	}
	if cfg.Bot.BannedWords == nil {
		cfg.Bot.BannedWords = []string{"bot", "dex", "official", "pokemon"}
	}
	if cfg.Bot.MaxFavorites <= 0 {
		cfg.Bot.MaxFavorites = 1
	}

	if cfg.Pokedex.DataPath == "" {
		cfg.Pokedex.DataPath = "data/pokedex.json"
	}
	if cfg.Pokedex.PicturePathTemplate == "" {
		cfg.Pokedex.PicturePathTemplate = "pokemon-sugimori/{id}.png"
	}
	if cfg.Pokedex.MaxImageWidth <= 0 {
		cfg.Pokedex.MaxImageWidth = 1024
	}

	if cfg.Scheduler.IntervalMin <= 0 {
		cfg.Scheduler.IntervalMin = 30
	}
	if cfg.Scheduler.CheckIntervalSec <= 0 {
		cfg.Scheduler.CheckIntervalSec = 60
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
