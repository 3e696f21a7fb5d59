package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"pokedex_bot/config"
	"pokedex_bot/logger"
	"pokedex_bot/models"
	"pokedex_bot/monitoring"
	"pokedex_bot/repository"
	"pokedex_bot/services"
)

// serviceName 指标前缀和日志中的服务名
const serviceName = "pokedex_bot"

// version 构建时通过 -ldflags "-X main.version=..." 注入
var version = "dev"

// app 一次进程内共享的组件
type app struct {
	cfg      *config.Config
	kb       *repository.Pokedex
	platform *services.TwitterClient
	metrics  *monitoring.MetricsCollector
	bot      *services.ReplyBot
}

// newApp 按配置组装全部组件，不发起任何网络请求
func newApp(cfg *config.Config, out io.Writer) (*app, error) {
	kb, err := repository.LoadPokedex(cfg.Pokedex.DataPath)
	if err != nil {
		return nil, err
	}
	logger.Info("图鉴加载完成", "path", cfg.Pokedex.DataPath, "entries", kb.Len())

	languages, err := parseLanguages(cfg.Bot.Languages)
	if err != nil {
		return nil, err
	}
	searchLang, ok := models.ParseLanguage(cfg.Bot.SearchLanguage)
	if !ok {
		return nil, fmt.Errorf("不支持的搜索语言: %q", cfg.Bot.SearchLanguage)
	}
	policy, err := services.ParseAttributionPolicy(cfg.Bot.AttributionPolicy)
	if err != nil {
		return nil, err
	}

	var rng *rand.Rand
	if seed := uint64(cfg.Bot.RandomSeed); seed != 0 {
		rng = rand.New(rand.NewPCG(seed, seed))
		kb.SetRand(rand.New(rand.NewPCG(seed, seed+1)))
	}

	platform := services.NewTwitterClient(cfg.Twitter.Credentials, services.TwitterClientConfig{
		APIBaseURL:    cfg.Twitter.APIBaseURL,
		UploadBaseURL: cfg.Twitter.UploadBaseURL,
		Timeout:       time.Duration(cfg.Twitter.TimeoutSec) * time.Second,
	})
	metrics := monitoring.NewMetricsCollector(serviceName, version)

	filter := services.NewCandidateFilter(services.FilterConfig{
		SupportedLanguages: languages,
		BannedWords:        cfg.Bot.BannedWords,
		OwnHandle:          cfg.Twitter.AccountName,
		MaxFavorites:       cfg.Bot.MaxFavorites,
	}, kb.LocalizedNames())

	driver := services.NewSearchDriver(platform, filter,
		services.WithBatchSize(cfg.Bot.BatchSize),
		services.WithResultLimit(cfg.Bot.ResultLimit),
		services.WithAttributionPolicy(policy),
		services.WithPageObserver(metrics),
	)
	composer := services.NewComposer(kb, services.ComposerConfig{
		MaxLength:           cfg.Bot.MaxLength,
		MediaURLLength:      cfg.Bot.MediaURLLength,
		PicturePathTemplate: cfg.Pokedex.PicturePathTemplate,
	}, rng)

	bot := services.NewReplyBot(kb, platform, driver, composer,
		services.NewMediaPreparer(cfg.Pokedex.MaxImageWidth), metrics,
		services.ReplyBotConfig{SearchLanguage: searchLang, Output: out})

	return &app{
		cfg:      cfg,
		kb:       kb,
		platform: platform,
		metrics:  metrics,
		bot:      bot,
	}, nil
}

// parseLanguages 解析配置中的语言列表，遇到不支持的代码直接报错
func parseLanguages(codes []string) ([]models.Language, error) {
	out := make([]models.Language, 0, len(codes))
	for _, code := range codes {
		lang, ok := models.ParseLanguage(code)
		if !ok {
			return nil, fmt.Errorf("不支持的语言代码: %q", code)
		}
		out = append(out, lang)
	}
	return out, nil
}
