package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pokedex_bot/config"
	"pokedex_bot/models"
	"pokedex_bot/monitoring"
	"pokedex_bot/repository"
	"pokedex_bot/scheduler"
	"pokedex_bot/services"
)

type stubPlatform struct {
	hits    []models.Post
	postErr error
	posted  int
}

func (s *stubPlatform) Search(context.Context, string, int) (*services.SearchPage, error) {
	return &services.SearchPage{Hits: s.hits, RateLimitRemaining: 100}, nil
}
func (s *stubPlatform) UploadMedia(context.Context, string, []byte) (string, error) {
	return "m1", nil
}
func (s *stubPlatform) PostReply(context.Context, string, string, []string) (string, error) {
	if s.postErr != nil {
		return "", s.postErr
	}
	s.posted++
	return "9001", nil
}
func (s *stubPlatform) Favorite(context.Context, string) error { return nil }
func (s *stubPlatform) VerifyCredentials(context.Context) (*services.Account, error) {
	return &services.Account{ScreenName: "yourpokedex"}, nil
}

func newTestRouter(t *testing.T, platform *stubPlatform, sched *scheduler.Scheduler) *chi.Mux {
	t.Helper()
	kb, err := repository.NewPokedex([]models.KnowledgeEntry{{
		ID:    1,
		Names: map[models.Language]string{models.LangEnglish: "Bulbasaur", models.LangFrench: "Bulbizarre"},
		Genus: map[models.Language]string{models.LangEnglish: "Seed", models.LangFrench: "Graine"},
		FlavorTexts: map[models.Language][]models.FlavorText{
			models.LangEnglish: {{Text: "A strange seed was planted on its back at birth. The plant sprouts and grows with this POKéMON."}},
			models.LangFrench:  {{Text: "Au matin de sa vie, la graine sur son dos lui fournit les éléments dont il a besoin pour grandir."}},
		},
	}})
	require.NoError(t, err)

	metrics := monitoring.NewMetricsCollector("pokedex_bot", "test")
	filter := services.NewCandidateFilter(services.FilterConfig{
		SupportedLanguages: models.AllLanguages,
		MaxFavorites:       1,
	}, kb.LocalizedNames())
	driver := services.NewSearchDriver(platform, filter, services.WithPageObserver(metrics))
	composer := services.NewComposer(kb, services.ComposerConfig{MaxLength: 280, MediaURLLength: 24}, rand.New(rand.NewPCG(1, 1)))
	bot := services.NewReplyBot(kb, platform, driver, composer, nil, metrics, services.ReplyBotConfig{Output: io.Discard})

	r := chi.NewRouter()
	RegisterRoutes(r, Dependencies{Bot: bot, Metrics: metrics, Scheduler: sched})
	return r
}

func doRequest(t *testing.T, r http.Handler, method, target string) (*httptest.ResponseRecorder, models.APIResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	var resp models.APIResponse
	if bytes.HasPrefix(bytes.TrimSpace(rec.Body.Bytes()), []byte("{")) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestHealthHandler(t *testing.T) {
	cfg := &config.Config{}
	sched, err := scheduler.NewScheduler(cfg, func(context.Context) error { return nil })
	require.NoError(t, err)
	r := newTestRouter(t, &stubPlatform{}, sched)

	rec, resp := doRequest(t, r, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.CodeSuccess, resp.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "ok", data["status"])
	assert.Contains(t, data, "scheduler")

	rec, resp = doRequest(t, r, http.MethodGet, "/api/scheduler/status")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.CodeSuccess, resp.Code)
}

func TestSchedulerStatusHandler_Disabled(t *testing.T) {
	r := newTestRouter(t, &stubPlatform{}, nil)
	rec, _ := doRequest(t, r, http.MethodGet, "/api/scheduler/status")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPreviewHandler(t *testing.T) {
	r := newTestRouter(t, &stubPlatform{}, nil)

	rec, resp := doRequest(t, r, http.MethodGet, "/api/reply/preview?handle=alice&name=Bulbizarre&lang=fr")
	require.Equal(t, http.StatusOK, rec.Code)
	data := resp.Data.(map[string]interface{})
	assert.Contains(t, data["text"], "@alice ")
	assert.Equal(t, true, data["include_media"])
	assert.Equal(t, "pokemon-sugimori/1.png", data["media_path"])
	assert.Equal(t, "fr", data["language"])
}

func TestPreviewHandler_Errors(t *testing.T) {
	r := newTestRouter(t, &stubPlatform{}, nil)

	cases := []struct {
		target string
		status int
		code   int
	}{
		{"/api/reply/preview?name=Bulbasaur&lang=en", http.StatusBadRequest, models.CodeMissingParams},
		{"/api/reply/preview?handle=a&name=Bulbasaur&lang=und", http.StatusBadRequest, models.CodeUnsupportedLang},
		{"/api/reply/preview?handle=a&name=Agumon&lang=en", http.StatusNotFound, models.CodeEntryNotFound},
		{"/api/reply/preview?handle=a&name=Bulbasaur&lang=ja", http.StatusNotFound, models.CodeEntryNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.target, func(t *testing.T) {
			rec, resp := doRequest(t, r, http.MethodGet, tc.target)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.code, resp.Code)
		})
	}
}

func TestRunHandler(t *testing.T) {
	platform := &stubPlatform{hits: []models.Post{{
		ID: "77", Text: "wild bulbasaur appeared", Lang: "en", AuthorHandle: "alice",
	}}}
	r := newTestRouter(t, platform, nil)

	// 默认试运行
	rec, resp := doRequest(t, r, http.MethodPost, "/api/reply/run")
	require.Equal(t, http.StatusOK, rec.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "printed", data["outcome"])
	assert.Equal(t, 0, platform.posted)

	rec, resp = doRequest(t, r, http.MethodPost, "/api/reply/run?dry_run=false")
	require.Equal(t, http.StatusOK, rec.Code)
	data = resp.Data.(map[string]interface{})
	assert.Equal(t, "posted", data["outcome"])
	assert.Equal(t, "9001", data["reply_post_id"])
	assert.Equal(t, 1, platform.posted)

	rec, _ = doRequest(t, r, http.MethodPost, "/api/reply/run?dry_run=maybe")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doRequest(t, r, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `pokedex_bot_runs_total{outcome="posted"} 1`)
	assert.Contains(t, rec.Body.String(), `pokedex_bot_search_rate_limit_remaining 100`)
}

func TestRunHandler_ThirdPartyError(t *testing.T) {
	platform := &stubPlatform{
		hits:    []models.Post{{ID: "77", Text: "bulbasaur!", Lang: "en", AuthorHandle: "alice"}},
		postErr: &services.APIError{Endpoint: "statuses/update", StatusCode: 403},
	}
	r := newTestRouter(t, platform, nil)

	rec, resp := doRequest(t, r, http.MethodPost, "/api/reply/run?dry_run=false")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, models.CodeThirdPartyAPIError, resp.Code)
}

func TestRunHandler_NoCandidate(t *testing.T) {
	r := newTestRouter(t, &stubPlatform{}, nil)

	rec, resp := doRequest(t, r, http.MethodPost, "/api/reply/run")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no_candidate", resp.Data.(map[string]interface{})["outcome"])
}

func TestSwaggerDocRegistered(t *testing.T) {
	r := newTestRouter(t, &stubPlatform{}, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/reply/preview")
}
