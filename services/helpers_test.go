package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"pokedex_bot/models"
	"pokedex_bot/repository"
)

// fakePlatform 按查询返回预设结果，并记录所有调用
type fakePlatform struct {
	mu sync.Mutex

	pages     func(query string) []models.Post
	searchErr error
	postErr   error
	rateLimit int

	queries   []string
	uploads   []string
	replies   []fakeReply
	favorites []string
}

type fakeReply struct {
	Text      string
	ReplyToID string
	MediaIDs  []string
}

func (f *fakePlatform) Search(_ context.Context, query string, limit int) (*SearchPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	var hits []models.Post
	if f.pages != nil {
		hits = f.pages(query)
	}
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return &SearchPage{Hits: hits, RateLimitRemaining: f.rateLimit}, nil
}

func (f *fakePlatform) UploadMedia(_ context.Context, filename string, _ []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, filename)
	return "media-1", nil
}

func (f *fakePlatform) PostReply(_ context.Context, text, replyToID string, mediaIDs []string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.postErr != nil {
		return "", f.postErr
	}
	f.replies = append(f.replies, fakeReply{Text: text, ReplyToID: replyToID, MediaIDs: mediaIDs})
	return "reply-1", nil
}

func (f *fakePlatform) Favorite(_ context.Context, postID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.favorites = append(f.favorites, postID)
	return nil
}

func (f *fakePlatform) VerifyCredentials(context.Context) (*Account, error) {
	return &Account{ScreenName: "yourpokedex", Name: "Your Pokedex"}, nil
}

func testEntries() []models.KnowledgeEntry {
	return []models.KnowledgeEntry{
		{
			ID: 1,
			Names: map[models.Language]string{
				models.LangEnglish:  "Bulbasaur",
				models.LangGerman:   "Bisasam",
				models.LangJapanese: "フシギダネ",
			},
			Genus: map[models.Language]string{
				models.LangEnglish:  "Seed",
				models.LangGerman:   "Samen",
				models.LangJapanese: "たね",
			},
			FlavorTexts: map[models.Language][]models.FlavorText{
				models.LangEnglish: {{
					Text:       "A strange seed was planted on its back at birth. The plant sprouts and grows with this POKéMON.",
					VersionIDs: []string{"1", "2"},
				}},
				models.LangGerman: {{
					Text:       "Dieses Pokémon trägt von Geburt an einen Samen auf dem Rücken. Er keimt, wenn es wächst.",
					VersionIDs: []string{"12"},
				}},
				models.LangJapanese: {{
					Text:       "うまれたときから　せなかに　ふしぎな　タネが　うえてあって　からだと　ともに　そだつという。",
					VersionIDs: []string{"1"},
				}},
			},
		},
		{
			ID: 25,
			Names: map[models.Language]string{
				models.LangEnglish: "Pikachu",
				models.LangKorean:  "피카츄",
			},
			Genus: map[models.Language]string{
				models.LangEnglish: "Mouse",
			},
			FlavorTexts: map[models.Language][]models.FlavorText{
				models.LangEnglish: {
					{Text: "When several of these POKéMON gather, their electricity could build and cause lightning storms.", VersionIDs: []string{"1"}},
					{Text: "It keeps its tail raised to monitor its surroundings. If you yank its tail, it will try to bite you.", VersionIDs: []string{"4"}},
					{Text: "This intelligent POKéMON roasts hard BERRIES with electricity to make them tender enough to eat.", VersionIDs: []string{"7"}},
				},
			},
		},
		{
			ID: 150,
			Names: map[models.Language]string{
				models.LangEnglish: "Mewtwo",
			},
			Genus: map[models.Language]string{
				models.LangEnglish: "Genetic",
			},
			FlavorTexts: map[models.Language][]models.FlavorText{
				models.LangEnglish: {{Text: "It was created by a scientist after years of horrific gene splicing and DNA engineering experiments.", VersionIDs: []string{"1"}}},
			},
		},
		{
			ID: 151,
			Names: map[models.Language]string{
				models.LangEnglish: "Mew",
			},
			Genus: map[models.Language]string{
				models.LangEnglish: "New Species",
			},
			FlavorTexts: map[models.Language][]models.FlavorText{
				models.LangEnglish: {{Text: "So rare that it is still said to be a mirage by many experts. Only a few people have seen it worldwide.", VersionIDs: []string{"1"}}},
			},
		},
	}
}

func newTestPokedex(t *testing.T) *repository.Pokedex {
	t.Helper()
	p, err := repository.NewPokedex(testEntries())
	require.NoError(t, err)
	return p
}

func newTestFilter(kb KnowledgeBase) *CandidateFilter {
	return NewCandidateFilter(FilterConfig{
		SupportedLanguages: models.AllLanguages,
		BannedWords:        []string{"bot", "dex", "official", "pokemon"},
		OwnHandle:          "yourpokedex",
		MaxFavorites:       1,
	}, kb.LocalizedNames())
}

// eligiblePost 基准帖子，能通过所有过滤条件
func eligiblePost(id, text string) models.Post {
	return models.Post{
		ID:               id,
		Text:             text,
		Lang:             "en",
		AuthorHandle:     "alice",
		MentionedHandles: []string{"bob"},
	}
}
