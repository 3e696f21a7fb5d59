package services

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pokedex_bot/models"
	"pokedex_bot/utils"
)

func newTestComposer(t *testing.T, cfg ComposerConfig) *Composer {
	t.Helper()
	return NewComposer(newTestPokedex(t), cfg, rand.New(rand.NewPCG(1, 2)))
}

func TestCompose_WithMedia(t *testing.T) {
	c := newTestComposer(t, ComposerConfig{MaxLength: 280, MediaURLLength: 24})

	reply, err := c.Compose("alice", "Bulbasaur", models.LangEnglish)
	require.NoError(t, err)

	want := "@alice " + utils.Bold("Bulbasaur") + ", " + utils.Italic("Seed") + ": " +
		"A strange seed was planted on its back at birth. The plant sprouts and grows with this POKéMON."
	assert.Equal(t, want, reply.Text)
	assert.True(t, reply.IncludeMedia)
	assert.Equal(t, "pokemon-sugimori/1.png", reply.MediaPath)
	assert.Equal(t, 1, reply.EntryID)
	assert.Equal(t, "Bulbasaur", reply.Name)
	assert.LessOrEqual(t, utils.RuneLen(reply.Text), 280-24)
}

func TestCompose_MentionNotDoubled(t *testing.T) {
	c := newTestComposer(t, ComposerConfig{})

	reply, err := c.Compose("@alice", "Bulbasaur", models.LangEnglish)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(reply.Text, "@alice "))
	assert.False(t, strings.HasPrefix(reply.Text, "@@"))
}

func TestCompose_LocalizedLookup(t *testing.T) {
	c := newTestComposer(t, ComposerConfig{})

	// 英文名查日文条目
	reply, err := c.Compose("taro", "Bulbasaur", models.LangJapanese)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(reply.Text, "@taro フシギダネ, "+utils.Italic("たね")+": "))
	assert.True(t, strings.HasSuffix(reply.Text, "。"))

	// 德文名查德文条目
	reply, err = c.Compose("hans", "Bisasam", models.LangGerman)
	require.NoError(t, err)
	assert.Contains(t, reply.Text, utils.Bold("Bisasam"))
	assert.Equal(t, models.LangGerman, reply.Language)
}

func TestCompose_DropsMediaWhenBudgetTooSmall(t *testing.T) {
	c := newTestComposer(t, ComposerConfig{MaxLength: 30, MediaURLLength: 24})

	reply, err := c.Compose("alice", "Bulbasaur", models.LangEnglish)
	require.NoError(t, err)
	assert.False(t, reply.IncludeMedia)
	assert.Empty(t, reply.MediaPath)
	assert.LessOrEqual(t, utils.RuneLen(reply.Text), 30)
	assert.True(t, strings.HasSuffix(reply.Text, "."))
}

func TestCompose_FitFailure(t *testing.T) {
	c := newTestComposer(t, ComposerConfig{MaxLength: 10, MediaURLLength: 24})

	_, err := c.Compose("alice", "Bulbasaur", models.LangEnglish)
	assert.ErrorIs(t, err, ErrFitFailure)
	assert.True(t, IsQuietFailure(err))
}

func TestCompose_LookupMiss(t *testing.T) {
	c := newTestComposer(t, ComposerConfig{})

	_, err := c.Compose("alice", "Agumon", models.LangEnglish)
	assert.ErrorIs(t, err, ErrLookupMiss)

	// 有韩文名但没有韩文描述
	_, err = c.Compose("alice", "Pikachu", models.LangKorean)
	assert.ErrorIs(t, err, ErrLookupMiss)

	// 完全没有法文数据
	_, err = c.Compose("alice", "Mew", models.LangFrench)
	assert.ErrorIs(t, err, ErrLookupMiss)
	assert.True(t, IsQuietFailure(err))
}

func TestCompose_SeededFlavorChoice(t *testing.T) {
	kb := newTestPokedex(t)
	a := NewComposer(kb, ComposerConfig{}, rand.New(rand.NewPCG(7, 7)))
	b := NewComposer(kb, ComposerConfig{}, rand.New(rand.NewPCG(7, 7)))

	seen := map[string]bool{}
	for range 30 {
		ra, err := a.Compose("alice", "Pikachu", models.LangEnglish)
		require.NoError(t, err)
		rb, err := b.Compose("alice", "Pikachu", models.LangEnglish)
		require.NoError(t, err)
		assert.Equal(t, ra.Text, rb.Text)
		seen[ra.Text] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestCompose_PicturePathTemplate(t *testing.T) {
	c := newTestComposer(t, ComposerConfig{PicturePathTemplate: "/srv/pics/{id}.png"})
	assert.Equal(t, "/srv/pics/151.png", c.MediaPath(151))
}
