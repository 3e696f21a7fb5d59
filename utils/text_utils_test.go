package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombinations(t *testing.T) {
	assert.Equal(t, [][]int{{0, 1, 2}}, Combinations(3, 3))
	assert.Equal(t, [][]int{{0, 1}, {0, 2}, {1, 2}}, Combinations(3, 2))
	assert.Equal(t, [][]int{{0}, {1}, {2}}, Combinations(3, 1))
	assert.Equal(t, [][]int{{}}, Combinations(3, 0))
	assert.Nil(t, Combinations(2, 3))
	assert.Len(t, Combinations(6, 3), 20)
}

func TestSplitAndJoinSentences(t *testing.T) {
	s := SplitSentences("First. Second. Third.")
	assert.Equal(t, []string{"First", "Second", "Third."}, s)
	assert.Equal(t, "First. Third.", JoinSentences(Pick(s, []int{0, 2})))
	assert.Equal(t, []string{""}, SplitSentences(""))
}

func TestEnsureFullStop(t *testing.T) {
	assert.Equal(t, "a.", EnsureFullStop("a"))
	assert.Equal(t, "a.", EnsureFullStop("a."))
	assert.Equal(t, "あ。", EnsureFullStop("あ。"))
	assert.Equal(t, ".", EnsureFullStop(""))
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("BulbasaurFan", "bulbasaur"))
	assert.False(t, ContainsFold("anything", ""))
	assert.True(t, ContainsAnyFold("TheOfficialDex", []string{"bot", "official"}))
	assert.False(t, ContainsAnyFold("alice", []string{"bot", ""}))
}

func TestStripMentions(t *testing.T) {
	assert.Equal(t, "  loves pikachu", StripMentions("@bulbasaur_fan loves pikachu"))
	assert.NotContains(t, StripMentions("hi @mew and @ditto!"), "mew")
}

func TestFillTemplate(t *testing.T) {
	out := FillTemplate("@a X{optional}: {text}", map[string]string{
		"optional": ", {text}",
		"text":     "body",
	})
	assert.Equal(t, "@a X, {text}: body", out)
}

func TestDeduplicateSlice(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, DeduplicateSlice([]string{" a", "b", "a", ""}))
}

func TestRuneLen(t *testing.T) {
	assert.Equal(t, 3, RuneLen("\U0001d401ab"))
	assert.Equal(t, 5, RuneLen("フシギダネ"))
}
