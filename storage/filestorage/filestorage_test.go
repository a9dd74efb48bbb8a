package filestorage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/moeidioms/crawler/parse/moeidiom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntry(id, title string) *moeidiom.Entry {
	e := &moeidiom.Entry{
		ID:       id,
		URL:      moeidiom.ViewURL(moeidiom.BaseURL, id),
		Title:    title,
		Bopomofo: "ㄕㄡˇ ㄓㄨ",
		Pinyin:   "shǒu zhū dài tù",
	}
	e.Fulltext = e.ComposeFulltext()
	return e
}

func TestFileStoreSave(t *testing.T) {
	dir := t.TempDir()
	s, err := New(WithOutDir(dir))
	require.NoError(t, err)

	require.NoError(t, s.Save(testEntry("123", "守株待兔")))

	jsonPath := filepath.Join(dir, "json", "123_守株待兔.json")
	raw, err := os.ReadFile(jsonPath)
	require.NoError(t, err)

	var decoded moeidiom.Entry
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "守株待兔", decoded.Title)
	// URL中的&不得被转义成&
	assert.Contains(t, string(raw), "webMd=2&la=0")
	assert.NotContains(t, string(raw), "\\u0026")

	txt, err := os.ReadFile(filepath.Join(dir, "txt", "123_守株待兔.txt"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(txt), "成語：守株待兔"))
	assert.True(t, strings.HasSuffix(string(txt), "\n"))
}

func TestFileStoreCorpusAppend(t *testing.T) {
	dir := t.TempDir()
	s, err := New(WithOutDir(dir))
	require.NoError(t, err)

	require.NoError(t, s.Save(testEntry("1", "守株待兔")))
	require.NoError(t, s.Save(testEntry("2", "一心一意")))
	require.NoError(t, s.Flush())

	raw, err := os.ReadFile(filepath.Join(dir, "moe_idioms.jsonl"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		var decoded moeidiom.Entry
		assert.NoError(t, json.Unmarshal([]byte(line), &decoded))
	}
}

func TestFileStoreSlugFallback(t *testing.T) {
	dir := t.TempDir()
	s, err := New(WithOutDir(dir), WithCorpusName("corpus.jsonl"))
	require.NoError(t, err)

	// 标题全是标点时文件名退化为NA
	entry := testEntry("9", "！？")
	require.NoError(t, s.Save(entry))

	_, err = os.Stat(filepath.Join(dir, "json", "9_NA.json"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "corpus.jsonl"))
	assert.NoError(t, err)
}
