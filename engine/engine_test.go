package engine

import (
	"context"
	"fmt"
	"net/url"
	"testing"

	"github.com/moeidioms/crawler/parse/moeidiom"
	"github.com/moeidioms/crawler/spider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const entryPageTmpl = `<html><body><table id="idiomTab">
<tr><th>成 語</th><td>%s</td></tr>
<tr><th>注 音</th><td>ㄕㄡˇ ㄓㄨ</td></tr>
<tr><th>釋 義</th><td>釋義文字。</td></tr>
</table></body></html>`

const missingPage = `<html><body><p>查無資料</p></body></html>`

// 按URL中的ID决定返回词条页还是查无资料页
type stubFetcher struct {
	pages map[string]string
}

func (s *stubFetcher) Get(ctx context.Context, task *spider.Task, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if page, ok := s.pages[u.Query().Get("ID")]; ok {
		return []byte(page), nil
	}
	return []byte(missingPage), nil
}

type memStorage struct {
	entries []*moeidiom.Entry
	flushed int
}

func (m *memStorage) Save(entries ...*moeidiom.Entry) error {
	m.entries = append(m.entries, entries...)
	return nil
}

func (m *memStorage) Flush() error {
	m.flushed++
	return nil
}

func newTestTask(f spider.Fetcher) *spider.Task {
	return spider.NewTask(
		spider.WithName("moe_idiom_adv"),
		spider.WithURL(moeidiom.BaseURL),
		spider.WithWaitTime(0),
		spider.WithFetcher(f),
	)
}

func TestRunStopsAfterConsecutiveMisses(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string]string{
		"1": fmt.Sprintf(entryPageTmpl, "守株待兔"),
		"2": fmt.Sprintf(entryPageTmpl, "一心一意"),
	}}
	store := &memStorage{}

	e := NewEngine(
		WithTask(newTestTask(fetcher)),
		WithStorage(store),
		WithStartID(1),
		WithStep(1),
		WithMaxMisses(3),
	)

	stats, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.OK)
	assert.Equal(t, 3, stats.Missed)
	assert.Equal(t, 0, stats.Failed)
	assert.Equal(t, 5, stats.LastID)

	require.Len(t, store.entries, 2)
	assert.Equal(t, "守株待兔", store.entries[0].Title)
	assert.Equal(t, "一心一意", store.entries[1].Title)
	assert.Equal(t, 1, store.flushed)
}

func TestRunMissRunResetOnHit(t *testing.T) {
	// ID 1、3 存在，中间的2不存在：连续计数被命中打断，不应提前停止
	fetcher := &stubFetcher{pages: map[string]string{
		"1": fmt.Sprintf(entryPageTmpl, "守株待兔"),
		"3": fmt.Sprintf(entryPageTmpl, "一心一意"),
	}}
	store := &memStorage{}

	e := NewEngine(
		WithTask(newTestTask(fetcher)),
		WithStorage(store),
		WithStartID(1),
		WithStep(1),
		WithMaxMisses(2),
	)

	stats, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.OK)
	assert.Equal(t, 3, stats.Missed)
	assert.Equal(t, 5, stats.LastID)
}

func TestRunNegativeStep(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string]string{
		"-1": fmt.Sprintf(entryPageTmpl, "萬眾一心"),
	}}
	store := &memStorage{}

	e := NewEngine(
		WithTask(newTestTask(fetcher)),
		WithStorage(store),
		WithStartID(-1),
		WithStep(-1),
		WithMaxMisses(2),
	)

	stats, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.OK)
	assert.Equal(t, -3, stats.LastID)
}

func TestRunRejectsZeroStep(t *testing.T) {
	e := NewEngine(
		WithTask(newTestTask(&stubFetcher{})),
		WithStorage(&memStorage{}),
		WithStep(0),
	)
	_, err := e.Run(context.Background())
	assert.Error(t, err)
}

func TestRunCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := &memStorage{}
	e := NewEngine(
		WithTask(newTestTask(&stubFetcher{})),
		WithStorage(store),
		WithStartID(1),
		WithStep(1),
		WithMaxMisses(3),
	)
	_, err := e.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, store.flushed)
}
