package spider

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/moeidioms/crawler/extensions"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type FetchType int

const (
	BaseFetchType FetchType = iota
	BrowserFetchType
)

type Fetcher interface {
	// Get抓取url并把响应体转成UTF-8字节流，非200状态码视为错误
	Get(ctx context.Context, task *Task, url string) ([]byte, error)
}

// 根据类型选择Fetcher实现，默认为模拟浏览器行为的实现
func NewFetchService(typ FetchType) Fetcher {
	switch typ {
	case BaseFetchType:
		return &baseFetch{}
	case BrowserFetchType:
		return &browserFetch{}
	default:
		return &browserFetch{}
	}
}

type baseFetch struct{}

// 不带伪装的GET请求，仅做编码探测与UTF-8转换
func (*baseFetch) Get(ctx context.Context, task *Task, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request failed: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error status code:%d", resp.StatusCode)
	}

	bodyReader := bufio.NewReader(resp.Body)
	e := DeterminEncoding(bodyReader)
	utf8Reader := transform.NewReader(bodyReader, e.NewDecoder())

	return io.ReadAll(utf8Reader)
}

type browserFetch struct{}

// 模拟人类访问行为的GET请求：令牌桶限流、随机休眠、代理、
// 任务固定请求头与Cookie，未指定UA时随机补一个
func (b *browserFetch) Get(ctx context.Context, task *Task, url string) ([]byte, error) {
	if task.Limit != nil {
		if err := task.Limit.Wait(ctx); err != nil {
			return nil, err
		}
	}
	if task.WaitTime > 0 {
		sleeptime := rand.Int63n(task.WaitTime * 1000)
		time.Sleep(time.Duration(sleeptime) * time.Millisecond)
	}

	client := &http.Client{
		Timeout: task.Timeout,
	}

	if task.Proxy != nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.Proxy = task.Proxy
		client.Transport = transport
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("get url failed:%w", err)
	}

	for k, v := range task.Headers {
		req.Header.Set(k, v)
	}
	if len(task.Cookie) > 0 {
		req.Header.Set("Cookie", task.Cookie)
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", extensions.GenerateRandomUA())
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error status code:%d", resp.StatusCode)
	}

	bodyReader := bufio.NewReader(resp.Body)
	e := DeterminEncoding(bodyReader)
	utf8Reader := transform.NewReader(bodyReader, e.NewDecoder())

	return io.ReadAll(utf8Reader)
}

// 预读响应头部字节探测页面编码，探测失败时按UTF-8处理
func DeterminEncoding(r *bufio.Reader) encoding.Encoding {
	bytes, err := r.Peek(1024)

	if err != nil {
		zap.L().Error("determin encoding failed", zap.Error(err))

		return unicode.UTF8
	}

	e, _, _ := charset.DetermineEncoding(bytes, "")

	return e
}
