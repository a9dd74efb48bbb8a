package spider

import (
	"time"

	"github.com/moeidioms/crawler/limiter"
	"github.com/moeidioms/crawler/proxy"
	"go.uber.org/zap"
)

// 一个抓取任务：站点入口加上访问该站点所需的全部参数
type Task struct {
	Options
}

// 根据传入的配置构造任务实例
func NewTask(opts ...Option) *Task {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}

	t := &Task{}
	t.Options = options

	return t
}

type Options struct {
	Name     string            `json:"name"` // 任务名称，应保证唯一性
	URL      string            `json:"url"`  // 站点入口URL
	Cookie   string            `json:"cookie"`
	Headers  map[string]string `json:"headers"`   // 固定请求头
	WaitTime int64             `json:"wait_time"` // 随机休眠上限，秒
	Timeout  time.Duration     // http超时时间
	Proxy    proxy.ProxyFunc
	Fetcher  Fetcher
	Limit    limiter.RateLimiter
	logger   *zap.Logger
}

var defaultOptions = Options{
	logger:   zap.NewNop(),
	WaitTime: 2,
	Timeout:  30 * time.Second,
}

type Option func(opts *Options)

func WithLogger(logger *zap.Logger) Option {
	return func(opts *Options) {
		opts.logger = logger
	}
}

func WithName(name string) Option {
	return func(opts *Options) {
		opts.Name = name
	}
}

func WithURL(url string) Option {
	return func(opts *Options) {
		opts.URL = url
	}
}

func WithCookie(cookie string) Option {
	return func(opts *Options) {
		opts.Cookie = cookie
	}
}

func WithHeaders(headers map[string]string) Option {
	return func(opts *Options) {
		opts.Headers = headers
	}
}

func WithWaitTime(waitTime int64) Option {
	return func(opts *Options) {
		opts.WaitTime = waitTime
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(opts *Options) {
		opts.Timeout = timeout
	}
}

func WithProxy(proxy proxy.ProxyFunc) Option {
	return func(opts *Options) {
		opts.Proxy = proxy
	}
}

func WithFetcher(f Fetcher) Option {
	return func(opts *Options) {
		opts.Fetcher = f
	}
}

func WithLimit(l limiter.RateLimiter) Option {
	return func(opts *Options) {
		opts.Limit = l
	}
}
