package engine

import (
	"github.com/moeidioms/crawler/spider"
	"github.com/moeidioms/crawler/storage"
	"go.uber.org/zap"
)

type Option func(opts *options)

// 批量抓取的配置选项
type options struct {
	Task      *spider.Task    // 站点任务，携带fetcher与访问参数
	Storage   storage.Storage // 词条输出后端
	Logger    *zap.Logger
	StartID   int // 起始ID，可为负数
	Step      int // 步进，负值往负向
	MaxMisses int // 连续不存在达到该值即停止
}

var defaultOptions = options{
	Logger:    zap.NewNop(),
	Step:      1,
	MaxMisses: 20,
}

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.Logger = logger
	}
}

func WithTask(task *spider.Task) Option {
	return func(opts *options) {
		opts.Task = task
	}
}

func WithStorage(s storage.Storage) Option {
	return func(opts *options) {
		opts.Storage = s
	}
}

func WithStartID(startID int) Option {
	return func(opts *options) {
		opts.StartID = startID
	}
}

func WithStep(step int) Option {
	return func(opts *options) {
		opts.Step = step
	}
}

func WithMaxMisses(maxMisses int) Option {
	return func(opts *options) {
		opts.MaxMisses = maxMisses
	}
}
