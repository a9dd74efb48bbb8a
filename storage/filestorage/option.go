package filestorage

// 函数式选项模式

import (
	"go.uber.org/zap"
)

type options struct {
	logger     *zap.Logger
	outDir     string
	corpusName string
}

// 默认选项
var defaultOptions = options{
	logger:     zap.NewNop(),
	outDir:     "out_moe",
	corpusName: "moe_idioms.jsonl",
}

type Option func(opts *options)

// 配置日志器
func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

// 配置输出根目录，json/与txt/子目录建在其下
func WithOutDir(outDir string) Option {
	return func(opts *options) {
		opts.outDir = outDir
	}
}

// 配置汇总语料文件名
func WithCorpusName(name string) Option {
	return func(opts *options) {
		opts.corpusName = name
	}
}
